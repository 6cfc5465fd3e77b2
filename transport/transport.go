//
//  UI client for privateLINE Connect Desktop
//  https://github.com/swapnilsparsh/devsVPN
//
//  Copyright (c) 2025 privateLINE, LLC.
//
//  This file is part of the privateLINE Connect Desktop.
//
//  The privateLINE Connect Desktop is free software: you can redistribute it and/or
//  modify it under the terms of the GNU General Public License as published by the Free
//  Software Foundation, either version 3 of the License, or (at your option) any later version.
//
//  The privateLINE Connect Desktop is distributed in the hope that it will be useful,
//  but WITHOUT ANY WARRANTY; without even the implied warranty of MERCHANTABILITY
//  or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for more
//  details.
//
//  You should have received a copy of the GNU General Public License
//  along with the privateLINE Connect Desktop. If not, see <https://www.gnu.org/licenses/>.
//

// Package transport opens the byte stream to the daemon.
package transport

import (
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/swapnilsparsh/devsVPN/uiclient/config"
)

// Dialer opens a stream to the daemon listening on host:port
type Dialer interface {
	Dial(ctx context.Context, host string, port int) (io.ReadWriteCloser, error)
}

// New returns the dialer selected by the configuration
func New(cfg config.Config) (Dialer, error) {
	switch cfg.Transport {
	case config.TransportTCP, "":
		return &TCPDialer{Timeout: cfg.Timeouts.Dial}, nil
	case config.TransportWebSocket:
		return &WebSocketDialer{Timeout: cfg.Timeouts.Dial, Port: cfg.WebSocketPort}, nil
	}
	return nil, fmt.Errorf("unsupported transport '%s'", cfg.Transport)
}

// TCPDialer - plain TCP connection to the daemon on the loopback interface
type TCPDialer struct {
	Timeout time.Duration
}

func (d *TCPDialer) Dial(ctx context.Context, host string, port int) (io.ReadWriteCloser, error) {
	nd := net.Dialer{Timeout: d.Timeout}
	conn, err := nd.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, err
	}
	if tcp, ok := conn.(*net.TCPConn); ok {
		tcp.SetNoDelay(true)
	}
	return conn, nil
}
