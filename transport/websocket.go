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

package transport

import (
	"bytes"
	"context"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

// WebSocketDialer connects to the daemon WebSocket endpoint.
// Every message carries one JSON record.
type WebSocketDialer struct {
	Timeout time.Duration
	// overrides the port passed to Dial when not 0
	Port int
}

func (d *WebSocketDialer) Dial(ctx context.Context, host string, port int) (io.ReadWriteCloser, error) {
	if d.Port > 0 {
		port = d.Port
	}
	dialer := ws.Dialer{Timeout: d.Timeout}
	conn, br, _, err := dialer.Dial(ctx, "ws://"+net.JoinHostPort(host, strconv.Itoa(port))+"/")
	if err != nil {
		return nil, err
	}

	ret := &wsStream{conn: conn, rw: struct {
		io.Reader
		io.Writer
	}{conn, conn}}
	if br != nil {
		// the server sent data right after the handshake
		ret.rw = struct {
			io.Reader
			io.Writer
		}{br, conn}
	}
	return ret, nil
}

// wsStream presents WebSocket messages as a stream of newline-terminated records
type wsStream struct {
	conn net.Conn
	rw   io.ReadWriter

	pending []byte

	writeMu sync.Mutex
}

func (s *wsStream) Read(p []byte) (int, error) {
	for len(s.pending) == 0 {
		data, op, err := wsutil.ReadServerData(s.rw)
		if err != nil {
			return 0, err
		}
		if op != ws.OpText && op != ws.OpBinary {
			continue
		}
		if len(data) > 0 && data[len(data)-1] != '\n' {
			data = append(data, '\n')
		}
		s.pending = data
	}
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

// Write sends every newline-terminated record in 'p' as a separate text message
func (s *wsStream) Write(p []byte) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	for _, rec := range bytes.Split(p, []byte{'\n'}) {
		if len(rec) == 0 {
			continue
		}
		if err := wsutil.WriteClientMessage(s.rw, ws.OpText, rec); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

func (s *wsStream) Close() error {
	s.writeMu.Lock()
	wsutil.WriteClientMessage(s.rw, ws.OpClose, ws.NewCloseFrameBody(ws.StatusNormalClosure, ""))
	s.writeMu.Unlock()
	return s.conn.Close()
}
