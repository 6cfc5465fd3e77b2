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

package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/swapnilsparsh/devsVPN/uiclient/logger"
)

var log *logger.Logger

var servicePortFile string

func init() {
	log = logger.NewLogger("pltfm")
	doInitConstants()
}

// ServicePortFile returns the OS default location of the file where the daemon publishes its port and secret
func ServicePortFile() string {
	return servicePortFile
}

// ConnectionParams - what is needed to open an authenticated connection to the daemon
type ConnectionParams struct {
	Host   string
	Port   int
	Secret string // hex
}

// ParsePortFile parses the "<port>:<secretHex>" content of the port file
func ParsePortFile(data []byte) (port int, secret string, err error) {
	text := strings.TrimSpace(string(data))
	portStr, secret, found := strings.Cut(text, ":")
	if !found {
		return 0, "", fmt.Errorf("unexpected port file format")
	}
	port, err = strconv.Atoi(strings.TrimSpace(portStr))
	if err != nil || port <= 0 || port > 65535 {
		return 0, "", fmt.Errorf("bad port value '%s' in port file", portStr)
	}
	secret = strings.TrimSpace(secret)
	if len(secret) == 0 {
		return 0, "", fmt.Errorf("secret is not defined in port file")
	}
	if _, err := strconv.ParseUint(secret, 16, 64); err != nil {
		return 0, "", fmt.Errorf("bad secret value in port file: %w", err)
	}
	return port, secret, nil
}

// PortFile - connection parameters provider reading the daemon port file
type PortFile struct {
	Path string
	Host string
	// the file must be owned by root (ignored on Windows)
	RequireRootOwner bool
	// delay after a change before notifying (the daemon writes the file in several steps)
	Debounce time.Duration
}

// NewPortFile returns a provider for 'path'. Empty path - the OS default location
// which must be owned by root.
func NewPortFile(path, host string) *PortFile {
	ret := &PortFile{Path: path, Host: host, Debounce: 500 * time.Millisecond}
	if len(ret.Path) == 0 {
		ret.Path = ServicePortFile()
		ret.RequireRootOwner = true
	}
	return ret
}

// ConnectionParams reads the current port and secret
func (p *PortFile) ConnectionParams() (ConnectionParams, error) {
	if p.RequireRootOwner {
		if err := checkOwnedByRoot(p.Path); err != nil {
			return ConnectionParams{}, err
		}
	}
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return ConnectionParams{}, fmt.Errorf("unable to read the daemon port file (is the daemon running?): %w", err)
	}
	port, secret, err := ParsePortFile(data)
	if err != nil {
		return ConnectionParams{}, fmt.Errorf("'%s': %w", p.Path, err)
	}
	return ConnectionParams{Host: p.Host, Port: port, Secret: secret}, nil
}

// Watch notifies when the port file is written or re-created.
// The channel is closed when the context is done.
func (p *PortFile) Watch(ctx context.Context) (<-chan struct{}, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to start port file monitoring (fsnotify error): %w", err)
	}
	// the daemon removes the file on exit, so the folder is monitored
	dir := filepath.Dir(p.Path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to start file-change monitoring for '%s' (fsnotify error): %w", dir, err)
	}

	changed := make(chan struct{}, 1)
	go func() {
		log.Info("Port file monitoring started: ", p.Path)
		defer func() {
			log.Info("Port file monitoring stopped")
			w.Close()
			close(changed)
		}()

		var debounce <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return

			case evt, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != filepath.Clean(p.Path) {
					continue
				}
				if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) {
					continue
				}
				debounce = time.After(p.Debounce)

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warning(fmt.Errorf("port file monitoring: %w", err))

			case <-debounce:
				debounce = nil
				select {
				case changed <- struct{}{}:
				default:
				}
			}
		}
	}()
	return changed, nil
}
