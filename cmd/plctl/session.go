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

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/swapnilsparsh/devsVPN/uiclient/config"
	"github.com/swapnilsparsh/devsVPN/uiclient/protocol"
	"github.com/swapnilsparsh/devsVPN/uiclient/store"
)

func defaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "privateline-connect", "plctl-settings.json")
}

func loadConfig() (config.Config, error) {
	if len(configPath) == 0 {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

func newStore() *store.Store {
	st := store.New()
	if len(settingsPath) == 0 {
		return st
	}
	if err := st.LoadSettings(settingsPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warning(err)
	}
	return st
}

// session - a client connected to the daemon for the duration of one command
type session struct {
	cfg    config.Config
	store  *store.Store
	client *protocol.Client
}

// openSession connects to the daemon. 'setup' may adjust the client options.
func openSession(ctx context.Context, setup ...func(o *protocol.Options)) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if len(logPath) == 0 && len(cfg.LogFile) > 0 {
		logPath = cfg.LogFile
		if err := initLogFile(); err != nil {
			return nil, err
		}
	}

	st := newStore()
	opts := protocol.Options{Config: &cfg, Store: st}
	for _, fn := range setup {
		fn(&opts)
	}

	c, err := protocol.New(opts)
	if err != nil {
		return nil, err
	}
	if err := c.ConnectToDaemon(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to connect to the daemon: %w", err)
	}
	return &session{cfg: cfg, store: st, client: c}, nil
}

func (s *session) Close() {
	if len(settingsPath) > 0 {
		if err := s.store.SaveSettings(settingsPath); err != nil {
			log.Warning(err)
		}
	}
	s.client.Close()
}

// waitFor blocks until 'done' returns true (checked on each state change) or the timeout expires
func waitFor(ctx context.Context, st *store.Store, timeout time.Duration, done func() bool) error {
	changed := make(chan struct{}, 1)
	unsubscribe := st.Subscribe(func(store.Mutation) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	for !done() {
		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
