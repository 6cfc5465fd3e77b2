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

package protocol

import (
	"context"
	"fmt"
	"strconv"

	"github.com/swapnilsparsh/devsVPN/uiclient/protocol/types"
	"github.com/swapnilsparsh/devsVPN/uiclient/store"
	"github.com/swapnilsparsh/devsVPN/uiclient/vpn"
)

// ConnectToDaemon opens a new connection to the daemon and performs the handshake.
// An existing connection is dropped first.
func (c *Client) ConnectToDaemon(ctx context.Context) (retErr error) {
	c.handshakeMu.Lock()
	defer c.handshakeMu.Unlock()

	defer func() {
		result := "ok"
		if retErr != nil {
			result = "error"
		}
		c.metrics.connectsTotal.WithLabelValues(result).Inc()
	}()

	c.store.SetConnectionState(vpn.DISCONNECTED)

	params, err := c.provider.ConnectionParams()
	if err != nil {
		c.setDaemonConnectionState(store.NotConnected)
		return log.ErrorFE("failed to get daemon connection parameters: %w", err)
	}
	if len(params.Host) == 0 {
		params.Host = c.cfg.DaemonHost
	}
	secret, err := types.BigUintFromHex(params.Secret)
	if err != nil {
		c.setDaemonConnectionState(store.NotConnected)
		return log.ErrorFE("bad daemon secret: %w", err)
	}

	if old := c.detachConnection(nil); old != nil {
		log.Info(old.logID(), "Dropping the previous connection")
		old.close()
	}

	log.Info("Connecting to the daemon (port ", strconv.Itoa(params.Port), ") ...")

	dialCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeouts.Dial)
	rw, err := c.dialer.Dial(dialCtx, params.Host, params.Port)
	cancel()
	if err != nil {
		c.setDaemonConnectionState(store.NotConnected)
		return log.ErrorE(&TransportError{Op: "dial", Err: err}, 0)
	}

	conn := &connection{id: c._lastConnID.Add(1), rw: rw}
	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()
	go c.readLoop(conn)

	failed := func(err error) error {
		if c.detachConnection(conn) != nil {
			conn.close()
		}
		c.setDaemonConnectionState(store.NotConnected)
		return err
	}

	hello := &types.Hello{
		Version:              c.cfg.ClientVersionString(),
		ClientType:           types.ClientUi,
		Secret:               secret,
		GetServersList:       true,
		GetStatus:            true,
		GetConfigParams:      true,
		GetSplitTunnelStatus: true,
		GetWiFiCurrentState:  true,
		KeepDaemonAlone:      true,
	}

	// the daemon sends the servers after HelloResp; register before Hello so it is not missed
	serversWaiter := newWaiter("Hello", 0, []string{"ServerListResp"})
	serversWaiter.connID = conn.id
	c.waiters.register(serversWaiter, c.cfg.Timeouts.ServersList)

	c.setDaemonConnectionState(store.Connecting)

	if _, err := c.sendRecvOn(ctx, conn, hello, c.cfg.Timeouts.Hello); err != nil {
		c.waiters.remove(serversWaiter)
		return failed(log.ErrorFE("handshake failed: %w", err))
	}

	if isOld, daemonVer := c.store.DaemonIsOldVersion(); isOld {
		c.waiters.remove(serversWaiter)
		return failed(log.ErrorE(&VersionError{DaemonVersion: daemonVer, MinRequired: c.cfg.MinRequiredDaemonVersion}, 0))
	}

	if _, err := c.waiters.wait(ctx, serversWaiter); err != nil {
		log.Warning("Servers list was not received after handshake: ", err)
	}

	c.setDaemonConnectionState(store.Connected)
	log.Info(conn.logID(), "Connected to the daemon")

	settings := c.store.Settings()
	if err := c.send(&types.SetPreference{Key: types.Prefs_IsEnableLogging, Value: strconv.FormatBool(settings.Logging)}); err != nil {
		log.Warning(err)
	}
	if err := c.send(&types.SetPreference{Key: types.Prefs_IsEnableObfsproxy, Value: strconv.FormatBool(settings.ConnectionUseObfsproxy)}); err != nil {
		log.Warning(err)
	}

	// runs after all messages already received are processed
	c.enqueue(queueItem{task: c.autoConnectOnLaunch})
	return nil
}

func (c *Client) autoConnectOnLaunch() {
	if c.autoConnect != nil {
		if !c.autoConnect.CanAutoConnectForCurrentSSID() {
			return
		}
	} else if !c.store.IsLoggedIn() {
		return
	}
	if !c.store.Settings().AutoConnectOnLaunch {
		return
	}
	if c.store.ConnectionState() != vpn.DISCONNECTED {
		return
	}

	log.Info("Auto-connecting on launch ...")
	go func() {
		if err := c.Connect(context.Background(), "", ""); err != nil {
			log.Error(fmt.Errorf("auto-connect failed: %w", err))
		}
	}()
}

// WatchConnectionParams reconnects each time the daemon publishes new connection parameters.
// Blocks until the context is done. Requires a provider implementing ConnectionParamsWatcher.
func (c *Client) WatchConnectionParams(ctx context.Context) error {
	watcher, ok := c.provider.(ConnectionParamsWatcher)
	if !ok {
		return fmt.Errorf("connection parameters provider does not support change notifications")
	}
	changed, err := watcher.Watch(ctx)
	if err != nil {
		return err
	}
	for range changed {
		log.Info("Daemon connection parameters changed. Reconnecting ...")
		if err := c.ConnectToDaemon(ctx); err != nil {
			log.Warning(fmt.Errorf("reconnect failed: %w", err))
		}
	}
	return ctx.Err()
}
