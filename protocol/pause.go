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
	"errors"
	"math"
	"time"

	"github.com/swapnilsparsh/devsVPN/uiclient/protocol/types"
	"github.com/swapnilsparsh/devsVPN/uiclient/vpn"
)

// ErrFirewallForbiddenWhilePaused - the firewall can not be enabled until the connection is resumed
var ErrFirewallForbiddenWhilePaused = errors.New("please, resume connection first to enable Firewall")

// Pause pauses the VPN connection for 'duration'. Does nothing when not connected.
// Calling it while paused only moves the resume deadline.
func (c *Client) Pause(ctx context.Context, duration time.Duration) error {
	if c.store.ConnectionState() != vpn.CONNECTED {
		return nil
	}

	if c.store.PauseState() != vpn.Paused {
		if fw, _ := c.store.Firewall(); !fw.IsPersistent {
			c._isFirewallEnabledBeforePause.Store(fw.IsEnabled)
		}
		if err := c.applyPause(ctx, duration); err != nil {
			return err
		}
	}

	c.store.SetPauseConnectionTill(time.Now().Add(duration))
	return nil
}

func (c *Client) applyPause(ctx context.Context, duration time.Duration) error {
	if c.store.ConnectionState() != vpn.CONNECTED {
		return nil
	}

	seconds := math.Ceil(duration.Seconds())
	if seconds > math.MaxUint32 {
		seconds = math.MaxUint32
	}

	c.store.SetPauseState(vpn.Pausing)
	if _, err := c.sendRecv(ctx, &types.PauseConnection{Duration: uint32(seconds)}, 0); err != nil {
		c.store.SetPauseState(vpn.Resumed)
		return err
	}

	if err := c.EnableFirewall(ctx, false); err != nil {
		log.Warning("Failed to disable firewall on pause: ", err)
	}
	c.store.SetPauseState(vpn.Paused)
	c.goAsync("location refresh", func(ctx context.Context) error { return c.GeoLookup(ctx) })
	return nil
}

// Resume resumes a paused connection and restores the firewall state it had before the pause
func (c *Client) Resume(ctx context.Context) error {
	c.store.SetPauseConnectionTill(time.Time{})

	if c.store.ConnectionState() != vpn.CONNECTED || c.store.PauseState() == vpn.Resumed {
		return nil
	}

	c.store.SetPauseState(vpn.Resuming)
	if _, err := c.sendRecv(ctx, &types.ResumeConnection{}, 0); err != nil {
		c.store.SetPauseState(vpn.Paused)
		return err
	}
	c.store.SetPauseState(vpn.Resumed)

	defer c.goAsync("location refresh", func(ctx context.Context) error { return c.GeoLookup(ctx) })
	if c._isFirewallEnabledBeforePause.Load() {
		return c.EnableFirewall(ctx, true)
	}
	return nil
}

// EnableFirewall changes the firewall state. Ignored in persistent mode.
func (c *Client) EnableFirewall(ctx context.Context, enable bool) error {
	if fw, _ := c.store.Firewall(); fw.IsPersistent {
		log.Warning("Not allowed to change firewall state in Persistent mode")
		return nil
	}
	if enable && c.store.PauseState() != vpn.Resumed {
		return ErrFirewallForbiddenWhilePaused
	}
	_, err := c.sendRecv(ctx, &types.KillSwitchSetEnabled{IsEnabled: enable}, 0)
	return err
}
