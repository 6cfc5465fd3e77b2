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
	"time"

	"github.com/swapnilsparsh/devsVPN/uiclient/protocol/types"
)

const pingSweepKey = "PingServers"

// PingServers asks the daemon to ping all servers; results are stored in the server catalog.
// Only one sweep runs at a time: concurrent callers wait for the sweep in progress and share its result.
func (c *Client) PingServers(ctx context.Context) error {
	ch := c.pingGroup.DoChan(pingSweepKey, func() (interface{}, error) {
		c.metrics.pingSweeps.WithLabelValues("new").Inc()

		c.store.SetPingingServers(true)
		defer c.store.SetPingingServers(false)

		req := &types.PingServers{RetryCount: c.cfg.Ping.RetryCount, TimeOutMs: c.cfg.Ping.TimeoutMs}
		// the sweep is shared: it must not be cancelled by the caller that started it
		_, err := c.sendRecv(context.WithoutCancel(ctx), req, c.pingSweepTimeout(), "PingServersResp")
		return nil, err
	})

	select {
	case res := <-ch:
		if res.Shared {
			c.metrics.pingSweeps.WithLabelValues("shared").Inc()
		}
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) pingSweepTimeout() time.Duration {
	sweep := time.Duration(c.cfg.Ping.RetryCount*c.cfg.Ping.TimeoutMs)*time.Millisecond + 10*time.Second
	if sweep < c.cfg.Timeouts.DefaultResponse {
		return sweep
	}
	return c.cfg.Timeouts.DefaultResponse
}
