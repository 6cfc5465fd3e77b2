// Copyright (c) 2025 privateLINE, LLC.

package protocol

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swapnilsparsh/devsVPN/uiclient/protocol/types"
	"github.com/swapnilsparsh/devsVPN/uiclient/vpn"
)

// vpnConnectedClient returns a client whose VPN connection is established
// and the firewall status is known
func vpnConnectedClient(t *testing.T, d *fakeDaemon, fw types.KillSwitchStatus) *Client {
	c := connectedClient(t, d, Options{})

	d.notify(&types.KillSwitchStatusResp{KillSwitchStatus: fw})
	d.notify(&types.ConnectedResp{VpnType: vpn.WireGuard, ServerIP: "10.0.0.1", TimeSecFrom1970: time.Now().Unix(), IsCanPause: true})
	require.Eventually(t, func() bool {
		_, known := c.Store().Firewall()
		return known && c.Store().ConnectionState() == vpn.CONNECTED
	}, 5*time.Second, 5*time.Millisecond)
	return c
}

func killSwitchSetEnabled(t *testing.T, d *fakeDaemon, n int) bool {
	var r types.KillSwitchSetEnabled
	require.NoError(t, json.Unmarshal(d.waitRequest("KillSwitchSetEnabled", n).Raw, &r))
	return r.IsEnabled
}

func TestPauseResume(t *testing.T) {
	d := newFakeDaemon(t)
	c := vpnConnectedClient(t, d, types.KillSwitchStatus{IsEnabled: true})

	require.NoError(t, c.Pause(context.Background(), 90*time.Second))
	assert.Equal(t, vpn.Paused, c.Store().PauseState())
	assert.WithinDuration(t, time.Now().Add(90*time.Second), c.Store().PauseConnectionTill(), 5*time.Second)

	var pause types.PauseConnection
	require.NoError(t, json.Unmarshal(d.waitRequest("PauseConnection", 1).Raw, &pause))
	assert.Equal(t, uint32(90), pause.Duration)
	assert.False(t, killSwitchSetEnabled(t, d, 1))

	assert.ErrorIs(t, c.EnableFirewall(context.Background(), true), ErrFirewallForbiddenWhilePaused)

	// pausing again only moves the deadline
	require.NoError(t, c.Pause(context.Background(), time.Hour))
	assert.Len(t, d.requestsOf("PauseConnection"), 1)
	assert.WithinDuration(t, time.Now().Add(time.Hour), c.Store().PauseConnectionTill(), 5*time.Second)

	require.NoError(t, c.Resume(context.Background()))
	assert.Equal(t, vpn.Resumed, c.Store().PauseState())
	assert.True(t, c.Store().PauseConnectionTill().IsZero())
	d.waitRequest("ResumeConnection", 1)

	// the firewall was enabled before the pause
	assert.True(t, killSwitchSetEnabled(t, d, 2))
}

func TestResumeKeepsFirewallDisabled(t *testing.T) {
	d := newFakeDaemon(t)
	c := vpnConnectedClient(t, d, types.KillSwitchStatus{IsEnabled: false})

	require.NoError(t, c.Pause(context.Background(), time.Minute))
	require.NoError(t, c.Resume(context.Background()))

	assert.Never(t, func() bool { return len(d.requestsOf("KillSwitchSetEnabled")) > 1 }, 200*time.Millisecond, 10*time.Millisecond)
	assert.False(t, killSwitchSetEnabled(t, d, 1))
}

func TestPauseFailureReverts(t *testing.T) {
	d := newFakeDaemon(t)
	d.handle("PauseConnection", func(req fakeRequest) {
		d.reply(req, &types.ErrorResp{ErrorMessage: "pause is not supported"})
	})
	c := vpnConnectedClient(t, d, types.KillSwitchStatus{IsEnabled: true})

	var de *DaemonError
	require.ErrorAs(t, c.Pause(context.Background(), time.Minute), &de)
	assert.Equal(t, vpn.Resumed, c.Store().PauseState())
	assert.True(t, c.Store().PauseConnectionTill().IsZero())
	assert.Empty(t, d.requestsOf("KillSwitchSetEnabled"))
}

func TestResumeFailureReverts(t *testing.T) {
	d := newFakeDaemon(t)
	d.handle("ResumeConnection", func(req fakeRequest) {
		d.reply(req, &types.ErrorResp{ErrorMessage: "failed"})
	})
	c := vpnConnectedClient(t, d, types.KillSwitchStatus{IsEnabled: true})

	require.NoError(t, c.Pause(context.Background(), time.Minute))
	assert.Error(t, c.Resume(context.Background()))
	assert.Equal(t, vpn.Paused, c.Store().PauseState())
}

func TestPauseNotConnected(t *testing.T) {
	d := newFakeDaemon(t)
	c := connectedClient(t, d, Options{})

	require.NoError(t, c.Pause(context.Background(), time.Minute))
	assert.Equal(t, vpn.Resumed, c.Store().PauseState())
	assert.Empty(t, d.requestsOf("PauseConnection"))
}

func TestFirewallPersistentMode(t *testing.T) {
	d := newFakeDaemon(t)
	c := vpnConnectedClient(t, d, types.KillSwitchStatus{IsEnabled: true, IsPersistent: true})

	require.NoError(t, c.EnableFirewall(context.Background(), false))
	assert.Empty(t, d.requestsOf("KillSwitchSetEnabled"))

	// persistent firewall is not touched by pause
	require.NoError(t, c.Pause(context.Background(), time.Minute))
	assert.Empty(t, d.requestsOf("KillSwitchSetEnabled"))
}

func TestReconnectWhilePausedReappliesPause(t *testing.T) {
	d := newFakeDaemon(t)
	c := vpnConnectedClient(t, d, types.KillSwitchStatus{IsEnabled: true})

	require.NoError(t, c.Pause(context.Background(), time.Hour))
	d.waitRequest("PauseConnection", 1)

	// the daemon reconnected by itself while paused
	d.notify(&types.ConnectedResp{VpnType: vpn.WireGuard, ServerIP: "10.0.0.1", TimeSecFrom1970: time.Now().Unix()})

	var pause types.PauseConnection
	require.NoError(t, json.Unmarshal(d.waitRequest("PauseConnection", 2).Raw, &pause))
	assert.InDelta(t, 3600, pause.Duration, 10)
	require.Eventually(t, func() bool { return c.Store().PauseState() == vpn.Paused }, 5*time.Second, 5*time.Millisecond)
}
