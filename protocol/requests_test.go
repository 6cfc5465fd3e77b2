// Copyright (c) 2025 privateLINE, LLC.

package protocol

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swapnilsparsh/devsVPN/uiclient/protocol/types"
	"github.com/swapnilsparsh/devsVPN/uiclient/store"
	"github.com/swapnilsparsh/devsVPN/uiclient/vpn"
)

func TestLogin(t *testing.T) {
	d := newFakeDaemon(t)
	d.handle("SessionNew", func(req fakeRequest) {
		var r types.SessionNew
		if err := json.Unmarshal(req.Raw, &r); err != nil || r.Password != "secret" {
			d.reply(req, &types.SessionNewResp{APIStatus: 401, APIErrorMessage: "Invalid credentials"})
			return
		}
		d.reply(req, &types.SessionNewResp{
			APIStatus: 200,
			Session:   types.SessionResp{AccountID: r.EmailOrAcctID, Session: "token", DeviceName: r.DeviceName},
			Account:   types.AccountStatus{Active: true, CurrentPlan: "pro"},
		})
	})
	c := connectedClient(t, d, Options{})

	resp, err := c.Login(context.Background(), "a-1234-5678", "wrong", "laptop")
	require.NoError(t, err)
	assert.Equal(t, 401, resp.APIStatus)
	assert.Equal(t, "Invalid credentials", resp.APIErrorMessage)
	assert.False(t, c.Store().IsLoggedIn())

	resp, err = c.Login(context.Background(), "a-1234-5678", "secret", "laptop")
	require.NoError(t, err)
	assert.Equal(t, 200, resp.APIStatus)
	assert.True(t, c.Store().IsLoggedIn())
	assert.Equal(t, "laptop", c.Store().Session().DeviceName)
	assert.True(t, c.Store().Settings().IsExpectedAccountToBeLoggedIn)

	var req types.SessionNew
	require.NoError(t, json.Unmarshal(d.waitRequest("SessionNew", 2).Raw, &req))
	assert.True(t, req.StableDeviceID)
}

func TestLogout(t *testing.T) {
	d := newFakeDaemon(t)
	c := connectedClient(t, d, Options{})
	c.Store().SetSession(store.Session{AccountID: "a1", Session: "token"})
	c.Store().UpdateSettings(func(s *store.Settings) { s.IsMultiHop = true })

	require.NoError(t, c.Logout(context.Background(), true, true, true))
	assert.False(t, c.Store().IsLoggedIn())
	assert.False(t, c.Store().Settings().IsMultiHop, "settings reset")
	assert.False(t, c.Store().Settings().IsExpectedAccountToBeLoggedIn)

	var req types.SessionDelete
	require.NoError(t, json.Unmarshal(d.waitRequest("SessionDelete", 1).Raw, &req))
	assert.True(t, req.NeedToResetSettings)
	assert.True(t, req.NeedToDisableFirewall)
}

func TestLogoutFailureKeepsSession(t *testing.T) {
	d := newFakeDaemon(t)
	d.handle("SessionDelete", func(req fakeRequest) {
		d.reply(req, &types.ErrorResp{ErrorMessage: "backend unreachable"})
	})
	c := connectedClient(t, d, Options{})
	c.Store().SetSession(store.Session{AccountID: "a1", Session: "token"})

	assert.Error(t, c.Logout(context.Background(), false, false, false))
	assert.True(t, c.Store().IsLoggedIn())
	assert.True(t, c.Store().Settings().IsExpectedAccountToBeLoggedIn)
}

func TestKillSwitchRequests(t *testing.T) {
	d := newFakeDaemon(t)
	d.handle("KillSwitchGetStatus", func(req fakeRequest) {
		d.reply(req, &types.KillSwitchStatusResp{KillSwitchStatus: types.KillSwitchStatus{IsEnabled: true, IsAllowLAN: true}})
	})
	c := connectedClient(t, d, Options{})

	fw, err := c.KillSwitchGetStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, fw.IsEnabled)
	assert.True(t, fw.IsAllowLAN)

	require.NoError(t, c.KillSwitchSetAllowLAN(context.Background(), false))
	var allowLAN types.KillSwitchSetAllowLAN
	require.NoError(t, json.Unmarshal(d.waitRequest("KillSwitchSetAllowLAN", 1).Raw, &allowLAN))
	assert.False(t, allowLAN.AllowLAN)
	assert.True(t, allowLAN.Synchronously)

	c.Store().SetPauseState(vpn.Paused)
	assert.ErrorIs(t, c.KillSwitchSetIsPersistent(context.Background(), true), ErrFirewallForbiddenWhilePaused)
	assert.Empty(t, d.requestsOf("KillSwitchSetIsPersistent"))
}

func TestRequestsNotConnected(t *testing.T) {
	d := newFakeDaemon(t)
	c := newTestClient(t, d, Options{})

	_, err := c.KillSwitchGetStatus(context.Background())
	assert.ErrorIs(t, err, ErrNotConnected)
	_, err = c.Login(context.Background(), "a-1234-5678", "secret", "")
	assert.ErrorIs(t, err, ErrNotConnected)
}
