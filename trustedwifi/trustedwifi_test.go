// Copyright (c) 2025 privateLINE, LLC.

package trustedwifi

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swapnilsparsh/devsVPN/uiclient/protocol/types"
	"github.com/swapnilsparsh/devsVPN/uiclient/store"
	"github.com/swapnilsparsh/devsVPN/uiclient/vpn"
)

type fakeController struct {
	st *store.Store

	mu    sync.Mutex
	calls []string
}

func (c *fakeController) record(call string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
}

func (c *fakeController) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func (c *fakeController) Connect(ctx context.Context, entryGateway, exitGateway string) error {
	c.record("connect")
	c.st.SetConnectionState(vpn.CONNECTING)
	return nil
}

func (c *fakeController) Disconnect(ctx context.Context) error {
	c.record("disconnect")
	c.st.SetDisconnected("")
	return nil
}

func (c *fakeController) Resume(ctx context.Context) error {
	c.record("resume")
	return nil
}

func (c *fakeController) EnableFirewall(ctx context.Context, enable bool) error {
	if enable {
		c.record("firewall on")
	} else {
		c.record("firewall off")
	}
	c.st.SetFirewall(types.KillSwitchStatus{IsEnabled: enable})
	return nil
}

func loggedInStore() *store.Store {
	st := store.New()
	st.SetSession(store.Session{AccountID: "a1", Session: "token"})
	return st
}

func trusted(v bool) *bool { return &v }

func withWifi(st *store.Store, fn func(w *store.WifiSettings)) {
	st.UpdateSettings(func(s *store.Settings) { fn(&s.Wifi) })
}

func TestCanAutoConnectForCurrentSSID(t *testing.T) {
	st := store.New()
	p := NewPolicy(st)
	assert.False(t, p.CanAutoConnectForCurrentSSID(), "not logged in")

	st.SetSession(store.Session{Session: "token"})
	assert.True(t, p.CanAutoConnectForCurrentSSID())

	withWifi(st, func(w *store.WifiSettings) {
		w.TrustedNetworksControl = true
		w.Networks = []store.WifiNetwork{{SSID: "home", IsTrusted: true}, {SSID: "cafe", IsTrusted: false}}
	})
	assert.True(t, p.CanAutoConnectForCurrentSSID(), "no Wi-Fi")

	st.SetCurrentWiFi(store.WiFiInfo{SSID: "home"})
	assert.False(t, p.CanAutoConnectForCurrentSSID())

	st.SetCurrentWiFi(store.WiFiInfo{SSID: "cafe"})
	assert.True(t, p.CanAutoConnectForCurrentSSID())

	st.SetCurrentWiFi(store.WiFiInfo{SSID: "home"})
	withWifi(st, func(w *store.WifiSettings) { w.Actions.TrustedDisconnectVpn = false })
	assert.True(t, p.CanAutoConnectForCurrentSSID())

	withWifi(st, func(w *store.WifiSettings) {
		w.Actions.TrustedDisconnectVpn = true
		w.TrustedNetworksControl = false
	})
	assert.True(t, p.CanAutoConnectForCurrentSSID())
}

func TestTrustedNetwork(t *testing.T) {
	st := loggedInStore()
	st.SetConnectionState(vpn.CONNECTED)
	st.SetFirewall(types.KillSwitchStatus{IsEnabled: true})
	withWifi(st, func(w *store.WifiSettings) {
		w.TrustedNetworksControl = true
		w.Networks = []store.WifiNetwork{{SSID: "home", IsTrusted: true}}
	})
	ctrl := &fakeController{st: st}
	m := NewMonitor(st, ctrl)

	st.SetCurrentWiFi(store.WiFiInfo{SSID: "home"})
	applied, err := m.ProcessWifiChange(context.Background())
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, []string{"disconnect", "firewall off"}, ctrl.Calls())

	// the same rule is not applied again for the same network
	st.SetConnectionState(vpn.CONNECTED)
	applied, err = m.ProcessWifiChange(context.Background())
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Len(t, ctrl.Calls(), 2)
}

func TestUntrustedNetwork(t *testing.T) {
	st := loggedInStore()
	withWifi(st, func(w *store.WifiSettings) {
		w.TrustedNetworksControl = true
		w.DefaultTrustStatusTrusted = trusted(false)
	})
	ctrl := &fakeController{st: st}
	m := NewMonitor(st, ctrl)

	st.SetCurrentWiFi(store.WiFiInfo{SSID: "airport"})
	applied, err := m.ProcessWifiChange(context.Background())
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, []string{"resume", "firewall on", "connect"}, ctrl.Calls())
}

func TestTrustStatusChangeReapplies(t *testing.T) {
	st := loggedInStore()
	st.SetConnectionState(vpn.CONNECTED)
	st.SetFirewall(types.KillSwitchStatus{IsEnabled: true})
	withWifi(st, func(w *store.WifiSettings) {
		w.TrustedNetworksControl = true
		w.Networks = []store.WifiNetwork{{SSID: "office", IsTrusted: false}}
	})
	ctrl := &fakeController{st: st}
	m := NewMonitor(st, ctrl)

	st.SetCurrentWiFi(store.WiFiInfo{SSID: "office"})
	applied, err := m.ProcessWifiChange(context.Background())
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Empty(t, ctrl.Calls(), "already connected with the firewall on")

	withWifi(st, func(w *store.WifiSettings) { w.Networks[0].IsTrusted = true })
	applied, err = m.ProcessWifiChange(context.Background())
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, []string{"disconnect", "firewall off"}, ctrl.Calls())
}

func TestInsecureNetwork(t *testing.T) {
	st := loggedInStore()
	withWifi(st, func(w *store.WifiSettings) { w.ConnectVPNOnInsecureNetwork = true })
	ctrl := &fakeController{st: st}
	m := NewMonitor(st, ctrl)

	st.SetCurrentWiFi(store.WiFiInfo{SSID: "free", IsInsecureNetwork: true})
	applied, err := m.ProcessWifiChange(context.Background())
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, []string{"connect"}, ctrl.Calls())

	st.SetConnectionState(vpn.DISCONNECTED)
	applied, _ = m.ProcessWifiChange(context.Background())
	assert.False(t, applied, "same network")

	// secure network resets the last rule
	st.SetCurrentWiFi(store.WiFiInfo{SSID: "free"})
	applied, _ = m.ProcessWifiChange(context.Background())
	assert.False(t, applied)
	st.SetCurrentWiFi(store.WiFiInfo{SSID: "free", IsInsecureNetwork: true})
	applied, _ = m.ProcessWifiChange(context.Background())
	assert.True(t, applied)
	assert.Equal(t, []string{"connect", "connect"}, ctrl.Calls())
}

func TestNotLoggedIn(t *testing.T) {
	st := store.New()
	withWifi(st, func(w *store.WifiSettings) { w.ConnectVPNOnInsecureNetwork = true })
	ctrl := &fakeController{st: st}
	m := NewMonitor(st, ctrl)

	st.SetCurrentWiFi(store.WiFiInfo{SSID: "free", IsInsecureNetwork: true})
	applied, err := m.ProcessWifiChange(context.Background())
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Empty(t, ctrl.Calls())
}

func TestMonitorRun(t *testing.T) {
	st := loggedInStore()
	withWifi(st, func(w *store.WifiSettings) { w.ConnectVPNOnInsecureNetwork = true })
	ctrl := &fakeController{st: st}
	m := NewMonitor(st, ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	require.Eventually(t, func() bool {
		st.SetCurrentWiFi(store.WiFiInfo{SSID: "free", IsInsecureNetwork: true})
		return len(ctrl.Calls()) > 0
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, []string{"connect"}, ctrl.Calls())

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
