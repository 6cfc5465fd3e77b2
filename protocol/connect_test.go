// Copyright (c) 2025 privateLINE, LLC.

package protocol

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	api_types "github.com/swapnilsparsh/devsVPN/uiclient/api/types"
	"github.com/swapnilsparsh/devsVPN/uiclient/protocol/types"
	"github.com/swapnilsparsh/devsVPN/uiclient/store"
	"github.com/swapnilsparsh/devsVPN/uiclient/vpn"
)

func decodeConnect(t *testing.T, req fakeRequest) types.Connect {
	var c types.Connect
	require.NoError(t, json.Unmarshal(req.Raw, &c))
	return c
}

func entryHost(t *testing.T, c types.Connect) string {
	require.NotNil(t, c.WireGuardParameters)
	require.NotEmpty(t, c.WireGuardParameters.EntryVpnServer.Hosts)
	return c.WireGuardParameters.EntryVpnServer.Hosts[0].Host
}

func openvpnServer(gw, country, host string) api_types.OpenvpnServerInfo {
	return api_types.OpenvpnServerInfo{
		ServerBase: api_types.ServerBase{Gateway: gw, CountryCode: country},
		Hosts:      []api_types.OpenVPNServerHostInfo{{Hostname: gw, Host: host}},
	}
}

func TestConnectExplicitServer(t *testing.T) {
	d := newFakeDaemon(t)
	c := connectedClient(t, d, Options{})

	require.NoError(t, c.Connect(context.Background(), "de.gw.privateline.io", ""))
	assert.Equal(t, vpn.CONNECTING, c.Store().ConnectionState())

	req := decodeConnect(t, d.waitRequest("Connect", 1))
	assert.Equal(t, "10.0.0.2", entryHost(t, req))
	assert.Equal(t, vpn.WireGuard, req.VpnType)
	assert.True(t, req.FirewallOn)
	assert.True(t, req.FirewallOnDuringConnection)
	assert.False(t, req.IPv6Only)
	assert.Nil(t, req.WireGuardParameters.MultihopExitServer)
	assert.Nil(t, req.OpenVpnParameters)

	assert.Error(t, c.Connect(context.Background(), "xx.gw.privateline.io", ""))
	assert.Equal(t, vpn.DISCONNECTED, c.Store().ConnectionState())
}

func TestConnectFastestUsesKnownPings(t *testing.T) {
	d := newFakeDaemon(t)
	c := connectedClient(t, d, Options{})
	c.Store().ApplyPingResults([]types.PingResultType{{Host: "10.0.0.1", Ping: 80}, {Host: "10.0.0.3", Ping: 20}})

	require.NoError(t, c.Connect(context.Background(), "", ""))

	req := decodeConnect(t, d.waitRequest("Connect", 1))
	assert.Equal(t, "10.0.0.3", entryHost(t, req))
	assert.Empty(t, d.requestsOf("PingServers"))
}

func TestConnectFastestPingsFirst(t *testing.T) {
	d := newFakeDaemon(t)
	d.handle("PingServers", func(req fakeRequest) {
		d.reply(req, &types.PingServersResp{PingResults: []types.PingResultType{{Host: "10.0.0.2", Ping: 15}, {Host: "10.0.0.1", Ping: 40}}})
	})
	c := connectedClient(t, d, Options{})

	require.NoError(t, c.Connect(context.Background(), "", ""))

	d.waitRequest("PingServers", 1)
	req := decodeConnect(t, d.waitRequest("Connect", 1))
	assert.Equal(t, "10.0.0.2", entryHost(t, req))
}

func TestConnectSupersededIsNotSent(t *testing.T) {
	d := newFakeDaemon(t)
	pings := make(chan fakeRequest, 1)
	d.handle("PingServers", func(req fakeRequest) { pings <- req })
	c := connectedClient(t, d, Options{})

	// the first request waits for the ping results
	firstDone := make(chan error, 1)
	go func() { firstDone <- c.Connect(context.Background(), "", "") }()

	var ping fakeRequest
	select {
	case ping = <-pings:
	case <-time.After(5 * time.Second):
		t.Fatal("no PingServers request")
	}

	require.NoError(t, c.Connect(context.Background(), "us.gw.privateline.io", ""))
	d.waitRequest("Connect", 1)

	d.reply(ping, &types.PingServersResp{PingResults: []types.PingResultType{{Host: "10.0.0.1", Ping: 10}}})
	select {
	case err := <-firstDone:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("superseded Connect did not return")
	}

	assert.Never(t, func() bool { return len(d.requestsOf("Connect")) > 1 }, 200*time.Millisecond, 10*time.Millisecond)
	req := decodeConnect(t, d.requestsOf("Connect")[0])
	assert.Equal(t, "10.0.0.3", entryHost(t, req))
	assert.Equal(t, vpn.CONNECTING, c.Store().ConnectionState())
}

func TestConnectMultiHop(t *testing.T) {
	d := newFakeDaemon(t)
	c := connectedClient(t, d, Options{})
	c.Store().UpdateSettings(func(s *store.Settings) { s.IsMultiHop = true })

	require.NoError(t, c.Connect(context.Background(), "ch.gw.privateline.io", "us.gw.privateline.io"))

	req := decodeConnect(t, d.waitRequest("Connect", 1))
	assert.Equal(t, "10.0.0.1", entryHost(t, req))
	require.NotNil(t, req.WireGuardParameters.MultihopExitServer)
	assert.Equal(t, "us", req.WireGuardParameters.MultihopExitServer.ExitSrvID)
	require.Len(t, req.WireGuardParameters.MultihopExitServer.Hosts, 1)
	assert.Equal(t, "10.0.0.3", req.WireGuardParameters.MultihopExitServer.Hosts[0].Host)

	// exit chosen randomly from another country
	require.NoError(t, c.Connect(context.Background(), "ch.gw.privateline.io", ""))
	req = decodeConnect(t, d.waitRequest("Connect", 2))
	require.NotNil(t, req.WireGuardParameters.MultihopExitServer)
	assert.NotEqual(t, "ch", req.WireGuardParameters.MultihopExitServer.ExitSrvID)
}

func TestConnectOpenVPN(t *testing.T) {
	d := newFakeDaemon(t)
	servers := testServers()
	servers.OpenvpnServers = append(servers.OpenvpnServers, openvpnServer("de.gw.privateline.io", "DE", "10.1.0.2"))
	d.mu.Lock()
	d.servers = servers
	d.mu.Unlock()

	c := connectedClient(t, d, Options{})
	c.Store().UpdateSettings(func(s *store.Settings) {
		s.VpnType = vpn.OpenVPN
		s.OpenVPNPort = store.PortSetting{Port: 443, Protocol: 1}
		s.OvpnProxyType = "socks"
		s.OvpnProxyServer = "192.168.1.1"
		s.OvpnProxyPort = 1080
	})

	require.NoError(t, c.Connect(context.Background(), "de.gw.privateline.io", ""))

	req := decodeConnect(t, d.waitRequest("Connect", 1))
	assert.Equal(t, vpn.OpenVPN, req.VpnType)
	assert.Nil(t, req.WireGuardParameters)
	require.NotNil(t, req.OpenVpnParameters)
	require.Len(t, req.OpenVpnParameters.EntryVpnServer.Hosts, 1)
	assert.Equal(t, "10.1.0.2", req.OpenVpnParameters.EntryVpnServer.Hosts[0].Host)
	assert.Equal(t, 443, req.OpenVpnParameters.Port.Port)
	assert.Equal(t, 1, req.OpenVpnParameters.Port.Protocol)
	assert.Equal(t, "socks", req.OpenVpnParameters.ProxyType)
	assert.Equal(t, 1080, req.OpenVpnParameters.ProxyPort)
}

func TestConnectDNS(t *testing.T) {
	d := newFakeDaemon(t)
	servers := testServers()
	servers.Config.Antitracker.Default.IP = "10.0.254.2"
	d.mu.Lock()
	d.servers = servers
	d.mu.Unlock()
	c := connectedClient(t, d, Options{})

	c.Store().UpdateSettings(func(s *store.Settings) {
		s.DnsIsCustom = true
		s.DnsCustomCfg.DnsHost = "1.1.1.1"
	})
	require.NoError(t, c.Connect(context.Background(), "de.gw.privateline.io", ""))
	req := decodeConnect(t, d.waitRequest("Connect", 1))
	assert.Equal(t, "1.1.1.1", req.ManualDNS.DnsHost)

	// antitracker takes precedence over the custom DNS
	c.Store().UpdateSettings(func(s *store.Settings) { s.IsAntitracker = true })
	require.NoError(t, c.Connect(context.Background(), "de.gw.privateline.io", ""))
	req = decodeConnect(t, d.waitRequest("Connect", 2))
	assert.Equal(t, "10.0.254.2", req.ManualDNS.DnsHost)
}

func TestConnectedAndDisconnected(t *testing.T) {
	d := newFakeDaemon(t)
	d.handle("Disconnect", func(req fakeRequest) {
		d.notify(&types.DisconnectedResp{Reason: types.DisconnectRequested, ReasonDescription: "requested"})
	})
	c := connectedClient(t, d, Options{})

	d.notify(&types.ConnectedResp{VpnType: vpn.WireGuard, ServerIP: "10.0.0.2", ClientIP: "172.16.0.5", TimeSecFrom1970: time.Now().Unix()})
	require.Eventually(t, func() bool { return c.Store().ConnectionState() == vpn.CONNECTED }, 5*time.Second, 5*time.Millisecond)

	ci := c.Store().ConnectionInfo()
	require.NotNil(t, ci)
	assert.Equal(t, "172.16.0.5", ci.ClientIP)
	assert.Equal(t, "de.gw.privateline.io", c.Store().Settings().ServerEntry)

	// geolocation is refreshed after connecting
	d.waitRequest("APIRequest", 1)

	require.NoError(t, c.Disconnect(context.Background()))
	assert.Equal(t, vpn.DISCONNECTED, c.Store().ConnectionState())
	assert.Nil(t, c.Store().ConnectionInfo())
	assert.Equal(t, "requested", c.Store().Snapshot().DisconnectedReason)

	// firewall is deactivated on disconnect
	var fw types.KillSwitchSetEnabled
	require.NoError(t, json.Unmarshal(d.waitRequest("KillSwitchSetEnabled", 1).Raw, &fw))
	assert.False(t, fw.IsEnabled)
}

func TestDisconnectCancelsPreparedConnect(t *testing.T) {
	d := newFakeDaemon(t)
	pings := make(chan fakeRequest, 1)
	d.handle("PingServers", func(req fakeRequest) { pings <- req })
	d.handle("Disconnect", func(req fakeRequest) { d.notify(&types.DisconnectedResp{}) })
	c := connectedClient(t, d, Options{})

	done := make(chan error, 1)
	go func() { done <- c.Connect(context.Background(), "", "") }()
	ping := <-pings

	require.NoError(t, c.Disconnect(context.Background()))
	d.reply(ping, &types.PingServersResp{})
	require.NoError(t, <-done)

	assert.Never(t, func() bool { return len(d.requestsOf("Connect")) > 0 }, 200*time.Millisecond, 10*time.Millisecond)
	assert.Equal(t, vpn.DISCONNECTED, c.Store().ConnectionState())
}
