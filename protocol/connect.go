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
	"fmt"

	api_types "github.com/swapnilsparsh/devsVPN/uiclient/api/types"
	"github.com/swapnilsparsh/devsVPN/uiclient/dns"
	"github.com/swapnilsparsh/devsVPN/uiclient/protocol/types"
	"github.com/swapnilsparsh/devsVPN/uiclient/store"
	"github.com/swapnilsparsh/devsVPN/uiclient/vpn"
)

var errConnectSuperseded = errors.New("connection request superseded")

// Connect requests a new VPN connection. Empty gateways - servers are chosen according to the settings.
// Only the request is sent; the result arrives as ConnectedResp or DisconnectedResp.
// A call superseded by a newer Connect or Disconnect returns without sending anything.
func (c *Client) Connect(ctx context.Context, entryGateway, exitGateway string) error {
	id := c._connectionRequestID.Add(1)
	isCurrent := func() bool { return c._connectionRequestID.Load() == id }

	c.store.SetPauseState(vpn.Resumed)
	c.store.SetConnectionState(vpn.CONNECTING)

	req, err := c.buildConnectRequest(ctx, isCurrent, entryGateway, exitGateway)
	if err == nil && !isCurrent() {
		err = errConnectSuperseded
	}
	if err != nil {
		if errors.Is(err, errConnectSuperseded) {
			log.Info("Connection request cancelled")
			return nil
		}
		c.store.SetConnectionState(vpn.DISCONNECTED)
		return log.ErrorFE("failed to connect: %w", err)
	}

	if err := c.send(req); err != nil {
		c.store.SetConnectionState(vpn.DISCONNECTED)
		return err
	}
	return nil
}

func (c *Client) buildConnectRequest(ctx context.Context, isCurrent func() bool, entryGateway, exitGateway string) (*types.Connect, error) {
	settings := c.store.Settings()

	entry, exit, err := c.resolveServers(ctx, isCurrent, settings, entryGateway, exitGateway)
	if err != nil {
		return nil, err
	}

	req := &types.Connect{
		VpnType:                    settings.VpnType,
		ManualDNS:                  c.manualDNS(settings),
		FirewallOn:                 settings.FirewallActivateOnConnect,
		FirewallOnDuringConnection: true,
		IPv6:                       settings.EnableIPv6InTunnel,
		IPv6Only:                   !settings.ShowGatewaysWithoutIPv6,
	}

	port := settings.Port()
	if settings.VpnType == vpn.OpenVPN {
		p := &types.OpenVpnParameters{}
		p.EntryVpnServer.Hosts = ovpnHosts(entry.OvpnHosts)
		if exit != nil {
			p.MultihopExitSrvID = exit.GatewayID()
		}
		p.Port.Port = port.Port
		p.Port.Protocol = port.Protocol
		if len(settings.OvpnProxyType) > 0 && len(settings.OvpnProxyServer) > 0 {
			p.ProxyType = settings.OvpnProxyType
			p.ProxyAddress = settings.OvpnProxyServer
			p.ProxyPort = settings.OvpnProxyPort
			p.ProxyUsername = settings.OvpnProxyUser
			p.ProxyPassword = settings.OvpnProxyPass
		}
		req.OpenVpnParameters = p
	} else {
		p := &types.WireGuardParameters{}
		p.EntryVpnServer.Hosts = wgHosts(entry.WgHosts)
		if exit != nil {
			p.MultihopExitServer = &struct {
				ExitSrvID string
				Hosts     []types.WireGuardHost
			}{ExitSrvID: exit.GatewayID(), Hosts: wgHosts(exit.WgHosts)}
		}
		p.Port.Port = port.Port
		req.WireGuardParameters = p
	}
	return req, nil
}

// resolveServers returns the entry server and (multi-hop only) the exit server
func (c *Client) resolveServers(ctx context.Context, isCurrent func() bool, settings store.Settings, entryGateway, exitGateway string) (entry, exit *store.Server, err error) {
	if settings.IsMultiHop && len(exitGateway) > 0 {
		if exit = c.store.ServerByGateway(exitGateway); exit == nil {
			return nil, nil, fmt.Errorf("exit server '%s' not found", exitGateway)
		}
	} else if settings.IsMultiHop && !settings.IsRandomExitServer {
		exit = c.store.ServerByGateway(settings.ServerExit)
	}

	excludeGateway, excludeCountry := "", ""
	if exit != nil {
		excludeGateway, excludeCountry = exit.Gateway, exit.CountryCode
	}

	switch {
	case len(entryGateway) > 0:
		if entry = c.store.ServerByGateway(entryGateway); entry == nil {
			return nil, nil, fmt.Errorf("server '%s' not found", entryGateway)
		}

	case settings.IsFastestServer:
		if !c.store.IsAnyPing() {
			log.Info("Connect to fastest server (no ping info). Pinging servers ...")
			if err := c.PingServers(ctx); err != nil {
				log.Warning("Pinging servers failed: ", err)
			}
			if !isCurrent() {
				return nil, nil, errConnectSuperseded
			}
		}
		var skip []string
		if len(excludeGateway) > 0 {
			skip = append(skip, excludeGateway)
		}
		entry = c.store.FastestServer(skip...)

	case settings.IsRandomServer:
		entry = c.store.RandomServer(excludeGateway, excludeCountry)

	default:
		entry = c.store.ServerByGateway(settings.ServerEntry)
	}
	if entry == nil {
		return nil, nil, fmt.Errorf("no server available to connect")
	}

	if settings.IsMultiHop && (exit == nil || exit.Gateway == entry.Gateway) {
		if exit = c.store.RandomServer(entry.Gateway, entry.CountryCode); exit == nil {
			return nil, nil, fmt.Errorf("no exit server available for multi-hop connection")
		}
	}
	if !settings.IsMultiHop {
		exit = nil
	}
	return entry, exit, nil
}

// manualDNS: antitracker when enabled, otherwise the custom DNS, otherwise none
func (c *Client) manualDNS(settings store.Settings) dns.DnsSettings {
	if settings.IsAntitracker {
		if ip := c.store.AntitrackerIP(); len(ip) > 0 {
			return dns.DnsSettings{DnsHost: ip}
		}
		log.Warning("Antitracker DNS is not known")
	}
	if settings.DnsIsCustom {
		return settings.DnsCustomCfg
	}
	return dns.DnsSettings{}
}

func wgHosts(hosts []api_types.WireGuardServerHostInfo) []types.WireGuardHost {
	ret := make([]types.WireGuardHost, 0, len(hosts))
	for _, h := range hosts {
		ret = append(ret, types.WireGuardHost{
			Hostname:     h.Hostname,
			Host:         h.Host,
			PublicKey:    h.PublicKey,
			LocalIP:      h.LocalIP,
			IPv6:         types.WireGuardHostIPv6{Host: h.IPv6.Host, LocalIP: h.IPv6.LocalIP},
			MultihopPort: h.MultihopPort,
		})
	}
	return ret
}

func ovpnHosts(hosts []api_types.OpenVPNServerHostInfo) []types.OpenVpnHost {
	ret := make([]types.OpenVpnHost, 0, len(hosts))
	for _, h := range hosts {
		ret = append(ret, types.OpenVpnHost{Hostname: h.Hostname, Host: h.Host, MultihopPort: h.MultihopPort})
	}
	return ret
}

// Disconnect cancels a Connect being prepared and asks the daemon to disconnect.
// Returns when DisconnectedResp is received.
func (c *Client) Disconnect(ctx context.Context) error {
	c._connectionRequestID.Add(1)

	// the daemon resumes by itself on disconnect
	c.store.SetPauseState(vpn.Resumed)

	if c.store.ConnectionState() == vpn.CONNECTED {
		c.store.SetConnectionState(vpn.DISCONNECTING)
	}
	_, err := c.sendRecv(ctx, &types.Disconnect{}, 0, "DisconnectedResp")
	return err
}
