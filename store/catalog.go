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

package store

import (
	api_types "github.com/swapnilsparsh/devsVPN/uiclient/api/types"
	"github.com/swapnilsparsh/devsVPN/uiclient/vpn"
)

// PingQuality - rating of a measured ping
type PingQuality int

const (
	PingQualityUnknown PingQuality = iota
	PingQualityGood
	PingQualityModerate
	PingQualityBad
)

func (q PingQuality) String() string {
	switch q {
	case PingQualityGood:
		return "Good"
	case PingQualityModerate:
		return "Moderate"
	case PingQualityBad:
		return "Bad"
	}
	return ""
}

func pingQualityOf(pingMs int) PingQuality {
	if pingMs < 100 {
		return PingQualityGood
	}
	if pingMs < 300 {
		return PingQualityModerate
	}
	return PingQualityBad
}

// Server - catalog entry with the ping measured by the last sweep
type Server struct {
	api_types.ServerBase
	VpnType vpn.Type

	WgHosts   []api_types.WireGuardServerHostInfo `json:",omitempty"`
	OvpnHosts []api_types.OpenVPNServerHostInfo   `json:",omitempty"`

	Ping        int // ms; 0 - unknown
	PingQuality PingQuality
	IsIPv6      bool
}

// HostIPs returns IP addresses of all hosts of the server
func (s *Server) HostIPs() []string {
	ret := make([]string, 0, len(s.WgHosts)+len(s.OvpnHosts))
	for _, h := range s.WgHosts {
		ret = append(ret, h.Host)
	}
	for _, h := range s.OvpnHosts {
		ret = append(ret, h.Host)
	}
	return ret
}

func (s *Server) hasHost(ip string) bool {
	if len(ip) == 0 {
		return false
	}
	for _, h := range s.HostIPs() {
		if h == ip {
			return true
		}
	}
	return false
}

func (s Server) clone() Server {
	ret := s
	ret.WgHosts = append([]api_types.WireGuardServerHostInfo(nil), s.WgHosts...)
	ret.OvpnHosts = append([]api_types.OpenVPNServerHostInfo(nil), s.OvpnHosts...)
	return ret
}

// Catalog - the server list received from the daemon
type Catalog struct {
	WireGuard []Server
	OpenVPN   []Server
	Config    api_types.ConfigInfo
}

func newCatalog(resp api_types.ServersInfoResponse) Catalog {
	c := Catalog{Config: resp.Config}
	for _, s := range resp.WireguardServers {
		srv := Server{ServerBase: s.ServerBase, VpnType: vpn.WireGuard, WgHosts: s.Hosts}
		for _, h := range s.Hosts {
			if len(h.IPv6.LocalIP) > 0 {
				srv.IsIPv6 = true
				break
			}
		}
		c.WireGuard = append(c.WireGuard, srv)
	}
	for _, s := range resp.OpenvpnServers {
		c.OpenVPN = append(c.OpenVPN, Server{ServerBase: s.ServerBase, VpnType: vpn.OpenVPN, OvpnHosts: s.Hosts})
	}
	return c
}

func (c *Catalog) IsEmpty() bool {
	return len(c.WireGuard) == 0 && len(c.OpenVPN) == 0
}

// Servers returns the servers of the VPN type (not a copy)
func (c *Catalog) Servers(vpnType vpn.Type) []Server {
	if vpnType == vpn.OpenVPN {
		return c.OpenVPN
	}
	return c.WireGuard
}

func (c *Catalog) forEach(fn func(s *Server)) {
	for i := range c.WireGuard {
		fn(&c.WireGuard[i])
	}
	for i := range c.OpenVPN {
		fn(&c.OpenVPN[i])
	}
}

// copyPingsFrom keeps measured pings for the gateways that are still in the catalog
func (c *Catalog) copyPingsFrom(old *Catalog) {
	type key struct {
		t  vpn.Type
		gw string
	}
	oldPings := make(map[key]Server)
	old.forEach(func(s *Server) {
		if s.Ping > 0 {
			oldPings[key{s.VpnType, s.Gateway}] = *s
		}
	})
	c.forEach(func(s *Server) {
		if o, ok := oldPings[key{s.VpnType, s.Gateway}]; ok {
			s.Ping = o.Ping
			s.PingQuality = o.PingQuality
		}
	})
}

// applyPings updates servers having a host in 'pings' (host IP -> ms).
// Returns the number of updated servers.
func (c *Catalog) applyPings(pings map[string]int) int {
	updated := 0
	c.forEach(func(s *Server) {
		for _, ip := range s.HostIPs() {
			if p, ok := pings[ip]; ok {
				s.Ping = p
				s.PingQuality = pingQualityOf(p)
				updated++
				break
			}
		}
	})
	return updated
}

func (c *Catalog) isAnyPing() bool {
	found := false
	c.forEach(func(s *Server) {
		if s.Ping > 0 {
			found = true
		}
	})
	return found
}

func (c Catalog) clone() Catalog {
	ret := Catalog{Config: c.Config}
	for _, s := range c.WireGuard {
		ret.WireGuard = append(ret.WireGuard, s.clone())
	}
	for _, s := range c.OpenVPN {
		ret.OpenVPN = append(ret.OpenVPN, s.clone())
	}
	return ret
}
