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
	"math/rand"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/swapnilsparsh/devsVPN/uiclient/helpers"
	"github.com/swapnilsparsh/devsVPN/uiclient/vpn"
)

// activeServers returns servers of the current VPN type allowed by the IPv6 settings (not a copy)
func activeServers(st *State) []Server {
	servers := st.Catalog.Servers(st.Settings.VpnType)
	if !st.Settings.EnableIPv6InTunnel || st.Settings.ShowGatewaysWithoutIPv6 {
		return servers
	}
	ret := make([]Server, 0, len(servers))
	for _, s := range servers {
		if s.IsIPv6 {
			ret = append(ret, s)
		}
	}
	return ret
}

func findServerByIP(servers []Server, ip string) *Server {
	for i := range servers {
		if servers[i].hasHost(ip) {
			return &servers[i]
		}
	}
	return nil
}

func findServerByGatewayID(servers []Server, gatewayID string) *Server {
	for i := range servers {
		if servers[i].GatewayID() == gatewayID {
			return &servers[i]
		}
	}
	return nil
}

func findServerByGateway(servers []Server, gateway string) *Server {
	for i := range servers {
		if servers[i].Gateway == gateway {
			return &servers[i]
		}
	}
	return nil
}

func copyOf(s *Server) *Server {
	if s == nil {
		return nil
	}
	c := s.clone()
	return &c
}

func isAntitrackerActive(st *State) bool {
	if st.Dns.IsEmpty() {
		return false
	}
	at := st.Catalog.Config.Antitracker
	for _, ip := range []string{at.Default.IP, at.Default.MultihopIP, at.Hardcore.IP, at.Hardcore.MultihopIP} {
		if len(ip) > 0 && ip == st.Dns.DnsHost {
			return true
		}
	}
	return false
}

// ActiveServers returns a copy of the servers available for the current VPN type
func (s *Store) ActiveServers() []Server {
	var ret []Server
	s.read(func(st *State) {
		for _, srv := range activeServers(st) {
			ret = append(ret, srv.clone())
		}
	})
	return ret
}

// ServerByGateway looks up an active server by gateway name
func (s *Store) ServerByGateway(gateway string) *Server {
	var ret *Server
	s.read(func(st *State) { ret = copyOf(findServerByGateway(activeServers(st), gateway)) })
	return ret
}

func (s *Store) FindServerByHostIP(ip string) *Server {
	var ret *Server
	s.read(func(st *State) { ret = copyOf(findServerByIP(activeServers(st), ip)) })
	return ret
}

func (s *Store) FindServerByGatewayID(gatewayID string) *Server {
	var ret *Server
	s.read(func(st *State) { ret = copyOf(findServerByGatewayID(activeServers(st), gatewayID)) })
	return ret
}

// FastestServer selects the server with the minimal measured ping ignoring gateways in 'skip'
// and in the user exclude list.
// Without measured pings it falls back to the server nearest to the last real location,
// and then to the first eligible server. Returns nil when no server is eligible.
func (s *Store) FastestServer(skip ...string) *Server {
	var ret *Server
	s.read(func(st *State) {
		skipSet := mapset.NewThreadUnsafeSet[string](skip...)
		skipSet.Append(st.Settings.ServersFastestExcludeList...)

		var eligible []*Server
		servers := activeServers(st)
		for i := range servers {
			if !skipSet.Contains(servers[i].Gateway) {
				eligible = append(eligible, &servers[i])
			}
		}
		if len(eligible) == 0 {
			return
		}

		var fastest *Server
		for _, srv := range eligible {
			if srv.Ping > 0 && (fastest == nil || srv.Ping < fastest.Ping) {
				fastest = srv
			}
		}
		if fastest != nil {
			ret = copyOf(fastest)
			return
		}

		if l := st.LastRealLocation; l != nil && (l.Latitude != 0 || l.Longitude != 0) {
			var nearest *Server
			minDist := 0.0
			for _, srv := range eligible {
				d := helpers.GeoDistanceKm(float64(l.Latitude), float64(l.Longitude), float64(srv.Latitude), float64(srv.Longitude))
				if nearest == nil || d < minDist {
					nearest, minDist = srv, d
				}
			}
			ret = copyOf(nearest)
			return
		}

		ret = copyOf(eligible[0])
	})
	return ret
}

// RandomServer picks an active server uniformly.
// 'excludeCountryCode' is ignored when empty or when the same country is allowed for multi-hop.
func (s *Store) RandomServer(excludeGateway, excludeCountryCode string) *Server {
	var ret *Server
	s.read(func(st *State) {
		if st.Settings.AllowSameCountryMultiHop || !st.Settings.IsMultiHop {
			excludeCountryCode = ""
		}
		var eligible []*Server
		servers := activeServers(st)
		for i := range servers {
			srv := &servers[i]
			if len(excludeGateway) > 0 && srv.Gateway == excludeGateway {
				continue
			}
			if len(excludeCountryCode) > 0 && srv.CountryCode == excludeCountryCode {
				continue
			}
			eligible = append(eligible, srv)
		}
		if len(eligible) == 0 {
			return
		}
		ret = copyOf(eligible[rand.Intn(len(eligible))])
	})
	return ret
}

// AntitrackerIP returns the antitracker DNS address for the current settings (empty - unknown)
func (s *Store) AntitrackerIP() (ret string) {
	s.read(func(st *State) {
		info := st.Catalog.Config.Antitracker.Default
		if st.Settings.IsAntitrackerHardcore {
			info = st.Catalog.Config.Antitracker.Hardcore
		}
		if st.Settings.IsMultiHop && st.Settings.VpnType == vpn.OpenVPN && len(info.MultihopIP) > 0 {
			ret = info.MultihopIP
			return
		}
		ret = info.IP
	})
	return ret
}
