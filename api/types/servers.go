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

package types

import "strings"

type WireGuardServerHostInfoIPv6 struct {
	Host    string `json:"host"`
	LocalIP string `json:"local_ip"`
}

type WireGuardServerHostInfo struct {
	Hostname     string                      `json:"hostname"`
	Host         string                      `json:"host"`
	PublicKey    string                      `json:"public_key"`
	LocalIP      string                      `json:"local_ip"`
	IPv6         WireGuardServerHostInfoIPv6 `json:"ipv6"`
	MultihopPort int                         `json:"multihop_port"`
}

// ServerBase - fields common to WireGuard and OpenVPN servers
type ServerBase struct {
	Gateway     string `json:"gateway"`
	CountryCode string `json:"country_code"`
	Country     string `json:"country"`
	City        string `json:"city"`

	Latitude  float32 `json:"latitude"`
	Longitude float32 `json:"longitude"`
}

// GatewayID returns the first label of the gateway name ("ch.gw.privateline.io" -> "ch").
// The daemon uses it to identify the multi-hop exit server.
func (s ServerBase) GatewayID() string {
	id, _, _ := strings.Cut(s.Gateway, ".")
	return id
}

type WireGuardServerInfo struct {
	ServerBase
	Hosts []WireGuardServerHostInfo `json:"hosts"`
}

type OpenVPNServerHostInfo struct {
	Hostname     string `json:"hostname"`
	Host         string `json:"host"`
	MultihopPort int    `json:"multihop_port,omitempty"`
}

type OpenvpnServerInfo struct {
	ServerBase
	Hosts []OpenVPNServerHostInfo `json:"hosts"`
}

type DNSInfo struct {
	IP         string `json:"ip"`
	MultihopIP string `json:"multihop-ip"`
}

type AntitrackerInfo struct {
	Default  DNSInfo `json:"default"`
	Hardcore DNSInfo `json:"hardcore"`
}

type InfoAPI struct {
	IPAddresses   []string `json:"ips"`
	IPv6Addresses []string `json:"ipv6s"`
}

type PortInfo struct {
	Type  string `json:"type"` // "TCP" or "UDP"
	Port  int    `json:"port"`
	Range struct {
		Min int `json:"min"`
		Max int `json:"max"`
	} `json:"range"`
}

type PortsInfo struct {
	OpenVPN   []PortInfo `json:"openvpn"`
	WireGuard []PortInfo `json:"wireguard"`
}

type ConfigInfo struct {
	Antitracker AntitrackerInfo `json:"antitracker"`
	API         InfoAPI         `json:"api"`
	Ports       PortsInfo       `json:"ports"`
}

// ServersInfoResponse - the server catalog
type ServersInfoResponse struct {
	WireguardServers []WireGuardServerInfo `json:"wireguard"`
	OpenvpnServers   []OpenvpnServerInfo   `json:"openvpn"`
	Config           ConfigInfo            `json:"config"`
}
