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
	"github.com/swapnilsparsh/devsVPN/uiclient/dns"
	"github.com/swapnilsparsh/devsVPN/uiclient/vpn"
)

// PortSetting - port used to connect to VPN servers
type PortSetting struct {
	Port     int
	Protocol int // 0 - UDP; 1 - TCP (OpenVPN only)
}

// WifiNetwork - trust configuration of a known Wi-Fi network
type WifiNetwork struct {
	SSID      string
	IsTrusted bool
}

// WifiActions - what to do when joining a trusted/untrusted network
type WifiActions struct {
	UnTrustedConnectVpn     bool
	UnTrustedEnableFirewall bool
	TrustedDisconnectVpn    bool
	TrustedDisableFirewall  bool
}

type WifiSettings struct {
	TrustedNetworksControl bool
	// trust status for networks absent in Networks: nil - not defined
	DefaultTrustStatusTrusted   *bool
	Networks                    []WifiNetwork
	Actions                     WifiActions
	ConnectVPNOnInsecureNetwork bool
}

// TrustRule returns the configured trust status of the network (nil - not configured)
func (w WifiSettings) TrustRule(ssid string) *bool {
	if len(ssid) == 0 {
		return nil
	}
	for _, n := range w.Networks {
		if n.SSID == ssid {
			isTrusted := n.IsTrusted
			return &isTrusted
		}
	}
	return nil
}

// Settings - user settings of the client.
// DefaultSettings() is the state they are reset to when the daemon reports a new settings epoch.
type Settings struct {
	// epoch of the daemon settings the client settings belong to
	SettingsSessionUUID string

	VpnType    vpn.Type
	IsMultiHop bool

	// selected servers (gateway names)
	ServerEntry string
	ServerExit  string

	IsFastestServer    bool
	IsRandomServer     bool
	IsRandomExitServer bool
	// allow entry and exit servers of a multi-hop connection in one country
	AllowSameCountryMultiHop bool
	// gateways never chosen as "fastest"
	ServersFastestExcludeList []string

	WireGuardPort PortSetting
	OpenVPNPort   PortSetting

	OvpnProxyType   string // "http", "socks" or empty
	OvpnProxyServer string
	OvpnProxyPort   int
	OvpnProxyUser   string
	OvpnProxyPass   string

	DnsIsCustom  bool
	DnsCustomCfg dns.DnsSettings

	IsAntitracker         bool
	IsAntitrackerHardcore bool

	FirewallActivateOnConnect      bool
	FirewallDeactivateOnDisconnect bool

	EnableIPv6InTunnel      bool
	ShowGatewaysWithoutIPv6 bool

	AutoConnectOnLaunch bool

	Logging                bool
	ConnectionUseObfsproxy bool

	Wifi WifiSettings

	IsExpectedAccountToBeLoggedIn bool
}

// DefaultSettings returns a new copy of the default settings
func DefaultSettings() Settings {
	return Settings{
		VpnType: vpn.WireGuard,

		IsFastestServer: true,

		WireGuardPort: PortSetting{Port: 51820},
		OpenVPNPort:   PortSetting{Port: 2049, Protocol: 0},

		FirewallActivateOnConnect:      true,
		FirewallDeactivateOnDisconnect: true,

		ShowGatewaysWithoutIPv6: true,

		Logging: true,

		Wifi: WifiSettings{
			Actions: WifiActions{
				UnTrustedConnectVpn:     true,
				UnTrustedEnableFirewall: true,
				TrustedDisconnectVpn:    true,
				TrustedDisableFirewall:  true,
			},
		},
	}
}

// Port returns the port for the current VPN type
func (s *Settings) Port() PortSetting {
	if s.VpnType == vpn.OpenVPN {
		return s.OpenVPNPort
	}
	return s.WireGuardPort
}

func (s Settings) clone() Settings {
	ret := s
	ret.ServersFastestExcludeList = append([]string(nil), s.ServersFastestExcludeList...)
	ret.Wifi.Networks = append([]WifiNetwork(nil), s.Wifi.Networks...)
	if s.Wifi.DefaultTrustStatusTrusted != nil {
		v := *s.Wifi.DefaultTrustStatusTrusted
		ret.Wifi.DefaultTrustStatusTrusted = &v
	}
	return ret
}
