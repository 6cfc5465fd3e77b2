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

import (
	"github.com/swapnilsparsh/devsVPN/uiclient/dns"
	"github.com/swapnilsparsh/devsVPN/uiclient/vpn"
)

// Hello is the first request on every connection. The daemon closes the connection
// when the secret does not match the one it wrote into the port file.
type Hello struct {
	CommandBase
	// version of the client: "<version>:<client name>"
	Version    string
	ClientType ClientTypeEnum
	Secret     BigUint

	// The daemon answers to Hello with the initial state snapshot it is asked for
	GetServersList       bool
	GetStatus            bool
	GetConfigParams      bool
	GetSplitTunnelStatus bool
	GetWiFiCurrentState  bool

	// When true, the daemon keeps working after the client disconnects
	KeepDaemonAlone bool
}

// GetServers - server catalog request
type GetServers struct {
	CommandBase
	RequestServersUpdate bool
}

type PingServers struct {
	CommandBase
	RetryCount int
	TimeOutMs  int
}

type RequiredIPProtocol int

const (
	IPvAny RequiredIPProtocol = 0
	IPv4   RequiredIPProtocol = 1
	IPv6   RequiredIPProtocol = 2
)

// APIRequest do custom request to the backend API through the daemon
type APIRequest struct {
	CommandBase
	APIPath            string
	IPProtocolRequired RequiredIPProtocol
}

func (r *APIRequest) LogExtraInfo() string {
	switch r.IPProtocolRequired {
	case IPv4:
		return r.APIPath + " (IPv4)"
	case IPv6:
		return r.APIPath + " (IPv6)"
	}
	return r.APIPath
}

type KillSwitchGetStatus struct {
	CommandBase
}

type KillSwitchSetEnabled struct {
	CommandBase
	IsEnabled bool
}

type KillSwitchSetAllowLANMulticast struct {
	CommandBase
	AllowLANMulticast bool
	Synchronously     bool
}

type KillSwitchSetAllowLAN struct {
	CommandBase
	AllowLAN      bool
	Synchronously bool
}

type KillSwitchSetAllowApiServers struct {
	CommandBase
	IsAllowApiServers bool
}

type KillSwitchSetIsPersistent struct {
	CommandBase
	IsPersistent bool
}

// ServicePreference - daemon preference name
type ServicePreference string

const (
	Prefs_IsEnableLogging   ServicePreference = "enable_logging"
	Prefs_IsEnableObfsproxy ServicePreference = "enable_obfsproxy"
)

type SetPreference struct {
	CommandBase
	Key   ServicePreference
	Value string
}

func (r *SetPreference) LogExtraInfo() string {
	return string(r.Key) + "=" + r.Value
}

type SetAlternateDns struct {
	CommandBase
	Dns dns.DnsSettings
}

type GetDnsPredefinedConfigs struct {
	CommandBase
}

type WireGuardHost struct {
	Hostname     string
	Host         string
	PublicKey    string
	LocalIP      string
	IPv6         WireGuardHostIPv6
	MultihopPort int
}

type WireGuardHostIPv6 struct {
	Host    string
	LocalIP string
}

type OpenVpnHost struct {
	Hostname     string
	Host         string
	MultihopPort int
}

type WireGuardParameters struct {
	Port struct {
		Port int
	}

	EntryVpnServer struct {
		Hosts []WireGuardHost
	}

	MultihopExitServer *struct {
		// gateway ID of the exit server: "ch.gw.privateline.io" -> "ch"
		ExitSrvID string
		Hosts     []WireGuardHost
	} `json:",omitempty"`
}

type OpenVpnParameters struct {
	EntryVpnServer struct {
		Hosts []OpenVpnHost
	}

	MultihopExitSrvID string
	ProxyType         string `json:",omitempty"`
	ProxyAddress      string `json:",omitempty"`
	ProxyPort         int    `json:",omitempty"`
	ProxyUsername     string `json:",omitempty"`
	ProxyPassword     string `json:",omitempty"`

	Port struct {
		Port     int
		Protocol int // 0 - UDP; 1 - TCP
	}
}

// Connect request to establish new VPN connection
type Connect struct {
	CommandBase
	IPv6 bool // prefer IPv6 inside the tunnel when the server supports it
	// only hosts with IPv6 support are acceptable (ignored when IPv6 is false)
	IPv6Only  bool
	VpnType   vpn.Type
	ManualDNS dns.DnsSettings

	FirewallOn                 bool
	FirewallOnDuringConnection bool

	WireGuardParameters *WireGuardParameters `json:",omitempty"`
	OpenVpnParameters   *OpenVpnParameters   `json:",omitempty"`
}

func (r *Connect) LogExtraInfo() string {
	return r.VpnType.String()
}

type Disconnect struct {
	CommandBase
}

type GetVPNState struct {
	CommandBase
}

type PauseConnection struct {
	CommandBase
	Duration uint32 // seconds
}

type ResumeConnection struct {
	CommandBase
}

// SessionNew - login
type SessionNew struct {
	CommandBase
	EmailOrAcctID  string
	Password       string `json:",omitempty"`
	DeviceName     string
	StableDeviceID bool
}

func (r *SessionNew) LogExtraInfo() string {
	return r.EmailOrAcctID
}

// SessionDelete - logout
type SessionDelete struct {
	CommandBase
	NeedToResetSettings       bool
	NeedToDisableFirewall     bool
	IsCanDeleteSessionLocally bool
}

// SessionStatus - request actual account status from the backend
type SessionStatus struct {
	CommandBase
}

type WireGuardGenerateNewKeys struct {
	CommandBase
	OnlyUpdateIfNecessary bool
}

type WireGuardSetKeysRotationInterval struct {
	CommandBase
	Interval int64 // seconds
}

type WiFiAvailableNetworks struct {
	CommandBase
}

type WiFiCurrentNetwork struct {
	CommandBase
}

type GenerateDiagnostics struct {
	CommandBase
}
