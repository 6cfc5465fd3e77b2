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
	api_types "github.com/swapnilsparsh/devsVPN/uiclient/api/types"
	"github.com/swapnilsparsh/devsVPN/uiclient/dns"
	"github.com/swapnilsparsh/devsVPN/uiclient/vpn"
)

// ErrorResp - the daemon failed to process a request
type ErrorResp struct {
	CommandBase
	ErrorMessage string
}

// EmptyResp - generic acknowledgement
type EmptyResp struct {
	CommandBase
}

// ServiceExitingResp - the daemon is stopping
type ServiceExitingResp struct {
	CommandBase
}

type DisabledFunctionality struct {
	WireGuardError   string
	OpenVPNError     string
	ObfsproxyError   string
	SplitTunnelError string
}

type HelloResp struct {
	CommandBase
	Version           string
	Session           SessionResp
	DisabledFunctions DisabledFunctionality
	Dns               dns.Abilities

	// Changes each time the daemon resets its settings.
	// The client drops own settings when the value differs from the stored one.
	SettingsSessionUUID string
}

type ConfigParamsResp struct {
	CommandBase
	UserDefinedOvpnFile string
}

type SessionResp struct {
	AccountID          string
	Session            string
	DeviceName         string
	WgPublicKey        string
	WgLocalIP          string
	WgKeyGenerated     int64 // Unix time
	WgKeysRegenInerval int64 // seconds (the misspelling is part of the wire format)
}

type AccountStatus struct {
	Active           bool
	ActiveUntil      int64
	IsFreeTrial      bool
	CurrentPlan      string
	Upgradable       bool
	UpgradeToURL     string
	DeviceLimit      int
	DeviceManagement bool
}

type SessionNewResp struct {
	CommandBase
	APIStatus       int
	APIErrorMessage string
	Session         SessionResp
	Account         AccountStatus
	RawResponse     string
}

type AccountStatusResp struct {
	CommandBase
	APIStatus       int
	APIErrorMessage string
	SessionToken    string
	Account         AccountStatus
}

type SessionStatusResp struct {
	CommandBase
	APIStatus       int
	APIErrorMessage string
	SessionToken    string
	Account         AccountStatus
	DeviceName      string
}

type KillSwitchStatus struct {
	IsEnabled         bool   // FW state
	IsPersistent      bool   // configuration: true - when persistent
	IsAllowLAN        bool   // configuration: 'Allow LAN'
	IsAllowMulticast  bool   // configuration: 'Allow multicast'
	IsAllowApiServers bool   // configuration: 'Allow API servers'
	UserExceptions    string // configuration: comma separated list of IP addresses (masks) in format: x.x.x.x[/xx]
}

type KillSwitchStatusResp struct {
	CommandBase
	KillSwitchStatus
}

type DiagnosticsGeneratedResp struct {
	CommandBase
	ServiceLog     string
	ServiceLog0    string
	EnvironmentLog string
}

type SetAlternateDNSResp struct {
	CommandBase
	IsSuccess    bool
	ChangedDNS   dns.DnsSettings
	ErrorMessage string
}

type DnsPredefinedConfigsResp struct {
	CommandBase
	DnsConfigs []dns.DnsSettings
}

type ConnectedResp struct {
	CommandBase
	VpnType         vpn.Type
	TimeSecFrom1970 int64
	ClientIP        string
	ClientIPv6      string
	ServerIP        string
	ExitServerID    string
	ManualDNS       dns.DnsSettings
	IsCanPause      bool
}

type DisconnectionReason int

const (
	Unknown             DisconnectionReason = iota
	AuthenticationError DisconnectionReason = iota
	DisconnectRequested DisconnectionReason = iota
)

type DisconnectedResp struct {
	CommandBase
	Failure           bool
	Reason            DisconnectionReason
	ReasonDescription string
}

type VpnStateResp struct {
	CommandBase
	State               string
	StateVal            vpn.State
	StateAdditionalInfo string
}

type ServerListResp struct {
	CommandBase
	VpnServers api_types.ServersInfoResponse
}

type PingResultType struct {
	Host string
	Ping int
}

type PingServersResp struct {
	CommandBase
	PingResults []PingResultType
}

type WiFiNetworkInfo struct {
	SSID string
}

type WiFiAvailableNetworksResp struct {
	CommandBase
	Networks []WiFiNetworkInfo
}

type WiFiCurrentNetworkResp struct {
	CommandBase
	SSID              string
	IsInsecureNetwork bool
	Error             string
}

type APIResponse struct {
	CommandBase
	APIPath      string
	ResponseData string
	Error        string
}

// TransferredDataResp - tunnel traffic counters (values are preformatted by the daemon)
type TransferredDataResp struct {
	CommandBase
	SentData     string
	ReceivedData string
}

// HandshakeResp - time of the last WireGuard handshake
type HandshakeResp struct {
	CommandBase
	HandshakeTime string
}
