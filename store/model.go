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
	"time"

	api_types "github.com/swapnilsparsh/devsVPN/uiclient/api/types"
	"github.com/swapnilsparsh/devsVPN/uiclient/dns"
	"github.com/swapnilsparsh/devsVPN/uiclient/protocol/types"
	"github.com/swapnilsparsh/devsVPN/uiclient/vpn"
)

// DaemonConnectionState - state of the connection to the daemon
type DaemonConnectionState int

const (
	NotConnected DaemonConnectionState = iota
	Connecting
	Connected
)

func (s DaemonConnectionState) String() string {
	switch s {
	case NotConnected:
		return "NotConnected"
	case Connecting:
		return "Connecting"
	case Connected:
		return "Connected"
	}
	return "<Unknown>"
}

// Mutation identifies the part of the state that was changed
type Mutation string

const (
	MutDaemonConnection  Mutation = "daemonConnectionState"
	MutDaemonVersion     Mutation = "daemonVersion"
	MutSettings          Mutation = "settings"
	MutSession           Mutation = "account/session"
	MutAccountStatus     Mutation = "account/accountStatus"
	MutDisabledFunctions Mutation = "disabledFunctions"
	MutDnsAbilities      Mutation = "dnsAbilities"
	MutConfigParams      Mutation = "configParams"
	MutConnectionState   Mutation = "vpnState/connectionState"
	MutConnectionInfo    Mutation = "vpnState/connectionInfo"
	MutDisconnected      Mutation = "vpnState/disconnected"
	MutPauseState        Mutation = "vpnState/pauseState"
	MutPauseTill         Mutation = "uiState/pauseConnectionTill"
	MutServers           Mutation = "vpnState/servers"
	MutServersPing       Mutation = "vpnState/serversPingStatus"
	MutPinging           Mutation = "vpnState/isPingingServers"
	MutFirewall          Mutation = "vpnState/firewallState"
	MutSplitTunnel       Mutation = "vpnState/splitTunnelling"
	MutDns               Mutation = "vpnState/dns"
	MutDnsPredefined     Mutation = "dnsPredefinedConfigurations"
	MutWiFiInfo          Mutation = "vpnState/currentWiFiInfo"
	MutWiFiAvailable     Mutation = "vpnState/availableWiFiNetworks"
	MutLocation          Mutation = "location"
	MutLocationIPv6      Mutation = "locationIPv6"
	MutRequestingLoc     Mutation = "isRequestingLocation"
	MutTransferredData   Mutation = "vpnState/transferredData"
)

// Session - account session info
type Session struct {
	AccountID              string
	Session                string
	DeviceName             string
	WgPublicKey            string
	WgLocalIP              string
	WgKeyGenerated         time.Time
	WgKeysRegenIntervalSec int64
}

// ConnectionInfo - details of the established VPN connection
type ConnectionInfo struct {
	VpnType        vpn.Type
	ConnectedSince time.Time
	ClientIP       string
	ClientIPv6     string
	ServerIP       string
	ExitServerID   string
	ManualDNS      dns.DnsSettings
	IsCanPause     bool
}

// Location - geolocation of the public IP of this machine
type Location struct {
	api_types.GeoLookupResponse
	// true when obtained outside the tunnel (disconnected or paused)
	IsRealLocation bool
}

// WiFiInfo - current Wi-Fi network
type WiFiInfo struct {
	SSID              string
	IsInsecureNetwork bool
}

// TransferredData - tunnel statistics (as formatted by the daemon)
type TransferredData struct {
	SentData      string
	ReceivedData  string
	HandshakeTime string
}

// State - the whole client model. Store.Snapshot() returns a copy of it.
type State struct {
	DaemonConnectionState   DaemonConnectionState
	DaemonVersion           string
	DaemonIsOldVersionError bool
	DisabledFunctions       types.DisabledFunctionality
	DnsAbilities            dns.Abilities
	ConfigParams            types.ConfigParamsResp
	DnsPredefinedConfigs    []dns.DnsSettings

	Settings Settings

	Session       Session
	AccountStatus *types.AccountStatus // nil - no account state received yet

	ConnectionState     vpn.State
	ConnectionInfo      *ConnectionInfo
	DisconnectedReason  string
	PauseState          vpn.PauseState
	PauseConnectionTill time.Time

	Catalog          Catalog
	IsPingingServers bool

	Firewall      types.KillSwitchStatus
	FirewallKnown bool
	SplitTunnel   types.SplitTunnelStatus
	Dns           dns.DnsSettings

	CurrentWiFi   *WiFiInfo
	AvailableWiFi []string

	Location                 *Location
	LocationIPv6             *Location
	LastRealLocation         *Location
	IsRequestingLocation     bool
	IsRequestingLocationIPv6 bool

	TransferredData TransferredData
}

func (s *State) IsLoggedIn() bool {
	return len(s.Session.Session) > 0
}

func (s *State) IsDisconnected() bool {
	return s.ConnectionState == vpn.DISCONNECTED
}

func (s *State) IsConnected() bool {
	return s.ConnectionState == vpn.CONNECTED
}

func (s *State) IsConnecting() bool {
	return s.ConnectionState.IsConnecting()
}
