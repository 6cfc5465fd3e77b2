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

package vpn

import (
	"fmt"
	"strings"
)

// Type - VPN type
type Type int

// Supported VPN protocols
const (
	OpenVPN   Type = iota
	WireGuard Type = iota
)

func (t Type) String() string {
	switch t {
	case OpenVPN:
		return "OpenVPN"
	case WireGuard:
		return "WireGuard"
	}
	return "<Unknown>"
}

// ParseType converts protocol name ("wireguard", "wg", "openvpn", "ovpn") to Type
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wireguard", "wg":
		return WireGuard, nil
	case "openvpn", "ovpn":
		return OpenVPN, nil
	}
	return OpenVPN, fmt.Errorf("unknown VPN type '%s'", s)
}

// State - state of VPN as reported by the daemon
type State int

// Possible VPN state values (must be in sync with the daemon).
// DISCONNECTING is never sent by the daemon, the client sets it while waiting for DisconnectedResp.
const (
	DISCONNECTED  State = iota
	CONNECTING    State = iota // OpenVPN's initial state.
	WAIT          State = iota // (Client only) Waiting for initial response from server.
	AUTH          State = iota // (Client only) Authenticating with server.
	GETCONFIG     State = iota // (Client only) Downloading configuration options from server.
	ASSIGNIP      State = iota // Assigning IP address to virtual network interface.
	ADDROUTES     State = iota // Adding routes to system.
	CONNECTED     State = iota // Initialization Sequence Completed.
	RECONNECTING  State = iota // A restart has occurred.
	TCP_CONNECT   State = iota // TCP_CONNECT
	EXITING       State = iota // A graceful exit is in progress.
	DISCONNECTING State = iota
)

func (s State) String() string {
	switch s {
	case DISCONNECTED:
		return "DISCONNECTED"
	case CONNECTING:
		return "CONNECTING"
	case WAIT:
		return "WAIT"
	case AUTH:
		return "AUTH"
	case GETCONFIG:
		return "GETCONFIG"
	case ASSIGNIP:
		return "ASSIGNIP"
	case ADDROUTES:
		return "ADDROUTES"
	case CONNECTED:
		return "CONNECTED"
	case RECONNECTING:
		return "RECONNECTING"
	case TCP_CONNECT:
		return "TCP_CONNECT"
	case EXITING:
		return "EXITING"
	case DISCONNECTING:
		return "DISCONNECTING"
	}
	return "<Unknown>"
}

// IsConnecting returns true for all intermediate states between DISCONNECTED and CONNECTED
func (s State) IsConnecting() bool {
	switch s {
	case CONNECTING, WAIT, AUTH, GETCONFIG, ASSIGNIP, ADDROUTES, RECONNECTING, TCP_CONNECT:
		return true
	}
	return false
}

// PauseState - logical pause state kept by the client
type PauseState int

const (
	Resumed  PauseState = iota
	Pausing  PauseState = iota
	Paused   PauseState = iota
	Resuming PauseState = iota
)

func (p PauseState) String() string {
	switch p {
	case Resumed:
		return "Resumed"
	case Pausing:
		return "Pausing"
	case Paused:
		return "Paused"
	case Resuming:
		return "Resuming"
	}
	return "<Unknown>"
}
