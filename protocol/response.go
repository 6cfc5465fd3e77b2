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
	"bytes"
	"encoding/json"
	"strconv"
)

// ResponseKind - every message kind the daemon sends to a client
type ResponseKind int

const (
	KindUnknown ResponseKind = iota
	KindEmptyResp
	KindErrorResp
	KindServiceExitingResp
	KindHelloResp
	KindConfigParamsResp
	KindSessionNewResp
	KindAccountStatusResp
	KindSessionStatusResp
	KindKillSwitchStatusResp
	KindDiagnosticsGeneratedResp
	KindSetAlternateDNSResp
	KindDnsPredefinedConfigsResp
	KindConnectedResp
	KindDisconnectedResp
	KindVpnStateResp
	KindServerListResp
	KindPingServersResp
	KindWiFiAvailableNetworksResp
	KindWiFiCurrentNetworkResp
	KindAPIResponse
	KindSplitTunnelStatus
	KindSplitTunnelAddAppCmdResp
	KindInstalledAppsResp
	KindAppIconResp
	KindTransferredDataResp
	KindHandshakeResp
)

var kindNames = [...]string{
	KindUnknown:                   "",
	KindEmptyResp:                 "EmptyResp",
	KindErrorResp:                 "ErrorResp",
	KindServiceExitingResp:        "ServiceExitingResp",
	KindHelloResp:                 "HelloResp",
	KindConfigParamsResp:          "ConfigParamsResp",
	KindSessionNewResp:            "SessionNewResp",
	KindAccountStatusResp:         "AccountStatusResp",
	KindSessionStatusResp:         "SessionStatusResp",
	KindKillSwitchStatusResp:      "KillSwitchStatusResp",
	KindDiagnosticsGeneratedResp:  "DiagnosticsGeneratedResp",
	KindSetAlternateDNSResp:       "SetAlternateDNSResp",
	KindDnsPredefinedConfigsResp:  "DnsPredefinedConfigsResp",
	KindConnectedResp:             "ConnectedResp",
	KindDisconnectedResp:          "DisconnectedResp",
	KindVpnStateResp:              "VpnStateResp",
	KindServerListResp:            "ServerListResp",
	KindPingServersResp:           "PingServersResp",
	KindWiFiAvailableNetworksResp: "WiFiAvailableNetworksResp",
	KindWiFiCurrentNetworkResp:    "WiFiCurrentNetworkResp",
	KindAPIResponse:               "APIResponse",
	KindSplitTunnelStatus:         "SplitTunnelStatus",
	KindSplitTunnelAddAppCmdResp:  "SplitTunnelAddAppCmdResp",
	KindInstalledAppsResp:         "InstalledAppsResp",
	KindAppIconResp:               "AppIconResp",
	KindTransferredDataResp:       "TransferredDataResp",
	KindHandshakeResp:             "HandshakeResp",
}

var kindsByName = func() map[string]ResponseKind {
	m := make(map[string]ResponseKind, len(kindNames))
	for k, name := range kindNames {
		if len(name) > 0 {
			m[name] = ResponseKind(k)
		}
	}
	return m
}()

// KindOf returns the kind of the command name (KindUnknown when not recognized)
func KindOf(command string) ResponseKind {
	return kindsByName[command]
}

func (k ResponseKind) String() string {
	if k > KindUnknown && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "<Unknown>"
}

// Response - one decoded message received from the daemon
type Response struct {
	Command string
	Idx     int
	Kind    ResponseKind

	// message body: the whole frame, or the unwrapped 'Data' payload
	// of the messages the daemon sends in the custom envelope
	Raw []byte

	errorMessage *string
}

// Decode unmarshals the message body into one of the types.*Resp structures
func (r *Response) Decode(v interface{}) error {
	if err := json.Unmarshal(r.Raw, v); err != nil {
		return &ProtocolError{Reason: "failed to decode " + r.Command, Err: err}
	}
	return nil
}

// ErrorMessage returns the text of ErrorResp
func (r *Response) ErrorMessage() (string, bool) {
	if r.Kind != KindErrorResp || r.errorMessage == nil {
		return "", false
	}
	return *r.errorMessage, true
}

type frameHeader struct {
	Command      string
	Idx          json.RawMessage
	ErrorMessage *string
	Data         *string
}

// decodeFrame parses the common part of a message.
// Stats notifications come in a custom envelope: {"Command":..., "Idx":"<garbage>", "Data":"<json>"};
// a non-numeric Idx is read as 0 and 'Data' becomes the message body.
func decodeFrame(frame []byte) (*Response, error) {
	var h frameHeader
	if err := json.Unmarshal(frame, &h); err != nil {
		return nil, &ProtocolError{Reason: "malformed frame", Err: err}
	}
	if len(h.Command) == 0 {
		return nil, &ProtocolError{Reason: "command name is not defined"}
	}

	resp := &Response{
		Command:      h.Command,
		Idx:          parseIdx(h.Idx),
		Kind:         KindOf(h.Command),
		Raw:          frame,
		errorMessage: h.ErrorMessage,
	}
	if h.Data != nil && (resp.Kind == KindTransferredDataResp || resp.Kind == KindHandshakeResp) {
		resp.Raw = []byte(*h.Data)
	}
	return resp, nil
}

func parseIdx(raw json.RawMessage) int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	if v, err := strconv.Atoi(string(raw)); err == nil {
		return v
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.Atoi(s); err == nil {
			return v
		}
	}
	return 0
}
