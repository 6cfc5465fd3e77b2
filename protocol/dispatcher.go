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
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"

	api_types "github.com/swapnilsparsh/devsVPN/uiclient/api/types"
	"github.com/swapnilsparsh/devsVPN/uiclient/dns"
	"github.com/swapnilsparsh/devsVPN/uiclient/protocol/types"
	"github.com/swapnilsparsh/devsVPN/uiclient/store"
	"github.com/swapnilsparsh/devsVPN/uiclient/version"
	"github.com/swapnilsparsh/devsVPN/uiclient/vpn"
)

// project applies a received message to the shared state.
// Runs on the dispatch loop before waiters of the message are resolved:
// follow-up requests are started in separate goroutines.
func (c *Client) project(resp *Response) {
	decode := func(v interface{}) bool {
		if err := resp.Decode(v); err != nil {
			log.Error(err)
			return false
		}
		return true
	}

	switch resp.Kind {
	case KindHelloResp:
		var r types.HelloResp
		if decode(&r) {
			c.processHelloResponse(r)
		}

	case KindConnectedResp:
		var r types.ConnectedResp
		if decode(&r) {
			c.processConnected(r)
		}

	case KindDisconnectedResp:
		var r types.DisconnectedResp
		if decode(&r) {
			c.processDisconnected(r)
		}

	case KindVpnStateResp:
		var r types.VpnStateResp
		if decode(&r) {
			c.store.SetConnectionState(r.StateVal)
		}

	case KindServerListResp:
		var r types.ServerListResp
		if decode(&r) {
			c.store.SetServers(r.VpnServers)
		}

	case KindPingServersResp:
		var r types.PingServersResp
		if decode(&r) {
			c.store.ApplyPingResults(r.PingResults)
		}

	case KindKillSwitchStatusResp:
		var r types.KillSwitchStatusResp
		if decode(&r) {
			c.store.SetFirewall(r.KillSwitchStatus)
			if c.store.Location(false) == nil && c.store.ConnectionState() == vpn.DISCONNECTED {
				c.goAsync("location refresh", func(ctx context.Context) error { return c.GeoLookup(ctx) })
			}
		}

	case KindSetAlternateDNSResp:
		var r types.SetAlternateDNSResp
		if decode(&r) {
			if r.IsSuccess {
				c.store.SetDns(r.ChangedDNS)
			} else {
				log.Error("Failed to change DNS: ", r.ErrorMessage)
			}
		}

	case KindDnsPredefinedConfigsResp:
		var r types.DnsPredefinedConfigsResp
		if decode(&r) {
			c.store.SetDnsPredefinedConfigs(r.DnsConfigs)
		}

	case KindConfigParamsResp:
		var r types.ConfigParamsResp
		if decode(&r) {
			c.store.SetConfigParams(r)
		}

	case KindAccountStatusResp:
		var r types.AccountStatusResp
		if decode(&r) && r.APIStatus == api_types.API_SUCCESS {
			c.store.SetAccountStatus(&r.Account)
		}

	case KindSessionStatusResp:
		var r types.SessionStatusResp
		if decode(&r) && r.APIStatus == api_types.API_SUCCESS {
			c.store.SetAccountStatus(&r.Account)
		}

	case KindWiFiCurrentNetworkResp:
		var r types.WiFiCurrentNetworkResp
		if decode(&r) {
			if len(r.Error) > 0 {
				log.Warning("Wi-Fi info: ", r.Error)
			}
			c.store.SetCurrentWiFi(store.WiFiInfo{SSID: r.SSID, IsInsecureNetwork: r.IsInsecureNetwork})
		}

	case KindWiFiAvailableNetworksResp:
		var r types.WiFiAvailableNetworksResp
		if decode(&r) {
			ssids := make([]string, 0, len(r.Networks))
			for _, n := range r.Networks {
				ssids = append(ssids, n.SSID)
			}
			c.store.SetAvailableWiFi(ssids)
		}

	case KindSplitTunnelStatus:
		var r types.SplitTunnelStatus
		if decode(&r) {
			c.store.SetSplitTunnel(r)
		}

	case KindTransferredDataResp:
		var r types.TransferredDataResp
		if decode(&r) {
			c.store.SetTransferredData(r.SentData, r.ReceivedData)
		}

	case KindHandshakeResp:
		var r types.HandshakeResp
		if decode(&r) {
			c.store.SetHandshakeTime(r.HandshakeTime)
		}

	case KindServiceExitingResp:
		log.Info("Daemon reported it is exiting")

	case KindErrorResp:
		if msg, ok := resp.ErrorMessage(); ok {
			log.Error(fmt.Sprintf("Daemon error [%d]: %s", resp.Idx, msg))
		}

	case KindEmptyResp,
		KindSessionNewResp,
		KindDiagnosticsGeneratedResp,
		KindAPIResponse,
		KindSplitTunnelAddAppCmdResp,
		KindInstalledAppsResp,
		KindAppIconResp:
		// direct responses: only the requester is interested

	case KindUnknown:
		log.Debug("Unknown message from the daemon: ", resp.Command)
	}
}

func (c *Client) processHelloResponse(r types.HelloResp) {
	c.store.SetDaemonVersion(r.Version)

	if len(r.SettingsSessionUUID) > 0 {
		if _, err := uuid.Parse(r.SettingsSessionUUID); err != nil {
			log.Warning("Unexpected settings session UUID format: ", r.SettingsSessionUUID)
		}
		current := c.store.Settings().SettingsSessionUUID
		if current != r.SettingsSessionUUID {
			if len(current) > 0 {
				log.Info("The daemon settings were reset. Resetting client settings ...")
				c.store.ResetSettings()
			}
			c.store.UpdateSettings(func(s *store.Settings) { s.SettingsSessionUUID = r.SettingsSessionUUID })
		}
	}

	isOld := !version.IsCompliant(r.Version, c.cfg.MinRequiredDaemonVersion)
	c.store.SetDaemonIsOldVersionError(isOld)
	if isOld {
		log.Warning(fmt.Sprintf("Daemon version v%s is older than required v%s", r.Version, c.cfg.MinRequiredDaemonVersion))
		return
	}

	c.commitSession(r.Session)

	if c.store.IsLoggedIn() && !c.store.IsAccountStateExists() {
		c.goAsync("account status update", func(ctx context.Context) error {
			if _, err := c.AccountStatus(ctx); err != nil {
				return err
			}
			return c.ServerList(ctx)
		})
	}

	c.store.SetDisabledFunctions(r.DisabledFunctions)
	if len(r.DisabledFunctions.WireGuardError) > 0 && c.store.Settings().VpnType == vpn.WireGuard {
		log.Warning("WireGuard is not available: ", r.DisabledFunctions.WireGuardError)
		c.store.UpdateSettings(func(s *store.Settings) { s.VpnType = vpn.OpenVPN })
	}

	c.store.SetDnsAbilities(r.Dns)
	if s := c.store.Settings(); s.DnsIsCustom && !r.Dns.IsSupported(s.DnsCustomCfg) {
		log.Warning("Custom DNS encryption is not supported by the daemon: ", s.DnsCustomCfg.Encryption, ". Custom DNS disabled")
		// never fall back to the same resolver unencrypted
		c.store.UpdateSettings(func(s *store.Settings) {
			s.DnsIsCustom = false
			s.DnsCustomCfg = dns.DnsSettings{}
		})
	}
}

// commitSession stores the session received from the daemon (empty token - logged out)
func (c *Client) commitSession(s types.SessionResp) {
	if len(s.WgPublicKey) > 0 {
		if _, err := wgtypes.ParseKey(s.WgPublicKey); err != nil {
			log.Warning("Session WireGuard public key is not valid: ", err)
		}
	}

	session := store.Session{
		AccountID:              s.AccountID,
		Session:                s.Session,
		DeviceName:             s.DeviceName,
		WgPublicKey:            s.WgPublicKey,
		WgLocalIP:              s.WgLocalIP,
		WgKeysRegenIntervalSec: s.WgKeysRegenInerval,
	}
	if s.WgKeyGenerated > 0 {
		session.WgKeyGenerated = time.Unix(s.WgKeyGenerated, 0)
	}
	c.store.SetSession(session)
}

func (c *Client) processConnected(r types.ConnectedResp) {
	c.store.SetConnected(store.ConnectionInfo{
		VpnType:        r.VpnType,
		ConnectedSince: time.Unix(r.TimeSecFrom1970, 0),
		ClientIP:       r.ClientIP,
		ClientIPv6:     r.ClientIPv6,
		ServerIP:       r.ServerIP,
		ExitServerID:   r.ExitServerID,
		ManualDNS:      r.ManualDNS,
		IsCanPause:     r.IsCanPause,
	})

	if c.store.PauseState() == vpn.Paused {
		// reconnected while paused: the daemon has to be paused again
		till := c.store.PauseConnectionTill()
		c.goAsync("pause re-apply", func(ctx context.Context) error {
			d := time.Until(till)
			if till.IsZero() || d <= 0 {
				return c.Resume(ctx)
			}
			return c.applyPause(ctx, d)
		})
		return
	}
	c.goAsync("location refresh", func(ctx context.Context) error { return c.GeoLookup(ctx) })
}

func (c *Client) processDisconnected(r types.DisconnectedResp) {
	c.store.SetPauseState(vpn.Resumed)
	c.store.SetDisconnected(r.ReasonDescription)

	if c.store.Settings().FirewallDeactivateOnDisconnect {
		c.goAsync("firewall deactivation", func(ctx context.Context) error {
			if fw, known := c.store.Firewall(); known && !fw.IsEnabled {
				return nil
			}
			return c.EnableFirewall(ctx, false)
		})
	}
	c.goAsync("location refresh", func(ctx context.Context) error { return c.GeoLookup(ctx) })
}

// goAsync runs a follow-up request outside of the dispatch loop
func (c *Client) goAsync(name string, fn func(ctx context.Context) error) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error(fmt.Sprintf("PANIC in %s!: ", name), r)
			}
		}()
		if err := fn(context.Background()); err != nil {
			log.Warning(fmt.Sprintf("%s: %s", name, err))
		}
	}()
}
