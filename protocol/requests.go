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
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strconv"

	api_types "github.com/swapnilsparsh/devsVPN/uiclient/api/types"
	"github.com/swapnilsparsh/devsVPN/uiclient/dns"
	"github.com/swapnilsparsh/devsVPN/uiclient/helpers"
	"github.com/swapnilsparsh/devsVPN/uiclient/protocol/types"
	"github.com/swapnilsparsh/devsVPN/uiclient/store"
	"github.com/swapnilsparsh/devsVPN/uiclient/vpn"
)

// Login creates a new session. The whole response is returned, also when the backend refused the login:
// it holds the error details.
func (c *Client) Login(ctx context.Context, emailOrAccountID, password, deviceName string) (*types.SessionNewResp, error) {
	if len(deviceName) == 0 {
		deviceName = helpers.DefaultDeviceName()
	}
	req := &types.SessionNew{
		EmailOrAcctID:  emailOrAccountID,
		Password:       password,
		DeviceName:     deviceName,
		StableDeviceID: true,
	}

	var resp types.SessionNewResp
	if err := c.request(ctx, req, &resp, 0, "SessionNewResp"); err != nil {
		return nil, err
	}
	if resp.APIStatus == api_types.API_SUCCESS && len(resp.Session.Session) > 0 {
		c.commitSession(resp.Session)
		c.store.SetAccountStatus(&resp.Account)
	}
	return &resp, nil
}

// Logout deletes the session. On success the settings are reset when requested.
func (c *Client) Logout(ctx context.Context, needToResetSettings, needToDisableFirewall, isCanDeleteSessionLocally bool) error {
	wasExpectedLoggedIn := c.store.Settings().IsExpectedAccountToBeLoggedIn
	c.store.UpdateSettings(func(s *store.Settings) { s.IsExpectedAccountToBeLoggedIn = false })

	req := &types.SessionDelete{
		NeedToResetSettings:       needToResetSettings,
		NeedToDisableFirewall:     needToDisableFirewall,
		IsCanDeleteSessionLocally: isCanDeleteSessionLocally,
	}
	if _, err := c.sendRecv(ctx, req, 0); err != nil {
		if wasExpectedLoggedIn {
			c.store.UpdateSettings(func(s *store.Settings) { s.IsExpectedAccountToBeLoggedIn = true })
		}
		return err
	}

	c.store.SetSession(store.Session{})
	c.store.SetAccountStatus(nil)
	if needToResetSettings {
		c.store.ResetSettings()
	}
	return nil
}

// AccountStatus requests the actual account status from the backend (through the daemon)
func (c *Client) AccountStatus(ctx context.Context) (*types.SessionStatusResp, error) {
	var resp types.SessionStatusResp
	if err := c.request(ctx, &types.SessionStatus{}, &resp, 0); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ServerList requests the daemon to update the server list; it is stored on arrival
func (c *Client) ServerList(ctx context.Context) error {
	_, err := c.sendRecv(ctx, &types.GetServers{RequestServersUpdate: true}, 0, "ServerListResp")
	log.Info("Server list requested")
	return err
}

// APIRequest passes a request to the backend API through the daemon
func (c *Client) APIRequest(ctx context.Context, req *types.APIRequest) (*types.APIResponse, error) {
	var resp types.APIResponse
	if err := c.request(ctx, req, &resp, 0); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetDiagnosticLogs requests the daemon and environment logs
func (c *Client) GetDiagnosticLogs(ctx context.Context) (*types.DiagnosticsGeneratedResp, error) {
	var resp types.DiagnosticsGeneratedResp
	if err := c.request(ctx, &types.GenerateDiagnostics{}, &resp, 0); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ---------------------------------------------------------------------------
// firewall

func (c *Client) KillSwitchGetStatus(ctx context.Context) (types.KillSwitchStatus, error) {
	var resp types.KillSwitchStatusResp
	if err := c.request(ctx, &types.KillSwitchGetStatus{}, &resp, 0); err != nil {
		return types.KillSwitchStatus{}, err
	}
	return resp.KillSwitchStatus, nil
}

func (c *Client) KillSwitchSetAllowApiServers(ctx context.Context, allow bool) error {
	_, err := c.sendRecv(ctx, &types.KillSwitchSetAllowApiServers{IsAllowApiServers: allow}, 0)
	return err
}

func (c *Client) KillSwitchSetAllowLANMulticast(ctx context.Context, allow bool) error {
	_, err := c.sendRecv(ctx, &types.KillSwitchSetAllowLANMulticast{AllowLANMulticast: allow, Synchronously: true}, 0)
	return err
}

func (c *Client) KillSwitchSetAllowLAN(ctx context.Context, allow bool) error {
	_, err := c.sendRecv(ctx, &types.KillSwitchSetAllowLAN{AllowLAN: allow, Synchronously: true}, 0)
	return err
}

// KillSwitchSetIsPersistent switches the persistent firewall mode. Can not be enabled while paused.
func (c *Client) KillSwitchSetIsPersistent(ctx context.Context, isPersistent bool) error {
	if isPersistent && c.store.PauseState() != vpn.Resumed {
		return ErrFirewallForbiddenWhilePaused
	}
	_, err := c.sendRecv(ctx, &types.KillSwitchSetIsPersistent{IsPersistent: isPersistent}, 0)
	return err
}

// ---------------------------------------------------------------------------
// split tunnel

func (c *Client) SplitTunnelGetStatus(ctx context.Context) (*types.SplitTunnelStatus, error) {
	var resp types.SplitTunnelStatus
	if err := c.request(ctx, &types.SplitTunnelGetStatus{}, &resp, 0, "SplitTunnelStatus"); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SplitTunnelSetConfig(ctx context.Context, isEnabled, reset bool) error {
	_, err := c.sendRecv(ctx, &types.SplitTunnelSetConfig{IsEnabled: isEnabled, Reset: reset}, 0, "SplitTunnelStatus")
	return err
}

// SplitTunnelAddApp registers an application in the split tunnel.
// When the daemon answers with SplitTunnelAddAppCmdResp, the application must be (re)started
// by the caller with the returned command; nil response - the application is added.
func (c *Client) SplitTunnelAddApp(ctx context.Context, exec string) (*types.SplitTunnelAddAppCmdResp, error) {
	r, err := c.sendRecv(ctx, &types.SplitTunnelAddApp{Exec: exec}, 0, "SplitTunnelAddAppCmdResp", "EmptyResp")
	if err != nil {
		return nil, err
	}
	if r.Kind != KindSplitTunnelAddAppCmdResp {
		return nil, nil
	}
	var resp types.SplitTunnelAddAppCmdResp
	if err := r.Decode(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SplitTunnelRemoveApp(ctx context.Context, pid int, exec string) error {
	_, err := c.sendRecv(ctx, &types.SplitTunnelRemoveApp{Pid: pid, Exec: exec}, 0)
	return err
}

// GetInstalledApps returns applications installed for the current user
func (c *Client) GetInstalledApps(ctx context.Context) ([]types.AppInfo, error) {
	extraArgs, err := installedAppsExtraArgs()
	if err != nil {
		return nil, err
	}
	var resp types.InstalledAppsResp
	if err := c.request(ctx, &types.GetInstalledApps{ExtraArgsJSON: extraArgs}, &resp, c.cfg.Timeouts.InstalledApps, "InstalledAppsResp"); err != nil {
		return nil, err
	}
	return resp.Apps, nil
}

// installedAppsExtraArgs - user environment the daemon needs to find applications and their icons
func installedAppsExtraArgs() (string, error) {
	var args interface{}
	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("APPDATA")
		if len(appData) == 0 {
			return "", nil
		}
		args = struct{ WindowsEnvAppdata string }{appData}
	case "linux":
		desktop := os.Getenv("ORIGINAL_XDG_CURRENT_DESKTOP")
		if len(desktop) == 0 {
			desktop = os.Getenv("XDG_CURRENT_DESKTOP")
		}
		args = struct {
			EnvVar_XDG_CURRENT_DESKTOP string
			EnvVar_XDG_DATA_DIRS       string
			EnvVar_HOME                string
		}{desktop, os.Getenv("XDG_DATA_DIRS"), os.Getenv("HOME")}
	default:
		return "", nil
	}
	data, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("failed to serialize installed apps arguments: %w", err)
	}
	return string(data), nil
}

// GetAppIcon returns the base64 png icon of the binary (empty when the daemon can not provide icons)
func (c *Client) GetAppIcon(ctx context.Context, binaryPath string) (string, error) {
	if !c.store.SplitTunnel().IsCanGetAppIconForBinary {
		return "", nil
	}
	var resp types.AppIconResp
	if err := c.request(ctx, &types.GetAppIcon{AppBinaryPath: binaryPath}, &resp, 0); err != nil {
		return "", err
	}
	return resp.AppIcon, nil
}

// ---------------------------------------------------------------------------
// DNS and preferences

// SetDNS applies the DNS configured in settings to the active connection.
// 'antitracker' (when not nil) is saved to settings first.
func (c *Client) SetDNS(ctx context.Context, antitracker *bool) error {
	if antitracker != nil {
		c.store.UpdateSettings(func(s *store.Settings) { s.IsAntitracker = *antitracker })
	}
	if c.store.ConnectionState() == vpn.DISCONNECTED {
		// applied on the next connection
		return nil
	}
	_, err := c.sendRecv(ctx, &types.SetAlternateDns{Dns: c.manualDNS(c.store.Settings())}, 0)
	return err
}

// RequestDnsPredefinedConfigs requests the DoH/DoT configurations known to the daemon
func (c *Client) RequestDnsPredefinedConfigs(ctx context.Context) ([]dns.DnsSettings, error) {
	var resp types.DnsPredefinedConfigsResp
	if err := c.request(ctx, &types.GetDnsPredefinedConfigs{}, &resp, 0, "DnsPredefinedConfigsResp"); err != nil {
		return nil, err
	}
	return resp.DnsConfigs, nil
}

// SetPreference sends a daemon preference without waiting for a response
func (c *Client) SetPreference(key types.ServicePreference, value string) error {
	return c.send(&types.SetPreference{Key: key, Value: value})
}

// SetLogging sends the logging setting to the daemon
func (c *Client) SetLogging() error {
	return c.SetPreference(types.Prefs_IsEnableLogging, strconv.FormatBool(c.store.Settings().Logging))
}

// SetObfsproxy sends the obfsproxy setting to the daemon
func (c *Client) SetObfsproxy() error {
	return c.SetPreference(types.Prefs_IsEnableObfsproxy, strconv.FormatBool(c.store.Settings().ConnectionUseObfsproxy))
}

func (c *Client) WgRegenerateKeys(ctx context.Context) error {
	_, err := c.sendRecv(ctx, &types.WireGuardGenerateNewKeys{}, 0)
	return err
}

func (c *Client) WgSetKeysRotationInterval(ctx context.Context, intervalSec int64) error {
	_, err := c.sendRecv(ctx, &types.WireGuardSetKeysRotationInterval{Interval: intervalSec}, 0)
	return err
}

// ---------------------------------------------------------------------------
// Wi-Fi

// GetWiFiAvailableNetworks asks for visible networks; the answer is stored on arrival
func (c *Client) GetWiFiAvailableNetworks() error {
	return c.send(&types.WiFiAvailableNetworks{})
}

func (c *Client) GetWiFiCurrentNetwork(ctx context.Context) (*store.WiFiInfo, error) {
	var resp types.WiFiCurrentNetworkResp
	if err := c.request(ctx, &types.WiFiCurrentNetwork{}, &resp, 0, "WiFiCurrentNetworkResp"); err != nil {
		return nil, err
	}
	return &store.WiFiInfo{SSID: resp.SSID, IsInsecureNetwork: resp.IsInsecureNetwork}, nil
}
