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

package trustedwifi

import (
	"context"
	"fmt"
	"sync"

	"github.com/swapnilsparsh/devsVPN/uiclient/logger"
	"github.com/swapnilsparsh/devsVPN/uiclient/store"
	"github.com/swapnilsparsh/devsVPN/uiclient/vpn"
)

var log *logger.Logger

func init() {
	log = logger.NewLogger("wifi")
}

// Controller - VPN operations the trust rules are applied with
type Controller interface {
	Connect(ctx context.Context, entryGateway, exitGateway string) error
	Disconnect(ctx context.Context) error
	Resume(ctx context.Context) error
	EnableFirewall(ctx context.Context, enable bool) error
}

// Policy answers questions about the current Wi-Fi network using the user settings
type Policy struct {
	store *store.Store
}

func NewPolicy(st *store.Store) *Policy {
	return &Policy{store: st}
}

// CanAutoConnectForCurrentSSID returns false when an automatic VPN connection is not allowed:
// not logged in, or the current network is trusted and the 'disconnect VPN on trusted network' action is set.
func (p *Policy) CanAutoConnectForCurrentSSID() bool {
	if !p.store.IsLoggedIn() {
		return false
	}

	wifi := p.store.Settings().Wifi
	if !wifi.TrustedNetworksControl {
		return true
	}

	current := p.store.CurrentWiFi()
	if current == nil || len(current.SSID) == 0 {
		return true
	}

	isTrusted := wifi.TrustRule(current.SSID)
	if isTrusted != nil && *isTrusted && wifi.Actions.TrustedDisconnectVpn {
		return false
	}
	return true
}

// appliedRule - the last rule applied; the same rule is not applied twice for one network
type appliedRule struct {
	ssid      string
	isTrusted *bool // nil - the insecure network rule
}

func (r *appliedRule) is(ssid string, isTrusted *bool) bool {
	if r == nil || r.ssid != ssid {
		return false
	}
	if r.isTrusted == nil || isTrusted == nil {
		return r.isTrusted == nil && isTrusted == nil
	}
	return *r.isTrusted == *isTrusted
}

// Monitor applies the trust rules each time the current Wi-Fi network or the Wi-Fi settings change
type Monitor struct {
	store *store.Store
	ctrl  Controller

	mu       sync.Mutex
	lastRule *appliedRule
}

func NewMonitor(st *store.Store, ctrl Controller) *Monitor {
	return &Monitor{store: st, ctrl: ctrl}
}

// Run processes Wi-Fi changes until the context is done
func (m *Monitor) Run(ctx context.Context) error {
	changed := make(chan struct{}, 1)
	unsubscribe := m.store.Subscribe(func(mut store.Mutation) {
		if mut != store.MutWiFiInfo && mut != store.MutSettings {
			return
		}
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changed:
			if _, err := m.ProcessWifiChange(ctx); err != nil {
				log.Error(fmt.Errorf("failed to apply Wi-Fi rule: %w", err))
			}
		}
	}
}

// ProcessWifiChange applies the rule for the current network:
// the configured trust status, else the default one, else the insecure network rule.
// Returns true when a rule was applied.
func (m *Monitor) ProcessWifiChange(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.store.IsLoggedIn() {
		return false, nil
	}

	wifi := m.store.Settings().Wifi
	current := m.store.CurrentWiFi()
	if current == nil || len(current.SSID) == 0 {
		m.lastRule = nil
		return false, nil
	}
	ssid := current.SSID

	if wifi.TrustedNetworksControl {
		isTrusted := wifi.TrustRule(ssid)
		if isTrusted == nil {
			isTrusted = wifi.DefaultTrustStatusTrusted
		}
		if isTrusted != nil {
			if m.lastRule.is(ssid, isTrusted) {
				return false, nil
			}
			err := m.applyTrustRule(ctx, *isTrusted, wifi.Actions)
			m.lastRule = &appliedRule{ssid: ssid, isTrusted: isTrusted}
			return true, err
		}
	}

	if current.IsInsecureNetwork && wifi.ConnectVPNOnInsecureNetwork && !m.isConnectedOrConnecting() {
		if m.lastRule != nil && m.lastRule.ssid == ssid {
			return false, nil
		}
		log.Info("Joined insecure network. Connecting (according to preferences) ...")
		err := m.ctrl.Connect(ctx, "", "")
		m.lastRule = &appliedRule{ssid: ssid}
		return true, err
	}

	m.lastRule = nil
	return false, nil
}

func (m *Monitor) isConnectedOrConnecting() bool {
	s := m.store.ConnectionState()
	return s == vpn.CONNECTED || s.IsConnecting()
}

func (m *Monitor) applyTrustRule(ctx context.Context, isTrusted bool, actions store.WifiActions) error {
	fw, fwKnown := m.store.Firewall()

	if isTrusted {
		if actions.TrustedDisconnectVpn && m.store.ConnectionState() != vpn.DISCONNECTED {
			log.Info("Joined trusted network. Disconnecting (according to preferences) ...")
			if err := m.ctrl.Disconnect(ctx); err != nil {
				return err
			}
		}
		if actions.TrustedDisableFirewall && (!fwKnown || fw.IsEnabled) {
			log.Info("Joined trusted network. Disabling firewall (according to preferences) ...")
			return m.ctrl.EnableFirewall(ctx, false)
		}
		return nil
	}

	if actions.UnTrustedEnableFirewall && (!fwKnown || !fw.IsEnabled) {
		log.Info("Joined untrusted network. Enabling firewall (according to preferences) ...")
		if err := m.ctrl.Resume(ctx); err != nil {
			return err
		}
		if err := m.ctrl.EnableFirewall(ctx, true); err != nil {
			return err
		}
	}
	if actions.UnTrustedConnectVpn && !m.isConnectedOrConnecting() {
		log.Info("Joined untrusted network. Connecting (according to preferences) ...")
		return m.ctrl.Connect(ctx, "", "")
	}
	return nil
}
