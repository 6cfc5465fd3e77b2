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
	"sync"
	"time"

	api_types "github.com/swapnilsparsh/devsVPN/uiclient/api/types"
	"github.com/swapnilsparsh/devsVPN/uiclient/dns"
	"github.com/swapnilsparsh/devsVPN/uiclient/logger"
	"github.com/swapnilsparsh/devsVPN/uiclient/protocol/types"
	"github.com/swapnilsparsh/devsVPN/uiclient/vpn"
)

var log *logger.Logger

func init() {
	log = logger.NewLogger("store")
}

// Store - the shared client state. Safe for concurrent use.
// Subscribers are notified after the change is applied, on the goroutine that made the change.
type Store struct {
	mu    sync.RWMutex
	state State

	subsMu  sync.Mutex
	subs    map[int]func(Mutation)
	lastSub int
}

// New creates the store with default settings
func New() *Store {
	return &Store{
		state: State{
			Settings:        DefaultSettings(),
			ConnectionState: vpn.DISCONNECTED,
		},
		subs: make(map[int]func(Mutation)),
	}
}

// Subscribe registers a mutation handler. Call the returned function to unsubscribe.
// Handlers must not block.
func (s *Store) Subscribe(fn func(Mutation)) (unsubscribe func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	s.lastSub++
	id := s.lastSub
	s.subs[id] = fn
	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify(muts ...Mutation) {
	if len(muts) == 0 {
		return
	}
	s.subsMu.Lock()
	handlers := make([]func(Mutation), 0, len(s.subs))
	for _, fn := range s.subs {
		handlers = append(handlers, fn)
	}
	s.subsMu.Unlock()

	for _, m := range muts {
		for _, fn := range handlers {
			fn(m)
		}
	}
}

// mutate applies 'fn' under the write lock and notifies subscribers about returned mutations
func (s *Store) mutate(fn func(st *State) []Mutation) {
	s.mu.Lock()
	muts := fn(&s.state)
	s.mu.Unlock()
	s.notify(muts...)
}

func (s *Store) read(fn func(st *State)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.state)
}

// Snapshot returns a copy of the whole state
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ret := s.state
	ret.Settings = s.state.Settings.clone()
	ret.Catalog = s.state.Catalog.clone()
	ret.DnsPredefinedConfigs = append([]dns.DnsSettings(nil), s.state.DnsPredefinedConfigs...)
	ret.AvailableWiFi = append([]string(nil), s.state.AvailableWiFi...)
	ret.SplitTunnel.SplitTunnelApps = append([]string(nil), s.state.SplitTunnel.SplitTunnelApps...)
	ret.SplitTunnel.RunningApps = append([]types.RunningApp(nil), s.state.SplitTunnel.RunningApps...)
	if s.state.AccountStatus != nil {
		v := *s.state.AccountStatus
		ret.AccountStatus = &v
	}
	if s.state.ConnectionInfo != nil {
		v := *s.state.ConnectionInfo
		ret.ConnectionInfo = &v
	}
	if s.state.CurrentWiFi != nil {
		v := *s.state.CurrentWiFi
		ret.CurrentWiFi = &v
	}
	ret.Location = cloneLocation(s.state.Location)
	ret.LocationIPv6 = cloneLocation(s.state.LocationIPv6)
	ret.LastRealLocation = cloneLocation(s.state.LastRealLocation)
	return ret
}

func cloneLocation(l *Location) *Location {
	if l == nil {
		return nil
	}
	v := *l
	return &v
}

// ---------------------------------------------------------------------------
// daemon

func (s *Store) DaemonConnectionState() (ret DaemonConnectionState) {
	s.read(func(st *State) { ret = st.DaemonConnectionState })
	return ret
}

func (s *Store) SetDaemonConnectionState(v DaemonConnectionState) {
	s.mutate(func(st *State) []Mutation {
		if st.DaemonConnectionState == v {
			return nil
		}
		st.DaemonConnectionState = v
		return []Mutation{MutDaemonConnection}
	})
}

func (s *Store) SetDaemonVersion(ver string) {
	s.mutate(func(st *State) []Mutation {
		st.DaemonVersion = ver
		return []Mutation{MutDaemonVersion}
	})
}

func (s *Store) SetDaemonIsOldVersionError(isOld bool) {
	s.mutate(func(st *State) []Mutation {
		st.DaemonIsOldVersionError = isOld
		return []Mutation{MutDaemonVersion}
	})
}

// DaemonIsOldVersion returns the compliance flag set by the last HelloResp
func (s *Store) DaemonIsOldVersion() (isOld bool, daemonVersion string) {
	s.read(func(st *State) { isOld, daemonVersion = st.DaemonIsOldVersionError, st.DaemonVersion })
	return isOld, daemonVersion
}

func (s *Store) SetDisabledFunctions(v types.DisabledFunctionality) {
	s.mutate(func(st *State) []Mutation {
		st.DisabledFunctions = v
		return []Mutation{MutDisabledFunctions}
	})
}

func (s *Store) DnsAbilities() (ret dns.Abilities) {
	s.read(func(st *State) { ret = st.DnsAbilities })
	return ret
}

func (s *Store) SetDnsAbilities(v dns.Abilities) {
	s.mutate(func(st *State) []Mutation {
		st.DnsAbilities = v
		return []Mutation{MutDnsAbilities}
	})
}

func (s *Store) SetConfigParams(v types.ConfigParamsResp) {
	s.mutate(func(st *State) []Mutation {
		st.ConfigParams = v
		return []Mutation{MutConfigParams}
	})
}

func (s *Store) SetDnsPredefinedConfigs(v []dns.DnsSettings) {
	s.mutate(func(st *State) []Mutation {
		st.DnsPredefinedConfigs = append([]dns.DnsSettings(nil), v...)
		return []Mutation{MutDnsPredefined}
	})
}

// ---------------------------------------------------------------------------
// settings

// Settings returns a copy of the settings
func (s *Store) Settings() (ret Settings) {
	s.read(func(st *State) { ret = st.Settings.clone() })
	return ret
}

// UpdateSettings modifies settings in place
func (s *Store) UpdateSettings(fn func(settings *Settings)) {
	s.mutate(func(st *State) []Mutation {
		fn(&st.Settings)
		return []Mutation{MutSettings}
	})
}

// ResetSettings restores default settings. The settings epoch is kept.
func (s *Store) ResetSettings() {
	s.mutate(func(st *State) []Mutation {
		epoch := st.Settings.SettingsSessionUUID
		st.Settings = DefaultSettings()
		st.Settings.SettingsSessionUUID = epoch
		return []Mutation{MutSettings}
	})
	log.Info("Settings reset to defaults")
}

// ---------------------------------------------------------------------------
// account

func (s *Store) Session() (ret Session) {
	s.read(func(st *State) { ret = st.Session })
	return ret
}

func (s *Store) SetSession(v Session) {
	s.mutate(func(st *State) []Mutation {
		st.Session = v
		muts := []Mutation{MutSession}
		if len(v.Session) > 0 && !st.Settings.IsExpectedAccountToBeLoggedIn {
			st.Settings.IsExpectedAccountToBeLoggedIn = true
			muts = append(muts, MutSettings)
		}
		return muts
	})
}

func (s *Store) IsLoggedIn() (ret bool) {
	s.read(func(st *State) { ret = st.IsLoggedIn() })
	return ret
}

func (s *Store) IsAccountStateExists() (ret bool) {
	s.read(func(st *State) { ret = st.AccountStatus != nil })
	return ret
}

func (s *Store) SetAccountStatus(v *types.AccountStatus) {
	s.mutate(func(st *State) []Mutation {
		if v == nil {
			st.AccountStatus = nil
		} else {
			c := *v
			st.AccountStatus = &c
		}
		return []Mutation{MutAccountStatus}
	})
}

// ---------------------------------------------------------------------------
// VPN state

func (s *Store) ConnectionState() (ret vpn.State) {
	s.read(func(st *State) { ret = st.ConnectionState })
	return ret
}

func (s *Store) SetConnectionState(v vpn.State) {
	s.mutate(func(st *State) []Mutation {
		st.ConnectionState = v
		return []Mutation{MutConnectionState}
	})
}

// SetConnected stores connection details and marks the state CONNECTED.
// Entry and exit servers are resolved from the catalog and saved as selected.
func (s *Store) SetConnected(ci ConnectionInfo) {
	s.mutate(func(st *State) []Mutation {
		st.ConnectionInfo = &ci
		st.ConnectionState = vpn.CONNECTED
		st.Settings.VpnType = ci.VpnType

		servers := activeServers(st)
		if srv := findServerByIP(servers, ci.ServerIP); srv != nil {
			st.Settings.ServerEntry = srv.Gateway
		}
		if len(ci.ExitServerID) > 0 {
			if srv := findServerByGatewayID(servers, ci.ExitServerID); srv != nil {
				st.Settings.ServerExit = srv.Gateway
			}
		}

		st.Dns = ci.ManualDNS
		st.Settings.IsAntitracker = isAntitrackerActive(st)

		return []Mutation{MutConnectionInfo, MutConnectionState, MutDns, MutSettings}
	})
}

func (s *Store) SetDisconnected(reasonDescription string) {
	s.mutate(func(st *State) []Mutation {
		st.ConnectionInfo = nil
		st.DisconnectedReason = reasonDescription
		st.ConnectionState = vpn.DISCONNECTED
		return []Mutation{MutDisconnected, MutConnectionState}
	})
}

func (s *Store) ConnectionInfo() *ConnectionInfo {
	var ret *ConnectionInfo
	s.read(func(st *State) {
		if st.ConnectionInfo != nil {
			v := *st.ConnectionInfo
			ret = &v
		}
	})
	return ret
}

func (s *Store) PauseState() (ret vpn.PauseState) {
	s.read(func(st *State) { ret = st.PauseState })
	return ret
}

// SetPauseState sets the logical pause state; Resumed and Resuming clear the resume deadline
func (s *Store) SetPauseState(v vpn.PauseState) {
	s.mutate(func(st *State) []Mutation {
		st.PauseState = v
		muts := []Mutation{MutPauseState}
		if (v == vpn.Resumed || v == vpn.Resuming) && !st.PauseConnectionTill.IsZero() {
			st.PauseConnectionTill = time.Time{}
			muts = append(muts, MutPauseTill)
		}
		return muts
	})
}

func (s *Store) PauseConnectionTill() (ret time.Time) {
	s.read(func(st *State) { ret = st.PauseConnectionTill })
	return ret
}

// SetPauseConnectionTill sets the absolute resume deadline (zero time - none)
func (s *Store) SetPauseConnectionTill(t time.Time) {
	s.mutate(func(st *State) []Mutation {
		st.PauseConnectionTill = t
		return []Mutation{MutPauseTill}
	})
}

func (s *Store) Firewall() (status types.KillSwitchStatus, known bool) {
	s.read(func(st *State) { status, known = st.Firewall, st.FirewallKnown })
	return status, known
}

func (s *Store) SetFirewall(v types.KillSwitchStatus) {
	s.mutate(func(st *State) []Mutation {
		st.Firewall = v
		st.FirewallKnown = true
		return []Mutation{MutFirewall}
	})
}

func (s *Store) SplitTunnel() (ret types.SplitTunnelStatus) {
	s.read(func(st *State) { ret = st.SplitTunnel })
	return ret
}

func (s *Store) SetSplitTunnel(v types.SplitTunnelStatus) {
	v.CommandBase = types.CommandBase{}
	s.mutate(func(st *State) []Mutation {
		st.SplitTunnel = v
		return []Mutation{MutSplitTunnel}
	})
}

func (s *Store) Dns() (ret dns.DnsSettings) {
	s.read(func(st *State) { ret = st.Dns })
	return ret
}

// SetDns stores the DNS in use and syncs the antitracker flag of the settings with it
func (s *Store) SetDns(v dns.DnsSettings) {
	s.mutate(func(st *State) []Mutation {
		st.Dns = v
		st.Settings.IsAntitracker = isAntitrackerActive(st)
		return []Mutation{MutDns, MutSettings}
	})
}

func (s *Store) CurrentWiFi() *WiFiInfo {
	var ret *WiFiInfo
	s.read(func(st *State) {
		if st.CurrentWiFi != nil {
			v := *st.CurrentWiFi
			ret = &v
		}
	})
	return ret
}

func (s *Store) SetCurrentWiFi(v WiFiInfo) {
	s.mutate(func(st *State) []Mutation {
		st.CurrentWiFi = &v
		return []Mutation{MutWiFiInfo}
	})
}

func (s *Store) SetAvailableWiFi(ssids []string) {
	s.mutate(func(st *State) []Mutation {
		st.AvailableWiFi = append([]string(nil), ssids...)
		return []Mutation{MutWiFiAvailable}
	})
}

func (s *Store) SetTransferredData(sent, received string) {
	s.mutate(func(st *State) []Mutation {
		st.TransferredData.SentData = sent
		st.TransferredData.ReceivedData = received
		return []Mutation{MutTransferredData}
	})
}

func (s *Store) SetHandshakeTime(t string) {
	s.mutate(func(st *State) []Mutation {
		st.TransferredData.HandshakeTime = t
		return []Mutation{MutTransferredData}
	})
}

// ---------------------------------------------------------------------------
// servers

// SetServers replaces the catalog keeping measured pings of the servers that still exist
func (s *Store) SetServers(resp api_types.ServersInfoResponse) {
	c := newCatalog(resp)
	s.mutate(func(st *State) []Mutation {
		c.copyPingsFrom(&st.Catalog)
		st.Catalog = c
		return []Mutation{MutServers}
	})
}

// ApplyPingResults updates ping info of servers with a host present in the results
func (s *Store) ApplyPingResults(results []types.PingResultType) {
	pings := make(map[string]int, len(results))
	for _, r := range results {
		pings[r.Host] = r.Ping
	}
	s.mutate(func(st *State) []Mutation {
		updated := st.Catalog.applyPings(pings)
		log.Debug("Ping results: ", len(results), " hosts; ", updated, " servers updated")
		return []Mutation{MutServersPing}
	})
}

func (s *Store) IsAnyPing() (ret bool) {
	s.read(func(st *State) { ret = st.Catalog.isAnyPing() })
	return ret
}

func (s *Store) IsPingingServers() (ret bool) {
	s.read(func(st *State) { ret = st.IsPingingServers })
	return ret
}

func (s *Store) SetPingingServers(v bool) {
	s.mutate(func(st *State) []Mutation {
		st.IsPingingServers = v
		return []Mutation{MutPinging}
	})
}

// ---------------------------------------------------------------------------
// location

// Location returns the location for the address family (nil - unknown)
func (s *Store) Location(isIPv6 bool) *Location {
	var ret *Location
	s.read(func(st *State) {
		if isIPv6 {
			ret = cloneLocation(st.LocationIPv6)
		} else {
			ret = cloneLocation(st.Location)
		}
	})
	return ret
}

func (s *Store) LastRealLocation() *Location {
	var ret *Location
	s.read(func(st *State) { ret = cloneLocation(st.LastRealLocation) })
	return ret
}

// SetLocation stores the location of the address family; a real location also becomes the last real one
func (s *Store) SetLocation(isIPv6 bool, l *Location) {
	l = cloneLocation(l)
	s.mutate(func(st *State) []Mutation {
		mut := MutLocation
		if isIPv6 {
			st.LocationIPv6 = l
			mut = MutLocationIPv6
		} else {
			st.Location = l
		}
		if l != nil && l.IsRealLocation {
			st.LastRealLocation = cloneLocation(l)
		}
		return []Mutation{mut}
	})
}

func (s *Store) SetRequestingLocation(isIPv6 bool, v bool) {
	s.mutate(func(st *State) []Mutation {
		if isIPv6 {
			st.IsRequestingLocationIPv6 = v
		} else {
			st.IsRequestingLocation = v
		}
		return []Mutation{MutRequestingLoc}
	})
}

// IsRealLocationState returns true when a geolocation obtained now reflects
// the real address of the machine (disconnected or paused)
func (s *Store) IsRealLocationState() (ret bool) {
	s.read(func(st *State) {
		ret = st.ConnectionState == vpn.DISCONNECTED || st.PauseState == vpn.Paused
	})
	return ret
}
