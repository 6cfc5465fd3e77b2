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

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/swapnilsparsh/devsVPN/uiclient/helpers"
	"github.com/swapnilsparsh/devsVPN/uiclient/store"
	"github.com/swapnilsparsh/devsVPN/uiclient/vpn"
)

// the daemon reports the VPN state right after the handshake
const stateReportTimeout = 2 * time.Second

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the daemon, account, VPN and firewall status",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if _, err := s.client.KillSwitchGetStatus(cmd.Context()); err != nil {
				log.Warning(err)
			}
			waitFor(cmd.Context(), s.store, stateReportTimeout, func() bool { return s.store.ConnectionInfo() != nil })
			printStatus(s.store)
			return nil
		},
	}
}

func printStatus(st *store.Store) {
	snap := st.Snapshot()

	fmt.Printf("Daemon      : %s (v%s)\n", snap.DaemonConnectionState, snap.DaemonVersion)

	if snap.IsLoggedIn() {
		fmt.Printf("Account     : %s (device '%s')\n", snap.Session.AccountID, snap.Session.DeviceName)
	} else {
		fmt.Println("Account     : not logged in")
	}

	vpnState := helpers.CapitalizeFirstLetter(strings.ToLower(snap.ConnectionState.String()))
	if ci := snap.ConnectionInfo; ci != nil {
		fmt.Printf("VPN         : %s (%s) since %s\n", vpnState, ci.VpnType, ci.ConnectedSince.Format(time.RFC1123))
		fmt.Printf("  server    : %s (%s)\n", snap.Settings.ServerEntry, ci.ServerIP)
		if len(ci.ExitServerID) > 0 {
			fmt.Printf("  exit      : %s\n", snap.Settings.ServerExit)
		}
		fmt.Printf("  local IP  : %s %s\n", ci.ClientIP, ci.ClientIPv6)
		if len(snap.Dns.DnsHost) > 0 {
			fmt.Printf("  DNS       : %s\n", snap.Dns.DnsHost)
		}
	} else {
		fmt.Printf("VPN         : %s\n", vpnState)
		if len(snap.DisconnectedReason) > 0 {
			fmt.Printf("  reason    : %s\n", snap.DisconnectedReason)
		}
	}

	switch {
	case !snap.FirewallKnown:
		fmt.Println("Firewall    : unknown")
	case snap.Firewall.IsPersistent:
		fmt.Println("Firewall    : enabled (persistent)")
	case snap.Firewall.IsEnabled:
		fmt.Printf("Firewall    : enabled (allow LAN: %v)\n", snap.Firewall.IsAllowLAN)
	default:
		fmt.Println("Firewall    : disabled")
	}

	if snap.SplitTunnel.IsEnabled {
		fmt.Printf("Split tunnel: %d applications\n", len(snap.SplitTunnel.SplitTunnelApps))
	}
	if w := snap.CurrentWiFi; w != nil && len(w.SSID) > 0 {
		insecure := ""
		if w.IsInsecureNetwork {
			insecure = " (insecure)"
		}
		fmt.Printf("Wi-Fi       : %s%s\n", w.SSID, insecure)
	}
}

func connectCmd() *cobra.Command {
	var (
		exitGateway string
		multiHop    bool
		fastest     bool
		random      bool
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "connect [gateway]",
		Short: "Connect the VPN",
		Long: `Connect the VPN.

Without a gateway the server is chosen according to the settings:
the fastest one, a random one, or the last used one.

Examples:
  plctl connect
  plctl connect de.gw.privateline.io
  plctl connect --multihop ch.gw.privateline.io --exit us.gw.privateline.io`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			s.store.UpdateSettings(func(st *store.Settings) {
				if cmd.Flags().Changed("multihop") {
					st.IsMultiHop = multiHop
				}
				if cmd.Flags().Changed("fastest") {
					st.IsFastestServer = fastest
				}
				if cmd.Flags().Changed("random") {
					st.IsRandomServer = random
				}
			})

			entry := ""
			if len(args) > 0 {
				entry = args[0]
			}
			if err := s.client.Connect(cmd.Context(), entry, exitGateway); err != nil {
				return err
			}

			fmt.Println("Connecting ...")
			isDone := func() bool {
				state := s.store.ConnectionState()
				return state == vpn.CONNECTED || state == vpn.DISCONNECTED
			}
			if err := waitFor(cmd.Context(), s.store, timeout, isDone); err != nil {
				return fmt.Errorf("connection is not established yet: %w", err)
			}
			if s.store.ConnectionState() != vpn.CONNECTED {
				return fmt.Errorf("failed to connect: %s", s.store.Snapshot().DisconnectedReason)
			}
			printStatus(s.store)
			return nil
		},
	}

	cmd.Flags().StringVar(&exitGateway, "exit", "", "Exit server gateway of a multi-hop connection")
	cmd.Flags().BoolVar(&multiHop, "multihop", false, "Use multi-hop connection")
	cmd.Flags().BoolVar(&fastest, "fastest", false, "Connect to the fastest server")
	cmd.Flags().BoolVar(&random, "random", false, "Connect to a random server")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "Time to wait for the connection")
	return cmd
}

func disconnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Disconnect the VPN",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.client.Disconnect(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Disconnected")
			return nil
		},
	}
}

// vpnSession opens a session and waits until the daemon reports an established VPN connection
func vpnSession(ctx context.Context) (*session, error) {
	s, err := openSession(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.client.KillSwitchGetStatus(ctx); err != nil {
		log.Warning(err)
	}
	isConnected := func() bool { return s.store.ConnectionState() == vpn.CONNECTED }
	if err := waitFor(ctx, s.store, stateReportTimeout, isConnected); err != nil {
		s.Close()
		return nil, fmt.Errorf("VPN is not connected")
	}
	return s, nil
}

func pauseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pause <duration>",
		Short: "Pause the VPN connection (e.g. 'plctl pause 15m')",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			duration, err := time.ParseDuration(args[0])
			if err != nil || duration <= 0 {
				return fmt.Errorf("bad pause duration '%s'", args[0])
			}

			s, err := vpnSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.client.Pause(cmd.Context(), duration); err != nil {
				return err
			}
			fmt.Printf("Paused till %s\n", s.store.PauseConnectionTill().Format(time.Kitchen))
			return nil
		},
	}
}

func resumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Resume a paused VPN connection",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := vpnSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			// the pause state is not reported by the daemon
			s.store.SetPauseState(vpn.Paused)
			if err := s.client.Resume(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Resumed")
			return nil
		},
	}
}

func firewallCmd() *cobra.Command {
	var allowLAN bool

	cmd := &cobra.Command{
		Use:       "firewall [on|off]",
		Short:     "Show or change the firewall state",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if cmd.Flags().Changed("allow-lan") {
				if err := s.client.KillSwitchSetAllowLAN(cmd.Context(), allowLAN); err != nil {
					return err
				}
			}
			if len(args) > 0 {
				if err := s.client.EnableFirewall(cmd.Context(), args[0] == "on"); err != nil {
					return err
				}
			}

			fw, err := s.client.KillSwitchGetStatus(cmd.Context())
			if err != nil {
				return err
			}
			state := "disabled"
			if fw.IsEnabled {
				state = "enabled"
			}
			fmt.Printf("Firewall %s (persistent: %v, allow LAN: %v, allow multicast: %v)\n", state, fw.IsPersistent, fw.IsAllowLAN, fw.IsAllowMulticast)
			return nil
		},
	}

	cmd.Flags().BoolVar(&allowLAN, "allow-lan", false, "Allow LAN traffic when the firewall is enabled")
	return cmd
}

func geoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "geo",
		Short: "Print the geolocation of this machine's public IP addresses",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.client.GeoLookup(cmd.Context()); err != nil {
				return err
			}
			for _, isIPv6 := range []bool{false, true} {
				family := "IPv4"
				if isIPv6 {
					family = "IPv6"
				}
				loc := s.store.Location(isIPv6)
				if loc == nil {
					fmt.Printf("%s: unknown\n", family)
					continue
				}
				fmt.Printf("%s: %s (%s, %s; %s)\n", family, loc.IPAddress, loc.City, loc.Country, loc.Isp)
			}
			return nil
		},
	}
}
