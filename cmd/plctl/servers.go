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
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/swapnilsparsh/devsVPN/uiclient/store"
)

func serversCmd() *cobra.Command {
	var (
		doPing  bool
		country string
	)

	cmd := &cobra.Command{
		Use:   "servers",
		Short: "Print the servers available for the selected VPN type",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if doPing {
				if err := s.client.PingServers(cmd.Context()); err != nil {
					return err
				}
			}

			servers := s.store.ActiveServers()
			if len(country) > 0 {
				filtered := servers[:0]
				for _, srv := range servers {
					if strings.EqualFold(srv.CountryCode, country) {
						filtered = append(filtered, srv)
					}
				}
				servers = filtered
			}
			printServers(servers)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&doPing, "ping", "p", false, "Ping the servers and sort them by latency")
	cmd.Flags().StringVar(&country, "country", "", "Show only servers of the country (code)")
	return cmd
}

func pingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Ping all servers and print the fastest one",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.client.PingServers(cmd.Context()); err != nil {
				return err
			}
			fastest := s.store.FastestServer(s.store.Settings().ServersFastestExcludeList...)
			if fastest == nil {
				return fmt.Errorf("no server responded")
			}
			fmt.Printf("Fastest server: %s (%s, %s) %d ms\n", fastest.Gateway, fastest.City, fastest.CountryCode, fastest.Ping)
			return nil
		},
	}
}

// sortServers orders servers by ping; servers without a ping go last, ordered by gateway
func sortServers(servers []store.Server) {
	sort.SliceStable(servers, func(i, j int) bool {
		pi, pj := servers[i].Ping, servers[j].Ping
		if pi > 0 && pj > 0 {
			return pi < pj
		}
		if pi > 0 || pj > 0 {
			return pi > 0
		}
		return servers[i].Gateway < servers[j].Gateway
	})
}

func printServers(servers []store.Server) {
	sortServers(servers)

	w := tablewriter.NewWriter(os.Stdout)
	w.SetHeader([]string{"Gateway", "Country", "City", "Ping", "IPv6"})
	w.SetBorder(false)
	w.SetAutoWrapText(false)
	for _, srv := range servers {
		ping := "-"
		if srv.Ping > 0 {
			ping = fmt.Sprintf("%d ms (%s)", srv.Ping, srv.PingQuality)
		}
		ipv6 := ""
		if srv.IsIPv6 {
			ipv6 = "yes"
		}
		w.Append([]string{srv.Gateway, srv.CountryCode, srv.City, ping, ipv6})
	}
	w.Render()
}
