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
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/swapnilsparsh/devsVPN/uiclient/protocol"
	"github.com/swapnilsparsh/devsVPN/uiclient/store"
	"github.com/swapnilsparsh/devsVPN/uiclient/trustedwifi"
)

var errDaemonExiting = errors.New("daemon is exiting")

func watchCmd() *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the session open: print state changes and apply trusted Wi-Fi rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancelCause(cmd.Context())
			defer cancel(nil)

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

			s, err := openSession(ctx, func(o *protocol.Options) {
				o.Metrics = protocol.NewMetrics(reg, o.Config.Metrics.Namespace)
				o.AutoConnect = trustedwifi.NewPolicy(o.Store)
				o.OnDaemonExiting = func() { cancel(errDaemonExiting) }
			})
			if err != nil {
				return err
			}
			defer s.Close()

			if len(metricsAddr) == 0 {
				metricsAddr = s.cfg.Metrics.ListenAddress
			}

			g, gctx := errgroup.WithContext(ctx)

			g.Go(func() error {
				return trustedwifi.NewMonitor(s.store, s.client).Run(gctx)
			})

			if s.cfg.WatchPortFile {
				g.Go(func() error { return s.client.WatchConnectionParams(gctx) })
			}

			if len(metricsAddr) > 0 {
				srv := &http.Server{
					Addr:              metricsAddr,
					Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
					ReadHeaderTimeout: 5 * time.Second,
				}
				g.Go(func() error {
					log.Info("Serving metrics on ", metricsAddr)
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						return fmt.Errorf("metrics server: %w", err)
					}
					return nil
				})
				g.Go(func() error {
					<-gctx.Done()
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					return srv.Shutdown(shutdownCtx)
				})
			}

			g.Go(func() error { return printMutations(gctx, s.store) })

			err = g.Wait()
			if cause := context.Cause(ctx); errors.Is(cause, errDaemonExiting) {
				return cause
			}
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics", "", "Address to serve Prometheus metrics on (e.g. 127.0.0.1:9477)")
	return cmd
}

// printMutations prints the state each time the VPN connection, firewall or Wi-Fi network changes
func printMutations(ctx context.Context, st *store.Store) error {
	changed := make(chan store.Mutation, 64)
	unsubscribe := st.Subscribe(func(m store.Mutation) {
		select {
		case changed <- m:
		default:
		}
	})
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m := <-changed:
			switch m {
			case store.MutConnectionState, store.MutPauseState, store.MutFirewall, store.MutWiFiInfo, store.MutDaemonConnection:
				fmt.Printf("--- %s [%s]\n", time.Now().Format(time.TimeOnly), m)
				printStatus(st)
			case store.MutLocation:
				if loc := st.Location(false); loc != nil {
					fmt.Printf("Location: %s (%s, %s)\n", loc.IPAddress, loc.City, loc.Country)
				}
			}
		}
	}
}
