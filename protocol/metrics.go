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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics of the daemon connection.
// Created with a nil registerer the collectors work but are not exported.
type Metrics struct {
	requestsSent      *prometheus.CounterVec
	responsesReceived *prometheus.CounterVec
	responseTimeouts  *prometheus.CounterVec
	daemonErrors      *prometheus.CounterVec
	roundTripDuration *prometheus.HistogramVec
	frameDecodeErrors prometheus.Counter
	pendingWaiters    prometheus.Gauge
	connectionState   prometheus.Gauge
	connectsTotal     *prometheus.CounterVec
	pingSweeps        *prometheus.CounterVec
	geoLookups        *prometheus.CounterVec
}

// NewMetrics registers client metrics in 'reg' (may be nil)
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	const subsystem = "daemon_client"

	return &Metrics{
		requestsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_sent_total",
			Help:      "Requests sent to the daemon",
		}, []string{"command"}),

		responsesReceived: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "responses_received_total",
			Help:      "Responses and notifications received from the daemon",
		}, []string{"command"}),

		responseTimeouts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "response_timeouts_total",
			Help:      "Requests that got no response before the deadline",
		}, []string{"command"}),

		daemonErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "daemon_errors_total",
			Help:      "Requests rejected by the daemon with ErrorResp",
		}, []string{"command"}),

		roundTripDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "round_trip_duration_seconds",
			Help:      "Time between sending a request and receiving its response",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10, 30},
		}, []string{"command"}),

		frameDecodeErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "frame_decode_errors_total",
			Help:      "Received frames dropped because they could not be decoded",
		}),

		pendingWaiters: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "pending_waiters",
			Help:      "Requests waiting for a response",
		}),

		connectionState: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "connection_state",
			Help:      "Daemon connection state: 0 - not connected, 1 - connecting, 2 - connected",
		}),

		connectsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "connects_total",
			Help:      "Attempts to connect to the daemon by result",
		}, []string{"result"}),

		pingSweeps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "ping_sweeps_total",
			Help:      "PingServers calls; 'shared' calls joined a sweep already in progress",
		}, []string{"mode"}),

		geoLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "geo_lookups_total",
			Help:      "Geolocation lookup attempts by address family and result",
		}, []string{"family", "result"}),
	}
}
