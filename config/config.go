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

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/swapnilsparsh/devsVPN/uiclient/logger"
	"github.com/swapnilsparsh/devsVPN/uiclient/version"
)

var log *logger.Logger

func init() {
	log = logger.NewLogger("cfg")
}

const (
	TransportTCP       = "tcp"
	TransportWebSocket = "websocket"
)

type Timeouts struct {
	DefaultResponse time.Duration `yaml:"default_response"`
	Hello           time.Duration `yaml:"hello"`
	ServersList     time.Duration `yaml:"servers_list"`
	Dial            time.Duration `yaml:"dial"`
	InstalledApps   time.Duration `yaml:"installed_apps"`
}

type Ping struct {
	RetryCount int `yaml:"retry_count"`
	TimeoutMs  int `yaml:"timeout_ms"`
}

type GeoLookup struct {
	Retries   int           `yaml:"retries"`
	RetryUnit time.Duration `yaml:"retry_unit"`
}

type Metrics struct {
	Namespace     string `yaml:"namespace"`
	ListenAddress string `yaml:"listen_address"`
}

// Config - client configuration
type Config struct {
	// empty - OS default location
	PortFile      string `yaml:"port_file"`
	DaemonHost    string `yaml:"daemon_host"`
	Transport     string `yaml:"transport"`
	WebSocketPort int    `yaml:"websocket_port"`

	ClientName               string `yaml:"client_name"`
	ClientVersion            string `yaml:"client_version"`
	MinRequiredDaemonVersion string `yaml:"min_required_daemon_version"`

	Timeouts  Timeouts  `yaml:"timeouts"`
	Ping      Ping      `yaml:"ping"`
	GeoLookup GeoLookup `yaml:"geo_lookup"`

	WatchPortFile bool   `yaml:"watch_port_file"`
	LogFile       string `yaml:"log_file"`

	Metrics Metrics `yaml:"metrics"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		DaemonHost:    "127.0.0.1",
		Transport:     TransportTCP,
		WebSocketPort: 7294,

		ClientName:               "privateLINE Connect",
		ClientVersion:            version.Version(),
		MinRequiredDaemonVersion: version.MinRequiredDaemonVersion,

		Timeouts: Timeouts{
			DefaultResponse: 3 * time.Minute,
			Hello:           10 * time.Second,
			ServersList:     11 * time.Second,
			Dial:            5 * time.Second,
			InstalledApps:   25 * time.Second,
		},
		Ping: Ping{
			RetryCount: 4,
			TimeoutMs:  4000,
		},
		GeoLookup: GeoLookup{
			Retries:   3,
			RetryUnit: time.Second,
		},

		Metrics: Metrics{Namespace: "plconnect"},
	}
}

// Load reads the YAML file over the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config file '%s': %w", path, err)
	}
	log.Info("Configuration loaded from ", path)
	return cfg, nil
}

// Parse decodes YAML data over the defaults and validates the result
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Transport = strings.ToLower(strings.TrimSpace(cfg.Transport))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Transport != TransportTCP && c.Transport != TransportWebSocket {
		return fmt.Errorf("transport must be '%s' or '%s'", TransportTCP, TransportWebSocket)
	}
	if len(c.DaemonHost) == 0 {
		return fmt.Errorf("daemon_host required")
	}
	if c.Transport == TransportWebSocket && (c.WebSocketPort <= 0 || c.WebSocketPort > 65535) {
		return fmt.Errorf("websocket_port invalid")
	}
	if c.Timeouts.DefaultResponse <= 0 || c.Timeouts.Hello <= 0 || c.Timeouts.ServersList <= 0 || c.Timeouts.Dial <= 0 || c.Timeouts.InstalledApps <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.Ping.RetryCount <= 0 || c.Ping.TimeoutMs <= 0 {
		return fmt.Errorf("ping parameters must be positive")
	}
	if c.GeoLookup.Retries < 0 || c.GeoLookup.RetryUnit < 0 {
		return fmt.Errorf("geo_lookup parameters must not be negative")
	}
	return nil
}

// ClientVersionString returns the version reported to the daemon in Hello
func (c Config) ClientVersionString() string {
	return c.ClientVersion + ":" + c.ClientName
}
