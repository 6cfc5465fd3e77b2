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

// plctl - command line client of the privateLINE Connect daemon
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/swapnilsparsh/devsVPN/uiclient/logger"
	"github.com/swapnilsparsh/devsVPN/uiclient/version"
)

var log *logger.Logger

func init() {
	log = logger.NewLogger("plctl")
}

var (
	configPath   string
	settingsPath string
	logPath      string
	verbose      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "plctl",
		Short: "Command line client of the privateLINE Connect daemon",
		Long: `plctl talks to the privateLINE Connect daemon running on this machine.

The daemon port and secret are read from the port file the daemon publishes;
client settings (server selection, DNS, firewall and Wi-Fi preferences) are kept
in a local settings file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initLogFile()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "Configuration file (YAML)")
	flags.StringVar(&settingsPath, "settings", defaultSettingsPath(), "Client settings file (empty - do not keep settings)")
	flags.StringVar(&logPath, "log", "", "Write log messages to the file")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Print log messages")

	rootCmd.AddCommand(
		statusCmd(),
		connectCmd(),
		disconnectCmd(),
		pauseCmd(),
		resumeCmd(),
		firewallCmd(),
		serversCmd(),
		pingCmd(),
		geoCmd(),
		loginCmd(),
		logoutCmd(),
		watchCmd(),
		versionCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func initLogFile() error {
	logger.Enable(verbose || len(logPath) > 0)
	return logger.Init(logPath)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.GetFullVersion())
		},
	}
}
