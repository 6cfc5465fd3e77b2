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
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	api_types "github.com/swapnilsparsh/devsVPN/uiclient/api/types"
	"github.com/swapnilsparsh/devsVPN/uiclient/helpers"
)

func loginCmd() *cobra.Command {
	var deviceName string

	cmd := &cobra.Command{
		Use:   "login <account ID or email>",
		Short: "Log in to the account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account := strings.TrimSpace(args[0])
			if !helpers.IsAValidAccountID(account) && !helpers.IsAnEmail(account) {
				return fmt.Errorf("'%s' is neither an account ID nor an email", account)
			}

			password, err := readPassword()
			if err != nil {
				return err
			}

			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			resp, err := s.client.Login(cmd.Context(), account, password, deviceName)
			if err != nil {
				return err
			}
			if resp.APIStatus != api_types.API_SUCCESS {
				if len(resp.APIErrorMessage) > 0 {
					return fmt.Errorf("login failed: %s (%d)", resp.APIErrorMessage, resp.APIStatus)
				}
				return fmt.Errorf("login failed (%d)", resp.APIStatus)
			}

			fmt.Printf("Logged in as '%s'\n", s.store.Session().DeviceName)
			if resp.Account.ActiveUntil > 0 {
				fmt.Printf("%s plan, active until %s\n", helpers.CapitalizeFirstLetter(resp.Account.CurrentPlan), time.Unix(resp.Account.ActiveUntil, 0).Format(time.DateOnly))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&deviceName, "device", "", "Device name (default: host name)")
	return cmd
}

// readPassword asks for the password without echo; on non-interactive input it reads a line from stdin
func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Print("Password: ")
		data, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("failed to read the password: %w", err)
		}
		return string(data), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && len(line) == 0 {
		return "", fmt.Errorf("failed to read the password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func logoutCmd() *cobra.Command {
	var (
		resetSettings   bool
		disableFirewall bool
	)

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Log out from the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if !s.store.IsLoggedIn() {
				fmt.Println("Not logged in")
				return nil
			}
			if err := s.client.Logout(cmd.Context(), resetSettings, disableFirewall, true); err != nil {
				return err
			}
			fmt.Println("Logged out")
			return nil
		},
	}

	cmd.Flags().BoolVar(&resetSettings, "reset-settings", false, "Reset the settings to defaults")
	cmd.Flags().BoolVar(&disableFirewall, "disable-firewall", true, "Disable the firewall")
	return cmd
}
