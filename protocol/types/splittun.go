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

package types

type GetInstalledApps struct {
	CommandBase
	ExtraArgsJSON string
}

type AppInfo struct {
	AppName       string
	AppGroup      string // optional
	AppBinaryPath string
	AppIcon       string // base64 png
}

type InstalledAppsResp struct {
	CommandBase
	Apps []AppInfo
}

type GetAppIcon struct {
	CommandBase
	AppBinaryPath string
}

type AppIconResp struct {
	CommandBase
	AppBinaryPath string
	AppIcon       string // base64 png image
}

type SplitTunnelGetStatus struct {
	CommandBase
}

type SplitTunnelSetConfig struct {
	CommandBase
	IsEnabled bool // is ST enabled
	Reset     bool // disable ST and erase all ST config
}

type RunningApp struct {
	Pid     int
	Ppid    int
	Cmdline string
	Exe     string
}

type SplitTunnelStatus struct {
	CommandBase
	IsEnabled                   bool
	IsFunctionalityNotAvailable bool
	IsCanGetAppIconForBinary    bool
	SplitTunnelApps             []string
	RunningApps                 []RunningApp
}

type SplitTunnelAddApp struct {
	CommandBase
	Exec string
}

// SplitTunnelAddAppCmdResp - the daemon tells how the app must be started to be split.
// The client reports it and never runs anything itself.
type SplitTunnelAddAppCmdResp struct {
	CommandBase
	Exec         string
	CmdToExecute string

	IsAlreadyRunning        bool
	IsAlreadyRunningMessage string
}

type SplitTunnelRemoveApp struct {
	CommandBase
	Pid  int
	Exec string
}
