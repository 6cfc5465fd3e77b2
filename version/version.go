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

package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

// values are set at build time:
// go build -ldflags "-X github.com/swapnilsparsh/devsVPN/uiclient/version._version=1.2.3"
var (
	_version    string
	_commitHash string
	_time       string
)

// MinRequiredDaemonVersion is the oldest daemon the client is able to talk to
const MinRequiredDaemonVersion = "3.3.0"

// Version of the client
func Version() string {
	if len(_version) == 0 {
		return "0.0.0-dev"
	}
	return _version
}

// CommitHash - commit hash of the build
func CommitHash() string { return _commitHash }

// Time of the build
func Time() string { return _time }

// GetFullVersion returns version with commit hash and build date
func GetFullVersion() string {
	ret := Version()
	if len(_commitHash) > 0 {
		ret += " " + _commitHash
	}
	if len(_time) > 0 {
		ret += " (" + _time + ")"
	}
	return ret
}

// IsNewVersion returns true when 'newVer' is strictly greater than 'oldVer'.
// Versions are compared as semantic versions; leading 'v' is optional,
// anything after the first space or ':' is ignored ("3.3.40:Electron UI").
// Unparsable versions are never considered newer.
func IsNewVersion(oldVer, newVer string) bool {
	o, n := canonical(oldVer), canonical(newVer)
	if len(o) == 0 || len(n) == 0 {
		return false
	}
	return semver.Compare(n, o) > 0
}

// IsCompliant returns false when 'ver' is known to be older than 'minRequired'.
// An empty or unparsable 'ver' is treated as compliant: the daemon did not tell us its version.
func IsCompliant(ver, minRequired string) bool {
	if len(canonical(ver)) == 0 {
		return true
	}
	return !IsNewVersion(ver, minRequired)
}

func canonical(ver string) string {
	ver = strings.TrimSpace(ver)
	if i := strings.IndexAny(ver, " :"); i >= 0 {
		ver = ver[:i]
	}
	if len(ver) == 0 {
		return ""
	}
	if !strings.HasPrefix(ver, "v") {
		ver = "v" + ver
	}
	if !semver.IsValid(ver) {
		return ""
	}
	return semver.Canonical(ver)
}
