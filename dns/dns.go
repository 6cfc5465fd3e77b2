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

package dns

import (
	"fmt"
	"net"
)

// DnsEncryption - DNS encryption type
type DnsEncryption int

const (
	EncryptionNone         DnsEncryption = 0
	EncryptionDnsOverTls   DnsEncryption = 1
	EncryptionDnsOverHttps DnsEncryption = 2
)

func (e DnsEncryption) String() string {
	switch e {
	case EncryptionNone:
		return "None"
	case EncryptionDnsOverTls:
		return "DoT"
	case EncryptionDnsOverHttps:
		return "DoH"
	}
	return "<Unknown>"
}

// DnsSettings - DNS configuration
type DnsSettings struct {
	DnsHost     string // DNS host IP address
	Encryption  DnsEncryption
	DohTemplate string // DoH/DoT template URI (for Encryption = DnsOverHttps or Encryption = DnsOverTls)
}

// DnsSettingsCreate creates plain (unencrypted) DNS settings for the IP
func DnsSettingsCreate(ip net.IP) DnsSettings {
	if ip == nil {
		return DnsSettings{}
	}
	return DnsSettings{DnsHost: ip.String()}
}

func (d DnsSettings) IsEmpty() bool {
	return len(d.DnsHost) == 0
}

func (d DnsSettings) Ip() net.IP {
	return net.ParseIP(d.DnsHost)
}

func (d DnsSettings) Equal(x DnsSettings) bool {
	return d.DnsHost == x.DnsHost && d.Encryption == x.Encryption && d.DohTemplate == x.DohTemplate
}

func (d DnsSettings) String() string {
	if d.IsEmpty() {
		return "<none>"
	}
	if d.Encryption == EncryptionNone {
		return d.DnsHost
	}
	return fmt.Sprintf("%s (%s %s)", d.DnsHost, d.Encryption, d.DohTemplate)
}

// Abilities - DNS features supported by the daemon on this platform
type Abilities struct {
	CanUseDnsOverTls   bool
	CanUseDnsOverHttps bool
}

// IsSupported returns false when the settings need an encryption the daemon can not provide
func (a Abilities) IsSupported(d DnsSettings) bool {
	switch d.Encryption {
	case EncryptionDnsOverTls:
		return a.CanUseDnsOverTls
	case EncryptionDnsOverHttps:
		return a.CanUseDnsOverHttps
	}
	return true
}
