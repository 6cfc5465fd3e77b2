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

// API aliases accepted by the daemon in APIRequest
const (
	GeoLookupApiAlias = "geo-lookup"
)

// API_SUCCESS - status code of a successful backend call
const API_SUCCESS = 200

// APIErrorResponse generic privateLINE API error
type APIErrorResponse struct {
	Status  bool   `json:"status,omitempty"`
	Message string `json:"message,omitempty"` // Text description of the message
}

// GeoLookupResponse geolocation info
type GeoLookupResponse struct {
	IPAddress   string `json:"ip_address"`
	Isp         string `json:"isp"`
	Country     string `json:"country"`
	CountryCode string `json:"country_code"`
	City        string `json:"city"`

	Latitude  float32 `json:"latitude"`
	Longitude float32 `json:"longitude"`

	IsPrivateLineServer bool `json:"isIvpnServer"`
}

// IsValid - location is usable only when both coordinates are known
func (r *GeoLookupResponse) IsValid() bool {
	return r != nil && r.Latitude != 0 && r.Longitude != 0
}
