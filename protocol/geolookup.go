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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	api_types "github.com/swapnilsparsh/devsVPN/uiclient/api/types"
	"github.com/swapnilsparsh/devsVPN/uiclient/protocol/types"
	"github.com/swapnilsparsh/devsVPN/uiclient/store"
)

// GeoLookup refreshes the IPv4 and IPv6 locations.
// A newer call supersedes the running one: results of a superseded lookup are never stored.
// Failures are logged only.
func (c *Client) GeoLookup(ctx context.Context) error {
	id := c._geoLookupLastRequestID.Add(1)

	c.store.SetLocation(false, nil)
	c.store.SetLocation(true, nil)

	var g errgroup.Group
	for _, isIPv6 := range []bool{false, true} {
		isIPv6 := isIPv6
		c.store.SetRequestingLocation(isIPv6, true)
		g.Go(func() error {
			c.geoLookup(ctx, id, isIPv6)
			return nil
		})
	}
	g.Wait()
	return ctx.Err()
}

func (c *Client) isGeoLookupCurrent(id int64) bool {
	return c._geoLookupLastRequestID.Load() == id
}

func geoFamily(isIPv6 bool) string {
	if isIPv6 {
		return "IPv6"
	}
	return "IPv4"
}

func (c *Client) geoLookup(ctx context.Context, id int64, isIPv6 bool) {
	family := geoFamily(isIPv6)
	result := "failed"
	defer func() {
		c.metrics.geoLookups.WithLabelValues(family, result).Inc()
		if c.isGeoLookupCurrent(id) {
			c.store.SetRequestingLocation(isIPv6, false)
		}
	}()

	for attempt := 0; attempt <= c.cfg.GeoLookup.Retries; attempt++ {
		if attempt > 0 {
			log.Warning(fmt.Sprintf("Geo-lookup request failed %s. Retrying (%d)...", family, attempt))
			select {
			case <-time.After(time.Duration(attempt) * c.cfg.GeoLookup.RetryUnit):
			case <-ctx.Done():
				return
			}
		}
		if !c.isGeoLookupCurrent(id) {
			log.Info("New 'geo-lookup' request detected. Skipping current.")
			result = "superseded"
			return
		}

		isRealLocation := c.store.IsRealLocationState()
		geo, err := c.requestGeoLookup(ctx, isIPv6)

		if !c.isGeoLookupCurrent(id) {
			result = "superseded"
			return
		}
		if err != nil {
			log.Warning(fmt.Sprintf("'geo-lookup' error %s: %s", family, err))
			if strings.Contains(strings.ToLower(err.Error()), "no ipv6 support") {
				result = "unsupported"
				return
			}
			if ctx.Err() != nil {
				return
			}
			continue
		}
		if isRealLocation != c.store.IsRealLocationState() {
			log.Warning(fmt.Sprintf("Skip geo-lookup result %s (connection state changed)", family))
			continue
		}

		c.store.SetLocation(isIPv6, &store.Location{GeoLookupResponse: geo, IsRealLocation: isRealLocation})
		log.Info(fmt.Sprintf("'geo-lookup' %s success", family))
		result = "ok"
		return
	}
}

func (c *Client) requestGeoLookup(ctx context.Context, isIPv6 bool) (api_types.GeoLookupResponse, error) {
	var geo api_types.GeoLookupResponse

	req := &types.APIRequest{APIPath: api_types.GeoLookupApiAlias, IPProtocolRequired: types.IPv4}
	if isIPv6 {
		req.IPProtocolRequired = types.IPv6
	}
	resp, err := c.APIRequest(ctx, req)
	if err != nil {
		return geo, err
	}
	if len(resp.Error) > 0 {
		return geo, errors.New(resp.Error)
	}
	if err := json.Unmarshal([]byte(resp.ResponseData), &geo); err != nil {
		return geo, fmt.Errorf("bad geo-lookup response: %w", err)
	}
	if !geo.IsValid() {
		return geo, fmt.Errorf("bad geo-lookup response: location coordinates are not defined")
	}
	return geo, nil
}
