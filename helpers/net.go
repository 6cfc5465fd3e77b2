// Copyright (c) 2024 privateLINE, LLC.

package helpers

import (
	"math"
	"regexp"
)

// Regular expression for IPv4 addresses of form x.x.x.x
var IPv4AddrRegex = regexp.MustCompile(`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}`)

const earthRadiusKm = 6371.0

// GeoDistanceKm - great-circle (haversine) distance between two points
func GeoDistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
