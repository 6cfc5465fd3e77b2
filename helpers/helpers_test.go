// Copyright (c) 2025 privateLINE, LLC.

package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeoDistanceKm(t *testing.T) {
	// Zurich -> Frankfurt, ~305km
	d := GeoDistanceKm(47.3769, 8.5417, 50.1109, 8.6821)
	assert.InDelta(t, 305, d, 5)

	assert.Zero(t, GeoDistanceKm(10, 10, 10, 10))
}

func TestIsAValidAccountID(t *testing.T) {
	assert.True(t, IsAValidAccountID("a-ABCD-EFGH-JKLM"))
	assert.False(t, IsAValidAccountID("a-ABCD-EFGH-JKLI")) // 'I' is not in the alphabet
	assert.False(t, IsAValidAccountID("user@example.com"))
}

func TestCapitalizeFirstLetter(t *testing.T) {
	assert.Equal(t, "Secret verification error", CapitalizeFirstLetter("secret verification error"))
	assert.Equal(t, "", CapitalizeFirstLetter(""))
}
