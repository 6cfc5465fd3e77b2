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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNewVersion(t *testing.T) {
	tests := []struct {
		old, new string
		want     bool
	}{
		{"3.3.0", "3.3.1", true},
		{"3.3.0", "3.3.0", false},
		{"3.3.0", "3.2.99", false},
		{"v3.3.0", "4.0.0", true},
		{"3.3.0", "3.10.0", true},
		{"3.3.0", "3.4.0:Electron UI", true},
		{"3.3.0", "", false},
		{"garbage", "3.3.0", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsNewVersion(tt.old, tt.new), "IsNewVersion(%q, %q)", tt.old, tt.new)
	}
}

func TestIsCompliant(t *testing.T) {
	assert.True(t, IsCompliant("3.3.0", "3.3.0"))
	assert.True(t, IsCompliant("3.14.2", "3.3.0"))
	assert.False(t, IsCompliant("3.2.9", "3.3.0"))
	assert.True(t, IsCompliant("", "3.3.0"))
}
