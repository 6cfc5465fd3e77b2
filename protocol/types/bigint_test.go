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

import (
	"encoding/json"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialize_BigUintRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 1 << 53, 1<<53 + 1, 0xDEADBEEFCAFEBABE, math.MaxUint64}

	for _, v := range values {
		t.Run(strconv.FormatUint(v, 10), func(t *testing.T) {
			hello := &Hello{Version: "1.0.0:test", Secret: BigUint(v)}
			hello.Init(GetTypeName(hello), 7)

			data, err := Serialize(hello)
			require.NoError(t, err)

			// the value is a bare numeral on the wire
			assert.Contains(t, string(data), `"Secret":`+strconv.FormatUint(v, 10)+`,`)
			assert.NotContains(t, string(data), bigIntSentinel)

			var decoded Hello
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, BigUint(v), decoded.Secret)
			assert.Equal(t, "Hello", decoded.Command)
			assert.Equal(t, 7, decoded.Idx)
		})
	}
}

func TestSerialize_SentinelCollision(t *testing.T) {
	req := &SetPreference{Key: "some_key", Value: "123" + bigIntSentinel}
	req.Init(GetTypeName(req), 1)

	_, err := Serialize(req)
	require.Error(t, err)

	var serErr *SerializationError
	require.ErrorAs(t, err, &serErr)
	assert.Equal(t, 0, serErr.Inserted)
	assert.Equal(t, 1, serErr.Stripped)
}

func TestSerialize_NestedAndOmitted(t *testing.T) {
	type inner struct {
		A BigUint
		B *BigUint `json:",omitempty"`
	}
	type outer struct {
		List    []inner
		Skipped BigUint `json:"-"`
		Empty   BigUint `json:",omitempty"`
		M       map[string]BigUint
	}
	b := BigUint(math.MaxUint64)
	v := outer{
		List:    []inner{{A: 1}, {A: 2, B: &b}},
		Skipped: 5,
		M:       map[string]BigUint{"k": 3},
	}

	data, err := Serialize(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"List":[{"A":1},{"A":2,"B":18446744073709551615}],"M":{"k":3}}`, string(data))
}

func TestBigUintUnmarshal(t *testing.T) {
	var v BigUint
	require.NoError(t, json.Unmarshal([]byte(`18446744073709551615`), &v))
	assert.Equal(t, BigUint(math.MaxUint64), v)

	require.NoError(t, json.Unmarshal([]byte(`"42#bigint"`), &v))
	assert.Equal(t, BigUint(42), v)

	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &v))
}

func TestBigUintFromHex(t *testing.T) {
	v, err := BigUintFromHex("fedcba9876543210")
	require.NoError(t, err)
	assert.Equal(t, BigUint(0xfedcba9876543210), v)

	v, err = BigUintFromHex(" 0x1F\n")
	require.NoError(t, err)
	assert.Equal(t, BigUint(31), v)

	_, err = BigUintFromHex("xyz")
	assert.Error(t, err)
}

func TestGetTypeName(t *testing.T) {
	assert.Equal(t, "Hello", GetTypeName(&Hello{}))
	assert.Equal(t, "PingServers", GetTypeName(PingServers{}))
	assert.Equal(t, "", GetTypeName(nil))
}

func TestGetCommandBase(t *testing.T) {
	cb, err := GetCommandBase([]byte(`{"Command":"HelloResp","Idx":3,"Version":"3.3.1"}`))
	require.NoError(t, err)
	assert.Equal(t, CommandBase{Command: "HelloResp", Idx: 3}, cb)

	_, err = GetCommandBase([]byte(`{"Idx":3}`))
	assert.Error(t, err)

	_, err = GetCommandBase([]byte(`{"Command":`))
	assert.Error(t, err)
}
