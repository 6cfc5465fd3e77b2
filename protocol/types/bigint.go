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
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// The message format is JSON, which many peers decode into IEEE doubles:
// integers above 2^53 lose precision there. BigUint values are written as
// "<digits>#bigint" by MarshalJSON and Serialize() rewrites every such quoted
// string into a bare numeral after json.Marshal is done.
const bigIntSentinel = "#bigint"

var bigIntPattern = regexp.MustCompile(`"(-?\d+)` + bigIntSentinel + `"`)

// BigUint - unsigned 64-bit value that must reach the peer unrounded
type BigUint uint64

// BigUintFromHex parses a hexadecimal string ("0x" prefix is optional)
func BigUintFromHex(s string) (BigUint, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse hex value: %w", err)
	}
	return BigUint(v), nil
}

func (v BigUint) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatUint(uint64(v), 10) + bigIntSentinel + `"`), nil
}

// UnmarshalJSON accepts a bare numeral, a quoted numeral and the sentinel form
func (v *BigUint) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, `"`), `"`)
	s = strings.TrimSuffix(s, bigIntSentinel)
	u, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("bad BigUint value %s: %w", string(data), err)
	}
	*v = BigUint(u)
	return nil
}

// SerializationError - a plain string value collided with the BigUint sentinel
type SerializationError struct {
	Inserted int
	Stripped int
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("BigUint serialization pattern conflicts with a string value (%d values encoded, %d patterns found)", e.Inserted, e.Stripped)
}

// Serialize marshals 'v' to JSON with all BigUint values written as bare numerals
func Serialize(v interface{}) ([]byte, error) {
	inserted := countBigUints(reflect.ValueOf(v))

	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	stripped := 0
	data = bigIntPattern.ReplaceAllFunc(data, func(m []byte) []byte {
		stripped++
		// `"123#bigint"` -> `123`
		return m[1 : len(m)-len(bigIntSentinel)-1]
	})

	if stripped > inserted {
		return nil, &SerializationError{Inserted: inserted, Stripped: stripped}
	}
	return data, nil
}

var bigUintType = reflect.TypeOf(BigUint(0))

// countBigUints returns how many BigUint values json.Marshal will emit for 'v'
func countBigUints(v reflect.Value) int {
	if !v.IsValid() {
		return 0
	}
	if v.Type() == bigUintType {
		return 1
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return 0
		}
		return countBigUints(v.Elem())

	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return 0
		}
		cnt := 0
		for i := 0; i < v.Len(); i++ {
			cnt += countBigUints(v.Index(i))
		}
		return cnt

	case reflect.Map:
		cnt := 0
		iter := v.MapRange()
		for iter.Next() {
			cnt += countBigUints(iter.Value())
		}
		return cnt

	case reflect.Struct:
		cnt := 0
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() && !f.Anonymous {
				continue
			}
			tag := f.Tag.Get("json")
			if tag == "-" {
				continue
			}
			fv := v.Field(i)
			if strings.Contains(tag, ",omitempty") && isEmptyValue(fv) {
				continue
			}
			cnt += countBigUints(fv)
		}
		return cnt
	}
	return 0
}

// isEmptyValue follows the omitempty rules of encoding/json
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}
