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
	"errors"
	"fmt"
	"time"

	"github.com/swapnilsparsh/devsVPN/uiclient/protocol/types"
)

// ErrNotConnected - request issued while there is no live connection to the daemon
var ErrNotConnected = errors.New("daemon is not connected")

// TransportError - failure of the underlying stream: dial, write, unexpected close
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return "transport error: " + e.Op
	}
	return fmt.Sprintf("transport error: %s: %s", e.Op, e.Err.Error())
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError - the peer sent something the client can not interpret
type ProtocolError struct {
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err == nil {
		return "protocol error: " + e.Reason
	}
	return fmt.Sprintf("protocol error: %s: %s", e.Reason, e.Err.Error())
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// ResponseTimeout - no matching response arrived before the deadline
type ResponseTimeout struct {
	Command string
	Idx     int
	Timeout time.Duration
}

func (e *ResponseTimeout) Error() string {
	return fmt.Sprintf("response timeout (no response from the daemon to '%s' [%d] in %v)", e.Command, e.Idx, e.Timeout)
}

// DaemonError - the daemon answered the request with ErrorResp
type DaemonError struct {
	Command string
	Message string
}

func (e *DaemonError) Error() string {
	return e.Message
}

// VersionError - the daemon is older than the client supports
type VersionError struct {
	DaemonVersion string
	MinRequired   string
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("unsupported daemon version: v%s (minimum required v%s)", e.DaemonVersion, e.MinRequired)
}

// SerializationError - a string value collided with the BigUint sentinel
type SerializationError = types.SerializationError

// IsTransportError returns true when 'err' means the connection itself is unusable
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
