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
	"strings"
)

type ClientTypeEnum int

const (
	ClientUi  ClientTypeEnum = 0
	ClientCli ClientTypeEnum = 1
)

// CommandBase is embedded into every request and response
type CommandBase struct {
	Command string
	// Idx is the correlation index. Requests take it from the client's request counter,
	// direct responses repeat it. Notifications carry 0.
	Idx int
}

func (cb *CommandBase) Init(name string, idx int) {
	cb.Command = name
	cb.Idx = idx
}

func (cb *CommandBase) Name() string { return cb.Command }

func (cb *CommandBase) Index() int { return cb.Idx }

func (cb *CommandBase) LogExtraInfo() string { return "" }

// ICommandBase - any message that can be sent to the daemon
type ICommandBase interface {
	Init(name string, idx int)
	Name() string
	Index() int
	LogExtraInfo() string
}

// GetCommandBase parses the common part of a message
func GetCommandBase(messageData []byte) (CommandBase, error) {
	var obj CommandBase
	if err := json.Unmarshal(messageData, &obj); err != nil {
		return obj, fmt.Errorf("failed to parse command data: %w", err)
	}

	if len(obj.Command) == 0 {
		return obj, fmt.Errorf("command name is not defined")
	}

	return obj, nil
}

// GetTypeName returns the type name without package path and pointer marks.
// The name of a request type is its command name on the wire.
func GetTypeName(cmd interface{}) string {
	t := reflect.TypeOf(cmd)
	if t == nil {
		return ""
	}
	typePath := strings.Split(t.String(), ".")
	return typePath[len(typePath)-1]
}
