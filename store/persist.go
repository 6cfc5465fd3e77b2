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

package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const settingsFileMode = os.FileMode(0600)

func tempFilePath(path string) string {
	return path + ".tmp"
}

// SaveSettings writes the settings to 'path' as JSON.
// The data is written to a temporary file first; it is removed after the main file is saved.
func (s *Store) SaveSettings(path string) error {
	data, err := json.MarshalIndent(s.Settings(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to save settings file (json marshal error): %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create settings folder: %w", err)
	}

	tmp := tempFilePath(path)
	if err := os.WriteFile(tmp, data, settingsFileMode); err != nil {
		return fmt.Errorf("failed to write temporary settings file: %w", err)
	}
	if err := os.WriteFile(path, data, settingsFileMode); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	os.Remove(tmp)
	return nil
}

// LoadSettings reads settings saved by SaveSettings.
// Falls back to the temporary file when the main one is unreadable.
// Fields absent in the file keep their default values.
func (s *Store) LoadSettings(path string) error {
	read := func(p string) (Settings, error) {
		ret := DefaultSettings()
		data, err := os.ReadFile(p)
		if err != nil {
			return ret, fmt.Errorf("failed to read settings file: %w", err)
		}
		if err := json.Unmarshal(data, &ret); err != nil {
			return ret, fmt.Errorf("error unmarshaling settings file: %w", err)
		}
		return ret, nil
	}

	settings, err := read(path)
	if err != nil {
		var errTmp error
		if settings, errTmp = read(tempFilePath(path)); errTmp != nil {
			return err
		}
		log.Info("Settings restored from temporary file")
	}

	s.mutate(func(st *State) []Mutation {
		st.Settings = settings
		return []Mutation{MutSettings}
	})
	return nil
}
