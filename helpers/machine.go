// Copyright (c) 2024 privateLINE, LLC.

package helpers

import (
	"fmt"
	"os"

	"github.com/panta/machineid"
)

// StableMachineID returns the raw machine ID hashed with the "privateLINE " key.
// It survives reboots (until the OS is reinstalled) and does not disclose the raw ID.
func StableMachineID() (string, error) {
	rawId, err := machineid.ID()
	if err != nil {
		return "", fmt.Errorf("failed to read machine ID: %w", err)
	}

	hashedId, err := machineid.ProtectedID("privateLINE " + rawId)
	if err != nil {
		return "", fmt.Errorf("failed to hash machine ID: %w", err)
	}

	return hashedId, nil
}

// DefaultDeviceName is the name the client reports for this device when logging in:
// "<hostname>-<first 8 chars of stable machine ID>"
func DefaultDeviceName() string {
	host, err := os.Hostname()
	if err != nil || len(host) == 0 {
		host = "device"
	}
	id, err := StableMachineID()
	if err != nil || len(id) < 8 {
		return host
	}
	return host + "-" + id[:8]
}
