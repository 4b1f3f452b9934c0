// Copyright (c) 2019 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package models

import (
	"fmt"
	"strings"
)

// MaintenanceMode is the maintenance status of a host. Modes are ordered,
// a smaller mode is a healthier host.
type MaintenanceMode int

const (
	// MaintenanceModeNone is an active host that is not in maintenance.
	MaintenanceModeNone MaintenanceMode = iota
	// MaintenanceModeScheduled is a host scheduled for maintenance.
	MaintenanceModeScheduled
	// MaintenanceModeDraining is a host whose tasks are being drained.
	MaintenanceModeDraining
	// MaintenanceModeDrained is a host with all its tasks drained.
	MaintenanceModeDrained
)

var _maintenanceModeNames = map[MaintenanceMode]string{
	MaintenanceModeNone:      "NONE",
	MaintenanceModeScheduled: "SCHEDULED",
	MaintenanceModeDraining:  "DRAINING",
	MaintenanceModeDrained:   "DRAINED",
}

// String returns the name of the mode.
func (m MaintenanceMode) String() string {
	if name, ok := _maintenanceModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(m))
}

// ParseMaintenanceMode converts a mode name, case insensitive, into a
// MaintenanceMode.
func ParseMaintenanceMode(s string) (MaintenanceMode, error) {
	for mode, name := range _maintenanceModeNames {
		if strings.EqualFold(name, s) {
			return mode, nil
		}
	}
	return MaintenanceModeNone, fmt.Errorf("unknown maintenance mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m MaintenanceMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *MaintenanceMode) UnmarshalText(text []byte) error {
	mode, err := ParseMaintenanceMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}
