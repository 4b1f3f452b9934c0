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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaintenanceModeOrdering(t *testing.T) {
	assert.True(t, MaintenanceModeNone < MaintenanceModeScheduled)
	assert.True(t, MaintenanceModeScheduled < MaintenanceModeDraining)
	assert.True(t, MaintenanceModeDraining < MaintenanceModeDrained)
}

func TestParseMaintenanceMode(t *testing.T) {
	mode, err := ParseMaintenanceMode("draining")
	assert.NoError(t, err)
	assert.Equal(t, MaintenanceModeDraining, mode)

	_, err = ParseMaintenanceMode("broken")
	assert.Error(t, err)

	var m MaintenanceMode
	assert.NoError(t, m.UnmarshalText([]byte("DRAINED")))
	assert.Equal(t, MaintenanceModeDrained, m)
	assert.Equal(t, "UNKNOWN(9)", MaintenanceMode(9).String())
}

func TestResourcesContains(t *testing.T) {
	offered := Resources{CPU: 4, Mem: 1024}
	assert.True(t, offered.Contains(Resources{CPU: 2, Mem: 1024}))
	assert.False(t, offered.Contains(Resources{CPU: 8}))
	assert.False(t, offered.Contains(Resources{GPU: 1}))
	assert.True(t, offered.Contains(nil))
}

func TestOfferGettersOnNil(t *testing.T) {
	var o *Offer
	assert.Equal(t, OfferID(""), o.GetID())
	assert.Equal(t, AgentID(""), o.GetAgentID())
	assert.Equal(t, "", o.GetHostname())
}
