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

package maintenance

import (
	"github.com/uber/offerqueue/pkg/eventbus"
	"github.com/uber/offerqueue/pkg/models"

	cmap "github.com/orcaman/concurrent-map/v2"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally"
	"go.uber.org/multierr"
)

// ModeOracle returns the current maintenance mode of a host.
type ModeOracle interface {
	GetMode(hostname string) models.MaintenanceMode
}

// Controller keeps track of host maintenance modes and notifies the event
// bus whenever the mode of a host changes.
type Controller interface {
	ModeOracle

	// GetModes returns the mode of every host not in MaintenanceModeNone.
	GetModes() map[string]models.MaintenanceMode
	// SetMode records the mode of a host.
	SetMode(hostname string, mode models.MaintenanceMode) error
	// StartMaintenance schedules the given hosts for maintenance.
	StartMaintenance(hostnames []string) error
	// Drain starts draining the given hosts.
	Drain(hostnames []string) error
	// MarkDrained marks a host as fully drained.
	MarkDrained(hostname string) error
	// EndMaintenance moves a host back to active.
	EndMaintenance(hostname string) error
}

type controller struct {
	modes   cmap.ConcurrentMap[string, models.MaintenanceMode]
	bus     eventbus.Bus
	metrics *Metrics
}

// NewController returns an in-memory maintenance Controller. Hosts never
// seen are active.
func NewController(bus eventbus.Bus, parent tally.Scope) Controller {
	return &controller{
		modes:   cmap.New[models.MaintenanceMode](),
		bus:     bus,
		metrics: NewMetrics(parent.SubScope("maintenance")),
	}
}

func (c *controller) GetMode(hostname string) models.MaintenanceMode {
	mode, ok := c.modes.Get(hostname)
	if !ok {
		return models.MaintenanceModeNone
	}
	return mode
}

func (c *controller) GetModes() map[string]models.MaintenanceMode {
	return c.modes.Items()
}

func (c *controller) SetMode(hostname string, mode models.MaintenanceMode) error {
	var previous models.MaintenanceMode
	c.modes.Upsert(hostname, mode, func(exists bool, old, updated models.MaintenanceMode) models.MaintenanceMode {
		previous = models.MaintenanceModeNone
		if exists {
			previous = old
		}
		return updated
	})
	if mode == models.MaintenanceModeNone {
		c.modes.RemoveCb(hostname, func(_ string, v models.MaintenanceMode, exists bool) bool {
			return exists && v == models.MaintenanceModeNone
		})
	}
	c.metrics.HostsInMaintenance.Update(float64(c.modes.Count()))

	if previous == mode {
		return nil
	}

	log.WithFields(log.Fields{
		"hostname": hostname,
		"from":     previous,
		"to":       mode,
	}).Info("Host maintenance mode changed")
	c.metrics.Transitions.Inc(1)

	return c.bus.Post(eventbus.HostMaintenanceStateChange{
		Hostname: hostname,
		Mode:     mode,
	})
}

func (c *controller) setModes(hostnames []string, mode models.MaintenanceMode) error {
	var errs error
	for _, hostname := range hostnames {
		errs = multierr.Append(errs, c.SetMode(hostname, mode))
	}
	return errs
}

func (c *controller) StartMaintenance(hostnames []string) error {
	return c.setModes(hostnames, models.MaintenanceModeScheduled)
}

func (c *controller) Drain(hostnames []string) error {
	return c.setModes(hostnames, models.MaintenanceModeDraining)
}

func (c *controller) MarkDrained(hostname string) error {
	return c.SetMode(hostname, models.MaintenanceModeDrained)
}

func (c *controller) EndMaintenance(hostname string) error {
	return c.SetMode(hostname, models.MaintenanceModeNone)
}
