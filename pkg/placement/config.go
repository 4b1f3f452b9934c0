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

package placement

import "time"

const (
	_defaultDequeuePeriod     = time.Second
	_defaultMaxPendingTasks   = 1000
	_defaultBackoffInitial    = 500 * time.Millisecond
	_defaultBackoffMax        = 30 * time.Second
	_defaultBackoffMultiplier = 2
)

// Config of the placement engine.
type Config struct {
	// DequeuePeriod is the wait between two placement rounds.
	DequeuePeriod time.Duration `yaml:"dequeue_period"`

	// MaxPendingTasks bounds the number of tasks waiting for an offer.
	MaxPendingTasks int `yaml:"max_pending_tasks"`

	// BackoffInitial and BackoffMax bound the wait after the driver
	// rejected a launch.
	BackoffInitial    time.Duration `yaml:"backoff_initial"`
	BackoffMax        time.Duration `yaml:"backoff_max"`
	BackoffMultiplier float64       `yaml:"backoff_multiplier"`
}

func (c *Config) normalize() {
	if c.DequeuePeriod <= 0 {
		c.DequeuePeriod = _defaultDequeuePeriod
	}
	if c.MaxPendingTasks <= 0 {
		c.MaxPendingTasks = _defaultMaxPendingTasks
	}
	if c.BackoffInitial <= 0 {
		c.BackoffInitial = _defaultBackoffInitial
	}
	if c.BackoffMax < c.BackoffInitial {
		c.BackoffMax = _defaultBackoffMax
		if c.BackoffMax < c.BackoffInitial {
			c.BackoffMax = c.BackoffInitial
		}
	}
	if c.BackoffMultiplier < 1 {
		c.BackoffMultiplier = _defaultBackoffMultiplier
	}
}
