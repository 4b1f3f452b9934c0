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

package offerqueue

import "time"

const (
	_defaultOfferHoldTime = 5 * time.Minute
)

// Config of the offer queue.
type Config struct {
	// OfferHoldTime is the minimum time an unmatched offer is held before
	// it is declined.
	OfferHoldTime time.Duration `yaml:"offer_hold_time"`

	// OfferHoldJitter is added, drawn at random per offer, to
	// OfferHoldTime. Zero holds every offer for exactly OfferHoldTime.
	OfferHoldJitter time.Duration `yaml:"offer_hold_jitter"`
}

func (c *Config) normalize() {
	if c.OfferHoldTime <= 0 {
		c.OfferHoldTime = _defaultOfferHoldTime
	}
	if c.OfferHoldJitter < 0 {
		c.OfferHoldJitter = 0
	}
}

// NewReturnDelay builds the return delay policy of the config.
func NewReturnDelay(cfg Config) ReturnDelay {
	cfg.normalize()
	return NewRandomReturnDelay(cfg.OfferHoldTime, cfg.OfferHoldJitter)
}
