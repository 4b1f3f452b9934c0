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

package eventbus

import "time"

const (
	_defaultBufferSize     = 100
	_defaultMaxSubscribers = 100
	_defaultPostTimeout    = 10 * time.Second
)

// Config for the event bus.
type Config struct {
	// Size of per-subscriber event buffer.
	BufferSize int `yaml:"buffer_size"`

	// Maximum number of concurrent subscribers.
	MaxSubscribers int `yaml:"max_subscribers"`

	// How long Post waits for a subscriber with a full buffer before giving
	// up on delivering the event to it.
	PostTimeout time.Duration `yaml:"post_timeout"`
}

func (c *Config) normalize() {
	if c.BufferSize <= 0 {
		c.BufferSize = _defaultBufferSize
	}
	if c.MaxSubscribers <= 0 {
		c.MaxSubscribers = _defaultMaxSubscribers
	}
	if c.PostTimeout <= 0 {
		c.PostTimeout = _defaultPostTimeout
	}
}
