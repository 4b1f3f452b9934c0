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

package driver

import "time"

const (
	_defaultFrameworkName     = "offerqueue"
	_defaultFrameworkUser     = "root"
	_defaultRequestTimeout    = 10 * time.Second
	_defaultReconnectInterval = 5 * time.Second
	_defaultRefuseDuration    = 5 * time.Second
	_defaultFailoverTimeout   = 7 * 24 * time.Hour
)

// Config of the scheduler driver.
type Config struct {
	// MasterURL is the base url of the master, e.g. http://master:5050.
	MasterURL string `yaml:"master_url" validate:"nonzero"`

	FrameworkName string `yaml:"framework_name"`
	FrameworkUser string `yaml:"framework_user"`

	// FailoverTimeout is how long the master keeps the framework's tasks
	// after the framework disconnected.
	FailoverTimeout time.Duration `yaml:"failover_timeout"`

	// RequestTimeout bounds DECLINE and ACCEPT calls.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// ReconnectInterval is the wait between two subscription attempts.
	ReconnectInterval time.Duration `yaml:"reconnect_interval"`

	// RefuseDuration is sent as refuse_seconds filter on declines.
	RefuseDuration time.Duration `yaml:"refuse_duration"`

	// ContentType of calls and events, x-protobuf or json.
	ContentType string `yaml:"content_type"`
}

func (c *Config) normalize() {
	if c.FrameworkName == "" {
		c.FrameworkName = _defaultFrameworkName
	}
	if c.FrameworkUser == "" {
		c.FrameworkUser = _defaultFrameworkUser
	}
	if c.FailoverTimeout <= 0 {
		c.FailoverTimeout = _defaultFailoverTimeout
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = _defaultRequestTimeout
	}
	if c.ReconnectInterval <= 0 {
		c.ReconnectInterval = _defaultReconnectInterval
	}
	if c.RefuseDuration <= 0 {
		c.RefuseDuration = _defaultRefuseDuration
	}
	if c.ContentType == "" {
		c.ContentType = ContentTypeProtobuf
	}
}
