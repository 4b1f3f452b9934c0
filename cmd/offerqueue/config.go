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

package main

import (
	"time"

	"github.com/uber/offerqueue/pkg/common/logging"
	"github.com/uber/offerqueue/pkg/common/metrics"
	"github.com/uber/offerqueue/pkg/driver"
	"github.com/uber/offerqueue/pkg/eventbus"
	"github.com/uber/offerqueue/pkg/offerqueue"
	"github.com/uber/offerqueue/pkg/placement"
)

const (
	_defaultHTTPPort               = 5396
	_defaultMetricsFlushInterval   = time.Second
	_defaultRuntimeMetricsInterval = 10 * time.Second
	_defaultShutdownTimeout        = 10 * time.Second
)

// Config of the offer queue service.
type Config struct {
	// HTTPPort serves /offers, /maintenance, /tasks, /health, /metrics and
	// /logging-level.
	HTTPPort int `yaml:"http_port"`

	// ShutdownTimeout bounds the drain of in-flight HTTP requests on exit.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	Metrics                metrics.Config `yaml:"metrics"`
	MetricsFlushInterval   time.Duration  `yaml:"metrics_flush_interval"`
	RuntimeMetricsInterval time.Duration  `yaml:"runtime_metrics_interval"`

	Sentry logging.SentryConfig `yaml:"sentry"`

	OfferQueue offerqueue.Config `yaml:"offer_queue"`
	EventBus   eventbus.Config   `yaml:"event_bus"`
	Driver     driver.Config     `yaml:"driver"`
	Placement  placement.Config  `yaml:"placement"`
}

func (c *Config) normalize() {
	if c.HTTPPort <= 0 {
		c.HTTPPort = _defaultHTTPPort
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = _defaultShutdownTimeout
	}
	if c.MetricsFlushInterval <= 0 {
		c.MetricsFlushInterval = _defaultMetricsFlushInterval
	}
	if c.RuntimeMetricsInterval <= 0 {
		c.RuntimeMetricsInterval = _defaultRuntimeMetricsInterval
	}
}
