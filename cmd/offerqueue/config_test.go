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
	"testing"
	"time"

	"github.com/uber/offerqueue/pkg/common/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const _baseConfig = "../../config/offerqueue/base.yaml"

func TestBaseConfig(t *testing.T) {
	var cfg Config
	require.NoError(t, config.Parse(&cfg, _baseConfig))
	cfg.normalize()

	assert.Equal(t, 5396, cfg.HTTPPort)
	assert.Equal(t, "http://localhost:5050", cfg.Driver.MasterURL)
	assert.Equal(t, 5*time.Minute, cfg.OfferQueue.OfferHoldTime)
	assert.Equal(t, time.Minute, cfg.OfferQueue.OfferHoldJitter)
	assert.Equal(t, 100, cfg.EventBus.BufferSize)
	assert.Equal(t, 30*time.Second, cfg.Placement.BackoffMax)
	assert.True(t, cfg.Metrics.Prometheus.Enable)
}

func TestConfigNormalize(t *testing.T) {
	var cfg Config
	cfg.normalize()

	assert.Equal(t, _defaultHTTPPort, cfg.HTTPPort)
	assert.Equal(t, _defaultShutdownTimeout, cfg.ShutdownTimeout)
	assert.Equal(t, _defaultMetricsFlushInterval, cfg.MetricsFlushInterval)
	assert.Equal(t, _defaultRuntimeMetricsInterval, cfg.RuntimeMetricsInterval)
}
