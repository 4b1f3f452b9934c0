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

package metrics

import (
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"
	"go.uber.org/goleak"
)

func TestInitMetricScopeNoop(t *testing.T) {
	scope, closer, mux, err := InitMetricScope(&Config{}, "offerqueue", time.Second)
	require.NoError(t, err)
	defer closer.Close()

	scope.Counter("test").Inc(1)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInitMetricScopeStatsd(t *testing.T) {
	_, closer, _, err := InitMetricScope(&Config{
		Statsd: &StatsdConfig{Enable: true, Endpoint: "127.0.0.1:8125"},
	}, "offerqueue", time.Second)
	require.NoError(t, err)
	assert.NoError(t, closer.Close())
}

func TestRuntimeCollectorGenerate(t *testing.T) {
	scope := tally.NewTestScope("", nil)
	collector := NewRuntimeCollector(scope, time.Hour)

	runtime.GC()
	collector.generate()

	snapshot := scope.Snapshot()
	assert.True(t, snapshot.Gauges()["runtime.num_goroutines+"].Value() > 0)
	assert.True(t, snapshot.Counters()["runtime.memory_num_gc+"].Value() >= 1)
}

func TestRuntimeCollectorStartStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	collector := NewRuntimeCollector(tally.NoopScope, 10*time.Millisecond)
	collector.Start()
	collector.Start()
	time.Sleep(30 * time.Millisecond)
	collector.Stop()
	collector.Stop()
}
