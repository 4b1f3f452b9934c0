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
	"runtime"
	"time"

	"github.com/uber/offerqueue/pkg/common/lifecycle"

	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally"
	"go.uber.org/atomic"
)

// Size of the runtime.MemStats.PauseNs ring buffer.
const _pauseBufferSize = 256

// RuntimeCollector periodically reports goroutine, memory and GC metrics of
// the process.
type RuntimeCollector struct {
	interval  time.Duration
	lifecycle lifecycle.LifeCycle
	lastNumGC atomic.Uint32

	numGoroutines tally.Gauge
	goMaxProcs    tally.Gauge
	heapAlloc     tally.Gauge
	heapIdle      tally.Gauge
	heapInuse     tally.Gauge
	stackInuse    tally.Gauge
	numGC         tally.Counter
	gcPause       tally.Timer
}

// NewRuntimeCollector returns a stopped collector reporting under
// scope.runtime every interval.
func NewRuntimeCollector(scope tally.Scope, interval time.Duration) *RuntimeCollector {
	scope = scope.SubScope("runtime")

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	r := &RuntimeCollector{
		interval:  interval,
		lifecycle: lifecycle.NewLifeCycle(),

		numGoroutines: scope.Gauge("num_goroutines"),
		goMaxProcs:    scope.Gauge("gomaxprocs"),
		heapAlloc:     scope.Gauge("memory_heap"),
		heapIdle:      scope.Gauge("memory_heapidle"),
		heapInuse:     scope.Gauge("memory_heapinuse"),
		stackInuse:    scope.Gauge("memory_stack"),
		numGC:         scope.Counter("memory_num_gc"),
		gcPause:       scope.Timer("memory_gc_pause"),
	}
	r.lastNumGC.Store(memStats.NumGC)
	return r
}

// Start begins reporting in the background.
func (r *RuntimeCollector) Start() {
	if !r.lifecycle.Start() {
		return
	}

	go func() {
		defer r.lifecycle.StopComplete()

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.generate()
			case <-r.lifecycle.StopCh():
				return
			}
		}
	}()
	log.WithField("interval", r.interval).Info("Runtime metrics collector started")
}

// Stop ends reporting and waits for the reporting goroutine to exit.
func (r *RuntimeCollector) Stop() {
	if !r.lifecycle.Stop() {
		return
	}
	r.lifecycle.Wait()
}

func (r *RuntimeCollector) generate() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	r.numGoroutines.Update(float64(runtime.NumGoroutine()))
	r.goMaxProcs.Update(float64(runtime.GOMAXPROCS(0)))
	r.heapAlloc.Update(float64(memStats.HeapAlloc))
	r.heapIdle.Update(float64(memStats.HeapIdle))
	r.heapInuse.Update(float64(memStats.HeapInuse))
	r.stackInuse.Update(float64(memStats.StackInuse))

	// NumGC only grows, modulo wrapping at 2^32.
	num := memStats.NumGC
	last := r.lastNumGC.Swap(num)
	delta := num - last
	if delta == 0 {
		return
	}
	r.numGC.Inc(int64(delta))

	// Older pauses were overwritten in the ring buffer.
	if delta >= _pauseBufferSize {
		last = num - _pauseBufferSize
	}
	for i := last; i != num; i++ {
		r.gcPause.Record(time.Duration(memStats.PauseNs[i%_pauseBufferSize]))
	}
}
