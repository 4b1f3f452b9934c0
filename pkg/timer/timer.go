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

package timer

import (
	"sync"
	"time"

	"github.com/uber/offerqueue/pkg/common/lifecycle"

	"code.cloudfoundry.org/clock"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally"
)

// Service runs callbacks once after a delay.
type Service interface {
	// Start enables scheduling.
	Start()
	// Stop abandons every pending callback and waits for the callbacks that
	// are already running.
	Stop()
	// After runs fn on its own goroutine once d elapsed. Scheduled
	// callbacks cannot be canceled individually. After is a no-op when the
	// service is not running.
	After(d time.Duration, fn func())
}

type service struct {
	// mu orders After against Stop so that no callback is registered once
	// Stop started waiting.
	mu sync.RWMutex

	clock     clock.Clock
	lifecycle lifecycle.LifeCycle
	pending   sync.WaitGroup
	metrics   *Metrics
}

// NewService returns a stopped timer Service driven by the given clock.
func NewService(clk clock.Clock, parent tally.Scope) Service {
	return &service{
		clock:     clk,
		lifecycle: lifecycle.NewLifeCycle(),
		metrics:   NewMetrics(parent.SubScope("timer")),
	}
}

func (s *service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.lifecycle.Start() {
		log.Warn("Timer service is already running, no action will be performed")
		return
	}
	log.Info("Timer service started")
}

func (s *service) Stop() {
	s.mu.Lock()
	stopped := s.lifecycle.Stop()
	s.mu.Unlock()

	if !stopped {
		log.Warn("Timer service is already stopped, no action will be performed")
		return
	}
	s.pending.Wait()
	log.Info("Timer service stopped")
}

func (s *service) After(d time.Duration, fn func()) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.lifecycle.IsRunning() {
		log.WithField("delay", d).
			Warn("Timer service is not running, dropping callback")
		s.metrics.Dropped.Inc(1)
		return
	}

	t := s.clock.NewTimer(d)
	stopCh := s.lifecycle.StopCh()
	s.pending.Add(1)
	s.metrics.Scheduled.Inc(1)

	go func() {
		defer s.pending.Done()

		select {
		case <-t.C():
			s.run(fn)
		case <-stopCh:
			t.Stop()
			s.metrics.Abandoned.Inc(1)
		}
	}()
}

func (s *service) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.metrics.Panics.Inc(1)
			log.WithField("panic", r).Error("Timer callback panicked")
		}
	}()
	s.metrics.Fired.Inc(1)
	fn()
}
