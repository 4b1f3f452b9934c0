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

import (
	"time"

	"github.com/uber/offerqueue/pkg/common/lifecycle"
	"github.com/uber/offerqueue/pkg/models"
	"github.com/uber/offerqueue/pkg/offerqueue"

	"github.com/cenkalti/backoff"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally"
)

// Launcher launches a task on the first offer accepted by a function.
type Launcher interface {
	LaunchFirst(accept offerqueue.AcceptFunc) (bool, error)
}

// Engine places pending tasks on offers. It runs a single placement
// goroutine, which makes it the only caller of LaunchFirst.
type Engine interface {
	Start()
	Stop()
	// Enqueue adds a task waiting for an offer. Returns ErrQueueFull if
	// too many tasks are pending.
	Enqueue(task *models.TaskInfo) error
	// Pending returns the number of tasks waiting for an offer.
	Pending() int
}

type engine struct {
	cfg       Config
	launcher  Launcher
	tasks     *taskQueue
	backoff   backoff.BackOff
	lifecycle lifecycle.LifeCycle
	metrics   *Metrics
}

// New returns a stopped placement Engine launching on launcher.
func New(cfg Config, launcher Launcher, parent tally.Scope) Engine {
	cfg.normalize()

	b := &backoff.ExponentialBackOff{
		InitialInterval:     cfg.BackoffInitial,
		MaxInterval:         cfg.BackoffMax,
		Multiplier:          cfg.BackoffMultiplier,
		RandomizationFactor: backoff.DefaultRandomizationFactor,
		// Never give up, the driver comes back once it re-subscribed.
		MaxElapsedTime: 0,
		Clock:          backoff.SystemClock,
	}
	b.Reset()

	return &engine{
		cfg:       cfg,
		launcher:  launcher,
		tasks:     newTaskQueue(cfg.MaxPendingTasks),
		backoff:   b,
		lifecycle: lifecycle.NewLifeCycle(),
		metrics:   NewMetrics(parent.SubScope("placement")),
	}
}

func (e *engine) Enqueue(task *models.TaskInfo) error {
	if err := e.tasks.enqueue(task); err != nil {
		e.metrics.TasksRejected.Inc(1)
		return err
	}
	e.metrics.TasksEnqueued.Inc(1)
	e.metrics.PendingTasks.Update(float64(e.tasks.length()))
	return nil
}

func (e *engine) Pending() int {
	return e.tasks.length()
}

func (e *engine) Start() {
	if !e.lifecycle.Start() {
		log.Warn("Placement engine is already running, no action will be performed")
		return
	}
	e.metrics.Running.Update(1)
	go e.run()
	log.Info("Placement engine started")
}

func (e *engine) run() {
	defer e.lifecycle.StopComplete()

	timer := time.NewTimer(0)
	for {
		select {
		case <-e.lifecycle.StopCh():
			timer.Stop()
			return
		case <-timer.C:
		}
		timer.Reset(e.place())
	}
}

func (e *engine) Stop() {
	if !e.lifecycle.Stop() {
		log.Warn("Placement engine is already stopped, no action will be performed")
		return
	}
	e.lifecycle.Wait()
	e.metrics.Running.Update(0)
	log.Info("Placement engine stopped")
}

// place runs one placement round over the tasks pending when the round
// started and returns the wait until the next round.
func (e *engine) place() time.Duration {
	defer func() {
		e.metrics.PendingTasks.Update(float64(e.tasks.length()))
	}()

	for n := e.tasks.length(); n > 0; n-- {
		task, ok := e.tasks.dequeue()
		if !ok {
			break
		}

		launched, err := e.launcher.LaunchFirst(fits(task))
		switch {
		case err == nil && launched:
			e.metrics.Launched.Inc(1)
			e.backoff.Reset()
		case err == nil:
			e.metrics.NoMatch.Inc(1)
			e.requeue(task)
		case offerqueue.IsRaced(err):
			e.metrics.Raced.Inc(1)
			e.requeue(task)
		default:
			e.metrics.DriverRejected.Inc(1)
			e.requeue(task)

			delay := e.backoff.NextBackOff()
			if delay == backoff.Stop {
				delay = e.cfg.BackoffMax
			}
			e.metrics.Backoff.Record(delay)
			log.WithError(err).
				WithField("task_id", task.TaskID).
				WithField("delay", delay).
				Warn("Launch rejected by driver, backing off")
			return delay
		}
	}
	return e.cfg.DequeuePeriod
}

func (e *engine) requeue(task *models.TaskInfo) {
	if err := e.tasks.enqueue(task); err != nil {
		e.metrics.TasksDropped.Inc(1)
		log.WithError(err).
			WithField("task_id", task.TaskID).
			Error("Failed to requeue pending task, dropping it")
	}
}

// fits accepts offers holding at least the resources of task, and binds the
// task to the agent of the offer. It does not score offers, the first
// fitting one in queue order wins.
func fits(task *models.TaskInfo) offerqueue.AcceptFunc {
	return func(offer models.Offer) (*models.TaskInfo, bool) {
		if !offer.Resources.Contains(task.Resources) {
			return nil, false
		}
		launch := *task
		launch.AgentID = offer.AgentID
		return &launch, true
	}
}
