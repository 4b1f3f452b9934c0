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
	"github.com/uber-go/tally"
)

// Metrics of the placement engine.
type Metrics struct {
	Running      tally.Gauge
	PendingTasks tally.Gauge

	TasksEnqueued tally.Counter
	TasksRejected tally.Counter
	TasksDropped  tally.Counter

	Launched       tally.Counter
	NoMatch        tally.Counter
	Raced          tally.Counter
	DriverRejected tally.Counter

	Backoff tally.Timer
}

// NewMetrics returns the placement Metrics rooted at scope.
func NewMetrics(scope tally.Scope) *Metrics {
	taskScope := scope.SubScope("tasks")
	launchScope := scope.SubScope("launch")

	return &Metrics{
		Running:      scope.Gauge("running"),
		PendingTasks: taskScope.Gauge("pending"),

		TasksEnqueued: taskScope.Counter("enqueued"),
		TasksRejected: taskScope.Counter("rejected"),
		TasksDropped:  taskScope.Counter("dropped"),

		Launched:       launchScope.Counter("success"),
		NoMatch:        launchScope.Counter("no_match"),
		Raced:          launchScope.Counter("raced"),
		DriverRejected: launchScope.Counter("driver_rejected"),

		Backoff: scope.Timer("backoff"),
	}
}
