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

import (
	"github.com/uber-go/tally"
)

// Metrics of the scheduler driver.
type Metrics struct {
	Registered tally.Gauge

	Subscribe     tally.Counter
	SubscribeFail tally.Counter
	Disconnects   tally.Counter

	Frames        tally.Counter
	OfferEvents   tally.Counter
	RescindEvents tally.Counter
	Heartbeats    tally.Counter

	Decline     tally.Counter
	DeclineFail tally.Counter
	Launch      tally.Counter
	LaunchFail  tally.Counter
}

// NewMetrics returns the driver Metrics rooted at scope.
func NewMetrics(scope tally.Scope) *Metrics {
	callScope := scope.SubScope("call")
	failScope := scope.SubScope("fail")
	eventScope := scope.SubScope("event")

	return &Metrics{
		Registered: scope.Gauge("registered"),

		Subscribe:     callScope.Counter("subscribe"),
		SubscribeFail: failScope.Counter("subscribe"),
		Disconnects:   scope.Counter("disconnects"),

		Frames:        eventScope.Counter("frames"),
		OfferEvents:   eventScope.Counter("offers"),
		RescindEvents: eventScope.Counter("rescind"),
		Heartbeats:    eventScope.Counter("heartbeat"),

		Decline:     callScope.Counter("decline"),
		DeclineFail: failScope.Counter("decline"),
		Launch:      callScope.Counter("launch"),
		LaunchFail:  failScope.Counter("launch"),
	}
}
