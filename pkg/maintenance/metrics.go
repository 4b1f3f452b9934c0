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

package maintenance

import (
	"github.com/uber-go/tally"
)

// Metrics of the maintenance controller.
type Metrics struct {
	HostsInMaintenance tally.Gauge
	Transitions        tally.Counter
}

// NewMetrics returns the controller Metrics rooted at scope.
func NewMetrics(scope tally.Scope) *Metrics {
	return &Metrics{
		HostsInMaintenance: scope.Gauge("hosts"),
		Transitions:        scope.Counter("transitions"),
	}
}
