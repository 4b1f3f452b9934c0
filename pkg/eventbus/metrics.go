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

package eventbus

import (
	"github.com/uber-go/tally"
)

// Metrics of the event bus.
type Metrics struct {
	Subscribers   tally.Gauge
	Posted        tally.Counter
	Delivered     tally.Counter
	Overflow      tally.Counter
	HandlerPanics tally.Counter
}

// NewMetrics returns the bus Metrics rooted at scope.
func NewMetrics(scope tally.Scope) *Metrics {
	return &Metrics{
		Subscribers:   scope.Gauge("subscribers"),
		Posted:        scope.Counter("posted"),
		Delivered:     scope.Counter("delivered"),
		Overflow:      scope.Counter("overflow"),
		HandlerPanics: scope.Counter("handler_panics"),
	}
}
