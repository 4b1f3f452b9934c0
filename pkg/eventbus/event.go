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
	"fmt"

	"github.com/uber/offerqueue/pkg/models"
)

// Event is a notification distributed by the Bus.
type Event interface {
	// Type returns a short name of the event, used in logs and metrics.
	Type() string
}

// HostMaintenanceStateChange is posted when a host moves to a different
// maintenance mode.
type HostMaintenanceStateChange struct {
	Hostname string
	Mode     models.MaintenanceMode
}

// Type implements Event.
func (e HostMaintenanceStateChange) Type() string {
	return "host_maintenance_state_change"
}

func (e HostMaintenanceStateChange) String() string {
	return fmt.Sprintf("%s(%s -> %s)", e.Type(), e.Hostname, e.Mode)
}

// DriverDisconnected is posted when the scheduler driver lost its
// connection to the master.
type DriverDisconnected struct{}

// Type implements Event.
func (e DriverDisconnected) Type() string {
	return "driver_disconnected"
}

// Subscriber receives the events posted on a Bus. HandleEvent is called from
// a goroutine dedicated to the subscriber, one event at a time, in the order
// the events were posted.
type Subscriber interface {
	HandleEvent(event Event)
}

// SubscriberFunc adapts a function to the Subscriber interface.
type SubscriberFunc func(event Event)

// HandleEvent calls f(event).
func (f SubscriberFunc) HandleEvent(event Event) {
	f(event)
}
