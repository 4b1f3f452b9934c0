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
	"sync"
	"testing"
	"time"

	"github.com/uber/offerqueue/pkg/models"

	"github.com/stretchr/testify/suite"
	"github.com/uber-go/tally"
	"go.uber.org/goleak"
)

const _waitTimeout = 5 * time.Second

type recorder struct {
	sync.Mutex
	events []Event
}

func (r *recorder) HandleEvent(event Event) {
	r.Lock()
	defer r.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) received() []Event {
	r.Lock()
	defer r.Unlock()
	return append([]Event(nil), r.events...)
}

type BusTestSuite struct {
	suite.Suite

	scope tally.TestScope
	bus   Bus
}

func TestBus(t *testing.T) {
	suite.Run(t, new(BusTestSuite))
}

func (suite *BusTestSuite) SetupTest() {
	suite.scope = tally.NewTestScope("", map[string]string{})
	suite.bus = New(Config{
		BufferSize:     2,
		MaxSubscribers: 2,
		PostTimeout:    50 * time.Millisecond,
	}, suite.scope)
}

func (suite *BusTestSuite) TearDownTest() {
	suite.bus.Stop()
	goleak.VerifyNone(suite.T())
}

func (suite *BusTestSuite) TestPostFansOutInOrder() {
	r1, r2 := &recorder{}, &recorder{}
	_, err := suite.bus.Subscribe("r1", r1)
	suite.NoError(err)
	_, err = suite.bus.Subscribe("r2", r2)
	suite.NoError(err)

	events := []Event{
		HostMaintenanceStateChange{Hostname: "h1", Mode: models.MaintenanceModeDraining},
		HostMaintenanceStateChange{Hostname: "h1", Mode: models.MaintenanceModeDrained},
		DriverDisconnected{},
	}
	for _, e := range events {
		suite.NoError(suite.bus.Post(e))
	}

	for _, r := range []*recorder{r1, r2} {
		suite.Eventually(func() bool {
			return len(r.received()) == len(events)
		}, _waitTimeout, time.Millisecond)
		suite.Equal(events, r.received())
	}
}

func (suite *BusTestSuite) TestMaxSubscribers() {
	_, err := suite.bus.Subscribe("a", &recorder{})
	suite.NoError(err)
	_, err = suite.bus.Subscribe("b", &recorder{})
	suite.NoError(err)
	_, err = suite.bus.Subscribe("c", &recorder{})
	suite.Equal(ErrTooManySubscribers, err)
}

func (suite *BusTestSuite) TestUnsubscribe() {
	r := &recorder{}
	id, err := suite.bus.Subscribe("r", r)
	suite.NoError(err)
	suite.NoError(suite.bus.Unsubscribe(id))
	suite.Equal(ErrSubscriberNotFound, suite.bus.Unsubscribe(id))

	suite.NoError(suite.bus.Post(DriverDisconnected{}))
	suite.Empty(r.received())
}

func (suite *BusTestSuite) TestPostTimesOutOnBlockedSubscriber() {
	release := make(chan struct{})
	_, err := suite.bus.Subscribe("blocked", SubscriberFunc(func(Event) {
		<-release
	}))
	suite.NoError(err)

	// One event is held by the handler, two fill the buffer.
	for i := 0; i < 3; i++ {
		suite.NoError(suite.bus.Post(DriverDisconnected{}))
	}
	suite.Error(suite.bus.Post(DriverDisconnected{}))
	suite.Equal(int64(1), suite.scope.Snapshot().Counters()["eventbus.overflow+"].Value())
	close(release)
}

func (suite *BusTestSuite) TestPanickingSubscriberKeepsReceiving() {
	r := &recorder{}
	_, err := suite.bus.Subscribe("panics", SubscriberFunc(func(e Event) {
		r.HandleEvent(e)
		panic("boom")
	}))
	suite.NoError(err)

	suite.NoError(suite.bus.Post(DriverDisconnected{}))
	suite.NoError(suite.bus.Post(DriverDisconnected{}))
	suite.Eventually(func() bool {
		return len(r.received()) == 2
	}, _waitTimeout, time.Millisecond)
}

func (suite *BusTestSuite) TestStoppedBusRejectsPosts() {
	suite.bus.Stop()
	suite.Equal(ErrBusStopped, suite.bus.Post(DriverDisconnected{}))
	_, err := suite.bus.Subscribe("late", &recorder{})
	suite.Equal(ErrBusStopped, err)
}
