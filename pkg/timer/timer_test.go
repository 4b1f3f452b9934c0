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
	"testing"
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
	"github.com/stretchr/testify/suite"
	"github.com/uber-go/tally"
	"go.uber.org/goleak"
)

const _waitTimeout = 5 * time.Second

type TimerServiceTestSuite struct {
	suite.Suite

	clock   *fakeclock.FakeClock
	scope   tally.TestScope
	service Service
}

func TestTimerService(t *testing.T) {
	suite.Run(t, new(TimerServiceTestSuite))
}

func (suite *TimerServiceTestSuite) SetupTest() {
	suite.clock = fakeclock.NewFakeClock(time.Now())
	suite.scope = tally.NewTestScope("", map[string]string{})
	suite.service = NewService(suite.clock, suite.scope)
	suite.service.Start()
}

func (suite *TimerServiceTestSuite) TearDownTest() {
	suite.service.Stop()
	goleak.VerifyNone(suite.T())
}

func (suite *TimerServiceTestSuite) counter(name string) int64 {
	c, ok := suite.scope.Snapshot().Counters()["timer."+name+"+"]
	if !ok {
		return 0
	}
	return c.Value()
}

func (suite *TimerServiceTestSuite) TestCallbackFiresAfterDelay() {
	fired := make(chan struct{})
	suite.service.After(time.Minute, func() { close(fired) })

	suite.clock.Increment(30 * time.Second)
	select {
	case <-fired:
		suite.Fail("callback fired before its delay")
	case <-time.After(10 * time.Millisecond):
	}

	suite.clock.Increment(30 * time.Second)
	select {
	case <-fired:
	case <-time.After(_waitTimeout):
		suite.Fail("callback did not fire")
	}
	suite.Equal(int64(1), suite.counter("scheduled"))
}

func (suite *TimerServiceTestSuite) TestPanickingCallbackIsRecovered() {
	done := make(chan struct{})
	suite.service.After(time.Second, func() {
		defer close(done)
		panic("boom")
	})
	suite.clock.Increment(time.Second)

	select {
	case <-done:
	case <-time.After(_waitTimeout):
		suite.Fail("callback did not run")
	}
	suite.Eventually(func() bool {
		return suite.counter("panics") == 1
	}, _waitTimeout, time.Millisecond)
}

func (suite *TimerServiceTestSuite) TestStopAbandonsPendingCallbacks() {
	fired := make(chan struct{}, 1)
	suite.service.After(time.Hour, func() { fired <- struct{}{} })

	suite.service.Stop()
	suite.clock.Increment(2 * time.Hour)

	select {
	case <-fired:
		suite.Fail("abandoned callback fired")
	case <-time.After(10 * time.Millisecond):
	}
	suite.Equal(int64(1), suite.counter("abandoned"))
}

func (suite *TimerServiceTestSuite) TestAfterOnStoppedServiceIsDropped() {
	suite.service.Stop()
	suite.service.After(time.Second, func() {
		suite.Fail("callback on stopped service must not run")
	})
	suite.clock.Increment(time.Second)
	suite.Equal(int64(1), suite.counter("dropped"))
}
