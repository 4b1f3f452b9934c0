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

package lifecycle

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
)

type LifeCycleTestSuite struct {
	suite.Suite
	lifeCycle LifeCycle
}

func TestLifeCycle(t *testing.T) {
	suite.Run(t, new(LifeCycleTestSuite))
}

func (s *LifeCycleTestSuite) SetupTest() {
	s.lifeCycle = NewLifeCycle()
}

func (s *LifeCycleTestSuite) TestStartStopIdempotent() {
	s.False(s.lifeCycle.IsRunning())
	s.True(s.lifeCycle.Start())
	s.False(s.lifeCycle.Start())
	s.True(s.lifeCycle.IsRunning())
	s.True(s.lifeCycle.Stop())
	s.False(s.lifeCycle.Stop())
	s.False(s.lifeCycle.IsRunning())
}

func (s *LifeCycleTestSuite) TestStopBroadcastsToAllGoroutines() {
	n := 10
	var started, finished sync.WaitGroup
	started.Add(n)
	finished.Add(n)

	s.lifeCycle.Start()
	for i := 0; i < n; i++ {
		go func() {
			stopCh := s.lifeCycle.StopCh()
			started.Done()
			<-stopCh
			finished.Done()
		}()
	}
	go func() {
		finished.Wait()
		s.lifeCycle.StopComplete()
	}()

	started.Wait()
	s.lifeCycle.Stop()
	s.lifeCycle.Wait()
}

func (s *LifeCycleTestSuite) TestStopChOnStoppedLifeCycleIsClosed() {
	select {
	case <-s.lifeCycle.StopCh():
	default:
		s.Fail("stop channel of a stopped lifecycle must be closed")
	}
}

func (s *LifeCycleTestSuite) TestStopCompleteTwiceDoesNotBlock() {
	s.lifeCycle.StopComplete()
	s.lifeCycle.StopComplete()
	s.lifeCycle.Wait()
}
