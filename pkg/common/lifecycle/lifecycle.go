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
)

// LifeCycle coordinates the start and stop of the goroutines owned by a
// component:
//	lc.Start()
//	go func() {
//		defer lc.StopComplete()
//		<-lc.StopCh()
//	}()
//	lc.Stop()
//	lc.Wait() // returns once StopComplete was called
type LifeCycle interface {
	// Start returns false if the lifecycle is already running.
	Start() bool
	// Stop returns false if the lifecycle is not running.
	Stop() bool
	// StopComplete unblocks Wait. Extra calls are ignored.
	StopComplete()
	// StopCh is closed when Stop is called. A channel obtained while the
	// lifecycle is stopped is already closed.
	StopCh() <-chan struct{}
	// Wait blocks until StopComplete is called.
	Wait()
	// IsRunning returns true between Start and Stop.
	IsRunning() bool
}

type lifeCycle struct {
	sync.RWMutex

	stopCh         chan struct{}
	stopCompleteCh chan struct{}
}

// NewLifeCycle creates a stopped LifeCycle.
func NewLifeCycle() LifeCycle {
	return &lifeCycle{
		stopCompleteCh: make(chan struct{}, 1),
	}
}

func (l *lifeCycle) Start() bool {
	l.Lock()
	defer l.Unlock()

	if l.stopCh != nil {
		return false
	}
	l.stopCh = make(chan struct{})
	return true
}

func (l *lifeCycle) Stop() bool {
	l.Lock()
	defer l.Unlock()

	if l.stopCh == nil {
		return false
	}
	close(l.stopCh)
	l.stopCh = nil
	return true
}

func (l *lifeCycle) StopCh() <-chan struct{} {
	l.RLock()
	defer l.RUnlock()

	if l.stopCh == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return l.stopCh
}

func (l *lifeCycle) StopComplete() {
	select {
	case l.stopCompleteCh <- struct{}{}:
	default:
	}
}

func (l *lifeCycle) Wait() {
	<-l.stopCompleteCh
}

func (l *lifeCycle) IsRunning() bool {
	l.RLock()
	defer l.RUnlock()

	return l.stopCh != nil
}
