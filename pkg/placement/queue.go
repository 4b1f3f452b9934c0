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
	"github.com/uber/offerqueue/pkg/models"

	"github.com/pkg/errors"
)

// ErrQueueFull is returned when enqueuing into a full task queue.
var ErrQueueFull = errors.New("pending task queue is full")

// taskQueue is a bounded FIFO of tasks waiting for an offer.
type taskQueue struct {
	channel chan *models.TaskInfo
}

func newTaskQueue(size int) *taskQueue {
	return &taskQueue{
		channel: make(chan *models.TaskInfo, size),
	}
}

// enqueue adds task at the tail without blocking.
func (q *taskQueue) enqueue(task *models.TaskInfo) error {
	select {
	case q.channel <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// dequeue pops the head task, false if the queue is empty.
func (q *taskQueue) dequeue() (*models.TaskInfo, bool) {
	select {
	case task := <-q.channel:
		return task, true
	default:
		return nil, false
	}
}

func (q *taskQueue) length() int {
	return len(q.channel)
}
