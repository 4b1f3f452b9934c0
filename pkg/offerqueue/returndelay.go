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

package offerqueue

import (
	"math/rand"
	"time"
)

// ReturnDelay decides how long an unmatched offer is held before it is
// declined.
type ReturnDelay interface {
	Get() time.Duration
}

type fixedReturnDelay time.Duration

// NewFixedReturnDelay always returns d.
func NewFixedReturnDelay(d time.Duration) ReturnDelay {
	return fixedReturnDelay(d)
}

func (f fixedReturnDelay) Get() time.Duration {
	return time.Duration(f)
}

type randomReturnDelay struct {
	min    time.Duration
	jitter time.Duration
}

// NewRandomReturnDelay returns delays drawn uniformly from
// [min, min+jitter). Spreading the delays avoids declining a whole batch of
// offers received together at the same instant.
func NewRandomReturnDelay(min, jitter time.Duration) ReturnDelay {
	if jitter <= 0 {
		return NewFixedReturnDelay(min)
	}
	return &randomReturnDelay{min: min, jitter: jitter}
}

func (r *randomReturnDelay) Get() time.Duration {
	return r.min + time.Duration(rand.Int63n(int64(r.jitter)))
}
