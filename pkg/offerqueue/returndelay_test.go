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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedReturnDelay(t *testing.T) {
	assert.Equal(t, time.Minute, NewFixedReturnDelay(time.Minute).Get())
}

func TestRandomReturnDelay(t *testing.T) {
	delay := NewRandomReturnDelay(time.Minute, 10*time.Second)
	for i := 0; i < 100; i++ {
		d := delay.Get()
		assert.True(t, d >= time.Minute, "delay %v below minimum", d)
		assert.True(t, d < time.Minute+10*time.Second, "delay %v above jitter", d)
	}

	assert.Equal(t, time.Minute, NewRandomReturnDelay(time.Minute, 0).Get())
}

func TestNewReturnDelayDefaults(t *testing.T) {
	assert.Equal(t, _defaultOfferHoldTime, NewReturnDelay(Config{}).Get())
	assert.Equal(t, time.Second, NewReturnDelay(Config{
		OfferHoldTime:   time.Second,
		OfferHoldJitter: -time.Second,
	}).Get())
}
