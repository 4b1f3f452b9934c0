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

package logging

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLogFieldFormatterFormat(t *testing.T) {
	formatter := LogFieldFormatter{
		Formatter: &log.JSONFormatter{},
		Fields: log.Fields{
			"app":    "offerqueue",
			"shared": "static",
		},
	}

	entry := log.WithFields(log.Fields{
		"offer_id": "o1",
		"shared":   "entry",
	})
	b, err := formatter.Format(entry)
	assert.NoError(t, err)

	s := string(b)
	assert.Contains(t, s, `"app":"offerqueue"`)
	assert.Contains(t, s, `"offer_id":"o1"`)
	// Entry fields win over static ones.
	assert.Contains(t, s, `"shared":"entry"`)
	// The entry itself is left untouched.
	assert.NotContains(t, entry.Data, "app")
}
