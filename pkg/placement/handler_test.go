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
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uber-go/tally"
)

func TestTasksHandler(t *testing.T) {
	e := New(Config{MaxPendingTasks: 2}, &fakeLauncher{}, tally.NoopScope)
	handler := NewTasksHandler(e)

	post := func(body string) int {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(body)))
		return rec.Code
	}

	assert.Equal(t, http.StatusAccepted,
		post(`[{"task_id":"t1","resources":{"cpus":1}}]`))
	assert.Equal(t, 1, e.Pending())

	assert.Equal(t, http.StatusBadRequest, post(`[{"name":"no id"}]`))
	assert.Equal(t, http.StatusBadRequest, post(`not json`))
	assert.Equal(t, http.StatusServiceUnavailable,
		post(`[{"task_id":"t2"},{"task_id":"t3"}]`))
	assert.Equal(t, 2, e.Pending())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
