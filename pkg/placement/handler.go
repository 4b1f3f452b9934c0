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
	"encoding/json"
	"net/http"

	"github.com/uber/offerqueue/pkg/models"

	log "github.com/sirupsen/logrus"
)

// NewTasksHandler accepts tasks to place as a JSON array on POST.
func NewTasksHandler(e Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var tasks []*models.TaskInfo
		if err := json.NewDecoder(r.Body).Decode(&tasks); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		for _, task := range tasks {
			if task == nil || task.TaskID == "" {
				http.Error(w, "task_id is required", http.StatusBadRequest)
				return
			}
		}

		for i, task := range tasks {
			if err := e.Enqueue(task); err != nil {
				log.WithError(err).
					WithField("accepted", i).
					Warn("Failed to enqueue tasks")
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusAccepted)
	})
}
