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

package maintenance

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/uber/offerqueue/pkg/models"

	log "github.com/sirupsen/logrus"
)

// NewHandler serves the host maintenance modes of controller.
//
//	GET  returns the modes of every host in maintenance as JSON.
//	POST ?host=<hostname>&mode=<mode> moves a host to mode.
func NewHandler(controller Controller) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(controller.GetModes()); err != nil {
				log.WithError(err).Warn("Failed to write maintenance modes")
			}
		case http.MethodPost:
			values := r.URL.Query()
			host := values.Get("host")
			if host == "" {
				http.Error(w, "host is required", http.StatusBadRequest)
				return
			}
			mode, err := models.ParseMaintenanceMode(values.Get("mode"))
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if err := controller.SetMode(host, mode); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			fmt.Fprintf(w, "Host %s moved to %s.\n", host, mode)
		default:
			w.Header().Set("Allow", "GET, POST")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
}
