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
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLevelOverwriteHandler(t *testing.T) {
	defer log.SetLevel(log.InfoLevel)

	tests := []struct {
		url             string
		expectedCode    int
		containResponse string
		expectedLevel   log.Level
	}{
		{
			url:             "",
			expectedCode:    http.StatusBadRequest,
			containResponse: "required params not set:",
		},
		{
			url:             "?duration=3s",
			expectedCode:    http.StatusBadRequest,
			containResponse: "required params not set: level",
		},
		{
			url:             "?level=info",
			expectedCode:    http.StatusBadRequest,
			containResponse: "required params not set: duration",
		},
		{
			url:             "?level=debug&duration=3s",
			expectedCode:    http.StatusOK,
			containResponse: "Level changed to debug",
			expectedLevel:   log.DebugLevel,
		},
		{
			url:             "?level=warn&duration=3s",
			expectedCode:    http.StatusBadRequest,
			containResponse: "new level warn is not info or debug",
		},
		{
			url:             "?level=debug&duration=time",
			expectedCode:    http.StatusBadRequest,
			containResponse: "invalid duration",
		},
		{
			url:             "?level=log&duration=3s",
			expectedCode:    http.StatusBadRequest,
			containResponse: "not a valid logrus Level",
		},
	}

	for _, tt := range tests {
		handler := LevelOverwriteHandler(log.InfoLevel)
		req := httptest.NewRequest("GET", "http://example.com"+LevelOverwrite+tt.url, nil)
		w := httptest.NewRecorder()
		handler(w, req)

		resp := w.Result()
		body, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(body), tt.containResponse, tt.url)
		assert.Equal(t, tt.expectedCode, resp.StatusCode, tt.url)

		if tt.expectedLevel != 0 {
			assert.Equal(t, tt.expectedLevel, log.GetLevel())
		}
	}
}
