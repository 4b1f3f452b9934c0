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

package config

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/validator.v2"
	"gopkg.in/yaml.v2"
)

// ValidationError is returned when a configuration fails to pass validation.
type ValidationError struct {
	errorMap validator.ErrorMap
}

// ErrForField returns the validation error for the given field.
func (e ValidationError) ErrForField(name string) error {
	return e.errorMap[name]
}

// Error lists the failed fields in name order.
func (e ValidationError) Error() string {
	var names []string
	for name := range e.errorMap {
		names = append(names, name)
	}
	sort.Strings(names)

	var w bytes.Buffer
	fmt.Fprintf(&w, "validation failed")
	for _, name := range names {
		fmt.Fprintf(&w, "\n   %s: %v", name, e.errorMap[name])
	}
	return w.String()
}

// Parse loads the given files in order into config, later files overriding
// the fields set by earlier ones, and validates the merged result.
func Parse(config interface{}, files ...string) error {
	if len(files) == 0 {
		return errors.New("no files to load")
	}
	for _, fname := range files {
		data, err := os.ReadFile(fname)
		if err != nil {
			return errors.Wrapf(err, "failed to read config file %s", fname)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return errors.Wrapf(err, "failed to parse config file %s", fname)
		}
	}

	if err := validator.Validate(config); err != nil {
		errorMap, ok := err.(validator.ErrorMap)
		if !ok {
			return errors.Wrap(err, "failed to validate config")
		}
		return ValidationError{errorMap: errorMap}
	}
	return nil
}
