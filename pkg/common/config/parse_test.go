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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name     string        `yaml:"name" validate:"nonzero"`
	Port     int           `yaml:"port" validate:"min=1"`
	Interval time.Duration `yaml:"interval"`
	Tags     []string      `yaml:"tags"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseMergesFilesInOrder(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "base.yaml", "name: queue\nport: 80\ninterval: 5s\n")
	override := writeFile(t, dir, "override.yaml", "port: 8080\ntags: [a, b]\n")

	var cfg testConfig
	require.NoError(t, Parse(&cfg, base, override))
	assert.Equal(t, testConfig{
		Name:     "queue",
		Port:     8080,
		Interval: 5 * time.Second,
		Tags:     []string{"a", "b"},
	}, cfg)
}

func TestParseNoFiles(t *testing.T) {
	var cfg testConfig
	assert.Error(t, Parse(&cfg))
}

func TestParseMissingFile(t *testing.T) {
	var cfg testConfig
	assert.Error(t, Parse(&cfg, filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestParseInvalidYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.yaml", "name: [unterminated\n")
	var cfg testConfig
	assert.Error(t, Parse(&cfg, path))
}

func TestParseValidationError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "invalid.yaml", "port: 0\n")

	var cfg testConfig
	err := Parse(&cfg, path)
	require.Error(t, err)

	verr, ok := err.(ValidationError)
	require.True(t, ok)
	assert.Error(t, verr.ErrForField("Name"))
	assert.Error(t, verr.ErrForField("Port"))
	assert.Contains(t, verr.Error(), "validation failed")
}
