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
	"os"

	"github.com/evalphobia/logrus_sentry"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const _clusterEnv = "CLUSTER"

// SentryConfig is the sentry logging configuration.
type SentryConfig struct {
	Enabled bool `yaml:"enabled"`
	// DSN is the sentry DSN name.
	DSN string `yaml:"dsn"`
	// Tags are attached to every sentry event.
	Tags map[string]string `yaml:"tags"`
}

// ConfigureSentry adds a sentry hook reporting warnings and errors to the
// standard logger. Nothing is done if sentry is not enabled.
func ConfigureSentry(cfg *SentryConfig) error {
	if cfg == nil || !cfg.Enabled {
		log.Debug("Skip configuring sentry, not enabled")
		return nil
	}

	tags := make(map[string]string, len(cfg.Tags)+1)
	for k, v := range cfg.Tags {
		tags[k] = v
	}
	if v := os.Getenv(_clusterEnv); v != "" {
		tags[_clusterEnv] = v
	}

	hook, err := logrus_sentry.NewWithTagsSentryHook(cfg.DSN, tags, []log.Level{
		log.PanicLevel,
		log.FatalLevel,
		log.ErrorLevel,
		log.WarnLevel,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create sentry hook")
	}

	log.AddHook(hook)
	log.Info("Sentry hook added")
	return nil
}
