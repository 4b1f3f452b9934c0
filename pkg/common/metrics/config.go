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

package metrics

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cactus/go-statsd-client/statsd"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally"
	tallyprom "github.com/uber-go/tally/prometheus"
	tallystatsd "github.com/uber-go/tally/statsd"
)

// Config selects the metrics backend. Prometheus wins if both are enabled,
// a no-op statsd client is used if none is.
type Config struct {
	Prometheus *PrometheusConfig `yaml:"prometheus"`
	Statsd     *StatsdConfig     `yaml:"statsd"`
}

// PrometheusConfig enables the /metrics endpoint.
type PrometheusConfig struct {
	Enable bool `yaml:"enable"`
}

// StatsdConfig pushes metrics to a statsd endpoint.
type StatsdConfig struct {
	Enable   bool   `yaml:"enable"`
	Endpoint string `yaml:"endpoint"`
}

// InitMetricScope returns the root scope of the process and its closer,
// with a mux serving /health and, for prometheus, /metrics.
func InitMetricScope(
	cfg *Config,
	rootScope string,
	flushInterval time.Duration) (tally.Scope, io.Closer, *http.ServeMux, error) {
	mux := http.NewServeMux()
	opts := tally.ScopeOptions{
		Prefix:    rootScope,
		Tags:      map[string]string{},
		Separator: tally.DefaultSeparator,
	}

	switch {
	case cfg != nil && cfg.Prometheus != nil && cfg.Prometheus.Enable:
		// Prometheus rejects "-" and "." in names.
		opts.Prefix = strings.Replace(rootScope, "-", "_", -1)
		opts.Separator = tallyprom.DefaultSeparator
		reporter := tallyprom.NewReporter(tallyprom.Options{})
		opts.CachedReporter = reporter
		mux.Handle("/metrics", reporter.HTTPHandler())
		log.Info("Serving prometheus metrics at /metrics")
	case cfg != nil && cfg.Statsd != nil && cfg.Statsd.Enable:
		client, err := statsd.NewClient(cfg.Statsd.Endpoint, "")
		if err != nil {
			return nil, nil, nil, errors.Wrapf(err,
				"failed to create statsd client for %s", cfg.Statsd.Endpoint)
		}
		opts.Reporter = tallystatsd.NewReporter(client, tallystatsd.Options{})
		log.WithField("endpoint", cfg.Statsd.Endpoint).Info("Reporting metrics to statsd")
	default:
		client, _ := statsd.NewNoopClient()
		opts.Reporter = tallystatsd.NewReporter(client, tallystatsd.Options{})
		log.Warn("No metrics backend configured, using a no-op statsd client")
	}

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, `\(★ω★)/`)
	})

	scope, closer := tally.NewRootScope(opts, flushInterval)
	return scope, closer, mux, nil
}
