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

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/uber/offerqueue/pkg/common/config"
	"github.com/uber/offerqueue/pkg/common/logging"
	"github.com/uber/offerqueue/pkg/common/metrics"
	"github.com/uber/offerqueue/pkg/driver"
	"github.com/uber/offerqueue/pkg/eventbus"
	"github.com/uber/offerqueue/pkg/maintenance"
	"github.com/uber/offerqueue/pkg/offerqueue"
	"github.com/uber/offerqueue/pkg/placement"
	"github.com/uber/offerqueue/pkg/timer"

	"code.cloudfoundry.org/clock"
	log "github.com/sirupsen/logrus"
	_ "go.uber.org/automaxprocs"
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	version string
	app     = kingpin.New("offerqueue", "Offer queue of the cluster scheduler")

	debug = app.Flag(
		"debug", "enable debug logging").
		Short('d').
		Default("false").
		Envar("ENABLE_DEBUG_LOGGING").
		Bool()

	enableSentry = app.Flag(
		"enable-sentry", "enable logging hook up to sentry").
		Default("false").
		Envar("ENABLE_SENTRY_LOGGING").
		Bool()

	cfgFiles = app.Flag(
		"config",
		"YAML config files (can be provided multiple times to merge configs)").
		Short('c').
		Required().
		ExistingFiles()

	httpPort = app.Flag(
		"http-port",
		"HTTP port (http_port override) (set $HTTP_PORT to override)").
		Envar("HTTP_PORT").
		Int()

	masterURL = app.Flag(
		"master-url",
		"Mesos master url (driver.master_url override) (set $MESOS_MASTER_URL to override)").
		Envar("MESOS_MASTER_URL").
		String()
)

func main() {
	app.Version(version)
	app.HelpFlag.Short('h')
	kingpin.MustParse(app.Parse(os.Args[1:]))

	log.SetFormatter(
		&logging.LogFieldFormatter{
			Formatter: &log.JSONFormatter{},
			Fields: log.Fields{
				"app": app.Name,
			},
		},
	)

	initialLevel := log.InfoLevel
	if *debug {
		initialLevel = log.DebugLevel
	}
	log.SetLevel(initialLevel)

	log.WithField("files", *cfgFiles).Info("Loading offer queue config")
	var cfg Config
	if err := config.Parse(&cfg, *cfgFiles...); err != nil {
		log.WithError(err).Fatal("Cannot parse yaml config")
	}

	if *enableSentry {
		cfg.Sentry.Enabled = true
	}
	if err := logging.ConfigureSentry(&cfg.Sentry); err != nil {
		log.WithError(err).Fatal("Cannot configure sentry")
	}

	// now, override any CLI flags in the loaded config
	if *httpPort != 0 {
		cfg.HTTPPort = *httpPort
	}
	if *masterURL != "" {
		cfg.Driver.MasterURL = *masterURL
	}
	cfg.normalize()

	log.WithField("config", cfg).Info("Completed loading offer queue config")

	rootScope, scopeCloser, mux, err := metrics.InitMetricScope(
		&cfg.Metrics,
		app.Name,
		cfg.MetricsFlushInterval,
	)
	if err != nil {
		log.WithError(err).Fatal("Cannot initialize metrics")
	}
	defer scopeCloser.Close()

	runtimeCollector := metrics.NewRuntimeCollector(rootScope, cfg.RuntimeMetricsInterval)
	runtimeCollector.Start()
	defer runtimeCollector.Stop()

	bus := eventbus.New(cfg.EventBus, rootScope)
	defer bus.Stop()

	maintenanceController := maintenance.NewController(bus, rootScope)

	timers := timer.NewService(clock.NewClock(), rootScope)
	timers.Start()
	defer timers.Stop()

	schedulerDriver, err := driver.NewSchedulerDriver(cfg.Driver, bus, rootScope)
	if err != nil {
		log.WithError(err).Fatal("Cannot create scheduler driver")
	}

	queue := offerqueue.New(
		schedulerDriver,
		maintenanceController,
		offerqueue.NewReturnDelay(cfg.OfferQueue),
		timers,
		rootScope,
	)
	if _, err := bus.Subscribe("offer_queue", queue); err != nil {
		log.WithError(err).Fatal("Cannot subscribe offer queue to the event bus")
	}

	engine := placement.New(cfg.Placement, queue, rootScope)
	engine.Start()
	defer engine.Stop()

	if err := schedulerDriver.Start(queue); err != nil {
		log.WithError(err).Fatal("Cannot start scheduler driver")
	}
	defer schedulerDriver.Stop()

	mux.HandleFunc(logging.LevelOverwrite, logging.LevelOverwriteHandler(initialLevel))
	mux.Handle("/offers", offerqueue.NewOffersHandler(queue))
	mux.Handle("/maintenance", maintenance.NewHandler(maintenanceController))
	mux.Handle("/tasks", placement.NewTasksHandler(engine))

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: mux,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()
	log.WithField("port", cfg.HTTPPort).Info("Offer queue started")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	log.WithField("signal", <-sig).Info("Shutting down offer queue")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("Failed to shut down HTTP server")
	}
}
