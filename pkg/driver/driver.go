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

package driver

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/uber/offerqueue/pkg/common/lifecycle"
	"github.com/uber/offerqueue/pkg/eventbus"
	"github.com/uber/offerqueue/pkg/models"

	"github.com/gogo/protobuf/proto"
	mesos "github.com/mesos/mesos-go/api/v1/lib"
	"github.com/mesos/mesos-go/api/v1/lib/scheduler"
	"github.com/mesos/mesos-go/api/v1/lib/scheduler/calls"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally"
	"golang.org/x/net/context/ctxhttp"
)

const (
	_schedulerPath  = "/api/v1/scheduler"
	_streamIDHeader = "Mesos-Stream-Id"

	_connTimeout   = 30 * time.Second
	_connKeepAlive = 30 * time.Second
)

// ErrNotRegistered is returned by calls made while the driver has no
// subscription with the master, e.g. before the first SUBSCRIBED event or
// after the connection was lost.
var ErrNotRegistered = errors.New("scheduler driver is not registered with the master")

// Driver sends offer decisions to the master.
type Driver interface {
	// DeclineOffer returns an unused offer to the master.
	DeclineOffer(ctx context.Context, offerID models.OfferID) error
	// LaunchTask launches task using the given offer. Returns
	// ErrNotRegistered if the driver is not connected.
	LaunchTask(ctx context.Context, offerID models.OfferID, task *models.TaskInfo) error
}

// OfferHandler receives the offer events of the master.
type OfferHandler interface {
	AddOffer(offer models.Offer)
	CancelOffer(offerID models.OfferID)
}

// SchedulerDriver is a Driver that also maintains the subscription with the
// master and forwards its offer events.
type SchedulerDriver interface {
	Driver

	// Start subscribes to the master in the background, re-subscribing
	// whenever the connection is lost, and forwards offers to handler.
	Start(handler OfferHandler) error
	// Stop closes the subscription.
	Stop()
	// IsRegistered returns true while a subscription is established.
	IsRegistered() bool
}

type registration struct {
	frameworkID string
	streamID    string
}

type schedulerDriver struct {
	sync.RWMutex

	cfg     Config
	callURL string
	client  *http.Client
	bus     eventbus.Bus

	registration *registration
	// frameworkID survives disconnections so that re-subscriptions fail
	// over the same framework.
	frameworkID string

	lifecycle lifecycle.LifeCycle
	cancel    context.CancelFunc
	metrics   *Metrics
}

// NewSchedulerDriver returns a SchedulerDriver talking to the master at
// cfg.MasterURL. Disconnections are posted on bus.
func NewSchedulerDriver(
	cfg Config,
	bus eventbus.Bus,
	parent tally.Scope) (SchedulerDriver, error) {
	cfg.normalize()

	base, err := url.Parse(cfg.MasterURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid master url %q", cfg.MasterURL)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.Errorf("master url %q needs a scheme and a host", cfg.MasterURL)
	}
	base.Path = _schedulerPath

	if cfg.ContentType != ContentTypeProtobuf && cfg.ContentType != ContentTypeJSON {
		return nil, errors.Errorf("unsupported content type %q", cfg.ContentType)
	}

	return &schedulerDriver{
		cfg:     cfg,
		callURL: base.String(),
		client: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   _connTimeout,
					KeepAlive: _connKeepAlive,
				}).DialContext,
			},
		},
		bus:       bus,
		lifecycle: lifecycle.NewLifeCycle(),
		metrics:   NewMetrics(parent.SubScope("driver")),
	}, nil
}

func (d *schedulerDriver) Start(handler OfferHandler) error {
	if !d.lifecycle.Start() {
		log.Warn("Scheduler driver is already started, no action will be performed")
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.Lock()
	d.cancel = cancel
	d.Unlock()

	go func() {
		defer d.lifecycle.StopComplete()

		for {
			d.metrics.Subscribe.Inc(1)
			if err := d.subscribe(ctx, handler); err != nil && ctx.Err() == nil {
				d.metrics.SubscribeFail.Inc(1)
				log.WithError(err).
					WithField("master", d.cfg.MasterURL).
					Warn("Subscription with master ended")
			}
			d.disconnected()

			timer := time.NewTimer(d.cfg.ReconnectInterval)
			select {
			case <-d.lifecycle.StopCh():
				timer.Stop()
				log.Info("Exiting the subscription loop")
				return
			case <-timer.C:
			}
		}
	}()

	log.WithField("master", d.cfg.MasterURL).Info("Scheduler driver started")
	return nil
}

func (d *schedulerDriver) Stop() {
	if !d.lifecycle.Stop() {
		log.Warn("Scheduler driver is already stopped, no action will be performed")
		return
	}

	d.RLock()
	cancel := d.cancel
	d.RUnlock()
	cancel()

	d.lifecycle.Wait()
	log.Info("Scheduler driver stopped")
}

func (d *schedulerDriver) IsRegistered() bool {
	return d.getRegistration() != nil
}

func (d *schedulerDriver) getRegistration() *registration {
	d.RLock()
	defer d.RUnlock()
	return d.registration
}

func (d *schedulerDriver) registered(frameworkID, streamID string) {
	d.Lock()
	d.registration = &registration{
		frameworkID: frameworkID,
		streamID:    streamID,
	}
	d.frameworkID = frameworkID
	d.Unlock()

	d.metrics.Registered.Update(1)
	log.WithFields(log.Fields{
		"framework_id": frameworkID,
		"stream_id":    streamID,
	}).Info("Scheduler driver registered")
}

// disconnected drops the registration and notifies the bus if the driver
// was registered.
func (d *schedulerDriver) disconnected() {
	d.Lock()
	wasRegistered := d.registration != nil
	d.registration = nil
	d.Unlock()

	if !wasRegistered {
		return
	}

	d.metrics.Registered.Update(0)
	d.metrics.Disconnects.Inc(1)
	log.Warn("Scheduler driver disconnected from master")
	if err := d.bus.Post(eventbus.DriverDisconnected{}); err != nil {
		log.WithError(err).Error("Failed to post driver disconnected event")
	}
}

func (d *schedulerDriver) subscribeCall() *scheduler.Call {
	d.RLock()
	frameworkID := d.frameworkID
	d.RUnlock()

	info := &mesos.FrameworkInfo{
		User:            d.cfg.FrameworkUser,
		Name:            d.cfg.FrameworkName,
		FailoverTimeout: proto.Float64(d.cfg.FailoverTimeout.Seconds()),
	}
	if frameworkID != "" {
		info.ID = &mesos.FrameworkID{Value: frameworkID}
	}
	return calls.Subscribe(info)
}

// subscribe opens a subscription with the master and processes its events
// until the stream ends, the master reports an error, or ctx is canceled.
func (d *schedulerDriver) subscribe(ctx context.Context, handler OfferHandler) error {
	body, err := marshal(d.subscribeCall(), d.cfg.ContentType)
	if err != nil {
		return errors.Wrapf(err,
			"failed to marshal subscribe call to content type %s", d.cfg.ContentType)
	}
	req, err := http.NewRequest(http.MethodPost, d.callURL, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to build subscribe request")
	}
	req.Header.Set("Content-Type", mediaType(d.cfg.ContentType))
	req.Header.Set("Accept", mediaType(d.cfg.ContentType))

	resp, err := ctxhttp.Do(ctx, d.client, req)
	if err != nil {
		return errors.Wrap(err, "failed to POST subscribe request to master")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return errors.Errorf(
			"failed to subscribe to master (status=%d): %s",
			resp.StatusCode, respBody)
	}
	streamID := resp.Header.Get(_streamIDHeader)
	if streamID == "" {
		return errors.New("master did not send a stream id")
	}

	reader := bufio.NewReader(resp.Body)
	for {
		frame, err := readFrame(reader)
		if err != nil {
			return err
		}
		d.metrics.Frames.Inc(1)

		var ev scheduler.Event
		if err := unmarshal(frame, &ev, d.cfg.ContentType); err != nil {
			return errors.Wrap(err, "failed to decode event")
		}
		if err := d.handleEvent(streamID, &ev, handler); err != nil {
			return err
		}
	}
}

// readFrame reads one RecordIO frame: the decimal frame length, a newline
// and the frame itself.
func readFrame(reader *bufio.Reader) ([]byte, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		return nil, errors.Wrap(err, "failed to read frame length")
	}
	frameLen, err := strconv.ParseUint(line[:len(line)-1], 10, 64)
	if err != nil || frameLen < 1 {
		return nil, errors.Errorf("invalid frame length %q", line)
	}
	buf := make([]byte, frameLen)
	if _, err := io.ReadFull(reader, buf); err != nil {
		return nil, errors.Wrap(err, "failed to read full frame")
	}
	return buf, nil
}

func (d *schedulerDriver) handleEvent(
	streamID string,
	ev *scheduler.Event,
	handler OfferHandler) error {
	switch ev.GetType() {
	case scheduler.Event_SUBSCRIBED:
		if ev.GetSubscribed() == nil {
			return errors.New("SUBSCRIBED event without payload")
		}
		d.registered(ev.GetSubscribed().GetFrameworkID().Value, streamID)
	case scheduler.Event_OFFERS:
		offers := ev.GetOffers().GetOffers()
		if len(offers) == 0 {
			return nil
		}
		d.metrics.OfferEvents.Inc(1)
		for i := range offers {
			handler.AddOffer(offerToModel(&offers[i]))
		}
	case scheduler.Event_RESCIND:
		if ev.GetRescind() == nil {
			return nil
		}
		d.metrics.RescindEvents.Inc(1)
		handler.CancelOffer(models.OfferID(ev.GetRescind().OfferID.Value))
	case scheduler.Event_HEARTBEAT:
		d.metrics.Heartbeats.Inc(1)
	case scheduler.Event_ERROR:
		return errors.Errorf("master sent error: %s", ev.GetError().GetMessage())
	default:
		log.WithField("type", ev.GetType().String()).Debug("Ignoring master event")
	}
	return nil
}

// post sends a call on the current subscription.
func (d *schedulerDriver) post(ctx context.Context, c *scheduler.Call) error {
	reg := d.getRegistration()
	if reg == nil {
		return ErrNotRegistered
	}
	c.FrameworkID = &mesos.FrameworkID{Value: reg.frameworkID}

	callType := c.GetType().String()
	body, err := marshal(c, d.cfg.ContentType)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal %s call", callType)
	}
	req, err := http.NewRequest(http.MethodPost, d.callURL, bytes.NewReader(body))
	if err != nil {
		return errors.Wrapf(err, "failed to build %s request", callType)
	}
	req.Header.Set("Content-Type", mediaType(d.cfg.ContentType))
	req.Header.Set(_streamIDHeader, reg.streamID)

	ctx, cancel := context.WithTimeout(ctx, d.cfg.RequestTimeout)
	defer cancel()

	resp, err := ctxhttp.Do(ctx, d.client, req)
	if err != nil {
		return errors.Wrapf(err, "failed to send %s call", callType)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(resp.Body)
		return errors.Errorf(
			"master rejected %s call (status=%d): %s",
			callType, resp.StatusCode, respBody)
	}
	return nil
}

func (d *schedulerDriver) DeclineOffer(ctx context.Context, offerID models.OfferID) error {
	decline := calls.Decline(mesos.OfferID{Value: string(offerID)}).
		With(calls.RefuseSeconds(d.cfg.RefuseDuration))
	if err := d.post(ctx, decline); err != nil {
		// The master takes the offer back on its own once the offer
		// timeout expires.
		d.metrics.DeclineFail.Inc(1)
		return err
	}
	d.metrics.Decline.Inc(1)
	return nil
}

func (d *schedulerDriver) LaunchTask(
	ctx context.Context,
	offerID models.OfferID,
	task *models.TaskInfo) error {
	if task == nil {
		return errors.New("no task to launch")
	}
	accept := calls.Accept(
		calls.OfferOperations{calls.OpLaunch(newTaskInfo(task))}.
			WithOffers(mesos.OfferID{Value: string(offerID)}),
	).With(calls.RefuseSeconds(d.cfg.RefuseDuration))
	if err := d.post(ctx, accept); err != nil {
		d.metrics.LaunchFail.Inc(1)
		return err
	}
	d.metrics.Launch.Inc(1)
	return nil
}
