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

package eventbus

import (
	"fmt"
	"sync"
	"time"

	"github.com/pborman/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally"
	"go.uber.org/multierr"
)

var (
	// ErrTooManySubscribers is returned by Subscribe once the configured
	// maximum number of subscribers is reached.
	ErrTooManySubscribers = errors.New("exceeded max number of subscribers")
	// ErrSubscriberNotFound is returned when unsubscribing an unknown id.
	ErrSubscriberNotFound = errors.New("subscriber not found")
	// ErrBusStopped is returned by Post and Subscribe after Stop.
	ErrBusStopped = errors.New("event bus is stopped")
)

// Bus distributes events to its subscribers. Delivery to a subscriber is
// in posting order; no ordering exists between different subscribers.
type Bus interface {
	// Subscribe registers a subscriber and returns its id.
	Subscribe(name string, subscriber Subscriber) (string, error)
	// Unsubscribe removes a subscriber. Events already buffered for it are
	// dropped.
	Unsubscribe(id string) error
	// Post delivers event to every subscriber. It blocks while a subscriber
	// buffer is full, up to the configured post timeout per subscriber.
	Post(event Event) error
	// Stop unsubscribes everybody and rejects further posts.
	Stop()
}

type subscription struct {
	id         string
	name       string
	subscriber Subscriber
	input      chan Event
	stopCh     chan struct{}
	done       chan struct{}
}

type bus struct {
	sync.RWMutex

	cfg           Config
	stopped       bool
	subscriptions map[string]*subscription
	metrics       *Metrics
}

// New creates an event bus.
func New(cfg Config, parent tally.Scope) Bus {
	cfg.normalize()
	return &bus{
		cfg:           cfg,
		subscriptions: make(map[string]*subscription),
		metrics:       NewMetrics(parent.SubScope("eventbus")),
	}
}

func newSubscriptionID() string {
	return fmt.Sprintf("%s_%s", "subscriber", uuid.New())
}

func (b *bus) Subscribe(name string, subscriber Subscriber) (string, error) {
	b.Lock()
	defer b.Unlock()

	if b.stopped {
		return "", ErrBusStopped
	}
	if len(b.subscriptions) >= b.cfg.MaxSubscribers {
		return "", ErrTooManySubscribers
	}

	s := &subscription{
		id:         newSubscriptionID(),
		name:       name,
		subscriber: subscriber,
		input:      make(chan Event, b.cfg.BufferSize),
		stopCh:     make(chan struct{}),
		done:       make(chan struct{}),
	}
	b.subscriptions[s.id] = s
	b.metrics.Subscribers.Update(float64(len(b.subscriptions)))
	go b.dispatch(s)

	log.WithFields(log.Fields{
		"subscriber_id": s.id,
		"subscriber":    name,
	}).Info("Subscribed to event bus")
	return s.id, nil
}

func (b *bus) dispatch(s *subscription) {
	defer close(s.done)

	for {
		select {
		case <-s.stopCh:
			return
		case event := <-s.input:
			b.deliver(s, event)
		}
	}
}

func (b *bus) deliver(s *subscription, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.metrics.HandlerPanics.Inc(1)
			log.WithFields(log.Fields{
				"subscriber": s.name,
				"event":      event.Type(),
				"panic":      r,
			}).Error("Event subscriber panicked")
		}
	}()
	s.subscriber.HandleEvent(event)
	b.metrics.Delivered.Inc(1)
}

func (b *bus) Unsubscribe(id string) error {
	b.Lock()
	s, ok := b.subscriptions[id]
	if ok {
		delete(b.subscriptions, id)
		b.metrics.Subscribers.Update(float64(len(b.subscriptions)))
	}
	b.Unlock()

	if !ok {
		return ErrSubscriberNotFound
	}
	close(s.stopCh)
	<-s.done
	log.WithField("subscriber_id", id).Info("Unsubscribed from event bus")
	return nil
}

func (b *bus) Post(event Event) error {
	b.RLock()
	if b.stopped {
		b.RUnlock()
		return ErrBusStopped
	}
	targets := make([]*subscription, 0, len(b.subscriptions))
	for _, s := range b.subscriptions {
		targets = append(targets, s)
	}
	b.RUnlock()

	b.metrics.Posted.Inc(1)
	log.WithField("event", event).Debug("Posting event")

	var errs error
	for _, s := range targets {
		timer := time.NewTimer(b.cfg.PostTimeout)
		select {
		case s.input <- event:
		case <-s.stopCh:
		case <-timer.C:
			b.metrics.Overflow.Inc(1)
			log.WithFields(log.Fields{
				"subscriber": s.name,
				"event":      event.Type(),
			}).Error("Subscriber buffer is full, event not delivered")
			errs = multierr.Append(errs, errors.Errorf(
				"subscriber %s did not accept %s in %v",
				s.name, event.Type(), b.cfg.PostTimeout))
		}
		timer.Stop()
	}
	return errs
}

func (b *bus) Stop() {
	b.Lock()
	b.stopped = true
	subscriptions := b.subscriptions
	b.subscriptions = make(map[string]*subscription)
	b.metrics.Subscribers.Update(0)
	b.Unlock()

	for _, s := range subscriptions {
		close(s.stopCh)
		<-s.done
	}
	log.WithField("subscribers", len(subscriptions)).Info("Event bus stopped")
}
