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

package offerqueue

import (
	"context"

	"github.com/uber/offerqueue/pkg/driver"
	"github.com/uber/offerqueue/pkg/eventbus"
	"github.com/uber/offerqueue/pkg/maintenance"
	"github.com/uber/offerqueue/pkg/models"
	"github.com/uber/offerqueue/pkg/timer"

	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally"
	"go.uber.org/multierr"
)

// AcceptFunc decides whether offer can host a pending task, returning the
// launch ready task if it does. It may have side effects such as reserving
// the task.
type AcceptFunc func(offer models.Offer) (*models.TaskInfo, bool)

// OfferQueue tracks the outstanding offers, ordered by the maintenance mode
// of their hosts, and launches tasks on them. All methods are safe for
// concurrent use, except LaunchFirst.
type OfferQueue interface {
	// AddOffer admits a new offer. If offers for the same agent are already
	// held, the new offer and the held ones are all declined instead.
	AddOffer(offer models.Offer)

	// CancelOffer forgets an offer rescinded by the master.
	CancelOffer(offerID models.OfferID)

	// LaunchFirst launches a task on the first offer, healthiest hosts
	// first, that accept matches. It returns false if no offer matched and
	// a *LaunchError if the matched offer could not be launched.
	//
	// LaunchFirst must not be called concurrently with itself: two callers
	// could both match the same pending task against different offers.
	// The placement engine is its only caller.
	LaunchFirst(accept AcceptFunc) (bool, error)

	// HostChangedState re-sorts the offers of hostname under its new mode.
	HostChangedState(hostname string, mode models.MaintenanceMode)

	// DriverDisconnected drops every offer without declining them.
	DriverDisconnected()

	// GetOffers returns the outstanding offers in match order.
	GetOffers() []models.Offer

	// HandleEvent routes maintenance and disconnection events of the bus.
	HandleEvent(event eventbus.Event)
}

type offerQueue struct {
	offers *registry

	driver      driver.Driver
	oracle      maintenance.ModeOracle
	returnDelay ReturnDelay
	timers      timer.Service

	metrics *Metrics
}

// New returns an empty OfferQueue.
func New(
	d driver.Driver,
	oracle maintenance.ModeOracle,
	returnDelay ReturnDelay,
	timers timer.Service,
	parent tally.Scope) OfferQueue {
	return &offerQueue{
		offers:      newRegistry(),
		driver:      d,
		oracle:      oracle,
		returnDelay: returnDelay,
		timers:      timers,
		metrics:     NewMetrics(parent.SubScope("offer_queue")),
	}
}

func (q *offerQueue) updateGauge() {
	q.metrics.OutstandingOffers.Update(float64(q.offers.size()))
}

func (q *offerQueue) AddOffer(offer models.Offer) {
	var sameAgent []hostOffer
	for _, entry := range q.offers.snapshot() {
		if entry.offer.AgentID == offer.AgentID {
			sameAgent = append(sameAgent, entry)
		}
	}

	if len(sameAgent) > 0 {
		// The master is compacting the offers of this agent, shed every
		// fragment so that it converges on a single offer.
		q.compact(offer, sameAgent)
		return
	}

	mode := q.oracle.GetMode(offer.Hostname)
	q.offers.insert(newHostOffer(offer, mode))
	q.metrics.OffersAdded.Inc(1)
	q.updateGauge()

	log.WithFields(log.Fields{
		"offer_id": offer.ID,
		"agent_id": offer.AgentID,
		"hostname": offer.Hostname,
		"mode":     mode,
	}).Debug("Offer added")

	id := offer.ID
	q.timers.After(q.returnDelay.Get(), func() {
		q.returnOffer(id)
	})
}

// compact declines the new offer and every held offer of the same agent.
func (q *offerQueue) compact(offer models.Offer, held []hostOffer) {
	errs := q.decline(offer.ID)
	q.metrics.DeclineCompaction.Inc(1)

	for _, entry := range held {
		if !q.offers.removeByID(entry.id()) {
			continue
		}
		if entry.id() == offer.ID {
			// Redelivered offer, already declined above.
			continue
		}
		q.metrics.DeclineCompaction.Inc(1)
		errs = multierr.Append(errs, q.decline(entry.id()))
	}
	q.updateGauge()

	entry := log.WithFields(log.Fields{
		"offer_id":   offer.ID,
		"agent_id":   offer.AgentID,
		"hostname":   offer.Hostname,
		"held_count": len(held),
	})
	if errs != nil {
		entry.WithError(errs).Warn("Failed to decline compacted offers")
		return
	}
	entry.Info("Declined offers of compacted agent")
}

// returnOffer is the return timer of an offer. Offers removed by any
// other path are ignored.
func (q *offerQueue) returnOffer(id models.OfferID) {
	if !q.offers.removeByID(id) {
		return
	}
	q.metrics.OffersExpired.Inc(1)
	q.metrics.DeclineTimer.Inc(1)
	q.updateGauge()

	if err := q.decline(id); err != nil {
		log.WithError(err).
			WithField("offer_id", id).
			Warn("Failed to decline expired offer")
		return
	}
	log.WithField("offer_id", id).Debug("Declined expired offer")
}

func (q *offerQueue) decline(id models.OfferID) error {
	if err := q.driver.DeclineOffer(context.Background(), id); err != nil {
		// The master reclaims the offer anyway once its offer timeout
		// expires.
		q.metrics.DeclineFail.Inc(1)
		return err
	}
	return nil
}

func (q *offerQueue) CancelOffer(offerID models.OfferID) {
	if !q.offers.removeByID(offerID) {
		return
	}
	q.metrics.OffersCanceled.Inc(1)
	q.updateGauge()
	log.WithField("offer_id", offerID).Debug("Offer canceled")
}

func (q *offerQueue) LaunchFirst(accept AcceptFunc) (bool, error) {
	for _, entry := range q.offers.snapshot() {
		task, ok := accept(entry.offer)
		if !ok {
			continue
		}

		if !q.offers.removeExact(entry) {
			q.metrics.AcceptRaces.Inc(1)
			log.WithFields(log.Fields{
				"offer_id": entry.id(),
				"hostname": entry.offer.Hostname,
			}).Info("Accepted offer was removed concurrently")
			return false, newRacedError(entry.id())
		}
		q.updateGauge()

		if err := q.driver.LaunchTask(context.Background(), entry.id(), task); err != nil {
			q.metrics.LaunchFail.Inc(1)
			log.WithError(err).WithFields(log.Fields{
				"offer_id": entry.id(),
				"task_id":  task.GetTaskID(),
			}).Warn("Driver failed to launch task")
			return false, newDriverRejectedError(entry.id(), err)
		}

		q.metrics.Launch.Inc(1)
		log.WithFields(log.Fields{
			"offer_id": entry.id(),
			"task_id":  task.GetTaskID(),
			"hostname": entry.offer.Hostname,
		}).Info("Task launched")
		return true, nil
	}

	q.metrics.LaunchNoMatch.Inc(1)
	return false, nil
}

func (q *offerQueue) HostChangedState(hostname string, mode models.MaintenanceMode) {
	removed := q.offers.removeByPredicate(func(entry hostOffer) bool {
		return entry.offer.Hostname == hostname
	})
	for _, entry := range removed {
		q.offers.insert(newHostOffer(entry.offer, mode))
	}
	if len(removed) == 0 {
		return
	}

	q.metrics.Resorts.Inc(1)
	log.WithFields(log.Fields{
		"hostname":    hostname,
		"mode":        mode,
		"offer_count": len(removed),
	}).Debug("Offers re-sorted after maintenance change")
}

func (q *offerQueue) DriverDisconnected() {
	count := q.offers.clear()
	q.metrics.OffersFlushed.Inc(int64(count))
	q.updateGauge()
	log.WithField("offer_count", count).
		Info("Driver disconnected, dropped all offers")
}

func (q *offerQueue) GetOffers() []models.Offer {
	entries := q.offers.snapshot()
	offers := make([]models.Offer, 0, len(entries))
	for _, entry := range entries {
		offers = append(offers, entry.offer)
	}
	return offers
}

func (q *offerQueue) HandleEvent(event eventbus.Event) {
	switch e := event.(type) {
	case eventbus.HostMaintenanceStateChange:
		q.HostChangedState(e.Hostname, e.Mode)
	case eventbus.DriverDisconnected:
		q.DriverDisconnected()
	default:
		log.WithField("type", event.Type()).Debug("Ignoring event")
	}
}
