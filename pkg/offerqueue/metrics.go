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
	"github.com/uber-go/tally"
)

// Metrics of the offer queue.
type Metrics struct {
	OutstandingOffers tally.Gauge

	OffersAdded    tally.Counter
	OffersCanceled tally.Counter
	OffersExpired  tally.Counter
	OffersFlushed  tally.Counter

	DeclineCompaction tally.Counter
	DeclineTimer      tally.Counter
	DeclineFail       tally.Counter

	Resorts tally.Counter

	Launch        tally.Counter
	LaunchNoMatch tally.Counter
	LaunchFail    tally.Counter
	AcceptRaces   tally.Counter
}

// NewMetrics returns the offer queue Metrics rooted at scope.
func NewMetrics(scope tally.Scope) *Metrics {
	declineScope := scope.SubScope("decline")
	launchScope := scope.SubScope("launch")

	return &Metrics{
		OutstandingOffers: scope.Gauge("outstanding_offers"),

		OffersAdded:    scope.Counter("offers_added"),
		OffersCanceled: scope.Counter("offers_canceled"),
		OffersExpired:  scope.Counter("offers_expired"),
		OffersFlushed:  scope.Counter("offers_flushed"),

		DeclineCompaction: declineScope.Counter("compaction"),
		DeclineTimer:      declineScope.Counter("timer"),
		DeclineFail:       declineScope.Counter("fail"),

		Resorts: scope.Counter("resorts"),

		Launch:        launchScope.Counter("success"),
		LaunchNoMatch: launchScope.Counter("no_match"),
		LaunchFail:    launchScope.Counter("fail"),
		AcceptRaces:   scope.Counter("offer_accept_races"),
	}
}
