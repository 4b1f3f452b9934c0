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
	"sort"

	"github.com/uber/offerqueue/pkg/models"

	"go.uber.org/atomic"
)

// hostOffer pairs an offer with the maintenance mode of its host at
// admission or last re-sort. Two host offers are equal when both the offer
// id and the mode are equal, so a mode change yields a distinct entry.
type hostOffer struct {
	offer models.Offer
	mode  models.MaintenanceMode
}

func newHostOffer(offer models.Offer, mode models.MaintenanceMode) hostOffer {
	return hostOffer{offer: offer, mode: mode}
}

func (h hostOffer) id() models.OfferID {
	return h.offer.ID
}

func (h hostOffer) equal(other hostOffer) bool {
	return h.offer.ID == other.offer.ID && h.mode == other.mode
}

// less orders healthier hosts first, then by offer id.
func (h hostOffer) less(other hostOffer) bool {
	if h.mode != other.mode {
		return h.mode < other.mode
	}
	return h.offer.ID < other.offer.ID
}

// registry is a sorted, duplicate free set of host offers. Every mutation
// publishes a new immutable slice, readers iterate whatever slice was
// current when they loaded it. Concurrent writers retry on conflict.
type registry struct {
	entries atomic.Pointer[[]hostOffer]
}

func newRegistry() *registry {
	r := &registry{}
	r.entries.Store(&[]hostOffer{})
	return r
}

// snapshot returns the current ordered entries. The result must not be
// modified.
func (r *registry) snapshot() []hostOffer {
	return *r.entries.Load()
}

func (r *registry) size() int {
	return len(r.snapshot())
}

// insert adds entry unless an equal entry is present. Returns true if the
// entry was added.
func (r *registry) insert(entry hostOffer) bool {
	for {
		current := r.entries.Load()
		old := *current

		i := sort.Search(len(old), func(i int) bool {
			return !old[i].less(entry)
		})
		if i < len(old) && old[i].equal(entry) {
			return false
		}

		updated := make([]hostOffer, 0, len(old)+1)
		updated = append(updated, old[:i]...)
		updated = append(updated, entry)
		updated = append(updated, old[i:]...)
		if r.entries.CompareAndSwap(current, &updated) {
			return true
		}
	}
}

// removeByPredicate removes and returns every entry matching pred.
func (r *registry) removeByPredicate(pred func(hostOffer) bool) []hostOffer {
	for {
		current := r.entries.Load()
		old := *current

		var removed []hostOffer
		kept := make([]hostOffer, 0, len(old))
		for _, entry := range old {
			if pred(entry) {
				removed = append(removed, entry)
			} else {
				kept = append(kept, entry)
			}
		}
		if len(removed) == 0 {
			return nil
		}
		if r.entries.CompareAndSwap(current, &kept) {
			return removed
		}
	}
}

// removeByID removes the entry holding the given offer, whatever its mode.
func (r *registry) removeByID(id models.OfferID) bool {
	return len(r.removeByPredicate(func(entry hostOffer) bool {
		return entry.id() == id
	})) > 0
}

// removeExact removes entry only if an equal entry is still present.
func (r *registry) removeExact(entry hostOffer) bool {
	for {
		current := r.entries.Load()
		old := *current

		i := sort.Search(len(old), func(i int) bool {
			return !old[i].less(entry)
		})
		if i == len(old) || !old[i].equal(entry) {
			return false
		}

		updated := make([]hostOffer, 0, len(old)-1)
		updated = append(updated, old[:i]...)
		updated = append(updated, old[i+1:]...)
		if r.entries.CompareAndSwap(current, &updated) {
			return true
		}
	}
}

// clear removes every entry and returns how many were dropped.
func (r *registry) clear() int {
	return len(*r.entries.Swap(&[]hostOffer{}))
}
