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
	"fmt"

	"github.com/uber/offerqueue/pkg/models"

	"github.com/pkg/errors"
)

// LaunchReason tells why LaunchFirst failed.
type LaunchReason int

const (
	// ReasonRaced means the accepted offer was removed concurrently, by its
	// return timer, a cancellation or a maintenance re-sort, before it could
	// be claimed. Expected under load.
	ReasonRaced LaunchReason = iota + 1
	// ReasonDriverRejected means the offer was claimed but the driver did
	// not launch the task, e.g. because it is not registered.
	ReasonDriverRejected
)

func (r LaunchReason) String() string {
	switch r {
	case ReasonRaced:
		return "raced"
	case ReasonDriverRejected:
		return "driver_rejected"
	}
	return fmt.Sprintf("unknown(%d)", int(r))
}

// LaunchError is returned by LaunchFirst when an accepted offer could not be
// launched.
type LaunchError struct {
	Reason  LaunchReason
	OfferID models.OfferID
	cause   error
}

func newRacedError(id models.OfferID) *LaunchError {
	return &LaunchError{Reason: ReasonRaced, OfferID: id}
}

func newDriverRejectedError(id models.OfferID, cause error) *LaunchError {
	return &LaunchError{Reason: ReasonDriverRejected, OfferID: id, cause: cause}
}

func (e *LaunchError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("failed to launch on offer %s: %s", e.OfferID, e.Reason)
	}
	return fmt.Sprintf("failed to launch on offer %s: %s: %v", e.OfferID, e.Reason, e.cause)
}

// Unwrap returns the driver error, nil for races.
func (e *LaunchError) Unwrap() error {
	return e.cause
}

// IsRaced returns true if err is a LaunchError caused by a race.
func IsRaced(err error) bool {
	return hasReason(err, ReasonRaced)
}

// IsDriverRejected returns true if err is a LaunchError caused by the
// driver refusing the launch.
func IsDriverRejected(err error) bool {
	return hasReason(err, ReasonDriverRejected)
}

func hasReason(err error, reason LaunchReason) bool {
	var launchErr *LaunchError
	return errors.As(err, &launchErr) && launchErr.Reason == reason
}
