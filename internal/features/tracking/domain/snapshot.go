package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrSnapshotUnavailable is returned when the carrier payload has no usable activity trail.
	// The record is skipped for the pass without being mutated.
	ErrSnapshotUnavailable = errors.New("tracking snapshot unavailable")
	// ErrProviderAuth is returned when a carrier access token cannot be acquired.
	// No record can be processed without one, so it aborts the pass.
	ErrProviderAuth = errors.New("carrier authentication failed")
	// ErrTrackingRejected is returned when the carrier refuses one tracking request
	// (401/403 on the tracking call) while the access token itself is valid.
	ErrTrackingRejected = errors.New("carrier rejected tracking request")
)

// TrackingSnapshot is the carrier-neutral view of a shipment's latest tracking state.
type TrackingSnapshot struct {
	// Carrier is the canonical carrier name that produced the snapshot (e.g., UPS, USPS).
	Carrier string `json:"carrier"`
	// TrackingNumber is the carrier tracking number.
	TrackingNumber string `json:"tracking_number"`
	// StatusCode is the carrier's raw current status code.
	StatusCode string `json:"status_code"`
	// Description is the carrier's human readable status.
	Description string `json:"description"`
	// Category is the carrier's coarse status type of the latest activity.
	Category string `json:"category,omitempty"`
	// Location is the city of the latest activity.
	Location string `json:"location"`
	// ActivityDate is the calendar date of the latest activity. Zero when the carrier omitted it.
	ActivityDate time.Time `json:"activity_date"`

	IsDelivered       bool `json:"is_delivered"`
	IsProblem         bool `json:"is_problem"`
	IsDelayed         bool `json:"is_delayed"`
	IsAwaitingPickup  bool `json:"is_awaiting_pickup"`
	IsAlert           bool `json:"is_alert"`
	IsActionableAlert bool `json:"is_actionable_alert"`

	// Issue is the short subject used in per-order alerts for this status, if configured.
	Issue string `json:"issue,omitempty"`
}

// StatusEntry is the persisted form of the status, "<code>: <description>".
func (s *TrackingSnapshot) StatusEntry() string {
	return fmt.Sprintf("%s: %s", s.StatusCode, s.Description)
}
