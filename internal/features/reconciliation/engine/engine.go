// Package engine decides what happens to one shipment given its stored state and a fresh
// tracking snapshot. It performs no I/O; the caller supplies the processing date.
package engine

import (
	"fmt"
	"time"

	"shipment-reconciler/internal/core/calendar"
	"shipment-reconciler/internal/features/reconciliation/domain"
	shipdomain "shipment-reconciler/internal/features/shipments/domain"
	trackdomain "shipment-reconciler/internal/features/tracking/domain"
)

// Thresholds are the business-day limits used by stuck detection and pickup aging.
type Thresholds struct {
	// StuckWarningDays is the exact count at which a stalled shipment warns.
	StuckWarningDays int
	// StuckEscalationDays is the count at or above which a stalled shipment escalates.
	StuckEscalationDays int
	// PickupAgingDays is how long a label may await carrier pickup before it is a problem.
	PickupAgingDays int
}

// DefaultThresholds returns 3 / 5 / 3 business days.
func DefaultThresholds() Thresholds {
	return Thresholds{
		StuckWarningDays:    3,
		StuckEscalationDays: 5,
		PickupAgingDays:     3,
	}
}

// Engine reconciles shipment records against tracking snapshots.
type Engine struct {
	calendar   *calendar.Calendar
	thresholds Thresholds
}

// New creates an Engine.
func New(cal *calendar.Calendar, thresholds Thresholds) *Engine {
	return &Engine{
		calendar:   cal,
		thresholds: thresholds,
	}
}

// Reconcile classifies rec against snap as of today.
//
// The status entry and location tracking fields are always part of the returned
// updates, whatever the classification. Precedence, first match wins: delivered,
// stuck (only when the location did not change; a re-arm at the warning count ends
// the pass for the record), problem or delay (with pickup aging forcing a problem),
// alert, no action.
func (e *Engine) Reconcile(rec shipdomain.ShipmentRecord, snap trackdomain.TrackingSnapshot, today time.Time) domain.Outcome {
	today = calendar.DateOf(today)

	status := snap.StatusEntry()
	d := &decision{
		rec:     rec,
		updates: shipdomain.Updates{StatusCode: &status},
		sent:    rec.NotificationSent,
		status:  status,
	}

	moved, days := e.trackLocation(d, snap, today)

	if snap.IsDelivered {
		d.updates.Delivered = ptr(true)
		return d.finish(domain.ClassificationDelivered, shipdomain.RecordSetDelivered, false, "", "")
	}

	if !moved {
		switch {
		case days >= e.thresholds.StuckEscalationDays && !d.sent:
			d.setSent(true)
			return d.finish(domain.ClassificationStuckEscalation, shipdomain.RecordSetProblemOrders, true,
				fmt.Sprintf("NO MOVEMENT FOR %d+ BUSINESS DAYS", e.thresholds.StuckEscalationDays),
				fmt.Sprintf("NO MOVEMENT FOR %d BUSINESS DAYS", days))
		case days == e.thresholds.StuckWarningDays && !d.sent:
			d.setSent(true)
			return d.finish(domain.ClassificationStuckWarning, "", true,
				fmt.Sprintf("NO MOVEMENT FOR %d BUSINESS DAYS", e.thresholds.StuckWarningDays),
				fmt.Sprintf("NO MOVEMENT FOR %d BUSINESS DAYS", days))
		case days == e.thresholds.StuckWarningDays:
			// landing on the warning count again re-arms the warning; nothing is sent this pass
			d.setSent(false)
			return d.finish(domain.ClassificationNoAction, "", false, "", "")
		}
	}

	isProblem := snap.IsProblem
	if snap.IsAwaitingPickup && !rec.ShippedDate.IsZero() &&
		e.calendar.BusinessDaysBetween(rec.ShippedDate, today) >= e.thresholds.PickupAgingDays {
		isProblem = true
	}

	issue := snap.Issue
	if issue == "" {
		issue = snap.Description
	}

	if isProblem {
		if snap.IsDelayed {
			if rec.Delayed {
				return d.finish(domain.ClassificationNoAction, "", false, "", "")
			}
			d.updates.Delayed = ptr(true)
			return d.finish(domain.ClassificationDelayedFirstOccurrence, "", true, status, issue)
		}
		return d.problem(issue)
	}

	if snap.IsAlert {
		if snap.IsActionableAlert {
			return d.problem(issue)
		}
		if !d.sent {
			d.setSent(true)
			return d.finish(domain.ClassificationAlertInformational, "", true, status, issue)
		}
	}

	return d.finish(domain.ClassificationNoAction, "", false, "", "")
}

// trackLocation fills the location updates and reports whether the location changed
// along with the resulting day count. A record with no stored location always re-anchors,
// so it is never considered stalled.
func (e *Engine) trackLocation(d *decision, snap trackdomain.TrackingSnapshot, today time.Time) (bool, int) {
	rec := d.rec

	if rec.LastLocation == "" || snap.Location != rec.LastLocation {
		anchor := calendar.DateOf(snap.ActivityDate)
		if snap.ActivityDate.IsZero() {
			anchor = today
		}
		days := e.calendar.BusinessDaysBetween(anchor, today)

		d.updates.LastLocation = ptr(snap.Location)
		d.updates.LastLocationDate = ptr(anchor)
		d.updates.DaysAtLastLocation = ptr(days)
		return true, days
	}

	if !rec.LastLocationDate.IsZero() {
		days := e.calendar.BusinessDaysBetween(rec.LastLocationDate, today)
		d.updates.DaysAtLastLocation = ptr(days)
		return false, days
	}

	d.updates.LastLocationDate = ptr(today)
	d.updates.DaysAtLastLocation = ptr(0)
	return false, 0
}

// decision accumulates the updates for one Reconcile call.
type decision struct {
	rec     shipdomain.ShipmentRecord
	updates shipdomain.Updates
	sent    bool
	status  string
}

func (d *decision) setSent(v bool) {
	d.sent = v
	d.updates.NotificationSent = ptr(v)
}

func (d *decision) problem(issue string) domain.Outcome {
	d.setSent(true)
	return d.finish(domain.ClassificationProblemImmediate, shipdomain.RecordSetProblemOrders, true, d.status, issue)
}

func (d *decision) finish(c domain.Classification, migration shipdomain.RecordSet, notify bool, group, issue string) domain.Outcome {
	return domain.Outcome{
		Classification: c,
		Updates:        d.updates,
		Migration:      migration,
		Notify:         notify,
		GroupCode:      group,
		Issue:          issue,
		Record:         d.rec.WithUpdates(d.updates),
	}
}

func ptr[T any](v T) *T {
	return &v
}
