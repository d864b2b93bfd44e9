package domain

import (
	"fmt"

	shipdomain "shipment-reconciler/internal/features/shipments/domain"
)

// Classification is the operational result of reconciling one shipment.
type Classification string

const (
	ClassificationDelivered              Classification = "Delivered"
	ClassificationProblemImmediate       Classification = "ProblemImmediate"
	ClassificationDelayedFirstOccurrence Classification = "DelayedFirstOccurrence"
	ClassificationStuckWarning           Classification = "StuckWarning"
	ClassificationStuckEscalation        Classification = "StuckEscalation"
	ClassificationAlertInformational     Classification = "AlertInformational"
	ClassificationNoAction               Classification = "NoAction"
)

// Bucket is the report section an outcome is listed under.
type Bucket string

const (
	BucketNone    Bucket = ""
	BucketStuck   Bucket = "Stuck"
	BucketProblem Bucket = "Problem"
	BucketDelayed Bucket = "Delayed"
	BucketAlert   Bucket = "Alert"
)

// Bucket returns the report section for the classification.
func (c Classification) Bucket() Bucket {
	switch c {
	case ClassificationStuckWarning, ClassificationStuckEscalation:
		return BucketStuck
	case ClassificationProblemImmediate:
		return BucketProblem
	case ClassificationDelayedFirstOccurrence:
		return BucketDelayed
	case ClassificationAlertInformational:
		return BucketAlert
	default:
		return BucketNone
	}
}

// Outcome is the engine's decision for one record: the column updates, where the record
// goes, and whether a notification entry is recorded.
type Outcome struct {
	Classification Classification
	// Updates always carries the status entry and the location tracking fields.
	Updates shipdomain.Updates
	// Migration is empty when the record stays active.
	Migration shipdomain.RecordSet
	// Notify is true when a notification entry is recorded under GroupCode.
	Notify    bool
	GroupCode string
	// Issue is the short subject of the per-order alert.
	Issue string
	// Record is the input record with Updates applied.
	Record shipdomain.ShipmentRecord
}

// Migrates reports whether the record leaves the active set.
func (o Outcome) Migrates() bool {
	return o.Migration.IsTerminal()
}

// Alert is the per-order operations message sent for an outcome that records a notification.
type Alert struct {
	Subject        string
	Classification Classification
	OrderNumber    string
	CustomerName   string
	CustomerEmail  string
	TrackingNumber string
	CarrierName    string
	ShippedDate    string
	StatusEntry    string
}

// NewAlert builds the alert for a notifying outcome.
func NewAlert(o Outcome) Alert {
	rec := o.Record
	shipped := ""
	if !rec.ShippedDate.IsZero() {
		shipped = rec.ShippedDate.Format("2006-01-02")
	}
	return Alert{
		Subject:        fmt.Sprintf("[%s] - Order #%s", o.Issue, rec.OrderNumber),
		Classification: o.Classification,
		OrderNumber:    rec.OrderNumber,
		CustomerName:   rec.CustomerName,
		CustomerEmail:  rec.CustomerEmail,
		TrackingNumber: rec.TrackingNumber,
		CarrierName:    rec.CarrierName,
		ShippedDate:    shipped,
		StatusEntry:    rec.StatusCode,
	}
}
