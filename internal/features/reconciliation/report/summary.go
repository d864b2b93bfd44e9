// Package report folds reconciliation outcomes into the grouped pass summary and renders it.
package report

import (
	"fmt"
	"sync"
	"time"

	"shipment-reconciler/internal/features/reconciliation/domain"
	shipdomain "shipment-reconciler/internal/features/shipments/domain"
)

// Sections lists the report buckets in display order.
var Sections = []domain.Bucket{
	domain.BucketStuck,
	domain.BucketProblem,
	domain.BucketDelayed,
	domain.BucketAlert,
}

// OrderLine is one order listed under a group code.
type OrderLine struct {
	OrderNumber    string `json:"order_number"`
	CustomerName   string `json:"customer_name"`
	CustomerEmail  string `json:"customer_email"`
	TrackingNumber string `json:"tracking_number"`
	CarrierName    string `json:"carrier_name"`
	Classification string `json:"classification"`
}

// Group is the set of orders recorded under one grouping code, in insertion order.
type Group struct {
	Code   string      `json:"code"`
	Orders []OrderLine `json:"orders"`
}

// Section holds the groups of one bucket, in first-seen code order.
type Section struct {
	Bucket domain.Bucket `json:"bucket"`
	Groups []Group       `json:"groups"`
}

// Count returns the number of orders across all groups.
func (s Section) Count() int {
	n := 0
	for _, g := range s.Groups {
		n += len(g.Orders)
	}
	return n
}

// TrackingError identifies a record that could not be reconciled.
type TrackingError struct {
	OrderNumber    string `json:"order_number"`
	CustomerName   string `json:"customer_name"`
	TrackingNumber string `json:"tracking_number"`
	Reason         string `json:"reason"`
}

// Totals are the pass counters. Problem counts the Problem, Delayed and Stuck buckets.
type Totals struct {
	Processed      int `json:"processed"`
	Delivered      int `json:"delivered"`
	Problem        int `json:"problem"`
	Alerts         int `json:"alerts"`
	TrackingErrors int `json:"tracking_errors"`
	Skipped        int `json:"skipped"`
}

// Summary is the result of one reconciliation pass.
type Summary struct {
	RunID       string          `json:"run_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	RunLabel    string          `json:"run_label"`
	Subject     string          `json:"subject"`
	Totals      Totals          `json:"totals"`
	Sections    []Section       `json:"sections"`
	Errors      []TrackingError `json:"errors"`
}

// Section returns the section for bucket b, or an empty one.
func (s *Summary) Section(b domain.Bucket) Section {
	for _, sec := range s.Sections {
		if sec.Bucket == b {
			return sec
		}
	}
	return Section{Bucket: b}
}

// RunLabel is "Morning" before noon and "Afternoon" otherwise.
func RunLabel(now time.Time) string {
	if now.Hour() < 12 {
		return "Morning"
	}
	return "Afternoon"
}

// Subject returns the summary subject line for a pass started at now.
func Subject(now time.Time) string {
	return fmt.Sprintf("[TRACKING EXECUTION REPORT] %s %s", now.Format("01-02-2006"), RunLabel(now))
}

// Aggregator collects outcomes across a pass. It is safe for concurrent use, but
// group and order ordering follow call order, so callers that need a deterministic
// report must add outcomes in record order.
type Aggregator struct {
	mu       sync.Mutex
	totals   Totals
	sections map[domain.Bucket]*Section
	index    map[domain.Bucket]map[string]int
	errors   []TrackingError
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	a := &Aggregator{
		sections: make(map[domain.Bucket]*Section, len(Sections)),
		index:    make(map[domain.Bucket]map[string]int, len(Sections)),
	}
	for _, b := range Sections {
		a.sections[b] = &Section{Bucket: b}
		a.index[b] = make(map[string]int)
	}
	return a
}

// Add folds one reconciled outcome.
func (a *Aggregator) Add(o domain.Outcome) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.totals.Processed++
	if o.Classification == domain.ClassificationDelivered {
		a.totals.Delivered++
		return
	}
	if !o.Notify {
		return
	}

	bucket := o.Classification.Bucket()
	sec, ok := a.sections[bucket]
	if !ok {
		return
	}

	switch bucket {
	case domain.BucketAlert:
		a.totals.Alerts++
	default:
		a.totals.Problem++
	}

	rec := o.Record
	line := OrderLine{
		OrderNumber:    rec.OrderNumber,
		CustomerName:   rec.CustomerName,
		CustomerEmail:  rec.CustomerEmail,
		TrackingNumber: rec.TrackingNumber,
		CarrierName:    rec.CarrierName,
		Classification: string(o.Classification),
	}

	idx, seen := a.index[bucket][o.GroupCode]
	if !seen {
		idx = len(sec.Groups)
		a.index[bucket][o.GroupCode] = idx
		sec.Groups = append(sec.Groups, Group{Code: o.GroupCode})
	}
	sec.Groups[idx].Orders = append(sec.Groups[idx].Orders, line)
}

// AddError records a record that failed to reconcile.
func (a *Aggregator) AddError(rec shipdomain.ShipmentRecord, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.totals.Processed++
	a.totals.TrackingErrors++
	reason := ""
	if err != nil {
		reason = err.Error()
	}
	a.errors = append(a.errors, TrackingError{
		OrderNumber:    rec.OrderNumber,
		CustomerName:   rec.CustomerName,
		TrackingNumber: rec.TrackingNumber,
		Reason:         reason,
	})
}

// AddSkipped records a record left untouched because no tracking trail was available.
func (a *Aggregator) AddSkipped(shipdomain.ShipmentRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.totals.Processed++
	a.totals.Skipped++
}

// Summary snapshots the aggregated state for a pass started at now.
func (a *Aggregator) Summary(runID string, now time.Time) *Summary {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := &Summary{
		RunID:       runID,
		GeneratedAt: now,
		RunLabel:    RunLabel(now),
		Subject:     Subject(now),
		Totals:      a.totals,
		Errors:      append([]TrackingError(nil), a.errors...),
	}
	for _, b := range Sections {
		src := a.sections[b]
		sec := Section{Bucket: b, Groups: make([]Group, len(src.Groups))}
		for i, g := range src.Groups {
			sec.Groups[i] = Group{Code: g.Code, Orders: append([]OrderLine(nil), g.Orders...)}
		}
		s.Sections = append(s.Sections, sec)
	}
	return s
}
