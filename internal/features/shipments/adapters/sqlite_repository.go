package adapters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"shipment-reconciler/internal/core/calendar"
	"shipment-reconciler/internal/features/shipments/domain"
	"shipment-reconciler/internal/features/shipments/ports"
)

// Table names per record set. The three tables share one column layout so rows can be
// moved with INSERT ... SELECT *.
var tables = map[domain.RecordSet]string{
	domain.RecordSetActive:        "shipments",
	domain.RecordSetDelivered:     "delivered",
	domain.RecordSetProblemOrders: "problem_orders",
}

const tableSchema = `
CREATE TABLE IF NOT EXISTS %s (
	order_number          TEXT PRIMARY KEY,
	customer_name         TEXT NOT NULL DEFAULT '',
	customer_email        TEXT NOT NULL DEFAULT '',
	tracking_number       TEXT NOT NULL,
	carrier_name          TEXT NOT NULL,
	shipped_date          TEXT NOT NULL,
	status_code           TEXT NOT NULL DEFAULT '',
	last_location         TEXT NOT NULL DEFAULT '',
	last_location_date    TEXT,
	days_at_last_location INTEGER NOT NULL DEFAULT 0,
	notification_sent     INTEGER NOT NULL DEFAULT 0,
	delayed               INTEGER NOT NULL DEFAULT 0,
	delivered             INTEGER NOT NULL DEFAULT 0
)`

const columns = `order_number, customer_name, customer_email, tracking_number, carrier_name, shipped_date,
	status_code, last_location, last_location_date, days_at_last_location, notification_sent, delayed, delivered`

// SQLiteShipmentRepository implements ports.ShipmentRepository on SQLite.
type SQLiteShipmentRepository struct {
	db *sql.DB
}

// NewSQLiteShipmentRepository creates a new SQLiteShipmentRepository.
func NewSQLiteShipmentRepository(db *sql.DB) *SQLiteShipmentRepository {
	return &SQLiteShipmentRepository{
		db: db,
	}
}

// Migrate creates the record set tables if they do not exist.
func (r *SQLiteShipmentRepository) Migrate(ctx context.Context) error {
	for _, set := range []domain.RecordSet{domain.RecordSetActive, domain.RecordSetDelivered, domain.RecordSetProblemOrders} {
		if _, err := r.db.ExecContext(ctx, fmt.Sprintf(tableSchema, tables[set])); err != nil {
			return fmt.Errorf("failed to create table %s: %w", tables[set], err)
		}
	}
	return nil
}

// ListActive returns every active record in insertion order.
func (r *SQLiteShipmentRepository) ListActive(ctx context.Context) ([]domain.ShipmentRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+columns+" FROM shipments ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("%w: list active: %w", ports.ErrPersistence, err)
	}
	defer rows.Close()

	var records []domain.ShipmentRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: list active: %w", ports.ErrPersistence, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list active: %w", ports.ErrPersistence, err)
	}

	return records, nil
}

// Get returns a record and the set holding it.
func (r *SQLiteShipmentRepository) Get(ctx context.Context, orderNumber string) (*domain.ShipmentRecord, domain.RecordSet, error) {
	rec, set, err := r.find(ctx, r.db, orderNumber)
	if err != nil {
		return nil, "", err
	}
	return rec, set, nil
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *SQLiteShipmentRepository) find(ctx context.Context, q queryer, orderNumber string) (*domain.ShipmentRecord, domain.RecordSet, error) {
	query := fmt.Sprintf(`
		SELECT 'active', %[1]s FROM shipments WHERE order_number = ?1
		UNION ALL
		SELECT 'delivered', %[1]s FROM delivered WHERE order_number = ?1
		UNION ALL
		SELECT 'problem_orders', %[1]s FROM problem_orders WHERE order_number = ?1
		LIMIT 1`, columns)

	var set string
	rec, err := scanRecordWith(q.QueryRowContext(ctx, query, orderNumber), &set)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", fmt.Errorf("%w: %s", ports.ErrShipmentNotFound, orderNumber)
	}
	if err != nil {
		return nil, "", fmt.Errorf("%w: get %s: %w", ports.ErrPersistence, orderNumber, err)
	}
	return &rec, domain.RecordSet(set), nil
}

// Apply updates an active record and moves it to target when target is terminal.
// All statements run in one transaction; on any failure nothing is written.
func (r *SQLiteShipmentRepository) Apply(ctx context.Context, orderNumber string, updates domain.Updates, target domain.RecordSet) error {
	if target != "" && target != domain.RecordSetActive && !target.IsTerminal() {
		return fmt.Errorf("%w: unknown record set %q", ports.ErrPersistence, target)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ports.ErrPersistence, err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM shipments WHERE order_number = ?", orderNumber).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s is not active", ports.ErrShipmentNotFound, orderNumber)
	}
	if err != nil {
		return fmt.Errorf("%w: lookup %s: %w", ports.ErrPersistence, orderNumber, err)
	}

	if !updates.IsEmpty() {
		sets, args := updateClauses(updates)
		args = append(args, orderNumber)
		query := "UPDATE shipments SET " + strings.Join(sets, ", ") + " WHERE order_number = ?"
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: update %s: %w", ports.ErrPersistence, orderNumber, err)
		}
	}

	if target.IsTerminal() {
		move := fmt.Sprintf("INSERT INTO %s SELECT * FROM shipments WHERE order_number = ?", tables[target])
		if _, err := tx.ExecContext(ctx, move, orderNumber); err != nil {
			return fmt.Errorf("%w: move %s to %s: %w", ports.ErrPersistence, orderNumber, target, err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM shipments WHERE order_number = ?", orderNumber); err != nil {
			return fmt.Errorf("%w: delete %s: %w", ports.ErrPersistence, orderNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit %s: %w", ports.ErrPersistence, orderNumber, err)
	}
	return nil
}

// Upsert inserts a new active record, or supersedes the stored fields wherever the order
// number lives. A matching tracking number makes the upsert a no-op.
func (r *SQLiteShipmentRepository) Upsert(ctx context.Context, record domain.ShipmentRecord) (domain.UpsertResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%w: begin: %w", ports.ErrPersistence, err)
	}
	defer tx.Rollback()

	existing, set, err := r.find(ctx, tx, record.OrderNumber)
	switch {
	case errors.Is(err, ports.ErrShipmentNotFound):
		insert := "INSERT INTO shipments (" + columns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
		if _, err := tx.ExecContext(ctx, insert, recordArgs(record)...); err != nil {
			return "", fmt.Errorf("%w: insert %s: %w", ports.ErrPersistence, record.OrderNumber, err)
		}
		if err := tx.Commit(); err != nil {
			return "", fmt.Errorf("%w: commit %s: %w", ports.ErrPersistence, record.OrderNumber, err)
		}
		return domain.UpsertInserted, nil
	case err != nil:
		return "", err
	}

	if existing.TrackingNumber == record.TrackingNumber {
		return domain.UpsertUnchanged, nil
	}

	// a new tracking number restarts location tracking
	update := fmt.Sprintf(`UPDATE %s SET
		customer_name = ?, customer_email = ?, tracking_number = ?, carrier_name = ?, shipped_date = ?,
		status_code = ?, last_location = ?, last_location_date = NULL, days_at_last_location = ?,
		notification_sent = ?, delayed = ?, delivered = ?
		WHERE order_number = ?`, tables[set])
	args := []any{
		record.CustomerName, record.CustomerEmail, record.TrackingNumber, record.CarrierName,
		calendar.FormatDate(record.ShippedDate), record.StatusCode, record.LastLocation,
		record.DaysAtLastLocation, boolInt(record.NotificationSent), boolInt(record.Delayed),
		boolInt(record.Delivered), record.OrderNumber,
	}
	if _, err := tx.ExecContext(ctx, update, args...); err != nil {
		return "", fmt.Errorf("%w: update %s: %w", ports.ErrPersistence, record.OrderNumber, err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%w: commit %s: %w", ports.ErrPersistence, record.OrderNumber, err)
	}
	return domain.UpsertUpdated, nil
}

func updateClauses(u domain.Updates) ([]string, []any) {
	var sets []string
	var args []any

	add := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if u.StatusCode != nil {
		add("status_code", *u.StatusCode)
	}
	if u.LastLocation != nil {
		add("last_location", *u.LastLocation)
	}
	if u.LastLocationDate != nil {
		add("last_location_date", nullableDate(*u.LastLocationDate))
	}
	if u.DaysAtLastLocation != nil {
		add("days_at_last_location", *u.DaysAtLastLocation)
	}
	if u.NotificationSent != nil {
		add("notification_sent", boolInt(*u.NotificationSent))
	}
	if u.Delayed != nil {
		add("delayed", boolInt(*u.Delayed))
	}
	if u.Delivered != nil {
		add("delivered", boolInt(*u.Delivered))
	}
	return sets, args
}

func recordArgs(r domain.ShipmentRecord) []any {
	return []any{
		r.OrderNumber, r.CustomerName, r.CustomerEmail, r.TrackingNumber, r.CarrierName,
		calendar.FormatDate(r.ShippedDate), r.StatusCode, r.LastLocation, nullableDate(r.LastLocationDate),
		r.DaysAtLastLocation, boolInt(r.NotificationSent), boolInt(r.Delayed), boolInt(r.Delivered),
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (domain.ShipmentRecord, error) {
	return scanRecordWith(s)
}

// scanRecordWith scans the record columns after any leading destinations.
func scanRecordWith(s scanner, leading ...any) (domain.ShipmentRecord, error) {
	var (
		rec                          domain.ShipmentRecord
		shipped                      string
		locationDate                 sql.NullString
		notified, delayed, delivered int
	)

	dest := append(leading,
		&rec.OrderNumber, &rec.CustomerName, &rec.CustomerEmail, &rec.TrackingNumber, &rec.CarrierName,
		&shipped, &rec.StatusCode, &rec.LastLocation, &locationDate, &rec.DaysAtLastLocation,
		&notified, &delayed, &delivered,
	)
	if err := s.Scan(dest...); err != nil {
		return domain.ShipmentRecord{}, err
	}

	var err error
	if rec.ShippedDate, err = calendar.ParseDate(shipped); err != nil {
		return domain.ShipmentRecord{}, fmt.Errorf("order %s: %w", rec.OrderNumber, err)
	}
	if locationDate.Valid && locationDate.String != "" {
		if rec.LastLocationDate, err = calendar.ParseDate(locationDate.String); err != nil {
			return domain.ShipmentRecord{}, fmt.Errorf("order %s: %w", rec.OrderNumber, err)
		}
	}
	rec.NotificationSent = notified != 0
	rec.Delayed = delayed != 0
	rec.Delivered = delivered != 0

	return rec, nil
}

func nullableDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return calendar.FormatDate(t)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
