package domain

import "time"

// RecordSet names the table a shipment currently lives in.
// A record is in exactly one set; moves out of Active are one-way.
type RecordSet string

const (
	// RecordSetActive holds shipments that are still polled.
	RecordSetActive RecordSet = "active"
	// RecordSetDelivered holds delivered shipments.
	RecordSetDelivered RecordSet = "delivered"
	// RecordSetProblemOrders holds shipments handed to operations.
	RecordSetProblemOrders RecordSet = "problem_orders"
)

// IsTerminal reports whether records in the set are no longer polled.
func (s RecordSet) IsTerminal() bool {
	return s == RecordSetDelivered || s == RecordSetProblemOrders
}

// ShipmentRecord is the persisted state of one shipment.
type ShipmentRecord struct {
	// OrderNumber is unique across all record sets.
	OrderNumber    string    `json:"order_number"`
	CustomerName   string    `json:"customer_name"`
	CustomerEmail  string    `json:"customer_email"`
	TrackingNumber string    `json:"tracking_number"`
	CarrierName    string    `json:"carrier_name"`
	ShippedDate    time.Time `json:"shipped_date"`
	// StatusCode holds the latest status entry, "<code>: <description>".
	StatusCode   string `json:"status_code"`
	LastLocation string `json:"last_location"`
	// LastLocationDate is when LastLocation was first observed. Zero means never set.
	LastLocationDate   time.Time `json:"last_location_date"`
	DaysAtLastLocation int       `json:"days_at_last_location"`
	// NotificationSent gates stuck, alert and problem notifications.
	NotificationSent bool `json:"notification_sent"`
	// Delayed gates the delay notification for the current delay episode.
	Delayed   bool `json:"delayed"`
	Delivered bool `json:"delivered"`
}

// ShipmentView is a record together with the set that holds it.
type ShipmentView struct {
	ShipmentRecord
	RecordSet RecordSet `json:"record_set"`
}

// Updates is a typed set of column changes. Nil fields are left untouched.
type Updates struct {
	StatusCode         *string
	LastLocation       *string
	LastLocationDate   *time.Time
	DaysAtLastLocation *int
	NotificationSent   *bool
	Delayed            *bool
	Delivered          *bool
}

// IsEmpty reports whether no column is changed.
func (u Updates) IsEmpty() bool {
	return u.StatusCode == nil &&
		u.LastLocation == nil &&
		u.LastLocationDate == nil &&
		u.DaysAtLastLocation == nil &&
		u.NotificationSent == nil &&
		u.Delayed == nil &&
		u.Delivered == nil
}

// WithUpdates returns a copy of r with u applied.
func (r ShipmentRecord) WithUpdates(u Updates) ShipmentRecord {
	if u.StatusCode != nil {
		r.StatusCode = *u.StatusCode
	}
	if u.LastLocation != nil {
		r.LastLocation = *u.LastLocation
	}
	if u.LastLocationDate != nil {
		r.LastLocationDate = *u.LastLocationDate
	}
	if u.DaysAtLastLocation != nil {
		r.DaysAtLastLocation = *u.DaysAtLastLocation
	}
	if u.NotificationSent != nil {
		r.NotificationSent = *u.NotificationSent
	}
	if u.Delayed != nil {
		r.Delayed = *u.Delayed
	}
	if u.Delivered != nil {
		r.Delivered = *u.Delivered
	}
	return r
}

// UpsertResult describes what an ingestion upsert did.
type UpsertResult string

const (
	UpsertInserted  UpsertResult = "inserted"
	UpsertUpdated   UpsertResult = "updated"
	UpsertUnchanged UpsertResult = "unchanged"
)

// IngestReport counts what an ingestion batch did.
type IngestReport struct {
	Received  int      `json:"received"`
	Inserted  int      `json:"inserted"`
	Updated   int      `json:"updated"`
	Unchanged int      `json:"unchanged"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}
