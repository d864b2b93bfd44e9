package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"shipment-reconciler/internal/core/calendar"
)

// ErrInvalidEntry is returned when a batch entry is missing a required field or has a bad value.
var ErrInvalidEntry = errors.New("invalid batch entry")

// Flag is a boolean that accepts "Yes"/"No" as well as JSON booleans.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = false
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = Flag(b)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("flag must be a boolean or Yes/No: %s", data)
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "y", "1":
		*f = true
	case "no", "false", "n", "0", "":
		*f = false
	default:
		return fmt.Errorf("flag must be a boolean or Yes/No: %q", s)
	}
	return nil
}

// MarshalJSON renders the flag as "Yes" or "No".
func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte(`"Yes"`), nil
	}
	return []byte(`"No"`), nil
}

// Identifier is a string that may arrive as a JSON number.
type Identifier string

// UnmarshalJSON implements json.Unmarshaler.
func (i *Identifier) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*i = Identifier(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("identifier must be a string or number: %s", data)
	}
	*i = Identifier(n.String())
	return nil
}

// Batch is the ingestion payload sent by the order system.
type Batch struct {
	DatabaseEntries []BatchEntry `json:"database_entries"`
}

// BatchEntry is one shipment in an ingestion batch.
type BatchEntry struct {
	OrderNumber        Identifier `json:"OrderNumber"`
	CustomerName       string     `json:"CustomerName"`
	CustomerEmail      string     `json:"CustomerEmail"`
	TrackingNumber     Identifier `json:"TrackingNumber"`
	CarrierName        string     `json:"CarrierName"`
	ShippedDate        string     `json:"ShippedDate"`
	StatusCode         string     `json:"StatusCode"`
	LastLocation       string     `json:"LastLocation"`
	DaysAtLastLocation int        `json:"DaysAtLastLocation"`
	NotificationSent   Flag       `json:"NotificationSent"`
	Delayed            Flag       `json:"Delayed"`
	Delivered          Flag       `json:"Delivered"`
}

// ToRecord validates the entry and converts it to a record.
func (e BatchEntry) ToRecord() (ShipmentRecord, error) {
	switch {
	case e.OrderNumber == "":
		return ShipmentRecord{}, fmt.Errorf("%w: OrderNumber is required", ErrInvalidEntry)
	case e.TrackingNumber == "":
		return ShipmentRecord{}, fmt.Errorf("%w: TrackingNumber is required for order %s", ErrInvalidEntry, e.OrderNumber)
	case strings.TrimSpace(e.CarrierName) == "":
		return ShipmentRecord{}, fmt.Errorf("%w: CarrierName is required for order %s", ErrInvalidEntry, e.OrderNumber)
	case e.DaysAtLastLocation < 0:
		return ShipmentRecord{}, fmt.Errorf("%w: DaysAtLastLocation is negative for order %s", ErrInvalidEntry, e.OrderNumber)
	}

	shipped, err := parseShippedDate(e.ShippedDate)
	if err != nil {
		return ShipmentRecord{}, fmt.Errorf("%w: order %s: %v", ErrInvalidEntry, e.OrderNumber, err)
	}

	return ShipmentRecord{
		OrderNumber:        string(e.OrderNumber),
		CustomerName:       strings.TrimSpace(e.CustomerName),
		CustomerEmail:      strings.TrimSpace(e.CustomerEmail),
		TrackingNumber:     string(e.TrackingNumber),
		CarrierName:        strings.TrimSpace(e.CarrierName),
		ShippedDate:        shipped,
		StatusCode:         e.StatusCode,
		LastLocation:       e.LastLocation,
		DaysAtLastLocation: e.DaysAtLastLocation,
		NotificationSent:   bool(e.NotificationSent),
		Delayed:            bool(e.Delayed),
		Delivered:          bool(e.Delivered),
	}, nil
}

// parseShippedDate accepts YYYY-MM-DD, YYYYMMDD, or a timestamp whose first ten characters are a date.
func parseShippedDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("ShippedDate is required")
	}
	if len(s) > 10 && s[4] == '-' {
		s = s[:10]
	}
	return calendar.ParseDate(s)
}
