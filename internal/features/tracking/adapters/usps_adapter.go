package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"shipment-reconciler/internal/core/cache"
	"shipment-reconciler/internal/core/calendar"
	"shipment-reconciler/internal/core/config"
	"shipment-reconciler/internal/core/logger"
	"shipment-reconciler/internal/features/tracking/domain"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// USPSCarrier is the canonical USPS carrier name.
const USPSCarrier = "USPS"

// USPSAdapter tracks USPS shipments through the USPS Tracking v3 API.
type USPSAdapter struct {
	api    *apiClient
	codes  domain.CarrierCodes
	logger *zap.Logger
}

// NewUSPSAdapter creates a new USPSAdapter. Tokens are cached in c when it is non-nil.
func NewUSPSAdapter(cfg config.USPSConfig, codes domain.CarrierCodes, client *http.Client, c cache.Cache) *USPSAdapter {
	creds := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.BaseURL + "/oauth2/v3/token",
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	return &USPSAdapter{
		api:    newAPIClient(cfg.BaseURL, creds, client, c, "oauth:usps:"+cfg.ClientID),
		codes:  codes,
		logger: logger.Get().Named("usps"),
	}
}

// Carrier returns the canonical carrier name.
func (a *USPSAdapter) Carrier() string {
	return USPSCarrier
}

// SupportsCarrier returns true for USPS and its configured aliases.
func (a *USPSAdapter) SupportsCarrier(carrierName string) bool {
	return matchesCarrier(carrierName, USPSCarrier, a.codes.Aliases)
}

// Authenticate acquires a USPS access token.
func (a *USPSAdapter) Authenticate(ctx context.Context) error {
	return a.api.Authenticate(ctx)
}

// FetchPayload retrieves the detailed tracking response for a tracking number.
func (a *USPSAdapter) FetchPayload(ctx context.Context, trackingNumber string) ([]byte, error) {
	query := url.Values{"expand": {"DETAIL"}}
	return a.api.get(ctx, "/tracking/v3/tracking/"+url.PathEscape(trackingNumber), query, nil)
}

// Normalize maps a tracking response into a snapshot. Events are newest first.
func (a *USPSAdapter) Normalize(raw []byte) (*domain.TrackingSnapshot, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: invalid JSON", domain.ErrSnapshotUnavailable)
	}

	root := gjson.ParseBytes(raw)
	event := root.Get("trackingEvents.0")
	if !event.Exists() {
		return nil, fmt.Errorf("%w: no tracking events", domain.ErrSnapshotUnavailable)
	}

	snapshot := &domain.TrackingSnapshot{
		Carrier:        USPSCarrier,
		TrackingNumber: root.Get("trackingNumber").String(),
		StatusCode:     event.Get("eventCode").String(),
		Description:    event.Get("eventType").String(),
		Category:       root.Get("statusCategory").String(),
		Location:       event.Get("eventCity").String(),
	}

	// eventTimestamp is local to the facility; only its date part is used
	if ts := event.Get("eventTimestamp").String(); len(ts) >= 10 {
		d, err := calendar.ParseDate(ts[:10])
		if err != nil {
			a.logger.Warn("Unparseable event timestamp", zap.String("timestamp", ts), zap.Error(err))
		} else {
			snapshot.ActivityDate = d
		}
	}

	a.codes.Classify(snapshot)
	logUnclassified(a.logger, snapshot)

	return snapshot, nil
}
