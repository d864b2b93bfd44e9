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

// UPSCarrier is the canonical UPS carrier name.
const UPSCarrier = "UPS"

// UPSAdapter tracks UPS shipments through the UPS Track API.
type UPSAdapter struct {
	api            *apiClient
	codes          domain.CarrierCodes
	transID        string
	transactionSrc string
	logger         *zap.Logger
}

// NewUPSAdapter creates a new UPSAdapter. Tokens are cached in c when it is non-nil.
func NewUPSAdapter(cfg config.UPSConfig, codes domain.CarrierCodes, client *http.Client, c cache.Cache) *UPSAdapter {
	creds := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.BaseURL + "/security/v1/oauth/token",
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	return &UPSAdapter{
		api:            newAPIClient(cfg.BaseURL, creds, client, c, "oauth:ups:"+cfg.ClientID),
		codes:          codes,
		transID:        cfg.TransID,
		transactionSrc: cfg.TransactionSrc,
		logger:         logger.Get().Named("ups"),
	}
}

// Carrier returns the canonical carrier name.
func (a *UPSAdapter) Carrier() string {
	return UPSCarrier
}

// SupportsCarrier returns true for UPS and its configured aliases.
func (a *UPSAdapter) SupportsCarrier(carrierName string) bool {
	return matchesCarrier(carrierName, UPSCarrier, a.codes.Aliases)
}

// Authenticate acquires a UPS access token.
func (a *UPSAdapter) Authenticate(ctx context.Context) error {
	return a.api.Authenticate(ctx)
}

// FetchPayload retrieves the raw tracking details for a tracking number.
func (a *UPSAdapter) FetchPayload(ctx context.Context, trackingNumber string) ([]byte, error) {
	query := url.Values{
		"locale":          {"en_US"},
		"returnSignature": {"false"},
	}
	headers := map[string]string{
		"transId":        a.transID,
		"transactionSrc": a.transactionSrc,
	}
	return a.api.get(ctx, "/api/track/v1/details/"+url.PathEscape(trackingNumber), query, headers)
}

// Normalize maps a Track API response into a snapshot using the first package's latest activity.
func (a *UPSAdapter) Normalize(raw []byte) (*domain.TrackingSnapshot, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: invalid JSON", domain.ErrSnapshotUnavailable)
	}

	pkg := gjson.GetBytes(raw, "trackResponse.shipment.0.package.0")
	if !pkg.Exists() {
		return nil, fmt.Errorf("%w: no package in response", domain.ErrSnapshotUnavailable)
	}
	activity := pkg.Get("activity.0")
	if !activity.Exists() {
		return nil, fmt.Errorf("%w: no activity for package", domain.ErrSnapshotUnavailable)
	}

	code := pkg.Get("currentStatus.code").String()
	description := pkg.Get("currentStatus.description").String()
	if code == "" {
		code = activity.Get("status.code").String()
		description = activity.Get("status.description").String()
	}

	snapshot := &domain.TrackingSnapshot{
		Carrier:        UPSCarrier,
		TrackingNumber: pkg.Get("trackingNumber").String(),
		StatusCode:     code,
		Description:    description,
		Category:       activity.Get("status.type").String(),
		Location:       activity.Get("location.address.city").String(),
	}

	if date := activity.Get("date").String(); date != "" {
		d, err := calendar.ParseDate(date)
		if err != nil {
			a.logger.Warn("Unparseable activity date", zap.String("date", date), zap.Error(err))
		} else {
			snapshot.ActivityDate = d
		}
	}

	a.codes.Classify(snapshot)
	logUnclassified(a.logger, snapshot)

	return snapshot, nil
}

// logUnclassified notes statuses that matched no table so the tables can be extended.
func logUnclassified(l *zap.Logger, s *domain.TrackingSnapshot) {
	if s.IsDelivered || s.IsProblem || s.IsDelayed || s.IsAwaitingPickup || s.IsAlert {
		return
	}
	l.Debug("Status code not classified",
		zap.String("code", s.StatusCode),
		zap.String("category", s.Category),
		zap.String("description", s.Description),
	)
}
