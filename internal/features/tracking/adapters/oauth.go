package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shipment-reconciler/internal/core/cache"
	"shipment-reconciler/internal/core/logger"
	"shipment-reconciler/internal/features/tracking/domain"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const maxPayloadBytes = 4 << 20

// cachedTokenSource shares carrier access tokens through the cache so that the API
// process and CLI runs do not each request their own.
type cachedTokenSource struct {
	base  oauth2.TokenSource
	cache cache.Cache
	key   string
}

// Token returns a cached token while it is valid, otherwise fetches and caches a new one.
func (s *cachedTokenSource) Token() (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.cache != nil {
		if data, err := s.cache.Get(ctx, s.key); err == nil {
			var tok oauth2.Token
			if err := json.Unmarshal(data, &tok); err == nil && tok.Valid() {
				return &tok, nil
			}
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			logger.Get().Warn("Token cache read failed", zap.String("key", s.key), zap.Error(err))
		}
	}

	tok, err := s.base.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderAuth, err)
	}

	if s.cache != nil && !tok.Expiry.IsZero() {
		if ttl := time.Until(tok.Expiry) - time.Minute; ttl > 0 {
			data, err := json.Marshal(tok)
			if err == nil {
				err = s.cache.Set(ctx, s.key, data, ttl)
			}
			if err != nil {
				logger.Get().Warn("Token cache write failed", zap.String("key", s.key), zap.Error(err))
			}
		}
	}

	return tok, nil
}

// apiClient is an authenticated JSON client for a carrier tracking API.
type apiClient struct {
	baseURL string
	tokens  oauth2.TokenSource
	client  *http.Client
}

// newAPIClient wraps base with a client-credentials token source.
// c may be nil, in which case tokens are only reused in-process.
func newAPIClient(baseURL string, creds clientcredentials.Config, base *http.Client, c cache.Cache, cacheKey string) *apiClient {
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, base)

	source := &cachedTokenSource{
		base:  creds.TokenSource(tokenCtx),
		cache: c,
		key:   cacheKey,
	}
	tokens := oauth2.ReuseTokenSource(nil, source)

	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		client: &http.Client{
			Transport: &oauth2.Transport{Source: tokens, Base: base.Transport},
			Timeout:   base.Timeout,
		},
	}
}

// Authenticate acquires a token, surfacing credential problems before any record is processed.
func (a *apiClient) Authenticate(ctx context.Context) error {
	if _, err := a.tokens.Token(); err != nil {
		if errors.Is(err, domain.ErrProviderAuth) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrProviderAuth, err)
	}
	return ctx.Err()
}

// get performs an authenticated GET and maps carrier HTTP statuses onto the tracking error taxonomy.
func (a *apiClient) get(ctx context.Context, path string, query url.Values, headers map[string]string) ([]byte, error) {
	endpoint := a.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("carrier request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read carrier response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: carrier returned 404", domain.ErrSnapshotUnavailable)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: carrier returned %d", domain.ErrTrackingRejected, resp.StatusCode)
	default:
		return nil, fmt.Errorf("carrier returned unexpected status %d", resp.StatusCode)
	}
}
