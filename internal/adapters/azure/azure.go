// Package azure implements the provider collaborators against the
// Azure management, retail-prices, and Resource Graph surfaces.
package azure

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/spotfinder/pkg/metrics"
)

// Public endpoints. Overridable per client for tests.
const (
	defaultManagementBaseURL   = "https://management.azure.com"
	defaultRetailPricesBaseURL = "https://prices.azure.com/api/retail/prices"

	defaultRequestTimeout = 30 * time.Second
)

// TokenProvider supplies bearer tokens for the management plane. The
// retail prices surface is public and needs none.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenProvider returning a fixed token, useful for
// tests and short-lived tooling.
type StaticToken string

// Token returns the fixed token.
func (t StaticToken) Token(ctx context.Context) (string, error) {
	return string(t), nil
}

// doJSON issues req, decodes the JSON body into out, and records
// provider metrics under surface.
func doJSON(client *http.Client, req *http.Request, out any, surface string) error {
	start := time.Now()
	metrics.RecordProviderRequest(surface)

	resp, err := client.Do(req)
	if err != nil {
		metrics.RecordProviderError(surface)
		return fmt.Errorf("%s request failed: %w", surface, err)
	}
	defer resp.Body.Close()

	metrics.RecordProviderLatency(surface, float64(time.Since(start).Milliseconds()))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.RecordProviderError(surface)
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s status %d: %s: %w", surface, resp.StatusCode, string(body), ErrUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.RecordProviderError(surface)
		return fmt.Errorf("%s decode failed: %w", surface, err)
	}
	return nil
}
