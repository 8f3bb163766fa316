package azure

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/okian/spotfinder/internal/domain/model"
)

const resourceSkusAPIVersion = "2021-07-01"

// ComputeClient lists raw resource SKU sightings for a region from
// the management plane.
type ComputeClient struct {
	client         *http.Client
	baseURL        string
	subscriptionID string
	tokens         TokenProvider
}

// ComputeOption applies a configuration option to the ComputeClient.
type ComputeOption func(*ComputeClient)

// WithComputeHTTPClient injects a custom HTTP client.
func WithComputeHTTPClient(c *http.Client) ComputeOption {
	return func(cc *ComputeClient) {
		if c != nil {
			cc.client = c
		}
	}
}

// WithComputeBaseURL overrides the management endpoint, mostly for tests.
func WithComputeBaseURL(u string) ComputeOption {
	return func(cc *ComputeClient) {
		if u != "" {
			cc.baseURL = u
		}
	}
}

// NewComputeClient creates a client for the resource SKUs listing.
func NewComputeClient(subscriptionID string, tokens TokenProvider, opts ...ComputeOption) *ComputeClient {
	cc := &ComputeClient{
		client:         &http.Client{Timeout: defaultRequestTimeout},
		baseURL:        defaultManagementBaseURL,
		subscriptionID: subscriptionID,
		tokens:         tokens,
	}
	for _, opt := range opts {
		opt(cc)
	}
	return cc
}

// resourceSkusPage mirrors one page of the resource SKUs response.
type resourceSkusPage struct {
	Value    []model.RawSku `json:"value"`
	NextLink string         `json:"nextLink"`
}

// Sightings returns every raw SKU sighting the provider reports for
// the region. The sequence is finite and produced in one pass; a new
// call re-invokes the provider.
func (cc *ComputeClient) Sightings(ctx context.Context, region string) ([]model.RawSku, error) {
	if cc.tokens == nil {
		return nil, ErrNoToken
	}
	token, err := cc.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire management token: %w", err)
	}

	query := url.Values{}
	query.Set("api-version", resourceSkusAPIVersion)
	query.Set("$filter", fmt.Sprintf("location eq '%s'", region))

	pageURL := fmt.Sprintf("%s/subscriptions/%s/providers/Microsoft.Compute/skus?%s",
		cc.baseURL, url.PathEscape(cc.subscriptionID), query.Encode())

	var all []model.RawSku
	for pageURL != "" {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)

		var page resourceSkusPage
		if err := doJSON(cc.client, req, &page, "compute"); err != nil {
			return nil, err
		}
		all = append(all, page.Value...)
		pageURL = page.NextLink
	}
	return all, nil
}
