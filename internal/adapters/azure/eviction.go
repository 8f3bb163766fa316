package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/spotfinder/internal/domain/model"
)

const (
	batchAPIVersion         = "2020-06-01"
	resourceGraphAPIVersion = "2021-03-01"
	evictionQueryTop        = 1000
)

// EvictionClient fetches spot eviction-rate buckets from the Resource
// Graph batch endpoint.
type EvictionClient struct {
	client  *http.Client
	baseURL string
	tokens  TokenProvider
}

// EvictionOption applies a configuration option to the EvictionClient.
type EvictionOption func(*EvictionClient)

// WithEvictionHTTPClient injects a custom HTTP client.
func WithEvictionHTTPClient(c *http.Client) EvictionOption {
	return func(ec *EvictionClient) {
		if c != nil {
			ec.client = c
		}
	}
}

// WithEvictionBaseURL overrides the management endpoint, mostly for tests.
func WithEvictionBaseURL(u string) EvictionOption {
	return func(ec *EvictionClient) {
		if u != "" {
			ec.baseURL = u
		}
	}
}

// NewEvictionClient creates a client for eviction-rate lookups.
func NewEvictionClient(tokens TokenProvider, opts ...EvictionOption) *EvictionClient {
	ec := &EvictionClient{
		client:  &http.Client{Timeout: defaultRequestTimeout},
		baseURL: defaultManagementBaseURL,
		tokens:  tokens,
	}
	for _, opt := range opts {
		opt(ec)
	}
	return ec
}

// batchRequest and friends mirror the batch Resource Graph payload.
type batchRequest struct {
	Requests []batchEntry `json:"requests"`
}

type batchEntry struct {
	Content    batchContent `json:"content"`
	HTTPMethod string       `json:"httpMethod"`
	Name       string       `json:"name"`
	URL        string       `json:"url"`
}

type batchContent struct {
	Query   string       `json:"query"`
	Options batchOptions `json:"options"`
}

type batchOptions struct {
	Top          int    `json:"$top"`
	Skip         int    `json:"$skip"`
	ResultFormat string `json:"resultFormat"`
}

type batchResponse struct {
	Responses []struct {
		HTTPStatusCode int `json:"httpStatusCode"`
		Content        struct {
			Data struct {
				Rows [][]any `json:"rows"`
			} `json:"data"`
		} `json:"content"`
	} `json:"responses"`
}

// Rates returns a mapping from SKU name to eviction bucket for the
// region. The mapping is partial: a missing name means the provider
// published no bucket for it.
func (ec *EvictionClient) Rates(ctx context.Context, region string, names []string) (map[string]model.EvictionBucket, error) {
	if ec.tokens == nil {
		return nil, ErrNoToken
	}
	token, err := ec.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire management token: %w", err)
	}

	payload := batchRequest{
		Requests: []batchEntry{{
			Content: batchContent{
				Query:   evictionQuery(region, names),
				Options: batchOptions{Top: evictionQueryTop, ResultFormat: "table"},
			},
			HTTPMethod: http.MethodPost,
			Name:       "eviction-rates-query",
			URL: fmt.Sprintf("%s/providers/Microsoft.ResourceGraph/resources?api-version=%s",
				ec.baseURL, resourceGraphAPIVersion),
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/batch?api-version=%s", ec.baseURL, batchAPIVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	var result batchResponse
	if err := doJSON(ec.client, req, &result, "eviction"); err != nil {
		return nil, err
	}

	if len(result.Responses) == 0 {
		return map[string]model.EvictionBucket{}, nil
	}
	inner := result.Responses[0]
	if inner.HTTPStatusCode != http.StatusOK {
		return nil, fmt.Errorf("eviction query status %d: %w", inner.HTTPStatusCode, ErrUnavailable)
	}

	rates := make(map[string]model.EvictionBucket)
	for _, row := range inner.Content.Data.Rows {
		// Projected columns: skuName, location, spotEvictionRate.
		if len(row) < 3 {
			continue
		}
		name, _ := row[0].(string)
		rateLabel, _ := row[2].(string)
		if name == "" || rateLabel == "" {
			continue
		}
		if bucket, ok := model.ParseEvictionBucket(rateLabel); ok {
			rates[name] = bucket
		} else {
			rates[name] = model.BucketUnknown
		}
	}
	return rates, nil
}

// evictionQuery builds the KQL query over spot eviction-rate resources.
func evictionQuery(region string, names []string) string {
	var b strings.Builder
	b.WriteString("SpotResources | where type =~ 'microsoft.compute/skuspotevictionrate/location'")
	if len(names) > 0 {
		b.WriteString(" | where sku.name in~ ('")
		b.WriteString(strings.Join(names, "', '"))
		b.WriteString("')")
	}
	if region != "" {
		b.WriteString(" | where location in~ ('")
		b.WriteString(region)
		b.WriteString("')")
	}
	b.WriteString(" | project skuName = tostring(sku.name), location, spotEvictionRate = tostring(properties.evictionRate)")
	b.WriteString(" | order by skuName asc, location asc")
	return b.String()
}
