package azure

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"
)

const retailPricesAPIVersion = "2023-01-01-preview"

// Default pricing client configuration constants.
const (
	defaultPricingBatchSize = 10
	defaultMaxPages         = 5
	defaultRatePerSecond    = 5
)

// PricingClient queries the public retail prices API for spot meters.
// Requests are batched so one lookup covers a page of candidate SKUs;
// batching only bounds latency, correctness never depends on it.
type PricingClient struct {
	client    *http.Client
	baseURL   string
	batchSize int
	maxPages  int
	limiter   *rate.Limiter
}

// PricingOption applies a configuration option to the PricingClient.
type PricingOption func(*PricingClient)

// WithPricingHTTPClient injects a custom HTTP client.
func WithPricingHTTPClient(c *http.Client) PricingOption {
	return func(pc *PricingClient) {
		if c != nil {
			pc.client = c
		}
	}
}

// WithPricingBaseURL overrides the retail prices endpoint, mostly for tests.
func WithPricingBaseURL(u string) PricingOption {
	return func(pc *PricingClient) {
		if u != "" {
			pc.baseURL = u
		}
	}
}

// WithBatchSize bounds SKU names per request to keep the OData filter
// under URL length limits.
func WithBatchSize(n int) PricingOption {
	return func(pc *PricingClient) {
		if n > 0 {
			pc.batchSize = n
		}
	}
}

// WithRateLimit throttles requests to the public endpoint.
func WithRateLimit(perSecond float64) PricingOption {
	return func(pc *PricingClient) {
		if perSecond > 0 {
			pc.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// NewPricingClient creates a client for the retail prices API.
func NewPricingClient(opts ...PricingOption) *PricingClient {
	pc := &PricingClient{
		client:    &http.Client{Timeout: defaultRequestTimeout},
		baseURL:   defaultRetailPricesBaseURL,
		batchSize: defaultPricingBatchSize,
		maxPages:  defaultMaxPages,
		limiter:   rate.NewLimiter(rate.Limit(defaultRatePerSecond), 1),
	}
	for _, opt := range opts {
		opt(pc)
	}
	return pc
}

// retailResponse mirrors one page of the retail prices response.
type retailResponse struct {
	Items        []retailItem `json:"Items"`
	NextPageLink string       `json:"NextPageLink"`
}

type retailItem struct {
	ArmSkuName   string  `json:"armSkuName"`
	ArmRegion    string  `json:"armRegionName"`
	CurrencyCode string  `json:"currencyCode"`
	RetailPrice  float64 `json:"retailPrice"`
	PriceType    string  `json:"priceType"`
	ServiceName  string  `json:"serviceName"`
	ProductName  string  `json:"productName"`
	MeterName    string  `json:"meterName"`
}

// SpotPrices returns a mapping from SKU name to its hourly Linux spot
// price in the requested currency. The mapping is partial: names
// without a retail entry are simply absent, which is valid data.
func (pc *PricingClient) SpotPrices(ctx context.Context, region string, names []string, currency string) (map[string]float64, error) {
	prices := make(map[string]float64, len(names))
	if len(names) == 0 {
		return prices, nil
	}

	for start := 0; start < len(names); start += pc.batchSize {
		end := start + pc.batchSize
		if end > len(names) {
			end = len(names)
		}
		if err := pc.fetchBatch(ctx, region, names[start:end], currency, prices); err != nil {
			return nil, err
		}
	}
	return prices, nil
}

// fetchBatch pages through one batched filter query, folding Linux
// spot meters into prices. The lowest price wins when a SKU exposes
// several matching meters.
func (pc *PricingClient) fetchBatch(ctx context.Context, region string, names []string, currency string, prices map[string]float64) error {
	filters := []string{
		"serviceName eq 'Virtual Machines'",
		"priceType eq 'Consumption'",
		fmt.Sprintf("armRegionName eq '%s'", region),
		"(contains(meterName, 'Spot') or contains(meterName, 'Low Priority'))",
	}
	skuFilters := make([]string, 0, len(names))
	for _, n := range names {
		skuFilters = append(skuFilters, fmt.Sprintf("armSkuName eq '%s'", n))
	}
	filters = append(filters, "("+strings.Join(skuFilters, " or ")+")")

	query := url.Values{}
	query.Set("api-version", retailPricesAPIVersion)
	query.Set("currencyCode", currency)
	query.Set("$filter", strings.Join(filters, " and "))

	pageURL := pc.baseURL + "?" + query.Encode()
	for page := 0; pageURL != "" && page < pc.maxPages; page++ {
		if pc.limiter != nil {
			if err := pc.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return err
		}

		var payload retailResponse
		if err := doJSON(pc.client, req, &payload, "pricing"); err != nil {
			return err
		}

		for _, item := range payload.Items {
			if !isLinuxSpot(item) {
				continue
			}
			if cur, ok := prices[item.ArmSkuName]; !ok || item.RetailPrice < cur {
				prices[item.ArmSkuName] = item.RetailPrice
			}
		}
		pageURL = payload.NextPageLink
	}
	return nil
}

// isLinuxSpot keeps spot meters and drops Windows products.
func isLinuxSpot(item retailItem) bool {
	if item.ArmSkuName == "" {
		return false
	}
	if !strings.Contains(item.MeterName, "Spot") {
		return false
	}
	return !strings.Contains(item.ProductName, "Windows")
}
