// Package catalog is the product-catalog API client. It is a stateless
// request/response mapper: no retries, no backoff, no credential handling
// beyond placing the bearer value it was given into the Authorization header.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/matt-mccartney/AvnetScraper/internal/config"
)

// ErrNotFound is returned when the search matched no products.
var ErrNotFound = errors.New("catalog: no products matched")

// clientUserAgent matches the identity the upstream gateway expects from a
// browser-originated request.
const clientUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/136.0.0.0 Safari/537.36"

// Product is the subset of a catalog record the sheet cares about.
type Product struct {
	ItemNumber      string
	Manufacturer    string
	Stock           string
	CountryOfOrigin string
}

// Result pairs one queried part number with its outcome. Per-part failures
// are recorded here, never raised: one unknown part must not abort a run.
type Result struct {
	Part    string
	Product Product
	Err     error
}

// Client queries the product-search endpoint.
type Client struct {
	http   *http.Client
	cfg    config.CatalogConfig
	bearer string
	log    *zap.Logger
}

// NewClient builds a client that authenticates with the given bearer value
// (placed verbatim in the Authorization header).
func NewClient(cfg config.CatalogConfig, bearer string, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Top <= 0 {
		cfg.Top = 5
	}
	return &Client{
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: newTransport(),
		},
		cfg:    cfg,
		bearer: bearer,
		log:    logger.Named("catalog"),
	}
}

// searchRequest mirrors the gateway's expected payload. The filter and
// ordering are fixed: they select granted-access records ranked by search
// relevance, which is what the storefront itself sends.
type searchRequest struct {
	Filter                string `json:"filter"`
	Top                   int    `json:"top"`
	Skip                  int    `json:"skip"`
	IsIncludeCount        bool   `json:"isIncludeCount"`
	IsProductImageInclude bool   `json:"isProductImageInclude"`
	IsSkipFacets          bool   `json:"isSkipFacets"`
	OrderBy               string `json:"orderby"`
	Search                string `json:"search"`
}

type searchResponse struct {
	IsSuccessFull bool `json:"IsSuccessFull"`
	Data          struct {
		Count    int             `json:"Count"`
		Products []productRecord `json:"Products"`
	} `json:"Data"`
}

// productRecord keeps Stock loosely typed: the gateway has been seen
// returning both numbers and strings for it.
type productRecord struct {
	ItemNumber       string `json:"ItemNumber"`
	ManufacturerName string `json:"ManufacturerName"`
	Stock            any    `json:"Stock"`
	CountryOfOrigin  string `json:"sap_originating_countryoforigin"`
}

// Search queries the catalog for one part number and returns the best match.
func (c *Client) Search(ctx context.Context, part string) (Product, error) {
	payload := searchRequest{
		Filter:                "Sboat eq 'G'",
		Top:                   c.cfg.Top,
		Skip:                  0,
		IsIncludeCount:        true,
		IsProductImageInclude: false,
		IsSkipFacets:          true,
		OrderBy:               "search.score() desc, ERPMFRPartNumber asc",
		Search:                part,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Product{}, fmt.Errorf("catalog: encoding request for %q: %w", part, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return Product{}, fmt.Errorf("catalog: building request for %q: %w", part, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", clientUserAgent)
	req.Header.Set("Authorization", c.bearer)
	req.Header.Set("Ocp-Apim-Subscription-Key", c.cfg.SubscriptionKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return Product{}, fmt.Errorf("catalog: request for %q: %w", part, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Product{}, fmt.Errorf("catalog: search for %q returned status %d", part, resp.StatusCode)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Product{}, fmt.Errorf("catalog: decoding response for %q: %w", part, err)
	}
	if !decoded.IsSuccessFull {
		return Product{}, fmt.Errorf("catalog: unsuccessful response for %q", part)
	}
	if decoded.Data.Count < 1 || len(decoded.Data.Products) == 0 {
		return Product{}, fmt.Errorf("%w: %q", ErrNotFound, part)
	}

	first := decoded.Data.Products[0]
	return Product{
		ItemNumber:      first.ItemNumber,
		Manufacturer:    first.ManufacturerName,
		Stock:           stringify(first.Stock),
		CountryOfOrigin: first.CountryOfOrigin,
	}, nil
}

// FetchAll queries every part with a bounded worker pool and returns results
// in input order. workers=1 keeps the original strictly sequential pacing,
// which the upstream gateway tolerates best.
func (c *Client) FetchAll(ctx context.Context, parts []string, workers int) []Result {
	if workers < 1 {
		workers = 1
	}
	if workers > len(parts) {
		workers = len(parts)
	}

	results := make([]Result, len(parts))
	jobs := make(chan int)

	done := make(chan struct{})
	for w := 0; w < workers; w++ {
		go func() {
			for i := range jobs {
				part := parts[i]
				product, err := c.Search(ctx, part)
				if err != nil {
					c.log.Warn("Product lookup failed", zap.String("part", part), zap.Error(err))
				}
				results[i] = Result{Part: part, Product: product, Err: err}
			}
			done <- struct{}{}
		}()
	}

	for i := range parts {
		jobs <- i
	}
	close(jobs)
	for w := 0; w < workers; w++ {
		<-done
	}

	succeeded := 0
	for _, r := range results {
		if r.Err == nil {
			succeeded++
		}
	}
	c.log.Info("Catalog fetch complete",
		zap.Int("requested", len(parts)),
		zap.Int("succeeded", succeeded),
	)
	return results
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		// JSON numbers decode to float64; render whole quantities without a
		// trailing fraction.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
