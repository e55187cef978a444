package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/matt-mccartney/AvnetScraper/internal/config"
)

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	return NewClient(config.CatalogConfig{
		Endpoint:        serverURL,
		SubscriptionKey: "sub-key-123",
		Timeout:         5 * time.Second,
		Top:             5,
	}, "bearer-value", zaptest.NewLogger(t))
}

func successBody(products ...map[string]any) string {
	body, _ := json.Marshal(map[string]any{
		"IsSuccessFull": true,
		"Data": map[string]any{
			"Count":    len(products),
			"Products": products,
		},
	})
	return string(body)
}

func TestSearch(t *testing.T) {
	t.Run("sends expected headers and payload", func(t *testing.T) {
		var gotHeaders http.Header
		var gotBody map[string]any

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotHeaders = r.Header.Clone()
			raw, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(raw, &gotBody))
			w.Write([]byte(successBody(map[string]any{"ItemNumber": "X1"})))
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv.URL).Search(context.Background(), "LM317T")
		require.NoError(t, err)

		assert.Equal(t, "bearer-value", gotHeaders.Get("Authorization"))
		assert.Equal(t, "sub-key-123", gotHeaders.Get("Ocp-Apim-Subscription-Key"))
		assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
		assert.Contains(t, gotHeaders.Get("User-Agent"), "Chrome/136")

		assert.Equal(t, "LM317T", gotBody["search"])
		assert.Equal(t, "Sboat eq 'G'", gotBody["filter"])
		assert.Equal(t, float64(5), gotBody["top"])
		assert.Equal(t, float64(0), gotBody["skip"])
		assert.Equal(t, true, gotBody["isIncludeCount"])
		assert.Equal(t, false, gotBody["isProductImageInclude"])
		assert.Equal(t, true, gotBody["isSkipFacets"])
		assert.Equal(t, "search.score() desc, ERPMFRPartNumber asc", gotBody["orderby"])
	})

	t.Run("maps the first product", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(successBody(
				map[string]any{
					"ItemNumber":                      "LM317T-ND",
					"ManufacturerName":                "Texas Instruments",
					"Stock":                           1250,
					"sap_originating_countryoforigin": "MY",
				},
				map[string]any{"ItemNumber": "second"},
			)))
		}))
		defer srv.Close()

		product, err := newTestClient(t, srv.URL).Search(context.Background(), "LM317T")
		require.NoError(t, err)
		assert.Equal(t, "LM317T-ND", product.ItemNumber)
		assert.Equal(t, "Texas Instruments", product.Manufacturer)
		assert.Equal(t, "1250", product.Stock)
		assert.Equal(t, "MY", product.CountryOfOrigin)
	})

	t.Run("tolerates string stock values", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(successBody(map[string]any{"ItemNumber": "A", "Stock": "5,000+"})))
		}))
		defer srv.Close()

		product, err := newTestClient(t, srv.URL).Search(context.Background(), "A")
		require.NoError(t, err)
		assert.Equal(t, "5,000+", product.Stock)
	})

	t.Run("empty result set is ErrNotFound", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(successBody()))
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv.URL).Search(context.Background(), "NOPE")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unsuccessful envelope is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"IsSuccessFull": false}`))
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv.URL).Search(context.Background(), "X")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsuccessful")
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv.URL).Search(context.Background(), "X")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "401")
	})
}

func TestFetchAll(t *testing.T) {
	t.Run("preserves input order and records per-part errors", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body searchRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			if body.Search == "missing" {
				w.Write([]byte(successBody()))
				return
			}
			w.Write([]byte(successBody(map[string]any{"ItemNumber": "item-" + body.Search})))
		}))
		defer srv.Close()

		parts := []string{"a", "missing", "b"}
		results := newTestClient(t, srv.URL).FetchAll(context.Background(), parts, 2)
		require.Len(t, results, 3)

		assert.Equal(t, "a", results[0].Part)
		assert.Equal(t, "item-a", results[0].Product.ItemNumber)
		require.NoError(t, results[0].Err)

		assert.Equal(t, "missing", results[1].Part)
		assert.ErrorIs(t, results[1].Err, ErrNotFound)

		assert.Equal(t, "b", results[2].Part)
		assert.Equal(t, "item-b", results[2].Product.ItemNumber)
	})

	t.Run("empty input yields empty results", func(t *testing.T) {
		results := newTestClient(t, "http://unused.invalid").FetchAll(context.Background(), nil, 4)
		assert.Empty(t, results)
	})
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "", stringify(nil))
	assert.Equal(t, "42", stringify(float64(42)))
	assert.Equal(t, "1.5", stringify(1.5))
	assert.Equal(t, "text", stringify("text"))
}
