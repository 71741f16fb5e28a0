package retail

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/snapvalue/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const targetSearchPage = `<!DOCTYPE html>
<html><body><ul>
<li data-test="product-list-item">
  <a data-test="product-title" href="/p/terracotta-pot/-/A-123">Terracotta Pot</a>
  <span data-test="product-price">$9.99</span>
</li>
<li data-test="product-list-item">
  <a data-test="product-title" href="/p/plant-stand/-/A-456">Plant Stand</a>
  <span data-test="product-price">$34.99</span>
</li>
</ul></body></html>`

func TestTargetSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/s", r.URL.Path)
		assert.Equal(t, "terracotta pot", r.URL.Query().Get("searchTerm"))
		w.Write([]byte(targetSearchPage))
	}))
	defer server.Close()

	source := NewTarget(testOptions(server.URL), zerolog.Nop())
	listings := source.Search(context.Background(), "terracotta pot")

	require.Len(t, listings, 2)

	first := listings[0]
	assert.Equal(t, "Terracotta Pot", first.Name)
	assert.Equal(t, "$9.99", first.RawPrice)
	assert.Equal(t, server.URL+"/p/terracotta-pot/-/A-123", first.URL)
	assert.Equal(t, domain.SourceTarget, first.Source)
}

func TestTargetSearchFailsSoft(t *testing.T) {
	t.Run("server error yields empty list", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusForbidden)
		}))
		defer server.Close()

		source := NewTarget(testOptions(server.URL), zerolog.Nop())
		assert.Empty(t, source.Search(context.Background(), "anything"))
	})

	t.Run("missing title falls back to Unknown", func(t *testing.T) {
		page := `<li data-test="product-list-item"><span data-test="product-price">$5.00</span></li>`
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(page))
		}))
		defer server.Close()

		source := NewTarget(testOptions(server.URL), zerolog.Nop())
		listings := source.Search(context.Background(), "anything")

		require.Len(t, listings, 1)
		assert.Equal(t, "Unknown", listings[0].Name)
		assert.Contains(t, listings[0].URL, "/s?searchTerm=", "falls back to the search URL")
	})
}
