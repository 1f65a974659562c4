// internal/services/source_service_test.go
package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merchkit/catalog-admin/internal/config"
	"github.com/merchkit/catalog-admin/internal/models"
	"github.com/merchkit/catalog-admin/internal/store"
)

const upstreamListing = `[
	{
		"id": 1,
		"title": "Fjallraven Backpack",
		"price": 109.95,
		"description": "Your perfect pack for everyday use",
		"category": "men's clothing",
		"image": "https://i.test/81fPKd-2AYL.jpg",
		"rating": {"rate": 3.9, "count": 120}
	},
	{
		"id": 2,
		"title": "Mens Casual T-Shirt",
		"price": 22.3,
		"description": "Slim-fitting style",
		"category": "men's clothing",
		"image": "https://i.test/71-3HjGNDUL.jpg",
		"rating": {"rate": 4.1, "count": 259}
	}
]`

func sourceFor(t *testing.T, handler http.HandlerFunc) (*SourceService, *httptest.Server) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewSourceService(config.CatalogConfig{
		SourceURL:     server.URL,
		SourceTimeout: 5,
	}), server
}

func TestFetchProductsDecodesUpstreamShape(t *testing.T) {
	svc, _ := sourceFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(upstreamListing))
	})

	products, err := svc.FetchProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	// The upstream single-string image becomes a one-element list.
	assert.Equal(t, models.ImageList{"https://i.test/81fPKd-2AYL.jpg"}, products[0].Images)
	assert.Equal(t, 109.95, products[0].Price)
	assert.Equal(t, 3.9, products[0].Rating.Rate)
	assert.Equal(t, 120, products[0].Rating.Count)
}

func TestHydrateSeedsStoreWithDefaults(t *testing.T) {
	svc, _ := sourceFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(upstreamListing))
	})

	st := store.New()
	svc.Hydrate(context.Background(), st)

	require.Equal(t, 2, st.Len())

	p, ok := st.Get(1)
	require.True(t, ok)
	// Upstream records carry no status or inventory; defaults apply.
	assert.Equal(t, models.ProductStatusActive, p.Status)
	assert.Equal(t, models.Inventory(models.InventoryNotTracked), p.Inventory)

	assert.Equal(t, []string{"men's clothing"}, st.Facets().Categories)
}

func TestHydrateDropsRecordsWithoutImages(t *testing.T) {
	svc, _ := sourceFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id": 1, "title": "No Image", "image": ""},
			{"id": 2, "title": "Has Image", "image": "https://i.test/b.jpg"}
		]`))
	})

	st := store.New()
	svc.Hydrate(context.Background(), st)

	require.Equal(t, 1, st.Len())
	_, ok := st.Get(1)
	assert.False(t, ok)

	p, ok := st.Get(2)
	require.True(t, ok)
	assert.NotEmpty(t, p.Images)
}

func TestHydrateFailureLeavesCollectionEmpty(t *testing.T) {
	svc, _ := sourceFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	st := store.New()
	svc.Hydrate(context.Background(), st)

	assert.Equal(t, 0, st.Len())
}

func TestFetchProductsRejectsMalformedPayload(t *testing.T) {
	svc, _ := sourceFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "a list"}`))
	})

	_, err := svc.FetchProducts(context.Background())
	assert.Error(t, err)
}
