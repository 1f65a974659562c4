// internal/store/store_test.go
package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merchkit/catalog-admin/internal/models"
)

func seedProducts() []models.Product {
	return []models.Product{
		{ID: 1, Title: "Denim Jacket", Category: "clothing", Vendor: "Acme", Type: "Outerwear", Inventory: "12", Status: models.ProductStatusActive, Images: models.ImageList{"https://i.test/1.jpg"}},
		{ID: 2, Title: "Wool Scarf", Category: "clothing", Vendor: "Northwind", Type: "Accessories", Inventory: "3", Status: models.ProductStatusDraft, Images: models.ImageList{"https://i.test/2.jpg"}},
		{ID: 3, Title: "Desk Lamp", Category: "home", Vendor: "Acme", Type: "Lighting", Status: models.ProductStatusActive, Images: models.ImageList{"https://i.test/3.jpg"}},
	}
}

func TestSetProductsComputesFacets(t *testing.T) {
	st := New()
	st.SetProducts(seedProducts())

	facets := st.Facets()
	assert.Equal(t, []string{"clothing", "home"}, facets.Categories)
	assert.Equal(t, []string{"Acme", "Northwind"}, facets.Vendors)
	assert.Equal(t, []string{"Outerwear", "Accessories", "Lighting"}, facets.Types)
	// The third product has no inventory and is normalized to the sentinel.
	assert.Equal(t, []string{"12", "3", models.InventoryNotTracked}, facets.Inventory)
}

func TestAddProductGrowsFacets(t *testing.T) {
	st := New()
	st.SetProducts([]models.Product{
		{ID: 1, Title: "Wool Scarf", Type: "Accessories", Status: models.ProductStatusActive, Images: models.ImageList{"https://i.test/1.jpg"}},
	})

	st.AddProduct(models.Product{Title: "Denim Jacket", Type: "Outerwear", Status: models.ProductStatusActive})

	assert.Equal(t, []string{"Accessories", "Outerwear"}, st.Facets().Types)
	assert.Equal(t, 2, st.Len())
}

func TestAddProductRepeatedFacetValueNotDuplicated(t *testing.T) {
	st := New()
	st.SetProducts(seedProducts())

	st.AddProduct(models.Product{Title: "Rain Coat", Type: "Outerwear", Status: models.ProductStatusActive})

	assert.Equal(t, []string{"Outerwear", "Accessories", "Lighting"}, st.Facets().Types)
}

func TestAddProductBumpsCollidingID(t *testing.T) {
	st := New()
	st.SetProducts(seedProducts())

	stored := st.AddProduct(models.Product{ID: 2, Title: "Duplicate ID"})
	assert.Equal(t, int64(4), stored.ID)

	ids := make(map[int64]bool)
	for _, p := range st.Products() {
		require.False(t, ids[p.ID], "duplicate id %d", p.ID)
		ids[p.ID] = true
	}
}

func TestAddProductAssignsIDWhenZero(t *testing.T) {
	st := New()
	stored := st.AddProduct(models.Product{Title: "First"})
	assert.Equal(t, int64(1), stored.ID)
}

func TestNormalizationOnEntry(t *testing.T) {
	st := New()
	st.SetProducts([]models.Product{{ID: 1, Title: "No status", Images: models.ImageList{"https://i.test/1.jpg"}}})

	p, ok := st.Get(1)
	require.True(t, ok)
	assert.Equal(t, models.ProductStatusActive, p.Status)
	assert.Equal(t, models.Inventory(models.InventoryNotTracked), p.Inventory)
}

func TestSetProductsDropsRecordsWithoutImages(t *testing.T) {
	st := New()
	st.SetProducts([]models.Product{
		{ID: 1, Title: "Has Image", Vendor: "Acme", Images: models.ImageList{"https://i.test/1.jpg"}},
		{ID: 2, Title: "No Image", Vendor: "Northwind"},
	})

	assert.Equal(t, 1, st.Len())
	_, ok := st.Get(2)
	assert.False(t, ok)

	p, ok := st.Get(1)
	require.True(t, ok)
	require.NotEmpty(t, p.Images)

	// The dropped record contributes nothing to the facet index either.
	assert.Equal(t, []string{"Acme"}, st.Facets().Vendors)
}

func TestGetMissingProduct(t *testing.T) {
	st := New()
	st.SetProducts(seedProducts())

	_, ok := st.Get(99)
	assert.False(t, ok)
}

func TestEmptyStoreFacets(t *testing.T) {
	st := New()

	facets := st.Facets()
	assert.Empty(t, facets.Categories)
	assert.Empty(t, facets.Vendors)
	assert.Empty(t, facets.Types)
	assert.Empty(t, facets.Inventory)
	assert.Equal(t, 0, st.Len())
}

func TestProductsReturnsSnapshot(t *testing.T) {
	st := New()
	st.SetProducts(seedProducts())

	snapshot := st.Products()
	snapshot[0].Title = "mutated"

	p, ok := st.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Denim Jacket", p.Title)
}
