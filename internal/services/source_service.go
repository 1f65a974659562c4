// internal/services/source_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/merchkit/catalog-admin/internal/config"
	"github.com/merchkit/catalog-admin/internal/models"
	"github.com/merchkit/catalog-admin/internal/store"
)

// SourceService loads the product list from the configured remote endpoint
// once at boot.
type SourceService struct {
	client *http.Client
	url    string
}

func NewSourceService(cfg config.CatalogConfig) *SourceService {
	return &SourceService{
		client: &http.Client{Timeout: time.Duration(cfg.SourceTimeout) * time.Second},
		url:    cfg.SourceURL,
	}
}

func (s *SourceService) FetchProducts(ctx context.Context) ([]models.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog source request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog source: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog source returned status %d", resp.StatusCode)
	}

	var products []models.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("failed to decode catalog source response: %w", err)
	}

	return products, nil
}

// Hydrate seeds the store from the remote listing. A failed fetch leaves the
// collection empty rather than propagating the error; the admin still runs.
func (s *SourceService) Hydrate(ctx context.Context, st *store.Store) {
	products, err := s.FetchProducts(ctx)
	if err != nil {
		logrus.WithError(err).Error("Catalog hydration failed, starting with empty collection")
		st.SetProducts(nil)
		return
	}

	st.SetProducts(products)
	logrus.WithField("count", len(products)).Info("Catalog hydrated from source")
}
