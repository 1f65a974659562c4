// internal/services/catalog_service.go
package services

import (
	"strings"

	"github.com/merchkit/catalog-admin/internal/models"
	"github.com/merchkit/catalog-admin/internal/store"
)

// Tab selects the status slice of the listing.
type Tab int

const (
	TabAll Tab = iota
	TabActive
	TabDraft
	TabArchived
)

// ParseTab maps the query-param form onto a Tab; anything unrecognized
// falls back to All, mirroring the listing's default tab.
func ParseTab(s string) Tab {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active":
		return TabActive
	case "draft":
		return TabDraft
	case "archived":
		return TabArchived
	default:
		return TabAll
	}
}

// FilterState is the transient, caller-owned filter selection. Empty
// selections are no-ops; clearing is per-facet or all at once.
type FilterState struct {
	Tab          Tab
	Availability []string
	Types        []string
	Vendors      []string
	Query        string
}

func (f *FilterState) ClearAvailability() { f.Availability = nil }
func (f *FilterState) ClearTypes()        { f.Types = nil }
func (f *FilterState) ClearVendors()      { f.Vendors = nil }
func (f *FilterState) ClearQuery()        { f.Query = "" }

func (f *FilterState) ClearAll() {
	f.ClearAvailability()
	f.ClearTypes()
	f.ClearVendors()
	f.ClearQuery()
}

// AppliedFilter describes one non-empty facet selection: a stable key, a
// human-readable label, and a clear action that resets exactly that facet.
type AppliedFilter struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Clear func(*FilterState) `json:"-"`
}

// CatalogView is what the listing renders: the visible rows, the applied
// filter chips, and an explicit empty-collection flag so the caller routes
// to the empty state instead of an empty table.
type CatalogView struct {
	Products       []models.Product `json:"products"`
	AppliedFilters []AppliedFilter  `json:"applied_filters"`
	EmptyState     bool             `json:"empty_state"`
}

type CatalogService struct {
	store *store.Store
}

func NewCatalogService(st *store.Store) *CatalogService {
	return &CatalogService{store: st}
}

// Visible computes the listing view from the current collection snapshot.
func (s *CatalogService) Visible(filter FilterState) CatalogView {
	products := s.store.Products()
	visible, applied := ComputeVisible(products, filter)
	return CatalogView{
		Products:       visible,
		AppliedFilters: applied,
		EmptyState:     len(products) == 0,
	}
}

// ComputeVisible is a pure function of (products, filter state). The
// pipeline order is fixed: tab, then availability/type/vendor facets, then
// the free-text query. All predicates are independent, so composing them in
// any order would yield the same set; this order is kept for clarity.
func ComputeVisible(products []models.Product, filter FilterState) ([]models.Product, []AppliedFilter) {
	visible := filterByTab(products, filter.Tab)

	visible = filterByValues(visible, filter.Availability, func(p models.Product) string { return p.Availability })
	visible = filterByValues(visible, filter.Types, func(p models.Product) string { return p.Type })
	visible = filterByValues(visible, filter.Vendors, func(p models.Product) string { return p.Vendor })

	if query := strings.ToLower(filter.Query); query != "" {
		filtered := make([]models.Product, 0, len(visible))
		for _, p := range visible {
			if strings.Contains(strings.ToLower(p.Title), query) {
				filtered = append(filtered, p)
			}
		}
		visible = filtered
	}

	return visible, appliedFilters(filter)
}

func filterByTab(products []models.Product, tab Tab) []models.Product {
	var status models.ProductStatus
	switch tab {
	case TabActive:
		status = models.ProductStatusActive
	case TabDraft:
		status = models.ProductStatusDraft
	case TabArchived:
		status = models.ProductStatusArchived
	default:
		out := make([]models.Product, len(products))
		copy(out, products)
		return out
	}

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out
}

// filterByValues keeps products whose field value is in the selected set.
// An empty selection keeps everything.
func filterByValues(products []models.Product, selected []string, value func(models.Product) string) []models.Product {
	if len(selected) == 0 {
		return products
	}

	set := make(map[string]struct{}, len(selected))
	for _, v := range selected {
		set[v] = struct{}{}
	}

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if _, ok := set[value(p)]; ok {
			out = append(out, p)
		}
	}
	return out
}

func appliedFilters(filter FilterState) []AppliedFilter {
	var applied []AppliedFilter

	if len(filter.Availability) > 0 {
		labels := make([]string, len(filter.Availability))
		for i, v := range filter.Availability {
			labels[i] = "Available on " + v
		}
		applied = append(applied, AppliedFilter{
			Key:   "availability",
			Label: strings.Join(labels, ", "),
			Clear: (*FilterState).ClearAvailability,
		})
	}
	if len(filter.Types) > 0 {
		applied = append(applied, AppliedFilter{
			Key:   "Product Type",
			Label: strings.Join(filter.Types, ", "),
			Clear: (*FilterState).ClearTypes,
		})
	}
	if len(filter.Vendors) > 0 {
		applied = append(applied, AppliedFilter{
			Key:   "Vendor",
			Label: strings.Join(filter.Vendors, ", "),
			Clear: (*FilterState).ClearVendors,
		})
	}

	return applied
}
