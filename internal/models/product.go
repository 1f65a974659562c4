// internal/models/product.go
package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Product is a catalog record. Identity is a numeric id assigned at commit
// time from the wall clock (unique, monotonically increasing enough).
type Product struct {
	ID           int64         `json:"id"`
	Title        string        `json:"title"`
	Price        float64       `json:"price"`
	Description  string        `json:"description"`
	Category     string        `json:"category"`
	Images       ImageList     `json:"image"`
	Inventory    Inventory     `json:"inventory"`
	Type         string        `json:"type"`
	Vendor       string        `json:"vendor"`
	Status       ProductStatus `json:"status"`
	Availability string        `json:"availability,omitempty"`
	Rating       Rating        `json:"rating"`
}

type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// ImageList is an ordered list of resolved image URLs; the first entry is
// the primary image. Upstream feeds serve a single URL string, committed
// products carry a list, so decoding accepts both shapes.
type ImageList []string

func (l *ImageList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*l = nil
		} else {
			*l = ImageList{single}
		}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = ImageList(many)
	return nil
}

// Inventory is either a numeric count rendered as text or the sentinel
// label "Inventory not tracked". Upstream feeds may serve it as a number.
type Inventory string

func (i *Inventory) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*i = Inventory(asString)
		return nil
	}

	var asNumber float64
	if err := json.Unmarshal(data, &asNumber); err != nil {
		return err
	}
	*i = Inventory(strconv.FormatFloat(asNumber, 'f', -1, 64))
	return nil
}

func (i Inventory) String() string { return string(i) }

// NormalizeStatus maps free-case status text onto the canonical three-value
// set; anything unrecognized defaults to Active so hydrated records always
// satisfy the status invariant.
func NormalizeStatus(s string) ProductStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "draft":
		return ProductStatusDraft
	case "archived":
		return ProductStatusArchived
	default:
		return ProductStatusActive
	}
}

// Normalize fills the defaults a partial upstream record is missing. Every
// product entering the shared collection passes through here.
func (p *Product) Normalize() {
	p.Status = NormalizeStatus(string(p.Status))
	if p.Inventory == "" {
		p.Inventory = InventoryNotTracked
	}
}
