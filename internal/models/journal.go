// internal/models/journal.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CatalogEntry is the write-behind journal row for a committed product.
// The in-memory store stays the source of truth; journal rows exist so an
// operator can audit what was committed and when.
type CatalogEntry struct {
	BaseModel
	ProductID   int64          `json:"product_id" gorm:"not null;index"`
	Title       string         `json:"title" gorm:"size:255;not null"`
	Description string         `json:"description" gorm:"type:text"`
	Category    string         `json:"category" gorm:"size:100;index"`
	Price       float64        `json:"price" gorm:"type:decimal(10,2);not null"`
	Inventory   string         `json:"inventory" gorm:"size:100"`
	Type        string         `json:"type" gorm:"size:100"`
	Vendor      string         `json:"vendor" gorm:"size:100"`
	Status      ProductStatus  `json:"status" gorm:"type:varchar(20);index"`
	Images      pq.StringArray `json:"images" gorm:"type:text[]"`
	Rating      JSONB          `json:"rating" gorm:"type:jsonb"`
}

// AuditLog records mutating API requests.
type AuditLog struct {
	BaseModel
	Operator     string     `json:"operator" gorm:"size:100;index"`
	Action       string     `json:"action" gorm:"size:255;not null"`
	ResourceType string     `json:"resource_type" gorm:"size:100;index"`
	ResourceID   *uuid.UUID `json:"resource_id,omitempty" gorm:"type:uuid"`
	IPAddress    string     `json:"ip_address" gorm:"size:45"`
	UserAgent    string     `json:"user_agent" gorm:"type:text"`
	NewValues    JSONB      `json:"new_values" gorm:"type:jsonb"`
}
