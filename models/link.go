package models

import "time"

// Link represents a shortened URL record.
// ShortCode is derived from the store-assigned ID via base62 and attached in a
// second write once the ID is known; it is never reassigned afterwards.
// OwnerID is optional: anonymous links receive an expiry at creation time,
// owned links never expire. ExpiresAt is decided once, at insert, and is never
// recomputed.
// ClickCount is the authoritative total, maintained with atomic store-side
// increments; the redirect cache never owns this value.
type Link struct {
	ID           uint64     `gorm:"primaryKey" json:"id"`
	ShortCode    *string    `gorm:"size:64;uniqueIndex:uk_links_short_code" json:"short_code,omitempty"`
	OriginalURL  string     `gorm:"type:text;not null" json:"original_url"`
	OwnerID      *string    `gorm:"size:64;index:idx_links_owner_id" json:"owner_id,omitempty"`
	Malicious    bool       `gorm:"not null;default:false" json:"malicious"`
	MLConfidence float64    `gorm:"not null;default:0" json:"ml_confidence"`
	ClickCount   int64      `gorm:"not null;default:0" json:"click_count"`
	ExpiresAt    *time.Time `gorm:"index:idx_links_expires_at" json:"expires_at,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_links_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for Link
func (Link) TableName() string { return "links" }

// LinkFilter provides filter fields for repository queries
type LinkFilter struct {
	ID            *uint64
	ShortCode     *string
	OwnerID       *string
	Malicious     *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
