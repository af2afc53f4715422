package models

import "time"

// ClickEvent represents a single visit to a short link.
// Rows are append-only; the core never updates or deletes them.
// DeviceType, Browser and RefererDomain are classified at record time so
// aggregation queries can group directly on them.
// IPAddress is retained for a future geo lookup and is never exposed through
// the API; Country stays a placeholder until that lookup exists.
type ClickEvent struct {
	ID            uint64    `gorm:"primaryKey" json:"id"`
	ShortCode     string    `gorm:"size:64;not null;index:idx_click_events_short_code" json:"short_code"`
	DeviceType    string    `gorm:"size:32" json:"device_type"`
	Browser       string    `gorm:"size:32" json:"browser"`
	RefererDomain string    `gorm:"size:255" json:"referer_domain"`
	IPAddress     string    `gorm:"size:64" json:"-"`
	Country       string    `gorm:"size:64" json:"country"`
	CreatedAt     time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_click_events_created_at" json:"created_at"`
}

// TableName returns the table name for ClickEvent
func (ClickEvent) TableName() string { return "click_events" }
