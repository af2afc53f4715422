package dto

// ShortenRequest is the payload for creating a short link.
type ShortenRequest struct {
	OriginalURL string  `json:"original_url" validate:"required" example:"https://example.com/very/long/path"`
	OwnerID     *string `json:"owner_id,omitempty" validate:"omitempty,max=64" example:"user-42"`
}

// ShortenResponse is returned for both accepted and blocked submissions.
// Blocked submissions carry Safe=false and no short code.
type ShortenResponse struct {
	Safe          bool    `json:"safe"`
	ShortCode     string  `json:"short_code,omitempty"`
	ShortURL      string  `json:"short_url,omitempty"`
	OriginalURL   string  `json:"original_url"`
	MLConfidence  float64 `json:"ml_confidence"`
	SafetyMessage string  `json:"safety_message"`
	ExpiresAt     string  `json:"expires_at,omitempty"`
}

// LinkDTO is the owner-facing view of a stored link.
type LinkDTO struct {
	ID          uint64  `json:"id"`
	ShortCode   string  `json:"short_code"`
	OriginalURL string  `json:"original_url"`
	OwnerID     *string `json:"owner_id,omitempty"`
	ClickCount  int64   `json:"click_count"`
	CreatedAt   string  `json:"created_at"`
	ExpiresAt   string  `json:"expires_at,omitempty"`
}

// BucketDTO is one entry of a grouped click breakdown.
type BucketDTO struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// TimePointDTO is one day of click volume.
type TimePointDTO struct {
	Date   string `json:"date"`
	Clicks int64  `json:"clicks"`
}

// AnalyticsResponse aggregates click activity for a single short link.
type AnalyticsResponse struct {
	ShortCode       string         `json:"short_code"`
	OriginalURL     string         `json:"original_url"`
	TotalClicks     int64          `json:"total_clicks"`
	CreatedAt       string         `json:"created_at"`
	ExpiresAt       string         `json:"expires_at"`
	ClicksByCountry []BucketDTO    `json:"clicks_by_country"`
	ClicksByDevice  []BucketDTO    `json:"clicks_by_device"`
	ClicksByReferer []BucketDTO    `json:"clicks_by_referer"`
	ClicksOverTime  []TimePointDTO `json:"clicks_over_time"`
}
