// Package businessflow contains the core business logic and use cases for the URL shortener.
package businessflow

import (
	"time"

	"github.com/smarturl/smarturl/app/dto"
	"github.com/smarturl/smarturl/models"
)

const RequestIDKey = "X-Request-ID"

// ClickMetadata holds the request attributes a redirect carries into click
// recording. The IP address is stored for a future geo lookup and never
// leaves the system.
type ClickMetadata struct {
	UserAgent string `json:"user_agent"`
	Referer   string `json:"referer"`
	IPAddress string `json:"ip_address"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClickMetadata creates a new ClickMetadata instance
func NewClickMetadata(userAgent, referer, ipAddress string) *ClickMetadata {
	return &ClickMetadata{
		UserAgent: userAgent,
		Referer:   referer,
		IPAddress: ipAddress,
	}
}

// SetRequestID sets the request ID
func (cm *ClickMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToLinkDTO converts a link model to its API representation
func ToLinkDTO(link *models.Link) dto.LinkDTO {
	out := dto.LinkDTO{
		ID:          link.ID,
		OriginalURL: link.OriginalURL,
		OwnerID:     link.OwnerID,
		ClickCount:  link.ClickCount,
		CreatedAt:   link.CreatedAt.Format(time.RFC3339),
	}
	if link.ShortCode != nil {
		out.ShortCode = *link.ShortCode
	}
	if link.ExpiresAt != nil {
		out.ExpiresAt = link.ExpiresAt.Format(time.RFC3339)
	}
	return out
}
