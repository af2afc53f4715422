// Package testing provides test utilities and database setup for integration tests
package testing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/smarturl/smarturl/models"
	"github.com/smarturl/smarturl/utils"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestLink creates a link with its short code attached. Pass a nil
// ownerID for an anonymous link with a 30-day expiry.
func (tf *TestFixtures) CreateTestLink(originalURL string, ownerID *string) (*models.Link, error) {
	link := &models.Link{
		OriginalURL: originalURL,
		OwnerID:     ownerID,
	}
	if ownerID == nil {
		link.ExpiresAt = utils.UTCNowAddPtr(utils.AnonymousLinkTTL)
	}

	if err := tf.DB.DB.Create(link).Error; err != nil {
		return nil, fmt.Errorf("failed to create test link: %w", err)
	}

	code := utils.EncodeShortCode(link.ID)
	if err := tf.DB.DB.Model(link).Update("short_code", code).Error; err != nil {
		return nil, fmt.Errorf("failed to attach short code: %w", err)
	}
	link.ShortCode = &code
	return link, nil
}

// CreateExpiredLink creates a link whose expiry is already in the past
func (tf *TestFixtures) CreateExpiredLink(originalURL string) (*models.Link, error) {
	link, err := tf.CreateTestLink(originalURL, nil)
	if err != nil {
		return nil, err
	}
	expired := utils.UTCNowAdd(-time.Hour)
	if err := tf.DB.DB.Model(link).Update("expires_at", expired).Error; err != nil {
		return nil, fmt.Errorf("failed to expire test link: %w", err)
	}
	link.ExpiresAt = &expired
	return link, nil
}

// CreateTestClicks records n click events for a code spread over the past n days
func (tf *TestFixtures) CreateTestClicks(code string, n int) ([]*models.ClickEvent, error) {
	devices := []string{"Desktop", "Mobile", "Tablet"}
	browsers := []string{"Chrome", "Firefox", "Safari"}
	referers := []string{"Direct", "twitter.com", "news.ycombinator.com"}

	events := make([]*models.ClickEvent, 0, n)
	for i := 0; i < n; i++ {
		event := &models.ClickEvent{
			ShortCode:     code,
			DeviceType:    devices[i%len(devices)],
			Browser:       browsers[i%len(browsers)],
			RefererDomain: referers[i%len(referers)],
			IPAddress:     fmt.Sprintf("203.0.113.%d", rand.Intn(254)+1),
			Country:       utils.CountryPlaceholder,
			CreatedAt:     utils.UTCNowAdd(-time.Duration(i) * 24 * time.Hour),
		}
		if err := tf.DB.DB.Create(event).Error; err != nil {
			return nil, fmt.Errorf("failed to create test click: %w", err)
		}
		events = append(events, event)
	}
	return events, nil
}
