package businessflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/smarturl/smarturl/models"
	"github.com/smarturl/smarturl/repository"
)

// In-memory doubles for the store and cache. The click/counter fakes are
// mutex-protected because the redirect flow writes to them from detached
// goroutines.

type fakeLinkRepo struct {
	mu     sync.Mutex
	nextID uint64
	links  map[uint64]*models.Link

	saveErr      error
	byCodeErr    error
	incrementErr error
}

func linkFilterAll() models.LinkFilter {
	return models.LinkFilter{}
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{links: make(map[uint64]*models.Link)}
}

func (r *fakeLinkRepo) Save(ctx context.Context, link *models.Link) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	if link.ID == 0 {
		r.nextID++
		link.ID = r.nextID
		link.CreatedAt = time.Now().UTC()
	}
	stored := *link
	r.links[link.ID] = &stored
	return nil
}

func (r *fakeLinkRepo) SaveBatch(ctx context.Context, links []*models.Link) error {
	for _, link := range links {
		if err := r.Save(ctx, link); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeLinkRepo) ByID(ctx context.Context, id uint64) (*models.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if link, ok := r.links[id]; ok {
		cp := *link
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeLinkRepo) ByFilter(ctx context.Context, filter models.LinkFilter, orderBy string, limit, offset int) ([]*models.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Link, 0, len(r.links))
	for _, link := range r.links {
		if filter.OwnerID != nil && (link.OwnerID == nil || *link.OwnerID != *filter.OwnerID) {
			continue
		}
		cp := *link
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeLinkRepo) Count(ctx context.Context, filter models.LinkFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.links)), nil
}

func (r *fakeLinkRepo) Exists(ctx context.Context, filter models.LinkFilter) (bool, error) {
	n, _ := r.Count(ctx, filter)
	return n > 0, nil
}

func (r *fakeLinkRepo) ByShortCode(ctx context.Context, code string) (*models.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byCodeErr != nil {
		return nil, r.byCodeErr
	}
	for _, link := range r.links {
		if link.ShortCode != nil && *link.ShortCode == code {
			cp := *link
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeLinkRepo) UpdateShortCode(ctx context.Context, id uint64, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	link, ok := r.links[id]
	if !ok {
		return errors.New("link not found")
	}
	if link.ShortCode != nil {
		return errors.New("short code already assigned")
	}
	link.ShortCode = &code
	return nil
}

func (r *fakeLinkRepo) ListByOwner(ctx context.Context, ownerID string) ([]*models.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Link, 0)
	for _, link := range r.links {
		if link.OwnerID != nil && *link.OwnerID == ownerID {
			cp := *link
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeLinkRepo) IncrementClickCount(ctx context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.incrementErr != nil {
		return r.incrementErr
	}
	for _, link := range r.links {
		if link.ShortCode != nil && *link.ShortCode == code {
			link.ClickCount++
			return nil
		}
	}
	return nil
}

func (r *fakeLinkRepo) clickCount(code string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, link := range r.links {
		if link.ShortCode != nil && *link.ShortCode == code {
			return link.ClickCount
		}
	}
	return 0
}

type fakeClickRepo struct {
	mu     sync.Mutex
	events []*models.ClickEvent

	saveErr error

	byCountry []repository.GroupCount
	byDevice  []repository.GroupCount
	byReferer []repository.GroupCount
	byDay     []repository.DayCount
}

func newFakeClickRepo() *fakeClickRepo {
	return &fakeClickRepo{}
}

func (r *fakeClickRepo) Save(ctx context.Context, event *models.ClickEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	cp := *event
	cp.ID = uint64(len(r.events) + 1)
	r.events = append(r.events, &cp)
	return nil
}

func (r *fakeClickRepo) SaveBatch(ctx context.Context, events []*models.ClickEvent) error {
	for _, event := range events {
		if err := r.Save(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeClickRepo) ByID(ctx context.Context, id uint64) (*models.ClickEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, event := range r.events {
		if event.ID == id {
			cp := *event
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeClickRepo) ByFilter(ctx context.Context, filter any, orderBy string, limit, offset int) ([]*models.ClickEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.ClickEvent, 0, len(r.events))
	for _, event := range r.events {
		cp := *event
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeClickRepo) Count(ctx context.Context, filter any) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.events)), nil
}

func (r *fakeClickRepo) Exists(ctx context.Context, filter any) (bool, error) {
	n, _ := r.Count(ctx, filter)
	return n > 0, nil
}

func (r *fakeClickRepo) CountByShortCode(ctx context.Context, code string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, event := range r.events {
		if event.ShortCode == code {
			n++
		}
	}
	return n, nil
}

func (r *fakeClickRepo) CountByCountry(ctx context.Context, code string) ([]repository.GroupCount, error) {
	return r.byCountry, nil
}

func (r *fakeClickRepo) CountByDeviceType(ctx context.Context, code string) ([]repository.GroupCount, error) {
	return r.byDevice, nil
}

func (r *fakeClickRepo) CountByReferer(ctx context.Context, code string) ([]repository.GroupCount, error) {
	return r.byReferer, nil
}

func (r *fakeClickRepo) CountByDay(ctx context.Context, code string) ([]repository.DayCount, error) {
	return r.byDay, nil
}

func (r *fakeClickRepo) eventCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func (r *fakeClickRepo) lastEvent() *models.ClickEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return nil
	}
	cp := *r.events[len(r.events)-1]
	return &cp
}

type fakeCache struct {
	mu        sync.Mutex
	entries   map[string]string
	refreshed map[string]int

	getErr error
	setErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entries:   make(map[string]string),
		refreshed: make(map[string]int),
	}
}

func (c *fakeCache) Get(ctx context.Context, code string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return "", false, c.getErr
	}
	url, ok := c.entries[code]
	return url, ok, nil
}

func (c *fakeCache) Set(ctx context.Context, code, url string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[code] = url
	return nil
}

func (c *fakeCache) RefreshTTL(ctx context.Context, code string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshed[code]++
	return nil
}

func (c *fakeCache) refreshCount(code string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshed[code]
}

func (c *fakeCache) cached(code string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	url, ok := c.entries[code]
	return url, ok
}
