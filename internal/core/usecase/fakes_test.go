package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"rental-hub-service/internal/core/domain"
	"rental-hub-service/internal/core/port"
)

// Внутрипамятные фейки портов для тестов ядра.

type fakeListingStorage struct {
	mu    sync.Mutex
	byKey map[string]*domain.Listing

	page        *domain.ListingPage // ответ FindWithFilters
	distinct    map[string][]string
	incremented [][]uuid.UUID

	createErr error
	updateErr error

	// missLookups имитирует гонку с другим процессом: столько первых
	// FindByKey промахиваются, хотя запись уже лежит в byKey.
	missLookups int
}

func newFakeListingStorage() *fakeListingStorage {
	return &fakeListingStorage{
		byKey:    make(map[string]*domain.Listing),
		distinct: make(map[string][]string),
	}
}

func listingKey(source, sourceID string) string { return source + ":" + sourceID }

func copyListing(l *domain.Listing) *domain.Listing {
	cp := *l
	cp.PriceHistory = append([]domain.PriceHistoryEntry(nil), l.PriceHistory...)
	return &cp
}

func (s *fakeListingStorage) FindByKey(_ context.Context, source, sourceID string) (*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.missLookups > 0 {
		s.missLookups--
		return nil, domain.ErrNotFound
	}
	l, ok := s.byKey[listingKey(source, sourceID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyListing(l), nil
}

func (s *fakeListingStorage) Create(_ context.Context, listing *domain.Listing) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := listingKey(listing.Source, listing.SourceID)
	if _, exists := s.byKey[key]; exists {
		return fmt.Errorf("listing %s: %w", key, domain.ErrAlreadyExists)
	}
	listing.ID = uuid.New()
	listing.CreatedAt = time.Now()
	s.byKey[key] = copyListing(listing)
	return nil
}

func (s *fakeListingStorage) Update(_ context.Context, listing *domain.Listing, appendPrice bool) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := listingKey(listing.Source, listing.SourceID)
	existing, ok := s.byKey[key]
	if !ok {
		return domain.ErrNotFound
	}
	history := existing.PriceHistory
	if appendPrice {
		history = append(history, domain.PriceHistoryEntry{Price: listing.Price, RecordedAt: time.Now()})
	}
	updated := copyListing(listing)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.PriceHistory = history
	s.byKey[key] = updated
	return nil
}

func (s *fakeListingStorage) FindByID(_ context.Context, id uuid.UUID) (*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.byKey {
		if l.ID == id {
			return copyListing(l), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *fakeListingStorage) FindWithFilters(_ context.Context, _ domain.SearchCriteria, _, _ int, _, _ string) (*domain.ListingPage, error) {
	if s.page != nil {
		return s.page, nil
	}
	return &domain.ListingPage{Items: []domain.Listing{}}, nil
}

func (s *fakeListingStorage) IncrementViewCounts(_ context.Context, ids []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incremented = append(s.incremented, ids)
	return nil
}

func (s *fakeListingStorage) DistinctValues(_ context.Context, field, _ string, limit int) ([]string, error) {
	values := s.distinct[field]
	if len(values) > limit {
		values = values[:limit]
	}
	return values, nil
}

func (s *fakeListingStorage) history(source, sourceID string) []domain.PriceHistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.byKey[listingKey(source, sourceID)]
	if !ok {
		return nil
	}
	return append([]domain.PriceHistoryEntry(nil), l.PriceHistory...)
}

type notifyCall struct {
	listingID uuid.UUID
	oldPrice  int
	newPrice  int
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
	err   error
}

func (n *fakeNotifier) Execute(_ context.Context, listing *domain.Listing, oldPrice, newPrice int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notifyCall{listingID: listing.ID, oldPrice: oldPrice, newPrice: newPrice})
	return n.err
}

func (n *fakeNotifier) callCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

type fakeRunStorage struct {
	mu   sync.Mutex
	runs []*domain.CrawlRun
}

func (s *fakeRunStorage) Create(_ context.Context, source string) (*domain.CrawlRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run := &domain.CrawlRun{
		ID:        uuid.New(),
		Source:    source,
		Status:    domain.RunStatusRunning,
		StartedAt: time.Now(),
	}
	s.runs = append(s.runs, run)
	return copyRun(run), nil
}

func copyRun(r *domain.CrawlRun) *domain.CrawlRun {
	cp := *r
	return &cp
}

func (s *fakeRunStorage) Finalize(_ context.Context, id uuid.UUID, status string, totalFound, newCount, updatedCount int, errorMessage *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, run := range s.runs {
		if run.ID != id {
			continue
		}
		if run.Status != domain.RunStatusRunning {
			return fmt.Errorf("run %s already finalized", id)
		}
		now := time.Now()
		run.Status = status
		run.TotalFound = totalFound
		run.NewProperties = newCount
		run.UpdatedProperties = updatedCount
		run.ErrorMessage = errorMessage
		run.CompletedAt = &now
		return nil
	}
	return domain.ErrNotFound
}

func (s *fakeRunStorage) FindWithFilters(_ context.Context, _ domain.RunLogsFilter, limit, offset int) (*domain.CrawlRunPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := len(s.runs)
	items := []domain.CrawlRun{}
	for i := offset; i < total && len(items) < limit; i++ {
		items = append(items, *s.runs[i])
	}
	return &domain.CrawlRunPage{Items: items, Total: total}, nil
}

func (s *fakeRunStorage) CountByStatus(_ context.Context, status string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, run := range s.runs {
		if run.Status == status {
			count++
		}
	}
	return count, nil
}

func (s *fakeRunStorage) CountAll(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.runs), nil
}

func (s *fakeRunStorage) RecentRuns(_ context.Context, since time.Time) ([]domain.CrawlRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.CrawlRun{}
	for _, run := range s.runs {
		if !run.StartedAt.Before(since) {
			out = append(out, *run)
		}
	}
	return out, nil
}

func (s *fakeRunStorage) StatsBySource(_ context.Context) ([]domain.SourceStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byKey := make(map[string]*domain.SourceStat)
	for _, run := range s.runs {
		key := run.Source + "/" + run.Status
		stat, ok := byKey[key]
		if !ok {
			stat = &domain.SourceStat{Source: run.Source, Status: run.Status}
			byKey[key] = stat
		}
		stat.Runs++
		stat.TotalFound += run.TotalFound
		stat.NewProperties += run.NewProperties
	}
	out := []domain.SourceStat{}
	for _, stat := range byKey {
		out = append(out, *stat)
	}
	return out, nil
}

func (s *fakeRunStorage) bySource(source string) *domain.CrawlRun {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, run := range s.runs {
		if run.Source == source {
			return copyRun(run)
		}
	}
	return nil
}

// fakeFetcher отдаёт подготовленные страницы либо падает с заданной ошибкой.
type fakeFetcher struct {
	source string
	pages  [][]domain.RawListing
	err    error
}

func (f *fakeFetcher) Source() string { return f.source }
func (f *fakeFetcher) Origin() string { return "https://example.test" }

func (f *fakeFetcher) Crawl(ctx context.Context, _ domain.CrawlOptions, handle port.PageHandler) error {
	if f.err != nil {
		return f.err
	}
	for i, page := range f.pages {
		if len(page) == 0 {
			return nil
		}
		if err := handle(ctx, i+1, page); err != nil {
			return err
		}
	}
	return nil
}

var _ port.SourceFetcherPort = (*fakeFetcher)(nil)

type fakeFavorites struct {
	interests []domain.FavoriteInterest
	err       error
}

func (f *fakeFavorites) FindByListing(_ context.Context, _ uuid.UUID) ([]domain.FavoriteInterest, error) {
	return f.interests, f.err
}

type fakeSink struct {
	mu      sync.Mutex
	created []domain.Notification
	failFor map[uuid.UUID]error
}

func (s *fakeSink) Create(_ context.Context, n domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failFor[n.UserID]; ok {
		return err
	}
	s.created = append(s.created, n)
	return nil
}

type fakeEvents struct {
	mu     sync.Mutex
	events []domain.PriceChangeEvent
	err    error
}

func (e *fakeEvents) PublishPriceChange(_ context.Context, event domain.PriceChangeEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.events = append(e.events, event)
	return nil
}

type fakeTranslator struct {
	criteria *domain.SearchCriteria
	err      error
}

func (t *fakeTranslator) Translate(_ context.Context, _ string) (*domain.SearchCriteria, error) {
	return t.criteria, t.err
}

type fakeSearchLog struct {
	mu      sync.Mutex
	queries []string
	crits   []*domain.SearchCriteria
	counts  map[uuid.UUID]int
	lastID  uuid.UUID
}

func newFakeSearchLog() *fakeSearchLog {
	return &fakeSearchLog{counts: make(map[uuid.UUID]int)}
}

func (l *fakeSearchLog) Create(_ context.Context, query string, criteria *domain.SearchCriteria) (uuid.UUID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.queries = append(l.queries, query)
	l.crits = append(l.crits, criteria)
	l.lastID = uuid.New()
	return l.lastID, nil
}

func (l *fakeSearchLog) SetResultCount(_ context.Context, id uuid.UUID, count int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counts[id] = count
	return nil
}
