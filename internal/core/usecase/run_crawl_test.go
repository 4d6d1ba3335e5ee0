package usecase

import (
	"context"
	"testing"

	"rental-hub-service/internal/core/domain"
	"rental-hub-service/internal/core/port"
)

func rawRecord(sourceID, price string) domain.RawListing {
	return domain.RawListing{
		SourceID: sourceID,
		Title:    "信義區2房1廳 近市政府站",
		Price:    price,
		Address:  "台北市信義區松仁路",
		URL:      "/rent-" + sourceID + ".html",
	}
}

func newCrawlFixture(fetchers ...port.SourceFetcherPort) (*RunCrawlUseCase, *fakeRunStorage, *fakeListingStorage) {
	listings := newFakeListingStorage()
	runs := &fakeRunStorage{}
	upsert := NewUpsertListingUseCase(listings, &fakeNotifier{})

	byName := make(map[string]port.SourceFetcherPort)
	for _, f := range fetchers {
		byName[f.Source()] = f
	}
	return NewRunCrawlUseCase(byName, runs, upsert), runs, listings
}

func TestRunCrawl_CompletedRunWithCounts(t *testing.T) {
	fetcher := &fakeFetcher{
		source: domain.SourceRental591,
		pages: [][]domain.RawListing{
			{rawRecord("100", "18,000元/月"), rawRecord("101", "22000")},
			{rawRecord("102", "30,000")},
		},
	}
	uc, runs, _ := newCrawlFixture(fetcher)

	summary, err := uc.Execute(context.Background(), map[string]domain.CrawlOptions{
		domain.SourceRental591: {},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if summary.TotalFound != 3 || summary.NewProperties != 3 || summary.UpdatedProperties != 0 {
		t.Errorf("summary = found %d new %d updated %d, want 3/3/0",
			summary.TotalFound, summary.NewProperties, summary.UpdatedProperties)
	}
	if len(summary.Errors) != 0 {
		t.Errorf("summary errors = %v, want none", summary.Errors)
	}

	run := runs.bySource(domain.SourceRental591)
	if run == nil {
		t.Fatal("no crawl run recorded")
	}
	if run.Status != domain.RunStatusCompleted {
		t.Errorf("run status = %s, want %s", run.Status, domain.RunStatusCompleted)
	}
	if run.TotalFound != 3 || run.NewProperties != 3 {
		t.Errorf("run counts = found %d new %d, want 3/3", run.TotalFound, run.NewProperties)
	}
	if run.CompletedAt == nil {
		t.Error("completed run must carry a completion timestamp")
	}
}

func TestRunCrawl_SecondPassCountsUpdates(t *testing.T) {
	fetcher := &fakeFetcher{
		source: domain.SourceRental591,
		pages:  [][]domain.RawListing{{rawRecord("100", "18000"), rawRecord("101", "22000")}},
	}
	uc, _, _ := newCrawlFixture(fetcher)

	ctx := context.Background()
	opts := map[string]domain.CrawlOptions{domain.SourceRental591: {}}
	if _, err := uc.Execute(ctx, opts); err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}
	summary, err := uc.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}

	if summary.NewProperties != 0 || summary.UpdatedProperties != 2 {
		t.Errorf("second pass = new %d updated %d, want 0/2",
			summary.NewProperties, summary.UpdatedProperties)
	}
}

// Пустая первая страница — валидный результат, а не сбой.
func TestRunCrawl_EmptySourceCompletesWithZero(t *testing.T) {
	fetcher := &fakeFetcher{source: domain.SourceRakuya, pages: [][]domain.RawListing{{}}}
	uc, runs, _ := newCrawlFixture(fetcher)

	summary, err := uc.Execute(context.Background(), map[string]domain.CrawlOptions{
		domain.SourceRakuya: {},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if summary.TotalFound != 0 || len(summary.Errors) != 0 {
		t.Errorf("summary = found %d errors %d, want 0/0", summary.TotalFound, len(summary.Errors))
	}

	run := runs.bySource(domain.SourceRakuya)
	if run == nil || run.Status != domain.RunStatusCompleted {
		t.Fatalf("run = %+v, want COMPLETED", run)
	}
	if run.TotalFound != 0 {
		t.Errorf("run totalFound = %d, want 0", run.TotalFound)
	}
}

// Сбой одного источника изолирован: его запись — FAILED с текстом ошибки,
// соседний источник завершается как обычно.
func TestRunCrawl_FailedSourceDoesNotAffectSibling(t *testing.T) {
	broken := &fakeFetcher{
		source: domain.SourceRental591,
		err:    &domain.NavigationError{Source: domain.SourceRental591, URL: "https://example.test/1", Err: context.DeadlineExceeded},
	}
	healthy := &fakeFetcher{
		source: domain.SourceRakuya,
		pages:  [][]domain.RawListing{{rawRecord("200", "15000")}},
	}
	uc, runs, _ := newCrawlFixture(broken, healthy)

	summary, err := uc.Execute(context.Background(), map[string]domain.CrawlOptions{
		domain.SourceRental591: {},
		domain.SourceRakuya:    {},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if len(summary.Errors) != 1 {
		t.Fatalf("summary errors = %v, want exactly one", summary.Errors)
	}
	if summary.Errors[0].Source != domain.SourceRental591 {
		t.Errorf("error source = %s, want %s", summary.Errors[0].Source, domain.SourceRental591)
	}
	if summary.TotalFound != 1 || summary.NewProperties != 1 {
		t.Errorf("summary = found %d new %d, want 1/1", summary.TotalFound, summary.NewProperties)
	}

	failedRun := runs.bySource(domain.SourceRental591)
	if failedRun == nil || failedRun.Status != domain.RunStatusFailed {
		t.Fatalf("RENTAL591 run = %+v, want FAILED", failedRun)
	}
	if failedRun.ErrorMessage == nil || *failedRun.ErrorMessage == "" {
		t.Error("failed run must carry an error message")
	}

	okRun := runs.bySource(domain.SourceRakuya)
	if okRun == nil || okRun.Status != domain.RunStatusCompleted {
		t.Fatalf("RAKUYA run = %+v, want COMPLETED", okRun)
	}
}

func TestRunCrawl_UnregisteredSourceReported(t *testing.T) {
	uc, runs, _ := newCrawlFixture()

	summary, err := uc.Execute(context.Background(), map[string]domain.CrawlOptions{
		"CRAIGSLIST": {},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(summary.Errors) != 1 || summary.Errors[0].Source != "CRAIGSLIST" {
		t.Errorf("summary errors = %v, want one for CRAIGSLIST", summary.Errors)
	}
	if runs.bySource("CRAIGSLIST") != nil {
		t.Error("no crawl run must be created for an unregistered source")
	}
}

// Нормализатор встроен в обход: сырые строки доходят до хранилища
// уже каноническими.
func TestRunCrawl_RecordsAreNormalized(t *testing.T) {
	fetcher := &fakeFetcher{
		source: domain.SourceRental591,
		pages:  [][]domain.RawListing{{rawRecord("300", "１８，０００元/月")}},
	}
	uc, _, listings := newCrawlFixture(fetcher)

	if _, err := uc.Execute(context.Background(), map[string]domain.CrawlOptions{
		domain.SourceRental591: {},
	}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	stored, err := listings.FindByKey(context.Background(), domain.SourceRental591, "300")
	if err != nil {
		t.Fatalf("FindByKey() error = %v", err)
	}
	if stored.Price != 18000 {
		t.Errorf("stored price = %d, want 18000", stored.Price)
	}
	if stored.District != "信義區" {
		t.Errorf("stored district = %q, want 信義區", stored.District)
	}
	if stored.URL != "https://example.test/rent-300.html" {
		t.Errorf("stored url = %q", stored.URL)
	}
}
