package usecase

import (
	"context"
	"sort"

	"rental-hub-service/internal/contextkeys"
	"rental-hub-service/internal/core/domain"
	"rental-hub-service/internal/core/normalizer"
	"rental-hub-service/internal/core/port"
	"rental-hub-service/internal/core/port/usecases_port"
)

// RunCrawlUseCase — оркестратор одного вызова crawlAll.
// Источники обходятся последовательно в стабильном порядке; сбой одного
// источника записывается в его CrawlRun и не трогает соседние.
type RunCrawlUseCase struct {
	fetchers map[string]port.SourceFetcherPort // явная карта, без глобального реестра
	runs     port.CrawlRunStoragePort
	upsert   usecases_port.UpsertListingUseCase
}

func NewRunCrawlUseCase(fetchers map[string]port.SourceFetcherPort, runs port.CrawlRunStoragePort, upsert usecases_port.UpsertListingUseCase) *RunCrawlUseCase {
	return &RunCrawlUseCase{
		fetchers: fetchers,
		runs:     runs,
		upsert:   upsert,
	}
}

func (uc *RunCrawlUseCase) Execute(ctx context.Context, sourceOptions map[string]domain.CrawlOptions) (*domain.RunSummary, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "RunCrawl"})

	summary := &domain.RunSummary{Errors: []domain.RunError{}}

	sources := make([]string, 0, len(sourceOptions))
	for source := range sourceOptions {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	ucLogger.Info("Crawl invocation started", port.Fields{"sources": sources})

	for _, source := range sources {
		fetcher, ok := uc.fetchers[source]
		if !ok {
			ucLogger.Warn("No fetcher registered for source, skipping", port.Fields{"source": source})
			summary.Errors = append(summary.Errors, domain.RunError{
				Source: source,
				Error:  "no fetcher registered for source",
			})
			continue
		}

		found, created, updated, err := uc.crawlSource(ctx, fetcher, sourceOptions[source])
		summary.TotalFound += found
		summary.NewProperties += created
		summary.UpdatedProperties += updated
		if err != nil {
			// Ошибка уже зафиксирована в CrawlRun; в агрегат попадает
			// только её текст, соседние источники продолжают работу.
			summary.Errors = append(summary.Errors, domain.RunError{Source: source, Error: err.Error()})
		}
	}

	ucLogger.Info("Crawl invocation finished", port.Fields{
		"total_found": summary.TotalFound,
		"new":         summary.NewProperties,
		"updated":     summary.UpdatedProperties,
		"errors":      len(summary.Errors),
	})
	return summary, nil
}

// crawlSource ведёт один источник по машине состояний
// RUNNING -> COMPLETED | FAILED. Запись финализируется ровно один раз,
// в том числе при отмене контекста.
func (uc *RunCrawlUseCase) crawlSource(ctx context.Context, fetcher port.SourceFetcherPort, opts domain.CrawlOptions) (found, created, updated int, crawlErr error) {
	logger := contextkeys.LoggerFromContext(ctx)
	srcLogger := logger.WithFields(port.Fields{"source": fetcher.Source()})
	ctx = contextkeys.ContextWithLogger(ctx, srcLogger)

	run, err := uc.runs.Create(ctx, fetcher.Source())
	if err != nil {
		srcLogger.Error("Failed to create crawl run record", err, nil)
		return 0, 0, 0, err
	}
	srcLogger.Info("Crawl run started", port.Fields{"run_id": run.ID})

	crawlErr = fetcher.Crawl(ctx, opts, func(pageCtx context.Context, page int, records []domain.RawListing) error {
		pageLogger := srcLogger.WithFields(port.Fields{"page": page})
		pageLogger.Debug("Merging extracted page", port.Fields{"records": len(records)})

		for _, raw := range records {
			listing := normalizer.Normalize(raw, fetcher.Source(), fetcher.Origin())
			found++

			result, err := uc.upsert.Execute(pageCtx, &listing)
			if err != nil {
				// Битая запись не валит страницу: логируем и идём дальше
				pageLogger.Error("Failed to upsert listing", err, port.Fields{
					"source_id": raw.SourceID,
				})
				continue
			}
			if result.IsNew {
				created++
			} else {
				updated++
			}
		}
		return nil
	})

	if crawlErr != nil {
		msg := crawlErr.Error()
		if err := uc.runs.Finalize(ctx, run.ID, domain.RunStatusFailed, found, created, updated, &msg); err != nil {
			srcLogger.Error("Failed to finalize FAILED crawl run", err, nil)
		}
		srcLogger.Error("Crawl run failed", crawlErr, port.Fields{"run_id": run.ID})
		return found, created, updated, crawlErr
	}

	if err := uc.runs.Finalize(ctx, run.ID, domain.RunStatusCompleted, found, created, updated, nil); err != nil {
		srcLogger.Error("Failed to finalize COMPLETED crawl run", err, nil)
		return found, created, updated, err
	}

	srcLogger.Info("Crawl run completed", port.Fields{
		"run_id":      run.ID,
		"total_found": found,
		"new":         created,
		"updated":     updated,
	})
	return found, created, updated, nil
}
