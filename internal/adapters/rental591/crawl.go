package rental591

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/gocolly/colly/v2"

	"rental-hub-service/internal/constants"
	"rental-hub-service/internal/contextkeys"
	"rental-hub-service/internal/core/domain"
	"rental-hub-service/internal/core/port"
)

// extractionResult — ответ extraction-сервиса на одну страницу выдачи.
type extractionResult struct {
	Records     []domain.RawListing `json:"records"`
	HasNextPage bool                `json:"hasNextPage"`
}

// Crawl обходит страницы выдачи по порядку. Недоступность первой страницы
// фатальна для запуска (*domain.NavigationError); сбой извлечения дальше —
// частичный успех, пагинация просто завершается.
func (a *Rental591FetcherAdapter) Crawl(ctx context.Context, opts domain.CrawlOptions, handle port.PageHandler) error {
	logger := contextkeys.LoggerFromContext(ctx)
	crawlLogger := logger.WithFields(port.Fields{"component": "Rental591FetcherAdapter"})

	maxPages := opts.MaxPages
	if maxPages < 1 {
		maxPages = constants.DefaultMaxPages
	}

	for page := 1; page <= maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		targetURL := a.buildSearchURL(opts, page)
		result, err := a.extractPage(ctx, crawlLogger, targetURL, page)
		if err != nil {
			if page == 1 {
				return &domain.NavigationError{Source: a.Source(), URL: targetURL, Err: err}
			}
			// Частичный успех: уже обработанные страницы остаются в силе
			crawlLogger.Error("Extraction failed mid-pagination, stopping", err, port.Fields{"page": page})
			return nil
		}

		if len(result.Records) == 0 {
			crawlLogger.Info("No records on page, pagination finished", port.Fields{"page": page})
			return nil
		}

		if err := handle(ctx, page, result.Records); err != nil {
			return err
		}

		if !result.HasNextPage {
			return nil
		}
	}

	return nil
}

// extractPage запрашивает extraction-сервис для одной страницы выдачи
func (a *Rental591FetcherAdapter) extractPage(ctx context.Context, logger port.LoggerPort, pageURL string, page int) (*extractionResult, error) {
	// Одноразовый клон: наследует лимиты, но имеет свои обработчики
	collector := a.collector.Clone()

	var result *extractionResult
	var responseErr error

	collector.OnRequest(func(r *colly.Request) {
		logger.Debug("Requesting extraction", port.Fields{"url": r.URL.String()})
	})

	collector.OnResponse(func(r *colly.Response) {
		var data extractionResult
		if jsonErr := json.Unmarshal(r.Body, &data); jsonErr != nil {
			responseErr = &domain.ExtractionError{Source: a.Source(), Page: page, Err: jsonErr}
			return
		}
		result = &data
	})

	collector.OnError(func(r *colly.Response, err error) {
		logger.Error("Extraction request failed", err, port.Fields{
			"url":    r.Request.URL.String(),
			"status": r.StatusCode,
		})
		responseErr = fmt.Errorf("request to %s failed with status %d: %w", r.Request.URL, r.StatusCode, err)
	})

	requestURL := a.extractorURL + "/extract?url=" + url.QueryEscape(pageURL)
	if visitErr := collector.Visit(requestURL); visitErr != nil {
		return nil, fmt.Errorf("failed to visit extractor: %w", visitErr)
	}
	collector.Wait()

	if responseErr != nil {
		return nil, responseErr
	}
	if result == nil {
		return nil, fmt.Errorf("extractor returned no response for %s", pageURL)
	}
	return result, nil
}
