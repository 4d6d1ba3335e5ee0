package rakuya

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"rental-hub-service/internal/constants"
	"rental-hub-service/internal/contextkeys"
	"rental-hub-service/internal/core/domain"
	"rental-hub-service/internal/core/port"
)

// Crawl обходит страницы выдачи Rakuya по порядку, как и 591:
// первая недоступная страница фатальна, дальше — частичный успех.
func (a *RakuyaFetcherAdapter) Crawl(ctx context.Context, opts domain.CrawlOptions, handle port.PageHandler) error {
	logger := contextkeys.LoggerFromContext(ctx)
	crawlLogger := logger.WithFields(port.Fields{"component": "RakuyaFetcherAdapter"})

	maxPages := opts.MaxPages
	if maxPages < 1 {
		maxPages = constants.DefaultMaxPages
	}

	for page := 1; page <= maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		targetURL := a.buildSearchURL(opts, page)
		records, hasNext, err := a.fetchPage(crawlLogger, targetURL, page)
		if err != nil {
			if page == 1 {
				return &domain.NavigationError{Source: a.Source(), URL: targetURL, Err: err}
			}
			crawlLogger.Error("Page parse failed mid-pagination, stopping", err, port.Fields{"page": page})
			return nil
		}

		if len(records) == 0 {
			crawlLogger.Info("No records on page, pagination finished", port.Fields{"page": page})
			return nil
		}

		if err := handle(ctx, page, records); err != nil {
			return err
		}

		if !hasNext {
			return nil
		}
	}

	return nil
}

func (a *RakuyaFetcherAdapter) fetchPage(logger port.LoggerPort, targetURL string, page int) ([]domain.RawListing, bool, error) {
	collector := a.collector.Clone()

	var records []domain.RawListing
	var hasNext bool
	var responseErr error

	collector.OnRequest(func(r *colly.Request) {
		logger.Debug("Fetching listing page", port.Fields{"url": r.URL.String()})
	})

	collector.OnResponse(func(r *colly.Response) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if err != nil {
			responseErr = &domain.ExtractionError{Source: a.Source(), Page: page, Err: err}
			return
		}
		records = parseListings(doc)
		hasNext = doc.Find("a.pagination-next, .pagination a[rel='next']").Length() > 0
	})

	collector.OnError(func(r *colly.Response, err error) {
		logger.Error("Listing page request failed", err, port.Fields{
			"url":    r.Request.URL.String(),
			"status": r.StatusCode,
		})
		responseErr = fmt.Errorf("request to %s failed with status %d: %w", r.Request.URL, r.StatusCode, err)
	})

	if visitErr := collector.Visit(targetURL); visitErr != nil {
		return nil, false, fmt.Errorf("failed to visit %s: %w", targetURL, visitErr)
	}
	collector.Wait()

	if responseErr != nil {
		return nil, false, responseErr
	}
	return records, hasNext, nil
}

// parseListings выбирает карточки из HTML выдачи. Поля остаются сырыми
// строками: разбор цен и площадей — работа нормализатора.
func parseListings(doc *goquery.Document) []domain.RawListing {
	records := []domain.RawListing{}

	doc.Find("div.obj-info").Each(func(_ int, s *goquery.Selection) {
		var raw domain.RawListing

		link := s.Find("h6.obj-title a").First()
		raw.Title = strings.TrimSpace(link.Text())
		raw.URL, _ = link.Attr("href")

		raw.Price = strings.TrimSpace(s.Find(".obj-price").First().Text())
		raw.Address = strings.TrimSpace(s.Find(".obj-address").First().Text())

		// Блок параметров: 格局 / 坪數 / 樓層 через разделители
		details := strings.TrimSpace(s.Find(".obj-data").First().Text())
		for _, part := range strings.FieldsFunc(details, func(r rune) bool {
			return r == '|' || r == '/' || r == '·'
		}) {
			part = strings.TrimSpace(part)
			switch {
			case strings.Contains(part, "坪"):
				raw.Area = part
			case strings.Contains(part, "樓"):
				raw.Floor = part
			case part != "":
				if raw.RoomType == "" {
					raw.RoomType = part
				}
			}
		}

		s.Find(".obj-tag").Each(func(_ int, tag *goquery.Selection) {
			if t := strings.TrimSpace(tag.Text()); t != "" {
				raw.Features = append(raw.Features, t)
			}
		})

		if img, ok := s.Find("img").First().Attr("src"); ok && img != "" {
			raw.Images = append(raw.Images, img)
		}

		if raw.Title == "" && raw.URL == "" {
			return // пустая карточка-заглушка
		}
		records = append(records, raw)
	})

	return records
}
