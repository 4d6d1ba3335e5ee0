package rental591

import (
	"fmt"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"

	"rental-hub-service/internal/constants"
	"rental-hub-service/internal/core/domain"
	"rental-hub-service/internal/core/port"
)

// Rental591FetcherAdapter обходит выдачу 591 через extraction-сервис:
// сервис рендерит страницу и возвращает уже структурированные записи.
type Rental591FetcherAdapter struct {
	// родительский коллектор, который разделяет лимиты
	collector    *colly.Collector
	extractorURL string
}

func NewRental591FetcherAdapter(extractorURL string) (*Rental591FetcherAdapter, error) {
	if extractorURL == "" {
		return nil, fmt.Errorf("rental591 adapter: extractor URL is required")
	}
	extractorHost, err := url.Parse(extractorURL)
	if err != nil {
		return nil, fmt.Errorf("rental591 adapter: invalid extractor URL: %w", err)
	}

	c := colly.NewCollector(
		colly.AllowedDomains(extractorHost.Host, extractorHost.Hostname()),
		colly.AllowURLRevisit(),
	)

	// Правила наследуются всеми клонами коллектора
	err = c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		// задержка от 0 до 3 секунд после завершения предыдущего запроса
		RandomDelay: 3 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("rental591 adapter: failed to set limit rule: %w", err)
	}

	extensions.RandomUserAgent(c)
	extensions.Referer(c)

	return &Rental591FetcherAdapter{
		collector:    c,
		extractorURL: extractorURL,
	}, nil
}

func (a *Rental591FetcherAdapter) Source() string { return domain.SourceRental591 }

func (a *Rental591FetcherAdapter) Origin() string { return constants.Rental591Origin }

// buildSearchURL собирает адрес страницы выдачи 591 для заданных параметров
func (a *Rental591FetcherAdapter) buildSearchURL(opts domain.CrawlOptions, page int) string {
	q := url.Values{}
	region := opts.Region
	if region == "" {
		region = constants.RegionTaipei
	}
	q.Set("region", region)
	if opts.Section != "" {
		q.Set("section", opts.Section)
	}
	kind := opts.Kind
	if kind == "" {
		kind = constants.KindAny
	}
	q.Set("kind", kind)
	if opts.RentPrice != "" {
		q.Set("rentprice", opts.RentPrice)
	}
	if opts.Area != "" {
		q.Set("area", opts.Area)
	}
	if page > 1 {
		q.Set("page", fmt.Sprintf("%d", page))
	}
	return constants.Rental591Origin + "/list?" + q.Encode()
}

var _ port.SourceFetcherPort = (*Rental591FetcherAdapter)(nil)
