package rakuya

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"

	"rental-hub-service/internal/constants"
	"rental-hub-service/internal/core/domain"
	"rental-hub-service/internal/core/port"
)

// RakuyaFetcherAdapter разбирает HTML выдачи Rakuya напрямую, без
// extraction-сервиса: страницы выдачи рендерятся сервером.
type RakuyaFetcherAdapter struct {
	collector *colly.Collector
}

func NewRakuyaFetcherAdapter() (*RakuyaFetcherAdapter, error) {
	c := colly.NewCollector(
		colly.AllowedDomains("www.rakuya.com.tw", "rakuya.com.tw"),
		colly.AllowURLRevisit(),
	)

	err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*rakuya.com.tw",
		Parallelism: 1,
		RandomDelay: 3 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("rakuya adapter: failed to set limit rule: %w", err)
	}

	extensions.RandomUserAgent(c)
	extensions.Referer(c)

	return &RakuyaFetcherAdapter{collector: c}, nil
}

func (a *RakuyaFetcherAdapter) Source() string { return domain.SourceRakuya }

func (a *RakuyaFetcherAdapter) Origin() string { return constants.RakuyaOrigin }

// buildSearchURL собирает адрес страницы выдачи аренды Rakuya
func (a *RakuyaFetcherAdapter) buildSearchURL(opts domain.CrawlOptions, page int) string {
	q := url.Values{}
	city := opts.Region
	if city == "" {
		city = constants.RegionTaipei
	}
	q.Set("city", city)
	if opts.Section != "" {
		q.Set("zipcode", opts.Section)
	}
	if opts.RentPrice != "" {
		q.Set("price", opts.RentPrice)
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	return constants.RakuyaOrigin + "/rent/rent_search?" + q.Encode()
}

var _ port.SourceFetcherPort = (*RakuyaFetcherAdapter)(nil)
