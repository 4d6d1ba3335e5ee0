package port

import (
	"context"

	"rental-hub-service/internal/core/domain"
)

// PageHandler вызывается на каждую извлечённую страницу в порядке пагинации.
// Возврат ошибки останавливает обход источника.
type PageHandler func(ctx context.Context, page int, records []domain.RawListing) error

// SourceFetcherPort — стратегия обхода одного сайта-источника.
// Crawl выдаёт страницы лениво и строго по порядку: страница N+1
// запрашивается только после того, как обработчик завершил страницу N.
//
// Ошибки: *domain.NavigationError если источник недоступен (фатально для
// запуска); неудача извлечения непервой страницы логируется и завершает
// пагинацию без ошибки (частичный успех).
type SourceFetcherPort interface {
	Source() string

	// Origin — корень сайта-источника, нужен нормализатору
	// для достройки относительных ссылок.
	Origin() string

	Crawl(ctx context.Context, opts domain.CrawlOptions, handle PageHandler) error
}
