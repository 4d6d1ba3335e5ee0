package port

import (
	"context"

	"rental-hub-service/internal/core/domain"
)

// QueryTranslatorPort — перевод свободного текста в структурированные критерии
// через внешний языковой сервис. Реализация обязана вернуть
// *domain.TranslationError, если ответ сервиса не удалось разобрать, —
// откат к пустому фильтру запрещён.
type QueryTranslatorPort interface {
	Translate(ctx context.Context, query string) (*domain.SearchCriteria, error)
}
