package nlquery

import (
	"context"

	"rental-hub-service/internal/core/domain"
	"rental-hub-service/internal/core/port"
)

// DisabledTranslator подменяет языковой сервис, когда он не сконфигурирован.
// Каждый запрос завершается ошибкой перевода, остальные эндпоинты работают.
type DisabledTranslator struct{}

func NewDisabledTranslator() *DisabledTranslator { return &DisabledTranslator{} }

func (t *DisabledTranslator) Translate(context.Context, string) (*domain.SearchCriteria, error) {
	return nil, &domain.TranslationError{Reason: "natural language search is not configured"}
}

var _ port.QueryTranslatorPort = (*DisabledTranslator)(nil)
