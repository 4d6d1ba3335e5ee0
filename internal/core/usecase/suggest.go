package usecase

import (
	"context"
	"fmt"
	"strings"

	"rental-hub-service/internal/contextkeys"
	"rental-hub-service/internal/core/domain"
	"rental-hub-service/internal/core/normalizer"
	"rental-hub-service/internal/core/port"
)

// Не больше пяти подсказок на категорию — как у исходного эндпоинта.
const suggestionsPerCategory = 5

// SuggestUseCase — автодополнение по уникальным значениям
// района, станции метро и типа жилья.
type SuggestUseCase struct {
	storage port.ListingStoragePort
}

func NewSuggestUseCase(storage port.ListingStoragePort) *SuggestUseCase {
	return &SuggestUseCase{storage: storage}
}

func (uc *SuggestUseCase) Execute(ctx context.Context, prefix string) ([]domain.Suggestion, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "Suggest", "q": prefix})

	q := strings.TrimSpace(normalizer.FoldWidth(prefix))
	if len([]rune(q)) < 2 {
		return []domain.Suggestion{}, nil
	}

	categories := []struct {
		field string
		typ   string
	}{
		{"district", "district"},
		{"near_mrt", "mrt"},
		{"room_type", "roomType"},
	}

	suggestions := []domain.Suggestion{}
	for _, cat := range categories {
		values, err := uc.storage.DistinctValues(ctx, cat.field, q, suggestionsPerCategory)
		if err != nil {
			ucLogger.Error("Failed to load distinct values", err, port.Fields{"field": cat.field})
			return nil, fmt.Errorf("load %s suggestions: %w", cat.field, err)
		}
		for _, v := range values {
			if strings.TrimSpace(v) == "" {
				continue
			}
			suggestions = append(suggestions, domain.Suggestion{Type: cat.typ, Value: v})
		}
	}

	ucLogger.Debug("Suggestions collected", port.Fields{"count": len(suggestions)})
	return suggestions, nil
}
