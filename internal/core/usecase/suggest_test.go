package usecase

import (
	"context"
	"testing"

	"rental-hub-service/internal/core/domain"
)

func TestSuggest_ShortQueryReturnsNothing(t *testing.T) {
	storage := newFakeListingStorage()
	storage.distinct["district"] = []string{"大安區"}
	uc := NewSuggestUseCase(storage)

	for _, q := range []string{"", " ", "大", "  a  "} {
		suggestions, err := uc.Execute(context.Background(), q)
		if err != nil {
			t.Fatalf("Execute(%q) error = %v", q, err)
		}
		if len(suggestions) != 0 {
			t.Errorf("Execute(%q) = %v, want empty", q, suggestions)
		}
	}
}

func TestSuggest_CollectsAcrossCategories(t *testing.T) {
	storage := newFakeListingStorage()
	storage.distinct["district"] = []string{"大安區", "大同區"}
	storage.distinct["near_mrt"] = []string{"大安站"}
	storage.distinct["room_type"] = []string{}
	uc := NewSuggestUseCase(storage)

	suggestions, err := uc.Execute(context.Background(), "大安")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := []domain.Suggestion{
		{Type: "district", Value: "大安區"},
		{Type: "district", Value: "大同區"},
		{Type: "mrt", Value: "大安站"},
	}
	if len(suggestions) != len(want) {
		t.Fatalf("suggestions = %v, want %v", suggestions, want)
	}
	for i := range want {
		if suggestions[i] != want[i] {
			t.Errorf("suggestions[%d] = %v, want %v", i, suggestions[i], want[i])
		}
	}
}

func TestSuggest_CapsPerCategory(t *testing.T) {
	storage := newFakeListingStorage()
	storage.distinct["district"] = []string{"中山區", "中正區", "中和區", "中壢區", "中西區", "中區"}
	uc := NewSuggestUseCase(storage)

	suggestions, err := uc.Execute(context.Background(), "中正")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(suggestions) != suggestionsPerCategory {
		t.Errorf("suggestions = %d, want cap of %d", len(suggestions), suggestionsPerCategory)
	}
}

// Полноширинный ввод приводится к обычному перед поиском.
func TestSuggest_FoldsFullWidthInput(t *testing.T) {
	storage := newFakeListingStorage()
	uc := NewSuggestUseCase(storage)

	// "ＭＲＴ" после свёртки — "MRT", три руны, достаточно для запроса
	suggestions, err := uc.Execute(context.Background(), "ＭＲＴ")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if suggestions == nil {
		t.Error("expected empty slice, not nil")
	}
}
