package postgres

import (
	"strings"
	"testing"

	"rental-hub-service/internal/core/domain"
)

func strPtr(s string) *string    { return &s }
func intPtr(n int) *int          { return &n }
func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool       { return &b }

func TestApplyFilters_EmptyCriteria(t *testing.T) {
	where, args := applyFilters(domain.SearchCriteria{})
	if where != "WHERE p.is_active = true" {
		t.Errorf("where = %q", where)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want none", args)
	}
}

func TestApplyFilters_FullCriteria(t *testing.T) {
	criteria := domain.SearchCriteria{
		District:    strPtr("大安區"),
		MinPrice:    intPtr(15000),
		MaxPrice:    intPtr(25000),
		MinArea:     floatPtr(8),
		MaxArea:     floatPtr(20),
		RoomType:    strPtr("套房"),
		NearMRT:     strPtr("大安"),
		HasParking:  boolPtr(true),
		HasElevator: boolPtr(true),
	}

	where, args := applyFilters(criteria)

	for _, fragment := range []string{
		"p.district ILIKE", "p.room_type ILIKE", "p.near_mrt ILIKE",
		"p.price >=", "p.price <=", "p.area >=", "p.area <=",
		"p.has_parking =", "p.has_elevator =",
	} {
		if !strings.Contains(where, fragment) {
			t.Errorf("where %q is missing %q", where, fragment)
		}
	}
	if len(args) != 9 {
		t.Errorf("args = %d, want 9", len(args))
	}
	// Плейсхолдеры нумеруются подряд
	if !strings.Contains(where, "$1") || !strings.Contains(where, "$9") {
		t.Errorf("where %q has broken placeholder numbering", where)
	}
}

// Район и тип жилья ищутся подстрокой: "大安" должен находить "大安區",
// "套房" — "獨立套房". Аргументы обёрнуты в %...%.
func TestApplyFilters_TextFieldsMatchSubstring(t *testing.T) {
	where, args := applyFilters(domain.SearchCriteria{
		District: strPtr("大安"),
		RoomType: strPtr("套房"),
	})

	if !strings.Contains(where, "p.district ILIKE $1") || !strings.Contains(where, "p.room_type ILIKE $2") {
		t.Errorf("where = %q, want ILIKE conditions for district and room_type", where)
	}
	if len(args) != 2 || args[0] != "%大安%" || args[1] != "%套房%" {
		t.Errorf("args = %v, want wrapped substring patterns", args)
	}
}

// minPrice = maxPrice — валидный точечный диапазон, обе границы включительны.
func TestApplyFilters_PointPriceRange(t *testing.T) {
	where, args := applyFilters(domain.SearchCriteria{
		MinPrice: intPtr(20000),
		MaxPrice: intPtr(20000),
	})

	if !strings.Contains(where, "p.price >= $1") || !strings.Contains(where, "p.price <= $2") {
		t.Errorf("where = %q, want both inclusive price bounds", where)
	}
	if len(args) != 2 || args[0] != 20000 || args[1] != 20000 {
		t.Errorf("args = %v, want [20000 20000]", args)
	}
}

// Запрошенный false не сужает выборку: false у объявления означает
// "не обнаружено", а не "подтверждённо отсутствует".
func TestApplyFilters_FalseFlagIgnored(t *testing.T) {
	where, args := applyFilters(domain.SearchCriteria{HasPet: boolPtr(false)})
	if strings.Contains(where, "has_pet") {
		t.Errorf("where = %q, false flag must not filter", where)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want none", args)
	}
}

func TestOrderClause(t *testing.T) {
	tests := []struct {
		sortBy    string
		sortOrder string
		want      string
	}{
		{"price", "asc", "ORDER BY p.price ASC, p.id"},
		{"price", "desc", "ORDER BY p.price DESC, p.id"},
		{"viewCount", "", "ORDER BY p.view_count DESC, p.id"},
		{"lastSeenAt", "", "ORDER BY p.last_seen_at DESC, p.id"},
		// по умолчанию — недавно добавленные первыми
		{"", "", "ORDER BY p.created_at DESC, p.id"},
		// имена вне белого списка не попадают в SQL
		{"price; DROP TABLE properties", "asc", "ORDER BY p.created_at ASC, p.id"},
	}
	for _, tt := range tests {
		if got := orderClause(tt.sortBy, tt.sortOrder); got != tt.want {
			t.Errorf("orderClause(%q, %q) = %q, want %q", tt.sortBy, tt.sortOrder, got, tt.want)
		}
	}
}
