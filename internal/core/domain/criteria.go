package domain

import (
	"time"

	"github.com/google/uuid"
)

// SearchCriteria — структурированный фильтр поиска. Значение-объект,
// не сущность. nil означает "условие не задано"; булевы флаги
// ограничивают выборку только значением true (запросить "без лифта" нельзя).
type SearchCriteria struct {
	District *string  `json:"district"`
	MinPrice *int     `json:"minPrice"`
	MaxPrice *int     `json:"maxPrice"`
	MinArea  *float64 `json:"minArea"`
	MaxArea  *float64 `json:"maxArea"`
	RoomType *string  `json:"roomType"`
	NearMRT  *string  `json:"nearMRT"`

	HasParking  *bool `json:"hasParking"`
	HasPet      *bool `json:"hasPet"`
	HasCooking  *bool `json:"hasCooking"`
	HasElevator *bool `json:"hasElevator"`
	HasBalcony  *bool `json:"hasBalcony"`
	HasWasher   *bool `json:"hasWasher"`
}

// SearchQueryLog — append-only запись об одном запросе на естественном языке.
// Единственное допустимое обновление — дозапись resultCount после выполнения.
type SearchQueryLog struct {
	ID          uuid.UUID       `json:"id"`
	Query       string          `json:"query"`
	Criteria    *SearchCriteria `json:"criteria"`
	ResultCount *int            `json:"resultCount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Suggestion — одна подсказка автодополнения.
type Suggestion struct {
	Type  string `json:"type"` // district | mrt | roomType
	Value string `json:"value"`
}
