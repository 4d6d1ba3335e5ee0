package postgres

import (
	"fmt"
	"strings"

	"rental-hub-service/internal/core/domain"
)

type queryBuilder struct {
	conditions []string
	args       []interface{}
	argId      int
}

func newQueryBuilder() *queryBuilder {
	return &queryBuilder{
		argId:      1,
		conditions: []string{"p.is_active = true"},
		args:       make([]interface{}, 0),
	}
}

func (qb *queryBuilder) addCondition(condition string, fieldName string, arg interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, fieldName, qb.argId))
	qb.args = append(qb.args, arg)
	qb.argId++
}

// AddIntFilter принимает указатели: nil означает "граница не задана"
func (qb *queryBuilder) AddIntFilter(fieldName string, min *int, max *int) {
	if min != nil {
		qb.addCondition("%s >= $%d", fieldName, *min)
	}
	if max != nil {
		qb.addCondition("%s <= $%d", fieldName, *max)
	}
}

func (qb *queryBuilder) AddFloatFilter(fieldName string, min *float64, max *float64) {
	if min != nil {
		qb.addCondition("%s >= $%d", fieldName, *min)
	}
	if max != nil {
		qb.addCondition("%s <= $%d", fieldName, *max)
	}
}

// AddBoolFilter ограничивает выборку только при запрошенном true:
// флаг false у объявления не означает подтверждённого отсутствия удобства.
func (qb *queryBuilder) AddBoolFilter(fieldName string, flag *bool) {
	if flag != nil && *flag {
		qb.addCondition("%s = $%d", fieldName, true)
	}
}

func (qb *queryBuilder) build() (string, []interface{}) {
	whereClause := ""
	if len(qb.conditions) > 0 {
		whereClause = "WHERE " + strings.Join(qb.conditions, " AND ")
	}
	return whereClause, qb.args
}

// applyFilters разбирает критерии поиска и строит WHERE-часть запроса
func applyFilters(criteria domain.SearchCriteria) (string, []interface{}) {
	qb := newQueryBuilder()

	// Район — поиск подстроки без учёта регистра: "大安" находит "大安區"
	if criteria.District != nil && *criteria.District != "" {
		qb.addCondition("%s ILIKE $%d", "p.district", "%"+*criteria.District+"%")
	}

	// Тип жилья — тоже подстрока: "套房" находит "獨立套房"
	if criteria.RoomType != nil && *criteria.RoomType != "" {
		qb.addCondition("%s ILIKE $%d", "p.room_type", "%"+*criteria.RoomType+"%")
	}

	// Станция метро — поиск подстроки
	if criteria.NearMRT != nil && *criteria.NearMRT != "" {
		qb.addCondition("%s ILIKE $%d", "p.near_mrt", "%"+*criteria.NearMRT+"%")
	}

	qb.AddIntFilter("p.price", criteria.MinPrice, criteria.MaxPrice)
	qb.AddFloatFilter("p.area", criteria.MinArea, criteria.MaxArea)

	qb.AddBoolFilter("p.has_parking", criteria.HasParking)
	qb.AddBoolFilter("p.has_pet", criteria.HasPet)
	qb.AddBoolFilter("p.has_cooking", criteria.HasCooking)
	qb.AddBoolFilter("p.has_elevator", criteria.HasElevator)
	qb.AddBoolFilter("p.has_balcony", criteria.HasBalcony)
	qb.AddBoolFilter("p.has_washer", criteria.HasWasher)

	return qb.build()
}

// Разрешённые поля сортировки: имена колонок подставляются в SQL,
// поэтому всё вне белого списка сводится к значению по умолчанию.
var sortableColumns = map[string]string{
	"price":      "p.price",
	"area":       "p.area",
	"viewCount":  "p.view_count",
	"createdAt":  "p.created_at",
	"lastSeenAt": "p.last_seen_at",
}

func orderClause(sortBy, sortOrder string) string {
	// По умолчанию — сначала недавно добавленные
	column, ok := sortableColumns[sortBy]
	if !ok {
		column = "p.created_at"
	}
	direction := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		direction = "ASC"
	}
	return fmt.Sprintf("ORDER BY %s %s, p.id", column, direction)
}
