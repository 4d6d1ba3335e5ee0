package rest

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"rental-hub-service/internal/core/domain"
	"rental-hub-service/internal/core/port/usecases_port"
)

// PropertyHandler обслуживает каталог объявлений
type PropertyHandler struct {
	search     usecases_port.SearchListingsUseCase
	getListing usecases_port.GetListingUseCase
}

func NewPropertyHandler(search usecases_port.SearchListingsUseCase, getListing usecases_port.GetListingUseCase) *PropertyHandler {
	return &PropertyHandler{search: search, getListing: getListing}
}

// propertyListResponse — страница каталога без эха критериев
type propertyListResponse struct {
	Properties []domain.Listing               `json:"properties"`
	Pagination usecases_port.SearchPagination `json:"pagination"`
}

// ListProperties обрабатывает GET /api/v1/properties:
// фильтры приходят query-параметрами, выдача постранична
func (h *PropertyHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid filter parameter: "+err.Error())
		return
	}

	page, err := GetPageOrDefault(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid page parameter")
		return
	}
	limit, err := GetLimitOrDefault(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid limit parameter")
		return
	}

	result, err := h.search.Execute(r.Context(), criteria, page, limit,
		r.URL.Query().Get("sortBy"), r.URL.Query().Get("sortOrder"))
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, "failed to load properties")
		return
	}

	RespondWithJSON(w, http.StatusOK, propertyListResponse{
		Properties: result.Properties,
		Pagination: result.Pagination,
	})
}

// GetProperty обрабатывает GET /api/v1/properties/{id}
func (h *PropertyHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid property id")
		return
	}

	listing, err := h.getListing.Execute(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			WriteJSONError(w, http.StatusNotFound, "property not found")
			return
		}
		WriteJSONError(w, http.StatusInternalServerError, "failed to load property")
		return
	}

	RespondWithJSON(w, http.StatusOK, listing)
}

// criteriaFromQuery собирает структурированный фильтр из query-параметров.
// Отсутствующий параметр — отсутствующее условие.
func criteriaFromQuery(r *http.Request) (domain.SearchCriteria, error) {
	criteria := domain.SearchCriteria{
		District: queryStringPtr(r, "district"),
		RoomType: queryStringPtr(r, "roomType"),
		NearMRT:  queryStringPtr(r, "nearMRT"),

		HasParking:  queryBoolPtr(r, "hasParking"),
		HasPet:      queryBoolPtr(r, "hasPet"),
		HasCooking:  queryBoolPtr(r, "hasCooking"),
		HasElevator: queryBoolPtr(r, "hasElevator"),
		HasBalcony:  queryBoolPtr(r, "hasBalcony"),
		HasWasher:   queryBoolPtr(r, "hasWasher"),
	}

	var err error
	if criteria.MinPrice, err = queryIntPtr(r, "minPrice"); err != nil {
		return criteria, err
	}
	if criteria.MaxPrice, err = queryIntPtr(r, "maxPrice"); err != nil {
		return criteria, err
	}
	if criteria.MinArea, err = queryFloatPtr(r, "minArea"); err != nil {
		return criteria, err
	}
	if criteria.MaxArea, err = queryFloatPtr(r, "maxArea"); err != nil {
		return criteria, err
	}
	return criteria, nil
}
