package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"rental-hub-service/internal/core/domain"
	"rental-hub-service/internal/core/port/usecases_port"
)

// SearchHandler обслуживает поиск: структурированный, по свободному
// тексту и подсказки автодополнения
type SearchHandler struct {
	search  usecases_port.SearchListingsUseCase
	natural usecases_port.NaturalLanguageSearchUseCase
	suggest usecases_port.SuggestUseCase
}

func NewSearchHandler(
	search usecases_port.SearchListingsUseCase,
	natural usecases_port.NaturalLanguageSearchUseCase,
	suggest usecases_port.SuggestUseCase,
) *SearchHandler {
	return &SearchHandler{search: search, natural: natural, suggest: suggest}
}

// StructuredSearch обрабатывает GET /api/v1/search —
// тот же фильтр, что и каталог, но с эхом применённых критериев
func (h *SearchHandler) StructuredSearch(w http.ResponseWriter, r *http.Request) {
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
		WriteJSONError(w, http.StatusInternalServerError, "search failed")
		return
	}

	RespondWithJSON(w, http.StatusOK, result)
}

type naturalSearchRequest struct {
	Query string `json:"query"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

// NaturalSearch обрабатывает POST /api/v1/search/natural.
// Непереводимый запрос — это 422, а не пустая выдача.
func (h *SearchHandler) NaturalSearch(w http.ResponseWriter, r *http.Request) {
	var req naturalSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		WriteJSONError(w, http.StatusBadRequest, "query is required")
		return
	}

	result, err := h.natural.Execute(r.Context(), req.Query, req.Page, req.Limit)
	if err != nil {
		var te *domain.TranslationError
		if errors.As(err, &te) {
			WriteJSONError(w, http.StatusUnprocessableEntity, "could not understand the query")
			return
		}
		WriteJSONError(w, http.StatusInternalServerError, "search failed")
		return
	}

	RespondWithJSON(w, http.StatusOK, result)
}

type suggestionsResponse struct {
	Suggestions []domain.Suggestion `json:"suggestions"`
}

// Suggestions обрабатывает GET /api/v1/search/suggestions?q=...
func (h *SearchHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.suggest.Execute(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, "failed to load suggestions")
		return
	}
	if suggestions == nil {
		suggestions = []domain.Suggestion{}
	}
	RespondWithJSON(w, http.StatusOK, suggestionsResponse{Suggestions: suggestions})
}
