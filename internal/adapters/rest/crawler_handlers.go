package rest

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"rental-hub-service/internal/core/domain"
	"rental-hub-service/internal/core/port/usecases_port"
)

// CrawlerHandler обслуживает админские эндпоинты краулера
type CrawlerHandler struct {
	runCrawl usecases_port.RunCrawlUseCase
	runLogs  usecases_port.GetRunLogsUseCase
	runStats usecases_port.GetRunStatsUseCase

	// Параметры обхода по умолчанию, когда запрос их не переопределяет
	defaultOptions map[string]domain.CrawlOptions
}

func NewCrawlerHandler(
	runCrawl usecases_port.RunCrawlUseCase,
	runLogs usecases_port.GetRunLogsUseCase,
	runStats usecases_port.GetRunStatsUseCase,
	defaultOptions map[string]domain.CrawlOptions,
) *CrawlerHandler {
	return &CrawlerHandler{
		runCrawl:       runCrawl,
		runLogs:        runLogs,
		runStats:       runStats,
		defaultOptions: defaultOptions,
	}
}

type triggerRunRequest struct {
	Sources map[string]domain.CrawlOptions `json:"sources"`
}

// TriggerRun обрабатывает POST /api/v1/crawler/run — синхронный запуск
// обхода всех (или указанных) источников
func (h *CrawlerHandler) TriggerRun(w http.ResponseWriter, r *http.Request) {
	options := h.defaultOptions

	body, err := io.ReadAll(r.Body)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(body) > 0 {
		var req triggerRunRequest
		if err := json.Unmarshal(body, &req); err != nil {
			WriteJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(req.Sources) > 0 {
			options = req.Sources
		}
	}

	summary, err := h.runCrawl.Execute(r.Context(), options)
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, "crawl run failed")
		return
	}

	RespondWithJSON(w, http.StatusOK, summary)
}

// ListLogs обрабатывает GET /api/v1/crawler/logs с фильтрами
// source, status, startDate, endDate
func (h *CrawlerHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	filter := domain.RunLogsFilter{
		Source: r.URL.Query().Get("source"),
		Status: r.URL.Query().Get("status"),
	}

	var err error
	if filter.StartDate, err = queryDatePtr(r, "startDate"); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid startDate parameter")
		return
	}
	if filter.EndDate, err = queryDatePtr(r, "endDate"); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid endDate parameter")
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

	result, err := h.runLogs.Execute(r.Context(), filter, page, limit)
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, "failed to load crawler logs")
		return
	}

	RespondWithJSON(w, http.StatusOK, result)
}

// Stats обрабатывает GET /api/v1/crawler/stats
func (h *CrawlerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.runStats.Execute(r.Context())
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, "failed to load crawler stats")
		return
	}
	RespondWithJSON(w, http.StatusOK, stats)
}

// queryDatePtr принимает дату в формате RFC3339 либо YYYY-MM-DD
func queryDatePtr(r *http.Request, name string) (*time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		t, err = time.Parse("2006-01-02", v)
		if err != nil {
			return nil, err
		}
	}
	return &t, nil
}
