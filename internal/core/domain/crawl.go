package domain

import (
	"time"

	"github.com/google/uuid"
)

// Статусы одного запуска краулера. Переход строго
// RUNNING -> COMPLETED | FAILED, запись после финализации неизменяема.
const (
	RunStatusRunning   = "RUNNING"
	RunStatusCompleted = "COMPLETED"
	RunStatusFailed    = "FAILED"
)

// CrawlOptions — параметры одного прохода по источнику.
type CrawlOptions struct {
	Region    string `json:"region"`
	Section   string `json:"section"`
	Kind      string `json:"kind"`
	RentPrice string `json:"rentprice"`
	Area      string `json:"area"`
	MaxPages  int    `json:"maxPages"`
}

// CrawlRun — запись об одной попытке обхода одного источника.
type CrawlRun struct {
	ID                uuid.UUID  `json:"id"`
	Source            string     `json:"source"`
	Status            string     `json:"status"`
	TotalFound        int        `json:"totalFound"`
	NewProperties     int        `json:"newProperties"`
	UpdatedProperties int        `json:"updatedProperties"`
	ErrorMessage      *string    `json:"errorMessage"`
	StartedAt         time.Time  `json:"startedAt"`
	CompletedAt       *time.Time `json:"completedAt"`
}

// RunError — ошибка одного источника внутри общего вызова crawlAll.
type RunError struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// RunSummary — агрегат по всем источникам одного вызова.
type RunSummary struct {
	TotalFound        int        `json:"totalFound"`
	NewProperties     int        `json:"newProperties"`
	UpdatedProperties int        `json:"updatedProperties"`
	Errors            []RunError `json:"errors"`
}

// RunLogsFilter — фильтр выборки журналов запусков.
type RunLogsFilter struct {
	Source    string
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
}

// CrawlRunPage — страница журналов.
type CrawlRunPage struct {
	Items []CrawlRun
	Total int
}

// SourceStat — агрегат по паре (источник, статус).
type SourceStat struct {
	Source        string `json:"source"`
	Status        string `json:"status"`
	Runs          int    `json:"runs"`
	TotalFound    int    `json:"totalFound"`
	NewProperties int    `json:"newProperties"`
}

// DailyStat — агрегат запусков за один день.
type DailyStat struct {
	Date          string `json:"date"`
	Total         int    `json:"total"`
	Successful    int    `json:"successful"`
	Failed        int    `json:"failed"`
	TotalFound    int    `json:"totalFound"`
	NewProperties int    `json:"newProperties"`
}

// RunStats — сводная статистика для админского эндпоинта.
type RunStats struct {
	TotalRuns      int          `json:"totalRuns"`
	SuccessfulRuns int          `json:"successfulRuns"`
	FailedRuns     int          `json:"failedRuns"`
	RunningRuns    int          `json:"runningRuns"`
	SuccessRate    float64      `json:"successRate"`
	DailyStats     []DailyStat  `json:"dailyStats"`
	SourceStats    []SourceStat `json:"sourceStats"`
}
