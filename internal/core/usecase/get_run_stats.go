package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"rental-hub-service/internal/contextkeys"
	"rental-hub-service/internal/core/domain"
	"rental-hub-service/internal/core/port"
)

// GetRunStatsUseCase — сводка по журналу краулера: счётчики по статусам,
// дневная разбивка за последнюю неделю и агрегаты по источникам.
type GetRunStatsUseCase struct {
	runs port.CrawlRunStoragePort
}

func NewGetRunStatsUseCase(runs port.CrawlRunStoragePort) *GetRunStatsUseCase {
	return &GetRunStatsUseCase{runs: runs}
}

func (uc *GetRunStatsUseCase) Execute(ctx context.Context) (*domain.RunStats, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "GetRunStats"})

	total, err := uc.runs.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count crawl runs: %w", err)
	}

	successful, err := uc.runs.CountByStatus(ctx, domain.RunStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("count completed runs: %w", err)
	}
	failed, err := uc.runs.CountByStatus(ctx, domain.RunStatusFailed)
	if err != nil {
		return nil, fmt.Errorf("count failed runs: %w", err)
	}
	running, err := uc.runs.CountByStatus(ctx, domain.RunStatusRunning)
	if err != nil {
		return nil, fmt.Errorf("count running runs: %w", err)
	}

	recent, err := uc.runs.RecentRuns(ctx, time.Now().AddDate(0, 0, -7))
	if err != nil {
		ucLogger.Error("Failed to load recent runs", err, nil)
		return nil, fmt.Errorf("load recent runs: %w", err)
	}

	sourceStats, err := uc.runs.StatsBySource(ctx)
	if err != nil {
		return nil, fmt.Errorf("load per-source stats: %w", err)
	}

	stats := &domain.RunStats{
		TotalRuns:      total,
		SuccessfulRuns: successful,
		FailedRuns:     failed,
		RunningRuns:    running,
		DailyStats:     aggregateDaily(recent),
		SourceStats:    sourceStats,
	}
	if total > 0 {
		stats.SuccessRate = math.Round(float64(successful)/float64(total)*1000) / 10
	}

	ucLogger.Debug("Run stats aggregated", port.Fields{"total_runs": total})
	return stats, nil
}

func aggregateDaily(runs []domain.CrawlRun) []domain.DailyStat {
	byDate := make(map[string]*domain.DailyStat)
	for _, run := range runs {
		date := run.StartedAt.Format("2006-01-02")
		stat, ok := byDate[date]
		if !ok {
			stat = &domain.DailyStat{Date: date}
			byDate[date] = stat
		}
		stat.Total++
		switch run.Status {
		case domain.RunStatusCompleted:
			stat.Successful++
		case domain.RunStatusFailed:
			stat.Failed++
		}
		stat.TotalFound += run.TotalFound
		stat.NewProperties += run.NewProperties
	}

	daily := make([]domain.DailyStat, 0, len(byDate))
	for _, stat := range byDate {
		daily = append(daily, *stat)
	}
	sort.Slice(daily, func(i, j int) bool { return daily[i].Date > daily[j].Date })
	return daily
}
