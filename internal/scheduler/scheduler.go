package scheduler

import (
	"context"
	"sync"
	"time"

	"rental-hub-service/internal/core/port"
)

// Task — одна периодическая задача
type Task func(ctx context.Context) error

// Scheduler запускает задачу сразу и затем по тикеру.
// Если прошлый запуск ещё идёт, очередной тик пропускается.
type Scheduler struct {
	interval time.Duration
	name     string
	task     Task
	logger   port.LoggerPort

	running sync.Mutex
}

func New(interval time.Duration, name string, task Task, logger port.LoggerPort) *Scheduler {
	return &Scheduler{
		interval: interval,
		name:     name,
		task:     task,
		logger:   logger.WithFields(port.Fields{"job": name}),
	}
}

// Run блокирует до отмены контекста
func (s *Scheduler) Run(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()

	s.logger.Info("Job scheduled", port.Fields{"interval": s.interval.String()})

	// первый запуск сразу, не дожидаясь первого тика
	go s.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Job stopped", nil)
			return
		case <-t.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if !s.running.TryLock() {
		s.logger.Warn("Previous run still in progress, skipping tick", nil)
		return
	}
	defer s.running.Unlock()

	start := time.Now()
	if err := s.task(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Error("Job run failed", err, port.Fields{
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return
	}
	s.logger.Info("Job run finished", port.Fields{
		"duration_ms": time.Since(start).Milliseconds(),
	})
}
