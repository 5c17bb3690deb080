package scheduler

import (
	"context"
	"time"

	"github.com/AbdulWasayUl/go-weather-bot/internal/logger"
	"github.com/go-co-op/gocron"
)

// DailyAt is the UTC wall-clock time maintenance jobs run.
const DailyAt = "01:00"

type SchedulableService interface {
	Name() string
	RunBatchJob(ctx context.Context) error
}

type Scheduler struct {
	Cron *gocron.Scheduler
	At   string
}

func New() (*Scheduler, error) {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		Cron: s,
		At:   DailyAt,
	}, nil
}

func (s *Scheduler) StartJob(ctx context.Context, services []SchedulableService) error {
	_, err := s.Cron.Every(1).Day().At(s.At).Do(func() {
		s.runAllJobs(ctx, services)
	})
	if err != nil {
		logger.Error("Failed to schedule job: %v", err)
		return err
	}

	s.Cron.StartAsync()
	return nil
}

func (s *Scheduler) runAllJobs(ctx context.Context, services []SchedulableService) {
	logger.Info("--- Daily Maintenance Job Started ---")
	defer logger.Info("--- Daily Maintenance Job Finished ---")

	for _, service := range services {
		if err := service.RunBatchJob(ctx); err != nil {
			logger.Error("Error running batch job for %s: %v", service.Name(), err)
		}
	}
}

func (s *Scheduler) RunImmediateJob(ctx context.Context, services []SchedulableService) {
	logger.Info("--- Immediate Maintenance Job Started ---")
	defer logger.Info("--- Immediate Maintenance Job Finished ---")

	s.runAllJobs(ctx, services)
}

func (s *Scheduler) Stop() {
	s.Cron.Stop()
}
