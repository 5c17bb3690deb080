package history

import (
	"context"
	"fmt"
	"time"

	"github.com/AbdulWasayUl/go-weather-bot/internal/logger"
	"github.com/AbdulWasayUl/go-weather-bot/models"
)

// RecentLimit is how many lookups /history shows.
const RecentLimit = 5

type Repository interface {
	Insert(ctx context.Context, l models.Lookup) error
	Recent(ctx context.Context, chatID int64, limit int64) ([]models.Lookup, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Service records lookups per chat and prunes them after the retention window.
// A nil *Service is valid and behaves as disabled history.
type Service struct {
	Repo      Repository
	Retention time.Duration
	Now       func() time.Time
}

func NewService(repo Repository, retention time.Duration) *Service {
	return &Service{
		Repo:      repo,
		Retention: retention,
		Now:       time.Now,
	}
}

func (s *Service) Enabled() bool {
	return s != nil && s.Repo != nil
}

// Record stores a lookup. Failures are logged, never returned: history must not affect replies.
func (s *Service) Record(ctx context.Context, l models.Lookup) {
	if !s.Enabled() {
		return
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = s.Now().UTC()
	}
	if err := s.Repo.Insert(ctx, l); err != nil {
		logger.Error("[history] failed to record lookup for chat %d: %v", l.ChatID, err)
	}
}

func (s *Service) Recent(ctx context.Context, chatID int64) ([]models.Lookup, error) {
	if !s.Enabled() {
		return nil, nil
	}
	return s.Repo.Recent(ctx, chatID, RecentLimit)
}

// RunBatchJob prunes lookups older than the retention window.
func (s *Service) RunBatchJob(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	cutoff := s.Now().UTC().Add(-s.Retention)
	logger.Info("[history] Pruning lookups older than %s", cutoff.Format(time.RFC3339))

	deleted, err := s.Repo.DeleteBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("history prune: %w", err)
	}
	logger.Info("[history] Pruned %d lookups.", deleted)
	return nil
}

func (s *Service) Name() string {
	return "history"
}
