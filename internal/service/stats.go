package service

import (
	"context"
	"fmt"

	"giftcode_bot/internal/model"
)

type StatsService struct {
	repo StatsRepository
}

func NewStatsService(repo StatsRepository) *StatsService {
	return &StatsService{repo: repo}
}

func (s *StatsService) BotStats(ctx context.Context) (*model.BotStats, error) {
	stats, err := s.repo.GetBotStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get bot stats: %w", err)
	}
	return stats, nil
}

func (s *StatsService) TopReferrers(ctx context.Context, limit int) ([]*model.TopReferrer, error) {
	top, err := s.repo.GetTopReferrers(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top referrers: %w", err)
	}
	return top, nil
}
