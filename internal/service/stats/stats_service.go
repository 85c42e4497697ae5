package stats

import (
	"context"

	"userdir/internal/http/api"
	"userdir/internal/models"
	"userdir/internal/service"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=StatsProvider
type StatsProvider interface {
	GetUserStats(ctx context.Context) (*models.UserStatistics, error)
	CountBy(ctx context.Context, column string) ([]*models.GroupCount, error)
}

type StatsService struct {
	statsProvider StatsProvider
	trm           service.TransactionManager
}

func NewStatsService(trm service.TransactionManager, statsProvider StatsProvider) *StatsService {
	return &StatsService{
		trm:           trm,
		statsProvider: statsProvider,
	}
}

func (s *StatsService) GetStatistics(ctx context.Context) (*api.StatsResponse, error) {

	resp := &api.StatsResponse{
		ByStatus: []api.GroupCount{},
		ByGender: []api.GroupCount{},
	}

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		userStats, err := s.statsProvider.GetUserStats(ctx)
		if err != nil {
			return err
		}
		byStatus, err := s.statsProvider.CountBy(ctx, "status")
		if err != nil {
			return err
		}
		byGender, err := s.statsProvider.CountBy(ctx, "gender")
		if err != nil {
			return err
		}

		resp.Total = userStats.Total
		resp.Programmers = userStats.Programmers
		resp.AverageAge = userStats.AverageAge

		for _, g := range byStatus {
			resp.ByStatus = append(resp.ByStatus, api.GroupCount(*g))
		}
		for _, g := range byGender {
			resp.ByGender = append(resp.ByGender, api.GroupCount(*g))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}
