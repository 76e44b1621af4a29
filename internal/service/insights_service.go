package service

import (
	"time"

	"github.com/dafibh/coinspot/coinspot-backend/internal/domain"
	"github.com/dafibh/coinspot/coinspot-backend/internal/util"
	"github.com/shopspring/decimal"
)

// InsightsService computes cross-goal reports. Nothing is cached; every call reads the store.
type InsightsService struct {
	goalRepo   domain.GoalRepository
	ledgerRepo domain.LedgerRepository
	now        func() time.Time
}

// NewInsightsService creates a new InsightsService
func NewInsightsService(goalRepo domain.GoalRepository, ledgerRepo domain.LedgerRepository) *InsightsService {
	return &InsightsService{
		goalRepo:   goalRepo,
		ledgerRepo: ledgerRepo,
		now:        time.Now,
	}
}

// GetInsights returns the aggregate report over every goal
func (s *InsightsService) GetInsights() (*domain.AppInsights, error) {
	goals, err := s.goalRepo.GetAll()
	if err != nil {
		return nil, err
	}
	deposits, err := s.ledgerRepo.GetDeposits()
	if err != nil {
		return nil, err
	}
	return domain.BuildInsights(goals, deposits, util.DateOf(s.now())), nil
}

// GetVelocityMetrics returns progress against schedule for each active goal
func (s *InsightsService) GetVelocityMetrics() ([]domain.VelocityMetric, error) {
	goals, err := s.goalRepo.GetActive()
	if err != nil {
		return nil, err
	}
	return domain.VelocityMetrics(goals, util.DateOf(s.now())), nil
}

// GetProgressDistribution buckets every goal by progress
func (s *InsightsService) GetProgressDistribution() ([]domain.ProgressBucket, error) {
	goals, err := s.goalRepo.GetAll()
	if err != nil {
		return nil, err
	}
	return domain.ProgressDistribution(goals), nil
}

// GetProjectedCompletionDates projects each active goal forward at its average deposit
func (s *InsightsService) GetProjectedCompletionDates() ([]domain.GoalProjection, error) {
	goals, err := s.goalRepo.GetActive()
	if err != nil {
		return nil, err
	}

	rates := make(map[int32]decimal.Decimal, len(goals))
	for _, g := range goals {
		rate, err := s.ledgerRepo.AverageDeposit(g.ID)
		if err != nil {
			return nil, err
		}
		rates[g.ID] = rate
	}

	return domain.ProjectCompletion(goals, rates, util.DateOf(s.now())), nil
}

// GetTotalRemaining returns how much is left to save across active goals
func (s *InsightsService) GetTotalRemaining() (decimal.Decimal, error) {
	goals, err := s.goalRepo.GetActive()
	if err != nil {
		return decimal.Zero, err
	}
	return domain.TotalRemaining(goals), nil
}
