package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/dafibh/coinspot/coinspot-backend/internal/domain"
	"github.com/dafibh/coinspot/coinspot-backend/internal/util"
	"github.com/dafibh/coinspot/coinspot-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// GoalService handles savings goal business logic
type GoalService struct {
	goalRepo       domain.GoalRepository
	settingsRepo   domain.SettingsRepository
	eventPublisher websocket.EventPublisher
	now            func() time.Time
}

// NewGoalService creates a new GoalService
func NewGoalService(goalRepo domain.GoalRepository, settingsRepo domain.SettingsRepository) *GoalService {
	return &GoalService{
		goalRepo:     goalRepo,
		settingsRepo: settingsRepo,
		now:          time.Now,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *GoalService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *GoalService) publishEvent(goalID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(goalID, event)
	}
}

// Today returns the service's current calendar date
func (s *GoalService) Today() time.Time {
	return util.DateOf(s.now())
}

// CreateGoalInput contains input for creating a goal
type CreateGoalInput struct {
	Name           string
	Description    string
	TargetAmount   decimal.Decimal
	StartDate      *time.Time
	TargetDate     time.Time
	Currency       string
	CurrencySymbol string
	IconName       string
}

// CreateGoal validates and stores a new goal with nothing saved yet.
// Start date defaults to today and currency to the user's settings.
func (s *GoalService) CreateGoal(input CreateGoalInput) (*domain.SavingGoal, error) {
	startDate := s.Today()
	if input.StartDate != nil {
		startDate = util.DateOf(*input.StartDate)
	}

	currency, symbol, err := s.resolveCurrency(input.Currency, input.CurrencySymbol)
	if err != nil {
		return nil, err
	}

	iconName := strings.TrimSpace(input.IconName)
	if iconName == "" {
		iconName = domain.DefaultIconName
	}

	goal := &domain.SavingGoal{
		Name:           strings.TrimSpace(input.Name),
		Description:    strings.TrimSpace(input.Description),
		TargetAmount:   input.TargetAmount,
		CurrentAmount:  decimal.Zero,
		StartDate:      startDate,
		TargetDate:     util.DateOf(input.TargetDate),
		Currency:       currency,
		CurrencySymbol: symbol,
		IconName:       iconName,
	}
	if err := goal.Validate(); err != nil {
		return nil, err
	}

	created, err := s.goalRepo.Create(goal)
	if err != nil {
		log.Error().Err(err).Str("name", goal.Name).Msg("Failed to create goal")
		return nil, err
	}

	log.Info().Int32("goal_id", created.ID).Str("target_amount", created.TargetAmount.String()).Msg("Goal created")
	s.publishEvent(created.ID, websocket.GoalCreated(created.ID, created))
	return created, nil
}

// resolveCurrency fills a missing currency from settings and a missing symbol from the catalogue
func (s *GoalService) resolveCurrency(currency, symbol string) (string, string, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	symbol = strings.TrimSpace(symbol)

	if currency == "" {
		settings, err := s.settingsRepo.GetAll()
		if err != nil {
			return "", "", err
		}
		snapshot := domain.SettingsFromMap(settings)
		currency = snapshot.UserCurrency
		if symbol == "" {
			symbol = snapshot.CurrencySymbol
		}
	}
	if symbol == "" {
		symbol = domain.CurrencySymbol(currency)
	}
	return currency, symbol, nil
}

// GetGoal retrieves a goal by ID
func (s *GoalService) GetGoal(id int32) (*domain.SavingGoal, error) {
	return s.goalRepo.GetByID(id)
}

// ListGoals retrieves goals matching the filter
func (s *GoalService) ListGoals(filter domain.GoalFilter) ([]*domain.SavingGoal, error) {
	switch filter {
	case domain.GoalFilterActive:
		return s.goalRepo.GetActive()
	case domain.GoalFilterCompleted:
		return s.goalRepo.GetCompleted()
	case domain.GoalFilterAll, "":
		return s.goalRepo.GetAll()
	default:
		return nil, domain.ErrInvalidInput
	}
}

// UpdateGoalInput contains the editable goal fields; nil fields are left unchanged
type UpdateGoalInput struct {
	Name         *string
	Description  *string
	IconName     *string
	TargetAmount *decimal.Decimal
	TargetDate   *time.Time
}

// UpdateGoal edits a goal's details. The saved amount is never changed here.
// Lowering the target to exactly the saved amount completes the goal.
func (s *GoalService) UpdateGoal(id int32, input UpdateGoalInput) (*domain.SavingGoal, error) {
	existing, err := s.goalRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	wasCompleted := existing.IsCompleted

	if input.Name != nil {
		existing.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		existing.Description = strings.TrimSpace(*input.Description)
	}
	if input.IconName != nil {
		existing.IconName = strings.TrimSpace(*input.IconName)
		if existing.IconName == "" {
			existing.IconName = domain.DefaultIconName
		}
	}
	if input.TargetAmount != nil {
		existing.TargetAmount = *input.TargetAmount
	}
	if input.TargetDate != nil {
		existing.TargetDate = util.DateOf(*input.TargetDate)
	}

	if err := existing.Validate(); err != nil {
		return nil, err
	}
	if existing.TargetAmount.LessThan(existing.CurrentAmount) {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrTargetBelowCurrent)
	}

	if !existing.IsCompleted && existing.CurrentAmount.GreaterThanOrEqual(existing.TargetAmount) {
		completed := s.Today()
		existing.IsCompleted = true
		existing.CompletedDate = &completed
	}

	updated, err := s.goalRepo.Update(existing)
	if err != nil {
		log.Error().Err(err).Int32("goal_id", id).Msg("Failed to update goal")
		return nil, err
	}

	s.publishEvent(id, websocket.GoalUpdated(id, updated))
	if updated.IsCompleted && !wasCompleted {
		s.publishEvent(id, websocket.GoalCompleted(id, updated))
	}
	return updated, nil
}

// DeleteGoal removes a goal together with its ledger entries
func (s *GoalService) DeleteGoal(id int32) error {
	goal, err := s.goalRepo.GetByID(id)
	if err != nil {
		return err
	}

	if err := s.goalRepo.Delete(id); err != nil {
		log.Error().Err(err).Int32("goal_id", id).Msg("Failed to delete goal")
		return err
	}

	log.Info().Int32("goal_id", id).Msg("Goal deleted")
	s.publishEvent(id, websocket.GoalDeleted(id, goal))
	return nil
}

// GoalView is a goal together with its derived values for today
type GoalView struct {
	*domain.SavingGoal
	Stats domain.GoalSnapshot `json:"stats"`
}

// View attaches today's derived values to a goal
func (s *GoalService) View(goal *domain.SavingGoal) *GoalView {
	return &GoalView{SavingGoal: goal, Stats: goal.Snapshot(s.Today())}
}

// Views attaches today's derived values to each goal
func (s *GoalService) Views(goals []*domain.SavingGoal) []*GoalView {
	today := s.Today()
	views := make([]*GoalView, 0, len(goals))
	for _, g := range goals {
		views = append(views, &GoalView{SavingGoal: g, Stats: g.Snapshot(today)})
	}
	return views
}

// Timeline projects how long the goal takes to complete at dailyAmount per day
func (s *GoalService) Timeline(id int32, dailyAmount decimal.Decimal) (*domain.GoalTimeline, error) {
	goal, err := s.goalRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	timeline := domain.CalculateGoalTimeline(goal.TargetAmount, goal.CurrentAmount, dailyAmount, s.Today())
	return &timeline, nil
}
