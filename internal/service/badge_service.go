package service

import (
	"time"

	"github.com/dafibh/coinspot/coinspot-backend/internal/domain"
	"github.com/dafibh/coinspot/coinspot-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BadgeService evaluates badge rules and stores awarded badges
type BadgeService struct {
	badgeRepo      domain.BadgeRepository
	goalRepo       domain.GoalRepository
	ledgerRepo     domain.LedgerRepository
	deduplicate    bool
	eventPublisher websocket.EventPublisher
	now            func() time.Time
}

// NewBadgeService creates a new BadgeService.
// With deduplicate set, a badge already earned under the same category and name is not awarded again.
func NewBadgeService(badgeRepo domain.BadgeRepository, goalRepo domain.GoalRepository, ledgerRepo domain.LedgerRepository, deduplicate bool) *BadgeService {
	return &BadgeService{
		badgeRepo:   badgeRepo,
		goalRepo:    goalRepo,
		ledgerRepo:  ledgerRepo,
		deduplicate: deduplicate,
		now:         time.Now,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *BadgeService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// CountersAfterDeposit gathers the counters badge rules use once a deposit on goalID has been applied
func (s *BadgeService) CountersAfterDeposit(goalID int32) (domain.BadgeCounters, error) {
	completed, err := s.goalRepo.CountCompleted()
	if err != nil {
		return domain.BadgeCounters{}, err
	}

	streak, err := s.ledgerRepo.CountDepositDays(goalID)
	if err != nil {
		return domain.BadgeCounters{}, err
	}

	goals, err := s.goalRepo.GetAll()
	if err != nil {
		return domain.BadgeCounters{}, err
	}
	totalSaved := decimal.Zero
	for _, g := range goals {
		totalSaved = totalSaved.Add(g.CurrentAmount)
	}

	return domain.BadgeCounters{
		TotalGoalsCompleted: completed,
		SavingStreak:        streak,
		TotalSaved:          totalSaved,
	}, nil
}

// EvaluateAfterDeposit checks every badge rule after a deposit on goalID and stores the awards
func (s *BadgeService) EvaluateAfterDeposit(goalID int32) ([]*domain.Badge, error) {
	counters, err := s.CountersAfterDeposit(goalID)
	if err != nil {
		return nil, err
	}
	return s.Award(counters)
}

// Award stores a badge for every rule the counters satisfy and returns the stored badges
func (s *BadgeService) Award(counters domain.BadgeCounters) ([]*domain.Badge, error) {
	awards := domain.EvaluateBadges(counters)
	earned := make([]*domain.Badge, 0, len(awards))
	today := s.now()

	for _, award := range awards {
		if s.deduplicate {
			exists, err := s.badgeRepo.Exists(award.Category, award.Name)
			if err != nil {
				return earned, err
			}
			if exists {
				continue
			}
		}

		badge, err := s.badgeRepo.Create(award.Badge(today))
		if err != nil {
			log.Error().Err(err).Str("badge", award.Name).Msg("Failed to store badge")
			return earned, err
		}
		earned = append(earned, badge)

		log.Info().
			Int32("badge_id", badge.ID).
			Str("badge", badge.Name).
			Str("category", string(badge.Category)).
			Msg("Badge awarded")

		if s.eventPublisher != nil {
			s.eventPublisher.Publish(websocket.AllGoals, websocket.BadgeAwarded(badge))
		}
	}

	return earned, nil
}

// GetBadges retrieves all badges, or those of one category when category is set
func (s *BadgeService) GetBadges(category *domain.BadgeCategory) ([]*domain.Badge, error) {
	if category != nil {
		if !category.IsValid() {
			return nil, domain.ErrInvalidInput
		}
		return s.badgeRepo.GetByCategory(*category)
	}
	return s.badgeRepo.GetAll()
}

// GetBadge retrieves a badge by ID
func (s *BadgeService) GetBadge(id int32) (*domain.Badge, error) {
	return s.badgeRepo.GetByID(id)
}

// DeleteBadge removes a badge
func (s *BadgeService) DeleteBadge(id int32) error {
	return s.badgeRepo.Delete(id)
}

// BadgeCount holds the total number of badges and the number per category
type BadgeCount struct {
	Total      int                          `json:"total"`
	ByCategory map[domain.BadgeCategory]int `json:"byCategory"`
}

// CountBadges counts badges overall and per category
func (s *BadgeService) CountBadges() (*BadgeCount, error) {
	total, err := s.badgeRepo.Count()
	if err != nil {
		return nil, err
	}

	byCategory := make(map[domain.BadgeCategory]int)
	for _, c := range []domain.BadgeCategory{
		domain.BadgeCategoryFirstGoal,
		domain.BadgeCategoryGoalAchieved,
		domain.BadgeCategoryStreak,
		domain.BadgeCategoryAmountMilestone,
		domain.BadgeCategoryConsistency,
	} {
		n, err := s.badgeRepo.CountByCategory(c)
		if err != nil {
			return nil, err
		}
		byCategory[c] = n
	}

	return &BadgeCount{Total: total, ByCategory: byCategory}, nil
}
