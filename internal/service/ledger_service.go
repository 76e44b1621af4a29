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

// WeeklySavingsDays is the number of days covered by WeeklySavings
const WeeklySavingsDays = 7

// LedgerService applies deposits and withdrawals to goals and reports on their history
type LedgerService struct {
	goalRepo       domain.GoalRepository
	ledgerRepo     domain.LedgerRepository
	badgeService   *BadgeService
	eventPublisher websocket.EventPublisher
	now            func() time.Time
}

// NewLedgerService creates a new LedgerService.
// badgeService may be nil, in which case deposits award no badges.
func NewLedgerService(goalRepo domain.GoalRepository, ledgerRepo domain.LedgerRepository, badgeService *BadgeService) *LedgerService {
	return &LedgerService{
		goalRepo:     goalRepo,
		ledgerRepo:   ledgerRepo,
		badgeService: badgeService,
		now:          time.Now,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *LedgerService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *LedgerService) publishEvent(goalID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(goalID, event)
	}
}

// LedgerResult is the outcome of a deposit or withdrawal
type LedgerResult struct {
	Goal   *domain.SavingGoal  `json:"goal"`
	Entry  *domain.LedgerEntry `json:"entry"`
	Badges []*domain.Badge     `json:"badges"`
}

// AddMoney deposits amount into a goal.
// The balance is capped at the target amount but the entry records the full amount.
// Reaching the target marks the goal completed today; an already completed goal keeps its completion date.
func (s *LedgerService) AddMoney(goalID int32, amount decimal.Decimal, note string) (*LedgerResult, error) {
	// 1. Validate input
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	note, err := normalizeNote(note)
	if err != nil {
		return nil, err
	}

	// 2. Load goal
	goal, err := s.goalRepo.GetByID(goalID)
	if err != nil {
		return nil, err
	}

	// 3. Compute new balance, capped at target
	today := util.DateOf(s.now())
	newAmount := decimal.Min(goal.CurrentAmount.Add(amount), goal.TargetAmount)
	complete := newAmount.GreaterThanOrEqual(goal.TargetAmount)

	// 4. Apply balance, completion and entry atomically
	updated, entry, err := s.ledgerRepo.Apply(&domain.BalanceChange{
		GoalID:        goalID,
		NewAmount:     newAmount,
		Complete:      complete,
		CompletedDate: today,
		Entry: &domain.LedgerEntry{
			GoalID: goalID,
			Amount: amount,
			Date:   today,
			Note:   note,
			Kind:   domain.EntryKindDeposit,
		},
	})
	if err != nil {
		log.Error().Err(err).Int32("goal_id", goalID).Str("amount", amount.String()).Msg("Failed to apply deposit")
		return nil, err
	}

	log.Info().
		Int32("goal_id", goalID).
		Int32("entry_id", entry.ID).
		Str("amount", amount.String()).
		Str("balance", updated.CurrentAmount.String()).
		Msg("Deposit recorded")

	// 5. Publish events
	s.publishEvent(goalID, websocket.LedgerEntryCreated(goalID, entry))
	s.publishEvent(goalID, websocket.GoalUpdated(goalID, updated))
	if updated.IsCompleted && !goal.IsCompleted {
		s.publishEvent(goalID, websocket.GoalCompleted(goalID, updated))
	}

	// 6. Evaluate badges; the deposit stands even if this fails
	result := &LedgerResult{Goal: updated, Entry: entry, Badges: []*domain.Badge{}}
	if s.badgeService != nil {
		badges, err := s.badgeService.EvaluateAfterDeposit(goalID)
		if err != nil {
			log.Warn().Err(err).Int32("goal_id", goalID).Msg("Failed to evaluate badges after deposit")
		}
		if badges != nil {
			result.Badges = badges
		}
	}

	return result, nil
}

// WithdrawMoney takes amount out of a goal and moves its target date to where the
// average deposit rate would reach the target. A completed goal stays completed.
func (s *LedgerService) WithdrawMoney(goalID int32, amount decimal.Decimal, note string) (*LedgerResult, error) {
	// 1. Validate input
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	note, err := normalizeNote(note)
	if err != nil {
		return nil, err
	}

	// 2. Load goal and check funds
	goal, err := s.goalRepo.GetByID(goalID)
	if err != nil {
		return nil, err
	}
	if amount.GreaterThan(goal.CurrentAmount) {
		return nil, domain.ErrInsufficientFunds
	}

	// 3. Project the target date from the average deposit; a withdrawal does not change it
	rate, err := s.ledgerRepo.AverageDeposit(goalID)
	if err != nil {
		return nil, err
	}
	today := util.DateOf(s.now())
	newAmount := decimal.Max(goal.CurrentAmount.Sub(amount), decimal.Zero)

	projected := *goal
	projected.CurrentAmount = newAmount
	var newTarget *time.Time
	if t := projected.CalculateNewTargetDate(rate, today); !t.Equal(util.DateOf(goal.TargetDate)) {
		newTarget = &t
	}

	// 4. Apply balance, target date and entry atomically
	updated, entry, err := s.ledgerRepo.Apply(&domain.BalanceChange{
		GoalID:        goalID,
		NewAmount:     newAmount,
		NewTargetDate: newTarget,
		Entry: &domain.LedgerEntry{
			GoalID: goalID,
			Amount: amount,
			Date:   today,
			Note:   note,
			Kind:   domain.EntryKindWithdrawal,
		},
	})
	if err != nil {
		log.Error().Err(err).Int32("goal_id", goalID).Str("amount", amount.String()).Msg("Failed to apply withdrawal")
		return nil, err
	}

	log.Info().
		Int32("goal_id", goalID).
		Int32("entry_id", entry.ID).
		Str("amount", amount.String()).
		Str("balance", updated.CurrentAmount.String()).
		Str("target_date", util.FormatDate(updated.TargetDate)).
		Msg("Withdrawal recorded")

	// 5. Publish events
	s.publishEvent(goalID, websocket.LedgerEntryCreated(goalID, entry))
	s.publishEvent(goalID, websocket.GoalUpdated(goalID, updated))

	return &LedgerResult{Goal: updated, Entry: entry, Badges: []*domain.Badge{}}, nil
}

// AverageDailySaving returns the mean deposit amount of a goal, zero without deposits
func (s *LedgerService) AverageDailySaving(goalID int32) (decimal.Decimal, error) {
	if _, err := s.goalRepo.GetByID(goalID); err != nil {
		return decimal.Zero, err
	}
	return s.ledgerRepo.AverageDeposit(goalID)
}

// SavingStreak returns the number of distinct days with a deposit on the goal.
// The days are not required to be consecutive; see ConsecutiveStreak for that.
func (s *LedgerService) SavingStreak(goalID int32) (int, error) {
	if _, err := s.goalRepo.GetByID(goalID); err != nil {
		return 0, err
	}
	return s.ledgerRepo.CountDepositDays(goalID)
}

// ConsecutiveStreak returns the run of consecutive deposit days ending today or yesterday
func (s *LedgerService) ConsecutiveStreak(goalID int32) (int, error) {
	entries, err := s.History(goalID)
	if err != nil {
		return 0, err
	}
	return domain.ConsecutiveDepositDays(entries, s.now()), nil
}

// History returns every entry of a goal, newest first
func (s *LedgerService) History(goalID int32) ([]*domain.LedgerEntry, error) {
	if _, err := s.goalRepo.GetByID(goalID); err != nil {
		return nil, err
	}
	return s.ledgerRepo.GetByGoal(goalID)
}

// HistoryInRange returns a goal's entries dated between from and to inclusive
func (s *LedgerService) HistoryInRange(goalID int32, from, to time.Time) ([]*domain.LedgerEntry, error) {
	if util.DateOf(to).Before(util.DateOf(from)) {
		return nil, domain.ErrInvalidInput
	}
	if _, err := s.goalRepo.GetByID(goalID); err != nil {
		return nil, err
	}
	return s.ledgerRepo.GetByGoalAndDateRange(goalID, util.DateOf(from), util.DateOf(to))
}

// EntriesOn returns the entries of every goal dated on the given day
func (s *LedgerService) EntriesOn(date time.Time) ([]*domain.LedgerEntry, error) {
	return s.ledgerRepo.GetByDate(util.DateOf(date))
}

// GetEntry retrieves a single entry
func (s *LedgerService) GetEntry(id int32) (*domain.LedgerEntry, error) {
	return s.ledgerRepo.GetByID(id)
}

// DeleteEntry removes an entry record. The goal balance is left as it is.
func (s *LedgerService) DeleteEntry(id int32) error {
	entry, err := s.ledgerRepo.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.ledgerRepo.Delete(id); err != nil {
		return err
	}

	log.Info().Int32("entry_id", id).Int32("goal_id", entry.GoalID).Msg("Ledger entry deleted")
	s.publishEvent(entry.GoalID, websocket.LedgerEntryDeleted(entry.GoalID, entry))
	return nil
}

// TotalSaved returns deposits minus withdrawals for a goal
func (s *LedgerService) TotalSaved(goalID int32) (decimal.Decimal, error) {
	deposits, err := s.TotalByKind(goalID, domain.EntryKindDeposit)
	if err != nil {
		return decimal.Zero, err
	}
	withdrawals, err := s.ledgerRepo.SumByKind(goalID, domain.EntryKindWithdrawal)
	if err != nil {
		return decimal.Zero, err
	}
	return deposits.Sub(withdrawals), nil
}

// TotalByKind returns the sum of a goal's entries of one kind
func (s *LedgerService) TotalByKind(goalID int32, kind domain.EntryKind) (decimal.Decimal, error) {
	if kind != domain.EntryKindDeposit && kind != domain.EntryKindWithdrawal {
		return decimal.Zero, domain.ErrInvalidInput
	}
	if _, err := s.goalRepo.GetByID(goalID); err != nil {
		return decimal.Zero, err
	}
	return s.ledgerRepo.SumByKind(goalID, kind)
}

// DailyHistory returns the net amount per day, newest first, for at most limit days
func (s *LedgerService) DailyHistory(goalID int32, limit int) ([]domain.DailyTotal, error) {
	if _, err := s.goalRepo.GetByID(goalID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = domain.DefaultDailyHistoryLimit
	}
	return s.ledgerRepo.DailyNetTotals(goalID, limit)
}

// Trend returns the deposit total per day, oldest first
func (s *LedgerService) Trend(goalID int32) ([]domain.DailyTotal, error) {
	entries, err := s.History(goalID)
	if err != nil {
		return nil, err
	}
	return domain.DepositTotalsByDay(entries), nil
}

// WeeklySavings returns the deposit total for each of the last seven days, oldest first.
// Days without deposits are included with a zero total.
func (s *LedgerService) WeeklySavings(goalID int32) ([]domain.DailyTotal, error) {
	today := util.DateOf(s.now())
	from := util.AddDays(today, -(WeeklySavingsDays - 1))
	entries, err := s.HistoryInRange(goalID, from, today)
	if err != nil {
		return nil, err
	}

	byDay := make(map[time.Time]decimal.Decimal)
	for _, t := range domain.DepositTotalsByDay(entries) {
		byDay[t.Date] = t.Total
	}

	week := make([]domain.DailyTotal, 0, WeeklySavingsDays)
	for i := 0; i < WeeklySavingsDays; i++ {
		d := util.AddDays(from, i)
		total, ok := byDay[d]
		if !ok {
			total = decimal.Zero
		}
		week = append(week, domain.DailyTotal{Date: d, Total: total})
	}
	return week, nil
}

// GoalStats summarises a goal's ledger
type GoalStats struct {
	GoalID            int32           `json:"goalId"`
	AverageDeposit    decimal.Decimal `json:"averageDeposit"`
	SavingStreak      int             `json:"savingStreak"`
	ConsecutiveStreak int             `json:"consecutiveStreak"`
	TotalDeposited    decimal.Decimal `json:"totalDeposited"`
	TotalWithdrawn    decimal.Decimal `json:"totalWithdrawn"`
	NetSaved          decimal.Decimal `json:"netSaved"`
	EntryCount        int             `json:"entryCount"`
}

// Stats computes the ledger summary of a goal
func (s *LedgerService) Stats(goalID int32) (*GoalStats, error) {
	entries, err := s.History(goalID)
	if err != nil {
		return nil, err
	}

	average, err := s.ledgerRepo.AverageDeposit(goalID)
	if err != nil {
		return nil, err
	}
	streak, err := s.ledgerRepo.CountDepositDays(goalID)
	if err != nil {
		return nil, err
	}

	deposited := domain.SumEntries(entries, domain.EntryKindDeposit)
	withdrawn := domain.SumEntries(entries, domain.EntryKindWithdrawal)

	return &GoalStats{
		GoalID:            goalID,
		AverageDeposit:    average,
		SavingStreak:      streak,
		ConsecutiveStreak: domain.ConsecutiveDepositDays(entries, s.now()),
		TotalDeposited:    deposited,
		TotalWithdrawn:    withdrawn,
		NetSaved:          deposited.Sub(withdrawn),
		EntryCount:        len(entries),
	}, nil
}

func normalizeNote(note string) (string, error) {
	note = strings.TrimSpace(note)
	if len(note) > domain.MaxNoteLength {
		return "", fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrNoteTooLong)
	}
	return note, nil
}
