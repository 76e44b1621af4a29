package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/dafibh/coinspot/coinspot-backend/internal/util"
	"github.com/shopspring/decimal"
)

// GoalStatus classifies a goal against its schedule
type GoalStatus string

const (
	GoalStatusOnTrack   GoalStatus = "on_track"
	GoalStatusAhead     GoalStatus = "ahead"
	GoalStatusBehind    GoalStatus = "behind"
	GoalStatusOverdue   GoalStatus = "overdue"
	GoalStatusCompleted GoalStatus = "completed"
)

// GoalFilter selects a subset of goals for listing
type GoalFilter string

const (
	GoalFilterAll       GoalFilter = "all"
	GoalFilterActive    GoalFilter = "active"
	GoalFilterCompleted GoalFilter = "completed"
)

const (
	// OnTrackTolerance is how many percentage points a goal may trail its
	// time-expected progress and still count as on track
	OnTrackTolerance = 5.0
	// VelocityThreshold is the velocity beyond which a goal is ahead of or behind schedule
	VelocityThreshold = 10.0

	DefaultIconName = "savings"
)

var hundred = decimal.NewFromInt(100)

// SavingGoal is a named target amount with a deadline
type SavingGoal struct {
	ID             int32           `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	TargetAmount   decimal.Decimal `json:"targetAmount"`
	CurrentAmount  decimal.Decimal `json:"currentAmount"`
	StartDate      time.Time       `json:"startDate"`
	TargetDate     time.Time       `json:"targetDate"`
	Currency       string          `json:"currency"`
	CurrencySymbol string          `json:"currencySymbol"`
	IconName       string          `json:"iconName"`
	IsCompleted    bool            `json:"isCompleted"`
	CompletedDate  *time.Time      `json:"completedDate,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// Validate checks the fields a goal must satisfy when it is created or edited.
// The returned error wraps both ErrValidation and the specific field error.
func (g *SavingGoal) Validate() error {
	name := strings.TrimSpace(g.Name)
	if name == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrGoalNameRequired)
	}
	if len(name) > MaxGoalNameLength {
		return fmt.Errorf("%w: %w", ErrValidation, ErrGoalNameTooLong)
	}
	if len(g.Description) > MaxDescriptionLength {
		return fmt.Errorf("%w: %w", ErrValidation, ErrDescriptionTooLong)
	}
	if !g.TargetAmount.IsPositive() {
		return fmt.Errorf("%w: %w", ErrValidation, ErrTargetAmountNotPositive)
	}
	if !util.DateOf(g.TargetDate).After(util.DateOf(g.StartDate)) {
		return fmt.Errorf("%w: %w", ErrValidation, ErrTargetDateNotAfterStart)
	}
	if len(g.Currency) != 3 {
		return fmt.Errorf("%w: %w", ErrValidation, ErrInvalidCurrency)
	}
	return nil
}

// ProgressPercentage returns current/target as a percentage in [0, 100]
func (g *SavingGoal) ProgressPercentage() float64 {
	if !g.TargetAmount.IsPositive() {
		return 0
	}
	pct := g.CurrentAmount.Div(g.TargetAmount).Mul(hundred).InexactFloat64()
	return clampPercent(pct)
}

// RemainingAmount returns how much is still missing to reach the target, never negative
func (g *SavingGoal) RemainingAmount() decimal.Decimal {
	remaining := g.TargetAmount.Sub(g.CurrentAmount)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// DaysUntilTarget returns the days from today to the target date; negative once it has passed
func (g *SavingGoal) DaysUntilTarget(today time.Time) int {
	return util.DaysBetween(today, g.TargetDate)
}

// TotalDays returns the length of the saving period in days
func (g *SavingGoal) TotalDays() int {
	return util.DaysBetween(g.StartDate, g.TargetDate)
}

// DaysElapsed returns the days from the start date to today
func (g *SavingGoal) DaysElapsed(today time.Time) int {
	return util.DaysBetween(g.StartDate, today)
}

// ExpectedProgress returns the share of the saving period that has elapsed, in [0, 100]
func (g *SavingGoal) ExpectedProgress(today time.Time) float64 {
	total := g.TotalDays()
	if total <= 0 {
		return 0
	}
	return clampPercent(float64(g.DaysElapsed(today)) / float64(total) * 100)
}

// IsOnTrack reports whether progress is within the tolerance band of the expected progress
func (g *SavingGoal) IsOnTrack(today time.Time) bool {
	return g.ProgressPercentage() >= g.ExpectedProgress(today)-OnTrackTolerance
}

// IsAtRisk reports whether the goal trails its schedule by more than the velocity threshold
func (g *SavingGoal) IsAtRisk(today time.Time) bool {
	return g.Velocity(today) < -VelocityThreshold
}

// Velocity returns actual minus expected progress in percentage points.
// Positive means ahead of schedule.
func (g *SavingGoal) Velocity(today time.Time) float64 {
	return g.ProgressPercentage() - g.ExpectedProgress(today)
}

// IsOverdue reports whether the target date has passed without the goal being completed
func (g *SavingGoal) IsOverdue(today time.Time) bool {
	return util.DateOf(today).After(util.DateOf(g.TargetDate)) && !g.IsCompleted
}

// DailySavingNeeded returns the amount that has to be saved per remaining day
func (g *SavingGoal) DailySavingNeeded(today time.Time) decimal.Decimal {
	days := g.DaysUntilTarget(today)
	remaining := g.RemainingAmount()
	if days <= 0 || !remaining.IsPositive() {
		return decimal.Zero
	}
	return remaining.Div(decimal.NewFromInt(int64(days)))
}

// WeeklySavingNeeded returns the daily amount needed scaled to a week
func (g *SavingGoal) WeeklySavingNeeded(today time.Time) decimal.Decimal {
	return g.DailySavingNeeded(today).Mul(decimal.NewFromInt(7))
}

// MonthlySavingNeeded returns the daily amount needed scaled to a 30 day month
func (g *SavingGoal) MonthlySavingNeeded(today time.Time) decimal.Decimal {
	return g.DailySavingNeeded(today).Mul(decimal.NewFromInt(30))
}

// CalculateNewTargetDate projects when the goal will be reached at the given daily rate.
// The current target date is returned unchanged when the rate is not positive or
// nothing remains to be saved.
func (g *SavingGoal) CalculateNewTargetDate(averageDailyRate decimal.Decimal, today time.Time) time.Time {
	remaining := g.RemainingAmount()
	if !averageDailyRate.IsPositive() || !remaining.IsPositive() {
		return g.TargetDate
	}
	daysNeeded := remaining.Div(averageDailyRate).Ceil().IntPart()
	return util.AddDays(today, int(daysNeeded))
}

// Status returns the first matching classification in priority order:
// completed, overdue, ahead, behind, on track
func (g *SavingGoal) Status(today time.Time) GoalStatus {
	velocity := g.Velocity(today)
	switch {
	case g.IsCompleted:
		return GoalStatusCompleted
	case g.IsOverdue(today):
		return GoalStatusOverdue
	case velocity > VelocityThreshold:
		return GoalStatusAhead
	case velocity < -VelocityThreshold:
		return GoalStatusBehind
	default:
		return GoalStatusOnTrack
	}
}

// NextMilestone returns the next quarter mark (25, 50, 75, 100) above the current progress
func (g *SavingGoal) NextMilestone() int {
	current := int(g.ProgressPercentage())
	for _, m := range []int{25, 50, 75} {
		if current < m {
			return m
		}
	}
	return 100
}

// AmountToNextMilestone returns how much has to be saved to reach the next milestone
func (g *SavingGoal) AmountToNextMilestone() decimal.Decimal {
	milestone := decimal.NewFromInt(int64(g.NextMilestone()))
	milestoneAmount := g.TargetAmount.Mul(milestone).Div(hundred)
	diff := milestoneAmount.Sub(g.CurrentAmount)
	if diff.IsNegative() {
		return decimal.Zero
	}
	return diff
}

// GoalSnapshot holds every derived value of a goal for a given day
type GoalSnapshot struct {
	ProgressPercentage    float64         `json:"progressPercentage"`
	RemainingAmount       decimal.Decimal `json:"remainingAmount"`
	DaysUntilTarget       int             `json:"daysUntilTarget"`
	TotalDays             int             `json:"totalDays"`
	DaysElapsed           int             `json:"daysElapsed"`
	ExpectedProgress      float64         `json:"expectedProgress"`
	Velocity              float64         `json:"velocity"`
	IsOnTrack             bool            `json:"isOnTrack"`
	IsOverdue             bool            `json:"isOverdue"`
	DailySavingNeeded     decimal.Decimal `json:"dailySavingNeeded"`
	WeeklySavingNeeded    decimal.Decimal `json:"weeklySavingNeeded"`
	MonthlySavingNeeded   decimal.Decimal `json:"monthlySavingNeeded"`
	NextMilestone         int             `json:"nextMilestone"`
	AmountToNextMilestone decimal.Decimal `json:"amountToNextMilestone"`
	Status                GoalStatus      `json:"status"`
}

// Snapshot computes all derived values for today
func (g *SavingGoal) Snapshot(today time.Time) GoalSnapshot {
	return GoalSnapshot{
		ProgressPercentage:    g.ProgressPercentage(),
		RemainingAmount:       g.RemainingAmount(),
		DaysUntilTarget:       g.DaysUntilTarget(today),
		TotalDays:             g.TotalDays(),
		DaysElapsed:           g.DaysElapsed(today),
		ExpectedProgress:      g.ExpectedProgress(today),
		Velocity:              g.Velocity(today),
		IsOnTrack:             g.IsOnTrack(today),
		IsOverdue:             g.IsOverdue(today),
		DailySavingNeeded:     g.DailySavingNeeded(today),
		WeeklySavingNeeded:    g.WeeklySavingNeeded(today),
		MonthlySavingNeeded:   g.MonthlySavingNeeded(today),
		NextMilestone:         g.NextMilestone(),
		AmountToNextMilestone: g.AmountToNextMilestone(),
		Status:                g.Status(today),
	}
}

// GoalTimeline is the outcome of projecting a saving plan forward
type GoalTimeline struct {
	DaysRemaining   int        `json:"daysRemaining"`
	ExpectedEndDate *time.Time `json:"expectedEndDate"`
	CanAchieve      bool       `json:"canAchieve"`
}

// CalculateGoalTimeline projects how long it takes to save target-saved at dailyAmount per day.
// Whole days are counted; a partial last day is dropped.
func CalculateGoalTimeline(target, saved, dailyAmount decimal.Decimal, today time.Time) GoalTimeline {
	if !dailyAmount.IsPositive() {
		return GoalTimeline{DaysRemaining: -1, CanAchieve: false}
	}
	remaining := target.Sub(saved)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	days := int(remaining.Div(dailyAmount).IntPart())
	end := util.AddDays(today, days)
	return GoalTimeline{
		DaysRemaining:   days,
		ExpectedEndDate: &end,
		CanAchieve:      true,
	}
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// GoalRepository defines the interface for goal persistence operations
type GoalRepository interface {
	Create(goal *SavingGoal) (*SavingGoal, error)
	GetByID(id int32) (*SavingGoal, error)
	// GetAll returns every goal, newest first
	GetAll() ([]*SavingGoal, error)
	// GetActive returns goals that are not completed, soonest target date first
	GetActive() ([]*SavingGoal, error)
	// GetCompleted returns completed goals, most recently completed first
	GetCompleted() ([]*SavingGoal, error)
	// Update writes the editable fields and completion state.
	// CurrentAmount is ignored; balances only change through LedgerRepository.Apply.
	Update(goal *SavingGoal) (*SavingGoal, error)
	// Delete removes the goal and all of its ledger entries
	Delete(id int32) error
	CountCompleted() (int, error)
}
