package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BadgeCategory string

const (
	BadgeCategoryFirstGoal       BadgeCategory = "first_goal"
	BadgeCategoryGoalAchieved    BadgeCategory = "goal_achieved"
	BadgeCategoryStreak          BadgeCategory = "streak"
	BadgeCategoryAmountMilestone BadgeCategory = "amount_milestone"
	BadgeCategoryConsistency     BadgeCategory = "consistency"
)

// IsValid reports whether c is a known badge category
func (c BadgeCategory) IsValid() bool {
	switch c {
	case BadgeCategoryFirstGoal, BadgeCategoryGoalAchieved, BadgeCategoryStreak,
		BadgeCategoryAmountMilestone, BadgeCategoryConsistency:
		return true
	}
	return false
}

type Badge struct {
	ID          int32         `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	IconName    string        `json:"iconName"`
	Category    BadgeCategory `json:"category"`
	EarnedDate  time.Time     `json:"earnedDate"`
}

// BadgeCounters are the aggregate values badge rules are checked against
type BadgeCounters struct {
	TotalGoalsCompleted int
	SavingStreak        int
	TotalSaved          decimal.Decimal
}

// BadgeAward is a badge a rule has unlocked, before it is stored
type BadgeAward struct {
	Name        string
	Description string
	IconName    string
	Category    BadgeCategory
}

// Badge builds the record to persist for this award
func (a BadgeAward) Badge(earned time.Time) *Badge {
	return &Badge{
		Name:        a.Name,
		Description: a.Description,
		IconName:    a.IconName,
		Category:    a.Category,
		EarnedDate:  earned,
	}
}

type badgeTier struct {
	threshold int64
	award     BadgeAward
}

var (
	firstGoalAward = BadgeAward{"Goal Setter", "Created your first savings goal", "goal", BadgeCategoryFirstGoal}

	// Tiers are ordered highest threshold first; only the first match in a group is awarded.
	goalTiers = []badgeTier{
		{5, BadgeAward{"Goal Master", "Completed 5 goals", "goal_master", BadgeCategoryGoalAchieved}},
		{3, BadgeAward{"Goal Achiever", "Completed 3 goals", "goal_achiever", BadgeCategoryGoalAchieved}},
	}
	streakTiers = []badgeTier{
		{100, BadgeAward{"Century Saver", "Saved for 100 consecutive days", "century", BadgeCategoryStreak}},
		{30, BadgeAward{"Monthly Warrior", "30-day saving streak", "monthly_warrior", BadgeCategoryStreak}},
		{7, BadgeAward{"Persistent Saver", "7-day saving streak", "persistent", BadgeCategoryStreak}},
	}
	amountTiers = []badgeTier{
		{10000, BadgeAward{"Ten Thousand Club", "Saved 10,000+", "ten_thousand", BadgeCategoryAmountMilestone}},
		{5000, BadgeAward{"Five Thousand Club", "Saved 5,000+", "five_thousand", BadgeCategoryAmountMilestone}},
		{1000, BadgeAward{"Thousand Club", "Saved 1,000+", "thousand", BadgeCategoryAmountMilestone}},
	}
)

// EvaluateBadges returns every badge the counters qualify for.
// Each group is checked independently and yields at most its highest tier.
// Previously earned badges are not consulted.
func EvaluateBadges(c BadgeCounters) []BadgeAward {
	var awards []BadgeAward

	if c.TotalGoalsCompleted == 1 {
		awards = append(awards, firstGoalAward)
	}
	if a, ok := highestTier(goalTiers, decimal.NewFromInt(int64(c.TotalGoalsCompleted))); ok {
		awards = append(awards, a)
	}
	if a, ok := highestTier(streakTiers, decimal.NewFromInt(int64(c.SavingStreak))); ok {
		awards = append(awards, a)
	}
	if a, ok := highestTier(amountTiers, c.TotalSaved); ok {
		awards = append(awards, a)
	}

	return awards
}

func highestTier(tiers []badgeTier, value decimal.Decimal) (BadgeAward, bool) {
	for _, t := range tiers {
		if value.GreaterThanOrEqual(decimal.NewFromInt(t.threshold)) {
			return t.award, true
		}
	}
	return BadgeAward{}, false
}

// BadgeRepository defines the interface for badge persistence operations
type BadgeRepository interface {
	Create(badge *Badge) (*Badge, error)
	// GetAll returns every badge, most recently earned first
	GetAll() ([]*Badge, error)
	GetByCategory(category BadgeCategory) ([]*Badge, error)
	GetByID(id int32) (*Badge, error)
	Delete(id int32) error
	Count() (int, error)
	CountByCategory(category BadgeCategory) (int, error)
	Exists(category BadgeCategory, name string) (bool, error)
}
