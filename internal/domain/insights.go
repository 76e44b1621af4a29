package domain

import (
	"sort"
	"time"

	"github.com/dafibh/coinspot/coinspot-backend/internal/util"
	"github.com/shopspring/decimal"
)

// UpcomingGoalsLimit is how many active goals AppInsights lists as upcoming
const UpcomingGoalsLimit = 3

// AppInsights is the cross-goal report
type AppInsights struct {
	TotalGoalsCreated     int             `json:"totalGoalsCreated"`
	TotalGoalsCompleted   int             `json:"totalGoalsCompleted"`
	ActiveGoals           int             `json:"activeGoals"`
	CompletionRate        int             `json:"completionRate"`
	TotalSaved            decimal.Decimal `json:"totalSaved"`
	AverageGoalAmount     decimal.Decimal `json:"averageGoalAmount"`
	AverageDaysToComplete int             `json:"averageDaysToComplete"`
	UpcomingGoals         []*SavingGoal   `json:"upcomingGoals"`
	GoalsOnTrack          int             `json:"goalsOnTrack"`
	GoalsAtRisk           int             `json:"goalsAtRisk"`
	TopSavingsGoal        *SavingGoal     `json:"topSavingsGoal"`
	FastestCompletedGoal  *SavingGoal     `json:"fastestCompletedGoal"`
	CurrentStreak         int             `json:"currentStreak"`
	ConsistencyScore      int             `json:"consistencyScore"`
}

type VelocityStatus string

const (
	VelocityAhead   VelocityStatus = "ahead"
	VelocityOnTrack VelocityStatus = "on_track"
	VelocityBehind  VelocityStatus = "behind"
)

type VelocityMetric struct {
	GoalID           int32          `json:"goalId"`
	GoalName         string         `json:"goalName"`
	CurrentProgress  int            `json:"currentProgress"`
	ExpectedProgress int            `json:"expectedProgress"`
	Velocity         int            `json:"velocity"`
	Status           VelocityStatus `json:"status"`
}

// ProgressBucket counts goals whose progress falls in [From, To].
// Bounds are inclusive, so a goal sitting on a boundary is counted in both buckets.
type ProgressBucket struct {
	Label string `json:"label"`
	From  int    `json:"from"`
	To    int    `json:"to"`
	Count int    `json:"count"`
}

// GoalProjection is when an active goal is expected to be reached at its current deposit rate
type GoalProjection struct {
	GoalID        int32           `json:"goalId"`
	GoalName      string          `json:"goalName"`
	DailyRate     decimal.Decimal `json:"dailyRate"`
	ProjectedDate time.Time       `json:"projectedDate"`
	TargetDate    time.Time       `json:"targetDate"`
}

// BuildInsights computes the report from every goal and every deposit across goals.
// No goals yields a report of zeros and empty lists.
func BuildInsights(goals []*SavingGoal, deposits []*LedgerEntry, today time.Time) *AppInsights {
	active, completed := splitGoals(goals)

	insights := &AppInsights{
		TotalGoalsCreated:   len(goals),
		TotalGoalsCompleted: len(completed),
		ActiveGoals:         len(active),
		TotalSaved:          decimal.Zero,
		AverageGoalAmount:   decimal.Zero,
		UpcomingGoals:       []*SavingGoal{},
		CurrentStreak:       ConsecutiveDepositDays(deposits, today),
	}
	if len(goals) == 0 {
		return insights
	}

	insights.CompletionRate = len(completed) * 100 / len(goals)

	targetSum := decimal.Zero
	for _, g := range goals {
		targetSum = targetSum.Add(g.TargetAmount)
		if insights.TopSavingsGoal == nil || g.CurrentAmount.GreaterThan(insights.TopSavingsGoal.CurrentAmount) {
			insights.TopSavingsGoal = g
		}
	}
	insights.AverageGoalAmount = targetSum.Div(decimal.NewFromInt(int64(len(goals))))

	if len(completed) > 0 {
		totalDays := 0
		fastest := -1
		for _, g := range completed {
			days := completionDays(g)
			totalDays += days
			if fastest < 0 || days < fastest {
				fastest = days
				insights.FastestCompletedGoal = g
			}
		}
		insights.AverageDaysToComplete = totalDays / len(completed)
	}

	progressSum := 0
	for _, g := range active {
		insights.TotalSaved = insights.TotalSaved.Add(g.CurrentAmount)
		if g.IsOnTrack(today) {
			insights.GoalsOnTrack++
		}
		if g.IsAtRisk(today) {
			insights.GoalsAtRisk++
		}
		progressSum += int(g.ProgressPercentage())
	}
	if len(active) > 0 {
		insights.ConsistencyScore = clampInt(progressSum/len(active), 0, 100)
	}

	upcoming := make([]*SavingGoal, len(active))
	copy(upcoming, active)
	sort.SliceStable(upcoming, func(i, j int) bool { return upcoming[i].TargetDate.Before(upcoming[j].TargetDate) })
	if len(upcoming) > UpcomingGoalsLimit {
		upcoming = upcoming[:UpcomingGoalsLimit]
	}
	insights.UpcomingGoals = upcoming

	return insights
}

// VelocityMetrics returns one metric per active goal, values truncated to whole points
func VelocityMetrics(goals []*SavingGoal, today time.Time) []VelocityMetric {
	active, _ := splitGoals(goals)
	metrics := make([]VelocityMetric, 0, len(active))
	for _, g := range active {
		velocity := g.Velocity(today)
		status := VelocityOnTrack
		if velocity > VelocityThreshold {
			status = VelocityAhead
		} else if velocity < -VelocityThreshold {
			status = VelocityBehind
		}
		metrics = append(metrics, VelocityMetric{
			GoalID:           g.ID,
			GoalName:         g.Name,
			CurrentProgress:  int(g.ProgressPercentage()),
			ExpectedProgress: int(g.ExpectedProgress(today)),
			Velocity:         int(velocity),
			Status:           status,
		})
	}
	return metrics
}

// ProgressDistribution buckets every goal by progress into quarters
func ProgressDistribution(goals []*SavingGoal) []ProgressBucket {
	buckets := []ProgressBucket{
		{Label: "0-25%", From: 0, To: 25},
		{Label: "25-50%", From: 25, To: 50},
		{Label: "50-75%", From: 50, To: 75},
		{Label: "75-100%", From: 75, To: 100},
	}
	for _, g := range goals {
		p := g.ProgressPercentage()
		for i := range buckets {
			if p >= float64(buckets[i].From) && p <= float64(buckets[i].To) {
				buckets[i].Count++
			}
		}
	}
	return buckets
}

// ProjectCompletion projects active goals forward at the given per-goal daily rates.
// Goals without a positive rate or with nothing left to save are skipped.
func ProjectCompletion(goals []*SavingGoal, rates map[int32]decimal.Decimal, today time.Time) []GoalProjection {
	active, _ := splitGoals(goals)
	projections := make([]GoalProjection, 0, len(active))
	for _, g := range active {
		rate := rates[g.ID]
		if !rate.IsPositive() || !g.RemainingAmount().IsPositive() {
			continue
		}
		projections = append(projections, GoalProjection{
			GoalID:        g.ID,
			GoalName:      g.Name,
			DailyRate:     rate,
			ProjectedDate: g.CalculateNewTargetDate(rate, today),
			TargetDate:    g.TargetDate,
		})
	}
	return projections
}

// TotalRemaining sums the remaining amount of active goals
func TotalRemaining(goals []*SavingGoal) decimal.Decimal {
	total := decimal.Zero
	for _, g := range goals {
		if !g.IsCompleted {
			total = total.Add(g.RemainingAmount())
		}
	}
	return total
}

func splitGoals(goals []*SavingGoal) (active, completed []*SavingGoal) {
	for _, g := range goals {
		if g.IsCompleted {
			completed = append(completed, g)
		} else {
			active = append(active, g)
		}
	}
	return active, completed
}

func completionDays(g *SavingGoal) int {
	if g.CompletedDate == nil {
		return 0
	}
	return util.DaysBetween(g.StartDate, *g.CompletedDate)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
