package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var day0 = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time {
	return day0.AddDate(0, 0, n)
}

func newTestGoal(target, current int64) *SavingGoal {
	return &SavingGoal{
		ID:            1,
		Name:          "Bike",
		TargetAmount:  decimal.NewFromInt(target),
		CurrentAmount: decimal.NewFromInt(current),
		StartDate:     day0,
		TargetDate:    day(100),
		Currency:      "USD",
	}
}

func TestSavingGoal_DayFiftyScenario(t *testing.T) {
	goal := newTestGoal(1000, 400)
	today := day(50)

	if got := goal.ExpectedProgress(today); got != 50 {
		t.Errorf("ExpectedProgress() = %v, want 50", got)
	}
	if got := goal.ProgressPercentage(); got != 40 {
		t.Errorf("ProgressPercentage() = %v, want 40", got)
	}
	if got := goal.Velocity(today); got != -10 {
		t.Errorf("Velocity() = %v, want -10", got)
	}
	if got := goal.Status(today); got != GoalStatusOnTrack {
		t.Errorf("Status() = %s, want %s", got, GoalStatusOnTrack)
	}
	if goal.IsAtRisk(today) {
		t.Error("Expected goal at velocity -10 not to be at risk")
	}
}

func TestSavingGoal_ProgressPercentageBounds(t *testing.T) {
	tests := []struct {
		name    string
		target  int64
		current int64
		want    float64
	}{
		{"zero target", 0, 100, 0},
		{"negative target", -10, 5, 0},
		{"nothing saved", 1000, 0, 0},
		{"half way", 1000, 500, 50},
		{"over target", 1000, 1500, 100},
		{"negative balance", 1000, -20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newTestGoal(tt.target, tt.current).ProgressPercentage()
			if got != tt.want {
				t.Errorf("ProgressPercentage() = %v, want %v", got, tt.want)
			}
			if got < 0 || got > 100 {
				t.Errorf("ProgressPercentage() = %v out of [0, 100]", got)
			}
		})
	}
}

func TestSavingGoal_RemainingAmountNeverNegative(t *testing.T) {
	tests := []struct {
		target  int64
		current int64
		want    int64
	}{
		{1000, 400, 600},
		{1000, 1000, 0},
		{1000, 1200, 0},
		{0, 0, 0},
	}

	for _, tt := range tests {
		got := newTestGoal(tt.target, tt.current).RemainingAmount()
		if !got.Equal(decimal.NewFromInt(tt.want)) {
			t.Errorf("RemainingAmount(%d, %d) = %s, want %d", tt.target, tt.current, got, tt.want)
		}
	}
}

func TestSavingGoal_DayCounts(t *testing.T) {
	goal := newTestGoal(1000, 0)

	if got := goal.TotalDays(); got != 100 {
		t.Errorf("TotalDays() = %d, want 100", got)
	}
	if got := goal.DaysElapsed(day(30)); got != 30 {
		t.Errorf("DaysElapsed() = %d, want 30", got)
	}
	if got := goal.DaysUntilTarget(day(30)); got != 70 {
		t.Errorf("DaysUntilTarget() = %d, want 70", got)
	}
	if got := goal.DaysUntilTarget(day(110)); got != -10 {
		t.Errorf("DaysUntilTarget() after target = %d, want -10", got)
	}
}

func TestSavingGoal_ExpectedProgressClamped(t *testing.T) {
	goal := newTestGoal(1000, 0)

	if got := goal.ExpectedProgress(day0.AddDate(0, 0, -5)); got != 0 {
		t.Errorf("ExpectedProgress() before start = %v, want 0", got)
	}
	if got := goal.ExpectedProgress(day(250)); got != 100 {
		t.Errorf("ExpectedProgress() after target = %v, want 100", got)
	}

	goal.TargetDate = goal.StartDate
	if got := goal.ExpectedProgress(day(3)); got != 0 {
		t.Errorf("ExpectedProgress() with zero length period = %v, want 0", got)
	}
}

func TestSavingGoal_IsOnTrack(t *testing.T) {
	tests := []struct {
		name    string
		current int64
		today   time.Time
		want    bool
	}{
		{"exactly expected", 500, day(50), true},
		{"inside tolerance", 470, day(50), true},
		{"on tolerance boundary", 450, day(50), true},
		{"outside tolerance", 440, day(50), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := newTestGoal(1000, tt.current).IsOnTrack(tt.today); got != tt.want {
				t.Errorf("IsOnTrack() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSavingGoal_IsOverdue(t *testing.T) {
	goal := newTestGoal(1000, 400)

	if goal.IsOverdue(day(100)) {
		t.Error("Expected goal not to be overdue on its target date")
	}
	if !goal.IsOverdue(day(101)) {
		t.Error("Expected goal to be overdue the day after its target date")
	}

	goal.IsCompleted = true
	if goal.IsOverdue(day(101)) {
		t.Error("Expected completed goal never to be overdue")
	}
}

func TestSavingGoal_DailySavingNeeded(t *testing.T) {
	goal := newTestGoal(1000, 400)

	if got := goal.DailySavingNeeded(day(50)); !got.Equal(decimal.NewFromInt(12)) {
		t.Errorf("DailySavingNeeded() = %s, want 12", got)
	}
	if got := goal.WeeklySavingNeeded(day(50)); !got.Equal(decimal.NewFromInt(84)) {
		t.Errorf("WeeklySavingNeeded() = %s, want 84", got)
	}
	if got := goal.MonthlySavingNeeded(day(50)); !got.Equal(decimal.NewFromInt(360)) {
		t.Errorf("MonthlySavingNeeded() = %s, want 360", got)
	}
	if got := goal.DailySavingNeeded(day(100)); !got.IsZero() {
		t.Errorf("DailySavingNeeded() on target date = %s, want 0", got)
	}
	if got := newTestGoal(1000, 1000).DailySavingNeeded(day(50)); !got.IsZero() {
		t.Errorf("DailySavingNeeded() with nothing remaining = %s, want 0", got)
	}
}

func TestSavingGoal_CalculateNewTargetDate(t *testing.T) {
	tests := []struct {
		name    string
		current int64
		rate    decimal.Decimal
		want    time.Time
	}{
		{"rounds partial days up", 400, decimal.NewFromInt(7), day(50 + 86)},
		{"exact division", 400, decimal.NewFromInt(10), day(50 + 60)},
		{"zero rate keeps target", 400, decimal.Zero, day(100)},
		{"negative rate keeps target", 400, decimal.NewFromInt(-5), day(100)},
		{"nothing remaining keeps target", 1000, decimal.NewFromInt(10), day(100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newTestGoal(1000, tt.current).CalculateNewTargetDate(tt.rate, day(50))
			if !got.Equal(tt.want) {
				t.Errorf("CalculateNewTargetDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSavingGoal_StatusPriority(t *testing.T) {
	tests := []struct {
		name      string
		current   int64
		completed bool
		today     time.Time
		want      GoalStatus
	}{
		{"completed beats overdue", 400, true, day(150), GoalStatusCompleted},
		{"overdue", 400, false, day(101), GoalStatusOverdue},
		{"ahead", 400, false, day(10), GoalStatusAhead},
		{"behind", 400, false, day(60), GoalStatusBehind},
		{"on track", 400, false, day(45), GoalStatusOnTrack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goal := newTestGoal(1000, tt.current)
			goal.IsCompleted = tt.completed
			if got := goal.Status(tt.today); got != tt.want {
				t.Errorf("Status() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSavingGoal_NextMilestone(t *testing.T) {
	tests := []struct {
		current       int64
		wantMilestone int
		wantAmount    int64
	}{
		{0, 25, 250},
		{250, 50, 250},
		{400, 50, 100},
		{800, 100, 200},
		{1000, 100, 0},
	}

	for _, tt := range tests {
		goal := newTestGoal(1000, tt.current)
		if got := goal.NextMilestone(); got != tt.wantMilestone {
			t.Errorf("NextMilestone() at %d = %d, want %d", tt.current, got, tt.wantMilestone)
		}
		if got := goal.AmountToNextMilestone(); !got.Equal(decimal.NewFromInt(tt.wantAmount)) {
			t.Errorf("AmountToNextMilestone() at %d = %s, want %d", tt.current, got, tt.wantAmount)
		}
	}
}

func TestSavingGoal_Snapshot(t *testing.T) {
	snap := newTestGoal(1000, 400).Snapshot(day(50))

	if snap.Status != GoalStatusOnTrack {
		t.Errorf("Snapshot status = %s, want on_track", snap.Status)
	}
	if snap.DaysUntilTarget != 50 || snap.DaysElapsed != 50 || snap.TotalDays != 100 {
		t.Errorf("Snapshot day counts = %d/%d/%d, want 50/50/100", snap.DaysUntilTarget, snap.DaysElapsed, snap.TotalDays)
	}
	if !snap.RemainingAmount.Equal(decimal.NewFromInt(600)) {
		t.Errorf("Snapshot remaining = %s, want 600", snap.RemainingAmount)
	}
}

func TestSavingGoal_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(g *SavingGoal)
		wantErr error
	}{
		{"valid", func(g *SavingGoal) {}, nil},
		{"empty name", func(g *SavingGoal) { g.Name = "   " }, ErrGoalNameRequired},
		{"long name", func(g *SavingGoal) { g.Name = strings.Repeat("a", 256) }, ErrGoalNameTooLong},
		{"long description", func(g *SavingGoal) { g.Description = strings.Repeat("a", 1001) }, ErrDescriptionTooLong},
		{"zero target", func(g *SavingGoal) { g.TargetAmount = decimal.Zero }, ErrTargetAmountNotPositive},
		{"negative target", func(g *SavingGoal) { g.TargetAmount = decimal.NewFromInt(-1) }, ErrTargetAmountNotPositive},
		{"target date equals start", func(g *SavingGoal) { g.TargetDate = g.StartDate }, ErrTargetDateNotAfterStart},
		{"target date before start", func(g *SavingGoal) { g.TargetDate = day(-1) }, ErrTargetDateNotAfterStart},
		{"bad currency", func(g *SavingGoal) { g.Currency = "DOLLAR" }, ErrInvalidCurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goal := newTestGoal(1000, 0)
			tt.modify(goal)
			err := goal.Validate()

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("Expected error to wrap ErrValidation, got %v", err)
			}
		})
	}
}

func TestCalculateGoalTimeline(t *testing.T) {
	timeline := CalculateGoalTimeline(decimal.NewFromInt(1000), decimal.NewFromInt(400), decimal.NewFromInt(7), day0)
	if !timeline.CanAchieve {
		t.Fatal("Expected timeline to be achievable")
	}
	if timeline.DaysRemaining != 85 {
		t.Errorf("DaysRemaining = %d, want 85", timeline.DaysRemaining)
	}
	if !timeline.ExpectedEndDate.Equal(day(85)) {
		t.Errorf("ExpectedEndDate = %v, want %v", timeline.ExpectedEndDate, day(85))
	}

	timeline = CalculateGoalTimeline(decimal.NewFromInt(1000), decimal.Zero, decimal.Zero, day0)
	if timeline.CanAchieve {
		t.Error("Expected zero daily amount not to be achievable")
	}
	if timeline.ExpectedEndDate != nil {
		t.Error("Expected no end date when not achievable")
	}
}
