package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func entry(kind EntryKind, amount int64, date time.Time) *LedgerEntry {
	return &LedgerEntry{GoalID: 1, Kind: kind, Amount: decimal.NewFromInt(amount), Date: date}
}

func TestLedgerEntry_SignedAmount(t *testing.T) {
	if got := entry(EntryKindDeposit, 50, day0).SignedAmount(); !got.Equal(decimal.NewFromInt(50)) {
		t.Errorf("deposit SignedAmount() = %s, want 50", got)
	}
	if got := entry(EntryKindWithdrawal, 50, day0).SignedAmount(); !got.Equal(decimal.NewFromInt(-50)) {
		t.Errorf("withdrawal SignedAmount() = %s, want -50", got)
	}
}

func TestLedgerAggregates(t *testing.T) {
	entries := []*LedgerEntry{
		entry(EntryKindDeposit, 100, day(0)),
		entry(EntryKindDeposit, 50, day(0)),
		entry(EntryKindDeposit, 30, day(2)),
		entry(EntryKindWithdrawal, 40, day(2)),
	}

	if got := SumEntries(entries, EntryKindDeposit); !got.Equal(decimal.NewFromInt(180)) {
		t.Errorf("SumEntries(deposit) = %s, want 180", got)
	}
	if got := SumEntries(entries, EntryKindWithdrawal); !got.Equal(decimal.NewFromInt(40)) {
		t.Errorf("SumEntries(withdrawal) = %s, want 40", got)
	}
	if got := AverageDepositAmount(entries); !got.Equal(decimal.NewFromInt(60)) {
		t.Errorf("AverageDepositAmount() = %s, want 60", got)
	}
	if got := DistinctDepositDays(entries); got != 2 {
		t.Errorf("DistinctDepositDays() = %d, want 2", got)
	}
}

func TestAverageDepositAmount_NoDeposits(t *testing.T) {
	entries := []*LedgerEntry{entry(EntryKindWithdrawal, 40, day0)}
	if got := AverageDepositAmount(entries); !got.IsZero() {
		t.Errorf("AverageDepositAmount() = %s, want 0", got)
	}
	if got := AverageDepositAmount(nil); !got.IsZero() {
		t.Errorf("AverageDepositAmount(nil) = %s, want 0", got)
	}
}

func TestDistinctDepositDays_IgnoresGaps(t *testing.T) {
	entries := []*LedgerEntry{
		entry(EntryKindDeposit, 10, day(0)),
		entry(EntryKindDeposit, 10, day(5)),
		entry(EntryKindDeposit, 10, day(30)),
		entry(EntryKindWithdrawal, 10, day(31)),
	}
	// Three separate days, none consecutive, still count as a streak of 3
	if got := DistinctDepositDays(entries); got != 3 {
		t.Errorf("DistinctDepositDays() = %d, want 3", got)
	}
	if got := ConsecutiveDepositDays(entries, day(30)); got != 1 {
		t.Errorf("ConsecutiveDepositDays() = %d, want 1", got)
	}
}

func TestConsecutiveDepositDays(t *testing.T) {
	entries := []*LedgerEntry{
		entry(EntryKindDeposit, 10, day(7)),
		entry(EntryKindDeposit, 10, day(8)),
		entry(EntryKindDeposit, 10, day(9)),
		entry(EntryKindDeposit, 10, day(3)),
	}

	tests := []struct {
		name  string
		today time.Time
		want  int
	}{
		{"ending today", day(9), 3},
		{"ending yesterday", day(10), 3},
		{"broken two days ago", day(11), 0},
		{"in the middle", day(8), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConsecutiveDepositDays(entries, tt.today); got != tt.want {
				t.Errorf("ConsecutiveDepositDays() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDailyNetTotals(t *testing.T) {
	entries := []*LedgerEntry{
		entry(EntryKindDeposit, 100, day(0)),
		entry(EntryKindWithdrawal, 30, day(0)),
		entry(EntryKindDeposit, 20, day(1)),
		entry(EntryKindDeposit, 5, day(3)),
	}

	totals := DailyNetTotals(entries, 2)
	if len(totals) != 2 {
		t.Fatalf("Expected 2 days, got %d", len(totals))
	}
	if !totals[0].Date.Equal(day(3)) || !totals[1].Date.Equal(day(1)) {
		t.Errorf("Expected newest days first, got %v and %v", totals[0].Date, totals[1].Date)
	}

	all := DailyNetTotals(entries, 0)
	if len(all) != 3 {
		t.Fatalf("Expected 3 days with default limit, got %d", len(all))
	}
	if !all[2].Total.Equal(decimal.NewFromInt(70)) {
		t.Errorf("Net total for first day = %s, want 70", all[2].Total)
	}
}

func TestDepositTotalsByDay(t *testing.T) {
	entries := []*LedgerEntry{
		entry(EntryKindDeposit, 5, day(3)),
		entry(EntryKindDeposit, 100, day(0)),
		entry(EntryKindDeposit, 25, day(0)),
		entry(EntryKindWithdrawal, 30, day(1)),
	}

	totals := DepositTotalsByDay(entries)
	if len(totals) != 2 {
		t.Fatalf("Expected 2 deposit days, got %d", len(totals))
	}
	if !totals[0].Date.Equal(day(0)) || !totals[0].Total.Equal(decimal.NewFromInt(125)) {
		t.Errorf("First day = %v %s, want %v 125", totals[0].Date, totals[0].Total, day(0))
	}
}
