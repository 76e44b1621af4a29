package domain

import (
	"sort"
	"time"

	"github.com/dafibh/coinspot/coinspot-backend/internal/util"
	"github.com/shopspring/decimal"
)

type EntryKind string

const (
	EntryKindDeposit    EntryKind = "deposit"
	EntryKindWithdrawal EntryKind = "withdrawal"
)

// DefaultDailyHistoryLimit is how many days DailyNetTotals returns when no limit is given
const DefaultDailyHistoryLimit = 30

// LedgerEntry is one deposit or withdrawal against a goal.
// Amount is always positive; the direction is carried by Kind.
type LedgerEntry struct {
	ID        int32           `json:"id"`
	GoalID    int32           `json:"goalId"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	Note      string          `json:"note"`
	Kind      EntryKind       `json:"kind"`
	CreatedAt time.Time       `json:"createdAt"`
}

// SignedAmount returns the amount with withdrawals negated
func (e *LedgerEntry) SignedAmount() decimal.Decimal {
	if e.Kind == EntryKindWithdrawal {
		return e.Amount.Neg()
	}
	return e.Amount
}

// BalanceChange is a goal balance update and the entry that caused it.
// Stores apply it as one atomic unit.
type BalanceChange struct {
	GoalID    int32
	NewAmount decimal.Decimal
	// Complete marks the goal completed on CompletedDate unless it already is
	Complete      bool
	CompletedDate time.Time
	// NewTargetDate, when set, replaces the goal's target date
	NewTargetDate *time.Time
	Entry         *LedgerEntry
}

// DailyTotal is an amount aggregated over one calendar day
type DailyTotal struct {
	Date  time.Time       `json:"date"`
	Total decimal.Decimal `json:"total"`
}

// LedgerRepository defines the interface for ledger entry persistence operations
type LedgerRepository interface {
	// Apply updates the goal balance and target date and inserts the entry in a single transaction.
	// It returns the updated goal and the stored entry.
	Apply(change *BalanceChange) (*SavingGoal, *LedgerEntry, error)
	GetByID(id int32) (*LedgerEntry, error)
	// GetByGoal returns the goal's entries, newest date first
	GetByGoal(goalID int32) ([]*LedgerEntry, error)
	GetByGoalAndDateRange(goalID int32, from, to time.Time) ([]*LedgerEntry, error)
	GetByDate(date time.Time) ([]*LedgerEntry, error)
	// GetDeposits returns deposit entries across all goals, newest date first
	GetDeposits() ([]*LedgerEntry, error)
	// Delete removes the entry record only; the goal balance is not touched
	Delete(id int32) error
	SumByKind(goalID int32, kind EntryKind) (decimal.Decimal, error)
	AverageDeposit(goalID int32) (decimal.Decimal, error)
	CountDepositDays(goalID int32) (int, error)
	DailyNetTotals(goalID int32, limit int) ([]DailyTotal, error)
}

// SumEntries returns the total amount of entries of the given kind
func SumEntries(entries []*LedgerEntry, kind EntryKind) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.Kind == kind {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// AverageDepositAmount returns the mean amount of deposit entries, or zero when there are none
func AverageDepositAmount(entries []*LedgerEntry) decimal.Decimal {
	sum := decimal.Zero
	count := 0
	for _, e := range entries {
		if e.Kind == EntryKindDeposit {
			sum = sum.Add(e.Amount)
			count++
		}
	}
	if count == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(count)))
}

// DistinctDepositDays counts calendar days with at least one deposit.
// The days do not need to be consecutive.
func DistinctDepositDays(entries []*LedgerEntry) int {
	return len(depositDays(entries))
}

// ConsecutiveDepositDays counts the run of consecutive deposit days ending today,
// or ending yesterday when nothing has been deposited yet today
func ConsecutiveDepositDays(entries []*LedgerEntry, today time.Time) int {
	days := depositDays(entries)
	day := util.DateOf(today)
	if !days[day] {
		day = util.AddDays(day, -1)
	}
	streak := 0
	for days[day] {
		streak++
		day = util.AddDays(day, -1)
	}
	return streak
}

// DailyNetTotals returns the net amount per day, newest day first, at most limit days.
// A limit of zero or less uses DefaultDailyHistoryLimit.
func DailyNetTotals(entries []*LedgerEntry, limit int) []DailyTotal {
	if limit <= 0 {
		limit = DefaultDailyHistoryLimit
	}
	totals := groupByDay(entries, func(e *LedgerEntry) (decimal.Decimal, bool) {
		return e.SignedAmount(), true
	})
	sort.Slice(totals, func(i, j int) bool { return totals[i].Date.After(totals[j].Date) })
	if len(totals) > limit {
		totals = totals[:limit]
	}
	return totals
}

// DepositTotalsByDay returns deposit totals per day, oldest day first
func DepositTotalsByDay(entries []*LedgerEntry) []DailyTotal {
	totals := groupByDay(entries, func(e *LedgerEntry) (decimal.Decimal, bool) {
		return e.Amount, e.Kind == EntryKindDeposit
	})
	sort.Slice(totals, func(i, j int) bool { return totals[i].Date.Before(totals[j].Date) })
	return totals
}

func depositDays(entries []*LedgerEntry) map[time.Time]bool {
	days := make(map[time.Time]bool)
	for _, e := range entries {
		if e.Kind == EntryKindDeposit {
			days[util.DateOf(e.Date)] = true
		}
	}
	return days
}

func groupByDay(entries []*LedgerEntry, value func(*LedgerEntry) (decimal.Decimal, bool)) []DailyTotal {
	byDay := make(map[time.Time]decimal.Decimal)
	for _, e := range entries {
		v, ok := value(e)
		if !ok {
			continue
		}
		day := util.DateOf(e.Date)
		byDay[day] = byDay[day].Add(v)
	}
	totals := make([]DailyTotal, 0, len(byDay))
	for day, total := range byDay {
		totals = append(totals, DailyTotal{Date: day, Total: total})
	}
	return totals
}
