package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/dafibh/coinspot/coinspot-backend/internal/domain"
	"github.com/dafibh/coinspot/coinspot-backend/internal/util"
	"github.com/shopspring/decimal"
)

func TestDeposit_CapsBalanceAndCompletesGoal(t *testing.T) {
	app := newTestApp()
	app.addGoal(1, "Bike", 500, 450)

	rec := app.do(http.MethodPost, "/api/v1/goals/1/deposits", `{"amount":"100","note":" birthday "}`)
	expectStatus(t, rec, http.StatusCreated)

	var resp LedgerResultResponse
	decodeJSON(t, rec, &resp)
	if resp.Goal.CurrentAmount != "500.00" {
		t.Errorf("Expected balance capped at 500.00, got %s", resp.Goal.CurrentAmount)
	}
	if !resp.Goal.IsCompleted || resp.Goal.CompletedDate == nil {
		t.Error("Expected goal to be completed")
	}
	if resp.Entry.Amount != "100.00" {
		t.Errorf("Expected entry to keep the full amount, got %s", resp.Entry.Amount)
	}
	if resp.Entry.Note != "birthday" || resp.Entry.Kind != string(domain.EntryKindDeposit) {
		t.Errorf("Unexpected entry %+v", resp.Entry)
	}
	if len(resp.Badges) != 1 || resp.Badges[0].Category != domain.BadgeCategoryFirstGoal {
		t.Errorf("Expected the first goal badge, got %+v", resp.Badges)
	}
}

func TestDeposit_AwardsAmountMilestone(t *testing.T) {
	app := newTestApp()
	app.addGoal(1, "Car", 5000, 0)

	rec := app.do(http.MethodPost, "/api/v1/goals/1/deposits", `{"amount":"1200"}`)
	expectStatus(t, rec, http.StatusCreated)

	var resp LedgerResultResponse
	decodeJSON(t, rec, &resp)
	if len(resp.Badges) != 1 || resp.Badges[0].Name != "Thousand Club" {
		t.Errorf("Expected Thousand Club, got %+v", resp.Badges)
	}
	if len(app.badges.Badges) != 1 {
		t.Errorf("Expected badge to be stored, got %d", len(app.badges.Badges))
	}
}

func TestDeposit_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		status int
		field  string
	}{
		{"zero amount", "/api/v1/goals/1/deposits", `{"amount":"0"}`, http.StatusBadRequest, "amount"},
		{"negative amount", "/api/v1/goals/1/deposits", `{"amount":"-5"}`, http.StatusBadRequest, "amount"},
		{"not a number", "/api/v1/goals/1/deposits", `{"amount":"ten"}`, http.StatusBadRequest, "amount"},
		{"bad goal id", "/api/v1/goals/0/deposits", `{"amount":"10"}`, http.StatusBadRequest, "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp()
			app.addGoal(1, "Bike", 500, 100)

			rec := app.do(http.MethodPost, tt.path, tt.body)
			expectStatus(t, rec, tt.status)
			expectProblemField(t, rec, tt.field)

			if len(app.ledger.Entries) != 0 {
				t.Error("Rejected deposit must not create an entry")
			}
			if !app.goals.Goals[1].CurrentAmount.Equal(decimal.NewFromInt(100)) {
				t.Error("Rejected deposit must not change the balance")
			}
		})
	}
}

func TestDeposit_GoalNotFound(t *testing.T) {
	app := newTestApp()

	rec := app.do(http.MethodPost, "/api/v1/goals/42/deposits", `{"amount":"10"}`)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestWithdraw(t *testing.T) {
	app := newTestApp()
	app.addGoal(1, "Bike", 500, 0)

	rec := app.do(http.MethodPost, "/api/v1/goals/1/deposits", `{"amount":"200"}`)
	expectStatus(t, rec, http.StatusCreated)

	rec = app.do(http.MethodPost, "/api/v1/goals/1/withdrawals", `{"amount":"50","note":"repair"}`)
	expectStatus(t, rec, http.StatusCreated)

	var resp LedgerResultResponse
	decodeJSON(t, rec, &resp)
	if resp.Goal.CurrentAmount != "150.00" {
		t.Errorf("Expected balance 150.00, got %s", resp.Goal.CurrentAmount)
	}
	if resp.Entry.Kind != string(domain.EntryKindWithdrawal) || resp.Entry.Amount != "50.00" {
		t.Errorf("Unexpected withdrawal entry %+v", resp.Entry)
	}
	if len(app.ledger.Entries) != 2 {
		t.Errorf("Expected both entries to be kept, got %d", len(app.ledger.Entries))
	}
}

func TestWithdraw_InsufficientFunds(t *testing.T) {
	app := newTestApp()
	app.addGoal(1, "Bike", 500, 40)

	rec := app.do(http.MethodPost, "/api/v1/goals/1/withdrawals", `{"amount":"50"}`)
	expectStatus(t, rec, http.StatusConflict)

	var problem ProblemDetails
	decodeJSON(t, rec, &problem)
	if problem.Type != ErrorTypeConflict {
		t.Errorf("Expected conflict problem, got %q", problem.Type)
	}
	if !app.goals.Goals[1].CurrentAmount.Equal(decimal.NewFromInt(40)) {
		t.Error("Rejected withdrawal must not change the balance")
	}
}

func TestGetGoalEntries(t *testing.T) {
	app := newTestApp()
	app.addGoal(1, "Bike", 500, 0)
	today := util.DateOf(time.Now())
	app.ledger.AddEntry(&domain.LedgerEntry{GoalID: 1, Amount: decimal.NewFromInt(10), Date: util.AddDays(today, -10), Kind: domain.EntryKindDeposit})
	app.ledger.AddEntry(&domain.LedgerEntry{GoalID: 1, Amount: decimal.NewFromInt(20), Date: today, Kind: domain.EntryKindDeposit})

	rec := app.do(http.MethodGet, "/api/v1/goals/1/entries", "")
	expectStatus(t, rec, http.StatusOK)
	var all []EntryResponse
	decodeJSON(t, rec, &all)
	if len(all) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(all))
	}

	from := util.FormatDate(util.AddDays(today, -1))
	rec = app.do(http.MethodGet, "/api/v1/goals/1/entries?from="+from, "")
	expectStatus(t, rec, http.StatusOK)
	var recent []EntryResponse
	decodeJSON(t, rec, &recent)
	if len(recent) != 1 || recent[0].Amount != "20.00" {
		t.Errorf("Expected only today's entry, got %+v", recent)
	}

	rec = app.do(http.MethodGet, "/api/v1/goals/1/entries?from=2024-02-10&to=2024-02-01", "")
	expectStatus(t, rec, http.StatusBadRequest)

	rec = app.do(http.MethodGet, "/api/v1/goals/1/entries?to=yesterday", "")
	expectStatus(t, rec, http.StatusBadRequest)
	expectProblemField(t, rec, "to")
}

func TestGetEntriesByDate(t *testing.T) {
	app := newTestApp()
	app.addGoal(1, "Bike", 500, 0)
	app.addGoal(2, "Trip", 900, 0)
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	app.ledger.AddEntry(&domain.LedgerEntry{GoalID: 1, Amount: decimal.NewFromInt(10), Date: day, Kind: domain.EntryKindDeposit})
	app.ledger.AddEntry(&domain.LedgerEntry{GoalID: 2, Amount: decimal.NewFromInt(15), Date: day, Kind: domain.EntryKindDeposit})
	app.ledger.AddEntry(&domain.LedgerEntry{GoalID: 2, Amount: decimal.NewFromInt(5), Date: day.AddDate(0, 0, 1), Kind: domain.EntryKindDeposit})

	rec := app.do(http.MethodGet, "/api/v1/entries?date=2024-03-05", "")
	expectStatus(t, rec, http.StatusOK)
	var entries []EntryResponse
	decodeJSON(t, rec, &entries)
	if len(entries) != 2 {
		t.Errorf("Expected 2 entries on 2024-03-05, got %d", len(entries))
	}

	rec = app.do(http.MethodGet, "/api/v1/entries", "")
	expectStatus(t, rec, http.StatusBadRequest)
	expectProblemField(t, rec, "date")
}

func TestDeleteEntry_KeepsBalance(t *testing.T) {
	app := newTestApp()
	app.addGoal(1, "Bike", 500, 0)

	rec := app.do(http.MethodPost, "/api/v1/goals/1/deposits", `{"amount":"30"}`)
	expectStatus(t, rec, http.StatusCreated)
	var result LedgerResultResponse
	decodeJSON(t, rec, &result)

	rec = app.do(http.MethodDelete, "/api/v1/entries/"+itoa(result.Entry.ID), "")
	expectStatus(t, rec, http.StatusNoContent)
	if len(app.ledger.Entries) != 0 {
		t.Error("Expected entry to be deleted")
	}
	if !app.goals.Goals[1].CurrentAmount.Equal(decimal.NewFromInt(30)) {
		t.Error("Deleting an entry must not change the balance")
	}

	rec = app.do(http.MethodDelete, "/api/v1/entries/"+itoa(result.Entry.ID), "")
	expectStatus(t, rec, http.StatusNotFound)
}

func TestGetStats(t *testing.T) {
	app := newTestApp()
	app.addGoal(1, "Bike", 500, 0)
	today := util.DateOf(time.Now())
	app.ledger.AddEntry(&domain.LedgerEntry{GoalID: 1, Amount: decimal.NewFromInt(10), Date: util.AddDays(today, -1), Kind: domain.EntryKindDeposit})
	app.ledger.AddEntry(&domain.LedgerEntry{GoalID: 1, Amount: decimal.NewFromInt(30), Date: today, Kind: domain.EntryKindDeposit})
	app.ledger.AddEntry(&domain.LedgerEntry{GoalID: 1, Amount: decimal.NewFromInt(5), Date: today, Kind: domain.EntryKindWithdrawal})

	rec := app.do(http.MethodGet, "/api/v1/goals/1/stats", "")
	expectStatus(t, rec, http.StatusOK)

	var stats StatsResponse
	decodeJSON(t, rec, &stats)
	if stats.AverageDeposit != "20.00" {
		t.Errorf("Expected average deposit 20.00, got %s", stats.AverageDeposit)
	}
	if stats.TotalDeposited != "40.00" || stats.TotalWithdrawn != "5.00" || stats.NetSaved != "35.00" {
		t.Errorf("Unexpected totals %+v", stats)
	}
	if stats.SavingStreak != 2 || stats.ConsecutiveStreak != 2 {
		t.Errorf("Expected streaks of 2, got %d / %d", stats.SavingStreak, stats.ConsecutiveStreak)
	}
	if stats.EntryCount != 3 {
		t.Errorf("Expected 3 entries, got %d", stats.EntryCount)
	}
}

func TestGetWeekly(t *testing.T) {
	app := newTestApp()
	app.addGoal(1, "Bike", 500, 0)
	today := util.DateOf(time.Now())
	app.ledger.AddEntry(&domain.LedgerEntry{GoalID: 1, Amount: decimal.NewFromInt(25), Date: today, Kind: domain.EntryKindDeposit})

	rec := app.do(http.MethodGet, "/api/v1/goals/1/weekly", "")
	expectStatus(t, rec, http.StatusOK)

	var week []DailyTotalResponse
	decodeJSON(t, rec, &week)
	if len(week) != 7 {
		t.Fatalf("Expected 7 days, got %d", len(week))
	}
	if week[6].Date != util.FormatDate(today) || week[6].Total != "25.00" {
		t.Errorf("Expected today's total last, got %+v", week[6])
	}
	if week[0].Total != "0.00" {
		t.Errorf("Expected empty day to be zero, got %s", week[0].Total)
	}
}

func TestGetHistory_InvalidLimit(t *testing.T) {
	app := newTestApp()
	app.addGoal(1, "Bike", 500, 0)

	rec := app.do(http.MethodGet, "/api/v1/goals/1/history?limit=0", "")
	expectStatus(t, rec, http.StatusBadRequest)
	expectProblemField(t, rec, "limit")

	rec = app.do(http.MethodGet, "/api/v1/goals/1/history?limit=5", "")
	expectStatus(t, rec, http.StatusOK)
}

func TestGetTrend_GoalNotFound(t *testing.T) {
	app := newTestApp()

	rec := app.do(http.MethodGet, "/api/v1/goals/3/trend", "")
	expectStatus(t, rec, http.StatusNotFound)
}

func itoa(id int32) string {
	return decimal.NewFromInt32(id).String()
}
