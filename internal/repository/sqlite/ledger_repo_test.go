package sqlite_test

import (
	"errors"

	"github.com/dafibh/coinspot/coinspot-backend/internal/domain"
	"github.com/dafibh/coinspot/coinspot-backend/internal/repository/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestLedgerApplyDeposit() {
	goal := suite.createTestGoal("Emergency", 1000, 30)

	updated, entry := suite.applyTestEntry(goal, domain.EntryKindDeposit, 250, suiteToday)

	assert.True(suite.T(), updated.CurrentAmount.Equal(decimal.NewFromInt(250)))
	assert.False(suite.T(), updated.IsCompleted)
	assert.NotZero(suite.T(), entry.ID)
	assert.Equal(suite.T(), goal.ID, entry.GoalID)
	assert.Equal(suite.T(), domain.EntryKindDeposit, entry.Kind)
	assert.Equal(suite.T(), suiteToday, entry.Date)
}

func (suite *TestSuiteStandard) TestLedgerApplyCompletesOnce() {
	goal := suite.createTestGoal("Console", 100, 30)

	first, _ := suite.applyTestEntry(goal, domain.EntryKindDeposit, 100, suiteToday)
	suite.Require().True(first.IsCompleted)
	suite.Require().NotNil(first.CompletedDate)
	assert.Equal(suite.T(), suiteToday, *first.CompletedDate)

	later := suiteToday.AddDate(0, 0, 3)
	second, _ := suite.applyTestEntry(goal, domain.EntryKindDeposit, 10, later)
	assert.True(suite.T(), second.IsCompleted)
	assert.Equal(suite.T(), suiteToday, *second.CompletedDate, "completion date is kept")
}

func (suite *TestSuiteStandard) TestLedgerApplyUnknownGoal() {
	_, _, err := sqlite.NewLedgerRepository(suite.db).Apply(&domain.BalanceChange{
		GoalID:    999,
		NewAmount: decimal.NewFromInt(10),
		Entry: &domain.LedgerEntry{
			Amount: decimal.NewFromInt(10),
			Date:   suiteToday,
			Kind:   domain.EntryKindDeposit,
		},
	})
	assert.True(suite.T(), errors.Is(err, domain.ErrGoalNotFound))

	entries, err := sqlite.NewLedgerRepository(suite.db).GetDeposits()
	suite.Require().NoError(err)
	assert.Empty(suite.T(), entries, "nothing is written when the goal is missing")
}

func (suite *TestSuiteStandard) TestLedgerQueries() {
	repo := sqlite.NewLedgerRepository(suite.db)
	goal := suite.createTestGoal("House", 10000, 365)
	other := suite.createTestGoal("Car", 5000, 365)

	suite.applyTestEntry(goal, domain.EntryKindDeposit, 100, suiteToday.AddDate(0, 0, -2))
	suite.applyTestEntry(goal, domain.EntryKindDeposit, 300, suiteToday.AddDate(0, 0, -1))
	suite.applyTestEntry(goal, domain.EntryKindWithdrawal, 50, suiteToday)
	suite.applyTestEntry(other, domain.EntryKindDeposit, 70, suiteToday)

	entries, err := repo.GetByGoal(goal.ID)
	suite.Require().NoError(err)
	suite.Require().Len(entries, 3)
	assert.Equal(suite.T(), domain.EntryKindWithdrawal, entries[0].Kind, "newest date first")

	ranged, err := repo.GetByGoalAndDateRange(goal.ID, suiteToday.AddDate(0, 0, -2), suiteToday.AddDate(0, 0, -1))
	suite.Require().NoError(err)
	assert.Len(suite.T(), ranged, 2)

	today, err := repo.GetByDate(suiteToday)
	suite.Require().NoError(err)
	assert.Len(suite.T(), today, 2)

	deposits, err := repo.GetDeposits()
	suite.Require().NoError(err)
	assert.Len(suite.T(), deposits, 3)

	found, err := repo.GetByID(entries[0].ID)
	suite.Require().NoError(err)
	assert.True(suite.T(), found.Amount.Equal(decimal.NewFromInt(50)))

	_, err = repo.GetByID(999)
	assert.True(suite.T(), errors.Is(err, domain.ErrEntryNotFound))
}

func (suite *TestSuiteStandard) TestLedgerAggregates() {
	repo := sqlite.NewLedgerRepository(suite.db)
	goal := suite.createTestGoal("Trip", 10000, 365)

	average, err := repo.AverageDeposit(goal.ID)
	suite.Require().NoError(err)
	assert.True(suite.T(), average.IsZero())

	suite.applyTestEntry(goal, domain.EntryKindDeposit, 10, suiteToday.AddDate(0, 0, -1))
	suite.applyTestEntry(goal, domain.EntryKindDeposit, 20, suiteToday)
	suite.applyTestEntry(goal, domain.EntryKindDeposit, 60, suiteToday)
	suite.applyTestEntry(goal, domain.EntryKindWithdrawal, 15, suiteToday)

	deposits, err := repo.SumByKind(goal.ID, domain.EntryKindDeposit)
	suite.Require().NoError(err)
	assert.True(suite.T(), deposits.Equal(decimal.NewFromInt(90)))

	withdrawals, err := repo.SumByKind(goal.ID, domain.EntryKindWithdrawal)
	suite.Require().NoError(err)
	assert.True(suite.T(), withdrawals.Equal(decimal.NewFromInt(15)))

	average, err = repo.AverageDeposit(goal.ID)
	suite.Require().NoError(err)
	assert.True(suite.T(), average.Equal(decimal.NewFromInt(30)))

	days, err := repo.CountDepositDays(goal.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 2, days)

	totals, err := repo.DailyNetTotals(goal.ID, 0)
	suite.Require().NoError(err)
	suite.Require().Len(totals, 2)
	assert.Equal(suite.T(), suiteToday, totals[0].Date)
	assert.True(suite.T(), totals[0].Total.Equal(decimal.NewFromInt(65)))
	assert.True(suite.T(), totals[1].Total.Equal(decimal.NewFromInt(10)))

	limited, err := repo.DailyNetTotals(goal.ID, 1)
	suite.Require().NoError(err)
	assert.Len(suite.T(), limited, 1)
}

func (suite *TestSuiteStandard) TestLedgerAggregatesFractionalAmounts() {
	repo := sqlite.NewLedgerRepository(suite.db)
	goal := suite.createTestGoal("Coffee", 100, 30)

	suite.applyTestAmount(goal, domain.EntryKindDeposit, decimal.RequireFromString("0.1"), suiteToday)
	updated, _ := suite.applyTestAmount(goal, domain.EntryKindDeposit, decimal.RequireFromString("0.2"), suiteToday)

	want := decimal.RequireFromString("0.3")
	assert.Equal(suite.T(), want.String(), updated.CurrentAmount.String())

	sum, err := repo.SumByKind(goal.ID, domain.EntryKindDeposit)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), want.String(), sum.String())

	average, err := repo.AverageDeposit(goal.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "0.15", average.String())

	totals, err := repo.DailyNetTotals(goal.ID, 0)
	suite.Require().NoError(err)
	suite.Require().Len(totals, 1)
	assert.Equal(suite.T(), want.String(), totals[0].Total.String())
}

func (suite *TestSuiteStandard) TestLedgerAmountsKeepFullPrecision() {
	goal := suite.createTestGoal("Savings", 999999999, 30)
	amount := decimal.RequireFromString("123456789.12345678")

	updated, entry := suite.applyTestAmount(goal, domain.EntryKindDeposit, amount, suiteToday)

	assert.Equal(suite.T(), amount.String(), updated.CurrentAmount.String())
	assert.Equal(suite.T(), amount.String(), entry.Amount.String())

	found, err := sqlite.NewLedgerRepository(suite.db).GetByID(entry.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), amount.String(), found.Amount.String())
}

func (suite *TestSuiteStandard) TestLedgerApplyMovesTargetDate() {
	repo := sqlite.NewLedgerRepository(suite.db)
	goal := suite.createTestGoal("Bike", 800, 30)
	suite.applyTestEntry(goal, domain.EntryKindDeposit, 200, suiteToday)

	newTarget := suiteToday.AddDate(0, 0, 12)
	updated, _, err := repo.Apply(&domain.BalanceChange{
		GoalID:        goal.ID,
		NewAmount:     decimal.NewFromInt(150),
		NewTargetDate: &newTarget,
		Entry: &domain.LedgerEntry{
			Amount: decimal.NewFromInt(50),
			Date:   suiteToday,
			Kind:   domain.EntryKindWithdrawal,
		},
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), newTarget, updated.TargetDate)

	reloaded, err := sqlite.NewGoalRepository(suite.db).GetByID(goal.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), newTarget, reloaded.TargetDate)
	assert.True(suite.T(), reloaded.CurrentAmount.Equal(decimal.NewFromInt(150)))
}

func (suite *TestSuiteStandard) TestLedgerApplyWithoutTargetDateKeepsIt() {
	goal := suite.createTestGoal("Tent", 400, 30)

	updated, _ := suite.applyTestEntry(goal, domain.EntryKindDeposit, 100, suiteToday)
	assert.Equal(suite.T(), goal.TargetDate, updated.TargetDate)
}

func (suite *TestSuiteStandard) TestLedgerApplyUnknownGoalWithTargetDate() {
	newTarget := suiteToday.AddDate(0, 0, 12)
	_, _, err := sqlite.NewLedgerRepository(suite.db).Apply(&domain.BalanceChange{
		GoalID:        999,
		NewAmount:     decimal.Zero,
		NewTargetDate: &newTarget,
		Entry: &domain.LedgerEntry{
			Amount: decimal.NewFromInt(10),
			Date:   suiteToday,
			Kind:   domain.EntryKindWithdrawal,
		},
	})
	assert.True(suite.T(), errors.Is(err, domain.ErrGoalNotFound))

	entries, err := sqlite.NewLedgerRepository(suite.db).GetByDate(suiteToday)
	suite.Require().NoError(err)
	assert.Empty(suite.T(), entries)
}

func (suite *TestSuiteStandard) TestLedgerDeleteIsRecordOnly() {
	repo := sqlite.NewLedgerRepository(suite.db)
	goal := suite.createTestGoal("Watch", 500, 30)
	_, entry := suite.applyTestEntry(goal, domain.EntryKindDeposit, 120, suiteToday)

	suite.Require().NoError(repo.Delete(entry.ID))

	reloaded, err := sqlite.NewGoalRepository(suite.db).GetByID(goal.ID)
	suite.Require().NoError(err)
	assert.True(suite.T(), reloaded.CurrentAmount.Equal(decimal.NewFromInt(120)))

	err = repo.Delete(entry.ID)
	assert.True(suite.T(), errors.Is(err, domain.ErrEntryNotFound))
}
