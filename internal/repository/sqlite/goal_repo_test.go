package sqlite_test

import (
	"errors"

	"github.com/dafibh/coinspot/coinspot-backend/internal/domain"
	"github.com/dafibh/coinspot/coinspot-backend/internal/repository/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestGoalCreateAndGet() {
	created := suite.createTestGoal("Vacation", 1000, 60)

	assert.NotZero(suite.T(), created.ID)

	goal, err := sqlite.NewGoalRepository(suite.db).GetByID(created.ID)
	suite.Require().NoError(err)

	assert.Equal(suite.T(), "Vacation", goal.Name)
	assert.True(suite.T(), goal.TargetAmount.Equal(decimal.NewFromInt(1000)))
	assert.True(suite.T(), goal.CurrentAmount.IsZero())
	assert.Equal(suite.T(), suiteToday.AddDate(0, 0, 60), goal.TargetDate)
	assert.Equal(suite.T(), suiteToday.AddDate(0, 0, -10), goal.StartDate)
	assert.False(suite.T(), goal.IsCompleted)
	assert.Nil(suite.T(), goal.CompletedDate)
}

func (suite *TestSuiteStandard) TestGoalGetByIDNotFound() {
	_, err := sqlite.NewGoalRepository(suite.db).GetByID(999)
	assert.True(suite.T(), errors.Is(err, domain.ErrGoalNotFound))
}

func (suite *TestSuiteStandard) TestGoalListings() {
	repo := sqlite.NewGoalRepository(suite.db)

	late := suite.createTestGoal("Late", 100, 90)
	soon := suite.createTestGoal("Soon", 100, 10)
	done := suite.createTestGoal("Done", 100, 30)
	suite.applyTestEntry(done, domain.EntryKindDeposit, 100, suiteToday)

	all, err := repo.GetAll()
	suite.Require().NoError(err)
	suite.Require().Len(all, 3)
	assert.Equal(suite.T(), done.ID, all[0].ID, "newest goal comes first")

	active, err := repo.GetActive()
	suite.Require().NoError(err)
	suite.Require().Len(active, 2)
	assert.Equal(suite.T(), soon.ID, active[0].ID)
	assert.Equal(suite.T(), late.ID, active[1].ID)

	completed, err := repo.GetCompleted()
	suite.Require().NoError(err)
	suite.Require().Len(completed, 1)
	assert.Equal(suite.T(), done.ID, completed[0].ID)

	count, err := repo.CountCompleted()
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 1, count)
}

func (suite *TestSuiteStandard) TestGoalUpdateKeepsBalance() {
	repo := sqlite.NewGoalRepository(suite.db)
	goal := suite.createTestGoal("Bike", 500, 30)
	suite.applyTestEntry(goal, domain.EntryKindDeposit, 200, suiteToday)

	goal.Name = "Road Bike"
	goal.Description = "Carbon frame"
	goal.TargetAmount = decimal.NewFromInt(800)
	goal.CurrentAmount = decimal.NewFromInt(9999)

	updated, err := repo.Update(goal)
	suite.Require().NoError(err)

	assert.Equal(suite.T(), "Road Bike", updated.Name)
	assert.Equal(suite.T(), "Carbon frame", updated.Description)
	assert.True(suite.T(), updated.TargetAmount.Equal(decimal.NewFromInt(800)))
	assert.True(suite.T(), updated.CurrentAmount.Equal(decimal.NewFromInt(200)), "balance must not change through Update")
}

func (suite *TestSuiteStandard) TestGoalUpdateNotFound() {
	goal := suite.createTestGoal("Ghost", 100, 10)
	goal.ID = 999

	_, err := sqlite.NewGoalRepository(suite.db).Update(goal)
	assert.True(suite.T(), errors.Is(err, domain.ErrGoalNotFound))
}

func (suite *TestSuiteStandard) TestGoalDeleteRemovesEntries() {
	repo := sqlite.NewGoalRepository(suite.db)
	ledger := sqlite.NewLedgerRepository(suite.db)

	goal := suite.createTestGoal("Phone", 900, 30)
	suite.applyTestEntry(goal, domain.EntryKindDeposit, 50, suiteToday)
	suite.applyTestEntry(goal, domain.EntryKindDeposit, 25, suiteToday)

	suite.Require().NoError(repo.Delete(goal.ID))

	_, err := repo.GetByID(goal.ID)
	assert.True(suite.T(), errors.Is(err, domain.ErrGoalNotFound))

	entries, err := ledger.GetByGoal(goal.ID)
	suite.Require().NoError(err)
	assert.Empty(suite.T(), entries)

	err = repo.Delete(goal.ID)
	assert.True(suite.T(), errors.Is(err, domain.ErrGoalNotFound))
}
