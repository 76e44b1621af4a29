package sqlite_test

import (
	"errors"

	"github.com/dafibh/coinspot/coinspot-backend/internal/domain"
	"github.com/dafibh/coinspot/coinspot-backend/internal/repository/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestProfileGetMissing() {
	_, err := sqlite.NewProfileRepository(suite.db).Get()
	assert.True(suite.T(), errors.Is(err, domain.ErrProfileNotFound))
}

func (suite *TestSuiteStandard) TestProfileSaveReplaces() {
	repo := sqlite.NewProfileRepository(suite.db)

	first, err := repo.Save(&domain.UserProfile{
		Name:            "Ana",
		Country:         "PH",
		Currency:        "PHP",
		CurrencySymbol:  "₱",
		MonthlyIncome:   decimal.NewFromInt(5000),
		MonthlyExpenses: decimal.NewFromInt(2000),
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), domain.ProfileID, first.ID)

	second, err := repo.Save(&domain.UserProfile{
		Name:            "Ana Cruz",
		Country:         "US",
		Currency:        "USD",
		CurrencySymbol:  "$",
		MonthlyIncome:   decimal.NewFromInt(6000),
		MonthlyExpenses: decimal.NewFromInt(2500),
	})
	suite.Require().NoError(err)

	assert.Equal(suite.T(), domain.ProfileID, second.ID)
	assert.Equal(suite.T(), "Ana Cruz", second.Name)
	assert.Equal(suite.T(), "USD", second.Currency)
	assert.True(suite.T(), second.MonthlyIncome.Equal(decimal.NewFromInt(6000)))
	assert.True(suite.T(), second.CreatedAt.Equal(first.CreatedAt), "creation time is kept")
}

func (suite *TestSuiteStandard) TestProfileUpdateAmounts() {
	repo := sqlite.NewProfileRepository(suite.db)

	_, err := repo.UpdateMonthlyIncome(decimal.NewFromInt(100))
	assert.True(suite.T(), errors.Is(err, domain.ErrProfileNotFound))

	_, err = repo.Save(&domain.UserProfile{Name: "Ana", Currency: "USD", CurrencySymbol: "$"})
	suite.Require().NoError(err)

	profile, err := repo.UpdateMonthlyIncome(decimal.NewFromInt(4000))
	suite.Require().NoError(err)
	assert.True(suite.T(), profile.MonthlyIncome.Equal(decimal.NewFromInt(4000)))

	profile, err = repo.UpdateMonthlyExpenses(decimal.NewFromInt(1500))
	suite.Require().NoError(err)
	assert.True(suite.T(), profile.MonthlyExpenses.Equal(decimal.NewFromInt(1500)))
	assert.True(suite.T(), profile.DisposableIncome().Equal(decimal.NewFromInt(2500)))
}

func (suite *TestSuiteStandard) TestProfileDelete() {
	repo := sqlite.NewProfileRepository(suite.db)
	_, err := repo.Save(&domain.UserProfile{Name: "Ana", Currency: "USD", CurrencySymbol: "$"})
	suite.Require().NoError(err)

	suite.Require().NoError(repo.Delete())

	_, err = repo.Get()
	assert.True(suite.T(), errors.Is(err, domain.ErrProfileNotFound))
}
