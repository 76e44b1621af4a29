package sqlite_test

import (
	"github.com/dafibh/coinspot/coinspot-backend/internal/domain"
	"github.com/dafibh/coinspot/coinspot-backend/internal/repository/sqlite"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestSettingsGetMissing() {
	value, ok, err := sqlite.NewSettingsRepository(suite.db).Get(domain.SettingUserName)
	suite.Require().NoError(err)
	assert.False(suite.T(), ok)
	assert.Empty(suite.T(), value)
}

func (suite *TestSuiteStandard) TestSettingsSetOverwrites() {
	repo := sqlite.NewSettingsRepository(suite.db)

	suite.Require().NoError(repo.Set(domain.SettingUserName, "Ana"))
	suite.Require().NoError(repo.Set(domain.SettingUserName, "Ben"))

	value, ok, err := repo.Get(domain.SettingUserName)
	suite.Require().NoError(err)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), "Ben", value)
}

func (suite *TestSuiteStandard) TestSettingsSetManyAndClear() {
	repo := sqlite.NewSettingsRepository(suite.db)

	suite.Require().NoError(repo.SetMany(domain.Settings{
		IsOnboardingComplete: true,
		UserName:             "Ana",
		UserCountry:          "GB",
		UserCurrency:         "GBP",
		CurrencySymbol:       "£",
	}.Map()))

	values, err := repo.GetAll()
	suite.Require().NoError(err)
	assert.Len(suite.T(), values, 5)

	settings := domain.SettingsFromMap(values)
	assert.True(suite.T(), settings.IsOnboardingComplete)
	assert.Equal(suite.T(), "GBP", settings.UserCurrency)
	assert.Equal(suite.T(), "£", settings.CurrencySymbol)

	suite.Require().NoError(repo.Clear())

	values, err = repo.GetAll()
	suite.Require().NoError(err)
	assert.Empty(suite.T(), values)
}
