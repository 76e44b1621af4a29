package sqlite_test

import (
	"errors"

	"github.com/dafibh/coinspot/coinspot-backend/internal/domain"
	"github.com/dafibh/coinspot/coinspot-backend/internal/repository/sqlite"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) createTestBadge(name string, category domain.BadgeCategory, daysAgo int) *domain.Badge {
	badge, err := sqlite.NewBadgeRepository(suite.db).Create(&domain.Badge{
		Name:        name,
		Description: name + " description",
		IconName:    "icon",
		Category:    category,
		EarnedDate:  suiteToday.AddDate(0, 0, -daysAgo),
	})
	suite.Require().NoError(err)
	return badge
}

func (suite *TestSuiteStandard) TestBadgeCreateAndList() {
	repo := sqlite.NewBadgeRepository(suite.db)

	older := suite.createTestBadge("Goal Setter", domain.BadgeCategoryFirstGoal, 5)
	newer := suite.createTestBadge("Thousand Club", domain.BadgeCategoryAmountMilestone, 1)

	badges, err := repo.GetAll()
	suite.Require().NoError(err)
	suite.Require().Len(badges, 2)
	assert.Equal(suite.T(), newer.ID, badges[0].ID)
	assert.Equal(suite.T(), older.ID, badges[1].ID)

	milestones, err := repo.GetByCategory(domain.BadgeCategoryAmountMilestone)
	suite.Require().NoError(err)
	suite.Require().Len(milestones, 1)
	assert.Equal(suite.T(), "Thousand Club", milestones[0].Name)

	badge, err := repo.GetByID(older.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), domain.BadgeCategoryFirstGoal, badge.Category)

	_, err = repo.GetByID(999)
	assert.True(suite.T(), errors.Is(err, domain.ErrBadgeNotFound))
}

func (suite *TestSuiteStandard) TestBadgeCountsAndExists() {
	repo := sqlite.NewBadgeRepository(suite.db)

	suite.createTestBadge("Thousand Club", domain.BadgeCategoryAmountMilestone, 2)
	suite.createTestBadge("Thousand Club", domain.BadgeCategoryAmountMilestone, 1)
	suite.createTestBadge("Persistent Saver", domain.BadgeCategoryStreak, 1)

	count, err := repo.Count()
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 3, count)

	count, err = repo.CountByCategory(domain.BadgeCategoryAmountMilestone)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 2, count)

	exists, err := repo.Exists(domain.BadgeCategoryStreak, "Persistent Saver")
	suite.Require().NoError(err)
	assert.True(suite.T(), exists)

	exists, err = repo.Exists(domain.BadgeCategoryStreak, "Century Saver")
	suite.Require().NoError(err)
	assert.False(suite.T(), exists)
}

func (suite *TestSuiteStandard) TestBadgeDelete() {
	repo := sqlite.NewBadgeRepository(suite.db)
	badge := suite.createTestBadge("Goal Setter", domain.BadgeCategoryFirstGoal, 0)

	suite.Require().NoError(repo.Delete(badge.ID))

	err := repo.Delete(badge.ID)
	assert.True(suite.T(), errors.Is(err, domain.ErrBadgeNotFound))
}
