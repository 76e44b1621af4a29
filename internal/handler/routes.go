package handler

import (
	"github.com/labstack/echo/v4"
)

// Handlers groups the API handlers registered under /api/v1
type Handlers struct {
	Goal     *GoalHandler
	Ledger   *LedgerHandler
	Insights *InsightsHandler
	Badge    *BadgeHandler
	Profile  *ProfileHandler
	Settings *SettingsHandler
	Catalog  *CatalogHandler
	Reminder *ReminderHandler
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, h Handlers, middlewares ...echo.MiddlewareFunc) {
	// API version 1
	api := e.Group("/api/v1", middlewares...)

	// Goal routes
	goals := api.Group("/goals")
	goals.POST("", h.Goal.CreateGoal)
	goals.GET("", h.Goal.GetGoals)
	goals.GET("/:id", h.Goal.GetGoal)
	goals.PUT("/:id", h.Goal.UpdateGoal)
	goals.DELETE("/:id", h.Goal.DeleteGoal)
	goals.GET("/:id/timeline", h.Goal.GetTimeline)

	// Ledger routes
	goals.POST("/:id/deposits", h.Ledger.Deposit)
	goals.POST("/:id/withdrawals", h.Ledger.Withdraw)
	goals.GET("/:id/entries", h.Ledger.GetGoalEntries)
	goals.GET("/:id/stats", h.Ledger.GetStats)
	goals.GET("/:id/history", h.Ledger.GetHistory)
	goals.GET("/:id/trend", h.Ledger.GetTrend)
	goals.GET("/:id/weekly", h.Ledger.GetWeekly)
	api.GET("/entries", h.Ledger.GetEntriesByDate)
	api.DELETE("/entries/:id", h.Ledger.DeleteEntry)

	// Insights routes
	insights := api.Group("/insights")
	insights.GET("", h.Insights.GetInsights)
	insights.GET("/velocity", h.Insights.GetVelocity)
	insights.GET("/distribution", h.Insights.GetDistribution)
	insights.GET("/projections", h.Insights.GetProjections)

	// Badge routes
	badges := api.Group("/badges")
	badges.GET("", h.Badge.GetBadges)
	badges.GET("/count", h.Badge.GetBadgeCount)
	badges.GET("/:id", h.Badge.GetBadge)
	badges.DELETE("/:id", h.Badge.DeleteBadge)

	// Profile routes
	profile := api.Group("/profile")
	profile.GET("", h.Profile.GetProfile)
	profile.PUT("", h.Profile.SaveProfile)
	profile.DELETE("", h.Profile.DeleteProfile)
	profile.PATCH("/income", h.Profile.UpdateMonthlyIncome)
	profile.PATCH("/expenses", h.Profile.UpdateMonthlyExpenses)
	profile.GET("/recommendation", h.Profile.GetRecommendation)
	api.POST("/onboarding", h.Profile.CompleteOnboarding)

	// Settings routes
	settings := api.Group("/settings")
	settings.GET("", h.Settings.GetSettings)
	settings.PUT("", h.Settings.UpdateSettings)
	settings.DELETE("", h.Settings.ClearSettings)

	// Catalog routes
	api.GET("/countries", h.Catalog.GetCountries)
	api.GET("/currencies", h.Catalog.GetCurrencies)

	// Reminder routes
	api.POST("/reminders/check", h.Reminder.CheckReminder)
}
