package handler

import (
	"net/http"

	"github.com/dafibh/coinspot/coinspot-backend/internal/domain"
	"github.com/dafibh/coinspot/coinspot-backend/internal/service"
	"github.com/dafibh/coinspot/coinspot-backend/internal/util"
	"github.com/labstack/echo/v4"
)

// InsightsHandler handles cross-goal report requests
type InsightsHandler struct {
	insightsService *service.InsightsService
	goalHandler     *GoalHandler
}

// NewInsightsHandler creates a new InsightsHandler
func NewInsightsHandler(insightsService *service.InsightsService, goalService *service.GoalService) *InsightsHandler {
	return &InsightsHandler{
		insightsService: insightsService,
		goalHandler:     NewGoalHandler(goalService),
	}
}

// InsightsResponse represents the cross-goal report
type InsightsResponse struct {
	TotalGoalsCreated     int            `json:"totalGoalsCreated"`
	TotalGoalsCompleted   int            `json:"totalGoalsCompleted"`
	ActiveGoals           int            `json:"activeGoals"`
	CompletionRate        int            `json:"completionRate"`
	TotalSaved            string         `json:"totalSaved"`
	TotalRemaining        string         `json:"totalRemaining"`
	AverageGoalAmount     string         `json:"averageGoalAmount"`
	AverageDaysToComplete int            `json:"averageDaysToComplete"`
	UpcomingGoals         []GoalResponse `json:"upcomingGoals"`
	GoalsOnTrack          int            `json:"goalsOnTrack"`
	GoalsAtRisk           int            `json:"goalsAtRisk"`
	TopSavingsGoal        *GoalResponse  `json:"topSavingsGoal"`
	FastestCompletedGoal  *GoalResponse  `json:"fastestCompletedGoal"`
	CurrentStreak         int            `json:"currentStreak"`
	ConsistencyScore      int            `json:"consistencyScore"`
}

// ProjectionResponse represents when an active goal is expected to be reached
type ProjectionResponse struct {
	GoalID        int32  `json:"goalId"`
	GoalName      string `json:"goalName"`
	DailyRate     string `json:"dailyRate"`
	ProjectedDate string `json:"projectedDate"`
	TargetDate    string `json:"targetDate"`
}

// GetInsights godoc
// @Summary Get the cross-goal report
// @Tags insights
// @Produce json
// @Success 200 {object} InsightsResponse
// @Failure 500 {object} ProblemDetails
// @Router /insights [get]
func (h *InsightsHandler) GetInsights(c echo.Context) error {
	insights, err := h.insightsService.GetInsights()
	if err != nil {
		return handleServiceError(c, err, "Failed to get insights")
	}
	remaining, err := h.insightsService.GetTotalRemaining()
	if err != nil {
		return handleServiceError(c, err, "Failed to get insights")
	}

	return c.JSON(http.StatusOK, InsightsResponse{
		TotalGoalsCreated:     insights.TotalGoalsCreated,
		TotalGoalsCompleted:   insights.TotalGoalsCompleted,
		ActiveGoals:           insights.ActiveGoals,
		CompletionRate:        insights.CompletionRate,
		TotalSaved:            insights.TotalSaved.StringFixed(2),
		TotalRemaining:        remaining.StringFixed(2),
		AverageGoalAmount:     insights.AverageGoalAmount.StringFixed(2),
		AverageDaysToComplete: insights.AverageDaysToComplete,
		UpcomingGoals:         h.goalHandler.toGoalResponses(insights.UpcomingGoals),
		GoalsOnTrack:          insights.GoalsOnTrack,
		GoalsAtRisk:           insights.GoalsAtRisk,
		TopSavingsGoal:        h.optionalGoal(insights.TopSavingsGoal),
		FastestCompletedGoal:  h.optionalGoal(insights.FastestCompletedGoal),
		CurrentStreak:         insights.CurrentStreak,
		ConsistencyScore:      insights.ConsistencyScore,
	})
}

func (h *InsightsHandler) optionalGoal(goal *domain.SavingGoal) *GoalResponse {
	if goal == nil {
		return nil
	}
	resp := h.goalHandler.toGoalResponse(goal)
	return &resp
}

// GetVelocity godoc
// @Summary Get progress against schedule for active goals
// @Tags insights
// @Produce json
// @Success 200 {array} domain.VelocityMetric
// @Router /insights/velocity [get]
func (h *InsightsHandler) GetVelocity(c echo.Context) error {
	metrics, err := h.insightsService.GetVelocityMetrics()
	if err != nil {
		return handleServiceError(c, err, "Failed to get velocity metrics")
	}
	return c.JSON(http.StatusOK, metrics)
}

// GetDistribution godoc
// @Summary Get how many goals fall in each progress bucket
// @Tags insights
// @Produce json
// @Success 200 {array} domain.ProgressBucket
// @Router /insights/distribution [get]
func (h *InsightsHandler) GetDistribution(c echo.Context) error {
	buckets, err := h.insightsService.GetProgressDistribution()
	if err != nil {
		return handleServiceError(c, err, "Failed to get progress distribution")
	}
	return c.JSON(http.StatusOK, buckets)
}

// GetProjections godoc
// @Summary Get projected completion dates for active goals
// @Tags insights
// @Produce json
// @Success 200 {array} ProjectionResponse
// @Router /insights/projections [get]
func (h *InsightsHandler) GetProjections(c echo.Context) error {
	projections, err := h.insightsService.GetProjectedCompletionDates()
	if err != nil {
		return handleServiceError(c, err, "Failed to get projections")
	}

	result := make([]ProjectionResponse, len(projections))
	for i, p := range projections {
		result[i] = ProjectionResponse{
			GoalID:        p.GoalID,
			GoalName:      p.GoalName,
			DailyRate:     p.DailyRate.StringFixed(2),
			ProjectedDate: util.FormatDate(p.ProjectedDate),
			TargetDate:    util.FormatDate(p.TargetDate),
		}
	}
	return c.JSON(http.StatusOK, result)
}
