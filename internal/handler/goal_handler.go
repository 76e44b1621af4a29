package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/dafibh/coinspot/coinspot-backend/internal/domain"
	"github.com/dafibh/coinspot/coinspot-backend/internal/service"
	"github.com/dafibh/coinspot/coinspot-backend/internal/util"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// GoalHandler handles saving goal HTTP requests
type GoalHandler struct {
	goalService *service.GoalService
}

// NewGoalHandler creates a new GoalHandler
func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// CreateGoalRequest represents the create goal request body
type CreateGoalRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	TargetAmount   string `json:"targetAmount"`
	StartDate      string `json:"startDate,omitempty"`
	TargetDate     string `json:"targetDate"`
	Currency       string `json:"currency,omitempty"`
	CurrencySymbol string `json:"currencySymbol,omitempty"`
	IconName       string `json:"iconName,omitempty"`
}

// UpdateGoalRequest represents the update goal request body; omitted fields are unchanged
type UpdateGoalRequest struct {
	Name         *string `json:"name,omitempty"`
	Description  *string `json:"description,omitempty"`
	IconName     *string `json:"iconName,omitempty"`
	TargetAmount *string `json:"targetAmount,omitempty"`
	TargetDate   *string `json:"targetDate,omitempty"`
}

// GoalResponse represents a goal and its derived values in API responses
type GoalResponse struct {
	ID             int32               `json:"id"`
	Name           string              `json:"name"`
	Description    string              `json:"description"`
	TargetAmount   string              `json:"targetAmount"`
	CurrentAmount  string              `json:"currentAmount"`
	StartDate      string              `json:"startDate"`
	TargetDate     string              `json:"targetDate"`
	Currency       string              `json:"currency"`
	CurrencySymbol string              `json:"currencySymbol"`
	IconName       string              `json:"iconName"`
	IsCompleted    bool                `json:"isCompleted"`
	CompletedDate  *string             `json:"completedDate,omitempty"`
	CreatedAt      string              `json:"createdAt"`
	UpdatedAt      string              `json:"updatedAt"`
	Stats          domain.GoalSnapshot `json:"stats"`
}

// TimelineResponse represents a goal timeline projection
type TimelineResponse struct {
	DaysRemaining   int     `json:"daysRemaining"`
	ExpectedEndDate *string `json:"expectedEndDate,omitempty"`
	CanAchieve      bool    `json:"canAchieve"`
}

// CreateGoal godoc
// @Summary Create a savings goal
// @Tags goals
// @Accept json
// @Produce json
// @Param request body CreateGoalRequest true "Goal"
// @Success 201 {object} GoalResponse
// @Failure 400 {object} ProblemDetails
// @Router /goals [post]
func (h *GoalHandler) CreateGoal(c echo.Context) error {
	var req CreateGoalRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	targetAmount, err := parseAmount(req.TargetAmount)
	if err != nil {
		return invalidField(c, "targetAmount", "Must be a valid decimal number")
	}
	targetDate, err := parseDate(req.TargetDate)
	if err != nil {
		return invalidField(c, "targetDate", "Must be a date in YYYY-MM-DD format")
	}

	input := service.CreateGoalInput{
		Name:           req.Name,
		Description:    req.Description,
		TargetAmount:   targetAmount,
		TargetDate:     targetDate,
		Currency:       req.Currency,
		CurrencySymbol: req.CurrencySymbol,
		IconName:       req.IconName,
	}
	if strings.TrimSpace(req.StartDate) != "" {
		startDate, err := parseDate(req.StartDate)
		if err != nil {
			return invalidField(c, "startDate", "Must be a date in YYYY-MM-DD format")
		}
		input.StartDate = &startDate
	}

	goal, err := h.goalService.CreateGoal(input)
	if err != nil {
		return handleServiceError(c, err, "Failed to create goal")
	}

	return c.JSON(http.StatusCreated, h.toGoalResponse(goal))
}

// GetGoals godoc
// @Summary List savings goals
// @Tags goals
// @Produce json
// @Param status query string false "all, active or completed"
// @Success 200 {array} GoalResponse
// @Failure 400 {object} ProblemDetails
// @Router /goals [get]
func (h *GoalHandler) GetGoals(c echo.Context) error {
	filter := domain.GoalFilter(strings.ToLower(c.QueryParam("status")))
	switch filter {
	case "":
		filter = domain.GoalFilterAll
	case domain.GoalFilterAll, domain.GoalFilterActive, domain.GoalFilterCompleted:
	default:
		return invalidField(c, "status", "Status must be one of: all, active, completed")
	}

	goals, err := h.goalService.ListGoals(filter)
	if err != nil {
		return handleServiceError(c, err, "Failed to get goals")
	}

	return c.JSON(http.StatusOK, h.toGoalResponses(goals))
}

// GetGoal godoc
// @Summary Get a savings goal
// @Tags goals
// @Produce json
// @Param id path int true "Goal ID"
// @Success 200 {object} GoalResponse
// @Failure 404 {object} ProblemDetails
// @Router /goals/{id} [get]
func (h *GoalHandler) GetGoal(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return invalidField(c, "id", "Must be a positive integer")
	}

	goal, err := h.goalService.GetGoal(id)
	if err != nil {
		return handleServiceError(c, err, "Failed to get goal")
	}

	return c.JSON(http.StatusOK, h.toGoalResponse(goal))
}

// UpdateGoal godoc
// @Summary Update a savings goal
// @Tags goals
// @Accept json
// @Produce json
// @Param id path int true "Goal ID"
// @Param request body UpdateGoalRequest true "Fields to change"
// @Success 200 {object} GoalResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /goals/{id} [put]
func (h *GoalHandler) UpdateGoal(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return invalidField(c, "id", "Must be a positive integer")
	}

	var req UpdateGoalRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateGoalInput{
		Name:        req.Name,
		Description: req.Description,
		IconName:    req.IconName,
	}
	if req.TargetAmount != nil {
		amount, err := parseAmount(*req.TargetAmount)
		if err != nil {
			return invalidField(c, "targetAmount", "Must be a valid decimal number")
		}
		input.TargetAmount = &amount
	}
	if req.TargetDate != nil {
		date, err := parseDate(*req.TargetDate)
		if err != nil {
			return invalidField(c, "targetDate", "Must be a date in YYYY-MM-DD format")
		}
		input.TargetDate = &date
	}

	goal, err := h.goalService.UpdateGoal(id, input)
	if err != nil {
		return handleServiceError(c, err, "Failed to update goal")
	}

	return c.JSON(http.StatusOK, h.toGoalResponse(goal))
}

// DeleteGoal godoc
// @Summary Delete a savings goal and its ledger entries
// @Tags goals
// @Param id path int true "Goal ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /goals/{id} [delete]
func (h *GoalHandler) DeleteGoal(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return invalidField(c, "id", "Must be a positive integer")
	}

	if err := h.goalService.DeleteGoal(id); err != nil {
		return handleServiceError(c, err, "Failed to delete goal")
	}

	return c.NoContent(http.StatusNoContent)
}

// GetTimeline godoc
// @Summary Project a goal's completion at a daily amount
// @Tags goals
// @Produce json
// @Param id path int true "Goal ID"
// @Param daily query string true "Daily saving amount"
// @Success 200 {object} TimelineResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /goals/{id}/timeline [get]
func (h *GoalHandler) GetTimeline(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return invalidField(c, "id", "Must be a positive integer")
	}

	daily := decimal.Zero
	if raw := c.QueryParam("daily"); raw != "" {
		var err error
		daily, err = parseAmount(raw)
		if err != nil {
			return invalidField(c, "daily", "Must be a valid decimal number")
		}
	}

	timeline, err := h.goalService.Timeline(id, daily)
	if err != nil {
		return handleServiceError(c, err, "Failed to calculate timeline")
	}

	log.Debug().Int32("goal_id", id).Int("days_remaining", timeline.DaysRemaining).Msg("Timeline calculated")

	return c.JSON(http.StatusOK, TimelineResponse{
		DaysRemaining:   timeline.DaysRemaining,
		ExpectedEndDate: formatDatePtr(timeline.ExpectedEndDate),
		CanAchieve:      timeline.CanAchieve,
	})
}

func (h *GoalHandler) toGoalResponse(goal *domain.SavingGoal) GoalResponse {
	view := h.goalService.View(goal)
	return goalResponse(view.SavingGoal, view.Stats)
}

func (h *GoalHandler) toGoalResponses(goals []*domain.SavingGoal) []GoalResponse {
	views := h.goalService.Views(goals)
	result := make([]GoalResponse, len(views))
	for i, v := range views {
		result[i] = goalResponse(v.SavingGoal, v.Stats)
	}
	return result
}

func goalResponse(goal *domain.SavingGoal, stats domain.GoalSnapshot) GoalResponse {
	return GoalResponse{
		ID:             goal.ID,
		Name:           goal.Name,
		Description:    goal.Description,
		TargetAmount:   goal.TargetAmount.StringFixed(2),
		CurrentAmount:  goal.CurrentAmount.StringFixed(2),
		StartDate:      util.FormatDate(goal.StartDate),
		TargetDate:     util.FormatDate(goal.TargetDate),
		Currency:       goal.Currency,
		CurrencySymbol: goal.CurrencySymbol,
		IconName:       goal.IconName,
		IsCompleted:    goal.IsCompleted,
		CompletedDate:  formatDatePtr(goal.CompletedDate),
		CreatedAt:      goal.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      goal.UpdatedAt.Format(time.RFC3339),
		Stats:          stats,
	}
}
