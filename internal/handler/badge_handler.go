package handler

import (
	"net/http"
	"time"

	"github.com/dafibh/coinspot/coinspot-backend/internal/domain"
	"github.com/dafibh/coinspot/coinspot-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// BadgeHandler handles badge HTTP requests
type BadgeHandler struct {
	badgeService *service.BadgeService
}

// NewBadgeHandler creates a new BadgeHandler
func NewBadgeHandler(badgeService *service.BadgeService) *BadgeHandler {
	return &BadgeHandler{badgeService: badgeService}
}

// BadgeResponse represents an earned badge in API responses
type BadgeResponse struct {
	ID          int32  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IconName    string `json:"iconName"`
	Category    string `json:"category"`
	EarnedDate  string `json:"earnedDate"`
}

// GetBadges godoc
// @Summary List earned badges
// @Tags badges
// @Produce json
// @Param category query string false "Category" Enums(first_goal, goal_achieved, streak, amount_milestone, consistency)
// @Success 200 {array} BadgeResponse
// @Failure 400 {object} ProblemDetails
// @Router /badges [get]
func (h *BadgeHandler) GetBadges(c echo.Context) error {
	var category *domain.BadgeCategory
	if raw := c.QueryParam("category"); raw != "" {
		cat := domain.BadgeCategory(raw)
		if !cat.IsValid() {
			return invalidField(c, "category", "Must be one of first_goal, goal_achieved, streak, amount_milestone, consistency")
		}
		category = &cat
	}

	badges, err := h.badgeService.GetBadges(category)
	if err != nil {
		return handleServiceError(c, err, "Failed to get badges")
	}

	result := make([]BadgeResponse, len(badges))
	for i, b := range badges {
		result[i] = toBadgeResponse(b)
	}
	return c.JSON(http.StatusOK, result)
}

// GetBadge godoc
// @Summary Get a badge
// @Tags badges
// @Produce json
// @Param id path int true "Badge ID"
// @Success 200 {object} BadgeResponse
// @Failure 404 {object} ProblemDetails
// @Router /badges/{id} [get]
func (h *BadgeHandler) GetBadge(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return invalidField(c, "id", "Must be a positive integer")
	}

	badge, err := h.badgeService.GetBadge(id)
	if err != nil {
		return handleServiceError(c, err, "Failed to get badge")
	}
	return c.JSON(http.StatusOK, toBadgeResponse(badge))
}

// GetBadgeCount godoc
// @Summary Count badges overall and per category
// @Tags badges
// @Produce json
// @Success 200 {object} service.BadgeCount
// @Router /badges/count [get]
func (h *BadgeHandler) GetBadgeCount(c echo.Context) error {
	count, err := h.badgeService.CountBadges()
	if err != nil {
		return handleServiceError(c, err, "Failed to count badges")
	}
	return c.JSON(http.StatusOK, count)
}

// DeleteBadge godoc
// @Summary Delete a badge
// @Tags badges
// @Param id path int true "Badge ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /badges/{id} [delete]
func (h *BadgeHandler) DeleteBadge(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return invalidField(c, "id", "Must be a positive integer")
	}

	if err := h.badgeService.DeleteBadge(id); err != nil {
		return handleServiceError(c, err, "Failed to delete badge")
	}
	return c.NoContent(http.StatusNoContent)
}

func toBadgeResponse(b *domain.Badge) BadgeResponse {
	return BadgeResponse{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		IconName:    b.IconName,
		Category:    string(b.Category),
		EarnedDate:  b.EarnedDate.UTC().Format(time.RFC3339),
	}
}
