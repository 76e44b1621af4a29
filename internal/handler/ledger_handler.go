package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dafibh/coinspot/coinspot-backend/internal/domain"
	"github.com/dafibh/coinspot/coinspot-backend/internal/service"
	"github.com/dafibh/coinspot/coinspot-backend/internal/util"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// LedgerHandler handles deposit, withdrawal and ledger history requests
type LedgerHandler struct {
	ledgerService *service.LedgerService
	goalHandler   *GoalHandler
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerService *service.LedgerService, goalService *service.GoalService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
		goalHandler:   NewGoalHandler(goalService),
	}
}

// MoneyRequest represents a deposit or withdrawal request body
type MoneyRequest struct {
	Amount string `json:"amount"`
	Note   string `json:"note,omitempty"`
}

// EntryResponse represents a ledger entry in API responses
type EntryResponse struct {
	ID        int32  `json:"id"`
	GoalID    int32  `json:"goalId"`
	Amount    string `json:"amount"`
	Date      string `json:"date"`
	Note      string `json:"note"`
	Kind      string `json:"kind"`
	CreatedAt string `json:"createdAt"`
}

// LedgerResultResponse represents the outcome of a deposit or withdrawal
type LedgerResultResponse struct {
	Goal   GoalResponse    `json:"goal"`
	Entry  EntryResponse   `json:"entry"`
	Badges []*domain.Badge `json:"badges"`
}

// DailyTotalResponse represents an amount for one day
type DailyTotalResponse struct {
	Date  string `json:"date"`
	Total string `json:"total"`
}

// StatsResponse represents a goal's ledger summary
type StatsResponse struct {
	GoalID            int32  `json:"goalId"`
	AverageDeposit    string `json:"averageDeposit"`
	SavingStreak      int    `json:"savingStreak"`
	ConsecutiveStreak int    `json:"consecutiveStreak"`
	TotalDeposited    string `json:"totalDeposited"`
	TotalWithdrawn    string `json:"totalWithdrawn"`
	NetSaved          string `json:"netSaved"`
	EntryCount        int    `json:"entryCount"`
}

// Deposit godoc
// @Summary Add money to a goal
// @Description The balance is capped at the target; the entry keeps the full amount
// @Tags ledger
// @Accept json
// @Produce json
// @Param id path int true "Goal ID"
// @Param request body MoneyRequest true "Deposit"
// @Success 201 {object} LedgerResultResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /goals/{id}/deposits [post]
func (h *LedgerHandler) Deposit(c echo.Context) error {
	return h.move(c, h.ledgerService.AddMoney, "Failed to add money")
}

// Withdraw godoc
// @Summary Take money out of a goal
// @Tags ledger
// @Accept json
// @Produce json
// @Param id path int true "Goal ID"
// @Param request body MoneyRequest true "Withdrawal"
// @Success 201 {object} LedgerResultResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /goals/{id}/withdrawals [post]
func (h *LedgerHandler) Withdraw(c echo.Context) error {
	return h.move(c, h.ledgerService.WithdrawMoney, "Failed to withdraw money")
}

func (h *LedgerHandler) move(c echo.Context, apply func(int32, decimal.Decimal, string) (*service.LedgerResult, error), failure string) error {
	goalID, ok := parseID(c, "id")
	if !ok {
		return invalidField(c, "id", "Must be a positive integer")
	}

	var req MoneyRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return invalidField(c, "amount", "Must be a valid decimal number")
	}

	result, err := apply(goalID, amount, req.Note)
	if err != nil {
		return handleServiceError(c, err, failure)
	}

	return c.JSON(http.StatusCreated, LedgerResultResponse{
		Goal:   h.goalHandler.toGoalResponse(result.Goal),
		Entry:  toEntryResponse(result.Entry),
		Badges: result.Badges,
	})
}

// GetGoalEntries godoc
// @Summary List a goal's ledger entries
// @Tags ledger
// @Produce json
// @Param id path int true "Goal ID"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {array} EntryResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /goals/{id}/entries [get]
func (h *LedgerHandler) GetGoalEntries(c echo.Context) error {
	goalID, ok := parseID(c, "id")
	if !ok {
		return invalidField(c, "id", "Must be a positive integer")
	}

	fromParam, toParam := c.QueryParam("from"), c.QueryParam("to")
	var (
		entries []*domain.LedgerEntry
		err     error
	)
	if fromParam == "" && toParam == "" {
		entries, err = h.ledgerService.History(goalID)
	} else {
		from, to, perr := h.parseRange(fromParam, toParam)
		if perr != "" {
			return invalidField(c, perr, "Must be a date in YYYY-MM-DD format")
		}
		entries, err = h.ledgerService.HistoryInRange(goalID, from, to)
	}
	if err != nil {
		return handleServiceError(c, err, "Failed to get entries")
	}

	return c.JSON(http.StatusOK, toEntryResponses(entries))
}

// parseRange parses optional bounds; a missing bound is open. It returns the name of a bad field.
func (h *LedgerHandler) parseRange(fromParam, toParam string) (time.Time, time.Time, string) {
	from := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	if fromParam != "" {
		d, err := parseDate(fromParam)
		if err != nil {
			return from, to, "from"
		}
		from = d
	}
	if toParam != "" {
		d, err := parseDate(toParam)
		if err != nil {
			return from, to, "to"
		}
		to = d
	}
	return from, to, ""
}

// GetEntriesByDate godoc
// @Summary List entries of all goals on one day
// @Tags ledger
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {array} EntryResponse
// @Failure 400 {object} ProblemDetails
// @Router /entries [get]
func (h *LedgerHandler) GetEntriesByDate(c echo.Context) error {
	date, err := parseDate(c.QueryParam("date"))
	if err != nil {
		return invalidField(c, "date", "Must be a date in YYYY-MM-DD format")
	}

	entries, err := h.ledgerService.EntriesOn(date)
	if err != nil {
		return handleServiceError(c, err, "Failed to get entries")
	}

	return c.JSON(http.StatusOK, toEntryResponses(entries))
}

// DeleteEntry godoc
// @Summary Delete a ledger entry record
// @Description The goal balance is not changed
// @Tags ledger
// @Param id path int true "Entry ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /entries/{id} [delete]
func (h *LedgerHandler) DeleteEntry(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return invalidField(c, "id", "Must be a positive integer")
	}

	if err := h.ledgerService.DeleteEntry(id); err != nil {
		return handleServiceError(c, err, "Failed to delete entry")
	}

	return c.NoContent(http.StatusNoContent)
}

// GetStats godoc
// @Summary Get a goal's ledger statistics
// @Tags ledger
// @Produce json
// @Param id path int true "Goal ID"
// @Success 200 {object} StatsResponse
// @Failure 404 {object} ProblemDetails
// @Router /goals/{id}/stats [get]
func (h *LedgerHandler) GetStats(c echo.Context) error {
	goalID, ok := parseID(c, "id")
	if !ok {
		return invalidField(c, "id", "Must be a positive integer")
	}

	stats, err := h.ledgerService.Stats(goalID)
	if err != nil {
		return handleServiceError(c, err, "Failed to get stats")
	}

	return c.JSON(http.StatusOK, StatsResponse{
		GoalID:            stats.GoalID,
		AverageDeposit:    stats.AverageDeposit.StringFixed(2),
		SavingStreak:      stats.SavingStreak,
		ConsecutiveStreak: stats.ConsecutiveStreak,
		TotalDeposited:    stats.TotalDeposited.StringFixed(2),
		TotalWithdrawn:    stats.TotalWithdrawn.StringFixed(2),
		NetSaved:          stats.NetSaved.StringFixed(2),
		EntryCount:        stats.EntryCount,
	})
}

// GetHistory godoc
// @Summary Get a goal's net amount per day, newest first
// @Tags ledger
// @Produce json
// @Param id path int true "Goal ID"
// @Param limit query int false "Number of days (default 30)"
// @Success 200 {array} DailyTotalResponse
// @Failure 404 {object} ProblemDetails
// @Router /goals/{id}/history [get]
func (h *LedgerHandler) GetHistory(c echo.Context) error {
	goalID, ok := parseID(c, "id")
	if !ok {
		return invalidField(c, "id", "Must be a positive integer")
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return invalidField(c, "limit", "Must be a positive integer")
		}
		limit = n
	}

	totals, err := h.ledgerService.DailyHistory(goalID, limit)
	if err != nil {
		return handleServiceError(c, err, "Failed to get history")
	}

	return c.JSON(http.StatusOK, toDailyTotalResponses(totals))
}

// GetTrend godoc
// @Summary Get a goal's deposit total per day, oldest first
// @Tags ledger
// @Produce json
// @Param id path int true "Goal ID"
// @Success 200 {array} DailyTotalResponse
// @Failure 404 {object} ProblemDetails
// @Router /goals/{id}/trend [get]
func (h *LedgerHandler) GetTrend(c echo.Context) error {
	goalID, ok := parseID(c, "id")
	if !ok {
		return invalidField(c, "id", "Must be a positive integer")
	}

	totals, err := h.ledgerService.Trend(goalID)
	if err != nil {
		return handleServiceError(c, err, "Failed to get trend")
	}

	return c.JSON(http.StatusOK, toDailyTotalResponses(totals))
}

// GetWeekly godoc
// @Summary Get a goal's deposits for each of the last seven days
// @Tags ledger
// @Produce json
// @Param id path int true "Goal ID"
// @Success 200 {array} DailyTotalResponse
// @Failure 404 {object} ProblemDetails
// @Router /goals/{id}/weekly [get]
func (h *LedgerHandler) GetWeekly(c echo.Context) error {
	goalID, ok := parseID(c, "id")
	if !ok {
		return invalidField(c, "id", "Must be a positive integer")
	}

	totals, err := h.ledgerService.WeeklySavings(goalID)
	if err != nil {
		return handleServiceError(c, err, "Failed to get weekly savings")
	}

	return c.JSON(http.StatusOK, toDailyTotalResponses(totals))
}

func toEntryResponse(e *domain.LedgerEntry) EntryResponse {
	return EntryResponse{
		ID:        e.ID,
		GoalID:    e.GoalID,
		Amount:    e.Amount.StringFixed(2),
		Date:      util.FormatDate(e.Date),
		Note:      e.Note,
		Kind:      string(e.Kind),
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
}

func toEntryResponses(entries []*domain.LedgerEntry) []EntryResponse {
	result := make([]EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = toEntryResponse(e)
	}
	return result
}

func toDailyTotalResponses(totals []domain.DailyTotal) []DailyTotalResponse {
	result := make([]DailyTotalResponse, len(totals))
	for i, t := range totals {
		result[i] = DailyTotalResponse{Date: util.FormatDate(t.Date), Total: t.Total.StringFixed(2)}
	}
	return result
}
