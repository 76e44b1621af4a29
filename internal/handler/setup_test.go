package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dafibh/coinspot/coinspot-backend/internal/domain"
	"github.com/dafibh/coinspot/coinspot-backend/internal/service"
	"github.com/dafibh/coinspot/coinspot-backend/internal/testutil"
	"github.com/dafibh/coinspot/coinspot-backend/internal/util"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.Disabled)
}

type stubReminderChecker struct {
	result service.ReminderResult
	calls  int
}

func (s *stubReminderChecker) CheckAndNotify() service.ReminderResult {
	s.calls++
	return s.result
}

// testApp is the full API wired over in-memory repositories
type testApp struct {
	e        *echo.Echo
	goals    *testutil.MockGoalRepository
	ledger   *testutil.MockLedgerRepository
	badges   *testutil.MockBadgeRepository
	profile  *testutil.MockProfileRepository
	settings *testutil.MockSettingsRepository
	reminder *stubReminderChecker
}

func newTestApp() *testApp {
	goals := testutil.NewMockGoalRepository()
	ledger := testutil.NewMockLedgerRepository(goals)
	badges := testutil.NewMockBadgeRepository()
	profile := testutil.NewMockProfileRepository()
	settings := testutil.NewMockSettingsRepository()
	reminder := &stubReminderChecker{result: service.ReminderSuccess}

	goalService := service.NewGoalService(goals, settings)
	badgeService := service.NewBadgeService(badges, goals, ledger, false)
	ledgerService := service.NewLedgerService(goals, ledger, badgeService)
	insightsService := service.NewInsightsService(goals, ledger)
	profileService := service.NewProfileService(profile, settings)
	settingsService := service.NewSettingsService(settings)

	e := echo.New()
	RegisterRoutes(e, Handlers{
		Goal:     NewGoalHandler(goalService),
		Ledger:   NewLedgerHandler(ledgerService, goalService),
		Insights: NewInsightsHandler(insightsService, goalService),
		Badge:    NewBadgeHandler(badgeService),
		Profile:  NewProfileHandler(profileService),
		Settings: NewSettingsHandler(settingsService),
		Catalog:  NewCatalogHandler(),
		Reminder: NewReminderHandler(reminder),
	})

	return &testApp{
		e:        e,
		goals:    goals,
		ledger:   ledger,
		badges:   badges,
		profile:  profile,
		settings: settings,
		reminder: reminder,
	}
}

func (a *testApp) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

// addGoal stores a goal that runs from today until the end of the century
func (a *testApp) addGoal(id int32, name string, target, current int64) *domain.SavingGoal {
	today := util.DateOf(time.Now())
	goal := &domain.SavingGoal{
		ID:             id,
		Name:           name,
		TargetAmount:   decimal.NewFromInt(target),
		CurrentAmount:  decimal.NewFromInt(current),
		StartDate:      today,
		TargetDate:     time.Date(2099, 12, 31, 0, 0, 0, 0, time.UTC),
		Currency:       "USD",
		CurrencySymbol: "$",
		IconName:       domain.DefaultIconName,
		CreatedAt:      today,
		UpdatedAt:      today,
	}
	a.goals.AddGoal(goal)
	return goal
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to unmarshal response %q: %v", rec.Body.String(), err)
	}
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("Expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func expectProblemField(t *testing.T, rec *httptest.ResponseRecorder, field string) {
	t.Helper()
	var problem ProblemDetails
	decodeJSON(t, rec, &problem)
	if problem.Type != ErrorTypeValidation {
		t.Errorf("Expected validation problem, got %q", problem.Type)
	}
	if len(problem.Errors) != 1 || problem.Errors[0].Field != field {
		t.Errorf("Expected error on field %q, got %+v", field, problem.Errors)
	}
}
