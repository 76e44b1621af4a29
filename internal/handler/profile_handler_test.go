package handler

import (
	"net/http"
	"testing"

	"github.com/dafibh/coinspot/coinspot-backend/internal/domain"
	"github.com/shopspring/decimal"
)

func TestGetProfile_NotFound(t *testing.T) {
	app := newTestApp()

	rec := app.do(http.MethodGet, "/api/v1/profile", "")
	expectStatus(t, rec, http.StatusNotFound)

	var problem ProblemDetails
	decodeJSON(t, rec, &problem)
	if problem.Detail != "Profile not found" {
		t.Errorf("Expected 'Profile not found', got %q", problem.Detail)
	}
}

func TestSaveProfile(t *testing.T) {
	app := newTestApp()

	rec := app.do(http.MethodPut, "/api/v1/profile",
		`{"name":"Sam","country":"Japan","currency":"jpy","monthlyIncome":"3000","monthlyExpenses":"3500"}`)
	expectStatus(t, rec, http.StatusOK)

	var resp ProfileResponse
	decodeJSON(t, rec, &resp)
	if resp.Currency != "JPY" || resp.CurrencySymbol != "¥" {
		t.Errorf("Expected JPY ¥, got %s %s", resp.Currency, resp.CurrencySymbol)
	}
	if resp.DisposableIncome != "0.00" {
		t.Errorf("Expected disposable income floored at 0.00, got %s", resp.DisposableIncome)
	}

	rec = app.do(http.MethodGet, "/api/v1/profile", "")
	expectStatus(t, rec, http.StatusOK)
}

func TestSaveProfile_Invalid(t *testing.T) {
	app := newTestApp()

	rec := app.do(http.MethodPut, "/api/v1/profile", `{"name":"Sam","monthlyIncome":"lots"}`)
	expectStatus(t, rec, http.StatusBadRequest)
	expectProblemField(t, rec, "monthlyIncome")

	rec = app.do(http.MethodPut, "/api/v1/profile", `{"name":"  "}`)
	expectStatus(t, rec, http.StatusBadRequest)

	if app.profile.Profile != nil {
		t.Error("Rejected profile must not be stored")
	}
}

func TestUpdateMonthlyIncomeAndExpenses(t *testing.T) {
	app := newTestApp()
	app.profile.Profile = &domain.UserProfile{
		ID:              domain.ProfileID,
		Name:            "Sam",
		Currency:        "USD",
		CurrencySymbol:  "$",
		MonthlyIncome:   decimal.NewFromInt(3000),
		MonthlyExpenses: decimal.NewFromInt(2000),
	}

	rec := app.do(http.MethodPatch, "/api/v1/profile/income", `{"amount":"4000"}`)
	expectStatus(t, rec, http.StatusOK)
	var resp ProfileResponse
	decodeJSON(t, rec, &resp)
	if resp.MonthlyIncome != "4000.00" || resp.DisposableIncome != "2000.00" {
		t.Errorf("Unexpected profile after income update %+v", resp)
	}

	rec = app.do(http.MethodPatch, "/api/v1/profile/expenses", `{"amount":"-1"}`)
	expectStatus(t, rec, http.StatusBadRequest)

	rec = app.do(http.MethodPatch, "/api/v1/profile/expenses", `{"amount":"2500"}`)
	expectStatus(t, rec, http.StatusOK)
	decodeJSON(t, rec, &resp)
	if resp.DisposableIncome != "1500.00" {
		t.Errorf("Expected disposable income 1500.00, got %s", resp.DisposableIncome)
	}
}

func TestUpdateMonthlyIncome_NoProfile(t *testing.T) {
	app := newTestApp()

	rec := app.do(http.MethodPatch, "/api/v1/profile/income", `{"amount":"4000"}`)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestDeleteProfile(t *testing.T) {
	app := newTestApp()
	app.profile.Profile = &domain.UserProfile{ID: domain.ProfileID, Name: "Sam"}

	rec := app.do(http.MethodDelete, "/api/v1/profile", "")
	expectStatus(t, rec, http.StatusNoContent)
	if app.profile.Profile != nil {
		t.Error("Expected profile to be deleted")
	}
}

func TestGetRecommendation(t *testing.T) {
	tests := []struct {
		style  string
		status int
		daily  string
	}{
		{"", http.StatusOK, "10.00"},
		{"conservative", http.StatusOK, "5.00"},
		{"balanced", http.StatusOK, "10.00"},
		{"aggressive", http.StatusOK, "20.00"},
		{"reckless", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.style, func(t *testing.T) {
			app := newTestApp()
			app.profile.Profile = &domain.UserProfile{
				ID:              domain.ProfileID,
				Name:            "Sam",
				MonthlyIncome:   decimal.NewFromInt(5000),
				MonthlyExpenses: decimal.NewFromInt(2000),
			}

			rec := app.do(http.MethodGet, "/api/v1/profile/recommendation?style="+tt.style, "")
			expectStatus(t, rec, tt.status)
			if tt.status != http.StatusOK {
				expectProblemField(t, rec, "style")
				return
			}

			var resp RecommendationResponse
			decodeJSON(t, rec, &resp)
			if resp.DailyAmount != tt.daily {
				t.Errorf("Expected daily %s, got %s", tt.daily, resp.DailyAmount)
			}
			if resp.DisposableIncome != "3000.00" {
				t.Errorf("Expected disposable 3000.00, got %s", resp.DisposableIncome)
			}
		})
	}
}

func TestCompleteOnboarding(t *testing.T) {
	app := newTestApp()

	rec := app.do(http.MethodPost, "/api/v1/onboarding",
		`{"name":"Sam","countryCode":"IN","monthlyIncome":"50000","monthlyExpenses":"30000"}`)
	expectStatus(t, rec, http.StatusCreated)

	var resp ProfileResponse
	decodeJSON(t, rec, &resp)
	if resp.Country != "India" || resp.Currency != "INR" || resp.CurrencySymbol != "₹" {
		t.Errorf("Unexpected profile %+v", resp)
	}

	rec = app.do(http.MethodGet, "/api/v1/settings", "")
	expectStatus(t, rec, http.StatusOK)
	var settings domain.Settings
	decodeJSON(t, rec, &settings)
	if !settings.IsOnboardingComplete || settings.UserCountry != "IN" || settings.UserCurrency != "INR" {
		t.Errorf("Unexpected settings after onboarding %+v", settings)
	}
}

func TestCompleteOnboarding_UnknownCountry(t *testing.T) {
	app := newTestApp()

	rec := app.do(http.MethodPost, "/api/v1/onboarding", `{"name":"Sam","countryCode":"ZZ"}`)
	expectStatus(t, rec, http.StatusBadRequest)
	expectProblemField(t, rec, "country")
	if app.profile.Profile != nil {
		t.Error("Rejected onboarding must not store a profile")
	}
}
