package handler

import (
	"net/http"

	"github.com/dafibh/coinspot/coinspot-backend/internal/domain"
	"github.com/labstack/echo/v4"
)

// CatalogHandler serves the static country and currency lists
type CatalogHandler struct{}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// GetCountries godoc
// @Summary List supported countries with their currency
// @Tags catalog
// @Produce json
// @Success 200 {array} domain.Country
// @Router /countries [get]
func (h *CatalogHandler) GetCountries(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.Countries())
}

// GetCurrencies godoc
// @Summary List supported currencies
// @Tags catalog
// @Produce json
// @Success 200 {array} domain.Currency
// @Router /currencies [get]
func (h *CatalogHandler) GetCurrencies(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.Currencies())
}
