package domain

import (
	"sort"
	"strings"
)

type Country struct {
	Name           string `json:"name"`
	Code           string `json:"code"`
	Currency       string `json:"currency"`
	CurrencySymbol string `json:"currencySymbol"`
}

type Currency struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// countries is kept sorted by name
var countries = []Country{
	{Name: "Argentina", Code: "AR", Currency: "ARS", CurrencySymbol: "$"},
	{Name: "Australia", Code: "AU", Currency: "AUD", CurrencySymbol: "$"},
	{Name: "Bahrain", Code: "BH", Currency: "BHD", CurrencySymbol: "د.ب"},
	{Name: "Bangladesh", Code: "BD", Currency: "BDT", CurrencySymbol: "৳"},
	{Name: "Brazil", Code: "BR", Currency: "BRL", CurrencySymbol: "R$"},
	{Name: "Canada", Code: "CA", Currency: "CAD", CurrencySymbol: "$"},
	{Name: "Chile", Code: "CL", Currency: "CLP", CurrencySymbol: "$"},
	{Name: "China", Code: "CN", Currency: "CNY", CurrencySymbol: "¥"},
	{Name: "Colombia", Code: "CO", Currency: "COP", CurrencySymbol: "$"},
	{Name: "Czech Republic", Code: "CZ", Currency: "CZK", CurrencySymbol: "Kč"},
	{Name: "Denmark", Code: "DK", Currency: "DKK", CurrencySymbol: "kr"},
	{Name: "Egypt", Code: "EG", Currency: "EGP", CurrencySymbol: "£"},
	{Name: "European Union", Code: "EU", Currency: "EUR", CurrencySymbol: "€"},
	{Name: "Hungary", Code: "HU", Currency: "HUF", CurrencySymbol: "Ft"},
	{Name: "India", Code: "IN", Currency: "INR", CurrencySymbol: "₹"},
	{Name: "Indonesia", Code: "ID", Currency: "IDR", CurrencySymbol: "Rp"},
	{Name: "Israel", Code: "IL", Currency: "ILS", CurrencySymbol: "₪"},
	{Name: "Japan", Code: "JP", Currency: "JPY", CurrencySymbol: "¥"},
	{Name: "Kenya", Code: "KE", Currency: "KES", CurrencySymbol: "KSh"},
	{Name: "Kuwait", Code: "KW", Currency: "KWD", CurrencySymbol: "د.ك"},
	{Name: "Malaysia", Code: "MY", Currency: "MYR", CurrencySymbol: "RM"},
	{Name: "Mexico", Code: "MX", Currency: "MXN", CurrencySymbol: "$"},
	{Name: "New Zealand", Code: "NZ", Currency: "NZD", CurrencySymbol: "$"},
	{Name: "Nigeria", Code: "NG", Currency: "NGN", CurrencySymbol: "₦"},
	{Name: "Norway", Code: "NO", Currency: "NOK", CurrencySymbol: "kr"},
	{Name: "Oman", Code: "OM", Currency: "OMR", CurrencySymbol: "ر.ع"},
	{Name: "Pakistan", Code: "PK", Currency: "PKR", CurrencySymbol: "Rs"},
	{Name: "Peru", Code: "PE", Currency: "PEN", CurrencySymbol: "S/"},
	{Name: "Philippines", Code: "PH", Currency: "PHP", CurrencySymbol: "₱"},
	{Name: "Poland", Code: "PL", Currency: "PLN", CurrencySymbol: "zł"},
	{Name: "Qatar", Code: "QA", Currency: "QAR", CurrencySymbol: "ر.ق"},
	{Name: "Russia", Code: "RU", Currency: "RUB", CurrencySymbol: "₽"},
	{Name: "Saudi Arabia", Code: "SA", Currency: "SAR", CurrencySymbol: "ر.س"},
	{Name: "Singapore", Code: "SG", Currency: "SGD", CurrencySymbol: "$"},
	{Name: "South Africa", Code: "ZA", Currency: "ZAR", CurrencySymbol: "R"},
	{Name: "South Korea", Code: "KR", Currency: "KRW", CurrencySymbol: "₩"},
	{Name: "Sri Lanka", Code: "LK", Currency: "LKR", CurrencySymbol: "Rs"},
	{Name: "Sweden", Code: "SE", Currency: "SEK", CurrencySymbol: "kr"},
	{Name: "Switzerland", Code: "CH", Currency: "CHF", CurrencySymbol: "Fr"},
	{Name: "Thailand", Code: "TH", Currency: "THB", CurrencySymbol: "฿"},
	{Name: "Turkey", Code: "TR", Currency: "TRY", CurrencySymbol: "₺"},
	{Name: "United Arab Emirates", Code: "AE", Currency: "AED", CurrencySymbol: "د.إ"},
	{Name: "United Kingdom", Code: "UK", Currency: "GBP", CurrencySymbol: "£"},
	{Name: "United States", Code: "US", Currency: "USD", CurrencySymbol: "$"},
	{Name: "Vietnam", Code: "VN", Currency: "VND", CurrencySymbol: "₫"},
}

var currencies = []Currency{
	{Code: "USD", Name: "US Dollar", Symbol: "$"},
	{Code: "EUR", Name: "Euro", Symbol: "€"},
	{Code: "GBP", Name: "British Pound", Symbol: "£"},
	{Code: "LKR", Name: "Sri Lankan Rupee", Symbol: "Rs"},
	{Code: "INR", Name: "Indian Rupee", Symbol: "₹"},
	{Code: "JPY", Name: "Japanese Yen", Symbol: "¥"},
	{Code: "CNY", Name: "Chinese Yuan", Symbol: "¥"},
	{Code: "AUD", Name: "Australian Dollar", Symbol: "A$"},
	{Code: "CAD", Name: "Canadian Dollar", Symbol: "C$"},
	{Code: "SGD", Name: "Singapore Dollar", Symbol: "S$"},
}

// Countries returns the supported countries ordered by name
func Countries() []Country {
	out := make([]Country, len(countries))
	copy(out, countries)
	return out
}

// Currencies returns the currencies offered for goals
func Currencies() []Currency {
	out := make([]Currency, len(currencies))
	copy(out, currencies)
	return out
}

// CountryByCode finds a country by its two letter code, ignoring case
func CountryByCode(code string) (Country, bool) {
	for _, c := range countries {
		if strings.EqualFold(c.Code, code) {
			return c, true
		}
	}
	return Country{}, false
}

// CountryByName finds a country by its exact name
func CountryByName(name string) (Country, bool) {
	i := sort.Search(len(countries), func(i int) bool { return countries[i].Name >= name })
	if i < len(countries) && countries[i].Name == name {
		return countries[i], true
	}
	return Country{}, false
}

// CurrencySymbol returns the symbol for a currency code.
// Codes outside the currency list are looked up through the countries; unknown codes get "$".
func CurrencySymbol(code string) string {
	code = strings.ToUpper(code)
	for _, c := range currencies {
		if c.Code == code {
			return c.Symbol
		}
	}
	for _, c := range countries {
		if c.Currency == code {
			return c.CurrencySymbol
		}
	}
	return DefaultCurrencySymbol
}
