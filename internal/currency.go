package internal

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency formats amounts for display. Formatting never happens in the
// computation code; it returns decimals and callers format them here.
type Currency struct {
	Code    string // "SEK", "USD", "EUR"
	unit    currency.Unit
	unknown bool
	tag     language.Tag
	printer *message.Printer
}

// symbolOverrides provides custom symbols where x/text defaults aren't ideal
var symbolOverrides = map[string]string{
	"SEK": "kr",
	"NOK": "kr",
	"DKK": "kr",
	"ISK": "kr",
}

// defaultLocaleForCurrency provides fallback locales when currency is specified
// without a system locale (e.g., --currency USD). Uses a "home" locale for each currency.
var defaultLocaleForCurrency = map[string]language.Tag{
	"SEK": language.Swedish,
	"USD": language.AmericanEnglish,
	"EUR": language.German,
	"GBP": language.BritishEnglish,
	"NOK": language.Norwegian,
	"DKK": language.Danish,
	"CHF": language.German,
	"JPY": language.Japanese,
	"CAD": language.CanadianFrench,
	"AUD": language.MustParse("en-AU"),
	"BRL": language.BrazilianPortuguese,
	"MXN": language.LatinAmericanSpanish,
	"INR": language.MustParse("en-IN"),
	"CNY": language.Chinese,
	"PLN": language.Polish,
	"CZK": language.Czech,
	"NZD": language.MustParse("en-NZ"),
	"SGD": language.MustParse("en-SG"),
}

// detectedLocale stores the system locale when auto-detected, so we can use it for formatting
var detectedLocale language.Tag

// GetCurrency returns the Currency for a given code.
// Locale priority: detected system locale > default locale for currency > English.
func GetCurrency(code string) Currency {
	code = strings.ToUpper(code)

	tag := language.English
	if detectedLocale != language.Und {
		tag = detectedLocale
	} else if t, ok := defaultLocaleForCurrency[code]; ok {
		tag = t
	}

	return GetCurrencyWithLocale(code, tag)
}

// GetCurrencyWithLocale returns a Currency with a specific locale for formatting.
func GetCurrencyWithLocale(code string, tag language.Tag) Currency {
	code = strings.ToUpper(code)

	unit, err := currency.ParseISO(code)
	unknown := err != nil
	if unknown {
		unit = currency.USD // fallback unit for number formatting only
	}

	return Currency{
		Code:    code,
		unit:    unit,
		unknown: unknown,
		tag:     tag,
		printer: message.NewPrinter(tag),
	}
}

// DetectSystemCurrency attempts to detect the system currency from the OS locale.
// Returns empty string if detection fails. Also sets detectedLocale for use in formatting.
func DetectSystemCurrency() string {
	locale := detectSystemLocale()
	if locale == "" {
		return ""
	}

	currCode, tag := parseCurrencyFromLocale(locale)
	if currCode != "" {
		detectedLocale = tag
		return currCode
	}
	return ""
}

// parseCurrencyFromLocale extracts currency code and language tag from a locale string.
// Examples: "sv_SE.UTF-8" -> ("SEK", sv-SE), "pt_BR.UTF-8" -> ("BRL", pt-BR)
func parseCurrencyFromLocale(locale string) (string, language.Tag) {
	base := locale
	if idx := strings.Index(base, "."); idx != -1 {
		base = base[:idx]
	}
	if idx := strings.Index(base, "@"); idx != -1 {
		base = base[:idx]
	}

	// Convert to BCP 47 format: "sv_SE" -> "sv-SE"
	tag, err := language.Parse(strings.Replace(base, "_", "-", 1))
	if err != nil {
		return "", language.Und
	}

	_, _, region := tag.Raw()
	if region.String() == "" || region.String() == "ZZ" {
		return "", language.Und
	}

	unit, ok := currency.FromRegion(region)
	if !ok {
		return "", language.Und
	}

	return unit.String(), tag
}

// getSymbol returns the currency symbol, using overrides where needed
func (c Currency) getSymbol() string {
	if c.unknown {
		return c.Code
	}
	if sym, ok := symbolOverrides[c.Code]; ok {
		return sym
	}
	return c.printer.Sprint(currency.NarrowSymbol(c.unit))
}

// isPrefix returns true if this currency symbol should be placed before the amount.
// x/text doesn't expose CLDR symbol positioning, so prefix currencies are listed manually.
func (c Currency) isPrefix() bool {
	switch c.Code {
	case "USD", "GBP", "JPY", "CAD", "AUD", "MXN", "HKD", "SGD", "NZD", "ZAR", "INR":
		return true
	default:
		return false
	}
}

func (c Currency) withSymbol(formatted string) string {
	symbol := c.getSymbol()
	if c.isPrefix() {
		return symbol + formatted
	}
	return formatted + " " + symbol
}

// Format formats an amount rounded to two decimals with the currency symbol
func (c Currency) Format(amount decimal.Decimal) string {
	f, _ := amount.Round(2).Float64()
	return c.withSymbol(c.printer.Sprint(number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2))))
}

// FormatSigned formats an amount with an explicit sign, for savings and cost increases
func (c Currency) FormatSigned(amount decimal.Decimal) string {
	sign := "+"
	if amount.IsNegative() {
		sign = "-"
	}
	return sign + c.Format(amount.Abs())
}

// FormatPercent formats a percentage with one decimal
func (c Currency) FormatPercent(pct decimal.Decimal) string {
	f, _ := pct.Round(1).Float64()
	return c.printer.Sprint(number.Decimal(f, number.MinFractionDigits(1), number.MaxFractionDigits(1))) + "%"
}
