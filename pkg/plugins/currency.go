package plugins

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const defaultCurrencyBaseURL = "https://api.frankfurter.app"

// Currency provides live exchange rates from the frankfurter.app API.
type Currency struct {
	rest    *restClient
	baseURL string
}

func NewCurrency(rest *restClient) *Currency {
	return &Currency{rest: rest, baseURL: defaultCurrencyBaseURL}
}

func (c *Currency) Plugins() []Plugin {
	return []Plugin{
		{
			Descriptor: Descriptor{
				Name:        "Currency-ConvertCurrency",
				Description: "Convert between currencies using REAL live exchange rates.",
				Params: []Param{
					{Name: "amount", Type: "number", Description: "Amount to convert", Required: true},
					{Name: "from_currency", Type: "string", Description: "Source currency code (e.g., USD, EUR, GBP, JPY)", Required: true},
					{Name: "to_currency", Type: "string", Description: "Target currency code", Required: true},
				},
			},
			Invoke: c.convert,
		},
		{
			Descriptor: Descriptor{
				Name:        "Currency-GetExchangeRates",
				Description: "Get current exchange rates for a base currency.",
				Params: []Param{
					{Name: "base_currency", Type: "string", Description: "Base currency code (e.g., USD, EUR)", Required: true},
					{Name: "target_currencies", Type: "string", Description: "Comma-separated target currencies", Default: "EUR,GBP,JPY,INR,AUD,CAD"},
				},
			},
			Invoke: c.rates,
		},
	}
}

type frankfurterResponse struct {
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

func (c *Currency) convert(ctx context.Context, args Args) Result {
	amount, ok := args.Number("amount")
	if !ok {
		return Failf("Currency conversion failed: missing amount")
	}
	from := strings.ToUpper(args.TextOr("from_currency", ""))
	to := strings.ToUpper(args.TextOr("to_currency", ""))
	if from == "" || to == "" {
		return Failf("Currency conversion failed: missing currency codes")
	}

	u := fmt.Sprintf("%s/latest?amount=%v&from=%s&to=%s",
		c.baseURL, amount, url.QueryEscape(from), url.QueryEscape(to))

	var data frankfurterResponse
	if err := c.rest.getJSON(ctx, u, &data); err != nil {
		return Failf("Currency conversion failed: %v", err)
	}

	converted, ok := data.Rates[to]
	if !ok {
		return Failf("Currency conversion failed: no rate for %s", to)
	}
	if amount == 0 {
		return Okf("💱 0.00 %s = 0.00 %s (as of %s)", from, to, data.Date)
	}
	rate := converted / amount

	return Okf("💱 %.2f %s = %.2f %s\n📊 Rate: 1 %s = %.4f %s (as of %s)",
		amount, from, converted, to, from, rate, to, data.Date)
}

func (c *Currency) rates(ctx context.Context, args Args) Result {
	base := strings.ToUpper(args.TextOr("base_currency", ""))
	if base == "" {
		return Failf("Could not fetch exchange rates: missing base currency")
	}
	targets := strings.ToUpper(args.TextOr("target_currencies", "EUR,GBP,JPY,INR,AUD,CAD"))

	u := fmt.Sprintf("%s/latest?from=%s&to=%s",
		c.baseURL, url.QueryEscape(base), url.QueryEscape(targets))

	var data frankfurterResponse
	if err := c.rest.getJSON(ctx, u, &data); err != nil {
		return Failf("Could not fetch exchange rates: %v", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Exchange Rates for 1 %s (as of %s):\n", base, data.Date)
	// Walk the requested list so output order is stable
	for _, currency := range strings.Split(targets, ",") {
		currency = strings.TrimSpace(currency)
		if rate, ok := data.Rates[currency]; ok {
			fmt.Fprintf(&b, "  • %s: %.4f\n", currency, rate)
		}
	}

	return Ok(b.String())
}
