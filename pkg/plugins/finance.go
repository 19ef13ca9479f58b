package plugins

import (
	"context"
	"math"
)

// Finance provides financial calculation utilities. Purely local, no I/O.
type Finance struct{}

func NewFinance() *Finance {
	return &Finance{}
}

func (f *Finance) Plugins() []Plugin {
	return []Plugin{
		{
			Descriptor: Descriptor{
				Name:        "Finance-CalculateTip",
				Description: "Calculate tip amount and total bill.",
				Params: []Param{
					{Name: "bill_amount", Type: "number", Description: "The bill amount before tip", Required: true},
					{Name: "tip_percentage", Type: "number", Description: "The tip percentage (e.g., 15, 18, 20)", Required: true},
				},
			},
			Invoke: f.calculateTip,
		},
		{
			Descriptor: Descriptor{
				Name:        "Finance-SplitBill",
				Description: "Split a bill among multiple people with tip.",
				Params: []Param{
					{Name: "total_amount", Type: "number", Description: "The total bill amount", Required: true},
					{Name: "num_people", Type: "integer", Description: "Number of people to split among", Required: true},
					{Name: "tip_percentage", Type: "number", Description: "Tip percentage to add", Default: 0},
				},
			},
			Invoke: f.splitBill,
		},
		{
			Descriptor: Descriptor{
				Name:        "Finance-CalculateCompoundInterest",
				Description: "Calculate investment growth with compound interest.",
				Params: []Param{
					{Name: "principal", Type: "number", Description: "Initial investment amount", Required: true},
					{Name: "annual_rate", Type: "number", Description: "Annual interest rate as percentage", Required: true},
					{Name: "years", Type: "integer", Description: "Number of years to invest", Required: true},
					{Name: "compounds_per_year", Type: "integer", Description: "Times interest compounds per year", Default: 12},
				},
			},
			Invoke: f.compoundInterest,
		},
		{
			Descriptor: Descriptor{
				Name:        "Finance-CalculateLoanPayment",
				Description: "Calculate monthly loan/mortgage payment.",
				Params: []Param{
					{Name: "principal", Type: "number", Description: "Loan amount", Required: true},
					{Name: "annual_rate", Type: "number", Description: "Annual interest rate as percentage", Required: true},
					{Name: "years", Type: "integer", Description: "Loan term in years", Required: true},
				},
			},
			Invoke: f.loanPayment,
		},
	}
}

func (f *Finance) calculateTip(ctx context.Context, args Args) Result {
	bill, ok := args.Number("bill_amount")
	if !ok {
		return Failf("Tip calculation failed: missing bill_amount")
	}
	pct, ok := args.Number("tip_percentage")
	if !ok {
		return Failf("Tip calculation failed: missing tip_percentage")
	}

	tip := bill * (pct / 100)
	total := bill + tip
	return Okf("🧾 Bill: $%.2f\n💵 Tip (%g%%): $%.2f\n💰 Total: $%.2f", bill, pct, tip, total)
}

func (f *Finance) splitBill(ctx context.Context, args Args) Result {
	total, ok := args.Number("total_amount")
	if !ok {
		return Failf("Bill split failed: missing total_amount")
	}
	people, ok := args.Integer("num_people")
	if !ok || people <= 0 {
		return Failf("Bill split failed: num_people must be a positive integer")
	}
	pct := args.NumberOr("tip_percentage", 0)

	tip := total * (pct / 100)
	withTip := total + tip
	perPerson := withTip / float64(people)
	return Okf("🧾 Subtotal: $%.2f\n💵 Tip (%g%%): $%.2f\n💰 Total: $%.2f\n👥 Per person (%d): $%.2f",
		total, pct, tip, withTip, people, perPerson)
}

func (f *Finance) compoundInterest(ctx context.Context, args Args) Result {
	principal, ok := args.Number("principal")
	if !ok {
		return Failf("Investment calculation failed: missing principal")
	}
	annualRate, ok := args.Number("annual_rate")
	if !ok {
		return Failf("Investment calculation failed: missing annual_rate")
	}
	years, ok := args.Integer("years")
	if !ok {
		return Failf("Investment calculation failed: missing years")
	}
	compounds := args.IntegerOr("compounds_per_year", 12)
	if compounds <= 0 {
		compounds = 12
	}

	rate := annualRate / 100
	final := principal * math.Pow(1+rate/float64(compounds), float64(compounds*years))
	earnings := final - principal

	return Okf(
		"📈 Investment Calculator\n"+
			"💵 Initial: $%.2f\n"+
			"📊 Rate: %g%% (compounded %dx/year)\n"+
			"⏱️ Duration: %d years\n"+
			"💰 Final Value: $%.2f\n"+
			"✨ Total Earnings: $%.2f",
		principal, annualRate, compounds, years, final, earnings,
	)
}

func (f *Finance) loanPayment(ctx context.Context, args Args) Result {
	principal, ok := args.Number("principal")
	if !ok {
		return Failf("Loan calculation failed: missing principal")
	}
	annualRate, ok := args.Number("annual_rate")
	if !ok {
		return Failf("Loan calculation failed: missing annual_rate")
	}
	years, ok := args.Integer("years")
	if !ok || years <= 0 {
		return Failf("Loan calculation failed: years must be a positive integer")
	}

	monthlyRate := (annualRate / 100) / 12
	numPayments := years * 12

	var monthly float64
	if monthlyRate == 0 {
		monthly = principal / float64(numPayments)
	} else {
		growth := math.Pow(1+monthlyRate, float64(numPayments))
		monthly = principal * (monthlyRate * growth) / (growth - 1)
	}

	totalPaid := monthly * float64(numPayments)
	totalInterest := totalPaid - principal

	return Okf(
		"🏠 Loan Calculator\n"+
			"💵 Loan Amount: $%.2f\n"+
			"📊 Interest Rate: %g%%\n"+
			"⏱️ Term: %d years (%d payments)\n"+
			"📅 Monthly Payment: $%.2f\n"+
			"💰 Total to Pay: $%.2f\n"+
			"📈 Total Interest: $%.2f",
		principal, annualRate, years, numPayments, monthly, totalPaid, totalInterest,
	)
}
