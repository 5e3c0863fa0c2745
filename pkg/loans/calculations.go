// Package loans provides common loan processing utilities.
package loans

import (
	"fmt"
	"math"

	"github.com/iwvelando/brewery-planner/pkg/constants"
	"github.com/iwvelando/brewery-planner/pkg/mathutil"
	"go.uber.org/zap"
)

// Payment holds the values for a given month of a loan.
type Payment struct {
	Month              int
	Payment            float64
	Principal          float64
	Interest           float64
	RemainingPrincipal float64
	GracePeriod        bool
}

// Terms describes a financed amount repaid with the Price (French) system
// after an optional interest-only grace period.
type Terms struct {
	Principal   float64
	MonthlyRate float64
	TermMonths  int
	GraceMonths int
}

// MonthlyRate converts an annual percentage (e.g. 18 for 18% a.a.) into the
// simple monthly rate used throughout the projections.
func MonthlyRate(annualPercent float64) float64 {
	return annualPercent / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// Installment calculates the fixed monthly installment of the Price
// amortization system.
func Installment(principal, monthlyRate float64, numPeriods int) float64 {
	if numPeriods <= 0 {
		return 0
	}
	if monthlyRate <= 0 {
		// Straight-line when there is no interest.
		return principal / float64(numPeriods)
	}
	return principal * monthlyRate / (1 - math.Pow(1+monthlyRate, -float64(numPeriods)))
}

// InterestOnlyPayment is the payment due during a grace period.
func InterestOnlyPayment(principal, monthlyRate float64) float64 {
	return principal * monthlyRate
}

// AmortizationPeriods is the number of installments after the grace period,
// never fewer than one.
func (t Terms) AmortizationPeriods() int {
	periods := t.TermMonths - t.grace()
	if periods < 1 {
		return 1
	}
	return periods
}

// FinalMonth is the last month (1-based) in which a payment is due.
func (t Terms) FinalMonth() int {
	return t.grace() + t.AmortizationPeriods()
}

// Installment is the fixed payment due after the grace period.
func (t Terms) Installment() float64 {
	return Installment(t.Principal, t.MonthlyRate, t.AmortizationPeriods())
}

// InterestOnly is the payment due during the grace period.
func (t Terms) InterestOnly() float64 {
	return InterestOnlyPayment(t.Principal, t.MonthlyRate)
}

// PaymentForMonth returns the debt service due in the given month (1-based).
func (t Terms) PaymentForMonth(month int) float64 {
	switch {
	case t.Principal <= 0 || month < 1 || month > t.FinalMonth():
		return 0
	case month <= t.grace():
		return t.InterestOnly()
	default:
		return t.Installment()
	}
}

// DebtService returns the amount a cash projection deducts in the given
// month: interest only through the grace period, then the fixed installment
// for every later month. Unlike PaymentForMonth it has no cutoff at
// FinalMonth.
func (t Terms) DebtService(month int) float64 {
	switch {
	case t.Principal <= 0 || month < 1:
		return 0
	case month <= t.grace():
		return t.InterestOnly()
	default:
		return t.Installment()
	}
}

func (t Terms) grace() int {
	if t.GraceMonths < 0 {
		return 0
	}
	return t.GraceMonths
}

// AmortizationScheduleGenerator provides utilities for generating loan amortization schedules
type AmortizationScheduleGenerator struct {
	logger *zap.Logger
}

// NewAmortizationScheduleGenerator creates a new generator instance
func NewAmortizationScheduleGenerator(logger *zap.Logger) *AmortizationScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AmortizationScheduleGenerator{logger: logger}
}

// GenerateSchedule creates the month-by-month amortization schedule for the
// given terms.
func (g *AmortizationScheduleGenerator) GenerateSchedule(terms Terms) ([]Payment, error) {
	if terms.Principal < 0 {
		return nil, fmt.Errorf("principal cannot be negative: %.2f", terms.Principal)
	}
	if terms.Principal == 0 {
		return nil, nil
	}

	final := terms.FinalMonth()
	schedule := make([]Payment, 0, final)
	remaining := terms.Principal
	for month := 1; month <= final; month++ {
		var p Payment
		p.Month = month
		p.Interest = remaining * terms.MonthlyRate
		p.Payment = terms.PaymentForMonth(month)

		if month <= terms.grace() {
			p.GracePeriod = true
			p.RemainingPrincipal = remaining
			schedule = append(schedule, p)
			continue
		}

		p.Principal = p.Payment - p.Interest
		if month == final || mathutil.IsZero(remaining-p.Principal) {
			// We will get machine error otherwise so just set to 0.
			p.RemainingPrincipal = 0
		} else {
			p.RemainingPrincipal = remaining - p.Principal
		}
		remaining = p.RemainingPrincipal
		schedule = append(schedule, p)
	}

	g.logger.Debug(fmt.Sprintf("generated %d month schedule for principal %.2f", len(schedule), terms.Principal),
		zap.String("op", "loans.GenerateSchedule"),
		zap.Int("graceMonths", terms.grace()),
		zap.Float64("installment", terms.Installment()),
	)

	return schedule, nil
}
