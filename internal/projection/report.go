package projection

import (
	"fmt"

	"github.com/iwvelando/brewery-planner/internal/costing"
	"github.com/iwvelando/brewery-planner/internal/scenario"
	"github.com/iwvelando/brewery-planner/pkg/constants"
	"github.com/iwvelando/brewery-planner/pkg/loans"
	"github.com/iwvelando/brewery-planner/pkg/mathutil"
	"go.uber.org/zap"
)

// Options tune a projection.
type Options struct {
	// HorizonMonths is the payback simulation length; <= 0 uses the default.
	HorizonMonths int
	// Financed computes the financed payback even when financing is disabled.
	Financed bool
}

// FinancingSummary describes the loan implied by the financing terms.
type FinancingSummary struct {
	Enabled             bool
	FinancedPercent     float64
	Principal           float64
	AnnualRatePercent   float64
	MonthlyRate         float64
	TermMonths          int
	GraceMonths         int
	AmortizationPeriods int
	FinalMonth          int
	Installment         float64
	InterestOnly        float64
	// Schedule is the month-by-month amortization of the principal; only
	// filled when a financed projection is computed.
	Schedule []loans.Payment
}

// Terms converts the summary to loan terms.
func (f FinancingSummary) Terms() loans.Terms {
	return loans.Terms{
		Principal:   f.Principal,
		MonthlyRate: f.MonthlyRate,
		TermMonths:  f.TermMonths,
		GraceMonths: f.GraceMonths,
	}
}

// Report is the full projection of a scenario.
type Report struct {
	Scenario string

	CapexTotal           float64
	Payroll              costing.Payroll
	OtherOpexTotal       float64
	OpexTotal            float64
	WorkingCapitalMonths int
	RequiredInvestment   float64

	PnL             PnL
	OperatingProfit float64
	Batches         []costing.BatchCost

	Financing       FinancingSummary
	Payback         Series
	FinancedPayback *Series

	CapexByCategory []CategoryTotal
	CapexByStatus   []StatusTotal
	OpexBreakdown   []OpexLine
}

// Financing derives the loan summary for an investment.
func Financing(terms scenario.FinancingTerms, investment float64) FinancingSummary {
	f := FinancingSummary{
		Enabled:           terms.Enabled,
		FinancedPercent:   terms.FinancedPercent,
		Principal:         mathutil.ApplyPercentage(investment, terms.FinancedPercent),
		AnnualRatePercent: terms.AnnualInterestPercent,
		MonthlyRate:       loans.MonthlyRate(terms.AnnualInterestPercent),
		TermMonths:        terms.TermMonths,
		GraceMonths:       terms.GraceMonths,
	}
	lt := f.Terms()
	f.AmortizationPeriods = lt.AmortizationPeriods()
	f.FinalMonth = lt.FinalMonth()
	f.Installment = lt.Installment()
	f.InterestOnly = lt.InterestOnly()
	return f
}

// Project combines costing, allocation, and payback simulation for a
// scenario.
func Project(logger *zap.Logger, name string, s *scenario.Scenario, opts Options) Report {
	if logger == nil {
		logger = zap.NewNop()
	}
	horizon := opts.HorizonMonths
	if horizon <= 0 {
		horizon = constants.DefaultHorizonMonths
	}

	r := Report{
		Scenario:             name,
		CapexTotal:           s.CapexTotal(),
		Payroll:              costing.MonthlyPayroll(s.Employees),
		OtherOpexTotal:       s.OtherOpexTotal(),
		WorkingCapitalMonths: s.Premises.WorkingCapitalMonths,
		PnL:                  MonthlyPnL(s),
		Batches:              costing.AllBatches(s.Recipes, s.Premises),
	}
	r.OpexTotal = r.Payroll.Total + r.OtherOpexTotal
	r.RequiredInvestment = RequiredInvestment(r.CapexTotal, r.OpexTotal, r.WorkingCapitalMonths)
	r.OperatingProfit = r.PnL.ContributionMargin - r.OpexTotal
	r.Financing = Financing(s.Financing, r.RequiredInvestment)
	r.Payback = PaybackSeries(r.RequiredInvestment, r.OperatingProfit, horizon)

	if s.Financing.Enabled || opts.Financed {
		financed := FinancedPaybackSeries(r.RequiredInvestment, r.PnL.ContributionMargin, r.OpexTotal, r.Financing.Terms(), horizon)
		r.FinancedPayback = &financed

		schedule, err := loans.NewAmortizationScheduleGenerator(logger).GenerateSchedule(r.Financing.Terms())
		if err != nil {
			logger.Warn("failed to generate amortization schedule",
				zap.String("op", "projection.Project"),
				zap.String("scenario", name),
				zap.Error(err),
			)
		}
		r.Financing.Schedule = schedule
	}

	r.CapexByCategory = CapexByCategory(s.CapexItems)
	r.CapexByStatus = CapexByStatus(s.CapexItems)
	r.OpexBreakdown = OpexBreakdown(s.OpexItems, r.Payroll)

	logger.Debug(fmt.Sprintf("projected scenario %s over %d months", name, horizon),
		zap.String("op", "projection.Project"),
		zap.Float64("requiredInvestment", r.RequiredInvestment),
		zap.Float64("operatingProfit", r.OperatingProfit),
		zap.Bool("paidBack", r.Payback.PaidBack),
		zap.Int("paybackMonth", r.Payback.PaybackMonth),
	)

	return r
}
