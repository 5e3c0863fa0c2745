// Package projection derives the monthly P&L of a scenario and simulates the
// payback of its initial investment, with or without debt financing.
package projection

import (
	"github.com/iwvelando/brewery-planner/internal/costing"
	"github.com/iwvelando/brewery-planner/internal/mix"
	"github.com/iwvelando/brewery-planner/internal/scenario"
	"github.com/iwvelando/brewery-planner/pkg/mathutil"
)

// PnL is the profit and loss statement of a typical month.
type PnL struct {
	VolumeLiters float64
	CostPerLiter float64

	GrossRevenue       float64
	Taxes              float64
	COGSLiquid         float64
	COGSPackaging      float64
	COGSCups           float64
	COGSTotal          float64
	ContributionMargin float64

	TaproomCups    float64
	TaproomLiters  float64
	DraftLiters    float64
	PackagedLiters float64

	TaproomRevenue  float64
	DraftRevenue    float64
	PackagedRevenue float64
	Packaged        []mix.PackagedLine
}

// MonthlyPnL derives the monthly P&L from the scenario's mix, recipes,
// premises, prices, and packaging.
//
// Liquid cost of goods is charged on the whole volume at the reference
// recipe's cost per liter regardless of channel; packaging and cup costs
// follow the channel allocation.
func MonthlyPnL(s *scenario.Scenario) PnL {
	volume := mathutil.NonNegative(s.Mix.MonthlyVolumeLiters)
	costPerLiter := costing.RecipeCostPerLiter(s.Recipes, s.Mix.ReferenceRecipe, s.Premises)

	alloc := mix.Allocate(volume, mix.Shares{
		TaproomPercent:        s.Mix.TaproomPercent,
		RetailDraftPercent:    s.Mix.RetailDraftPercent,
		RetailPackagedPercent: s.Mix.RetailPackagedPercent,
	}, s.Mix.PackagedDistribution, s)

	p := PnL{
		VolumeLiters:    volume,
		CostPerLiter:    costPerLiter,
		GrossRevenue:    alloc.Revenue(),
		COGSLiquid:      volume * costPerLiter,
		COGSPackaging:   alloc.PackagingCost,
		COGSCups:        alloc.CupCost,
		TaproomCups:     alloc.TaproomCups,
		TaproomLiters:   alloc.TaproomLiters,
		DraftLiters:     alloc.DraftLiters,
		PackagedLiters:  alloc.PackagedLiters,
		TaproomRevenue:  alloc.TaproomRevenue,
		DraftRevenue:    alloc.DraftRevenue,
		PackagedRevenue: alloc.PackagedRevenue,
		Packaged:        alloc.Packaged,
	}
	p.Taxes = mathutil.ApplyPercentage(p.GrossRevenue, s.Premises.SalesTaxPercent)
	p.COGSTotal = p.COGSLiquid + p.COGSPackaging + p.COGSCups
	p.ContributionMargin = p.GrossRevenue - p.Taxes - p.COGSTotal
	return p
}

// RequiredInvestment is the capital expenditure plus the working capital to
// cover months of fixed costs. Negative months count as zero.
func RequiredInvestment(capex, monthlyOpex float64, months int) float64 {
	if months < 0 {
		months = 0
	}
	return capex + monthlyOpex*float64(months)
}
