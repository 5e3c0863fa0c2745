// Package testutil provides common fixtures and helpers for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iwvelando/brewery-planner/internal/projection"
	"github.com/iwvelando/brewery-planner/internal/scenario"
)

// SimpleScenario returns a small scenario with round numbers:
// a 500 L recipe costing R$ 2000 in ingredients (4.90/L with premises),
// 1000 L/month split 20/30/50, capex 30000, and fixed costs 3000/month.
func SimpleScenario() *scenario.Scenario {
	return &scenario.Scenario{
		Recipes: scenario.Recipes{
			Headers: []scenario.RecipeHeader{{ID: 1, Name: "House", BatchLiters: 500}},
			Lines:   []scenario.RecipeLine{{RecipeID: 1, Ingredient: "Malte", Quantity: 100, UnitCost: 20, Total: 2000}},
		},
		Packaging: []scenario.PackagingType{
			{Name: "Lata 473ml", VolumeLiters: 0.5, UnitCost: 1},
			{Name: "Copo Taproom", VolumeLiters: 0.5, UnitCost: 0.25},
		},
		Prices: []scenario.Price{
			{SKU: "Lata 473ml", Channel: scenario.ChannelRetail, UnitPrice: 10},
			{SKU: "Chope (R$/L)", Channel: scenario.ChannelRetail, UnitPrice: 12},
			{SKU: "Copo Taproom", Channel: scenario.ChannelTaproom, UnitPrice: 15},
		},
		Mix: scenario.MixAssumptions{
			MonthlyVolumeLiters:   1000,
			TaproomPercent:        20,
			RetailDraftPercent:    30,
			RetailPackagedPercent: 50,
			PackagedDistribution:  map[string]float64{"Lata 473ml": 100},
			ReferenceRecipe:       "House",
		},
		Premises: scenario.CostPremises{
			ChemicalsPerLiter: 0.25, EnergyPerLiter: 0.35, WaterPerLiter: 0.15, CO2PerLiter: 0.15,
			SalesTaxPercent: 10, WorkingCapitalMonths: 2,
		},
		Financing: scenario.FinancingTerms{
			FinancedPercent: 50, AnnualInterestPercent: 18, TermMonths: 12,
		},
		CapexItems: []scenario.CapexItem{{Category: "Brewhouse", Item: "Kettle", Amount: 30000, Status: scenario.StatusQuoted}},
		OpexItems:  []scenario.OpexItem{{Description: "Rent", Amount: 2000}},
		Employees:  []scenario.Employee{{Name: "Sales", Mode: scenario.ModeContractor, GrossPay: 1000}},
	}
}

// FindReport finds a report by scenario name in the reports slice.
// Returns a pointer to the report if found, nil otherwise.
func FindReport(reports []projection.Report, name string) *projection.Report {
	for i := range reports {
		if reports[i].Scenario == name {
			return &reports[i]
		}
	}
	return nil
}

// WriteFile writes content to name inside a per-test temporary directory and
// returns its path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
