// Package costing derives recipe costs per liter and monthly payroll costs.
package costing

import (
	"github.com/iwvelando/brewery-planner/internal/scenario"
	"github.com/iwvelando/brewery-planner/pkg/constants"
	"github.com/iwvelando/brewery-planner/pkg/mathutil"
)

// BatchCost is the cost breakdown of one batch of a recipe.
type BatchCost struct {
	RecipeID         int
	Recipe           string
	BatchLiters      float64
	Ingredients      float64
	RawPerLiter      float64
	IndirectPerLiter float64
	PerLiter         float64
}

// EmployeeCost is the monthly cost of one payroll entry.
type EmployeeCost struct {
	Name        string
	Mode        scenario.EmploymentMode
	MonthlyCost float64
}

// Payroll is the monthly cost of every employee and their total.
type Payroll struct {
	Lines []EmployeeCost
	Total float64
}

// RecipeCostPerLiter returns the full cost of one liter of the named recipe:
// ingredient cost per liter plus the indirect per-liter premises.
//
// With no recipes the indirect cost alone is returned. An unknown or empty
// name falls back to the first recipe. A recipe without lines or with no
// usable batch volume costs only the indirect amount.
func RecipeCostPerLiter(recipes scenario.Recipes, name string, premises scenario.CostPremises) float64 {
	indirect := premises.IndirectCostPerLiter()
	header, ok := resolveRecipe(recipes, name)
	if !ok {
		return indirect
	}
	return Batch(recipes, header, premises).PerLiter
}

// Batch computes the cost breakdown of a recipe. Line totals are recomputed
// from quantity and unit cost.
func Batch(recipes scenario.Recipes, header scenario.RecipeHeader, premises scenario.CostPremises) BatchCost {
	bc := BatchCost{
		RecipeID:         header.ID,
		Recipe:           header.Name,
		BatchLiters:      header.BatchLiters,
		IndirectPerLiter: premises.IndirectCostPerLiter(),
	}
	lines := recipes.LinesFor(header.ID)
	for _, l := range lines {
		bc.Ingredients += l.Quantity * l.UnitCost
	}
	if len(lines) > 0 {
		bc.RawPerLiter = mathutil.SafeDivide(bc.Ingredients, header.BatchLiters)
	}
	bc.PerLiter = bc.RawPerLiter + bc.IndirectPerLiter
	return bc
}

// AllBatches returns the batch cost of every recipe in order.
func AllBatches(recipes scenario.Recipes, premises scenario.CostPremises) []BatchCost {
	out := make([]BatchCost, 0, len(recipes.Headers))
	for _, h := range recipes.Headers {
		out = append(out, Batch(recipes, h, premises))
	}
	return out
}

func resolveRecipe(recipes scenario.Recipes, name string) (scenario.RecipeHeader, bool) {
	if len(recipes.Headers) == 0 {
		return scenario.RecipeHeader{}, false
	}
	if name != "" {
		for _, h := range recipes.Headers {
			if h.Name == name {
				return h, true
			}
		}
	}
	return recipes.Headers[0], true
}

// EmployeeMonthlyCost returns the monthly cost of one employee. Contractors
// cost their gross pay. Salaried employees add the payroll burden and, when
// enabled, monthly provisions for the 13th salary and vacation with its
// one-third bonus.
func EmployeeMonthlyCost(e scenario.Employee) float64 {
	gross := e.GrossPay
	if e.Mode == scenario.ModeContractor {
		return gross
	}
	cost := gross * (1 + mathutil.PercentToDecimal(e.BurdenPercent))
	if e.Include13th {
		cost += gross / constants.MonthsPerYear
	}
	if e.IncludeVacation {
		cost += gross * constants.VacationProvisionFactor / constants.MonthsPerYear
	}
	return cost
}

// MonthlyPayroll returns the monthly cost of every employee and the total.
func MonthlyPayroll(employees []scenario.Employee) Payroll {
	p := Payroll{Lines: make([]EmployeeCost, 0, len(employees))}
	for _, e := range employees {
		c := EmployeeMonthlyCost(e)
		p.Lines = append(p.Lines, EmployeeCost{Name: e.Name, Mode: e.Mode, MonthlyCost: c})
		p.Total += c
	}
	return p
}
