package validation

import (
	"fmt"
	"math"
	"sort"

	"github.com/iwvelando/brewery-planner/internal/scenario"
	"github.com/iwvelando/brewery-planner/pkg/constants"
)

const shareTolerance = 0.01

// ValidateScenario returns non-fatal warnings about a scenario. Every case
// listed here has a documented fallback in the calculations, so the
// projection still runs; the warnings point at data the user probably meant
// to fill in.
func ValidateScenario(s *scenario.Scenario) []string {
	var warnings []string

	warnings = append(warnings, validateMix(s)...)
	warnings = append(warnings, validateRecipes(s)...)
	warnings = append(warnings, validatePrices(s)...)

	for _, p := range s.Packaging {
		if p.VolumeLiters <= 0 {
			warnings = append(warnings, fmt.Sprintf("Packaging '%s' has no volume - it will sell no units", p.Name))
		}
	}

	f := s.Financing
	if f.Enabled && f.GraceMonths >= f.TermMonths {
		warnings = append(warnings, fmt.Sprintf("Financing grace period (%d months) is not shorter than the term (%d months) - a single installment follows the grace period",
			f.GraceMonths, f.TermMonths))
	}

	if len(s.CapexItems) == 0 {
		warnings = append(warnings, "No capital expenditure items - the required investment is working capital only")
	}

	return warnings
}

func validateMix(s *scenario.Scenario) []string {
	var warnings []string
	m := s.Mix

	if m.MonthlyVolumeLiters <= 0 {
		warnings = append(warnings, "Monthly sales volume is zero - there is no revenue")
	}

	shares := m.TaproomPercent + m.RetailDraftPercent + m.RetailPackagedPercent
	if math.Abs(shares-100) > shareTolerance {
		warnings = append(warnings, fmt.Sprintf("Channel mix sums to %.2f%%, not 100%% - shares are used as given", shares))
	}

	if m.RetailPackagedPercent > 0 {
		var total float64
		names := make([]string, 0, len(m.PackagedDistribution))
		for name, pct := range m.PackagedDistribution {
			total += pct
			names = append(names, name)
		}
		if math.Abs(total-100) > shareTolerance {
			warnings = append(warnings, fmt.Sprintf("Packaged distribution sums to %.2f%%, not 100%%", total))
		}
		sort.Strings(names)
		for _, name := range names {
			if _, ok := s.PackagingByName(name); !ok {
				warnings = append(warnings, fmt.Sprintf("Packaged distribution references unknown packaging '%s' - it has no volume or cost", name))
			}
		}
	}
	return warnings
}

func validateRecipes(s *scenario.Scenario) []string {
	var warnings []string

	if len(s.Recipes.Headers) == 0 {
		return append(warnings, "No recipes - cost per liter is the indirect cost only")
	}
	if _, ok := s.RecipeByName(s.Mix.ReferenceRecipe); !ok {
		warnings = append(warnings, fmt.Sprintf("Reference recipe '%s' not found - using '%s'",
			s.Mix.ReferenceRecipe, s.Recipes.Headers[0].Name))
	}
	for _, h := range s.Recipes.Headers {
		if len(s.Recipes.LinesFor(h.ID)) == 0 {
			warnings = append(warnings, fmt.Sprintf("Recipe '%s' has no ingredients", h.Name))
		}
	}
	for _, r := range s.ReassignedRecipeIDs() {
		if r.From > 0 {
			warnings = append(warnings, fmt.Sprintf("Recipe '%s' repeats id %d - renumbered to %d, so the lines with id %d belong to the first recipe using it",
				r.Recipe, r.From, r.To, r.From))
			continue
		}
		warnings = append(warnings, fmt.Sprintf("Recipe '%s' had no valid id - assigned %d", r.Recipe, r.To))
	}
	if orphans := s.Recipes.OrphanLines(); len(orphans) > 0 {
		warnings = append(warnings, fmt.Sprintf("%d recipe lines reference missing recipes and are ignored", len(orphans)))
	}
	return warnings
}

func validatePrices(s *scenario.Scenario) []string {
	var warnings []string
	for _, req := range scenario.RequiredPrices {
		found := false
		for _, p := range s.Prices {
			if p.SKU == req.SKU && p.Channel == req.Channel {
				found = true
				break
			}
		}
		if found {
			continue
		}
		// Packaging sold at no share needs no price.
		if req.Channel == scenario.ChannelRetail && req.SKU != constants.DraftSKU && s.Mix.PackagedDistribution[req.SKU] == 0 {
			continue
		}
		warnings = append(warnings, fmt.Sprintf("No %s price for '%s' - it sells at R$ 0,00", req.Channel, req.SKU))
	}
	return warnings
}
