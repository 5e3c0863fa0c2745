package scenario

import (
	"fmt"
	"strings"

	"github.com/iwvelando/brewery-planner/internal/mix"
	"github.com/iwvelando/brewery-planner/pkg/mathutil"
)

// Recompute refreshes every derived field: recipe line totals, default
// statuses and channels, and recipe id uniqueness.
func (s *Scenario) Recompute() {
	for i := range s.Recipes.Lines {
		l := &s.Recipes.Lines[i]
		l.Total = l.Quantity * l.UnitCost
	}
	for i := range s.CapexItems {
		if s.CapexItems[i].Status == "" {
			s.CapexItems[i].Status = DefaultCapexStatus
		}
	}
	for i := range s.Prices {
		if s.Prices[i].Channel == "" {
			s.Prices[i].Channel = DefaultPriceChannel
		}
	}
	for i := range s.Employees {
		if s.Employees[i].Mode == "" {
			s.Employees[i].Mode = DefaultEmploymentMode
		}
	}
	for i := range s.Ingredients {
		if s.Ingredients[i].Unit == "" {
			s.Ingredients[i].Unit = DefaultIngredientUnit
		}
	}
	if s.Mix.PackagedDistribution == nil {
		s.Mix.PackagedDistribution = make(map[string]float64)
	}
}

func recomputedLines(lines []RecipeLine) []RecipeLine {
	for i := range lines {
		lines[i].Total = lines[i].Quantity * lines[i].UnitCost
	}
	return lines
}

// nextRecipeID is max(existing)+1, or 1 when there are no recipes.
func nextRecipeID(headers []RecipeHeader) int {
	maxID := 0
	for _, h := range headers {
		if h.ID > maxID {
			maxID = h.ID
		}
	}
	return maxID + 1
}

// NextRecipeID returns the id the next added recipe will receive.
func (s *Scenario) NextRecipeID() int {
	return nextRecipeID(s.Recipes.Headers)
}

// AddCapexItem appends a capital expenditure, defaulting a blank status to
// Pending and clamping a negative amount to zero.
func (s *Scenario) AddCapexItem(item CapexItem) {
	if item.Status == "" {
		item.Status = DefaultCapexStatus
	}
	item.Amount = mathutil.NonNegative(item.Amount)
	s.CapexItems = append(s.CapexItems, item)
}

// RemoveCapexItem removes the item at index i.
func (s *Scenario) RemoveCapexItem(i int) error {
	if i < 0 || i >= len(s.CapexItems) {
		return fmt.Errorf("capex item %d: %w", i, ErrIndexOutOfRange)
	}
	s.CapexItems = append(s.CapexItems[:i], s.CapexItems[i+1:]...)
	return nil
}

// AddOpexItem appends a fixed monthly cost.
func (s *Scenario) AddOpexItem(item OpexItem) {
	item.Amount = mathutil.NonNegative(item.Amount)
	s.OpexItems = append(s.OpexItems, item)
}

// RemoveOpexItem removes the item at index i.
func (s *Scenario) RemoveOpexItem(i int) error {
	if i < 0 || i >= len(s.OpexItems) {
		return fmt.Errorf("opex item %d: %w", i, ErrIndexOutOfRange)
	}
	s.OpexItems = append(s.OpexItems[:i], s.OpexItems[i+1:]...)
	return nil
}

// AddEmployee appends a payroll entry with its mode normalized.
func (s *Scenario) AddEmployee(e Employee) {
	e.Mode = normalizeMode(string(e.Mode))
	e.GrossPay = mathutil.NonNegative(e.GrossPay)
	e.BurdenPercent = mathutil.NonNegative(e.BurdenPercent)
	s.Employees = append(s.Employees, e)
}

// RemoveEmployee removes the employee at index i.
func (s *Scenario) RemoveEmployee(i int) error {
	if i < 0 || i >= len(s.Employees) {
		return fmt.Errorf("employee %d: %w", i, ErrIndexOutOfRange)
	}
	s.Employees = append(s.Employees[:i], s.Employees[i+1:]...)
	return nil
}

// SetIngredient inserts an ingredient or replaces the one with the same name.
// Recipe lines keep their cost snapshot.
func (s *Scenario) SetIngredient(in Ingredient) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return fmt.Errorf("ingredient: %w", ErrInvalidName)
	}
	if in.Unit == "" {
		in.Unit = DefaultIngredientUnit
	}
	in.UnitCost = mathutil.NonNegative(in.UnitCost)
	for i := range s.Ingredients {
		if s.Ingredients[i].Name == in.Name {
			s.Ingredients[i] = in
			return nil
		}
	}
	s.Ingredients = append(s.Ingredients, in)
	return nil
}

// RemoveIngredient removes the ingredient with the given name.
func (s *Scenario) RemoveIngredient(name string) error {
	for i := range s.Ingredients {
		if s.Ingredients[i].Name == name {
			s.Ingredients = append(s.Ingredients[:i], s.Ingredients[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%q: %w", name, ErrIngredientNotFound)
}

// AddRecipe creates an empty recipe with the next free id. A batch volume
// that is not positive falls back to the default batch size.
func (s *Scenario) AddRecipe(name string, batchLiters float64) (RecipeHeader, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return RecipeHeader{}, fmt.Errorf("recipe: %w", ErrInvalidName)
	}
	if _, ok := s.RecipeByName(name); ok {
		return RecipeHeader{}, fmt.Errorf("%q: %w", name, ErrDuplicateRecipe)
	}
	if batchLiters <= 0 {
		batchLiters = DefaultBatchLiters
	}
	h := RecipeHeader{ID: s.NextRecipeID(), Name: name, BatchLiters: batchLiters}
	s.Recipes.Headers = append(s.Recipes.Headers, h)
	return h, nil
}

// UpdateRecipe renames a recipe and changes its batch volume. The mix
// reference follows a rename.
func (s *Scenario) UpdateRecipe(id int, name string, batchLiters float64) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("recipe: %w", ErrInvalidName)
	}
	idx := -1
	for i, h := range s.Recipes.Headers {
		if h.ID == id {
			idx = i
		} else if h.Name == name {
			return fmt.Errorf("%q: %w", name, ErrDuplicateRecipe)
		}
	}
	if idx < 0 {
		return fmt.Errorf("recipe id %d: %w", id, ErrRecipeNotFound)
	}
	h := &s.Recipes.Headers[idx]
	if s.Mix.ReferenceRecipe == h.Name {
		s.Mix.ReferenceRecipe = name
	}
	h.Name = name
	if batchLiters > 0 {
		h.BatchLiters = batchLiters
	}
	return nil
}

// DeleteRecipe removes a recipe and its lines. When it was the mix
// reference recipe the reference moves to the first remaining recipe, or to
// "" when none remain.
func (s *Scenario) DeleteRecipe(id int) error {
	idx := -1
	for i, h := range s.Recipes.Headers {
		if h.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("recipe id %d: %w", id, ErrRecipeNotFound)
	}
	deleted := s.Recipes.Headers[idx]
	s.Recipes.Headers = append(s.Recipes.Headers[:idx], s.Recipes.Headers[idx+1:]...)

	kept := s.Recipes.Lines[:0]
	for _, l := range s.Recipes.Lines {
		if l.RecipeID != id {
			kept = append(kept, l)
		}
	}
	s.Recipes.Lines = kept

	if s.Mix.ReferenceRecipe == deleted.Name {
		s.Mix.ReferenceRecipe = ""
		if len(s.Recipes.Headers) > 0 {
			s.Mix.ReferenceRecipe = s.Recipes.Headers[0].Name
		}
	}
	return nil
}

// AddRecipeLine appends an ingredient to a recipe, snapshotting the
// ingredient's current unit cost.
func (s *Scenario) AddRecipeLine(recipeID int, ingredient string, quantity float64) (RecipeLine, error) {
	if _, ok := s.RecipeByID(recipeID); !ok {
		return RecipeLine{}, fmt.Errorf("recipe id %d: %w", recipeID, ErrRecipeNotFound)
	}
	in, ok := s.IngredientByName(ingredient)
	if !ok {
		return RecipeLine{}, fmt.Errorf("%q: %w", ingredient, ErrIngredientNotFound)
	}
	line := RecipeLine{
		RecipeID:   recipeID,
		Ingredient: in.Name,
		Quantity:   mathutil.NonNegative(quantity),
		UnitCost:   in.UnitCost,
	}
	line.Total = line.Quantity * line.UnitCost
	s.Recipes.Lines = append(s.Recipes.Lines, line)
	return line, nil
}

// SetRecipeLines replaces every line of a recipe, keeping the lines of the
// other recipes in place. Totals are recomputed.
func (s *Scenario) SetRecipeLines(recipeID int, lines []RecipeLine) error {
	if _, ok := s.RecipeByID(recipeID); !ok {
		return fmt.Errorf("recipe id %d: %w", recipeID, ErrRecipeNotFound)
	}
	var merged []RecipeLine
	for _, l := range s.Recipes.Lines {
		if l.RecipeID != recipeID {
			merged = append(merged, l)
		}
	}
	for _, l := range lines {
		l.RecipeID = recipeID
		l.Quantity = mathutil.NonNegative(l.Quantity)
		l.UnitCost = mathutil.NonNegative(l.UnitCost)
		l.Total = l.Quantity * l.UnitCost
		merged = append(merged, l)
	}
	s.Recipes.Lines = merged
	return nil
}

// SetPackaging inserts a packaging type or replaces the one with the same name.
func (s *Scenario) SetPackaging(p PackagingType) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("packaging: %w", ErrInvalidName)
	}
	p.VolumeLiters = mathutil.NonNegative(p.VolumeLiters)
	p.UnitCost = mathutil.NonNegative(p.UnitCost)
	for i := range s.Packaging {
		if s.Packaging[i].Name == p.Name {
			s.Packaging[i] = p
			return nil
		}
	}
	s.Packaging = append(s.Packaging, p)
	return nil
}

// RemovePackaging removes a packaging type and its distribution share.
func (s *Scenario) RemovePackaging(name string) bool {
	for i := range s.Packaging {
		if s.Packaging[i].Name == name {
			s.Packaging = append(s.Packaging[:i], s.Packaging[i+1:]...)
			delete(s.Mix.PackagedDistribution, name)
			return true
		}
	}
	return false
}

// SetPrice inserts a price or replaces the one with the same (SKU, channel).
func (s *Scenario) SetPrice(p Price) error {
	p.SKU = strings.TrimSpace(p.SKU)
	if p.SKU == "" {
		return fmt.Errorf("price: %w", ErrInvalidName)
	}
	p.Channel = normalizeChannel(string(p.Channel))
	p.UnitPrice = mathutil.NonNegative(p.UnitPrice)
	for i := range s.Prices {
		if s.Prices[i].SKU == p.SKU && s.Prices[i].Channel == p.Channel {
			s.Prices[i] = p
			return nil
		}
	}
	s.Prices = append(s.Prices, p)
	return nil
}

// RemovePrice removes the price with the given (SKU, channel).
func (s *Scenario) RemovePrice(sku string, channel Channel) bool {
	for i := range s.Prices {
		if s.Prices[i].SKU == sku && s.Prices[i].Channel == channel {
			s.Prices = append(s.Prices[:i], s.Prices[i+1:]...)
			return true
		}
	}
	return false
}

// EnsureRequiredPrices adds every required (SKU, channel) pair that is
// missing, priced at zero. It returns the pairs added.
func (s *Scenario) EnsureRequiredPrices() []Price {
	var added []Price
	for _, req := range RequiredPrices {
		if _, ok := s.findPrice(req.SKU, req.Channel); ok {
			continue
		}
		s.Prices = append(s.Prices, req)
		added = append(added, req)
	}
	return added
}

// SetMix replaces the mix assumptions. Negative values are clamped, the
// packaged share is balanced against the other two when the three do not
// sum to 100, and eligible packaging missing from the distribution is added
// at zero.
func (s *Scenario) SetMix(m MixAssumptions) {
	m.MonthlyVolumeLiters = mathutil.NonNegative(m.MonthlyVolumeLiters)
	m.TaproomPercent = mathutil.NonNegative(m.TaproomPercent)
	m.RetailDraftPercent = mathutil.NonNegative(m.RetailDraftPercent)
	m.RetailPackagedPercent = mix.BalancePackaged(m.TaproomPercent, m.RetailDraftPercent, mathutil.NonNegative(m.RetailPackagedPercent))
	dist := make(map[string]float64, len(m.PackagedDistribution))
	for name, pct := range m.PackagedDistribution {
		dist[name] = mathutil.NonNegative(pct)
	}
	m.PackagedDistribution = mix.FillDistribution(dist, s.PackagingNames())
	if m.extra == nil {
		m.extra = s.Mix.extra
	}
	s.Mix = m
}

// SetPremises replaces the cost premises, clamping negative values to zero.
func (s *Scenario) SetPremises(p CostPremises) {
	p.ChemicalsPerLiter = mathutil.NonNegative(p.ChemicalsPerLiter)
	p.EnergyPerLiter = mathutil.NonNegative(p.EnergyPerLiter)
	p.WaterPerLiter = mathutil.NonNegative(p.WaterPerLiter)
	p.CO2PerLiter = mathutil.NonNegative(p.CO2PerLiter)
	p.SalesTaxPercent = mathutil.NonNegative(p.SalesTaxPercent)
	if p.WorkingCapitalMonths < 0 {
		p.WorkingCapitalMonths = 0
	}
	if p.extra == nil {
		p.extra = s.Premises.extra
	}
	s.Premises = p
}

// SetFinancing replaces the financing terms. The financed share is clamped
// to [0, 100], the term to at least one month, and grace to at least zero.
func (s *Scenario) SetFinancing(f FinancingTerms) {
	f.FinancedPercent = mathutil.NonNegative(f.FinancedPercent)
	if f.FinancedPercent > 100 {
		f.FinancedPercent = 100
	}
	f.AnnualInterestPercent = mathutil.NonNegative(f.AnnualInterestPercent)
	if f.TermMonths < 1 {
		f.TermMonths = 1
	}
	if f.GraceMonths < 0 {
		f.GraceMonths = 0
	}
	if f.extra == nil {
		f.extra = s.Financing.extra
	}
	s.Financing = f
}
