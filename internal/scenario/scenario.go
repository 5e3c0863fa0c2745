// Package scenario defines the data structures of a brewery planning scenario
// and the operations that edit, persist, and bulk import/export it.
package scenario

import (
	"errors"
	"sort"

	"github.com/iwvelando/brewery-planner/pkg/mathutil"
)

// CapexStatus is the procurement status of a capital expenditure item.
type CapexStatus string

// Capital expenditure statuses, in display order.
const (
	StatusPurchased CapexStatus = "Comprado"
	StatusQuoted    CapexStatus = "Orçado"
	StatusPending   CapexStatus = "Pendente"
	StatusEstimated CapexStatus = "Estimado"
)

// StatusOrder lists every CapexStatus in display order.
var StatusOrder = []CapexStatus{StatusPurchased, StatusQuoted, StatusPending, StatusEstimated}

// EmploymentMode distinguishes salaried employees from contractors.
type EmploymentMode string

// Employment modes.
const (
	ModeSalaried   EmploymentMode = "CLT"
	ModeContractor EmploymentMode = "PJ"
)

// Channel is a sales channel.
type Channel string

// Sales channels.
const (
	ChannelTaproom Channel = "Taproom"
	ChannelRetail  Channel = "Varejo"
)

var (
	// ErrRecipeNotFound is returned when a recipe id or name does not resolve.
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrDuplicateRecipe is returned when a recipe name is already taken.
	ErrDuplicateRecipe = errors.New("recipe name already exists")

	// ErrIngredientNotFound is returned when an ingredient name does not resolve.
	ErrIngredientNotFound = errors.New("ingredient not found")

	// ErrInvalidName is returned for blank names.
	ErrInvalidName = errors.New("name cannot be empty")

	// ErrIndexOutOfRange is returned when removing a row that does not exist.
	ErrIndexOutOfRange = errors.New("row index out of range")
)

// CapexItem is a one-off capital expenditure.
type CapexItem struct {
	Category string
	Item     string
	Amount   float64
	Status   CapexStatus

	extra *unknownFields
}

// OpexItem is a fixed monthly cost other than payroll.
type OpexItem struct {
	Description string
	Amount      float64

	extra *unknownFields
}

// Employee is a payroll entry. BurdenPercent only applies to salaried employees.
type Employee struct {
	Name            string
	Mode            EmploymentMode
	GrossPay        float64
	BurdenPercent   float64
	Include13th     bool
	IncludeVacation bool

	extra *unknownFields
}

// Ingredient is a catalog entry; Name is referenced by recipe lines.
type Ingredient struct {
	Category string
	Name     string
	Unit     string
	UnitCost float64

	extra *unknownFields
}

// RecipeHeader identifies a recipe and its batch size.
type RecipeHeader struct {
	ID          int
	Name        string
	BatchLiters float64

	extra *unknownFields
}

// RecipeLine is one ingredient of a recipe. Total is derived and always
// recomputed as Quantity * UnitCost.
type RecipeLine struct {
	RecipeID   int
	Ingredient string
	Quantity   float64
	UnitCost   float64
	Total      float64

	extra *unknownFields
}

// Recipes holds recipe headers and their lines.
type Recipes struct {
	Headers []RecipeHeader
	Lines   []RecipeLine
}

// PackagingType is a container used to sell beer, keyed by Name.
type PackagingType struct {
	Name         string
	VolumeLiters float64
	UnitCost     float64

	extra *unknownFields
}

// Price is the unit price of a SKU on a channel.
type Price struct {
	SKU       string
	Channel   Channel
	UnitPrice float64

	extra *unknownFields
}

// MixAssumptions describes the sales volume of a typical month and how it
// splits across channels and packaging.
type MixAssumptions struct {
	MonthlyVolumeLiters   float64
	TaproomPercent        float64
	RetailDraftPercent    float64
	RetailPackagedPercent float64
	PackagedDistribution  map[string]float64
	ReferenceRecipe       string

	extra *unknownFields
}

// CostPremises holds the per-liter indirect costs, sales tax, and working
// capital coverage.
type CostPremises struct {
	ChemicalsPerLiter    float64
	EnergyPerLiter       float64
	WaterPerLiter        float64
	CO2PerLiter          float64
	SalesTaxPercent      float64
	WorkingCapitalMonths int

	extra *unknownFields
}

// FinancingTerms describes optional debt financing of the initial investment.
type FinancingTerms struct {
	Enabled               bool
	FinancedPercent       float64
	AnnualInterestPercent float64
	TermMonths            int
	GraceMonths           int

	extra *unknownFields
}

// Scenario is one complete, independently editable planning dataset.
type Scenario struct {
	CapexItems  []CapexItem
	OpexItems   []OpexItem
	Employees   []Employee
	Ingredients []Ingredient
	Recipes     Recipes
	Packaging   []PackagingType
	Prices      []Price
	Mix         MixAssumptions
	Premises    CostPremises
	Financing   FinancingTerms

	// extra carries persisted keys this version does not know about.
	extra map[string]any
	// reassigned lists recipe headers whose stored id was replaced on the
	// last decode.
	reassigned []IDReassignment
}

// IDReassignment records a recipe header decoded with a missing,
// non-positive, or already used id. From is 0 when the id was missing.
type IDReassignment struct {
	Recipe string
	From   int
	To     int
}

// ReassignedRecipeIDs returns the recipe ids replaced when the scenario was
// last decoded from a document or bulk update.
func (s *Scenario) ReassignedRecipeIDs() []IDReassignment {
	return append([]IDReassignment(nil), s.reassigned...)
}

// IndirectCostPerLiter is the sum of the four per-liter premise components.
func (p CostPremises) IndirectCostPerLiter() float64 {
	return mathutil.Sum(p.ChemicalsPerLiter, p.EnergyPerLiter, p.WaterPerLiter, p.CO2PerLiter)
}

// Clone returns a deep copy that shares no mutable state with s.
func (s *Scenario) Clone() *Scenario {
	if s == nil {
		return nil
	}
	c := &Scenario{
		CapexItems:  append([]CapexItem(nil), s.CapexItems...),
		OpexItems:   append([]OpexItem(nil), s.OpexItems...),
		Employees:   append([]Employee(nil), s.Employees...),
		Ingredients: append([]Ingredient(nil), s.Ingredients...),
		Recipes: Recipes{
			Headers: append([]RecipeHeader(nil), s.Recipes.Headers...),
			Lines:   append([]RecipeLine(nil), s.Recipes.Lines...),
		},
		Packaging: append([]PackagingType(nil), s.Packaging...),
		Prices:    append([]Price(nil), s.Prices...),
		Mix:       s.Mix,
		Premises:  s.Premises,
		Financing: s.Financing,
	}
	c.Mix.PackagedDistribution = cloneDistribution(s.Mix.PackagedDistribution)
	c.reassigned = append([]IDReassignment(nil), s.reassigned...)
	if len(s.extra) > 0 {
		c.extra = make(map[string]any, len(s.extra))
		for k, v := range s.extra {
			c.extra[k] = deepCopyValue(v)
		}
	}
	return c
}

func cloneDistribution(dist map[string]float64) map[string]float64 {
	if dist == nil {
		return nil
	}
	out := make(map[string]float64, len(dist))
	for k, v := range dist {
		out[k] = v
	}
	return out
}

// unknownFields holds the columns of a row, or the keys of a settings map,
// that the typed model does not read. It is never mutated after decoding, so
// copies of a row share it safely.
type unknownFields struct {
	values map[string]any
}

// collectUnknown returns the entries of m whose keys are not in known, or nil
// when there are none.
func collectUnknown(m map[string]any, known []string) *unknownFields {
	var u *unknownFields
	for k, v := range m {
		if containsString(known, k) {
			continue
		}
		if u == nil {
			u = &unknownFields{values: make(map[string]any)}
		}
		u.values[k] = deepCopyValue(v)
	}
	return u
}

// overlayUnknown returns base with the entries of over replacing or adding
// keys. Neither argument is modified.
func overlayUnknown(base, over *unknownFields) *unknownFields {
	if over == nil {
		return base
	}
	if base == nil {
		return over
	}
	merged := &unknownFields{values: make(map[string]any, len(base.values)+len(over.values))}
	for k, v := range base.values {
		merged.values[k] = v
	}
	for k, v := range over.values {
		merged.values[k] = v
	}
	return merged
}

// mergeInto copies the unknown entries into dst without replacing keys dst
// already holds.
func (u *unknownFields) mergeInto(dst map[string]any) {
	if u == nil {
		return
	}
	for k, v := range u.values {
		if _, ok := dst[k]; !ok {
			dst[k] = deepCopyValue(v)
		}
	}
}

func (u *unknownFields) keys() []string {
	if u == nil {
		return nil
	}
	keys := make([]string, 0, len(u.values))
	for k := range u.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = deepCopyValue(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = deepCopyValue(vv)
		}
		return out
	default:
		return v
	}
}
