// Package mix normalizes percentage distributions and apportions a month's
// sales volume across channels and packaging types.
package mix

import (
	"math"
	"sort"

	"github.com/iwvelando/brewery-planner/pkg/constants"
	"github.com/iwvelando/brewery-planner/pkg/mathutil"
)

// excludedFromDistribution are packaging types that are never sold as
// retail packaged units.
var excludedFromDistribution = map[string]bool{
	"Barril 30L":            true,
	"Barril 50L":            true,
	constants.TaproomCupSKU: true,
}

// Catalog resolves prices and packaging. Unknown entries resolve to zero.
type Catalog interface {
	RetailPrice(sku string) float64
	TaproomPrice(sku string) float64
	PackagingUnit(name string) (volumeLiters, unitCost float64)
}

// Shares are the channel percentages of the monthly volume. They are applied
// literally and are not renormalized.
type Shares struct {
	TaproomPercent        float64
	RetailDraftPercent    float64
	RetailPackagedPercent float64
}

// PackagedLine is the outcome for one packaging type.
type PackagedLine struct {
	Packaging string
	Percent   float64
	Liters    float64
	Units     float64
	Revenue   float64
	Cost      float64
}

// Allocation is the apportioned volume, revenue, and packaging cost of a month.
type Allocation struct {
	TaproomLiters  float64
	DraftLiters    float64
	PackagedLiters float64

	TaproomCups    float64
	TaproomRevenue float64
	CupCost        float64

	DraftRevenue float64

	PackagedRevenue float64
	PackagingCost   float64
	Packaged        []PackagedLine
}

// Revenue is the gross revenue across every channel.
func (a Allocation) Revenue() float64 {
	return a.TaproomRevenue + a.DraftRevenue + a.PackagedRevenue
}

// Normalize clamps negative and NaN shares to zero and rescales the result
// to sum to 100. When nothing positive remains the clamped map is returned
// unchanged.
func Normalize(dist map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(dist))
	total := 0.0
	for k, v := range dist {
		v = mathutil.NonNegative(v)
		out[k] = v
		total += v
	}
	if total <= 0 {
		return out
	}
	for k, v := range out {
		out[k] = v / total * constants.PercentageMultiplier
	}
	return out
}

// Allocate apportions volume (liters per month) across channels and the
// packaged distribution, pricing each part from the catalog. Packaging types
// with no usable volume, including unknown names, are skipped.
func Allocate(volume float64, shares Shares, distribution map[string]float64, catalog Catalog) Allocation {
	volume = mathutil.NonNegative(volume)

	var a Allocation
	a.TaproomLiters = mathutil.ApplyPercentage(volume, shares.TaproomPercent)
	a.DraftLiters = mathutil.ApplyPercentage(volume, shares.RetailDraftPercent)
	a.PackagedLiters = mathutil.ApplyPercentage(volume, shares.RetailPackagedPercent)

	norm := Normalize(distribution)
	// Name order, not insertion order: map iteration is random and the
	// packaged totals must not change between runs.
	for _, name := range sortedKeys(norm) {
		pct := norm[name]
		unitVolume, unitCost := catalog.PackagingUnit(name)
		if unitVolume <= 0 || math.IsNaN(unitVolume) {
			continue
		}
		liters := mathutil.ApplyPercentage(a.PackagedLiters, pct)
		units := liters / unitVolume
		line := PackagedLine{
			Packaging: name,
			Percent:   pct,
			Liters:    liters,
			Units:     units,
			Revenue:   units * catalog.RetailPrice(name),
			Cost:      units * unitCost,
		}
		a.PackagedRevenue += line.Revenue
		a.PackagingCost += line.Cost
		a.Packaged = append(a.Packaged, line)
	}

	cupVolume, cupCost := catalog.PackagingUnit(constants.TaproomCupSKU)
	if cupVolume <= 0 || math.IsNaN(cupVolume) {
		cupVolume = constants.DefaultCupVolumeLiters
	}
	a.TaproomCups = a.TaproomLiters / cupVolume
	a.TaproomRevenue = a.TaproomCups * catalog.TaproomPrice(constants.TaproomCupSKU)
	a.CupCost = a.TaproomCups * cupCost

	a.DraftRevenue = a.DraftLiters * catalog.RetailPrice(constants.DraftSKU)

	return a
}

// IsEligible reports whether a packaging type may appear in the packaged
// distribution.
func IsEligible(name string) bool {
	return name != "" && !excludedFromDistribution[name]
}

// EligiblePackaging filters names down to those that may appear in the
// packaged distribution, keeping their order.
func EligiblePackaging(names []string) []string {
	var out []string
	for _, n := range names {
		if IsEligible(n) {
			out = append(out, n)
		}
	}
	return out
}

// FillDistribution returns a copy of dist with every eligible name that is
// missing added at zero.
func FillDistribution(dist map[string]float64, names []string) map[string]float64 {
	out := make(map[string]float64, len(dist)+len(names))
	for k, v := range dist {
		out[k] = v
	}
	for _, n := range EligiblePackaging(names) {
		if _, ok := out[n]; !ok {
			out[n] = 0
		}
	}
	return out
}

// BalancePackaged returns packaged unchanged when the three shares already
// sum to 100, otherwise the remainder 100 - taproom - draft floored at zero.
func BalancePackaged(taproom, draft, packaged float64) float64 {
	if mathutil.WithinTolerance(taproom+draft+packaged, constants.PercentageMultiplier, 1e-9) {
		return packaged
	}
	return math.Max(0, constants.PercentageMultiplier-taproom-draft)
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
