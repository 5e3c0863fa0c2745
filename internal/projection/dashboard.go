package projection

import (
	"sort"

	"github.com/iwvelando/brewery-planner/internal/costing"
	"github.com/iwvelando/brewery-planner/internal/scenario"
)

// CategoryTotal is the capital expenditure of one category.
type CategoryTotal struct {
	Category string
	Amount   float64
}

// StatusTotal is the capital expenditure in one procurement status.
type StatusTotal struct {
	Status scenario.CapexStatus
	Amount float64
}

// OpexLine is one fixed monthly cost, payroll included.
type OpexLine struct {
	Description string
	Amount      float64
	Payroll     bool
}

// CapexByCategory totals capital expenditure per category in first-seen order.
func CapexByCategory(items []scenario.CapexItem) []CategoryTotal {
	var out []CategoryTotal
	index := make(map[string]int)
	for _, it := range items {
		i, ok := index[it.Category]
		if !ok {
			i = len(out)
			index[it.Category] = i
			out = append(out, CategoryTotal{Category: it.Category})
		}
		out[i].Amount += it.Amount
	}
	return out
}

// CapexByStatus totals capital expenditure per status in display order.
// Every known status is present; unknown statuses follow in first-seen order.
func CapexByStatus(items []scenario.CapexItem) []StatusTotal {
	out := make([]StatusTotal, 0, len(scenario.StatusOrder))
	index := make(map[scenario.CapexStatus]int)
	for _, st := range scenario.StatusOrder {
		index[st] = len(out)
		out = append(out, StatusTotal{Status: st})
	}
	for _, it := range items {
		i, ok := index[it.Status]
		if !ok {
			i = len(out)
			index[it.Status] = i
			out = append(out, StatusTotal{Status: it.Status})
		}
		out[i].Amount += it.Amount
	}
	return out
}

// OpexBreakdown lists other fixed costs and payroll lines by amount,
// largest first.
func OpexBreakdown(items []scenario.OpexItem, payroll costing.Payroll) []OpexLine {
	out := make([]OpexLine, 0, len(items)+len(payroll.Lines))
	for _, it := range items {
		out = append(out, OpexLine{Description: it.Description, Amount: it.Amount})
	}
	for _, l := range payroll.Lines {
		out = append(out, OpexLine{Description: l.Name, Amount: l.MonthlyCost, Payroll: true})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount > out[j].Amount
	})
	return out
}
