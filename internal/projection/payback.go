package projection

import (
	"github.com/iwvelando/brewery-planner/pkg/constants"
	"github.com/iwvelando/brewery-planner/pkg/loans"
)

// Point is the cumulative cash balance at the end of a month.
type Point struct {
	Month       int
	CashFlow    float64
	DebtService float64
	Balance     float64
}

// Series is a payback trajectory. Points[0] is month 0 holding the negative
// initial investment.
type Series struct {
	Points       []Point
	PaybackMonth int
	PaidBack     bool
}

// PaybackYears is the payback month expressed in years, or 0 when the
// investment never pays back.
func (s Series) PaybackYears() float64 {
	if !s.PaidBack {
		return 0
	}
	return float64(s.PaybackMonth) / constants.MonthsPerYear
}

// Final returns the last point of the series.
func (s Series) Final() Point {
	if len(s.Points) == 0 {
		return Point{}
	}
	return s.Points[len(s.Points)-1]
}

// PaybackSeries accumulates a constant monthly net cash flow against the
// initial investment over months (the default horizon when months <= 0).
// The payback month is the first month from 1 whose balance is >= 0.
func PaybackSeries(investment, monthlyNet float64, months int) Series {
	return accumulate(investment, months, func(int) (float64, float64) {
		return monthlyNet, 0
	})
}

// FinancedPaybackSeries accumulates operating cash (margin - opex) less debt
// service. Months 1..grace pay interest only on the principal; every later
// month pays the fixed installment over max(1, term-grace) periods, through
// the end of the horizon.
func FinancedPaybackSeries(investment, margin, opex float64, terms loans.Terms, months int) Series {
	operating := margin - opex
	return accumulate(investment, months, func(month int) (float64, float64) {
		return operating, terms.DebtService(month)
	})
}

func accumulate(investment float64, months int, flow func(month int) (cash, debt float64)) Series {
	if months <= 0 {
		months = constants.DefaultHorizonMonths
	}
	s := Series{Points: make([]Point, 0, months+1)}
	balance := -investment
	s.Points = append(s.Points, Point{Month: 0, Balance: balance})
	for month := 1; month <= months; month++ {
		cash, debt := flow(month)
		balance += cash - debt
		s.Points = append(s.Points, Point{Month: month, CashFlow: cash, DebtService: debt, Balance: balance})
		if balance >= 0 && !s.PaidBack {
			s.PaidBack = true
			s.PaybackMonth = month
		}
	}
	return s
}
