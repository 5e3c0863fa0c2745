package loans

import (
	"math"
	"testing"

	"go.uber.org/zap"
)

func TestInstallment(t *testing.T) {
	tests := []struct {
		name          string
		principal     float64
		monthlyRate   float64
		numPeriods    int
		expectedRange []float64 // [min, max] expected range
	}{
		{
			name:          "Zero periods",
			principal:     10000,
			monthlyRate:   0.01,
			numPeriods:    0,
			expectedRange: []float64{0, 0},
		},
		{
			name:          "Negative periods",
			principal:     10000,
			monthlyRate:   0.01,
			numPeriods:    -3,
			expectedRange: []float64{0, 0},
		},
		{
			name:          "Zero interest is straight-line",
			principal:     12000,
			monthlyRate:   0,
			numPeriods:    60,
			expectedRange: []float64{200, 200},
		},
		{
			name:          "Negative rate is straight-line",
			principal:     1200,
			monthlyRate:   -0.01,
			numPeriods:    12,
			expectedRange: []float64{100, 100},
		},
		{
			name:          "18% a.a. over 48 months",
			principal:     100000,
			monthlyRate:   0.015,
			numPeriods:    48,
			expectedRange: []float64{2937, 2938}, // Around 2937.50
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Installment(tt.principal, tt.monthlyRate, tt.numPeriods)

			if result < tt.expectedRange[0] || result > tt.expectedRange[1] {
				t.Errorf("Installment() = %.2f, expected range [%.2f, %.2f]",
					result, tt.expectedRange[0], tt.expectedRange[1])
			}
		})
	}
}

func TestInstallmentRepaysMoreThanPrincipal(t *testing.T) {
	for _, rate := range []float64{0.001, 0.01, 0.015, 0.05} {
		for _, n := range []int{1, 10, 48, 120} {
			total := Installment(5000, rate, n) * float64(n)
			if total <= 5000 {
				t.Errorf("rate %.3f, %d periods: total repayment %.2f does not exceed principal", rate, n, total)
			}
		}
	}
}

func TestInstallmentZeroRateIsExact(t *testing.T) {
	if got := Installment(6000, 0, 7); got != 6000.0/7.0 {
		t.Errorf("Installment(6000, 0, 7) = %v, expected %v", got, 6000.0/7.0)
	}
}

func TestMonthlyRate(t *testing.T) {
	tests := []struct {
		name     string
		annual   float64
		expected float64
	}{
		{"18% a.a.", 18, 0.015},
		{"Zero", 0, 0},
		{"6% a.a.", 6, 0.005},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MonthlyRate(tt.annual); math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("MonthlyRate(%v) = %v, expected %v", tt.annual, got, tt.expected)
			}
		})
	}
}

func TestTermsPaymentForMonth(t *testing.T) {
	terms := Terms{Principal: 6000, MonthlyRate: 0.015, TermMonths: 12, GraceMonths: 2}
	installment := Installment(6000, 0.015, 10)

	if terms.AmortizationPeriods() != 10 {
		t.Fatalf("AmortizationPeriods() = %d, expected 10", terms.AmortizationPeriods())
	}
	if terms.FinalMonth() != 12 {
		t.Fatalf("FinalMonth() = %d, expected 12", terms.FinalMonth())
	}

	for month := 1; month <= 2; month++ {
		if got := terms.PaymentForMonth(month); math.Abs(got-90) > 1e-9 {
			t.Errorf("month %d payment = %v, expected 90", month, got)
		}
	}
	for month := 3; month <= 12; month++ {
		if got := terms.PaymentForMonth(month); got != installment {
			t.Errorf("month %d payment = %v, expected %v", month, got, installment)
		}
	}
	for _, month := range []int{0, 13, 84} {
		if got := terms.PaymentForMonth(month); got != 0 {
			t.Errorf("month %d payment = %v, expected 0", month, got)
		}
	}
}

func TestTermsDebtService(t *testing.T) {
	terms := Terms{Principal: 6000, MonthlyRate: 0.015, TermMonths: 12, GraceMonths: 2}
	installment := terms.Installment()

	tests := []struct {
		month    int
		expected float64
	}{
		{0, 0},
		{1, 90},
		{2, 90},
		{3, installment},
		{12, installment},
		{13, installment},
		{84, installment},
	}
	for _, tt := range tests {
		if got := terms.DebtService(tt.month); math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("DebtService(%d) = %v, expected %v", tt.month, got, tt.expected)
		}
	}

	if got := (Terms{MonthlyRate: 0.015, TermMonths: 12}).DebtService(3); got != 0 {
		t.Errorf("DebtService() without principal = %v, expected 0", got)
	}
}

func TestTermsGraceLongerThanTerm(t *testing.T) {
	terms := Terms{Principal: 1000, MonthlyRate: 0.01, TermMonths: 3, GraceMonths: 5}
	if terms.AmortizationPeriods() != 1 {
		t.Errorf("AmortizationPeriods() = %d, expected 1", terms.AmortizationPeriods())
	}
	if terms.FinalMonth() != 6 {
		t.Errorf("FinalMonth() = %d, expected 6", terms.FinalMonth())
	}
	if got := terms.PaymentForMonth(6); math.Abs(got-1010) > 1e-9 {
		t.Errorf("single installment = %v, expected 1010", got)
	}
}

func TestGenerateSchedule(t *testing.T) {
	generator := NewAmortizationScheduleGenerator(zap.NewNop())

	terms := Terms{Principal: 6000, MonthlyRate: 0.015, TermMonths: 12, GraceMonths: 2}
	schedule, err := generator.GenerateSchedule(terms)
	if err != nil {
		t.Fatalf("GenerateSchedule() error = %v", err)
	}
	if len(schedule) != 12 {
		t.Fatalf("expected 12 payments, got %d", len(schedule))
	}

	for _, p := range schedule[:2] {
		if !p.GracePeriod || p.Principal != 0 || p.RemainingPrincipal != 6000 {
			t.Errorf("grace month %d = %+v", p.Month, p)
		}
	}

	principalPaid := 0.0
	for _, p := range schedule {
		principalPaid += p.Principal
	}
	if math.Abs(principalPaid-6000) > 0.01 {
		t.Errorf("principal repaid = %.2f, expected 6000", principalPaid)
	}
	if schedule[11].RemainingPrincipal != 0 {
		t.Errorf("final remaining principal = %v, expected 0", schedule[11].RemainingPrincipal)
	}
}

func TestGenerateScheduleEdgeCases(t *testing.T) {
	generator := NewAmortizationScheduleGenerator(nil)

	schedule, err := generator.GenerateSchedule(Terms{Principal: 0, MonthlyRate: 0.01, TermMonths: 12})
	if err != nil || schedule != nil {
		t.Errorf("zero principal: schedule = %v, err = %v", schedule, err)
	}

	if _, err := generator.GenerateSchedule(Terms{Principal: -1, TermMonths: 12}); err == nil {
		t.Error("expected error for negative principal")
	}

	schedule, err = generator.GenerateSchedule(Terms{Principal: 1200, TermMonths: 12})
	if err != nil {
		t.Fatalf("GenerateSchedule() error = %v", err)
	}
	for _, p := range schedule {
		if p.Interest != 0 || math.Abs(p.Payment-100) > 1e-9 {
			t.Errorf("zero-rate month %d = %+v", p.Month, p)
		}
	}
}
