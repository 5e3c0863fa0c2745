package testutil

import (
	"os"
	"testing"

	"github.com/iwvelando/brewery-planner/internal/projection"
)

func TestFindReport(t *testing.T) {
	reports := []projection.Report{
		{Scenario: "Base", RequiredInvestment: 1000},
		{Scenario: "Otimista", RequiredInvestment: 2000},
	}

	tests := []struct {
		name        string
		searchName  string
		expectFound bool
		expected    float64
	}{
		{"Find first", "Base", true, 1000},
		{"Find second", "Otimista", true, 2000},
		{"Missing", "Pessimista", false, 0},
		{"Case sensitive", "base", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FindReport(reports, tt.searchName)
			if (r != nil) != tt.expectFound {
				t.Fatalf("FindReport(%q) found = %v, expected %v", tt.searchName, r != nil, tt.expectFound)
			}
			if r != nil && r.RequiredInvestment != tt.expected {
				t.Errorf("RequiredInvestment = %v, expected %v", r.RequiredInvestment, tt.expected)
			}
		})
	}

	// The returned pointer refers to the slice element.
	FindReport(reports, "Base").OperatingProfit = 42
	if reports[0].OperatingProfit != 42 {
		t.Error("FindReport() returned a copy")
	}
}

func TestSimpleScenario(t *testing.T) {
	a, b := SimpleScenario(), SimpleScenario()
	a.Mix.PackagedDistribution["Lata 473ml"] = 0
	if b.Mix.PackagedDistribution["Lata 473ml"] != 100 {
		t.Error("fixtures share state")
	}

	r := projection.Project(nil, "Simple", SimpleScenario(), projection.Options{})
	if r.RequiredInvestment != 36000 || !r.Payback.PaidBack || r.Payback.PaybackMonth != 5 {
		t.Errorf("investment = %v, payback = %+v", r.RequiredInvestment, r.Payback.PaybackMonth)
	}
}

func TestWriteFile(t *testing.T) {
	path := WriteFile(t, "db.json", "{}")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("content = %q", data)
	}
}
