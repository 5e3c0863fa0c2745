// Package metrics exposes projection results as Prometheus gauges written to
// a node_exporter textfile.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iwvelando/brewery-planner/internal/projection"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const namespace = "brewery"

// Exporter collects projection gauges labelled by scenario.
type Exporter struct {
	logger   *zap.Logger
	registry *prometheus.Registry

	requiredInvestment   *prometheus.GaugeVec
	contributionMargin   *prometheus.GaugeVec
	operatingProfit      *prometheus.GaugeVec
	paybackMonth         *prometheus.GaugeVec
	financedPaybackMonth *prometheus.GaugeVec
	costPerLiter         *prometheus.GaugeVec
}

func newGauge(name, help string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, []string{"scenario"})
}

// NewExporter builds an exporter with its own registry.
func NewExporter(logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Exporter{
		logger:               logger,
		registry:             prometheus.NewRegistry(),
		requiredInvestment:   newGauge("required_investment", "Capex plus working capital, in BRL."),
		contributionMargin:   newGauge("contribution_margin", "Monthly contribution margin, in BRL."),
		operatingProfit:      newGauge("operating_profit", "Monthly contribution margin minus fixed costs, in BRL."),
		paybackMonth:         newGauge("payback_month", "First month with a non-negative balance, -1 when never."),
		financedPaybackMonth: newGauge("financed_payback_month", "Payback month under debt financing, -1 when never."),
		costPerLiter:         newGauge("cost_per_liter", "Reference recipe cost per liter, in BRL."),
	}
	e.registry.MustRegister(
		e.requiredInvestment,
		e.contributionMargin,
		e.operatingProfit,
		e.paybackMonth,
		e.financedPaybackMonth,
		e.costPerLiter,
	)
	return e
}

func paybackValue(s projection.Series) float64 {
	if !s.PaidBack {
		return -1
	}
	return float64(s.PaybackMonth)
}

// Observe records a report.
func (e *Exporter) Observe(r projection.Report) {
	label := prometheus.Labels{"scenario": r.Scenario}
	e.requiredInvestment.With(label).Set(r.RequiredInvestment)
	e.contributionMargin.With(label).Set(r.PnL.ContributionMargin)
	e.operatingProfit.With(label).Set(r.OperatingProfit)
	e.paybackMonth.With(label).Set(paybackValue(r.Payback))
	e.costPerLiter.With(label).Set(r.PnL.CostPerLiter)
	if r.FinancedPayback != nil {
		e.financedPaybackMonth.With(label).Set(paybackValue(*r.FinancedPayback))
	}
}

// Gatherer returns the exporter's registry.
func (e *Exporter) Gatherer() prometheus.Gatherer {
	return e.registry
}

// WriteTextfile atomically writes the gauges in text exposition format to
// path, creating its directory when missing.
func (e *Exporter) WriteTextfile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create metrics directory %s: %w", dir, err)
		}
	}
	if err := prometheus.WriteToTextfile(path, e.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	e.logger.Debug(fmt.Sprintf("wrote metrics textfile %s", path),
		zap.String("op", "metrics.WriteTextfile"),
	)
	return nil
}
