// Package output renders projection reports for the terminal and for other
// programs.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/brewery-planner/internal/projection"
	"github.com/iwvelando/brewery-planner/pkg/constants"
	"github.com/iwvelando/brewery-planner/pkg/format"
	"github.com/iwvelando/brewery-planner/pkg/loans"
	"github.com/iwvelando/brewery-planner/pkg/mathutil"
	"gopkg.in/yaml.v3"
)

// Write renders reports in the named format.
func Write(w io.Writer, outputFormat string, reports []projection.Report) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, reports)
	case constants.OutputFormatCSV:
		return CsvFormat(w, reports)
	case constants.OutputFormatYAML:
		return YamlFormat(w, reports)
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}

// errWriter keeps the first write error so rendering code can print freely.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(msg string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, msg, args...)
}

func (ew *errWriter) line(label, value string) {
	ew.printf("  %-32s %s\n", label, value)
}

func paybackText(s projection.Series, horizon int) string {
	if !s.PaidBack {
		return fmt.Sprintf("não atingido em %d meses", horizon)
	}
	return fmt.Sprintf("mês %d (%s anos)", s.PaybackMonth, format.Decimal(s.PaybackYears(), 1))
}

func horizonOf(s projection.Series) int {
	return s.Final().Month
}

// PrettyFormat outputs a human-readable summary of each report.
func PrettyFormat(w io.Writer, reports []projection.Report) error {
	ew := &errWriter{w: w}
	for i, r := range reports {
		if i > 0 {
			ew.printf("\n")
		}
		ew.printf("--- Resultados do cenário %s ---\n", r.Scenario)

		ew.printf("Investimento\n")
		ew.line("CAPEX total", format.Currency(r.CapexTotal))
		ew.line("Folha de pagamento", format.Currency(r.Payroll.Total))
		ew.line("Outras despesas fixas", format.Currency(r.OtherOpexTotal))
		ew.line("OPEX mensal", format.Currency(r.OpexTotal))
		ew.line("Capital de giro (meses)", strconv.Itoa(r.WorkingCapitalMonths))
		ew.line("Investimento necessário", format.Currency(r.RequiredInvestment))

		p := r.PnL
		ew.printf("DRE mensal\n")
		ew.line("Volume vendido", format.Liters(p.VolumeLiters))
		ew.line("Custo por litro", format.Currency(p.CostPerLiter))
		ew.line("Receita bruta", format.Currency(p.GrossRevenue))
		ew.line("Impostos", format.Currency(-p.Taxes))
		ew.line("CMV líquido", format.Currency(-p.COGSLiquid))
		ew.line("CMV embalagens", format.Currency(-p.COGSPackaging))
		ew.line("CMV copos", format.Currency(-p.COGSCups))
		ew.line("Margem de contribuição", format.Currency(p.ContributionMargin))
		ew.line("OPEX", format.Currency(-r.OpexTotal))
		ew.line("Lucro operacional", format.Currency(r.OperatingProfit))

		ew.printf("Canais\n")
		ew.line("Taproom", fmt.Sprintf("%s, %s copos, %s", format.Liters(p.TaproomLiters), format.Decimal(p.TaproomCups, 0), format.Currency(p.TaproomRevenue)))
		ew.line("Varejo chope", fmt.Sprintf("%s, %s", format.Liters(p.DraftLiters), format.Currency(p.DraftRevenue)))
		ew.line("Varejo embalado", fmt.Sprintf("%s, %s", format.Liters(p.PackagedLiters), format.Currency(p.PackagedRevenue)))
		for _, pl := range p.Packaged {
			ew.line("  "+pl.Packaging, fmt.Sprintf("%s un., %s", format.Decimal(pl.Units, 0), format.Currency(pl.Revenue)))
		}

		ew.printf("Payback\n")
		ew.line("Payback", paybackText(r.Payback, horizonOf(r.Payback)))
		ew.line("Saldo ao fim do horizonte", format.Currency(r.Payback.Final().Balance))

		if r.FinancedPayback != nil {
			f := r.Financing
			ew.printf("Financiamento\n")
			ew.line("Valor financiado", fmt.Sprintf("%s (%s)", format.Currency(f.Principal), format.Percent(f.FinancedPercent)))
			ew.line("Taxa de juros", fmt.Sprintf("%s a.a.", format.Percent(f.AnnualRatePercent)))
			ew.line("Prazo / carência", fmt.Sprintf("%d / %d meses", f.TermMonths, f.GraceMonths))
			if f.GraceMonths > 0 {
				ew.line("Juros na carência", format.Currency(f.InterestOnly))
			}
			ew.line("Parcela", fmt.Sprintf("%s x %d", format.Currency(f.Installment), f.AmortizationPeriods))
			ew.line("Payback financiado", paybackText(*r.FinancedPayback, horizonOf(*r.FinancedPayback)))
			if len(f.Schedule) > 0 {
				writeSchedule(ew, f.Schedule)
			}
		}
	}
	return ew.err
}

func writeSchedule(ew *errWriter, schedule []loans.Payment) {
	ew.printf("Cronograma\n")
	ew.printf("  %4s %16s %16s %16s %16s\n", "Mês", "Parcela", "Juros", "Amortização", "Saldo devedor")
	for _, p := range schedule {
		ew.printf("  %4d %16s %16s %16s %16s\n", p.Month,
			format.Currency(p.Payment),
			format.Currency(p.Interest),
			format.Currency(p.Principal),
			format.Currency(p.RemainingPrincipal),
		)
	}
}

type csvMetric struct {
	name  string
	value func(projection.Report) float64
}

var csvMetrics = []csvMetric{
	{"capex_total", func(r projection.Report) float64 { return r.CapexTotal }},
	{"payroll_total", func(r projection.Report) float64 { return r.Payroll.Total }},
	{"other_opex_total", func(r projection.Report) float64 { return r.OtherOpexTotal }},
	{"opex_total", func(r projection.Report) float64 { return r.OpexTotal }},
	{"required_investment", func(r projection.Report) float64 { return r.RequiredInvestment }},
	{"volume_liters", func(r projection.Report) float64 { return r.PnL.VolumeLiters }},
	{"cost_per_liter", func(r projection.Report) float64 { return r.PnL.CostPerLiter }},
	{"gross_revenue", func(r projection.Report) float64 { return r.PnL.GrossRevenue }},
	{"taxes", func(r projection.Report) float64 { return r.PnL.Taxes }},
	{"cogs_liquid", func(r projection.Report) float64 { return r.PnL.COGSLiquid }},
	{"cogs_packaging", func(r projection.Report) float64 { return r.PnL.COGSPackaging }},
	{"cogs_cups", func(r projection.Report) float64 { return r.PnL.COGSCups }},
	{"contribution_margin", func(r projection.Report) float64 { return r.PnL.ContributionMargin }},
	{"operating_profit", func(r projection.Report) float64 { return r.OperatingProfit }},
	{"payback_month", func(r projection.Report) float64 { return paybackMonth(r.Payback) }},
	{"final_balance", func(r projection.Report) float64 { return r.Payback.Final().Balance }},
}

func paybackMonth(s projection.Series) float64 {
	if !s.PaidBack {
		return -1
	}
	return float64(s.PaybackMonth)
}

// CsvFormat outputs one row per metric and one column per scenario.
func CsvFormat(w io.Writer, reports []projection.Report) error {
	cw := csv.NewWriter(w)
	header := []string{"metric"}
	for _, r := range reports {
		header = append(header, r.Scenario)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, m := range csvMetrics {
		row := []string{m.name}
		for _, r := range reports {
			row = append(row, strconv.FormatFloat(mathutil.Round(m.value(r)), 'f', 2, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// YAMLReport is the machine-readable summary of one report.
type YAMLReport struct {
	Scenario           string             `yaml:"scenario"`
	CapexTotal         float64            `yaml:"capexTotal"`
	PayrollTotal       float64            `yaml:"payrollTotal"`
	OtherOpexTotal     float64            `yaml:"otherOpexTotal"`
	OpexTotal          float64            `yaml:"opexTotal"`
	RequiredInvestment float64            `yaml:"requiredInvestment"`
	PnL                YAMLPnL            `yaml:"pnl"`
	OperatingProfit    float64            `yaml:"operatingProfit"`
	Payback            YAMLPayback        `yaml:"payback"`
	Financing          *YAMLFinancing     `yaml:"financing,omitempty"`
	CapexByCategory    map[string]float64 `yaml:"capexByCategory,omitempty"`
}

// YAMLPnL is the monthly P&L in a YAMLReport.
type YAMLPnL struct {
	VolumeLiters       float64 `yaml:"volumeLiters"`
	CostPerLiter       float64 `yaml:"costPerLiter"`
	GrossRevenue       float64 `yaml:"grossRevenue"`
	Taxes              float64 `yaml:"taxes"`
	COGSTotal          float64 `yaml:"cogsTotal"`
	ContributionMargin float64 `yaml:"contributionMargin"`
}

// YAMLPayback summarizes a payback series.
type YAMLPayback struct {
	PaidBack     bool    `yaml:"paidBack"`
	Month        int     `yaml:"month,omitempty"`
	Years        float64 `yaml:"years,omitempty"`
	FinalBalance float64 `yaml:"finalBalance"`
}

// YAMLFinancing summarizes the loan and its payback.
type YAMLFinancing struct {
	Principal    float64       `yaml:"principal"`
	Installment  float64       `yaml:"installment"`
	InterestOnly float64       `yaml:"interestOnly"`
	TermMonths   int           `yaml:"termMonths"`
	GraceMonths  int           `yaml:"graceMonths"`
	Payback      YAMLPayback   `yaml:"payback"`
	Schedule     []YAMLPayment `yaml:"schedule,omitempty"`
}

// YAMLPayment is one month of the amortization schedule.
type YAMLPayment struct {
	Month     int     `yaml:"month"`
	Payment   float64 `yaml:"payment"`
	Interest  float64 `yaml:"interest"`
	Principal float64 `yaml:"principal"`
	Remaining float64 `yaml:"remaining"`
	Grace     bool    `yaml:"grace,omitempty"`
}

func yamlPayback(s projection.Series) YAMLPayback {
	return YAMLPayback{
		PaidBack:     s.PaidBack,
		Month:        s.PaybackMonth,
		Years:        mathutil.Round(s.PaybackYears()),
		FinalBalance: mathutil.Round(s.Final().Balance),
	}
}

// ToYAMLReport converts a report to its YAML summary with amounts rounded to
// cents.
func ToYAMLReport(r projection.Report) YAMLReport {
	y := YAMLReport{
		Scenario:           r.Scenario,
		CapexTotal:         mathutil.Round(r.CapexTotal),
		PayrollTotal:       mathutil.Round(r.Payroll.Total),
		OtherOpexTotal:     mathutil.Round(r.OtherOpexTotal),
		OpexTotal:          mathutil.Round(r.OpexTotal),
		RequiredInvestment: mathutil.Round(r.RequiredInvestment),
		PnL: YAMLPnL{
			VolumeLiters:       mathutil.Round(r.PnL.VolumeLiters),
			CostPerLiter:       mathutil.Round(r.PnL.CostPerLiter),
			GrossRevenue:       mathutil.Round(r.PnL.GrossRevenue),
			Taxes:              mathutil.Round(r.PnL.Taxes),
			COGSTotal:          mathutil.Round(r.PnL.COGSTotal),
			ContributionMargin: mathutil.Round(r.PnL.ContributionMargin),
		},
		OperatingProfit: mathutil.Round(r.OperatingProfit),
		Payback:         yamlPayback(r.Payback),
	}
	if r.FinancedPayback != nil {
		y.Financing = &YAMLFinancing{
			Principal:    mathutil.Round(r.Financing.Principal),
			Installment:  mathutil.Round(r.Financing.Installment),
			InterestOnly: mathutil.Round(r.Financing.InterestOnly),
			TermMonths:   r.Financing.TermMonths,
			GraceMonths:  r.Financing.GraceMonths,
			Payback:      yamlPayback(*r.FinancedPayback),
		}
		for _, p := range r.Financing.Schedule {
			y.Financing.Schedule = append(y.Financing.Schedule, YAMLPayment{
				Month:     p.Month,
				Payment:   mathutil.Round(p.Payment),
				Interest:  mathutil.Round(p.Interest),
				Principal: mathutil.Round(p.Principal),
				Remaining: mathutil.Round(p.RemainingPrincipal),
				Grace:     p.GracePeriod,
			})
		}
	}
	if len(r.CapexByCategory) > 0 {
		y.CapexByCategory = make(map[string]float64, len(r.CapexByCategory))
		for _, c := range r.CapexByCategory {
			y.CapexByCategory[c.Category] = mathutil.Round(c.Amount)
		}
	}
	return y
}

// YamlFormat outputs the reports as a YAML list.
func YamlFormat(w io.Writer, reports []projection.Report) error {
	out := make([]YAMLReport, 0, len(reports))
	for _, r := range reports {
		out = append(out, ToYAMLReport(r))
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}
