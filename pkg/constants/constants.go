// Package constants provides shared constants for the brewery-planner application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// VacationProvisionFactor is vacation pay plus the constitutional one-third bonus.
	VacationProvisionFactor = 4.0 / 3.0
)

// Projection defaults
const (
	// DefaultHorizonMonths is the payback simulation horizon (7 years).
	DefaultHorizonMonths = 84

	// DefaultCupVolumeLiters is used when the taproom cup has no usable volume.
	DefaultCupVolumeLiters = 0.473
)

// Scenario store defaults
const (
	// DefaultScenarioName is the name of the scenario created for an empty store.
	DefaultScenarioName = "Base"

	// NewScenarioName is the base name for scenarios created without a name.
	NewScenarioName = "Novo cenário"

	// CopySuffix is appended to the name of a duplicated scenario.
	CopySuffix = " (cópia)"

	// LegacyScenarioNameFormat names unnamed scenarios of list-shaped documents (1-based).
	LegacyScenarioNameFormat = "Cenário %d"

	// DefaultStoreDir is the store directory relative to the user's home.
	DefaultStoreDir = ".breweryplanner"

	// DefaultStoreFile is the store file name inside DefaultStoreDir.
	DefaultStoreFile = "breweryplanner_db.json"
)

// Well-known SKUs and packaging names
const (
	// TaproomCupSKU is both the taproom price SKU and the cup packaging name.
	TaproomCupSKU = "Copo Taproom"

	// DraftSKU is the per-liter retail draft price SKU.
	DraftSKU = "Chope (R$/L)"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatYAML is the YAML output format
	OutputFormatYAML = "yaml"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// EnvPrefix prefixes environment variable overrides of config keys.
	EnvPrefix = "BREWERY"
)
