// Package config defines the brewery-planner configuration and loads it from
// a YAML file with environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/iwvelando/brewery-planner/pkg/constants"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for brewery-planner.
type Configuration struct {
	Store      StoreConfig      `mapstructure:"store"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Output     OutputConfig     `mapstructure:"output"`
	Projection ProjectionConfig `mapstructure:"projection"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// StoreConfig locates the scenario store document.
type StoreConfig struct {
	Path string `mapstructure:"path"` // empty means ~/.breweryplanner/breweryplanner_db.json
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level"`      // debug, info, warn, error
	Format     string `mapstructure:"format"`     // json, console
	OutputFile string `mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format"` // pretty, csv, yaml
}

// ProjectionConfig tunes the payback projection.
type ProjectionConfig struct {
	HorizonMonths int `mapstructure:"horizonMonths"`
}

// MetricsConfig enables the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// Config keys.
const (
	KeyStorePath         = "store.path"
	KeyLoggingLevel      = "logging.level"
	KeyLoggingFormat     = "logging.format"
	KeyLoggingOutputFile = "logging.outputFile"
	KeyOutputFormat      = "output.format"
	KeyHorizonMonths     = "projection.horizonMonths"
	KeyMetricsTextfile   = "metrics.textfile"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyStorePath, "")
	v.SetDefault(KeyLoggingLevel, "info")
	v.SetDefault(KeyLoggingFormat, "json")
	v.SetDefault(KeyLoggingOutputFile, "")
	v.SetDefault(KeyOutputFormat, constants.OutputFormatPretty)
	v.SetDefault(KeyHorizonMonths, constants.DefaultHorizonMonths)
	v.SetDefault(KeyMetricsTextfile, "")
}

// LoadConfiguration loads the YAML configuration at configPath. A missing file
// is not an error: defaults apply. Environment variables prefixed BREWERY_
// override any key, with dots replaced by underscores (BREWERY_OUTPUT_FORMAT).
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file %s: %w", configPath, err)
			}
		}
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := configuration.Validate(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

// Validate checks values that have a closed set of options.
func (c *Configuration) Validate() error {
	if c.Projection.HorizonMonths <= 0 {
		return fmt.Errorf("projection.horizonMonths must be greater than 0, got %d", c.Projection.HorizonMonths)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}
	return nil
}
