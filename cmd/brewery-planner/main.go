package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iwvelando/brewery-planner/internal/config"
	"github.com/iwvelando/brewery-planner/internal/store"
	"github.com/iwvelando/brewery-planner/pkg/constants"
	"github.com/iwvelando/brewery-planner/pkg/validation"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
	case "json":
		zapConfig = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)

	// Reports go to stdout, so logs default to stderr.
	zapConfig.OutputPaths = []string{"stderr"}
	zapConfig.ErrorOutputPaths = []string{"stderr"}

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
			}
		}

		// Test if we can create/write to the file
		file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", loggingConfig.OutputFile, err)
		}
		_ = file.Close()

		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

func main() {
	// A missing .env is normal.
	_ = godotenv.Load()

	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, yaml")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	storePathFlag := flag.String("store", "", "path to the scenario store override")

	var opts options
	flag.StringVar(&opts.scenario, "scenario", "", "select (and persist) the scenario to work on")
	flag.StringVar(&opts.create, "create", "", "create a default scenario with this name and select it")
	flag.BoolVar(&opts.duplicate, "duplicate", false, "duplicate the selected scenario and select the copy")
	flag.StringVar(&opts.rename, "rename", "", "rename the selected scenario")
	flag.StringVar(&opts.deleteName, "delete", "", "delete the named scenario")
	flag.StringVar(&opts.importPath, "import", "", "apply an .xlsx workbook to the selected scenario")
	flag.StringVar(&opts.exportPath, "export", "", "write the selected scenario to an .xlsx workbook")
	flag.BoolVar(&opts.financed, "financed", false, "include the financed payback even when financing is disabled")
	flag.BoolVar(&opts.all, "all", false, "report every scenario instead of the selected one")
	flag.Parse()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	opts.outputFormat = conf.Output.Format
	if *outputFormatFlag != "" {
		opts.outputFormat = *outputFormatFlag
	}
	if opts.outputFormat == "" {
		opts.outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(opts.outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	storePath := conf.Store.Path
	if *storePathFlag != "" {
		storePath = *storePathFlag
	}
	if storePath == "" {
		storePath, err = store.DefaultPath()
		if err != nil {
			logger.Fatal("failed to resolve store path",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}

	a := &app{
		logger:    logger,
		conf:      conf,
		storePath: storePath,
		stdout:    os.Stdout,
	}
	if err := a.run(opts); err != nil {
		logger.Fatal("failed to run brewery planner",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
