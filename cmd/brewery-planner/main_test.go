package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/iwvelando/brewery-planner/internal/config"
	"github.com/iwvelando/brewery-planner/internal/store"
	"github.com/iwvelando/brewery-planner/pkg/testutil"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T) (*app, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	out := &bytes.Buffer{}
	return &app{
		logger: zap.NewNop(),
		conf: &config.Configuration{
			Projection: config.ProjectionConfig{HorizonMonths: 84},
		},
		storePath: filepath.Join(dir, "store", "db.json"),
		stdout:    out,
	}, out
}

func TestInitializeLogger(t *testing.T) {
	tests := []struct {
		name      string
		conf      config.LoggingConfig
		override  string
		expectErr bool
	}{
		{"Defaults", config.LoggingConfig{}, "", false},
		{"Console debug", config.LoggingConfig{Level: "debug", Format: "console"}, "", false},
		{"Override", config.LoggingConfig{Level: "bogus"}, "warn", false},
		{"Invalid level", config.LoggingConfig{Level: "verbose"}, "", true},
		{"Invalid format", config.LoggingConfig{Format: "xml"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := initializeLogger(tt.conf, tt.override)
			if (err != nil) != tt.expectErr {
				t.Fatalf("initializeLogger() error = %v, expectErr %v", err, tt.expectErr)
			}
			if logger != nil {
				_ = logger.Sync()
			}
		})
	}
}

func TestInitializeLoggerOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "planner.log")
	logger, err := initializeLogger(config.LoggingConfig{Level: "info", Format: "json", OutputFile: path}, "")
	if err != nil {
		t.Fatalf("initializeLogger() error = %v", err)
	}
	logger.Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("log file = %q", data)
	}
}

func TestRunDefaultStore(t *testing.T) {
	a, out := newTestApp(t)
	if err := a.run(options{outputFormat: "pretty"}); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(out.String(), "--- Resultados do cenário Base ---") {
		t.Errorf("output = %s", out.String())
	}
	if _, err := os.Stat(a.storePath); !errors.Is(err, os.ErrNotExist) {
		t.Error("store written without any change")
	}
}

func TestRunScenarioActions(t *testing.T) {
	a, out := newTestApp(t)

	if err := a.run(options{create: "Expansão", outputFormat: "csv"}); err != nil {
		t.Fatalf("create run() error = %v", err)
	}
	if err := a.run(options{duplicate: true, outputFormat: "csv"}); err != nil {
		t.Fatalf("duplicate run() error = %v", err)
	}
	if err := a.run(options{rename: "Expansão B", outputFormat: "csv"}); err != nil {
		t.Fatalf("rename run() error = %v", err)
	}

	st := store.LoadFile(a.storePath, nil)
	expected := []string{"Base", "Expansão", "Expansão B"}
	if !reflect.DeepEqual(st.Names(), expected) {
		t.Errorf("Names() = %v, expected %v", st.Names(), expected)
	}
	if st.Selected() != "Expansão B" {
		t.Errorf("Selected() = %q", st.Selected())
	}

	out.Reset()
	if err := a.run(options{scenario: "Base", deleteName: "Expansão", all: true, outputFormat: "csv"}); err != nil {
		t.Fatalf("select/delete run() error = %v", err)
	}
	header := strings.SplitN(out.String(), "\n", 2)[0]
	if header != "metric,Base,Expansão B" {
		t.Errorf("csv header = %q", header)
	}
	st = store.LoadFile(a.storePath, nil)
	if st.Selected() != "Base" || st.Len() != 2 {
		t.Errorf("after delete: names = %v, selected = %q", st.Names(), st.Selected())
	}
	reports, err := a.project(st, options{all: true})
	if err != nil {
		t.Fatalf("project() error = %v", err)
	}
	for _, name := range []string{"Base", "Expansão B"} {
		if testutil.FindReport(reports, name) == nil {
			t.Errorf("no report for %s", name)
		}
	}
	if testutil.FindReport(reports, "Expansão") != nil {
		t.Error("deleted scenario still reported")
	}

	if err := a.run(options{scenario: "Missing", outputFormat: "csv"}); !errors.Is(err, store.ErrScenarioNotFound) {
		t.Errorf("selecting unknown scenario error = %v", err)
	}
	if err := a.run(options{deleteName: "Base", outputFormat: "csv"}); err != nil {
		t.Fatalf("delete run() error = %v", err)
	}
	if err := a.run(options{deleteName: "Expansão B", outputFormat: "csv"}); !errors.Is(err, store.ErrLastScenario) {
		t.Errorf("deleting last scenario error = %v", err)
	}
}

func TestRunExportImport(t *testing.T) {
	a, _ := newTestApp(t)
	workbook := filepath.Join(t.TempDir(), "exports", "base.xlsx")

	if err := a.run(options{exportPath: workbook, outputFormat: "yaml"}); err != nil {
		t.Fatalf("export run() error = %v", err)
	}
	if info, err := os.Stat(workbook); err != nil || info.Size() == 0 {
		t.Fatalf("workbook not written: %v", err)
	}

	if err := a.run(options{create: "Importado", importPath: workbook, outputFormat: "yaml"}); err != nil {
		t.Fatalf("import run() error = %v", err)
	}
	st := store.LoadFile(a.storePath, nil)
	base, _ := st.Get("Base")
	imported, err := st.Get("Importado")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(base, imported) {
		t.Error("imported scenario differs from the exported one")
	}

	if err := a.run(options{importPath: filepath.Join(t.TempDir(), "missing.xlsx"), outputFormat: "yaml"}); err == nil {
		t.Error("expected error importing a missing workbook")
	}
}

func TestRunMetricsTextfile(t *testing.T) {
	a, _ := newTestApp(t)
	a.conf.Metrics.Textfile = filepath.Join(t.TempDir(), "brewery.prom")

	if err := a.run(options{financed: true, outputFormat: "pretty"}); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	data, err := os.ReadFile(a.conf.Metrics.Textfile)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	for _, want := range []string{`brewery_required_investment{scenario="Base"}`, `brewery_financed_payback_month{scenario="Base"}`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("textfile lacks %s", want)
		}
	}
}
