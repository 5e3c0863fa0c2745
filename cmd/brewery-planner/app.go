package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/iwvelando/brewery-planner/internal/config"
	"github.com/iwvelando/brewery-planner/internal/metrics"
	"github.com/iwvelando/brewery-planner/internal/projection"
	"github.com/iwvelando/brewery-planner/internal/spreadsheet"
	"github.com/iwvelando/brewery-planner/internal/store"
	"github.com/iwvelando/brewery-planner/pkg/output"
	"github.com/iwvelando/brewery-planner/pkg/validation"
	"go.uber.org/zap"
)

// options are the per-invocation actions requested on the command line.
type options struct {
	scenario     string
	create       string
	duplicate    bool
	rename       string
	deleteName   string
	importPath   string
	exportPath   string
	financed     bool
	all          bool
	outputFormat string
}

type app struct {
	logger    *zap.Logger
	conf      *config.Configuration
	storePath string
	stdout    io.Writer
}

// run applies the store actions in a fixed order (select, create,
// duplicate, rename, delete, import), saves the store when any of them
// changed it, and then exports and reports.
func (a *app) run(opts options) error {
	st := store.LoadFile(a.storePath, a.logger)

	changed, err := a.applyActions(st, opts)
	if err != nil {
		return err
	}
	if changed {
		if err := st.SaveFile(a.storePath); err != nil {
			return fmt.Errorf("failed to save store: %w", err)
		}
		a.logger.Info(fmt.Sprintf("saved store with %d scenarios", st.Len()),
			zap.String("op", "main.run"),
			zap.String("path", a.storePath),
		)
	}

	if opts.exportPath != "" {
		if err := exportWorkbook(st, opts.exportPath); err != nil {
			return err
		}
		a.logger.Info(fmt.Sprintf("exported scenario %s to %s", st.Selected(), opts.exportPath),
			zap.String("op", "main.run"),
		)
	}

	reports, err := a.project(st, opts)
	if err != nil {
		return err
	}

	if a.conf.Metrics.Textfile != "" {
		exporter := metrics.NewExporter(a.logger)
		for _, r := range reports {
			exporter.Observe(r)
		}
		if err := exporter.WriteTextfile(a.conf.Metrics.Textfile); err != nil {
			return err
		}
	}

	return output.Write(a.stdout, opts.outputFormat, reports)
}

func (a *app) applyActions(st *store.Store, opts options) (bool, error) {
	changed := false

	if opts.scenario != "" && opts.scenario != st.Selected() {
		if err := st.Select(opts.scenario); err != nil {
			return false, err
		}
		changed = true
	}
	if opts.create != "" {
		name := st.Create(opts.create)
		a.logger.Info(fmt.Sprintf("created scenario %s", name), zap.String("op", "main.applyActions"))
		changed = true
	}
	if opts.duplicate {
		name, err := st.Duplicate()
		if err != nil {
			return false, err
		}
		a.logger.Info(fmt.Sprintf("duplicated scenario as %s", name), zap.String("op", "main.applyActions"))
		changed = true
	}
	if opts.rename != "" {
		if err := st.Rename(st.Selected(), opts.rename); err != nil {
			return false, err
		}
		changed = true
	}
	if opts.deleteName != "" {
		if err := st.Delete(opts.deleteName); err != nil {
			return false, err
		}
		changed = true
	}
	if opts.importPath != "" {
		if err := importWorkbook(st, opts.importPath); err != nil {
			return false, err
		}
		a.logger.Info(fmt.Sprintf("imported %s into scenario %s", opts.importPath, st.Selected()),
			zap.String("op", "main.applyActions"),
		)
		changed = true
	}
	return changed, nil
}

func importWorkbook(st *store.Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	fm, err := spreadsheet.Decode(f)
	if err != nil {
		return err
	}
	return st.ApplyBulkUpdate(st.Selected(), fm)
}

func exportWorkbook(st *store.Store, path string) error {
	fm, err := st.Export(st.Selected())
	if err != nil {
		return err
	}
	data, err := spreadsheet.Encode(fm)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create export directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write workbook %s: %w", path, err)
	}
	return nil
}

func (a *app) project(st *store.Store, opts options) ([]projection.Report, error) {
	names := []string{st.Selected()}
	if opts.all {
		names = st.Names()
	}

	projOpts := projection.Options{
		HorizonMonths: a.conf.Projection.HorizonMonths,
		Financed:      opts.financed,
	}
	reports := make([]projection.Report, 0, len(names))
	for _, name := range names {
		sc, err := st.Get(name)
		if err != nil {
			return nil, err
		}
		for _, warning := range validation.ValidateScenario(sc) {
			a.logger.Warn("Scenario warning: "+warning,
				zap.String("op", "main.project"),
				zap.String("scenario", name),
			)
		}
		reports = append(reports, projection.Project(a.logger, name, sc, projOpts))
	}
	return reports, nil
}
