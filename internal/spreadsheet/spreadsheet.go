// Package spreadsheet converts the scenario bulk field map to and from .xlsx
// workbooks: one sheet per group, a header row of column names, and typed
// cells below it.
package spreadsheet

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/iwvelando/brewery-planner/internal/scenario"
	"github.com/xuri/excelize/v2"
)

// Encode writes every group of fm to a workbook. Groups missing from fm are
// written with only their header row.
func Encode(fm scenario.FieldMap) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	first := f.GetSheetName(f.GetActiveSheetIndex())
	for i, sheet := range scenario.Sheets {
		if i == 0 {
			if err := f.SetSheetName(first, sheet); err != nil {
				return nil, fmt.Errorf("failed to rename sheet %s: %w", first, err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
		if err := writeTable(f, sheet, tableColumns(sheet, fm[sheet]), fm[sheet]); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// tableColumns is the group's columns followed by any other column the rows
// carry, sorted. Key/value groups keep their two columns.
func tableColumns(sheet string, table scenario.Table) []string {
	columns := scenario.Columns(sheet)
	if scenario.IsKeyValue(sheet) {
		return columns
	}
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		seen[c] = true
	}
	var others []string
	for _, row := range table {
		for k := range row {
			if !seen[k] {
				seen[k] = true
				others = append(others, k)
			}
		}
	}
	sort.Strings(others)
	return append(columns, others...)
}

func writeTable(f *excelize.File, sheet string, columns []string, table scenario.Table) error {
	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", sheet, err)
	}

	for r, row := range table {
		values := make([]any, len(columns))
		for i, c := range columns {
			values[i] = row[c]
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", r+1, sheet, err)
		}
	}
	return nil
}

// Decode reads a workbook into a field map. Only sheets named after a known
// group are read; blank rows are skipped. Each cell keeps its stored type:
// booleans become bool, numbers float64, and everything else string.
func Decode(r io.Reader) (scenario.FieldMap, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	fm := make(scenario.FieldMap)
	for _, sheet := range f.GetSheetList() {
		if scenario.Columns(sheet) == nil {
			continue
		}
		table, err := readTable(f, sheet)
		if err != nil {
			return nil, err
		}
		fm[sheet] = table
	}
	return fm, nil
}

func readTable(f *excelize.File, sheet string) (scenario.Table, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	table := scenario.Table{}
	if len(rows) == 0 {
		return table, nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	for r := 1; r < len(rows); r++ {
		row := scenario.Row{}
		for c, col := range header {
			if col == "" || c >= len(rows[r]) || strings.TrimSpace(rows[r][c]) == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			typ, err := f.GetCellType(sheet, cell)
			if err != nil {
				return nil, fmt.Errorf("failed to read cell %s!%s: %w", sheet, cell, err)
			}
			row[col] = cellValue(rows[r][c], typ)
		}
		if len(row) > 0 {
			table = append(table, row)
		}
	}
	return table, nil
}

func cellValue(raw string, typ excelize.CellType) any {
	switch typ {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true")
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return raw
}
