package scenario

import (
	"sort"
	"strings"
)

// Group (sheet) names of the bulk import/export field map.
const (
	SheetCapex         = "CAPEX"
	SheetOpex          = "OPEX_Outros"
	SheetEmployees     = "Funcionarios"
	SheetIngredients   = "Insumos"
	SheetRecipeHeaders = "Receitas_Header"
	SheetRecipeLines   = "Receitas_Detalhe"
	SheetPackaging     = "Embalagens"
	SheetPrices        = "Precos_SKU"
	SheetMix           = "Mix_Demanda"
	SheetPremises      = "Premissas"
	SheetFinancing     = "Financiamento"

	// KVKey and KVValue are the columns of the key/value groups.
	KVKey   = "Chave"
	KVValue = "Valor"

	// KVSeparator joins the outer and inner key of a flattened nested map.
	KVSeparator = "::"
)

// Sheets lists every group in export order.
var Sheets = []string{
	SheetCapex, SheetOpex, SheetEmployees, SheetIngredients, SheetRecipeHeaders,
	SheetRecipeLines, SheetPackaging, SheetPrices, SheetMix, SheetPremises, SheetFinancing,
}

var sheetColumns = map[string][]string{
	SheetCapex:         {colCategory, colItem, colAmount, colStatus},
	SheetOpex:          {colDescription, colAmount},
	SheetEmployees:     {colName, colMode, colGrossPay, colBurden, col13th, colVacation},
	SheetIngredients:   {colIngredientType, colName, colUnit, colCost},
	SheetRecipeHeaders: {colID, colName, colBatchLiters},
	SheetRecipeLines:   {colRecipeID, colIngredient, colQuantity, colUnitCost, colLineTotal},
	SheetPackaging:     {colPackaging, colVolume, colPackageUnitCost},
	SheetPrices:        {colSKU, colChannel, colPrice},
	SheetMix:           {KVKey, KVValue},
	SheetPremises:      {KVKey, KVValue},
	SheetFinancing:     {KVKey, KVValue},
}

// Table is an ordered list of rows.
type Table []Row

// FieldMap maps a group name to its table.
type FieldMap map[string]Table

// Columns returns the column labels of a group in display order, or nil for
// an unknown group.
func Columns(sheet string) []string {
	return append([]string(nil), sheetColumns[sheet]...)
}

// IsKeyValue reports whether the group is a key/value table.
func IsKeyValue(sheet string) bool {
	return sheet == SheetMix || sheet == SheetPremises || sheet == SheetFinancing
}

// Export emits every group of the scenario.
func Export(s *Scenario) FieldMap {
	return FieldMap{
		SheetCapex:         Table(encodeCapex(s.CapexItems)),
		SheetOpex:          Table(encodeOpex(s.OpexItems)),
		SheetEmployees:     Table(encodeEmployees(s.Employees)),
		SheetIngredients:   Table(encodeIngredients(s.Ingredients)),
		SheetRecipeHeaders: Table(encodeRecipeHeaders(s.Recipes.Headers)),
		SheetRecipeLines:   Table(encodeRecipeLines(s.Recipes.Lines)),
		SheetPackaging:     Table(encodePackaging(s.Packaging)),
		SheetPrices:        Table(encodePrices(s.Prices)),
		SheetMix:           flatten(encodeMix(s.Mix), keyOrder(mixKeys, s.Mix.extra)),
		SheetPremises:      flatten(encodePremises(s.Premises), keyOrder(premiseKeys, s.Premises.extra)),
		SheetFinancing:     flatten(encodeFinancing(s.Financing), keyOrder(financingKeys, s.Financing.extra)),
	}
}

// ApplyBulk replaces every non-empty group supplied in fm wholesale. Missing
// or empty groups keep their current values. Defaults are filled and derived
// fields recomputed afterwards.
func (s *Scenario) ApplyBulk(fm FieldMap) {
	if rows := asRows(fm[SheetCapex]); len(rows) > 0 {
		s.CapexItems = decodeCapex(rows)
	}
	if rows := asRows(fm[SheetOpex]); len(rows) > 0 {
		s.OpexItems = decodeOpex(rows)
	}
	if rows := asRows(fm[SheetEmployees]); len(rows) > 0 {
		s.Employees = decodeEmployees(rows)
	}
	if rows := asRows(fm[SheetIngredients]); len(rows) > 0 {
		s.Ingredients = decodeIngredients(rows)
	}
	if rows := asRows(fm[SheetRecipeHeaders]); len(rows) > 0 {
		s.Recipes.Headers, s.reassigned = decodeRecipeHeaders(rows)
	}
	if rows := asRows(fm[SheetRecipeLines]); len(rows) > 0 {
		s.Recipes.Lines = decodeRecipeLines(rows)
	}
	if rows := asRows(fm[SheetPackaging]); len(rows) > 0 {
		s.Packaging = decodePackaging(rows)
	}
	if rows := asRows(fm[SheetPrices]); len(rows) > 0 {
		s.Prices = decodePrices(rows)
	}
	if kv := unflatten(fm[SheetMix]); len(kv) > 0 {
		s.Mix = decodeMix(kv, s.Mix)
	}
	if kv := unflatten(fm[SheetPremises]); len(kv) > 0 {
		s.Premises = decodePremises(kv, s.Premises)
	}
	if kv := unflatten(fm[SheetFinancing]); len(kv) > 0 {
		s.Financing = decodeFinancing(kv, s.Financing)
	}
	s.Recompute()
}

// keyOrder is the modelled keys followed by the sorted unknown ones.
func keyOrder(known []string, u *unknownFields) []string {
	order := make([]string, 0, len(known))
	order = append(order, known...)
	return append(order, u.keys()...)
}

// flatten turns a settings map into key/value rows in the given key order.
// Nested maps become one row per inner key, sorted, as "outer::inner".
func flatten(m map[string]any, order []string) Table {
	var table Table
	for _, k := range order {
		v, ok := m[k]
		if !ok {
			continue
		}
		if nested := asMap(v); nested != nil {
			inner := make([]string, 0, len(nested))
			for kk := range nested {
				inner = append(inner, kk)
			}
			sort.Strings(inner)
			for _, kk := range inner {
				table = append(table, Row{KVKey: k + KVSeparator + kk, KVValue: nested[kk]})
			}
			continue
		}
		table = append(table, Row{KVKey: k, KVValue: v})
	}
	return table
}

// unflatten is the inverse of flatten. Rows without a key are skipped.
func unflatten(table Table) map[string]any {
	out := make(map[string]any)
	for _, r := range table {
		key := strings.TrimSpace(toString(r[KVKey], ""))
		if key == "" {
			continue
		}
		outer, inner, nested := strings.Cut(key, KVSeparator)
		if !nested {
			out[key] = r[KVValue]
			continue
		}
		m, ok := out[outer].(map[string]any)
		if !ok {
			m = make(map[string]any)
			out[outer] = m
		}
		m[inner] = r[KVValue]
	}
	return out
}
