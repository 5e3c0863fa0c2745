package scenario

import (
	"sort"
	"strings"
)

// Persisted scenario keys.
const (
	KeyCapex         = "capex_db"
	KeyOpex          = "opex_outros_db"
	KeyEmployees     = "funcionarios_db"
	KeyIngredients   = "insumos_db"
	KeyRecipeHeaders = "receitas_header"
	KeyRecipeLines   = "receitas_detalhe"
	KeyPackaging     = "embalagens_db"
	KeyPrices        = "precos_sku"
	KeyMix           = "mix"
	KeyPremises      = "premissas"
	KeyFinancing     = "financiamento"

	// LegacyKeyOpex was renamed to KeyOpex.
	LegacyKeyOpex = "opex_db"
	// LegacyKeyPrices was renamed to KeyPrices.
	LegacyKeyPrices = "precos_venda"
)

// KnownKeys lists every current persisted scenario key.
var KnownKeys = []string{
	KeyCapex, KeyOpex, KeyEmployees, KeyIngredients, KeyRecipeHeaders,
	KeyRecipeLines, KeyPackaging, KeyPrices, KeyMix, KeyPremises, KeyFinancing,
}

// Row and setting labels as they appear in documents and workbooks.
const (
	colCategory = "Categoria"
	colItem     = "Item"
	colAmount   = "Valor"
	colStatus   = "Status"

	colDescription = "Descrição"

	colName     = "Nome"
	colMode     = "Modalidade"
	colGrossPay = "Salário Bruto"
	colBurden   = "Encargos CLT (%)"
	col13th     = "Considerar 13º"
	colVacation = "Considerar Férias"

	colIngredientType = "Tipo"
	colUnit           = "Unidade"
	colCost           = "Custo"

	colID          = "ID"
	colBatchLiters = "Volume Batelada (L)"

	colRecipeID   = "Receita_ID"
	colIngredient = "Insumo"
	colQuantity   = "Qtd"
	colUnitCost   = "Custo_Unit"
	colLineTotal  = "Custo_Total"

	colPackaging       = "Embalagem"
	colVolume          = "Volume (L)"
	colPackageUnitCost = "Custo Unit (R$)"

	colSKU     = "SKU"
	colChannel = "Canal"
	colPrice   = "Preço Unit (R$)"

	MixVolume          = "Volume Vendido (L/mês)"
	MixTaproom         = "Mix Taproom (%)"
	MixRetailDraft     = "Mix Varejo Chope (%)"
	MixRetailPackaged  = "Mix Varejo Embalado (%)"
	MixDistribution    = "Distribuição Embalado (%)"
	MixReferenceRecipe = "Receita Base (para custo)"

	PremiseChemicals      = "GIP Químicos (R$/L)"
	PremiseEnergy         = "GIP Energia (R$/L)"
	PremiseWater          = "GIP Água (R$/L)"
	PremiseCO2            = "GIP CO2 (R$/L)"
	PremiseSalesTax       = "Impostos s/ venda (%)"
	PremiseWorkingCapital = "Capital de giro (meses)"

	FinancingEnabled  = "Ativo"
	FinancingPercent  = "Percentual financiado (%)"
	FinancingInterest = "Taxa juros a.a. (%)"
	FinancingTerm     = "Prazo (meses)"
	FinancingGrace    = "Carência (meses)"
)

// Settings keys in display order.
var (
	mixKeys = []string{
		MixVolume, MixTaproom, MixRetailDraft, MixRetailPackaged, MixDistribution, MixReferenceRecipe,
	}
	premiseKeys = []string{
		PremiseChemicals, PremiseEnergy, PremiseWater, PremiseCO2, PremiseSalesTax, PremiseWorkingCapital,
	}
	financingKeys = []string{
		FinancingEnabled, FinancingPercent, FinancingInterest, FinancingTerm, FinancingGrace,
	}
)

// withUnknown adds the unknown entries to a freshly encoded row or settings
// map. Modelled keys always win.
func withUnknown(m map[string]any, u *unknownFields) map[string]any {
	u.mergeInto(m)
	return m
}

// Row is one record of a tabular group, keyed by column label.
type Row map[string]any

// FromRecord decodes a loosely-typed persisted scenario. Missing columns and
// unparseable values fall back to defaults; missing settings maps fall back
// to the default settings. Keys it does not know are kept for Record.
func FromRecord(rec map[string]any) *Scenario {
	headers, reassigned := decodeRecipeHeaders(asRows(rec[KeyRecipeHeaders]))
	s := &Scenario{
		CapexItems:  decodeCapex(asRows(rec[KeyCapex])),
		OpexItems:   decodeOpex(asRows(rec[KeyOpex])),
		Employees:   decodeEmployees(asRows(rec[KeyEmployees])),
		Ingredients: decodeIngredients(asRows(rec[KeyIngredients])),
		Recipes: Recipes{
			Headers: headers,
			Lines:   decodeRecipeLines(asRows(rec[KeyRecipeLines])),
		},
		Packaging: decodePackaging(asRows(rec[KeyPackaging])),
		Prices:    decodePrices(asRows(rec[KeyPrices])),
		Mix:       decodeMix(asMap(rec[KeyMix]), DefaultMix()),
		Premises:  decodePremises(asMap(rec[KeyPremises]), DefaultPremises()),
		Financing: decodeFinancing(asMap(rec[KeyFinancing]), DefaultFinancing()),

		reassigned: reassigned,
	}

	known := make(map[string]bool, len(KnownKeys))
	for _, k := range KnownKeys {
		known[k] = true
	}
	for k, v := range rec {
		if known[k] {
			continue
		}
		if s.extra == nil {
			s.extra = make(map[string]any)
		}
		s.extra[k] = deepCopyValue(v)
	}

	s.Recompute()
	return s
}

// Record encodes the scenario into its persisted document form.
func (s *Scenario) Record() map[string]any {
	rec := make(map[string]any, len(KnownKeys)+len(s.extra))
	for k, v := range s.extra {
		rec[k] = deepCopyValue(v)
	}
	rec[KeyCapex] = rowsToAny(encodeCapex(s.CapexItems))
	rec[KeyOpex] = rowsToAny(encodeOpex(s.OpexItems))
	rec[KeyEmployees] = rowsToAny(encodeEmployees(s.Employees))
	rec[KeyIngredients] = rowsToAny(encodeIngredients(s.Ingredients))
	rec[KeyRecipeHeaders] = rowsToAny(encodeRecipeHeaders(s.Recipes.Headers))
	rec[KeyRecipeLines] = rowsToAny(encodeRecipeLines(s.Recipes.Lines))
	rec[KeyPackaging] = rowsToAny(encodePackaging(s.Packaging))
	rec[KeyPrices] = rowsToAny(encodePrices(s.Prices))
	rec[KeyMix] = encodeMix(s.Mix)
	rec[KeyPremises] = encodePremises(s.Premises)
	rec[KeyFinancing] = encodeFinancing(s.Financing)
	return rec
}

// ExtraKeys returns the sorted unknown keys carried by the scenario.
func (s *Scenario) ExtraKeys() []string {
	keys := make([]string, 0, len(s.extra))
	for k := range s.extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func asRows(v any) []map[string]any {
	var out []map[string]any
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if m := asMap(item); m != nil {
				out = append(out, m)
			}
		}
	case []map[string]any:
		out = append(out, t...)
	case []Row:
		for _, r := range t {
			out = append(out, map[string]any(r))
		}
	case Table:
		for _, r := range t {
			out = append(out, map[string]any(r))
		}
	}
	return out
}

func asMap(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		return t
	case Row:
		return map[string]any(t)
	case map[string]float64:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = vv
		}
		return out
	}
	return nil
}

func rowsToAny(rows []Row) []any {
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = map[string]any(r)
	}
	return out
}

func decodeCapex(rows []map[string]any) []CapexItem {
	var items []CapexItem
	for _, r := range rows {
		items = append(items, CapexItem{
			Category: toString(r[colCategory], ""),
			Item:     toString(r[colItem], ""),
			Amount:   toFloat(r[colAmount]),
			Status:   CapexStatus(strings.TrimSpace(toString(r[colStatus], string(DefaultCapexStatus)))),
			extra:    collectUnknown(r, sheetColumns[SheetCapex]),
		})
	}
	return items
}

func encodeCapex(items []CapexItem) []Row {
	rows := make([]Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, withUnknown(Row{colCategory: it.Category, colItem: it.Item, colAmount: it.Amount, colStatus: string(it.Status)}, it.extra))
	}
	return rows
}

func decodeOpex(rows []map[string]any) []OpexItem {
	var items []OpexItem
	for _, r := range rows {
		items = append(items, OpexItem{
			Description: toString(r[colDescription], ""),
			Amount:      toFloat(r[colAmount]),
			extra:       collectUnknown(r, sheetColumns[SheetOpex]),
		})
	}
	return items
}

func encodeOpex(items []OpexItem) []Row {
	rows := make([]Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, withUnknown(Row{colDescription: it.Description, colAmount: it.Amount}, it.extra))
	}
	return rows
}

func decodeEmployees(rows []map[string]any) []Employee {
	var employees []Employee
	for _, r := range rows {
		employees = append(employees, Employee{
			Name:            toString(r[colName], ""),
			Mode:            normalizeMode(r[colMode]),
			GrossPay:        toFloat(r[colGrossPay]),
			BurdenPercent:   floatOr(r[colBurden], DefaultBurdenPercent),
			Include13th:     toBool(r[col13th], true),
			IncludeVacation: toBool(r[colVacation], true),
			extra:           collectUnknown(r, sheetColumns[SheetEmployees]),
		})
	}
	return employees
}

func encodeEmployees(employees []Employee) []Row {
	rows := make([]Row, 0, len(employees))
	for _, e := range employees {
		rows = append(rows, withUnknown(Row{
			colName:     e.Name,
			colMode:     string(e.Mode),
			colGrossPay: e.GrossPay,
			colBurden:   e.BurdenPercent,
			col13th:     e.Include13th,
			colVacation: e.IncludeVacation,
		}, e.extra))
	}
	return rows
}

func decodeIngredients(rows []map[string]any) []Ingredient {
	var ingredients []Ingredient
	for _, r := range rows {
		ingredients = append(ingredients, Ingredient{
			Category: toString(r[colIngredientType], ""),
			Name:     toString(r[colName], ""),
			Unit:     toString(r[colUnit], DefaultIngredientUnit),
			UnitCost: toFloat(r[colCost]),
			extra:    collectUnknown(r, sheetColumns[SheetIngredients]),
		})
	}
	return ingredients
}

func encodeIngredients(ingredients []Ingredient) []Row {
	rows := make([]Row, 0, len(ingredients))
	for _, in := range ingredients {
		rows = append(rows, withUnknown(Row{colIngredientType: in.Category, colName: in.Name, colUnit: in.Unit, colCost: in.UnitCost}, in.extra))
	}
	return rows
}

// decodeRecipeHeaders gives headers with a missing or repeated id the next
// free id so ids stay unique, and reports each replacement. Lines keep their
// stored recipe id, so a repeated id's lines stay with the first header.
func decodeRecipeHeaders(rows []map[string]any) ([]RecipeHeader, []IDReassignment) {
	var headers []RecipeHeader
	seen := make(map[int]bool)
	var pending []int
	for _, r := range rows {
		h := RecipeHeader{
			Name:        toString(r[colName], ""),
			BatchLiters: floatOr(r[colBatchLiters], DefaultBatchLiters),
			extra:       collectUnknown(r, sheetColumns[SheetRecipeHeaders]),
		}
		if present(r[colID]) {
			h.ID = toInt(r[colID])
		}
		if h.ID <= 0 || seen[h.ID] {
			pending = append(pending, len(headers))
		} else {
			seen[h.ID] = true
		}
		headers = append(headers, h)
	}
	var reassigned []IDReassignment
	for _, i := range pending {
		from := headers[i].ID
		headers[i].ID = 0
		headers[i].ID = nextRecipeID(headers)
		reassigned = append(reassigned, IDReassignment{Recipe: headers[i].Name, From: from, To: headers[i].ID})
	}
	return headers, reassigned
}

func encodeRecipeHeaders(headers []RecipeHeader) []Row {
	rows := make([]Row, 0, len(headers))
	for _, h := range headers {
		rows = append(rows, withUnknown(Row{colID: h.ID, colName: h.Name, colBatchLiters: h.BatchLiters}, h.extra))
	}
	return rows
}

func decodeRecipeLines(rows []map[string]any) []RecipeLine {
	var lines []RecipeLine
	for _, r := range rows {
		lines = append(lines, RecipeLine{
			RecipeID:   intOr(r[colRecipeID], 1),
			Ingredient: toString(r[colIngredient], ""),
			Quantity:   toFloat(r[colQuantity]),
			UnitCost:   toFloat(r[colUnitCost]),
			extra:      collectUnknown(r, sheetColumns[SheetRecipeLines]),
		})
	}
	return lines
}

func encodeRecipeLines(lines []RecipeLine) []Row {
	rows := make([]Row, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, withUnknown(Row{
			colRecipeID:   l.RecipeID,
			colIngredient: l.Ingredient,
			colQuantity:   l.Quantity,
			colUnitCost:   l.UnitCost,
			colLineTotal:  l.Total,
		}, l.extra))
	}
	return rows
}

func decodePackaging(rows []map[string]any) []PackagingType {
	var packaging []PackagingType
	for _, r := range rows {
		packaging = append(packaging, PackagingType{
			Name:         toString(r[colPackaging], ""),
			VolumeLiters: toFloat(r[colVolume]),
			UnitCost:     toFloat(r[colPackageUnitCost]),
			extra:        collectUnknown(r, sheetColumns[SheetPackaging]),
		})
	}
	return packaging
}

func encodePackaging(packaging []PackagingType) []Row {
	rows := make([]Row, 0, len(packaging))
	for _, p := range packaging {
		rows = append(rows, withUnknown(Row{colPackaging: p.Name, colVolume: p.VolumeLiters, colPackageUnitCost: p.UnitCost}, p.extra))
	}
	return rows
}

func decodePrices(rows []map[string]any) []Price {
	var prices []Price
	for _, r := range rows {
		prices = append(prices, Price{
			SKU:       toString(r[colSKU], ""),
			Channel:   normalizeChannel(r[colChannel]),
			UnitPrice: toFloat(r[colPrice]),
			extra:     collectUnknown(r, sheetColumns[SheetPrices]),
		})
	}
	return prices
}

func encodePrices(prices []Price) []Row {
	rows := make([]Row, 0, len(prices))
	for _, p := range prices {
		rows = append(rows, withUnknown(Row{colSKU: p.SKU, colChannel: string(p.Channel), colPrice: p.UnitPrice}, p.extra))
	}
	return rows
}

// decodeMix overlays the keys present in m onto base. A nil or empty map
// yields base unchanged. Keys outside the model are kept alongside the ones
// base already carries.
func decodeMix(m map[string]any, base MixAssumptions) MixAssumptions {
	out := base
	out.PackagedDistribution = cloneDistribution(base.PackagedDistribution)
	if len(m) == 0 {
		return out
	}
	out.MonthlyVolumeLiters = floatOr(m[MixVolume], base.MonthlyVolumeLiters)
	out.TaproomPercent = floatOr(m[MixTaproom], base.TaproomPercent)
	out.RetailDraftPercent = floatOr(m[MixRetailDraft], base.RetailDraftPercent)
	out.RetailPackagedPercent = floatOr(m[MixRetailPackaged], base.RetailPackagedPercent)
	if v, ok := m[MixReferenceRecipe]; ok {
		out.ReferenceRecipe = toString(v, "")
	}
	if dist := asMap(m[MixDistribution]); dist != nil {
		out.PackagedDistribution = make(map[string]float64, len(dist))
		for name, pct := range dist {
			out.PackagedDistribution[name] = toFloat(pct)
		}
	}
	out.extra = overlayUnknown(base.extra, collectUnknown(m, mixKeys))
	return out
}

func encodeMix(m MixAssumptions) map[string]any {
	dist := make(map[string]any, len(m.PackagedDistribution))
	for name, pct := range m.PackagedDistribution {
		dist[name] = pct
	}
	return withUnknown(map[string]any{
		MixVolume:          m.MonthlyVolumeLiters,
		MixTaproom:         m.TaproomPercent,
		MixRetailDraft:     m.RetailDraftPercent,
		MixRetailPackaged:  m.RetailPackagedPercent,
		MixDistribution:    dist,
		MixReferenceRecipe: m.ReferenceRecipe,
	}, m.extra)
}

func decodePremises(m map[string]any, base CostPremises) CostPremises {
	if len(m) == 0 {
		return base
	}
	return CostPremises{
		ChemicalsPerLiter:    floatOr(m[PremiseChemicals], base.ChemicalsPerLiter),
		EnergyPerLiter:       floatOr(m[PremiseEnergy], base.EnergyPerLiter),
		WaterPerLiter:        floatOr(m[PremiseWater], base.WaterPerLiter),
		CO2PerLiter:          floatOr(m[PremiseCO2], base.CO2PerLiter),
		SalesTaxPercent:      floatOr(m[PremiseSalesTax], base.SalesTaxPercent),
		WorkingCapitalMonths: intOr(m[PremiseWorkingCapital], base.WorkingCapitalMonths),
		extra:                overlayUnknown(base.extra, collectUnknown(m, premiseKeys)),
	}
}

func encodePremises(p CostPremises) map[string]any {
	return withUnknown(map[string]any{
		PremiseChemicals:      p.ChemicalsPerLiter,
		PremiseEnergy:         p.EnergyPerLiter,
		PremiseWater:          p.WaterPerLiter,
		PremiseCO2:            p.CO2PerLiter,
		PremiseSalesTax:       p.SalesTaxPercent,
		PremiseWorkingCapital: p.WorkingCapitalMonths,
	}, p.extra)
}

func decodeFinancing(m map[string]any, base FinancingTerms) FinancingTerms {
	if len(m) == 0 {
		return base
	}
	return FinancingTerms{
		Enabled:               toBool(m[FinancingEnabled], base.Enabled),
		FinancedPercent:       floatOr(m[FinancingPercent], base.FinancedPercent),
		AnnualInterestPercent: floatOr(m[FinancingInterest], base.AnnualInterestPercent),
		TermMonths:            intOr(m[FinancingTerm], base.TermMonths),
		GraceMonths:           intOr(m[FinancingGrace], base.GraceMonths),
		extra:                 overlayUnknown(base.extra, collectUnknown(m, financingKeys)),
	}
}

func encodeFinancing(f FinancingTerms) map[string]any {
	return withUnknown(map[string]any{
		FinancingEnabled:  f.Enabled,
		FinancingPercent:  f.FinancedPercent,
		FinancingInterest: f.AnnualInterestPercent,
		FinancingTerm:     f.TermMonths,
		FinancingGrace:    f.GraceMonths,
	}, f.extra)
}
