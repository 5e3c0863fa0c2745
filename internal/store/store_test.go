package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"github.com/iwvelando/brewery-planner/internal/scenario"
	"go.uber.org/zap"
)

func TestLoadMalformed(t *testing.T) {
	inputs := []struct {
		name string
		data string
	}{
		{"Empty", ""},
		{"Not JSON", "{{{"},
		{"Array", "[1,2,3]"},
		{"Null", "null"},
		{"Scenarios is a string", `{"scenarios": "oops", "selected": "x"}`},
		{"Scenarios is empty", `{"scenarios": {}, "selected": "x"}`},
		{"Scenarios has no objects", `{"scenarios": {"A": 1, "B": [1]}}`},
		{"Legacy list without objects", `{"scenarios": [1, "two", null]}`},
	}

	for _, tt := range inputs {
		t.Run(tt.name, func(t *testing.T) {
			s := Load([]byte(tt.data), zap.NewNop())
			if names := s.Names(); len(names) != 1 || names[0] != "Base" {
				t.Errorf("Names() = %v, expected [Base]", names)
			}
			if s.Selected() != "Base" {
				t.Errorf("Selected() = %q", s.Selected())
			}
			sc, err := s.Get("Base")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if !reflect.DeepEqual(sc, scenario.Default()) {
				t.Error("Base is not the default scenario")
			}
		})
	}
}

func TestLoadLegacySingle(t *testing.T) {
	doc := `{
		"capex_db": [{"Categoria": "X", "Item": "Y", "Valor": 10}],
		"opex_db": [{"Descrição": "Rent", "Valor": 100}],
		"precos_venda": [{"SKU": "Lata 473ml", "Canal": "Varejo", "Preço Unit (R$)": 21}],
		"mix": null,
		"unrelated": true
	}`

	s := Load([]byte(doc), nil)

	if names := s.Names(); len(names) != 1 || names[0] != "Base" || s.Selected() != "Base" {
		t.Fatalf("Names() = %v, Selected() = %q", names, s.Selected())
	}
	sc, _ := s.Get("Base")
	if len(sc.CapexItems) != 1 || sc.CapexItems[0].Amount != 10 || sc.CapexItems[0].Status != scenario.StatusPending {
		t.Errorf("capex = %+v", sc.CapexItems)
	}
	if len(sc.OpexItems) != 1 || sc.OpexItems[0].Description != "Rent" {
		t.Errorf("opex_db not migrated: %+v", sc.OpexItems)
	}
	if len(sc.Prices) != 1 || sc.Prices[0].UnitPrice != 21 {
		t.Errorf("precos_venda not migrated: %+v", sc.Prices)
	}
	def := scenario.Default()
	if len(sc.Employees) != len(def.Employees) || len(sc.Recipes.Headers) != len(def.Recipes.Headers) {
		t.Error("missing groups not filled from defaults")
	}
	if !reflect.DeepEqual(sc.Mix, def.Mix) {
		t.Error("null mix not replaced by default")
	}
	if len(sc.ExtraKeys()) != 0 {
		t.Errorf("unknown legacy keys kept: %v", sc.ExtraKeys())
	}
}

func TestLoadLegacySingleKeepsCurrentKeyOverLegacy(t *testing.T) {
	doc := `{"opex_db": [{"Descrição": "Old", "Valor": 1}], "opex_outros_db": [{"Descrição": "New", "Valor": 2}]}`
	sc, _ := Load([]byte(doc), nil).Get("Base")
	if len(sc.OpexItems) != 1 || sc.OpexItems[0].Description != "New" {
		t.Errorf("opex = %+v", sc.OpexItems)
	}
}

func TestLoadLegacyList(t *testing.T) {
	doc := `{
		"scenarios": [
			{"name": "Otimista", "data": {"opex_outros_db": [{"Descrição": "A", "Valor": 1}]}},
			"skip me",
			{"Nome": "Pessimista", "opex_outros_db": [{"Descrição": "B", "Valor": 2}]},
			{"opex_outros_db": []}
		],
		"selected": "Pessimista"
	}`

	s := Load([]byte(doc), zap.NewNop())

	expected := []string{"Otimista", "Pessimista", "Cenário 4"}
	if names := s.Names(); !reflect.DeepEqual(names, expected) {
		t.Fatalf("Names() = %v, expected %v", names, expected)
	}
	if s.Selected() != "Pessimista" {
		t.Errorf("Selected() = %q", s.Selected())
	}
	otimista, _ := s.Get("Otimista")
	if len(otimista.OpexItems) != 1 || otimista.OpexItems[0].Description != "A" {
		t.Errorf("nested data not used: %+v", otimista.OpexItems)
	}
	pessimista, _ := s.Get("Pessimista")
	if len(pessimista.OpexItems) != 1 || pessimista.OpexItems[0].Amount != 2 {
		t.Errorf("element not used as data: %+v", pessimista.OpexItems)
	}
}

func TestLoadResetsUnresolvedSelection(t *testing.T) {
	doc := `{"scenarios": {"Zeta": {}, "Alpha": {}}, "selected": "Missing"}`
	s := Load([]byte(doc), zap.NewNop())
	if s.Selected() != "Zeta" {
		t.Errorf("Selected() = %q, expected first key Zeta", s.Selected())
	}
	if names := s.Names(); !reflect.DeepEqual(names, []string{"Zeta", "Alpha"}) {
		t.Errorf("document order lost: %v", names)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	s := New(zap.NewNop())
	s.Create("Expansão <2026>")
	sc, _ := s.Get("Base")
	sc.OpexItems[0].Amount = 5500

	data, err := s.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "Expansão <2026>") {
		t.Error("document escaped HTML or non-ASCII characters")
	}
	if !strings.Contains(text, "\n  \"scenarios\": {") {
		t.Errorf("document not indented with two spaces:\n%s", text[:80])
	}
	if strings.Index(text, `"Base"`) > strings.Index(text, `"Expansão <2026>"`) {
		t.Error("scenario order not preserved")
	}

	var generic map[string]any
	if err := json.Unmarshal(data, &generic); err != nil {
		t.Fatalf("document is not valid JSON: %v", err)
	}

	back := Load(data, zap.NewNop())
	if !reflect.DeepEqual(back.Names(), s.Names()) || back.Selected() != "Expansão <2026>" {
		t.Errorf("names = %v, selected = %q", back.Names(), back.Selected())
	}
	bsc, _ := back.Get("Base")
	if !reflect.DeepEqual(bsc, sc) {
		t.Error("Base changed across marshal/load")
	}

	again, err := back.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(again) != text {
		t.Error("document not stable across load/marshal")
	}
}

func TestUnknownScenarioKeysSurvive(t *testing.T) {
	doc := `{"scenarios": {"A": {"notes": {"owner": "ops"}, "mix": {"Volume Vendido (L/mês)": 900}}}, "selected": "A"}`
	s := Load([]byte(doc), nil)
	data, err := s.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"owner": "ops"`) {
		t.Errorf("unknown key dropped:\n%s", data)
	}
	sc, _ := s.Get("A")
	if sc.Mix.MonthlyVolumeLiters != 900 || sc.Mix.TaproomPercent != 30 {
		t.Errorf("partial mix = %+v", sc.Mix)
	}
}

func TestNestedUnknownFieldsSurvive(t *testing.T) {
	doc := `{"scenarios": {"A": {
		"mix": {"Volume Vendido (L/mês)": 900, "Sazonalidade": {"jan": 0.8}},
		"premissas": {"Impostos s/ venda (%)": 12, "Frete (R$/L)": 0.3},
		"financiamento": {"Ativo": true, "Banco": "BNDES"},
		"capex_db": [{"Categoria": "Frio", "Item": "Chiller", "Valor": 5000, "Status": "Cotado", "Fornecedor": "ACME"}],
		"receitas_detalhe": [{"Receita_ID": 1, "Insumo": "Malte", "Qtd": 2, "Custo_Unit": 3, "Custo_Total": 99, "Lote": "L7"}]
	}}, "selected": "A"}`

	s := Load([]byte(doc), nil)
	data, err := s.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for _, want := range []string{
		`"Sazonalidade": {`,
		`"jan": 0.8`,
		`"Frete (R$/L)": 0.3`,
		`"Banco": "BNDES"`,
		`"Fornecedor": "ACME"`,
		`"Lote": "L7"`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("document lacks %s:\n%s", want, data)
		}
	}

	sc, _ := s.Get("A")
	if sc.Premises.SalesTaxPercent != 12 || !sc.Financing.Enabled || sc.CapexItems[0].Amount != 5000 {
		t.Errorf("modelled fields not decoded: %+v %+v", sc.Premises, sc.Financing)
	}
	if sc.Recipes.Lines[0].Total != 6 {
		t.Errorf("line total = %v, expected recomputed 6", sc.Recipes.Lines[0].Total)
	}

	// Editing a group keeps the unknown keys of that group.
	premises := sc.Premises
	premises.SalesTaxPercent = 15
	sc.SetPremises(premises)
	if err := s.Put("A", sc); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	again, err := s.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(again), `"Frete (R$/L)": 0.3`) || !strings.Contains(string(again), `"Impostos s/ venda (%)": 15`) {
		t.Errorf("edited premises:\n%s", again)
	}

	reloaded, err := Load(again, nil).Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(reloaded) != string(again) {
		t.Error("document not stable across load/marshal")
	}
}

func TestCreateAndDuplicate(t *testing.T) {
	s := New(nil)

	names := []string{s.Create(""), s.Create("  "), s.Create("Novo cenário")}
	expected := []string{"Novo cenário", "Novo cenário 2", "Novo cenário 3"}
	if !reflect.DeepEqual(names, expected) {
		t.Errorf("Create() names = %v, expected %v", names, expected)
	}
	if s.Selected() != "Novo cenário 3" {
		t.Errorf("Selected() = %q", s.Selected())
	}

	if err := s.Select("Base"); err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	first, err := s.Duplicate()
	if err != nil || first != "Base (cópia)" {
		t.Fatalf("Duplicate() = %q, %v", first, err)
	}
	if err := s.Select("Base"); err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	second, _ := s.Duplicate()
	if second != "Base (cópia) 2" {
		t.Errorf("second Duplicate() = %q", second)
	}

	// Copies are deep.
	base, _ := s.Get("Base")
	cp, _ := s.Get(first)
	cp.CapexItems[0].Amount = 1
	cp.Mix.PackagedDistribution["Lata 473ml"] = 0
	if base.CapexItems[0].Amount == 1 || base.Mix.PackagedDistribution["Lata 473ml"] == 0 {
		t.Error("duplicate shares state with its source")
	}
}

func TestDeleteAndRename(t *testing.T) {
	s := New(nil)

	if err := s.Delete("Base"); !errors.Is(err, ErrLastScenario) {
		t.Errorf("deleting last scenario error = %v", err)
	}
	if err := s.Delete("Missing"); !errors.Is(err, ErrScenarioNotFound) {
		t.Errorf("deleting unknown scenario error = %v", err)
	}

	s.Create("B")
	s.Create("C")
	if err := s.Select("C"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("C"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if s.Selected() != "Base" {
		t.Errorf("Selected() = %q after deleting selected, expected first", s.Selected())
	}

	if err := s.Rename("Base", "B"); !errors.Is(err, ErrScenarioExists) {
		t.Errorf("rename onto existing error = %v", err)
	}
	if err := s.Rename("Nope", "X"); !errors.Is(err, ErrScenarioNotFound) {
		t.Errorf("rename unknown error = %v", err)
	}
	if err := s.Rename("Base", " "); !errors.Is(err, scenario.ErrInvalidName) {
		t.Errorf("rename blank error = %v", err)
	}
	if err := s.Rename("Base", "Principal"); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if s.Selected() != "Principal" {
		t.Errorf("Selected() = %q after rename", s.Selected())
	}
	if !reflect.DeepEqual(s.Names(), []string{"Principal", "B"}) {
		t.Errorf("Names() = %v", s.Names())
	}
	if err := s.Select("Base"); !errors.Is(err, ErrScenarioNotFound) {
		t.Errorf("old name still selectable: %v", err)
	}
}

func TestCurrentOnEmptyStore(t *testing.T) {
	s := empty(zap.NewNop())
	if _, _, err := s.Current(); !errors.Is(err, ErrNoScenarios) {
		t.Errorf("Current() error = %v, expected ErrNoScenarios", err)
	}
	if _, err := s.Duplicate(); !errors.Is(err, ErrNoScenarios) {
		t.Errorf("Duplicate() error = %v", err)
	}
}

func TestPut(t *testing.T) {
	s := New(nil)
	replacement := scenario.Default()
	replacement.OpexItems = nil
	if err := s.Put("Base", replacement); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("Put() on existing name added a scenario")
	}
	if err := s.Put("", nil); !errors.Is(err, scenario.ErrInvalidName) {
		t.Errorf("Put() blank error = %v", err)
	}
	if err := s.Put("Other", nil); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	other, _ := s.Get("Other")
	if len(other.CapexItems) != 12 {
		t.Error("Put(nil) did not store the default scenario")
	}
}

func TestBulkRoundTrip(t *testing.T) {
	s := New(nil)
	sc, _ := s.Get("Base")
	sc.CapexItems = sc.CapexItems[:3]
	sc.Mix.ReferenceRecipe = "Dry Stout"
	sc.Financing.Enabled = true
	before := sc.Clone()

	fm, err := s.Export("Base")
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if len(fm) != len(scenario.Sheets) {
		t.Errorf("Export() returned %d groups", len(fm))
	}
	if err := s.ApplyBulkUpdate("Base", fm); err != nil {
		t.Fatalf("ApplyBulkUpdate() error = %v", err)
	}
	after, _ := s.Get("Base")
	if !reflect.DeepEqual(after, before) {
		t.Errorf("bulk round trip changed scenario\n got: %+v\nwant: %+v", after, before)
	}

	if err := s.ApplyBulkUpdate("Missing", fm); !errors.Is(err, ErrScenarioNotFound) {
		t.Errorf("ApplyBulkUpdate() unknown error = %v", err)
	}
	if _, err := s.Export("Missing"); !errors.Is(err, ErrScenarioNotFound) {
		t.Errorf("Export() unknown error = %v", err)
	}
}

func TestPartialBulkUpdate(t *testing.T) {
	s := New(nil)
	fm := scenario.FieldMap{
		scenario.SheetOpex: {
			{"Descrição": "Aluguel", "Valor": "6000"},
		},
		scenario.SheetFinancing: {
			{"Chave": "Ativo", "Valor": true},
			{"Chave": "Prazo (meses)", "Valor": 60.0},
		},
		scenario.SheetMix: {
			{"Chave": "Distribuição Embalado (%)::Lata 473ml", "Valor": 100.0},
		},
		scenario.SheetCapex: {},
	}
	if err := s.ApplyBulkUpdate("Base", fm); err != nil {
		t.Fatalf("ApplyBulkUpdate() error = %v", err)
	}
	sc, _ := s.Get("Base")
	if len(sc.OpexItems) != 1 || sc.OpexItems[0].Amount != 6000 {
		t.Errorf("opex = %+v", sc.OpexItems)
	}
	if len(sc.CapexItems) != 12 {
		t.Error("empty capex group replaced current values")
	}
	if !sc.Financing.Enabled || sc.Financing.TermMonths != 60 || sc.Financing.AnnualInterestPercent != 18 {
		t.Errorf("financing = %+v", sc.Financing)
	}
	if len(sc.Mix.PackagedDistribution) != 1 || sc.Mix.PackagedDistribution["Lata 473ml"] != 100 {
		t.Errorf("distribution = %v", sc.Mix.PackagedDistribution)
	}
	if sc.Mix.MonthlyVolumeLiters != 2000 {
		t.Errorf("volume = %v", sc.Mix.MonthlyVolumeLiters)
	}
}

func TestSaveFileAndLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "db.json")

	s := New(zap.NewNop())
	s.Create("Segundo")
	if err := s.SaveFile(path); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "db.json" {
		t.Errorf("directory holds %v, expected only db.json", entries)
	}

	loaded := LoadFile(path, zap.NewNop())
	if !reflect.DeepEqual(loaded.Names(), []string{"Base", "Segundo"}) || loaded.Selected() != "Segundo" {
		t.Errorf("loaded names = %v, selected = %q", loaded.Names(), loaded.Selected())
	}

	// Overwrite keeps a single file.
	if err := loaded.Delete("Segundo"); err != nil {
		t.Fatal(err)
	}
	if err := loaded.SaveFile(path); err != nil {
		t.Fatalf("second SaveFile() error = %v", err)
	}
	if again := LoadFile(path, nil); again.Len() != 1 {
		t.Errorf("reloaded %d scenarios, expected 1", again.Len())
	}
}

func TestSaveFilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	path := filepath.Join(t.TempDir(), "db.json")
	s := New(nil)

	if err := s.SaveFile(path); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o644 {
		t.Errorf("new store mode = %v, expected 0644", perm)
	}

	if err := os.Chmod(path, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveFile(path); err != nil {
		t.Fatalf("second SaveFile() error = %v", err)
	}
	if info, err = os.Stat(path); err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("existing store mode = %v, expected 0600 kept", perm)
	}
}

func TestLoadFileMissing(t *testing.T) {
	s := LoadFile(filepath.Join(t.TempDir(), "absent.json"), nil)
	if s.Len() != 1 || s.Selected() != "Base" {
		t.Errorf("missing file produced %v", s.Names())
	}
}

func TestSaveFileFailureLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	// The destination is a non-empty directory, so the final rename fails.
	path := filepath.Join(dir, "db.json")
	if err := os.MkdirAll(filepath.Join(path, "child"), 0o755); err != nil {
		t.Fatal(err)
	}

	s := New(nil)
	if err := s.SaveFile(path); err == nil {
		t.Fatal("SaveFile() succeeded onto a directory")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() != "db.json" {
			t.Errorf("leftover file %s", e.Name())
		}
	}
	if s.Len() != 1 || s.Selected() != "Base" {
		t.Error("store modified by failed save")
	}
}
