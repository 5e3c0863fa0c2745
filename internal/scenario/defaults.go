package scenario

import "github.com/iwvelando/brewery-planner/pkg/constants"

// Defaults applied when a row or setting omits a value.
const (
	DefaultBurdenPercent   = 70.0
	DefaultIngredientUnit  = "kg"
	DefaultBatchLiters     = 500.0
	DefaultEmploymentMode  = ModeSalaried
	DefaultCapexStatus     = StatusPending
	DefaultPriceChannel    = ChannelRetail
	defaultReferenceRecipe = "Pilsen Padrão"
)

// RequiredPrices are the (SKU, channel) pairs every scenario is expected to price.
var RequiredPrices = []Price{
	{SKU: constants.TaproomCupSKU, Channel: ChannelTaproom},
	{SKU: constants.DraftSKU, Channel: ChannelRetail},
	{SKU: "Lata 473ml", Channel: ChannelRetail},
	{SKU: "Garrafa 600ml", Channel: ChannelRetail},
	{SKU: "Long Neck", Channel: ChannelRetail},
	{SKU: "PET Growler 1,5L", Channel: ChannelRetail},
}

// Default returns the starting "Base" scenario of a new store.
func Default() *Scenario {
	return &Scenario{
		CapexItems: []CapexItem{
			{"Produção Quente", "Tribloco 500L Industrial", 68000.00, StatusQuoted, nil},
			{"Produção Quente", "Moinho de Rolos Alta Capacidade", 4500.00, StatusPending, nil},
			{"Fermentação", "Fermentador Cônico 500L (Unid 1)", 14500.00, StatusQuoted, nil},
			{"Fermentação", "Fermentador Cônico 500L (Unid 2)", 14500.00, StatusQuoted, nil},
			{"Fermentação", "Fermentador Cônico 500L (Unid 3)", 14500.00, StatusQuoted, nil},
			{"Fermentação", "Fermentador Cônico 500L (Unid 4)", 14500.00, StatusQuoted, nil},
			{"Frio", "Chiller 15.000 kcal + Bomba Glicol", 18500.00, StatusPending, nil},
			{"Frio", "Câmara Fria Modular (3x3m)", 12000.00, StatusPending, nil},
			{"Envase", "Envasadora Counter Pressure Semi-auto", 3500.00, StatusPurchased, nil},
			{"Logística", "Parque Barris Inox (Lote A)", 16500.00, StatusPending, nil},
			{"Infraestrutura", "Adequação Civil e Piso", 35000.00, StatusEstimated, nil},
			{"Infraestrutura", "Licenciamento e Projetos", 5000.00, StatusEstimated, nil},
		},
		OpexItems: []OpexItem{
			{"Aluguel Galpão", 5000.00, nil},
			{"Energia (Fixo)", 1500.00, nil},
			{"Marketing", 2000.00, nil},
			{"Internet/Telefonia", 250.00, nil},
			{"Contabilidade", 300.00, nil},
		},
		Employees: []Employee{
			{"Cervejeiro(a)", ModeSalaried, 4500.00, 70.0, true, true, nil},
			{"Auxiliar Produção", ModeSalaried, 2500.00, 70.0, true, true, nil},
			{"Vendas (PJ)", ModeContractor, 2200.00, 0.0, false, false, nil},
		},
		Ingredients: []Ingredient{
			{"Malte", "Malte Pilsen Agrária", "kg", 6.90, nil},
			{"Malte", "Malte Pale Ale", "kg", 7.50, nil},
			{"Malte", "Malte Caramelo", "kg", 11.00, nil},
			{"Malte", "Malte Trigo (Weiss)", "kg", 8.00, nil},
			{"Malte", "Malte Torrado/Chocolate", "kg", 14.00, nil},
			{"Lúpulo", "Lúpulo Citra", "kg", 320.00, nil},
			{"Lúpulo", "Lúpulo Magnum (Amargor)", "kg", 180.00, nil},
			{"Lúpulo", "Lúpulo Cascade", "kg", 250.00, nil},
			{"Lúpulo", "Lúpulo Saaz (Lager)", "kg", 280.00, nil},
			{"Lúpulo", "Lúpulo Hallertau", "kg", 290.00, nil},
			{"Levedura", "US-05 (Ale Americana)", "pct", 28.00, nil},
			{"Levedura", "S-04 (Ale Inglesa/Stout)", "pct", 26.00, nil},
			{"Levedura", "W-34/70 (Lager)", "pct", 35.00, nil},
			{"Levedura", "WB-06 (Weiss)", "pct", 30.00, nil},
		},
		Recipes: Recipes{
			Headers: []RecipeHeader{
				{1, "American IPA", 500, nil},
				{2, "Classic APA", 500, nil},
				{3, "Pilsen Padrão", 500, nil},
				{4, "Dry Stout", 500, nil},
				{5, "Weissbier", 500, nil},
			},
			Lines: recomputedLines([]RecipeLine{
				{RecipeID: 1, Ingredient: "Malte Pale Ale", Quantity: 110, UnitCost: 7.50},
				{RecipeID: 1, Ingredient: "Malte Caramelo", Quantity: 8, UnitCost: 11.00},
				{RecipeID: 1, Ingredient: "Lúpulo Magnum (Amargor)", Quantity: 0.5, UnitCost: 180.00},
				{RecipeID: 1, Ingredient: "Lúpulo Citra", Quantity: 4.0, UnitCost: 320.00},
				{RecipeID: 1, Ingredient: "US-05 (Ale Americana)", Quantity: 30, UnitCost: 28.00},

				{RecipeID: 2, Ingredient: "Malte Pale Ale", Quantity: 100, UnitCost: 7.50},
				{RecipeID: 2, Ingredient: "Malte Caramelo", Quantity: 5, UnitCost: 11.00},
				{RecipeID: 2, Ingredient: "Lúpulo Cascade", Quantity: 2.5, UnitCost: 250.00},
				{RecipeID: 2, Ingredient: "US-05 (Ale Americana)", Quantity: 25, UnitCost: 28.00},

				{RecipeID: 3, Ingredient: "Malte Pilsen Agrária", Quantity: 95, UnitCost: 6.90},
				{RecipeID: 3, Ingredient: "Malte Caramelo", Quantity: 3, UnitCost: 11.00},
				{RecipeID: 3, Ingredient: "Lúpulo Magnum (Amargor)", Quantity: 0.3, UnitCost: 180.00},
				{RecipeID: 3, Ingredient: "Lúpulo Saaz (Lager)", Quantity: 1.0, UnitCost: 280.00},
				{RecipeID: 3, Ingredient: "W-34/70 (Lager)", Quantity: 40, UnitCost: 35.00},

				{RecipeID: 4, Ingredient: "Malte Pale Ale", Quantity: 85, UnitCost: 7.50},
				{RecipeID: 4, Ingredient: "Malte Torrado/Chocolate", Quantity: 10, UnitCost: 14.00},
				{RecipeID: 4, Ingredient: "Malte Caramelo", Quantity: 5, UnitCost: 11.00},
				{RecipeID: 4, Ingredient: "Lúpulo Magnum (Amargor)", Quantity: 0.8, UnitCost: 180.00},
				{RecipeID: 4, Ingredient: "S-04 (Ale Inglesa/Stout)", Quantity: 25, UnitCost: 26.00},

				{RecipeID: 5, Ingredient: "Malte Trigo (Weiss)", Quantity: 50, UnitCost: 8.00},
				{RecipeID: 5, Ingredient: "Malte Pilsen Agrária", Quantity: 50, UnitCost: 6.90},
				{RecipeID: 5, Ingredient: "Lúpulo Hallertau", Quantity: 0.6, UnitCost: 290.00},
				{RecipeID: 5, Ingredient: "WB-06 (Weiss)", Quantity: 25, UnitCost: 30.00},
			}),
		},
		Packaging: []PackagingType{
			{"Lata 473ml", 0.473, 1.60, nil},
			{"Garrafa 600ml", 0.600, 1.40, nil},
			{"Long Neck", 0.330, 1.10, nil},
			{"Barril 30L", 30.0, 0.00, nil},
			{"Barril 50L", 50.0, 0.00, nil},
			{"PET Growler 1,5L", 1.50, 2.20, nil},
			{constants.TaproomCupSKU, 0.473, 0.25, nil},
		},
		Prices: []Price{
			{"Lata 473ml", ChannelRetail, 22.00, nil},
			{"Garrafa 600ml", ChannelRetail, 26.00, nil},
			{"Long Neck", ChannelRetail, 14.00, nil},
			{"PET Growler 1,5L", ChannelRetail, 38.00, nil},
			{constants.DraftSKU, ChannelRetail, 13.00, nil},
			{constants.TaproomCupSKU, ChannelTaproom, 20.00, nil},
		},
		Mix:       DefaultMix(),
		Premises:  DefaultPremises(),
		Financing: DefaultFinancing(),
	}
}

// DefaultMix returns the default sales mix.
func DefaultMix() MixAssumptions {
	return MixAssumptions{
		MonthlyVolumeLiters:   2000,
		TaproomPercent:        30,
		RetailDraftPercent:    25,
		RetailPackagedPercent: 45,
		PackagedDistribution: map[string]float64{
			"Lata 473ml":       45,
			"Garrafa 600ml":    15,
			"Long Neck":        25,
			"PET Growler 1,5L": 15,
		},
		ReferenceRecipe: defaultReferenceRecipe,
	}
}

// DefaultPremises returns the default cost premises.
func DefaultPremises() CostPremises {
	return CostPremises{
		ChemicalsPerLiter:    0.25,
		EnergyPerLiter:       0.35,
		WaterPerLiter:        0.15,
		CO2PerLiter:          0.15,
		SalesTaxPercent:      10.0,
		WorkingCapitalMonths: 6,
	}
}

// DefaultFinancing returns the default (disabled) financing terms.
func DefaultFinancing() FinancingTerms {
	return FinancingTerms{
		Enabled:               false,
		FinancedPercent:       60.0,
		AnnualInterestPercent: 18.0,
		TermMonths:            48,
		GraceMonths:           0,
	}
}
