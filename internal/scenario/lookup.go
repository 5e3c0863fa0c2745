package scenario

// Lookups return the first match; absence yields the zero value.

// RecipeByID returns the header with the given id.
func (s *Scenario) RecipeByID(id int) (RecipeHeader, bool) {
	for _, h := range s.Recipes.Headers {
		if h.ID == id {
			return h, true
		}
	}
	return RecipeHeader{}, false
}

// RecipeByName returns the header with the given name.
func (s *Scenario) RecipeByName(name string) (RecipeHeader, bool) {
	for _, h := range s.Recipes.Headers {
		if h.Name == name {
			return h, true
		}
	}
	return RecipeHeader{}, false
}

// RecipeNames lists recipe names in order.
func (s *Scenario) RecipeNames() []string {
	names := make([]string, 0, len(s.Recipes.Headers))
	for _, h := range s.Recipes.Headers {
		names = append(names, h.Name)
	}
	return names
}

// LinesFor returns the lines belonging to a recipe.
func (r Recipes) LinesFor(id int) []RecipeLine {
	var lines []RecipeLine
	for _, l := range r.Lines {
		if l.RecipeID == id {
			lines = append(lines, l)
		}
	}
	return lines
}

// OrphanLines returns lines whose recipe id has no header.
func (r Recipes) OrphanLines() []RecipeLine {
	ids := make(map[int]bool, len(r.Headers))
	for _, h := range r.Headers {
		ids[h.ID] = true
	}
	var orphans []RecipeLine
	for _, l := range r.Lines {
		if !ids[l.RecipeID] {
			orphans = append(orphans, l)
		}
	}
	return orphans
}

// IngredientByName returns the catalog entry with the given name.
func (s *Scenario) IngredientByName(name string) (Ingredient, bool) {
	for _, in := range s.Ingredients {
		if in.Name == name {
			return in, true
		}
	}
	return Ingredient{}, false
}

func (s *Scenario) findPrice(sku string, channel Channel) (Price, bool) {
	for _, p := range s.Prices {
		if p.SKU == sku && p.Channel == channel {
			return p, true
		}
	}
	return Price{}, false
}

// PriceFor returns the unit price of sku on channel, or 0.
func (s *Scenario) PriceFor(sku string, channel Channel) float64 {
	p, _ := s.findPrice(sku, channel)
	return p.UnitPrice
}

// RetailPrice returns the retail unit price of sku, or 0.
func (s *Scenario) RetailPrice(sku string) float64 {
	return s.PriceFor(sku, ChannelRetail)
}

// TaproomPrice returns the taproom unit price of sku, or 0.
func (s *Scenario) TaproomPrice(sku string) float64 {
	return s.PriceFor(sku, ChannelTaproom)
}

// PackagingByName returns the packaging type with the given name.
func (s *Scenario) PackagingByName(name string) (PackagingType, bool) {
	for _, p := range s.Packaging {
		if p.Name == name {
			return p, true
		}
	}
	return PackagingType{}, false
}

// PackagingUnit returns the volume per unit and unit cost of a packaging
// type, or zeros when it is unknown.
func (s *Scenario) PackagingUnit(name string) (volumeLiters, unitCost float64) {
	p, _ := s.PackagingByName(name)
	return p.VolumeLiters, p.UnitCost
}

// PackagingNames lists packaging names in order.
func (s *Scenario) PackagingNames() []string {
	names := make([]string, 0, len(s.Packaging))
	for _, p := range s.Packaging {
		names = append(names, p.Name)
	}
	return names
}

// CapexTotal sums every capital expenditure.
func (s *Scenario) CapexTotal() float64 {
	total := 0.0
	for _, c := range s.CapexItems {
		total += c.Amount
	}
	return total
}

// OtherOpexTotal sums the fixed monthly costs other than payroll.
func (s *Scenario) OtherOpexTotal() float64 {
	total := 0.0
	for _, o := range s.OpexItems {
		total += o.Amount
	}
	return total
}
