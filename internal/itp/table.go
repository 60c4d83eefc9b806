// Package itp computes regional property transfer tax (Impuesto de
// Transmisiones Patrimoniales) liability. Each region carries a general rate
// and an ordered list of reduced "joven" rates conditioned on age, price and
// income; the table is immutable reference data injected at construction so
// tests can substitute fixtures.
package itp

import "fmt"

// Bonus is a reduced rate with its qualification conditions. A zero value on
// a condition field means the bonus is unconstrained on that field; the real
// tables never use 0 as an actual limit.
type Bonus struct {
	Rate             float64 `json:"rate" yaml:"rate"`
	MaxAge           int     `json:"maxAge,omitempty" yaml:"maxAge,omitempty"`
	MaxPropertyPrice float64 `json:"maxPropertyPrice,omitempty" yaml:"maxPropertyPrice,omitempty"`
	MaxIncome        float64 `json:"maxIncome,omitempty" yaml:"maxIncome,omitempty"`
	MaxJointIncome   float64 `json:"maxJointIncome,omitempty" yaml:"maxJointIncome,omitempty"`
}

// RegionRate holds the rates for one region. Bonus order is significant:
// rate resolution scans the list in order and takes the first match, so
// reordering entries changes observable behavior.
type RegionRate struct {
	Region  string  `json:"region" yaml:"region"`
	General float64 `json:"general" yaml:"general"`
	Bonuses []Bonus `json:"bonuses,omitempty" yaml:"bonuses,omitempty"`
}

// Table is the read-only set of regional rates, preserving region order for
// display purposes.
type Table struct {
	entries []RegionRate
	index   map[string]int
}

// NewTable builds a lookup table from the given entries. Duplicate region
// names are rejected since a second entry would silently shadow the first.
func NewTable(entries []RegionRate) (*Table, error) {
	index := make(map[string]int, len(entries))
	for i, entry := range entries {
		if entry.Region == "" {
			return nil, fmt.Errorf("region name missing at entry %d", i)
		}
		if _, exists := index[entry.Region]; exists {
			return nil, fmt.Errorf("duplicate region %q", entry.Region)
		}
		index[entry.Region] = i
	}
	return &Table{entries: entries, index: index}, nil
}

// Regions returns the region names in table order.
func (t *Table) Regions() []string {
	names := make([]string, len(t.entries))
	for i, entry := range t.entries {
		names[i] = entry.Region
	}
	return names
}

// Lookup returns the rates for a region and whether the region is known.
func (t *Table) Lookup(region string) (RegionRate, bool) {
	i, ok := t.index[region]
	if !ok {
		return RegionRate{}, false
	}
	return t.entries[i], true
}

// DefaultTable returns the built-in rates for the Spanish regions.
func DefaultTable() *Table {
	table, err := NewTable(defaultRates)
	if err != nil {
		panic(fmt.Sprintf("invalid built-in tax table: %v", err))
	}
	return table
}

var defaultRates = []RegionRate{
	{
		Region:  "Andalucía",
		General: 7,
		Bonuses: []Bonus{{Rate: 3.5, MaxAge: 34, MaxPropertyPrice: 150000}},
	},
	{Region: "Aragón", General: 8},
	{
		Region:  "Asturias",
		General: 8,
		Bonuses: []Bonus{{Rate: 4, MaxAge: 35, MaxPropertyPrice: 150000}},
	},
	{
		Region:  "Baleares",
		General: 8,
		Bonuses: []Bonus{{Rate: 2, MaxAge: 35}},
	},
	{
		Region:  "Canarias",
		General: 6.5,
		Bonuses: []Bonus{{Rate: 5.2, MaxAge: 34, MaxPropertyPrice: 150000}},
	},
	{
		Region:  "Cantabria",
		General: 9,
		Bonuses: []Bonus{{Rate: 4, MaxAge: 35}},
	},
	{
		Region:  "Castilla y León",
		General: 8,
		Bonuses: []Bonus{{Rate: 4, MaxAge: 35}},
	},
	{
		Region:  "Castilla-La Mancha",
		General: 9,
		Bonuses: []Bonus{{Rate: 5, MaxAge: 35, MaxPropertyPrice: 180000}},
	},
	{
		Region:  "Cataluña",
		General: 10,
		Bonuses: []Bonus{{Rate: 5, MaxAge: 35, MaxIncome: 36000}},
	},
	{Region: "Ceuta", General: 6},
	{
		Region:  "Comunidad Valenciana",
		General: 10,
		Bonuses: []Bonus{{Rate: 8, MaxAge: 34}},
	},
	{
		Region:  "Extremadura",
		General: 8,
		Bonuses: []Bonus{{Rate: 6, MaxAge: 35, MaxPropertyPrice: 122000, MaxIncome: 28000, MaxJointIncome: 45000}},
	},
	{
		Region:  "Galicia",
		General: 9,
		Bonuses: []Bonus{{Rate: 4, MaxAge: 35, MaxPropertyPrice: 150000}},
	},
	{
		Region:  "La Rioja",
		General: 7,
		Bonuses: []Bonus{{Rate: 5, MaxAge: 35}},
	},
	{Region: "Madrid", General: 6},
	{Region: "Melilla", General: 6},
	{
		Region:  "Murcia",
		General: 8,
		Bonuses: []Bonus{{Rate: 3, MaxAge: 34}},
	},
	{Region: "Navarra", General: 6},
	{Region: "País Vasco", General: 7},
}
