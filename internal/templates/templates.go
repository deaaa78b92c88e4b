package templates

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v2"
)

//go:embed registry.yaml
var registryYAML []byte

// Formula is the kind of computation behind a KPI
type Formula string

const (
	FormulaSum        Formula = "sum"
	FormulaAverage    Formula = "average"
	FormulaCount      Formula = "count"
	FormulaGrowthRate Formula = "growth_rate"
	FormulaCustom     Formula = "custom"
)

// KPISpec describes one template KPI. Column formulas name a column;
// custom formulas name an entry of the formula table in Calc.
type KPISpec struct {
	ID      string  `yaml:"id" json:"id"`
	Name    string  `yaml:"name" json:"name"`
	Formula Formula `yaml:"formula" json:"formula"`
	Column  string  `yaml:"column,omitempty" json:"column,omitempty"`
	Calc    string  `yaml:"calc,omitempty" json:"calc,omitempty"`
	Unit    string  `yaml:"unit" json:"unit"`
}

// ChartSpec is a rendering hint carried by a template
type ChartSpec struct {
	Type           string   `yaml:"type" json:"type"`
	Title          string   `yaml:"title" json:"title"`
	XColumn        string   `yaml:"x_column,omitempty" json:"x_column,omitempty"`
	YColumns       []string `yaml:"y_columns,omitempty" json:"y_columns,omitempty"`
	GroupBy        string   `yaml:"group_by,omitempty" json:"group_by,omitempty"`
	ValueColumn    string   `yaml:"value_column,omitempty" json:"value_column,omitempty"`
	FilterCategory string   `yaml:"filter_category,omitempty" json:"filter_category,omitempty"`
	Categories     []string `yaml:"categories,omitempty" json:"categories,omitempty"`
	Calculated     bool     `yaml:"calculated,omitempty" json:"calculated,omitempty"`
	Count          bool     `yaml:"count,omitempty" json:"count,omitempty"`
	Comparison     bool     `yaml:"comparison,omitempty" json:"comparison,omitempty"`
}

// Template is a static industry schema
type Template struct {
	ID              string      `yaml:"id" json:"id"`
	Name            string      `yaml:"name" json:"name"`
	Description     string      `yaml:"description" json:"description"`
	RequiredColumns []string    `yaml:"required_columns" json:"required_columns"`
	OptionalColumns []string    `yaml:"optional_columns" json:"optional_columns"`
	KPIs            []KPISpec   `yaml:"kpis" json:"kpis"`
	Charts          []ChartSpec `yaml:"charts" json:"charts"`
	AIContext       string      `yaml:"ai_context" json:"ai_context"`
}

// Summary is the listing view of a template
type Summary struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	RequiredColumns []string `json:"required_columns"`
}

// Registry holds templates in their declared order. It is read-only
// after construction and safe for concurrent use.
type Registry struct {
	templates []Template
	byID      map[string]int
}

var defaultRegistry = mustLoad(registryYAML)

// Default returns the embedded registry
func Default() *Registry {
	return defaultRegistry
}

// Load parses and checks a YAML template list
func Load(data []byte) (*Registry, error) {
	var list []Template
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse template registry: %w", err)
	}

	r := &Registry{byID: make(map[string]int, len(list))}
	for _, t := range list {
		if t.ID == "" {
			return nil, fmt.Errorf("template %q has no id", t.Name)
		}
		if _, dup := r.byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate template id %q", t.ID)
		}
		for _, k := range t.KPIs {
			if err := checkKPI(k); err != nil {
				return nil, fmt.Errorf("template %s: %w", t.ID, err)
			}
		}
		r.byID[t.ID] = len(r.templates)
		r.templates = append(r.templates, t)
	}
	return r, nil
}

func mustLoad(data []byte) *Registry {
	r, err := Load(data)
	if err != nil {
		panic(err)
	}
	return r
}

func checkKPI(k KPISpec) error {
	switch k.Formula {
	case FormulaSum, FormulaAverage, FormulaGrowthRate:
		if k.Column == "" {
			return fmt.Errorf("kpi %s: formula %s needs a column", k.ID, k.Formula)
		}
	case FormulaCount:
	case FormulaCustom:
		if _, ok := formulaTable[k.Calc]; !ok {
			return fmt.Errorf("kpi %s: unknown custom formula %q", k.ID, k.Calc)
		}
	default:
		return fmt.Errorf("kpi %s: unknown formula %q", k.ID, k.Formula)
	}
	return nil
}

// Get looks up a template by id
func (r *Registry) Get(id string) (*Template, bool) {
	i, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	t := r.templates[i]
	return &t, true
}

// List returns every template summary in registry order
func (r *Registry) List() []Summary {
	out := make([]Summary, 0, len(r.templates))
	for _, t := range r.templates {
		out = append(out, Summary{
			ID:              t.ID,
			Name:            t.Name,
			Description:     t.Description,
			RequiredColumns: append([]string(nil), t.RequiredColumns...),
		})
	}
	return out
}

// Get looks up a template in the embedded registry
func Get(id string) (*Template, bool) { return defaultRegistry.Get(id) }

// List returns the embedded templates
func List() []Summary { return defaultRegistry.List() }

// Detect picks the best template in the embedded registry for the columns
func Detect(columns []string) (string, bool) { return defaultRegistry.Detect(columns) }
