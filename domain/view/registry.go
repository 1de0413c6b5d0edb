package view

import (
	"fmt"

	"failboard/domain/survey"
)

// Mode says how a view reacts to a cross-chart selection on one field.
type Mode string

const (
	// ModeFilter folds the selection into the view's filter: only rows
	// matching the selection are counted.
	ModeFilter Mode = "filter"
	// ModeHighlight leaves the counted rows alone and only flags the
	// rendered elements.
	ModeHighlight Mode = "highlight"
)

// ChartKind tells the shell which renderer to use; the aggregation contract
// is the same for all of them.
type ChartKind string

const (
	ChartBar        ChartKind = "bar"
	ChartPie        ChartKind = "pie"
	ChartHeatmap    ChartKind = "heatmap"
	ChartStackedBar ChartKind = "stacked-bar"
)

// TopNSpec restricts one field to its n most frequent values before grouping.
type TopNSpec struct {
	Field survey.Field `json:"field"`
	N     int          `json:"n"`
}

// ViewConfig is one dashboard panel, declared rather than copy-pasted: which
// fields it groups by, whether it densifies or normalizes, which top-N
// restrictions apply, and how it coordinates with selections on each field.
type ViewConfig struct {
	Name        string         `json:"name"`
	Title       string         `json:"title"`
	Kind        ChartKind      `json:"kind"`
	GroupBy     []survey.Field `json:"group_by"`
	Dense       bool           `json:"dense"`
	Denominator survey.Field   `json:"denominator,omitempty"`
	TotalShare  bool           `json:"total_share"`
	TopN        []TopNSpec     `json:"top_n,omitempty"`
	// SelectField is the field a click on this view's elements selects.
	// Empty falls back to the first GroupBy field.
	SelectField survey.Field `json:"select_field,omitempty"`
	// Coordination maps a selection field to this view's reaction. Fields
	// absent from the map default to ModeHighlight.
	Coordination map[survey.Field]Mode `json:"coordination,omitempty"`
}

// ClickField resolves which field a click on this view selects.
func (v ViewConfig) ClickField() survey.Field {
	if v.SelectField != "" {
		return v.SelectField
	}
	if len(v.GroupBy) > 0 {
		return v.GroupBy[0]
	}
	return ""
}

// modeFor resolves the coordination mode for a selection field.
func (v ViewConfig) modeFor(field survey.Field) Mode {
	if m, ok := v.Coordination[field]; ok {
		return m
	}
	return ModeHighlight
}

// EffectiveFilter folds the selection into the base filter for every field
// this view coordinates in filter mode. Highlight-mode fields stay out of the
// filter so their selections never change the counted rows.
func (v ViewConfig) EffectiveFilter(base FilterState, sel SelectionState) FilterState {
	out := base.Clone()
	for field, set := range sel {
		if len(set) == 0 {
			continue
		}
		if v.modeFor(field) == ModeFilter {
			out = out.Constrain(field, set)
		}
	}
	return out
}

// Compute runs the view end to end: selection folding per the coordination
// policy, top-N restriction, then aggregation.
func (v ViewConfig) Compute(c *Coordinator, records []survey.CleanRecord, base FilterState, sel SelectionState) ([]GroupCount, error) {
	filter := v.EffectiveFilter(base, sel)

	// Top-N is measured against the rows the view would otherwise show, so
	// the restriction tracks the active filters. Every spec ranks over the
	// same pre-restriction pool: a top-3 x top-4 view picks each field's
	// leaders independently, not the leaders-within-leaders.
	if len(v.TopN) > 0 {
		var pool []survey.CleanRecord
		for _, r := range records {
			if filter.Pass(r) {
				pool = append(pool, r)
			}
		}
		for _, spec := range v.TopN {
			top := c.TopN(pool, spec.Field, spec.N)
			filter = filter.Constrain(spec.Field, NewValueSet(top...))
		}
	}

	groups, err := c.Aggregate(records, filter, v.GroupBy, AggregateOptions{
		Dense:       v.Dense,
		Denominator: v.Denominator,
		TotalShare:  v.TotalShare,
		Selection:   sel,
	})
	if err != nil {
		return nil, fmt.Errorf("view %s: %w", v.Name, err)
	}
	return groups, nil
}

// DefaultRegistry is the parameterized replacement for the original family of
// near-duplicate dashboards: one config per panel.
func DefaultRegistry() []ViewConfig {
	return []ViewConfig{
		{
			Name:        "failure-types-by-accent",
			Title:       "Failure Types by Accent",
			Kind:        ChartBar,
			GroupBy:     []survey.Field{survey.FieldFailureType, survey.FieldAccent},
			SelectField: survey.FieldAccent,
			Coordination: map[survey.Field]Mode{
				survey.FieldAccent: ModeHighlight,
			},
		},
		{
			Name:       "gender-breakdown",
			Title:      "Respondents by Gender",
			Kind:       ChartPie,
			GroupBy:    []survey.Field{survey.FieldGender},
			TotalShare: true,
		},
		{
			Name:    "age-distribution",
			Title:   "Respondents by Age",
			Kind:    ChartBar,
			GroupBy: []survey.Field{survey.FieldAge},
			Dense:   true,
		},
		{
			Name:    "race-failure-heatmap",
			Title:   "Top Failure Types Across Races",
			Kind:    ChartHeatmap,
			GroupBy: []survey.Field{survey.FieldFailureType, survey.FieldRace},
			Dense:   true,
			TopN: []TopNSpec{
				{Field: survey.FieldFailureType, N: 3},
				{Field: survey.FieldRace, N: 4},
			},
			// Downstream of the accent chart: an accent selection narrows
			// this view instead of merely emphasizing it.
			Coordination: map[survey.Field]Mode{
				survey.FieldAccent: ModeFilter,
			},
		},
		{
			Name:        "failure-share-by-gender",
			Title:       "Failure Type Share Within Gender",
			Kind:        ChartStackedBar,
			GroupBy:     []survey.Field{survey.FieldGender, survey.FieldFailureType},
			Denominator: survey.FieldGender,
		},
	}
}

// FindView looks a view up by name in a registry.
func FindView(registry []ViewConfig, name string) (ViewConfig, bool) {
	for _, v := range registry {
		if v.Name == name {
			return v, true
		}
	}
	return ViewConfig{}, false
}
