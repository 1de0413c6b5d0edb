package view

import "failboard/domain/survey"

// ValueSet is a set of accepted or selected labels for one field.
type ValueSet map[string]struct{}

// NewValueSet builds a set from its members.
func NewValueSet(values ...string) ValueSet {
	s := make(ValueSet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Has reports set membership.
func (s ValueSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Intersect keeps only members present in both sets.
func (s ValueSet) Intersect(other ValueSet) ValueSet {
	out := make(ValueSet)
	for v := range s {
		if other.Has(v) {
			out[v] = struct{}{}
		}
	}
	return out
}

// Values returns the members in unspecified order.
func (s ValueSet) Values() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	return out
}

// FrequencyRange is the numeric-slider predicate over frequency_numeric.
type FrequencyRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FilterState is an immutable snapshot of the sidebar controls. A field
// present in Accept is constrained to that set; a field that is absent is
// unconstrained. A present-but-empty set means exclude all rows, which is
// what a multi-select with every value deselected should do.
type FilterState struct {
	Accept    map[survey.Field]ValueSet
	Frequency *FrequencyRange
}

// NewFilterState creates an unconstrained filter.
func NewFilterState() FilterState {
	return FilterState{Accept: make(map[survey.Field]ValueSet)}
}

// Pass reports whether the record satisfies every constrained field and the
// frequency range, when one is set.
func (f FilterState) Pass(r survey.CleanRecord) bool {
	for field, accepted := range f.Accept {
		v, ok := r.Value(field)
		if !ok {
			return false
		}
		if !accepted.Has(v) {
			return false
		}
	}
	if f.Frequency != nil {
		if r.FrequencyNumeric < f.Frequency.Min || r.FrequencyNumeric > f.Frequency.Max {
			return false
		}
	}
	return true
}

// Clone deep-copies the filter so callers can derive a narrowed variant
// without mutating the shell's snapshot.
func (f FilterState) Clone() FilterState {
	out := FilterState{Accept: make(map[survey.Field]ValueSet, len(f.Accept))}
	for field, set := range f.Accept {
		clone := make(ValueSet, len(set))
		for v := range set {
			clone[v] = struct{}{}
		}
		out.Accept[field] = clone
	}
	if f.Frequency != nil {
		r := *f.Frequency
		out.Frequency = &r
	}
	return out
}

// Constrain narrows the filter on one field. An already-constrained field
// keeps only the intersection, so stacked restrictions never widen the set.
func (f FilterState) Constrain(field survey.Field, accepted ValueSet) FilterState {
	out := f.Clone()
	if existing, ok := out.Accept[field]; ok {
		out.Accept[field] = existing.Intersect(accepted)
	} else {
		out.Accept[field] = accepted
	}
	return out
}

// SelectionState is the cross-chart selection snapshot: clicking a bar or a
// heatmap cell puts its label into the set for that chart's field.
type SelectionState map[survey.Field]ValueSet

// Active reports whether any field has at least one selected value.
func (s SelectionState) Active() bool {
	for _, set := range s {
		if len(set) > 0 {
			return true
		}
	}
	return false
}

// Highlight reports whether the record should render emphasized. With no
// active selection everything is highlighted; otherwise a record matching any
// selected value in any coordinated field is highlighted. Selection never
// changes which records are counted.
func (s SelectionState) Highlight(r survey.CleanRecord) bool {
	if !s.Active() {
		return true
	}
	for field, set := range s {
		if len(set) == 0 {
			continue
		}
		if v, ok := r.Value(field); ok && set.Has(v) {
			return true
		}
	}
	return false
}

// GroupCount is one aggregation row: the ordered key over the groupBy fields,
// the number of matching records, the within-denominator share when
// proportion normalization was requested, and whether any member record is
// currently highlighted.
type GroupCount struct {
	Key         []string `json:"key"`
	Count       int      `json:"count"`
	Proportion  float64  `json:"proportion,omitempty"`
	Highlighted bool     `json:"highlighted"`
}
