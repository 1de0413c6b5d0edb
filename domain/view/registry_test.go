package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"failboard/domain/survey"
)

func strPtr(s string) *string { return &s }

// End-to-end: raw rows through the preparer into an accent grouping.
func TestPrepareThenAggregateScenario(t *testing.T) {
	p := survey.NewPreparer()
	clean := p.Prepare([]survey.RawRecord{
		{Accent: strPtr("Yes"), FailureType: strPtr("Understanding")},
		{Accent: nil, FailureType: strPtr("Attention")},
	})

	require.Equal(t, survey.Unknown, clean[1].HasAccent)
	require.Equal(t, "Attention", clean[1].FailureType)

	c := NewCoordinator()
	groups, err := c.Aggregate(clean, NewFilterState(), []survey.Field{survey.FieldAccent}, AggregateOptions{})
	require.NoError(t, err)

	counts := make(map[string]int)
	for _, g := range groups {
		counts[g.Key[0]] = g.Count
	}
	assert.Equal(t, map[string]int{"Yes": 1, survey.Unknown: 1}, counts)
}

func TestCoordinationFilterVersusHighlight(t *testing.T) {
	c := NewCoordinator()
	records := fixtureRecords()
	sel := SelectionState{survey.FieldAccent: NewValueSet("Yes")}

	accented := 0
	for _, r := range records {
		if r.HasAccent == "Yes" {
			accented++
		}
	}

	// A view that treats accent selections as a hard filter shrinks to
	// exactly the accented rows.
	filtered := ViewConfig{
		Name:         "downstream",
		GroupBy:      []survey.Field{survey.FieldFailureType},
		Coordination: map[survey.Field]Mode{survey.FieldAccent: ModeFilter},
	}
	groups, err := filtered.Compute(c, records, NewFilterState(), sel)
	require.NoError(t, err)
	total := 0
	for _, g := range groups {
		total += g.Count
	}
	assert.Equal(t, accented, total)

	// A sibling view that only highlights keeps its full total.
	sibling := ViewConfig{
		Name:         "sibling",
		GroupBy:      []survey.Field{survey.FieldFailureType},
		Coordination: map[survey.Field]Mode{survey.FieldAccent: ModeHighlight},
	}
	groups, err = sibling.Compute(c, records, NewFilterState(), sel)
	require.NoError(t, err)
	total = 0
	for _, g := range groups {
		total += g.Count
	}
	assert.Equal(t, len(records), total)
}

func TestViewTopNRestrictsBeforeFaceting(t *testing.T) {
	c := NewCoordinator()

	var records []survey.CleanRecord
	add := func(failureType, race string, n int) {
		for i := 0; i < n; i++ {
			records = append(records, record(failureType, "Yes", "Woman", "18-24", race))
		}
	}
	add("Understanding", "Asian", 4)
	add("Attention", "White", 3)
	add("Response", "Asian", 2)
	add("Wakeword", "Black or African American", 1)

	v := ViewConfig{
		Name:    "heatmap",
		GroupBy: []survey.Field{survey.FieldFailureType, survey.FieldRace},
		Dense:   true,
		TopN: []TopNSpec{
			{Field: survey.FieldFailureType, N: 2},
			{Field: survey.FieldRace, N: 2},
		},
	}

	groups, err := v.Compute(c, records, NewFilterState(), nil)
	require.NoError(t, err)

	// 2 failure types x 2 races, every slot present even when empty.
	require.Len(t, groups, 4)
	types := make(map[string]bool)
	races := make(map[string]bool)
	for _, g := range groups {
		types[g.Key[0]] = true
		races[g.Key[1]] = true
	}
	assert.Equal(t, map[string]bool{"Understanding": true, "Attention": true}, types)
	assert.Equal(t, map[string]bool{"Asian": true, "White": true}, races)
}

// Each restriction ranks over the same pre-restriction pool, so the race
// leader is the most common race overall, not the most common among the
// already-restricted failure types.
func TestViewTopNFieldsRankedIndependently(t *testing.T) {
	c := NewCoordinator()

	var records []survey.CleanRecord
	add := func(failureType, race string, n int) {
		for i := 0; i < n; i++ {
			records = append(records, record(failureType, "Yes", "Woman", "18-24", race))
		}
	}
	add("Understanding", "Asian", 5)
	add("Attention", "White", 4)
	add("Response", "White", 3)

	v := ViewConfig{
		Name:    "heatmap",
		GroupBy: []survey.Field{survey.FieldFailureType, survey.FieldRace},
		Dense:   true,
		TopN: []TopNSpec{
			{Field: survey.FieldFailureType, N: 2},
			{Field: survey.FieldRace, N: 1},
		},
	}

	groups, err := v.Compute(c, records, NewFilterState(), nil)
	require.NoError(t, err)

	// White leads overall (7 rows) even though Asian leads within the two
	// retained failure types.
	races := make(map[string]bool)
	for _, g := range groups {
		races[g.Key[1]] = true
	}
	assert.Equal(t, map[string]bool{"White": true}, races)
}

func TestDefaultRegistryShape(t *testing.T) {
	registry := DefaultRegistry()
	require.NotEmpty(t, registry)

	seen := make(map[string]bool)
	for _, v := range registry {
		assert.Falsef(t, seen[v.Name], "duplicate view name %s", v.Name)
		seen[v.Name] = true
		assert.NotEmptyf(t, v.GroupBy, "view %s has no grouping", v.Name)
	}

	heatmap, ok := FindView(registry, "race-failure-heatmap")
	require.True(t, ok)
	assert.Equal(t, ModeFilter, heatmap.Coordination[survey.FieldAccent],
		"heatmap is wired downstream of the accent chart")

	bar, ok := FindView(registry, "failure-types-by-accent")
	require.True(t, ok)
	assert.Equal(t, ModeHighlight, bar.modeFor(survey.FieldAccent))

	_, ok = FindView(registry, "missing")
	assert.False(t, ok)
}

// Views computed against an empty filtered set stay well defined.
func TestViewEmptyResultIsValid(t *testing.T) {
	c := NewCoordinator()
	filter := NewFilterState()
	filter.Accept[survey.FieldGender] = NewValueSet()

	for _, v := range DefaultRegistry() {
		groups, err := v.Compute(c, fixtureRecords(), filter, nil)
		require.NoErrorf(t, err, "view %s", v.Name)
		for _, g := range groups {
			assert.Zerof(t, g.Count, "view %s", v.Name)
			assert.Zerof(t, g.Proportion, "view %s", v.Name)
		}
	}
}
