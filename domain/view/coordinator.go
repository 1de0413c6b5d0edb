package view

import (
	"fmt"
	"sort"

	"failboard/domain/survey"
)

// Coordinator computes filtered, grouped counts for the rendering shell. It
// holds no state between calls: filter and selection snapshots are inputs,
// never retained.
type Coordinator struct{}

// NewCoordinator creates a coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// AggregateOptions tune one Aggregate call.
type AggregateOptions struct {
	// Dense emits zero-count groups for every combination of the groupBy
	// fields' domains, which faceted layouts need for stable slots.
	Dense bool
	// Denominator turns counts into proportions of the filtered total
	// sharing the group's value of this field. Empty means raw counts.
	Denominator survey.Field
	// TotalShare normalizes against all filtered records instead of a
	// denominator field. Mutually exclusive with Denominator.
	TotalShare bool
	// Selection sets the Highlighted flag per group; it never affects
	// which records are counted.
	Selection SelectionState
}

type group struct {
	key         []string
	count       int
	highlighted bool
	firstSeen   int
}

// Aggregate retains the records passing filter, groups them by the ordered
// Cartesian key over groupBy, and counts membership per key. Groups come back
// in display order: fixed-domain fields by their declared order, open-ended
// fields by first appearance in the filtered input.
func (c *Coordinator) Aggregate(records []survey.CleanRecord, filter FilterState, groupBy []survey.Field, opts AggregateOptions) ([]GroupCount, error) {
	if len(groupBy) == 0 {
		return nil, fmt.Errorf("aggregate requires at least one groupBy field")
	}
	for _, f := range groupBy {
		if _, ok := survey.ParseField(string(f)); !ok {
			return nil, fmt.Errorf("unknown groupBy field %q", f)
		}
	}

	var filtered []survey.CleanRecord
	for _, r := range records {
		if filter.Pass(r) {
			filtered = append(filtered, r)
		}
	}

	groups := make(map[string]*group)
	var order []*group
	for _, r := range filtered {
		key := keyOf(r, groupBy)
		id := joinKey(key)
		g, ok := groups[id]
		if !ok {
			g = &group{key: key, firstSeen: len(order)}
			groups[id] = g
			order = append(order, g)
		}
		g.count++
		if opts.Selection.Highlight(r) {
			g.highlighted = true
		}
	}

	if opts.Dense {
		for _, key := range c.denseKeys(filtered, groupBy) {
			id := joinKey(key)
			if _, ok := groups[id]; !ok {
				g := &group{key: key, firstSeen: len(order)}
				// Empty slots render emphasized only while selection
				// is vacuous.
				g.highlighted = !opts.Selection.Active()
				groups[id] = g
				order = append(order, g)
			}
		}
	}

	sortGroups(order, groupBy, filtered)

	denominators := make(map[string]int)
	denomIdx := -1
	if opts.Denominator != "" {
		for i, f := range groupBy {
			if f == opts.Denominator {
				denomIdx = i
			}
		}
		if denomIdx < 0 {
			return nil, fmt.Errorf("denominator field %q not in groupBy", opts.Denominator)
		}
		for _, r := range filtered {
			v, _ := r.Value(opts.Denominator)
			denominators[v]++
		}
	}

	out := make([]GroupCount, 0, len(order))
	for _, g := range order {
		gc := GroupCount{Key: g.key, Count: g.count, Highlighted: g.highlighted}
		switch {
		case denomIdx >= 0:
			// Guard an empty denominator slice: proportion is 0, not NaN.
			if total := denominators[g.key[denomIdx]]; total > 0 {
				gc.Proportion = float64(g.count) / float64(total)
			}
		case opts.TotalShare:
			if len(filtered) > 0 {
				gc.Proportion = float64(g.count) / float64(len(filtered))
			}
		}
		out = append(out, gc)
	}
	return out, nil
}

// TopN returns the n most frequent values of field among the given records,
// most frequent first, ties broken by first appearance in the input.
func (c *Coordinator) TopN(records []survey.CleanRecord, field survey.Field, n int) []string {
	type freq struct {
		value     string
		count     int
		firstSeen int
	}
	byValue := make(map[string]*freq)
	var order []*freq
	for i, r := range records {
		v, ok := r.Value(field)
		if !ok {
			continue
		}
		f, seen := byValue[v]
		if !seen {
			f = &freq{value: v, firstSeen: i}
			byValue[v] = f
			order = append(order, f)
		}
		f.count++
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].count != order[j].count {
			return order[i].count > order[j].count
		}
		return order[i].firstSeen < order[j].firstSeen
	})

	if n > len(order) {
		n = len(order)
	}
	out := make([]string, 0, n)
	for _, f := range order[:n] {
		out = append(out, f.value)
	}
	return out
}

// denseKeys builds the full Cartesian product over per-field domains. Fixed
// label sets come from the survey domain; open-ended fields use the values
// observed in the filtered records, in first-seen order.
func (c *Coordinator) denseKeys(filtered []survey.CleanRecord, groupBy []survey.Field) [][]string {
	domains := make([][]string, len(groupBy))
	for i, f := range groupBy {
		if d := survey.Domain(f); d != nil {
			domains[i] = d
			continue
		}
		domains[i] = observedValues(filtered, f)
	}

	keys := [][]string{{}}
	for _, domain := range domains {
		var next [][]string
		for _, prefix := range keys {
			for _, v := range domain {
				key := make([]string, len(prefix)+1)
				copy(key, prefix)
				key[len(prefix)] = v
				next = append(next, key)
			}
		}
		keys = next
	}
	return keys
}

func observedValues(records []survey.CleanRecord, field survey.Field) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range records {
		v, ok := r.Value(field)
		if !ok {
			continue
		}
		if _, dup := seen[v]; !dup {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// sortGroups orders groups component-wise: fixed-domain fields by declared
// label order, open-ended fields by first appearance among filtered records,
// with the group's own first-seen index as the final tie-break.
func sortGroups(order []*group, groupBy []survey.Field, filtered []survey.CleanRecord) {
	ranks := make([]map[string]int, len(groupBy))
	for i, f := range groupBy {
		ranks[i] = make(map[string]int)
		if d := survey.Domain(f); d != nil {
			for pos, v := range d {
				ranks[i][v] = pos
			}
			continue
		}
		for pos, v := range observedValues(filtered, f) {
			ranks[i][v] = pos
		}
	}

	sort.SliceStable(order, func(x, y int) bool {
		a, b := order[x], order[y]
		for i := range groupBy {
			ra, aOK := ranks[i][a.key[i]]
			rb, bOK := ranks[i][b.key[i]]
			if !aOK {
				ra = len(ranks[i])
			}
			if !bOK {
				rb = len(ranks[i])
			}
			if ra != rb {
				return ra < rb
			}
		}
		return a.firstSeen < b.firstSeen
	})
}

func keyOf(r survey.CleanRecord, groupBy []survey.Field) []string {
	key := make([]string, len(groupBy))
	for i, f := range groupBy {
		v, _ := r.Value(f)
		key[i] = v
	}
	return key
}

// joinKey builds a collision-safe map key from the tuple components.
func joinKey(key []string) string {
	id := ""
	for _, k := range key {
		id += fmt.Sprintf("%d:%s|", len(k), k)
	}
	return id
}
