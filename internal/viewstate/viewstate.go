// Package viewstate decodes the dashboard's query parameters into the
// filter and selection snapshots the domain expects. The shell owns the
// state; every request rebuilds it from scratch.
package viewstate

import (
	"net/url"

	"github.com/spf13/cast"

	"failboard/domain/survey"
	"failboard/domain/view"
)

// Query parameter grammar:
//
//	f.<field>=<value>     repeated; the accepted set for that field
//	f.<field>=__none__    an explicitly empty accepted set (exclude all)
//	freq.min / freq.max   numeric usage-frequency bounds
//	sel.<field>=<value>   repeated; the cross-chart selection
//
// A field with no f.<field> parameters at all stays unconstrained. The
// __none__ marker exists because an HTML multi-select with nothing chosen
// submits nothing, which would otherwise be indistinguishable from
// "no filter".
const NoneMarker = "__none__"

const (
	filterPrefix    = "f."
	selectionPrefix = "sel."
	freqMinParam    = "freq.min"
	freqMaxParam    = "freq.max"
)

// ParseFilter decodes FilterState from query parameters.
func ParseFilter(values url.Values) view.FilterState {
	filter := view.NewFilterState()
	for key, params := range values {
		if len(key) <= len(filterPrefix) || key[:len(filterPrefix)] != filterPrefix {
			continue
		}
		field, ok := survey.ParseField(key[len(filterPrefix):])
		if !ok {
			continue
		}
		set := view.NewValueSet()
		for _, p := range params {
			if p == NoneMarker || p == "" {
				continue
			}
			set[p] = struct{}{}
		}
		filter.Accept[field] = set
	}

	minStr, maxStr := values.Get(freqMinParam), values.Get(freqMaxParam)
	if minStr != "" || maxStr != "" {
		r := view.FrequencyRange{Min: 0, Max: 7}
		if v, err := cast.ToFloat64E(minStr); err == nil {
			r.Min = v
		}
		if v, err := cast.ToFloat64E(maxStr); err == nil {
			r.Max = v
		}
		filter.Frequency = &r
	}
	return filter
}

// ParseSelection decodes SelectionState from query parameters.
func ParseSelection(values url.Values) view.SelectionState {
	sel := make(view.SelectionState)
	for key, params := range values {
		if len(key) <= len(selectionPrefix) || key[:len(selectionPrefix)] != selectionPrefix {
			continue
		}
		field, ok := survey.ParseField(key[len(selectionPrefix):])
		if !ok {
			continue
		}
		set := view.NewValueSet()
		for _, p := range params {
			if p != "" {
				set[p] = struct{}{}
			}
		}
		if len(set) > 0 {
			sel[field] = set
		}
	}
	return sel
}

// EncodeSelection is the inverse of ParseSelection, used to build the
// click-through links that toggle a selection.
func EncodeSelection(sel view.SelectionState) url.Values {
	values := url.Values{}
	for field, set := range sel {
		for v := range set {
			values.Add(selectionPrefix+string(field), v)
		}
	}
	return values
}
