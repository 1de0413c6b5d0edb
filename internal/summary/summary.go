// Package summary computes the descriptive statistics behind the dashboard's
// usage-intensity and category-balance panels.
package summary

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"failboard/domain/survey"
	"failboard/domain/view"
)

// GroupSummary describes frequency_numeric (uses per week) within one group.
type GroupSummary struct {
	Group  string  `json:"group"`
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
}

// Frequency summarizes usage frequency per value of the grouping field, in
// the field's display order. Groups that end up empty after filtering are
// skipped; a caller rendering them shows "no data" instead.
func Frequency(records []survey.CleanRecord, filter view.FilterState, groupField survey.Field) []GroupSummary {
	samples := make(map[string][]float64)
	var order []string
	for _, r := range records {
		if !filter.Pass(r) {
			continue
		}
		v, ok := r.Value(groupField)
		if !ok {
			continue
		}
		if _, seen := samples[v]; !seen {
			order = append(order, v)
		}
		samples[v] = append(samples[v], r.FrequencyNumeric)
	}

	if domain := survey.Domain(groupField); domain != nil {
		rank := make(map[string]int, len(domain))
		for i, v := range domain {
			rank[v] = i
		}
		sort.SliceStable(order, func(i, j int) bool {
			ri, iOK := rank[order[i]]
			rj, jOK := rank[order[j]]
			if !iOK {
				ri = len(rank)
			}
			if !jOK {
				rj = len(rank)
			}
			return ri < rj
		})
	}

	out := make([]GroupSummary, 0, len(order))
	for _, group := range order {
		data := samples[group]
		mean, _ := stats.Mean(data)
		median, _ := stats.Median(data)
		stdDev, _ := stats.StandardDeviation(data)
		q1, _ := stats.Percentile(data, 25)
		q3, _ := stats.Percentile(data, 75)
		out = append(out, GroupSummary{
			Group:  group,
			N:      len(data),
			Mean:   mean,
			Median: median,
			StdDev: stdDev,
			Q1:     q1,
			Q3:     q3,
		})
	}
	return out
}

// Balance reports how evenly a categorical field's values are distributed
// among the filtered records, as Shannon entropy normalized to [0,1]. One
// dominant value scores near 0, a uniform spread scores 1. Zero or one
// distinct values define balance 0.
func Balance(records []survey.CleanRecord, filter view.FilterState, field survey.Field) float64 {
	counts := make(map[string]int)
	total := 0
	for _, r := range records {
		if !filter.Pass(r) {
			continue
		}
		if v, ok := r.Value(field); ok {
			counts[v]++
			total++
		}
	}
	if total == 0 || len(counts) < 2 {
		return 0
	}

	probs := make([]float64, 0, len(counts))
	for _, c := range counts {
		probs = append(probs, float64(c)/float64(total))
	}
	return stat.Entropy(probs) / math.Log(float64(len(counts)))
}
