package aggregate

import (
	"cmp"
	"math"
	"slices"

	"go-safetyboard/types"
)

// Field picks the category an incident is grouped under.
type Field func(types.Incident) string

// Value picks the number an incident contributes to a sum.
type Value func(types.Incident) float64

// CountBy counts incidents per category in first-seen order. Empty categories
// are counted under "기타".
func CountBy(incidents []types.Incident, field Field) []types.CategoryValue {
	return SumBy(incidents, field, func(types.Incident) float64 { return 1 })
}

// SumBy sums value per category in first-seen order. Empty categories are summed
// under "기타".
func SumBy(incidents []types.Incident, field Field, value Value) []types.CategoryValue {
	out := []types.CategoryValue{}
	index := make(map[string]int)
	for _, inc := range incidents {
		cat := field(inc)
		if cat == "" {
			cat = types.Other
		}
		i, ok := index[cat]
		if !ok {
			i = len(out)
			index[cat] = i
			out = append(out, types.CategoryValue{Category: cat})
		}
		out[i].Value += value(inc)
	}
	return out
}

// SortDesc returns a copy sorted by value, largest first. Ties keep their order.
func SortDesc(values []types.CategoryValue) []types.CategoryValue {
	out := slices.Clone(values)
	slices.SortStableFunc(out, func(a, b types.CategoryValue) int {
		return cmp.Compare(b.Value, a.Value)
	})
	return out
}

// SortAsc returns a copy sorted by value, smallest first. Ties keep their order.
func SortAsc(values []types.CategoryValue) []types.CategoryValue {
	out := slices.Clone(values)
	slices.SortStableFunc(out, func(a, b types.CategoryValue) int {
		return cmp.Compare(a.Value, b.Value)
	})
	return out
}

// TopN keeps the n largest values, largest first.
func TopN(values []types.CategoryValue, n int) []types.CategoryValue {
	sorted := SortDesc(values)
	if n < 0 {
		n = 0
	}
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
