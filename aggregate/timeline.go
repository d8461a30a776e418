package aggregate

import (
	"fmt"
	"slices"
	"strconv"

	"go-safetyboard/dates"
	"go-safetyboard/types"
)

// Years shown on the annual chart, independent of the data.
const (
	FirstYear = 2019
	LastYear  = 2023
)

// AnnualCounts counts incidents per year over the fixed FirstYear..LastYear axis.
// Undated incidents and years outside the axis are skipped.
func AnnualCounts(incidents []types.Incident) []types.CategoryValue {
	out := make([]types.CategoryValue, 0, LastYear-FirstYear+1)
	for y := FirstYear; y <= LastYear; y++ {
		out = append(out, types.CategoryValue{Category: strconv.Itoa(y)})
	}

	for _, inc := range incidents {
		y, ok := dates.Year(inc.DateTime)
		if !ok || y < FirstYear || y > LastYear {
			continue
		}
		out[y-FirstYear].Value++
	}
	return out
}

// MonthlyTrend folds every year onto the 12 calendar months, counting accidents
// and summing fatalities.
func MonthlyTrend(incidents []types.Incident) []types.MonthPoint {
	out := make([]types.MonthPoint, 12)
	for i := range out {
		out[i] = types.MonthPoint{Month: i + 1, Name: fmt.Sprintf("%d월", i+1)}
	}

	for _, inc := range incidents {
		m, ok := dates.Month(inc.DateTime)
		if !ok {
			continue
		}
		out[m-1].Accidents++
		out[m-1].Fatalities += inc.Fatalities
	}
	return out
}

// MonthlySeries counts incidents per YYYY-MM, oldest first. Only months that
// have at least one dated incident appear.
func MonthlySeries(incidents []types.Incident) []types.YearMonthPoint {
	counts := make(map[string]int)
	for _, inc := range incidents {
		t, ok := dates.Resolve(inc.DateTime)
		if !ok {
			continue
		}
		counts[t.Format("2006-01")]++
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]types.YearMonthPoint, 0, len(keys))
	for _, k := range keys {
		out = append(out, types.YearMonthPoint{Month: k, Count: counts[k]})
	}
	return out
}
