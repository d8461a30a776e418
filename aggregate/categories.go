package aggregate

import "go-safetyboard/types"

// Chart colour slots. The dashboard theme maps them to concrete colours.
const (
	ColorChart1 = "#e76e50"
	ColorChart2 = "#2a9d90"
	ColorChart3 = "#274754"
	ColorChart4 = "#e8c468"
	ColorChart5 = "#f4a462"
	ColorMuted  = "#cbd5e1"
)

// projectTypeColors is the pie palette; anything not listed is drawn muted.
var projectTypeColors = map[string]string{
	"업무시설":      ColorChart1,
	"공동주택":      ColorChart2,
	"공장":        ColorChart3,
	"교육연구시설":    ColorChart4,
	"판매시설":      ColorChart5,
	"문화 및 집회시설": ColorChart1,
	"근린생활시설":    ColorChart3,
	"자동차 관련시설":  ColorChart4,
	types.Unset:   ColorMuted,
	types.Other:   ColorChart2,
}

// ProjectTypeColor returns the palette colour of a project type.
func ProjectTypeColor(projectType string) string {
	if c, ok := projectTypeColors[projectType]; ok {
		return c
	}
	return ColorMuted
}

type radarAxis struct {
	key, label string
}

// resultRadarAxes is the fixed clockwise order of the result radar.
var resultRadarAxes = []radarAxis{
	{"끼임", "끼임"},
	{"물체에맞음", "물체에맞음"},
	{"넘어짐", "넘어짐"},
	{types.Other, types.Other},
	{"떨어짐", "떨어짐"},
	{"절단베임", "베임"},
	{"부딪힘", "부딪힘"},
}

// ConstructionSubtypeCounts counts construction sub-types, largest first.
func ConstructionSubtypeCounts(incidents []types.Incident) []types.CategoryValue {
	return SortDesc(CountBy(incidents, func(i types.Incident) string { return i.ConstructionTypeSub }))
}

// RiskIndexByWorkType sums the risk index per work type, rounded to one
// decimal, largest first.
func RiskIndexByWorkType(incidents []types.Incident) []types.CategoryValue {
	sums := SumBy(incidents,
		func(i types.Incident) string { return i.WorkType },
		func(i types.Incident) float64 { return i.RiskIndex },
	)
	for i := range sums {
		sums[i].Value = round1(sums[i].Value)
	}
	return SortDesc(sums)
}

// ObjectSubtypeTopCounts returns the n most frequent accident object sub-types,
// largest first.
func ObjectSubtypeTopCounts(incidents []types.Incident, n int) []types.CategoryValue {
	return TopN(CountBy(incidents, func(i types.Incident) string { return i.ObjectSub }), n)
}

// AccidentTypeTop picks the n most frequent accident results and lists them
// smallest first for a horizontal bar chart.
func AccidentTypeTop(incidents []types.Incident, n int) []types.CategoryValue {
	return SortAsc(TopN(CountBy(incidents, func(i types.Incident) string { return i.ResultMain }), n))
}

// CauseCounts counts main causes, smallest first.
func CauseCounts(incidents []types.Incident) []types.CategoryValue {
	return SortAsc(CountBy(incidents, func(i types.Incident) string { return i.CauseMain }))
}

// ProjectTypeShares counts project types in first-seen order and attaches each
// slice's palette colour.
func ProjectTypeShares(incidents []types.Incident) []types.CategoryValue {
	shares := CountBy(incidents, func(i types.Incident) string { return i.ProjectType })
	for i := range shares {
		shares[i].Color = ProjectTypeColor(shares[i].Category)
	}
	return shares
}

// ResultRadar counts accident results on the fixed seven-axis radar. Results
// outside the axes are not shown.
func ResultRadar(incidents []types.Incident) []types.CategoryValue {
	counts := make(map[string]float64)
	for _, inc := range incidents {
		r := inc.ResultMain
		if r == "" {
			r = types.Other
		}
		counts[r]++
	}

	out := make([]types.CategoryValue, 0, len(resultRadarAxes))
	for _, axis := range resultRadarAxes {
		out = append(out, types.CategoryValue{Category: axis.label, Value: counts[axis.key]})
	}
	return out
}
