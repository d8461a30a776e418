package aggregate

import (
	"math"

	"go-safetyboard/filter"
	"go-safetyboard/types"
)

type bubbleCenter struct {
	x, y, radius float64
	color        string
}

// bubbleCenters places each main construction type on the unit square.
var bubbleCenters = map[string]bubbleCenter{
	"건축":        {x: 0.35, y: 0.35, radius: 0.22, color: ColorChart1},
	"토목":        {x: 0.75, y: 0.35, radius: 0.13, color: ColorChart2},
	"설비":        {x: 0.35, y: 0.75, radius: 0.13, color: ColorChart3},
	types.Other: {x: 0.75, y: 0.75, radius: 0.13, color: ColorChart5},
}

// ovalRatio flattens the ring of sub-types vertically.
const ovalRatio = 0.8

// RiskBubbles lays the construction sub-types out in a ring around their main
// type's centre, sized by incident count. Sub-types without incidents are left
// out. Bubbles whose sub-type is in active are flagged.
func RiskBubbles(incidents []types.Incident, active []string) types.BubbleChart {
	counts := make(map[string]int)
	for _, inc := range incidents {
		if inc.ConstructionTypeSub == "" {
			continue
		}
		counts[inc.ConstructionTypeSub]++
	}

	activeSet := make(map[string]struct{}, len(active))
	for _, a := range active {
		activeSet[a] = struct{}{}
	}

	chart := types.BubbleChart{Bubbles: []types.BubblePoint{}}
	for _, c := range counts {
		chart.MaxCount = max(chart.MaxCount, c)
	}

	for _, cat := range filter.Taxonomy() {
		center, ok := bubbleCenters[cat.Main]
		if !ok {
			continue
		}
		step := 2 * math.Pi / float64(max(len(cat.Subs), 1))

		for i, sub := range cat.Subs {
			count := counts[sub]
			if count == 0 {
				continue
			}
			angle := step * float64(i)
			_, isActive := activeSet[sub]
			chart.Bubbles = append(chart.Bubbles, types.BubblePoint{
				X:        center.x + center.radius*math.Cos(angle),
				Y:        center.y + center.radius*math.Sin(angle)*ovalRatio,
				Z:        count,
				Name:     sub,
				MainType: cat.Main,
				Color:    center.color,
				Active:   isActive,
			})
		}
	}
	return chart
}
