package dashboard

import (
	"go-safetyboard/aggregate"
	"go-safetyboard/filter"
	"go-safetyboard/metrics"
	"go-safetyboard/types"
)

// Chart sizes used by the dashboard.
const (
	ObjectSubtypeTopN = 9
	AccidentTypeTopN  = 9
)

// Charts holds every chart series of one view.
type Charts struct {
	Annual               []types.CategoryValue   `json:"annual"`
	MonthlyTrend         []types.MonthPoint      `json:"monthlyTrend"`
	MonthlySeries        []types.YearMonthPoint  `json:"monthlySeries"`
	ConstructionSubtypes []types.CategoryValue   `json:"constructionSubtypes"`
	RiskByWorkType       []types.CategoryValue   `json:"riskByWorkType"`
	ObjectSubtypeTop     []types.CategoryValue   `json:"objectSubtypeTop"`
	AccidentTypeTop      []types.CategoryValue   `json:"accidentTypeTop"`
	Causes               []types.CategoryValue   `json:"causes"`
	ProjectTypes         []types.CategoryValue   `json:"projectTypes"`
	ResultRadar          []types.CategoryValue   `json:"resultRadar"`
	CauseResultMatrix    types.CauseResultMatrix `json:"causeResultMatrix"`
	RiskBubbles          types.BubbleChart       `json:"riskBubbles"`
}

// View is everything the dashboard shows for one filter state.
type View struct {
	// Loading is true until the first load of the collection has finished.
	Loading   bool                     `json:"loading"`
	Filters   types.FilterState        `json:"filters"`
	Total     int                      `json:"total"`
	Matched   int                      `json:"matched"`
	Summary   metrics.Summary          `json:"summary"`
	Secondary metrics.SecondaryMetrics `json:"secondary"`
	Charts    Charts                   `json:"charts"`
}

// ComputeView filters incidents and runs every reducer over the result.
func ComputeView(incidents []types.Incident, state types.FilterState) View {
	filtered := filter.Apply(incidents, state)

	return View{
		Filters:   state,
		Total:     len(incidents),
		Matched:   len(filtered),
		Summary:   metrics.Summarize(filtered),
		Secondary: metrics.Secondary(filtered),
		Charts: Charts{
			Annual:               aggregate.AnnualCounts(filtered),
			MonthlyTrend:         aggregate.MonthlyTrend(filtered),
			MonthlySeries:        aggregate.MonthlySeries(filtered),
			ConstructionSubtypes: aggregate.ConstructionSubtypeCounts(filtered),
			RiskByWorkType:       aggregate.RiskIndexByWorkType(filtered),
			ObjectSubtypeTop:     aggregate.ObjectSubtypeTopCounts(filtered, ObjectSubtypeTopN),
			AccidentTypeTop:      aggregate.AccidentTypeTop(filtered, AccidentTypeTopN),
			Causes:               aggregate.CauseCounts(filtered),
			ProjectTypes:         aggregate.ProjectTypeShares(filtered),
			ResultRadar:          aggregate.ResultRadar(filtered),
			CauseResultMatrix:    aggregate.CauseResultMatrix(filtered),
			RiskBubbles:          aggregate.RiskBubbles(filtered, state.ConstructionTypeSub),
		},
	}
}
