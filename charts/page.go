// Package charts renders a dashboard view as a standalone echarts HTML page.
package charts

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"go-safetyboard/aggregate"
	"go-safetyboard/dashboard"
	"go-safetyboard/filter"
	"go-safetyboard/types"
)

const (
	chartWidth  = "100%"
	chartHeight = "420px"
)

var matrixColors = []string{"#f1f5f9", "#fde68a", "#f4a462", "#e76e50", "#b91c1c"}

// Page builds the echarts page for a view. title heads the page; subtitle is
// shown under the KPI chart together with the incident counts.
func Page(v dashboard.View, title, subtitle string) *components.Page {
	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(
		summaryBar(v, title, subtitle),
		annualBar(v),
		monthlyLine(v),
		seriesLine(v),
		subtypeBar(v),
		riskBar(v),
		objectBar(v),
		accidentTypeBar(v),
		causeBar(v),
		projectTypePie(v),
		resultRadar(v),
		matrixScatter(v),
		bubbleScatter(v),
	)
	return page
}

// Render writes the page for a view to w.
func Render(w io.Writer, v dashboard.View, title, subtitle string) error {
	if err := Page(v, title, subtitle).Render(w); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	return nil
}

func globals(title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func summaryBar(v dashboard.View, title, subtitle string) *charts.Bar {
	s := v.Summary
	status := fmt.Sprintf("%d / %d건 · 평균 위험지수 %s", v.Matched, v.Total, s.AverageRiskIndex)
	if v.Loading {
		status = "데이터를 불러오는 중입니다"
	}
	if subtitle != "" {
		status = subtitle + " · " + status
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(globals(title, status)...)
	bar.SetXAxis([]string{"사고", "사망자", "부상자"}).
		AddSeries("건수", []opts.BarData{
			{Value: s.TotalAccidents},
			{Value: s.TotalFatalities},
			{Value: s.TotalInjuries},
		}, charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}))
	return bar
}

func categoryBar(title string, values []types.CategoryValue, color string) *charts.Bar {
	x := make([]string, len(values))
	y := make([]opts.BarData, len(values))
	for i, cv := range values {
		x[i] = cv.Category
		y[i] = opts.BarData{Value: cv.Value}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(globals(title, "")...)
	bar.SetXAxis(x).
		AddSeries(title, y,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)
	return bar
}

func annualBar(v dashboard.View) *charts.Bar {
	return categoryBar("연도별 사고 건수", v.Charts.Annual, aggregate.ColorChart1)
}

func subtypeBar(v dashboard.View) *charts.Bar {
	return categoryBar("공종별 사고 건수", v.Charts.ConstructionSubtypes, aggregate.ColorChart2)
}

func riskBar(v dashboard.View) *charts.Bar {
	return categoryBar("작업별 위험지수 합계", v.Charts.RiskByWorkType, aggregate.ColorChart3)
}

func objectBar(v dashboard.View) *charts.Bar {
	return categoryBar("사고객체 상위", v.Charts.ObjectSubtypeTop, aggregate.ColorChart4)
}

func accidentTypeBar(v dashboard.View) *charts.Bar {
	return categoryBar("사고유형 상위", v.Charts.AccidentTypeTop, aggregate.ColorChart5)
}

func causeBar(v dashboard.View) *charts.Bar {
	return categoryBar("사고원인", v.Charts.Causes, aggregate.ColorChart1)
}

func monthlyLine(v dashboard.View) *charts.Line {
	x := make([]string, len(v.Charts.MonthlyTrend))
	accidents := make([]opts.LineData, len(v.Charts.MonthlyTrend))
	fatalities := make([]opts.LineData, len(v.Charts.MonthlyTrend))
	for i, p := range v.Charts.MonthlyTrend {
		x[i] = p.Name
		accidents[i] = opts.LineData{Value: p.Accidents}
		fatalities[i] = opts.LineData{Value: p.Fatalities}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(append(globals("월별 사고 추이", ""),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}))...)
	line.SetXAxis(x).
		AddSeries("사고", accidents, charts.WithItemStyleOpts(opts.ItemStyle{Color: aggregate.ColorChart1})).
		AddSeries("사망자", fatalities, charts.WithItemStyleOpts(opts.ItemStyle{Color: aggregate.ColorChart3}))
	return line
}

func seriesLine(v dashboard.View) *charts.Line {
	x := make([]string, len(v.Charts.MonthlySeries))
	y := make([]opts.LineData, len(v.Charts.MonthlySeries))
	for i, p := range v.Charts.MonthlySeries {
		x[i] = p.Month
		y[i] = opts.LineData{Value: p.Count}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(globals("연월별 사고 건수", "")...)
	line.SetXAxis(x).AddSeries("사고", y, charts.WithItemStyleOpts(opts.ItemStyle{Color: aggregate.ColorChart2}))
	return line
}

func projectTypePie(v dashboard.View) *charts.Pie {
	data := make([]opts.PieData, len(v.Charts.ProjectTypes))
	for i, cv := range v.Charts.ProjectTypes {
		data[i] = opts.PieData{Name: cv.Category, Value: cv.Value, ItemStyle: &opts.ItemStyle{Color: cv.Color}}
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(globals("시설물 종류", "")...)
	pie.AddSeries("시설물", data, charts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}))
	return pie
}

func resultRadar(v dashboard.View) *charts.Radar {
	top := 1.0
	for _, cv := range v.Charts.ResultRadar {
		top = max(top, cv.Value)
	}
	indicators := make([]*opts.Indicator, len(v.Charts.ResultRadar))
	values := make([]float64, len(v.Charts.ResultRadar))
	for i, cv := range v.Charts.ResultRadar {
		indicators[i] = &opts.Indicator{Name: cv.Category, Max: float32(top)}
		values[i] = cv.Value
	}

	radar := charts.NewRadar()
	radar.SetGlobalOptions(append(globals("사고결과 분포", ""),
		charts.WithRadarComponentOpts(opts.RadarComponent{Indicator: indicators}))...)
	radar.AddSeries("사고결과", []opts.RadarData{{Name: "사고결과", Value: values}},
		charts.WithItemStyleOpts(opts.ItemStyle{Color: aggregate.ColorChart1}))
	return radar
}

// matrixScatter draws the cause x result grid as coloured points, the colour
// scaled to the cell count.
func matrixScatter(v dashboard.View) *charts.Scatter {
	m := v.Charts.CauseResultMatrix
	data := make([]opts.ScatterData, len(m.Cells))
	for i, c := range m.Cells {
		data[i] = opts.ScatterData{Name: c.Cause + " / " + c.ResultLabel, Value: []interface{}{c.X, c.Y, c.Count}}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(append(globals("원인 × 결과", axisLegend()),
		charts.WithXAxisOpts(opts.XAxis{Min: -0.5, Max: len(aggregate.MatrixCauses) - 1, Name: "원인"}),
		charts.WithYAxisOpts(opts.YAxis{Min: -0.5, Max: len(aggregate.MatrixResults) - 1, Name: "결과"}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(max(m.MaxCount, 1)),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: matrixColors},
		}),
	)...)
	scatter.AddSeries("원인×결과", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 28}))
	return scatter
}

// axisLegend spells out the matrix axis indices, since both axes are numeric.
func axisLegend() string {
	s := "x:"
	for i, c := range aggregate.MatrixCauses {
		s += " " + strconv.Itoa(i) + "=" + c
	}
	s += " / y:"
	for i, r := range aggregate.MatrixResults {
		s += " " + strconv.Itoa(i) + "=" + r
	}
	return s
}

func bubbleScatter(v dashboard.View) *charts.Scatter {
	bubbles := v.Charts.RiskBubbles

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(append(globals("공종별 위험 분포", ""),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: 0, Max: 1}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 1}),
	)...)

	for _, cat := range filter.Taxonomy() {
		var data []opts.ScatterData
		color := ""
		for _, b := range bubbles.Bubbles {
			if b.MainType != cat.Main {
				continue
			}
			color = b.Color
			size := 10 + 40*float64(b.Z)/float64(max(bubbles.MaxCount, 1))
			if b.Active {
				size += 10
			}
			data = append(data, opts.ScatterData{
				Name:       b.Name,
				Value:      []interface{}{b.X, b.Y, b.Z},
				SymbolSize: int(size),
			})
		}
		if len(data) == 0 {
			continue
		}
		scatter.AddSeries(cat.Main, data, charts.WithItemStyleOpts(opts.ItemStyle{Color: color}))
	}
	return scatter
}
