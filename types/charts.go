package types

// CategoryValue is one bar/slice of a single-dimension chart.
type CategoryValue struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
	Color    string  `json:"color,omitempty"`
}

// MonthPoint is one calendar month of the monthly trend chart, across all years.
type MonthPoint struct {
	Month      int    `json:"month"` // 1-12
	Name       string `json:"name"`
	Accidents  int    `json:"accidents"`
	Fatalities int    `json:"fatalities"`
}

// YearMonthPoint is one bucket of the year-month time series.
type YearMonthPoint struct {
	Month string `json:"month"` // YYYY-MM
	Count int    `json:"count"`
}

type MatrixCell struct {
	Cause       string `json:"cause"`
	Result      string `json:"result"`
	ResultLabel string `json:"resultLabel"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Count       int    `json:"z"`
}

// CauseResultMatrix is the sparse cause x result count grid.
type CauseResultMatrix struct {
	Cells    []MatrixCell `json:"cells"`
	MaxCount int          `json:"maxCount"`
}

type BubblePoint struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        int     `json:"z"`
	Name     string  `json:"name"`
	MainType string  `json:"mainType"`
	Color    string  `json:"fill"`
	Active   bool    `json:"isActive"`
}

// BubbleChart is the construction main/sub cluster layout.
type BubbleChart struct {
	Bubbles  []BubblePoint `json:"bubbles"`
	MaxCount int           `json:"maxCount"`
}
