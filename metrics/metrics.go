package metrics

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"go-safetyboard/types"
)

// NotAvailable is shown in place of a value that cannot be computed.
const NotAvailable = "N/A"

const noData = "데이터 없음"

// Thresholds for the secondary cards.
const (
	HighCostThreshold = 1000.0 // 억원
	HighRiskThreshold = 1.0
)

// Summary holds the headline KPI cards.
type Summary struct {
	TotalAccidents    int     `json:"totalAccidents"`
	TotalFatalities   int     `json:"totalFatalities"`
	TotalInjuries     int     `json:"totalInjuries"`
	TotalCostDamage   float64 `json:"totalCostDamage"`
	AverageCostDamage float64 `json:"averageCostDamage"`
	// AverageCostManwon is the average cost damage converted from 백만원 to 만원.
	AverageCostManwon int64 `json:"averageCostManwon"`
	// AverageRiskIndex is the mean risk index scaled by 10, or "N/A" with no incidents.
	AverageRiskIndex string `json:"averageRiskIndex"`
}

// Summarize computes the headline KPIs. Every average is 0 or "N/A" for an
// empty collection.
func Summarize(incidents []types.Incident) Summary {
	s := Summary{TotalAccidents: len(incidents), AverageRiskIndex: NotAvailable}
	if len(incidents) == 0 {
		return s
	}

	costs := make([]float64, len(incidents))
	risks := make([]float64, len(incidents))
	for i, inc := range incidents {
		s.TotalFatalities += inc.Fatalities
		s.TotalInjuries += inc.Injuries
		costs[i] = inc.CostDamage
		risks[i] = inc.RiskIndex
	}

	s.TotalCostDamage = floats.Sum(costs)
	s.AverageCostDamage = finite(stat.Mean(costs, nil))
	s.AverageCostManwon = int64(math.Round(s.AverageCostDamage * 100))
	s.AverageRiskIndex = strconv.FormatFloat(finite(stat.Mean(risks, nil))*10, 'f', 1, 64)
	return s
}

// Frequent is the winning category of a most-frequent card.
type Frequent struct {
	Name        string  `json:"name"`
	Count       int     `json:"count"`
	Share       float64 `json:"share"` // percent of the counted values
	Description string  `json:"description"`
}

// MostFrequent returns the most common value, ignoring blanks, "기타" and
// "미입력". Its share is taken over the values that were counted, not over all
// values. Ties go to the value seen first.
func MostFrequent(values []string) Frequent {
	counts := make(map[string]int)
	var order []string
	total := 0
	for _, v := range values {
		if v == "" || v == types.Other || v == types.Unset {
			continue
		}
		if _, ok := counts[v]; !ok {
			order = append(order, v)
		}
		counts[v]++
		total++
	}
	if total == 0 {
		return Frequent{Name: NotAvailable, Description: noData}
	}

	best := order[0]
	for _, v := range order[1:] {
		if counts[v] > counts[best] {
			best = v
		}
	}

	share := percent(counts[best], total)
	return Frequent{
		Name:        best,
		Count:       counts[best],
		Share:       share,
		Description: fmt.Sprintf("%d건 (%.1f%%)", counts[best], share),
	}
}

// SectorCount is the number of incidents of one project owner and its share.
type SectorCount struct {
	Count int     `json:"count"`
	Share float64 `json:"share"` // percent of all incidents
}

// SecondaryMetrics holds the second row of KPI cards.
type SecondaryMetrics struct {
	// Empty is set when there are no incidents; the other fields are then zero.
	Empty               bool        `json:"empty"`
	TopConstructionType Frequent    `json:"topConstructionType"`
	TopCause            Frequent    `json:"topCause"`
	TopWorkType         Frequent    `json:"topWorkType"`
	TopResult           Frequent    `json:"topResult"`
	PrivateSector       SectorCount `json:"privateSector"`
	PublicSector        SectorCount `json:"publicSector"`
	HighCostIncidents   int         `json:"highCostIncidents"`
	HighRiskIncidents   int         `json:"highRiskIncidents"`
}

// Secondary computes the secondary cards.
func Secondary(incidents []types.Incident) SecondaryMetrics {
	if len(incidents) == 0 {
		return SecondaryMetrics{Empty: true}
	}

	var mains, causes, works, results []string
	var private, public int
	m := SecondaryMetrics{}
	for _, inc := range incidents {
		mains = append(mains, inc.ConstructionTypeMain)
		causes = append(causes, inc.CauseMain)
		works = append(works, inc.WorkType)
		results = append(results, inc.ResultMain)

		switch inc.ProjectOwner {
		case "민간":
			private++
		case "공공":
			public++
		}
		if IsHighCost(inc.ProjectCost) {
			m.HighCostIncidents++
		}
		if inc.RiskIndex >= HighRiskThreshold {
			m.HighRiskIncidents++
		}
	}

	m.TopConstructionType = MostFrequent(mains)
	m.TopCause = MostFrequent(causes)
	m.TopWorkType = MostFrequent(works)
	m.TopResult = MostFrequent(results)
	m.PrivateSector = SectorCount{Count: private, Share: percent(private, len(incidents))}
	m.PublicSector = SectorCount{Count: public, Share: percent(public, len(incidents))}
	return m
}

// IsHighCost reports whether a project cost band is open-ended ("1,000 ~") or
// starts at HighCostThreshold or more.
func IsHighCost(projectCost string) bool {
	if strings.Contains(projectCost, "~") {
		return true
	}
	n, ok := leadingNumber(strings.ReplaceAll(projectCost, ",", ""))
	return ok && n >= HighCostThreshold
}

// leadingNumber parses the longest numeric prefix of s, ignoring leading spaces.
func leadingNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	dot := false
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' || (c == '-' || c == '+') && end == 0 {
			end++
			continue
		}
		if c == '.' && !dot {
			dot = true
			end++
			continue
		}
		break
	}
	for end > 0 {
		if n, err := strconv.ParseFloat(s[:end], 64); err == nil {
			return n, true
		}
		end--
	}
	return 0, false
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(n)/float64(total)*1000) / 10
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
