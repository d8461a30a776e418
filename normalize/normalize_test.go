package normalize

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-safetyboard/types"
)

func TestFromSpreadsheetRow_FullRow(t *testing.T) {
	row := map[string]any{
		"사건_Code":         "C-2023-001",
		"사고명":             "거푸집 해체 중 떨어짐",
		"사고일시":            45292.5,
		"사업특성_구분":         "공공",
		"사업특성_용도":         "교육연구시설",
		"사업특성_공사비(억원미만)":  "1,000 ~",
		"공종_대분류":          "1 건축",
		"공종_중분류":          "12 철근콘크리트공사",
		"공종_작업":           "거푸집",
		"사고객체_대분류":        "가시설",
		"사고객체_중분류":        "거푸집",
		"사고원인-대분류":        "시공오류",
		"사고원인-중분류":        "작업자 부주의",
		"사고원인-소분류":        "안전수칙 미준수",
		"사고원인_상세":         "안전대 미착용",
		"사고결과_대분류":        "떨어짐",
		"사고결과_상세":         "추락",
		"사고피해_사망자수":       1.0,
		"사고피해_부상자수":       "2",
		"금액(백만원)":         12.5,
		"사고위험지수":          0.42,
	}

	got := FromSpreadsheetRow(row)

	assert.Equal(t, "C-2023-001", got.ID)
	assert.Equal(t, "거푸집 해체 중 떨어짐", got.Name)
	assert.Equal(t, types.SerialDate(45292.5), got.DateTime)
	assert.Equal(t, "공공", got.ProjectOwner)
	assert.Equal(t, "1,000 ~", got.ProjectCost)
	assert.Equal(t, "건축", got.ConstructionTypeMain)
	assert.Equal(t, "철근콘크리트공사", got.ConstructionTypeSub)
	assert.Equal(t, "안전대 미착용", got.CauseDetail)
	assert.Equal(t, 1, got.Fatalities)
	assert.Equal(t, 2, got.Injuries)
	assert.InDelta(t, 12.5, got.CostDamage, 1e-9)
	assert.InDelta(t, 0.42, got.RiskIndex, 1e-9)
}

func TestFromSpreadsheetRow_EmptyRowUsesDefaults(t *testing.T) {
	got := FromSpreadsheetRow(map[string]any{})

	assert.True(t, strings.HasPrefix(got.ID, "generated-"))
	assert.Equal(t, "", got.Name)
	assert.True(t, got.DateTime.IsZero())
	for _, v := range []string{
		got.ProjectOwner, got.ProjectType, got.ProjectCost,
		got.ConstructionTypeMain, got.ConstructionTypeSub, got.WorkType,
		got.ObjectMain, got.ObjectSub, got.CauseMain, got.CauseMiddle,
		got.CauseSub, got.ResultMain,
	} {
		assert.Equal(t, types.Other, v)
	}
	assert.Equal(t, "", got.CauseDetail)
	assert.Equal(t, "", got.ResultDetail)
	assert.Zero(t, got.Fatalities)
	assert.Zero(t, got.Injuries)
	assert.Zero(t, got.CostDamage)
	assert.Zero(t, got.RiskIndex)
}

func TestGenerateID_Unique(t *testing.T) {
	a := FromSpreadsheetRow(map[string]any{})
	b := FromSpreadsheetRow(map[string]any{})
	assert.NotEqual(t, a.ID, b.ID)
}

func TestFromDocument(t *testing.T) {
	data := map[string]any{
		"id":                   "ignored",
		"name":                 "굴착기 협착",
		"dateTime":             "2023.12.31.",
		"constructionTypeMain": "토목",
		"constructionTypeSub":  "토공사",
		"fatalities":           int64(2),
		"riskIndex":            "abc",
	}

	got := FromDocument("doc-1", data)

	assert.Equal(t, "doc-1", got.ID)
	assert.Equal(t, types.TextDate("2023.12.31."), got.DateTime)
	assert.Equal(t, "토목", got.ConstructionTypeMain)
	assert.Equal(t, "토공사", got.ConstructionTypeSub)
	assert.Equal(t, 2, got.Fatalities)
	assert.Zero(t, got.RiskIndex)
	assert.Equal(t, types.Other, got.CauseMain)
}

func TestFromDocument_ZeroValuesAreMissing(t *testing.T) {
	got := FromDocument("x", map[string]any{
		"projectOwner": 0.0,
		"causeMain":    int64(0),
		"dateTime":     0.0,
	})

	assert.Equal(t, types.Other, got.ProjectOwner)
	assert.Equal(t, types.Other, got.CauseMain)
	assert.Equal(t, types.TextDate(""), got.DateTime)
	assert.True(t, got.DateTime.IsZero())
}

func TestFromDocument_FallsBackToDataID(t *testing.T) {
	got := FromDocument("", map[string]any{"id": "from-data"})
	assert.Equal(t, "from-data", got.ID)
}

func TestNumber(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"nil", nil, 0},
		{"float", 3.5, 3.5},
		{"int", 4, 4},
		{"int64", int64(7), 7},
		{"numeric string", " 12 ", 12},
		{"empty string", "", 0},
		{"garbage string", "n/a", 0},
		{"true", true, 1},
		{"false", false, 0},
		{"NaN", math.NaN(), 0},
		{"infinite", math.Inf(1), 0},
		{"negative clamped", -3.0, 0},
		{"unsupported", []int{1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Number(tt.in))
		})
	}
}

func TestText(t *testing.T) {
	assert.Equal(t, "기타", Text(nil, "기타"))
	assert.Equal(t, "기타", Text("   ", "기타"))
	assert.Equal(t, "공공", Text(" 공공 ", "기타"))
	assert.Equal(t, "500", Text(500.0, "기타"))
	assert.Equal(t, "42", Text(42, ""))
	assert.Equal(t, "기타", Text(0.0, "기타"))
	assert.Equal(t, "기타", Text(int64(0), "기타"))
	assert.Equal(t, "기타", Text(math.NaN(), "기타"))
	assert.Equal(t, "-1", Text(int64(-1), "기타"))
}

func TestConstructionType(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"1 건축", "건축"},
		{"12철골공사", "철골공사"},
		{"건축", "건축"},
		{"  ", types.Other},
		{"7 ", types.Other},
		{nil, types.Other},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ConstructionType(tt.in))
	}
}

func TestDate(t *testing.T) {
	assert.Equal(t, types.SerialDate(45000), Date(45000.0))
	assert.Equal(t, types.SerialDate(45000), Date(45000))
	assert.Equal(t, types.TextDate("45000"), Date("45000"), "numeric strings stay text")
	assert.True(t, Date(nil).IsZero())
	assert.Equal(t, types.TextDate(""), Date(0.0))
	assert.Equal(t, types.TextDate(""), Date(int64(0)))
	assert.Equal(t, types.TextDate(""), Date(math.NaN()))
}

func TestSpreadsheetColumns(t *testing.T) {
	cols := SpreadsheetColumns()
	require.Len(t, cols, 21)
	assert.Equal(t, "사건_Code", cols[0])
	assert.Contains(t, cols, "금액(백만원)")
}
