package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"go-safetyboard/types"
)

// leadingOrdinalRe matches the numbering the export puts in front of construction types,
// e.g. "3 철골공사" -> "철골공사".
var leadingOrdinalRe = regexp.MustCompile(`^[0-9]+\s*`)

// fieldKeys names the raw column for each Incident field.
type fieldKeys struct {
	id, name, dateTime                            string
	projectOwner, projectType, projectCost        string
	constructionTypeMain, constructionTypeSub     string
	workType, objectMain, objectSub               string
	causeMain, causeMiddle, causeSub, causeDetail string
	resultMain, resultDetail                      string
	fatalities, injuries, costDamage, riskIndex   string
}

// documentKeys are the camelCase fields stored in Firestore.
var documentKeys = fieldKeys{
	id: "id", name: "name", dateTime: "dateTime",
	projectOwner: "projectOwner", projectType: "projectType", projectCost: "projectCost",
	constructionTypeMain: "constructionTypeMain", constructionTypeSub: "constructionTypeSub",
	workType: "workType", objectMain: "objectMain", objectSub: "objectSub",
	causeMain: "causeMain", causeMiddle: "causeMiddle", causeSub: "causeSub", causeDetail: "causeDetail",
	resultMain: "resultMain", resultDetail: "resultDetail",
	fatalities: "fatalities", injuries: "injuries", costDamage: "costDamage", riskIndex: "riskIndex",
}

// SpreadsheetKeys are the column headers of the accident export.
var spreadsheetKeys = fieldKeys{
	id: "사건_Code", name: "사고명", dateTime: "사고일시",
	projectOwner: "사업특성_구분", projectType: "사업특성_용도", projectCost: "사업특성_공사비(억원미만)",
	constructionTypeMain: "공종_대분류", constructionTypeSub: "공종_중분류",
	workType: "공종_작업", objectMain: "사고객체_대분류", objectSub: "사고객체_중분류",
	causeMain: "사고원인-대분류", causeMiddle: "사고원인-중분류", causeSub: "사고원인-소분류", causeDetail: "사고원인_상세",
	resultMain: "사고결과_대분류", resultDetail: "사고결과_상세",
	fatalities: "사고피해_사망자수", injuries: "사고피해_부상자수", costDamage: "금액(백만원)", riskIndex: "사고위험지수",
}

// SpreadsheetColumns returns every column header the spreadsheet mapping reads.
func SpreadsheetColumns() []string {
	k := spreadsheetKeys
	return []string{
		k.id, k.name, k.dateTime, k.projectOwner, k.projectType, k.projectCost,
		k.constructionTypeMain, k.constructionTypeSub, k.workType, k.objectMain, k.objectSub,
		k.causeMain, k.causeMiddle, k.causeSub, k.causeDetail, k.resultMain, k.resultDetail,
		k.fatalities, k.injuries, k.costDamage, k.riskIndex,
	}
}

// FromDocument builds an Incident from a Firestore document. The document ID wins
// over any "id" field in the data.
func FromDocument(docID string, data map[string]any) types.Incident {
	incident := build(data, documentKeys)
	if docID != "" {
		incident.ID = docID
	}
	return incident
}

// FromSpreadsheetRow builds an Incident from one row of the accident export.
func FromSpreadsheetRow(raw map[string]any) types.Incident {
	return build(raw, spreadsheetKeys)
}

func build(raw map[string]any, k fieldKeys) types.Incident {
	id := Text(raw[k.id], "")
	if id == "" {
		id = GenerateID()
	}

	return types.Incident{
		ID:                   id,
		Name:                 Text(raw[k.name], ""),
		DateTime:             Date(raw[k.dateTime]),
		ProjectOwner:         Text(raw[k.projectOwner], types.Other),
		ProjectType:          Text(raw[k.projectType], types.Other),
		ProjectCost:          Text(raw[k.projectCost], types.Other),
		ConstructionTypeMain: ConstructionType(raw[k.constructionTypeMain]),
		ConstructionTypeSub:  ConstructionType(raw[k.constructionTypeSub]),
		WorkType:             Text(raw[k.workType], types.Other),
		ObjectMain:           Text(raw[k.objectMain], types.Other),
		ObjectSub:            Text(raw[k.objectSub], types.Other),
		CauseMain:            Text(raw[k.causeMain], types.Other),
		CauseMiddle:          Text(raw[k.causeMiddle], types.Other),
		CauseSub:             Text(raw[k.causeSub], types.Other),
		CauseDetail:          Text(raw[k.causeDetail], ""),
		ResultMain:           Text(raw[k.resultMain], types.Other),
		ResultDetail:         Text(raw[k.resultDetail], ""),
		Fatalities:           int(Number(raw[k.fatalities])),
		Injuries:             int(Number(raw[k.injuries])),
		CostDamage:           Number(raw[k.costDamage]),
		RiskIndex:            Number(raw[k.riskIndex]),
	}
}

// GenerateID synthesizes an id for records the source did not key. It is unique
// within a process but not stable across reloads.
func GenerateID() string {
	return "generated-" + uuid.NewString()
}

// numeric reports the value of v when it holds a number.
func numeric(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	}
	return 0, false
}

// falsyNumber reports whether v is a numeric zero or NaN. Such values count as
// missing in text and date fields.
func falsyNumber(v any) bool {
	f, ok := numeric(v)
	return ok && (f == 0 || math.IsNaN(f))
}

// Text returns v as a trimmed string, or def when v is missing or blank. A
// numeric zero or NaN also yields def.
func Text(v any, def string) string {
	if falsyNumber(v) {
		return def
	}
	var s string
	switch val := v.(type) {
	case nil:
		return def
	case string:
		s = val
	case fmt.Stringer:
		s = val.String()
	case float64:
		s = strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if !val {
			return def
		}
		s = "true"
	default:
		s = fmt.Sprint(val)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}

// Number coerces v the lenient way: missing, non-numeric, non-finite and zero all
// become 0. Negative values are clamped to 0 since every numeric field is a count or
// an amount.
func Number(v any) float64 {
	var f float64
	switch val := v.(type) {
	case nil:
		return 0
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int32:
		f = float64(val)
	case int64:
		f = float64(val)
	case bool:
		if val {
			f = 1
		}
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// ConstructionType strips the leading ordinal from a construction type label.
func ConstructionType(v any) string {
	s := Text(v, "")
	if s == "" {
		return types.Other
	}
	cleaned := strings.TrimSpace(leadingOrdinalRe.ReplaceAllString(s, ""))
	if cleaned == "" {
		return types.Other
	}
	return cleaned
}

// Date keeps numbers as spreadsheet serials and everything else as text. A zero
// or NaN number is an absent date.
func Date(v any) types.RawDate {
	if f, ok := numeric(v); ok {
		if f == 0 || math.IsNaN(f) {
			return types.TextDate("")
		}
		return types.SerialDate(f)
	}
	if val, ok := v.(types.RawDate); ok {
		return val
	}
	return types.TextDate(Text(v, ""))
}
