package types

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Other is the fallback value for every categorical field.
const Other = "기타"

// Unset marks a value the source spreadsheet left blank on purpose.
const Unset = "미입력"

// Incident is one normalized accident record stored in Firestore
type Incident struct {
	ID                   string  `firestore:"id" json:"id"`
	Name                 string  `firestore:"name" json:"name"`
	DateTime             RawDate `firestore:"dateTime" json:"dateTime"`
	ProjectOwner         string  `firestore:"projectOwner" json:"projectOwner"` // '민간' or '공공'
	ProjectType          string  `firestore:"projectType" json:"projectType"`
	ProjectCost          string  `firestore:"projectCost" json:"projectCost"` // '50', '500', '1000', '1,000 ~'
	ConstructionTypeMain string  `firestore:"constructionTypeMain" json:"constructionTypeMain"`
	ConstructionTypeSub  string  `firestore:"constructionTypeSub" json:"constructionTypeSub"`
	WorkType             string  `firestore:"workType" json:"workType"`
	ObjectMain           string  `firestore:"objectMain" json:"objectMain"`
	ObjectSub            string  `firestore:"objectSub" json:"objectSub"`
	CauseMain            string  `firestore:"causeMain" json:"causeMain"`
	CauseMiddle          string  `firestore:"causeMiddle" json:"causeMiddle"`
	CauseSub             string  `firestore:"causeSub" json:"causeSub"`
	CauseDetail          string  `firestore:"causeDetail" json:"causeDetail"`
	ResultMain           string  `firestore:"resultMain" json:"resultMain"`
	ResultDetail         string  `firestore:"resultDetail" json:"resultDetail"`
	Fatalities           int     `firestore:"fatalities" json:"fatalities"`
	Injuries             int     `firestore:"injuries" json:"injuries"`
	CostDamage           float64 `firestore:"costDamage" json:"costDamage"` // In 백만원
	RiskIndex            float64 `firestore:"riskIndex" json:"riskIndex"`
}

// Field returns the incident's value for a filter key. Unknown keys return "".
func (i Incident) Field(key FilterKey) string {
	switch key {
	case KeyProjectOwner:
		return i.ProjectOwner
	case KeyProjectType:
		return i.ProjectType
	case KeyConstructionTypeMain:
		return i.ConstructionTypeMain
	case KeyConstructionTypeSub:
		return i.ConstructionTypeSub
	case KeyObjectMain:
		return i.ObjectMain
	case KeyCauseMain:
		return i.CauseMain
	case KeyResultMain:
		return i.ResultMain
	}
	return ""
}

// RawDate is the unresolved dateTime column. Spreadsheet exports store a serial
// day number, hand-entered rows store text like "2023.12.31.".
type RawDate struct {
	Serial   float64
	Text     string
	IsSerial bool
}

// SerialDate wraps a spreadsheet serial day number.
func SerialDate(serial float64) RawDate {
	return RawDate{Serial: serial, IsSerial: true}
}

// TextDate wraps a textual date.
func TextDate(text string) RawDate {
	return RawDate{Text: text}
}

// IsZero reports whether no date value was provided at all.
func (d RawDate) IsZero() bool {
	return !d.IsSerial && d.Text == ""
}

func (d RawDate) String() string {
	if d.IsSerial {
		return strconv.FormatFloat(d.Serial, 'f', -1, 64)
	}
	return d.Text
}

// MarshalJSON writes serials back as numbers and text as strings.
func (d RawDate) MarshalJSON() ([]byte, error) {
	if d.IsSerial {
		return json.Marshal(d.Serial)
	}
	return json.Marshal(d.Text)
}

func (d *RawDate) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode dateTime: %w", err)
	}
	switch val := v.(type) {
	case float64:
		*d = SerialDate(val)
	case string:
		*d = TextDate(val)
	case nil:
		*d = RawDate{}
	default:
		return fmt.Errorf("decode dateTime: unsupported value %v", v)
	}
	return nil
}
