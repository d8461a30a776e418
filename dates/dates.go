package dates

import (
	"math"
	"strings"
	"time"

	"go-safetyboard/types"
)

const (
	// days between the spreadsheet epoch (1899-12-30) and the Unix epoch
	spreadsheetEpochOffset = 25569
	secondsPerDay          = 86400
	// keeps floating error from pushing a whole second down into the previous one
	fractionEpsilon = 0.0000001
)

// layouts tried in order after separators are normalized to '-'
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-1-2 15:04:05",
	"2006-1-2 15:04",
	"2006-1-2",
	"2006-1",
	"2006",
}

// Resolve converts a raw dateTime value into a calendar date. The bool is false
// when the value is empty or cannot be parsed; it never panics.
func Resolve(d types.RawDate) (time.Time, bool) {
	if d.IsSerial {
		return FromSerial(d.Serial)
	}
	return FromText(d.Text)
}

// FromSerial converts a spreadsheet serial day number, including its time-of-day fraction.
func FromSerial(serial float64) (time.Time, bool) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) {
		return time.Time{}, false
	}

	days := math.Floor(serial - spreadsheetEpochOffset)
	dateInfo := time.Unix(int64(days)*secondsPerDay, 0).UTC()

	fraction := serial - math.Floor(serial) + fractionEpsilon
	totalSeconds := int(math.Floor(secondsPerDay * fraction))

	seconds := totalSeconds % 60
	totalSeconds -= seconds
	hours := totalSeconds / 3600
	minutes := (totalSeconds / 60) % 60

	return time.Date(dateInfo.Year(), dateInfo.Month(), dateInfo.Day(), hours, minutes, seconds, 0, time.UTC), true
}

// FromText parses dotted, slashed or dashed date strings such as "2023.12.31.",
// "2023/12/31" or "2023-12-31 14:30".
func FromText(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	s = strings.NewReplacer(".", "-", "/", "-").Replace(s)
	s = strings.TrimSuffix(s, "-")
	for strings.Contains(s, "- ") {
		s = strings.ReplaceAll(s, "- ", "-")
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Year returns the calendar year of a raw date.
func Year(d types.RawDate) (int, bool) {
	t, ok := Resolve(d)
	if !ok {
		return 0, false
	}
	return t.Year(), true
}

// Month returns the calendar month (1-12) of a raw date.
func Month(d types.RawDate) (time.Month, bool) {
	t, ok := Resolve(d)
	if !ok {
		return 0, false
	}
	return t.Month(), true
}
