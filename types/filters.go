package types

import (
	"errors"
	"fmt"
)

type FilterKey string

const (
	KeyProjectOwner         FilterKey = "projectOwner"
	KeyProjectType          FilterKey = "projectType"
	KeyConstructionTypeMain FilterKey = "constructionTypeMain"
	KeyConstructionTypeSub  FilterKey = "constructionTypeSub"
	KeyObjectMain           FilterKey = "objectMain"
	KeyCauseMain            FilterKey = "causeMain"
	KeyResultMain           FilterKey = "resultMain"
)

// FilterKeys lists every filterable field in sidebar order.
var FilterKeys = []FilterKey{
	KeyProjectOwner,
	KeyProjectType,
	KeyConstructionTypeMain,
	KeyConstructionTypeSub,
	KeyObjectMain,
	KeyCauseMain,
	KeyResultMain,
}

var ErrUnknownFilterKey = errors.New("unknown filter key")

// ParseFilterKey validates a key coming from a request path or body.
func ParseFilterKey(s string) (FilterKey, error) {
	for _, k := range FilterKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFilterKey, s)
}

// FilterState is the selected values per filter key. An empty selection means
// "show all" for that key. States are values: every change returns a new state
// with a bumped Version.
type FilterState struct {
	Version              uint64   `json:"version"`
	ProjectOwner         []string `json:"projectOwner"`
	ProjectType          []string `json:"projectType"`
	ConstructionTypeMain []string `json:"constructionTypeMain"`
	ConstructionTypeSub  []string `json:"constructionTypeSub"`
	ObjectMain           []string `json:"objectMain"`
	CauseMain            []string `json:"causeMain"`
	ResultMain           []string `json:"resultMain"`
}

// NewFilterState returns a state with nothing selected.
func NewFilterState() FilterState {
	return FilterState{
		ProjectOwner:         []string{},
		ProjectType:          []string{},
		ConstructionTypeMain: []string{},
		ConstructionTypeSub:  []string{},
		ObjectMain:           []string{},
		CauseMain:            []string{},
		ResultMain:           []string{},
	}
}

// Values returns the selection for key. The slice must not be modified.
func (s FilterState) Values(key FilterKey) []string {
	switch key {
	case KeyProjectOwner:
		return s.ProjectOwner
	case KeyProjectType:
		return s.ProjectType
	case KeyConstructionTypeMain:
		return s.ConstructionTypeMain
	case KeyConstructionTypeSub:
		return s.ConstructionTypeSub
	case KeyObjectMain:
		return s.ObjectMain
	case KeyCauseMain:
		return s.CauseMain
	case KeyResultMain:
		return s.ResultMain
	}
	return nil
}

// IsEmpty reports whether no key restricts the collection.
func (s FilterState) IsEmpty() bool {
	for _, k := range FilterKeys {
		if len(s.Values(k)) > 0 {
			return false
		}
	}
	return true
}

// With replaces the selection for key. Changing the main construction type
// always clears the sub-type selection, since the old subs may no longer be valid.
func (s FilterState) With(key FilterKey, values []string) FilterState {
	next := s.clone()
	next.Version = s.Version + 1
	vals := dedupe(values)

	switch key {
	case KeyProjectOwner:
		next.ProjectOwner = vals
	case KeyProjectType:
		next.ProjectType = vals
	case KeyConstructionTypeMain:
		next.ConstructionTypeMain = vals
		next.ConstructionTypeSub = []string{}
	case KeyConstructionTypeSub:
		next.ConstructionTypeSub = vals
	case KeyObjectMain:
		next.ObjectMain = vals
	case KeyCauseMain:
		next.CauseMain = vals
	case KeyResultMain:
		next.ResultMain = vals
	}
	return next
}

// Reset clears every selection in one step.
func (s FilterState) Reset() FilterState {
	next := NewFilterState()
	next.Version = s.Version + 1
	return next
}

// Normalized fills nil selections with empty slices and drops duplicates, so a
// state decoded from JSON behaves like one built with NewFilterState.
func (s FilterState) Normalized() FilterState {
	return FilterState{
		Version:              s.Version,
		ProjectOwner:         dedupe(s.ProjectOwner),
		ProjectType:          dedupe(s.ProjectType),
		ConstructionTypeMain: dedupe(s.ConstructionTypeMain),
		ConstructionTypeSub:  dedupe(s.ConstructionTypeSub),
		ObjectMain:           dedupe(s.ObjectMain),
		CauseMain:            dedupe(s.CauseMain),
		ResultMain:           dedupe(s.ResultMain),
	}
}

func (s FilterState) clone() FilterState {
	return FilterState{
		Version:              s.Version,
		ProjectOwner:         append([]string{}, s.ProjectOwner...),
		ProjectType:          append([]string{}, s.ProjectType...),
		ConstructionTypeMain: append([]string{}, s.ConstructionTypeMain...),
		ConstructionTypeSub:  append([]string{}, s.ConstructionTypeSub...),
		ObjectMain:           append([]string{}, s.ObjectMain...),
		CauseMain:            append([]string{}, s.CauseMain...),
		ResultMain:           append([]string{}, s.ResultMain...),
	}
}

func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
