package types

import "encoding/json"

// AiAnalysis is the thematic analysis of a set of accident descriptions.
type AiAnalysis struct {
	AnalysisResults      []string `json:"analysisResults"`
	PreventativeMeasures []string `json:"preventativeMeasures"`
	SafetyInstructions   []string `json:"safetyInstructions"`
}

type PreventativeSuggestion struct {
	Themes               []string `json:"themes"`
	PreventativeMeasures []string `json:"preventativeMeasures"`
}

// HazardResult carries either the identified hazards or an error message.
type HazardResult struct {
	Hazards []string `json:"hazards,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// MarshalJSON writes {"error": ...} on failure and {"hazards": [...]} otherwise,
// even when no hazard was found.
func (h HazardResult) MarshalJSON() ([]byte, error) {
	if h.Error != "" {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{h.Error})
	}
	hazards := h.Hazards
	if hazards == nil {
		hazards = []string{}
	}
	return json.Marshal(struct {
		Hazards []string `json:"hazards"`
	}{hazards})
}

type VisualAnalysisInput struct {
	Prompt       string `json:"prompt"`
	PhotoDataURI string `json:"photoDataUri"`
}
