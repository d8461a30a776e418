package filter

import "go-safetyboard/types"

// Options are the distinct values offered for each filter key.
type Options map[types.FilterKey][]string

// Apply keeps the incidents that match every non-empty selection in state.
// Values within one key are alternatives. When nothing is selected the input
// slice is returned as is.
func Apply(incidents []types.Incident, state types.FilterState) []types.Incident {
	if state.IsEmpty() {
		return incidents
	}

	active := make(map[types.FilterKey]map[string]struct{})
	for _, k := range types.FilterKeys {
		vals := state.Values(k)
		if len(vals) == 0 {
			continue
		}
		set := make(map[string]struct{}, len(vals))
		for _, v := range vals {
			set[v] = struct{}{}
		}
		active[k] = set
	}

	out := make([]types.Incident, 0, len(incidents))
	for _, inc := range incidents {
		if matches(inc, active) {
			out = append(out, inc)
		}
	}
	return out
}

func matches(inc types.Incident, active map[types.FilterKey]map[string]struct{}) bool {
	for k, set := range active {
		if _, ok := set[inc.Field(k)]; !ok {
			return false
		}
	}
	return true
}

// SubTypeOptions lists the construction sub-types to offer. With no main type
// selected that is every observed sub-type; otherwise it is the taxonomy's
// sub-types of the selected mains, whether or not any incident carries them.
func SubTypeOptions(state types.FilterState, observed []string) []string {
	if len(state.ConstructionTypeMain) == 0 {
		return append([]string{}, observed...)
	}

	out := []string{}
	seen := make(map[string]struct{})
	for _, main := range state.ConstructionTypeMain {
		for _, sub := range SubTypesOf(main) {
			if _, ok := seen[sub]; ok {
				continue
			}
			seen[sub] = struct{}{}
			out = append(out, sub)
		}
	}
	return out
}

// DistinctValues collects the non-empty values of every filter key in the order
// they are first seen.
func DistinctValues(incidents []types.Incident) Options {
	opts := make(Options, len(types.FilterKeys))
	seen := make(map[types.FilterKey]map[string]struct{}, len(types.FilterKeys))
	for _, k := range types.FilterKeys {
		opts[k] = []string{}
		seen[k] = make(map[string]struct{})
	}

	for _, inc := range incidents {
		for _, k := range types.FilterKeys {
			v := inc.Field(k)
			if v == "" {
				continue
			}
			if _, ok := seen[k][v]; ok {
				continue
			}
			seen[k][v] = struct{}{}
			opts[k] = append(opts[k], v)
		}
	}
	return opts
}

// OptionsFor returns the option lists for the current state: every key offers
// its distinct values from the full collection, except the construction
// sub-type, which narrows to the selected main types.
func OptionsFor(incidents []types.Incident, state types.FilterState) Options {
	opts := DistinctValues(incidents)
	opts[types.KeyConstructionTypeSub] = SubTypeOptions(state, opts[types.KeyConstructionTypeSub])
	return opts
}
