package filter

import "go-safetyboard/types"

// Category is one main construction type and its sub-types, in display order.
type Category struct {
	Main string   `json:"main"`
	Subs []string `json:"subs"`
}

var taxonomy = []Category{
	{Main: "건축", Subs: []string{
		"해체및철거공사", "금속공사", "목공사", "수장공사", "도장공사",
		"지붕및홈통공사", "가설공사", "철근콘크리트공사", "철골공사", "조적공사",
		"미장공사", "방수공사", "타일및석공사", "창호및유리공사",
	}},
	{Main: "토목", Subs: []string{"토공사", "지정공사", "관공사", "부대공사", "조경공사", "도로및포장공사"}},
	{Main: "설비", Subs: []string{"기계설비공사", "전기설비공사", "통신설비공사"}},
	{Main: types.Other, Subs: []string{types.Other}},
}

// Taxonomy returns a copy of the main/sub construction type mapping.
func Taxonomy() []Category {
	out := make([]Category, len(taxonomy))
	for i, c := range taxonomy {
		out[i] = Category{Main: c.Main, Subs: append([]string(nil), c.Subs...)}
	}
	return out
}

// SubTypesOf returns the sub-types of a main construction type, or nil when the
// main type is not part of the taxonomy.
func SubTypesOf(main string) []string {
	for _, c := range taxonomy {
		if c.Main == main {
			return append([]string(nil), c.Subs...)
		}
	}
	return nil
}

// IsKnownSubType reports whether sub belongs to main.
func IsKnownSubType(main, sub string) bool {
	for _, s := range SubTypesOf(main) {
		if s == sub {
			return true
		}
	}
	return false
}
