package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// Apply returns the records of cat matching every active axis of criteria,
// in catalog order. Cheap predicates run before the substring search.
func Apply(cat Catalog, criteria Criteria) View {
	criteria = criteria.Normalize()

	var types map[string]struct{}
	if len(criteria.Types) > 0 {
		types = make(map[string]struct{}, len(criteria.Types))
		for _, t := range criteria.Types {
			types[t] = struct{}{}
		}
	}

	// Casers keep state, one per call.
	fold := cases.Fold()
	needle := ""
	if criteria.Search != "" {
		needle = fold.String(criteria.Search)
	}

	view := make(View, 0, len(cat))
	for _, r := range cat {
		if types != nil {
			if _, ok := types[r.Type]; !ok {
				continue
			}
		}
		if criteria.Repiquage != RepiquageAll && r.RepiquageNecessaire != criteria.Repiquage {
			continue
		}
		if needle != "" && !strings.Contains(fold.String(r.NomBacterie), needle) {
			continue
		}
		view = append(view, r)
	}
	return view
}

// CountByType maps every distinct Type of cat to its number of records.
func CountByType(cat Catalog) map[string]int {
	counts := make(map[string]int)
	for _, r := range cat {
		counts[r.Type]++
	}
	return counts
}

// Types returns the distinct types of cat, sorted.
func Types(cat Catalog) []string {
	counts := CountByType(cat)
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// CountByRepiquage partitions view into records needing subculture and
// records that don't. Values other than Oui/Non are counted in neither.
func CountByRepiquage(view View) (oui, non int) {
	for _, r := range view {
		switch r.RepiquageNecessaire {
		case RepiquageYes:
			oui++
		case RepiquageNo:
			non++
		}
	}
	return oui, non
}

// TypeCount is one entry of the overview breakdown.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// Summary is everything the presentation layer needs for one criteria state.
type Summary struct {
	Total        int         `json:"total"`
	Filtered     int         `json:"filtered"`
	Overview     bool        `json:"overview"`
	ByType       []TypeCount `json:"by_type"`
	RepiquageOui int         `json:"repiquage_oui"`
	RepiquageNon int         `json:"repiquage_non"`
	Criteria     Criteria    `json:"criteria"`
	Records      View        `json:"records"`
}

// Summarize filters cat and computes the counts shown alongside the result.
func Summarize(cat Catalog, criteria Criteria) Summary {
	criteria = criteria.Normalize()
	view := Apply(cat, criteria)
	oui, non := CountByRepiquage(view)

	counts := CountByType(cat)
	byType := make([]TypeCount, 0, len(counts))
	for _, t := range Types(cat) {
		byType = append(byType, TypeCount{Type: t, Count: counts[t]})
	}

	if criteria.Types == nil {
		criteria.Types = []string{}
	}

	return Summary{
		Total:        len(cat),
		Filtered:     len(view),
		Overview:     criteria.IsEmpty(),
		ByType:       byType,
		RepiquageOui: oui,
		RepiquageNon: non,
		Criteria:     criteria,
		Records:      view,
	}
}
