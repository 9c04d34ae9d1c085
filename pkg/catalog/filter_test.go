package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var (
	ecoli   = Record{Type: "GRAM+", NomBacterie: "Escherichia coli", LieuSouchier: "D-1", RepiquageNecessaire: "Oui"}
	candida = Record{Type: "Levure", NomBacterie: "Candida albicans", LieuSouchier: "F-2", RepiquageNecessaire: "Oui"}
)

func sampleCatalog() Catalog {
	return Catalog{
		{Type: "GRAM+", NomBacterie: "Staphylococcus aureus", LieuSouchier: "A-1", RepiquageNecessaire: "Oui"},
		{Type: "GRAM+", NomBacterie: "Enterococcus faecalis", LieuSouchier: "A-5", RepiquageNecessaire: "Non"},
		{Type: "GRAM-", NomBacterie: "Escherichia coli", LieuSouchier: "D-1", RepiquageNecessaire: "Oui"},
		{Type: "GRAM-", NomBacterie: "Proteus mirabilis", LieuSouchier: "D-5", RepiquageNecessaire: "Non"},
		{Type: "Levure", NomBacterie: "Candida albicans", LieuSouchier: "F-2", RepiquageNecessaire: "Oui"},
		{Type: "Levure", NomBacterie: "Candida glabrata", LieuSouchier: "F-3", RepiquageNecessaire: "Oui"},
		{Type: "Levure", NomBacterie: "Pichia pastoris", LieuSouchier: "F-5", RepiquageNecessaire: "Non"},
		{Type: "Champignon", NomBacterie: "Aspergillus niger", LieuSouchier: "G-2", RepiquageNecessaire: "Non"},
		{Type: "Champignon", NomBacterie: "Aspergillus niger", LieuSouchier: "G-9", RepiquageNecessaire: "Oui"},
	}
}

func sampleCriteria() []Criteria {
	return []Criteria{
		{},
		{Repiquage: RepiquageAll},
		{Types: []string{"Levure"}},
		{Types: []string{"GRAM+", "GRAM-"}, Repiquage: RepiquageNo},
		{Repiquage: RepiquageYes, Search: "a"},
		{Search: "ASPERGILLUS"},
		{Types: []string{"Virus"}},
		{Types: []string{"Levure"}, Repiquage: RepiquageNo, Search: "candida"},
	}
}

// isSubsequence reports whether sub appears in full in the same relative order.
func isSubsequence(sub View, full Catalog) bool {
	i := 0
	for _, r := range full {
		if i < len(sub) && sub[i] == r {
			i++
		}
	}
	return i == len(sub)
}

func TestApply_EmptyCriteriaReturnsCatalog(t *testing.T) {
	cat := sampleCatalog()

	for _, c := range []Criteria{{}, {Repiquage: RepiquageAll}, {Types: []string{}}} {
		got := Apply(cat, c)
		if diff := cmp.Diff([]Record(cat), []Record(got)); diff != "" {
			t.Errorf("Apply(%+v) mismatch (-want +got):\n%s", c, diff)
		}
	}
}

func TestApply_Properties(t *testing.T) {
	cat := sampleCatalog()
	before := append(Catalog(nil), cat...)

	for _, c := range sampleCriteria() {
		first := Apply(cat, c)
		second := Apply(cat, c)

		require.LessOrEqual(t, len(first), len(cat), "criteria %+v", c)
		require.True(t, isSubsequence(first, cat), "criteria %+v: result is not an ordered subsequence", c)
		require.Equal(t, first, second, "criteria %+v: not idempotent", c)

		oui, non := CountByRepiquage(first)
		require.Equal(t, len(first), oui+non, "criteria %+v", c)
	}

	require.Equal(t, before, cat, "Apply mutated the catalog")
}

func TestApply_CaseInsensitiveSearch(t *testing.T) {
	cat := Catalog{ecoli, candida}

	for _, q := range []string{"candida", "CANDIDA", "Candida", "albi"} {
		got := Apply(cat, Criteria{Search: q})
		require.Equal(t, View{candida}, got, "search %q", q)
	}
}

func TestApply_SearchFoldsAccents(t *testing.T) {
	cat := Catalog{{Type: "Levure", NomBacterie: "Levure ÉTRANGÈRE", RepiquageNecessaire: "Non"}}

	got := Apply(cat, Criteria{Search: "étrangère"})
	require.Len(t, got, 1)
}

func TestApply_Scenarios(t *testing.T) {
	cat := Catalog{ecoli, candida}

	tests := []struct {
		name     string
		criteria Criteria
		want     View
	}{
		{
			name:     "type levure",
			criteria: Criteria{Types: []string{"Levure"}, Repiquage: RepiquageAll},
			want:     View{candida},
		},
		{
			name:     "repiquage non matches nothing",
			criteria: Criteria{Types: []string{}, Repiquage: RepiquageNo},
			want:     View{},
		},
		{
			name:     "all axes",
			criteria: Criteria{Types: []string{"GRAM+", "Levure"}, Repiquage: RepiquageYes, Search: "coli"},
			want:     View{ecoli},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(cat, tt.criteria)
			require.NotNil(t, got)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCountByType(t *testing.T) {
	got := CountByType(sampleCatalog())

	want := map[string]int{"GRAM+": 2, "GRAM-": 2, "Levure": 3, "Champignon": 2}
	require.Equal(t, want, got)
	require.Empty(t, CountByType(nil))
}

func TestTypes_Sorted(t *testing.T) {
	require.Equal(t, []string{"Champignon", "GRAM+", "GRAM-", "Levure"}, Types(sampleCatalog()))
}

func TestCountByRepiquage_IgnoresUnknownValues(t *testing.T) {
	view := View{
		{RepiquageNecessaire: "Oui"},
		{RepiquageNecessaire: "Non"},
		{RepiquageNecessaire: "Non"},
		{RepiquageNecessaire: "peut-être"},
	}

	oui, non := CountByRepiquage(view)
	require.Equal(t, 1, oui)
	require.Equal(t, 2, non)
}

func TestCriteria_Validate(t *testing.T) {
	for _, v := range []string{"", "Tous", "Oui", "Non"} {
		require.NoError(t, Criteria{Repiquage: v}.Validate())
	}

	err := Criteria{Repiquage: "oui"}.Validate()
	require.ErrorIs(t, err, ErrInvalidRepiquage)
}

func TestSummarize(t *testing.T) {
	cat := sampleCatalog()

	overview := Summarize(cat, Criteria{})
	require.True(t, overview.Overview)
	require.Equal(t, len(cat), overview.Total)
	require.Equal(t, len(cat), overview.Filtered)
	require.Equal(t, RepiquageAll, overview.Criteria.Repiquage)
	require.Equal(t, []TypeCount{
		{Type: "Champignon", Count: 2},
		{Type: "GRAM+", Count: 2},
		{Type: "GRAM-", Count: 2},
		{Type: "Levure", Count: 3},
	}, overview.ByType)

	levures := Summarize(cat, Criteria{Types: []string{"Levure"}})
	require.False(t, levures.Overview)
	require.Equal(t, 3, levures.Filtered)
	require.Equal(t, 2, levures.RepiquageOui)
	require.Equal(t, 1, levures.RepiquageNon)
	require.Len(t, levures.ByType, 4, "type breakdown always covers the full catalog")
}
