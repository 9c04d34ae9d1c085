package catalog

import (
	"errors"
	"fmt"
)

// Column names of the delimited format, in export order.
const (
	ColumnType      = "Type"
	ColumnName      = "Nom_Bacterie"
	ColumnLocation  = "Lieu_Souchier"
	ColumnRepiquage = "Repiquage_Necessaire"
)

// Columns lists the required columns in export order.
var Columns = []string{ColumnType, ColumnName, ColumnLocation, ColumnRepiquage}

// Repiquage values
const (
	RepiquageAll = "Tous"
	RepiquageYes = "Oui"
	RepiquageNo  = "Non"
)

var (
	// ErrMissingColumn is returned when a table lacks one of Columns.
	ErrMissingColumn = errors.New("missing required column")

	// ErrInvalidRepiquage is returned for a repiquage filter outside Tous/Oui/Non.
	ErrInvalidRepiquage = errors.New("invalid repiquage value")
)

// Record is one strain of the registry.
type Record struct {
	Type                string `json:"Type"`
	NomBacterie         string `json:"Nom_Bacterie"`
	LieuSouchier        string `json:"Lieu_Souchier"`
	RepiquageNecessaire string `json:"Repiquage_Necessaire"`
}

// Fields returns the record values in Columns order.
func (r Record) Fields() []string {
	return []string{r.Type, r.NomBacterie, r.LieuSouchier, r.RepiquageNecessaire}
}

// Catalog is the full ordered set of records of a session. It is never
// modified after load.
type Catalog []Record

// View is an order-preserving subsequence of a Catalog.
type View []Record

// Criteria holds the three filter axes. Zero value means no restriction.
type Criteria struct {
	Types     []string `json:"types"`
	Repiquage string   `json:"repiquage"`
	Search    string   `json:"search"`
}

// Normalize fills the default repiquage value.
func (c Criteria) Normalize() Criteria {
	if c.Repiquage == "" {
		c.Repiquage = RepiquageAll
	}
	return c
}

// Validate checks the repiquage axis.
func (c Criteria) Validate() error {
	switch c.Repiquage {
	case "", RepiquageAll, RepiquageYes, RepiquageNo:
		return nil
	default:
		return fmt.Errorf("%w: %q (expected %s, %s or %s)", ErrInvalidRepiquage,
			c.Repiquage, RepiquageAll, RepiquageYes, RepiquageNo)
	}
}

// IsEmpty reports whether no axis restricts the catalog (overview mode).
func (c Criteria) IsEmpty() bool {
	return len(c.Types) == 0 &&
		(c.Repiquage == "" || c.Repiquage == RepiquageAll) &&
		c.Search == ""
}
