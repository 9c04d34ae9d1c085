/*
Package catalog holds the strain registry data model and the filter engine.

A Catalog is loaded once and shared read-only. Every interaction builds a
Criteria and calls Apply (or Summarize) to get a fresh View:

	view := catalog.Apply(cat, catalog.Criteria{
	    Types:     []string{"Levure"},
	    Repiquage: catalog.RepiquageYes,
	    Search:    "candida",
	})

The three axes are AND-combined. An empty type set, "Tous" and a blank search
each mean "no restriction", so the zero Criteria returns the whole catalog.
Search is a case-insensitive substring match on Nom_Bacterie.

The delimited codec (DecodeCSV, EncodeCSV) reads and writes the same column
layout. Exports carry a UTF-8 byte-order mark for spreadsheet tools; the
decoder accepts input with or without it.
*/
package catalog
