package source

import (
	"context"

	"github.com/phoenix4012/souchier/pkg/catalog"
)

// LiteralSource serves a catalog held in memory.
type LiteralSource struct {
	Records catalog.Catalog
}

// NewLiteralSource returns the built-in reference collection.
func NewLiteralSource() *LiteralSource {
	return &LiteralSource{Records: referenceCollection}
}

// Name returns "literal"
func (s *LiteralSource) Name() string { return "literal" }

// Load returns a copy of the records
func (s *LiteralSource) Load(ctx context.Context) (catalog.Catalog, error) {
	return append(catalog.Catalog{}, s.Records...), nil
}

var referenceCollection = catalog.Catalog{
	// Gram positive cocci
	{Type: "GRAM+", NomBacterie: "Staphylococcus aureus", LieuSouchier: "A-1", RepiquageNecessaire: "Oui"},
	{Type: "GRAM+", NomBacterie: "Staphylococcus epidermidis", LieuSouchier: "A-2", RepiquageNecessaire: "Oui"},
	{Type: "GRAM+", NomBacterie: "Streptococcus pneumoniae", LieuSouchier: "A-3", RepiquageNecessaire: "Oui"},
	{Type: "GRAM+", NomBacterie: "Streptococcus pyogenes", LieuSouchier: "A-4", RepiquageNecessaire: "Oui"},
	{Type: "GRAM+", NomBacterie: "Enterococcus faecalis", LieuSouchier: "A-5", RepiquageNecessaire: "Non"},
	{Type: "GRAM+", NomBacterie: "Enterococcus faecium", LieuSouchier: "A-6", RepiquageNecessaire: "Non"},
	// Gram positive bacilli
	{Type: "GRAM+", NomBacterie: "Bacillus anthracis", LieuSouchier: "B-1", RepiquageNecessaire: "Oui"},
	{Type: "GRAM+", NomBacterie: "Bacillus cereus", LieuSouchier: "B-2", RepiquageNecessaire: "Oui"},
	{Type: "GRAM+", NomBacterie: "Bacillus subtilis", LieuSouchier: "B-3", RepiquageNecessaire: "Non"},
	{Type: "GRAM+", NomBacterie: "Listeria monocytogenes", LieuSouchier: "B-4", RepiquageNecessaire: "Oui"},
	{Type: "GRAM+", NomBacterie: "Corynebacterium diphtheriae", LieuSouchier: "B-5", RepiquageNecessaire: "Oui"},
	{Type: "GRAM+", NomBacterie: "Clostridium tetani", LieuSouchier: "B-6", RepiquageNecessaire: "Oui"},
	{Type: "GRAM+", NomBacterie: "Clostridium botulinum", LieuSouchier: "B-7", RepiquageNecessaire: "Oui"},
	{Type: "GRAM+", NomBacterie: "Clostridium perfringens", LieuSouchier: "B-8", RepiquageNecessaire: "Oui"},
	// Gram negative cocci
	{Type: "GRAM-", NomBacterie: "Neisseria meningitidis", LieuSouchier: "C-1", RepiquageNecessaire: "Oui"},
	{Type: "GRAM-", NomBacterie: "Neisseria gonorrhoeae", LieuSouchier: "C-2", RepiquageNecessaire: "Oui"},
	// Enterobacteria
	{Type: "GRAM-", NomBacterie: "Escherichia coli", LieuSouchier: "D-1", RepiquageNecessaire: "Oui"},
	{Type: "GRAM-", NomBacterie: "Salmonella typhimurium", LieuSouchier: "D-2", RepiquageNecessaire: "Oui"},
	{Type: "GRAM-", NomBacterie: "Shigella sonnei", LieuSouchier: "D-3", RepiquageNecessaire: "Oui"},
	{Type: "GRAM-", NomBacterie: "Klebsiella pneumoniae", LieuSouchier: "D-4", RepiquageNecessaire: "Oui"},
	{Type: "GRAM-", NomBacterie: "Proteus mirabilis", LieuSouchier: "D-5", RepiquageNecessaire: "Non"},
	{Type: "GRAM-", NomBacterie: "Enterobacter cloacae", LieuSouchier: "D-6", RepiquageNecessaire: "Non"},
	{Type: "GRAM-", NomBacterie: "Serratia marcescens", LieuSouchier: "D-7", RepiquageNecessaire: "Non"},
	{Type: "GRAM-", NomBacterie: "Yersinia enterocolitica", LieuSouchier: "D-8", RepiquageNecessaire: "Oui"},
	// Other Gram negative bacilli
	{Type: "GRAM-", NomBacterie: "Pseudomonas aeruginosa", LieuSouchier: "E-1", RepiquageNecessaire: "Oui"},
	{Type: "GRAM-", NomBacterie: "Acinetobacter baumannii", LieuSouchier: "E-2", RepiquageNecessaire: "Oui"},
	{Type: "GRAM-", NomBacterie: "Legionella pneumophila", LieuSouchier: "E-3", RepiquageNecessaire: "Oui"},
	{Type: "GRAM-", NomBacterie: "Haemophilus influenzae", LieuSouchier: "E-4", RepiquageNecessaire: "Non"},
	{Type: "GRAM-", NomBacterie: "Campylobacter jejuni", LieuSouchier: "E-5", RepiquageNecessaire: "Oui"},
	// Yeasts
	{Type: "Levure", NomBacterie: "Saccharomyces cerevisiae", LieuSouchier: "F-1", RepiquageNecessaire: "Non"},
	{Type: "Levure", NomBacterie: "Candida albicans", LieuSouchier: "F-2", RepiquageNecessaire: "Oui"},
	{Type: "Levure", NomBacterie: "Candida glabrata", LieuSouchier: "F-3", RepiquageNecessaire: "Oui"},
	{Type: "Levure", NomBacterie: "Cryptococcus neoformans", LieuSouchier: "F-4", RepiquageNecessaire: "Oui"},
	{Type: "Levure", NomBacterie: "Pichia pastoris", LieuSouchier: "F-5", RepiquageNecessaire: "Non"},
	{Type: "Levure", NomBacterie: "Debaryomyces hansenii", LieuSouchier: "F-6", RepiquageNecessaire: "Non"},
	// Moulds
	{Type: "Champignon", NomBacterie: "Aspergillus fumigatus", LieuSouchier: "G-1", RepiquageNecessaire: "Oui"},
	{Type: "Champignon", NomBacterie: "Aspergillus niger", LieuSouchier: "G-2", RepiquageNecessaire: "Non"},
	{Type: "Champignon", NomBacterie: "Penicillium chrysogenum", LieuSouchier: "G-3", RepiquageNecessaire: "Non"},
	{Type: "Champignon", NomBacterie: "Fusarium oxysporum", LieuSouchier: "G-4", RepiquageNecessaire: "Oui"},
	{Type: "Champignon", NomBacterie: "Trichoderma reesei", LieuSouchier: "G-5", RepiquageNecessaire: "Non"},
}
