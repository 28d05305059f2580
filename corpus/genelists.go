package corpus

import (
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/causalbio/sdk/resources"
)

// GeneLists holds the curated gene role lists used by role-based filters.
type GeneLists struct {
	// Kinases lists HGNC symbols of protein kinases.
	Kinases []string `yaml:"kinases"`

	// Phosphatases lists HGNC symbols of phosphatases.
	Phosphatases []string `yaml:"phosphatases"`

	// TranscriptionFactors lists HGNC symbols of transcription factors.
	TranscriptionFactors []string `yaml:"transcription_factors"`
}

// geneListsFile is the YAML shape of a gene lists resource.
type geneListsFile struct {
	Version string    `yaml:"version"`
	Lists   GeneLists `yaml:",inline"`
}

// LoadGeneLists parses a YAML gene lists resource.
func LoadGeneLists(data []byte) (*GeneLists, error) {
	var f geneListsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse gene lists: %w", err)
	}
	return &f.Lists, nil
}

var (
	geneListsOnce sync.Once
	geneLists     *GeneLists
	geneListsErr  error
)

// DefaultGeneLists returns the gene lists built from the embedded
// resource.
func DefaultGeneLists() (*GeneLists, error) {
	geneListsOnce.Do(func() {
		geneLists, geneListsErr = LoadGeneLists(resources.GeneListsYAML)
	})
	return geneLists, geneListsErr
}

// nameSet builds a membership set from a list of symbols.
func nameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
