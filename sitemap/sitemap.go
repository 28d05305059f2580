// Package sitemap corrects modification sites that readers report
// against the wrong reference sequence, using a curated table of known
// invalid (gene, residue, position) triples and their corrections.
package sitemap

import (
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/causalbio/sdk/resources"
	"github.com/causalbio/sdk/statement"
)

// Site identifies a modification site on a gene.
type Site struct {
	// Gene is the HGNC symbol the site is reported on.
	Gene string `json:"gene" yaml:"gene"`

	// Residue is the reported amino acid, e.g. "T".
	Residue string `json:"residue" yaml:"residue"`

	// Position is the reported sequence position, e.g. "183".
	Position string `json:"position" yaml:"position"`
}

// Mapping is one curated site correction. A mapping without a mapped
// residue/position marks the site as known invalid with no usable
// correction.
type Mapping struct {
	Site `yaml:",inline"`

	// MappedResidue is the corrected residue, or "" when the site cannot
	// be corrected.
	MappedResidue string `json:"mapped_residue,omitempty" yaml:"mapped_residue,omitempty"`

	// MappedPosition is the corrected position, or "" when the site
	// cannot be corrected.
	MappedPosition string `json:"mapped_position,omitempty" yaml:"mapped_position,omitempty"`

	// Description explains the curation, e.g. "rat numbering".
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// HasCorrection reports whether the mapping carries a usable corrected
// site.
func (m Mapping) HasCorrection() bool {
	return m.MappedResidue != "" && m.MappedPosition != ""
}

// MappedStatement pairs a corrected statement with the curated mappings
// that were applied to produce it.
type MappedStatement struct {
	// Original is the input statement before correction.
	Original statement.Statement

	// Mapped is the corrected statement, or nil when some invalid site
	// had no usable correction.
	Mapped statement.Statement

	// Mappings lists the curated entries that matched sites of the
	// original statement.
	Mappings []Mapping
}

// Valid reports whether all matched sites carried corrections and Mapped
// is usable.
func (ms MappedStatement) Valid() bool {
	return ms.Mapped != nil
}

// Mapper checks and corrects modification sites on statements.
type Mapper struct {
	table map[Site]Mapping
}

// NewMapper creates a Mapper over the given curated mappings.
func NewMapper(mappings []Mapping) *Mapper {
	table := make(map[Site]Mapping, len(mappings))
	for _, m := range mappings {
		table[m.Site] = m
	}
	return &Mapper{table: table}
}

// siteFile is the YAML shape of a site map resource.
type siteFile struct {
	Version string    `yaml:"version"`
	Entries []Mapping `yaml:"entries"`
}

// LoadMapper parses a YAML site map and creates a Mapper over it.
func LoadMapper(data []byte) (*Mapper, error) {
	var f siteFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse site map: %w", err)
	}
	return NewMapper(f.Entries), nil
}

var (
	defaultOnce   sync.Once
	defaultMapper *Mapper
	defaultErr    error
)

// DefaultMapper returns a Mapper over the embedded curated site map.
func DefaultMapper() (*Mapper, error) {
	defaultOnce.Do(func() {
		defaultMapper, defaultErr = LoadMapper(resources.SiteMapYAML)
	})
	return defaultMapper, defaultErr
}

// Lookup returns the curated mapping for a site, if any.
func (m *Mapper) Lookup(site Site) (Mapping, bool) {
	mapping, ok := m.table[site]
	return mapping, ok
}

// MapSites partitions statements into those whose sites are not known
// invalid and per-statement mapping results for the rest. Modification
// statements are checked on their own residue/position against the
// substrate gene; agents of all statements are checked on their
// modification conditions. Corrected statements are deep copies; inputs
// are never modified.
func (m *Mapper) MapSites(stmts []statement.Statement) (valid []statement.Statement, mapped []MappedStatement) {
	for _, st := range stmts {
		hits := m.collectHits(st)
		if len(hits) == 0 {
			valid = append(valid, st)
			continue
		}
		ms := MappedStatement{Original: st, Mappings: hits}
		allCorrectable := true
		for _, h := range hits {
			if !h.HasCorrection() {
				allCorrectable = false
				break
			}
		}
		if allCorrectable {
			ms.Mapped = m.applyCorrections(st)
		}
		mapped = append(mapped, ms)
	}
	return valid, mapped
}

func (m *Mapper) collectHits(st statement.Statement) []Mapping {
	var hits []Mapping
	if mod, ok := st.(*statement.Modification); ok && mod.Residue != "" && mod.Position != "" {
		if hit, ok := m.Lookup(Site{Gene: agentGene(mod.Sub), Residue: mod.Residue, Position: mod.Position}); ok {
			hits = append(hits, hit)
		}
	}
	for _, ag := range st.AgentList() {
		if ag == nil {
			continue
		}
		for _, mc := range ag.Mods {
			if mc.Residue == "" || mc.Position == "" {
				continue
			}
			if hit, ok := m.Lookup(Site{Gene: agentGene(ag), Residue: mc.Residue, Position: mc.Position}); ok {
				hits = append(hits, hit)
			}
		}
	}
	return hits
}

func (m *Mapper) applyCorrections(st statement.Statement) statement.Statement {
	corrected := st.Copy()
	if mod, ok := corrected.(*statement.Modification); ok && mod.Residue != "" && mod.Position != "" {
		if hit, ok := m.Lookup(Site{Gene: agentGene(mod.Sub), Residue: mod.Residue, Position: mod.Position}); ok && hit.HasCorrection() {
			mod.Residue = hit.MappedResidue
			mod.Position = hit.MappedPosition
		}
	}
	for _, ag := range corrected.AgentList() {
		if ag == nil {
			continue
		}
		for i, mc := range ag.Mods {
			if mc.Residue == "" || mc.Position == "" {
				continue
			}
			if hit, ok := m.Lookup(Site{Gene: agentGene(ag), Residue: mc.Residue, Position: mc.Position}); ok && hit.HasCorrection() {
				ag.Mods[i].Residue = hit.MappedResidue
				ag.Mods[i].Position = hit.MappedPosition
			}
		}
	}
	return corrected
}

// agentGene returns the symbol the site table is keyed by: the agent
// name, which after grounding mapping is the canonical HGNC symbol.
func agentGene(ag *statement.Agent) string {
	if ag == nil {
		return ""
	}
	return ag.Name
}
