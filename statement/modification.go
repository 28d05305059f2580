package statement

import (
	"fmt"

	"github.com/causalbio/sdk/ontology"
)

// ModKind identifies a concrete modification statement type, carrying
// both the base modification type and its polarity (addition or removal).
type ModKind string

const (
	ModPhosphorylation   ModKind = "Phosphorylation"
	ModDephosphorylation ModKind = "Dephosphorylation"
	ModUbiquitination    ModKind = "Ubiquitination"
	ModDeubiquitination  ModKind = "Deubiquitination"
	ModAcetylation       ModKind = "Acetylation"
	ModDeacetylation     ModKind = "Deacetylation"
	ModMethylation       ModKind = "Methylation"
	ModDemethylation     ModKind = "Demethylation"
)

// modKindInfo maps each kind to its base modification type and polarity.
var modKindInfo = map[ModKind]struct {
	modType   string
	isRemoval bool
}{
	ModPhosphorylation:   {"phosphorylation", false},
	ModDephosphorylation: {"phosphorylation", true},
	ModUbiquitination:    {"ubiquitination", false},
	ModDeubiquitination:  {"ubiquitination", true},
	ModAcetylation:       {"acetylation", false},
	ModDeacetylation:     {"acetylation", true},
	ModMethylation:       {"methylation", false},
	ModDemethylation:     {"methylation", true},
}

// IsValid reports whether the kind is a defined modification kind.
func (k ModKind) IsValid() bool {
	_, ok := modKindInfo[k]
	return ok
}

// ModType returns the base modification type, e.g. "phosphorylation".
func (k ModKind) ModType() string {
	return modKindInfo[k].modType
}

// IsRemoval reports whether the kind removes the modification.
func (k ModKind) IsRemoval() bool {
	return modKindInfo[k].isRemoval
}

// StatementType returns the statement type for the kind.
func (k ModKind) StatementType() Type {
	return Type(k)
}

// Modification asserts that an enzyme adds or removes a post-translational
// modification on a substrate, e.g. "MAP2K1 phosphorylates MAPK1 at T185".
type Modification struct {
	Core

	// Kind selects the concrete modification statement type.
	Kind ModKind `json:"kind"`

	// Enz is the enzyme performing the modification; may be nil when the
	// source did not identify it.
	Enz *Agent `json:"enz,omitempty"`

	// Sub is the modified substrate.
	Sub *Agent `json:"sub"`

	// Residue is the modified amino acid, e.g. "T", or "" if unknown.
	Residue string `json:"residue,omitempty"`

	// Position is the sequence position, e.g. "185", or "" if unknown.
	Position string `json:"position,omitempty"`
}

// NewModification creates a modification statement of the given kind.
func NewModification(kind ModKind, enz, sub *Agent, residue, position string, evidence ...*Evidence) *Modification {
	return &Modification{
		Core:     newCore(evidence...),
		Kind:     kind,
		Enz:      enz,
		Sub:      sub,
		Residue:  residue,
		Position: position,
	}
}

// Type returns the statement type for the modification kind.
func (m *Modification) Type() Type {
	return m.Kind.StatementType()
}

// AgentList returns [enzyme, substrate]; the enzyme slot may be nil.
func (m *Modification) AgentList() []*Agent {
	return []*Agent{m.Enz, m.Sub}
}

// MatchesKey returns the canonical deduplication key.
func (m *Modification) MatchesKey() string {
	return fmt.Sprintf("%s(%s, %s, %s, %s)",
		m.Type(), m.Enz.MatchesKey(), m.Sub.MatchesKey(), m.Residue, m.Position)
}

// RefinementOf reports whether the receiver refines other: same kind,
// agent-wise refinement, and residue/position equal or unspecified on the
// general side.
func (m *Modification) RefinementOf(other Statement, ont *ontology.Ontology) bool {
	o, ok := other.(*Modification)
	if !ok || m.Kind != o.Kind {
		return false
	}
	if !agentsRefine(m.AgentList(), o.AgentList(), ont) {
		return false
	}
	return siteRefines(m.Residue, o.Residue) && siteRefines(m.Position, o.Position)
}

// Copy returns a deep copy without support links.
func (m *Modification) Copy() Statement {
	return &Modification{
		Core:     copyCore(m.Core),
		Kind:     m.Kind,
		Enz:      m.Enz.Copy(),
		Sub:      m.Sub.Copy(),
		Residue:  m.Residue,
		Position: m.Position,
	}
}

// ModConditionFor returns the modification condition this statement
// establishes on its substrate when it takes effect. Removal kinds yield
// an IsModified=false condition.
func (m *Modification) ModConditionFor() ModCondition {
	return ModCondition{
		ModType:    m.Kind.ModType(),
		Residue:    m.Residue,
		Position:   m.Position,
		IsModified: !m.Kind.IsRemoval(),
	}
}
