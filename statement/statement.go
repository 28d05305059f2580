package statement

import (
	"errors"

	"github.com/google/uuid"

	"github.com/causalbio/sdk/ontology"
)

// Sentinel errors for statement operations.
var (
	// ErrUnknownType indicates a JSON payload with an unrecognized
	// statement type discriminator.
	ErrUnknownType = errors.New("unknown statement type")

	// ErrMalformed indicates a statement payload missing required fields.
	ErrMalformed = errors.New("malformed statement")
)

// Type discriminates statement kinds. Values match the type names used
// in the exchange JSON format.
type Type string

const (
	TypePhosphorylation   Type = "Phosphorylation"
	TypeDephosphorylation Type = "Dephosphorylation"
	TypeUbiquitination    Type = "Ubiquitination"
	TypeDeubiquitination  Type = "Deubiquitination"
	TypeAcetylation       Type = "Acetylation"
	TypeDeacetylation     Type = "Deacetylation"
	TypeMethylation       Type = "Methylation"
	TypeDemethylation     Type = "Demethylation"
	TypeActivation        Type = "Activation"
	TypeInhibition        Type = "Inhibition"
	TypeIncreaseAmount    Type = "IncreaseAmount"
	TypeDecreaseAmount    Type = "DecreaseAmount"
	TypeActiveForm        Type = "ActiveForm"
	TypeComplex           Type = "Complex"
	TypeConversion        Type = "Conversion"
	TypeInfluence         Type = "Influence"
)

// IsValid reports whether the type is one of the defined statement types.
func (t Type) IsValid() bool {
	switch t {
	case TypePhosphorylation, TypeDephosphorylation,
		TypeUbiquitination, TypeDeubiquitination,
		TypeAcetylation, TypeDeacetylation,
		TypeMethylation, TypeDemethylation,
		TypeActivation, TypeInhibition,
		TypeIncreaseAmount, TypeDecreaseAmount,
		TypeActiveForm, TypeComplex, TypeConversion, TypeInfluence:
		return true
	default:
		return false
	}
}

// String returns the string representation of the type.
func (t Type) String() string {
	return string(t)
}

// Statement is implemented by all statement kinds.
//
// AgentList returns the agents in their canonical role order; entries may
// be nil for unfilled optional roles (e.g. an unknown enzyme). MatchesKey
// returns the canonical deduplication key: two statements are duplicates
// exactly when their keys are equal. RefinementOf reports whether the
// receiver asserts the same relation as other with equal or greater
// specificity, consulting the ontology for entity, modification and
// activity hierarchies.
type Statement interface {
	// Info returns the shared statement core holding identity, belief,
	// evidence and support links.
	Info() *Core

	// Type returns the statement type discriminator.
	Type() Type

	// AgentList returns the agents of the statement in role order.
	AgentList() []*Agent

	// MatchesKey returns the canonical deduplication key.
	MatchesKey() string

	// RefinementOf reports whether the receiver is a refinement of other.
	RefinementOf(other Statement, ont *ontology.Ontology) bool

	// Copy returns a deep copy of the statement. Support links are not
	// copied.
	Copy() Statement
}

// Core holds the fields shared by all statement kinds. Concrete statement
// types embed it.
type Core struct {
	// ID is the unique statement identifier, assigned at construction.
	ID string `json:"id"`

	// Belief is the assembled confidence score in [0, 1].
	Belief float64 `json:"belief"`

	// Evidence lists the observations supporting the statement.
	Evidence []*Evidence `json:"evidence,omitempty"`

	// Supports links to more specific statements that refine this one.
	// Populated during preassembly; not serialized directly.
	Supports []Statement `json:"-"`

	// SupportedBy links to more general statements this one refines.
	// Populated during preassembly; not serialized directly.
	SupportedBy []Statement `json:"-"`
}

// Info returns the core itself; embedding Core satisfies the Statement
// interface's Info method.
func (c *Core) Info() *Core {
	return c
}

// IsTopLevel reports whether the statement is at the top level of the
// refinement hierarchy, i.e. no more specific statement refines it.
// Before preassembly every statement is top-level.
func (c *Core) IsTopLevel() bool {
	return len(c.Supports) == 0
}

// newCore creates a core with a fresh UUID and the given evidence.
func newCore(evidence ...*Evidence) Core {
	return Core{
		ID:       uuid.New().String(),
		Evidence: evidence,
	}
}

// copyCore deep-copies the core except for support links, which are
// relations of an assembled corpus rather than of a single statement.
func copyCore(c Core) Core {
	cp := Core{ID: c.ID, Belief: c.Belief}
	for _, ev := range c.Evidence {
		cp.Evidence = append(cp.Evidence, ev.Copy())
	}
	return cp
}

// agentsRefine checks pairwise refinement of two equal-length agent role
// lists. A nil general agent is refined by anything; a nil specific agent
// refines only a nil general one.
func agentsRefine(specific, general []*Agent, ont *ontology.Ontology) bool {
	if len(specific) != len(general) {
		return false
	}
	for i := range specific {
		if general[i] == nil {
			continue
		}
		if specific[i] == nil {
			return false
		}
		if !specific[i].Refines(general[i], ont) {
			return false
		}
	}
	return true
}
