package statement

import (
	"fmt"
	"sort"
	"strings"

	"github.com/causalbio/sdk/ontology"
)

// Well-known grounding namespaces, in descending order of preference when
// selecting a primary grounding for an agent.
const (
	NamespaceFPLX  = "FPLX"
	NamespaceHGNC  = "HGNC"
	NamespaceUP    = "UP"
	NamespaceCHEBI = "CHEBI"
	NamespaceGO    = "GO"
	NamespaceMESH  = "MESH"

	// NamespaceText holds the raw text mention of the entity and never
	// counts as a grounding.
	NamespaceText = "TEXT"
)

// groundingPriority orders namespaces for Agent.Grounding.
var groundingPriority = []string{
	NamespaceFPLX,
	NamespaceHGNC,
	NamespaceUP,
	NamespaceCHEBI,
	NamespaceGO,
	NamespaceMESH,
}

// Agent represents a molecular entity participating in a statement,
// together with the context the statement asserts about it.
type Agent struct {
	// Name is the display name of the agent. After grounding mapping this
	// is typically the canonical symbol for the primary grounding.
	Name string `json:"name"`

	// DBRefs maps grounding namespaces to identifiers, e.g.
	// {"HGNC": "6871", "UP": "P28482", "TEXT": "ERK2"}.
	DBRefs map[string]string `json:"db_refs,omitempty"`

	// Mods lists modification state conditions on the agent.
	Mods []ModCondition `json:"mods,omitempty"`

	// Mutations lists mutation conditions on the agent.
	Mutations []MutCondition `json:"mutations,omitempty"`

	// Activity is an optional activity condition on the agent.
	Activity *ActivityCondition `json:"activity,omitempty"`

	// BoundConditions lists binding context: partners that must be bound
	// or explicitly not bound for the statement to apply.
	BoundConditions []BoundCondition `json:"bound_conditions,omitempty"`

	// Location is an optional cellular location, e.g. "nucleus".
	Location string `json:"location,omitempty"`
}

// ModCondition states that the agent carries (or lacks) a modification.
type ModCondition struct {
	// ModType is the modification type, e.g. "phosphorylation".
	ModType string `json:"mod_type"`

	// Residue is the modified amino acid, e.g. "T", or "" if unknown.
	Residue string `json:"residue,omitempty"`

	// Position is the sequence position, e.g. "185", or "" if unknown.
	Position string `json:"position,omitempty"`

	// IsModified is false when the condition asserts the absence of the
	// modification.
	IsModified bool `json:"is_modified"`
}

// MutCondition states that the agent carries a mutation.
type MutCondition struct {
	// Position is the sequence position of the mutation, e.g. "600".
	Position string `json:"position,omitempty"`

	// ResidueFrom is the wild-type residue, e.g. "V".
	ResidueFrom string `json:"residue_from,omitempty"`

	// ResidueTo is the mutated residue, e.g. "E", or "" for deletions.
	ResidueTo string `json:"residue_to,omitempty"`
}

// IsDeletion reports whether the mutation removes the residue rather than
// substituting it.
func (m MutCondition) IsDeletion() bool {
	return m.ResidueTo == ""
}

// ActivityCondition states that the agent has a given activity state.
type ActivityCondition struct {
	// ActivityType names the activity, e.g. "activity", "kinase",
	// "transcription".
	ActivityType string `json:"activity_type"`

	// IsActive is false when the condition asserts inactivity.
	IsActive bool `json:"is_active"`
}

// BoundCondition states that another agent is bound (or not bound) to
// this one.
type BoundCondition struct {
	// Agent is the binding partner.
	Agent *Agent `json:"agent"`

	// IsBound is false when the condition asserts absence of binding.
	IsBound bool `json:"is_bound"`
}

// NewAgent creates an agent with the given name and grounding references.
// The refs map may be nil.
func NewAgent(name string, refs map[string]string) *Agent {
	a := &Agent{Name: name}
	if len(refs) > 0 {
		a.DBRefs = make(map[string]string, len(refs))
		for ns, id := range refs {
			a.DBRefs[ns] = id
		}
	}
	return a
}

// Grounding returns the primary grounding reference of the agent,
// choosing the highest-priority namespace present in DBRefs. The TEXT
// entry never counts. The second return value is false when the agent is
// ungrounded.
func (a *Agent) Grounding() (ontology.Ref, bool) {
	if a == nil || len(a.DBRefs) == 0 {
		return ontology.Ref{}, false
	}
	for _, ns := range groundingPriority {
		if id := a.DBRefs[ns]; id != "" {
			return ontology.Ref{NS: ns, ID: id}, true
		}
	}
	// Fall back to any non-TEXT namespace, picked deterministically.
	var keys []string
	for ns, id := range a.DBRefs {
		if ns != NamespaceText && id != "" {
			keys = append(keys, ns)
		}
	}
	if len(keys) == 0 {
		return ontology.Ref{}, false
	}
	sort.Strings(keys)
	return ontology.Ref{NS: keys[0], ID: a.DBRefs[keys[0]]}, true
}

// IsGrounded reports whether the agent has at least one non-TEXT
// grounding reference.
func (a *Agent) IsGrounded() bool {
	_, ok := a.Grounding()
	return ok
}

// TextMention returns the raw text mention of the agent, falling back to
// the name when no TEXT reference is recorded.
func (a *Agent) TextMention() string {
	if a == nil {
		return ""
	}
	if txt := a.DBRefs[NamespaceText]; txt != "" {
		return txt
	}
	return a.Name
}

// EntityKey returns the canonical entity portion of the agent's matches
// key: the primary grounding if available, otherwise the TEXT mention.
func (a *Agent) EntityKey() string {
	if ref, ok := a.Grounding(); ok {
		return ref.String()
	}
	return NamespaceText + ":" + a.TextMention()
}

// MatchesKey returns the canonical key of the agent including its state
// conditions. Two agents with equal keys are interchangeable for
// deduplication purposes.
func (a *Agent) MatchesKey() string {
	if a == nil {
		return "-"
	}
	var b strings.Builder
	b.WriteString(a.EntityKey())

	mods := make([]string, 0, len(a.Mods))
	for _, m := range a.Mods {
		mods = append(mods, fmt.Sprintf("%s@%s%s/%t", m.ModType, m.Residue, m.Position, m.IsModified))
	}
	sort.Strings(mods)
	muts := make([]string, 0, len(a.Mutations))
	for _, m := range a.Mutations {
		muts = append(muts, fmt.Sprintf("%s%s%s", m.ResidueFrom, m.Position, m.ResidueTo))
	}
	sort.Strings(muts)
	bounds := make([]string, 0, len(a.BoundConditions))
	for _, bc := range a.BoundConditions {
		bounds = append(bounds, fmt.Sprintf("%s/%t", bc.Agent.EntityKey(), bc.IsBound))
	}
	sort.Strings(bounds)

	fmt.Fprintf(&b, "|mods=%s|muts=%s", strings.Join(mods, ","), strings.Join(muts, ","))
	if a.Activity != nil {
		fmt.Fprintf(&b, "|act=%s/%t", a.Activity.ActivityType, a.Activity.IsActive)
	}
	fmt.Fprintf(&b, "|bound=%s|loc=%s", strings.Join(bounds, ","), a.Location)
	return b.String()
}

// Refines reports whether the agent is an ontology-aware refinement of
// other: its entity is the same or a descendant, and its state conditions
// subsume those of other. A nil other is refined by anything; a nil agent
// refines only a nil other.
func (a *Agent) Refines(other *Agent, ont *ontology.Ontology) bool {
	if other == nil {
		return true
	}
	if a == nil {
		return false
	}
	if !a.entityRefines(other, ont) {
		return false
	}
	// Every state condition of the more general agent must be entailed by
	// one on the more specific agent.
	for _, gm := range other.Mods {
		if !a.hasRefiningMod(gm, ont) {
			return false
		}
	}
	for _, gmut := range other.Mutations {
		if !a.hasRefiningMut(gmut) {
			return false
		}
	}
	if other.Activity != nil {
		if a.Activity == nil {
			return false
		}
		if a.Activity.IsActive != other.Activity.IsActive {
			return false
		}
		if !ont.ActivityRefinementOf(a.Activity.ActivityType, other.Activity.ActivityType) {
			return false
		}
	}
	for _, gbc := range other.BoundConditions {
		found := false
		for _, sbc := range a.BoundConditions {
			if sbc.IsBound == gbc.IsBound && sbc.Agent.Refines(gbc.Agent, ont) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if other.Location != "" && a.Location != other.Location {
		return false
	}
	return true
}

func (a *Agent) entityRefines(other *Agent, ont *ontology.Ontology) bool {
	aRef, aOK := a.Grounding()
	oRef, oOK := other.Grounding()
	switch {
	case aOK && oOK:
		if aRef == oRef {
			return true
		}
		return ont != nil && ont.RefinementOf(aRef, oRef)
	case !aOK && !oOK:
		return a.TextMention() == other.TextMention()
	default:
		// A grounded agent never refines an ungrounded one or vice versa.
		return false
	}
}

func (a *Agent) hasRefiningMod(general ModCondition, ont *ontology.Ontology) bool {
	for _, sm := range a.Mods {
		if sm.IsModified != general.IsModified {
			continue
		}
		if ont != nil && !ont.ModRefinementOf(sm.ModType, general.ModType) {
			continue
		}
		if ont == nil && general.ModType != "" && sm.ModType != general.ModType {
			continue
		}
		if !siteRefines(sm.Residue, general.Residue) || !siteRefines(sm.Position, general.Position) {
			continue
		}
		return true
	}
	return false
}

func (a *Agent) hasRefiningMut(general MutCondition) bool {
	for _, sm := range a.Mutations {
		if siteRefines(sm.Position, general.Position) &&
			siteRefines(sm.ResidueFrom, general.ResidueFrom) &&
			siteRefines(sm.ResidueTo, general.ResidueTo) {
			return true
		}
	}
	return false
}

// siteRefines reports whether a specific residue/position value is
// compatible with a general one: equal, or the general one unspecified.
func siteRefines(specific, general string) bool {
	return general == "" || specific == general
}

// Copy returns a deep copy of the agent.
func (a *Agent) Copy() *Agent {
	if a == nil {
		return nil
	}
	c := &Agent{
		Name:     a.Name,
		Location: a.Location,
	}
	if a.DBRefs != nil {
		c.DBRefs = make(map[string]string, len(a.DBRefs))
		for ns, id := range a.DBRefs {
			c.DBRefs[ns] = id
		}
	}
	c.Mods = append([]ModCondition(nil), a.Mods...)
	c.Mutations = append([]MutCondition(nil), a.Mutations...)
	if a.Activity != nil {
		act := *a.Activity
		c.Activity = &act
	}
	for _, bc := range a.BoundConditions {
		c.BoundConditions = append(c.BoundConditions, BoundCondition{
			Agent:   bc.Agent.Copy(),
			IsBound: bc.IsBound,
		})
	}
	return c
}
