package statement

import (
	"fmt"
	"sort"
	"strings"

	"github.com/causalbio/sdk/ontology"
)

// Complex asserts that a set of agents form a physical complex. Member
// order carries no meaning.
type Complex struct {
	Core

	// Members are the complex members.
	Members []*Agent `json:"members"`
}

// NewComplex creates a complex statement.
func NewComplex(members []*Agent, evidence ...*Evidence) *Complex {
	return &Complex{Core: newCore(evidence...), Members: members}
}

// Type returns Complex.
func (c *Complex) Type() Type {
	return TypeComplex
}

// AgentList returns the members.
func (c *Complex) AgentList() []*Agent {
	return c.Members
}

// MatchesKey returns the canonical deduplication key. Member keys are
// sorted so the key is independent of member order.
func (c *Complex) MatchesKey() string {
	keys := make([]string, 0, len(c.Members))
	for _, m := range c.Members {
		keys = append(keys, m.MatchesKey())
	}
	sort.Strings(keys)
	return fmt.Sprintf("%s(%s)", c.Type(), strings.Join(keys, "; "))
}

// RefinementOf reports whether the receiver refines other: every member
// of the more general complex must be matched by a distinct refining
// member of the receiver.
func (c *Complex) RefinementOf(other Statement, ont *ontology.Ontology) bool {
	o, ok := other.(*Complex)
	if !ok || len(c.Members) < len(o.Members) {
		return false
	}
	used := make([]bool, len(c.Members))
	return matchMembers(c.Members, o.Members, used, 0, ont)
}

// matchMembers finds an injective assignment of general members to
// refining specific members by backtracking. Complexes are small, so the
// exponential worst case is irrelevant in practice.
func matchMembers(specific, general []*Agent, used []bool, idx int, ont *ontology.Ontology) bool {
	if idx == len(general) {
		return true
	}
	for i, sm := range specific {
		if used[i] || !sm.Refines(general[idx], ont) {
			continue
		}
		used[i] = true
		if matchMembers(specific, general, used, idx+1, ont) {
			return true
		}
		used[i] = false
	}
	return false
}

// Copy returns a deep copy without support links.
func (c *Complex) Copy() Statement {
	cp := &Complex{Core: copyCore(c.Core)}
	for _, m := range c.Members {
		cp.Members = append(cp.Members, m.Copy())
	}
	return cp
}

// Conversion asserts that a controller converts a set of reactants into a
// set of products.
type Conversion struct {
	Core

	// Subj is the controlling agent; may be nil.
	Subj *Agent `json:"subj,omitempty"`

	// ObjFrom are the reactants consumed by the conversion.
	ObjFrom []*Agent `json:"obj_from,omitempty"`

	// ObjTo are the products of the conversion.
	ObjTo []*Agent `json:"obj_to,omitempty"`
}

// NewConversion creates a conversion statement.
func NewConversion(subj *Agent, objFrom, objTo []*Agent, evidence ...*Evidence) *Conversion {
	return &Conversion{Core: newCore(evidence...), Subj: subj, ObjFrom: objFrom, ObjTo: objTo}
}

// Type returns Conversion.
func (c *Conversion) Type() Type {
	return TypeConversion
}

// AgentList returns the controller followed by reactants and products.
func (c *Conversion) AgentList() []*Agent {
	agents := []*Agent{c.Subj}
	agents = append(agents, c.ObjFrom...)
	agents = append(agents, c.ObjTo...)
	return agents
}

// MatchesKey returns the canonical deduplication key. Reactant and
// product keys are sorted within their role.
func (c *Conversion) MatchesKey() string {
	from := make([]string, 0, len(c.ObjFrom))
	for _, a := range c.ObjFrom {
		from = append(from, a.MatchesKey())
	}
	sort.Strings(from)
	to := make([]string, 0, len(c.ObjTo))
	for _, a := range c.ObjTo {
		to = append(to, a.MatchesKey())
	}
	sort.Strings(to)
	return fmt.Sprintf("%s(%s, [%s], [%s])",
		c.Type(), c.Subj.MatchesKey(), strings.Join(from, "; "), strings.Join(to, "; "))
}

// RefinementOf reports whether the receiver refines other. Reactant and
// product lists must have matching lengths and refine member-wise under
// an injective assignment; the controller refines agent-wise.
func (c *Conversion) RefinementOf(other Statement, ont *ontology.Ontology) bool {
	o, ok := other.(*Conversion)
	if !ok {
		return false
	}
	if o.Subj != nil && (c.Subj == nil || !c.Subj.Refines(o.Subj, ont)) {
		return false
	}
	if len(c.ObjFrom) != len(o.ObjFrom) || len(c.ObjTo) != len(o.ObjTo) {
		return false
	}
	usedFrom := make([]bool, len(c.ObjFrom))
	if !matchMembers(c.ObjFrom, o.ObjFrom, usedFrom, 0, ont) {
		return false
	}
	usedTo := make([]bool, len(c.ObjTo))
	return matchMembers(c.ObjTo, o.ObjTo, usedTo, 0, ont)
}

// Copy returns a deep copy without support links.
func (c *Conversion) Copy() Statement {
	cp := &Conversion{Core: copyCore(c.Core), Subj: c.Subj.Copy()}
	for _, a := range c.ObjFrom {
		cp.ObjFrom = append(cp.ObjFrom, a.Copy())
	}
	for _, a := range c.ObjTo {
		cp.ObjTo = append(cp.ObjTo, a.Copy())
	}
	return cp
}
