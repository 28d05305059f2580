package statement

import (
	"fmt"

	"github.com/causalbio/sdk/ontology"
)

// Polarity values for influence deltas. Zero means unknown.
const (
	PolarityPositive = 1
	PolarityNegative = -1
	PolarityUnknown  = 0
)

// Delta describes the direction of change of an event in an influence,
// together with the qualifying adjectives reported by the sources.
type Delta struct {
	// Polarity is PolarityPositive, PolarityNegative or PolarityUnknown.
	Polarity int `json:"polarity,omitempty"`

	// Adjectives are qualifier words attached to the event, e.g.
	// "significantly", "slightly".
	Adjectives []string `json:"adjectives,omitempty"`
}

// Copy returns a deep copy of the delta.
func (d *Delta) Copy() *Delta {
	if d == nil {
		return nil
	}
	return &Delta{
		Polarity:   d.Polarity,
		Adjectives: append([]string(nil), d.Adjectives...),
	}
}

// Event is one side of an influence: a concept together with its delta.
type Event struct {
	// Concept is the entity or process the event is about.
	Concept *Agent `json:"concept"`

	// Delta is the direction of change; may be nil when unreported.
	Delta *Delta `json:"delta,omitempty"`
}

// Copy returns a deep copy of the event.
func (e *Event) Copy() *Event {
	if e == nil {
		return nil
	}
	return &Event{Concept: e.Concept.Copy(), Delta: e.Delta.Copy()}
}

func (e *Event) polarity() int {
	if e == nil || e.Delta == nil {
		return PolarityUnknown
	}
	return e.Delta.Polarity
}

// Influence asserts an unsigned or signed causal influence between two
// events, used for world-modeling sources where concepts are not
// molecular entities.
type Influence struct {
	Core

	// Subj is the causing event.
	Subj *Event `json:"subj"`

	// Obj is the affected event.
	Obj *Event `json:"obj"`
}

// NewInfluence creates an influence statement.
func NewInfluence(subj, obj *Event, evidence ...*Evidence) *Influence {
	return &Influence{Core: newCore(evidence...), Subj: subj, Obj: obj}
}

// Type returns Influence.
func (i *Influence) Type() Type {
	return TypeInfluence
}

// AgentList returns the subject and object concepts.
func (i *Influence) AgentList() []*Agent {
	var subj, obj *Agent
	if i.Subj != nil {
		subj = i.Subj.Concept
	}
	if i.Obj != nil {
		obj = i.Obj.Concept
	}
	return []*Agent{subj, obj}
}

// MatchesKey returns the canonical deduplication key including the
// polarities of both events.
func (i *Influence) MatchesKey() string {
	agents := i.AgentList()
	return fmt.Sprintf("%s(%s/%d, %s/%d)",
		i.Type(),
		agents[0].MatchesKey(), i.Subj.polarity(),
		agents[1].MatchesKey(), i.Obj.polarity())
}

// RefinementOf reports whether the receiver refines other: concept-wise
// refinement with polarities equal or unknown on the general side.
func (i *Influence) RefinementOf(other Statement, ont *ontology.Ontology) bool {
	o, ok := other.(*Influence)
	if !ok {
		return false
	}
	if !agentsRefine(i.AgentList(), o.AgentList(), ont) {
		return false
	}
	return polarityRefines(i.Subj.polarity(), o.Subj.polarity()) &&
		polarityRefines(i.Obj.polarity(), o.Obj.polarity())
}

func polarityRefines(specific, general int) bool {
	return general == PolarityUnknown || specific == general
}

// Copy returns a deep copy without support links.
func (i *Influence) Copy() Statement {
	return &Influence{
		Core: copyCore(i.Core),
		Subj: i.Subj.Copy(),
		Obj:  i.Obj.Copy(),
	}
}

// OverallPolarity returns the combined polarity of the influence: the
// product of subject and object polarities, or unknown when either side
// is unknown.
func (i *Influence) OverallPolarity() int {
	sp, op := i.Subj.polarity(), i.Obj.polarity()
	if sp == PolarityUnknown || op == PolarityUnknown {
		return PolarityUnknown
	}
	return sp * op
}
