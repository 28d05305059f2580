package statement

import (
	"fmt"

	"github.com/causalbio/sdk/ontology"
)

// RegulateActivity asserts that a subject activates or inhibits an
// activity of an object, e.g. "BRAF activates MAP2K1 kinase activity".
type RegulateActivity struct {
	Core

	// Subj is the regulating agent.
	Subj *Agent `json:"subj"`

	// Obj is the regulated agent.
	Obj *Agent `json:"obj"`

	// ObjActivity names the regulated activity; "activity" when the
	// source did not specify one.
	ObjActivity string `json:"obj_activity,omitempty"`

	// IsActivation is true for activation, false for inhibition.
	IsActivation bool `json:"is_activation"`
}

// NewActivation creates an activation statement.
func NewActivation(subj, obj *Agent, objActivity string, evidence ...*Evidence) *RegulateActivity {
	return newRegulateActivity(subj, obj, objActivity, true, evidence)
}

// NewInhibition creates an inhibition statement.
func NewInhibition(subj, obj *Agent, objActivity string, evidence ...*Evidence) *RegulateActivity {
	return newRegulateActivity(subj, obj, objActivity, false, evidence)
}

func newRegulateActivity(subj, obj *Agent, objActivity string, isActivation bool, evidence []*Evidence) *RegulateActivity {
	if objActivity == "" {
		objActivity = "activity"
	}
	return &RegulateActivity{
		Core:         newCore(evidence...),
		Subj:         subj,
		Obj:          obj,
		ObjActivity:  objActivity,
		IsActivation: isActivation,
	}
}

// Type returns Activation or Inhibition.
func (r *RegulateActivity) Type() Type {
	if r.IsActivation {
		return TypeActivation
	}
	return TypeInhibition
}

// AgentList returns [subject, object].
func (r *RegulateActivity) AgentList() []*Agent {
	return []*Agent{r.Subj, r.Obj}
}

// MatchesKey returns the canonical deduplication key.
func (r *RegulateActivity) MatchesKey() string {
	return fmt.Sprintf("%s(%s, %s, %s)",
		r.Type(), r.Subj.MatchesKey(), r.Obj.MatchesKey(), r.ObjActivity)
}

// RefinementOf reports whether the receiver refines other: same polarity,
// agent-wise refinement, and object activity refinement in the activity
// hierarchy.
func (r *RegulateActivity) RefinementOf(other Statement, ont *ontology.Ontology) bool {
	o, ok := other.(*RegulateActivity)
	if !ok || r.IsActivation != o.IsActivation {
		return false
	}
	if !agentsRefine(r.AgentList(), o.AgentList(), ont) {
		return false
	}
	if ont != nil {
		return ont.ActivityRefinementOf(r.ObjActivity, o.ObjActivity)
	}
	return r.ObjActivity == o.ObjActivity || o.ObjActivity == "activity"
}

// Copy returns a deep copy without support links.
func (r *RegulateActivity) Copy() Statement {
	return &RegulateActivity{
		Core:         copyCore(r.Core),
		Subj:         r.Subj.Copy(),
		Obj:          r.Obj.Copy(),
		ObjActivity:  r.ObjActivity,
		IsActivation: r.IsActivation,
	}
}

// RegulateAmount asserts that a subject increases or decreases the amount
// of an object, e.g. "TP53 increases the amount of MDM2".
type RegulateAmount struct {
	Core

	// Subj is the regulating agent.
	Subj *Agent `json:"subj"`

	// Obj is the regulated agent.
	Obj *Agent `json:"obj"`

	// IsIncrease is true for amount increase, false for decrease.
	IsIncrease bool `json:"is_increase"`
}

// NewIncreaseAmount creates an amount-increase statement.
func NewIncreaseAmount(subj, obj *Agent, evidence ...*Evidence) *RegulateAmount {
	return &RegulateAmount{Core: newCore(evidence...), Subj: subj, Obj: obj, IsIncrease: true}
}

// NewDecreaseAmount creates an amount-decrease statement.
func NewDecreaseAmount(subj, obj *Agent, evidence ...*Evidence) *RegulateAmount {
	return &RegulateAmount{Core: newCore(evidence...), Subj: subj, Obj: obj, IsIncrease: false}
}

// Type returns IncreaseAmount or DecreaseAmount.
func (r *RegulateAmount) Type() Type {
	if r.IsIncrease {
		return TypeIncreaseAmount
	}
	return TypeDecreaseAmount
}

// AgentList returns [subject, object].
func (r *RegulateAmount) AgentList() []*Agent {
	return []*Agent{r.Subj, r.Obj}
}

// MatchesKey returns the canonical deduplication key.
func (r *RegulateAmount) MatchesKey() string {
	return fmt.Sprintf("%s(%s, %s)", r.Type(), r.Subj.MatchesKey(), r.Obj.MatchesKey())
}

// RefinementOf reports whether the receiver refines other.
func (r *RegulateAmount) RefinementOf(other Statement, ont *ontology.Ontology) bool {
	o, ok := other.(*RegulateAmount)
	if !ok || r.IsIncrease != o.IsIncrease {
		return false
	}
	return agentsRefine(r.AgentList(), o.AgentList(), ont)
}

// Copy returns a deep copy without support links.
func (r *RegulateAmount) Copy() Statement {
	return &RegulateAmount{
		Core:       copyCore(r.Core),
		Subj:       r.Subj.Copy(),
		Obj:        r.Obj.Copy(),
		IsIncrease: r.IsIncrease,
	}
}

// ActiveForm asserts that an agent in a given state has (or lacks) an
// activity, e.g. "MAPK1 phosphorylated at T185 is kinase-active".
type ActiveForm struct {
	Core

	// Agent is the agent whose state conditions define the active form.
	Agent *Agent `json:"agent"`

	// ActivityType names the activity gained or lost in this form.
	ActivityType string `json:"activity_type"`

	// IsActive is false when the form lacks the activity.
	IsActive bool `json:"is_active"`
}

// NewActiveForm creates an active-form statement.
func NewActiveForm(agent *Agent, activityType string, isActive bool, evidence ...*Evidence) *ActiveForm {
	if activityType == "" {
		activityType = "activity"
	}
	return &ActiveForm{
		Core:         newCore(evidence...),
		Agent:        agent,
		ActivityType: activityType,
		IsActive:     isActive,
	}
}

// Type returns ActiveForm.
func (a *ActiveForm) Type() Type {
	return TypeActiveForm
}

// AgentList returns the single agent.
func (a *ActiveForm) AgentList() []*Agent {
	return []*Agent{a.Agent}
}

// MatchesKey returns the canonical deduplication key.
func (a *ActiveForm) MatchesKey() string {
	return fmt.Sprintf("%s(%s, %s, %t)", a.Type(), a.Agent.MatchesKey(), a.ActivityType, a.IsActive)
}

// RefinementOf reports whether the receiver refines other.
func (a *ActiveForm) RefinementOf(other Statement, ont *ontology.Ontology) bool {
	o, ok := other.(*ActiveForm)
	if !ok || a.IsActive != o.IsActive {
		return false
	}
	if !a.Agent.Refines(o.Agent, ont) {
		return false
	}
	if ont != nil {
		return ont.ActivityRefinementOf(a.ActivityType, o.ActivityType)
	}
	return a.ActivityType == o.ActivityType || o.ActivityType == "activity"
}

// Copy returns a deep copy without support links.
func (a *ActiveForm) Copy() Statement {
	return &ActiveForm{
		Core:         copyCore(a.Core),
		Agent:        a.Agent.Copy(),
		ActivityType: a.ActivityType,
		IsActive:     a.IsActive,
	}
}
