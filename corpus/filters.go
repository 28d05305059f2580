package corpus

import (
	"errors"
	"fmt"
	"strings"

	"github.com/causalbio/sdk/ontology"
	"github.com/causalbio/sdk/statement"
)

// ErrBadPolicy indicates an unrecognized filter policy value.
var ErrBadPolicy = errors.New("unrecognized filter policy")

// Policy selects how a multi-agent or multi-evidence criterion combines.
type Policy string

const (
	// PolicyOne requires at least one agent or evidence to satisfy the
	// criterion.
	PolicyOne Policy = "one"

	// PolicyAll requires every agent, or every listed source, to satisfy
	// the criterion.
	PolicyAll Policy = "all"

	// PolicyNone requires that no evidence satisfies the criterion. Only
	// valid for evidence source filtering.
	PolicyNone Policy = "none"
)

// FilterByType keeps statements of the given type, or drops them when
// invert is set.
func FilterByType(stmts []statement.Statement, t statement.Type, invert bool) []statement.Statement {
	out := filter(stmts, func(st statement.Statement) bool {
		return (st.Type() == t) != invert
	})
	log().Info("filtered by type", "type", t, "invert", invert, "in", len(stmts), "out", len(out))
	return out
}

// FilterGroundedOnly keeps statements all of whose agents carry at least
// one non-text grounding reference. A positive scoreThreshold further
// requires, per agent slot, a scored raw-grounding candidate on some
// evidence exceeding the threshold. With removeBound, ungrounded binding
// partners are stripped from agents in place instead of disqualifying
// the statement.
func FilterGroundedOnly(stmts []statement.Statement, scoreThreshold float64, removeBound bool) []statement.Statement {
	grounded := func(ag *statement.Agent) bool { return ag.IsGrounded() }
	out := filter(stmts, func(st statement.Statement) bool {
		if removeBound {
			removeBoundConditions(st, grounded)
		} else if anyBoundConditionFails(st, grounded) {
			return false
		}
		for i, ag := range st.AgentList() {
			if ag == nil {
				continue
			}
			if !ag.IsGrounded() {
				return false
			}
			if scoreThreshold > 0 && !slotScorePasses(st, i, scoreThreshold) {
				return false
			}
		}
		return true
	})
	log().Info("filtered grounded only", "score_threshold", scoreThreshold, "in", len(stmts), "out", len(out))
	return out
}

// slotScorePasses reports whether any evidence carries a scored
// raw-grounding candidate above the threshold for the given agent slot.
func slotScorePasses(st statement.Statement, slot int, threshold float64) bool {
	for _, ev := range st.Info().Evidence {
		if slot >= len(ev.RawGroundings) {
			continue
		}
		for _, cands := range ev.RawGroundings[slot] {
			for _, c := range cands {
				if c.HasScore && c.Score > threshold {
					return true
				}
			}
		}
	}
	return false
}

// FilterGenesOnly keeps statements all of whose agents are grounded to
// genes: an HGNC reference, or a FPLX family reference unless
// specificOnly is set. With removeBound, failing binding partners are
// stripped in place instead of disqualifying the statement.
func FilterGenesOnly(stmts []statement.Statement, specificOnly, removeBound bool) []statement.Statement {
	isGene := func(ag *statement.Agent) bool {
		if ag.DBRefs[statement.NamespaceHGNC] != "" {
			return true
		}
		return !specificOnly && ag.DBRefs[statement.NamespaceFPLX] != ""
	}
	out := filter(stmts, func(st statement.Statement) bool {
		if removeBound {
			removeBoundConditions(st, isGene)
		} else if anyBoundConditionFails(st, isGene) {
			return false
		}
		for _, ag := range st.AgentList() {
			if ag == nil {
				continue
			}
			if !isGene(ag) {
				return false
			}
		}
		return true
	})
	log().Info("filtered genes only", "specific_only", specificOnly, "in", len(stmts), "out", len(out))
	return out
}

// FilterBelief keeps statements whose belief meets the cutoff. Support
// links to removed statements are pruned from the survivors.
func FilterBelief(stmts []statement.Statement, cutoff float64) []statement.Statement {
	out := filter(stmts, func(st statement.Statement) bool {
		return st.Info().Belief >= cutoff
	})

	// Drop support links pointing at statements that fell below the
	// cutoff so hierarchy queries stay consistent.
	kept := make(map[string]bool, len(out))
	for _, st := range out {
		kept[st.Info().ID] = true
	}
	for _, st := range out {
		info := st.Info()
		info.Supports = pruneLinks(info.Supports, kept)
		info.SupportedBy = pruneLinks(info.SupportedBy, kept)
	}

	log().Info("filtered by belief", "cutoff", cutoff, "in", len(stmts), "out", len(out))
	return out
}

func pruneLinks(links []statement.Statement, kept map[string]bool) []statement.Statement {
	out := links[:0]
	for _, l := range links {
		if kept[l.Info().ID] {
			out = append(out, l)
		}
	}
	return out
}

// GeneListOptions configures FilterGeneList.
type GeneListOptions struct {
	// Policy is PolicyOne (default) or PolicyAll.
	Policy Policy

	// AllowFamilies also accepts family and complex entities whose
	// members include a listed gene. Requires Ontology.
	AllowFamilies bool

	// RemoveBound strips binding partners failing the criterion in place
	// instead of disqualifying the statement.
	RemoveBound bool

	// Invert keeps the statements failing the criterion instead.
	Invert bool

	// Ontology resolves gene names and family membership when
	// AllowFamilies is set.
	Ontology *ontology.Ontology
}

// FilterGeneList keeps statements whose agents are drawn from the given
// gene list according to the policy: at least one agent (PolicyOne) or
// every agent (PolicyAll) must be named in the list. Binding partners
// count toward the policy unless RemoveBound strips the failing ones
// first. Invert flips the statement-level verdict.
func FilterGeneList(stmts []statement.Statement, genes []string, opts GeneListOptions) ([]statement.Statement, error) {
	policy := opts.Policy
	if policy == "" {
		policy = PolicyOne
	}
	if policy != PolicyOne && policy != PolicyAll {
		return nil, fmt.Errorf("%w: %q", ErrBadPolicy, policy)
	}
	allowed := nameSet(genes)
	if opts.AllowFamilies {
		if opts.Ontology == nil {
			return nil, errors.New("gene list filter: AllowFamilies requires an ontology")
		}
		for _, gene := range genes {
			ref, ok := opts.Ontology.RefByName(gene)
			if !ok {
				continue
			}
			for _, anc := range opts.Ontology.Ancestors(ref) {
				if name := opts.Ontology.Name(anc); name != "" {
					allowed[name] = struct{}{}
				}
			}
		}
	}
	inList := func(ag *statement.Agent) bool {
		_, ok := allowed[ag.Name]
		return ok
	}
	keepBound := inList
	if opts.Invert {
		keepBound = func(ag *statement.Agent) bool { return !inList(ag) }
	}
	out := filter(stmts, func(st statement.Statement) bool {
		agents := st.AgentList()
		if opts.RemoveBound {
			removeBoundConditions(st, keepBound)
		} else {
			agents = withBoundAgents(agents)
		}
		return agentsSatisfy(agents, policy, inList) != opts.Invert
	})
	log().Info("filtered by gene list", "genes", len(genes), "policy", policy, "invert", opts.Invert, "in", len(stmts), "out", len(out))
	return out, nil
}

// FilterConceptNames keeps statements whose agent names are drawn from
// the given list according to the policy. Invert flips the
// statement-level verdict. Intended for influence corpora where
// concepts are not gene-grounded.
func FilterConceptNames(stmts []statement.Statement, names []string, policy Policy, invert bool) ([]statement.Statement, error) {
	if policy == "" {
		policy = PolicyOne
	}
	if policy != PolicyOne && policy != PolicyAll {
		return nil, fmt.Errorf("%w: %q", ErrBadPolicy, policy)
	}
	allowed := nameSet(names)
	inList := func(ag *statement.Agent) bool {
		_, ok := allowed[ag.Name]
		return ok
	}
	out := filter(stmts, func(st statement.Statement) bool {
		return agentsSatisfy(st.AgentList(), policy, inList) != invert
	})
	log().Info("filtered by concept names", "names", len(names), "policy", policy, "in", len(stmts), "out", len(out))
	return out, nil
}

// FilterByDBRefs keeps statements whose agents carry one of the given
// identifiers in a namespace, according to the policy. With matchSuffix
// an agent matches when its identifier ends with one of the values.
// Invert flips the per-agent criterion.
func FilterByDBRefs(stmts []statement.Statement, namespace string, values []string, policy Policy, matchSuffix, invert bool) ([]statement.Statement, error) {
	if policy == "" {
		policy = PolicyOne
	}
	if policy != PolicyOne && policy != PolicyAll {
		return nil, fmt.Errorf("%w: %q", ErrBadPolicy, policy)
	}
	matches := func(ag *statement.Agent) bool {
		id := ag.DBRefs[namespace]
		hit := false
		if id != "" {
			for _, v := range values {
				if id == v || (matchSuffix && strings.HasSuffix(id, v)) {
					hit = true
					break
				}
			}
		}
		return hit != invert
	}
	out := filter(stmts, func(st statement.Statement) bool {
		return agentsSatisfy(st.AgentList(), policy, matches)
	})
	log().Info("filtered by db refs", "namespace", namespace, "policy", policy, "in", len(stmts), "out", len(out))
	return out, nil
}

// FilterHumanOnly keeps statements none of whose agents is grounded to a
// non-human protein, as judged by the isHuman predicate over UniProt
// identifiers. Agents without a UniProt reference pass. With
// removeBound, non-human binding partners are stripped in place instead
// of disqualifying the statement.
func FilterHumanOnly(stmts []statement.Statement, isHuman func(upID string) bool, removeBound bool) []statement.Statement {
	human := func(ag *statement.Agent) bool {
		up := ag.DBRefs[statement.NamespaceUP]
		return up == "" || isHuman(up)
	}
	out := filter(stmts, func(st statement.Statement) bool {
		if removeBound {
			removeBoundConditions(st, human)
		} else if anyBoundConditionFails(st, human) {
			return false
		}
		for _, ag := range st.AgentList() {
			if ag == nil {
				continue
			}
			if !human(ag) {
				return false
			}
		}
		return true
	})
	log().Info("filtered human only", "in", len(stmts), "out", len(out))
	return out
}

// FilterDirect keeps statements asserting a direct physical interaction:
// some evidence marks the statement direct, or no evidence takes a
// position on directness. Statements whose only directness information
// is negative are dropped.
func FilterDirect(stmts []statement.Statement) []statement.Statement {
	out := filter(stmts, func(st statement.Statement) bool {
		sawIndirect := false
		for _, ev := range st.Info().Evidence {
			if ev.Epistemics.Direct == nil {
				continue
			}
			if *ev.Epistemics.Direct {
				return true
			}
			sawIndirect = true
		}
		return !sawIndirect
	})
	log().Info("filtered direct", "in", len(stmts), "out", len(out))
	return out
}

// FilterNoHypothesis keeps statements with at least one evidence not
// marked as a hypothesis. Statements without evidence are kept.
func FilterNoHypothesis(stmts []statement.Statement) []statement.Statement {
	out := filter(stmts, func(st statement.Statement) bool {
		evs := st.Info().Evidence
		if len(evs) == 0 {
			return true
		}
		for _, ev := range evs {
			if !ev.Epistemics.Hypothesis {
				return true
			}
		}
		return false
	})
	log().Info("filtered hypotheses", "in", len(stmts), "out", len(out))
	return out
}

// FilterNoNegated keeps statements with at least one evidence not marked
// as negated. Statements without evidence are kept.
func FilterNoNegated(stmts []statement.Statement) []statement.Statement {
	out := filter(stmts, func(st statement.Statement) bool {
		evs := st.Info().Evidence
		if len(evs) == 0 {
			return true
		}
		for _, ev := range evs {
			if !ev.Epistemics.Negated {
				return true
			}
		}
		return false
	})
	log().Info("filtered negations", "in", len(stmts), "out", len(out))
	return out
}

// FilterEvidenceSource keeps statements by the sources of their
// evidence: at least one evidence from the listed sources (PolicyOne),
// evidence from every listed source (PolicyAll), or no evidence from any
// listed source (PolicyNone).
func FilterEvidenceSource(stmts []statement.Statement, sources []string, policy Policy) ([]statement.Statement, error) {
	if policy == "" {
		policy = PolicyOne
	}
	if policy != PolicyOne && policy != PolicyAll && policy != PolicyNone {
		return nil, fmt.Errorf("%w: %q", ErrBadPolicy, policy)
	}
	wanted := nameSet(sources)
	out := filter(stmts, func(st statement.Statement) bool {
		present := make(map[string]struct{})
		for _, ev := range st.Info().Evidence {
			if _, ok := wanted[ev.SourceAPI]; ok {
				present[ev.SourceAPI] = struct{}{}
			}
		}
		switch policy {
		case PolicyOne:
			return len(present) > 0
		case PolicyAll:
			return len(present) == len(wanted)
		default:
			return len(present) == 0
		}
	})
	log().Info("filtered by evidence source", "sources", sources, "policy", policy, "in", len(stmts), "out", len(out))
	return out, nil
}

// FilterTopLevel keeps the most specific statements of an assembled
// corpus, i.e. those no other statement refines.
func FilterTopLevel(stmts []statement.Statement) []statement.Statement {
	out := filter(stmts, func(st statement.Statement) bool {
		return st.Info().IsTopLevel()
	})
	log().Info("filtered top level", "in", len(stmts), "out", len(out))
	return out
}

// siteKey identifies a modification site pattern for consequence checks.
func siteKey(modType, residue, position string) string {
	return modType + "|" + residue + "|" + position
}

// FilterInconsequentialMods drops modification statements whose effect
// no other statement consumes: the modification they establish on their
// substrate never appears as an agent state condition elsewhere in the
// corpus. The whitelist maps agent names to modification conditions that
// always count as consequential.
func FilterInconsequentialMods(stmts []statement.Statement, whitelist map[string][]statement.ModCondition) []statement.Statement {
	used := make(map[string]map[string]struct{})
	record := func(name string, mc statement.ModCondition) {
		if used[name] == nil {
			used[name] = make(map[string]struct{})
		}
		used[name][siteKey(mc.ModType, mc.Residue, mc.Position)] = struct{}{}
	}
	for name, mcs := range whitelist {
		for _, mc := range mcs {
			record(name, mc)
		}
	}
	for _, st := range stmts {
		for _, ag := range st.AgentList() {
			if ag == nil {
				continue
			}
			for _, mc := range ag.Mods {
				record(ag.Name, mc)
			}
		}
	}
	out := filter(stmts, func(st statement.Statement) bool {
		mod, ok := st.(*statement.Modification)
		if !ok {
			return true
		}
		if mod.Sub == nil {
			return true
		}
		mc := mod.ModConditionFor()
		_, consequential := used[mod.Sub.Name][siteKey(mc.ModType, mc.Residue, mc.Position)]
		return consequential
	})
	log().Info("filtered inconsequential modifications", "in", len(stmts), "out", len(out))
	return out
}

// FilterInconsequentialActs drops activity regulations whose regulated
// activity no other statement consumes as an agent activity condition.
// The whitelist maps agent names to activity types that always count as
// consequential.
func FilterInconsequentialActs(stmts []statement.Statement, whitelist map[string][]string) []statement.Statement {
	used := make(map[string]map[string]struct{})
	record := func(name, act string) {
		if used[name] == nil {
			used[name] = make(map[string]struct{})
		}
		used[name][act] = struct{}{}
	}
	for name, acts := range whitelist {
		for _, act := range acts {
			record(name, act)
		}
	}
	for _, st := range stmts {
		for _, ag := range st.AgentList() {
			if ag == nil || ag.Activity == nil {
				continue
			}
			record(ag.Name, ag.Activity.ActivityType)
		}
	}
	out := filter(stmts, func(st statement.Statement) bool {
		reg, ok := st.(*statement.RegulateActivity)
		if !ok {
			return true
		}
		if reg.Obj == nil {
			return true
		}
		_, consequential := used[reg.Obj.Name][reg.ObjActivity]
		return consequential
	})
	log().Info("filtered inconsequential activities", "in", len(stmts), "out", len(out))
	return out
}

// FilterMutationStatus keeps statements consistent with a cell line's
// mutation profile: agents named in deletions disqualify the statement,
// and every mutation condition on an agent must appear among the
// mutations recorded for that agent.
func FilterMutationStatus(stmts []statement.Statement, mutations map[string][]statement.MutCondition, deletions []string) []statement.Statement {
	deleted := nameSet(deletions)
	out := filter(stmts, func(st statement.Statement) bool {
		for _, ag := range st.AgentList() {
			if ag == nil {
				continue
			}
			if _, gone := deleted[ag.Name]; gone {
				return false
			}
			for _, mut := range ag.Mutations {
				found := false
				for _, allowed := range mutations[ag.Name] {
					if mut == allowed {
						found = true
						break
					}
				}
				if !found {
					return false
				}
			}
		}
		return true
	})
	log().Info("filtered by mutation status", "in", len(stmts), "out", len(out))
	return out
}

// FilterEnzymeKinase keeps phosphorylation statements only when their
// enzyme is a known kinase. Other statement types pass unchanged.
func FilterEnzymeKinase(stmts []statement.Statement) ([]statement.Statement, error) {
	lists, err := DefaultGeneLists()
	if err != nil {
		return nil, err
	}
	kinases := nameSet(lists.Kinases)
	out := filter(stmts, func(st statement.Statement) bool {
		mod, ok := st.(*statement.Modification)
		if !ok || mod.Kind != statement.ModPhosphorylation {
			return true
		}
		if mod.Enz == nil {
			return false
		}
		_, isKinase := kinases[mod.Enz.Name]
		return isKinase
	})
	log().Info("filtered phosphorylations by kinase enzyme", "in", len(stmts), "out", len(out))
	return out, nil
}

// FilterModNoKinase keeps non-phosphorylation modification statements
// only when their enzyme is not a known kinase. Phosphorylations and
// other statement types pass unchanged; every other modification kind,
// dephosphorylation included, is checked.
func FilterModNoKinase(stmts []statement.Statement) ([]statement.Statement, error) {
	lists, err := DefaultGeneLists()
	if err != nil {
		return nil, err
	}
	kinases := nameSet(lists.Kinases)
	out := filter(stmts, func(st statement.Statement) bool {
		mod, ok := st.(*statement.Modification)
		if !ok || mod.Kind == statement.ModPhosphorylation {
			return true
		}
		if mod.Enz == nil {
			return false
		}
		_, isKinase := kinases[mod.Enz.Name]
		return !isKinase
	})
	log().Info("filtered non-phospho modifications by non-kinase enzyme", "in", len(stmts), "out", len(out))
	return out, nil
}

// FilterTranscriptionFactor keeps amount regulations only when their
// subject is a known transcription factor. Other statement types pass
// unchanged.
func FilterTranscriptionFactor(stmts []statement.Statement) ([]statement.Statement, error) {
	lists, err := DefaultGeneLists()
	if err != nil {
		return nil, err
	}
	tfs := nameSet(lists.TranscriptionFactors)
	out := filter(stmts, func(st statement.Statement) bool {
		reg, ok := st.(*statement.RegulateAmount)
		if !ok {
			return true
		}
		if reg.Subj == nil {
			return false
		}
		_, isTF := tfs[reg.Subj.Name]
		return isTF
	})
	log().Info("filtered amount regulations by transcription factor", "in", len(stmts), "out", len(out))
	return out, nil
}

// FilterUUIDList keeps statements whose IDs appear in the given list, or
// drops them when invert is set.
func FilterUUIDList(stmts []statement.Statement, ids []string, invert bool) []statement.Statement {
	wanted := nameSet(ids)
	out := filter(stmts, func(st statement.Statement) bool {
		_, ok := wanted[st.Info().ID]
		return ok != invert
	})
	log().Info("filtered by uuid list", "ids", len(ids), "invert", invert, "in", len(stmts), "out", len(out))
	return out
}

// filter returns the statements satisfying keep, preserving order.
func filter(stmts []statement.Statement, keep func(statement.Statement) bool) []statement.Statement {
	out := make([]statement.Statement, 0, len(stmts))
	for _, st := range stmts {
		if keep(st) {
			out = append(out, st)
		}
	}
	return out
}

// agentsSatisfy combines a per-agent criterion over the non-nil agents
// of a statement according to the policy.
func agentsSatisfy(agents []*statement.Agent, policy Policy, criterion func(*statement.Agent) bool) bool {
	any, all := false, true
	for _, ag := range agents {
		if ag == nil {
			continue
		}
		if criterion(ag) {
			any = true
		} else {
			all = false
		}
	}
	if policy == PolicyAll {
		return all
	}
	return any
}

// withBoundAgents appends the binding partners of each agent to the
// agent list, so criteria can count them alongside the main arguments.
func withBoundAgents(agents []*statement.Agent) []*statement.Agent {
	out := append([]*statement.Agent(nil), agents...)
	for _, ag := range agents {
		if ag == nil {
			continue
		}
		for _, bc := range ag.BoundConditions {
			if bc.Agent != nil {
				out = append(out, bc.Agent)
			}
		}
	}
	return out
}

// removeBoundConditions strips binding partners failing the criterion
// from all agents of the statement, in place.
func removeBoundConditions(st statement.Statement, keep func(*statement.Agent) bool) {
	for _, ag := range st.AgentList() {
		if ag == nil || len(ag.BoundConditions) == 0 {
			continue
		}
		kept := ag.BoundConditions[:0]
		for _, bc := range ag.BoundConditions {
			if bc.Agent != nil && keep(bc.Agent) {
				kept = append(kept, bc)
			}
		}
		ag.BoundConditions = kept
	}
}

// anyBoundConditionFails reports whether any binding partner of any
// agent fails the criterion.
func anyBoundConditionFails(st statement.Statement, keep func(*statement.Agent) bool) bool {
	for _, ag := range st.AgentList() {
		if ag == nil {
			continue
		}
		for _, bc := range ag.BoundConditions {
			if bc.Agent != nil && !keep(bc.Agent) {
				return true
			}
		}
	}
	return false
}
