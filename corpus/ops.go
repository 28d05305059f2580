package corpus

import (
	"context"

	"github.com/google/uuid"

	"github.com/causalbio/sdk/belief"
	"github.com/causalbio/sdk/grounding"
	"github.com/causalbio/sdk/ontology"
	"github.com/causalbio/sdk/preassembly"
	"github.com/causalbio/sdk/sitemap"
	"github.com/causalbio/sdk/statement"
)

// MapGrounding re-grounds the agents of the statements using the
// embedded grounding map, renaming agents to their canonical names.
func MapGrounding(stmts []statement.Statement) ([]statement.Statement, error) {
	m, err := grounding.DefaultMapper()
	if err != nil {
		return nil, err
	}
	return MapGroundingWith(m, stmts), nil
}

// MapGroundingWith re-grounds the agents of the statements using the
// given mapper.
func MapGroundingWith(m *grounding.Mapper, stmts []statement.Statement) []statement.Statement {
	out := m.MapAgents(stmts)
	log().Info("mapped grounding", "in", len(stmts), "out", len(out))
	return out
}

// MapSites corrects known-invalid modification sites using the embedded
// curated site map, dropping statements whose sites are invalid with no
// usable correction.
func MapSites(stmts []statement.Statement) ([]statement.Statement, error) {
	m, err := sitemap.DefaultMapper()
	if err != nil {
		return nil, err
	}
	return MapSitesWith(m, stmts), nil
}

// MapSitesWith corrects modification sites using the given mapper.
func MapSitesWith(m *sitemap.Mapper, stmts []statement.Statement) []statement.Statement {
	valid, mapped := m.MapSites(stmts)
	out := valid
	for _, ms := range mapped {
		if ms.Valid() {
			out = append(out, ms.Mapped)
		}
	}
	log().Info("mapped sites", "in", len(stmts), "out", len(out), "corrected", len(mapped))
	return out
}

// PreassemblyOptions configures RunPreassembly.
type PreassemblyOptions struct {
	// Ontology drives refinement checks; the embedded default is used
	// when nil.
	Ontology *ontology.Ontology

	// Scorer computes belief scores; the default scorer is used when
	// nil.
	Scorer belief.Scorer

	// FlattenEvidence additionally merges into each statement the
	// evidence of all more general statements it refines.
	FlattenEvidence bool

	// ReturnTopLevel restricts the result to the most specific
	// statements.
	ReturnTopLevel bool

	// SizeCutoff and Workers tune the parallel refinement search; zero
	// values use the preassembly defaults.
	SizeCutoff int
	Workers    int
}

// RunPreassembly performs the full assembly sequence: duplicates are
// combined, prior beliefs set, refinement links established, and
// hierarchy-aware beliefs computed over the linked corpus.
func RunPreassembly(ctx context.Context, stmts []statement.Statement, opts PreassemblyOptions) ([]statement.Statement, error) {
	ont := opts.Ontology
	if ont == nil {
		var err error
		ont, err = ontology.Default()
		if err != nil {
			return nil, err
		}
	}
	engine, err := belief.NewEngine(opts.Scorer)
	if err != nil {
		return nil, err
	}
	var paOpts []preassembly.Option
	if opts.SizeCutoff > 0 {
		paOpts = append(paOpts, preassembly.WithSizeCutoff(opts.SizeCutoff))
	}
	if opts.Workers > 0 {
		paOpts = append(paOpts, preassembly.WithWorkers(opts.Workers))
	}
	pa := preassembly.New(ont, paOpts...)

	unique := pa.CombineDuplicates(stmts)
	engine.SetPriorProbs(unique)
	related, err := pa.CombineRelated(ctx, unique)
	if err != nil {
		return nil, err
	}
	engine.SetHierarchyProbs(related)

	out := related
	if opts.FlattenEvidence {
		out = preassembly.FlattenEvidence(out, preassembly.CollectFromSupportedBy)
	}
	if opts.ReturnTopLevel {
		out = preassembly.TopLevel(out)
	}
	log().Info("ran preassembly", "in", len(stmts), "unique", len(unique), "out", len(out))
	return out, nil
}

// MergeGroundings surfaces consensus groundings from the candidates on
// each statement's evidence. Statements are modified in place.
func MergeGroundings(stmts []statement.Statement) []statement.Statement {
	out := grounding.MergeGroundings(stmts)
	log().Info("merged groundings", "count", len(out))
	return out
}

// ExpandFamilies replaces family- and complex-grounded agents by their
// individual members, generating one statement per member combination.
// Statements without family agents pass through unchanged; expanded
// statements are fresh copies with new IDs.
func ExpandFamilies(stmts []statement.Statement, ont *ontology.Ontology) []statement.Statement {
	var out []statement.Statement
	for _, st := range stmts {
		agents := st.AgentList()
		options := make([][]*statement.Agent, len(agents))
		expandable := false
		for i, ag := range agents {
			if ag == nil {
				continue
			}
			fplx := ag.DBRefs[statement.NamespaceFPLX]
			if fplx == "" {
				continue
			}
			leaves := ont.Leaves(ontology.Ref{NS: statement.NamespaceFPLX, ID: fplx})
			if len(leaves) == 0 {
				continue
			}
			members := make([]*statement.Agent, 0, len(leaves))
			for _, leaf := range leaves {
				member := ag.Copy()
				refs := map[string]string{leaf.NS: leaf.ID}
				if text := ag.DBRefs[statement.NamespaceText]; text != "" {
					refs[statement.NamespaceText] = text
				}
				member.DBRefs = refs
				if name := ont.Name(leaf); name != "" {
					member.Name = name
				}
				members = append(members, member)
			}
			options[i] = members
			expandable = true
		}
		if !expandable {
			out = append(out, st)
			continue
		}
		out = append(out, expandCombinations(st, options)...)
	}
	log().Info("expanded families", "in", len(stmts), "out", len(out))
	return out
}

// expandCombinations generates one statement copy per combination of the
// per-slot replacement agents. A nil options entry keeps the original
// agent in that slot.
func expandCombinations(st statement.Statement, options [][]*statement.Agent) []statement.Statement {
	var out []statement.Statement
	choice := make([]*statement.Agent, len(options))
	var walk func(slot int)
	walk = func(slot int) {
		if slot == len(options) {
			cp := st.Copy()
			cp.Info().ID = uuid.New().String()
			agents := cp.AgentList()
			for i, repl := range choice {
				if repl != nil && agents[i] != nil {
					*agents[i] = *repl.Copy()
				}
			}
			out = append(out, cp)
			return
		}
		if len(options[slot]) == 0 {
			choice[slot] = nil
			walk(slot + 1)
			return
		}
		for _, member := range options[slot] {
			choice[slot] = member
			walk(slot + 1)
		}
	}
	walk(0)
	return out
}

// ReduceActivities rewrites generic "activity" references to the one
// specific activity type known for an agent, gathered from active-form
// statements and explicit activity conditions across the corpus. Agents
// with several known activity types are left generic. Statements are
// modified in place.
func ReduceActivities(stmts []statement.Statement) []statement.Statement {
	known := make(map[string]map[string]struct{})
	record := func(name, act string) {
		if act == "" || act == "activity" {
			return
		}
		if known[name] == nil {
			known[name] = make(map[string]struct{})
		}
		known[name][act] = struct{}{}
	}
	for _, st := range stmts {
		if af, ok := st.(*statement.ActiveForm); ok && af.Agent != nil {
			record(af.Agent.Name, af.ActivityType)
		}
		if reg, ok := st.(*statement.RegulateActivity); ok && reg.Obj != nil {
			record(reg.Obj.Name, reg.ObjActivity)
		}
		for _, ag := range st.AgentList() {
			if ag == nil || ag.Activity == nil {
				continue
			}
			record(ag.Name, ag.Activity.ActivityType)
		}
	}
	single := func(name string) (string, bool) {
		acts := known[name]
		if len(acts) != 1 {
			return "", false
		}
		for act := range acts {
			return act, true
		}
		return "", false
	}
	for _, st := range stmts {
		if reg, ok := st.(*statement.RegulateActivity); ok && reg.Obj != nil && reg.ObjActivity == "activity" {
			if act, ok := single(reg.Obj.Name); ok {
				reg.ObjActivity = act
			}
		}
		for _, ag := range st.AgentList() {
			if ag == nil || ag.Activity == nil || ag.Activity.ActivityType != "activity" {
				continue
			}
			if act, ok := single(ag.Name); ok {
				ag.Activity.ActivityType = act
			}
		}
	}
	log().Info("reduced activities", "count", len(stmts))
	return stmts
}

// StripAgentContext returns deep copies of the statements with all agent
// state removed: modifications, mutations, activity, location and
// binding context.
func StripAgentContext(stmts []statement.Statement) []statement.Statement {
	out := make([]statement.Statement, 0, len(stmts))
	for _, st := range stmts {
		cp := st.Copy()
		for _, ag := range cp.AgentList() {
			if ag == nil {
				continue
			}
			ag.Mods = nil
			ag.Mutations = nil
			ag.Activity = nil
			ag.BoundConditions = nil
			ag.Location = ""
		}
		out = append(out, cp)
	}
	log().Info("stripped agent context", "count", len(out))
	return out
}

// Annotation keys consulted by MergeDeltas.
const (
	annSubjPolarity   = "subj_polarity"
	annObjPolarity    = "obj_polarity"
	annSubjAdjectives = "subj_adjectives"
	annObjAdjectives  = "obj_adjectives"
)

// MergeDeltas sets the subject and object deltas of influence statements
// from the per-evidence polarity and adjective annotations: the most
// frequent reported polarity wins, and adjectives are concatenated
// across evidence. Statements are modified in place.
func MergeDeltas(stmts []statement.Statement) []statement.Statement {
	for _, st := range stmts {
		inf, ok := st.(*statement.Influence)
		if !ok {
			continue
		}
		evidence := inf.Info().Evidence
		if inf.Subj != nil {
			inf.Subj.Delta = mergedDelta(evidence, annSubjPolarity, annSubjAdjectives)
		}
		if inf.Obj != nil {
			inf.Obj.Delta = mergedDelta(evidence, annObjPolarity, annObjAdjectives)
		}
	}
	log().Info("merged deltas", "count", len(stmts))
	return stmts
}

func mergedDelta(evidence []*statement.Evidence, polKey, adjKey string) *statement.Delta {
	counts := make(map[int]int)
	var adjectives []string
	seenAdj := make(map[string]struct{})
	for _, ev := range evidence {
		if p, ok := annotationPolarity(ev.Annotations[polKey]); ok {
			counts[p]++
		}
		for _, adj := range annotationStrings(ev.Annotations[adjKey]) {
			if _, ok := seenAdj[adj]; ok {
				continue
			}
			seenAdj[adj] = struct{}{}
			adjectives = append(adjectives, adj)
		}
	}
	polarity := statement.PolarityUnknown
	bestCount := 0
	for p, n := range counts {
		if n > bestCount || (n == bestCount && p > polarity) {
			polarity, bestCount = p, n
		}
	}
	if polarity == statement.PolarityUnknown && adjectives == nil {
		return nil
	}
	return &statement.Delta{Polarity: polarity, Adjectives: adjectives}
}

// annotationPolarity normalizes a polarity annotation value, which
// arrives as an int in fresh statements and a float64 after a JSON
// round trip.
func annotationPolarity(v any) (int, bool) {
	switch p := v.(type) {
	case int:
		return p, p != 0
	case float64:
		return int(p), p != 0
	default:
		return 0, false
	}
}

func annotationStrings(v any) []string {
	switch vals := v.(type) {
	case []string:
		return vals
	case []any:
		var out []string
		for _, item := range vals {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// AlignedPair is one row of an alignment between two corpora; either
// side may be nil when no counterpart exists.
type AlignedPair struct {
	Left  statement.Statement
	Right statement.Statement
}

// Align pairs the statements of two corpora by a key function, matches
// key by default. Unmatched statements appear with a nil counterpart;
// output order follows the left corpus, then the unmatched right.
func Align(left, right []statement.Statement, key func(statement.Statement) string) []AlignedPair {
	if key == nil {
		key = statement.Statement.MatchesKey
	}
	rightByKey := make(map[string][]statement.Statement)
	for _, st := range right {
		k := key(st)
		rightByKey[k] = append(rightByKey[k], st)
	}
	var pairs []AlignedPair
	for _, st := range left {
		k := key(st)
		if matches := rightByKey[k]; len(matches) > 0 {
			pairs = append(pairs, AlignedPair{Left: st, Right: matches[0]})
			rightByKey[k] = matches[1:]
			continue
		}
		pairs = append(pairs, AlignedPair{Left: st})
	}
	for _, st := range right {
		k := key(st)
		if matches := rightByKey[k]; len(matches) > 0 && matches[0] == st {
			pairs = append(pairs, AlignedPair{Right: st})
			rightByKey[k] = matches[1:]
		}
	}
	log().Info("aligned corpora", "left", len(left), "right", len(right), "pairs", len(pairs))
	return pairs
}
