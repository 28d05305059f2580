// Package present renders assembled statements for human review:
// grouping and sorting by relation arguments with evidence counts, and
// English sentence generation.
package present

import (
	"fmt"
	"sort"
	"strings"

	"github.com/causalbio/sdk/statement"
)

// Group is one row of a grouped corpus view: the statements sharing a
// verb and argument tuple, with their aggregate evidence counts.
type Group struct {
	// Verb is the statement type of the group.
	Verb statement.Type

	// Args are the normalized argument names of the group key; "None"
	// stands for an unfilled role.
	Args []string

	// Count is the total evidence count of the statements in the group.
	Count int

	// ArgCount is the total evidence count over all groups sharing the
	// same argument tuple regardless of verb, so that closely related
	// relations sort together.
	ArgCount int

	// Statements are the group members, sorted by evidence count
	// descending.
	Statements []statement.Statement

	// Sentence is an English rendering of the group relation.
	Sentence string
}

// GroupAndSort groups statements by verb and argument names and sorts
// the groups by prevalence: argument-tuple evidence first, then group
// evidence. evTotals optionally overrides per-statement evidence counts,
// keyed by statement ID; pass nil to count each statement's own
// evidence.
func GroupAndSort(stmts []statement.Statement, evTotals map[string]int) []Group {
	count := func(st statement.Statement) int {
		if n, ok := evTotals[st.Info().ID]; ok {
			return n
		}
		return len(st.Info().Evidence)
	}

	type bucket struct {
		verb  statement.Type
		args  []string
		stmts []statement.Statement
		count int
	}
	buckets := make(map[string]*bucket)
	argCounts := make(map[string]int)
	var order []string

	for _, st := range stmts {
		args := keyArgs(st)
		argKey := strings.Join(args, "\x00")
		key := string(st.Type()) + "\x00" + argKey
		b, ok := buckets[key]
		if !ok {
			b = &bucket{verb: st.Type(), args: args}
			buckets[key] = b
			order = append(order, key)
		}
		n := count(st)
		b.stmts = append(b.stmts, st)
		b.count += n
		argCounts[argKey] += n
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		sort.SliceStable(b.stmts, func(i, j int) bool {
			return count(b.stmts[i]) > count(b.stmts[j])
		})
		groups = append(groups, Group{
			Verb:       b.verb,
			Args:       b.args,
			Count:      b.count,
			ArgCount:   argCounts[strings.Join(b.args, "\x00")],
			Statements: b.stmts,
			Sentence:   English(b.stmts[0]),
		})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].ArgCount != groups[j].ArgCount {
			return groups[i].ArgCount > groups[j].ArgCount
		}
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		a := strings.Join(groups[i].Args, "\x00")
		b := strings.Join(groups[j].Args, "\x00")
		if a != b {
			return a < b
		}
		return groups[i].Verb < groups[j].Verb
	})
	return groups
}

// keyArgs returns the normalized argument names of a statement for
// grouping. Complex members and conversion object lists are sorted so
// that member order does not split groups.
func keyArgs(st statement.Statement) []string {
	name := func(ag *statement.Agent) string {
		if ag == nil {
			return "None"
		}
		return ag.Name
	}
	switch s := st.(type) {
	case *statement.Complex:
		seen := make(map[string]struct{})
		var names []string
		for _, ag := range s.Members {
			n := name(ag)
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			names = append(names, n)
		}
		sort.Strings(names)
		return names
	case *statement.Conversion:
		args := []string{name(s.Subj)}
		var from, to []string
		for _, ag := range s.ObjFrom {
			from = append(from, name(ag))
		}
		for _, ag := range s.ObjTo {
			to = append(to, name(ag))
		}
		sort.Strings(from)
		sort.Strings(to)
		for _, n := range from {
			args = append(args, "from:"+n)
		}
		for _, n := range to {
			args = append(args, "to:"+n)
		}
		return args
	case *statement.ActiveForm:
		return []string{name(s.Agent), s.ActivityType, fmt.Sprintf("%t", s.IsActive)}
	default:
		agents := st.AgentList()
		args := make([]string, 0, len(agents))
		for _, ag := range agents {
			args = append(args, name(ag))
		}
		return args
	}
}

// modVerbs maps modification kinds to their transitive verbs.
var modVerbs = map[statement.ModKind]string{
	statement.ModPhosphorylation:   "phosphorylates",
	statement.ModDephosphorylation: "dephosphorylates",
	statement.ModUbiquitination:    "ubiquitinates",
	statement.ModDeubiquitination:  "deubiquitinates",
	statement.ModAcetylation:       "acetylates",
	statement.ModDeacetylation:     "deacetylates",
	statement.ModMethylation:       "methylates",
	statement.ModDemethylation:     "demethylates",
}

// passiveModVerbs maps modification kinds to their passive forms, used
// when the enzyme is unknown.
var passiveModVerbs = map[statement.ModKind]string{
	statement.ModPhosphorylation:   "phosphorylated",
	statement.ModDephosphorylation: "dephosphorylated",
	statement.ModUbiquitination:    "ubiquitinated",
	statement.ModDeubiquitination:  "deubiquitinated",
	statement.ModAcetylation:       "acetylated",
	statement.ModDeacetylation:     "deacetylated",
	statement.ModMethylation:       "methylated",
	statement.ModDemethylation:     "demethylated",
}

// English renders a statement as an English sentence.
func English(st statement.Statement) string {
	switch s := st.(type) {
	case *statement.Modification:
		site := siteClause(s.Residue, s.Position)
		if s.Enz == nil {
			return fmt.Sprintf("%s is %s%s.", agentText(s.Sub), passiveModVerbs[s.Kind], site)
		}
		return fmt.Sprintf("%s %s %s%s.", agentText(s.Enz), modVerbs[s.Kind], agentText(s.Sub), site)
	case *statement.RegulateActivity:
		verb := "activates"
		if !s.IsActivation {
			verb = "inhibits"
		}
		if s.ObjActivity != "" && s.ObjActivity != "activity" {
			return fmt.Sprintf("%s %s the %s activity of %s.", agentText(s.Subj), verb, s.ObjActivity, agentText(s.Obj))
		}
		return fmt.Sprintf("%s %s %s.", agentText(s.Subj), verb, agentText(s.Obj))
	case *statement.RegulateAmount:
		direction := "increases"
		if !s.IsIncrease {
			direction = "decreases"
		}
		if s.Subj == nil {
			if s.IsIncrease {
				return fmt.Sprintf("The amount of %s is increased.", agentText(s.Obj))
			}
			return fmt.Sprintf("The amount of %s is decreased.", agentText(s.Obj))
		}
		return fmt.Sprintf("%s %s the amount of %s.", agentText(s.Subj), direction, agentText(s.Obj))
	case *statement.ActiveForm:
		subject := agentText(s.Agent)
		if state := stateClause(s.Agent); state != "" {
			subject += " " + state
		}
		switch {
		case s.ActivityType != "" && s.ActivityType != "activity" && s.IsActive:
			return fmt.Sprintf("%s has %s activity.", subject, s.ActivityType)
		case s.ActivityType != "" && s.ActivityType != "activity":
			return fmt.Sprintf("%s lacks %s activity.", subject, s.ActivityType)
		case s.IsActive:
			return fmt.Sprintf("%s is active.", subject)
		default:
			return fmt.Sprintf("%s is inactive.", subject)
		}
	case *statement.Complex:
		names := make([]string, 0, len(s.Members))
		for _, ag := range s.Members {
			names = append(names, agentText(ag))
		}
		if len(names) == 0 {
			return ""
		}
		if len(names) == 1 {
			return fmt.Sprintf("%s forms a complex.", names[0])
		}
		return fmt.Sprintf("%s binds %s.", names[0], joinAnd(names[1:]))
	case *statement.Conversion:
		from := make([]string, 0, len(s.ObjFrom))
		for _, ag := range s.ObjFrom {
			from = append(from, agentText(ag))
		}
		to := make([]string, 0, len(s.ObjTo))
		for _, ag := range s.ObjTo {
			to = append(to, agentText(ag))
		}
		if s.Subj == nil {
			return fmt.Sprintf("%s is converted into %s.", joinAnd(from), joinAnd(to))
		}
		return fmt.Sprintf("%s catalyzes the conversion of %s into %s.",
			agentText(s.Subj), joinAnd(from), joinAnd(to))
	case *statement.Influence:
		subj, obj := agentText(s.AgentList()[0]), agentText(s.AgentList()[1])
		switch s.OverallPolarity() {
		case statement.PolarityPositive:
			return fmt.Sprintf("%s causes an increase in %s.", subj, obj)
		case statement.PolarityNegative:
			return fmt.Sprintf("%s causes a decrease in %s.", subj, obj)
		default:
			return fmt.Sprintf("%s affects %s.", subj, obj)
		}
	default:
		return ""
	}
}

func agentText(ag *statement.Agent) string {
	if ag == nil {
		return "an unknown agent"
	}
	return ag.Name
}

// stateClause renders the state conditions of an agent, used for the
// subject of an active-form sentence.
func stateClause(ag *statement.Agent) string {
	if ag == nil {
		return ""
	}
	var parts []string
	for _, mc := range ag.Mods {
		clause := passiveModVerb(mc.ModType)
		if !mc.IsModified {
			clause = "not " + clause
		}
		if site := siteClause(mc.Residue, mc.Position); site != "" {
			clause += site
		}
		parts = append(parts, clause)
	}
	for _, mut := range ag.Mutations {
		parts = append(parts, fmt.Sprintf("with the %s%s%s mutation", mut.ResidueFrom, mut.Position, mut.ResidueTo))
	}
	for _, bc := range ag.BoundConditions {
		if bc.IsBound {
			parts = append(parts, "bound to "+agentText(bc.Agent))
		} else {
			parts = append(parts, "not bound to "+agentText(bc.Agent))
		}
	}
	return joinAnd(parts)
}

// passiveByModType maps base modification types to passive participles
// for rendering agent state conditions.
var passiveByModType = map[string]string{
	"phosphorylation": "phosphorylated",
	"ubiquitination":  "ubiquitinated",
	"acetylation":     "acetylated",
	"methylation":     "methylated",
}

func passiveModVerb(modType string) string {
	if v, ok := passiveByModType[modType]; ok {
		return v
	}
	return modType
}

// siteClause renders a residue/position pair, e.g. " on T185".
func siteClause(residue, position string) string {
	switch {
	case residue != "" && position != "":
		return " on " + residue + position
	case residue != "":
		return " on " + residue
	case position != "":
		return " at position " + position
	default:
		return ""
	}
}

func joinAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
