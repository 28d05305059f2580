package grounding

import (
	"sort"

	"github.com/causalbio/sdk/statement"
)

// MergeGroundings surfaces a consensus grounding on each agent of the
// given statements from the grounding candidates recorded on their
// evidence. For each agent slot and namespace:
//
//   - when all candidates are scored, the highest-scoring unique
//     candidate wins;
//   - when none are scored, the most frequent candidate wins;
//   - in a mixture, the most frequent unscored candidate wins, on the
//     assumption that unscored entries were never remapped.
//
// Statements whose agent roles are not positionally fixed (Complex,
// Conversion) pass through unchanged. Statements are modified in place
// and returned for chaining.
func MergeGroundings(stmts []statement.Statement) []statement.Statement {
	for _, st := range stmts {
		switch st.(type) {
		case *statement.Complex, *statement.Conversion:
			continue
		}
		agents := st.AgentList()
		for idx, ag := range agents {
			if ag == nil {
				continue
			}
			aggregate := collectCandidates(st, idx)
			if len(aggregate) == 0 {
				continue
			}
			best := bestGroundings(aggregate)
			if len(best) == 0 {
				continue
			}
			if text := ag.DBRefs[statement.NamespaceText]; text != "" {
				best[statement.NamespaceText] = text
			}
			ag.DBRefs = best
		}
	}
	return stmts
}

func collectCandidates(st statement.Statement, agentIdx int) map[string][]statement.RefCandidate {
	aggregate := make(map[string][]statement.RefCandidate)
	for _, ev := range st.Info().Evidence {
		if agentIdx >= len(ev.RawGroundings) {
			continue
		}
		for ns, cands := range ev.RawGroundings[agentIdx] {
			aggregate[ns] = append(aggregate[ns], cands...)
		}
	}
	return aggregate
}

func bestGroundings(aggregate map[string][]statement.RefCandidate) map[string]string {
	best := make(map[string]string, len(aggregate))
	for ns, cands := range aggregate {
		scored := make(map[string]float64)
		counts := make(map[string]int)
		allScored, anyScored := true, false
		for _, c := range cands {
			if c.HasScore {
				anyScored = true
				if s, ok := scored[c.ID]; !ok || c.Score > s {
					scored[c.ID] = c.Score
				}
			} else {
				allScored = false
				counts[c.ID]++
			}
		}
		switch {
		case allScored && anyScored:
			best[ns] = topByScore(scored)
		default:
			// Unscored majority, also used for mixtures.
			best[ns] = topByCount(counts)
		}
	}
	return best
}

func topByScore(scores map[string]float64) string {
	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if scores[ids[i]] != scores[ids[j]] {
			return scores[ids[i]] > scores[ids[j]]
		}
		return ids[i] < ids[j]
	})
	return ids[0]
}

func topByCount(counts map[string]int) string {
	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if counts[ids[i]] != counts[ids[j]] {
			return counts[ids[i]] > counts[ids[j]]
		}
		return ids[i] < ids[j]
	})
	return ids[0]
}
