// Package preassembly reconciles redundant and related statements: exact
// duplicates are merged by canonical key, and ontology-aware refinement
// links are established between statements asserting the same relation
// at different levels of specificity.
package preassembly

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/causalbio/sdk/ontology"
	"github.com/causalbio/sdk/statement"
)

// Default tuning for the related-statement search.
const (
	// DefaultSizeCutoff is the group size above which pairwise refinement
	// checks run on parallel workers.
	DefaultSizeCutoff = 100

	// DefaultWorkers is the number of parallel workers used for large
	// groups.
	DefaultWorkers = 4
)

// Preassembler combines duplicate and related statements over an
// ontology.
type Preassembler struct {
	ont        *ontology.Ontology
	sizeCutoff int
	workers    int
}

// Option configures a Preassembler.
type Option func(*Preassembler)

// WithSizeCutoff sets the group size above which refinement checks are
// parallelized.
func WithSizeCutoff(n int) Option {
	return func(pa *Preassembler) {
		if n > 0 {
			pa.sizeCutoff = n
		}
	}
}

// WithWorkers sets the number of parallel workers for large groups.
func WithWorkers(n int) Option {
	return func(pa *Preassembler) {
		if n > 0 {
			pa.workers = n
		}
	}
}

// New creates a Preassembler over the given ontology.
func New(ont *ontology.Ontology, opts ...Option) *Preassembler {
	pa := &Preassembler{
		ont:        ont,
		sizeCutoff: DefaultSizeCutoff,
		workers:    DefaultWorkers,
	}
	for _, opt := range opts {
		opt(pa)
	}
	return pa
}

// CombineDuplicates merges statements with equal matches keys into one
// statement per key carrying the union of the evidence, deduplicated by
// evidence fingerprint. The first statement of each key is kept; output
// order is deterministic by key.
func (pa *Preassembler) CombineDuplicates(stmts []statement.Statement) []statement.Statement {
	byKey := make(map[string]statement.Statement)
	var keys []string
	for _, st := range stmts {
		key := st.MatchesKey()
		first, ok := byKey[key]
		if !ok {
			// Re-merge the statement's own evidence so duplicated
			// evidence within one statement collapses too.
			core := st.Info()
			core.Evidence = statement.MergeEvidence(nil, core.Evidence)
			byKey[key] = st
			keys = append(keys, key)
			continue
		}
		fc := first.Info()
		fc.Evidence = statement.MergeEvidence(fc.Evidence, st.Info().Evidence)
	}
	sort.Strings(keys)
	out := make([]statement.Statement, 0, len(keys))
	for _, key := range keys {
		out = append(out, byKey[key])
	}
	return out
}

// refinementEdge records that stmts[specific] refines stmts[general].
type refinementEdge struct {
	specific, general int
}

// CombineRelated establishes refinement links between unique statements:
// when one statement refines another, the more general statement's
// Supports gains the more specific one and the specific statement's
// SupportedBy gains the general one. Statements are compared pairwise
// within groups of the same type; groups larger than the size cutoff are
// processed on parallel workers. The input statements are linked in
// place and returned.
func (pa *Preassembler) CombineRelated(ctx context.Context, stmts []statement.Statement) ([]statement.Statement, error) {
	groups := make(map[statement.Type][]int)
	for i, st := range stmts {
		t := st.Type()
		groups[t] = append(groups[t], i)
	}

	var edges []refinementEdge
	var mu sync.Mutex

	for _, idxs := range groups {
		if len(idxs) < 2 {
			continue
		}
		if len(idxs) < pa.sizeCutoff {
			for _, e := range pa.compareGroup(stmts, idxs, 0, 1) {
				edges = append(edges, e)
			}
			continue
		}
		g, gctx := errgroup.WithContext(ctx)
		for w := 0; w < pa.workers; w++ {
			w := w
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				found := pa.compareGroup(stmts, idxs, w, pa.workers)
				mu.Lock()
				edges = append(edges, found...)
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].general != edges[j].general {
			return edges[i].general < edges[j].general
		}
		return edges[i].specific < edges[j].specific
	})
	for _, e := range edges {
		gen := stmts[e.general].Info()
		spec := stmts[e.specific].Info()
		gen.Supports = append(gen.Supports, stmts[e.specific])
		spec.SupportedBy = append(spec.SupportedBy, stmts[e.general])
	}
	return stmts, nil
}

// compareGroup checks the pairs of idxs assigned to one worker by
// striding over the first pair index.
func (pa *Preassembler) compareGroup(stmts []statement.Statement, idxs []int, offset, stride int) []refinementEdge {
	var edges []refinementEdge
	for i := offset; i < len(idxs); i += stride {
		for j := 0; j < len(idxs); j++ {
			if i == j {
				continue
			}
			a, b := stmts[idxs[i]], stmts[idxs[j]]
			if a.RefinementOf(b, pa.ont) && !b.RefinementOf(a, pa.ont) {
				edges = append(edges, refinementEdge{specific: idxs[i], general: idxs[j]})
			}
		}
	}
	return edges
}

// LinkSource selects which hierarchy links FlattenEvidence collects
// evidence along.
type LinkSource string

const (
	// CollectFromSupportedBy gathers evidence from the more general
	// statements each statement refines. This is the default.
	CollectFromSupportedBy LinkSource = "supported_by"

	// CollectFromSupports gathers evidence from the more specific
	// statements refining each statement.
	CollectFromSupports LinkSource = "supports"
)

// FlattenEvidence merges into each statement the evidence of all
// statements reachable along the chosen link direction, deduplicated by
// evidence fingerprint. Statements are modified in place and returned.
func FlattenEvidence(stmts []statement.Statement, from LinkSource) []statement.Statement {
	for _, st := range stmts {
		var collected []*statement.Evidence
		visited := map[string]struct{}{st.Info().ID: {}}
		var walk func(s statement.Statement)
		walk = func(s statement.Statement) {
			var next []statement.Statement
			if from == CollectFromSupports {
				next = s.Info().Supports
			} else {
				next = s.Info().SupportedBy
			}
			for _, rel := range next {
				core := rel.Info()
				if _, ok := visited[core.ID]; ok {
					continue
				}
				visited[core.ID] = struct{}{}
				collected = append(collected, core.Evidence...)
				walk(rel)
			}
		}
		walk(st)
		core := st.Info()
		core.Evidence = statement.MergeEvidence(core.Evidence, collected)
	}
	return stmts
}

// TopLevel returns the statements that no other statement refines, i.e.
// the most specific ones.
func TopLevel(stmts []statement.Statement) []statement.Statement {
	var out []statement.Statement
	for _, st := range stmts {
		if st.Info().IsTopLevel() {
			out = append(out, st)
		}
	}
	return out
}
