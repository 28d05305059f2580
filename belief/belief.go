// Package belief assigns confidence scores to assembled statements based
// on the amount, sources and hierarchy links of their evidence.
//
// The default model treats each source as having a systematic error rate
// (the source asserts something wrong in a way more evidence from the
// same source cannot fix) and a random error rate (per-extraction
// mistakes that independent extractions wash out). For a statement with
// n pieces of evidence from a source the source-level error probability
// is syst + rand^n, and the belief of the statement is one minus the
// product of its sources' error probabilities.
package belief

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/causalbio/sdk/resources"
	"github.com/causalbio/sdk/statement"
)

// ErrInvalidPrior indicates a source prior outside [0, 1].
var ErrInvalidPrior = errors.New("invalid belief prior")

// Prior holds the error rates of one evidence source.
type Prior struct {
	// Rand is the random error rate in [0, 1].
	Rand float64 `yaml:"rand"`

	// Syst is the systematic error rate in [0, 1].
	Syst float64 `yaml:"syst"`
}

func (p Prior) validate(source string) error {
	if p.Rand < 0 || p.Rand > 1 || p.Syst < 0 || p.Syst > 1 {
		return fmt.Errorf("%w: source %q rand=%v syst=%v", ErrInvalidPrior, source, p.Rand, p.Syst)
	}
	return nil
}

// Scorer computes the belief of a statement from its own evidence plus
// evidence inherited through hierarchy links. Scores are in [0, 1].
type Scorer interface {
	// Score returns the belief for a statement given extra evidence
	// collected from related statements. The statement's own evidence is
	// always included.
	Score(st statement.Statement, extra []*statement.Evidence) float64
}

// SimpleScorer is the default Scorer implementing the per-source error
// model described in the package comment.
type SimpleScorer struct {
	priors       map[string]Prior
	defaultPrior Prior
}

// NewSimpleScorer creates a scorer with the given per-source priors and
// a fallback prior for unknown sources.
func NewSimpleScorer(priors map[string]Prior, fallback Prior) (*SimpleScorer, error) {
	if err := fallback.validate("default"); err != nil {
		return nil, err
	}
	cp := make(map[string]Prior, len(priors))
	for source, p := range priors {
		if err := p.validate(source); err != nil {
			return nil, err
		}
		cp[source] = p
	}
	return &SimpleScorer{priors: cp, defaultPrior: fallback}, nil
}

// priorsFile is the YAML shape of a belief priors resource.
type priorsFile struct {
	Version string           `yaml:"version"`
	Default Prior            `yaml:"default"`
	Sources map[string]Prior `yaml:"sources"`
}

// LoadScorer parses a YAML priors table into a SimpleScorer.
func LoadScorer(data []byte) (*SimpleScorer, error) {
	var f priorsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse belief priors: %w", err)
	}
	return NewSimpleScorer(f.Sources, f.Default)
}

var (
	defaultOnce   sync.Once
	defaultScorer *SimpleScorer
	defaultErr    error
)

// DefaultScorer returns the scorer built from the embedded priors table.
func DefaultScorer() (*SimpleScorer, error) {
	defaultOnce.Do(func() {
		defaultScorer, defaultErr = LoadScorer(resources.BeliefPriorsYAML)
	})
	return defaultScorer, defaultErr
}

// Score implements Scorer. Negated evidence does not count toward
// support.
func (s *SimpleScorer) Score(st statement.Statement, extra []*statement.Evidence) float64 {
	counts := make(map[string]int)
	seen := make(map[string]struct{})
	count := func(evs []*statement.Evidence) {
		for _, ev := range evs {
			if ev.Epistemics.Negated {
				continue
			}
			fp := ev.Fingerprint()
			if _, ok := seen[fp]; ok {
				continue
			}
			seen[fp] = struct{}{}
			counts[ev.SourceAPI]++
		}
	}
	count(st.Info().Evidence)
	count(extra)

	if len(counts) == 0 {
		return 0
	}
	errProb := 1.0
	for source, n := range counts {
		prior, ok := s.priors[source]
		if !ok {
			prior = s.defaultPrior
		}
		errProb *= prior.Syst + math.Pow(prior.Rand, float64(n))
	}
	belief := 1 - errProb
	if belief < 0 {
		return 0
	}
	return belief
}

// Engine sets belief scores on assembled statement corpora.
type Engine struct {
	scorer Scorer
}

// NewEngine creates a belief engine around a scorer. A nil scorer uses
// the default.
func NewEngine(scorer Scorer) (*Engine, error) {
	if scorer == nil {
		s, err := DefaultScorer()
		if err != nil {
			return nil, err
		}
		scorer = s
	}
	return &Engine{scorer: scorer}, nil
}

// SetPriorProbs sets the belief of each statement from its own evidence
// only. Intended for unique statements before hierarchy links exist.
func (e *Engine) SetPriorProbs(stmts []statement.Statement) {
	for _, st := range stmts {
		st.Info().Belief = e.scorer.Score(st, nil)
	}
}

// SetHierarchyProbs sets the belief of each statement from its own
// evidence plus the evidence of all more general statements it
// transitively refines (its SupportedBy closure). Each related statement
// contributes once even when reachable along multiple paths.
func (e *Engine) SetHierarchyProbs(stmts []statement.Statement) {
	for _, st := range stmts {
		extra := collectSupportedByEvidence(st)
		st.Info().Belief = e.scorer.Score(st, extra)
	}
}

func collectSupportedByEvidence(st statement.Statement) []*statement.Evidence {
	var extra []*statement.Evidence
	visited := map[string]struct{}{st.Info().ID: {}}
	var walk func(s statement.Statement)
	walk = func(s statement.Statement) {
		for _, general := range s.Info().SupportedBy {
			core := general.Info()
			if _, ok := visited[core.ID]; ok {
				continue
			}
			visited[core.ID] = struct{}{}
			extra = append(extra, core.Evidence...)
			walk(general)
		}
	}
	walk(st)
	return extra
}

// Map returns the belief of each statement keyed by its matches key.
func Map(stmts []statement.Statement) map[string]float64 {
	m := make(map[string]float64, len(stmts))
	for _, st := range stmts {
		m[st.MatchesKey()] = st.Info().Belief
	}
	return m
}
