package sdk

import (
	"context"

	"github.com/causalbio/sdk/corpus"
	"github.com/causalbio/sdk/statement"
)

// Canned stages wrapping the common corpus operations. Any corpus
// operation can be used as a stage directly; these exist for the usual
// assembly sequence.

// GroundingStage re-grounds agents using the embedded grounding map.
func GroundingStage() Stage {
	return func(ctx context.Context, stmts []statement.Statement) ([]statement.Statement, error) {
		return corpus.MapGrounding(stmts)
	}
}

// SiteStage corrects known-invalid modification sites, dropping
// statements with uncorrectable sites.
func SiteStage() Stage {
	return func(ctx context.Context, stmts []statement.Statement) ([]statement.Statement, error) {
		return corpus.MapSites(stmts)
	}
}

// PreassemblyStage combines duplicates, links related statements and
// computes beliefs.
func PreassemblyStage(opts corpus.PreassemblyOptions) Stage {
	return func(ctx context.Context, stmts []statement.Statement) ([]statement.Statement, error) {
		return corpus.RunPreassembly(ctx, stmts, opts)
	}
}

// BeliefCutoffStage keeps statements whose belief meets the cutoff.
func BeliefCutoffStage(cutoff float64) Stage {
	return func(ctx context.Context, stmts []statement.Statement) ([]statement.Statement, error) {
		return corpus.FilterBelief(stmts, cutoff), nil
	}
}

// ExpressionStage keeps statements matching a CEL expression.
func ExpressionStage(expr string) Stage {
	return func(ctx context.Context, stmts []statement.Statement) ([]statement.Statement, error) {
		return corpus.FilterByExpression(stmts, expr)
	}
}
