package sdk

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/causalbio/sdk/corpus"
	"github.com/causalbio/sdk/statement"
)

func hgncAgent(name, id string) *statement.Agent {
	return statement.NewAgent(name, map[string]string{statement.NamespaceHGNC: id})
}

func TestPipelineRun(t *testing.T) {
	t.Run("stages run in order", func(t *testing.T) {
		var order []string
		record := func(name string) Stage {
			return func(ctx context.Context, stmts []statement.Statement) ([]statement.Statement, error) {
				order = append(order, name)
				return stmts, nil
			}
		}

		p := NewPipeline().
			Add("first", record("first")).
			Add("second", record("second")).
			Add("third", record("third"))

		_, err := p.Run(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"first", "second", "third"}, order)
	})

	t.Run("output feeds the next stage", func(t *testing.T) {
		st := statement.NewModification(statement.ModPhosphorylation,
			hgncAgent("MAP2K1", "6840"), hgncAgent("MAPK1", "6871"), "T", "185")
		extra := statement.NewActivation(hgncAgent("BRAF", "1097"), hgncAgent("MAP2K1", "6840"), "")

		p := NewPipeline().
			Add("append", func(ctx context.Context, stmts []statement.Statement) ([]statement.Statement, error) {
				return append(stmts, extra), nil
			}).
			Add("phospho only", func(ctx context.Context, stmts []statement.Statement) ([]statement.Statement, error) {
				return corpus.FilterByType(stmts, statement.TypePhosphorylation, false), nil
			})

		out, err := p.Run(context.Background(), []statement.Statement{st})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Same(t, statement.Statement(st), out[0])
	})

	t.Run("no stages", func(t *testing.T) {
		_, err := NewPipeline().Run(context.Background(), nil)
		require.ErrorIs(t, err, ErrNoStages)
	})

	t.Run("one span per stage", func(t *testing.T) {
		exporter := tracetest.NewInMemoryExporter()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
		t.Cleanup(func() {
			require.NoError(t, tp.Shutdown(context.Background()))
		})

		passthrough := func(ctx context.Context, stmts []statement.Statement) ([]statement.Statement, error) {
			return stmts, nil
		}

		p := NewPipeline(WithTracer(tp.Tracer("assembly"))).
			Add("grounding", passthrough).
			Add("sites", passthrough)

		_, err := p.Run(context.Background(), nil)
		require.NoError(t, err)

		spans := exporter.GetSpans()
		require.Len(t, spans, 2)
		assert.Equal(t, "assembly.grounding", spans[0].Name)
		assert.Equal(t, "assembly.sites", spans[1].Name)
	})

	t.Run("stage failure stops the run", func(t *testing.T) {
		boom := errors.New("boom")
		ran := false

		p := NewPipeline(WithPipelineName("failing")).
			Add("explode", func(ctx context.Context, stmts []statement.Statement) ([]statement.Statement, error) {
				return nil, boom
			}).
			Add("never", func(ctx context.Context, stmts []statement.Statement) ([]statement.Statement, error) {
				ran = true
				return stmts, nil
			})

		_, err := p.Run(context.Background(), nil)
		require.ErrorIs(t, err, boom)
		assert.False(t, ran)

		var stageErr *StageError
		require.ErrorAs(t, err, &stageErr)
		assert.Equal(t, "explode", stageErr.Stage)
		assert.Contains(t, stageErr.Error(), "explode")
	})
}

func TestPipelineStages(t *testing.T) {
	t.Run("belief cutoff stage", func(t *testing.T) {
		lo := statement.NewModification(statement.ModPhosphorylation,
			nil, hgncAgent("MAPK1", "6871"), "", "")
		lo.Belief = 0.2
		hi := statement.NewModification(statement.ModPhosphorylation,
			nil, hgncAgent("MAPK3", "6877"), "", "")
		hi.Belief = 0.9

		p := NewPipeline().Add("belief", BeliefCutoffStage(0.5))
		out, err := p.Run(context.Background(), []statement.Statement{lo, hi})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Same(t, statement.Statement(hi), out[0])
	})

	t.Run("expression stage", func(t *testing.T) {
		phos := statement.NewModification(statement.ModPhosphorylation,
			hgncAgent("MAP2K1", "6840"), hgncAgent("MAPK1", "6871"), "", "")
		act := statement.NewActivation(hgncAgent("BRAF", "1097"), hgncAgent("MAP2K1", "6840"), "")

		p := NewPipeline().Add("expr", ExpressionStage(`type == "Activation"`))
		out, err := p.Run(context.Background(), []statement.Statement{phos, act})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Same(t, statement.Statement(act), out[0])
	})

	t.Run("preassembly stage", func(t *testing.T) {
		a := statement.NewModification(statement.ModPhosphorylation,
			hgncAgent("MAP2K1", "6840"), hgncAgent("MAPK1", "6871"), "T", "185",
			statement.NewEvidence("reach", "1", "a"))
		b := statement.NewModification(statement.ModPhosphorylation,
			hgncAgent("MAP2K1", "6840"), hgncAgent("MAPK1", "6871"), "T", "185",
			statement.NewEvidence("sparser", "2", "b"))

		p := NewPipeline().Add("preassembly", PreassemblyStage(corpus.PreassemblyOptions{}))
		out, err := p.Run(context.Background(), []statement.Statement{a, b})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Len(t, out[0].Info().Evidence, 2)
		assert.Greater(t, out[0].Info().Belief, 0.0)
	})

	t.Run("full assembly sequence", func(t *testing.T) {
		raw := statement.NewModification(statement.ModPhosphorylation,
			nil, statement.NewAgent("ERK2", map[string]string{statement.NamespaceText: "ERK2"}),
			"T", "183",
			statement.NewEvidence("reach", "12345", "ERK2 is phosphorylated at T183."))

		p := NewPipeline(WithPipelineName("assembly")).
			Add("grounding", GroundingStage()).
			Add("sites", SiteStage()).
			Add("preassembly", PreassemblyStage(corpus.PreassemblyOptions{}))

		out, err := p.Run(context.Background(), []statement.Statement{raw})
		require.NoError(t, err)
		require.Len(t, out, 1)

		mod := out[0].(*statement.Modification)
		assert.Equal(t, "MAPK1", mod.Sub.Name)
		assert.Equal(t, "185", mod.Position)
		assert.Greater(t, mod.Belief, 0.0)
	})
}
