package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/causalbio/sdk/statement"
)

func TestNewExpressionFilter(t *testing.T) {
	f, err := NewExpressionFilter(`type == "Phosphorylation"`)
	require.NoError(t, err)
	assert.Equal(t, `type == "Phosphorylation"`, f.String())

	t.Run("compile error", func(t *testing.T) {
		_, err := NewExpressionFilter(`type ==`)
		require.Error(t, err)
	})

	t.Run("non-boolean expression", func(t *testing.T) {
		_, err := NewExpressionFilter(`belief + 1.0`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "want bool")
	})
}

func TestFilterByExpression(t *testing.T) {
	phos := statement.NewModification(statement.ModPhosphorylation,
		hgncAgent("MAP2K1", "6840"), hgncAgent("MAPK1", "6871"), "T", "185")
	phos.Belief = 0.95
	weak := statement.NewModification(statement.ModPhosphorylation,
		hgncAgent("MAP2K1", "6840"), hgncAgent("MAPK3", "6877"), "", "")
	weak.Belief = 0.4
	act := statement.NewActivation(hgncAgent("BRAF", "1097"), hgncAgent("MAP2K1", "6840"), "")
	act.Belief = 0.9

	stmts := []statement.Statement{phos, weak, act}

	t.Run("type and belief", func(t *testing.T) {
		out, err := FilterByExpression(stmts, `type == "Phosphorylation" && belief > 0.9`)
		require.NoError(t, err)
		assert.Equal(t, []statement.Statement{statement.Statement(phos)}, out)
	})

	t.Run("agent fields", func(t *testing.T) {
		out, err := FilterByExpression(stmts, `agents.exists(a, a != null && a.name == "MAPK3")`)
		require.NoError(t, err)
		assert.Equal(t, []statement.Statement{statement.Statement(weak)}, out)
	})

	t.Run("statement fields", func(t *testing.T) {
		out, err := FilterByExpression(stmts, `has(stmt.residue) && stmt.residue == "T"`)
		require.NoError(t, err)
		assert.Equal(t, []statement.Statement{statement.Statement(phos)}, out)
	})

	t.Run("nil agent slots", func(t *testing.T) {
		noEnz := statement.NewModification(statement.ModPhosphorylation,
			nil, hgncAgent("MAPK1", "6871"), "", "")
		out, err := FilterByExpression([]statement.Statement{noEnz, phos}, `agents[0] == null`)
		require.NoError(t, err)
		assert.Equal(t, []statement.Statement{statement.Statement(noEnz)}, out)
	})

	t.Run("invalid expression", func(t *testing.T) {
		_, err := FilterByExpression(stmts, `nosuchvar > 1`)
		require.Error(t, err)
	})
}
