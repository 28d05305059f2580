package corpus

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/causalbio/sdk/statement"
)

func TestSaveLoad(t *testing.T) {
	newCorpus := func() []statement.Statement {
		specific := statement.NewModification(statement.ModPhosphorylation,
			hgncAgent("MAP2K1", "6840"), hgncAgent("MAPK1", "6871"), "T", "185",
			statement.NewEvidence("reach", "12345", "MEK phosphorylates ERK at T185."))
		general := statement.NewModification(statement.ModPhosphorylation,
			hgncAgent("MAP2K1", "6840"), hgncAgent("MAPK1", "6871"), "", "")
		general.Supports = []statement.Statement{specific}
		specific.SupportedBy = []statement.Statement{general}
		return []statement.Statement{specific, general}
	}

	t.Run("plain json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "corpus.json")
		stmts := newCorpus()
		require.NoError(t, Save(path, stmts))

		loaded, err := Load(path)
		require.NoError(t, err)
		require.Len(t, loaded, 2)

		assert.Equal(t, stmts[0].MatchesKey(), loaded[0].MatchesKey())
		require.Len(t, loaded[1].Info().Supports, 1)
		assert.Same(t, loaded[0], loaded[1].Info().Supports[0])
		require.Len(t, loaded[0].Info().Evidence, 1)
		assert.Equal(t, "reach", loaded[0].Info().Evidence[0].SourceAPI)
	})

	t.Run("gzip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "corpus.json.gz")
		stmts := newCorpus()
		require.NoError(t, Save(path, stmts))

		loaded, err := Load(path)
		require.NoError(t, err)
		require.Len(t, loaded, 2)
		assert.Equal(t, stmts[1].MatchesKey(), loaded[1].MatchesKey())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
		require.Error(t, err)
	})

	t.Run("empty corpus", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.json")
		require.NoError(t, Save(path, nil))
		loaded, err := Load(path)
		require.NoError(t, err)
		assert.Empty(t, loaded)
	})
}

func TestSetLogger(t *testing.T) {
	custom := slog.Default().With("component", "test")
	SetLogger(custom)
	assert.Same(t, custom, log())

	SetLogger(nil)
	assert.Same(t, slog.Default(), log())
}
