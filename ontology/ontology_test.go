package ontology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		Version: "test",
		Entities: []Entity{
			{ID: "FPLX:MAPK", Name: "MAPK"},
			{ID: "FPLX:ERK", Name: "ERK", IsA: []string{"FPLX:MAPK"}},
			{ID: "HGNC:6871", Name: "MAPK1", IsA: []string{"FPLX:ERK"}},
			{ID: "HGNC:6877", Name: "MAPK3", IsA: []string{"FPLX:ERK"}},
			{ID: "FPLX:AMPK", Name: "AMPK"},
			{ID: "HGNC:9376", Name: "PRKAA1", PartOf: []string{"FPLX:AMPK"}},
			{ID: "HGNC:11998", Name: "TP53"},
		},
		Modifications: map[string][]string{
			"phosphorylation": {"modification"},
		},
		Activities: map[string][]string{
			"kinase":    {"catalytic"},
			"catalytic": {"activity"},
		},
	}
}

func TestNew(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		ont, err := New(testConfig())
		require.NoError(t, err)
		assert.Equal(t, "test", ont.Version())
	})

	t.Run("malformed ref", func(t *testing.T) {
		cfg := &Config{Entities: []Entity{{ID: "no-namespace"}}}
		_, err := New(cfg)
		require.ErrorIs(t, err, ErrBadRef)
	})

	t.Run("cyclic hierarchy", func(t *testing.T) {
		cfg := &Config{Entities: []Entity{
			{ID: "NS:A", IsA: []string{"NS:B"}},
			{ID: "NS:B", IsA: []string{"NS:A"}},
		}}
		_, err := New(cfg)
		require.ErrorIs(t, err, ErrCycle)
	})
}

func TestParseRef(t *testing.T) {
	ref, err := ParseRef("HGNC:6871")
	require.NoError(t, err)
	assert.Equal(t, Ref{NS: "HGNC", ID: "6871"}, ref)
	assert.Equal(t, "HGNC:6871", ref.String())

	for _, bad := range []string{"", "HGNC", "HGNC:", ":6871"} {
		_, err := ParseRef(bad)
		assert.ErrorIs(t, err, ErrBadRef, "input %q", bad)
	}
}

func TestHierarchyQueries(t *testing.T) {
	ont, err := New(testConfig())
	require.NoError(t, err)

	mapk1 := Ref{NS: "HGNC", ID: "6871"}
	erk := Ref{NS: "FPLX", ID: "ERK"}
	mapk := Ref{NS: "FPLX", ID: "MAPK"}
	prkaa1 := Ref{NS: "HGNC", ID: "9376"}
	ampk := Ref{NS: "FPLX", ID: "AMPK"}
	tp53 := Ref{NS: "HGNC", ID: "11998"}

	t.Run("isa transitive", func(t *testing.T) {
		assert.True(t, ont.IsA(mapk1, erk))
		assert.True(t, ont.IsA(mapk1, mapk))
		assert.True(t, ont.IsA(mapk1, mapk1))
		assert.False(t, ont.IsA(erk, mapk1))
		assert.False(t, ont.IsA(tp53, mapk))
	})

	t.Run("partof", func(t *testing.T) {
		assert.True(t, ont.PartOf(prkaa1, ampk))
		assert.False(t, ont.PartOf(ampk, prkaa1))
		assert.False(t, ont.IsA(prkaa1, ampk))
	})

	t.Run("refinement covers both hierarchies", func(t *testing.T) {
		assert.True(t, ont.RefinementOf(mapk1, erk))
		assert.True(t, ont.RefinementOf(prkaa1, ampk))
		assert.False(t, ont.RefinementOf(erk, mapk1))
	})

	t.Run("modification refinement", func(t *testing.T) {
		assert.True(t, ont.ModRefinementOf("phosphorylation", "modification"))
		assert.True(t, ont.ModRefinementOf("phosphorylation", "phosphorylation"))
		assert.True(t, ont.ModRefinementOf("phosphorylation", ""))
		assert.False(t, ont.ModRefinementOf("modification", "phosphorylation"))
	})

	t.Run("activity refinement", func(t *testing.T) {
		assert.True(t, ont.ActivityRefinementOf("kinase", "catalytic"))
		assert.True(t, ont.ActivityRefinementOf("kinase", "activity"))
		assert.False(t, ont.ActivityRefinementOf("activity", "kinase"))
	})
}

func TestChildrenAndLeaves(t *testing.T) {
	ont, err := New(testConfig())
	require.NoError(t, err)

	erk := Ref{NS: "FPLX", ID: "ERK"}
	mapk := Ref{NS: "FPLX", ID: "MAPK"}

	children := ont.Children(erk)
	require.Len(t, children, 2)
	assert.Equal(t, Ref{NS: "HGNC", ID: "6871"}, children[0])
	assert.Equal(t, Ref{NS: "HGNC", ID: "6877"}, children[1])

	leaves := ont.Leaves(mapk)
	require.Len(t, leaves, 2)
	assert.Equal(t, "HGNC:6871", leaves[0].String())
	assert.Equal(t, "HGNC:6877", leaves[1].String())

	assert.Nil(t, ont.Leaves(Ref{NS: "HGNC", ID: "11998"}))
}

func TestAncestors(t *testing.T) {
	ont, err := New(testConfig())
	require.NoError(t, err)

	ancs := ont.Ancestors(Ref{NS: "HGNC", ID: "6871"})
	require.Len(t, ancs, 2)
	assert.Equal(t, "FPLX:ERK", ancs[0].String())
	assert.Equal(t, "FPLX:MAPK", ancs[1].String())

	ancs = ont.Ancestors(Ref{NS: "HGNC", ID: "9376"})
	require.Len(t, ancs, 1)
	assert.Equal(t, "FPLX:AMPK", ancs[0].String())

	assert.Empty(t, ont.Ancestors(Ref{NS: "HGNC", ID: "11998"}))
}

func TestNames(t *testing.T) {
	ont, err := New(testConfig())
	require.NoError(t, err)

	assert.Equal(t, "MAPK1", ont.Name(Ref{NS: "HGNC", ID: "6871"}))
	assert.Equal(t, "", ont.Name(Ref{NS: "HGNC", ID: "9999"}))

	ref, ok := ont.RefByName("ERK")
	require.True(t, ok)
	assert.Equal(t, "FPLX:ERK", ref.String())

	_, ok = ont.RefByName("NOSUCH")
	assert.False(t, ok)
}

func TestHasEntity(t *testing.T) {
	ont, err := New(testConfig())
	require.NoError(t, err)

	assert.True(t, ont.HasEntity(Ref{NS: "HGNC", ID: "6871"}))
	assert.True(t, ont.HasEntity(Ref{NS: "FPLX", ID: "MAPK"}))
	assert.True(t, ont.HasEntity(Ref{NS: "HGNC", ID: "11998"}))
	assert.False(t, ont.HasEntity(Ref{NS: "HGNC", ID: "0"}))
}

func TestDefault(t *testing.T) {
	ont, err := Default()
	require.NoError(t, err)

	// The embedded hierarchy covers the MAPK cascade.
	assert.True(t, ont.IsA(Ref{NS: "HGNC", ID: "6871"}, Ref{NS: "FPLX", ID: "ERK"}))
	assert.Equal(t, "MAPK1", ont.Name(Ref{NS: "HGNC", ID: "6871"}))

	// Default is cached.
	again, err := Default()
	require.NoError(t, err)
	assert.Same(t, ont, again)
}
