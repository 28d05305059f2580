package statement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func phosMAPK1(residue, position string) *Modification {
	return NewModification(ModPhosphorylation,
		NewAgent("MAP2K1", map[string]string{"HGNC": "6840"}),
		NewAgent("MAPK1", map[string]string{"HGNC": "6871"}),
		residue, position)
}

func TestModificationKey(t *testing.T) {
	a := phosMAPK1("T", "185")
	b := phosMAPK1("T", "185")
	assert.Equal(t, a.MatchesKey(), b.MatchesKey())
	assert.NotEqual(t, a.ID, b.ID)

	assert.NotEqual(t, a.MatchesKey(), phosMAPK1("T", "").MatchesKey())

	noEnz := NewModification(ModPhosphorylation, nil,
		NewAgent("MAPK1", map[string]string{"HGNC": "6871"}), "T", "185")
	assert.NotEqual(t, a.MatchesKey(), noEnz.MatchesKey())

	dephos := NewModification(ModDephosphorylation,
		NewAgent("MAP2K1", map[string]string{"HGNC": "6840"}),
		NewAgent("MAPK1", map[string]string{"HGNC": "6871"}), "T", "185")
	assert.NotEqual(t, a.MatchesKey(), dephos.MatchesKey())
}

func TestModificationRefinement(t *testing.T) {
	ont := testOntology(t)

	sited := phosMAPK1("T", "185")
	unsited := phosMAPK1("", "")
	family := NewModification(ModPhosphorylation,
		NewAgent("MEK", map[string]string{"FPLX": "MEK"}),
		NewAgent("ERK", map[string]string{"FPLX": "ERK"}), "", "")

	assert.True(t, sited.RefinementOf(unsited, ont))
	assert.False(t, unsited.RefinementOf(sited, ont))
	assert.True(t, sited.RefinementOf(family, ont))
	assert.True(t, unsited.RefinementOf(family, ont))
	assert.False(t, family.RefinementOf(unsited, ont))

	t.Run("nil enzyme is refined by any enzyme", func(t *testing.T) {
		noEnz := NewModification(ModPhosphorylation, nil,
			NewAgent("MAPK1", map[string]string{"HGNC": "6871"}), "", "")
		assert.True(t, unsited.RefinementOf(noEnz, ont))
		assert.False(t, noEnz.RefinementOf(unsited, ont))
	})

	t.Run("different kind never refines", func(t *testing.T) {
		dephos := NewModification(ModDephosphorylation,
			NewAgent("MAP2K1", map[string]string{"HGNC": "6840"}),
			NewAgent("MAPK1", map[string]string{"HGNC": "6871"}), "", "")
		assert.False(t, dephos.RefinementOf(unsited, ont))
	})
}

func TestModCondition(t *testing.T) {
	cond := phosMAPK1("T", "185").ModConditionFor()
	assert.Equal(t, ModCondition{ModType: "phosphorylation", Residue: "T", Position: "185", IsModified: true}, cond)

	deub := NewModification(ModDeubiquitination, nil, NewAgent("TP53", nil), "", "")
	assert.False(t, deub.ModConditionFor().IsModified)
	assert.Equal(t, "ubiquitination", deub.ModConditionFor().ModType)
}

func TestRegulateActivity(t *testing.T) {
	ont := testOntology(t)

	braf := func() *Agent { return NewAgent("BRAF", map[string]string{"HGNC": "1097"}) }
	map2k1 := func() *Agent { return NewAgent("MAP2K1", map[string]string{"HGNC": "6840"}) }
	mek := func() *Agent { return NewAgent("MEK", map[string]string{"FPLX": "MEK"}) }

	act := NewActivation(braf(), map2k1(), "kinase")
	assert.Equal(t, TypeActivation, act.Type())

	generic := NewActivation(braf(), mek(), "")
	assert.Equal(t, "activity", generic.ObjActivity)
	assert.True(t, act.RefinementOf(generic, ont))
	assert.False(t, generic.RefinementOf(act, ont))

	inh := NewInhibition(braf(), map2k1(), "kinase")
	assert.Equal(t, TypeInhibition, inh.Type())
	assert.False(t, inh.RefinementOf(act, ont))
	assert.NotEqual(t, act.MatchesKey(), inh.MatchesKey())
}

func TestRegulateAmount(t *testing.T) {
	tp53 := func() *Agent { return NewAgent("TP53", map[string]string{"HGNC": "11998"}) }
	mdm2 := func() *Agent { return NewAgent("MDM2", map[string]string{"HGNC": "6973"}) }

	inc := NewIncreaseAmount(tp53(), mdm2())
	dec := NewDecreaseAmount(tp53(), mdm2())
	assert.Equal(t, TypeIncreaseAmount, inc.Type())
	assert.Equal(t, TypeDecreaseAmount, dec.Type())
	assert.NotEqual(t, inc.MatchesKey(), dec.MatchesKey())
	assert.False(t, inc.RefinementOf(dec, nil))
	assert.True(t, inc.RefinementOf(inc.Copy(), nil))
}

func TestComplex(t *testing.T) {
	ont := testOntology(t)

	mapk1 := func() *Agent { return NewAgent("MAPK1", map[string]string{"HGNC": "6871"}) }
	map2k1 := func() *Agent { return NewAgent("MAP2K1", map[string]string{"HGNC": "6840"}) }
	erk := func() *Agent { return NewAgent("ERK", map[string]string{"FPLX": "ERK"}) }
	mek := func() *Agent { return NewAgent("MEK", map[string]string{"FPLX": "MEK"}) }

	t.Run("key ignores member order", func(t *testing.T) {
		a := NewComplex([]*Agent{mapk1(), map2k1()})
		b := NewComplex([]*Agent{map2k1(), mapk1()})
		assert.Equal(t, a.MatchesKey(), b.MatchesKey())
	})

	t.Run("refinement is injective over members", func(t *testing.T) {
		specific := NewComplex([]*Agent{mapk1(), map2k1()})
		general := NewComplex([]*Agent{mek(), erk()})
		assert.True(t, specific.RefinementOf(general, ont))
		assert.False(t, general.RefinementOf(specific, ont))

		// Two general ERK slots cannot both map to the single MAPK1.
		twoERK := NewComplex([]*Agent{erk(), erk()})
		oneMember := NewComplex([]*Agent{mapk1(), map2k1()})
		assert.False(t, oneMember.RefinementOf(twoERK, ont))
	})

	t.Run("larger complex refines smaller", func(t *testing.T) {
		three := NewComplex([]*Agent{mapk1(), map2k1(), NewAgent("TP53", map[string]string{"HGNC": "11998"})})
		two := NewComplex([]*Agent{erk(), mek()})
		assert.True(t, three.RefinementOf(two, ont))
		assert.False(t, two.RefinementOf(three, ont))
	})
}

func TestConversion(t *testing.T) {
	ont := testOntology(t)

	conv := NewConversion(
		NewAgent("MAP2K1", map[string]string{"HGNC": "6840"}),
		[]*Agent{NewAgent("A", nil)},
		[]*Agent{NewAgent("B", nil)})

	general := NewConversion(
		NewAgent("MEK", map[string]string{"FPLX": "MEK"}),
		[]*Agent{NewAgent("A", nil)},
		[]*Agent{NewAgent("B", nil)})

	assert.True(t, conv.RefinementOf(general, ont))
	assert.False(t, general.RefinementOf(conv, ont))

	mismatched := NewConversion(
		NewAgent("MEK", map[string]string{"FPLX": "MEK"}),
		[]*Agent{NewAgent("A", nil), NewAgent("C", nil)},
		[]*Agent{NewAgent("B", nil)})
	assert.False(t, conv.RefinementOf(mismatched, ont))
}

func TestInfluence(t *testing.T) {
	ev := func(subjPol, objPol int) *Influence {
		return NewInfluence(
			&Event{Concept: NewAgent("rainfall", map[string]string{"TEXT": "rainfall"}), Delta: &Delta{Polarity: subjPol}},
			&Event{Concept: NewAgent("flooding", map[string]string{"TEXT": "flooding"}), Delta: &Delta{Polarity: objPol}})
	}

	t.Run("polarity in key", func(t *testing.T) {
		assert.NotEqual(t, ev(PolarityPositive, PolarityPositive).MatchesKey(),
			ev(PolarityPositive, PolarityNegative).MatchesKey())
		assert.Equal(t, ev(PolarityPositive, PolarityPositive).MatchesKey(),
			ev(PolarityPositive, PolarityPositive).MatchesKey())
	})

	t.Run("unknown polarity is general", func(t *testing.T) {
		signed := ev(PolarityPositive, PolarityNegative)
		unsigned := ev(PolarityUnknown, PolarityUnknown)
		assert.True(t, signed.RefinementOf(unsigned, nil))
		assert.False(t, unsigned.RefinementOf(signed, nil))
	})

	t.Run("overall polarity", func(t *testing.T) {
		assert.Equal(t, PolarityPositive, ev(PolarityPositive, PolarityPositive).OverallPolarity())
		assert.Equal(t, PolarityPositive, ev(PolarityNegative, PolarityNegative).OverallPolarity())
		assert.Equal(t, PolarityNegative, ev(PolarityPositive, PolarityNegative).OverallPolarity())
		assert.Equal(t, PolarityUnknown, ev(PolarityUnknown, PolarityNegative).OverallPolarity())
	})
}

func TestEvidence(t *testing.T) {
	t.Run("fingerprint", func(t *testing.T) {
		a := NewEvidence("reach", "12345", "MEK phosphorylates ERK.")
		b := NewEvidence("reach", "12345", "MEK phosphorylates ERK.")
		c := NewEvidence("sparser", "12345", "MEK phosphorylates ERK.")
		assert.Equal(t, a.Fingerprint(), b.Fingerprint())
		assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	})

	t.Run("merge dedupes by fingerprint", func(t *testing.T) {
		a := NewEvidence("reach", "12345", "text one")
		b := NewEvidence("reach", "12345", "text two")
		dup := NewEvidence("reach", "12345", "text one")
		merged := MergeEvidence([]*Evidence{a}, []*Evidence{dup, b})
		require.Len(t, merged, 2)
		assert.Same(t, a, merged[0])
		assert.Same(t, b, merged[1])
	})

	t.Run("copy is deep", func(t *testing.T) {
		direct := true
		ev := NewEvidence("reach", "12345", "text")
		ev.Epistemics.Direct = &direct
		ev.Annotations = map[string]any{"found_by": "rule1"}
		cp := ev.Copy()
		*cp.Epistemics.Direct = false
		cp.Annotations["found_by"] = "rule2"
		assert.True(t, *ev.Epistemics.Direct)
		assert.Equal(t, "rule1", ev.Annotations["found_by"])
	})
}

func TestJSONRoundTrip(t *testing.T) {
	t.Run("single statement", func(t *testing.T) {
		st := phosMAPK1("T", "185")
		st.Evidence = []*Evidence{NewEvidence("reach", "12345", "MEK phosphorylates ERK at T185.")}
		st.Belief = 0.85

		data, err := Marshal(st)
		require.NoError(t, err)

		got, err := Unmarshal(data)
		require.NoError(t, err)
		mod, ok := got.(*Modification)
		require.True(t, ok)
		assert.Equal(t, st.ID, mod.ID)
		assert.Equal(t, st.MatchesKey(), mod.MatchesKey())
		assert.Equal(t, 0.85, mod.Belief)
		require.Len(t, mod.Evidence, 1)
		assert.Equal(t, "reach", mod.Evidence[0].SourceAPI)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := Unmarshal([]byte(`{"type":"Telekinesis","id":"x"}`))
		require.ErrorIs(t, err, ErrUnknownType)
	})

	t.Run("malformed statement", func(t *testing.T) {
		_, err := Unmarshal([]byte(`{"type":"Phosphorylation","kind":"Phosphorylation","id":"x"}`))
		require.ErrorIs(t, err, ErrMalformed)

		_, err = Unmarshal([]byte(`{"type":"Complex","members":[{"name":"A"}],"id":"x"}`))
		require.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("corpus rewires support links", func(t *testing.T) {
		general := phosMAPK1("", "")
		specific := phosMAPK1("T", "185")
		general.Supports = []Statement{specific}
		specific.SupportedBy = []Statement{general}

		data, err := MarshalAll([]Statement{general, specific})
		require.NoError(t, err)

		stmts, err := UnmarshalAll(data)
		require.NoError(t, err)
		require.Len(t, stmts, 2)

		g, s := stmts[0].Info(), stmts[1].Info()
		require.Len(t, g.Supports, 1)
		assert.Same(t, stmts[1], g.Supports[0])
		require.Len(t, s.SupportedBy, 1)
		assert.Same(t, stmts[0], s.SupportedBy[0])
		assert.False(t, g.IsTopLevel())
		assert.True(t, s.IsTopLevel())
	})

	t.Run("dangling links are dropped", func(t *testing.T) {
		general := phosMAPK1("", "")
		outside := phosMAPK1("T", "185")
		general.Supports = []Statement{outside}

		data, err := MarshalAll([]Statement{general})
		require.NoError(t, err)
		stmts, err := UnmarshalAll(data)
		require.NoError(t, err)
		assert.Empty(t, stmts[0].Info().Supports)
	})
}
