package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBatch() Batch {
	return Batch{
		JobID:          "job-1",
		Index:          0,
		Total:          2,
		Source:         "reach",
		StatementsJSON: `[]`,
		SubmittedAt:    time.Now().UnixMilli(),
	}
}

func TestBatchIsValid(t *testing.T) {
	vb := validBatch()
	require.NoError(t, vb.IsValid())

	tests := []struct {
		name   string
		mutate func(*Batch)
	}{
		{"missing job id", func(b *Batch) { b.JobID = "" }},
		{"negative index", func(b *Batch) { b.Index = -1 }},
		{"zero total", func(b *Batch) { b.Total = 0 }},
		{"index out of bounds", func(b *Batch) { b.Index = 2 }},
		{"missing source", func(b *Batch) { b.Source = "" }},
		{"missing statements", func(b *Batch) { b.StatementsJSON = "" }},
		{"missing timestamp", func(b *Batch) { b.SubmittedAt = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBatch()
			tt.mutate(&b)
			assert.Error(t, b.IsValid())
		})
	}
}

func TestBatchAge(t *testing.T) {
	b := validBatch()
	b.SubmittedAt = time.Now().Add(-time.Minute).UnixMilli()
	age := b.Age()
	assert.GreaterOrEqual(t, age, time.Minute)
	assert.Less(t, age, time.Minute+10*time.Second)

	b.SubmittedAt = 0
	assert.Equal(t, time.Duration(0), b.Age())
}

func validResult() AssemblyResult {
	now := time.Now().UnixMilli()
	return AssemblyResult{
		JobID:          "job-1",
		Index:          0,
		StatementsJSON: `[]`,
		WorkerID:       "worker-1",
		StartedAt:      now - 500,
		CompletedAt:    now,
	}
}

func TestAssemblyResultIsValid(t *testing.T) {
	vr := validResult()
	require.NoError(t, vr.IsValid())

	t.Run("error results need no statements", func(t *testing.T) {
		r := validResult()
		r.StatementsJSON = ""
		r.Error = "assembly failed"
		assert.True(t, r.HasError())
		assert.NoError(t, r.IsValid())
	})

	t.Run("success requires statements", func(t *testing.T) {
		r := validResult()
		r.StatementsJSON = ""
		assert.Error(t, r.IsValid())
	})

	t.Run("completion before start", func(t *testing.T) {
		r := validResult()
		r.CompletedAt = r.StartedAt - 1
		assert.Error(t, r.IsValid())
	})

	t.Run("missing worker", func(t *testing.T) {
		r := validResult()
		r.WorkerID = ""
		assert.Error(t, r.IsValid())
	})
}

func TestAssemblyResultDuration(t *testing.T) {
	r := validResult()
	assert.Equal(t, 500*time.Millisecond, r.Duration())

	r.StartedAt = 0
	assert.Equal(t, time.Duration(0), r.Duration())
}

func TestCorpusMeta(t *testing.T) {
	meta := CorpusMeta{
		Name:           "mapk",
		StatementCount: 10,
		Sources:        []string{"reach", "signor"},
	}
	require.NoError(t, meta.IsValid())
	assert.True(t, meta.HasSource("reach"))
	assert.False(t, meta.HasSource("biopax"))

	meta.Name = ""
	assert.Error(t, meta.IsValid())

	meta = CorpusMeta{Name: "x", StatementCount: -1}
	assert.Error(t, meta.IsValid())
}
