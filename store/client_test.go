package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/causalbio/sdk/statement"
)

// setupTestClient creates a RedisClient backed by an in-process Redis.
func setupTestClient(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	client, err := NewRedisClient(RedisOptions{
		URL: "redis://" + mr.Addr(),
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		client.Close()
	})

	return client, mr
}

func testCorpus() []statement.Statement {
	specific := statement.NewModification(statement.ModPhosphorylation,
		statement.NewAgent("MAP2K1", map[string]string{"HGNC": "6840"}),
		statement.NewAgent("MAPK1", map[string]string{"HGNC": "6871"}),
		"T", "185",
		statement.NewEvidence("reach", "12345", "MEK phosphorylates ERK at T185."))
	general := statement.NewModification(statement.ModPhosphorylation,
		statement.NewAgent("MAP2K1", map[string]string{"HGNC": "6840"}),
		statement.NewAgent("MAPK1", map[string]string{"HGNC": "6871"}),
		"", "",
		statement.NewEvidence("signor", "S1", ""))
	general.Supports = []statement.Statement{specific}
	specific.SupportedBy = []statement.Statement{general}
	return []statement.Statement{specific, general}
}

func TestNewRedisClient(t *testing.T) {
	t.Run("successful connection", func(t *testing.T) {
		client, _ := setupTestClient(t)
		assert.NotNil(t, client)
	})

	t.Run("invalid URL", func(t *testing.T) {
		_, err := NewRedisClient(RedisOptions{URL: "not-a-url"})
		require.Error(t, err)
	})

	t.Run("unreachable server", func(t *testing.T) {
		_, err := NewRedisClient(RedisOptions{
			URL:            "redis://localhost:1",
			ConnectTimeout: 100 * time.Millisecond,
		})
		require.Error(t, err)
	})
}

func TestSaveLoadCorpus(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx := context.Background()

	t.Run("round trip with links", func(t *testing.T) {
		stmts := testCorpus()
		require.NoError(t, client.SaveCorpus(ctx, "mapk", stmts))

		loaded, err := client.LoadCorpus(ctx, "mapk")
		require.NoError(t, err)
		require.Len(t, loaded, 2)
		assert.Equal(t, stmts[0].MatchesKey(), loaded[0].MatchesKey())
		require.Len(t, loaded[1].Info().Supports, 1)
		assert.Same(t, loaded[0], loaded[1].Info().Supports[0])
	})

	t.Run("unknown corpus", func(t *testing.T) {
		_, err := client.LoadCorpus(ctx, "nope")
		require.ErrorIs(t, err, ErrCorpusNotFound)
	})

	t.Run("name required", func(t *testing.T) {
		require.Error(t, client.SaveCorpus(ctx, "", nil))
	})
}

func TestDeleteCorpus(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.SaveCorpus(ctx, "mapk", testCorpus()))
	require.NoError(t, client.DeleteCorpus(ctx, "mapk"))

	_, err := client.LoadCorpus(ctx, "mapk")
	require.ErrorIs(t, err, ErrCorpusNotFound)

	metas, err := client.ListCorpora(ctx)
	require.NoError(t, err)
	assert.Empty(t, metas)
}

func TestListCorpora(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.SaveCorpus(ctx, "mapk", testCorpus()))
	require.NoError(t, client.SaveCorpus(ctx, "empty", nil))

	metas, err := client.ListCorpora(ctx)
	require.NoError(t, err)
	require.Len(t, metas, 2)

	byName := make(map[string]CorpusMeta)
	for _, m := range metas {
		byName[m.Name] = m
	}

	mapk := byName["mapk"]
	assert.Equal(t, 2, mapk.StatementCount)
	assert.Equal(t, []string{"reach", "signor"}, mapk.Sources)
	assert.True(t, mapk.HasSource("signor"))
	assert.False(t, mapk.HasSource("sparser"))
	assert.Greater(t, mapk.UpdatedAt, int64(0))

	assert.Equal(t, 0, byName["empty"].StatementCount)
}

func TestPushPopBatch(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx := context.Background()

	batch := Batch{
		JobID:          "job-1",
		Index:          0,
		Total:          2,
		Source:         "reach",
		StatementsJSON: `[]`,
		SubmittedAt:    time.Now().UnixMilli(),
	}

	require.NoError(t, client.PushBatch(ctx, "assembly", batch))

	popped, err := client.PopBatch(ctx, "assembly")
	require.NoError(t, err)
	require.NotNil(t, popped)
	assert.Equal(t, "job-1", popped.JobID)
	assert.Equal(t, "reach", popped.Source)
}

func TestPushPopOrder(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		batch := Batch{
			JobID:          "job-1",
			Index:          i,
			Total:          3,
			Source:         "reach",
			StatementsJSON: `[]`,
			SubmittedAt:    time.Now().UnixMilli(),
		}
		require.NoError(t, client.PushBatch(ctx, "assembly", batch))
	}

	// FIFO: LPUSH + BRPOP.
	for i := 0; i < 3; i++ {
		popped, err := client.PopBatch(ctx, "assembly")
		require.NoError(t, err)
		require.NotNil(t, popped)
		assert.Equal(t, i, popped.Index)
	}
}

func TestPublishSubscribe(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	results, err := client.SubscribeResults(ctx, "job-1:results")
	require.NoError(t, err)

	result := AssemblyResult{
		JobID:          "job-1",
		Index:          0,
		StatementsJSON: `[]`,
		WorkerID:       "worker-1",
		StartedAt:      time.Now().UnixMilli(),
		CompletedAt:    time.Now().UnixMilli(),
	}
	require.NoError(t, client.PublishResult(ctx, "job-1:results", result))

	select {
	case got := <-results:
		assert.Equal(t, "job-1", got.JobID)
		assert.Equal(t, "worker-1", got.WorkerID)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for published result")
	}
}

func TestHeartbeat(t *testing.T) {
	client, mr := setupTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Heartbeat(ctx, "worker-1"))

	assert.True(t, mr.Exists("worker:worker-1:health"))
	ttl := mr.TTL("worker:worker-1:health")
	assert.Equal(t, 30*time.Second, ttl)
}

func TestWorkerCount(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx := context.Background()

	count, err := client.WorkerCount(ctx, "assembly")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, client.IncrementWorkerCount(ctx, "assembly"))
	require.NoError(t, client.IncrementWorkerCount(ctx, "assembly"))

	count, err = client.WorkerCount(ctx, "assembly")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, client.DecrementWorkerCount(ctx, "assembly"))

	count, err = client.WorkerCount(ctx, "assembly")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
