package store

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/causalbio/sdk/statement"
)

// ErrCorpusNotFound indicates a load of a corpus name that was never
// saved.
var ErrCorpusNotFound = errors.New("corpus not found")

// Client defines the operations of the corpus store and assembly queue.
type Client interface {
	// SaveCorpus persists a named corpus and updates its metadata.
	SaveCorpus(ctx context.Context, name string, stmts []statement.Statement) error

	// LoadCorpus loads a named corpus. Returns ErrCorpusNotFound when
	// the name is unknown.
	LoadCorpus(ctx context.Context, name string) ([]statement.Statement, error)

	// DeleteCorpus removes a corpus and its metadata.
	DeleteCorpus(ctx context.Context, name string) error

	// ListCorpora returns metadata for all stored corpora.
	ListCorpora(ctx context.Context) ([]CorpusMeta, error)

	// PushBatch adds a raw statement batch to the end of a queue (LPUSH).
	PushBatch(ctx context.Context, queue string, batch Batch) error

	// PopBatch removes and returns a batch from the front of a queue
	// (BRPOP). Blocks until a batch is available or the context is
	// cancelled.
	PopBatch(ctx context.Context, queue string) (*Batch, error)

	// PublishResult sends an assembly result to a job's pub/sub channel.
	PublishResult(ctx context.Context, channel string, result AssemblyResult) error

	// SubscribeResults creates a subscription to a job's pub/sub
	// channel. The returned channel receives results until the context is
	// cancelled.
	SubscribeResults(ctx context.Context, channel string) (<-chan AssemblyResult, error)

	// Heartbeat refreshes the health key of an assembly worker with a
	// 30s TTL.
	Heartbeat(ctx context.Context, workerID string) error

	// WorkerCount returns the current worker count for a queue.
	WorkerCount(ctx context.Context, queue string) (int, error)

	// IncrementWorkerCount increments the worker count for a queue.
	IncrementWorkerCount(ctx context.Context, queue string) error

	// DecrementWorkerCount decrements the worker count for a queue.
	DecrementWorkerCount(ctx context.Context, queue string) error

	// Close closes the Redis connection.
	Close() error
}

// RedisOptions configures the Redis connection.
type RedisOptions struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379")
	URL string

	// TLS configuration for secure connections
	TLS *tls.Config

	// ConnectTimeout is the maximum time to wait for connection establishment
	ConnectTimeout time.Duration

	// ReadTimeout is the maximum time to wait for read operations
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait for write operations
	WriteTimeout time.Duration
}

// RedisClient implements the Client interface using go-redis/v9.
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient creates a new corpus store client with the given
// options.
func NewRedisClient(opts RedisOptions) (*RedisClient, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}

	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}

	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 30 * time.Second
	}

	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 5 * time.Second
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	redisOpts.TLSConfig = opts.TLS
	redisOpts.DialTimeout = opts.ConnectTimeout
	redisOpts.ReadTimeout = opts.ReadTimeout
	redisOpts.WriteTimeout = opts.WriteTimeout

	client := redis.NewClient(redisOpts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

func corpusDataKey(name string) string {
	return fmt.Sprintf("corpus:%s:data", name)
}

func corpusMetaKey(name string) string {
	return fmt.Sprintf("corpus:%s:meta", name)
}

// SaveCorpus persists a named corpus as a JSON value and updates its
// metadata hash. Support links between the saved statements are
// preserved.
func (c *RedisClient) SaveCorpus(ctx context.Context, name string, stmts []statement.Statement) error {
	if name == "" {
		return fmt.Errorf("corpus name is required")
	}
	data, err := statement.MarshalAll(stmts)
	if err != nil {
		return fmt.Errorf("failed to marshal corpus %s: %w", name, err)
	}
	if err := c.client.Set(ctx, corpusDataKey(name), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save corpus %s: %w", name, err)
	}

	sources := collectSources(stmts)
	sourcesJSON, err := json.Marshal(sources)
	if err != nil {
		return fmt.Errorf("failed to marshal corpus sources: %w", err)
	}
	metaMap := map[string]string{
		"name":            name,
		"statement_count": strconv.Itoa(len(stmts)),
		"sources":         string(sourcesJSON),
		"updated_at":      strconv.FormatInt(time.Now().UnixMilli(), 10),
	}
	args := make([]interface{}, 0, len(metaMap)*2)
	for k, v := range metaMap {
		args = append(args, k, v)
	}
	if err := c.client.HSet(ctx, corpusMetaKey(name), args...).Err(); err != nil {
		return fmt.Errorf("failed to set corpus metadata: %w", err)
	}
	if err := c.client.SAdd(ctx, "corpora:available", name).Err(); err != nil {
		return fmt.Errorf("failed to add corpus to available set: %w", err)
	}
	return nil
}

// LoadCorpus loads a named corpus, rewiring support links between its
// statements.
func (c *RedisClient) LoadCorpus(ctx context.Context, name string) ([]statement.Statement, error) {
	data, err := c.client.Get(ctx, corpusDataKey(name)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("%w: %s", ErrCorpusNotFound, name)
		}
		return nil, fmt.Errorf("failed to load corpus %s: %w", name, err)
	}
	stmts, err := statement.UnmarshalAll([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal corpus %s: %w", name, err)
	}
	return stmts, nil
}

// DeleteCorpus removes a corpus, its metadata and its registry entry.
func (c *RedisClient) DeleteCorpus(ctx context.Context, name string) error {
	if err := c.client.Del(ctx, corpusDataKey(name), corpusMetaKey(name)).Err(); err != nil {
		return fmt.Errorf("failed to delete corpus %s: %w", name, err)
	}
	if err := c.client.SRem(ctx, "corpora:available", name).Err(); err != nil {
		return fmt.Errorf("failed to remove corpus from available set: %w", err)
	}
	return nil
}

// ListCorpora returns metadata for all stored corpora.
func (c *RedisClient) ListCorpora(ctx context.Context) ([]CorpusMeta, error) {
	names, err := c.client.SMembers(ctx, "corpora:available").Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get available corpora: %w", err)
	}

	metas := make([]CorpusMeta, 0, len(names))
	for _, name := range names {
		metaMap, err := c.client.HGetAll(ctx, corpusMetaKey(name)).Result()
		if err != nil || len(metaMap) == 0 {
			// Skip corpora with missing metadata
			continue
		}
		meta := CorpusMeta{
			Name:        metaMap["name"],
			Description: metaMap["description"],
		}
		if countStr, ok := metaMap["statement_count"]; ok {
			if count, err := strconv.Atoi(countStr); err == nil {
				meta.StatementCount = count
			}
		}
		if sourcesStr, ok := metaMap["sources"]; ok {
			var sources []string
			if err := json.Unmarshal([]byte(sourcesStr), &sources); err == nil {
				meta.Sources = sources
			}
		}
		if tsStr, ok := metaMap["updated_at"]; ok {
			if ts, err := strconv.ParseInt(tsStr, 10, 64); err == nil {
				meta.UpdatedAt = ts
			}
		}
		metas = append(metas, meta)
	}
	return metas, nil
}

// PushBatch adds a batch to the end of a queue.
func (c *RedisClient) PushBatch(ctx context.Context, queue string, batch Batch) error {
	data, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to marshal batch: %w", err)
	}

	if err := c.client.LPush(ctx, queue, data).Err(); err != nil {
		return fmt.Errorf("failed to push to queue %s: %w", queue, err)
	}

	return nil
}

// PopBatch removes and returns a batch from the front of a queue.
// Blocks until a batch is available or the context is cancelled.
func (c *RedisClient) PopBatch(ctx context.Context, queue string) (*Batch, error) {
	// BRPOP returns [queue_name, value] or empty if timeout
	result, err := c.client.BRPop(ctx, 0, queue).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to pop from queue %s: %w", queue, err)
	}

	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP result length: %d", len(result))
	}

	var batch Batch
	if err := json.Unmarshal([]byte(result[1]), &batch); err != nil {
		return nil, fmt.Errorf("failed to unmarshal batch: %w", err)
	}

	return &batch, nil
}

// PublishResult sends an assembly result to a pub/sub channel.
func (c *RedisClient) PublishResult(ctx context.Context, channel string, result AssemblyResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := c.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish to channel %s: %w", channel, err)
	}

	return nil
}

// SubscribeResults creates a subscription to a pub/sub channel.
func (c *RedisClient) SubscribeResults(ctx context.Context, channel string) (<-chan AssemblyResult, error) {
	pubsub := c.client.Subscribe(ctx, channel)

	// Wait for subscription confirmation
	if _, err := pubsub.Receive(ctx); err != nil {
		return nil, fmt.Errorf("failed to subscribe to channel %s: %w", channel, err)
	}

	resultChan := make(chan AssemblyResult)

	go func() {
		defer close(resultChan)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var result AssemblyResult
				if err := json.Unmarshal([]byte(msg.Payload), &result); err != nil {
					// Skip malformed payloads but keep the subscription
					continue
				}

				select {
				case resultChan <- result:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return resultChan, nil
}

// Heartbeat refreshes the health key for a worker with a 30s TTL.
func (c *RedisClient) Heartbeat(ctx context.Context, workerID string) error {
	healthKey := fmt.Sprintf("worker:%s:health", workerID)
	if err := c.client.Set(ctx, healthKey, "ok", 30*time.Second).Err(); err != nil {
		return fmt.Errorf("failed to set heartbeat for worker %s: %w", workerID, err)
	}
	return nil
}

// WorkerCount returns the current worker count for a queue.
func (c *RedisClient) WorkerCount(ctx context.Context, queue string) (int, error) {
	workerKey := fmt.Sprintf("queue:%s:workers", queue)
	countStr, err := c.client.Get(ctx, workerKey).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get worker count for queue %s: %w", queue, err)
	}

	count, err := strconv.Atoi(countStr)
	if err != nil {
		return 0, fmt.Errorf("invalid worker count value: %w", err)
	}

	return count, nil
}

// IncrementWorkerCount increments the worker count for a queue.
func (c *RedisClient) IncrementWorkerCount(ctx context.Context, queue string) error {
	workerKey := fmt.Sprintf("queue:%s:workers", queue)
	if err := c.client.Incr(ctx, workerKey).Err(); err != nil {
		return fmt.Errorf("failed to increment worker count for queue %s: %w", queue, err)
	}
	return nil
}

// DecrementWorkerCount decrements the worker count for a queue.
func (c *RedisClient) DecrementWorkerCount(ctx context.Context, queue string) error {
	workerKey := fmt.Sprintf("queue:%s:workers", queue)
	if err := c.client.Decr(ctx, workerKey).Err(); err != nil {
		return fmt.Errorf("failed to decrement worker count for queue %s: %w", queue, err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *RedisClient) Close() error {
	return c.client.Close()
}

// collectSources returns the distinct evidence sources of a corpus, in
// first-seen order.
func collectSources(stmts []statement.Statement) []string {
	seen := make(map[string]struct{})
	var sources []string
	for _, st := range stmts {
		for _, ev := range st.Info().Evidence {
			if ev.SourceAPI == "" {
				continue
			}
			if _, ok := seen[ev.SourceAPI]; ok {
				continue
			}
			seen[ev.SourceAPI] = struct{}{}
			sources = append(sources, ev.SourceAPI)
		}
	}
	return sources
}
