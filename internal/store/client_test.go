package store

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/arlet-state/internal/config"
	"github.com/ducminhle1904/arlet-state/internal/logger"
)

type setCall struct {
	collection string
	documentID string
	fields     map[string]interface{}
	merge      bool
}

// fakeBackend scripts failures for the first failSet/failGet calls and
// records everything the client sends it.
type fakeBackend struct {
	mu       sync.Mutex
	setCalls []setCall
	getCalls []string
	failSet  int
	failGet  int
	docs     map[string]map[string]map[string]interface{}
	closed   bool
}

var errBackend = errors.New("backend unavailable")

func newFakeBackend() *fakeBackend {
	return &fakeBackend{docs: make(map[string]map[string]map[string]interface{})}
}

func (b *fakeBackend) Set(ctx context.Context, collection, documentID string, fields map[string]interface{}, merge bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.setCalls = append(b.setCalls, setCall{collection, documentID, fields, merge})
	if len(b.setCalls) <= b.failSet {
		return errBackend
	}

	if b.docs[collection] == nil {
		b.docs[collection] = make(map[string]map[string]interface{})
	}
	if merge {
		if b.docs[collection][documentID] == nil {
			b.docs[collection][documentID] = make(map[string]interface{})
		}
		for k, v := range fields {
			b.docs[collection][documentID][k] = v
		}
	} else {
		b.docs[collection][documentID] = fields
	}
	return nil
}

func (b *fakeBackend) Get(ctx context.Context, collection, documentID string) (map[string]interface{}, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.getCalls = append(b.getCalls, collection)
	if len(b.getCalls) <= b.failGet {
		return nil, false, errBackend
	}

	fields, ok := b.docs[collection][documentID]
	return fields, ok, nil
}

func (b *fakeBackend) GetAll(ctx context.Context, collection string) (map[string]map[string]interface{}, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.getCalls = append(b.getCalls, collection)
	if len(b.getCalls) <= b.failGet {
		return nil, errBackend
	}
	return b.docs[collection], nil
}

func (b *fakeBackend) Delete(ctx context.Context, collection, documentID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.docs[collection], documentID)
	return nil
}

func (b *fakeBackend) Close() error {
	b.closed = true
	return nil
}

// newTestClient wires a client over the fake backend with a recording sleep
// so backoff timing is observable without real waiting.
func newTestClient(backend Backend) (*Client, *[]time.Duration) {
	sleeps := &[]time.Duration{}
	client := &Client{
		backend: backend,
		prefix:  "ARLET_",
		log:     logger.NewWithWriter(io.Discard, "ERROR"),
		sleep: func(ctx context.Context, delay time.Duration) bool {
			*sleeps = append(*sleeps, delay)
			return true
		},
	}
	return client, sleeps
}

// TestWriteState_SucceedsFirstAttempt tests the happy path: one attempt, no backoff
func TestWriteState_SucceedsFirstAttempt(t *testing.T) {
	backend := newFakeBackend()
	client, sleeps := newTestClient(backend)

	ok := client.WriteState(context.Background(), "agents", "agent-1", map[string]interface{}{"reward": 1.5}, true)

	assert.True(t, ok)
	assert.Len(t, backend.setCalls, 1)
	assert.Empty(t, *sleeps)
}

// TestWriteState_RetriesThenSucceeds tests recovery on the final attempt with 1s and 2s backoff
func TestWriteState_RetriesThenSucceeds(t *testing.T) {
	backend := newFakeBackend()
	backend.failSet = 2
	client, sleeps := newTestClient(backend)

	ok := client.WriteState(context.Background(), "agents", "agent-1", map[string]interface{}{"reward": 1.5}, true)

	assert.True(t, ok)
	assert.Len(t, backend.setCalls, 3)
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, *sleeps)
}

// TestWriteState_ExhaustsRetries tests that three failures yield false and no fourth attempt
func TestWriteState_ExhaustsRetries(t *testing.T) {
	backend := newFakeBackend()
	backend.failSet = 3
	client, sleeps := newTestClient(backend)

	ok := client.WriteState(context.Background(), "agents", "agent-1", map[string]interface{}{"reward": 1.5}, true)

	assert.False(t, ok)
	assert.Len(t, backend.setCalls, 3)
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, *sleeps)
}

// TestWriteState_PrefixesCollection tests that the backend only ever sees prefixed names
func TestWriteState_PrefixesCollection(t *testing.T) {
	backend := newFakeBackend()
	backend.failSet = 2
	client, _ := newTestClient(backend)

	client.WriteState(context.Background(), "positions", "btc", map[string]interface{}{"size": 0.1}, true)

	require.Len(t, backend.setCalls, 3)
	for _, call := range backend.setCalls {
		assert.Equal(t, "ARLET_positions", call.collection)
	}
}

// TestWriteState_MergeSemantics tests that merge preserves absent fields and replace drops them
func TestWriteState_MergeSemantics(t *testing.T) {
	backend := newFakeBackend()
	client, _ := newTestClient(backend)
	ctx := context.Background()

	client.WriteState(ctx, "agents", "agent-1", map[string]interface{}{"epsilon": 0.1, "episode": 10}, false)
	client.WriteState(ctx, "agents", "agent-1", map[string]interface{}{"episode": 11}, true)

	doc := backend.docs["ARLET_agents"]["agent-1"]
	assert.Equal(t, 0.1, doc["epsilon"])
	assert.Equal(t, 11, doc["episode"])

	client.WriteState(ctx, "agents", "agent-1", map[string]interface{}{"episode": 12}, false)

	doc = backend.docs["ARLET_agents"]["agent-1"]
	assert.NotContains(t, doc, "epsilon")
	assert.Equal(t, 12, doc["episode"])
}

// TestWriteState_CanceledContextStopsBackoff tests that cancellation ends the retry loop early
func TestWriteState_CanceledContextStopsBackoff(t *testing.T) {
	backend := newFakeBackend()
	backend.failSet = 3
	client, _ := newTestClient(backend)
	client.sleep = sleepContext

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok := client.WriteState(ctx, "agents", "agent-1", map[string]interface{}{"reward": 1.5}, true)

	assert.False(t, ok)
	assert.Len(t, backend.setCalls, 1)
}

// TestReadState_Found tests reading back a written document through the prefixed collection
func TestReadState_Found(t *testing.T) {
	backend := newFakeBackend()
	client, _ := newTestClient(backend)
	ctx := context.Background()

	client.WriteState(ctx, "agents", "agent-1", map[string]interface{}{"reward": 1.5}, true)

	fields, found, err := client.ReadState(ctx, "agents", "agent-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1.5, fields["reward"])
	assert.Equal(t, []string{"ARLET_agents"}, backend.getCalls)
}

// TestReadState_NotFound tests that a missing document is not an error
func TestReadState_NotFound(t *testing.T) {
	backend := newFakeBackend()
	client, _ := newTestClient(backend)

	fields, found, err := client.ReadState(context.Background(), "agents", "missing")

	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, fields)
}

// TestReadState_RetriesThenSucceeds tests the read path shares the write path's retry discipline
func TestReadState_RetriesThenSucceeds(t *testing.T) {
	backend := newFakeBackend()
	backend.failGet = 2
	client, sleeps := newTestClient(backend)
	ctx := context.Background()

	client.WriteState(ctx, "agents", "agent-1", map[string]interface{}{"reward": 1.5}, true)

	_, found, err := client.ReadState(ctx, "agents", "agent-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Len(t, backend.getCalls, 3)
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, *sleeps)
}

// TestReadState_ExhaustsRetries tests that persistent read failures surface as an error
func TestReadState_ExhaustsRetries(t *testing.T) {
	backend := newFakeBackend()
	backend.failGet = 3
	client, _ := newTestClient(backend)

	_, found, err := client.ReadState(context.Background(), "agents", "agent-1")

	assert.Error(t, err)
	assert.False(t, found)
	assert.ErrorIs(t, err, errBackend)
	assert.Len(t, backend.getCalls, 3)
}

// TestReadCollection tests listing all documents of a prefixed collection
func TestReadCollection(t *testing.T) {
	backend := newFakeBackend()
	client, _ := newTestClient(backend)
	ctx := context.Background()

	client.WriteState(ctx, "episodes", "ep-1", map[string]interface{}{"reward": 1.0}, true)
	client.WriteState(ctx, "episodes", "ep-2", map[string]interface{}{"reward": 2.0}, true)

	docs, err := client.ReadCollection(ctx, "episodes")
	require.NoError(t, err)
	assert.Len(t, docs, 2)
	assert.Equal(t, 2.0, docs["ep-2"]["reward"])
}

// TestDeleteState tests document removal through the retry path
func TestDeleteState(t *testing.T) {
	backend := newFakeBackend()
	client, _ := newTestClient(backend)
	ctx := context.Background()

	client.WriteState(ctx, "agents", "agent-1", map[string]interface{}{"reward": 1.5}, true)
	assert.True(t, client.DeleteState(ctx, "agents", "agent-1"))

	_, found, err := client.ReadState(ctx, "agents", "agent-1")
	require.NoError(t, err)
	assert.False(t, found)
}

// TestShared_SingleConnection tests that concurrent first-time construction
// yields exactly one underlying connection
func TestShared_SingleConnection(t *testing.T) {
	var mu sync.Mutex
	connections := 0

	original := newBackend
	newBackend = func(ctx context.Context, cfg config.FirebaseConfig) (Backend, error) {
		mu.Lock()
		connections++
		mu.Unlock()
		return newFakeBackend(), nil
	}
	defer func() { newBackend = original }()

	cfg := config.Load(config.Env{})
	logg := logger.NewWithWriter(io.Discard, "ERROR")

	const goroutines = 16
	clients := make([]*Client, goroutines)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			client, err := Shared(cfg, logg)
			assert.NoError(t, err)
			clients[i] = client
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, connections)
	for i := 1; i < goroutines; i++ {
		assert.Same(t, clients[0], clients[i])
	}
}
