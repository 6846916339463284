package store

import (
	"context"
	"sync"
	"time"

	"github.com/ducminhle1904/arlet-state/internal/config"
	"github.com/ducminhle1904/arlet-state/internal/errors"
	"github.com/ducminhle1904/arlet-state/internal/logger"
	"github.com/ducminhle1904/arlet-state/internal/monitoring"
)

const maxAttempts = 3

// Client wraps the remote document store with namespace-prefixed collection
// names and bounded retry on every operation. Steady-state calls are safe
// for concurrent use; last-write-wins on the same document is delegated to
// the remote store.
type Client struct {
	backend Backend
	prefix  string
	log     *logger.Logger
	sleep   func(ctx context.Context, delay time.Duration) bool
}

// newBackend is swapped out in tests.
var newBackend = newFirestoreBackend

var (
	sharedOnce   sync.Once
	sharedClient *Client
	sharedErr    error
)

// New establishes a credentialed Firestore connection from the firebase
// settings group. Initialization failure is fatal: the error is returned
// and never retried.
func New(cfg *config.Config, log *logger.Logger) (*Client, error) {
	backend, err := newBackend(context.Background(), cfg.Firebase)
	if err != nil {
		log.LogError("Failed to initialize Firestore", err)
		return nil, errors.WrapError(err, errors.ErrorCategoryConnection, "store", "initialize")
	}

	log.Info("Firestore initialized for project: %s", cfg.Firebase.ProjectID)
	monitoring.SetConnected(true)

	return &Client{
		backend: backend,
		prefix:  cfg.Firebase.CollectionPrefix,
		log:     log,
		sleep:   sleepContext,
	}, nil
}

// Shared returns the process-wide client, connecting on first use. All
// concurrent first calls observe the same underlying connection; later
// calls ignore their arguments and reuse it.
func Shared(cfg *config.Config, log *logger.Logger) (*Client, error) {
	sharedOnce.Do(func() {
		sharedClient, sharedErr = New(cfg, log)
	})
	return sharedClient, sharedErr
}

// qualify prepends the namespace prefix, so bare logical collection names
// never reach the remote store.
func (c *Client) qualify(collection string) string {
	return c.prefix + collection
}

// WriteState writes a document with up to 3 attempts and exponential
// backoff (1s, 2s) between failures. merge=true is a field-level upsert
// that leaves fields absent from the payload untouched; merge=false
// replaces the whole document. Returns whether the write succeeded;
// exhausted retries are logged, not raised.
func (c *Client) WriteState(ctx context.Context, collection, documentID string, fields map[string]interface{}, merge bool) bool {
	qualified := c.qualify(collection)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := c.backend.Set(ctx, qualified, documentID, fields, merge)
		if err == nil {
			monitoring.RecordWriteAttempt(collection, "success")
			c.log.Debug("Successfully wrote to %s/%s", collection, documentID)
			return true
		}

		monitoring.RecordWriteAttempt(collection, "failure")
		c.log.Warning("Firestore write attempt %d failed: %v", attempt+1, err)

		if attempt == maxAttempts-1 {
			c.log.Error("Failed to write to Firestore after %d attempts", maxAttempts)
			return false
		}

		monitoring.RecordRetry("write")
		if !c.backoff(ctx, attempt) {
			c.log.Error("Firestore write to %s/%s canceled during backoff", collection, documentID)
			return false
		}
	}
	return false
}

// ReadState fetches a single document. A missing document is reported as
// found=false with a nil error; an error is returned only once all retry
// attempts are exhausted.
func (c *Client) ReadState(ctx context.Context, collection, documentID string) (map[string]interface{}, bool, error) {
	qualified := c.qualify(collection)

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		fields, found, err := c.backend.Get(ctx, qualified, documentID)
		if err == nil {
			monitoring.RecordReadAttempt(collection, "success")
			return fields, found, nil
		}

		lastErr = err
		monitoring.RecordReadAttempt(collection, "failure")
		c.log.Warning("Firestore read attempt %d failed: %v", attempt+1, err)

		if attempt == maxAttempts-1 {
			break
		}

		monitoring.RecordRetry("read")
		if !c.backoff(ctx, attempt) {
			break
		}
	}

	c.log.Error("Failed to read from Firestore after %d attempts", maxAttempts)
	return nil, false, errors.WrapError(lastErr, errors.Categorize(lastErr), "store", "read")
}

// ReadCollection fetches every document in a collection, keyed by document
// id, with the same retry discipline as ReadState.
func (c *Client) ReadCollection(ctx context.Context, collection string) (map[string]map[string]interface{}, error) {
	qualified := c.qualify(collection)

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		docs, err := c.backend.GetAll(ctx, qualified)
		if err == nil {
			monitoring.RecordReadAttempt(collection, "success")
			return docs, nil
		}

		lastErr = err
		monitoring.RecordReadAttempt(collection, "failure")
		c.log.Warning("Firestore collection read attempt %d failed: %v", attempt+1, err)

		if attempt == maxAttempts-1 {
			break
		}

		monitoring.RecordRetry("read")
		if !c.backoff(ctx, attempt) {
			break
		}
	}

	c.log.Error("Failed to read collection %s after %d attempts", collection, maxAttempts)
	return nil, errors.WrapError(lastErr, errors.Categorize(lastErr), "store", "read_collection")
}

// DeleteState removes a document, with the same retry discipline and
// boolean result as WriteState.
func (c *Client) DeleteState(ctx context.Context, collection, documentID string) bool {
	qualified := c.qualify(collection)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := c.backend.Delete(ctx, qualified, documentID)
		if err == nil {
			c.log.Debug("Successfully deleted %s/%s", collection, documentID)
			return true
		}

		c.log.Warning("Firestore delete attempt %d failed: %v", attempt+1, err)

		if attempt == maxAttempts-1 {
			c.log.Error("Failed to delete from Firestore after %d attempts", maxAttempts)
			return false
		}

		monitoring.RecordRetry("delete")
		if !c.backoff(ctx, attempt) {
			return false
		}
	}
	return false
}

// Close releases the underlying connection. Only meaningful for explicitly
// constructed clients; the shared client lives for the process lifetime.
func (c *Client) Close() error {
	monitoring.SetConnected(false)
	return c.backend.Close()
}

// backoff sleeps 2^attempt seconds (attempt zero-indexed), blocking only
// the calling goroutine. Returns false if the context was canceled first.
func (c *Client) backoff(ctx context.Context, attempt int) bool {
	delay := time.Duration(1<<uint(attempt)) * time.Second
	monitoring.RecordBackoff(delay)
	return c.sleep(ctx, delay)
}

func sleepContext(ctx context.Context, delay time.Duration) bool {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
