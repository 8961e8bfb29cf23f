package like

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AlibekovAA/storefront/internal/common/constants"
	"github.com/AlibekovAA/storefront/internal/common/logger"
	"github.com/AlibekovAA/storefront/internal/observability/metrics"
)

var (
	ErrMalformedLocalState = errors.New("malformed local like state")

	// ErrNotLoaded is returned by Flush when Mount could not read storage, so
	// the stored snapshot is never replaced by one that did not start from it.
	ErrNotLoaded = errors.New("like state was not loaded from storage")
)

// Persister mirrors a Store to Storage under a single key. Mount loads the
// stored snapshot once; afterwards every dispatch writes the full snapshot
// back.
type Persister struct {
	store        *Store
	storage      Storage
	key          string
	writeTimeout time.Duration
	log          *logger.Logger

	mountOnce   sync.Once
	mountErr    error
	loaded      atomic.Bool
	writeMu     sync.Mutex
	unsubscribe func()
}

func NewPersister(store *Store, storage Storage, log *logger.Logger) *Persister {
	return &Persister{
		store:        store,
		storage:      storage,
		key:          constants.LikeStorageKey,
		writeTimeout: constants.LikeFlushTimeout,
		log:          log,
	}
}

// Mount overwrites the in-memory state with the stored snapshot, if any. A
// malformed snapshot leaves the state untouched and returns
// ErrMalformedLocalState; write-back is still enabled so the next change
// replaces it. Any other read error leaves write-back disabled. Later calls
// return the first call's result without touching storage.
func (p *Persister) Mount(ctx context.Context) error {
	p.mountOnce.Do(func() {
		p.mountErr = p.load(ctx)
		if p.mountErr != nil && !errors.Is(p.mountErr, ErrMalformedLocalState) {
			return
		}
		p.loaded.Store(true)
		p.unsubscribe = p.store.Subscribe(p.writeBack)
	})
	return p.mountErr
}

func (p *Persister) load(ctx context.Context) error {
	raw, ok, err := p.storage.Get(ctx, p.key)
	if err != nil {
		metrics.LikeStorageOperations.WithLabelValues("read", "error").Inc()
		return fmt.Errorf("failed to read like state: %w", err)
	}
	if !ok {
		metrics.LikeStorageOperations.WithLabelValues("read", "empty").Inc()
		return nil
	}

	likes, err := decodeLikes(raw)
	if err != nil {
		metrics.LikeStorageOperations.WithLabelValues("read", "malformed").Inc()
		return fmt.Errorf("%w: %v", ErrMalformedLocalState, err)
	}

	metrics.LikeStorageOperations.WithLabelValues("read", "success").Inc()
	p.store.Dispatch(SetLikes{Likes: likes})
	return nil
}

// Flush writes the current snapshot synchronously. It returns ErrNotLoaded
// unless Mount has completed without a read error.
func (p *Persister) Flush(ctx context.Context) error {
	if !p.loaded.Load() {
		return ErrNotLoaded
	}
	return p.write(ctx, p.store.State())
}

func (p *Persister) Close() {
	if p.unsubscribe != nil {
		p.unsubscribe()
	}
}

func (p *Persister) writeBack(State) {
	ctx, cancel := context.WithTimeout(context.Background(), p.writeTimeout)
	defer cancel()

	// Write the latest state rather than the dispatched one, so racing
	// dispatches cannot leave an older snapshot as the last write.
	if err := p.write(ctx, p.store.State()); err != nil {
		p.log.WithFields(ctx, logger.Fields{
			"key":    p.key,
			"action": "like_write_back_failed",
		}).Errorf("like state write-back failed: %v", err)
	}
}

func (p *Persister) write(ctx context.Context, state State) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	raw, err := encodeLikes(state)
	if err != nil {
		metrics.LikeStorageOperations.WithLabelValues("write", "error").Inc()
		return err
	}
	if err := p.storage.Set(ctx, p.key, raw); err != nil {
		metrics.LikeStorageOperations.WithLabelValues("write", "error").Inc()
		return fmt.Errorf("failed to write like state: %w", err)
	}
	metrics.LikeStorageOperations.WithLabelValues("write", "success").Inc()
	return nil
}

func decodeLikes(raw string) (map[ProductID]bool, error) {
	var likes map[ProductID]bool
	if err := json.Unmarshal([]byte(raw), &likes); err != nil {
		return nil, err
	}
	if likes == nil {
		return nil, errors.New("expected a json object")
	}
	return likes, nil
}

func encodeLikes(state State) (string, error) {
	data, err := json.Marshal(state.Snapshot())
	if err != nil {
		return "", fmt.Errorf("failed to encode like state: %w", err)
	}
	return string(data), nil
}
