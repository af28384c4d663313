package reconcile

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Index holds both sides loaded for one spec.
type Index struct {
	Local  map[string]Item
	Remote map[string]Item
	Built  time.Time
	TTL    time.Duration
}

// IsExpired reports whether the index should be rebuilt.
func (i *Index) IsExpired() bool {
	if i.TTL == 0 {
		return true
	}
	return time.Since(i.Built) > i.TTL
}

type indexStore struct {
	mu      sync.RWMutex
	indexes map[string]*Index
	sf      singleflight.Group
}

var store = &indexStore{
	indexes: make(map[string]*Index),
}

// BuildIndex loads both sides concurrently. It does not store the result.
func BuildIndex(ctx context.Context, spec *Spec) (*Index, error) {
	var (
		local     map[string]Item
		remote    map[string]Item
		localErr  error
		remoteErr error
		wg        sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		local, localErr = spec.Adapter.LoadLocal(ctx)
	}()
	go func() {
		defer wg.Done()
		remote, remoteErr = spec.Adapter.LoadRemote(ctx, spec.Keys)
	}()
	wg.Wait()

	if localErr != nil {
		return nil, localErr
	}
	if remoteErr != nil {
		return nil, remoteErr
	}

	return &Index{
		Local:  local,
		Remote: remote,
		Built:  time.Now(),
		TTL:    spec.CacheTTL,
	}, nil
}

// GetOrBuildIndex returns a fresh stored index for the spec, building it at
// most once across concurrent callers.
func GetOrBuildIndex(ctx context.Context, spec *Spec) (*Index, error) {
	key := spec.CacheKey()

	if idx := store.get(key); idx != nil {
		return idx, nil
	}

	v, err, _ := store.sf.Do(key, func() (interface{}, error) {
		if idx := store.get(key); idx != nil {
			return idx, nil
		}
		idx, err := BuildIndex(ctx, spec)
		if err != nil {
			return nil, err
		}
		store.mu.Lock()
		store.indexes[key] = idx
		store.mu.Unlock()
		return idx, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Index), nil
}

// InvalidateIndex drops the stored index for the spec.
func InvalidateIndex(spec *Spec) {
	store.mu.Lock()
	delete(store.indexes, spec.CacheKey())
	store.mu.Unlock()
}

func (s *indexStore) get(key string) *Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx, ok := s.indexes[key]; ok && !idx.IsExpired() {
		return idx
	}
	return nil
}
