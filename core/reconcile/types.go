package reconcile

import (
	"sort"
	"strings"
	"time"
)

// Item is an entity loaded from one side. Adapters define the concrete type.
type Item any

// Result is the reconciliation output for a single entity.
type Result struct {
	// ID is the entity key shared by both sides.
	ID string `json:"id"`

	// Name is the display name of the entity.
	Name string `json:"name"`

	// LocalPresent indicates whether the entity exists in the local copy.
	LocalPresent bool `json:"local_present"`

	// RemotePresent indicates whether the entity exists in the remote store.
	RemotePresent bool `json:"remote_present"`

	// Mismatch describes each field that differs, e.g. "contactEmail: remote=a local=b".
	Mismatch []string `json:"mismatch"`

	// Metadata carries adapter-specific extras.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// InSync reports whether both sides hold the entity with no differing fields.
func (r Result) InSync() bool {
	return r.LocalPresent && r.RemotePresent && len(r.Mismatch) == 0
}

// Spec bundles an adapter with the keys to check and the index cache lifetime.
type Spec struct {
	Adapter Adapter

	// Keys are passed to the remote loader. Remote stores that cannot be
	// listed only return entities for these keys.
	Keys []string

	// CacheTTL is how long a built index is reused. Zero disables caching.
	CacheTTL time.Duration
}

// CacheKey identifies the index built for this spec.
func (s *Spec) CacheKey() string {
	keys := append([]string(nil), s.Keys...)
	sort.Strings(keys)
	return s.Adapter.Name() + "|" + strings.Join(keys, ",")
}

// Summary holds aggregate counts over a set of results.
type Summary struct {
	Total         int `json:"total"`
	MissingLocal  int `json:"missing_local"`
	MissingRemote int `json:"missing_remote"`
	Mismatches    int `json:"mismatches"`
}

// Report is a full reconciliation run.
type Report struct {
	Results []Result `json:"results"`
	Summary Summary  `json:"summary"`
}

// Summarize counts missing and mismatched entities.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if !r.LocalPresent {
			s.MissingLocal++
		}
		if !r.RemotePresent {
			s.MissingRemote++
		}
		if len(r.Mismatch) > 0 {
			s.Mismatches++
		}
	}
	return s
}
