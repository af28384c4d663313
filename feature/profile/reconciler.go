package profile

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RemoteStore is the remote profile store. It is authoritative for the contact
// fields only.
type RemoteStore interface {
	UpdateContact(ctx context.Context, identity string, c Contact) error
}

// Cache is the local single-record profile cache.
type Cache interface {
	// Load returns the cached record; ok is false when nothing is cached.
	Load(ctx context.Context) (rec Record, ok bool, err error)
	Save(ctx context.Context, rec Record) error
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// State is the edit-session state of a Reconciler.
type State int

const (
	Viewing State = iota
	Editing
	Committing
)

func (s State) String() string {
	switch s {
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	case Committing:
		return "committing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Reconciler owns the canonical profile record and the single edit session on
// it. Edits go to a working copy; Commit validates the copy, pushes the contact
// fields to the remote store and, once the store accepts them, promotes the copy
// to canonical and writes it to the cache.
//
// The mutex is not held across the remote call. Callers that race a commit see
// Committing and get an *InvalidStateError instead of queueing.
type Reconciler struct {
	remote RemoteStore
	cache  Cache
	clock  Clock
	logger *zap.Logger

	mu        sync.Mutex
	state     State
	canonical Record
	working   Record
}

// Load builds a Reconciler from the cached record, or from DefaultRecord when
// the cache is empty.
func Load(ctx context.Context, remote RemoteStore, cache Cache, logger *zap.Logger) (*Reconciler, error) {
	return LoadWithClock(ctx, remote, cache, logger, realClock{})
}

// LoadWithClock is Load with a custom clock (for testing).
func LoadWithClock(ctx context.Context, remote RemoteStore, cache Cache, logger *zap.Logger, clock Clock) (*Reconciler, error) {
	rec, ok, err := cache.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading cached profile: %w", err)
	}
	if ok {
		rec = Normalize(rec)
	} else {
		logger.Debug("No cached profile, starting from defaults")
		rec = DefaultRecord()
	}

	return &Reconciler{
		remote:    remote,
		cache:     cache,
		clock:     clock,
		logger:    logger,
		state:     Viewing,
		canonical: rec,
	}, nil
}

// State returns the current session state.
func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Current returns the working copy while a session is open and the canonical
// record otherwise.
func (r *Reconciler) Current() Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == Viewing {
		return r.canonical.Clone()
	}
	return r.working.Clone()
}

// Canonical returns the last committed record.
func (r *Reconciler) Canonical() Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.canonical.Clone()
}

// BeginEdit opens an edit session on a copy of the canonical record. Calling it
// with a session already open returns the existing working copy untouched.
func (r *Reconciler) BeginEdit() (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case Editing:
		return r.working.Clone(), nil
	case Committing:
		return Record{}, &InvalidStateError{Op: "begin edit", State: r.state}
	}

	r.working = r.canonical.Clone()
	r.state = Editing
	r.logger.Debug("Edit session opened", zap.String("identity", r.canonical.Identity))
	return r.working.Clone(), nil
}

// SetField sets one editable field of the working copy.
func (r *Reconciler) SetField(name, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != Editing {
		return &InvalidStateError{Op: "set " + name, State: r.state}
	}
	return set(&r.working, name, value)
}

// AddSkill appends a trimmed skill to the working copy. Blank and already
// present skills are ignored.
func (r *Reconciler) AddSkill(value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != Editing {
		return &InvalidStateError{Op: "add skill", State: r.state}
	}
	skill := strings.TrimSpace(value)
	if skill == "" || r.working.HasSkill(skill) {
		return nil
	}
	r.working.Skills = append(r.working.Skills, skill)
	return nil
}

// RemoveSkill removes a skill from the working copy by exact match.
func (r *Reconciler) RemoveSkill(value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != Editing {
		return &InvalidStateError{Op: "remove skill", State: r.state}
	}
	kept := r.working.Skills[:0:0]
	for _, s := range r.working.Skills {
		if s != value {
			kept = append(kept, s)
		}
	}
	r.working.Skills = kept
	return nil
}

// CancelEdit discards the working copy and closes the session.
func (r *Reconciler) CancelEdit() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != Editing {
		return &InvalidStateError{Op: "cancel edit", State: r.state}
	}
	r.working = Record{}
	r.state = Viewing
	r.logger.Debug("Edit session cancelled")
	return nil
}

// Commit validates the working copy and sends its contact fields to the remote
// store.
//
// A *ValidationError or *RemoteSyncError leaves the session open with the edits
// in place and the canonical record and cache untouched. On success the whole
// working copy, including the fields the remote store does not hold, becomes
// canonical with LastSyncedAt stamped, and is saved to the cache. A failing
// cache write does not undo the commit: the session is closed and a
// *CacheWriteError is returned alongside the committed record.
func (r *Reconciler) Commit(ctx context.Context) (Record, error) {
	r.mu.Lock()
	if r.state != Editing {
		st := r.state
		r.mu.Unlock()
		return Record{}, &InvalidStateError{Op: "commit", State: st}
	}
	r.state = Committing
	draft := r.working.Clone()
	r.mu.Unlock()

	if err := Validate(draft); err != nil {
		r.reopen()
		r.logger.Info("Profile commit rejected", zap.Error(err))
		return Record{}, err
	}

	if err := r.remote.UpdateContact(ctx, draft.Identity, draft.Contact()); err != nil {
		r.reopen()
		r.logger.Warn("Remote profile update failed",
			zap.String("identity", draft.Identity),
			zap.Error(err))
		return Record{}, &RemoteSyncError{Err: err}
	}

	draft.LastSyncedAt = r.clock.Now().UTC()

	// Still Committing, so this is the only writer of the cache.
	cacheErr := r.cache.Save(ctx, draft.Clone())

	r.mu.Lock()
	r.canonical = draft
	r.working = Record{}
	r.state = Viewing
	r.mu.Unlock()

	if cacheErr != nil {
		r.logger.Warn("Profile committed but cache write failed",
			zap.String("identity", draft.Identity),
			zap.Error(cacheErr))
		return draft.Clone(), &CacheWriteError{Err: cacheErr}
	}

	r.logger.Info("Profile committed",
		zap.String("identity", draft.Identity),
		zap.Time("last_synced_at", draft.LastSyncedAt))
	return draft.Clone(), nil
}

func (r *Reconciler) reopen() {
	r.mu.Lock()
	r.state = Editing
	r.mu.Unlock()
}

// Link ties a not yet linked profile to an identity and sets its role, then
// saves it to the cache. Both are immutable afterwards. The reconciler is
// Committing while the cache is written.
func (r *Reconciler) Link(ctx context.Context, identity string, role Role) (Record, error) {
	r.mu.Lock()
	if r.state != Viewing {
		state := r.state
		r.mu.Unlock()
		return Record{}, &InvalidStateError{Op: "link", State: state}
	}
	if r.canonical.Linked() {
		linked := r.canonical.Identity
		r.mu.Unlock()
		return Record{}, fmt.Errorf("%w: %s", ErrLinked, linked)
	}

	var verr ValidationError
	identity = strings.TrimSpace(identity)
	if identity == "" {
		verr.add(FieldIdentity, "must not be empty")
	}
	if !role.Valid() {
		verr.add(FieldRole, "must be client or freelancer")
	}
	if len(verr.Fields) > 0 {
		r.mu.Unlock()
		return Record{}, &verr
	}

	next := r.canonical.Clone()
	next.Identity = identity
	next.Role = role
	r.working = next.Clone()
	r.state = Committing
	r.mu.Unlock()

	err := r.cache.Save(ctx, next.Clone())

	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = Viewing
	if err != nil {
		return Record{}, &CacheWriteError{Err: err}
	}
	r.canonical = next
	r.logger.Info("Profile linked", zap.String("identity", identity), zap.String("role", string(role)))
	return next.Clone(), nil
}
