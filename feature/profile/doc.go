// Package profile reconciles a user's profile between an edit session, the
// remote profile store and the local cache.
//
// # Lifecycle
//
// A Reconciler starts in Viewing with the cached record (or DefaultRecord when
// nothing is cached). BeginEdit opens a session on a working copy; SetField,
// AddSkill and RemoveSkill change only that copy. CancelEdit throws it away.
// Commit moves to Committing, validates, and sends the contact fields
// (name, email, phone) to the RemoteStore. Only after the store accepts them is
// the full working copy promoted to canonical and written to the Cache.
//
//	Viewing --BeginEdit--> Editing --Commit--> Committing --ok--> Viewing
//	   ^                      |  ^                  |
//	   +------CancelEdit------+  +----failure-------+
//
// Skills, hourly rate, avatar and biography are local only: they are cached after
// a successful commit but never sent, so cache and remote may disagree on them.
//
// # Errors
//
//   - *InvalidStateError: operation not allowed in the current state (caller bug).
//   - *UnknownFieldError: SetField with a name outside EditableFields.
//   - *ValidationError: the draft breaks an invariant; Fields lists the offenders.
//   - *RemoteSyncError: the store rejected the update; the session stays open.
//   - *CacheWriteError: the commit happened but the cache could not be updated.
//
// Each matches its sentinel (ErrInvalidState, ...) with errors.Is.
package profile
