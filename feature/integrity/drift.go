package integrity

import (
	"context"
	"fmt"
	"time"

	"gig-profile/core/reconcile"
	"gig-profile/feature/profile"
	"gig-profile/feature/profile/remote"

	"go.uber.org/zap"
)

// UserFetcher reads accounts from the users API.
type UserFetcher interface {
	Fetch(ctx context.Context, identity string) (remote.User, bool, error)
}

// profileAdapter compares the cached profile with the users API account for the
// fields the API is authoritative for.
type profileAdapter struct {
	cache profile.Cache
	users UserFetcher
}

func (a *profileAdapter) Name() string {
	return "profile"
}

func (a *profileAdapter) LoadLocal(ctx context.Context) (map[string]reconcile.Item, error) {
	rec, ok, err := a.cache.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load cached profile: %w", err)
	}
	out := make(map[string]reconcile.Item, 1)
	if ok && rec.Linked() {
		out[rec.Identity] = rec
	}
	return out, nil
}

func (a *profileAdapter) LoadRemote(ctx context.Context, keys []string) (map[string]reconcile.Item, error) {
	out := make(map[string]reconcile.Item, len(keys))
	for _, key := range keys {
		u, found, err := a.users.Fetch(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch user %s: %w", key, err)
		}
		if found {
			out[key] = u
		}
	}
	return out, nil
}

func (a *profileAdapter) ResolveName(local, remoteItem reconcile.Item) string {
	if rec, ok := local.(profile.Record); ok && rec.DisplayName != "" {
		return rec.DisplayName
	}
	if u, ok := remoteItem.(remote.User); ok {
		return u.Name
	}
	return ""
}

func (a *profileAdapter) CompareFields(local, remoteItem reconcile.Item) []string {
	rec := local.(profile.Record)
	u := remoteItem.(remote.User)

	var out []string
	diff := func(field, remoteVal, localVal string) {
		if remoteVal != localVal {
			out = append(out, fmt.Sprintf("%s: remote=%s local=%s", field, remoteVal, localVal))
		}
	}
	diff(profile.FieldDisplayName, u.Name, rec.DisplayName)
	diff(profile.FieldContactEmail, u.Email, rec.ContactEmail)
	diff(profile.FieldContactPhone, u.WhatsappNumber, rec.ContactPhone)
	if u.Role != "" {
		diff(profile.FieldRole, u.Role, string(rec.Role))
	}
	return out
}

func (a *profileAdapter) Metadata(local, remoteItem reconcile.Item) map[string]string {
	md := map[string]string{}
	if rec, ok := local.(profile.Record); ok && !rec.LastSyncedAt.IsZero() {
		md["local_synced_at"] = rec.LastSyncedAt.UTC().Format(time.RFC3339)
	}
	if u, ok := remoteItem.(remote.User); ok {
		if !u.UpdatedAt.IsZero() {
			md["remote_updated_at"] = u.UpdatedAt.UTC().Format(time.RFC3339)
		}
		md["verified"] = fmt.Sprint(u.IsVerified)
	}
	return md
}

// DriftChecker reports how the cached profile differs from the users API. It
// never writes the cache.
type DriftChecker struct {
	adapter *profileAdapter
	logger  *zap.Logger
}

// NewDriftChecker creates a drift checker over cache and users.
func NewDriftChecker(cache profile.Cache, users UserFetcher, logger *zap.Logger) *DriftChecker {
	return &DriftChecker{
		adapter: &profileAdapter{cache: cache, users: users},
		logger:  logger,
	}
}

// Check compares the cached profile with the account for identity. An empty
// identity checks the identity the cache is linked to.
func (d *DriftChecker) Check(ctx context.Context, identity string) (*reconcile.Result, error) {
	if identity == "" {
		rec, ok, err := d.adapter.cache.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load cached profile: %w", err)
		}
		if !ok || !rec.Linked() {
			return nil, remote.ErrNotLinked
		}
		identity = rec.Identity
	}

	result, err := reconcile.ReconcileOne(ctx, &reconcile.Spec{Adapter: d.adapter}, identity)
	if err != nil {
		return nil, err
	}

	d.logger.Info("Profile drift checked",
		zap.String("identity", identity),
		zap.Bool("local_present", result.LocalPresent),
		zap.Bool("remote_present", result.RemotePresent),
		zap.Int("mismatches", len(result.Mismatch)))
	return result, nil
}
