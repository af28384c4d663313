package profile

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRemote struct {
	mock.Mock
}

func (m *mockRemote) UpdateContact(ctx context.Context, identity string, c Contact) error {
	args := m.Called(ctx, identity, c)
	return args.Error(0)
}

// memCache is an in-package cache double that counts writes.
type memCache struct {
	mu      sync.Mutex
	rec     *Record
	saves   int
	saveErr error
	loadErr error
}

func (c *memCache) Load(ctx context.Context) (Record, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loadErr != nil {
		return Record{}, false, c.loadErr
	}
	if c.rec == nil {
		return Record{}, false, nil
	}
	return c.rec.Clone(), true, nil
}

func (c *memCache) Save(ctx context.Context, rec Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saves++
	if c.saveErr != nil {
		return c.saveErr
	}
	cp := rec.Clone()
	c.rec = &cp
	return nil
}

func (c *memCache) stored() *Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rec == nil {
		return nil
	}
	cp := c.rec.Clone()
	return &cp
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var commitTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func linkedRecord() Record {
	rec := DefaultRecord()
	rec.Identity = "0xA11CE"
	rec.DisplayName = "Alice"
	rec.ContactEmail = "alice@example.com"
	rec.Role = RoleFreelancer
	rec.Skills = []string{"Go"}
	rec.HourlyRate = "80"
	return rec
}

func setup(t *testing.T, cached *Record) (*Reconciler, *mockRemote, *memCache) {
	t.Helper()
	remote := new(mockRemote)
	cache := &memCache{}
	if cached != nil {
		cp := cached.Clone()
		cache.rec = &cp
	}
	r, err := LoadWithClock(context.Background(), remote, cache, zap.NewNop(), fixedClock{commitTime})
	require.NoError(t, err)
	return r, remote, cache
}

func TestLoad(t *testing.T) {
	t.Run("Empty cache yields defaults", func(t *testing.T) {
		r, _, _ := setup(t, nil)
		assert.Equal(t, Viewing, r.State())
		assert.Equal(t, DefaultRecord(), r.Canonical())
	})

	t.Run("Cached record is normalized", func(t *testing.T) {
		cached := Record{Identity: "0xB0B", Skills: []string{" Go ", "Go", ""}}
		r, _, _ := setup(t, &cached)

		got := r.Canonical()
		assert.Equal(t, "0xB0B", got.Identity)
		assert.Equal(t, RoleClient, got.Role)
		assert.Equal(t, AvatarTokens()[0], got.AvatarToken)
		assert.Equal(t, []string{"Go"}, got.Skills)
	})

	t.Run("Unknown role and avatar fall back to defaults", func(t *testing.T) {
		cached := Record{Identity: "0xB0B", Role: "admin", AvatarToken: "x"}
		r, remote, cache := setup(t, &cached)

		got := r.Canonical()
		assert.Equal(t, RoleClient, got.Role)
		assert.Equal(t, AvatarTokens()[0], got.AvatarToken)

		remote.On("UpdateContact", mock.Anything, "0xB0B", mock.Anything).Return(nil).Once()
		_, err := r.BeginEdit()
		require.NoError(t, err)
		require.NoError(t, r.SetField(FieldDisplayName, "Bob"))
		committed, err := r.Commit(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Bob", committed.DisplayName)
		assert.Equal(t, RoleClient, cache.stored().Role)
		remote.AssertExpectations(t)
	})

	t.Run("Cache failure", func(t *testing.T) {
		cache := &memCache{loadErr: errors.New("disk gone")}
		r, err := Load(context.Background(), new(mockRemote), cache, zap.NewNop())
		assert.ErrorContains(t, err, "disk gone")
		assert.Nil(t, r)
	})
}

func TestSetField_TrimsHourlyRate(t *testing.T) {
	rec := linkedRecord()
	r, remote, cache := setup(t, &rec)
	remote.On("UpdateContact", mock.Anything, rec.Identity, mock.Anything).Return(nil).Once()

	_, err := r.BeginEdit()
	require.NoError(t, err)
	require.NoError(t, r.SetField(FieldHourlyRate, " 12 "))
	assert.Equal(t, "12", r.Current().HourlyRate)

	committed, err := r.Commit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "12", committed.HourlyRate)
	assert.Equal(t, "12", cache.stored().HourlyRate)
}

func TestSetField_OnlyTouchesWorkingCopy(t *testing.T) {
	rec := linkedRecord()
	r, _, _ := setup(t, &rec)

	_, err := r.BeginEdit()
	require.NoError(t, err)

	for _, name := range EditableFields() {
		require.NoError(t, r.SetField(name, "edited-"+name))
	}

	assert.Equal(t, rec, r.Canonical())
	cur := r.Current()
	assert.Equal(t, "edited-displayName", cur.DisplayName)
	assert.Equal(t, "edited-contactEmail", cur.ContactEmail)
	assert.Equal(t, "edited-contactPhone", cur.ContactPhone)
	assert.Equal(t, "edited-biography", cur.Biography)
	assert.Equal(t, "edited-avatarToken", cur.AvatarToken)
	assert.Equal(t, "edited-hourlyRate", cur.HourlyRate)
}

func TestSetField_UnknownField(t *testing.T) {
	r, _, _ := setup(t, nil)
	_, err := r.BeginEdit()
	require.NoError(t, err)

	for _, name := range []string{"identity", "role", "skills", "lastSyncedAt", "nickname"} {
		err := r.SetField(name, "x")
		var ufe *UnknownFieldError
		require.ErrorAs(t, err, &ufe, name)
		assert.Equal(t, name, ufe.Field)
		assert.ErrorIs(t, err, ErrUnknownField)
	}
}

func TestOperations_RequireEditing(t *testing.T) {
	r, _, _ := setup(t, nil)

	ops := map[string]func() error{
		"SetField":    func() error { return r.SetField(FieldDisplayName, "x") },
		"AddSkill":    func() error { return r.AddSkill("Go") },
		"RemoveSkill": func() error { return r.RemoveSkill("Go") },
		"CancelEdit":  r.CancelEdit,
		"Commit": func() error {
			_, err := r.Commit(context.Background())
			return err
		},
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			err := op()
			var ise *InvalidStateError
			require.ErrorAs(t, err, &ise)
			assert.Equal(t, Viewing, ise.State)
			assert.ErrorIs(t, err, ErrInvalidState)
		})
	}
}

func TestBeginEdit_WhileEditingKeepsEdits(t *testing.T) {
	r, _, _ := setup(t, nil)

	_, err := r.BeginEdit()
	require.NoError(t, err)
	require.NoError(t, r.SetField(FieldDisplayName, "Ada"))

	again, err := r.BeginEdit()
	require.NoError(t, err)
	assert.Equal(t, "Ada", again.DisplayName)
	assert.Equal(t, Editing, r.State())
}

func TestAddSkill(t *testing.T) {
	r, _, _ := setup(t, nil)
	_, err := r.BeginEdit()
	require.NoError(t, err)

	require.NoError(t, r.AddSkill(""))
	require.NoError(t, r.AddSkill("   "))
	assert.Empty(t, r.Current().Skills)

	require.NoError(t, r.AddSkill("React"))
	require.NoError(t, r.AddSkill("React"))
	require.NoError(t, r.AddSkill("  React  "))
	require.NoError(t, r.AddSkill(" Solidity"))
	require.NoError(t, r.AddSkill("Go"))

	assert.Equal(t, []string{"React", "Solidity", "Go"}, r.Current().Skills)
}

func TestRemoveSkill(t *testing.T) {
	rec := linkedRecord()
	rec.Skills = []string{"Go", "Rust", "React"}
	r, _, _ := setup(t, &rec)
	_, err := r.BeginEdit()
	require.NoError(t, err)

	require.NoError(t, r.RemoveSkill("rust"))
	assert.Equal(t, []string{"Go", "Rust", "React"}, r.Current().Skills)

	require.NoError(t, r.RemoveSkill("Rust"))
	assert.Equal(t, []string{"Go", "React"}, r.Current().Skills)
	assert.Equal(t, []string{"Go", "Rust", "React"}, r.Canonical().Skills)
}

func TestCancelEdit_RestoresSnapshot(t *testing.T) {
	rec := linkedRecord()
	r, remote, cache := setup(t, &rec)
	before := r.Current()

	_, err := r.BeginEdit()
	require.NoError(t, err)
	require.NoError(t, r.SetField(FieldDisplayName, "Mallory"))
	require.NoError(t, r.SetField(FieldHourlyRate, "-5"))
	require.NoError(t, r.AddSkill("Haskell"))
	require.NoError(t, r.RemoveSkill("Go"))

	require.NoError(t, r.CancelEdit())

	assert.Equal(t, Viewing, r.State())
	assert.Equal(t, before, r.Current())
	assert.Equal(t, before, r.Canonical())
	assert.Zero(t, cache.saves)
	remote.AssertNotCalled(t, "UpdateContact", mock.Anything, mock.Anything, mock.Anything)
}

func TestCommit_ValidationFailure(t *testing.T) {
	rec := linkedRecord()
	r, remote, cache := setup(t, &rec)

	_, err := r.BeginEdit()
	require.NoError(t, err)
	require.NoError(t, r.SetField(FieldHourlyRate, "-1"))

	_, err = r.Commit(context.Background())

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{FieldHourlyRate}, verr.Fields)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, Editing, r.State())
	assert.Equal(t, "-1", r.Current().HourlyRate)
	assert.Equal(t, rec, r.Canonical())
	assert.Equal(t, &rec, cache.stored())
	assert.Zero(t, cache.saves)
	remote.AssertNotCalled(t, "UpdateContact", mock.Anything, mock.Anything, mock.Anything)
}

func TestCommit_ValidationListsEveryField(t *testing.T) {
	r, _, _ := setup(t, nil)
	_, err := r.BeginEdit()
	require.NoError(t, err)
	require.NoError(t, r.SetField(FieldAvatarToken, "🐙"))
	require.NoError(t, r.SetField(FieldHourlyRate, "cheap"))

	_, err = r.Commit(context.Background())

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{FieldAvatarToken, FieldHourlyRate}, verr.Fields)
	assert.Contains(t, err.Error(), "hourlyRate: must be a number")
}

func TestCommit_EndToEnd(t *testing.T) {
	r, remote, cache := setup(t, nil)
	remote.On("UpdateContact", mock.Anything, "", Contact{Name: "Ada"}).Return(nil)

	_, err := r.BeginEdit()
	require.NoError(t, err)
	require.NoError(t, r.SetField(FieldDisplayName, "Ada"))
	require.NoError(t, r.AddSkill("Rust"))

	committed, err := r.Commit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Viewing, r.State())
	assert.Equal(t, "Ada", committed.DisplayName)
	assert.Equal(t, []string{"Rust"}, committed.Skills)
	assert.Equal(t, commitTime, committed.LastSyncedAt)
	assert.Equal(t, committed, r.Canonical())
	assert.Equal(t, &committed, cache.stored())
	remote.AssertExpectations(t)
}

func TestCommit_SendsOnlyContactFields(t *testing.T) {
	rec := linkedRecord()
	r, remote, cache := setup(t, &rec)
	want := Contact{Name: "Alice L.", Email: "alice@example.com", WhatsappNumber: "+15550100"}
	remote.On("UpdateContact", mock.Anything, "0xA11CE", want).Return(nil)

	_, err := r.BeginEdit()
	require.NoError(t, err)
	require.NoError(t, r.SetField(FieldDisplayName, "Alice L."))
	require.NoError(t, r.SetField(FieldContactPhone, "+15550100"))
	require.NoError(t, r.SetField(FieldBiography, "Smart contracts"))
	require.NoError(t, r.SetField(FieldHourlyRate, "95.5"))

	_, err = r.Commit(context.Background())
	require.NoError(t, err)
	remote.AssertExpectations(t)

	// Local-only fields still land in the cache.
	stored := cache.stored()
	require.NotNil(t, stored)
	assert.Equal(t, "Smart contracts", stored.Biography)
	assert.Equal(t, "95.5", stored.HourlyRate)
	assert.Equal(t, RoleFreelancer, stored.Role)
}

func TestCommit_RemoteFailure(t *testing.T) {
	rec := linkedRecord()
	r, remote, cache := setup(t, &rec)
	remote.On("UpdateContact", mock.Anything, "0xA11CE", mock.Anything).Return(errors.New("status 500"))

	_, err := r.BeginEdit()
	require.NoError(t, err)
	require.NoError(t, r.SetField(FieldContactEmail, "new@example.com"))
	require.NoError(t, r.AddSkill("Rust"))

	_, err = r.Commit(context.Background())

	var rse *RemoteSyncError
	require.ErrorAs(t, err, &rse)
	assert.ErrorIs(t, err, ErrRemoteSync)
	assert.NotErrorIs(t, err, ErrCacheWrite)
	assert.ErrorContains(t, err, "status 500")

	assert.Equal(t, Editing, r.State())
	assert.Equal(t, "new@example.com", r.Current().ContactEmail)
	assert.Equal(t, []string{"Go", "Rust"}, r.Current().Skills)
	assert.Equal(t, rec, r.Canonical())
	assert.Equal(t, &rec, cache.stored())
	assert.Zero(t, cache.saves)

	// Edits survive, so a retry can succeed.
	remote.ExpectedCalls = nil
	remote.On("UpdateContact", mock.Anything, "0xA11CE", mock.Anything).Return(nil)
	committed, err := r.Commit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", committed.ContactEmail)
}

func TestCommit_CacheWriteFailureIsNotFatal(t *testing.T) {
	rec := linkedRecord()
	r, remote, cache := setup(t, &rec)
	cache.saveErr = errors.New("quota exceeded")
	remote.On("UpdateContact", mock.Anything, "0xA11CE", mock.Anything).Return(nil)

	_, err := r.BeginEdit()
	require.NoError(t, err)
	require.NoError(t, r.SetField(FieldDisplayName, "Alice Liddell"))

	committed, err := r.Commit(context.Background())

	var cwe *CacheWriteError
	require.ErrorAs(t, err, &cwe)
	assert.ErrorIs(t, err, ErrCacheWrite)
	assert.NotErrorIs(t, err, ErrRemoteSync)
	assert.Equal(t, Viewing, r.State())
	assert.Equal(t, "Alice Liddell", committed.DisplayName)
	assert.Equal(t, committed, r.Canonical())
	assert.Equal(t, commitTime, r.Canonical().LastSyncedAt)
}

// blockingRemote holds UpdateContact until released so the Committing window can
// be observed.
type blockingRemote struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingRemote) UpdateContact(ctx context.Context, identity string, c Contact) error {
	close(b.entered)
	<-b.release
	return nil
}

func TestCommit_RejectsOperationsWhileCommitting(t *testing.T) {
	remote := &blockingRemote{entered: make(chan struct{}), release: make(chan struct{})}
	r, err := LoadWithClock(context.Background(), remote, &memCache{}, zap.NewNop(), fixedClock{commitTime})
	require.NoError(t, err)

	_, err = r.BeginEdit()
	require.NoError(t, err)
	require.NoError(t, r.SetField(FieldDisplayName, "Ada"))

	done := make(chan error, 1)
	go func() {
		_, err := r.Commit(context.Background())
		done <- err
	}()
	<-remote.entered

	assert.Equal(t, Committing, r.State())
	assert.Equal(t, "Ada", r.Current().DisplayName)
	_, err = r.BeginEdit()
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.ErrorIs(t, r.SetField(FieldDisplayName, "Eve"), ErrInvalidState)
	assert.ErrorIs(t, r.AddSkill("Go"), ErrInvalidState)
	assert.ErrorIs(t, r.RemoveSkill("Go"), ErrInvalidState)
	assert.ErrorIs(t, r.CancelEdit(), ErrInvalidState)
	_, err = r.Commit(context.Background())
	assert.ErrorIs(t, err, ErrInvalidState)

	close(remote.release)
	require.NoError(t, <-done)
	assert.Equal(t, Viewing, r.State())
	assert.Equal(t, "Ada", r.Canonical().DisplayName)
}

func TestLink(t *testing.T) {
	t.Run("Links and caches", func(t *testing.T) {
		r, _, cache := setup(t, nil)

		rec, err := r.Link(context.Background(), "  0xC0FFEE ", RoleFreelancer)
		require.NoError(t, err)
		assert.Equal(t, "0xC0FFEE", rec.Identity)
		assert.Equal(t, RoleFreelancer, rec.Role)
		assert.Equal(t, &rec, cache.stored())
	})

	t.Run("Identity is immutable", func(t *testing.T) {
		rec := linkedRecord()
		r, _, _ := setup(t, &rec)

		_, err := r.Link(context.Background(), "0xOTHER", RoleClient)
		assert.ErrorIs(t, err, ErrLinked)
		assert.Equal(t, "0xA11CE", r.Canonical().Identity)
	})

	t.Run("Validates input", func(t *testing.T) {
		r, _, cache := setup(t, nil)

		_, err := r.Link(context.Background(), " ", "admin")
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{FieldIdentity, FieldRole}, verr.Fields)
		assert.Zero(t, cache.saves)
	})

	t.Run("Not while editing", func(t *testing.T) {
		r, _, _ := setup(t, nil)
		_, err := r.BeginEdit()
		require.NoError(t, err)

		_, err = r.Link(context.Background(), "0xC0FFEE", RoleClient)
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("Cache failure leaves record unlinked", func(t *testing.T) {
		r, _, cache := setup(t, nil)
		cache.saveErr = errors.New("read-only")

		_, err := r.Link(context.Background(), "0xC0FFEE", RoleClient)
		assert.ErrorIs(t, err, ErrCacheWrite)
		assert.False(t, r.Canonical().Linked())
		assert.Equal(t, Viewing, r.State())
	})
}

// blockingCache holds Save until released.
type blockingCache struct {
	memCache
	entered chan struct{}
	release chan struct{}
}

func (b *blockingCache) Save(ctx context.Context, rec Record) error {
	close(b.entered)
	<-b.release
	return b.memCache.Save(ctx, rec)
}

func TestLink_CacheWriteDoesNotHoldLock(t *testing.T) {
	cache := &blockingCache{entered: make(chan struct{}), release: make(chan struct{})}
	r, err := LoadWithClock(context.Background(), new(mockRemote), cache, zap.NewNop(), fixedClock{commitTime})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := r.Link(context.Background(), "0xC0FFEE", RoleFreelancer)
		done <- err
	}()
	<-cache.entered

	assert.Equal(t, Committing, r.State())
	assert.Equal(t, "0xC0FFEE", r.Current().Identity)
	assert.False(t, r.Canonical().Linked())
	_, err = r.BeginEdit()
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = r.Link(context.Background(), "0xOTHER", RoleClient)
	assert.ErrorIs(t, err, ErrInvalidState)

	close(cache.release)
	require.NoError(t, <-done)
	assert.Equal(t, Viewing, r.State())
	assert.Equal(t, "0xC0FFEE", r.Canonical().Identity)
	assert.Equal(t, "0xC0FFEE", cache.stored().Identity)
}
