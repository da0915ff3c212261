package account

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/abhisek/studyaid/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := store.Open("file:" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	svc := NewService(s.UserRepo(), s.LibraryRepo(), s.ActivityRepo(), &BcryptHasher{Cost: bcrypt.MinCost}, "sesame")
	return svc, s
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "  Ada ", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "ada", u.Username)
	assert.NotEqual(t, "pw1", u.PasswordHash)

	_, err = svc.Register(ctx, "ADA", "other")
	assert.ErrorIs(t, err, ErrUserExists)

	got, err := svc.Authenticate(ctx, "ada", "pw1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Authenticate(ctx, "Ada", "wrong")
	assert.ErrorIs(t, err, ErrBadPassword)
	_, err = svc.Authenticate(ctx, "bob", "pw1")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRegister_InvalidInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "   ", "pw")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Register(ctx, "ada", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Register(ctx, "ada", strings.Repeat("x", 73))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, "ada", "old")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ChangePassword(ctx, "ada", "nope", "new"), ErrBadPassword)
	require.NoError(t, svc.ChangePassword(ctx, "ada", "old", "new"))

	_, err = svc.Authenticate(ctx, "ada", "old")
	assert.ErrorIs(t, err, ErrBadPassword)
	_, err = svc.Authenticate(ctx, "ada", "new")
	assert.NoError(t, err)
}

func TestDelete_RemovesData(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, "ada", "pw")
	require.NoError(t, err)

	require.NoError(t, s.LibraryRepo().ReplaceLibrary(ctx, "ada", store.UserLibrary{Notes: []store.NoteRow{{Title: "n"}}}))
	_, err = s.ActivityRepo().AppendActivity(ctx, store.ActivityRow{Username: "ada", Type: store.ActivityStudy})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, "ada", "bad"), ErrBadPassword)
	require.NoError(t, svc.Delete(ctx, "ADA", "pw"))

	_, err = svc.Authenticate(ctx, "ada", "pw")
	assert.ErrorIs(t, err, ErrUserNotFound)
	lib, err := s.LibraryRepo().LoadLibrary(ctx, "ada")
	require.NoError(t, err)
	assert.Empty(t, lib.Notes)
	acts, err := s.ActivityRepo().ListActivities(ctx, "ada", store.QueryOpts{})
	require.NoError(t, err)
	assert.Empty(t, acts)
}

func TestAdminOperations(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, "ada", "pw")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ResetPassword(ctx, "guess", "ada", "x"), ErrNotAdmin)
	assert.ErrorIs(t, svc.ResetPassword(ctx, "sesame", "bob", "x"), ErrUserNotFound)
	require.NoError(t, svc.ResetPassword(ctx, "sesame", "Ada", "reset"))
	_, err = svc.Authenticate(ctx, "ada", "reset")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteAccount(ctx, "", "ada"), ErrNotAdmin)
	require.NoError(t, svc.DeleteAccount(ctx, "sesame", "ada"))
	assert.ErrorIs(t, svc.DeleteAccount(ctx, "sesame", "ada"), ErrUserNotFound)
}

func TestAdminDisabledWithoutKey(t *testing.T) {
	svc, _ := newTestService(t)
	svc.adminKey = ""
	assert.ErrorIs(t, svc.DeleteAccount(context.Background(), "", "ada"), ErrNotAdmin)
}

func TestBcryptHasher(t *testing.T) {
	h := &BcryptHasher{Cost: bcrypt.MinCost}
	hash, err := h.Hash("secret")
	require.NoError(t, err)
	assert.True(t, h.Verify(hash, "secret"))
	assert.False(t, h.Verify(hash, "Secret"))
	assert.False(t, h.Verify("not-a-hash", "secret"))
}
