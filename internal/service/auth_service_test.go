package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"workasana/internal/model"
	"workasana/internal/token"
)

type fakeUserStore struct {
	byID    map[string]model.User
	byEmail map[string]model.User

	// createErr overrides Create to simulate the store-level unique
	// constraint winning a signup race.
	createErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byID:    map[string]model.User{},
		byEmail: map[string]model.User{},
	}
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeUserStore) Create(_ context.Context, u model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return model.ErrEmailTaken
	}
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return nil
}

func newAuthService(store *fakeUserStore) (*AuthService, *token.Codec) {
	codec := token.NewCodec("service-test-secret", time.Hour)
	return NewAuthService(store, codec), codec
}

func TestSignupIssuesVerifiableToken(t *testing.T) {
	store := newFakeUserStore()
	svc, codec := newAuthService(store)

	resp, err := svc.Signup(context.Background(), "Dana", "dana@example.com", "hunter2!")
	require.NoError(t, err)

	claims, err := codec.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "dana@example.com", claims.Email)
	assert.Equal(t, "Dana", claims.Name)

	// The stored record carries a hash, not the password.
	stored := store.byID[resp.User.ID]
	assert.NotEqual(t, "hunter2!", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("hunter2!")))
}

func TestSignupTrimsAndRejectsBlankFields(t *testing.T) {
	store := newFakeUserStore()
	svc, _ := newAuthService(store)

	cases := []struct{ name, email, password string }{
		{"", "a@x.com", "pw"},
		{"   ", "a@x.com", "pw"},
		{"A", "", "pw"},
		{"A", "a@x.com", ""},
	}
	for _, tc := range cases {
		_, err := svc.Signup(context.Background(), tc.name, tc.email, tc.password)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	}

	resp, err := svc.Signup(context.Background(), "  Dana ", " dana@example.com ", "pw")
	require.NoError(t, err)
	assert.Equal(t, "Dana", resp.User.Name)
	assert.Equal(t, "dana@example.com", resp.User.Email)
}

func TestSignupDuplicateEmail(t *testing.T) {
	store := newFakeUserStore()
	svc, _ := newAuthService(store)

	_, err := svc.Signup(context.Background(), "Dana", "dana@example.com", "pw")
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), "Other", "dana@example.com", "pw2")
	assert.ErrorIs(t, err, model.ErrEmailTaken)
}

func TestSignupRaceSurfacesEmailTaken(t *testing.T) {
	// The pre-check passes but the insert loses to a concurrent
	// signup; the constraint violation maps to the same error.
	store := newFakeUserStore()
	store.createErr = model.ErrEmailTaken
	svc, _ := newAuthService(store)

	_, err := svc.Signup(context.Background(), "Dana", "dana@example.com", "pw")
	assert.ErrorIs(t, err, model.ErrEmailTaken)
}

func TestLoginUniformFailure(t *testing.T) {
	store := newFakeUserStore()
	svc, _ := newAuthService(store)

	_, err := svc.Signup(context.Background(), "Dana", "dana@example.com", "correct")
	require.NoError(t, err)

	// Wrong password and unknown email are indistinguishable.
	_, wrongPW := svc.Login(context.Background(), "dana@example.com", "incorrect")
	_, noUser := svc.Login(context.Background(), "nobody@example.com", "correct")
	assert.ErrorIs(t, wrongPW, model.ErrInvalidCredentials)
	assert.ErrorIs(t, noUser, model.ErrInvalidCredentials)
	assert.Equal(t, wrongPW, noUser)
}

func TestLoginSuccess(t *testing.T) {
	store := newFakeUserStore()
	svc, codec := newAuthService(store)

	signup, err := svc.Signup(context.Background(), "Dana", "dana@example.com", "correct")
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), "dana@example.com", "correct")
	require.NoError(t, err)
	assert.Equal(t, signup.User, login.User)

	claims, err := codec.Verify(login.Token)
	require.NoError(t, err)
	assert.Equal(t, signup.User.ID, claims.UserID)
}

func TestCurrentUserDeletedAccount(t *testing.T) {
	store := newFakeUserStore()
	svc, codec := newAuthService(store)

	resp, err := svc.Signup(context.Background(), "Dana", "dana@example.com", "pw")
	require.NoError(t, err)

	claims, err := codec.Verify(resp.Token)
	require.NoError(t, err)

	got, err := svc.CurrentUser(context.Background(), claims)
	require.NoError(t, err)
	assert.Equal(t, resp.User, got)

	delete(store.byID, resp.User.ID)
	_, err = svc.CurrentUser(context.Background(), claims)
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}
