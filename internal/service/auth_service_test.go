package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iqx/iqx-backend/internal/database/dbtest"
	"github.com/iqx/iqx-backend/internal/model"
	"github.com/iqx/iqx-backend/internal/queue"
	"github.com/iqx/iqx-backend/internal/repository"
	"github.com/iqx/iqx-backend/internal/utils"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type recordingSink struct {
	mu     sync.Mutex
	events []queue.UserRegisteredEvent
}

func (r *recordingSink) Dispatch(ev queue.UserRegisteredEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingSink) all() []queue.UserRegisteredEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]queue.UserRegisteredEvent(nil), r.events...)
}

type authFixture struct {
	svc   *AuthService
	users *repository.UserRepo
	sink  *recordingSink
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()
	users := repository.NewUserRepo(dbtest.New(t))
	codec, err := utils.NewTokenCodec("test-secret", "HS256", 30*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	sink := &recordingSink{}
	return authFixture{
		svc:   NewAuthService(users, codec, sink, bcrypt.MinCost, discard),
		users: users,
		sink:  sink,
	}
}

func (f authFixture) register(t *testing.T, email, password string) *model.User {
	t.Helper()
	u, err := f.svc.Register(context.Background(), RegisterInput{Email: email, FullName: "Test User", Password: password})
	require.NoError(t, err)
	return u
}

func TestRegisterStoresDigestAndDispatchesEvent(t *testing.T) {
	f := newAuthFixture(t)
	phone := " 0901234567 "

	u, err := f.svc.Register(context.Background(), RegisterInput{
		Email:    "  An@Example.COM ",
		FullName: "Nguyen An",
		Phone:    &phone,
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	assert.Equal(t, "an@example.com", u.Email)
	assert.Equal(t, model.RoleUser, u.Role)
	assert.True(t, u.IsActive)
	assert.False(t, u.Verified)
	require.NotNil(t, u.Phone)
	assert.Equal(t, "0901234567", *u.Phone)
	assert.NotEqual(t, "s3cret-pass", u.HashedPassword)
	assert.True(t, utils.VerifyPassword(u.HashedPassword, "s3cret-pass"))

	stored, err := f.users.GetByEmail(context.Background(), "an@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, u.ID, stored.ID)
	assert.NotContains(t, stored.HashedPassword, "s3cret-pass")

	events := f.sink.all()
	require.Len(t, events, 1)
	assert.Equal(t, u.ID.String(), events[0].UserID)
	assert.Equal(t, "an@example.com", events[0].Email)
	assert.Equal(t, "0901234567", events[0].Phone)
	assert.False(t, events[0].CreateDate.IsZero())
}

func TestRegisterRejectsDuplicateEmailIgnoringCase(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "dup@example.com", "password1")

	_, err := f.svc.Register(context.Background(), RegisterInput{Email: "DUP@example.com", FullName: "Other", Password: "password2"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Len(t, f.sink.all(), 1)
}

func TestRegisterRequiresFields(t *testing.T) {
	f := newAuthFixture(t)
	for _, in := range []RegisterInput{
		{FullName: "No Email", Password: "x"},
		{Email: "a@example.com", Password: "x"},
		{Email: "a@example.com", FullName: "No Password"},
	} {
		_, err := f.svc.Register(context.Background(), in)
		assert.ErrorIs(t, err, ErrValidation)
	}
	assert.Empty(t, f.sink.all())
}

func TestRegisterRejectsPasswordOverBcryptByteLimit(t *testing.T) {
	f := newAuthFixture(t)

	// 30 characters, 90 bytes.
	_, err := f.svc.Register(context.Background(), RegisterInput{
		Email:    "long@example.com",
		FullName: "Long Password",
		Password: strings.Repeat("ệ", 30),
	})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, f.sink.all())

	u, err := f.svc.Register(context.Background(), RegisterInput{
		Email:    "edge@example.com",
		FullName: "Edge",
		Password: strings.Repeat("ệ", 24),
	})
	require.NoError(t, err)
	assert.True(t, utils.VerifyPassword(u.HashedPassword, strings.Repeat("ệ", 24)))
}

func TestLoginIssuesTokenPair(t *testing.T) {
	f := newAuthFixture(t)
	u := f.register(t, "login@example.com", "password1")

	pair, err := f.svc.Login(context.Background(), "LOGIN@example.com", "password1")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.RefreshExpiresAt.After(pair.AccessExpiresAt))

	resolved, err := f.svc.ResolveUser(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, resolved.ID)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "known@example.com", "password1")

	_, unknownErr := f.svc.Login(context.Background(), "unknown@example.com", "password1")
	_, wrongErr := f.svc.Login(context.Background(), "known@example.com", "wrong")
	_, emptyErr := f.svc.Login(context.Background(), "known@example.com", "")

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	assert.ErrorIs(t, emptyErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestLoginRejectsInactiveAccountAfterPasswordCheck(t *testing.T) {
	f := newAuthFixture(t)
	u := f.register(t, "idle@example.com", "password1")

	inactive := false
	_, err := f.users.Update(context.Background(), u, model.UserPatch{IsActive: &inactive})
	require.NoError(t, err)

	_, err = f.svc.Login(context.Background(), "idle@example.com", "password1")
	assert.ErrorIs(t, err, ErrInactiveAccount)

	_, err = f.svc.Login(context.Background(), "idle@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshIssuesNewPair(t *testing.T) {
	f := newAuthFixture(t)
	u := f.register(t, "refresh@example.com", "password1")
	pair, err := f.svc.Login(context.Background(), "refresh@example.com", "password1")
	require.NoError(t, err)

	next, err := f.svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	resolved, err := f.svc.ResolveUser(context.Background(), next.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, resolved.ID)

	// The old refresh token keeps working until it expires.
	_, err = f.svc.Refresh(context.Background(), pair.RefreshToken)
	assert.NoError(t, err)
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "kinds@example.com", "password1")
	pair, err := f.svc.Login(context.Background(), "kinds@example.com", "password1")
	require.NoError(t, err)

	_, err = f.svc.Refresh(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, utils.ErrInvalidToken)

	_, err = f.svc.ResolveUser(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, utils.ErrInvalidToken)
}

func TestRefreshForDeletedUser(t *testing.T) {
	f := newAuthFixture(t)
	u := f.register(t, "gone@example.com", "password1")
	pair, err := f.svc.Login(context.Background(), "gone@example.com", "password1")
	require.NoError(t, err)

	_, err = f.users.Delete(context.Background(), u.ID)
	require.NoError(t, err)

	_, err = f.svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveUserRejectsExpiredToken(t *testing.T) {
	f := newAuthFixture(t)
	u := f.register(t, "old@example.com", "password1")

	past := f.svc.WithClock(func() time.Time { return time.Now().Add(-time.Hour) })
	pair, err := past.IssueTokenPair(u.ID)
	require.NoError(t, err)

	_, err = f.svc.ResolveUser(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, utils.ErrExpiredToken)

	// The refresh token issued at the same instant is still valid.
	_, err = f.svc.Refresh(context.Background(), pair.RefreshToken)
	assert.NoError(t, err)
}

func TestWithClockLeavesServiceUntouched(t *testing.T) {
	f := newAuthFixture(t)
	u := f.register(t, "clock@example.com", "password1")

	_ = f.svc.WithClock(func() time.Time { return time.Now().Add(-time.Hour) })
	pair, err := f.svc.IssueTokenPair(u.ID)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), pair.AccessExpiresAt, time.Minute)

	_, err = f.svc.ResolveUser(context.Background(), pair.AccessToken)
	assert.NoError(t, err)
}
