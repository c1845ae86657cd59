package application

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ericfisherdev/agendahub/internal/domain/model"
	"github.com/ericfisherdev/agendahub/internal/domain/port/driven"
)

func init() {
	// Keep hashing fast in tests.
	passwordHashCost = bcrypt.MinCost
}

func newSeededSessionService(t *testing.T) (*SessionService, *memKV, *fakeClock) {
	t.Helper()
	kv := newMemKV()
	require.NoError(t, Seed(context.Background(), kv, discardLogger()))

	clock := newFakeClock(testNow)
	svc := NewSessionService(kv, discardLogger())
	svc.now = clock.Now
	return svc, kv, clock
}

func storedSession(t *testing.T, kv *memKV) (model.Session, bool) {
	t.Helper()
	raw, ok := kv.raw(driven.KeySession)
	if !ok {
		return model.Session{}, false
	}
	var s model.Session
	require.NoError(t, json.Unmarshal([]byte(raw), &s))
	return s, true
}

func TestSeed_WritesDefaults(t *testing.T) {
	kv := newMemKV()
	require.NoError(t, Seed(context.Background(), kv, discardLogger()))

	raw, ok := kv.raw(driven.KeyUsers)
	require.True(t, ok)
	var users []model.User
	require.NoError(t, json.Unmarshal([]byte(raw), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "admin", users[0].Username)
	assert.Equal(t, model.RoleAdmin, users[0].Role)
	assert.Empty(t, users[0].Password, "plaintext must not be stored")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users[0].PasswordHash), []byte("admin321")))

	agendas, ok := kv.raw(driven.KeyAgendas)
	require.True(t, ok)
	assert.JSONEq(t, `[]`, agendas)
}

func TestSeed_KeepsExistingData(t *testing.T) {
	kv := newMemKV()
	kv.data[driven.KeyUsers] = []byte(`[{"username":"root","password":"toor","role":"admin"}]`)
	kv.data[driven.KeyAgendas] = []byte(`[{"id":"agenda_1"}]`)

	require.NoError(t, Seed(context.Background(), kv, discardLogger()))

	users, _ := kv.raw(driven.KeyUsers)
	assert.JSONEq(t, `[{"username":"root","password":"toor","role":"admin"}]`, users)
	agendas, _ := kv.raw(driven.KeyAgendas)
	assert.JSONEq(t, `[{"id":"agenda_1"}]`, agendas)
}

func TestSeed_StorageFailure(t *testing.T) {
	kv := newMemKV()
	kv.getErr = errors.New("disk unavailable")
	assert.Error(t, Seed(context.Background(), kv, discardLogger()))
}

func TestSessionService_LoginWithSeededCredentials(t *testing.T) {
	svc, kv, _ := newSeededSessionService(t)
	ctx := context.Background()

	session, err := svc.Login(ctx, "admin", "admin321")
	require.NoError(t, err)
	require.NotNil(t, session)

	assert.Equal(t, "admin", session.Username)
	assert.Equal(t, testNow, session.LoginTime)
	assert.Equal(t, 24*time.Hour, session.ExpiresAt.Sub(session.LoginTime))
	assert.NotEmpty(t, session.Token)

	stored, ok := storedSession(t, kv)
	require.True(t, ok)
	assert.Equal(t, session.Token, stored.Token)

	assert.True(t, svc.IsAuthenticated(ctx))
	assert.Equal(t, "admin", svc.CurrentUser(ctx))
}

func TestSessionService_LoginRejectsOtherPairs(t *testing.T) {
	pairs := []struct{ username, password string }{
		{"admin", "wrong"},
		{"Admin", "admin321"},
		{"nobody", "admin321"},
		{"", ""},
		{"admin", ""},
	}

	for _, p := range pairs {
		t.Run(p.username+":"+p.password, func(t *testing.T) {
			svc, kv, _ := newSeededSessionService(t)
			ctx := context.Background()

			session, err := svc.Login(ctx, p.username, p.password)
			assert.Nil(t, session)
			assert.ErrorIs(t, err, model.ErrInvalidCredentials)

			_, ok := storedSession(t, kv)
			assert.False(t, ok, "no session may be created")
			assert.False(t, svc.IsAuthenticated(ctx))
		})
	}
}

func TestSessionService_LoginAcceptsLegacyPlaintext(t *testing.T) {
	kv := newMemKV()
	kv.data[driven.KeyUsers] = []byte(`[{"username":"admin","password":"admin321","role":"admin"}]`)
	svc := NewSessionService(kv, discardLogger())

	_, err := svc.Login(context.Background(), "admin", "admin321")
	assert.NoError(t, err)

	_, err = svc.Login(context.Background(), "admin", "admin322")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestSessionService_LoginWithoutUsers(t *testing.T) {
	svc := NewSessionService(newMemKV(), discardLogger())

	_, err := svc.Login(context.Background(), "admin", "admin321")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestSessionService_LoginWriteFailure(t *testing.T) {
	svc, kv, _ := newSeededSessionService(t)
	kv.setErr = errQuotaExceeded

	session, err := svc.Login(context.Background(), "admin", "admin321")
	assert.Nil(t, session)
	assert.ErrorIs(t, err, errQuotaExceeded)
}

func TestSessionService_ExpiryLogsOut(t *testing.T) {
	svc, kv, clock := newSeededSessionService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "admin", "admin321")
	require.NoError(t, err)

	clock.Advance(24 * time.Hour)
	assert.True(t, svc.IsAuthenticated(ctx), "still valid exactly at expiry")

	clock.Advance(time.Second)
	assert.False(t, svc.IsAuthenticated(ctx))

	_, ok := storedSession(t, kv)
	assert.False(t, ok, "expired session must be purged")
	assert.Equal(t, "", svc.CurrentUser(ctx))
}

func TestSessionService_MalformedSessionIsPurged(t *testing.T) {
	tests := map[string]string{
		"not json":         `{"username":`,
		"missing username": `{"loginTime":"2025-03-01T08:00:00Z","expiresAt":"2025-03-02T08:00:00Z"}`,
		"missing expiry":   `{"username":"admin"}`,
		"bad timestamp":    `{"username":"admin","expiresAt":"tomorrow"}`,
	}

	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			svc, kv, _ := newSeededSessionService(t)
			kv.data[driven.KeySession] = []byte(raw)

			assert.False(t, svc.IsAuthenticated(context.Background()))
			_, ok := kv.raw(driven.KeySession)
			assert.False(t, ok)
		})
	}
}

func TestSessionService_LogoutIsIdempotent(t *testing.T) {
	svc, kv, _ := newSeededSessionService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "admin", "admin321")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx))
	require.NoError(t, svc.Logout(ctx))

	_, ok := storedSession(t, kv)
	assert.False(t, ok)
	assert.False(t, svc.IsAuthenticated(ctx))
}

func TestSessionService_Authenticate(t *testing.T) {
	svc, _, clock := newSeededSessionService(t)
	ctx := context.Background()

	session, err := svc.Login(ctx, "admin", "admin321")
	require.NoError(t, err)

	got, ok := svc.Authenticate(ctx, session.Token)
	require.True(t, ok)
	assert.Equal(t, "admin", got.Username)

	_, ok = svc.Authenticate(ctx, "some-other-token")
	assert.False(t, ok)

	_, ok = svc.Authenticate(ctx, "")
	assert.False(t, ok)

	clock.Advance(25 * time.Hour)
	_, ok = svc.Authenticate(ctx, session.Token)
	assert.False(t, ok)
}

func TestSessionService_SecondLoginReplacesSession(t *testing.T) {
	svc, _, _ := newSeededSessionService(t)
	ctx := context.Background()

	first, err := svc.Login(ctx, "admin", "admin321")
	require.NoError(t, err)
	second, err := svc.Login(ctx, "admin", "admin321")
	require.NoError(t, err)

	_, ok := svc.Authenticate(ctx, first.Token)
	assert.False(t, ok)
	_, ok = svc.Authenticate(ctx, second.Token)
	assert.True(t, ok)
}

func TestSessionService_LifetimeIsTwentyFourHours(t *testing.T) {
	svc, kv, clock := newSeededSessionService(t)
	ctx := context.Background()

	session, err := svc.Login(ctx, "admin", "admin321")
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, session.ExpiresAt.Sub(session.LoginTime))

	stored, ok := storedSession(t, kv)
	require.True(t, ok)
	assert.Equal(t, session.ExpiresAt, stored.ExpiresAt)

	clock.Advance(24 * time.Hour)
	assert.True(t, svc.IsAuthenticated(ctx), "valid up to and including expiresAt")
	clock.Advance(time.Nanosecond)
	assert.False(t, svc.IsAuthenticated(ctx))
}

func TestSessionService_SetPassword(t *testing.T) {
	svc, _, _ := newSeededSessionService(t)
	ctx := context.Background()

	require.NoError(t, svc.SetPassword(ctx, "admin", "n3w-secret"))

	_, err := svc.Login(ctx, "admin", "admin321")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "admin", "n3w-secret")
	assert.NoError(t, err)
}

func TestSessionService_SetPasswordCreatesUser(t *testing.T) {
	svc, kv, _ := newSeededSessionService(t)
	ctx := context.Background()

	require.NoError(t, svc.SetPassword(ctx, "editor", "pa55"))

	raw, _ := kv.raw(driven.KeyUsers)
	var users []model.User
	require.NoError(t, json.Unmarshal([]byte(raw), &users))
	assert.Len(t, users, 2)

	_, err := svc.Login(ctx, "editor", "pa55")
	assert.NoError(t, err)
}

func TestSessionService_SetPasswordRejectsEmpty(t *testing.T) {
	svc, _, _ := newSeededSessionService(t)

	assert.Error(t, svc.SetPassword(context.Background(), "admin", ""))
	assert.Error(t, svc.SetPassword(context.Background(), "", "secret"))
}
