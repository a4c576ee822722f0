package usecase

import (
	"context"
	"testing"
	"time"

	"hradmin/common"
	"hradmin/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	byEmail  map[string]*domain.User
	byID     map[string]*domain.User
	password map[string]string
}

func (f *fakeUserRepo) FindByID(_ context.Context, userID string, _ *domain.FindOneOption) (*domain.User, error) {
	user, ok := f.byID[userID]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) FindOne(_ context.Context, filter *domain.UserFilter, _ *domain.FindOneOption) (*domain.User, error) {
	if filter != nil && filter.Email != nil {
		if user, ok := f.byEmail[*filter.Email]; ok {
			return user, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, userID string, hashed string) error {
	if f.password == nil {
		f.password = map[string]string{}
	}
	f.password[userID] = hashed
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]*domain.UserSession
	nextID   int
}

func (f *fakeSessionRepo) Create(_ context.Context, session *domain.UserSession) error {
	if f.sessions == nil {
		f.sessions = map[string]*domain.UserSession{}
	}
	f.nextID++
	session.ID = "session-" + string(rune('0'+f.nextID))
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessionRepo) FindByID(_ context.Context, sessionID string, _ *domain.FindOneOption) (*domain.UserSession, error) {
	session, ok := f.sessions[sessionID]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return session, nil
}

func (f *fakeSessionRepo) FindByRefreshToken(_ context.Context, token string, _ *domain.FindOneOption) (*domain.UserSession, error) {
	for _, session := range f.sessions {
		if session.RefreshToken == token && token != "" {
			return session, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (f *fakeSessionRepo) Update(_ context.Context, session *domain.UserSession) error {
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessionRepo) InvalidateRefreshToken(_ context.Context, sessionID string) error {
	f.sessions[sessionID].RefreshToken = ""
	return nil
}

func (f *fakeSessionRepo) Deactivate(_ context.Context, sessionID string) error {
	f.sessions[sessionID].Active = false
	return nil
}

type fakeTokens struct {
	counter int
}

func (f *fakeTokens) GenerateAccessToken(userID, sessionID string) (string, error) {
	return "access:" + userID + ":" + sessionID, nil
}

func (f *fakeTokens) GenerateRefreshToken() (string, error) {
	f.counter++
	return "refresh-" + string(rune('0'+f.counter)), nil
}

func (f *fakeTokens) RefreshTokenExpiresAt() time.Time {
	return time.Now().Add(24 * time.Hour)
}

type fakeResolver struct {
	set domain.PermissionSet
	err error
}

func (f *fakeResolver) ComputeEffectivePermissions(_ context.Context, _ *domain.User) (domain.PermissionSet, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.set, nil
}

func newTestUser(t *testing.T, hasher common.Hasher, password string) *domain.User {
	t.Helper()
	hashed, err := hasher.Hash(password)
	require.NoError(t, err)

	user := &domain.User{
		Email:    "alice@example.com",
		Username: "alice",
		Password: hashed,
		IsActive: true,
	}
	user.ID = "user-1"
	return user
}

func newAuthFixture(t *testing.T, resolver *fakeResolver) (domain.AuthUsecase, *fakeUserRepo, *fakeSessionRepo, *domain.User) {
	t.Helper()
	hasher := common.NewBcryptHasher()
	user := newTestUser(t, hasher, "correct-horse")

	userRepo := &fakeUserRepo{
		byEmail: map[string]*domain.User{user.Email: user},
		byID:    map[string]*domain.User{user.ID: user},
	}
	sessionRepo := &fakeSessionRepo{}
	if resolver == nil {
		resolver = &fakeResolver{set: domain.PermissionSet{domain.PermReadUser: true}}
	}

	uc := NewAuthUsecase(userRepo, sessionRepo, &fakeTokens{}, resolver, hasher)
	return uc, userRepo, sessionRepo, user
}

func TestLoginSuccess(t *testing.T) {
	uc, _, sessionRepo, user := newAuthFixture(t, nil)

	resp, err := uc.Login(context.Background(), &domain.LoginRequest{
		Email:    user.Email,
		Password: "correct-horse",
	}, &domain.SessionMeta{IPAddress: "10.0.0.1", UserAgent: "go-test"})
	require.NoError(t, err)

	assert.Equal(t, user.ID, resp.User.ID)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.True(t, resp.Permissions[domain.PermReadUser])

	require.Len(t, sessionRepo.sessions, 1)
	for _, session := range sessionRepo.sessions {
		assert.Equal(t, "10.0.0.1", session.IPAddress)
		assert.True(t, session.Active)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	uc, _, _, user := newAuthFixture(t, nil)

	_, err := uc.Login(context.Background(), &domain.LoginRequest{
		Email:    user.Email,
		Password: "wrong",
	}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	uc, _, _, _ := newAuthFixture(t, nil)

	_, err := uc.Login(context.Background(), &domain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "correct-horse",
	}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	uc, _, _, user := newAuthFixture(t, nil)
	user.IsActive = false

	_, err := uc.Login(context.Background(), &domain.LoginRequest{
		Email:    user.Email,
		Password: "correct-horse",
	}, nil)
	assert.ErrorIs(t, err, domain.ErrUserInactive)
}

func TestLoginWithoutGrantsStillSucceeds(t *testing.T) {
	uc, _, _, user := newAuthFixture(t, &fakeResolver{err: domain.ErrNoRoleAssigned})

	resp, err := uc.Login(context.Background(), &domain.LoginRequest{
		Email:    user.Email,
		Password: "correct-horse",
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, resp.Permissions.Granted())
}

func TestRefreshTokenRotates(t *testing.T) {
	uc, _, sessionRepo, user := newAuthFixture(t, nil)

	login, err := uc.Login(context.Background(), &domain.LoginRequest{
		Email:    user.Email,
		Password: "correct-horse",
	}, nil)
	require.NoError(t, err)

	refreshed, err := uc.RefreshToken(context.Background(), &domain.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	}, nil)
	require.NoError(t, err)

	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
	assert.Len(t, sessionRepo.sessions, 1)
}

func TestRefreshTokenSingleUse(t *testing.T) {
	uc, _, _, user := newAuthFixture(t, nil)

	login, err := uc.Login(context.Background(), &domain.LoginRequest{
		Email:    user.Email,
		Password: "correct-horse",
	}, nil)
	require.NoError(t, err)

	_, err = uc.RefreshToken(context.Background(), &domain.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	}, nil)
	require.NoError(t, err)

	// Redeeming the original token again must fail.
	_, err = uc.RefreshToken(context.Background(), &domain.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken)
}

func TestRefreshTokenEndedSession(t *testing.T) {
	uc, _, sessionRepo, user := newAuthFixture(t, nil)

	login, err := uc.Login(context.Background(), &domain.LoginRequest{
		Email:    user.Email,
		Password: "correct-horse",
	}, nil)
	require.NoError(t, err)

	for id := range sessionRepo.sessions {
		require.NoError(t, uc.Logout(context.Background(), id))
	}

	_, err = uc.RefreshToken(context.Background(), &domain.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken)
}

func TestLogoutIsIdempotent(t *testing.T) {
	uc, _, sessionRepo, user := newAuthFixture(t, nil)

	_, err := uc.Login(context.Background(), &domain.LoginRequest{
		Email:    user.Email,
		Password: "correct-horse",
	}, nil)
	require.NoError(t, err)

	var sessionID string
	for id := range sessionRepo.sessions {
		sessionID = id
	}

	require.NoError(t, uc.Logout(context.Background(), sessionID))
	require.NoError(t, uc.Logout(context.Background(), sessionID))
	require.NoError(t, uc.Logout(context.Background(), "unknown-session"))
}

func TestChangePassword(t *testing.T) {
	uc, userRepo, _, user := newAuthFixture(t, nil)

	t.Run("wrong current password", func(t *testing.T) {
		err := uc.ChangePassword(context.Background(), user, &domain.ChangePasswordRequest{
			CurrentPassword: "wrong",
			NewPassword:     "brand-new-secret",
		})
		assert.ErrorIs(t, err, domain.ErrWrongPassword)
	})

	t.Run("same password rejected", func(t *testing.T) {
		err := uc.ChangePassword(context.Background(), user, &domain.ChangePasswordRequest{
			CurrentPassword: "correct-horse",
			NewPassword:     "correct-horse",
		})
		assert.ErrorIs(t, err, domain.ErrSamePassword)
	})

	t.Run("success", func(t *testing.T) {
		err := uc.ChangePassword(context.Background(), user, &domain.ChangePasswordRequest{
			CurrentPassword: "correct-horse",
			NewPassword:     "brand-new-secret",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, userRepo.password[user.ID])
	})
}
