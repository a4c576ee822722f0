package usecase

import (
	"context"
	"errors"
	"time"

	"hradmin/common"
	"hradmin/domain"
	"hradmin/pkg/utils"
)

type UserRepository interface {
	FindByID(ctx context.Context, userID string, option *domain.FindOneOption) (*domain.User, error)
	FindOne(ctx context.Context, filter *domain.UserFilter, option *domain.FindOneOption) (*domain.User, error)
	UpdatePassword(ctx context.Context, userID string, hashedPassword string) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.UserSession) error
	FindByID(ctx context.Context, sessionID string, option *domain.FindOneOption) (*domain.UserSession, error)
	FindByRefreshToken(ctx context.Context, refreshToken string, option *domain.FindOneOption) (*domain.UserSession, error)
	Update(ctx context.Context, session *domain.UserSession) error
	InvalidateRefreshToken(ctx context.Context, sessionID string) error
	Deactivate(ctx context.Context, sessionID string) error
}

type TokenProvider interface {
	GenerateAccessToken(userID, sessionID string) (string, error)
	GenerateRefreshToken() (string, error)
	RefreshTokenExpiresAt() time.Time
}

type AuthzResolver interface {
	ComputeEffectivePermissions(ctx context.Context, user *domain.User) (domain.PermissionSet, error)
}

type authUsecase struct {
	userRepo    UserRepository
	sessionRepo SessionRepository
	tokens      TokenProvider
	authz       AuthzResolver
	hasher      common.Hasher
}

func NewAuthUsecase(
	userRepo UserRepository,
	sessionRepo SessionRepository,
	tokens TokenProvider,
	authz AuthzResolver,
	hasher common.Hasher,
) domain.AuthUsecase {
	return &authUsecase{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tokens:      tokens,
		authz:       authz,
		hasher:      hasher,
	}
}

func (u *authUsecase) Login(ctx context.Context, req *domain.LoginRequest, meta *domain.SessionMeta) (*domain.AuthResponse, error) {
	user, err := u.userRepo.FindOne(ctx, &domain.UserFilter{Email: &req.Email}, &domain.FindOneOption{
		Preloads: []string{common.FieldRolePermissions, common.FieldPermissions},
	})
	if err != nil {
		if common.IsRecordNotFound(err) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}

	if !u.hasher.Compare(user.Password, req.Password) {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	permissions, err := u.resolvePermissions(ctx, user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := u.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}

	session := &domain.UserSession{
		UserID:       user.ID,
		RefreshToken: refreshToken,
		Active:       true,
		ExpiresAt:    u.tokens.RefreshTokenExpiresAt().UnixMilli(),
		LastActivity: utils.NowUnixMillis(),
	}
	if meta != nil {
		session.IPAddress = meta.IPAddress
		session.UserAgent = meta.UserAgent
	}
	if err := u.sessionRepo.Create(ctx, session); err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}

	accessToken, err := u.tokens.GenerateAccessToken(user.ID, session.ID)
	if err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}

	return &domain.AuthResponse{
		User:         user,
		Permissions:  permissions,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *domain.RefreshTokenRequest, meta *domain.SessionMeta) (*domain.AuthResponse, error) {
	session, err := u.sessionRepo.FindByRefreshToken(ctx, req.RefreshToken, nil)
	if err != nil {
		if common.IsRecordNotFound(err) {
			return nil, domain.ErrInvalidRefreshToken
		}
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}

	now := utils.NowUnixMillis()
	if !session.IsActive(now) {
		return nil, domain.ErrInvalidRefreshToken
	}

	// Consume the token before anything else; a refresh token is
	// redeemable exactly once.
	if err := u.sessionRepo.InvalidateRefreshToken(ctx, session.ID); err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}

	user, err := u.userRepo.FindByID(ctx, session.UserID, &domain.FindOneOption{
		Preloads: []string{common.FieldRolePermissions, common.FieldPermissions},
	})
	if err != nil {
		if common.IsRecordNotFound(err) {
			return nil, domain.ErrInvalidRefreshToken
		}
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	if user.IsDeleted() {
		return nil, domain.ErrUserDeleted
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	permissions, err := u.resolvePermissions(ctx, user)
	if err != nil {
		return nil, err
	}

	newRefreshToken, err := u.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}

	session.RefreshToken = newRefreshToken
	session.ExpiresAt = u.tokens.RefreshTokenExpiresAt().UnixMilli()
	session.LastActivity = now
	if meta != nil {
		session.IPAddress = meta.IPAddress
		session.UserAgent = meta.UserAgent
	}
	if err := u.sessionRepo.Update(ctx, session); err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}

	accessToken, err := u.tokens.GenerateAccessToken(user.ID, session.ID)
	if err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}

	return &domain.AuthResponse{
		User:         user,
		Permissions:  permissions,
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// Logout is idempotent; ending an already ended session is not an error.
func (u *authUsecase) Logout(ctx context.Context, sessionID string) error {
	session, err := u.sessionRepo.FindByID(ctx, sessionID, nil)
	if err != nil {
		if common.IsRecordNotFound(err) {
			return nil
		}
		return domain.ErrInternalServerError.WithWrap(err)
	}

	if !session.Active {
		return nil
	}
	if err := u.sessionRepo.Deactivate(ctx, session.ID); err != nil {
		return domain.ErrInternalServerError.WithWrap(err)
	}
	return nil
}

func (u *authUsecase) ChangePassword(ctx context.Context, user *domain.User, req *domain.ChangePasswordRequest) error {
	if !u.hasher.Compare(user.Password, req.CurrentPassword) {
		return domain.ErrWrongPassword
	}
	if req.NewPassword == req.CurrentPassword {
		return domain.ErrSamePassword
	}

	hashed, err := u.hasher.Hash(req.NewPassword)
	if err != nil {
		return domain.ErrPasswordHashFailed.WithWrap(err)
	}

	if err := u.userRepo.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return domain.ErrInternalServerError.WithWrap(err)
	}
	return nil
}

// resolvePermissions tolerates principals without any grants; the
// authorization gate will deny them per request, but they may still
// sign in and see an all-false map.
func (u *authUsecase) resolvePermissions(ctx context.Context, user *domain.User) (domain.PermissionSet, error) {
	permissions, err := u.authz.ComputeEffectivePermissions(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrNoRoleAssigned) {
			return domain.PermissionSet{}, nil
		}
		return nil, err
	}
	return permissions, nil
}
