package domain

import (
	"context"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
)

/****************************
*        Auth errors        *
****************************/
var (
	ErrInvalidCredentials = &DetailedError{
		IDField:         "INVALID_CREDENTIALS",
		StatusDescField: http.StatusText(http.StatusUnauthorized),
		ErrorField:      "Invalid email or password",
		StatusCodeField: http.StatusUnauthorized,
	}
	ErrInvalidToken = &DetailedError{
		IDField:         "INVALID_TOKEN",
		StatusDescField: http.StatusText(http.StatusUnauthorized),
		ErrorField:      "Token is invalid or expired",
		StatusCodeField: http.StatusUnauthorized,
	}
	ErrInvalidRefreshToken = &DetailedError{
		IDField:         "INVALID_REFRESH_TOKEN",
		StatusDescField: http.StatusText(http.StatusUnauthorized),
		ErrorField:      "Refresh token is invalid, expired or already used",
		StatusCodeField: http.StatusUnauthorized,
	}
	ErrSessionNotFound = &DetailedError{
		IDField:         "SESSION_NOT_FOUND",
		StatusDescField: http.StatusText(http.StatusUnauthorized),
		ErrorField:      "Session not found or no longer active",
		StatusCodeField: http.StatusUnauthorized,
	}
	ErrWrongPassword = &DetailedError{
		IDField:         "WRONG_PASSWORD",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "Current password is incorrect",
		StatusCodeField: http.StatusBadRequest,
	}
	ErrSamePassword = &DetailedError{
		IDField:         "SAME_PASSWORD",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "New password must differ from the current one",
		StatusCodeField: http.StatusBadRequest,
	}
)

/***************************************
*       Auth entities and types       *
***************************************/

// JwtClaims carries the user id (Sub) and session id (Sid) inside
// access tokens.
type JwtClaims struct {
	jwt.RegisteredClaims
	Sub string `json:"sub"`
	Sid string `json:"sid"`
}

type UserSession struct {
	SQLModel
	UserID       string `json:"user_id" gorm:"type:varchar(36);index;not null"`
	RefreshToken string `json:"-" gorm:"type:varchar(100);uniqueIndex;not null"`
	IPAddress    string `json:"ip_address" gorm:"type:varchar(45)"`
	UserAgent    string `json:"user_agent" gorm:"type:varchar(255)"`
	Active       bool   `json:"active" gorm:"default:true"`
	ExpiresAt    int64  `json:"expires_at" gorm:"not null"`
	LastActivity int64  `json:"last_activity"`
}

// IsActive reports whether the session can still be used.
func (s *UserSession) IsActive(now int64) bool {
	return s.Active && s.ExpiresAt > now
}

type UserSessionFilter struct {
	ID           *string `json:"id" form:"id"`
	UserID       *string `json:"user_id" form:"user_id"`
	RefreshToken *string `json:"refresh_token" form:"refresh_token"`
	Active       *bool   `json:"active" form:"active"`
}

/**********************************************
*      Auth usecase interfaces and types      *
**********************************************/
type AuthUsecase interface {
	Login(ctx context.Context, req *LoginRequest, meta *SessionMeta) (*AuthResponse, error)
	RefreshToken(ctx context.Context, req *RefreshTokenRequest, meta *SessionMeta) (*AuthResponse, error)
	Logout(ctx context.Context, sessionID string) error
	ChangePassword(ctx context.Context, user *User, req *ChangePasswordRequest) error
}

// SessionMeta captures request attributes persisted on the session row.
type SessionMeta struct {
	IPAddress string
	UserAgent string
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// AuthResponse is returned by login and refresh. Permissions is the
// merged effective permission map of the authenticated user.
type AuthResponse struct {
	User         *User         `json:"user"`
	Permissions  PermissionSet `json:"permissions"`
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
}
