package middleware

import (
	"context"
	"strings"

	"hradmin/common"
	"hradmin/domain"
	"hradmin/pkg/utils"

	"github.com/gin-gonic/gin"
)

type JwtProvider interface {
	VerifyAccessToken(tokenStr string) (*domain.JwtClaims, error)
}

type SessionRepository interface {
	FindByID(ctx context.Context, sessionID string, option *domain.FindOneOption) (*domain.UserSession, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, userID string, option *domain.FindOneOption) (*domain.User, error)
}

type headerData struct {
	AccessToken string
}

func extractHeaderData(c *gin.Context) *headerData {
	hData := &headerData{}

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		hData.AccessToken = strings.TrimPrefix(authHeader, "Bearer ")
	}

	return hData
}

func (m *middlewares) Authenticator() gin.HandlerFunc {
	return func(c *gin.Context) {
		headerData := extractHeaderData(c)

		claims, err := m.jwtProvider.VerifyAccessToken(headerData.AccessToken)
		if err != nil {
			common.ResponseError(c, domain.ErrInvalidToken.WithWrap(err))
			return
		}

		session, err := m.sessionRepo.FindByID(c.Request.Context(), claims.Sid, nil)
		if err != nil && !common.IsRecordNotFound(err) {
			common.ResponseError(c, err)
			return
		}
		if session == nil || !session.IsActive(utils.NowUnixMillis()) {
			common.ResponseError(c, domain.ErrSessionNotFound)
			return
		}

		user, err := m.userRepo.FindByID(c.Request.Context(), claims.Sub, &domain.FindOneOption{
			Preloads: []string{common.FieldRolePermissions, common.FieldPermissions},
		})
		if err != nil && !common.IsRecordNotFound(err) {
			common.ResponseError(c, err)
			return
		}
		if user == nil {
			common.ResponseError(c, domain.ErrUserNotFound)
			return
		}

		if user.IsDeleted() {
			common.ResponseError(c, domain.ErrUserDeleted)
			return
		}
		if !user.IsActive {
			common.ResponseError(c, domain.ErrUserInactive)
			return
		}

		c.Set(common.UserContextKey, user)
		c.Set(common.SessionIDContextKey, session.ID)
		c.Next()
	}
}
