package api

import (
	"errors"

	"hradmin/common"
	"hradmin/domain"
	"hradmin/middleware"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	usecase     domain.AuthUsecase
	authz       domain.AuthzUsecase
	middlewares middleware.Middlewares
}

func NewAuthHandler(
	usecase domain.AuthUsecase,
	authz domain.AuthzUsecase,
	middlewares middleware.Middlewares,
) *AuthHandler {
	return &AuthHandler{
		usecase:     usecase,
		authz:       authz,
		middlewares: middlewares,
	}
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")

	// Public routes
	auth.POST("/login", h.middlewares.LoginRateLimits(), h.Login)
	auth.POST("/refresh", h.middlewares.LoginRateLimits(), h.RefreshToken)

	// Protected routes (authentication required)
	protected := auth.Group("")
	protected.Use(h.middlewares.Authenticator())
	{
		protected.POST("/logout", h.Logout)
		protected.GET("/verify-token", h.VerifyToken)
		protected.GET("/me", h.Me)
		protected.POST("/change-password", h.ChangePassword)
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	resp, err := h.usecase.Login(c.Request.Context(), &req, sessionMeta(c))
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, resp, "Login successful")
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req domain.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	resp, err := h.usecase.RefreshToken(c.Request.Context(), &req, sessionMeta(c))
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, resp, "Token refreshed")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID := common.GetSessionIDFromCtx(c)
	if sessionID == "" {
		common.ResponseError(c, domain.ErrUnauthorized)
		return
	}

	if err := h.usecase.Logout(c.Request.Context(), sessionID); err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, true, "Logout successful")
}

// VerifyToken reports whether the access token is still good. Reaching
// the handler means the authenticator already accepted it.
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	user := common.GetUserFromCtx(c)
	if user == nil {
		common.ResponseError(c, domain.ErrUnauthorized)
		return
	}
	common.ResponseOK(c, gin.H{"user_id": user.ID, "email": user.Email}, "Token is valid")
}

// Me returns the authenticated principal and its effective permission
// map, recomputed from current state.
func (h *AuthHandler) Me(c *gin.Context) {
	user := common.GetUserFromCtx(c)
	if user == nil {
		common.ResponseError(c, domain.ErrUnauthorized)
		return
	}

	permissions, err := h.authz.ComputeEffectivePermissions(c.Request.Context(), user)
	if err != nil {
		if errors.Is(err, domain.ErrNoRoleAssigned) {
			permissions = domain.PermissionSet{}
		} else {
			common.ResponseError(c, err)
			return
		}
	}

	common.ResponseOK(c, gin.H{
		"user":        user,
		"permissions": permissions,
	}, "Authenticated")
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user := common.GetUserFromCtx(c)
	if user == nil {
		common.ResponseError(c, domain.ErrUnauthorized)
		return
	}

	var req domain.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	if err := h.usecase.ChangePassword(c.Request.Context(), user, &req); err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseNoContent(c, "Password changed")
}

func sessionMeta(c *gin.Context) *domain.SessionMeta {
	info := common.ExtractClientInfo(c)
	return &domain.SessionMeta{
		IPAddress: info.IPAddress,
		UserAgent: info.UserAgent,
	}
}
