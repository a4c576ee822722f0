package middleware

import (
	"context"

	"hradmin/pkg/cache"
	"hradmin/pkg/log"

	"github.com/gin-gonic/gin"
)

// Authorizer decides whether the user may perform the operation named
// by the permission code. It is consulted on every request; decisions
// are never cached.
type Authorizer interface {
	Authorize(ctx context.Context, userID string, code string) error
}

// Middlewares defines all available middleware methods
type Middlewares interface {
	// Rate limiting middlewares
	RateLimit(config ...RateLimitConfig) gin.HandlerFunc
	RateLimitWithLogger(config ...RateLimitConfig) gin.HandlerFunc
	APIRateLimits() gin.HandlerFunc
	LoginRateLimits() gin.HandlerFunc

	// Logging middlewares
	LoggingMiddleware(config ...LoggerConfig) gin.HandlerFunc
	RequestIDMiddleware() gin.HandlerFunc

	// CORS middlewares
	CORS(config ...CORSConfig) gin.HandlerFunc
	CORSWithLogger(config ...CORSConfig) gin.HandlerFunc

	// Authentication middlewares
	Authenticator() gin.HandlerFunc
	RequirePermission(code string) gin.HandlerFunc
}

// Dependencies holds all dependencies needed by middlewares
type Dependencies struct {
	Cache       cache.Client
	Logger      log.Logger
	JwtProvider JwtProvider
	SessionRepo SessionRepository
	UserRepo    UserRepository
	Authorizer  Authorizer
}

// NewMiddlewares creates a new instance of middlewares with dependencies
func NewMiddlewares(deps Dependencies) Middlewares {
	return &middlewares{
		cache:       deps.Cache,
		logger:      deps.Logger,
		jwtProvider: deps.JwtProvider,
		sessionRepo: deps.SessionRepo,
		userRepo:    deps.UserRepo,
		authorizer:  deps.Authorizer,
	}
}

// middlewares is the concrete implementation of Middlewares interface
type middlewares struct {
	cache       cache.Client
	logger      log.Logger
	jwtProvider JwtProvider
	sessionRepo SessionRepository
	userRepo    UserRepository
	authorizer  Authorizer
}
