package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"hradmin/common"
	"hradmin/domain"
	"hradmin/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthorizer struct {
	err     error
	lastUID string
	lastCod string
}

func (f *fakeAuthorizer) Authorize(ctx context.Context, userID string, code string) error {
	f.lastUID = userID
	f.lastCod = code
	return f.err
}

func newPermissionTestRouter(authorizer Authorizer, user *domain.User) *gin.Engine {
	gin.SetMode(gin.TestMode)

	m := NewMiddlewares(Dependencies{
		Logger:     log.MustNewDevelopmentLogger(),
		Authorizer: authorizer,
	})

	r := gin.New()
	r.GET("/users",
		func(c *gin.Context) {
			if user != nil {
				c.Set(common.UserContextKey, user)
			}
			c.Next()
		},
		m.RequirePermission(domain.PermReadUser),
		func(c *gin.Context) {
			common.ResponseOK(c, gin.H{"ok": true}, "listed")
		},
	)
	return r
}

func TestRequirePermissionAllows(t *testing.T) {
	authorizer := &fakeAuthorizer{}
	user := &domain.User{}
	user.ID = "user-1"

	r := newPermissionTestRouter(authorizer, user)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", authorizer.lastUID)
	assert.Equal(t, domain.PermReadUser, authorizer.lastCod)
}

func TestRequirePermissionDenies(t *testing.T) {
	authorizer := &fakeAuthorizer{err: domain.ErrPermissionNotGranted}
	user := &domain.User{}
	user.ID = "user-1"

	r := newPermissionTestRouter(authorizer, user)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "PERMISSION_NOT_GRANTED")
}

func TestRequirePermissionDenyReasons(t *testing.T) {
	cases := []struct {
		name   string
		err    *domain.DetailedError
		status int
	}{
		{"deleted user", domain.ErrUserDeleted, http.StatusForbidden},
		{"inactive user", domain.ErrUserInactive, http.StatusForbidden},
		{"no role", domain.ErrNoRoleAssigned, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			user := &domain.User{}
			user.ID = "user-1"
			r := newPermissionTestRouter(&fakeAuthorizer{err: tc.err}, user)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			r.ServeHTTP(w, req)

			require.Equal(t, tc.status, w.Code)
			assert.Contains(t, w.Body.String(), tc.err.IDField)
		})
	}
}

func TestRequirePermissionWithoutPrincipal(t *testing.T) {
	r := newPermissionTestRouter(&fakeAuthorizer{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
