package middleware

import (
	"hradmin/common"
	"hradmin/domain"
	"hradmin/pkg/log"

	"github.com/gin-gonic/gin"
)

// RequirePermission gates the route on the given permission code. The
// decision is recomputed from current database state on every request.
func (m *middlewares) RequirePermission(code string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := common.GetUserFromCtx(c)
		if user == nil {
			common.ResponseError(c, domain.ErrUnauthorized)
			return
		}

		if err := m.authorizer.Authorize(c.Request.Context(), user.ID, code); err != nil {
			m.logger.Warn("authorization denied",
				log.String("user_id", user.ID),
				log.String("permission", code),
				log.String("path", c.Request.URL.Path),
				log.Error(err),
			)
			common.ResponseError(c, err)
			return
		}

		c.Next()
	}
}
