package middleware

import (
	"net/http"

	"edunest/models"
	"edunest/services/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DefaultLanding maps a role to its landing route. The same table backs
// the post-login root redirect and the catch-all for unmatched paths.
func DefaultLanding(role string) string {
	switch role {
	case models.RoleStudent:
		return "/student/home"
	case models.RoleTeacher, models.RoleStaff:
		return "/staff/home"
	case models.RoleAdmin, models.RolePrincipal, models.RoleSuperadmin:
		return "/dashboard"
	default:
		return "/settings"
	}
}

// RequireAuth gates protected routes on the strict check: token AND
// user id. This is deliberately stronger than IsAuthenticated, which
// only looks at the token; the weaker flag feeds status surfaces only.
func RequireAuth(sessions session.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sessions.IsFullyAuthenticated() {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole gates a route on an allowed role set. With no role loaded
// yet the shell reports a loading state; a loaded but unpermitted role
// is sent to its own landing route, never to login.
func RequireRole(sessions session.SessionService, allowed ...string) gin.HandlerFunc {
	permitted := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		permitted[role] = struct{}{}
	}
	return func(c *gin.Context) {
		role := sessions.Role()
		if role == "" {
			c.AbortWithStatusJSON(http.StatusOK, gin.H{"status": "loading"})
			return
		}
		if _, ok := permitted[role]; !ok {
			zap.L().Debug("role not permitted for route",
				zap.String("role", role),
				zap.String("path", c.Request.URL.Path))
			c.Redirect(http.StatusFound, DefaultLanding(role))
			c.Abort()
			return
		}
		c.Next()
	}
}
