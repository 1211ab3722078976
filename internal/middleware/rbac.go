package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-admin-api/internal/models"
	appErrors "github.com/noah-isme/academic-admin-api/pkg/errors"
	"github.com/noah-isme/academic-admin-api/pkg/response"
)

var (
	// ReadRoles may browse academic records.
	ReadRoles = []models.UserRole{models.RoleStaff, models.RoleAdmin, models.RoleSuperAdmin}
	// WriteRoles may change academic records.
	WriteRoles = []models.UserRole{models.RoleAdmin, models.RoleSuperAdmin}
)

// RequireRoles enforces role-based access control for routes. It must run after JWT.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
