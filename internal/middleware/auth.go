package middleware

import (
	"errors"
	"net/http"
	"strings"

	"campaignhub_backend/internal/auth"
	"campaignhub_backend/internal/logger"
	"campaignhub_backend/internal/models"
	"campaignhub_backend/pkg/apperrors"
	"campaignhub_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware - проверка JWT и сохранение принципала в контекст
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			apperrors.AbortWithError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		claims, err := auth.ParseToken(secret, tokenStr)
		if err != nil {
			logger.CtxWarn(c.Request.Context(), "Token rejected", "error", err, "path", c.Request.URL.Path)
			msg := "Invalid token"
			if errors.Is(err, auth.ErrTokenExpired) {
				msg = "Token expired"
			}
			apperrors.AbortWithError(c, apperrors.New(apperrors.CodeInvalidToken, "auth", msg, http.StatusUnauthorized))
			return
		}

		c.Set(contextkeys.UserIDKey, claims.UserID)
		c.Set(contextkeys.RoleKey, models.UserRole(claims.Role))
		c.Set(contextkeys.UserNameKey, claims.Name)
		c.Set(contextkeys.PermissionsKey, claims.Permissions)

		ctx := logger.WithUserID(c.Request.Context(), claims.UserID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRoles - допускает только перечисленные роли
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]bool)
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			apperrors.AbortWithError(c, apperrors.NewForbiddenError("Access denied: no role"))
			return
		}

		if !roleSet[actor.Role] {
			apperrors.AbortWithError(c, apperrors.NewForbiddenError("Access denied: insufficient role"))
			return
		}

		c.Next()
	}
}

// RequirePermission - admin должен иметь разрешение в токене,
// superadmin и brand проходят всегда
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok || !auth.HasPermission(actor, permission) {
			logger.CtxWarn(c.Request.Context(), "Permission denied",
				"permission", permission,
				"role", actor.Role,
				"path", c.Request.URL.Path,
			)
			apperrors.AbortWithError(c, apperrors.ErrInsufficientPermissions.WithDetails(map[string]string{
				"permission": permission,
			}))
			return
		}
		c.Next()
	}
}

// ActorFromContext собирает принципала из значений, которые положил AuthMiddleware
func ActorFromContext(c *gin.Context) (models.Actor, bool) {
	userID := c.GetString(contextkeys.UserIDKey)
	if userID == "" {
		return models.Actor{}, false
	}

	actor := models.Actor{
		ID:   userID,
		Name: c.GetString(contextkeys.UserNameKey),
	}
	if role, ok := c.Get(contextkeys.RoleKey); ok {
		switch r := role.(type) {
		case models.UserRole:
			actor.Role = r
		case string:
			actor.Role = models.UserRole(r)
		}
	}
	actor.Permissions = c.GetStringSlice(contextkeys.PermissionsKey)
	return actor, true
}
