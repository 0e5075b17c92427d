package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campaignhub_backend/internal/auth"
	"campaignhub_backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "middleware-secret"

func newRouter(guards ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware(), AuthMiddleware(secret))
	handlers := append(guards, func(c *gin.Context) {
		actor, _ := ActorFromContext(c)
		c.JSON(http.StatusOK, gin.H{"id": actor.ID, "role": actor.Role})
	})
	r.GET("/guarded", handlers...)
	return r
}

func call(t *testing.T, r *gin.Engine, claims *auth.Claims) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if claims != nil {
		token, err := auth.SignToken(secret, *claims, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter()

	w := call(t, r, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"unauthorized"`)

	w = call(t, r, &auth.Claims{UserID: "u-1", Role: "influencer"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"u-1"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequireRolesAndPermission(t *testing.T) {
	r := newRouter(
		RequireRoles(models.UserRoleAdmin, models.UserRoleSuperAdmin),
		RequirePermission(auth.PermOrdersReview),
	)

	w := call(t, r, &auth.Claims{UserID: "u-1", Role: "influencer"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = call(t, r, &auth.Claims{UserID: "a-1", Role: "admin"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), auth.PermOrdersReview)

	w = call(t, r, &auth.Claims{UserID: "a-1", Role: "admin", Permissions: []string{auth.PermOrdersReview}})
	assert.Equal(t, http.StatusOK, w.Code)

	w = call(t, r, &auth.Claims{UserID: "s-1", Role: "superadmin"})
	assert.Equal(t, http.StatusOK, w.Code)
}
