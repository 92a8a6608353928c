package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"teamhub.backend/pkg/jwt"
	"teamhub.backend/pkg/logger"
)

func TestAuthMiddleware_BearerFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwtService := jwt.NewJWTService("secret", time.Minute, time.Hour)
	userID := uuid.New()

	r := gin.New()
	r.Use(AuthMiddleware(jwtService))
	r.GET("/me", func(c *gin.Context) {
		actor, ok := GetActor(c)
		require.True(t, ok)
		require.Equal(t, userID, actor.ID)
		require.Equal(t, "Ana", actor.Name)
		require.Equal(t, userID.String(), c.Request.Context().Value(logger.ActorIDKey))
		c.Status(http.StatusNoContent)
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Contains(t, w.Body.String(), "Authorization header is required")
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Basic abc")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Contains(t, w.Body.String(), "Invalid authorization format")
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer invalid")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Contains(t, w.Body.String(), `"code":"UNAUTHORIZED"`)
	})

	t.Run("valid token", func(t *testing.T) {
		pair, err := jwtService.GenerateTokenPair(userID, "ana@teamhub.io", "Ana")
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	expired := jwt.NewJWTService("secret", -time.Second, time.Hour)
	pair, err := expired.GenerateTokenPair(uuid.New(), "ana@teamhub.io", "Ana")
	require.NoError(t, err)

	r := gin.New()
	r.Use(AuthMiddleware(expired))
	r.GET("/me", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "Token has expired")
}

type validatorFunc func(string) (*jwt.Claims, error)

func (f validatorFunc) ValidateToken(s string) (*jwt.Claims, error) { return f(s) }

func TestAuthMiddleware_WrappedExpiredError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(validatorFunc(func(string) (*jwt.Claims, error) {
		return nil, errors.Join(errors.New("validate"), jwt.ErrExpiredToken)
	})))
	r.GET("/me", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer x")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "Token has expired")
}

func TestContextGetters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	_, ok := GetUserID(c)
	require.False(t, ok)
	_, ok = GetActor(c)
	require.False(t, ok)

	c.Set(UserIDKey, "not-a-uuid")
	_, ok = GetUserID(c)
	require.False(t, ok)

	id := uuid.New()
	c.Set(UserIDKey, id)
	actor, ok := GetActor(c)
	require.True(t, ok)
	require.Equal(t, id, actor.ID)
	require.Equal(t, id.String(), actor.DisplayName())
}
