package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yacht_charter_backend/pkg/utils"
)

func newProtectedRouter(tokens *utils.TokenManager, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/", AuthMiddleware(tokens))
	if len(roles) > 0 {
		group.Use(RoleAuthMiddleware(roles...))
	}
	group.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"id":   c.GetInt64(ContextUserID),
			"role": c.GetString(ContextUserRole),
		})
	})
	return r
}

func call(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tokens := utils.NewTokenManager("test-secret", time.Minute, time.Hour)
	r := newProtectedRouter(tokens)

	access, err := tokens.GenerateAccessToken(5, "ann@example.com", "OWNER")
	require.NoError(t, err)
	refresh, err := tokens.GenerateRefreshToken(5)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid access token", "Bearer " + access, http.StatusOK},
		{"lowercase scheme", "bearer " + access, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + access, http.StatusUnauthorized},
		{"refresh token", "Bearer " + refresh, http.StatusUnauthorized},
		{"garbage", "Bearer not.a.jwt", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := call(r, tt.header)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.JSONEq(t, `{"id":5,"role":"OWNER"}`, w.Body.String())
			}
		})
	}
}

func TestRoleAuthMiddleware(t *testing.T) {
	tokens := utils.NewTokenManager("test-secret", time.Minute, time.Hour)
	r := newProtectedRouter(tokens, "OWNER", "ADMIN")

	owner, err := tokens.GenerateAccessToken(5, "ann@example.com", "OWNER")
	require.NoError(t, err)
	renter, err := tokens.GenerateAccessToken(6, "rita@example.com", "USER")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, call(r, "Bearer "+owner).Code)

	w := call(r, "Bearer "+renter)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Required roles: OWNER, ADMIN")
}
