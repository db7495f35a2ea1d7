package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SShoshia/book-giveaway/middleware"
	"github.com/SShoshia/book-giveaway/services"
	"github.com/SShoshia/book-giveaway/testutil"
	"github.com/SShoshia/book-giveaway/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var jwtSecret = []byte("middleware-test-secret")

func newRouter(t *testing.T) (*gin.Engine, *services.IdentityService) {
	db := testutil.NewDB(t, testutil.NewConfig(t))
	identity := services.NewIdentityService(db, bcrypt.MinCost)

	router := gin.New()
	router.Use(sessions.Sessions("test", cookie.NewStore([]byte("session-secret"))))
	router.Use(middleware.LoadUser(identity, jwtSecret))
	router.GET("/whoami", middleware.RequireAuth(), func(c *gin.Context) {
		user, _ := utils.CurrentUser(c)
		c.String(http.StatusOK, user.Username)
	})
	router.GET("/public", func(c *gin.Context) {
		if _, ok := utils.CurrentUser(c); ok {
			c.String(http.StatusOK, "user")
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	return router, identity
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireAuth_AnonymousBrowserIsRedirected(t *testing.T) {
	router, _ := newRouter(t)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRequireAuth_AnonymousJSONIsUnauthorized(t *testing.T) {
	router, _ := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Accept", "application/json")
	w := serve(router, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"status":"error","message":"Please login for access"}`, w.Body.String())
}

func TestLoadUser_AnonymousPassesThrough(t *testing.T) {
	router, _ := newRouter(t)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/public", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())
}

func TestLoadUser_BearerToken(t *testing.T) {
	router, identity := newRouter(t)
	user, err := identity.Register(context.Background(), "alice", "alice@example.com", "p")
	require.NoError(t, err)

	token, _, err := utils.GenerateToken(user.ID, user.Username, jwtSecret, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := serve(router, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", w.Body.String())
}

func TestLoadUser_BadTokensAreAnonymous(t *testing.T) {
	router, _ := newRouter(t)

	unknownUser, _, err := utils.GenerateToken(999, "ghost", jwtSecret, time.Hour)
	require.NoError(t, err)
	otherSecret, _, err := utils.GenerateToken(1, "alice", []byte("other"), time.Hour)
	require.NoError(t, err)
	expired, _, err := utils.GenerateToken(1, "alice", jwtSecret, -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name          string
		header        string
		protectedCode int
	}{
		{"not bearer", "Basic abc", http.StatusFound},
		{"garbage", "Bearer abc", http.StatusUnauthorized},
		{"other secret", "Bearer " + otherSecret, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"unknown user", "Bearer " + unknownUser, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/public", nil)
			req.Header.Set("Authorization", tt.header)
			w := serve(router, req)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "anonymous", w.Body.String())

			req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
			req.Header.Set("Authorization", tt.header)
			w = serve(router, req)
			assert.Equal(t, tt.protectedCode, w.Code)
		})
	}
}
