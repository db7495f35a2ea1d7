package controllers_test

import (
	"net/http"
	"testing"

	"github.com/SShoshia/book-giveaway/config"
	"github.com/SShoshia/book-giveaway/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot_RedirectsHome(t *testing.T) {
	b := newApp(t).newBrowser()

	p := b.get("/")
	assert.Equal(t, http.StatusFound, p.status)
	assert.Equal(t, "/home", p.location)
}

func TestRegister(t *testing.T) {
	b := newApp(t).newBrowser()

	p := b.register("a", "a@x", "p")
	require.Equal(t, "/login", p.location)
	assert.Contains(t, b.follow(p).body, "Registration successful")

	p = b.register("a", "other@x", "p")
	require.Equal(t, "/register", p.location)
	assert.Contains(t, b.follow(p).body, "Username already in use")

	p = b.register("b", "a@x", "p")
	require.Equal(t, "/register", p.location)
	assert.Contains(t, b.follow(p).body, "Email already in use")

	p = b.register("c", "not-an-email", "p")
	require.Equal(t, "/register", p.location)
	assert.Contains(t, b.follow(p).body, "Invalid email format")
}

func TestLogin(t *testing.T) {
	b := newApp(t).newBrowser()
	require.Equal(t, "/login", b.register("a", "a@x", "p").location)

	for _, creds := range [][2]string{{"a", "wrong"}, {"nobody", "p"}} {
		p := b.login(creds[0], creds[1])
		assert.Equal(t, http.StatusOK, p.status)
		assert.Contains(t, p.body, "Login failed. Please check your username and password.")
	}
	assert.Equal(t, "/login", b.get("/dashboard").location, "failed logins leave the session anonymous")

	p := b.login("a", "p")
	require.Equal(t, "/dashboard", p.location)
	dashboard := b.follow(p)
	assert.Equal(t, http.StatusOK, dashboard.status)
	assert.Contains(t, dashboard.body, "Login successful.")
	assert.Contains(t, dashboard.body, "Log out (a)")
}

func TestLogin_LockedAfterRepeatedFailures(t *testing.T) {
	b := newApp(t, func(cfg *config.Config) { cfg.LoginMaxFailures = 2 }).newBrowser()
	require.Equal(t, "/login", b.register("a", "a@x", "p").location)

	b.login("a", "wrong")
	b.login("a", "wrong")

	p := b.login("a", "p")
	assert.Equal(t, http.StatusOK, p.status)
	assert.Contains(t, p.body, "Too many failed login attempts")
}

func TestLogout(t *testing.T) {
	b := newApp(t).newBrowser()
	b.signUp("a")

	p := b.get("/logout")
	assert.Equal(t, "/home", p.location)

	p = b.get("/dashboard")
	assert.Equal(t, http.StatusFound, p.status)
	assert.Equal(t, "/login", p.location)
}

func TestProtectedRoutes_RequireLogin(t *testing.T) {
	b := newApp(t).newBrowser()

	for _, path := range []string{"/dashboard", "/logout", "/manage_book", "/manage_book/1", "/view_interested_users/1"} {
		p := b.get(path)
		assert.Equal(t, http.StatusFound, p.status, path)
		assert.Equal(t, "/login", p.location, path)
	}

	p := b.post("/update_interest", nil)
	assert.Equal(t, "/login", p.location)
	assert.Contains(t, b.follow(p).body, utils.MsgLoginRequired)
}

func TestIssueToken(t *testing.T) {
	a := newApp(t)
	b := a.newBrowser()
	require.Equal(t, "/login", b.register("a", "a@x", "p").location)

	p := b.postJSON("/api/token", map[string]string{"username": "a", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, p.status)

	p = b.postJSON("/api/token", map[string]string{"username": "a"})
	assert.Equal(t, http.StatusBadRequest, p.status)

	p = b.postJSON("/api/token", map[string]string{"username": "a", "password": "p"})
	require.Equal(t, http.StatusOK, p.status)
	token := extractToken(t, p.body)

	// A fresh client without cookies authenticates with the token alone.
	api := a.newBrowser()
	p = api.postJSON("/books", map[string]string{
		"title": "Dune", "author": "Frank Herbert", "genre": "SF", "condition": "Good", "location": "Tbilisi",
	}, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, p.status, p.body)
}

func TestStaleTokenDoesNotBlockPublicRoutes(t *testing.T) {
	a := newApp(t)
	b := a.newBrowser()
	require.Equal(t, "/login", b.register("a", "a@x", "p").location)

	stale := []string{"Authorization", "Bearer expired.or.garbage"}

	p := b.postJSON("/api/token", map[string]string{"username": "a", "password": "p"}, stale...)
	require.Equal(t, http.StatusOK, p.status, p.body)
	assert.NotEmpty(t, extractToken(t, p.body))

	p = b.postJSON("/books", map[string]string{"title": "Dune"}, stale...)
	assert.Equal(t, http.StatusUnauthorized, p.status)
}
