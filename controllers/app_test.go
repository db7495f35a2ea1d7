package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/SShoshia/book-giveaway/config"
	"github.com/SShoshia/book-giveaway/controllers"
	"github.com/SShoshia/book-giveaway/models"
	"github.com/SShoshia/book-giveaway/routes"
	"github.com/SShoshia/book-giveaway/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type app struct {
	t   *testing.T
	srv *httptest.Server
	db  *gorm.DB
}

func newApp(t *testing.T, configure ...func(*config.Config)) *app {
	cfg := testutil.NewConfig(t)
	for _, fn := range configure {
		fn(cfg)
	}
	db := testutil.NewDB(t, cfg)

	router, err := routes.SetupRouter(cfg, controllers.NewHandler(cfg, db))
	require.NoError(t, err)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &app{t: t, srv: srv, db: db}
}

// browser is a client with its own cookie jar that does not follow redirects
type browser struct {
	app    *app
	client *http.Client
}

func (a *app) newBrowser() *browser {
	jar, err := cookiejar.New(nil)
	require.NoError(a.t, err)
	return &browser{
		app: a,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

type page struct {
	status   int
	location string
	body     string
}

func (b *browser) do(req *http.Request) page {
	resp, err := b.client.Do(req)
	require.NoError(b.app.t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(b.app.t, err)
	return page{status: resp.StatusCode, location: resp.Header.Get("Location"), body: string(body)}
}

func (b *browser) get(path string) page {
	req, err := http.NewRequest(http.MethodGet, b.app.srv.URL+path, nil)
	require.NoError(b.app.t, err)
	return b.do(req)
}

func (b *browser) post(path string, form url.Values) page {
	req, err := http.NewRequest(http.MethodPost, b.app.srv.URL+path, strings.NewReader(form.Encode()))
	require.NoError(b.app.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) postJSON(path string, body interface{}, headers ...string) page {
	payload, err := json.Marshal(body)
	require.NoError(b.app.t, err)
	req, err := http.NewRequest(http.MethodPost, b.app.srv.URL+path, bytes.NewReader(payload))
	require.NoError(b.app.t, err)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return b.do(req)
}

// follow requests the redirect target of p
func (b *browser) follow(p page) page {
	require.Equal(b.app.t, http.StatusFound, p.status, "expected a redirect, got body: %s", p.body)
	return b.get(p.location)
}

func (b *browser) register(username, email, password string) page {
	return b.post("/register", url.Values{"username": {username}, "email": {email}, "password": {password}})
}

func (b *browser) login(username, password string) page {
	return b.post("/login", url.Values{"username": {username}, "password": {password}})
}

// signUp registers and logs in a fresh user
func (b *browser) signUp(username string) models.User {
	p := b.register(username, username+"@x", "p")
	require.Equal(b.app.t, "/login", p.location)
	p = b.login(username, "p")
	require.Equal(b.app.t, "/dashboard", p.location)

	var user models.User
	require.NoError(b.app.t, b.app.db.Where("username = ?", username).First(&user).Error)
	return user
}

func (b *browser) createBook(title, author, genre string) uint {
	p := b.postJSON("/books", map[string]string{
		"title":     title,
		"author":    author,
		"genre":     genre,
		"condition": "Good",
		"location":  "Tbilisi",
	})
	require.Equal(b.app.t, http.StatusOK, p.status, p.body)

	var resp struct {
		Data struct {
			ID uint `json:"id"`
		} `json:"data"`
	}
	require.NoError(b.app.t, json.Unmarshal([]byte(p.body), &resp))
	require.NotZero(b.app.t, resp.Data.ID)
	return resp.Data.ID
}

func bookPath(prefix string, id uint) string {
	return fmt.Sprintf("%s/%d", prefix, id)
}
