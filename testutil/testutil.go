// Package testutil provides an isolated SQLite database and fixtures for tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/SShoshia/book-giveaway/config"
	"github.com/SShoshia/book-giveaway/models"
	"github.com/SShoshia/book-giveaway/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the password of every user created by CreateTestUser
const TestPassword = "secret-pass"

// NewConfig returns a test configuration backed by a fresh SQLite file
func NewConfig(t testing.TB) *config.Config {
	t.Helper()
	return &config.Config{
		Env:                     "test",
		Port:                    "0",
		DBDriver:                config.DriverSQLite,
		DBPath:                  filepath.Join(t.TempDir(), "books.db"),
		SessionSecret:           "test-session-secret-test-session-secret",
		SessionMaxAge:           3600,
		JWTSecret:               "test-jwt-secret",
		JWTTTL:                  time.Hour,
		BcryptCost:              bcrypt.MinCost,
		LogLevel:                "error",
		LoginMaxFailures:        5,
		LoginWindow:             15 * time.Minute,
		TransferRequireInterest: true,
	}
}

// NewDB opens and migrates the database of cfg and closes it when the test ends
func NewDB(t testing.TB, cfg *config.Config) *gorm.DB {
	t.Helper()
	db, err := config.InitDB(cfg)
	require.NoError(t, err, "error opening test database")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateTestUser stores a user whose password is TestPassword
func CreateTestUser(t testing.TB, db *gorm.DB, username string) *models.User {
	t.Helper()
	hashed, err := utils.HashPassword(TestPassword, bcrypt.MinCost)
	require.NoError(t, err, "error hashing test password")

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: hashed,
	}
	require.NoError(t, db.Create(user).Error, "error creating test user")
	return user
}

// CreateTestBook stores a book owned by ownerID
func CreateTestBook(t testing.TB, db *gorm.DB, ownerID uint, title, author, genre string) *models.Book {
	t.Helper()
	book := &models.Book{
		Title:     title,
		Author:    author,
		Genre:     genre,
		Condition: "Good",
		Location:  "Tbilisi",
		OwnerID:   ownerID,
	}
	require.NoError(t, db.Omit("Owner").Create(book).Error, "error creating test book")
	return book
}

// AddTestInterest records that userID wants bookID
func AddTestInterest(t testing.TB, db *gorm.DB, userID, bookID uint) {
	t.Helper()
	interest := &models.UserBookInterest{UserID: userID, BookID: bookID}
	require.NoError(t, db.Omit("User", "Book").Create(interest).Error, "error creating test interest")
}

// ReloadBook reads the stored state of a book
func ReloadBook(t testing.TB, db *gorm.DB, bookID uint) models.Book {
	t.Helper()
	var book models.Book
	require.NoError(t, db.First(&book, bookID).Error)
	return book
}

// TestRequest represents a test HTTP request
type TestRequest struct {
	Method  string
	Path    string
	Body    interface{}
	Headers map[string]string
}

// TestResponse represents a test HTTP response
type TestResponse struct {
	StatusCode int
	Body       map[string]interface{}
}

// MakeTestRequest sends a JSON request straight to handler
func MakeTestRequest(t testing.TB, handler http.Handler, req TestRequest) TestResponse {
	t.Helper()
	var body []byte
	if req.Body != nil {
		var err error
		body, err = json.Marshal(req.Body)
		require.NoError(t, err, "failed to marshal request body")
	}

	httpReq, err := http.NewRequest(req.Method, req.Path, bytes.NewBuffer(body))
	require.NoError(t, err, "failed to create request")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httpReq)

	var responseBody map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &responseBody), "failed to unmarshal response body: %s", w.Body.String())
	}
	return TestResponse{StatusCode: w.Code, Body: responseBody}
}

// AssertResponse asserts the status code and, when given, the exact body
func AssertResponse(t testing.TB, response TestResponse, expectedStatusCode int, expectedBody map[string]interface{}) {
	t.Helper()
	assert.Equal(t, expectedStatusCode, response.StatusCode)
	if expectedBody != nil {
		assert.Equal(t, expectedBody, response.Body)
	}
}

func init() {
	gin.SetMode(gin.TestMode)
}
