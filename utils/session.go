package utils

import (
	"encoding/gob"

	"github.com/SShoshia/book-giveaway/models"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	// SessionUserKey holds the authenticated user id in the session
	SessionUserKey = "user_id"
	// ContextUserKey holds the authenticated models.User for the current request
	ContextUserKey = "user"

	FlashSuccess = "success"
	FlashDanger  = "danger"
	FlashInfo    = "info"
)

// Flash is a one-shot message shown on the next rendered page
type Flash struct {
	Category string
	Message  string
}

func init() {
	// Register types for session serialization
	gob.Register(Flash{})
}

// AddFlash queues a flash message; it is persisted with the session
func AddFlash(c *gin.Context, category, message string) {
	session := sessions.Default(c)
	session.AddFlash(Flash{Category: category, Message: message})
	if err := session.Save(); err != nil {
		LogError("Failed to save flash message: %v", err)
	}
}

// Flashes pops all queued flash messages
func Flashes(c *gin.Context) []Flash {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return nil
	}
	session := sessions.Default(c)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(); err != nil {
		LogError("Failed to clear flash messages: %v", err)
	}
	flashes := make([]Flash, 0, len(raw))
	for _, f := range raw {
		if flash, ok := f.(Flash); ok {
			flashes = append(flashes, flash)
		}
	}
	return flashes
}

// StartSession binds the session to userID, dropping anything stored before
func StartSession(c *gin.Context, userID uint) error {
	session := sessions.Default(c)
	session.Clear()
	session.Set(SessionUserKey, userID)
	return session.Save()
}

// EndSession clears the session unconditionally
func EndSession(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	return session.Save()
}

// SessionUserID returns the user id stored in the session, if any
func SessionUserID(c *gin.Context) (uint, bool) {
	id, ok := sessions.Default(c).Get(SessionUserKey).(uint)
	return id, ok && id != 0
}

// CurrentUser returns the authenticated user of this request
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok && user != nil
}
