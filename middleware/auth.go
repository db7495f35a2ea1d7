package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/SShoshia/book-giveaway/models"
	"github.com/SShoshia/book-giveaway/services"
	"github.com/SShoshia/book-giveaway/utils"
	"github.com/gin-gonic/gin"
)

// UserLoader resolves a user id to a user
type UserLoader interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

// LoadUser resolves the caller from a bearer token or the session cookie and
// stores the user in the request context. Anonymous requests pass through, and
// so do requests with an unusable token: RequireAuth rejects them where a user
// is needed.
func LoadUser(users UserLoader, jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			if user, ok := tokenUser(c, users, authHeader, jwtSecret); ok {
				c.Set(utils.ContextUserKey, user)
				c.Next()
				return
			}
		}

		userID, ok := utils.SessionUserID(c)
		if !ok {
			c.Next()
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		switch {
		case err == nil:
			c.Set(utils.ContextUserKey, user)
		case errors.Is(err, services.ErrNotFound):
			utils.LogWarn("Session refers to missing user %d, clearing session", userID)
			if err := utils.EndSession(c); err != nil {
				utils.LogError("Failed to clear stale session: %v", err)
			}
		default:
			utils.LogError("Failed to load session user %d: %v", userID, err)
			utils.RenderError(c, utils.InternalError("Internal server error", err))
			c.Abort()
			return
		}
		c.Next()
	}
}

// tokenUser loads the user named by a valid bearer token
func tokenUser(c *gin.Context, users UserLoader, authHeader string, jwtSecret []byte) (*models.User, bool) {
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		utils.LogWarn("Ignoring Authorization header without Bearer scheme")
		return nil, false
	}

	userID, err := utils.ValidateToken(tokenString, jwtSecret)
	if err != nil {
		utils.LogWarn("Ignoring invalid token: %v", err)
		return nil, false
	}

	user, err := users.GetByID(c.Request.Context(), userID)
	if err != nil {
		utils.LogWarn("Token user %d not loaded: %v", userID, err)
		return nil, false
	}
	return user, true
}

// RequireAuth rejects anonymous requests
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.CurrentUser(c); ok {
			c.Next()
			return
		}

		utils.LogDebug("Anonymous request to %s rejected", c.Request.URL.Path)
		if utils.WantsJSON(c) {
			utils.Unauthorized(c, "Please login for access")
			c.Abort()
			return
		}
		utils.AddFlash(c, utils.FlashInfo, utils.MsgLoginRequired)
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
	}
}
