package controllers

import (
	"errors"
	"net/http"

	"github.com/SShoshia/book-giveaway/models"
	"github.com/SShoshia/book-giveaway/services"
	"github.com/SShoshia/book-giveaway/utils"
	"github.com/gin-gonic/gin"
)

// RegisterRequest represents the registration form
type RegisterRequest struct {
	Username string `form:"username"`
	Email    string `form:"email"`
	Password string `form:"password"`
}

// LoginRequest represents the login form and the token request body
type LoginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// Root redirects to the listing
func (h *Handler) Root(c *gin.Context) {
	c.Redirect(http.StatusFound, "/home")
}

// ShowRegister renders the registration form
func (h *Handler) ShowRegister(c *gin.Context) {
	utils.RenderPage(c, http.StatusOK, "register.html", nil)
}

// Register handles user registration
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.LogError("Registration attempt failed - Invalid request format: %v", err)
		utils.AddFlash(c, utils.FlashDanger, "Invalid registration form.")
		c.Redirect(http.StatusFound, "/register")
		return
	}

	utils.LogInfo("Registration attempt for username: %s", req.Username)

	user, err := h.Identity.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		appErr := toAppError(err)
		if appErr.Code == http.StatusInternalServerError {
			utils.RenderError(c, appErr)
			return
		}
		utils.LogError("Registration attempt failed for username %s: %v", req.Username, err)
		utils.AddFlash(c, utils.FlashDanger, appErr.Message)
		c.Redirect(http.StatusFound, "/register")
		return
	}

	utils.LogInfo("User registered successfully: %s (ID: %d)", user.Username, user.ID)
	utils.AddFlash(c, utils.FlashSuccess, utils.MsgRegisterSuccess)
	c.Redirect(http.StatusFound, "/login")
}

// ShowLogin renders the login form
func (h *Handler) ShowLogin(c *gin.Context) {
	utils.RenderPage(c, http.StatusOK, "login.html", nil)
}

// Login authenticates the form credentials and starts a session
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.LogError("Login attempt failed - Invalid request format: %v", err)
		utils.AddFlash(c, utils.FlashDanger, utils.MsgLoginFailed)
		utils.RenderPage(c, http.StatusOK, "login.html", gin.H{"Username": req.Username})
		return
	}

	user, err := h.authenticate(c, req)
	if err != nil {
		appErr := toAppError(err)
		if appErr.Code == http.StatusInternalServerError {
			utils.RenderError(c, appErr)
			return
		}
		utils.AddFlash(c, utils.FlashDanger, appErr.Message)
		utils.RenderPage(c, http.StatusOK, "login.html", gin.H{"Username": req.Username})
		return
	}

	if err := utils.StartSession(c, user.ID); err != nil {
		utils.RenderError(c, utils.InternalError("Failed to start session", err))
		return
	}

	utils.LogInfo("User logged in successfully: %s", user.Username)
	utils.AddFlash(c, utils.FlashSuccess, utils.MsgLoginSuccess)
	c.Redirect(http.StatusFound, "/dashboard")
}

// Logout clears the session
func (h *Handler) Logout(c *gin.Context) {
	if user, ok := utils.CurrentUser(c); ok {
		utils.LogInfo("User logged out: %s", user.Username)
	}
	if err := utils.EndSession(c); err != nil {
		utils.LogError("Failed to clear session: %v", err)
	}
	c.Redirect(http.StatusFound, "/home")
}

// IssueToken exchanges credentials for a bearer token used by the JSON API
func (h *Handler) IssueToken(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", "username and password are required")
		return
	}

	user, err := h.authenticate(c, req)
	if err != nil {
		appErr := toAppError(err)
		if appErr.Err != nil {
			utils.LogError("Token request failed: %v", appErr)
		}
		utils.Error(c, appErr.Code, appErr.Message, nil)
		return
	}

	token, expiresAt, err := utils.GenerateToken(user.ID, user.Username, h.JWTSecret, h.TokenTTL)
	if err != nil {
		utils.LogError("Failed to generate token for user %s: %v", user.Username, err)
		utils.InternalServerError(c, "Failed to generate token", nil)
		return
	}

	utils.Success(c, "Token issued", gin.H{
		"token":      token,
		"expires_at": expiresAt,
	})
}

// authenticate applies login throttling around the identity check
func (h *Handler) authenticate(c *gin.Context, req LoginRequest) (*models.User, error) {
	ip := c.ClientIP()
	if allowed, retryAfter := h.Limiter.Allow(req.Username, ip); !allowed {
		utils.LogWarn("Login attempt blocked for %s from %s, retry in %v", req.Username, ip, retryAfter)
		return nil, services.ErrRateLimited
	}

	user, err := h.Identity.Authenticate(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		utils.LogError("Login attempt failed for username: %s", req.Username)
		h.Limiter.Failure(req.Username, ip)
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	h.Limiter.Success(req.Username, ip)
	return user, nil
}
