package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StandardResponse represents the standard API response structure
type StandardResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success sends a standardized success response
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, StandardResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// Error sends a standardized error response
func Error(c *gin.Context, statusCode int, message string, err interface{}) {
	response := StandardResponse{
		Status:  "error",
		Message: message,
	}
	if err != nil {
		response.Data = gin.H{"error": err}
	}
	c.JSON(statusCode, response)
}

// BadRequest sends a 400 Bad Request response
func BadRequest(c *gin.Context, message string, err interface{}) {
	Error(c, http.StatusBadRequest, message, err)
}

// Unauthorized sends a 401 Unauthorized response
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message, nil)
}

// InternalServerError sends a 500 Internal Server Error response
func InternalServerError(c *gin.Context, message string, err interface{}) {
	Error(c, http.StatusInternalServerError, message, err)
}

// RenderPage renders an HTML template with the pending flashes and the current user
func RenderPage(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Flashes"] = Flashes(c)
	if user, ok := CurrentUser(c); ok {
		data["CurrentUser"] = user
	}
	c.HTML(status, name, data)
}

// RenderError writes appErr as JSON or as the error page depending on the client
func RenderError(c *gin.Context, appErr *AppError) {
	if appErr.Err != nil {
		LogError("Request %s failed: %v", c.GetString(RequestIDKey), appErr)
	}
	if WantsJSON(c) {
		Error(c, appErr.Code, appErr.Message, nil)
		return
	}
	RenderPage(c, appErr.Code, "error.html", gin.H{
		"Title":   http.StatusText(appErr.Code),
		"Status":  appErr.Code,
		"Message": appErr.Message,
	})
}
