package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/SShoshia/book-giveaway/config"
	"github.com/SShoshia/book-giveaway/services"
	"github.com/SShoshia/book-giveaway/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler serves the HTML pages and JSON endpoints on top of the services
type Handler struct {
	Identity  *services.IdentityService
	Catalog   *services.CatalogService
	Interests *services.InterestService
	Transfers *services.TransferService
	Limiter   *services.LoginLimiter

	JWTSecret []byte
	TokenTTL  time.Duration
}

// NewHandler wires the services for db according to cfg
func NewHandler(cfg *config.Config, db *gorm.DB) *Handler {
	return &Handler{
		Identity:  services.NewIdentityService(db, cfg.BcryptCost),
		Catalog:   services.NewCatalogService(db),
		Interests: services.NewInterestService(db),
		Transfers: services.NewTransferService(db, cfg.TransferRequireInterest),
		Limiter:   services.NewLoginLimiter(cfg.LoginMaxFailures, cfg.LoginWindow),
		JWTSecret: []byte(cfg.JWTSecret),
		TokenTTL:  cfg.JWTTTL,
	}
}

// toAppError maps service errors to HTTP errors
func toAppError(err error) *utils.AppError {
	if appErr := utils.GetAppError(err); appErr != nil {
		return appErr
	}
	var validation *services.ValidationError
	switch {
	case errors.As(err, &validation):
		return utils.BadRequestError(validation.Message, nil)
	case errors.Is(err, services.ErrUsernameTaken):
		return utils.ConflictError(utils.MsgUsernameTaken, nil)
	case errors.Is(err, services.ErrEmailTaken):
		return utils.ConflictError(utils.MsgEmailTaken, nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		return utils.UnauthorizedError(utils.MsgLoginFailed, nil)
	case errors.Is(err, services.ErrRateLimited):
		return utils.TooManyRequestsError(utils.MsgLoginLocked, nil)
	case errors.Is(err, services.ErrForbidden):
		return utils.ForbiddenError(utils.MsgNoPermission, nil)
	case errors.Is(err, services.ErrNotFound):
		return utils.NotFoundError(utils.MsgBookNotFound, nil)
	case errors.Is(err, services.ErrInvalidCandidate):
		return utils.BadRequestError(utils.MsgInvalidCandidate, nil)
	default:
		return utils.InternalError("Internal server error", err)
	}
}

// handleBookError reports a failed book operation on an HTML route.
// Authorization failures go back to the dashboard, input problems back to
// the form at back, and unknown books render the 404 page.
func handleBookError(c *gin.Context, err error, back string) {
	appErr := toAppError(err)
	switch appErr.Code {
	case http.StatusForbidden:
		utils.AddFlash(c, utils.FlashDanger, appErr.Message)
		c.Redirect(http.StatusFound, "/dashboard")
	case http.StatusBadRequest:
		utils.AddFlash(c, utils.FlashDanger, appErr.Message)
		c.Redirect(http.StatusFound, back)
	default:
		utils.RenderError(c, appErr)
	}
}

// bookIDParam parses the :book_id path parameter
func bookIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("book_id"), 10, 64)
	if err != nil || id == 0 {
		utils.LogError("Invalid book id %q", c.Param("book_id"))
		utils.RenderError(c, utils.NotFoundError(utils.MsgBookNotFound, nil))
		return 0, false
	}
	return uint(id), true
}
