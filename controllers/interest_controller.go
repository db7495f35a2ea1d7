package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/SShoshia/book-giveaway/services"
	"github.com/SShoshia/book-giveaway/utils"
	"github.com/gin-gonic/gin"
)

// UpdateInterest replaces the current user's interests with the submitted book ids
func (h *Handler) UpdateInterest(c *gin.Context) {
	user, _ := utils.CurrentUser(c)

	raw := c.PostFormArray("interests")
	bookIDs := make([]uint, 0, len(raw))
	for _, value := range raw {
		id, err := strconv.ParseUint(value, 10, 64)
		if err != nil || id == 0 {
			utils.LogError("UpdateInterest - invalid book id %q from user %d", value, user.ID)
			utils.AddFlash(c, utils.FlashDanger, "Invalid book selection.")
			c.Redirect(http.StatusFound, "/home")
			return
		}
		bookIDs = append(bookIDs, uint(id))
	}

	err := h.Interests.ReplaceInterests(c.Request.Context(), user.ID, bookIDs)
	if errors.Is(err, services.ErrNotFound) {
		utils.AddFlash(c, utils.FlashDanger, "One of the selected books is no longer available.")
		c.Redirect(http.StatusFound, "/home")
		return
	}
	if err != nil {
		utils.RenderError(c, utils.InternalError("Failed to update interests", err))
		return
	}

	utils.LogInfo("User %d is now interested in %d books", user.ID, len(bookIDs))
	utils.AddFlash(c, utils.FlashSuccess, utils.MsgInterestsUpdated)
	c.Redirect(http.StatusFound, "/home")
}

// ViewInterestedUsers lists the users interested in a book owned by the current user
func (h *Handler) ViewInterestedUsers(c *gin.Context) {
	bookID, ok := bookIDParam(c)
	if !ok {
		return
	}
	user, _ := utils.CurrentUser(c)

	book, err := h.Catalog.Get(c.Request.Context(), bookID)
	if err != nil {
		handleBookError(c, err, "/dashboard")
		return
	}
	if !book.OwnedBy(user.ID) {
		utils.LogError("User %d attempted to view interest in book %d owned by %d", user.ID, book.ID, book.OwnerID)
		handleBookError(c, services.ErrForbidden, "/dashboard")
		return
	}

	users, err := h.Interests.ListInterestedUsers(c.Request.Context(), bookID)
	if err != nil {
		utils.RenderError(c, utils.InternalError("Failed to load interested users", err))
		return
	}

	utils.RenderPage(c, http.StatusOK, "view_interested_users.html", gin.H{
		"Book":  book,
		"Users": users,
	})
}

// TransferBook hands the book over to the selected interested user
func (h *Handler) TransferBook(c *gin.Context) {
	bookID, ok := bookIDParam(c)
	if !ok {
		return
	}
	user, _ := utils.CurrentUser(c)
	back := fmt.Sprintf("/view_interested_users/%d", bookID)

	selected := c.PostForm("selected_user")
	if selected == "" {
		utils.AddFlash(c, utils.FlashDanger, utils.MsgNoCandidate)
		c.Redirect(http.StatusFound, back)
		return
	}
	candidateID, err := strconv.ParseUint(selected, 10, 64)
	if err != nil {
		utils.LogError("TransferBook - invalid candidate %q", selected)
		utils.AddFlash(c, utils.FlashDanger, utils.MsgInvalidCandidate)
		c.Redirect(http.StatusFound, back)
		return
	}

	if err := h.Transfers.TransferOwnership(c.Request.Context(), bookID, user.ID, uint(candidateID)); err != nil {
		utils.LogError("Transfer of book %d from user %d to %d failed: %v", bookID, user.ID, candidateID, err)
		handleBookError(c, err, back)
		return
	}

	utils.AddFlash(c, utils.FlashSuccess, utils.MsgTransferSuccess)
	c.Redirect(http.StatusFound, "/dashboard")
}

// Health reports that the server is up
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
