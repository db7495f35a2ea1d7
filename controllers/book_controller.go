package controllers

import (
	"fmt"
	"net/http"

	"github.com/SShoshia/book-giveaway/services"
	"github.com/SShoshia/book-giveaway/utils"
	"github.com/gin-gonic/gin"
)

// Home lists all books, optionally filtered by author and genre
func (h *Handler) Home(c *gin.Context) {
	filter := services.BookFilter{
		Author: c.Query("author"),
		Genre:  c.Query("genre"),
	}

	books, err := h.Catalog.List(c.Request.Context(), filter)
	if err != nil {
		utils.RenderError(c, utils.InternalError("Failed to load books", err))
		return
	}

	interested := map[uint]bool{}
	if user, ok := utils.CurrentUser(c); ok {
		ids, err := h.Interests.ListBookIDs(c.Request.Context(), user.ID)
		if err != nil {
			utils.RenderError(c, utils.InternalError("Failed to load interests", err))
			return
		}
		for _, id := range ids {
			interested[id] = true
		}
	}

	utils.RenderPage(c, http.StatusOK, "home.html", gin.H{
		"Books":      books,
		"Filter":     filter,
		"Interested": interested,
	})
}

// Dashboard lists the books owned by the current user
func (h *Handler) Dashboard(c *gin.Context) {
	user, _ := utils.CurrentUser(c)

	books, err := h.Catalog.ListByOwner(c.Request.Context(), user.ID)
	if err != nil {
		utils.RenderError(c, utils.InternalError("Failed to load your books", err))
		return
	}

	utils.RenderPage(c, http.StatusOK, "dashboard.html", gin.H{
		"Books": books,
	})
}

// CreateBook handles the JSON book creation endpoint
func (h *Handler) CreateBook(c *gin.Context) {
	user, _ := utils.CurrentUser(c)

	var req services.BookFields
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("CreateBook - Invalid request body: %v", err)
		utils.BadRequest(c, "Invalid request body", "Expected a JSON object with title, author, genre, condition and location")
		return
	}

	book, err := h.Catalog.Create(c.Request.Context(), user.ID, req)
	if err != nil {
		appErr := toAppError(err)
		if appErr.Err != nil {
			utils.LogError("CreateBook failed for user %d: %v", user.ID, appErr)
		}
		utils.Error(c, appErr.Code, appErr.Message, nil)
		return
	}

	utils.LogInfo("Book created: %s (ID: %d) by user %d", book.Title, book.ID, user.ID)
	utils.Success(c, utils.MsgBookCreatedJSON, gin.H{"id": book.ID})
}

// ShowManageBook renders the create form, or the edit form for an owned book
func (h *Handler) ShowManageBook(c *gin.Context) {
	if c.Param("book_id") == "" {
		utils.RenderPage(c, http.StatusOK, "manage_book.html", gin.H{
			"Action": "/manage_book",
		})
		return
	}

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
		utils.LogError("User %d attempted to edit book %d owned by %d", user.ID, book.ID, book.OwnerID)
		handleBookError(c, services.ErrForbidden, "/dashboard")
		return
	}

	utils.RenderPage(c, http.StatusOK, "manage_book.html", gin.H{
		"Book":   book,
		"Action": fmt.Sprintf("/manage_book/%d", book.ID),
	})
}

// ManageBook creates a book, or updates one when a book id is present
func (h *Handler) ManageBook(c *gin.Context) {
	user, _ := utils.CurrentUser(c)

	var fields services.BookFields
	if err := c.ShouldBind(&fields); err != nil {
		utils.LogError("ManageBook - Invalid form: %v", err)
		utils.AddFlash(c, utils.FlashDanger, "Invalid book form.")
		c.Redirect(http.StatusFound, c.Request.URL.Path)
		return
	}

	if c.Param("book_id") == "" {
		book, err := h.Catalog.Create(c.Request.Context(), user.ID, fields)
		if err != nil {
			handleBookError(c, err, "/manage_book")
			return
		}
		utils.LogInfo("Book created: %s (ID: %d) by user %d", book.Title, book.ID, user.ID)
		utils.AddFlash(c, utils.FlashSuccess, utils.MsgBookCreated)
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	bookID, ok := bookIDParam(c)
	if !ok {
		return
	}
	book, err := h.Catalog.Update(c.Request.Context(), bookID, user.ID, fields)
	if err != nil {
		utils.LogError("Update of book %d by user %d failed: %v", bookID, user.ID, err)
		handleBookError(c, err, fmt.Sprintf("/manage_book/%d", bookID))
		return
	}

	utils.LogInfo("Book updated: %s (ID: %d)", book.Title, book.ID)
	utils.AddFlash(c, utils.FlashSuccess, utils.MsgBookUpdated)
	c.Redirect(http.StatusFound, "/dashboard")
}

// DeleteBook removes a book owned by the current user
func (h *Handler) DeleteBook(c *gin.Context) {
	bookID, ok := bookIDParam(c)
	if !ok {
		return
	}
	user, _ := utils.CurrentUser(c)

	if err := h.Catalog.Delete(c.Request.Context(), bookID, user.ID); err != nil {
		utils.LogError("Delete of book %d by user %d failed: %v", bookID, user.ID, err)
		handleBookError(c, err, "/dashboard")
		return
	}

	utils.LogInfo("Book deleted (ID: %d) by user %d", bookID, user.ID)
	utils.AddFlash(c, utils.FlashSuccess, utils.MsgBookDeleted)
	c.Redirect(http.StatusFound, "/dashboard")
}
