package services

import (
	"context"
	"errors"
	"strings"

	"github.com/SShoshia/book-giveaway/models"
	"github.com/SShoshia/book-giveaway/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookFilter narrows the catalog listing. Empty fields are ignored.
type BookFilter struct {
	Author string
	Genre  string
}

// BookFields are the owner-editable attributes of a book.
type BookFields struct {
	Title     string `json:"title" form:"title"`
	Author    string `json:"author" form:"author"`
	Genre     string `json:"genre" form:"genre"`
	Condition string `json:"condition" form:"condition"`
	Location  string `json:"location" form:"location"`
}

func (f BookFields) normalized() BookFields {
	return BookFields{
		Title:     strings.TrimSpace(f.Title),
		Author:    strings.TrimSpace(f.Author),
		Genre:     strings.TrimSpace(f.Genre),
		Condition: strings.TrimSpace(f.Condition),
		Location:  strings.TrimSpace(f.Location),
	}
}

// Validate reports the first missing or oversized field.
func (f BookFields) Validate() error {
	checks := []struct {
		field, label, value string
		max                 int
	}{
		{"title", "Title", f.Title, utils.MaxTitleLength},
		{"author", "Author", f.Author, utils.MaxTitleLength},
		{"genre", "Genre", f.Genre, utils.MaxShortFieldLen},
		{"condition", "Condition", f.Condition, utils.MaxShortFieldLen},
		{"location", "Location", f.Location, utils.MaxTitleLength},
	}
	for _, c := range checks {
		if ok, msg := utils.ValidateStringLength(c.label, c.value, c.max); !ok {
			return invalid(c.field, msg)
		}
	}
	return nil
}

// CatalogService stores books and enforces that only owners change them.
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching s literally anywhere in a value.
// Case folding is left to the database so both sides fold the same way.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// List returns books whose author and genre contain the filter values, ignoring case.
func (s *CatalogService) List(ctx context.Context, filter BookFilter) ([]models.Book, error) {
	query := s.db.WithContext(ctx).Model(&models.Book{}).Preload("Owner")
	if author := strings.TrimSpace(filter.Author); author != "" {
		query = query.Where(`LOWER(author) LIKE LOWER(?) ESCAPE '\'`, containsPattern(author))
	}
	if genre := strings.TrimSpace(filter.Genre); genre != "" {
		query = query.Where(`LOWER(genre) LIKE LOWER(?) ESCAPE '\'`, containsPattern(genre))
	}

	books := []models.Book{}
	if err := query.Order("id").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

// ListByOwner returns the books currently owned by userID.
func (s *CatalogService) ListByOwner(ctx context.Context, userID uint) ([]models.Book, error) {
	books := []models.Book{}
	if err := s.db.WithContext(ctx).Where("owner_id = ?", userID).Order("id").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

// Get loads one book with its owner.
func (s *CatalogService) Get(ctx context.Context, bookID uint) (*models.Book, error) {
	var book models.Book
	if err := s.db.WithContext(ctx).Preload("Owner").First(&book, bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &book, nil
}

// Create lists a new book owned by ownerID.
func (s *CatalogService) Create(ctx context.Context, ownerID uint, fields BookFields) (*models.Book, error) {
	fields = fields.normalized()
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	book := &models.Book{
		Title:     fields.Title,
		Author:    fields.Author,
		Genre:     fields.Genre,
		Condition: fields.Condition,
		Location:  fields.Location,
		OwnerID:   ownerID,
	}
	if err := s.db.WithContext(ctx).Omit("Owner").Create(book).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return book, nil
}

// Update overwrites the editable fields of a book owned by editorID.
// Existence and ownership are checked before the fields are validated.
func (s *CatalogService) Update(ctx context.Context, bookID, editorID uint, fields BookFields) (*models.Book, error) {
	fields = fields.normalized()

	var book models.Book
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOwnedBook(tx, bookID, editorID, &book); err != nil {
			return err
		}
		if err := fields.Validate(); err != nil {
			return err
		}
		return tx.Model(&book).Updates(map[string]interface{}{
			"title":     fields.Title,
			"author":    fields.Author,
			"genre":     fields.Genre,
			"condition": fields.Condition,
			"location":  fields.Location,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	book.Title, book.Author, book.Genre = fields.Title, fields.Author, fields.Genre
	book.Condition, book.Location = fields.Condition, fields.Location
	return &book, nil
}

// Delete removes a book owned by requesterID together with its interest records.
func (s *CatalogService) Delete(ctx context.Context, bookID, requesterID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book models.Book
		if err := lockOwnedBook(tx, bookID, requesterID, &book); err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", bookID).Delete(&models.UserBookInterest{}).Error; err != nil {
			return err
		}
		return tx.Delete(&book).Error
	})
}

// lockOwnedBook loads the book for update and checks that userID owns it.
func lockOwnedBook(tx *gorm.DB, bookID, userID uint, book *models.Book) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(book, bookID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if !book.OwnedBy(userID) {
		return ErrForbidden
	}
	return nil
}
