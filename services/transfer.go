package services

import (
	"context"
	"errors"

	"github.com/SShoshia/book-giveaway/models"
	"github.com/SShoshia/book-giveaway/utils"
	"gorm.io/gorm"
)

// TransferService hands a book over from its owner to an interested user.
type TransferService struct {
	db              *gorm.DB
	requireInterest bool
}

// NewTransferService constructs a TransferService. With requireInterest set,
// the recipient must currently be interested in the book.
func NewTransferService(db *gorm.DB, requireInterest bool) *TransferService {
	return &TransferService{db: db, requireInterest: requireInterest}
}

// TransferOwnership makes candidateID the owner of bookID and retracts the
// candidate's interest in it. Both writes commit together or not at all.
func (s *TransferService) TransferOwnership(ctx context.Context, bookID, requesterID, candidateID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book models.Book
		if err := lockOwnedBook(tx, bookID, requesterID, &book); err != nil {
			return err
		}
		if candidateID == 0 || candidateID == book.OwnerID {
			return ErrInvalidCandidate
		}

		var candidate models.User
		if err := tx.First(&candidate, candidateID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidCandidate
			}
			return err
		}

		if s.requireInterest {
			interested, err := isInterested(tx, candidateID, bookID)
			if err != nil {
				return err
			}
			if !interested {
				return ErrInvalidCandidate
			}
		}

		res := tx.Model(&models.Book{}).
			Where("id = ? AND owner_id = ?", bookID, requesterID).
			Update("owner_id", candidateID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return ErrForbidden
		}

		return retract(tx, candidateID, bookID)
	})
	if err != nil {
		return err
	}

	utils.LogInfo("Book %d transferred from user %d to user %d", bookID, requesterID, candidateID)
	return nil
}
