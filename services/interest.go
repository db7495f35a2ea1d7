package services

import (
	"context"

	"github.com/SShoshia/book-giveaway/models"
	"gorm.io/gorm"
)

// InterestService keeps track of which users want which books.
type InterestService struct {
	db *gorm.DB
}

// NewInterestService constructs an InterestService.
func NewInterestService(db *gorm.DB) *InterestService {
	return &InterestService{db: db}
}

// ReplaceInterests makes bookIDs the complete interest set of userID.
// The previous set is discarded, not merged. Unknown book ids abort the
// whole replacement with ErrNotFound.
func (s *InterestService) ReplaceInterests(ctx context.Context, userID uint, bookIDs []uint) error {
	ids := dedupe(bookIDs)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(ids) > 0 {
			var found int64
			if err := tx.Model(&models.Book{}).Where("id IN ?", ids).Count(&found).Error; err != nil {
				return err
			}
			if found != int64(len(ids)) {
				return ErrNotFound
			}
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.UserBookInterest{}).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		rows := make([]models.UserBookInterest, 0, len(ids))
		for _, id := range ids {
			rows = append(rows, models.UserBookInterest{UserID: userID, BookID: id})
		}
		return tx.Omit("User", "Book").Create(&rows).Error
	})
}

// ListInterestedUsers returns the users interested in bookID ordered by id.
func (s *InterestService) ListInterestedUsers(ctx context.Context, bookID uint) ([]models.User, error) {
	users := []models.User{}
	err := s.db.WithContext(ctx).
		Joins("JOIN user_book_interests ON user_book_interests.user_id = users.id").
		Where("user_book_interests.book_id = ?", bookID).
		Order("users.id").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ListBookIDs returns the ids of the books userID is interested in.
func (s *InterestService) ListBookIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids := []uint{}
	err := s.db.WithContext(ctx).Model(&models.UserBookInterest{}).
		Where("user_id = ?", userID).
		Order("book_id").
		Pluck("book_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// IsInterested reports whether userID currently wants bookID.
func (s *InterestService) IsInterested(ctx context.Context, userID, bookID uint) (bool, error) {
	return isInterested(s.db.WithContext(ctx), userID, bookID)
}

// Retract removes the interest of userID in bookID. Missing rows are not an error.
func (s *InterestService) Retract(ctx context.Context, userID, bookID uint) error {
	return retract(s.db.WithContext(ctx), userID, bookID)
}

func isInterested(tx *gorm.DB, userID, bookID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.UserBookInterest{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&count).Error
	return count > 0, err
}

func retract(tx *gorm.DB, userID, bookID uint) error {
	return tx.Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&models.UserBookInterest{}).Error
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
