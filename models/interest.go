package models

import (
	"time"
)

// UserBookInterest records that a user would like to receive a book
type UserBookInterest struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_interest_user_book"`
	User      User      `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	BookID    uint      `json:"book_id" gorm:"not null;uniqueIndex:idx_interest_user_book;index"`
	Book      Book      `json:"-" gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
}
