package models

import (
	"time"
)

// User represents a registered member who can list and receive books
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Book represents a used book listed by its current owner
type Book struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Author    string    `gorm:"size:255;not null;index" json:"author"`
	Genre     string    `gorm:"size:100;not null;index" json:"genre"`
	Condition string    `gorm:"size:100;not null" json:"condition"`
	Location  string    `gorm:"size:255;not null" json:"location"`
	OwnerID   uint      `gorm:"not null;index" json:"owner_id"`
	Owner     User      `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"owner,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnedBy reports whether userID currently holds the book.
func (b Book) OwnedBy(userID uint) bool {
	return userID != 0 && b.OwnerID == userID
}
