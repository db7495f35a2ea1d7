package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SShoshia/book-giveaway/models"
	"github.com/SShoshia/book-giveaway/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// IdentityService registers users and verifies their credentials.
type IdentityService struct {
	db        *gorm.DB
	cost      int
	dummyHash string
}

// NewIdentityService constructs an IdentityService hashing with the given bcrypt cost.
func NewIdentityService(db *gorm.DB, cost int) *IdentityService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	// Compared against when the username is unknown so both failure paths pay for a bcrypt check.
	dummy, _ := utils.HashPassword("bookswap-dummy-password", cost)
	return &IdentityService{db: db, cost: cost, dummyHash: dummy}
}

// Register creates a new user after checking username and email uniqueness.
func (s *IdentityService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if ok, msg := utils.ValidateUsername(username); !ok {
		return nil, invalid("username", msg)
	}
	if ok, msg := utils.ValidateEmail(email); !ok {
		return nil, invalid("email", msg)
	}
	if ok, msg := utils.ValidatePassword(password); !ok {
		return nil, invalid("password", msg)
	}

	hashed, err := utils.HashPassword(password, s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Username: username, Email: email, Password: hashed}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkAvailable(tx, username, email); err != nil {
			return err
		}
		return tx.Create(user).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost a race with a concurrent registration; report which field clashed.
		if cerr := s.checkAvailable(s.db.WithContext(ctx), username, email); cerr != nil {
			return nil, cerr
		}
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *IdentityService) checkAvailable(tx *gorm.DB, username, email string) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUsernameTaken
	}
	if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailTaken
	}
	return nil
}

// Authenticate returns the user when the password matches the stored hash.
// Unknown usernames and wrong passwords both yield ErrInvalidCredentials.
func (s *IdentityService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, ErrNotFound) {
		utils.CheckPassword(password, s.dummyHash)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetByID loads a user by primary key.
func (s *IdentityService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername loads a user by username.
func (s *IdentityService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
