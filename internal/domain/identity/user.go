package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/lager/backend/internal/domain/shared"
)

// User identifies a person performing stock operations. Movement ledger
// entries reference users by ID so history views can show who acted.
type User struct {
	shared.BaseEntity
	Username    string `gorm:"type:varchar(100);not null;uniqueIndex:idx_user_username"`
	DisplayName string `gorm:"type:varchar(255);not null"`
	Active      bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new active user
func NewUser(username, displayName string) (*User, error) {
	if username == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Username cannot be empty")
	}
	if displayName == "" {
		displayName = username
	}

	return &User{
		BaseEntity:  shared.NewBaseEntity(),
		Username:    username,
		DisplayName: displayName,
		Active:      true,
	}, nil
}

// UserRepository defines the persistence interface for users
type UserRepository interface {
	// FindByID retrieves a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	// FindByIDs retrieves users for a set of IDs, for label resolution
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]User, error)
	// FindByUsername retrieves a user by their unique username
	FindByUsername(ctx context.Context, username string) (*User, error)
	// Save persists a user
	Save(ctx context.Context, user *User) error
}
