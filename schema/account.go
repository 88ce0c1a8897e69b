package schema

import (
	"time"

	"github.com/google/uuid"
)

// Account is the login identity of a user. Display data lives in Profile.
type Account struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Email        string    `json:"email" gorm:"unique_index;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
