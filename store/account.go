package store

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"github.com/lib/pq"

	"github.com/bitmark-inc/neighbor-api/schema"
)

// CreateAccount is to register an account with an already hashed password
func (s *NeighborStore) CreateAccount(ctx context.Context, email, passwordHash string) (*schema.Account, error) {
	a := schema.Account{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
	}

	if err := s.ormDB.Create(&a).Error; err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, ErrAccountTaken
		}
		return nil, persistenceError("create account", err)
	}

	return &a, nil
}

// GetAccount returns an account instance of a given account id
func (s *NeighborStore) GetAccount(ctx context.Context, id string) (*schema.Account, error) {
	accountID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrAccountNotFound
	}

	return s.findAccount("id = ?", accountID)
}

// GetAccountByEmail returns the account registered with an email
func (s *NeighborStore) GetAccountByEmail(ctx context.Context, email string) (*schema.Account, error) {
	return s.findAccount("email = ?", strings.ToLower(strings.TrimSpace(email)))
}

// DeleteAccount removes an account, used to roll back a half finished registration
func (s *NeighborStore) DeleteAccount(ctx context.Context, id string) error {
	accountID, err := uuid.Parse(id)
	if err != nil {
		return ErrAccountNotFound
	}

	result := s.ormDB.Where("id = ?", accountID).Delete(&schema.Account{})
	if err := result.Error; err != nil {
		return persistenceError("delete account", err)
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (s *NeighborStore) findAccount(query string, args ...interface{}) (*schema.Account, error) {
	var a schema.Account
	if err := s.ormDB.Where(query, args...).First(&a).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, ErrAccountNotFound
		}
		return nil, persistenceError("get account", err)
	}
	return &a, nil
}
