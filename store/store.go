package store

import (
	"context"
	"time"

	"github.com/jinzhu/gorm"

	"github.com/bitmark-inc/neighbor-api/schema"
)

// HelpRequestMutation changes a help request in place. Returning an error
// aborts the update and nothing is written.
type HelpRequestMutation func(*schema.HelpRequest) error

// HelpRequestStore persists help requests. UpdateHelpRequest is atomic per id:
// concurrent updates of the same request never interleave.
type HelpRequestStore interface {
	InsertHelpRequest(ctx context.Context, h *schema.HelpRequest) (*schema.HelpRequest, error)
	GetHelpRequest(ctx context.Context, id string) (*schema.HelpRequest, error)
	FindHelpRequests(ctx context.Context, q HelpRequestQuery) ([]schema.HelpRequest, error)
	UpdateHelpRequest(ctx context.Context, id string, mutate HelpRequestMutation) (*schema.HelpRequest, error)
	ExpireHelpRequests(ctx context.Context, createdBefore time.Time) (int64, error)
}

// AccountStore keeps login identities
type AccountStore interface {
	CreateAccount(ctx context.Context, email, passwordHash string) (*schema.Account, error)
	GetAccount(ctx context.Context, id string) (*schema.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*schema.Account, error)
	DeleteAccount(ctx context.Context, id string) error
}

// UserDirectory resolves account ids to display profiles
type UserDirectory interface {
	GetProfile(ctx context.Context, accountID string) (*schema.Profile, error)
	GetProfiles(ctx context.Context, accountIDs []string) (map[string]schema.Profile, error)
}

// NeighborCore is the relational datastore of the service
type NeighborCore interface {
	Pinger
	AccountStore
	HelpRequestStore
}

// NeighborStore is an implementation of NeighborCore
type NeighborStore struct {
	ormDB *gorm.DB
}

func NewNeighborStore(ormDB *gorm.DB) *NeighborStore {
	return &NeighborStore{
		ormDB: ormDB,
	}
}

// Migrate creates or updates the tables used by the store
func (s *NeighborStore) Migrate() error {
	if err := s.ormDB.AutoMigrate(&schema.Account{}, &schema.HelpRequest{}).Error; err != nil {
		return err
	}

	// expiry scans pending requests by age
	return s.ormDB.Model(&schema.HelpRequest{}).
		AddIndex("idx_help_requests_status_created_at", "status", "created_at").Error
}

// Ping is to check the storage health status
func (s *NeighborStore) Ping() error {
	return s.ormDB.DB().Ping()
}
