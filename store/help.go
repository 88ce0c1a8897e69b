package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"

	"github.com/bitmark-inc/neighbor-api/schema"
)

// InsertHelpRequest creates a help request entry with a fresh id and timestamps
func (s *NeighborStore) InsertHelpRequest(ctx context.Context, h *schema.HelpRequest) (*schema.HelpRequest, error) {
	if len(h.Articles) == 0 {
		return nil, persistenceError("insert help request", ErrEmptyArticles)
	}

	help := h.Clone()
	help.ID = uuid.New()
	now := time.Now().UTC()
	help.CreatedAt = now
	help.UpdatedAt = now

	if err := s.ormDB.Create(&help).Error; err != nil {
		return nil, persistenceError("insert help request", err)
	}
	return &help, nil
}

func (s *NeighborStore) GetHelpRequest(ctx context.Context, id string) (*schema.HelpRequest, error) {
	helpID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrHelpRequestNotFound
	}

	var help schema.HelpRequest
	if err := s.ormDB.Where("id = ?", helpID).First(&help).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, ErrHelpRequestNotFound
		}
		return nil, persistenceError("get help request", err)
	}

	return &help, nil
}

// FindHelpRequests returns help requests matching every predicate of q in creation order
func (s *NeighborStore) FindHelpRequests(ctx context.Context, q HelpRequestQuery) ([]schema.HelpRequest, error) {
	helps := []schema.HelpRequest{}

	if err := q.apply(s.ormDB.Model(&schema.HelpRequest{})).
		Order("created_at ASC").
		Find(&helps).Error; err != nil {
		return nil, persistenceError("find help requests", err)
	}

	return helps, nil
}

// UpdateHelpRequest locks the row with `FOR UPDATE`, applies the mutation and
// writes the changed columns in the same transaction.
func (s *NeighborStore) UpdateHelpRequest(ctx context.Context, id string, mutate HelpRequestMutation) (*schema.HelpRequest, error) {
	helpID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrHelpRequestNotFound
	}

	tx := s.ormDB.Begin()
	if err := tx.Error; err != nil {
		return nil, persistenceError("update help request", err)
	}

	var help schema.HelpRequest
	if err := tx.Set("gorm:query_option", "FOR UPDATE").Where("id = ?", helpID).First(&help).Error; err != nil {
		tx.Rollback()
		if gorm.IsRecordNotFoundError(err) {
			return nil, ErrHelpRequestNotFound
		}
		return nil, persistenceError("update help request", err)
	}

	if err := mutate(&help); err != nil {
		tx.Rollback()
		return nil, err
	}

	if len(help.Articles) == 0 {
		tx.Rollback()
		return nil, persistenceError("update help request", ErrEmptyArticles)
	}

	help.UpdatedAt = time.Now().UTC()
	if err := tx.Model(&schema.HelpRequest{}).Where("id = ?", helpID).Updates(map[string]interface{}{
		"helper_id":  help.HelperID,
		"zip_code":   help.ZipCode,
		"status":     help.Status,
		"articles":   help.Articles,
		"updated_at": help.UpdatedAt,
	}).Error; err != nil {
		tx.Rollback()
		return nil, persistenceError("update help request", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, persistenceError("update help request", err)
	}

	return &help, nil
}

// ExpireHelpRequests cancels pending help requests created before the cut-off
func (s *NeighborStore) ExpireHelpRequests(ctx context.Context, createdBefore time.Time) (int64, error) {
	result := s.ormDB.Model(&schema.HelpRequest{}).
		Where("status = ? AND created_at <= ?", schema.HelpPending, createdBefore).
		Updates(map[string]interface{}{
			"status":     schema.HelpCancelled,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return 0, persistenceError("expire help requests", result.Error)
	}

	return result.RowsAffected, nil
}
