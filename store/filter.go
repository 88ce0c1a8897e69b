package store

import (
	"github.com/jinzhu/gorm"
	"github.com/lib/pq"

	"github.com/bitmark-inc/neighbor-api/schema"
)

// HelpRequestQuery is a conjunction of optional predicates over help requests.
// A zero value matches every record.
type HelpRequestQuery struct {
	RequesterID string
	ZipCodes    []string
	Statuses    []schema.HelpStatus
}

// Match evaluates the query against a single record. Requester equality is
// checked before the set memberships since it is the most selective.
func (q HelpRequestQuery) Match(h *schema.HelpRequest) bool {
	if q.RequesterID != "" && h.RequesterID != q.RequesterID {
		return false
	}

	if len(q.ZipCodes) > 0 && !containsString(q.ZipCodes, h.ZipCode) {
		return false
	}

	if len(q.Statuses) > 0 {
		found := false
		for _, s := range q.Statuses {
			if s == h.Status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// apply renders the query as gorm conditions
func (q HelpRequestQuery) apply(db *gorm.DB) *gorm.DB {
	if q.RequesterID != "" {
		db = db.Where("requester_id = ?", q.RequesterID)
	}

	if len(q.ZipCodes) > 0 {
		db = db.Where("zip_code = ANY(?)", pq.Array(q.ZipCodes))
	}

	if len(q.Statuses) > 0 {
		statuses := make([]string, 0, len(q.Statuses))
		for _, s := range q.Statuses {
			statuses = append(statuses, string(s))
		}
		db = db.Where("status = ANY(?)", pq.Array(statuses))
	}

	return db
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
