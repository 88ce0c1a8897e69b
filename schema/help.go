package schema

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Article is a single line of a help request, e.g. "milk" x 2
type Article struct {
	Description string `json:"description" bson:"description"`
	Quantity    int    `json:"quantity" bson:"quantity"`
}

// Articles is the ordered article list embedded in a help request row
type Articles []Article

func (a Articles) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

func (a *Articles) Scan(src interface{}) error {
	var source []byte
	switch v := src.(type) {
	case []byte:
		source = v
	case string:
		source = []byte(v)
	default:
		return errors.New("Type assertion .([]byte) failed.")
	}
	return json.Unmarshal(source, a)
}

// Clone returns a copy that shares no backing array with a
func (a Articles) Clone() Articles {
	if a == nil {
		return nil
	}
	c := make(Articles, len(a))
	copy(c, a)
	return c
}

type HelpRequest struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	RequesterID string     `json:"requester_id" gorm:"index"`
	HelperID    string     `json:"helper_id,omitempty"`
	ZipCode     string     `json:"zip_code" gorm:"index"`
	Status      HelpStatus `json:"status" gorm:"index" sql:"default:'PENDING'"`
	Articles    Articles   `json:"articles" gorm:"type:jsonb;not null;default:'[]'"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Requester *Profile `json:"requester,omitempty" gorm:"-"`
}

// Clone returns a deep copy of the request, without the transient requester profile
func (h HelpRequest) Clone() HelpRequest {
	h.Articles = h.Articles.Clone()
	h.Requester = nil
	return h
}
