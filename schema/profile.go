package schema

import "time"

const (
	ProfileCollection = "profile"
)

// Profile - user profile data shown next to help requests
type Profile struct {
	AccountID string    `json:"account_id" bson:"account_id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
