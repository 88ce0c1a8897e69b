package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bitmark-inc/neighbor-api/schema"
)

// ProfileWriter stores display profiles of accounts
type ProfileWriter interface {
	CreateProfile(ctx context.Context, profile schema.Profile) error
}

// CreateProfile inserts the display profile of a newly registered account
func (m *mongoDB) CreateProfile(ctx context.Context, profile schema.Profile) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().UTC()
	}

	c := m.client.Database(m.database).Collection(schema.ProfileCollection)
	if _, err := c.InsertOne(ctx, profile); err != nil {
		return persistenceError("create profile", err)
	}
	return nil
}

// GetProfile finds the profile of an account
func (m *mongoDB) GetProfile(ctx context.Context, accountID string) (*schema.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	c := m.client.Database(m.database).Collection(schema.ProfileCollection)

	var profile schema.Profile
	if err := c.FindOne(ctx, bson.M{"account_id": accountID}).Decode(&profile); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProfileNotFound
		}
		return nil, persistenceError("get profile", err)
	}

	return &profile, nil
}

// GetProfiles finds profiles of a batch of accounts in one query. Accounts
// without a profile are absent from the returned map.
func (m *mongoDB) GetProfiles(ctx context.Context, accountIDs []string) (map[string]schema.Profile, error) {
	profiles := make(map[string]schema.Profile, len(accountIDs))
	if len(accountIDs) == 0 {
		return profiles, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	c := m.client.Database(m.database).Collection(schema.ProfileCollection)
	cursor, err := c.Find(ctx, bson.M{"account_id": bson.M{"$in": accountIDs}})
	if err != nil {
		return nil, persistenceError("get profiles", err)
	}

	var result []schema.Profile
	if err := cursor.All(ctx, &result); err != nil {
		return nil, persistenceError("get profiles", err)
	}

	for _, p := range result {
		profiles[p.AccountID] = p
	}

	return profiles, nil
}
