package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"

	"github.com/bitmark-inc/neighbor-api/schema"
)

const profileCacheKeyPrefix = "profile:"

// CachedDirectory keeps recently resolved profiles in redis in front of
// another UserDirectory. A redis failure only costs a lookup in the backing
// directory.
type CachedDirectory struct {
	next  UserDirectory
	redis redis.Cmdable
	ttl   time.Duration
	log   *log.Entry
}

func NewCachedDirectory(next UserDirectory, client redis.Cmdable, ttl time.Duration) *CachedDirectory {
	return &CachedDirectory{
		next:  next,
		redis: client,
		ttl:   ttl,
		log:   log.WithField("prefix", "profile-cache"),
	}
}

func profileCacheKey(accountID string) string {
	return profileCacheKeyPrefix + accountID
}

func (d *CachedDirectory) GetProfile(ctx context.Context, accountID string) (*schema.Profile, error) {
	if p, ok := d.cached(ctx, accountID); ok {
		return p, nil
	}

	p, err := d.next.GetProfile(ctx, accountID)
	if err != nil {
		return nil, err
	}

	d.store(ctx, *p)
	return p, nil
}

func (d *CachedDirectory) GetProfiles(ctx context.Context, accountIDs []string) (map[string]schema.Profile, error) {
	profiles := make(map[string]schema.Profile, len(accountIDs))
	missing := make([]string, 0, len(accountIDs))

	for _, id := range accountIDs {
		if p, ok := d.cached(ctx, id); ok {
			profiles[id] = *p
		} else {
			missing = append(missing, id)
		}
	}

	if len(missing) == 0 {
		return profiles, nil
	}

	fetched, err := d.next.GetProfiles(ctx, missing)
	if err != nil {
		return nil, err
	}

	for id, p := range fetched {
		profiles[id] = p
		d.store(ctx, p)
	}

	return profiles, nil
}

func (d *CachedDirectory) cached(ctx context.Context, accountID string) (*schema.Profile, bool) {
	data, err := d.redis.Get(ctx, profileCacheKey(accountID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			d.log.WithError(err).Warn("fail to read cached profile")
		}
		return nil, false
	}

	var p schema.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		d.log.WithError(err).Warn("drop malformed cached profile")
		return nil, false
	}

	return &p, true
}

func (d *CachedDirectory) store(ctx context.Context, p schema.Profile) {
	data, err := json.Marshal(p)
	if err != nil {
		return
	}

	if err := d.redis.Set(ctx, profileCacheKey(p.AccountID), data, d.ttl).Err(); err != nil {
		d.log.WithError(err).Warn("fail to cache profile")
	}
}
