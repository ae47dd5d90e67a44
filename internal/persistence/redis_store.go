package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/petrijr/convo/pkg/api"
)

// RedisStateStore is an api.StateStore backed by Redis. It uses one key
// per user:
//
//	<prefix>state:<user_id> => JSON-encoded redisStatePayload
//
// Keys carry a native Redis expiry matching the conversation expiry, so
// abandoned conversations purge themselves. The payload still stores
// expires_at explicitly because the router's read-time policy is the
// source of truth, not key eviction.
//
// Redis backs conversation state only; permanent records need relational
// queries and go to a SQL-backed api.RecordStore.
type RedisStateStore struct {
	client *redis.Client
	prefix string
}

var _ api.StateStore = (*RedisStateStore)(nil)

type redisStatePayload struct {
	StateID   string          `json:"state_id"`
	Draft     json.RawMessage `json:"draft"`
	ExpiresAt int64           `json:"expires_at"`
}

// NewRedisStateStore creates a RedisStateStore.
// prefix is optional but recommended (e.g. "convo:").
func NewRedisStateStore(client *redis.Client, prefix string) *RedisStateStore {
	if prefix == "" {
		prefix = "convo:"
	}
	return &RedisStateStore{
		client: client,
		prefix: prefix,
	}
}

func (r *RedisStateStore) key(userID int64) string {
	return r.prefix + "state:" + strconv.FormatInt(userID, 10)
}

func (r *RedisStateStore) Load(ctx context.Context, userID int64) (*api.ConversationState, error) {
	data, err := r.client.Get(ctx, r.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, api.ErrStateNotFound
		}
		return nil, err
	}

	var p redisStatePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	d, err := DecodeDraft(p.Draft)
	if err != nil {
		return nil, err
	}

	return &api.ConversationState{
		UserID:    userID,
		StateID:   p.StateID,
		Draft:     d,
		ExpiresAt: time.UnixMilli(p.ExpiresAt),
	}, nil
}

func (r *RedisStateStore) Save(ctx context.Context, st *api.ConversationState) error {
	draft, err := EncodeDraft(st.Draft)
	if err != nil {
		return err
	}
	data, err := json.Marshal(redisStatePayload{
		StateID:   st.StateID,
		Draft:     draft,
		ExpiresAt: st.ExpiresAt.UnixMilli(),
	})
	if err != nil {
		return err
	}

	key := r.key(st.UserID)
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.PExpireAt(ctx, key, st.ExpiresAt)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisStateStore) Clear(ctx context.Context, userID int64) error {
	return r.client.Del(ctx, r.key(userID)).Err()
}

func (r *RedisStateStore) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	// Native key expiry does the real purging; this sweep only catches
	// keys whose stored expiry disagrees with the key TTL.
	var purged int
	iter := r.client.Scan(ctx, 0, r.prefix+"state:*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		data, err := r.client.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return purged, err
		}
		var p redisStatePayload
		if err := json.Unmarshal(data, &p); err != nil {
			continue
		}
		if now.After(time.UnixMilli(p.ExpiresAt)) {
			if err := r.client.Del(ctx, key).Err(); err != nil {
				return purged, err
			}
			purged++
		}
	}
	return purged, iter.Err()
}
