package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/seat-suggest/internal/model"
)

type redisRecord struct {
	ID           string `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Birth        string `json:"birth"`
	PasswordHash string `json:"password_hash"`
}

// RedisUserStore keeps one JSON value per user under "<prefix>:user:<id>"
// and the set of ids under "<prefix>:users". createScript decides
// registration races.
type RedisUserStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisUserStore(rdb *redis.Client, prefix string) *RedisUserStore {
	if prefix == "" {
		prefix = "auth"
	}
	return &RedisUserStore{rdb: rdb, prefix: prefix}
}

func (s *RedisUserStore) userKey(id string) string { return s.prefix + ":user:" + id }
func (s *RedisUserStore) indexKey() string { return s.prefix + ":users" }

// createScript inserts the user and indexes its id in one step.  The index
// is written first so a failing SADD leaves nothing behind.
var createScript = redis.NewScript(`
	if redis.call('EXISTS', KEYS[1]) == 1 then
		return 0
	end
	redis.call('SADD', KEYS[2], ARGV[2])
	redis.call('SET', KEYS[1], ARGV[1])
	return 1
`)

// Create stores u if no user with the same id exists.
func (s *RedisUserStore) Create(ctx context.Context, u model.User) error {
	id := strings.TrimSpace(u.ID)
	payload, err := json.Marshal(redisRecord{
		ID: id, FirstName: u.FirstName, LastName: u.LastName, Birth: u.Birth, PasswordHash: u.PasswordHash,
	})
	if err != nil {
		return err
	}
	created, err := createScript.Run(ctx, s.rdb, []string{s.userKey(id), s.indexKey()}, string(payload), id).Int()
	if err != nil {
		return fmt.Errorf("redis create user: %w", err)
	}
	if created == 0 {
		return model.ErrDuplicateIdentity
	}
	return nil
}

// GetByID fetches a user by id.
func (s *RedisUserStore) GetByID(ctx context.Context, id string) (model.User, error) {
	b, err := s.rdb.Get(ctx, s.userKey(strings.TrimSpace(id))).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.User{}, model.ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("redis get user: %w", err)
	}
	var rec redisRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return model.User{}, fmt.Errorf("decode user %s: %w", id, err)
	}
	return rec.user(), nil
}

// List returns every indexed user ordered by id.
func (s *RedisUserStore) List(ctx context.Context) ([]model.User, error) {
	ids, err := s.rdb.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list users: %w", err)
	}
	if len(ids) == 0 {
		return []model.User{}, nil
	}
	sort.Strings(ids)
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.userKey(id)
	}
	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget users: %w", err)
	}
	out := make([]model.User, 0, len(vals))
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue // indexed but value gone
		}
		var rec redisRecord
		if err := json.Unmarshal([]byte(str), &rec); err != nil {
			return nil, fmt.Errorf("decode user %s: %w", ids[i], err)
		}
		out = append(out, rec.user())
	}
	return out, nil
}

func (r redisRecord) user() model.User {
	return model.User{ID: r.ID, FirstName: r.FirstName, LastName: r.LastName, Birth: r.Birth, PasswordHash: r.PasswordHash}
}
