package otp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "otp:"

// deleteIfCode drops KEYS[1] only while its entry still carries ARGV[1].
var deleteIfCode = redis.NewScript(`
local raw = redis.call("GET", KEYS[1])
if not raw then
	return 0
end
if cjson.decode(raw)["code"] ~= ARGV[1] then
	return 0
end
return redis.call("DEL", KEYS[1])
`)

// RedisStore shares entries between instances.
type RedisStore struct {
	rc *redis.Client
}

func NewRedisStore(rc *redis.Client) *RedisStore {
	return &RedisStore{rc: rc}
}

// NewRedisClient connects and pings so a bad address fails at start-up.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rc := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		rc.Close()
		return nil, errors.Wrapf(err, "failed to connect to redis at %s", addr)
	}
	return rc, nil
}

func (s *RedisStore) key(email string) string {
	return redisKeyPrefix + email
}

func (s *RedisStore) Get(ctx context.Context, email string) (*Entry, error) {
	raw, err := s.rc.Get(ctx, s.key(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "redis get")
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, errors.Wrap(err, "decode otp entry")
	}
	return &entry, nil
}

func (s *RedisStore) Set(ctx context.Context, email string, entry *Entry, ttl time.Duration) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return errors.Wrap(err, "encode otp entry")
	}
	return errors.Wrap(s.rc.Set(ctx, s.key(email), raw, ttl).Err(), "redis set")
}

func (s *RedisStore) Delete(ctx context.Context, email string) (bool, error) {
	n, err := s.rc.Del(ctx, s.key(email)).Result()
	if err != nil {
		return false, errors.Wrap(err, "redis del")
	}
	return n > 0, nil
}

func (s *RedisStore) DeleteIfCode(ctx context.Context, email, code string) (bool, error) {
	n, err := deleteIfCode.Run(ctx, s.rc, []string{s.key(email)}, code).Int64()
	if err != nil {
		return false, errors.Wrap(err, "redis compare and delete")
	}
	return n > 0, nil
}
