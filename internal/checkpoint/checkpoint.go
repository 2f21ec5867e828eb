package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"filebulletin/internal/redis"
)

// DefaultKey is the stat-store key holding the last-run watermark.
const DefaultKey = "bulletin:lastrun"

// KV is the process-wide key/value stat store the host provides.
// Get must return redis.ErrKeyMissing when the key was never set.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Store persists the single "last run" watermark timestamp.
type Store struct {
	kv  KV
	key string
}

func NewStore(kv KV, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{kv: kv, key: key}
}

// Last returns the stored watermark, or ok=false when it was never set.
func (s *Store) Last(ctx context.Context) (time.Time, bool, error) {
	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, redis.ErrKeyMissing) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("read checkpoint: %w", err)
	}
	nanos, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse checkpoint %q: %w", raw, err)
	}
	return time.Unix(0, nanos).UTC(), true, nil
}

// Advance overwrites the watermark. The value is durable once this returns;
// callers are expected to read once per run and hold the old value locally.
func (s *Store) Advance(ctx context.Context, ts time.Time) error {
	val := strconv.FormatInt(ts.UnixNano(), 10)
	if err := s.kv.Set(ctx, s.key, val, 0); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	return nil
}
