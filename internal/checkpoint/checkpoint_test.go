package checkpoint

import (
	"context"
	"sync"
	"testing"
	"time"

	"filebulletin/internal/redis"
)

type memKV struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string]string)}
}

func (m *memKV) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redis.ErrKeyMissing
	}
	return val, nil
}

func (m *memKV) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value.(string)
	return nil
}

func TestLastReturnsFalseWhenUnset(t *testing.T) {
	store := NewStore(newMemKV(), "")
	_, ok, err := store.Last(context.Background())
	if err != nil {
		t.Fatalf("last: %v", err)
	}
	if ok {
		t.Fatalf("expected no checkpoint on fresh store")
	}
}

func TestAdvanceThenLastRoundTrip(t *testing.T) {
	store := NewStore(newMemKV(), "test:lastrun")
	want := time.Date(2026, 4, 2, 8, 30, 0, 123456789, time.UTC)
	if err := store.Advance(context.Background(), want); err != nil {
		t.Fatalf("advance: %v", err)
	}
	got, ok, err := store.Last(context.Background())
	if err != nil {
		t.Fatalf("last: %v", err)
	}
	if !ok {
		t.Fatalf("expected checkpoint present after advance")
	}
	if !got.Equal(want) {
		t.Fatalf("round trip mismatch: want %v got %v", want, got)
	}
}

func TestAdvanceOverwrites(t *testing.T) {
	store := NewStore(newMemKV(), "test:lastrun")
	first := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)
	ctx := context.Background()
	if err := store.Advance(ctx, first); err != nil {
		t.Fatalf("advance first: %v", err)
	}
	if err := store.Advance(ctx, second); err != nil {
		t.Fatalf("advance second: %v", err)
	}
	got, _, err := store.Last(ctx)
	if err != nil {
		t.Fatalf("last: %v", err)
	}
	if !got.Equal(second) {
		t.Fatalf("expected %v after overwrite, got %v", second, got)
	}
}

func TestBadStoredValue(t *testing.T) {
	kv := newMemKV()
	kv.data[DefaultKey] = "not-a-number"
	store := NewStore(kv, DefaultKey)
	if _, _, err := store.Last(context.Background()); err == nil {
		t.Fatalf("expected error for corrupt checkpoint value")
	}
}
