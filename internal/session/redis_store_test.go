package session

import (
	"context"
	"testing"
	"time"
)

func TestRedisStore_KeyCarriesTTL(t *testing.T) {
	clock := newFakeClock()
	s, mr := newTestRedisStore(t, clock)
	token := mustCreate(t, s)

	key := "test:session:" + token
	if !mr.Exists(key) {
		t.Fatalf("key %s not written", key)
	}
	if ttl := mr.TTL(key); ttl != testPolicy.IdleTimeout {
		t.Errorf("TTL = %v, want %v", ttl, testPolicy.IdleTimeout)
	}

	clock.Advance(time.Minute)
	if !s.Validate(context.Background(), token) {
		t.Fatal("Validate failed")
	}
	if ttl := mr.TTL(key); ttl != testPolicy.IdleTimeout {
		t.Errorf("TTL after renew = %v, want %v", ttl, testPolicy.IdleTimeout)
	}
}

func TestRedisStore_NativeExpiry(t *testing.T) {
	clock := newFakeClock()
	s, mr := newTestRedisStore(t, clock)
	token := mustCreate(t, s)

	mr.FastForward(testPolicy.IdleTimeout + time.Second)
	if s.Validate(context.Background(), token) {
		t.Fatal("key should have expired in redis")
	}
}

func TestRedisStore_CorruptValueRemoved(t *testing.T) {
	clock := newFakeClock()
	s, mr := newTestRedisStore(t, clock)
	token := mustCreate(t, s)

	key := "test:session:" + token
	if err := mr.Set(key, "not json"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if s.Validate(context.Background(), token) {
		t.Fatal("Validate of corrupt value should fail")
	}
	if mr.Exists(key) {
		t.Error("corrupt value should be deleted")
	}
}

func TestRedisStore_SweepIgnoresOtherPrefixes(t *testing.T) {
	clock := newFakeClock()
	s, mr := newTestRedisStore(t, clock)

	if err := mr.Set("other:key", "not json"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := mr.Set("test:session:broken", "not json"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	removed, err := s.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if removed != 1 {
		t.Errorf("Sweep removed %d, want 1", removed)
	}
	if !mr.Exists("other:key") {
		t.Error("Sweep touched a key outside its prefix")
	}
}
