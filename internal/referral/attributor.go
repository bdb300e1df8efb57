package referral

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	pkgerrors "github.com/markwize/quotewizard-backend/pkg/errors"
	"github.com/markwize/quotewizard-backend/pkg/redis"
)

const refParam = "ref"

// SessionStore persists one referral code per visitor. The stored value
// outlives any single wizard session and survives resets.
type SessionStore interface {
	Get(ctx context.Context, visitorID string) (string, error)
	Set(ctx context.Context, visitorID, code string) error
}

// RedisStore keeps referral codes in redis without an expiry.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore builds a redis-backed referral store.
func NewRedisStore(client *redis.Client) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Get(ctx context.Context, visitorID string) (string, error) {
	value, err := s.client.Get(ctx, s.client.ReferralKey(visitorID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read referral code")
	}
	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, visitorID, code string) error {
	if err := s.client.Set(ctx, s.client.ReferralKey(visitorID), code, 0); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store referral code")
	}
	return nil
}

// MemoryStore is an in-process store for tests.
type MemoryStore struct {
	mu    sync.Mutex
	codes map[string]string
}

// NewMemoryStore builds an empty in-memory referral store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{codes: map[string]string{}}
}

func (s *MemoryStore) Get(ctx context.Context, visitorID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[visitorID], nil
}

func (s *MemoryStore) Set(ctx context.Context, visitorID, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[visitorID] = code
	return nil
}

// Attributor captures referral codes from entry URLs and resolves them
// at submission time.
type Attributor struct {
	store SessionStore
}

// NewAttributor builds the attributor over the given store.
func NewAttributor(store SessionStore) (*Attributor, error) {
	if store == nil {
		return nil, fmt.Errorf("session store required")
	}
	return &Attributor{store: store}, nil
}

// Capture inspects the entry URL for a referral parameter and, when
// present, overwrites the visitor's stored code. Absent or empty
// parameters leave the stored value untouched.
func (a *Attributor) Capture(ctx context.Context, visitorID, entryURL string) (string, error) {
	if strings.TrimSpace(visitorID) == "" || strings.TrimSpace(entryURL) == "" {
		return "", nil
	}
	parsed, err := url.Parse(entryURL)
	if err != nil {
		return "", nil
	}
	code := strings.TrimSpace(parsed.Query().Get(refParam))
	if code == "" {
		return "", nil
	}
	if err := a.store.Set(ctx, visitorID, code); err != nil {
		return "", err
	}
	return code, nil
}

// Lookup returns the visitor's stored referral code, or empty.
func (a *Attributor) Lookup(ctx context.Context, visitorID string) (string, error) {
	if strings.TrimSpace(visitorID) == "" {
		return "", nil
	}
	return a.store.Get(ctx, visitorID)
}
