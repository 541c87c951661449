package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// One-time code lifetimes. Verification codes are long-lived because signup
// emails are often read late; reset codes expire quickly.
const (
	VerifyOTPTTL = 24 * time.Hour
	ResetOTPTTL  = 15 * time.Minute
)

// ErrOTPNotFound is returned when no code is stored for the given key, either
// because none was issued or because it expired.
var ErrOTPNotFound = errors.New("otp not found")

// OTPStore holds issued one-time codes, keyed by purpose and user ID.
type OTPStore interface {
	Set(ctx context.Context, purpose, userID, code string, ttl time.Duration) error
	Get(ctx context.Context, purpose, userID string) (string, error)
	Delete(ctx context.Context, purpose, userID string) error
	Close() error
}

// GenerateOTP returns a random 6-digit code, zero-padded.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}

	return fmt.Sprintf("%06d", n.Int64()), nil
}

// RedisOTPStore keeps codes in Redis, letting the server restart without
// invalidating outstanding codes. TTLs are enforced by Redis expiry.
type RedisOTPStore struct {
	client *redis.Client
}

// NewRedisOTPStore connects to Redis using a redis:// URL.
func NewRedisOTPStore(ctx context.Context, redisURL string) (*RedisOTPStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = client.Ping(pingCtx).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisOTPStore{client: client}, nil
}

func otpKey(purpose, userID string) string {
	return "formlane:otp:" + purpose + ":" + userID
}

func (s *RedisOTPStore) Set(ctx context.Context, purpose, userID, code string, ttl time.Duration) error {
	err := s.client.Set(ctx, otpKey(purpose, userID), code, ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}

	return nil
}

func (s *RedisOTPStore) Get(ctx context.Context, purpose, userID string) (string, error) {
	code, err := s.client.Get(ctx, otpKey(purpose, userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrOTPNotFound
		}

		return "", fmt.Errorf("failed to fetch otp: %w", err)
	}

	return code, nil
}

func (s *RedisOTPStore) Delete(ctx context.Context, purpose, userID string) error {
	err := s.client.Del(ctx, otpKey(purpose, userID)).Err()
	if err != nil {
		return fmt.Errorf("failed to delete otp: %w", err)
	}

	return nil
}

func (s *RedisOTPStore) Close() error {
	return s.client.Close()
}

type memoryEntry struct {
	code      string
	expiresAt time.Time
}

// MemoryOTPStore keeps codes in process memory. It serves tests and
// single-instance deployments without Redis.
type MemoryOTPStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

func NewMemoryOTPStore() *MemoryOTPStore {
	return &MemoryOTPStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryOTPStore) Set(_ context.Context, purpose, userID, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[otpKey(purpose, userID)] = memoryEntry{
		code:      code,
		expiresAt: time.Now().Add(ttl),
	}

	return nil
}

func (s *MemoryOTPStore) Get(_ context.Context, purpose, userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[otpKey(purpose, userID)]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(s.entries, otpKey(purpose, userID))

		return "", ErrOTPNotFound
	}

	return entry.code, nil
}

func (s *MemoryOTPStore) Delete(_ context.Context, purpose, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, otpKey(purpose, userID))

	return nil
}

func (s *MemoryOTPStore) Close() error {
	return nil
}
