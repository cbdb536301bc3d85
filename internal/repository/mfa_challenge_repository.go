package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrChallengeNotFound is returned when no pending challenge exists for the
// email, either because none was issued or because it has expired.
var ErrChallengeNotFound = errors.New("mfa challenge not found")

// MFAChallenge is the short-lived state between a successful password check
// and code verification. It is the only server-side login state, and it is
// bounded by the store TTL.
type MFAChallenge struct {
	EmployeeID string    `json:"employee_id"`
	Email      string    `json:"email"`
	Code       string    `json:"code"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// MFAChallengeStore persists pending login challenges.
type MFAChallengeStore interface {
	Put(ctx context.Context, challenge *MFAChallenge, ttl time.Duration) error
	Get(ctx context.Context, email string) (*MFAChallenge, error)
	Delete(ctx context.Context, email string) error
}

type redisMFAChallengeStore struct {
	client *redis.Client
}

// NewMFAChallengeStore returns a Redis-backed implementation. Expiry is
// enforced by the key TTL, so abandoned challenges clean themselves up.
func NewMFAChallengeStore(client *redis.Client) MFAChallengeStore {
	return &redisMFAChallengeStore{client: client}
}

func challengeKey(email string) string {
	return "mfa:login:" + email
}

func (s *redisMFAChallengeStore) Put(ctx context.Context, challenge *MFAChallenge, ttl time.Duration) error {
	payload, err := json.Marshal(challenge)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, challengeKey(challenge.Email), payload, ttl).Err()
}

func (s *redisMFAChallengeStore) Get(ctx context.Context, email string) (*MFAChallenge, error) {
	payload, err := s.client.Get(ctx, challengeKey(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}

	var challenge MFAChallenge
	if err := json.Unmarshal(payload, &challenge); err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (s *redisMFAChallengeStore) Delete(ctx context.Context, email string) error {
	return s.client.Del(ctx, challengeKey(email)).Err()
}
