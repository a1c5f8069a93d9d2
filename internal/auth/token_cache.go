package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	// verifiedTokenPrefix namespaces cached verification results.
	verifiedTokenPrefix = "verified_token:"
	// expiryBuffer shortens the cache TTL so an entry never outlives the
	// token it was verified from (seconds).
	expiryBuffer = 60
)

// VerificationCache remembers which bearer tokens the OIDC verifier has
// already accepted, keyed by token hash, so repeated requests with the
// same token skip the issuer round trip. Raw tokens are never stored.
type VerificationCache struct {
	Client *redis.Client
}

func NewVerificationCache(client *redis.Client) *VerificationCache {
	return &VerificationCache{Client: client}
}

// GetSubject returns the cached subject for a token, or "" on a miss.
func (c *VerificationCache) GetSubject(ctx context.Context, rawToken string) (string, error) {
	if c.Client == nil {
		return "", fmt.Errorf("redis client not initialized")
	}

	sub, err := c.Client.Get(ctx, cacheKey(rawToken)).Result()
	if err == redis.Nil {
		return "", nil
	} else if err != nil {
		return "", fmt.Errorf("failed to read verification cache: %w", err)
	}
	return sub, nil
}

// SetSubject caches a verified subject until shortly before the token
// expires. Tokens already within the buffer are not cached at all.
func (c *VerificationCache) SetSubject(ctx context.Context, rawToken, subject string, expiresAt time.Time) error {
	if c.Client == nil {
		return fmt.Errorf("redis client not initialized")
	}

	ttl := time.Until(expiresAt) - expiryBuffer*time.Second
	if ttl <= 0 {
		return nil
	}

	if err := c.Client.Set(ctx, cacheKey(rawToken), subject, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store verification result: %w", err)
	}
	return nil
}

func cacheKey(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return verifiedTokenPrefix + hex.EncodeToString(sum[:])
}
