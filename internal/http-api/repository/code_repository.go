package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoCode is returned when no confirmation code is stored for the
// username: never issued, expired, or already consumed.
var ErrNoCode = errors.New("no confirmation code issued")

// CodeRepository stores issued confirmation-code hashes. A code lives under
// its username with a TTL; re-issuing overwrites the previous entry and
// consuming deletes it, so each code is single-use.
type CodeRepository interface {
	Store(ctx context.Context, username, codeHash string, ttl time.Duration) error
	Get(ctx context.Context, username string) (string, error)
	Delete(ctx context.Context, username string) error
}

type codeRepository struct {
	client *redis.Client
}

func NewCodeRepository(client *redis.Client) CodeRepository {
	return &codeRepository{client: client}
}

func codeKey(username string) string {
	return fmt.Sprintf("confirmation_code:%s", username)
}

func (r *codeRepository) Store(ctx context.Context, username, codeHash string, ttl time.Duration) error {
	if err := r.client.Set(ctx, codeKey(username), codeHash, ttl).Err(); err != nil {
		return fmt.Errorf("store confirmation code: %w", err)
	}
	return nil
}

func (r *codeRepository) Get(ctx context.Context, username string) (string, error) {
	hash, err := r.client.Get(ctx, codeKey(username)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoCode
	}
	if err != nil {
		return "", fmt.Errorf("get confirmation code: %w", err)
	}
	return hash, nil
}

func (r *codeRepository) Delete(ctx context.Context, username string) error {
	if err := r.client.Del(ctx, codeKey(username)).Err(); err != nil {
		return fmt.Errorf("delete confirmation code: %w", err)
	}
	return nil
}
