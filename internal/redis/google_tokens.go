package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gomodule/redigo/redis"
	"github.com/studyhub/studyhub-backend/internal/model"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const googleTokenPrefix = "google_token:"

// GoogleTokenRepository stores the per-user Google Calendar credential.
// Add refuses to overwrite an existing link; callers fall back to Set
// after re-authenticating.
type GoogleTokenRepository struct {
	pool   *redis.Pool
	logger *zap.SugaredLogger
}

func NewGoogleTokenRepository(pool *redis.Pool, logger *zap.SugaredLogger) *GoogleTokenRepository {
	return &GoogleTokenRepository{pool: pool, logger: logger}
}

func (r *GoogleTokenRepository) Add(ctx context.Context, userID string, token *oauth2.Token) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}

	reply, err := redis.String(conn.Do("SET", googleTokenPrefix+userID, data, "NX"))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			return model.ErrAlreadyExists
		}
		return fmt.Errorf("SET: %w", err)
	}
	if reply != "OK" {
		return model.ErrAlreadyExists
	}

	return nil
}

func (r *GoogleTokenRepository) Set(ctx context.Context, userID string, token *oauth2.Token) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}

	if _, err := conn.Do("SET", googleTokenPrefix+userID, data); err != nil {
		return fmt.Errorf("SET: %w", err)
	}

	return nil
}

func (r *GoogleTokenRepository) Get(ctx context.Context, userID string) (*oauth2.Token, error) {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	data, err := redis.Bytes(conn.Do("GET", googleTokenPrefix+userID))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			return nil, model.ErrNoRecord
		}
		return nil, fmt.Errorf("GET: %w", err)
	}

	token := &oauth2.Token{}
	if err := json.Unmarshal(data, token); err != nil {
		return nil, fmt.Errorf("unmarshal token: %w", err)
	}

	return token, nil
}
