package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/gomodule/redigo/redis"
	"github.com/studyhub/studyhub-backend/internal/config"
	"github.com/studyhub/studyhub-backend/internal/model"
	"go.uber.org/zap"
)

const (
	refreshTokenPrefix = "refresh_token:"
	userSessionsPrefix = "user_sessions:"
)

type RefreshTokenRepository struct {
	pool   *redis.Pool
	logger *zap.SugaredLogger
}

func NewRefreshTokenRepository(pool *redis.Pool, logger *zap.SugaredLogger) *RefreshTokenRepository {
	return &RefreshTokenRepository{pool: pool, logger: logger}
}

func (r *RefreshTokenRepository) Add(ctx context.Context, session string, id int64) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	ttl := int(config.SessionTTl().Seconds())

	reply, err := redis.String(conn.Do("SET", refreshTokenPrefix+session, id, "NX", "EX", ttl))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			return model.ErrAlreadyExists
		}
		return fmt.Errorf("SET: %w", err)
	}
	if reply != "OK" {
		return model.ErrAlreadyExists
	}

	if _, err := conn.Do("SADD", fmt.Sprintf("%v%v", userSessionsPrefix, id), session); err != nil {
		return fmt.Errorf("SADD: %w", err)
	}

	return nil
}

func (r *RefreshTokenRepository) Get(ctx context.Context, session string) (int64, error) {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	id, err := redis.Int64(conn.Do("GET", refreshTokenPrefix+session))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			return 0, model.ErrNoRecord
		}
		return 0, fmt.Errorf("GET: %w", err)
	}

	return id, nil
}

// Refresh atomically replaces an old session token with a new one.
func (r *RefreshTokenRepository) Refresh(ctx context.Context, old, new string) error {
	id, err := r.Get(ctx, old)
	if err != nil {
		return err
	}

	if err := r.Delete(ctx, old); err != nil {
		return err
	}

	return r.Add(ctx, new, id)
}

func (r *RefreshTokenRepository) Delete(ctx context.Context, session string) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	id, err := redis.Int64(conn.Do("GET", refreshTokenPrefix+session))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			return model.ErrNoRecord
		}
		return fmt.Errorf("GET: %w", err)
	}

	if _, err := conn.Do("DEL", refreshTokenPrefix+session); err != nil {
		return fmt.Errorf("DEL: %w", err)
	}

	if _, err := conn.Do("SREM", fmt.Sprintf("%v%v", userSessionsPrefix, id), session); err != nil {
		return fmt.Errorf("SREM: %w", err)
	}

	return nil
}

// DeleteByUserID drops every session of one user.
func (r *RefreshTokenRepository) DeleteByUserID(ctx context.Context, id int64) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	setKey := fmt.Sprintf("%v%v", userSessionsPrefix, id)

	sessions, err := redis.Strings(conn.Do("SMEMBERS", setKey))
	if err != nil {
		return fmt.Errorf("SMEMBERS: %w", err)
	}

	for _, s := range sessions {
		if _, err := conn.Do("DEL", refreshTokenPrefix+s); err != nil {
			return fmt.Errorf("DEL: %w", err)
		}
	}

	if _, err := conn.Do("DEL", setKey); err != nil {
		return fmt.Errorf("DEL: %w", err)
	}

	return nil
}
