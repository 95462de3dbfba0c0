package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// ErrNotFound indica token desconhecido ou expirado.
var ErrNotFound = errors.New("sessão não encontrada")

type redisCommander interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Store guarda o vínculo token → usuário no Redis.
type Store struct {
	redis redisCommander
	ttl   time.Duration
}

// NewStore cria store com expiração fixa por sessão.
func NewStore(client redisCommander, ttl time.Duration) *Store {
	return &Store{redis: client, ttl: ttl}
}

// TTL devolve a validade configurada.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Create abre sessão para o usuário e devolve o token opaco.
func (s *Store) Create(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	if err := s.redis.Set(ctx, keyPrefix+token, strconv.FormatInt(userID, 10), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("gravar sessão: %w", err)
	}
	return token, nil
}

// Lookup resolve o usuário de um token.
func (s *Store) Lookup(ctx context.Context, token string) (int64, error) {
	if _, err := uuid.Parse(token); err != nil {
		return 0, ErrNotFound
	}

	val, err := s.redis.Get(ctx, keyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("ler sessão: %w", err)
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, ErrNotFound
	}
	return userID, nil
}

// Destroy remove a sessão; token inexistente não é erro.
func (s *Store) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.redis.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("remover sessão: %w", err)
	}
	return nil
}
