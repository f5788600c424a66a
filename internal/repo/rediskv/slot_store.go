package rediskv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gunvolt24/rocketshoes_cart/internal/ports"
	"github.com/go-redis/redis/v8"
)

var _ ports.CartStorage = (*SlotStore)(nil)

// SlotStore — слот корзины как обычный строковый ключ Redis (GET/SET без TTL).
type SlotStore struct {
	client redis.UniversalClient
}

func NewSlotStore(client redis.UniversalClient) *SlotStore { return &SlotStore{client: client} }

// NewClient — клиент по URL ("redis://...") или по адресу "host:port"; Ping для fail-fast.
func NewClient(ctx context.Context, addr string) (*redis.Client, error) {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{
			Addr:         addr,
			MinIdleConns: 1,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
		}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func (s *SlotStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %q: %w", key, err)
	}
	return v, true, nil
}

func (s *SlotStore) Save(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}
