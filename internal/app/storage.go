package app

import (
	"context"
	"fmt"

	"github.com/Gunvolt24/rocketshoes_cart/config"
	"github.com/Gunvolt24/rocketshoes_cart/internal/ports"
	"github.com/Gunvolt24/rocketshoes_cart/internal/repo/memory"
	"github.com/Gunvolt24/rocketshoes_cart/internal/repo/postgres"
	"github.com/Gunvolt24/rocketshoes_cart/internal/repo/rediskv"
)

// openStorage — слот корзины по драйверу из конфига и функция закрытия его ресурсов.
func openStorage(ctx context.Context, cfg *config.Config, log ports.Logger) (ports.CartStorage, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		log.Warnf(ctx, "storage driver=memory: cart is lost on restart")
		return memory.NewSlotStore(), func() {}, nil

	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres pool: %w", err)
		}
		if cfg.Postgres.Migrate {
			n, err := postgres.Migrate(ctx, pool)
			if err != nil {
				pool.Close()
				return nil, nil, fmt.Errorf("postgres migrate: %w", err)
			}
			log.Infof(ctx, "postgres migrations applied: %d", n)
		}
		return postgres.NewSlotRepository(pool), pool.Close, nil

	case config.StorageRedis:
		client, err := rediskv.NewClient(ctx, cfg.Redis.Addr)
		if err != nil {
			return nil, nil, fmt.Errorf("redis client: %w", err)
		}
		closeFn := func() {
			if err := client.Close(); err != nil {
				log.Warnf(context.Background(), "redis close: %v", err)
			}
		}
		return rediskv.NewSlotStore(client), closeFn, nil

	default:
		return nil, nil, fmt.Errorf("%w: storage driver %q", config.ErrInvalidConfig, cfg.Storage.Driver)
	}
}
