package app

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
	"github.com/vladislavdragonenkov/storefront/internal/storage/postgres"
)

// Dependencies содержит хранилища приложения.
type Dependencies struct {
	Users    domain.UserRepository
	Products domain.ProductRepository
	Orders   domain.OrderRepository
	Timeline domain.TimelineRepository

	// store не nil только для драйвера postgres.
	store  *postgres.Store
	Logger *log.Entry
}

// NewDependencies инициализирует хранилища согласно конфигурации.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	driver := strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	switch driver {
	case "", "memory":
		logger.Info("используем in-memory хранилище")
		return &Dependencies{
			Users:    memory.NewUserRepository(),
			Products: memory.NewProductRepository(),
			Orders:   memory.NewOrderRepository(),
			Timeline: memory.NewTimelineRepository(),
			Logger:   logger,
		}, nil

	case "postgres":
		dsn := strings.TrimSpace(cfg.PostgresDSN)
		if dsn == "" {
			return nil, fmt.Errorf("postgres driver requires a DSN")
		}

		store, err := postgres.Open(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}

		if cfg.PostgresAutoMigrate {
			if err := store.EnsureSchema(ctx); err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("apply migrations: %w", err)
			}
			logger.Info("postgres миграции применены")
		}

		logger.Info("используем postgres хранилище")
		return &Dependencies{
			Users:    postgres.NewUserRepository(store),
			Products: postgres.NewProductRepository(store),
			Orders:   postgres.NewOrderRepository(store),
			Timeline: postgres.NewTimelineRepository(store),
			store:    store,
			Logger:   logger,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.StorageDriver)
	}
}

// Ready проверяет доступность хранилища. In-memory всегда готово.
func (d *Dependencies) Ready(ctx context.Context) error {
	if d.store == nil {
		return nil
	}
	return d.store.Ping(ctx)
}

// Close освобождает ресурсы хранилища.
func (d *Dependencies) Close() error {
	if d.store == nil {
		return nil
	}
	return d.store.Close()
}
