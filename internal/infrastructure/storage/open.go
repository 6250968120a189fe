// Package storage elige el RecordStore según STORE_DRIVER.
package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/caja-registradora/internal/domain/repository"
	"github.com/jhoicas/caja-registradora/internal/infrastructure/csvstore"
	"github.com/jhoicas/caja-registradora/internal/infrastructure/memory"
	"github.com/jhoicas/caja-registradora/internal/infrastructure/mongostore"
	"github.com/jhoicas/caja-registradora/internal/infrastructure/postgres"
	"github.com/jhoicas/caja-registradora/internal/infrastructure/redisstore"
	"github.com/jhoicas/caja-registradora/internal/infrastructure/sqlstore"
	"github.com/jhoicas/caja-registradora/pkg/config"
)

// Store RecordStore abierto y su función de cierre.
type Store struct {
	repository.RecordStore
	close func()
}

// Close libera la conexión del backend (no-op en csv y memory).
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// Open abre el backend configurado y crea su esquema si hace falta.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.Store.Driver {
	case config.DriverCSV:
		return &Store{RecordStore: csvstore.New(cfg.Store.DataDir)}, nil

	case config.DriverMemory:
		return &Store{RecordStore: memory.NewRecordStore()}, nil

	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		rs := postgres.NewRecordStore(pool)
		if err := rs.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return &Store{RecordStore: rs, close: pool.Close}, nil

	case config.DriverSQLite, config.DriverMySQL:
		dsn := cfg.Store.SQLDSN
		if cfg.Store.Driver == config.DriverSQLite && !filepath.IsAbs(dsn) {
			dsn = filepath.Join(cfg.Store.DataDir, dsn)
		}
		db, err := sqlstore.Open(ctx, cfg.Store.Driver, dsn)
		if err != nil {
			return nil, err
		}
		rs := sqlstore.NewRecordStore(db)
		if err := rs.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &Store{RecordStore: rs, close: func() { _ = db.Close() }}, nil

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("conexión a Redis: %w", err)
		}
		return &Store{RecordStore: redisstore.NewRecordStore(client), close: func() { _ = client.Close() }}, nil

	case config.DriverMongo:
		client, err := mongostore.Connect(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, err
		}
		rs := mongostore.NewRecordStore(client.Database(cfg.Mongo.Database))
		return &Store{RecordStore: rs, close: func() { _ = client.Disconnect(context.Background()) }}, nil
	}
	return nil, fmt.Errorf("storage: driver %q no soportado", cfg.Store.Driver)
}
