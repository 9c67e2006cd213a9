package db

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cantina-chat/internal/xpkg/config"
	"cantina-chat/internal/xpkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

const connectTimeout = 10 * time.Second

type DB struct {
	ctx   context.Context
	cfg   *config.Postgres
	mylog logger.Logger
	pool  *pgxpool.Pool
	mu    *sync.Mutex
}

// Start opens a connection pool and verifies it with a ping.
func Start(ctx context.Context, dbCfg *config.Postgres, mylog logger.Logger) (*DB, error) {
	if dbCfg == nil {
		return nil, fmt.Errorf("database config is missing")
	}
	d := &DB{
		ctx:   ctx,
		cfg:   dbCfg,
		mylog: mylog,
		mu:    &sync.Mutex{},
	}

	if err := d.connect(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *DB) GetPool() *pgxpool.Pool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pool
}

func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pool != nil {
		d.pool.Close()
		d.pool = nil
	}
	return nil
}

// IsAlive pings the pool, reconnecting once if the ping fails.
func (d *DB) IsAlive() error {
	pool := d.GetPool()
	if pool == nil {
		return fmt.Errorf("DB is not initialized")
	}
	ctx, cancel := context.WithTimeout(d.ctx, connectTimeout)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		if err := d.connect(); err != nil {
			return fmt.Errorf("ping failed: %w", err)
		}
	}
	return nil
}

func (d *DB) connect() error {
	poolCfg, err := pgxpool.ParseConfig(fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		d.cfg.User,
		d.cfg.Password,
		d.cfg.Host,
		d.cfg.Port,
		d.cfg.Database,
	))
	if err != nil {
		return fmt.Errorf("parse database config: %w", err)
	}

	ctx, cancel := context.WithTimeout(d.ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	d.mu.Lock()
	old := d.pool
	d.pool = pool
	d.mu.Unlock()
	if old != nil {
		old.Close()
	}
	return nil
}
