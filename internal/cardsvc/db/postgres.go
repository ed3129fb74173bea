// Package db owns the Postgres pool backing the card store.
package db

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const connectTimeout = 5 * time.Second

var DB *pgxpool.Pool

// Connect opens the pool from POSTGRES_URL and pings it so a bad DSN fails
// at startup instead of on the first card request.
func Connect() (*pgxpool.Pool, error) {
	dsn := os.Getenv("POSTGRES_URL")
	if dsn == "" {
		return nil, errors.New("POSTGRES_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	DB = pool

	return pool, nil
}

// ClosePool releases the pool on shutdown. Safe to call when Connect never
// succeeded.
func ClosePool() {
	if DB != nil {
		DB.Close()
	}
}
