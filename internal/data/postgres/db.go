package postgres

import (
	"context"
	"fmt"

	"github.com/akolanti/AcademyAssistant/internal/config"
	"github.com/akolanti/AcademyAssistant/pkg/logger_i"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Open connects, sizes the pool and pings. The pool is closed when ctx ends.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	log := logger_i.NewLogger("postgres")

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(config.PostgresMaxOpenConns)
	db.SetMaxIdleConns(config.PostgresMaxIdleConns)
	db.SetConnMaxIdleTime(config.PostgresConnMaxIdle)

	pingCtx, cancel := context.WithTimeout(ctx, config.PostgresConnectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("database connection established")

	go func() {
		<-ctx.Done()
		log.Info("closing database connection")
		if err := db.Close(); err != nil {
			log.Error("could not close database", "error", err)
		}
	}()
	return db, nil
}
