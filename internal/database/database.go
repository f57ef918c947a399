package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"fraud_report_backend/pkg/utils"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Options tunes the connection pool.
type Options struct {
	MaxOpenConns int
	MaxIdleConns int
	SchemaPath   string
}

// InitDB opens and verifies the PostgreSQL connection pool, then applies the schema file if one is configured.
func InitDB(ctx context.Context, dsn string, opts Options) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	utils.LogInfo("Successfully connected to the database")

	if err := applySchema(ctx, db, opts.SchemaPath); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// applySchema reads and executes the schema file. An empty path is a no-op.
func applySchema(ctx context.Context, db *sql.DB, schemaPath string) error {
	if schemaPath == "" {
		utils.LogDebug("No schema path provided, skipping schema application")
		return nil
	}
	content, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("could not read schema file %s: %w", schemaPath, err)
	}

	if _, err = db.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("could not execute schema script: %w", err)
	}
	utils.LogInfo("Database schema applied", map[string]interface{}{"path": schemaPath})
	return nil
}
