package pg

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/config"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/tracking"
	_ "github.com/lib/pq"
)

type Database struct {
	DB *sql.DB
}

// InitDatabase initializes the database connection and runs migrations.
func InitDatabase(databaseURL string) (*Database, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(config.AppConfig.DBMaxOpenConns)
	db.SetMaxIdleConns(config.AppConfig.DBMaxIdleConns)
	db.SetConnMaxIdleTime(time.Duration(config.AppConfig.DBConnMaxIdleTime) * time.Minute)
	db.SetConnMaxLifetime(time.Duration(config.AppConfig.DBConnMaxLifetime) * time.Minute)

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	return d.DB.Close()
}

// InsertGenerationLog records one generation attempt in the audit log.
func (d *Database) InsertGenerationLog(ctx context.Context, event *tracking.Event) error {
	const query = `
		INSERT INTO generation_logs (id, user_id, feature, outcome, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	var detail sql.NullString
	if event.Detail != "" {
		detail = sql.NullString{String: event.Detail, Valid: true}
	}

	_, err := d.DB.ExecContext(ctx, query,
		event.ID, event.UserID, event.Feature, event.Outcome, detail, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert generation log: %w", err)
	}

	return nil
}

// CountGenerationsSince returns how many attempts a user made since the
// given time, for support and abuse review.
func (d *Database) CountGenerationsSince(ctx context.Context, userID string, since time.Time) (int64, error) {
	const query = `
		SELECT COUNT(*) FROM generation_logs
		WHERE user_id = $1 AND created_at >= $2`

	var count int64
	if err := d.DB.QueryRowContext(ctx, query, userID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count generation logs: %w", err)
	}

	return count, nil
}
