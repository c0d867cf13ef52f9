package database

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schemaSQL string

var DB *sqlx.DB

func InitDB(dsn string) (*sqlx.DB, error) {
	var err error
	DB, err = sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(5)
	DB.SetConnMaxLifetime(5 * time.Minute)

	log.Info("Successfully connected to the database")
	return DB, nil
}

// Migrate applies the embedded schema. Every statement is IF NOT EXISTS, so it is safe on every boot.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("error applying schema: %w", err)
	}
	return nil
}

func CloseDB() error {
	if DB != nil {
		if err := DB.Close(); err != nil {
			return fmt.Errorf("error closing database connection: %w", err)
		}
		log.Info("Database connection closed")
	}
	return nil
}
