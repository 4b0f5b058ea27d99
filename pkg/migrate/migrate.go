package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/pressly/goose/v3"
)

const (
	// DefaultDir holds the catalog, orders and sample-seed migrations.
	DefaultDir = "pkg/migrate/migrations"
	dialect    = "postgres"
)

func prepare(conn *sql.DB, dir string) error {
	if conn == nil {
		return errors.New("db is required")
	}
	if dir == "" {
		return errors.New("dir is required")
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return nil
}

// Run executes a goose command such as up, down or status against dir.
func Run(ctx context.Context, conn *sql.DB, dir string, command string, args ...string) error {
	if err := prepare(conn, dir); err != nil {
		return err
	}
	if err := goose.RunContext(ctx, command, conn, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// Up applies every pending migration in dir.
func Up(ctx context.Context, conn *sql.DB, dir string) error {
	return Run(ctx, conn, dir, "up")
}

// ParseVersion accepts a goose timestamp version (YYYYMMDDHHMMSS).
func ParseVersion(raw string) (int64, error) {
	if _, err := time.Parse(versionLayout, raw); err != nil {
		return 0, fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS)", raw)
	}
	return strconv.ParseInt(raw, 10, 64)
}

// MigrateToVersion moves the schema up or down until it sits at version.
func MigrateToVersion(ctx context.Context, conn *sql.DB, dir string, version string) error {
	target, err := ParseVersion(version)
	if err != nil {
		return err
	}
	if err := prepare(conn, dir); err != nil {
		return err
	}

	current, err := goose.GetDBVersion(conn)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}
	switch {
	case current < target:
		err = goose.UpToContext(ctx, conn, dir, target)
	case current > target:
		err = goose.DownToContext(ctx, conn, dir, target)
	}
	if err != nil {
		return fmt.Errorf("goose migrate %d -> %d: %w", current, target, err)
	}
	return nil
}
