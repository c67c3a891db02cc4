package database

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            VARCHAR(255) COLLATE utf8mb4_bin NOT NULL PRIMARY KEY,
		first_name    VARCHAR(100) NOT NULL DEFAULT '',
		last_name     VARCHAR(100) NOT NULL DEFAULT '',
		birth         VARCHAR(32)  NOT NULL DEFAULT '',
		password_hash VARCHAR(255) NOT NULL,
		created_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS reserved_seats (
		row_label   VARCHAR(8) NOT NULL,
		seat_number INT        NOT NULL,
		created_at  DATETIME   NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (row_label, seat_number)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates the tables used by the MySQL stores when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
