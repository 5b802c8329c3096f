package cmd

import (
	"context"
	"fmt"

	"github.com/jamspace/jamspace/internal/config"
	"github.com/jamspace/jamspace/internal/db"
	"github.com/jmoiron/sqlx"
)

// openStore connects to the database named by DB_DRIVER and DB_CONNECTION.
func openStore(ctx context.Context) (*sqlx.DB, string, error) {
	driver, connection := config.LoadDatabase()

	database, err := db.Init(ctx, driver, connection)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open database: %w", err)
	}
	return database, driver, nil
}
