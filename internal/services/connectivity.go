package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	// Database drivers
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// PingDatabase opens a short-lived driver-level connection, bypassing the
// GORM pool, and pings it. Used by the health endpoint to verify the store
// is reachable independently of the ORM.
func PingDatabase(dsn string, timeout time.Duration) error {
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	driverName := "postgres"

	// go-sql-driver DSNs are not URLs; accept them behind a mysql:// prefix.
	if strings.HasPrefix(dsn, "mysql://") {
		driverName = "mysql"
		dsn = strings.TrimPrefix(dsn, "mysql://")
	}

	conn, err := sql.Open(driverName, dsn)

	if err != nil {
		return fmt.Errorf("failed to open a database connection: %v", err)
	}

	defer conn.Close()

	if err := conn.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %v", err)
	}

	return nil
}
