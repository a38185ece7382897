package sql

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/databricks/databricks-sql-go"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/snowflakedb/gosnowflake"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite     = "sqlite"
	DriverPostgres   = "pgx"
	DriverDatabricks = "databricks"
	DriverSnowflake  = "snowflake"
)

var supportedDrivers = []string{DriverSQLite, DriverPostgres, DriverDatabricks, DriverSnowflake}

type Settings struct {
	Driver string
	DSN    string
}

// Open returns a handle for the configured driver. No connection is made
// until the first query.
func Open(settings Settings) (*sql.DB, error) {
	if !isSupported(settings.Driver) {
		return nil, fmt.Errorf("unsupported database driver %q, supported drivers: %v", settings.Driver, supportedDrivers)
	}
	if settings.DSN == "" {
		return nil, fmt.Errorf("database dsn is required for driver %q", settings.Driver)
	}

	db, err := sql.Open(settings.Driver, settings.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", settings.Driver, err)
	}
	return db, nil
}

// Rebind rewrites "?" placeholders into the positional form the driver expects
func Rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isSupported(driver string) bool {
	for _, d := range supportedDrivers {
		if d == driver {
			return true
		}
	}
	return false
}
