package config

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/lnascimentosilva/library/internal/utils"

	_ "github.com/doug-martin/goqu/v9/dialect/mysql"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

var (
	DB      *sql.DB
	Dialect = DriverSQLite
	dbMu    sync.Mutex
)

// GoquDialect maps a database/sql driver name to the goqu dialect name.
func GoquDialect(driver string) string {
	if driver == DriverSQLite {
		return "sqlite3"
	}
	return driver
}

// ConnectDB initializes the shared DB connection (idempotent).
func ConnectDB(cfg DBConfig) (*sql.DB, error) {
	dbMu.Lock()
	defer dbMu.Unlock()

	if DB != nil {
		return DB, nil
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	if cfg.Driver == DriverSQLite {
		// sqlite serializes writers; one connection avoids SQLITE_BUSY and
		// keeps ":memory:" databases alive.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}

	DB = db
	Dialect = cfg.Driver
	utils.Log().Info("database connected", zap.String("driver", cfg.Driver))
	return DB, nil
}

func CloseDB() {
	dbMu.Lock()
	defer dbMu.Unlock()

	if DB != nil {
		_ = DB.Close()
		DB = nil
	}
}
