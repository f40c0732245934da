package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lnascimentosilva/library/internal/utils"

	"go.uber.org/zap"
)

// Tables in dependency order: children before parents.
var Tables = []string{
	"audit_logs",
	"order_history",
	"order_items",
	"orders",
	"book_authors",
	"books",
	"users",
	"categories",
	"authors",
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS authors (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(40) NOT NULL,
		INDEX idx_authors_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS categories (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(40) NOT NULL,
		UNIQUE KEY uk_categories_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		created_at DATETIME(6) NOT NULL,
		name VARCHAR(40) NOT NULL,
		email VARCHAR(70) NOT NULL,
		password VARCHAR(100) NOT NULL,
		user_type VARCHAR(20) NOT NULL,
		UNIQUE KEY uk_users_email (email),
		INDEX idx_users_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS books (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(150) NOT NULL,
		description TEXT NOT NULL,
		category_id BIGINT NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		INDEX idx_books_title (title),
		CONSTRAINT fk_books_category FOREIGN KEY (category_id) REFERENCES categories (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS book_authors (
		book_id BIGINT NOT NULL,
		author_id BIGINT NOT NULL,
		position INT NOT NULL,
		PRIMARY KEY (book_id, author_id),
		CONSTRAINT fk_book_authors_book FOREIGN KEY (book_id) REFERENCES books (id),
		CONSTRAINT fk_book_authors_author FOREIGN KEY (author_id) REFERENCES authors (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		created_at DATETIME(6) NOT NULL,
		customer_id BIGINT NOT NULL,
		total DECIMAL(12,2) NOT NULL,
		current_status VARCHAR(20) NOT NULL,
		INDEX idx_orders_created_at (created_at),
		CONSTRAINT fk_orders_customer FOREIGN KEY (customer_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		order_id BIGINT NOT NULL,
		book_id BIGINT NOT NULL,
		quantity INT NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		CONSTRAINT fk_order_items_order FOREIGN KEY (order_id) REFERENCES orders (id),
		CONSTRAINT fk_order_items_book FOREIGN KEY (book_id) REFERENCES books (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS order_history (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		order_id BIGINT NOT NULL,
		status VARCHAR(20) NOT NULL,
		created_at DATETIME(6) NOT NULL,
		CONSTRAINT fk_order_history_order FOREIGN KEY (order_id) REFERENCES orders (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		created_at DATETIME(6) NOT NULL,
		user_email VARCHAR(70) NOT NULL DEFAULT '',
		action VARCHAR(10) NOT NULL,
		element VARCHAR(40) NOT NULL,
		element_id BIGINT NOT NULL DEFAULT 0,
		INDEX idx_audit_logs_created_at (created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS authors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME NOT NULL,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		user_type TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS books (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		category_id INTEGER NOT NULL REFERENCES categories (id),
		price REAL NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS book_authors (
		book_id INTEGER NOT NULL REFERENCES books (id),
		author_id INTEGER NOT NULL REFERENCES authors (id),
		position INTEGER NOT NULL,
		PRIMARY KEY (book_id, author_id)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME NOT NULL,
		customer_id INTEGER NOT NULL REFERENCES users (id),
		total REAL NOT NULL,
		current_status TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		order_id INTEGER NOT NULL REFERENCES orders (id),
		book_id INTEGER NOT NULL REFERENCES books (id),
		quantity INTEGER NOT NULL,
		price REAL NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS order_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		order_id INTEGER NOT NULL REFERENCES orders (id),
		status TEXT NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME NOT NULL,
		user_email TEXT NOT NULL DEFAULT '',
		action TEXT NOT NULL,
		element TEXT NOT NULL,
		element_id INTEGER NOT NULL DEFAULT 0
	)`,
}

// Migrate creates any missing table for the given driver ("mysql" or "sqlite").
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	stmts := sqliteSchema
	if driver == "mysql" {
		stmts = mysqlSchema
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	utils.Log().Info("schema ready", zap.String("driver", driver), zap.Int("tables", len(Tables)))
	return nil
}

// HasTable reports whether table exists in the connected schema.
func HasTable(ctx context.Context, q Executor, driver, table string) bool {
	query := `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ? LIMIT 1`
	if driver == "mysql" {
		query = `SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ? LIMIT 1`
	}
	var name sql.NullString
	if err := q.QueryRowContext(ctx, query, table).Scan(&name); err != nil {
		return false
	}
	return name.Valid && name.String != ""
}
