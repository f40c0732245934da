package services

import (
	"context"
	"database/sql"

	intconfig "github.com/lnascimentosilva/library/internal/config"
	intdb "github.com/lnascimentosilva/library/internal/db"
	"github.com/lnascimentosilva/library/internal/domain"
	"github.com/lnascimentosilva/library/internal/domain/models"
)

type AuthorServices interface {
	Add(ctx context.Context, a models.Author) (models.Author, error)
	Update(ctx context.Context, a models.Author) error
	FindByID(ctx context.Context, id int64) (models.Author, error)
	FindByFilter(ctx context.Context, f domain.AuthorFilter) (domain.PaginatedResult[models.Author], error)
}

type CategoryServices interface {
	Add(ctx context.Context, c models.Category) (models.Category, error)
	Update(ctx context.Context, c models.Category) error
	FindByID(ctx context.Context, id int64) (models.Category, error)
	FindAll(ctx context.Context) ([]models.Category, error)
}

type BookServices interface {
	Add(ctx context.Context, b models.Book) (models.Book, error)
	Update(ctx context.Context, b models.Book) error
	FindByID(ctx context.Context, id int64) (models.Book, error)
	FindByFilter(ctx context.Context, f domain.BookFilter) (domain.PaginatedResult[models.Book], error)
}

type UserServices interface {
	Add(ctx context.Context, u models.User) (models.User, error)
	Update(ctx context.Context, u models.User) error
	UpdatePassword(ctx context.Context, id int64, password string) error
	FindByID(ctx context.Context, id int64) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByEmailAndPassword(ctx context.Context, email, password string) (models.User, error)
	FindByFilter(ctx context.Context, f domain.UserFilter) (domain.PaginatedResult[models.User], error)
}

// OrderServices acts on behalf of the actor stored on ctx.
type OrderServices interface {
	Add(ctx context.Context, items []models.NewOrderItem) (models.Order, error)
	UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) error
	FindByID(ctx context.Context, id int64) (models.Order, error)
	FindByFilter(ctx context.Context, f domain.OrderFilter) (domain.PaginatedResult[models.Order], error)
	Receipt(ctx context.Context, id int64) ([]byte, string, error)
}

type AuditServices interface {
	Record(ctx context.Context, action models.AuditAction, element string, elementID int64) error
	FindByFilter(ctx context.Context, f domain.AuditLogFilter) (domain.PaginatedResult[models.AuditLog], error)
}

type AdminServices interface {
	ResetAll(ctx context.Context) error
}

// inTx runs fn in one transaction on db, or on the shared connection when db is nil.
func inTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context) error) error {
	if db == nil {
		db = intconfig.DB
	}
	return intdb.WithTransaction(ctx, db, fn)
}
