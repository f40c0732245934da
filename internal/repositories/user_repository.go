package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lnascimentosilva/library/internal/domain"
	"github.com/lnascimentosilva/library/internal/domain/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

var userSortColumns = sortColumns{
	"id":        "id",
	"name":      "name",
	"email":     "email",
	"type":      "user_type",
	"createdAt": "created_at",
}

var userColumns = []any{"id", "created_at", "name", "email", "password", "user_type"}

type UserRepository struct {
	Store
}

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var (
		u       models.User
		created time.Time
		typ     string
	)
	if err := row.Scan(&u.ID, &created, &u.Name, &u.Email, &u.PasswordHash, &typ); err != nil {
		return models.User{}, err
	}
	u.CreatedAt = created.UTC()
	u.Type = models.UserType(typ)
	return u, nil
}

// Add stores u with an already hashed password and returns the new id.
func (r UserRepository) Add(ctx context.Context, u models.User) (int64, error) {
	id, err := r.insert(ctx, "users", goqu.Record{
		"created_at": u.CreatedAt,
		"name":       u.Name,
		"email":      u.Email,
		"password":   u.PasswordHash,
		"user_type":  string(u.Type),
	})
	if isDuplicateKey(err) {
		return 0, domain.ConflictError{Resource: "user", Field: "email", Err: err}
	}
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

// Update changes name and email only.
func (r UserRepository) Update(ctx context.Context, u models.User) error {
	_, err := r.update(ctx, "users", goqu.Record{"name": u.Name, "email": u.Email}, goqu.Ex{"id": u.ID})
	if isDuplicateKey(err) {
		return domain.ConflictError{Resource: "user", Field: "email", Err: err}
	}
	if err != nil {
		return fmt.Errorf("update user %d: %w", u.ID, err)
	}
	return nil
}

func (r UserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	if _, err := r.update(ctx, "users", goqu.Record{"password": hash}, goqu.Ex{"id": id}); err != nil {
		return fmt.Errorf("update password %d: %w", id, err)
	}
	return nil
}

func (r UserRepository) findOne(ctx context.Context, where exp.Expression) (models.User, error) {
	sqlStr, args, err := r.from("users").Select(userColumns...).Where(where).ToSQL()
	if err != nil {
		return models.User{}, err
	}
	u, err := scanUser(r.conn(ctx).QueryRowContext(ctx, sqlStr, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, domain.NotFoundError{Resource: "user", Err: err}
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (r UserRepository) FindByID(ctx context.Context, id int64) (models.User, error) {
	return r.findOne(ctx, goqu.Ex{"id": id})
}

func (r UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findOne(ctx, goqu.Ex{"email": email})
}

func (r UserRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "users", goqu.Ex{"id": id})
}

// AlreadyExists reports whether another user (id != excludeID) has email.
func (r UserRepository) AlreadyExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	return r.exists(ctx, "users", goqu.Ex{"email": email}, goqu.C("id").Neq(excludeID))
}

func (r UserRepository) FindByFilter(ctx context.Context, f domain.UserFilter) (domain.PaginatedResult[models.User], error) {
	var where []exp.Expression
	if f.Name != "" {
		where = append(where, contains("name", f.Name))
	}
	if f.Type != "" {
		where = append(where, goqu.Ex{"user_type": f.Type})
	}
	base := r.from("users").Where(where...)
	return paginate(ctx, r.Store, base, userColumns, f.PaginationData, userSortColumns,
		func(rows *sql.Rows) (models.User, error) { return scanUser(rows) })
}
