package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lnascimentosilva/library/internal/domain"
	"github.com/lnascimentosilva/library/internal/domain/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

var authorSortColumns = sortColumns{
	"id":   "id",
	"name": "name",
}

type AuthorRepository struct {
	Store
}

func scanAuthor(row interface{ Scan(...any) error }) (models.Author, error) {
	var a models.Author
	err := row.Scan(&a.ID, &a.Name)
	return a, err
}

func (r AuthorRepository) Add(ctx context.Context, a models.Author) (int64, error) {
	id, err := r.insert(ctx, "authors", goqu.Record{"name": a.Name})
	if err != nil {
		return 0, fmt.Errorf("insert author: %w", err)
	}
	return id, nil
}

func (r AuthorRepository) Update(ctx context.Context, a models.Author) error {
	if _, err := r.update(ctx, "authors", goqu.Record{"name": a.Name}, goqu.Ex{"id": a.ID}); err != nil {
		return fmt.Errorf("update author %d: %w", a.ID, err)
	}
	return nil
}

func (r AuthorRepository) FindByID(ctx context.Context, id int64) (models.Author, error) {
	sqlStr, args, err := r.from("authors").Select("id", "name").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return models.Author{}, err
	}
	a, err := scanAuthor(r.conn(ctx).QueryRowContext(ctx, sqlStr, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Author{}, domain.NotFoundError{Resource: "author", Err: err}
	}
	if err != nil {
		return models.Author{}, fmt.Errorf("find author %d: %w", id, err)
	}
	return a, nil
}

func (r AuthorRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "authors", goqu.Ex{"id": id})
}

func (r AuthorRepository) FindByFilter(ctx context.Context, f domain.AuthorFilter) (domain.PaginatedResult[models.Author], error) {
	var where []exp.Expression
	if f.Name != "" {
		where = append(where, contains("name", f.Name))
	}
	base := r.from("authors").Where(where...)
	return paginate(ctx, r.Store, base, []any{"id", "name"}, f.PaginationData, authorSortColumns,
		func(rows *sql.Rows) (models.Author, error) { return scanAuthor(rows) })
}
