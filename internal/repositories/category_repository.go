package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lnascimentosilva/library/internal/domain"
	"github.com/lnascimentosilva/library/internal/domain/models"

	"github.com/doug-martin/goqu/v9"
)

type CategoryRepository struct {
	Store
}

func (r CategoryRepository) Add(ctx context.Context, c models.Category) (int64, error) {
	id, err := r.insert(ctx, "categories", goqu.Record{"name": c.Name})
	if isDuplicateKey(err) {
		return 0, domain.ConflictError{Resource: "category", Field: "name", Err: err}
	}
	if err != nil {
		return 0, fmt.Errorf("insert category: %w", err)
	}
	return id, nil
}

func (r CategoryRepository) Update(ctx context.Context, c models.Category) error {
	_, err := r.update(ctx, "categories", goqu.Record{"name": c.Name}, goqu.Ex{"id": c.ID})
	if isDuplicateKey(err) {
		return domain.ConflictError{Resource: "category", Field: "name", Err: err}
	}
	if err != nil {
		return fmt.Errorf("update category %d: %w", c.ID, err)
	}
	return nil
}

func (r CategoryRepository) FindByID(ctx context.Context, id int64) (models.Category, error) {
	sqlStr, args, err := r.from("categories").Select("id", "name").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return models.Category{}, err
	}
	var c models.Category
	err = r.conn(ctx).QueryRowContext(ctx, sqlStr, args...).Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Category{}, domain.NotFoundError{Resource: "category", Err: err}
	}
	if err != nil {
		return models.Category{}, fmt.Errorf("find category %d: %w", id, err)
	}
	return c, nil
}

func (r CategoryRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "categories", goqu.Ex{"id": id})
}

// AlreadyExists reports whether another category (id != excludeID) has name.
func (r CategoryRepository) AlreadyExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	return r.exists(ctx, "categories", goqu.Ex{"name": name}, goqu.C("id").Neq(excludeID))
}

// FindAll returns every category ordered by name.
func (r CategoryRepository) FindAll(ctx context.Context) ([]models.Category, error) {
	sqlStr, args, err := r.from("categories").Select("id", "name").Order(goqu.I("name").Asc(), goqu.I("id").Asc()).ToSQL()
	if err != nil {
		return nil, err
	}
	rows, err := r.conn(ctx).QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
