package services

import (
	"context"
	"database/sql"

	"github.com/lnascimentosilva/library/internal/domain"
	"github.com/lnascimentosilva/library/internal/domain/models"
	"github.com/lnascimentosilva/library/internal/repositories"
)

type CategoryService struct {
	DB         *sql.DB
	Categories repositories.CategoryRepository
}

func NewCategoryService(store repositories.Store) CategoryService {
	return CategoryService{DB: store.DB, Categories: repositories.CategoryRepository{Store: store}}
}

func (s CategoryService) Add(ctx context.Context, c models.Category) (models.Category, error) {
	if err := ValidateCategory(c); err != nil {
		return models.Category{}, err
	}
	err := inTx(ctx, s.DB, func(ctx context.Context) error {
		if err := s.checkUnique(ctx, c); err != nil {
			return err
		}
		id, err := s.Categories.Add(ctx, c)
		c.ID = id
		return err
	})
	if err != nil {
		return models.Category{}, err
	}
	return c, nil
}

func (s CategoryService) Update(ctx context.Context, c models.Category) error {
	if err := ValidateCategory(c); err != nil {
		return err
	}
	return inTx(ctx, s.DB, func(ctx context.Context) error {
		ok, err := s.Categories.ExistsByID(ctx, c.ID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NotFoundError{Resource: "category"}
		}
		if err := s.checkUnique(ctx, c); err != nil {
			return err
		}
		return s.Categories.Update(ctx, c)
	})
}

func (s CategoryService) checkUnique(ctx context.Context, c models.Category) error {
	exists, err := s.Categories.AlreadyExists(ctx, c.Name, c.ID)
	if err != nil {
		return err
	}
	if exists {
		return domain.ConflictError{Resource: "category", Field: "name"}
	}
	return nil
}

func (s CategoryService) FindByID(ctx context.Context, id int64) (out models.Category, err error) {
	err = inTx(ctx, s.DB, func(ctx context.Context) error {
		out, err = s.Categories.FindByID(ctx, id)
		return err
	})
	return out, err
}

func (s CategoryService) FindAll(ctx context.Context) (out []models.Category, err error) {
	err = inTx(ctx, s.DB, func(ctx context.Context) error {
		out, err = s.Categories.FindAll(ctx)
		return err
	})
	return out, err
}
