package services

import (
	"context"
	"database/sql"

	"github.com/lnascimentosilva/library/internal/domain"
	"github.com/lnascimentosilva/library/internal/domain/models"
	"github.com/lnascimentosilva/library/internal/repositories"
)

type AuthorService struct {
	DB      *sql.DB
	Authors repositories.AuthorRepository
}

func NewAuthorService(store repositories.Store) AuthorService {
	return AuthorService{DB: store.DB, Authors: repositories.AuthorRepository{Store: store}}
}

func (s AuthorService) Add(ctx context.Context, a models.Author) (models.Author, error) {
	if err := ValidateAuthor(a); err != nil {
		return models.Author{}, err
	}
	err := inTx(ctx, s.DB, func(ctx context.Context) error {
		id, err := s.Authors.Add(ctx, a)
		a.ID = id
		return err
	})
	if err != nil {
		return models.Author{}, err
	}
	return a, nil
}

func (s AuthorService) Update(ctx context.Context, a models.Author) error {
	if err := ValidateAuthor(a); err != nil {
		return err
	}
	return inTx(ctx, s.DB, func(ctx context.Context) error {
		ok, err := s.Authors.ExistsByID(ctx, a.ID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NotFoundError{Resource: "author"}
		}
		return s.Authors.Update(ctx, a)
	})
}

func (s AuthorService) FindByID(ctx context.Context, id int64) (out models.Author, err error) {
	err = inTx(ctx, s.DB, func(ctx context.Context) error {
		out, err = s.Authors.FindByID(ctx, id)
		return err
	})
	return out, err
}

func (s AuthorService) FindByFilter(ctx context.Context, f domain.AuthorFilter) (out domain.PaginatedResult[models.Author], err error) {
	err = inTx(ctx, s.DB, func(ctx context.Context) error {
		out, err = s.Authors.FindByFilter(ctx, f)
		return err
	})
	return out, err
}
