package services

import (
	"context"
	"database/sql"

	"github.com/lnascimentosilva/library/internal/domain"
	"github.com/lnascimentosilva/library/internal/domain/models"
	"github.com/lnascimentosilva/library/internal/repositories"
)

type BookService struct {
	DB         *sql.DB
	Books      repositories.BookRepository
	Categories repositories.CategoryRepository
	Authors    repositories.AuthorRepository
}

func NewBookService(store repositories.Store) BookService {
	return BookService{
		DB:         store.DB,
		Books:      repositories.BookRepository{Store: store},
		Categories: repositories.CategoryRepository{Store: store},
		Authors:    repositories.AuthorRepository{Store: store},
	}
}

// checkReferences reports a missing category or author as a field error
// on the book rather than a not found.
func (s BookService) checkReferences(ctx context.Context, b models.Book) error {
	var errs fieldErrors
	ok, err := s.Categories.ExistsByID(ctx, b.Category.ID)
	if err != nil {
		return err
	}
	if !ok {
		errs.add("category", "category not found")
	}
	for _, id := range b.AuthorIDs() {
		ok, err := s.Authors.ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			errs.add("authors", "author not found")
			break
		}
	}
	return errs.err()
}

func (s BookService) Add(ctx context.Context, b models.Book) (models.Book, error) {
	if err := ValidateBook(b); err != nil {
		return models.Book{}, err
	}
	err := inTx(ctx, s.DB, func(ctx context.Context) error {
		if err := s.checkReferences(ctx, b); err != nil {
			return err
		}
		id, err := s.Books.Add(ctx, b)
		b.ID = id
		return err
	})
	if err != nil {
		return models.Book{}, err
	}
	return b, nil
}

func (s BookService) Update(ctx context.Context, b models.Book) error {
	if err := ValidateBook(b); err != nil {
		return err
	}
	return inTx(ctx, s.DB, func(ctx context.Context) error {
		ok, err := s.Books.ExistsByID(ctx, b.ID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NotFoundError{Resource: "book"}
		}
		if err := s.checkReferences(ctx, b); err != nil {
			return err
		}
		return s.Books.Update(ctx, b)
	})
}

func (s BookService) FindByID(ctx context.Context, id int64) (out models.Book, err error) {
	err = inTx(ctx, s.DB, func(ctx context.Context) error {
		out, err = s.Books.FindByID(ctx, id)
		return err
	})
	return out, err
}

func (s BookService) FindByFilter(ctx context.Context, f domain.BookFilter) (out domain.PaginatedResult[models.Book], err error) {
	err = inTx(ctx, s.DB, func(ctx context.Context) error {
		out, err = s.Books.FindByFilter(ctx, f)
		return err
	})
	return out, err
}
