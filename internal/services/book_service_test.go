package services

import (
	"context"
	"errors"
	"testing"

	"github.com/lnascimentosilva/library/internal/domain"
	"github.com/lnascimentosilva/library/internal/domain/models"
	"github.com/lnascimentosilva/library/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookSeed struct {
	category models.Category
	author   models.Author
}

func seedCatalog(t *testing.T, store repositories.Store) bookSeed {
	t.Helper()
	ctx := context.Background()
	c, err := NewCategoryService(store).Add(ctx, models.Category{Name: "Architecture"})
	require.NoError(t, err)
	a, err := NewAuthorService(store).Add(ctx, models.Author{Name: "Robert Martin"})
	require.NoError(t, err)
	return bookSeed{category: c, author: a}
}

func addBook(t *testing.T, svc BookService, seed bookSeed, title string, price float64) models.Book {
	t.Helper()
	b, err := svc.Add(context.Background(), models.Book{
		Title:       title,
		Description: "A book about software design.",
		Category:    seed.category,
		Authors:     []models.Author{seed.author},
		Price:       price,
	})
	require.NoError(t, err)
	return b
}

func TestBookServiceAddAndFind(t *testing.T) {
	store := newTestStore(t)
	seed := seedCatalog(t, store)
	svc := NewBookService(store)

	b := addBook(t, svc, seed, "Clean Architecture", 35.06)
	got, err := svc.FindByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Clean Architecture", got.Title)
	assert.Equal(t, "Architecture", got.Category.Name)
	require.Len(t, got.Authors, 1)
	assert.Equal(t, "Robert Martin", got.Authors[0].Name)
	assert.InDelta(t, 35.06, got.Price, 0.001)
}

func TestBookServiceRejectsUnknownReferences(t *testing.T) {
	store := newTestStore(t)
	seed := seedCatalog(t, store)
	svc := NewBookService(store)

	_, err := svc.Add(context.Background(), models.Book{
		Title:       "Clean Architecture",
		Description: "A book about software design.",
		Category:    models.Category{ID: 999},
		Authors:     []models.Author{seed.author, {ID: 999}},
		Price:       10,
	})
	var verr domain.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Errors, 2)
	assert.Equal(t, "category", verr.Errors[0].Field)
	assert.Equal(t, "authors", verr.Errors[1].Field)
}

func TestBookServiceRejectsRepeatedAuthor(t *testing.T) {
	store := newTestStore(t)
	seed := seedCatalog(t, store)
	svc := NewBookService(store)

	_, err := svc.Add(context.Background(), models.Book{
		Title:       "Clean Architecture",
		Description: "A book about software design.",
		Category:    seed.category,
		Authors:     []models.Author{seed.author, seed.author},
		Price:       10,
	})
	var verr domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []domain.FieldError{{Field: "authors", Message: "may not contain duplicates"}}, verr.Errors)

	res, err := svc.FindByFilter(context.Background(), domain.BookFilter{
		PaginationData: domain.NewPaginationData(0, 10, "title", domain.Ascending),
	})
	require.NoError(t, err)
	assert.Zero(t, res.TotalRowCount)
}

func TestBookServiceUpdate(t *testing.T) {
	store := newTestStore(t)
	seed := seedCatalog(t, store)
	svc := NewBookService(store)
	ctx := context.Background()

	b := addBook(t, svc, seed, "Clean Architecture", 35.06)
	b.Price = 40
	b.Title = "Clean Architecture 2nd"
	require.NoError(t, svc.Update(ctx, b))

	got, err := svc.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Clean Architecture 2nd", got.Title)
	assert.InDelta(t, 40.0, got.Price, 0.001)

	b.ID = 999
	assert.True(t, domain.IsNotFound(svc.Update(ctx, b)))
}

func TestBookServiceFindByFilter(t *testing.T) {
	store := newTestStore(t)
	seed := seedCatalog(t, store)
	svc := NewBookService(store)
	addBook(t, svc, seed, "Clean Architecture", 35.06)
	addBook(t, svc, seed, "Clean Code Handbook", 20)
	addBook(t, svc, seed, "Refactoring Patterns", 45)

	res, err := svc.FindByFilter(context.Background(), domain.BookFilter{
		PaginationData: domain.NewPaginationData(0, 10, "price", domain.Descending),
		Title:          "clean",
		CategoryID:     seed.category.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.TotalRowCount)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "Clean Architecture", res.Rows[0].Title)
	assert.Equal(t, "Clean Code Handbook", res.Rows[1].Title)
}
