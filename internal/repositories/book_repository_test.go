package repositories

import (
	"context"
	"testing"

	"github.com/lnascimentosilva/library/internal/domain"
	"github.com/lnascimentosilva/library/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookFixture struct {
	store        Store
	books        BookRepository
	cleanCode    models.Category
	architecture models.Category
	martin       models.Author
	fowler       models.Author
	beck         models.Author
}

func newBookFixture(t *testing.T) bookFixture {
	t.Helper()
	ctx := context.Background()
	s := newTestStore(t)
	categories := CategoryRepository{Store: s}
	authors := AuthorRepository{Store: s}

	f := bookFixture{store: s, books: BookRepository{Store: s}}
	addCategory := func(name string) models.Category {
		id, err := categories.Add(ctx, models.Category{Name: name})
		require.NoError(t, err)
		return models.Category{ID: id, Name: name}
	}
	addAuthor := func(name string) models.Author {
		id, err := authors.Add(ctx, models.Author{Name: name})
		require.NoError(t, err)
		return models.Author{ID: id, Name: name}
	}
	f.cleanCode = addCategory("Clean Code")
	f.architecture = addCategory("Architecture")
	f.martin = addAuthor("Robert Martin")
	f.fowler = addAuthor("Martin Fowler")
	f.beck = addAuthor("Kent Beck")
	return f
}

func TestBookAddFindKeepsAuthorOrder(t *testing.T) {
	ctx := context.Background()
	f := newBookFixture(t)

	id, err := f.books.Add(ctx, models.Book{
		Title:       "Refactoring: Improving the Design of Existing Code",
		Description: "Your class library works, but could it be better?",
		Category:    f.cleanCode,
		Authors:     []models.Author{f.fowler, f.beck},
		Price:       31.16,
	})
	require.NoError(t, err)

	got, err := f.books.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Refactoring: Improving the Design of Existing Code", got.Title)
	assert.Equal(t, f.cleanCode, got.Category)
	assert.Equal(t, []models.Author{f.fowler, f.beck}, got.Authors)
	assert.InDelta(t, 31.16, got.Price, 0.001)

	got.Authors = []models.Author{f.beck}
	got.Category = f.architecture
	require.NoError(t, f.books.Update(ctx, got))

	got, err = f.books.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, f.architecture, got.Category)
	assert.Equal(t, []models.Author{f.beck}, got.Authors)

	_, err = f.books.FindByID(ctx, id+100)
	assert.True(t, domain.IsNotFound(err))
}

func TestBookFindByFilter(t *testing.T) {
	ctx := context.Background()
	f := newBookFixture(t)

	for _, b := range []models.Book{
		{Title: "Clean Code: A Handbook", Description: "Even bad code can function.", Category: f.cleanCode, Authors: []models.Author{f.martin}, Price: 35.06},
		{Title: "Patterns of Enterprise Application Architecture", Description: "Developers of enterprise applications", Category: f.architecture, Authors: []models.Author{f.fowler}, Price: 52},
		{Title: "Refactoring", Description: "Your class library works", Category: f.cleanCode, Authors: []models.Author{f.fowler, f.beck}, Price: 31.16},
	} {
		_, err := f.books.Add(ctx, b)
		require.NoError(t, err)
	}

	page, err := f.books.FindByFilter(ctx, domain.BookFilter{
		PaginationData: domain.NewPaginationData(0, 10, "price", domain.Descending),
		CategoryID:     f.cleanCode.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalRowCount)
	require.Len(t, page.Rows, 2)
	assert.Equal(t, "Clean Code: A Handbook", page.Rows[0].Title)
	assert.Equal(t, "Clean Code", page.Rows[0].Category.Name)
	assert.Equal(t, []models.Author{f.fowler, f.beck}, page.Rows[1].Authors)

	page, err = f.books.FindByFilter(ctx, domain.BookFilter{
		PaginationData: domain.NewPaginationData(0, 10, "title", domain.Ascending),
		Title:          "pattern",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalRowCount)
	assert.Equal(t, "Architecture", page.Rows[0].Category.Name)
}
