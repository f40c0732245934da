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

var bookSortColumns = sortColumns{
	"id":    "id",
	"title": "title",
	"price": "price",
}

type BookRepository struct {
	Store
}

func bookRecord(b models.Book) goqu.Record {
	return goqu.Record{
		"title":       b.Title,
		"description": b.Description,
		"category_id": b.Category.ID,
		"price":       b.Price,
	}
}

func (r BookRepository) Add(ctx context.Context, b models.Book) (int64, error) {
	id, err := r.insert(ctx, "books", bookRecord(b))
	if err != nil {
		return 0, fmt.Errorf("insert book: %w", err)
	}
	if err := r.replaceAuthors(ctx, id, b.AuthorIDs()); err != nil {
		return 0, err
	}
	return id, nil
}

func (r BookRepository) Update(ctx context.Context, b models.Book) error {
	if _, err := r.update(ctx, "books", bookRecord(b), goqu.Ex{"id": b.ID}); err != nil {
		return fmt.Errorf("update book %d: %w", b.ID, err)
	}
	return r.replaceAuthors(ctx, b.ID, b.AuthorIDs())
}

func (r BookRepository) replaceAuthors(ctx context.Context, bookID int64, authorIDs []int64) error {
	sqlStr, args, err := r.builder().Delete("book_authors").Where(goqu.Ex{"book_id": bookID}).Prepared(true).ToSQL()
	if err != nil {
		return err
	}
	if _, err := r.exec(ctx, sqlStr, args); err != nil {
		return fmt.Errorf("clear book authors %d: %w", bookID, err)
	}
	if len(authorIDs) == 0 {
		return nil
	}

	rows := make([]any, 0, len(authorIDs))
	for i, aid := range authorIDs {
		rows = append(rows, goqu.Record{"book_id": bookID, "author_id": aid, "position": i})
	}
	sqlStr, args, err = r.builder().Insert("book_authors").Rows(rows...).Prepared(true).ToSQL()
	if err != nil {
		return err
	}
	if _, err := r.exec(ctx, sqlStr, args); err != nil {
		return fmt.Errorf("insert book authors %d: %w", bookID, err)
	}
	return nil
}

func (r BookRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "books", goqu.Ex{"id": id})
}

func (r BookRepository) FindByID(ctx context.Context, id int64) (models.Book, error) {
	sqlStr, args, err := r.from(goqu.T("books").As("b")).
		Select("b.id", "b.title", "b.description", "b.price", "c.id", "c.name").
		InnerJoin(goqu.T("categories").As("c"), goqu.On(goqu.I("c.id").Eq(goqu.I("b.category_id")))).
		Where(goqu.I("b.id").Eq(id)).
		ToSQL()
	if err != nil {
		return models.Book{}, err
	}

	var b models.Book
	err = r.conn(ctx).QueryRowContext(ctx, sqlStr, args...).
		Scan(&b.ID, &b.Title, &b.Description, &b.Price, &b.Category.ID, &b.Category.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Book{}, domain.NotFoundError{Resource: "book", Err: err}
	}
	if err != nil {
		return models.Book{}, fmt.Errorf("find book %d: %w", id, err)
	}

	if b.Authors, err = r.authorsOf(ctx, b.ID); err != nil {
		return models.Book{}, err
	}
	return b, nil
}

func (r BookRepository) authorsOf(ctx context.Context, bookID int64) ([]models.Author, error) {
	sqlStr, args, err := r.from(goqu.T("book_authors").As("ba")).
		Select("a.id", "a.name").
		InnerJoin(goqu.T("authors").As("a"), goqu.On(goqu.I("a.id").Eq(goqu.I("ba.author_id")))).
		Where(goqu.I("ba.book_id").Eq(bookID)).
		Order(goqu.I("ba.position").Asc()).
		ToSQL()
	if err != nil {
		return nil, err
	}
	rows, err := r.conn(ctx).QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("book authors %d: %w", bookID, err)
	}
	defer rows.Close()

	out := []models.Author{}
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r BookRepository) FindByFilter(ctx context.Context, f domain.BookFilter) (domain.PaginatedResult[models.Book], error) {
	var where []exp.Expression
	if f.Title != "" {
		where = append(where, contains("title", f.Title))
	}
	if f.CategoryID > 0 {
		where = append(where, goqu.Ex{"category_id": f.CategoryID})
	}
	base := r.from("books").Where(where...)

	res, err := paginate(ctx, r.Store, base, []any{"id", "title", "description", "price", "category_id"},
		f.PaginationData, bookSortColumns,
		func(rows *sql.Rows) (models.Book, error) {
			var b models.Book
			err := rows.Scan(&b.ID, &b.Title, &b.Description, &b.Price, &b.Category.ID)
			return b, err
		})
	if err != nil {
		return res, err
	}

	// associations are loaded after the page rows are fully read
	categories := map[int64]models.Category{}
	for i := range res.Rows {
		b := &res.Rows[i]
		c, ok := categories[b.Category.ID]
		if !ok {
			if c, err = (CategoryRepository{Store: r.Store}).FindByID(ctx, b.Category.ID); err != nil {
				return res, err
			}
			categories[c.ID] = c
		}
		b.Category = c
		if b.Authors, err = r.authorsOf(ctx, b.ID); err != nil {
			return res, err
		}
	}
	return res, nil
}
