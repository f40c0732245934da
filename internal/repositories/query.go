package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lnascimentosilva/library/internal/domain"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

// sortColumns maps API sort fields to column names of one table.
type sortColumns map[string]string

func (c sortColumns) orderBy(pd domain.PaginationData) (exp.OrderedExpression, error) {
	col, ok := c[pd.OrderField]
	if !ok {
		return nil, domain.NewValidationError("sort", fmt.Sprintf("cannot sort by %q", pd.OrderField))
	}
	if pd.IsAscending() {
		return goqu.I(col).Asc(), nil
	}
	return goqu.I(col).Desc(), nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// contains builds a case-insensitive substring predicate. Wildcards in value
// match literally.
func contains(col, value string) exp.Expression {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(value)) + "%"
	return goqu.L("LOWER(?) LIKE ? ESCAPE '!'", goqu.I(col), pattern)
}

// paginate runs the count query on the bare predicate and the row query with
// ordering and the page window. Ties are broken by id.
func paginate[T any](
	ctx context.Context,
	s Store,
	base *goqu.SelectDataset,
	columns []any,
	pd domain.PaginationData,
	sortable sortColumns,
	scan func(*sql.Rows) (T, error),
) (domain.PaginatedResult[T], error) {
	out := domain.PaginatedResult[T]{Rows: []T{}}

	order, err := sortable.orderBy(pd)
	if err != nil {
		return out, err
	}
	if pd.FirstResult < 0 || pd.MaxResults <= 0 {
		return out, domain.NewValidationError("per_page", "must be greater than 0")
	}

	countSQL, countArgs, err := base.Select(goqu.COUNT(goqu.Star())).ToSQL()
	if err != nil {
		return out, err
	}
	if err := s.conn(ctx).QueryRowContext(ctx, countSQL, countArgs...).Scan(&out.TotalRowCount); err != nil {
		return out, fmt.Errorf("count: %w", err)
	}
	if out.TotalRowCount == 0 || int64(pd.FirstResult) >= out.TotalRowCount {
		return out, nil
	}

	rowsSQL, rowsArgs, err := base.Select(columns...).
		Order(order, goqu.I("id").Asc()).
		Offset(uint(pd.FirstResult)).
		Limit(uint(pd.MaxResults)).
		ToSQL()
	if err != nil {
		return out, err
	}

	rows, err := s.conn(ctx).QueryContext(ctx, rowsSQL, rowsArgs...)
	if err != nil {
		return out, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return out, err
		}
		out.Rows = append(out.Rows, item)
	}
	return out, rows.Err()
}
