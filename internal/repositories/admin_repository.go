package repositories

import (
	"context"
	"fmt"

	intdb "github.com/lnascimentosilva/library/internal/db"
)

// AdminRepository holds maintenance operations used by test fixtures.
type AdminRepository struct {
	Store
}

// DeleteAll removes every row, children first.
func (r AdminRepository) DeleteAll(ctx context.Context) error {
	for _, table := range intdb.Tables {
		sqlStr, args, err := r.builder().Delete(table).Prepared(true).ToSQL()
		if err != nil {
			return err
		}
		if _, err := r.exec(ctx, sqlStr, args); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	return nil
}
