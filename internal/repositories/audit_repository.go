package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lnascimentosilva/library/internal/domain"
	"github.com/lnascimentosilva/library/internal/domain/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

var auditSortColumns = sortColumns{
	"id":        "id",
	"createdAt": "created_at",
	"action":    "action",
	"element":   "element",
}

type AuditRepository struct {
	Store
}

func (r AuditRepository) Add(ctx context.Context, l models.AuditLog) (int64, error) {
	id, err := r.insert(ctx, "audit_logs", goqu.Record{
		"created_at": l.CreatedAt,
		"user_email": l.UserEmail,
		"action":     string(l.Action),
		"element":    l.Element,
		"element_id": l.ElementID,
	})
	if err != nil {
		return 0, fmt.Errorf("insert audit log: %w", err)
	}
	return id, nil
}

func (r AuditRepository) FindByFilter(ctx context.Context, f domain.AuditLogFilter) (domain.PaginatedResult[models.AuditLog], error) {
	var where []exp.Expression
	if f.StartDate != nil {
		where = append(where, goqu.C("created_at").Gte(f.StartDate.UTC()))
	}
	if f.EndDate != nil {
		where = append(where, goqu.C("created_at").Lte(f.EndDate.UTC()))
	}
	if f.UserEmail != "" {
		where = append(where, goqu.Ex{"user_email": f.UserEmail})
	}
	base := r.from("audit_logs").Where(where...)
	return paginate(ctx, r.Store, base,
		[]any{"id", "created_at", "user_email", "action", "element", "element_id"},
		f.PaginationData, auditSortColumns,
		func(rows *sql.Rows) (models.AuditLog, error) {
			var (
				l       models.AuditLog
				created time.Time
				action  string
			)
			err := rows.Scan(&l.ID, &created, &l.UserEmail, &action, &l.Element, &l.ElementID)
			l.CreatedAt = created.UTC()
			l.Action = models.AuditAction(action)
			return l, err
		})
}
