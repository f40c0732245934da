package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lnascimentosilva/library/internal/domain"
	"github.com/lnascimentosilva/library/internal/domain/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

var orderSortColumns = sortColumns{
	"id":        "id",
	"createdAt": "created_at",
	"total":     "total",
	"status":    "current_status",
}

type OrderRepository struct {
	Store
}

// Add stores the order with its items and history and returns the new id.
func (r OrderRepository) Add(ctx context.Context, o models.Order) (int64, error) {
	id, err := r.insert(ctx, "orders", goqu.Record{
		"created_at":     o.CreatedAt,
		"customer_id":    o.Customer.ID,
		"total":          o.Total,
		"current_status": string(o.CurrentStatus),
	})
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}

	for _, it := range o.Items {
		if _, err := r.insert(ctx, "order_items", goqu.Record{
			"order_id": id,
			"book_id":  it.Book.ID,
			"quantity": it.Quantity,
			"price":    it.Price,
		}); err != nil {
			return 0, fmt.Errorf("insert order item: %w", err)
		}
	}
	for _, h := range o.History {
		if err := r.AddHistory(ctx, id, h); err != nil {
			return 0, err
		}
	}
	return id, nil
}

func (r OrderRepository) AddHistory(ctx context.Context, orderID int64, h models.OrderHistoryEntry) error {
	if _, err := r.insert(ctx, "order_history", goqu.Record{
		"order_id":   orderID,
		"status":     string(h.Status),
		"created_at": h.CreatedAt,
	}); err != nil {
		return fmt.Errorf("insert order history: %w", err)
	}
	return nil
}

func (r OrderRepository) UpdateStatus(ctx context.Context, orderID int64, status models.OrderStatus, at time.Time) error {
	if _, err := r.update(ctx, "orders", goqu.Record{"current_status": string(status)}, goqu.Ex{"id": orderID}); err != nil {
		return fmt.Errorf("update order status %d: %w", orderID, err)
	}
	return r.AddHistory(ctx, orderID, models.OrderHistoryEntry{Status: status, CreatedAt: at})
}

var orderColumns = []any{"o.id", "o.created_at", "o.total", "o.current_status", "u.id", "u.name", "u.email", "u.user_type"}

func (r OrderRepository) ordersWithCustomer() *goqu.SelectDataset {
	return r.from(goqu.T("orders").As("o")).
		InnerJoin(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("o.customer_id"))))
}

func scanOrder(row interface{ Scan(...any) error }) (models.Order, error) {
	var (
		o       models.Order
		created time.Time
		status  string
		typ     string
	)
	if err := row.Scan(&o.ID, &created, &o.Total, &status, &o.Customer.ID, &o.Customer.Name, &o.Customer.Email, &typ); err != nil {
		return models.Order{}, err
	}
	o.CreatedAt = created.UTC()
	o.CurrentStatus = models.OrderStatus(status)
	o.Customer.Type = models.UserType(typ)
	return o, nil
}

func (r OrderRepository) FindByID(ctx context.Context, id int64) (models.Order, error) {
	sqlStr, args, err := r.ordersWithCustomer().Select(orderColumns...).Where(goqu.I("o.id").Eq(id)).ToSQL()
	if err != nil {
		return models.Order{}, err
	}
	o, err := scanOrder(r.conn(ctx).QueryRowContext(ctx, sqlStr, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, domain.NotFoundError{Resource: "order", Err: err}
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("find order %d: %w", id, err)
	}
	if err := r.loadDetails(ctx, &o); err != nil {
		return models.Order{}, err
	}
	return o, nil
}

func (r OrderRepository) loadDetails(ctx context.Context, o *models.Order) error {
	sqlStr, args, err := r.from(goqu.T("order_items").As("i")).
		Select("i.quantity", "i.price", "b.id", "b.title").
		InnerJoin(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("i.book_id")))).
		Where(goqu.I("i.order_id").Eq(o.ID)).
		Order(goqu.I("i.id").Asc()).
		ToSQL()
	if err != nil {
		return err
	}
	rows, err := r.conn(ctx).QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("order items %d: %w", o.ID, err)
	}
	o.Items = []models.OrderItem{}
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.Quantity, &it.Price, &it.Book.ID, &it.Book.Title); err != nil {
			rows.Close()
			return err
		}
		o.Items = append(o.Items, it)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	sqlStr, args, err = r.from("order_history").
		Select("status", "created_at").
		Where(goqu.Ex{"order_id": o.ID}).
		Order(goqu.I("id").Asc()).
		ToSQL()
	if err != nil {
		return err
	}
	rows, err = r.conn(ctx).QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("order history %d: %w", o.ID, err)
	}
	defer rows.Close()

	o.History = []models.OrderHistoryEntry{}
	for rows.Next() {
		var (
			h       models.OrderHistoryEntry
			status  string
			created time.Time
		)
		if err := rows.Scan(&status, &created); err != nil {
			return err
		}
		h.Status = models.OrderStatus(status)
		h.CreatedAt = created.UTC()
		o.History = append(o.History, h)
	}
	return rows.Err()
}

func (r OrderRepository) FindByFilter(ctx context.Context, f domain.OrderFilter) (domain.PaginatedResult[models.Order], error) {
	var where []exp.Expression
	if f.StartDate != nil {
		where = append(where, goqu.C("created_at").Gte(f.StartDate.UTC()))
	}
	if f.EndDate != nil {
		where = append(where, goqu.C("created_at").Lte(f.EndDate.UTC()))
	}
	if f.Status != "" {
		where = append(where, goqu.Ex{"current_status": f.Status})
	}
	if f.CustomerID > 0 {
		where = append(where, goqu.Ex{"customer_id": f.CustomerID})
	}
	base := r.from("orders").Where(where...)

	res, err := paginate(ctx, r.Store, base, []any{"id"}, f.PaginationData, orderSortColumns,
		func(rows *sql.Rows) (models.Order, error) {
			var o models.Order
			err := rows.Scan(&o.ID)
			return o, err
		})
	if err != nil {
		return res, err
	}
	for i := range res.Rows {
		if res.Rows[i], err = r.FindByID(ctx, res.Rows[i].ID); err != nil {
			return res, err
		}
	}
	return res, nil
}
