package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lnascimentosilva/library/internal/domain"
	"github.com/lnascimentosilva/library/internal/domain/models"
	"github.com/lnascimentosilva/library/internal/metrics"
	"github.com/lnascimentosilva/library/internal/notify"
	"github.com/lnascimentosilva/library/internal/repositories"
	"github.com/lnascimentosilva/library/internal/utils"

	"go.uber.org/zap"
)

const notifyTimeout = 5 * time.Second

type OrderService struct {
	DB       *sql.DB
	Orders   repositories.OrderRepository
	Books    repositories.BookRepository
	Users    repositories.UserRepository
	Notifier notify.Publisher
	// Now is replaced in tests.
	Now func() time.Time
}

func NewOrderService(store repositories.Store, notifier notify.Publisher) OrderService {
	return OrderService{
		DB:       store.DB,
		Orders:   repositories.OrderRepository{Store: store},
		Books:    repositories.BookRepository{Store: store},
		Users:    repositories.UserRepository{Store: store},
		Notifier: notifier,
	}
}

func (s OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return utils.NowUTC()
}

// isCustomer reports whether ownership rules apply to the actor.
func isCustomer(a domain.Actor) bool {
	return !a.HasRole(domain.RoleEmployee) && !a.HasRole(domain.RoleAdministrator)
}

func (s OrderService) actorUser(ctx context.Context) (models.User, error) {
	actor := domain.ActorFrom(ctx)
	if actor.IsAnonymous() {
		return models.User{}, domain.ForbiddenError{}
	}
	u, err := s.Users.FindByEmail(ctx, actor.Email)
	if domain.IsNotFound(err) {
		return models.User{}, domain.ForbiddenError{}
	}
	return u, err
}

// Add places an order for the actor at current book prices.
func (s OrderService) Add(ctx context.Context, items []models.NewOrderItem) (models.Order, error) {
	if err := ValidateOrderItems(items); err != nil {
		return models.Order{}, err
	}

	var out models.Order
	err := inTx(ctx, s.DB, func(ctx context.Context) error {
		customer, err := s.actorUser(ctx)
		if err != nil {
			return err
		}
		now := s.now()
		o := models.Order{
			CreatedAt:     now,
			Customer:      customer,
			CurrentStatus: models.OrderReserved,
			History:       []models.OrderHistoryEntry{{Status: models.OrderReserved, CreatedAt: now}},
		}
		for _, it := range items {
			b, err := s.Books.FindByID(ctx, it.BookID)
			if domain.IsNotFound(err) {
				return domain.NewValidationError("items", fmt.Sprintf("book %d not found", it.BookID))
			}
			if err != nil {
				return err
			}
			o.Items = append(o.Items, models.OrderItem{Book: b, Quantity: it.Quantity, Price: b.Price})
		}
		o.Total = utils.RoundMoney(o.CalculateTotal())

		id, err := s.Orders.Add(ctx, o)
		if err != nil {
			return err
		}
		out, err = s.Orders.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return models.Order{}, err
	}

	metrics.OrdersPlaced.Inc()
	s.publish(out)
	return out, nil
}

// publish sends the notification on its own goroutine. Failures are only logged.
func (s OrderService) publish(o models.Order) {
	if s.Notifier == nil {
		return
	}
	msg := notify.NewOrderPlaced(o)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.Notifier.PublishOrderPlaced(ctx, msg); err != nil {
			metrics.NotificationsFailed.Inc()
			utils.Log().Warn("order notification failed", zap.Int64("order_id", msg.OrderID), zap.Error(err))
		}
	}()
}

func (s OrderService) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) error {
	if !status.Valid() {
		return domain.NewValidationError("status", fmt.Sprintf("unknown status %q", status))
	}
	actor := domain.ActorFrom(ctx)

	err := inTx(ctx, s.DB, func(ctx context.Context) error {
		o, err := s.Orders.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if isCustomer(actor) {
			if o.Customer.Email != actor.Email {
				return domain.ForbiddenError{Msg: "order belongs to another customer"}
			}
			if status != models.OrderCancelled {
				return domain.ForbiddenError{Msg: "customers may only cancel orders"}
			}
		}
		if o.CurrentStatus == status {
			return domain.NewValidationError("status", fmt.Sprintf("order is already %s", status))
		}
		if o.CurrentStatus.Final() {
			return domain.NewValidationError("status", fmt.Sprintf("status cannot change after %s", o.CurrentStatus))
		}
		return s.Orders.UpdateStatus(ctx, id, status, s.now())
	})
	if err == nil {
		metrics.OrderStatusChanges.WithLabelValues(string(status)).Inc()
	}
	return err
}

func (s OrderService) FindByID(ctx context.Context, id int64) (out models.Order, err error) {
	actor := domain.ActorFrom(ctx)
	err = inTx(ctx, s.DB, func(ctx context.Context) error {
		out, err = s.Orders.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if isCustomer(actor) && out.Customer.Email != actor.Email {
			return domain.ForbiddenError{Msg: "order belongs to another customer"}
		}
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}
	return out, nil
}

func (s OrderService) FindByFilter(ctx context.Context, f domain.OrderFilter) (out domain.PaginatedResult[models.Order], err error) {
	actor := domain.ActorFrom(ctx)
	err = inTx(ctx, s.DB, func(ctx context.Context) error {
		if isCustomer(actor) {
			u, err := s.actorUser(ctx)
			if err != nil {
				return err
			}
			f.CustomerID = u.ID
		}
		out, err = s.Orders.FindByFilter(ctx, f)
		return err
	})
	return out, err
}

// Receipt renders the order as a PDF. Visibility follows FindByID.
func (s OrderService) Receipt(ctx context.Context, id int64) ([]byte, string, error) {
	o, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent("", "orders", "generate_receipt", fmt.Sprintf("order_id=%d", id))
	return BuildReceiptPDF(o)
}
