package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/lnascimentosilva/library/internal/domain"
	"github.com/lnascimentosilva/library/internal/domain/models"
	"github.com/lnascimentosilva/library/internal/repositories"
	"github.com/lnascimentosilva/library/internal/utils"

	"go.uber.org/zap"
)

type AuditService struct {
	DB   *sql.DB
	Logs repositories.AuditRepository
	Now  func() time.Time
}

func NewAuditService(store repositories.Store) AuditService {
	return AuditService{DB: store.DB, Logs: repositories.AuditRepository{Store: store}}
}

// Record stores one audit entry for the actor on ctx.
func (s AuditService) Record(ctx context.Context, action models.AuditAction, element string, elementID int64) error {
	at := utils.NowUTC()
	if s.Now != nil {
		at = s.Now().UTC()
	}
	entry := models.AuditLog{
		CreatedAt: at,
		UserEmail: domain.ActorFrom(ctx).Email,
		Action:    action,
		Element:   element,
		ElementID: elementID,
	}
	return inTx(ctx, s.DB, func(ctx context.Context) error {
		_, err := s.Logs.Add(ctx, entry)
		return err
	})
}

func (s AuditService) FindByFilter(ctx context.Context, f domain.AuditLogFilter) (out domain.PaginatedResult[models.AuditLog], err error) {
	err = inTx(ctx, s.DB, func(ctx context.Context) error {
		out, err = s.Logs.FindByFilter(ctx, f)
		return err
	})
	return out, err
}

// record runs after a successful mutation. A failed audit write does not
// fail the mutation that already committed.
func record(ctx context.Context, audit AuditServices, action models.AuditAction, element string, id int64) {
	if err := audit.Record(ctx, action, element, id); err != nil {
		utils.Log().Warn("audit record failed",
			zap.String("element", element),
			zap.String("action", string(action)),
			zap.Int64("element_id", id),
			zap.Error(err),
		)
	}
}

type auditedAuthors struct {
	AuthorServices
	audit AuditServices
}

// AuditAuthors records every successful add and update made through next.
func AuditAuthors(next AuthorServices, audit AuditServices) AuthorServices {
	return auditedAuthors{AuthorServices: next, audit: audit}
}

func (s auditedAuthors) Add(ctx context.Context, a models.Author) (models.Author, error) {
	out, err := s.AuthorServices.Add(ctx, a)
	if err == nil {
		record(ctx, s.audit, models.AuditAdd, "Author", out.ID)
	}
	return out, err
}

func (s auditedAuthors) Update(ctx context.Context, a models.Author) error {
	err := s.AuthorServices.Update(ctx, a)
	if err == nil {
		record(ctx, s.audit, models.AuditUpdate, "Author", a.ID)
	}
	return err
}

type auditedCategories struct {
	CategoryServices
	audit AuditServices
}

func AuditCategories(next CategoryServices, audit AuditServices) CategoryServices {
	return auditedCategories{CategoryServices: next, audit: audit}
}

func (s auditedCategories) Add(ctx context.Context, c models.Category) (models.Category, error) {
	out, err := s.CategoryServices.Add(ctx, c)
	if err == nil {
		record(ctx, s.audit, models.AuditAdd, "Category", out.ID)
	}
	return out, err
}

func (s auditedCategories) Update(ctx context.Context, c models.Category) error {
	err := s.CategoryServices.Update(ctx, c)
	if err == nil {
		record(ctx, s.audit, models.AuditUpdate, "Category", c.ID)
	}
	return err
}

type auditedBooks struct {
	BookServices
	audit AuditServices
}

func AuditBooks(next BookServices, audit AuditServices) BookServices {
	return auditedBooks{BookServices: next, audit: audit}
}

func (s auditedBooks) Add(ctx context.Context, b models.Book) (models.Book, error) {
	out, err := s.BookServices.Add(ctx, b)
	if err == nil {
		record(ctx, s.audit, models.AuditAdd, "Book", out.ID)
	}
	return out, err
}

func (s auditedBooks) Update(ctx context.Context, b models.Book) error {
	err := s.BookServices.Update(ctx, b)
	if err == nil {
		record(ctx, s.audit, models.AuditUpdate, "Book", b.ID)
	}
	return err
}

type auditedUsers struct {
	UserServices
	audit AuditServices
}

func AuditUsers(next UserServices, audit AuditServices) UserServices {
	return auditedUsers{UserServices: next, audit: audit}
}

func (s auditedUsers) Add(ctx context.Context, u models.User) (models.User, error) {
	out, err := s.UserServices.Add(ctx, u)
	if err == nil {
		record(ctx, s.audit, models.AuditAdd, "User", out.ID)
	}
	return out, err
}

func (s auditedUsers) Update(ctx context.Context, u models.User) error {
	err := s.UserServices.Update(ctx, u)
	if err == nil {
		record(ctx, s.audit, models.AuditUpdate, "User", u.ID)
	}
	return err
}

func (s auditedUsers) UpdatePassword(ctx context.Context, id int64, password string) error {
	err := s.UserServices.UpdatePassword(ctx, id, password)
	if err == nil {
		record(ctx, s.audit, models.AuditUpdate, "User", id)
	}
	return err
}
