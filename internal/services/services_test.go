package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	intdb "github.com/lnascimentosilva/library/internal/db"
	"github.com/lnascimentosilva/library/internal/domain"
	"github.com/lnascimentosilva/library/internal/domain/models"
	"github.com/lnascimentosilva/library/internal/notify"
	"github.com/lnascimentosilva/library/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func newTestStore(t *testing.T) repositories.Store {
	t.Helper()
	conn, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, intdb.Migrate(context.Background(), conn, "sqlite"))
	return repositories.NewStore(conn, "sqlite")
}

func newMockStore(t *testing.T) (repositories.Store, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return repositories.NewStore(conn, "mysql"), mock
}

func actorCtx(email string, typ models.UserType) context.Context {
	return domain.WithActor(context.Background(), domain.Actor{Email: email, Roles: typ.Roles()})
}

func testUserService(store repositories.Store) UserService {
	svc := NewUserService(store)
	svc.HashCost = bcrypt.MinCost
	return svc
}

func mustAddUser(t *testing.T, svc UserService, name, email string, typ models.UserType) models.User {
	t.Helper()
	u, err := svc.Add(context.Background(), models.User{Name: name, Email: email, Password: "secret", Type: typ})
	require.NoError(t, err)
	return u
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent chan notify.OrderPlaced
	err  error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{sent: make(chan notify.OrderPlaced, 4)}
}

func (f *fakeNotifier) PublishOrderPlaced(_ context.Context, m notify.OrderPlaced) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent <- m
	return f.err
}

func (f *fakeNotifier) Close() error { return nil }

type recordedAudit struct {
	Action    models.AuditAction
	Element   string
	ElementID int64
	Email     string
}

type fakeAudit struct {
	records []recordedAudit
	err     error
}

func (f *fakeAudit) Record(ctx context.Context, action models.AuditAction, element string, id int64) error {
	f.records = append(f.records, recordedAudit{action, element, id, domain.ActorFrom(ctx).Email})
	return f.err
}

func (f *fakeAudit) FindByFilter(context.Context, domain.AuditLogFilter) (domain.PaginatedResult[models.AuditLog], error) {
	return domain.PaginatedResult[models.AuditLog]{}, nil
}
