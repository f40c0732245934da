package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	intdb "github.com/lnascimentosilva/library/internal/db"
	"github.com/lnascimentosilva/library/internal/domain/models"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	conn, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, intdb.Migrate(context.Background(), conn, "sqlite"))
	return NewStore(conn, "sqlite")
}

func addUser(t *testing.T, repo UserRepository, name, email string, typ models.UserType) int64 {
	t.Helper()
	id, err := repo.Add(context.Background(), models.User{
		CreatedAt:    time.Now().UTC(),
		Name:         name,
		Email:        email,
		PasswordHash: "hash",
		Type:         typ,
	})
	require.NoError(t, err)
	return id
}

func userNames(users []models.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.Name)
	}
	return out
}
