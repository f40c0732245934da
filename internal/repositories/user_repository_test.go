package repositories

import (
	"context"
	"math"
	"testing"

	"github.com/lnascimentosilva/library/internal/domain"
	"github.com/lnascimentosilva/library/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUsers(t *testing.T) UserRepository {
	repo := UserRepository{Store: newTestStore(t)}
	addUser(t, repo, "Admin", "admin@domain.com", models.UserEmployee)
	addUser(t, repo, "John Doe", "john@domain.com", models.UserCustomer)
	addUser(t, repo, "Mary", "mary@domain.com", models.UserCustomer)
	return repo
}

func TestUserFindByFilterPagesSortedDescending(t *testing.T) {
	ctx := context.Background()
	repo := seedUsers(t)

	f := domain.UserFilter{PaginationData: domain.NewPaginationData(0, 2, "name", domain.Descending)}
	page, err := repo.FindByFilter(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalRowCount)
	assert.Equal(t, []string{"Mary", "John Doe"}, userNames(page.Rows))

	f.PaginationData = domain.NewPaginationData(1, 2, "name", domain.Descending)
	page, err = repo.FindByFilter(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalRowCount)
	assert.Equal(t, []string{"Admin"}, userNames(page.Rows))
}

func TestUserFindByFilterPastTheEnd(t *testing.T) {
	repo := seedUsers(t)

	f := domain.UserFilter{PaginationData: domain.NewPaginationData(5, 2, "name", domain.Ascending)}
	page, err := repo.FindByFilter(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalRowCount)
	assert.Empty(t, page.Rows)
}

func TestUserFindByFilterPredicates(t *testing.T) {
	ctx := context.Background()
	repo := seedUsers(t)

	byName := domain.UserFilter{
		PaginationData: domain.NewPaginationData(0, 10, "name", domain.Ascending),
		Name:           "JOHN",
	}
	page, err := repo.FindByFilter(ctx, byName)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalRowCount)
	assert.Equal(t, []string{"John Doe"}, userNames(page.Rows))

	byType := domain.UserFilter{
		PaginationData: domain.NewPaginationData(0, 10, "name", domain.Ascending),
		Type:           string(models.UserCustomer),
	}
	page, err = repo.FindByFilter(ctx, byType)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalRowCount)
	assert.Equal(t, []string{"John Doe", "Mary"}, userNames(page.Rows))

	both := byType
	both.Name = "ar"
	page, err = repo.FindByFilter(ctx, both)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mary"}, userNames(page.Rows))
}

func TestUserFindByFilterNameWildcardsMatchLiterally(t *testing.T) {
	ctx := context.Background()
	repo := seedUsers(t)
	addUser(t, repo, "Ann_100%", "ann@domain.com", models.UserCustomer)

	for _, name := range []string{"%", "_", "n_1", "100%"} {
		f := domain.UserFilter{
			PaginationData: domain.NewPaginationData(0, 10, "name", domain.Ascending),
			Name:           name,
		}
		page, err := repo.FindByFilter(ctx, f)
		require.NoError(t, err)
		assert.Equal(t, []string{"Ann_100%"}, userNames(page.Rows), name)
	}

	f := domain.UserFilter{
		PaginationData: domain.NewPaginationData(0, 10, "name", domain.Ascending),
		Name:           "n!",
	}
	page, err := repo.FindByFilter(ctx, f)
	require.NoError(t, err)
	assert.Empty(t, page.Rows)
}

func TestUserFindByFilterHugeOffsetIsEmpty(t *testing.T) {
	repo := seedUsers(t)

	f := domain.UserFilter{PaginationData: domain.NewPaginationData(math.MaxInt/10, 10, "name", domain.Ascending)}
	page, err := repo.FindByFilter(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalRowCount)
	assert.Empty(t, page.Rows)
}

func TestUserFindByFilterRejectsUnknownSortField(t *testing.T) {
	repo := seedUsers(t)

	f := domain.UserFilter{PaginationData: domain.NewPaginationData(0, 10, "password", domain.Ascending)}
	_, err := repo.FindByFilter(context.Background(), f)
	require.Error(t, err)
	assert.ErrorAs(t, err, new(domain.ValidationError))
}

func TestUserFindByEmailAndDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := seedUsers(t)

	u, err := repo.FindByEmail(ctx, "mary@domain.com")
	require.NoError(t, err)
	assert.Equal(t, "Mary", u.Name)
	assert.Equal(t, models.UserCustomer, u.Type)
	assert.Equal(t, "hash", u.PasswordHash)
	assert.False(t, u.CreatedAt.IsZero())

	_, err = repo.FindByEmail(ctx, "nobody@domain.com")
	assert.True(t, domain.IsNotFound(err))

	exists, err := repo.AlreadyExists(ctx, "mary@domain.com", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.AlreadyExists(ctx, "mary@domain.com", u.ID)
	require.NoError(t, err)
	assert.False(t, exists, "a user does not conflict with itself")

	_, err = repo.Add(ctx, models.User{Name: "Mary Two", Email: "mary@domain.com", PasswordHash: "x", Type: models.UserCustomer})
	assert.ErrorAs(t, err, new(domain.ConflictError))
}

func TestUserUpdateAndPassword(t *testing.T) {
	ctx := context.Background()
	repo := seedUsers(t)
	u, err := repo.FindByEmail(ctx, "john@domain.com")
	require.NoError(t, err)

	u.Name = "John Smith"
	u.Type = models.UserEmployee
	require.NoError(t, repo.Update(ctx, u))
	require.NoError(t, repo.UpdatePassword(ctx, u.ID, "new-hash"))

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "John Smith", got.Name)
	assert.Equal(t, models.UserCustomer, got.Type, "type is not changed by update")
	assert.Equal(t, "new-hash", got.PasswordHash)
}
