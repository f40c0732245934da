package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lnascimentosilva/library/internal/auth"
	intconfig "github.com/lnascimentosilva/library/internal/config"
	"github.com/lnascimentosilva/library/internal/domain"
	"github.com/lnascimentosilva/library/internal/domain/models"
	"github.com/lnascimentosilva/library/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

type fakeAuthors struct {
	services.AuthorServices
	added []models.Author
	err   error
}

func (f *fakeAuthors) Add(_ context.Context, a models.Author) (models.Author, error) {
	if f.err != nil {
		return models.Author{}, f.err
	}
	a.ID = int64(len(f.added) + 1)
	f.added = append(f.added, a)
	return a, nil
}

func (f *fakeAuthors) FindByFilter(_ context.Context, flt domain.AuthorFilter) (domain.PaginatedResult[models.Author], error) {
	if f.err != nil {
		return domain.PaginatedResult[models.Author]{}, f.err
	}
	return domain.PaginatedResult[models.Author]{TotalRowCount: 3, Rows: []models.Author{{ID: 1, Name: flt.Name}}}, nil
}

type fakeCategories struct {
	services.CategoryServices
	err error
}

func (f *fakeCategories) Update(context.Context, models.Category) error { return f.err }

func (f *fakeCategories) FindByID(_ context.Context, id int64) (models.Category, error) {
	return models.Category{ID: id, Name: "Architecture"}, f.err
}

func (f *fakeCategories) FindAll(context.Context) ([]models.Category, error) {
	return []models.Category{{ID: 1, Name: "Architecture"}}, f.err
}

type fakeUsers struct {
	services.UserServices
	byEmail map[string]models.User
	updated []models.User
}

func (f *fakeUsers) Add(_ context.Context, u models.User) (models.User, error) {
	u.ID = 42
	return u, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	return u, nil
}

func (f *fakeUsers) FindByEmailAndPassword(_ context.Context, email, password string) (models.User, error) {
	u, ok := f.byEmail[email]
	if !ok || password != "secret" {
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	return u, nil
}

func (f *fakeUsers) Update(_ context.Context, u models.User) error {
	f.updated = append(f.updated, u)
	return nil
}

type fakeOrders struct {
	services.OrderServices
	actor domain.Actor
}

func (f *fakeOrders) Add(ctx context.Context, items []models.NewOrderItem) (models.Order, error) {
	f.actor = domain.ActorFrom(ctx)
	return models.Order{ID: 9}, nil
}

func (f *fakeOrders) Receipt(context.Context, int64) ([]byte, string, error) {
	return []byte("%PDF-1.3"), "RECEIPT_9_Mary.pdf", nil
}

type testServer struct {
	router  *gin.Engine
	tokens  auth.Tokens
	authors *fakeAuthors
	cats    *fakeCategories
	users   *fakeUsers
	orders  *fakeOrders
}

func newTestServer(t *testing.T, allowReset bool) testServer {
	t.Helper()
	s := testServer{
		tokens:  auth.NewTokens("test-secret", time.Hour),
		authors: &fakeAuthors{},
		cats:    &fakeCategories{},
		users: &fakeUsers{byEmail: map[string]models.User{
			"mary@domain.com":  {ID: 1, Name: "Mary", Email: "mary@domain.com", Type: models.UserCustomer},
			"john@domain.com":  {ID: 2, Name: "John", Email: "john@domain.com", Type: models.UserCustomer},
			"clerk@domain.com": {ID: 3, Name: "Clerk", Email: "clerk@domain.com", Type: models.UserEmployee},
		}},
		orders: &fakeOrders{},
	}
	env := intconfig.Env{App: intconfig.AppConfig{AllowDBReset: allowReset}}
	s.router = NewRouter(env, Deps{
		Tokens:     s.tokens,
		Authors:    s.authors,
		Categories: s.cats,
		Users:      s.users,
		Orders:     s.orders,
	})
	return s
}

func (s testServer) token(t *testing.T, email string, typ models.UserType) string {
	t.Helper()
	tok, _, err := s.tokens.Issue(email, typ.Roles())
	require.NoError(t, err)
	return tok
}

func (s testServer) do(method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestHealthCarriesRequestID(t *testing.T) {
	s := newTestServer(t, false)
	w := s.do(http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestAuthorCreateRequiresEmployee(t *testing.T) {
	s := newTestServer(t, false)
	body := `{"name":"Robert Martin"}`

	w := s.do(http.MethodPost, "/api/authors", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/authors", body, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/authors", body, s.token(t, "mary@domain.com", models.UserCustomer))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/authors", body, s.token(t, "clerk@domain.com", models.UserEmployee))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":1}`, w.Body.String())
	assert.Equal(t, "Robert Martin", s.authors.added[0].Name)
}

func TestValidationAndConflictBodies(t *testing.T) {
	s := newTestServer(t, false)
	clerk := s.token(t, "clerk@domain.com", models.UserEmployee)

	s.authors.err = domain.NewValidationError("name", "size must be between 2 and 40")
	w := s.do(http.MethodPost, "/api/authors", `{"name":"A"}`, clerk)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"errors":[{"field":"name","message":"size must be between 2 and 40"}]}`, w.Body.String())

	s.cats.err = domain.ConflictError{Resource: "category", Field: "name"}
	w = s.do(http.MethodPut, "/api/categories/1", `{"name":"Architecture"}`, clerk)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"code":"category.existent","field":"name","message":"there is already a category for the given name"}`, w.Body.String())

	s.cats.err = domain.NotFoundError{Resource: "category"}
	w = s.do(http.MethodPut, "/api/categories/1", `{"name":"Architecture"}`, clerk)
	assert.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "not_found", body["code"])
	assert.Equal(t, w.Header().Get("X-Request-ID"), body["request_id"])

	s.cats.err = nil
	w = s.do(http.MethodPut, "/api/categories/1", `{"name":"Architecture"}`, clerk)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestAuthorListIsPublicAndPaged(t *testing.T) {
	s := newTestServer(t, false)
	w := s.do(http.MethodGet, "/api/authors?name=martin&page=0&per_page=2&sort=-name", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"paging":{"totalRecords":3},"entries":[{"id":1,"name":"martin"}]}`, w.Body.String())
}

func TestCategoryByIDNeedsEmployee(t *testing.T) {
	s := newTestServer(t, false)

	w := s.do(http.MethodGet, "/api/categories/1", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/categories/1", "", s.token(t, "mary@domain.com", models.UserCustomer))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/categories/1", "", s.token(t, "clerk@domain.com", models.UserEmployee))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Architecture"`)

	w = s.do(http.MethodGet, "/api/categories", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Architecture"`)
}

func TestSignupAsEmployeeIsForbidden(t *testing.T) {
	s := newTestServer(t, false)
	employee := `{"name":"Sneaky","email":"x@y.com","password":"p","type":"EMPLOYEE"}`
	w := s.do(http.MethodPost, "/api/users", employee, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/users", employee, s.token(t, "clerk@domain.com", models.UserEmployee))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/users", `{"type":"EMPLOYEE"}`, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/users", `{"name":"Honest","email":"x@y.com","password":"p","type":"CUSTOMER"}`, "")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":42}`, w.Body.String())
}

func TestUserUpdateSelfOrAdmin(t *testing.T) {
	s := newTestServer(t, false)
	body := `{"name":"Mary Jane","email":"mary@domain.com"}`

	w := s.do(http.MethodPut, "/api/users/2", body, s.token(t, "mary@domain.com", models.UserCustomer))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, s.users.updated)

	w = s.do(http.MethodPut, "/api/users/1", body, s.token(t, "mary@domain.com", models.UserCustomer))
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPut, "/api/users/2", body, s.token(t, "clerk@domain.com", models.UserEmployee))
	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, s.users.updated, 2)
	assert.Equal(t, int64(2), s.users.updated[1].ID)
}

func TestLoginAndAuthenticate(t *testing.T) {
	s := newTestServer(t, false)

	w := s.do(http.MethodPost, "/api/auth/login", `{"email":"mary@domain.com","password":"secret"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Token string            `json:"token"`
		User  models.PublicUser `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	assert.Equal(t, []string{domain.RoleCustomer}, login.User.Roles)

	actor, err := s.tokens.Parse(login.Token)
	require.NoError(t, err)
	assert.Equal(t, "mary@domain.com", actor.Email)

	w = s.do(http.MethodPost, "/api/auth/login", `{"email":"mary@domain.com","password":"nope"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/users/authenticate", `{"email":"mary@domain.com","password":"nope"}`, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(http.MethodPost, "/api/users/authenticate", `{"email":"mary@domain.com","password":"secret"}`, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestOrderRoutes(t *testing.T) {
	s := newTestServer(t, false)
	mary := s.token(t, "mary@domain.com", models.UserCustomer)
	body := `{"items":[{"bookId":1,"quantity":2}]}`

	w := s.do(http.MethodPost, "/api/orders", body, s.token(t, "clerk@domain.com", models.UserEmployee))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/orders", body, mary)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "mary@domain.com", s.orders.actor.Email)

	w = s.do(http.MethodGet, "/api/orders/9/receipt", "", mary)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "RECEIPT_9_Mary.pdf")
}

func TestMalformedBodyAndID(t *testing.T) {
	s := newTestServer(t, false)
	clerk := s.token(t, "clerk@domain.com", models.UserEmployee)

	w := s.do(http.MethodPost, "/api/authors", `{"name":`, clerk)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPut, "/api/categories/abc", `{"name":"Architecture"}`, clerk)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDBResetRouteIsOptIn(t *testing.T) {
	s := newTestServer(t, false)
	w := s.do(http.MethodDelete, "/api/db", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, false)
	s.do(http.MethodGet, "/api/health", "", "")
	w := s.do(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "library_http_requests_total")
}
