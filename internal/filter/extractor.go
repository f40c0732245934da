package filter

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lnascimentosilva/library/internal/domain"
	"github.com/lnascimentosilva/library/internal/utils"
)

// Query parameter names understood by the extractors.
const (
	ParamPage       = "page"
	ParamPerPage    = "per_page"
	ParamSort       = "sort"
	ParamName       = "name"
	ParamType       = "type"
	ParamTitle      = "title"
	ParamCategoryID = "categoryId"
	ParamCustomerID = "customerId"
	ParamStatus     = "status"
	ParamStartDate  = "startDate"
	ParamEndDate    = "endDate"
	ParamUserEmail  = "userEmail"
)

// Params is a query map holding at most one value per key.
type Params map[string]string

// FromQuery keeps the first value of every key.
func FromQuery(q url.Values) Params {
	p := make(Params, len(q))
	for k, v := range q {
		if len(v) > 0 {
			p[k] = v[0]
		}
	}
	return p
}

func (p Params) lookup(key string) (string, bool) {
	v, ok := p[key]
	return v, ok
}

// text returns the trimmed value when it is non-blank.
func (p Params) text(key string) string {
	return strings.TrimSpace(p[key])
}

func (p Params) nonNegative(key string, fallback int) int {
	v, ok := p.lookup(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func (p Params) positiveID(key string) int64 {
	n, err := strconv.ParseInt(p.text(key), 10, 64)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

func (p Params) timestamp(key string) *time.Time {
	v := p.text(key)
	if v == "" {
		return nil
	}
	t, err := utils.ParseTimestamp(v)
	if err != nil {
		return nil
	}
	return &t
}

// Pagination extracts page, per_page and sort. per_page 0 falls back to the
// default so that a page always has room for at least one row.
func Pagination(p Params, defaultField string, defaultMode domain.OrderMode) domain.PaginationData {
	page := p.nonNegative(ParamPage, 0)
	perPage := p.nonNegative(ParamPerPage, domain.DefaultPageSize)
	if perPage == 0 {
		perPage = domain.DefaultPageSize
	}
	// Pages past the largest representable offset are simply empty.
	if page > math.MaxInt/perPage {
		page = math.MaxInt / perPage
	}

	var token *string
	if v, ok := p.lookup(ParamSort); ok {
		token = &v
	}
	field, mode := ParseSort(token, defaultField, defaultMode)
	return domain.NewPaginationData(page, perPage, field, mode)
}

func Authors(p Params) domain.AuthorFilter {
	return domain.AuthorFilter{
		PaginationData: Pagination(p, "name", domain.Ascending),
		Name:           p.text(ParamName),
	}
}

func Users(p Params) domain.UserFilter {
	return domain.UserFilter{
		PaginationData: Pagination(p, "name", domain.Ascending),
		Name:           p.text(ParamName),
		Type:           p.text(ParamType),
	}
}

func Books(p Params) domain.BookFilter {
	return domain.BookFilter{
		PaginationData: Pagination(p, "title", domain.Ascending),
		Title:          p.text(ParamTitle),
		CategoryID:     p.positiveID(ParamCategoryID),
	}
}

func Orders(p Params) domain.OrderFilter {
	return domain.OrderFilter{
		PaginationData: Pagination(p, "createdAt", domain.Descending),
		StartDate:      p.timestamp(ParamStartDate),
		EndDate:        p.timestamp(ParamEndDate),
		Status:         p.text(ParamStatus),
		CustomerID:     p.positiveID(ParamCustomerID),
	}
}

func AuditLogs(p Params) domain.AuditLogFilter {
	return domain.AuditLogFilter{
		PaginationData: Pagination(p, "createdAt", domain.Descending),
		StartDate:      p.timestamp(ParamStartDate),
		EndDate:        p.timestamp(ParamEndDate),
		UserEmail:      p.text(ParamUserEmail),
	}
}
