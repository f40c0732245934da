package domain

import (
	"context"
	"time"
)

// OrderMode is the direction applied to PaginationData.OrderField.
type OrderMode string

const (
	Ascending  OrderMode = "ASCENDING"
	Descending OrderMode = "DESCENDING"
)

const DefaultPageSize = 10

// PaginationData describes the window and ordering of a list query.
type PaginationData struct {
	FirstResult int
	MaxResults  int
	OrderField  string
	OrderMode   OrderMode
}

// NewPaginationData builds the window for a zero-based page.
func NewPaginationData(page, perPage int, orderField string, mode OrderMode) PaginationData {
	return PaginationData{
		FirstResult: page * perPage,
		MaxResults:  perPage,
		OrderField:  orderField,
		OrderMode:   mode,
	}
}

func (p PaginationData) IsAscending() bool { return p.OrderMode != Descending }

// PaginatedResult holds one page of rows plus the total matching the predicate.
type PaginatedResult[T any] struct {
	TotalRowCount int64
	Rows          []T
}

type AuthorFilter struct {
	PaginationData
	Name string
}

type UserFilter struct {
	PaginationData
	Name string
	Type string
}

type BookFilter struct {
	PaginationData
	Title      string
	CategoryID int64
}

type OrderFilter struct {
	PaginationData
	StartDate  *time.Time
	EndDate    *time.Time
	Status     string
	CustomerID int64
}

type AuditLogFilter struct {
	PaginationData
	StartDate *time.Time
	EndDate   *time.Time
	UserEmail string
}

// Role names carried in tokens and checked at the boundary.
const (
	RoleCustomer      = "CUSTOMER"
	RoleEmployee      = "EMPLOYEE"
	RoleAdministrator = "ADMINISTRATOR"
)

// Actor is the authenticated caller of a request.
type Actor struct {
	Email string
	Roles []string
}

func (a Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (a Actor) IsAnonymous() bool { return a.Email == "" }

type actorKey struct{}

// WithActor stores the caller on ctx so services and the audit decorator can see it.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFrom returns the caller stored on ctx, or an anonymous actor.
func ActorFrom(ctx context.Context) Actor {
	if a, ok := ctx.Value(actorKey{}).(Actor); ok {
		return a
	}
	return Actor{}
}
