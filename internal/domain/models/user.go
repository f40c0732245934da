package models

import (
	"time"

	"github.com/lnascimentosilva/library/internal/domain"
)

type UserType string

const (
	UserCustomer UserType = "CUSTOMER"
	UserEmployee UserType = "EMPLOYEE"
)

func (t UserType) Valid() bool {
	return t == UserCustomer || t == UserEmployee
}

// Roles lists the roles granted by a user type, most specific first.
func (t UserType) Roles() []string {
	switch t {
	case UserEmployee:
		return []string{domain.RoleEmployee, domain.RoleAdministrator}
	case UserCustomer:
		return []string{domain.RoleCustomer}
	default:
		return []string{}
	}
}

type User struct {
	ID           int64     `json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Password     string    `json:"-"`
	PasswordHash string    `json:"-"` // never leaves the service layer
	Type         UserType  `json:"type"`
}

type PublicUser struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Type      UserType  `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	Roles     []string  `json:"roles"`
}

func (u *User) Roles() []string {
	return u.Type.Roles()
}

func (u *User) ToPublic() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Type:      u.Type,
		CreatedAt: u.CreatedAt,
		Roles:     u.Roles(),
	}
}
