package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/lnascimentosilva/library/internal/domain"
	"github.com/lnascimentosilva/library/internal/domain/models"
	"github.com/lnascimentosilva/library/internal/repositories"
	"github.com/lnascimentosilva/library/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	DB    *sql.DB
	Users repositories.UserRepository
	// HashCost defaults to bcrypt.DefaultCost; tests lower it.
	HashCost int
}

func NewUserService(store repositories.Store) UserService {
	return UserService{DB: store.DB, Users: repositories.UserRepository{Store: store}}
}

var (
	comparePassword = bcrypt.CompareHashAndPassword
	// decoyHashes holds one throwaway hash per cost, compared against when the
	// email is unknown so both login failures cost one bcrypt round.
	decoyHashes sync.Map
)

func (s UserService) cost() int {
	if s.HashCost == 0 {
		return bcrypt.DefaultCost
	}
	return s.HashCost
}

func (s UserService) decoyHash() []byte {
	cost := s.cost()
	if h, ok := decoyHashes.Load(cost); ok {
		return h.([]byte)
	}
	h, err := bcrypt.GenerateFromPassword([]byte("decoy-password"), cost)
	if err != nil {
		return nil
	}
	decoyHashes.Store(cost, h)
	return h
}

func (s UserService) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.cost())
	if err != nil {
		return "", domain.InternalError{Msg: "failed to hash password", Err: err}
	}
	return string(b), nil
}

func (s UserService) checkUnique(ctx context.Context, u models.User) error {
	exists, err := s.Users.AlreadyExists(ctx, u.Email, u.ID)
	if err != nil {
		return err
	}
	if exists {
		return domain.ConflictError{Resource: "user", Field: "email"}
	}
	return nil
}

func (s UserService) Add(ctx context.Context, u models.User) (models.User, error) {
	u.Email = utils.TrimOrEmpty(u.Email)
	if err := ValidateUser(u, true); err != nil {
		return models.User{}, err
	}
	hash, err := s.hash(u.Password)
	if err != nil {
		return models.User{}, err
	}
	u.Password = ""
	u.PasswordHash = hash
	u.CreatedAt = utils.NowUTC()

	err = inTx(ctx, s.DB, func(ctx context.Context) error {
		if err := s.checkUnique(ctx, u); err != nil {
			return err
		}
		id, err := s.Users.Add(ctx, u)
		u.ID = id
		return err
	})
	if err != nil {
		return models.User{}, err
	}
	u.PasswordHash = ""
	return u, nil
}

// Update changes name and email. The user type is fixed at creation.
func (s UserService) Update(ctx context.Context, u models.User) error {
	u.Email = utils.TrimOrEmpty(u.Email)
	if err := ValidateUser(u, false); err != nil {
		return err
	}
	return inTx(ctx, s.DB, func(ctx context.Context) error {
		ok, err := s.Users.ExistsByID(ctx, u.ID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NotFoundError{Resource: "user"}
		}
		if err := s.checkUnique(ctx, u); err != nil {
			return err
		}
		return s.Users.Update(ctx, u)
	})
}

func (s UserService) UpdatePassword(ctx context.Context, id int64, password string) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}
	hash, err := s.hash(password)
	if err != nil {
		return err
	}
	return inTx(ctx, s.DB, func(ctx context.Context) error {
		ok, err := s.Users.ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NotFoundError{Resource: "user"}
		}
		return s.Users.UpdatePassword(ctx, id, hash)
	})
}

func (s UserService) FindByID(ctx context.Context, id int64) (out models.User, err error) {
	err = inTx(ctx, s.DB, func(ctx context.Context) error {
		out, err = s.Users.FindByID(ctx, id)
		return err
	})
	out.PasswordHash = ""
	return out, err
}

func (s UserService) FindByEmail(ctx context.Context, email string) (out models.User, err error) {
	err = inTx(ctx, s.DB, func(ctx context.Context) error {
		out, err = s.Users.FindByEmail(ctx, utils.TrimOrEmpty(email))
		return err
	})
	out.PasswordHash = ""
	return out, err
}

// FindByEmailAndPassword returns the same not found error for an unknown
// email and a wrong password.
func (s UserService) FindByEmailAndPassword(ctx context.Context, email, password string) (models.User, error) {
	var u models.User
	err := inTx(ctx, s.DB, func(ctx context.Context) error {
		var err error
		u, err = s.Users.FindByEmail(ctx, utils.TrimOrEmpty(email))
		return err
	})
	if domain.IsNotFound(err) {
		_ = comparePassword(s.decoyHash(), []byte(password))
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	if err != nil {
		return models.User{}, err
	}
	if err := comparePassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return models.User{}, domain.NotFoundError{Resource: "user"}
		}
		return models.User{}, domain.InternalError{Msg: "failed to verify password", Err: err}
	}
	u.PasswordHash = ""
	return u, nil
}

func (s UserService) FindByFilter(ctx context.Context, f domain.UserFilter) (out domain.PaginatedResult[models.User], err error) {
	err = inTx(ctx, s.DB, func(ctx context.Context) error {
		out, err = s.Users.FindByFilter(ctx, f)
		return err
	})
	for i := range out.Rows {
		out.Rows[i].PasswordHash = ""
	}
	return out, err
}
