package services

import (
	"context"
	"database/sql"

	"github.com/lnascimentosilva/library/internal/repositories"
	"github.com/lnascimentosilva/library/internal/utils"
)

type AdminService struct {
	DB    *sql.DB
	Admin repositories.AdminRepository
}

func NewAdminService(store repositories.Store) AdminService {
	return AdminService{DB: store.DB, Admin: repositories.AdminRepository{Store: store}}
}

// ResetAll removes every row from every table. Only wired when resets are enabled.
func (s AdminService) ResetAll(ctx context.Context) error {
	err := inTx(ctx, s.DB, s.Admin.DeleteAll)
	if err == nil {
		utils.LogEvent("", "admin", "reset_all", "all tables cleared")
	}
	return err
}
