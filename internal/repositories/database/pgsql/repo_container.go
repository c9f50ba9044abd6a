package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/kahawapay/kahawapay_backend/internal/core/ports/repositories"
)

// RepositoryContainer bundles the pgsql repository implementations.
type RepositoryContainer struct {
	rateRepo *PgxRateRepository
	txnRepo  *PgxTransactionRepository
	userRepo *PgxUserRepository
}

// NewRepositoryContainer builds every pgsql repository on a shared pool.
func NewRepositoryContainer(dbPool *pgxpool.Pool) *RepositoryContainer {
	return &RepositoryContainer{
		rateRepo: newPgxRateRepository(dbPool),
		txnRepo:  newPgxTransactionRepository(dbPool),
		userRepo: newPgxUserRepository(dbPool),
	}
}

func (c *RepositoryContainer) RateRepository() portsrepo.RateRepositoryFacade {
	return c.rateRepo
}

func (c *RepositoryContainer) TransactionRepository() portsrepo.TransactionRepositoryFacade {
	return c.txnRepo
}

func (c *RepositoryContainer) UserRepository() portsrepo.UserRepositoryFacade {
	return c.userRepo
}
