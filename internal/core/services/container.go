package services

import (
	portsrepo "github.com/kahawapay/kahawapay_backend/internal/core/ports/repositories"
	portssvc "github.com/kahawapay/kahawapay_backend/internal/core/ports/services"
	"github.com/kahawapay/kahawapay_backend/internal/platform/config"
	"github.com/shopspring/decimal"
)

// RepositoryProvider gives access to the repository implementations needed to
// build the service container.
type RepositoryProvider interface {
	RateRepository() portsrepo.RateRepositoryFacade
	TransactionRepository() portsrepo.TransactionRepositoryFacade
	UserRepository() portsrepo.UserRepositoryFacade
}

// NewServiceContainer wires concrete services into the container used by the
// handlers.
func NewServiceContainer(cfg *config.Config, repos RepositoryProvider, assetPrice portssvc.AssetPriceProvider, notifier portssvc.PayoutNotifier, feePercent, guestLimitUSD decimal.Decimal) (*portssvc.ServiceContainer, *RateService, *TransactionService) {
	rateService := NewRateService(repos.RateRepository())
	settlementService := NewSettlementService(rateService, assetPrice, feePercent, guestLimitUSD)
	transactionService := NewTransactionService(repos.TransactionRepository(), notifier, guestLimitUSD)
	userService := NewUserService(repos.UserRepository())

	container := &portssvc.ServiceContainer{
		Rate:        rateService,
		Settlement:  settlementService,
		Transaction: transactionService,
		User:        userService,
		Token:       NewTokenService(cfg),
		GoogleOAuth: NewGoogleOAuthService(cfg),
		AssetPrice:  assetPrice,
	}
	return container, rateService, transactionService
}
