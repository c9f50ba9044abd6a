package services

// ServiceContainer holds instances of all application services. It is the
// entry point for accessing service functionality, particularly from handlers.
type ServiceContainer struct {
	Rate        RateSvcFacade
	Settlement  SettlementSvcFacade
	Transaction TransactionSvcFacade
	User        UserSvcFacade
	Token       TokenSvcFacade
	GoogleOAuth GoogleOAuthSvcFacade
	AssetPrice  AssetPriceProvider
}
