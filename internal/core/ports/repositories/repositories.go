package repositories

// RepositoryProvider bundles all repository implementations for service wiring.
type RepositoryProvider struct {
	AccountRepo      AccountRepository
	LedgerRepo       LedgerRepository
	SupplyRepo       SupplyRepository
	MintRepo         MintRepository
	NotificationRepo NotificationRepository
	OTPStore         OTPStore
}
