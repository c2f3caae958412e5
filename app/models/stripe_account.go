package models

import "time"

// Seller account verification statuses with the payment provider.
const (
	AccountStatusPending             = "PENDING"
	AccountStatusRestricted          = "RESTRICTED"
	AccountStatusEnabled             = "ENABLED"
	AccountStatusCompleted           = "COMPLETED"
	AccountStatusVerificationFailed  = "VERIFICATION_FAILED"
	AccountStatusRejected            = "REJECTED"
	AccountStatusRequiresIdentityDoc = "REQUIRES_IDENTITY_DOC"
	AccountStatusPendingVerification = "PENDING_VERIFICATION"
)

// AllAccountStatuses lists the full status universe. Used by the state
// machine tests to assert the transition table exhaustively.
var AllAccountStatuses = []string{
	AccountStatusPending,
	AccountStatusRestricted,
	AccountStatusEnabled,
	AccountStatusCompleted,
	AccountStatusVerificationFailed,
	AccountStatusRejected,
	AccountStatusRequiresIdentityDoc,
	AccountStatusPendingVerification,
}

// StripeAccount tracks a seller's onboarding/verification state with the
// payment provider. Created on first onboarding request, mutated by
// account.updated events and by the status poller, never deleted.
type StripeAccount struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"not null;uniqueIndex:ux_stripe_accounts_user" json:"user_id"`
	ProviderAccountID string   `gorm:"type:varchar(191);not null;uniqueIndex:ux_stripe_accounts_provider" json:"provider_account_id"`
	BankAccountID    string    `gorm:"type:varchar(191);default:'';index" json:"bank_account_id"`
	Status           string    `gorm:"type:varchar(32);not null;default:'PENDING';index" json:"status"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
