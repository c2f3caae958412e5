package payment

import (
	"errors"

	"github.com/gofiber/fiber/v2/log"
	"github.com/mizuki-dev/GiftMarche/app/models"
	"github.com/mizuki-dev/GiftMarche/app/repository"
	"github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"
)

// AccountService drives the seller verification record. Status changes from
// both the webhook path and the poller go through the state machine, so the
// two can run concurrently without regressing a record.
type AccountService struct {
	repos  *repository.Repositories
	client ProviderClient
	cfg    Config
}

// NewAccountService creates an account service.
func NewAccountService(repos *repository.Repositories, client ProviderClient, cfg Config) *AccountService {
	return &AccountService{repos: repos, client: client, cfg: cfg}
}

// BeginOnboarding creates a custom connected account for a seller and the
// local verification record tracking it. Calling it again for the same user
// returns the existing record.
func (s *AccountService) BeginOnboarding(userID uint, email, country string) (*models.StripeAccount, error) {
	existing, err := s.repos.StripeAccount.GetByUserID(userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	acct, err := s.client.CreateAccount(&stripe.AccountParams{
		Type:    stripe.String("custom"),
		Email:   stripe.String(email),
		Country: stripe.String(country),
		Capabilities: &stripe.AccountCapabilitiesParams{
			Transfers: &stripe.AccountCapabilitiesTransfersParams{
				Requested: stripe.Bool(true),
			},
		},
	})
	if err != nil {
		return nil, err
	}

	record := &models.StripeAccount{
		UserID:            userID,
		ProviderAccountID: acct.ID,
		Status:            models.AccountStatusPending,
	}
	if err := s.repos.StripeAccount.Create(record); err != nil {
		return nil, err
	}
	log.Infof("[Payment] Created connected account %s for user %d", acct.ID, userID)
	return record, nil
}

// ApplyProviderAccount reconciles an account snapshot from an account.updated
// event into the local record. Illegal transitions are logged and skipped,
// never surfaced as handler failures.
func (s *AccountService) ApplyProviderAccount(tx *gorm.DB, acct *stripe.Account) error {
	repos := s.repos.WithTx(tx)

	record, err := repos.StripeAccount.GetByProviderAccountID(acct.ID)
	if err != nil {
		return err
	}

	if bankAccountID := firstExternalAccountID(acct); bankAccountID != "" && bankAccountID != record.BankAccountID {
		if err := repos.StripeAccount.UpdateBankAccountID(record.ID, bankAccountID); err != nil {
			return err
		}
		record.BankAccountID = bankAccountID
	}

	derived, ok := StatusFromAccount(acct, s.cfg.LiveMode)
	if !ok {
		log.Infof("[Payment] Account %s snapshot undecidable, keeping status %s", acct.ID, record.Status)
		return nil
	}
	if derived == record.Status {
		return nil
	}
	if !CanTransition(record.Status, derived) {
		log.Warnf("[Payment] Rejected account status transition %s -> %s for %s", record.Status, derived, acct.ID)
		return nil
	}

	if err := repos.StripeAccount.UpdateStatus(record.ID, derived); err != nil {
		return err
	}
	log.Infof("[Payment] Account %s status %s -> %s", acct.ID, record.Status, derived)
	return nil
}

// Deauthorize marks a seller's record REJECTED when the platform loses
// access to the connected account.
func (s *AccountService) Deauthorize(tx *gorm.DB, providerAccountID string) error {
	repos := s.repos.WithTx(tx)

	record, err := repos.StripeAccount.GetByProviderAccountID(providerAccountID)
	if err != nil {
		return err
	}
	if record.Status == models.AccountStatusRejected {
		return nil
	}
	if !CanTransition(record.Status, models.AccountStatusRejected) {
		log.Warnf("[Payment] Rejected deauthorize transition %s -> REJECTED for %s", record.Status, providerAccountID)
		return nil
	}
	return repos.StripeAccount.UpdateStatus(record.ID, models.AccountStatusRejected)
}

func firstExternalAccountID(acct *stripe.Account) string {
	if acct.ExternalAccounts == nil || len(acct.ExternalAccounts.Data) == 0 {
		return ""
	}
	return acct.ExternalAccounts.Data[0].ID
}
