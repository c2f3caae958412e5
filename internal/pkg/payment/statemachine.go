package payment

import (
	"strings"

	"github.com/mizuki-dev/GiftMarche/app/models"
	"github.com/stripe/stripe-go/v82"
)

// accountTransitions lists every legal (from -> to) pair for seller
// verification statuses. Webhooks arrive out of order, so anything absent
// from this table is rejected and the stored status stays put. COMPLETED and
// REJECTED are near-terminal; PENDING can reach everything except COMPLETED
// directly; VERIFICATION_FAILED is the most permissive source.
var accountTransitions = map[string][]string{
	models.AccountStatusPending: {
		models.AccountStatusRestricted,
		models.AccountStatusEnabled,
		models.AccountStatusVerificationFailed,
		models.AccountStatusRejected,
		models.AccountStatusRequiresIdentityDoc,
		models.AccountStatusPendingVerification,
	},
	models.AccountStatusPendingVerification: {
		models.AccountStatusPending,
		models.AccountStatusRestricted,
		models.AccountStatusEnabled,
		models.AccountStatusCompleted,
		models.AccountStatusVerificationFailed,
		models.AccountStatusRejected,
		models.AccountStatusRequiresIdentityDoc,
	},
	models.AccountStatusRestricted: {
		models.AccountStatusEnabled,
		models.AccountStatusCompleted,
		models.AccountStatusVerificationFailed,
		models.AccountStatusRejected,
		models.AccountStatusRequiresIdentityDoc,
		models.AccountStatusPendingVerification,
	},
	models.AccountStatusEnabled: {
		models.AccountStatusRestricted,
		models.AccountStatusCompleted,
		models.AccountStatusVerificationFailed,
		models.AccountStatusRejected,
		models.AccountStatusRequiresIdentityDoc,
		models.AccountStatusPendingVerification,
	},
	models.AccountStatusVerificationFailed: {
		models.AccountStatusPending,
		models.AccountStatusRestricted,
		models.AccountStatusEnabled,
		models.AccountStatusCompleted,
		models.AccountStatusRejected,
		models.AccountStatusRequiresIdentityDoc,
		models.AccountStatusPendingVerification,
	},
	models.AccountStatusRequiresIdentityDoc: {
		models.AccountStatusRestricted,
		models.AccountStatusEnabled,
		models.AccountStatusCompleted,
		models.AccountStatusVerificationFailed,
		models.AccountStatusRejected,
		models.AccountStatusPendingVerification,
	},
	models.AccountStatusCompleted: {
		models.AccountStatusRejected,
		models.AccountStatusPendingVerification,
	},
	models.AccountStatusRejected: {
		models.AccountStatusPendingVerification,
	},
}

// CanTransition reports whether moving a verification record from one status
// to another is legal. Self transitions are not listed: an unchanged status
// never needs a write.
func CanTransition(from, to string) bool {
	for _, allowed := range accountTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// StatusFromAccount derives the local verification status implied by a live
// provider account snapshot. It returns ok=false when the snapshot does not
// carry enough information to decide; callers must then leave the stored
// status unchanged. First match wins.
func StatusFromAccount(acct *stripe.Account, liveMode bool) (string, bool) {
	if acct == nil || acct.Requirements == nil {
		return "", false
	}
	req := acct.Requirements

	if strings.HasPrefix(string(req.DisabledReason), "rejected") {
		return models.AccountStatusRejected, true
	}
	if !acct.ChargesEnabled || !acct.PayoutsEnabled {
		return models.AccountStatusRestricted, true
	}
	if len(req.CurrentlyDue) > 0 {
		return models.AccountStatusVerificationFailed, true
	}
	if len(req.EventuallyDue) > 0 {
		// Operational today, but the provider wants more information later.
		return models.AccountStatusEnabled, true
	}
	if len(req.PendingVerification) > 0 {
		return models.AccountStatusPendingVerification, true
	}

	if acct.ExternalAccounts == nil {
		return "", false
	}
	if len(acct.ExternalAccounts.Data) == 0 {
		return models.AccountStatusRestricted, true
	}
	if liveMode && hasExternalAccountError(req.Errors) {
		return models.AccountStatusVerificationFailed, true
	}

	if acct.BusinessType == stripe.AccountBusinessTypeIndividual {
		if acct.Individual == nil || acct.Individual.Verification == nil {
			return "", false
		}
		v := acct.Individual.Verification
		switch v.Status {
		case "unverified":
			return models.AccountStatusRequiresIdentityDoc, true
		case "pending":
			return models.AccountStatusPendingVerification, true
		}
		if v.Document != nil && v.Document.DetailsCode != "" {
			return models.AccountStatusRequiresIdentityDoc, true
		}
	}

	return models.AccountStatusCompleted, true
}

func hasExternalAccountError(errs []*stripe.AccountRequirementsError) bool {
	for _, e := range errs {
		if e != nil && strings.HasPrefix(string(e.Requirement), "external_account") {
			return true
		}
	}
	return false
}
