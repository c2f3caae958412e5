package payment

import (
	"testing"

	"github.com/mizuki-dev/GiftMarche/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindOrCreate(t *testing.T) {
	repos := newFakeRepos()
	svc := NewTransactionService(repos)

	t.Run("creates with default status", func(t *testing.T) {
		txn, err := svc.FindOrCreate(nil, &models.PaymentTransaction{
			PaymentIntentID: "pi_new",
			Amount:          10000,
			Currency:        "jpy",
			OrderKind:       models.OrderKindProduct,
		})
		require.NoError(t, err)
		assert.NotZero(t, txn.ID)
		assert.Equal(t, models.PaymentStatusCreated, txn.Status)
	})

	t.Run("returns existing on redelivery", func(t *testing.T) {
		first, err := svc.FindOrCreate(nil, &models.PaymentTransaction{PaymentIntentID: "pi_dup"})
		require.NoError(t, err)

		second, err := svc.FindOrCreate(nil, &models.PaymentTransaction{PaymentIntentID: "pi_dup"})
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		rows, err := repos.PaymentTransaction.ListByPaymentIntentID("pi_dup")
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})
}

func TestApplyStatus(t *testing.T) {
	t.Run("advances and merges fields", func(t *testing.T) {
		repos := newFakeRepos()
		svc := NewTransactionService(repos)
		_, err := svc.FindOrCreate(nil, &models.PaymentTransaction{PaymentIntentID: "pi_1"})
		require.NoError(t, err)

		txn, err := svc.ApplyStatus(nil, "pi_1", models.PaymentStatusChargePending, map[string]interface{}{
			"charge_id": "ch_1",
		})
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusChargePending, txn.Status)
		assert.Equal(t, "ch_1", txn.ChargeID)
	})

	t.Run("skips stale status after settlement", func(t *testing.T) {
		repos := newFakeRepos()
		svc := NewTransactionService(repos)
		_, err := svc.FindOrCreate(nil, &models.PaymentTransaction{PaymentIntentID: "pi_2"})
		require.NoError(t, err)

		_, err = svc.ApplyStatus(nil, "pi_2", models.PaymentStatusChargeSucceeded, nil)
		require.NoError(t, err)

		txn, err := svc.ApplyStatus(nil, "pi_2", models.PaymentStatusChargePending, map[string]interface{}{
			"charge_id": "ch_stale",
		})
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusChargeSucceeded, txn.Status)
		assert.Empty(t, txn.ChargeID, "stale delivery must not merge fields")
	})

	t.Run("unknown intent errors", func(t *testing.T) {
		svc := NewTransactionService(newFakeRepos())
		_, err := svc.ApplyStatus(nil, "pi_missing", models.PaymentStatusChargePending, nil)
		assert.Error(t, err)
	})
}

func TestPaymentStatusRegression(t *testing.T) {
	tests := []struct {
		stored   string
		incoming string
		want     bool
	}{
		{models.PaymentStatusCreated, models.PaymentStatusChargePending, false},
		{models.PaymentStatusChargePending, models.PaymentStatusChargeSucceeded, false},
		{models.PaymentStatusChargeSucceeded, models.PaymentStatusChargePending, true},
		{models.PaymentStatusChargeSucceeded, models.PaymentStatusChargeSucceeded, false},
		{models.PaymentStatusChargeFailed, models.PaymentStatusChargeSucceeded, true},
		{models.PaymentStatusChargeCanceled, models.PaymentStatusChargePending, true},
		{models.PaymentStatusChargePending, models.PaymentStatusCreated, true},
		{models.PaymentStatusCreated, "UNKNOWN", true},
	}

	for _, tt := range tests {
		if got := PaymentStatusRegression(tt.stored, tt.incoming); got != tt.want {
			t.Fatalf("PaymentStatusRegression(%s, %s) = %v, want %v", tt.stored, tt.incoming, got, tt.want)
		}
	}
}
