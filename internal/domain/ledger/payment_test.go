package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizan/backend/internal/domain/shared/valueobject"
)

func TestNewPayment(t *testing.T) {
	obligationID := uuid.New()
	counterpartyID := uuid.New()

	tests := []struct {
		name    string
		amount  string
		method  PaymentMethod
		wantErr bool
	}{
		{"valid cash payment", "250.50", MethodCash, false},
		{"valid bank transfer", "1000", MethodBankTransfer, false},
		{"zero amount", "0", MethodCash, true},
		{"negative amount", "-10", MethodCard, true},
		{"unknown method", "100", "BARTER", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPayment(obligationID, counterpartyID, dec(tt.amount), tt.method, time.Now(), "")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, p.ObligationID)
			assert.Equal(t, obligationID, *p.ObligationID)
			assertDecimalEqual(t, tt.amount, p.Amount.Amount())
			assert.Equal(t, valueobject.SAR, p.Amount.Currency())
		})
	}

	t.Run("missing obligation id", func(t *testing.T) {
		_, err := NewPayment(uuid.Nil, counterpartyID, dec("10"), MethodCash, time.Now(), "")
		assert.Error(t, err)
	})

	t.Run("amount rounded to cents", func(t *testing.T) {
		p, err := NewPayment(obligationID, counterpartyID, dec("99.999"), MethodCash, time.Now(), "")
		require.NoError(t, err)
		assertDecimalEqual(t, "100", p.Amount.Amount())
	})

	t.Run("zero paidAt defaults to now", func(t *testing.T) {
		p, err := NewPayment(obligationID, counterpartyID, dec("10"), MethodCash, time.Time{}, "")
		require.NoError(t, err)
		assert.False(t, p.PaidAt.IsZero())
	})
}

func TestNewCounterpartyPayment(t *testing.T) {
	p, err := NewCounterpartyPayment(uuid.New(), dec("500"), MethodBankTransfer, time.Now(), "wire-123")
	require.NoError(t, err)
	assert.Nil(t, p.ObligationID)
	assert.Equal(t, "wire-123", p.Reference)

	_, err = NewCounterpartyPayment(uuid.Nil, dec("500"), MethodCash, time.Now(), "")
	assert.Error(t, err)
}

func TestPayment_AllocateTo(t *testing.T) {
	p, err := NewCounterpartyPayment(uuid.New(), dec("500"), MethodCash, time.Now(), "")
	require.NoError(t, err)

	target := uuid.New()
	require.NoError(t, p.AllocateTo(target))
	require.NotNil(t, p.ObligationID)
	assert.Equal(t, target, *p.ObligationID)

	// already allocated
	assert.Error(t, p.AllocateTo(uuid.New()))

	fresh, err := NewCounterpartyPayment(uuid.New(), dec("10"), MethodCash, time.Now(), "")
	require.NoError(t, err)
	assert.Error(t, fresh.AllocateTo(uuid.Nil))
}

func TestPaymentMethod_IsValid(t *testing.T) {
	valid := []PaymentMethod{MethodCash, MethodBankTransfer, MethodCard, MethodCheque, MethodCredit}
	for _, m := range valid {
		assert.True(t, m.IsValid(), m)
	}
	assert.False(t, PaymentMethod("").IsValid())
	assert.False(t, PaymentMethod("BARTER").IsValid())
}
