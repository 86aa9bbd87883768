package partner

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizan/backend/internal/domain/shared"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newSupplier(t *testing.T) *Counterparty {
	t.Helper()
	c, err := NewCounterparty(KindSupplier, "Gulf Supplies")
	require.NoError(t, err)
	c.ClearDomainEvents()
	return c
}

func TestNewCounterparty(t *testing.T) {
	tests := []struct {
		name     string
		kind     CounterpartyKind
		cpName   string
		wantErr  bool
	}{
		{"valid customer", KindCustomer, "Acme Trading", false},
		{"valid supplier", KindSupplier, "Gulf Supplies", false},
		{"name trimmed", KindCustomer, "  Acme  ", false},
		{"blank name", KindCustomer, "   ", true},
		{"unknown kind", "PARTNER", "Acme", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCounterparty(tt.kind, tt.cpName)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, c.CreditBalance.IsZero())
			assert.NotEmpty(t, c.Name)

			events := c.GetDomainEvents()
			require.Len(t, events, 1)
			assert.Equal(t, "counterparty.created", events[0].EventType())
		})
	}
}

func TestCounterparty_AvailableCredit(t *testing.T) {
	c := newSupplier(t)

	assert.True(t, c.AvailableCredit().IsZero())

	c.CreditBalance = dec("-150")
	assert.True(t, c.AvailableCredit().Equal(dec("150")))

	c.CreditBalance = dec("80") // owes money, no credit
	assert.True(t, c.AvailableCredit().IsZero())
}

func TestCounterparty_AccrueCredit(t *testing.T) {
	c := newSupplier(t)
	version := c.GetVersion()

	txn, err := c.AccrueCredit(dec("200"), "payment-overflow")
	require.NoError(t, err)

	assert.True(t, c.CreditBalance.Equal(dec("-200")))
	assert.Equal(t, version+1, c.GetVersion())
	assert.Equal(t, CreditAccrual, txn.Kind)
	assert.True(t, txn.BalanceBefore.IsZero())
	assert.True(t, txn.BalanceAfter.Equal(dec("-200")))
	assert.NoError(t, txn.Verify())

	events := c.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "counterparty.credit_accrued", events[0].EventType())

	_, err = c.AccrueCredit(decimal.Zero, "")
	assert.Error(t, err)
}

func TestCounterparty_ConsumeCredit(t *testing.T) {
	c := newSupplier(t)
	_, err := c.AccrueCredit(dec("300"), "pre-payment")
	require.NoError(t, err)

	txn, err := c.ConsumeCredit(dec("120"), "po-settlement")
	require.NoError(t, err)

	assert.True(t, c.CreditBalance.Equal(dec("-180")))
	assert.Equal(t, CreditConsumption, txn.Kind)
	assert.NoError(t, txn.Verify())

	t.Run("insufficient credit", func(t *testing.T) {
		_, err := c.ConsumeCredit(dec("500"), "")
		assert.True(t, errors.Is(err, shared.ErrInsufficientCredit))
	})

	t.Run("non-positive amount", func(t *testing.T) {
		_, err := c.ConsumeCredit(decimal.Zero, "")
		assert.Error(t, err)
	})
}

func TestCounterparty_SetCreditBalance(t *testing.T) {
	c := newSupplier(t)

	txn := c.SetCreditBalance(dec("-75"), "allocation-run")
	require.NotNil(t, txn)
	assert.Equal(t, CreditAccrual, txn.Kind)
	assert.True(t, txn.Amount.Equal(dec("75")))
	assert.NoError(t, txn.Verify())

	t.Run("no-op when unchanged", func(t *testing.T) {
		assert.Nil(t, c.SetCreditBalance(dec("-75"), "allocation-run"))
	})

	t.Run("raising the balance is a consumption", func(t *testing.T) {
		txn := c.SetCreditBalance(dec("-25"), "credit-spent")
		require.NotNil(t, txn)
		assert.Equal(t, CreditConsumption, txn.Kind)
		assert.True(t, txn.Amount.Equal(dec("50")))
		assert.NoError(t, txn.Verify())
	})
}

func TestCounterparty_Rename(t *testing.T) {
	c := newSupplier(t)
	version := c.GetVersion()

	require.NoError(t, c.Rename("Gulf Supplies LLC"))
	assert.Equal(t, "Gulf Supplies LLC", c.Name)
	assert.Equal(t, version+1, c.GetVersion())

	assert.Error(t, c.Rename("  "))
}

func TestCounterparty_UpdateContact(t *testing.T) {
	c := newSupplier(t)
	version := c.GetVersion()

	c.UpdateContact("+966512345678", "ops@gulf.example", "Dammam")
	assert.Equal(t, "+966512345678", c.Phone)
	assert.Equal(t, version+1, c.GetVersion())
}

func TestCreditTransaction_Verify(t *testing.T) {
	c := newSupplier(t)

	good := NewCreditTransaction(c.ID, CreditAccrual, dec("100"), decimal.Zero, dec("-100"), "")
	assert.NoError(t, good.Verify())

	bad := NewCreditTransaction(c.ID, CreditAccrual, dec("100"), decimal.Zero, dec("-50"), "")
	assert.Error(t, bad.Verify())

	unknown := NewCreditTransaction(c.ID, "BOGUS", dec("100"), decimal.Zero, dec("-100"), "")
	assert.Error(t, unknown.Verify())
}
