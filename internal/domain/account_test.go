package domain

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccount(t *testing.T) {
	tests := []struct {
		name        string
		id          string
		holderName  string
		initial     decimal.Decimal
		wantErr     error
		wantHolder  string
		wantBalance decimal.Decimal
		wantHistory int
	}{
		{
			name:        "positive initial amount records initial credit",
			id:          "A1",
			holderName:  "Alice",
			initial:     decimal.RequireFromString("100.00"),
			wantHolder:  "ALICE",
			wantBalance: decimal.RequireFromString("100.00"),
			wantHistory: 1,
		},
		{
			name:        "zero initial amount leaves empty history",
			id:          "A2",
			holderName:  "bob smith",
			initial:     decimal.Zero,
			wantHolder:  "BOB SMITH",
			wantBalance: decimal.Zero,
			wantHistory: 0,
		},
		{
			name:        "negative initial amount clamps to zero",
			id:          "A3",
			holderName:  "Carol",
			initial:     decimal.RequireFromString("-5.00"),
			wantHolder:  "CAROL",
			wantBalance: decimal.Zero,
			wantHistory: 0,
		},
		{
			name:    "empty id rejected",
			id:      "",
			wantErr: ErrInvalidArgument,
		},
		{
			name:    "blank id rejected",
			id:      "   ",
			wantErr: ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAccount(tt.id, tt.holderName, "1111", tt.initial)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, a)
				return
			}
			require.NoError(t, err)

			view := a.View()
			assert.Equal(t, tt.id, view.ID)
			assert.Equal(t, tt.wantHolder, view.HolderName)
			assert.True(t, tt.wantBalance.Equal(view.Balance), "balance = %s", view.Balance)

			history := a.History()
			require.Len(t, history, tt.wantHistory)
			if tt.wantHistory > 0 {
				assert.Equal(t, TypeDeposit, history[0].Type)
				assert.Equal(t, "Initial credit", history[0].Note)
				assert.True(t, tt.initial.Equal(history[0].Amount))
				assert.NotEmpty(t, history[0].ID)
			}
		})
	}
}

func TestAccountDeposit(t *testing.T) {
	a, err := NewAccount("A1", "Alice", "1111", decimal.NewFromInt(100))
	require.NoError(t, err)

	tx, err := a.Deposit(decimal.RequireFromString("50.25"), "salary")
	require.NoError(t, err)
	assert.Equal(t, TypeDeposit, tx.Type)
	assert.Equal(t, "salary", tx.Note)
	assert.True(t, decimal.RequireFromString("150.25").Equal(a.Balance()))
	assert.Equal(t, tx.ID, a.History()[0].ID)

	for _, bad := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-10)} {
		_, err := a.Deposit(bad, "bad")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}
	assert.True(t, decimal.RequireFromString("150.25").Equal(a.Balance()), "failed deposits must not change balance")
	assert.Len(t, a.History(), 2)
}

func TestAccountWithdraw(t *testing.T) {
	a, err := NewAccount("A1", "Alice", "1111", decimal.NewFromInt(150))
	require.NoError(t, err)

	_, err = a.Withdraw(decimal.NewFromInt(200), "too much")
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.True(t, decimal.NewFromInt(150).Equal(a.Balance()), "failed withdraw must not change balance")
	assert.Len(t, a.History(), 1)

	_, err = a.Withdraw(decimal.Zero, "zero")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	tx, err := a.Withdraw(decimal.NewFromInt(50), "cash")
	require.NoError(t, err)
	assert.Equal(t, TypeWithdraw, tx.Type)
	assert.True(t, decimal.NewFromInt(100).Equal(a.Balance()))

	// Balance can reach exactly zero but never go below.
	_, err = a.Withdraw(decimal.NewFromInt(100), "all of it")
	require.NoError(t, err)
	assert.True(t, a.Balance().IsZero())
}

func TestAccountLogTransferLeg(t *testing.T) {
	a, err := NewAccount("A1", "Alice", "1111", decimal.NewFromInt(100))
	require.NoError(t, err)

	tx := a.LogTransferLeg(decimal.NewFromInt(30), "Transfer to A2")
	assert.Equal(t, TypeTransfer, tx.Type)
	assert.True(t, decimal.NewFromInt(100).Equal(a.Balance()), "audit entry must not change balance")

	history := a.History()
	require.Len(t, history, 2)
	assert.Equal(t, tx.ID, history[0].ID)
}

func TestAccountHistoryCapEviction(t *testing.T) {
	a, err := NewAccount("A1", "Alice", "1111", decimal.Zero)
	require.NoError(t, err)

	const total = 501
	for i := 1; i <= total; i++ {
		_, err := a.Deposit(decimal.NewFromInt(1), fmt.Sprintf("tx-%d", i))
		require.NoError(t, err)
	}

	history := a.History()
	require.Len(t, history, 500)

	// Most recent first; the very first deposit was evicted.
	assert.Equal(t, "tx-501", history[0].Note)
	assert.Equal(t, "tx-2", history[499].Note)
	for _, tx := range history {
		assert.NotEqual(t, "tx-1", tx.Note)
	}

	// Timestamps never decrease walking from oldest to newest.
	for i := 1; i < len(history); i++ {
		assert.False(t, history[i-1].Timestamp.Before(history[i].Timestamp))
	}

	assert.True(t, decimal.NewFromInt(total).Equal(a.Balance()))
}

func TestAccountHistoryIsACopy(t *testing.T) {
	a, err := NewAccount("A1", "Alice", "1111", decimal.NewFromInt(100))
	require.NoError(t, err)

	history := a.History()
	require.Len(t, history, 1)
	history[0].Note = "tampered"
	history[0].Amount = decimal.NewFromInt(999999)

	fresh := a.History()
	assert.Equal(t, "Initial credit", fresh[0].Note)
	assert.True(t, decimal.NewFromInt(100).Equal(fresh[0].Amount))
}

func TestAccountStateRoundTrip(t *testing.T) {
	a, err := NewAccount("A1", "Alice Smith", "1111", decimal.RequireFromString("100.50"))
	require.NoError(t, err)
	_, err = a.Deposit(decimal.NewFromInt(25), "salary")
	require.NoError(t, err)

	st := a.State()
	restored := AccountFromState(st)

	assert.Equal(t, a.ID(), restored.ID())
	assert.True(t, a.Balance().Equal(restored.Balance()))
	assert.Equal(t, a.View(), restored.View())
	require.Equal(t, len(a.History()), len(restored.History()))
	for i, tx := range a.History() {
		assert.Equal(t, tx.ID, restored.History()[i].ID)
	}

	// Previously issued credentials keep working after a round trip.
	assert.True(t, restored.VerifyPIN("1111"))
	assert.False(t, restored.VerifyPIN("2222"))
}
