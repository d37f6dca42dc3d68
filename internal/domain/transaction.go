package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType defines the nature of a ledger entry.
type TransactionType string

const (
	// TypeDeposit credits the account balance.
	TypeDeposit TransactionType = "DEPOSIT"
	// TypeWithdraw debits the account balance.
	TypeWithdraw TransactionType = "WITHDRAW"
	// TypeTransfer is an audit-only record of a transfer leg; the balance
	// change itself is carried by the paired deposit/withdraw entry.
	TypeTransfer TransactionType = "TRANSFER"
)

// Transaction is a single immutable ledger entry. Entries are created only as
// a side effect of deposit/withdraw/transfer and are never modified afterwards.
type Transaction struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Type      TransactionType `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note"`
}

// newTransaction stamps a fresh entry with a v4 UUID. The caller supplies the
// timestamp so the owning account can keep per-account times non-decreasing.
func newTransaction(t TransactionType, amount decimal.Decimal, note string, at time.Time) Transaction {
	return Transaction{
		ID:        uuid.NewString(),
		Timestamp: at,
		Type:      t,
		Amount:    amount,
		Note:      note,
	}
}

// csvTimeLayout is the DateTime format of exported history rows.
const csvTimeLayout = "2006-01-02 15:04:05"

// CSVRow returns the five export fields in TxID,DateTime,Type,Amount,Note
// order, with the amount fixed at two fractional digits.
func (t Transaction) CSVRow() []string {
	return []string{
		t.ID,
		t.Timestamp.Format(csvTimeLayout),
		string(t.Type),
		t.Amount.StringFixed(2),
		t.Note,
	}
}
