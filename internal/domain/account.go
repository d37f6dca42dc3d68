// Package domain holds the core ledger model: accounts, transactions, and
// credential digests. It has no I/O; persistence and presentation live in the
// outer layers and only ever see immutable copies of account state.
package domain

import (
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// historyCap bounds the per-account transaction log; the oldest entry is
// evicted once the cap is exceeded.
const historyCap = 500

// Account is a mutable ledger account. All fields are unexported; callers
// observe state only through value copies (View, History, State), never
// through a handle that could mutate internals.
//
// An Account serializes its own mutations with an internal mutex. Under the
// ledger's exclusive write lock only one store operation runs at a time
// anyway, so this is defense in depth rather than the primary concurrency
// boundary.
type Account struct {
	mu               sync.Mutex
	id               string
	holderName       string
	credentialDigest string
	balance          decimal.Decimal
	history          []Transaction
	lastTxAt         time.Time
}

// AccountView is the caller-facing snapshot of an account: identity and
// balance, without the credential digest or history.
type AccountView struct {
	ID         string          `json:"id"`
	HolderName string          `json:"holder_name"`
	Balance    decimal.Decimal `json:"balance"`
}

// AccountState is the full persistable image of an account, including the
// credential digest and the ordered history. It is what the snapshot
// repository reads and writes; round-tripping it must reproduce the account
// exactly.
type AccountState struct {
	ID               string          `json:"id"`
	HolderName       string          `json:"holder_name"`
	CredentialDigest string          `json:"credential_digest"`
	Balance          decimal.Decimal `json:"balance"`
	History          []Transaction   `json:"history"`
}

// NewAccount creates an account with a hashed secret. The holder name is
// normalized to uppercase. A negative initial amount is clamped to zero; a
// positive one is recorded as an "Initial credit" deposit.
func NewAccount(id, holderName, secret string, initial decimal.Decimal) (*Account, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidArgument
	}
	a := &Account{
		id:               id,
		holderName:       strings.ToUpper(holderName),
		credentialDigest: HashSecret(secret),
		balance:          decimal.Zero,
	}
	if initial.IsPositive() {
		if _, err := a.Deposit(initial, "Initial credit"); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// AccountFromState rebuilds an account from a persisted image.
func AccountFromState(st AccountState) *Account {
	a := &Account{
		id:               st.ID,
		holderName:       st.HolderName,
		credentialDigest: st.CredentialDigest,
		balance:          st.Balance,
		history:          append([]Transaction(nil), st.History...),
	}
	if len(a.history) > 0 {
		a.lastTxAt = a.history[0].Timestamp
	}
	return a
}

// ID returns the immutable account identifier.
func (a *Account) ID() string { return a.id }

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// Deposit credits the balance and records a DEPOSIT entry.
func (a *Account) Deposit(amount decimal.Decimal, note string) (Transaction, error) {
	if !amount.IsPositive() {
		return Transaction{}, ErrInvalidAmount
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.balance = a.balance.Add(amount)
	return a.record(TypeDeposit, amount, note), nil
}

// Withdraw debits the balance and records a WITHDRAW entry. The balance never
// goes negative: an oversized amount fails with ErrInsufficientFunds and
// leaves balance and history untouched.
func (a *Account) Withdraw(amount decimal.Decimal, note string) (Transaction, error) {
	if !amount.IsPositive() {
		return Transaction{}, ErrInvalidAmount
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if amount.GreaterThan(a.balance) {
		return Transaction{}, ErrInsufficientFunds
	}
	a.balance = a.balance.Sub(amount)
	return a.record(TypeWithdraw, amount, note), nil
}

// LogTransferLeg appends a TRANSFER audit entry without touching the balance;
// the balance change is carried by the paired deposit/withdraw entry.
func (a *Account) LogTransferLeg(amount decimal.Decimal, note string) Transaction {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.record(TypeTransfer, amount, note)
}

// record appends a new entry at the head of the history, evicting the oldest
// entry past the cap. Timestamps are clamped so they never decrease within
// one account even if the wall clock steps backwards. Caller holds a.mu.
func (a *Account) record(t TransactionType, amount decimal.Decimal, note string) Transaction {
	at := time.Now()
	if at.Before(a.lastTxAt) {
		at = a.lastTxAt
	}
	a.lastTxAt = at

	tx := newTransaction(t, amount, note, at)
	a.history = append([]Transaction{tx}, a.history...)
	if len(a.history) > historyCap {
		a.history = a.history[:historyCap]
	}
	return tx
}

// VerifyPIN reports whether the given secret matches the stored digest.
func (a *Account) VerifyPIN(secret string) bool {
	return VerifySecret(secret, a.credentialDigest)
}

// History returns an independent copy of the transaction log, most recent
// first. Mutating the returned slice never affects the account.
func (a *Account) History() []Transaction {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Transaction, len(a.history))
	copy(out, a.history)
	return out
}

// View returns the caller-facing snapshot of the account.
func (a *Account) View() AccountView {
	a.mu.Lock()
	defer a.mu.Unlock()
	return AccountView{ID: a.id, HolderName: a.holderName, Balance: a.balance}
}

// State returns the full persistable image of the account.
func (a *Account) State() AccountState {
	a.mu.Lock()
	defer a.mu.Unlock()
	history := make([]Transaction, len(a.history))
	copy(history, a.history)
	return AccountState{
		ID:               a.id,
		HolderName:       a.holderName,
		CredentialDigest: a.credentialDigest,
		Balance:          a.balance,
		History:          history,
	}
}
