package usecase

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"atm-ledger/internal/domain"
)

// Ledger is the account store: it owns every account, orchestrates
// create/authenticate/deposit/withdraw/transfer, and re-persists a full
// snapshot after each mutating operation.
//
// A single reader/writer lock serializes access to the backing map. Read-only
// operations take the lock in shared mode; mutating operations hold it in
// exclusive mode for their full duration, including the snapshot persist, so
// a snapshot can never race with a concurrent traversal of account state.
type Ledger struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
	repo     SnapshotRepository
	log      zerolog.Logger
}

// NewLedger builds a ledger and loads the persisted snapshot. A missing
// snapshot yields an empty store. A corrupt or unreadable snapshot is
// non-fatal: a warning is logged and the store starts empty.
func NewLedger(ctx context.Context, repo SnapshotRepository, log zerolog.Logger) *Ledger {
	l := &Ledger{
		accounts: make(map[string]*domain.Account),
		repo:     repo,
		log:      log,
	}
	states, err := repo.Load(ctx)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			l.log.Warn().Err(err).Msg("failed to load account snapshot, starting empty")
		}
		return l
	}
	for _, st := range states {
		l.accounts[st.ID] = domain.AccountFromState(st)
	}
	return l
}

// CreateAccount creates a new account and persists a snapshot before
// returning. The id must be non-blank and unused; the holder name is
// normalized to uppercase and a positive initial amount is recorded as an
// "Initial credit" deposit.
func (l *Ledger) CreateAccount(ctx context.Context, id, holderName, secret string, initial decimal.Decimal) (domain.AccountView, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.accounts[id]; exists {
		return domain.AccountView{}, fmt.Errorf("create account %q: %w", id, domain.ErrDuplicateAccount)
	}
	a, err := domain.NewAccount(id, holderName, secret, initial)
	if err != nil {
		return domain.AccountView{}, fmt.Errorf("create account: %w", err)
	}
	l.accounts[id] = a
	l.persistLocked(ctx)
	return a.View(), nil
}

// Authenticate verifies a credential against the stored digest. An unknown
// account and a wrong credential both yield ErrAuthenticationFailed with no
// distinguishing detail.
func (l *Ledger) Authenticate(id, secret string) (domain.AccountView, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	a, ok := l.accounts[id]
	if !ok || !a.VerifyPIN(secret) {
		return domain.AccountView{}, domain.ErrAuthenticationFailed
	}
	return a.View(), nil
}

// Deposit credits an account and persists a snapshot on success.
func (l *Ledger) Deposit(ctx context.Context, id string, amount decimal.Decimal, note string) (domain.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.accounts[id]
	if !ok {
		return domain.Transaction{}, fmt.Errorf("deposit into %q: %w", id, domain.ErrAccountNotFound)
	}
	tx, err := a.Deposit(amount, note)
	if err != nil {
		return domain.Transaction{}, err
	}
	l.persistLocked(ctx)
	return tx, nil
}

// Withdraw debits an account and persists a snapshot on success.
func (l *Ledger) Withdraw(ctx context.Context, id string, amount decimal.Decimal, note string) (domain.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.accounts[id]
	if !ok {
		return domain.Transaction{}, fmt.Errorf("withdraw from %q: %w", id, domain.ErrAccountNotFound)
	}
	tx, err := a.Withdraw(amount, note)
	if err != nil {
		return domain.Transaction{}, err
	}
	l.persistLocked(ctx)
	return tx, nil
}

// Transfer moves amount between two distinct accounts atomically: both
// accounts are confirmed present before anything is mutated, and the only
// failure mode after that point (insufficient funds) is detected before any
// state changes. On success both balance legs plus a TRANSFER audit entry on
// each side are recorded and one snapshot covering both mutations is
// persisted. The two balance-leg transactions are returned.
func (l *Ledger) Transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal) ([]domain.Transaction, error) {
	if fromID == toID {
		return nil, domain.ErrSameAccountTransfer
	}
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	from, ok := l.accounts[fromID]
	if !ok {
		return nil, fmt.Errorf("transfer source %q: %w", fromID, domain.ErrAccountNotFound)
	}
	to, ok := l.accounts[toID]
	if !ok {
		return nil, fmt.Errorf("transfer beneficiary %q: %w", toID, domain.ErrAccountNotFound)
	}

	wtx, err := from.Withdraw(amount, "Transfer to "+toID)
	if err != nil {
		return nil, err
	}
	dtx, err := to.Deposit(amount, "Transfer from "+fromID)
	if err != nil {
		// Unreachable: the amount was validated positive above.
		return nil, err
	}
	from.LogTransferLeg(amount, "Transfer to "+toID)
	to.LogTransferLeg(amount, "Transfer from "+fromID)

	l.persistLocked(ctx)
	return []domain.Transaction{wtx, dtx}, nil
}

// History returns an independent copy of an account's transaction log, most
// recent first.
func (l *Ledger) History(id string) ([]domain.Transaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	a, ok := l.accounts[id]
	if !ok {
		return nil, fmt.Errorf("history of %q: %w", id, domain.ErrAccountNotFound)
	}
	return a.History(), nil
}

// ListAccounts returns a snapshot view of every account, ordered by id.
func (l *Ledger) ListAccounts() []domain.AccountView {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.AccountView, 0, len(l.accounts))
	for _, a := range l.accounts {
		out = append(out, a.View())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CountAccounts returns the number of accounts in the store.
func (l *Ledger) CountAccounts() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.accounts)
}

// persistLocked writes a full snapshot of the store. A save failure is logged
// as a warning and does not roll back the in-memory mutation that triggered
// it; durability granularity is "whole store after each operation".
// Caller holds l.mu in exclusive mode.
func (l *Ledger) persistLocked(ctx context.Context) {
	states := make([]domain.AccountState, 0, len(l.accounts))
	for _, a := range l.accounts {
		states = append(states, a.State())
	}
	sort.Slice(states, func(i, j int) bool { return states[i].ID < states[j].ID })
	if err := l.repo.Save(ctx, states); err != nil {
		l.log.Warn().Err(err).Msg("failed to persist account snapshot")
	}
}
