package usecase

import (
	"context"

	"atm-ledger/internal/domain"
)

// SnapshotRepository persists the full account set as one snapshot image.
// The usecase layer depends on this interface, not on a concrete implementation.
//
//go:generate mockgen -destination=mocks/mock_repository.go -source=interface.go SnapshotRepository
type SnapshotRepository interface {
	// Load reads the most recent snapshot. A missing snapshot is reported
	// with an error wrapping fs.ErrNotExist.
	Load(ctx context.Context) ([]domain.AccountState, error)
	// Save replaces any previous snapshot with the given account set.
	Save(ctx context.Context, accounts []domain.AccountState) error
}
