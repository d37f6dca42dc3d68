// Package gateway holds the I/O adapters for the ledger: the JSON snapshot
// file repository and the CSV history exporter.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"atm-ledger/internal/domain"
)

const (
	snapshotStorage = "json_snapshot"
	snapshotVersion = 1
)

// snapshotMeta records how and when a snapshot was produced, so the format
// can be migrated or swapped for a database backend later.
type snapshotMeta struct {
	Storage   string    `json:"storage"`
	Version   int       `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// snapshotFile is the on-disk image of the whole account set.
type snapshotFile struct {
	Meta     snapshotMeta          `json:"_meta"`
	Accounts []domain.AccountState `json:"accounts"`
}

// JSONSnapshotRepository implements usecase.SnapshotRepository over a single
// JSON file. Writes are atomic: the snapshot is encoded to a temporary file
// and renamed over the previous one, so a crash mid-write cannot corrupt the
// last good snapshot.
type JSONSnapshotRepository struct {
	path string
}

// NewJSONSnapshotRepository creates a repository backed by the given file path.
func NewJSONSnapshotRepository(path string) *JSONSnapshotRepository {
	return &JSONSnapshotRepository{path: path}
}

// Load reads and decodes the snapshot file. A missing file surfaces as an
// error wrapping fs.ErrNotExist; a corrupt file surfaces as a decode error.
func (r *JSONSnapshotRepository) Load(ctx context.Context) ([]domain.AccountState, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot %s: %w", r.path, err)
	}
	defer f.Close()

	var snap snapshotFile
	if err := json.NewDecoder(f).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", r.path, err)
	}
	if snap.Meta.Version > snapshotVersion {
		return nil, fmt.Errorf("snapshot %s: unsupported version %d", r.path, snap.Meta.Version)
	}
	return snap.Accounts, nil
}

// Save encodes the full account set, replacing any previous snapshot.
func (r *JSONSnapshotRepository) Save(ctx context.Context, accounts []domain.AccountState) error {
	snap := snapshotFile{
		Meta: snapshotMeta{
			Storage:   snapshotStorage,
			Version:   snapshotVersion,
			Timestamp: time.Now(),
		},
		Accounts: accounts,
	}

	tmp := r.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create snapshot %s: %w", tmp, err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&snap); err != nil {
		f.Close()
		return fmt.Errorf("encode snapshot %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close snapshot %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace snapshot %s: %w", r.path, err)
	}
	return nil
}
