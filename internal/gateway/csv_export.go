package gateway

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"atm-ledger/internal/domain"
)

// historyHeader is the fixed export header; the column order matches
// domain.Transaction.CSVRow.
const historyHeader = "TxID,DateTime,Type,Amount,Note"

// WriteHistoryCSV writes an account's history as a delimited table, one row
// per transaction in stored (most-recent-first) order. Every data field is
// wrapped in double quotes with embedded quotes doubled, so free-form notes
// containing commas, quotes, or newlines stay on one logical row.
//
// encoding/csv is not used here: it quotes fields only when necessary,
// while this export format requires every field quoted unconditionally.
func WriteHistoryCSV(w io.Writer, history []domain.Transaction) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, historyHeader); err != nil {
		return fmt.Errorf("write history header: %w", err)
	}
	for _, tx := range history {
		fields := tx.CSVRow()
		for i, f := range fields {
			fields[i] = quoteField(f)
		}
		if _, err := fmt.Fprintln(bw, strings.Join(fields, ",")); err != nil {
			return fmt.Errorf("write history row: %w", err)
		}
	}
	return bw.Flush()
}

// ExportHistoryFile writes the history table to a new file at path,
// replacing any existing file.
func ExportHistoryFile(path string, history []domain.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file %s: %w", path, err)
	}
	if err := WriteHistoryCSV(f, history); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close export file %s: %w", path, err)
	}
	return nil
}

func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
