package publish

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/lib/pq"

	"github.com/Adithya-Monish-Kumar-K/wordindex/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/wordindex/pkg/resilience"
)

type txRunner interface {
	InTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// PostgresSink replaces the rows of one report in a word table inside a
// single transaction. Rows are keyed by (source, word) where source is the
// report's file name.
type PostgresSink struct {
	db    txRunner
	table string
}

func NewPostgresSink(db txRunner, table string) *PostgresSink {
	return &PostgresSink{db: db, table: table}
}

func (s *PostgresSink) Name() string { return "postgres" }

func (s *PostgresSink) createStatement() string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	source TEXT NOT NULL,
	word TEXT NOT NULL,
	lines BIGINT[] NOT NULL,
	run_id TEXT NOT NULL,
	PRIMARY KEY (source, word)
)`, pq.QuoteIdentifier(s.table))
}

func (s *PostgresSink) deleteStatement() string {
	return fmt.Sprintf(`DELETE FROM %s WHERE source = $1`, pq.QuoteIdentifier(s.table))
}

func (s *PostgresSink) Publish(ctx context.Context, sum Summary, entries []index.TermEntry) error {
	source := filepath.Base(sum.Output)
	err := s.db.InTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, s.createStatement()); err != nil {
			return fmt.Errorf("creating table %s: %w", s.table, err)
		}
		if _, err := tx.ExecContext(ctx, s.deleteStatement(), source); err != nil {
			return fmt.Errorf("clearing rows for %s: %w", source, err)
		}
		stmt, err := tx.PrepareContext(ctx, pq.CopyIn(s.table, "source", "word", "lines", "run_id"))
		if err != nil {
			return fmt.Errorf("preparing copy: %w", err)
		}
		defer stmt.Close()
		for _, entry := range entries {
			if _, err := stmt.ExecContext(ctx, source, entry.Term, pq.Array(toInt64(entry.Lines)), sum.RunID); err != nil {
				return fmt.Errorf("copying word %q: %w", entry.Term, err)
			}
		}
		if _, err := stmt.ExecContext(ctx); err != nil {
			return fmt.Errorf("flushing copy: %w", err)
		}
		return nil
	})
	return markPermanent(err)
}

// markPermanent flags server errors that a retry cannot fix: SQLSTATE class
// 42 (syntax error or access rule violation) and 28 (invalid authorization).
func markPermanent(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "42", "28":
			return resilience.Permanent(err)
		}
	}
	return err
}

func toInt64(lines []int) []int64 {
	out := make([]int64, len(lines))
	for i, line := range lines {
		out[i] = int64(line)
	}
	return out
}
