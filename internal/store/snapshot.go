package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ensureSnapshot applies the schema and reconciles the persisted snapshot
// version. A fresh database is seeded from the catalog; a version mismatch
// drops the snapshot wholesale and reseeds. The policy is deliberately
// one-way: board data does not migrate across versions.
func (s *Store) ensureSnapshot(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	version, hasVersion, err := readVersion(ctx, tx)
	if err != nil {
		return err
	}

	switch {
	case !hasVersion:
		// Fresh database.
		if err := seedPairs(ctx, tx); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO store_version (version) VALUES (?)`, storeVersion); err != nil {
			return fmt.Errorf("record store version: %w", err)
		}
	case version != storeVersion:
		if err := reseed(ctx, tx); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

func readVersion(ctx context.Context, tx *sql.Tx) (int, bool, error) {
	var version int
	row := tx.QueryRowContext(ctx, `SELECT version FROM store_version LIMIT 1`)
	if err := row.Scan(&version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("read store version: %w", err)
	}
	return version, true, nil
}

func reseed(ctx context.Context, tx *sql.Tx) error {
	statements := []string{
		`DELETE FROM pair_history`,
		`DELETE FROM pairs`,
		`DELETE FROM store_version`,
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("discard snapshot: %w", err)
		}
	}
	if err := seedPairs(ctx, tx); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO store_version (version) VALUES (?)`, storeVersion); err != nil {
		return fmt.Errorf("record store version: %w", err)
	}
	return nil
}
