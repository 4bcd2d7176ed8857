package store

import (
	"database/sql"
	"fmt"
)

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (record, error) {
	var rec record
	err := row.Scan(&rec.ResourceID, &rec.Name, &rec.Type, &rec.Format, &rec.Data, &rec.Seq, &rec.CreatedAt)
	return rec, err
}

func queryRecords(db *sql.DB, query string, args ...any) ([]record, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func insertRecord(db *sql.DB, rec record) error {
	_, err := db.Exec(
		"INSERT INTO resources ("+resourceColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		rec.ResourceID, rec.Name, rec.Type, rec.Format, rec.Data, rec.Seq, rec.CreatedAt,
	)
	return err
}

// loadRecords inserts records into a fresh index in one transaction and
// returns the highest sequence number seen. Records that violate
// constraints, such as duplicate IDs, are skipped.
func loadRecords(db *sql.DB, records []record) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT INTO resources (" + resourceColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	var maxSeq int64
	for _, rec := range records {
		if _, err := stmt.Exec(rec.ResourceID, rec.Name, rec.Type, rec.Format, rec.Data, rec.Seq, rec.CreatedAt); err != nil {
			continue
		}
		maxSeq = max(maxSeq, rec.Seq)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing load transaction: %w", err)
	}
	return maxSeq, nil
}
