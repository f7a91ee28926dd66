package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Record is one key/value row of the records table.
type Record struct {
	Key       string
	Value     string
	Version   int64
	UpdatedAt int64
}

// GetRecord returns the record stored under key, or nil if there is none.
func (db *DB) GetRecord(key string) (*Record, error) {
	var r Record
	err := db.QueryRow(`SELECT key, value, version, updated_at FROM records WHERE key = ?`, key).
		Scan(&r.Key, &r.Value, &r.Version, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// PutRecord writes value under key regardless of what is stored and returns
// the new version.
func (db *DB) PutRecord(key, value string) (int64, error) {
	now := time.Now().UnixMilli()
	var version int64
	err := db.QueryRow(`
		INSERT INTO records (key, value, version, updated_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			version = records.version + 1,
			updated_at = excluded.updated_at
		RETURNING version`,
		key, value, now).Scan(&version)
	return version, err
}

// PutRecordIfVersion writes value only if the stored version still equals
// expected. It returns ErrVersionConflict when the row moved on or vanished.
func (db *DB) PutRecordIfVersion(key, value string, expected int64) (int64, error) {
	now := time.Now().UnixMilli()
	var version int64
	err := db.QueryRow(`
		UPDATE records SET value = ?, version = version + 1, updated_at = ?
		WHERE key = ? AND version = ?
		RETURNING version`,
		value, now, key, expected).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%s at version %d: %w", key, expected, ErrVersionConflict)
	}
	return version, err
}

// DeleteRecord removes key. Deleting a missing key is not an error.
func (db *DB) DeleteRecord(key string) error {
	_, err := db.Exec(`DELETE FROM records WHERE key = ?`, key)
	return err
}

// ScanPrefix returns every record whose key starts with prefix, ordered by key.
func (db *DB) ScanPrefix(prefix string) ([]Record, error) {
	rows, err := db.Query(`
		SELECT key, value, version, updated_at FROM records
		WHERE substr(key, 1, ?) = ?
		ORDER BY key`, len(prefix), prefix)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Key, &r.Value, &r.Version, &r.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
