package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/thinkscotty/promptify/internal/models"
)

// GetSetting reads a single setting straight from the table. There is no cache,
// so a value written by SetSetting is visible to the next reader immediately.
func (db *DB) GetSetting(key string) (string, error) {
	var value string
	err := db.conn.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(`INSERT OR REPLACE INTO settings (key, value, updated_at) VALUES (?, ?, datetime('now'))`,
		key, value)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// DeleteSetting removes a key. Deleting a missing key is not an error.
func (db *DB) DeleteSetting(key string) error {
	if _, err := db.conn.Exec(`DELETE FROM settings WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete setting %s: %w", key, err)
	}
	return nil
}

// UpdateSettings applies a batch in one transaction. An empty value deletes the
// key. Either every change lands or none does.
func (db *DB) UpdateSettings(updates map[string]string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin settings update: %w", err)
	}
	defer tx.Rollback()

	for key, value := range updates {
		if value == "" {
			_, err = tx.Exec(`DELETE FROM settings WHERE key = ?`, key)
		} else {
			_, err = tx.Exec(`INSERT OR REPLACE INTO settings (key, value, updated_at) VALUES (?, ?, datetime('now'))`,
				key, value)
		}
		if err != nil {
			return fmt.Errorf("update setting %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit settings update: %w", err)
	}
	return nil
}

func (db *DB) GetAllSettings() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		result[key] = value
	}
	return result, rows.Err()
}

// ListSettings returns every setting row ordered by key.
func (db *DB) ListSettings() ([]models.Setting, error) {
	rows, err := db.conn.Query(`SELECT key, value, updated_at FROM settings ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []models.Setting
	for rows.Next() {
		var s models.Setting
		var updatedAt string
		if err := rows.Scan(&s.Key, &s.Value, &updatedAt); err != nil {
			return nil, err
		}
		s.UpdatedAt, _ = parseTime(updatedAt)
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// SettingOrEmpty hides sql.ErrNoRows for callers that treat a missing key as unset.
func (db *DB) SettingOrEmpty(key string) string {
	v, err := db.GetSetting(key)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		slog.Warn("Failed to read setting", "key", key, "error", err)
	}
	return v
}
