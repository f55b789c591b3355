package database

import (
	"fmt"

	"github.com/thinkscotty/promptify/internal/models"
)

// LogQuery records a gateway outcome in the query_log table.
func (db *DB) LogQuery(entry models.QueryLog) error {
	_, err := db.conn.Exec(`
		INSERT INTO query_log (request_id, kind, provider, model, status, error_kind, error_message, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RequestID, entry.Kind, entry.Provider, entry.Model,
		entry.Status, entry.ErrorKind, entry.ErrorMessage, entry.DurationMs)
	if err != nil {
		return fmt.Errorf("log query: %w", err)
	}
	return nil
}

// RecentQueryLogs returns the N most recent entries, newest first.
func (db *DB) RecentQueryLogs(limit int) ([]models.QueryLog, error) {
	rows, err := db.conn.Query(`
		SELECT id, request_id, kind, provider, model, status, error_kind, error_message,
		       duration_ms, created_at
		FROM query_log
		ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.QueryLog
	for rows.Next() {
		var entry models.QueryLog
		var createdAt string
		if err := rows.Scan(&entry.ID, &entry.RequestID, &entry.Kind, &entry.Provider,
			&entry.Model, &entry.Status, &entry.ErrorKind, &entry.ErrorMessage,
			&entry.DurationMs, &createdAt); err != nil {
			return nil, err
		}
		entry.CreatedAt, _ = parseTime(createdAt)
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}

func (db *DB) QueryStats() (models.Stats, error) {
	var s models.Stats

	err := db.conn.QueryRow(`
		SELECT
			COALESCE(SUM(CASE WHEN kind = 'query' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN kind = 'test' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'error' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN error_kind = 'timeout' THEN 1 ELSE 0 END), 0),
			COALESCE(CAST(AVG(CASE WHEN kind = 'query' THEN duration_ms END) AS INTEGER), 0)
		FROM query_log`,
	).Scan(&s.TotalQueries, &s.TotalTests, &s.FailedRequests, &s.TimedOutRequests, &s.AvgQueryMs)
	if err != nil {
		return s, fmt.Errorf("query stats: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT provider, COUNT(*), COALESCE(SUM(CASE WHEN status = 'error' THEN 1 ELSE 0 END), 0)
		FROM query_log
		GROUP BY provider
		ORDER BY provider`)
	if err != nil {
		return s, fmt.Errorf("provider stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ps models.ProviderStats
		if err := rows.Scan(&ps.Provider, &ps.Requests, &ps.Failures); err != nil {
			return s, err
		}
		s.ByProvider = append(s.ByProvider, ps)
	}
	if err := rows.Err(); err != nil {
		return s, err
	}

	size, _ := db.DatabaseSizeBytes()
	s.DatabaseSizeBytes = size

	return s, nil
}

// CleanOldQueryLogs removes entries older than the given number of days.
func (db *DB) CleanOldQueryLogs(days int) (int64, error) {
	result, err := db.conn.Exec(`DELETE FROM query_log WHERE created_at < datetime('now', ?)`,
		fmt.Sprintf("-%d days", days))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
