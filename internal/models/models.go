package models

import "time"

type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QueryLog records the outcome of one gateway call (a generation query or a connection test).
type QueryLog struct {
	ID           int64     `json:"id"`
	RequestID    string    `json:"request_id"`
	Kind         string    `json:"kind"` // "query" or "test"
	Provider     string    `json:"provider"`
	Model        string    `json:"model,omitempty"`
	Status       string    `json:"status"` // "ok" or "error"
	ErrorKind    string    `json:"error_kind,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	DurationMs   int64     `json:"duration_ms"`
	CreatedAt    time.Time `json:"created_at"`
}

type ProviderStats struct {
	Provider string `json:"provider"`
	Requests int    `json:"requests"`
	Failures int    `json:"failures"`
}

type Stats struct {
	TotalQueries      int             `json:"total_queries"`
	TotalTests        int             `json:"total_tests"`
	FailedRequests    int             `json:"failed_requests"`
	TimedOutRequests  int             `json:"timed_out_requests"`
	AvgQueryMs        int64           `json:"avg_query_ms"`
	ByProvider        []ProviderStats `json:"by_provider"`
	DatabaseSizeBytes int64           `json:"database_size_bytes"`
}
