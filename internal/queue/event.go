// Package queue defines message payloads exchanged over the message broker.
package queue

// ActivityRecordedEvent is published after a log entry has been appended to
// the store. It carries enough information for downstream consumers to
// notify or run analytics without querying the primary database. The store
// row remains the source of truth; the event is a mirror.
type ActivityRecordedEvent struct {
	LogID       int64  `json:"log_id"`
	UserID      string `json:"user_id"`
	Description string `json:"description"`
	RecordedAt  string `json:"recorded_at"`
}
