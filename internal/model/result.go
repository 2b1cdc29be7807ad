package model

// WriteResult acknowledges a single insert, update or delete statement.
type WriteResult struct {
	InsertID     int64 `json:"insertId,omitempty"`
	AffectedRows int64 `json:"affectedRows"`
}
