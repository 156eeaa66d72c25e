// Package schema infers a table schema from a live data sample. The remote
// store exposes no catalog to anonymous callers, so the schema of a customer's
// leads table is detected by reading a single row and classifying each value.
package schema

import "time"

// Type is the coarse column type inferred from a sampled value.
type Type string

const (
	TypeText      Type = "text"
	TypeUUID      Type = "uuid"
	TypeTimestamp Type = "timestamp"
	TypeInteger   Type = "integer"
	TypeNumeric   Type = "numeric"
	TypeBoolean   Type = "boolean"
)

// Descriptor holds the inferred metadata for one column.
type Descriptor struct {
	Name         string `json:"name"`
	Type         Type   `json:"type"`
	Nullable     bool   `json:"nullable"`
	IsPrimaryKey bool   `json:"isPrimaryKey,omitempty"`
	Label        string `json:"label"`
}

// TableSchema is the full detected schema for a table. Column order follows
// the key order of the sampled row; it is best-effort, not a stable contract.
type TableSchema struct {
	Columns    []Descriptor `json:"columns"`
	DetectedAt time.Time    `json:"detectedAt"`
}

// Connection identifies a customer's remote row store.
type Connection struct {
	Endpoint string
	Key      string
}
