package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/GabrielASF2/lead-cental/pkg/database"
	"github.com/GabrielASF2/lead-cental/pkg/schema"
)

// TableConnection stores a user's data source connection alongside the
// schema detected for it. EncryptedKey holds the API key sealed with
// AES-GCM, never the plaintext key.
type TableConnection struct {
	ID           uuid.UUID                          `db:"id" json:"id"`
	UserID       uuid.UUID                          `db:"user_id" json:"user_id"`
	Endpoint     string                             `db:"endpoint" json:"endpoint"`
	EncryptedKey []byte                             `db:"encrypted_key" json:"-"`
	Table        string                             `db:"table_name" json:"table_name"`
	Schema       database.JSONB[schema.TableSchema] `db:"schema" json:"schema"`
	CreatedAt    time.Time                          `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time                          `db:"updated_at" json:"updated_at"`
}

// TableName returns the database table name
func (TableConnection) TableName() string {
	return "table_connections"
}
