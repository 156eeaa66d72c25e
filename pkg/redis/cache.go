package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/GabrielASF2/lead-cental/pkg/schema"
)

const (
	// schemaKeyPrefix is the prefix for cached detected schemas
	schemaKeyPrefix = "connection:schema:"

	// DefaultSchemaTTL is how long cached schemas stay fresh
	DefaultSchemaTTL = 15 * time.Minute
)

// SchemaCache caches detected table schemas per user so the dashboard
// can render without re-sampling the remote table on every page load.
type SchemaCache struct {
	client *Client
	ttl    time.Duration
}

// NewSchemaCache creates a schema cache with the given TTL
func NewSchemaCache(client *Client, ttl time.Duration) *SchemaCache {
	if ttl <= 0 {
		ttl = DefaultSchemaTTL
	}
	return &SchemaCache{client: client, ttl: ttl}
}

func schemaKey(userID uuid.UUID) string {
	return schemaKeyPrefix + userID.String()
}

// Get returns the cached schema for a user, (nil, nil) on a miss.
func (c *SchemaCache) Get(ctx context.Context, userID uuid.UUID) (*schema.TableSchema, error) {
	raw, err := c.client.Get(ctx, schemaKey(userID))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cached schema: %w", err)
	}

	var cached schema.TableSchema
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return nil, fmt.Errorf("failed to decode cached schema: %w", err)
	}
	return &cached, nil
}

// Set stores the schema for a user
func (c *SchemaCache) Set(ctx context.Context, userID uuid.UUID, tableSchema schema.TableSchema) error {
	raw, err := json.Marshal(tableSchema)
	if err != nil {
		return fmt.Errorf("failed to encode schema: %w", err)
	}
	return c.client.Set(ctx, schemaKey(userID), raw, c.ttl)
}

// Invalidate drops the cached schema for a user
func (c *SchemaCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	return c.client.Del(ctx, schemaKey(userID))
}
