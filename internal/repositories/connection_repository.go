package repositories

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/GabrielASF2/lead-cental/pkg/database"
	"github.com/GabrielASF2/lead-cental/pkg/models"
	"github.com/GabrielASF2/lead-cental/pkg/tracing"
)

const connectionsTable = "table_connections"

var connectionStruct = database.NewStruct(new(models.TableConnection))

// ConnectionRepository handles database operations for table connections
type ConnectionRepository struct {
	*Repository
}

// NewConnectionRepository creates a new connection repository
func NewConnectionRepository(db database.DB, logger ectologger.Logger) *ConnectionRepository {
	return &ConnectionRepository{
		Repository: NewRepository(db, logger),
	}
}

// Upsert saves a user's connection, replacing any existing one. Each user
// has at most one connection.
func (r *ConnectionRepository) Upsert(ctx context.Context, connection *models.TableConnection) error {
	ctx, span := tracing.StartSpan(ctx, "ConnectionRepository.Upsert")
	defer span.End()

	if connection.ID == uuid.Nil {
		connection.ID = uuid.New()
	}

	ib := database.NewInsertBuilder()
	ib.InsertInto(connectionsTable).
		Cols("id", "user_id", "endpoint", "encrypted_key", "table_name", "schema", "created_at", "updated_at").
		Values(connection.ID, connection.UserID, connection.Endpoint, connection.EncryptedKey,
			connection.Table, connection.Schema,
			sqlbuilder.Raw("NOW()"), sqlbuilder.Raw("NOW()"))

	ub := ib.OnConflict("user_id")
	ub.Set(
		ub.Assign("endpoint", database.Excluded("endpoint")),
		ub.Assign("encrypted_key", database.Excluded("encrypted_key")),
		ub.Assign("table_name", database.Excluded("table_name")),
		ub.Assign("schema", database.Excluded("schema")),
		ub.Assign("updated_at", sqlbuilder.Raw("NOW()")),
	)
	ib.Returning("id", "created_at", "updated_at")

	query, args := ib.Build()
	err := r.DB().QueryRowContext(ctx, query, args...).
		Scan(&connection.ID, &connection.CreatedAt, &connection.UpdatedAt)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"user_id": connection.UserID,
		}).Error("failed to save connection")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to save connection")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"user_id":       connection.UserID,
		"connection_id": connection.ID,
	}).Debugf("Saved %s", connectionsTable)
	return nil
}

// GetByUserID retrieves the connection for a user
func (r *ConnectionRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.TableConnection, error) {
	ctx, span := tracing.StartSpan(ctx, "ConnectionRepository.GetByUserID")
	defer span.End()

	sb := connectionStruct.SelectFrom(connectionsTable)
	sb.Where(sb.Equal("user_id", userID))

	query, args := sb.Build()
	var connection models.TableConnection
	err := r.DB().GetContext(ctx, &connection, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NotFound("no connection configured for user %s", userID)
	}
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"user_id": userID,
		}).Error("failed to get connection")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get connection")
	}

	return &connection, nil
}

// Delete removes the connection for a user
func (r *ConnectionRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	ctx, span := tracing.StartSpan(ctx, "ConnectionRepository.Delete")
	defer span.End()

	db := database.NewDeleteBuilder()
	db.DeleteFrom(connectionsTable)
	db.Where(db.Equal("user_id", userID))

	query, args := db.Build()
	if _, err := r.DB().ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"user_id": userID,
		}).Error("failed to delete connection")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete connection")
	}

	return nil
}
