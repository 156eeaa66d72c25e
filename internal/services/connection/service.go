// Package connection orchestrates configuring a remote lead table: validate
// the endpoint, detect the schema from a live sample, persist the connection,
// and serve the rendered dashboard data.
package connection

import (
	"context"
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/GabrielASF2/lead-cental/internal/repositories"
	"github.com/GabrielASF2/lead-cental/pkg/crypto"
	"github.com/GabrielASF2/lead-cental/pkg/database"
	"github.com/GabrielASF2/lead-cental/pkg/events"
	"github.com/GabrielASF2/lead-cental/pkg/metrics"
	"github.com/GabrielASF2/lead-cental/pkg/models"
	"github.com/GabrielASF2/lead-cental/pkg/render"
	"github.com/GabrielASF2/lead-cental/pkg/schema"
	"github.com/GabrielASF2/lead-cental/pkg/tracing"
)

var validate = validator.New()

// SchemaDetector detects a table schema from a live sample
type SchemaDetector interface {
	Detect(ctx context.Context, conn schema.Connection, table string) (schema.TableSchema, error)
}

// RowStore reads pages of rows from the remote store
type RowStore interface {
	SelectPage(ctx context.Context, conn schema.Connection, table, orderBy string, limit int) ([]schema.Row, error)
}

// ConnectionRepository persists table connections
type ConnectionRepository interface {
	Upsert(ctx context.Context, connection *models.TableConnection) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.TableConnection, error)
}

// UserRepository flags users as configured
type UserRepository interface {
	SetConfigured(ctx context.Context, id uuid.UUID, configured bool) error
}

// SchemaCache caches detected schemas between dashboard loads
type SchemaCache interface {
	Get(ctx context.Context, userID uuid.UUID) (*schema.TableSchema, error)
	Set(ctx context.Context, userID uuid.UUID, tableSchema schema.TableSchema) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// Config holds the orchestrator's injected settings
type Config struct {
	// AllowedDomain is the domain fragment a valid endpoint must contain
	AllowedDomain string
	// DefaultTable is used when a configure request omits the table name
	DefaultTable string
	// OrderColumn orders the dashboard page, newest first
	OrderColumn string
	// PageSize caps the dashboard page
	PageSize int
}

func (c Config) withDefaults() Config {
	if c.AllowedDomain == "" {
		c.AllowedDomain = "supabase.co"
	}
	if c.DefaultTable == "" {
		c.DefaultTable = "leads"
	}
	if c.OrderColumn == "" {
		c.OrderColumn = "created_at"
	}
	if c.PageSize <= 0 {
		c.PageSize = 50
	}
	return c
}

// Service is the configuration orchestrator
type Service struct {
	cfg         Config
	detector    SchemaDetector
	store       RowStore
	connections ConnectionRepository
	users       UserRepository
	sealer      *crypto.Sealer
	cache       SchemaCache
	emitter     *events.Emitter
	logger      ectologger.Logger
}

// NewService creates the orchestrator. Cache may be nil when Redis is not
// configured.
func NewService(
	cfg Config,
	detector SchemaDetector,
	store RowStore,
	connections ConnectionRepository,
	users UserRepository,
	sealer *crypto.Sealer,
	cache SchemaCache,
	emitter *events.Emitter,
	logger ectologger.Logger,
) *Service {
	return &Service{
		cfg:         cfg.withDefaults(),
		detector:    detector,
		store:       store,
		connections: connections,
		users:       users,
		sealer:      sealer,
		cache:       cache,
		emitter:     emitter,
		logger:      logger,
	}
}

// ConfigureRequest is the configure operation input
type ConfigureRequest struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
	Key      string `json:"key" validate:"required"`
	Table    string `json:"table"`
}

// ConfigureResult reports the configure outcome. Saved is false when the
// schema was detected but could not be persisted; Error then carries the
// persistence failure for the operator.
type ConfigureResult struct {
	Schema schema.TableSchema `json:"schema"`
	Saved  bool               `json:"saved"`
	Error  string             `json:"error,omitempty"`
}

// Configure validates the connection, detects the schema and persists the
// connection under the authenticated user. A working detection with a failed
// save still returns the schema.
func (s *Service) Configure(ctx context.Context, req ConfigureRequest) (*ConfigureResult, error) {
	ctx, span := tracing.StartSpan(ctx, "connection.Service.Configure")
	defer span.End()

	userID, err := repositories.GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := validate.Struct(req); err != nil {
		metrics.ConfigureAttemptsTotal.WithLabelValues("invalid").Inc()
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "endpoint and key are required")
	}

	if !strings.Contains(req.Endpoint, s.cfg.AllowedDomain) {
		metrics.ConfigureAttemptsTotal.WithLabelValues("invalid").Inc()
		return nil, httperror.NewHTTPErrorf(http.StatusBadRequest, "endpoint must be a %s URL", s.cfg.AllowedDomain)
	}

	table := req.Table
	if table == "" {
		table = s.cfg.DefaultTable
	}

	conn := schema.Connection{Endpoint: req.Endpoint, Key: req.Key}
	detected, err := s.detector.Detect(ctx, conn, table)
	if err != nil {
		metrics.ConfigureAttemptsTotal.WithLabelValues("detection_failed").Inc()
		return nil, httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sealedKey, err := s.sealer.Seal([]byte(req.Key))
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("failed to encrypt access key")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to secure access key")
	}

	result := &ConfigureResult{Schema: detected, Saved: true}

	if err := s.persist(ctx, userID, conn.Endpoint, sealedKey, table, detected); err != nil {
		metrics.ConfigureAttemptsTotal.WithLabelValues("persist_failed").Inc()
		s.logger.WithContext(ctx).WithError(err).Warn("connection detected but not persisted")
		result.Saved = false
		result.Error = "connection works but could not be saved: " + err.Error()
	} else {
		metrics.ConfigureAttemptsTotal.WithLabelValues("success").Inc()
	}

	s.refreshCache(ctx, userID, detected)

	s.emitter.EmitSchemaDetected(ctx, userID, conn.Endpoint, table, detected)
	s.emitter.EmitConnectionConfigured(ctx, userID, conn.Endpoint, table, result.Saved)

	return result, nil
}

func (s *Service) persist(ctx context.Context, userID uuid.UUID, endpoint string, sealedKey []byte, table string, detected schema.TableSchema) error {
	connection := &models.TableConnection{
		UserID:       userID,
		Endpoint:     endpoint,
		EncryptedKey: sealedKey,
		Table:        table,
		Schema:       database.JSONB[schema.TableSchema]{Data: detected},
	}

	if err := s.connections.Upsert(ctx, connection); err != nil {
		return err
	}
	return s.users.SetConfigured(ctx, userID, true)
}

func (s *Service) refreshCache(ctx context.Context, userID uuid.UUID, detected schema.TableSchema) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("failed to invalidate schema cache")
	}
	if err := s.cache.Set(ctx, userID, detected); err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("failed to cache detected schema")
	}
}

// Info is the stored connection returned to the dashboard, key decrypted
type Info struct {
	Endpoint string             `json:"endpoint"`
	Key      string             `json:"key"`
	Table    string             `json:"table"`
	Schema   schema.TableSchema `json:"schema"`
}

// Get loads the authenticated user's connection
func (s *Service) Get(ctx context.Context) (*Info, error) {
	ctx, span := tracing.StartSpan(ctx, "connection.Service.Get")
	defer span.End()

	userID, err := repositories.GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	stored, err := s.connections.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	key, err := s.sealer.Open(stored.EncryptedKey)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("failed to decrypt access key")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to read access key")
	}

	return &Info{
		Endpoint: stored.Endpoint,
		Key:      string(key),
		Table:    stored.Table,
		Schema:   stored.Schema.Data,
	}, nil
}

// KPIs are the dashboard headline numbers
type KPIs struct {
	TotalRows  int `json:"totalRows"`
	FieldCount int `json:"fieldCount"`
}

// Dashboard is the rendered dashboard data
type Dashboard struct {
	Table  render.Table       `json:"table"`
	KPIs   KPIs               `json:"kpis"`
	Leads  []models.Lead      `json:"leads"`
	Schema schema.TableSchema `json:"schema"`
}

// Leads loads the user's connection, fetches the newest page of rows and
// renders it against the detected schema.
func (s *Service) Leads(ctx context.Context) (*Dashboard, error) {
	ctx, span := tracing.StartSpan(ctx, "connection.Service.Leads")
	defer span.End()

	userID, err := repositories.GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	stored, err := s.connections.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	key, err := s.sealer.Open(stored.EncryptedKey)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("failed to decrypt access key")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to read access key")
	}
	conn := schema.Connection{Endpoint: stored.Endpoint, Key: string(key)}

	tableSchema := s.loadSchema(ctx, userID, stored)

	rows, err := s.store.SelectPage(ctx, conn, stored.Table, s.cfg.OrderColumn, s.cfg.PageSize)
	if err != nil {
		return nil, httperror.NewHTTPError(http.StatusBadGateway, "failed to load leads: "+err.Error())
	}

	rendered := render.RenderTable(tableSchema.Columns, rows)
	metrics.TableRowsRendered.Add(float64(len(rendered.Rows)))

	leads := make([]models.Lead, 0, len(rows))
	for _, row := range rows {
		leads = append(leads, models.LeadFromRow(row))
	}

	return &Dashboard{
		Table: rendered,
		KPIs: KPIs{
			TotalRows:  len(rows),
			FieldCount: len(tableSchema.Columns),
		},
		Leads:  leads,
		Schema: tableSchema,
	}, nil
}

// loadSchema prefers the cached schema and falls back to the stored one.
func (s *Service) loadSchema(ctx context.Context, userID uuid.UUID, stored *models.TableConnection) schema.TableSchema {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.logger.WithContext(ctx).WithError(err).Warn("failed to read schema cache")
		} else if cached != nil {
			return *cached
		}
	}
	return stored.Schema.Data
}
