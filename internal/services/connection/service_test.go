package connection

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "github.com/GabrielASF2/lead-cental/pkg/context"
	"github.com/GabrielASF2/lead-cental/pkg/crypto"
	"github.com/GabrielASF2/lead-cental/pkg/database"
	"github.com/GabrielASF2/lead-cental/pkg/events"
	"github.com/GabrielASF2/lead-cental/pkg/models"
	"github.com/GabrielASF2/lead-cental/pkg/schema"
)

const testSealingKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

type fakeDetector struct {
	schema schema.TableSchema
	err    error
	table  string
	conn   schema.Connection
	calls  int
}

func (f *fakeDetector) Detect(ctx context.Context, conn schema.Connection, table string) (schema.TableSchema, error) {
	f.calls++
	f.conn = conn
	f.table = table
	return f.schema, f.err
}

type fakeRowStore struct {
	rows []schema.Row
	err  error
	conn schema.Connection
}

func (f *fakeRowStore) SelectPage(ctx context.Context, conn schema.Connection, table, orderBy string, limit int) ([]schema.Row, error) {
	f.conn = conn
	return f.rows, f.err
}

type fakeConnectionRepo struct {
	saved     *models.TableConnection
	upsertErr error
	stored    *models.TableConnection
	getErr    error
}

func (f *fakeConnectionRepo) Upsert(ctx context.Context, connection *models.TableConnection) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.saved = connection
	return nil
}

func (f *fakeConnectionRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.TableConnection, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.stored, nil
}

type fakeUserRepo struct {
	configured map[uuid.UUID]bool
	err        error
}

func (f *fakeUserRepo) SetConfigured(ctx context.Context, id uuid.UUID, configured bool) error {
	if f.err != nil {
		return f.err
	}
	if f.configured == nil {
		f.configured = make(map[uuid.UUID]bool)
	}
	f.configured[id] = configured
	return nil
}

type fakeCache struct {
	cached      *schema.TableSchema
	invalidated int
	set         int
}

func (f *fakeCache) Get(ctx context.Context, userID uuid.UUID) (*schema.TableSchema, error) {
	return f.cached, nil
}

func (f *fakeCache) Set(ctx context.Context, userID uuid.UUID, tableSchema schema.TableSchema) error {
	f.set++
	f.cached = &tableSchema
	return nil
}

func (f *fakeCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	f.invalidated++
	f.cached = nil
	return nil
}

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func testSealer(t *testing.T) *crypto.Sealer {
	t.Helper()
	sealer, err := crypto.NewSealer(testSealingKey)
	require.NoError(t, err)
	return sealer
}

func detectedSchema() schema.TableSchema {
	return schema.TableSchema{
		Columns: []schema.Descriptor{
			{Name: "id", Type: schema.TypeUUID, IsPrimaryKey: true, Label: "Id"},
			{Name: "nome", Type: schema.TypeText, Label: "Nome"},
			{Name: "email", Type: schema.TypeText, Label: "Email"},
		},
		DetectedAt: time.Now().UTC(),
	}
}

type testEnv struct {
	service  *Service
	detector *fakeDetector
	store    *fakeRowStore
	conns    *fakeConnectionRepo
	users    *fakeUserRepo
	cache    *fakeCache
	userID   uuid.UUID
	ctx      context.Context
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		detector: &fakeDetector{schema: detectedSchema()},
		store:    &fakeRowStore{},
		conns:    &fakeConnectionRepo{},
		users:    &fakeUserRepo{},
		cache:    &fakeCache{},
		userID:   uuid.New(),
	}
	env.ctx = appctx.SetUserID(context.Background(), env.userID.String())
	env.service = NewService(
		Config{},
		env.detector,
		env.store,
		env.conns,
		env.users,
		testSealer(t),
		env.cache,
		events.NewEmitter(nil, testLogger()),
		testLogger(),
	)
	return env
}

func TestConfigure(t *testing.T) {
	validReq := ConfigureRequest{
		Endpoint: "https://myproject.supabase.co",
		Key:      "anon-key",
	}

	t.Run("should reject a missing endpoint or key", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.service.Configure(env.ctx, ConfigureRequest{Key: "k"})
		require.Error(t, err)
		assert.Equal(t, 400, httperror.GetStatusCode(err))

		_, err = env.service.Configure(env.ctx, ConfigureRequest{Endpoint: "https://x.supabase.co"})
		require.Error(t, err)
		assert.Equal(t, 400, httperror.GetStatusCode(err))
		assert.Zero(t, env.detector.calls)
	})

	t.Run("should reject an endpoint outside the allowed domain", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.service.Configure(env.ctx, ConfigureRequest{
			Endpoint: "https://evil.example.com",
			Key:      "anon-key",
		})
		require.Error(t, err)
		assert.Equal(t, 400, httperror.GetStatusCode(err))
		assert.Contains(t, err.Error(), "supabase.co")
		assert.Zero(t, env.detector.calls)
	})

	t.Run("should require an authenticated user", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.service.Configure(context.Background(), validReq)
		require.Error(t, err)
		assert.Equal(t, 401, httperror.GetStatusCode(err))
	})

	t.Run("should default the table name to leads", func(t *testing.T) {
		env := newTestEnv(t)

		result, err := env.service.Configure(env.ctx, validReq)
		require.NoError(t, err)
		assert.True(t, result.Saved)
		assert.Equal(t, "leads", env.detector.table)
		assert.Equal(t, "anon-key", env.detector.conn.Key)
	})

	t.Run("should use the requested table name when given", func(t *testing.T) {
		env := newTestEnv(t)

		req := validReq
		req.Table = "contacts"
		_, err := env.service.Configure(env.ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "contacts", env.detector.table)
	})

	t.Run("should propagate detection failures with their message", func(t *testing.T) {
		env := newTestEnv(t)
		env.detector.err = &schema.NoSampleError{Table: "leads"}

		_, err := env.service.Configure(env.ctx, validReq)
		require.Error(t, err)
		assert.Equal(t, 400, httperror.GetStatusCode(err))
		assert.Contains(t, err.Error(), "RLS")
		assert.Nil(t, env.conns.saved)
	})

	t.Run("should persist the connection with an encrypted key", func(t *testing.T) {
		env := newTestEnv(t)

		result, err := env.service.Configure(env.ctx, validReq)
		require.NoError(t, err)
		assert.True(t, result.Saved)
		assert.Empty(t, result.Error)
		assert.Equal(t, detectedSchema().Columns, result.Schema.Columns)

		require.NotNil(t, env.conns.saved)
		assert.Equal(t, env.userID, env.conns.saved.UserID)
		assert.NotEqual(t, []byte("anon-key"), env.conns.saved.EncryptedKey)

		opened, err := testSealer(t).Open(env.conns.saved.EncryptedKey)
		require.NoError(t, err)
		assert.Equal(t, "anon-key", string(opened))

		assert.True(t, env.users.configured[env.userID])
	})

	t.Run("should still return the schema when persistence fails", func(t *testing.T) {
		env := newTestEnv(t)
		env.conns.upsertErr = errors.New("connection refused")

		result, err := env.service.Configure(env.ctx, validReq)
		require.NoError(t, err)
		assert.False(t, result.Saved)
		assert.Contains(t, result.Error, "could not be saved")
		assert.Contains(t, result.Error, "connection refused")
		assert.Equal(t, detectedSchema().Columns, result.Schema.Columns)
	})

	t.Run("should refresh the schema cache", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.service.Configure(env.ctx, validReq)
		require.NoError(t, err)
		assert.Equal(t, 1, env.cache.invalidated)
		assert.Equal(t, 1, env.cache.set)
	})
}

func TestGet(t *testing.T) {
	t.Run("should return the stored connection with the key decrypted", func(t *testing.T) {
		env := newTestEnv(t)
		sealed, err := testSealer(t).Seal([]byte("anon-key"))
		require.NoError(t, err)
		env.conns.stored = &models.TableConnection{
			UserID:       env.userID,
			Endpoint:     "https://myproject.supabase.co",
			EncryptedKey: sealed,
			Table:        "leads",
			Schema:       database.JSONB[schema.TableSchema]{Data: detectedSchema()},
		}

		info, err := env.service.Get(env.ctx)
		require.NoError(t, err)
		assert.Equal(t, "https://myproject.supabase.co", info.Endpoint)
		assert.Equal(t, "anon-key", info.Key)
		assert.Equal(t, "leads", info.Table)
		assert.Len(t, info.Schema.Columns, 3)
	})

	t.Run("should pass through a repository not-found error", func(t *testing.T) {
		env := newTestEnv(t)
		env.conns.getErr = httperror.NewHTTPError(404, "no connection configured")

		_, err := env.service.Get(env.ctx)
		require.Error(t, err)
		assert.Equal(t, 404, httperror.GetStatusCode(err))
	})
}

func TestLeads(t *testing.T) {
	seed := func(t *testing.T, env *testEnv) {
		t.Helper()
		sealed, err := testSealer(t).Seal([]byte("anon-key"))
		require.NoError(t, err)
		env.conns.stored = &models.TableConnection{
			UserID:       env.userID,
			Endpoint:     "https://myproject.supabase.co",
			EncryptedKey: sealed,
			Table:        "leads",
			Schema:       database.JSONB[schema.TableSchema]{Data: detectedSchema()},
		}
	}

	t.Run("should render the page against the stored schema", func(t *testing.T) {
		env := newTestEnv(t)
		seed(t, env)
		env.store.rows = []schema.Row{
			schema.NewRow("id", "r1", "nome", "Maria", "email", "m@x.co"),
			schema.NewRow("id", "r2", "nome", "Ana", "email", nil),
		}

		dashboard, err := env.service.Leads(env.ctx)
		require.NoError(t, err)

		assert.Equal(t, 2, dashboard.KPIs.TotalRows)
		assert.Equal(t, 3, dashboard.KPIs.FieldCount)
		require.Len(t, dashboard.Table.Rows, 2)
		assert.Equal(t, "r1", dashboard.Table.Rows[0].Key)
		assert.Equal(t, "anon-key", env.store.conn.Key)

		require.Len(t, dashboard.Leads, 2)
		assert.Equal(t, "Maria", dashboard.Leads[0].Name)
		assert.Equal(t, "m@x.co", dashboard.Leads[0].Email)
	})

	t.Run("should return the empty state when the table has no rows", func(t *testing.T) {
		env := newTestEnv(t)
		seed(t, env)

		dashboard, err := env.service.Leads(env.ctx)
		require.NoError(t, err)
		assert.Zero(t, dashboard.KPIs.TotalRows)
		assert.Equal(t, "No leads found.", dashboard.Table.EmptyMessage)
	})

	t.Run("should prefer the cached schema", func(t *testing.T) {
		env := newTestEnv(t)
		seed(t, env)
		cached := schema.TableSchema{Columns: []schema.Descriptor{
			{Name: "nome", Type: schema.TypeText, Label: "Nome"},
		}}
		env.cache.cached = &cached

		dashboard, err := env.service.Leads(env.ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, dashboard.KPIs.FieldCount)
	})

	t.Run("should wrap a remote page failure", func(t *testing.T) {
		env := newTestEnv(t)
		seed(t, env)
		env.store.err = errors.New("upstream timeout")

		_, err := env.service.Leads(env.ctx)
		require.Error(t, err)
		assert.Equal(t, 502, httperror.GetStatusCode(err))
		assert.True(t, strings.Contains(err.Error(), "upstream timeout"))
	})
}
