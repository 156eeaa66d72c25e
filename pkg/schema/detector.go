package schema

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/GabrielASF2/lead-cental/pkg/metrics"
	"github.com/GabrielASF2/lead-cental/pkg/tracing"
)

// RowStore is the remote store the detector samples from.
type RowStore interface {
	// SelectSample fetches at most one row from the named table.
	SelectSample(ctx context.Context, conn Connection, table string) ([]Row, error)
}

// Detector infers a table schema by sampling a single live row.
type Detector struct {
	store  RowStore
	logger ectologger.Logger
}

func NewDetector(store RowStore, logger ectologger.Logger) *Detector {
	return &Detector{
		store:  store,
		logger: logger,
	}
}

// Detect samples one row from the table and builds a descriptor per column,
// in the row's own key order. A failed sample fails detection immediately;
// there is no retry. Repeated calls against unchanged remote state produce
// schemas with identical content.
func (d *Detector) Detect(ctx context.Context, conn Connection, table string) (TableSchema, error) {
	ctx, span := tracing.StartSpan(ctx, "schema.Detector.Detect")
	defer span.End()

	rows, err := d.store.SelectSample(ctx, conn, table)
	if err != nil {
		metrics.SchemaDetectionsTotal.WithLabelValues("access_error").Inc()
		d.logger.WithContext(ctx).WithError(err).WithField("table", table).Warn("schema sample query failed")
		return TableSchema{}, &AccessError{Table: table, Err: err}
	}

	if len(rows) == 0 {
		metrics.SchemaDetectionsTotal.WithLabelValues("no_sample").Inc()
		d.logger.WithContext(ctx).WithField("table", table).Warn("schema sample returned no rows")
		return TableSchema{}, &NoSampleError{Table: table}
	}

	sample := rows[0]
	columns := make([]Descriptor, 0, sample.Len())
	for _, name := range sample.Keys() {
		value := sample.Value(name)
		columns = append(columns, Descriptor{
			Name:         name,
			Type:         Infer(value),
			Nullable:     value == nil,
			IsPrimaryKey: name == "id",
			Label:        FormatLabel(name),
		})
	}

	metrics.SchemaDetectionsTotal.WithLabelValues("success").Inc()
	d.logger.WithContext(ctx).WithFields(map[string]any{
		"table":        table,
		"column_count": len(columns),
	}).Info("detected table schema")

	return TableSchema{
		Columns:    columns,
		DetectedAt: time.Now().UTC(),
	}, nil
}
