package rowstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/GabrielASF2/lead-cental/pkg/httpclient"
	"github.com/GabrielASF2/lead-cental/pkg/metrics"
	"github.com/GabrielASF2/lead-cental/pkg/schema"
	"github.com/GabrielASF2/lead-cental/pkg/tracing"
)

// restPath is the route prefix the data API exposes tables under.
const restPath = "/rest/v1/"

// Client reads rows from a PostgREST-style data API.
type Client struct {
	http   *httpclient.Client
	logger ectologger.Logger
}

// NewClient creates a new row store client
func NewClient(http *httpclient.Client, logger ectologger.Logger) *Client {
	return &Client{
		http:   http,
		logger: logger,
	}
}

// apiError is the error body shape returned by the data API.
type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Hint    string `json:"hint"`
}

// SelectSample fetches a single row from the table. A successful empty
// result returns an empty slice, not an error.
func (c *Client) SelectSample(ctx context.Context, conn schema.Connection, table string) ([]schema.Row, error) {
	ctx, span := tracing.StartSpan(ctx, "rowstore.Client.SelectSample")
	defer span.End()

	query := url.Values{}
	query.Set("select", "*")
	query.Set("limit", "1")

	return c.selectRows(ctx, conn, table, query, "select_sample")
}

// SelectPage fetches up to limit rows ordered by orderBy descending.
func (c *Client) SelectPage(ctx context.Context, conn schema.Connection, table, orderBy string, limit int) ([]schema.Row, error) {
	ctx, span := tracing.StartSpan(ctx, "rowstore.Client.SelectPage")
	defer span.End()

	query := url.Values{}
	query.Set("select", "*")
	if orderBy != "" {
		query.Set("order", orderBy+".desc")
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	return c.selectRows(ctx, conn, table, query, "select_page")
}

func (c *Client) selectRows(ctx context.Context, conn schema.Connection, table string, query url.Values, operation string) ([]schema.Row, error) {
	endpoint := strings.TrimSuffix(conn.Endpoint, "/")
	requestURL := fmt.Sprintf("%s%s%s?%s", endpoint, restPath, url.PathEscape(table), query.Encode())

	headers := map[string]string{
		"apikey":        conn.Key,
		"Authorization": "Bearer " + conn.Key,
		"Accept":        "application/json",
	}

	start := time.Now()
	resp, err := c.http.Get(ctx, requestURL, headers)
	if err != nil {
		metrics.RowStoreRequestsTotal.WithLabelValues(operation, "0").Inc()
		return nil, fmt.Errorf("row store request failed for table %q: %w", table, err)
	}
	metrics.RowStoreRequestsTotal.WithLabelValues(operation, strconv.Itoa(resp.StatusCode)).Inc()
	metrics.RowStoreRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	if !resp.IsSuccess() {
		return nil, c.errorFromResponse(ctx, table, resp)
	}

	var rows []schema.Row
	if err := json.Unmarshal(resp.Body, &rows); err != nil {
		c.logger.WithContext(ctx).WithError(err).Errorf("failed to decode rows for table %q", table)
		return nil, fmt.Errorf("failed to decode rows for table %q: %w", table, err)
	}

	return rows, nil
}

func (c *Client) errorFromResponse(ctx context.Context, table string, resp *httpclient.Response) error {
	var body apiError
	if err := json.Unmarshal(resp.Body, &body); err == nil && body.Message != "" {
		c.logger.WithContext(ctx).WithFields(map[string]any{
			"table":       table,
			"status_code": resp.StatusCode,
			"code":        body.Code,
		}).Warnf("row store error: %s", body.Message)
		return fmt.Errorf("row store returned status %d for table %q: %s", resp.StatusCode, table, body.Message)
	}

	c.logger.WithContext(ctx).WithFields(map[string]any{
		"table":       table,
		"status_code": resp.StatusCode,
	}).Warn("row store error")
	return fmt.Errorf("row store returned status %d for table %q", resp.StatusCode, table)
}
