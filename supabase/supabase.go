// Package supabase upserts rows into a Supabase project's tables through its
// PostgREST surface, authenticated with the service role key.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/albumshare/mbimport/data"
	"github.com/albumshare/mbimport/request"
)

// ErrMissingCredentials means SUPABASE_URL or SUPABASE_SERVICE_ROLE_KEY was
// not set. It surfaces only when an upsert is actually attempted, so dry runs
// never need credentials.
var ErrMissingCredentials = errors.New(
	"missing SUPABASE_URL or SUPABASE_SERVICE_ROLE_KEY; set them before using -stage or -write")

// New creates a client for the project at baseURL, authenticating every
// request with the service role key.
func New(baseURL, serviceKey string, log *zap.SugaredLogger) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		key:  serviceKey,
		http: &http.Client{Timeout: 90 * time.Second},
		log:  log,
	}
}

// FromEnv builds a client from SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY.
// Absent variables are not an error here; Upsert reports them when it runs.
func FromEnv(log *zap.SugaredLogger) *Client {
	return New(os.Getenv("SUPABASE_URL"), os.Getenv("SUPABASE_SERVICE_ROLE_KEY"), log)
}

type Client struct {
	base string
	key  string
	http *http.Client
	log  *zap.SugaredLogger
}

// Upsert sends one batch of rows to table as an insert-or-update keyed on the
// onConflict column. The whole batch commits or fails together.
func (c *Client) Upsert(ctx context.Context, table string, rows []data.Release, onConflict string) error {
	if c.base == "" || c.key == "" {
		return ErrMissingCredentials
	}

	body, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("error encoding %d rows: %w", len(rows), err)
	}

	u := fmt.Sprintf("%s/rest/v1/%s?on_conflict=%s", c.base, url.PathEscape(table), url.QueryEscape(onConflict))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("request error: %w", err)
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Content-Type", "application/json")
	// rows omit their empty optional columns, so objects in one batch can
	// carry different key sets; missing=default has PostgREST fill the
	// gaps instead of rejecting the batch
	req.Header.Set("Prefer", "resolution=merge-duplicates,return=minimal,missing=default")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("error upserting into '%s': %w", table, err)
	}
	defer resp.Body.Close()

	if err := request.Error(resp); err != nil {
		return fmt.Errorf("error upserting into '%s': %w", table, err)
	}

	c.log.Debugw("upserted batch", "table", table, "rows", len(rows))
	return nil
}
