// Package store is the REST client for the hosted table database that
// holds all durable state. Endpoints follow the NocoDB v2 shape:
// per-table record CRUD plus a links sub-resource on the main table.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/jpcloudkit/sponsormap/internal/models"
)

// pageLimit matches the single-page fetch of the original client; the
// dataset is a few hundred rows at most.
const pageLimit = 1000

type Config struct {
	BaseURL     string
	Token       string
	MainTableID string
	MainViewID  string
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

type Client struct {
	cfg   Config
	httpc *http.Client
	log   *zap.Logger
}

func New(cfg Config, log *zap.Logger) *Client {
	httpc := cfg.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{cfg: cfg, httpc: httpc, log: log}
}

// listResponse is the envelope of every list endpoint.
type listResponse[T any] struct {
	List []T `json:"list"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.cfg.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("xc-token", c.cfg.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("record store: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("record store: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Body: string(data)}
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("record store: decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) recordsPath(tableID string) string {
	return "/tables/" + tableID + "/records"
}

// --- Entities (main table) ---

// ListEntities fetches every prospect row. A missing token degrades to
// an empty list so read-only views keep rendering.
func (c *Client) ListEntities(ctx context.Context) ([]models.Entity, error) {
	if c.cfg.Token == "" {
		c.log.Warn("record store token missing, returning no entities")
		return nil, nil
	}
	q := url.Values{}
	q.Set("viewId", c.cfg.MainViewID)
	q.Set("limit", fmt.Sprint(pageLimit))
	q.Set("offset", "0")
	var out listResponse[models.Entity]
	if err := c.do(ctx, http.MethodGet, c.recordsPath(c.cfg.MainTableID), q, nil, &out); err != nil {
		return nil, err
	}
	return out.List, nil
}

// CreateEntity inserts a prospect and returns the stored row with its
// assigned id.
func (c *Client) CreateEntity(ctx context.Context, fields map[string]any) (models.Entity, error) {
	var created models.Entity
	if c.cfg.Token == "" {
		return created, ErrMissingToken
	}
	err := c.do(ctx, http.MethodPost, c.recordsPath(c.cfg.MainTableID), nil, fields, &created)
	return created, err
}

// UpdateEntity patches a single prospect. The store exposes a
// bulk-update-shaped endpoint; the record id travels in the body.
func (c *Client) UpdateEntity(ctx context.Context, id string, fields map[string]any) error {
	if c.cfg.Token == "" {
		return ErrMissingToken
	}
	return c.do(ctx, http.MethodPatch, c.recordsPath(c.cfg.MainTableID), nil, withID(id, fields), nil)
}

// --- Tracking tables ---

// ListTracking fetches every record of one category's tracking table.
// Untracked categories and a missing token read as empty.
func (c *Client) ListTracking(ctx context.Context, cat models.Category) ([]models.TrackingRecord, error) {
	if !cat.Trackable() {
		return nil, nil
	}
	if c.cfg.Token == "" {
		c.log.Warn("record store token missing, returning no tracking records", zap.String("category", cat.String()))
		return nil, nil
	}
	q := url.Values{}
	q.Set("limit", fmt.Sprint(pageLimit))
	q.Set("offset", "0")
	var out listResponse[models.TrackingRecord]
	if err := c.do(ctx, http.MethodGet, c.recordsPath(cat.TableID()), q, nil, &out); err != nil {
		return nil, err
	}
	return out.List, nil
}

// ListTrackingForEntity fetches the tracking records linked to one
// entity. A where filter narrows the request, but the store may ignore
// unknown filters and return the whole table, so results are always
// re-filtered on the normalized link id.
func (c *Client) ListTrackingForEntity(ctx context.Context, cat models.Category, entityID string) ([]models.TrackingRecord, error) {
	if !cat.Trackable() {
		return nil, nil
	}
	if c.cfg.Token == "" {
		return nil, nil
	}
	q := url.Values{}
	q.Set("limit", fmt.Sprint(pageLimit))
	q.Set("offset", "0")
	q.Set("where", fmt.Sprintf("(Link_Annonceur,eq,%s)", entityID))
	var out listResponse[models.TrackingRecord]
	if err := c.do(ctx, http.MethodGet, c.recordsPath(cat.TableID()), q, nil, &out); err != nil {
		return nil, err
	}
	return models.FilterTracking(out.List, entityID), nil
}

// CreateTracking inserts a tracking record. Callers set Link_Annonceur
// in fields when the record must be tied to an entity.
func (c *Client) CreateTracking(ctx context.Context, cat models.Category, fields map[string]any) (models.TrackingRecord, error) {
	var created models.TrackingRecord
	if !cat.Trackable() {
		return created, fmt.Errorf("%w: %s", ErrUnknownCategory, cat)
	}
	if c.cfg.Token == "" {
		return created, ErrMissingToken
	}
	err := c.do(ctx, http.MethodPost, c.recordsPath(cat.TableID()), nil, fields, &created)
	return created, err
}

// UpdateTracking patches one tracking record by id.
func (c *Client) UpdateTracking(ctx context.Context, cat models.Category, id string, fields map[string]any) error {
	if !cat.Trackable() {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, cat)
	}
	if c.cfg.Token == "" {
		return ErrMissingToken
	}
	return c.do(ctx, http.MethodPatch, c.recordsPath(cat.TableID()), nil, withID(id, fields), nil)
}

// DeleteTracking removes one tracking record by id. A missing token is
// a logged no-op, like reads.
func (c *Client) DeleteTracking(ctx context.Context, cat models.Category, id string) error {
	if !cat.Trackable() {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, cat)
	}
	if c.cfg.Token == "" {
		c.log.Warn("record store token missing, skipping delete", zap.String("category", cat.String()), zap.String("id", id))
		return nil
	}
	return c.do(ctx, http.MethodDelete, c.recordsPath(cat.TableID()), nil, map[string]any{"Id": id}, nil)
}

// --- Link associations on the main table ---

func (c *Client) linksPath(cat models.Category, entityID string) string {
	return "/tables/" + c.cfg.MainTableID + "/links/" + cat.LinkFieldID() + "/records/" + entityID
}

// LinkTracking associates a child tracking record with an entity
// through the main table's link field.
func (c *Client) LinkTracking(ctx context.Context, cat models.Category, entityID, childID string) error {
	if !cat.Trackable() {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, cat)
	}
	if c.cfg.Token == "" {
		return ErrMissingToken
	}
	payload := []map[string]any{{"Id": childID}}
	return c.do(ctx, http.MethodPost, c.linksPath(cat, entityID), nil, payload, nil)
}

// ListLinked fetches the child records linked to an entity for one
// category.
func (c *Client) ListLinked(ctx context.Context, cat models.Category, entityID string) ([]models.TrackingRecord, error) {
	if !cat.Trackable() || c.cfg.Token == "" {
		return nil, nil
	}
	q := url.Values{}
	q.Set("limit", "10")
	var out listResponse[models.TrackingRecord]
	if err := c.do(ctx, http.MethodGet, c.linksPath(cat, entityID), q, nil, &out); err != nil {
		return nil, err
	}
	return out.List, nil
}

// CreateAndLinkTracking creates a tracking record carrying the
// Link_Annonceur reference, then establishes the link association as
// well. The association call is belt-and-braces on top of the field
// reference, so its failure is logged rather than propagated.
func (c *Client) CreateAndLinkTracking(ctx context.Context, cat models.Category, fields map[string]any, entityID string) (models.TrackingRecord, error) {
	merged := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		merged[k] = v
	}
	merged["Link_Annonceur"] = entityID
	created, err := c.CreateTracking(ctx, cat, merged)
	if err != nil {
		return created, err
	}
	if err := c.LinkTracking(ctx, cat, entityID, created.ID.String()); err != nil {
		c.log.Warn("link association failed after create",
			zap.String("category", cat.String()),
			zap.String("entity", entityID),
			zap.String("record", created.ID.String()),
			zap.Error(err))
	}
	// The store response may omit the expanded link field.
	created.LinkAnnonceur = models.LinkRef{ID: models.RecordID(entityID)}
	return created, nil
}

func withID(id string, fields map[string]any) map[string]any {
	body := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["Id"] = id
	return body
}
