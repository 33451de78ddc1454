// Package client is a typed HTTP client for the catalog and comparison API.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"techgo/dto"

	"github.com/go-resty/resty/v2"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Body       dto.ErrorResponse
}

func (e *APIError) Error() string {
	if e.Body.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Body.Message)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

type Client struct {
	rc *resty.Client
}

// New points a client at baseURL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetHeader("Accept", "application/json").
		SetError(&dto.ErrorResponse{})
	return &Client{rc: rc}
}

// ListParams mirrors the query of GET /api/gadgets. Empty fields are omitted.
type ListParams struct {
	Search   string
	Category string
	Brand    string
	MinPrice string
	MaxPrice string
	SortBy   string
	Page     int
	Size     int
}

func (p ListParams) query() map[string]string {
	q := map[string]string{}
	set := func(k, v string) {
		if v != "" {
			q[k] = v
		}
	}
	set("search", p.Search)
	set("category", p.Category)
	set("brand", p.Brand)
	set("minPrice", p.MinPrice)
	set("maxPrice", p.MaxPrice)
	set("sortBy", p.SortBy)
	q["page"] = strconv.Itoa(p.Page)
	if p.Size > 0 {
		q["size"] = strconv.Itoa(p.Size)
	}
	return q
}

func (c *Client) ListGadgets(ctx context.Context, params ListParams) (*dto.Page[dto.GadgetResponse], error) {
	return send[dto.Page[dto.GadgetResponse]](c.rc.R().SetContext(ctx).SetQueryParams(params.query()), resty.MethodGet, "/api/gadgets")
}

func (c *Client) GetGadget(ctx context.Context, id uint) (*dto.GadgetResponse, error) {
	return send[dto.GadgetResponse](c.rc.R().SetContext(ctx), resty.MethodGet, fmt.Sprintf("/api/gadgets/%d", id))
}

func (c *Client) CreateGadget(ctx context.Context, req dto.GadgetRequest) (*dto.GadgetResponse, error) {
	return send[dto.GadgetResponse](c.rc.R().SetContext(ctx).SetBody(req), resty.MethodPost, "/api/gadgets")
}

func (c *Client) CreateComparison(ctx context.Context, name string) (*dto.ComparisonResponse, error) {
	return send[dto.ComparisonResponse](c.rc.R().SetContext(ctx).SetBody(dto.ComparisonRequest{Name: name}), resty.MethodPost, "/api/comparisons")
}

func (c *Client) GetComparison(ctx context.Context, id string) (*dto.ComparisonResponse, error) {
	return send[dto.ComparisonResponse](c.rc.R().SetContext(ctx), resty.MethodGet, "/api/comparisons/"+id)
}

// AddToComparison reports created=false when the gadget was already listed.
func (c *Client) AddToComparison(ctx context.Context, id string, gadgetID uint) (*dto.ComparisonResponse, bool, error) {
	var out dto.ComparisonResponse
	resp, err := c.rc.R().
		SetContext(ctx).
		SetBody(dto.AddToComparisonRequest{GadgetID: gadgetID}).
		SetResult(&out).
		Post("/api/comparisons/" + id + "/gadgets")
	if err != nil {
		return nil, false, err
	}
	if err := check(resp); err != nil {
		return nil, false, err
	}
	return &out, resp.StatusCode() == http.StatusCreated, nil
}

func (c *Client) RemoveFromComparison(ctx context.Context, id string, gadgetID uint) (*dto.RemoveGadgetResponse, error) {
	return send[dto.RemoveGadgetResponse](c.rc.R().SetContext(ctx), resty.MethodDelete, fmt.Sprintf("/api/comparisons/%s/gadgets/%d", id, gadgetID))
}

func (c *Client) Compare(ctx context.Context, id string) (*dto.CompareResponse, error) {
	return send[dto.CompareResponse](c.rc.R().SetContext(ctx), resty.MethodGet, "/api/comparisons/"+id+"/compare")
}

func (c *Client) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	return send[dto.StatsResponse](c.rc.R().SetContext(ctx), resty.MethodGet, "/api/admin/stats")
}

func send[T any](req *resty.Request, method, path string) (*T, error) {
	var out T
	resp, err := req.SetResult(&out).Execute(method, path)
	if err != nil {
		return nil, err
	}
	if err := check(resp); err != nil {
		return nil, err
	}
	return &out, nil
}

func check(resp *resty.Response) error {
	if !resp.IsError() {
		return nil
	}
	apiErr := &APIError{StatusCode: resp.StatusCode()}
	if e, ok := resp.Error().(*dto.ErrorResponse); ok && e != nil {
		apiErr.Body = *e
	}
	return apiErr
}
