// Package client talks to the restaurant backend over REST. Every call returns
// a Response; transport and HTTP failures are reported in it rather than as errors.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// DefaultBaseURL is used when KDS_API_URL is not set
const DefaultBaseURL = "http://localhost:3000/api"

// Response is the outcome of an API call
type Response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Decode unmarshals the response data into v
func (r Response) Decode(v interface{}) error {
	if !r.Success {
		return fmt.Errorf("request failed: %s", r.Error)
	}
	if len(r.Data) == 0 {
		return nil
	}
	return json.Unmarshal(r.Data, v)
}

// Client handles requests to the backend API
type Client struct {
	httpClient *http.Client
	BaseURL    string
	Token      string
	Terminal   string
}

// New creates a client for the base URL in KDS_API_URL, or the default
func New() *Client {
	baseURL := os.Getenv("KDS_API_URL")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return NewWithURL(baseURL)
}

// NewWithURL creates a client for the given base URL
func NewWithURL(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Second * 10,
		},
		BaseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (c *Client) request(ctx context.Context, method, endpoint string, body interface{}) Response {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return Response{Error: err.Error()}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+endpoint, reader)
	if err != nil {
		return Response{Error: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if c.Terminal != "" {
		req.Header.Set("X-Terminal-Code", c.Terminal)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{Error: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{Error: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var failure struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		_ = json.Unmarshal(data, &failure)
		msg := failure.Message
		if msg == "" {
			msg = failure.Error
		}
		if msg == "" {
			msg = fmt.Sprintf("HTTP Error: %d", resp.StatusCode)
		}
		return Response{Error: msg}
	}

	if len(data) > 0 && !json.Valid(data) {
		return Response{Error: "invalid JSON response"}
	}
	return Response{Success: true, Data: data}
}

func (c *Client) get(ctx context.Context, endpoint string) Response {
	return c.request(ctx, http.MethodGet, endpoint, nil)
}

// Auth

// Login exchanges the PIN for a token. On success the token is kept for later calls.
func (c *Client) Login(ctx context.Context, pin string) Response {
	resp := c.request(ctx, http.MethodPost, "/auth/login", map[string]string{"pin": pin})
	if resp.Success {
		var body struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(resp.Data, &body); err == nil {
			c.Token = body.Token
		}
	}
	return resp
}

func (c *Client) Logout(ctx context.Context) Response {
	resp := c.request(ctx, http.MethodPost, "/auth/logout", nil)
	if resp.Success {
		c.Token = ""
	}
	return resp
}

// Menu

func (c *Client) GetMenuItems(ctx context.Context) Response {
	return c.get(ctx, "/menu/items")
}

func (c *Client) GetCategories(ctx context.Context) Response {
	return c.get(ctx, "/menu/categories")
}

// Orders

func (c *Client) CreateOrder(ctx context.Context, order interface{}) Response {
	return c.request(ctx, http.MethodPost, "/orders", order)
}

func (c *Client) GetOrders(ctx context.Context) Response {
	return c.get(ctx, "/orders")
}

func (c *Client) UpdateOrder(ctx context.Context, orderID string, update interface{}) Response {
	return c.request(ctx, http.MethodPatch, "/orders/"+url.PathEscape(orderID), update)
}

// Tables

func (c *Client) GetTables(ctx context.Context) Response {
	return c.get(ctx, "/tables")
}

func (c *Client) UpdateTable(ctx context.Context, tableID string, update interface{}) Response {
	return c.request(ctx, http.MethodPatch, "/tables/"+url.PathEscape(tableID), update)
}

// Users

func (c *Client) GetUsers(ctx context.Context) Response {
	return c.get(ctx, "/users")
}

func (c *Client) CreateUser(ctx context.Context, user interface{}) Response {
	return c.request(ctx, http.MethodPost, "/users", user)
}

func (c *Client) UpdateUser(ctx context.Context, userID string, user interface{}) Response {
	return c.request(ctx, http.MethodPatch, "/users/"+url.PathEscape(userID), user)
}

func (c *Client) DeleteUser(ctx context.Context, userID string) Response {
	return c.request(ctx, http.MethodDelete, "/users/"+url.PathEscape(userID), nil)
}

// Reports

func (c *Client) GetReports(ctx context.Context, period, reportType string) Response {
	q := url.Values{}
	q.Set("period", period)
	q.Set("type", reportType)
	return c.get(ctx, "/reports?"+q.Encode())
}

func (c *Client) GetDashboardStats(ctx context.Context) Response {
	return c.get(ctx, "/reports/dashboard")
}

// Payments

func (c *Client) ProcessPayment(ctx context.Context, payment interface{}) Response {
	return c.request(ctx, http.MethodPost, "/payments/process", payment)
}

// Kitchen display

// GetBoard fetches a rendered board view, optionally narrowed to a station
func (c *Client) GetBoard(ctx context.Context, view, station string) Response {
	endpoint := "/board/" + url.PathEscape(view)
	if station != "" {
		endpoint += "?station=" + url.QueryEscape(station)
	}
	return c.get(ctx, endpoint)
}

func (c *Client) Bump(ctx context.Context, orderID string) Response {
	return c.request(ctx, http.MethodPost, "/orders/"+url.PathEscape(orderID)+"/bump", nil)
}

func (c *Client) Recall(ctx context.Context, orderID string) Response {
	return c.request(ctx, http.MethodPost, "/orders/"+url.PathEscape(orderID)+"/recall", nil)
}
