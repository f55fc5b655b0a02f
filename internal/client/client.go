// Package client - HTTP-клиент API администратора для утилит командной строки.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/agamariel/polofashions/internal/models"
	"github.com/google/uuid"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("admin role required")
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
	ErrRejected     = errors.New("rejected")
)

// RateLimitError содержит паузу, которую рекомендует сервер.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}

// Client ходит в API магазина с bearer-токеном.
type Client struct {
	baseURL    string
	token      string
	retries    int
	httpClient *http.Client
}

// Option настраивает Client.
type Option func(*Client)

// WithToken задаёт токен авторизации.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithRetries задаёт число повторов после ответа 429.
func WithRetries(n int) Option {
	return func(c *Client) { c.retries = n }
}

// WithHTTPClient подменяет HTTP-клиент.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New создаёт клиент.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		retries: 2,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token возвращает текущий токен.
func (c *Client) Token() string {
	return c.token
}

// Login получает токен и запоминает его в клиенте.
func (c *Client) Login(ctx context.Context, login, password string) (*models.UserResponse, error) {
	var user models.UserResponse
	resp, err := c.do(ctx, http.MethodPost, "/api/accounts/login", nil, models.LoginRequest{Login: login, Password: password}, &user)
	if err != nil {
		return nil, err
	}
	c.token = strings.TrimPrefix(resp.Header.Get("Authorization"), "Bearer ")
	return &user, nil
}

// ListOrders возвращает заказы, при непустом status - только в этом статусе.
func (c *Client) ListOrders(ctx context.Context, status string) ([]*models.OrderResponse, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	var orders []*models.OrderResponse
	if _, err := c.do(ctx, http.MethodGet, "/api/admin/orders", query, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder возвращает карточку заказа.
func (c *Client) GetOrder(ctx context.Context, id uuid.UUID) (*models.OrderResponse, error) {
	var order models.OrderResponse
	if _, err := c.do(ctx, http.MethodGet, "/api/admin/orders/"+id.String(), nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus переводит заказ в статус status.
func (c *Client) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.OrderResponse, error) {
	var order models.OrderResponse
	path := "/api/admin/orders/" + id.String() + "/status"
	if _, err := c.do(ctx, http.MethodPatch, path, nil, models.UpdateStatusRequest{Status: status}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Cancel отменяет заказ.
func (c *Client) Cancel(ctx context.Context, id uuid.UUID) (*models.OrderResponse, error) {
	var order models.OrderResponse
	if _, err := c.do(ctx, http.MethodPost, "/api/admin/orders/"+id.String()+"/cancel", nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// History возвращает историю статусов заказа.
func (c *Client) History(ctx context.Context, id uuid.UUID) ([]*models.StatusChange, error) {
	var history []*models.StatusChange
	if _, err := c.do(ctx, http.MethodGet, "/api/admin/orders/"+id.String()+"/history", nil, nil, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// do выполняет запрос, повторяя его после 429 не более c.retries раз.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) (*http.Response, error) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
	}

	for attempt := 0; ; attempt++ {
		resp, err := c.send(ctx, method, path, query, payload, out)
		var rl RateLimitError
		if err == nil || !errors.As(err, &rl) || attempt >= c.retries {
			return resp, err
		}

		timer := time.NewTimer(rl.RetryAfter)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, out any) (*http.Response, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	u.Path += path
	u.RawQuery = query.Encode()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return nil, fmt.Errorf("decode response: %w", err)
			}
		}
		return resp, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, RateLimitError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, apiError(ErrUnauthorized, resp.Body)
	case resp.StatusCode == http.StatusForbidden:
		return nil, apiError(ErrForbidden, resp.Body)
	case resp.StatusCode == http.StatusNotFound:
		return nil, apiError(ErrNotFound, resp.Body)
	case resp.StatusCode == http.StatusBadRequest:
		return nil, apiError(ErrBadRequest, resp.Body)
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, apiError(ErrRejected, resp.Body)
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("server error %d", resp.StatusCode)
	default:
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
}

// apiError дополняет sentinel сообщением сервера ({"message": "..."}).
func apiError(sentinel error, body io.Reader) error {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil || payload.Message == "" {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, payload.Message)
}

func parseRetryAfter(val string) time.Duration {
	if val == "" {
		return 5 * time.Second
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(val); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
