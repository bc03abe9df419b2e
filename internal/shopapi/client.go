// Package shopapi is the typed HTTP client for the storefront server's
// cart and order endpoints. Each method is one request/response round
// trip; no retries, no caching.
package shopapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ActionResult is the server's verdict on a cart/order mutation. The
// server reports logical failures as success=false with HTTP 200, so a
// non-nil error from the client always means a transport or decode
// problem, never a rejected action.
type ActionResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	CartCount int    `json:"cart_count,omitempty"`
}

// OrderSummary is one entry of the order listing.
type OrderSummary struct {
	ID                string    `json:"id"`
	Status            string    `json:"status"`
	TotalAmount       float64   `json:"total_amount"`
	DeliveryAddress   string    `json:"delivery_address"`
	EstimatedDelivery time.Time `json:"estimated_delivery"`
	CreatedAt         time.Time `json:"created_at"`
}

// Client talks to one storefront server.
type Client struct {
	baseURL    string
	httpClient *http.Client

	// sessionID identifies the server-side cart; authToken, when set, is
	// sent as a bearer token on authenticated endpoints.
	sessionID string
	authToken string
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// SetSession sets the cart session ID sent with every request.
func (c *Client) SetSession(sessionID string) { c.sessionID = sessionID }

// SetAuthToken sets the bearer token for authenticated endpoints.
func (c *Client) SetAuthToken(token string) { c.authToken = token }

// CartCount fetches the number of items currently in the cart.
func (c *Client) CartCount(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/cart/count", nil)
	if err != nil {
		return 0, err
	}
	c.decorate(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("cart count: status %d: %s", resp.StatusCode, body)
	}

	var out struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("cart count: decode: %w", err)
	}
	return out.Count, nil
}

// AddToCart adds quantity units of a product to the cart.
func (c *Client) AddToCart(ctx context.Context, productID string, quantity int) (*ActionResult, error) {
	return c.postAction(ctx, "/add_to_cart", map[string]any{
		"product_id": productID,
		"quantity":   quantity,
	})
}

// UpdateCart sets the cart quantity for a product. The server treats a
// non-positive quantity as removal.
func (c *Client) UpdateCart(ctx context.Context, productID string, quantity int) (*ActionResult, error) {
	return c.postAction(ctx, "/update_cart", map[string]any{
		"product_id": productID,
		"quantity":   quantity,
	})
}

// RemoveFromCart removes a product from the cart entirely.
func (c *Client) RemoveFromCart(ctx context.Context, productID string) (*ActionResult, error) {
	return c.postAction(ctx, "/remove_from_cart", map[string]any{
		"product_id": productID,
	})
}

// ClearCart empties the cart.
func (c *Client) ClearCart(ctx context.Context) (*ActionResult, error) {
	return c.postAction(ctx, "/clear_cart", map[string]any{})
}

// PlaceOrder submits the cart as an order to the given address.
func (c *Client) PlaceOrder(ctx context.Context, address, phone string) (*ActionResult, error) {
	return c.postAction(ctx, "/place_order", map[string]any{
		"address": address,
		"phone":   phone,
	})
}

// Session is the authenticated identity returned by Login and Register.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	} `json:"user"`
}

// Login authenticates and installs the returned access token on the
// client.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	return c.postAuth(ctx, "/api/auth/login", map[string]any{
		"email":    email,
		"password": password,
	})
}

// Register creates an account and installs the returned access token on
// the client.
func (c *Client) Register(ctx context.Context, username, email, password string) (*Session, error) {
	return c.postAuth(ctx, "/api/auth/register", map[string]any{
		"username": username,
		"email":    email,
		"password": password,
	})
}

func (c *Client) postAuth(ctx context.Context, path string, payload map[string]any) (*Session, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.decorate(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%s: status %d: %s", path, resp.StatusCode, respBody)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", path, err)
	}
	c.SetAuthToken(session.AccessToken)
	return &session, nil
}

// Orders fetches the caller's order history.
func (c *Client) Orders(ctx context.Context) ([]OrderSummary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/orders", nil)
	if err != nil {
		return nil, err
	}
	c.decorate(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("orders: status %d: %s", resp.StatusCode, body)
	}

	var orders []OrderSummary
	if err := json.NewDecoder(resp.Body).Decode(&orders); err != nil {
		return nil, fmt.Errorf("orders: decode: %w", err)
	}
	return orders, nil
}

func (c *Client) postAction(ctx context.Context, path string, payload map[string]any) (*ActionResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.decorate(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%s: status %d: %s", path, resp.StatusCode, respBody)
	}

	var result ActionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", path, err)
	}
	return &result, nil
}

func (c *Client) decorate(req *http.Request) {
	if c.sessionID != "" {
		req.Header.Set("X-Session-ID", c.sessionID)
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
}
