// Package client is a typed HTTP client for the customer records API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/unclebandit/customer-records/internal/model"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// ListParams mirrors the query string of GET /customers. Zero values are omitted.
type ListParams struct {
	Search string
	Sort   string
	Order  string
	Page   int
	Limit  int
}

func (p ListParams) values() url.Values {
	v := url.Values{}
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	if p.Sort != "" {
		v.Set("sort", p.Sort)
	}
	if p.Order != "" {
		v.Set("order", p.Order)
	}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	return v
}

type envelope struct {
	Data       json.RawMessage   `json:"data"`
	Pagination *model.Pagination `json:"pagination"`
	Error      string            `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode >= 300 {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode %s %s: %w", method, path, decodeErr)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return &env, nil
}

func (c *Client) ListCustomers(ctx context.Context, p ListParams) ([]model.Customer, model.Pagination, error) {
	path := "/customers"
	if q := p.values().Encode(); q != "" {
		path += "?" + q
	}
	var customers []model.Customer
	env, err := c.do(ctx, http.MethodGet, path, nil, &customers)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	var pagination model.Pagination
	if env.Pagination != nil {
		pagination = *env.Pagination
	}
	return customers, pagination, nil
}

func (c *Client) GetCustomer(ctx context.Context, id int) (*model.Customer, error) {
	var customer model.Customer
	if _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/customers/%d", id), nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (c *Client) CreateCustomer(ctx context.Context, in model.CustomerInput) (*model.Customer, error) {
	var customer model.Customer
	if _, err := c.do(ctx, http.MethodPost, "/customers", in, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (c *Client) UpdateCustomer(ctx context.Context, id int, in model.CustomerInput) (*model.Customer, error) {
	var customer model.Customer
	if _, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/customers/%d", id), in, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (c *Client) DeleteCustomer(ctx context.Context, id int) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/customers/%d", id), nil, nil)
	return err
}

func (c *Client) ListAddresses(ctx context.Context, customerID int) ([]model.Address, error) {
	addresses := []model.Address{}
	if _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/customers/%d/addresses", customerID), nil, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

func (c *Client) GetAddress(ctx context.Context, id int) (*model.Address, error) {
	var address model.Address
	if _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/addresses/%d", id), nil, &address); err != nil {
		return nil, err
	}
	return &address, nil
}

func (c *Client) CreateAddress(ctx context.Context, customerID int, in model.AddressInput) (*model.Address, error) {
	var address model.Address
	if _, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/customers/%d/addresses", customerID), in, &address); err != nil {
		return nil, err
	}
	return &address, nil
}

func (c *Client) UpdateAddress(ctx context.Context, id int, in model.AddressInput) (*model.Address, error) {
	var address model.Address
	if _, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/addresses/%d", id), in, &address); err != nil {
		return nil, err
	}
	return &address, nil
}

func (c *Client) DeleteAddress(ctx context.Context, id int) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/addresses/%d", id), nil, nil)
	return err
}
