// Package testutil provides testing utilities for integration tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/tablebell/restaurant-api/internal/auth"
)

// Client posts GraphQL documents to a running server.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewClient creates an anonymous client.
func NewClient(baseURL string) *Client {
	return &Client{BaseURL: baseURL, HTTPClient: &http.Client{}}
}

// WithToken returns a copy of the client that sends token in the x-jwt header.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.Token = token
	return &clone
}

// Response is a decoded GraphQL response.
type Response struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Envelope is the common {isSuccess, error} result shape.
type Envelope struct {
	IsSuccess bool    `json:"isSuccess"`
	Error     *string `json:"error"`
}

// Do executes query with variables.
func (c *Client) Do(query string, variables map[string]interface{}) (*Response, error) {
	body, err := json.Marshal(map[string]interface{}{"query": query, "variables": variables})
	if err != nil {
		return nil, fmt.Errorf("marshal body: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+"/graphql", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set(auth.TokenHeader, c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, raw)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

// MustDo executes query and decodes data[field] into v. It fails the test on
// transport or GraphQL errors.
func (c *Client) MustDo(t *testing.T, query string, variables map[string]interface{}, field string, v interface{}) {
	t.Helper()

	resp, err := c.Do(query, variables)
	if err != nil {
		t.Fatalf("graphql request failed: %v", err)
	}
	if len(resp.Errors) > 0 {
		t.Fatalf("graphql errors: %+v", resp.Errors)
	}
	if err := json.Unmarshal(resp.Data[field], v); err != nil {
		t.Fatalf("decode %s: %v", field, err)
	}
}

// Input wraps fields as the conventional {"input": ...} variables map.
func Input(fields map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{"input": fields}
}
