package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
)

// Client talks to a test server and keeps its session cookie like a browser would
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// Response is a decoded API envelope
type Response struct {
	StatusCode int
	Header     http.Header
	Success    bool                   `json:"success"`
	Data       json.RawMessage        `json:"data"`
	Error      map[string]interface{} `json:"error"`
}

// ErrorCode returns error.code of a failed response
func (r *Response) ErrorCode() string {
	code, _ := r.Error["code"].(string)
	return code
}

// DecodeData unmarshals the data field into v
func (r *Response) DecodeData(v interface{}) error {
	return json.Unmarshal(r.Data, v)
}

// NewClient creates a client with its own cookie jar
func NewClient(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{BaseURL: baseURL, HTTP: &http.Client{Jar: jar}}
}

// Do sends body as JSON to path and decodes the envelope
func (c *Client) Do(method, path string, body interface{}) (*Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req)
}

// Upload posts a multipart form built by the caller
func (c *Client) Upload(path, contentType string, body io.Reader) (*Response, error) {
	req, err := http.NewRequest(http.MethodPost, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	return c.send(req)
}

func (c *Client) send(req *http.Request) (*Response, error) {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	out := &Response{StatusCode: resp.StatusCode, Header: resp.Header}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return nil, fmt.Errorf("response is not JSON (%d): %s", resp.StatusCode, raw)
		}
	}
	return out, nil
}

// Register creates an account
func (c *Client) Register(username, email, password, role, location string) (*Response, error) {
	return c.Do(http.MethodPost, "/api/v1/auth/register", map[string]interface{}{
		"username": username,
		"email":    email,
		"password": password,
		"role":     role,
		"location": location,
	})
}

// Login opens a session; the cookie is kept in the client's jar
func (c *Client) Login(email, password string) (*Response, error) {
	return c.Do(http.MethodPost, "/api/v1/auth/login", map[string]interface{}{
		"email":    email,
		"password": password,
	})
}
