package apiutil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// AdminTokenHeader carries the RBAC token of a Kong Enterprise Admin API.
const AdminTokenHeader = "Kong-Admin-Token"

// Doer abstracts the ability to execute HTTP requests.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Credentials authenticate requests against the Admin API. Empty values are
// not sent.
type Credentials struct {
	Username string
	Password string
	Token    string
}

func (c Credentials) apply(req *http.Request) {
	if c.Username != "" || c.Password != "" {
		req.SetBasicAuth(c.Username, c.Password)
	}
	if c.Token != "" {
		req.Header.Set(AdminTokenHeader, c.Token)
	}
}

// Result represents a simplified HTTP response payload.
type Result struct {
	StatusCode int
	Status     string
	URL        string
	Body       []byte
	Header     http.Header
}

// TransportError reports a request that produced no HTTP response, or whose
// response body could not be read.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Request issues an HTTP request against the provided endpoint. If the provided
// path is not absolute it is resolved against the base URL. Query values are
// appended to the resolved endpoint. A non nil body is sent as JSON.
func Request(
	ctx context.Context,
	client Doer,
	method string,
	baseURL string,
	path string,
	query url.Values,
	creds Credentials,
	body io.Reader,
) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if client == nil {
		client = http.DefaultClient
	}

	endpoint, err := resolveEndpoint(baseURL, path)
	if err != nil {
		return nil, err
	}
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	creds.apply(req)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, URL: endpoint, Err: err}
	}

	finalURL := endpoint
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	var bytes []byte
	if resp.Body != nil {
		defer resp.Body.Close()
		bytes, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, &TransportError{
				Method: method,
				URL:    finalURL,
				Err:    fmt.Errorf("failed to read response: %w", err),
			}
		}
	}

	status := resp.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	return &Result{
		StatusCode: resp.StatusCode,
		Status:     status,
		URL:        finalURL,
		Body:       bytes,
		Header:     resp.Header.Clone(),
	}, nil
}

func resolveEndpoint(baseURL, path string) (string, error) {
	trimmedPath := strings.TrimSpace(path)
	if trimmedPath == "" {
		return "", fmt.Errorf("endpoint path cannot be empty")
	}

	if strings.HasPrefix(trimmedPath, "http://") || strings.HasPrefix(trimmedPath, "https://") {
		return trimmedPath, nil
	}

	if baseURL == "" {
		return "", fmt.Errorf("base URL cannot be empty")
	}

	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(trimmedPath, "/"), nil
}
