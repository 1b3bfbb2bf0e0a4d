package apiutil

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestResolveEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "leading slash", base: "http://localhost:8001", path: "/services", want: "http://localhost:8001/services"},
		{name: "trailing slash on base", base: "http://localhost:8001/", path: "services", want: "http://localhost:8001/services"},
		{name: "base with prefix", base: "https://kong.example.com/admin", path: "/status", want: "https://kong.example.com/admin/status"},
		{name: "root path", base: "http://localhost:8001", path: "/", want: "http://localhost:8001/"},
		{name: "absolute path wins", base: "http://localhost:8001", path: "https://other.test/status", want: "https://other.test/status"},
		{name: "empty path", base: "http://localhost:8001", path: " ", wantErr: true},
		{name: "empty base", base: "", path: "/services", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveEndpoint(tt.base, tt.path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequestSuccess(t *testing.T) {
	var received *http.Request
	var receivedBody string
	client := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		received = req
		b, _ := io.ReadAll(req.Body)
		receivedBody = string(b)
		return &http.Response{
			StatusCode: http.StatusCreated,
			Status:     "201 Created",
			Body:       io.NopCloser(strings.NewReader(`{"id":"abc"}`)),
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Request:    req,
		}, nil
	})

	res, err := Request(context.Background(), client, http.MethodPost, "http://localhost:8001", "/services",
		nil, Credentials{Username: "admin", Password: "secret", Token: "tok"}, strings.NewReader(`{"name":"a"}`))
	require.NoError(t, err)

	require.NotNil(t, received)
	assert.Equal(t, "http://localhost:8001/services", received.URL.String())
	assert.Equal(t, "application/json", received.Header.Get("Content-Type"))
	assert.Equal(t, "application/json", received.Header.Get("Accept"))
	assert.Equal(t, "tok", received.Header.Get(AdminTokenHeader))
	user, pass, ok := received.BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "admin", user)
	assert.Equal(t, "secret", pass)
	assert.Equal(t, `{"name":"a"}`, receivedBody)

	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, "201 Created", res.Status)
	assert.Equal(t, "http://localhost:8001/services", res.URL)
	assert.Equal(t, `{"id":"abc"}`, string(res.Body))
	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))
}

func TestRequestWithoutBodyOrCredentials(t *testing.T) {
	client := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		assert.Empty(t, req.Header.Get("Content-Type"))
		assert.Empty(t, req.Header.Get("Authorization"))
		assert.Empty(t, req.Header.Get(AdminTokenHeader))
		assert.Equal(t, "size=10", req.URL.RawQuery)
		return &http.Response{StatusCode: http.StatusNoContent}, nil
	})

	res, err := Request(context.Background(), client, http.MethodGet, "http://localhost:8001", "/routes",
		url.Values{"size": []string{"10"}}, Credentials{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "204 No Content", res.Status)
	assert.Equal(t, "http://localhost:8001/routes?size=10", res.URL)
	assert.Empty(t, res.Body)
}

func TestRequestTransportError(t *testing.T) {
	client := roundTripFunc(func(_ *http.Request) (*http.Response, error) {
		return nil, errors.New("boom")
	})

	_, err := Request(context.Background(), client, http.MethodGet, "http://localhost:8001", "/status",
		nil, Credentials{}, nil)
	require.Error(t, err)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.MethodGet, transportErr.Method)
	assert.Equal(t, "http://localhost:8001/status", transportErr.URL)
	assert.Contains(t, err.Error(), "boom")
}

func TestRequestBodyReadError(t *testing.T) {
	client := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(failingReader{}),
			Request:    req,
		}, nil
	})

	_, err := Request(context.Background(), client, http.MethodGet, "http://localhost:8001", "/",
		nil, Credentials{}, nil)
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Contains(t, err.Error(), "connection reset")
}
