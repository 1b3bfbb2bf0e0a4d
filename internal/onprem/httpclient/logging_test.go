package httpclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/kong/kongadmin/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (fn roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return fn(req)
}

func TestLoggingHTTPClient_DebugLogsRequestAndResponseWithoutBodies(t *testing.T) {
	var logOutput bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logOutput, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	client := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Status:     "200 OK",
				Header: http.Header{
					"Content-Type": []string{"application/json"},
				},
				Body:    io.NopCloser(strings.NewReader(`{"ok":true}`)),
				Request: req,
			}, nil
		}),
	}

	loggingClient := NewLoggingHTTPClientWithClient(client, logger)
	req, err := http.NewRequest(http.MethodGet, "http://localhost:8001/services?size=2&offset=abc&token=secret", nil)
	require.NoError(t, err)

	resp, err := loggingClient.Do(req)
	require.NoError(t, err)
	require.NotNil(t, resp)

	logs := parseJSONLogs(t, logOutput.String())
	require.Len(t, logs, 2)

	requestLog := mustFindLogByType(t, logs, logTypeRequest)
	responseLog := mustFindLogByType(t, logs, logTypeResponse)

	assert.Equal(t, "GET", requestLog["method"])
	assert.Equal(t, "/services", requestLog["route"])

	queryValues, ok := requestLog["query_params"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2", queryValues["size"])
	assert.Equal(t, "abc", queryValues["offset"])
	assert.Equal(t, redactedValue, queryValues["token"])

	assert.NotContains(t, requestLog, "request_body")
	assert.NotContains(t, responseLog, "response_body")
	assert.Equal(t, requestLog["request_id"], responseLog["request_id"])
	assert.EqualValues(t, 200, int(responseLog["status_code"].(float64)))
}

func TestLoggingHTTPClient_TraceLogsBodiesAndRedactsSensitiveFields(t *testing.T) {
	var logOutput bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logOutput, &slog.HandlerOptions{
		Level: log.LevelTrace,
	}))

	requestBody := `{"name":"basic-auth","config":{"password":"super-secret","api_key":"key-value"}}`
	responseBody := `{"id":"123","config":{"key":"response-secret"}}`

	var requestBodySeenByTransport string
	client := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			bodyBytes, err := io.ReadAll(req.Body)
			require.NoError(t, err)
			requestBodySeenByTransport = string(bodyBytes)

			return &http.Response{
				StatusCode: http.StatusCreated,
				Status:     "201 Created",
				Header: http.Header{
					"Content-Type": []string{"application/json"},
					"Set-Cookie":   []string{"session=abc123"},
				},
				Body:    io.NopCloser(strings.NewReader(responseBody)),
				Request: req,
			}, nil
		}),
	}

	loggingClient := NewLoggingHTTPClientWithClient(client, logger)
	req, err := http.NewRequest(
		http.MethodPost,
		"http://localhost:8001/plugins",
		strings.NewReader(requestBody),
	)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth("admin", "definitely-secret")
	req.Header.Set("Kong-Admin-Token", "token-secret")

	resp, err := loggingClient.Do(req)
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, requestBody, requestBodySeenByTransport)

	responseBodyRead, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, responseBody, string(responseBodyRead))

	logs := parseJSONLogs(t, logOutput.String())
	require.Len(t, logs, 2)

	requestLog := mustFindLogByType(t, logs, logTypeRequest)
	responseLog := mustFindLogByType(t, logs, logTypeResponse)

	requestLoggedBody, ok := requestLog["request_body"].(string)
	require.True(t, ok)
	assert.Contains(t, requestLoggedBody, `"password":"`+redactedValue+`"`)
	assert.Contains(t, requestLoggedBody, `"api_key":"`+redactedValue+`"`)
	assert.NotContains(t, requestLoggedBody, "super-secret")

	requestHeaders, ok := requestLog["request_headers"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, redactedValue, requestHeaders["Authorization"])
	assert.Equal(t, redactedValue, requestHeaders["Kong-Admin-Token"])

	responseLoggedBody, ok := responseLog["response_body"].(string)
	require.True(t, ok)
	assert.Contains(t, responseLoggedBody, `"key":"`+redactedValue+`"`)
	assert.NotContains(t, responseLoggedBody, "response-secret")

	responseHeaders, ok := responseLog["response_headers"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, redactedValue, responseHeaders["Set-Cookie"])
}

func TestLoggingHTTPClient_NoRequestResponseLogsBelowDebug(t *testing.T) {
	var logOutput bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logOutput, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	client := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusNoContent,
				Status:     "204 No Content",
				Body:       io.NopCloser(strings.NewReader("")),
				Request:    req,
			}, nil
		}),
	}

	loggingClient := NewLoggingHTTPClientWithClient(client, logger)
	req, err := http.NewRequest(http.MethodDelete, "http://localhost:8001/services/example", nil)
	require.NoError(t, err)

	resp, err := loggingClient.Do(req)
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Empty(t, strings.TrimSpace(logOutput.String()))
}

func TestLoggingHTTPClient_LogsTransportFailures(t *testing.T) {
	var logOutput bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logOutput, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	client := &http.Client{
		Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		}),
	}

	loggingClient := NewLoggingHTTPClientWithClient(client, logger)
	req, err := http.NewRequest(http.MethodGet, "http://localhost:8001/status", nil)
	require.NoError(t, err)

	_, err = loggingClient.Do(req)
	require.Error(t, err)

	logs := parseJSONLogs(t, logOutput.String())
	require.Len(t, logs, 2)
	failure := mustFindLogByType(t, logs, logTypeError)
	assert.Contains(t, failure["error"], "connection refused")
}

func TestPrintableBody(t *testing.T) {
	assert.Equal(t, "", printableBody(nil))
	assert.Equal(t, "[non-JSON body, 5 bytes]", printableBody([]byte("hello")))
	assert.Equal(t, `{"tags":["a"]}`, printableBody([]byte(`{"tags":["a"]}`)))
}

func parseJSONLogs(t *testing.T, raw string) []map[string]any {
	t.Helper()

	lines := strings.Split(strings.TrimSpace(raw), "\n")
	results := make([]map[string]any, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var payload map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &payload))
		results = append(results, payload)
	}
	return results
}

func mustFindLogByType(t *testing.T, logs []map[string]any, logType string) map[string]any {
	t.Helper()
	for _, entry := range logs {
		if entry["log_type"] == logType {
			return entry
		}
	}
	t.Fatalf("log type %q not found", logType)
	return nil
}
