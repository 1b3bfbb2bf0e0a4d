package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/kong/kongadmin/internal/log"
)

const (
	logTypeRequest  = "admin_api_request"
	logTypeResponse = "admin_api_response"
	logTypeError    = "admin_api_error"

	redactedValue = "[REDACTED]"

	maxLoggedBody = 4096
)

// LoggingHTTPClient wraps an HTTP client and logs Admin API traffic.
// Request and response metadata is logged at debug level, bodies only at
// trace level. Credentials are redacted from headers, query strings and JSON
// bodies.
type LoggingHTTPClient struct {
	wrapped *http.Client
	logger  *slog.Logger
	seq     atomic.Uint64
}

// NewLoggingHTTPClient creates a new logging HTTP client
func NewLoggingHTTPClient(logger *slog.Logger) *LoggingHTTPClient {
	return &LoggingHTTPClient{
		wrapped: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
}

// NewLoggingHTTPClientWithClient wraps an existing HTTP client
func NewLoggingHTTPClientWithClient(client *http.Client, logger *slog.Logger) *LoggingHTTPClient {
	return &LoggingHTTPClient{
		wrapped: client,
		logger:  logger,
	}
}

// Do sends the request through the wrapped client.
func (c *LoggingHTTPClient) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if c.logger == nil || !c.logger.Enabled(ctx, slog.LevelDebug) {
		return c.wrapped.Do(req)
	}

	trace := c.logger.Enabled(ctx, log.LevelTrace)
	requestID := strconv.FormatUint(c.seq.Add(1), 10)
	start := time.Now()

	attrs := []slog.Attr{
		slog.String("log_type", logTypeRequest),
		slog.String("request_id", requestID),
		slog.String("method", req.Method),
		slog.String("host", req.URL.Host),
		slog.String("route", req.URL.Path),
	}
	if query := req.URL.Query(); len(query) > 0 {
		attrs = append(attrs, slog.Any("query_params", redactQuery(query)))
	}
	attrs = append(attrs, slog.Any("request_headers", redactHeaders(req.Header)))
	if trace {
		if body, ok := peekRequestBody(req); ok {
			attrs = append(attrs, slog.String("request_body", body))
		}
	}
	attrs = append(attrs, log.HTTPLogContextAttrs(ctx)...)
	c.logger.LogAttrs(ctx, slog.LevelDebug, "Admin API request", attrs...)

	resp, err := c.wrapped.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.LogAttrs(ctx, slog.LevelDebug, "Admin API request failed",
			slog.String("log_type", logTypeError),
			slog.String("request_id", requestID),
			slog.String("method", req.Method),
			slog.String("route", req.URL.Path),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	attrs = []slog.Attr{
		slog.String("log_type", logTypeResponse),
		slog.String("request_id", requestID),
		slog.Int("status_code", resp.StatusCode),
		slog.String("status", resp.Status),
		slog.Duration("duration", duration),
		slog.Any("response_headers", redactHeaders(resp.Header)),
	}
	if trace {
		if body, ok := peekResponseBody(resp); ok {
			attrs = append(attrs, slog.String("response_body", body))
		}
	}
	c.logger.LogAttrs(ctx, slog.LevelDebug, "Admin API response", attrs...)

	return resp, nil
}

func isSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	if k == "key" || k == "authorization" || k == "cookie" || k == "set-cookie" {
		return true
	}
	for _, marker := range []string{"password", "secret", "token", "api_key", "apikey", "api-key", "credential"} {
		if strings.Contains(k, marker) {
			return true
		}
	}
	return false
}

func redactHeaders(h http.Header) map[string]string {
	headers := make(map[string]string, len(h))
	for k, v := range h {
		if isSensitiveKey(k) {
			headers[k] = redactedValue
		} else {
			headers[k] = strings.Join(v, ", ")
		}
	}
	return headers
}

func redactQuery(q map[string][]string) map[string]string {
	values := make(map[string]string, len(q))
	for k, v := range q {
		if isSensitiveKey(k) {
			values[k] = redactedValue
		} else {
			values[k] = strings.Join(v, ",")
		}
	}
	return values
}

func redactJSON(v any) any {
	switch value := v.(type) {
	case map[string]any:
		for k, item := range value {
			if isSensitiveKey(k) {
				value[k] = redactedValue
				continue
			}
			value[k] = redactJSON(item)
		}
		return value
	case []any:
		for i := range value {
			value[i] = redactJSON(value[i])
		}
		return value
	default:
		return value
	}
}

// printableBody returns a redacted rendition of a JSON body. Non JSON bodies
// are summarised by size only since they cannot be redacted reliably.
func printableBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Sprintf("[non-JSON body, %d bytes]", len(body))
	}
	encoded, err := json.Marshal(redactJSON(payload))
	if err != nil {
		return fmt.Sprintf("[unprintable body, %d bytes]", len(body))
	}
	if len(encoded) > maxLoggedBody {
		return fmt.Sprintf("%s... [truncated, total %d bytes]", encoded[:maxLoggedBody], len(encoded))
	}
	return string(encoded)
}

// peekRequestBody reads the request body and restores it for the transport.
func peekRequestBody(req *http.Request) (string, bool) {
	if req.Body == nil || req.Body == http.NoBody {
		return "", false
	}
	bodyBytes, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	if err != nil || len(bodyBytes) == 0 {
		return "", false
	}
	return printableBody(bodyBytes), true
}

// peekResponseBody reads the response body without consuming it
func peekResponseBody(resp *http.Response) (string, bool) {
	if resp.Body == nil {
		return "", false
	}
	bodyBytes, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	if err != nil || len(bodyBytes) == 0 {
		return "", false
	}
	return printableBody(bodyBytes), true
}
