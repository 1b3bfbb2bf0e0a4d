package onprem

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/kong/kongadmin/internal/onprem/apiutil"
)

var placeholderPattern = regexp.MustCompile(`\{([a-z_]+)\}`)

// Response is the normalised outcome of one Admin API call.
type Response struct {
	// Message is the HTTP status line, e.g. "201 Created".
	Message string
	Status  int
	// URL is the URL the request was finally sent to.
	URL string
	// Body is the decoded JSON object, or an empty map when the payload is
	// missing or is not a JSON object.
	Body map[string]any
	Raw  []byte
}

// Executor sends requests to one Admin API.
type Executor struct {
	doer    apiutil.Doer
	baseURL string
	creds   apiutil.Credentials
}

func NewExecutor(doer apiutil.Doer, baseURL string, creds apiutil.Credentials) *Executor {
	return &Executor{
		doer:    doer,
		baseURL: baseURL,
		creds:   creds,
	}
}

// Execute resolves pathTemplate against data and sends the request. body is
// JSON encoded when not nil. Remote error statuses are returned as ordinary
// responses; only failures to obtain a response are returned as errors.
func (e *Executor) Execute(
	ctx context.Context,
	method string,
	pathTemplate string,
	data Data,
	query url.Values,
	body any,
) (*Response, error) {
	path, err := ResolvePath(pathTemplate, data)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	res, err := apiutil.Request(ctx, e.doer, method, e.baseURL, path, query, e.creds, reader)
	if err != nil {
		return nil, err
	}

	return &Response{
		Message: res.Status,
		Status:  res.StatusCode,
		URL:     res.URL,
		Body:    decodeBody(res.Body),
		Raw:     res.Body,
	}, nil
}

// ResolvePath substitutes every {field} placeholder of template with the path
// escaped value of that field in data. A foreign reference object resolves to
// the identifier it holds.
func ResolvePath(template string, data Data) (string, error) {
	var missing []string
	path := placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := match[1 : len(match)-1]
		value, ok := placeholderValue(data[name])
		if !ok {
			missing = append(missing, name)
			return match
		}
		return url.PathEscape(value)
	})
	if len(missing) > 0 {
		return "", validationErrorf("cannot resolve %s: missing %s", template, strings.Join(missing, ", "))
	}
	return path, nil
}

func placeholderValue(v any) (string, bool) {
	switch value := v.(type) {
	case nil:
		return "", false
	case string:
		return value, value != ""
	case map[string]any:
		if len(value) != 1 {
			return "", false
		}
		for _, inner := range value {
			return placeholderValue(inner)
		}
		return "", false
	default:
		return fmt.Sprint(value), true
	}
}

func decodeBody(raw []byte) map[string]any {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		return map[string]any{}
	}
	return body
}
