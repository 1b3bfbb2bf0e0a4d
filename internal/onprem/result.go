package onprem

import (
	"errors"

	"github.com/kong/kongadmin/internal/onprem/apiutil"
)

// StatusTransportFailure is the status of a Result whose request never got a
// response.
const StatusTransportFailure = -1

// Result is the uniform outcome of an invocation.
type Result struct {
	Message  string         `json:"message" yaml:"message"`
	Status   int            `json:"status" yaml:"status"`
	URL      string         `json:"url" yaml:"url"`
	Response map[string]any `json:"response" yaml:"response"`
	Changed  bool           `json:"changed" yaml:"changed"`
	Failed   bool           `json:"failed" yaml:"failed"`
}

// newResult builds the Result of resp. A failed write never reports a change.
func newResult(resp *Response, changed bool) Result {
	failed := resp.Status >= 400
	return Result{
		Message:  resp.Message,
		Status:   resp.Status,
		URL:      resp.URL,
		Response: resp.Body,
		Changed:  changed && !failed,
		Failed:   failed,
	}
}

// failure converts err into a failed Result. Validation errors keep a zero
// status, everything else is reported as a transport failure.
func failure(err error) Result {
	result := Result{
		Message:  err.Error(),
		Response: map[string]any{},
		Failed:   true,
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return result
	}

	result.Status = StatusTransportFailure
	var transportErr *apiutil.TransportError
	if errors.As(err, &transportErr) {
		result.URL = transportErr.URL
	}
	return result
}
