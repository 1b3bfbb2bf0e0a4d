package onprem

import (
	"fmt"
	"strings"
)

// ValidationError is returned when an invocation is rejected before any
// request is sent to the Admin API.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// Guard lists the fields an operation needs before it may proceed.
type Guard struct {
	// All fields must be present.
	All []string
	// Any is satisfied by at least one present field.
	Any []string
}

// Check validates data against the guard.
func (g Guard) Check(data Data) error {
	if err := RequireAll(data, g.All...); err != nil {
		return err
	}
	return RequireAny(data, g.Any...)
}

// RequireAll fails when one or more of the named fields is missing from data.
func RequireAll(data Data, names ...string) error {
	var missing []string
	for _, name := range names {
		if _, ok := data[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) == 1 {
		return validationErrorf("missing required field: %s", missing[0])
	}
	if len(missing) > 1 {
		return validationErrorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// RequireAny fails when none of the named fields is present in data. An empty
// list of names always passes.
func RequireAny(data Data, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	for _, name := range names {
		if _, ok := data[name]; ok {
			return nil
		}
	}
	return validationErrorf("one of the following fields is required: %s", strings.Join(names, ", "))
}
