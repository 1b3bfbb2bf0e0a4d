package log

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newDualLogger(primary, secondary *bytes.Buffer) *slog.Logger {
	return slog.New(NewDualHandler(
		slog.NewTextHandler(primary, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(secondary, &slog.HandlerOptions{Level: slog.LevelError}),
	))
}

func TestDualHandlerMirrorsErrorsToSecondary(t *testing.T) {
	t.Cleanup(EnableErrorMirroring)
	EnableErrorMirroring()

	var primary, secondary bytes.Buffer
	logger := newDualLogger(&primary, &secondary)

	logger.Error("boom", slog.String("resource", "service"))
	logger.Info("still going")

	assert.Contains(t, primary.String(), "boom")
	assert.Contains(t, primary.String(), "still going")
	assert.Contains(t, secondary.String(), "boom")
	assert.NotContains(t, secondary.String(), "still going")
}

func TestDualHandlerCanDisableMirroring(t *testing.T) {
	t.Cleanup(EnableErrorMirroring)
	DisableErrorMirroring()

	var primary, secondary bytes.Buffer
	newDualLogger(&primary, &secondary).Error("boom")

	assert.Contains(t, primary.String(), "boom")
	assert.Empty(t, secondary.String())
}

func TestDualHandlerKeepsAttrsOnBothSides(t *testing.T) {
	t.Cleanup(EnableErrorMirroring)

	var primary, secondary bytes.Buffer
	newDualLogger(&primary, &secondary).With("task", "create-svc").WithGroup("req").Error("boom", "status", 409)

	assert.Contains(t, primary.String(), "task=create-svc")
	assert.Contains(t, primary.String(), "req.status=409")
	assert.Contains(t, secondary.String(), "req.status=409")
}

func TestFriendlyErrorHandler(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(NewFriendlyErrorHandler(&out))

	logger.Info("ignored")
	logger.Error("operation failed",
		"url", "http://localhost:8001/services/a",
		"hint", "check --admin-url",
		"error", errors.New("connection refused"),
		"details", "line one\nline two",
	)

	assert.Equal(t, "Error: operation failed\n"+
		"  hint: check --admin-url\n"+
		"  details: line one\n"+
		"    line two\n"+
		"  error: connection refused\n"+
		"  url: http://localhost:8001/services/a\n", out.String())
}

func TestFriendlyErrorHandlerUsesErrorAsSummary(t *testing.T) {
	var out bytes.Buffer
	slog.New(NewFriendlyErrorHandler(&out)).With("task", "x").Error("", "error", "bad input")

	assert.Equal(t, "Error: bad input\n  task: x\n", out.String())
}
