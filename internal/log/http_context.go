package log

import (
	"context"
	"log/slog"
	"strings"
)

type httpLogContextKey struct{}

// HTTPLogContext contains contextual metadata emitted with Admin API HTTP logs.
type HTTPLogContext struct {
	CommandPath    string
	CommandVerb    string
	CommandProduct string

	Resource string
	Action   string
	Task     string
}

var HTTPLogContextKey = httpLogContextKey{}

// WithHTTPLogContext merges non-empty fields from update into ctx.
func WithHTTPLogContext(ctx context.Context, update HTTPLogContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	current := HTTPLogContextFromContext(ctx)
	mergeHTTPLogContext(&current, update)

	return context.WithValue(ctx, HTTPLogContextKey, current)
}

// HTTPLogContextFromContext extracts HTTP logging metadata from ctx.
func HTTPLogContextFromContext(ctx context.Context) HTTPLogContext {
	if ctx == nil {
		return HTTPLogContext{}
	}

	switch value := ctx.Value(HTTPLogContextKey).(type) {
	case HTTPLogContext:
		return value
	case *HTTPLogContext:
		if value != nil {
			return *value
		}
	}

	return HTTPLogContext{}
}

// HTTPLogContextAttrs converts context metadata to slog attributes.
func HTTPLogContextAttrs(ctx context.Context) []slog.Attr {
	meta := HTTPLogContextFromContext(ctx)
	attrs := make([]slog.Attr, 0, 6)

	appendStringAttr(&attrs, "command_path", meta.CommandPath)
	appendStringAttr(&attrs, "command_verb", meta.CommandVerb)
	appendStringAttr(&attrs, "command_product", meta.CommandProduct)

	appendStringAttr(&attrs, "resource", meta.Resource)
	appendStringAttr(&attrs, "action", meta.Action)
	appendStringAttr(&attrs, "task", meta.Task)

	return attrs
}

func mergeHTTPLogContext(target *HTTPLogContext, update HTTPLogContext) {
	mergeStringField(&target.CommandPath, update.CommandPath)
	mergeStringField(&target.CommandVerb, update.CommandVerb)
	mergeStringField(&target.CommandProduct, update.CommandProduct)

	mergeStringField(&target.Resource, update.Resource)
	mergeStringField(&target.Action, update.Action)
	mergeStringField(&target.Task, update.Task)
}

func mergeStringField(target *string, value string) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return
	}
	*target = trimmed
}

func appendStringAttr(attrs *[]slog.Attr, key, value string) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return
	}
	*attrs = append(*attrs, slog.String(key, trimmed))
}
