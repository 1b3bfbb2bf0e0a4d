package onprem

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kong/kongadmin/internal/log"
	"github.com/kong/kongadmin/internal/onprem/apiutil"
)

// UpsertMode overrides how PUT capable resources are written.
type UpsertMode string

const (
	// UpsertPut uses the strategy declared by each resource.
	UpsertPut UpsertMode = "put"
	// UpsertPostPatch writes every resource with POST and PATCH, for Admin
	// APIs that predate PUT upserts.
	UpsertPostPatch UpsertMode = "post-patch"
)

// ParseUpsertMode validates a configured upsert mode. An empty string selects
// UpsertPut.
func ParseUpsertMode(s string) (UpsertMode, error) {
	switch mode := UpsertMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case "", UpsertPut:
		return UpsertPut, nil
	case UpsertPostPatch:
		return mode, nil
	default:
		return "", fmt.Errorf("invalid upsert mode %q, must be one of: %s, %s", s, UpsertPut, UpsertPostPatch)
	}
}

// Options configure a Client.
type Options struct {
	BaseURL    string
	Username   string
	Password   string
	Token      string
	UpsertMode UpsertMode
}

// Client runs resource operations against one Admin API. It holds no mutable
// state and may be shared.
type Client struct {
	exec   *Executor
	mode   UpsertMode
	logger *slog.Logger
}

// NewClient builds a Client sending requests through doer. A nil logger
// discards all logs.
func NewClient(doer apiutil.Doer, opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	mode := opts.UpsertMode
	if mode == "" {
		mode = UpsertPut
	}
	return &Client{
		exec: NewExecutor(doer, opts.BaseURL, apiutil.Credentials{
			Username: opts.Username,
			Password: opts.Password,
			Token:    opts.Token,
		}),
		mode:   mode,
		logger: logger,
	}
}

// Invoke runs action on the resource of kind. Every outcome, including
// invalid input and transport failures, is reported through the Result.
func (c *Client) Invoke(ctx context.Context, kind Kind, action Action, params Params) Result {
	start := time.Now()

	res, ok := Lookup(kind)
	if !ok {
		return c.reject(ctx, kind, action, validationErrorf("unsupported resource: %s", kind))
	}
	op, ok := res.Operation(action)
	if !ok {
		return c.reject(ctx, kind, action, validationErrorf("unsupported action %s for resource %s", action, kind))
	}

	req, err := BuildRequest(res.Schema, params)
	if err != nil {
		return c.reject(ctx, kind, action, err)
	}
	if err := op.Guard.Check(req.Data); err != nil {
		return c.reject(ctx, kind, action, err)
	}

	ctx = log.WithHTTPLogContext(ctx, log.HTTPLogContext{
		Resource: string(kind),
		Action:   string(action),
	})

	var result Result
	switch op.Type {
	case OpRead:
		result, err = c.read(ctx, op, req)
	case OpUpsert:
		if c.strategy(res) == StrategyPut {
			result, err = c.upsertPut(ctx, res, req)
		} else {
			result, err = c.upsertPostPatch(ctx, res, req)
		}
	case OpDelete:
		result, err = c.delete(ctx, res, req)
	case OpToggle:
		result, err = c.toggle(ctx, op, req)
	default:
		err = validationErrorf("unsupported operation type %d", op.Type)
	}
	if err != nil {
		c.logger.WarnContext(ctx, "operation in Admin API failed",
			"resource", kind,
			"action", action,
			"error", err,
		)
		return failure(err)
	}

	c.logOpComplete(ctx, start, kind, action, result)
	return result
}

func (c *Client) reject(ctx context.Context, kind Kind, action Action, err error) Result {
	c.logger.DebugContext(ctx, "invocation rejected",
		"resource", kind,
		"action", action,
		"error", err,
	)
	return failure(err)
}

func (c *Client) logOpComplete(ctx context.Context, start time.Time, kind Kind, action Action, result Result) {
	c.logger.InfoContext(ctx, "operation in Admin API complete",
		"resource", kind,
		"action", action,
		"duration", time.Since(start),
		"status", result.Status,
		"changed", result.Changed,
		"failed", result.Failed,
	)
}

func (c *Client) strategy(res *Resource) Strategy {
	if res.Strategy == StrategyPut && c.mode == UpsertPostPatch {
		return StrategyPostPatch
	}
	return res.Strategy
}

func (c *Client) read(ctx context.Context, op Operation, req *Request) (Result, error) {
	query := req.Query
	if !op.Paged {
		query = nil
	}
	resp, err := c.exec.Execute(ctx, http.MethodGet, op.Path, req.Data, query, nil)
	if err != nil {
		return Result{}, err
	}
	return newResult(resp, false), nil
}

func (c *Client) find(ctx context.Context, res *Resource, req *Request) (*Response, error) {
	return c.exec.Execute(ctx, http.MethodGet, res.EntityPath, req.Data, nil, nil)
}

func (c *Client) upsertPut(ctx context.Context, res *Resource, req *Request) (Result, error) {
	pre, err := c.find(ctx, res, req)
	if err != nil {
		return Result{}, err
	}
	existed := pre.Status == http.StatusOK

	post, err := c.exec.Execute(ctx, http.MethodPut, res.EntityPath, req.Data, nil, req.Data)
	if err != nil {
		return Result{}, err
	}

	changed := !existed || c.changed(ctx, res, pre.Body, post.Body, req.Ignore)
	return newResult(post, changed), nil
}

func (c *Client) upsertPostPatch(ctx context.Context, res *Resource, req *Request) (Result, error) {
	pre, err := c.find(ctx, res, req)
	if err != nil {
		return Result{}, err
	}

	if pre.Status == http.StatusOK {
		post, err := c.exec.Execute(ctx, http.MethodPatch, res.EntityPath, req.Data, nil, req.Data)
		if err != nil {
			return Result{}, err
		}
		return newResult(post, c.changed(ctx, res, pre.Body, post.Body, req.Ignore)), nil
	}

	post, err := c.exec.Execute(ctx, http.MethodPost, res.CreatePath, req.Data, nil, req.Data)
	if err != nil {
		return Result{}, err
	}
	return newResult(post, post.Status == http.StatusCreated), nil
}

func (c *Client) delete(ctx context.Context, res *Resource, req *Request) (Result, error) {
	pre, err := c.find(ctx, res, req)
	if err != nil {
		return Result{}, err
	}
	existed := pre.Status == http.StatusOK

	resp, err := c.exec.Execute(ctx, http.MethodDelete, res.EntityPath, req.Data, nil, nil)
	if err != nil {
		return Result{}, err
	}

	result := newResult(resp, existed && resp.Status == http.StatusNoContent)
	if existed {
		result.Response = pre.Body
	} else {
		result.Response = map[string]any{}
	}
	return result, nil
}

func (c *Client) toggle(ctx context.Context, op Operation, req *Request) (Result, error) {
	resp, err := c.exec.Execute(ctx, http.MethodPost, op.Path, req.Data, nil, nil)
	if err != nil {
		return Result{}, err
	}
	return newResult(resp, resp.Status == http.StatusNoContent), nil
}

func (c *Client) changed(ctx context.Context, res *Resource, before, after map[string]any, ignore IgnoreSet) bool {
	if !Changed(before, after, ignore) {
		return false
	}
	if c.logger.Enabled(ctx, slog.LevelDebug) {
		c.logger.DebugContext(ctx, "entity representation changed",
			"resource", res.Kind,
			"diff", Diff(before, after, ignore),
		)
	}
	return true
}
