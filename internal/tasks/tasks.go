// Package tasks loads and runs task files: ordered lists of resource
// operations applied against one Admin API.
package tasks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"text/template"

	sprig "github.com/Masterminds/sprig/v3"
	"github.com/kong/kongadmin/internal/log"
	"github.com/kong/kongadmin/internal/onprem"
	"sigs.k8s.io/yaml"
)

// Invoker runs one resource operation.
type Invoker interface {
	Invoke(ctx context.Context, kind onprem.Kind, action onprem.Action, params onprem.Params) onprem.Result
}

// File is the document of a task file.
type File struct {
	Tasks []Task `json:"tasks"`
}

// Task is one resource operation. Resource accepts singular and plural kind
// names.
type Task struct {
	Name     string        `json:"name,omitempty"`
	Resource string        `json:"resource"`
	Action   string        `json:"action"`
	Params   onprem.Params `json:"params,omitempty"`

	kind   onprem.Kind
	action onprem.Action
}

// Kind is the resource kind of a loaded task.
func (t Task) Kind() onprem.Kind {
	return t.kind
}

// Op is the action of a loaded task.
func (t Task) Op() onprem.Action {
	return t.action
}

// Label names the task in output: its name, or resource and action.
func (t Task) Label() string {
	if t.Name != "" {
		return t.Name
	}
	return fmt.Sprintf("%s %s", t.Resource, t.Action)
}

// Load reads the task file at path. The file is rendered as a Go template
// with sprig functions first; vars are available as .Vars and a missing var
// is an error.
func Load(path string, vars map[string]string) ([]Task, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read task file: %w", err)
	}
	return Parse(path, raw, vars)
}

// Parse is Load for task file content read elsewhere. name is used in errors.
func Parse(name string, raw []byte, vars map[string]string) ([]Task, error) {
	rendered, err := render(name, raw, vars)
	if err != nil {
		return nil, err
	}

	var file File
	if err := yaml.UnmarshalStrict(rendered, &file); err != nil {
		return nil, fmt.Errorf("failed to parse task file %s: %w", name, err)
	}
	if len(file.Tasks) == 0 {
		return nil, fmt.Errorf("task file %s contains no tasks", name)
	}

	var errs []error
	for i := range file.Tasks {
		if err := file.Tasks[i].resolve(); err != nil {
			errs = append(errs, fmt.Errorf("task %d (%s): %w", i+1, file.Tasks[i].Label(), err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid task file %s: %w", name, err)
	}
	return file.Tasks, nil
}

func render(name string, raw []byte, vars map[string]string) ([]byte, error) {
	if vars == nil {
		vars = map[string]string{}
	}
	t, err := template.New(name).Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse task file template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, map[string]any{"Vars": vars}); err != nil {
		return nil, fmt.Errorf("failed to render task file %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func (t *Task) resolve() error {
	kind, err := onprem.ParseKind(t.Resource)
	if err != nil {
		return err
	}
	res, _ := onprem.Lookup(kind)
	action := onprem.Action(t.Action)
	if _, ok := res.Operation(action); !ok {
		return fmt.Errorf("unsupported action %q for resource %s, must be one of %v", t.Action, kind, res.Actions())
	}
	t.kind = kind
	t.action = action
	if t.Params == nil {
		t.Params = onprem.Params{}
	}
	return nil
}

// Options control a Run.
type Options struct {
	// ContinueOnError runs the remaining tasks after a failed one.
	ContinueOnError bool
	// OnResult, when set, is called after every task.
	OnResult func(TaskResult)
}

// TaskResult is the outcome of one task.
type TaskResult struct {
	Name     string        `json:"name" yaml:"name"`
	Resource onprem.Kind   `json:"resource" yaml:"resource"`
	Action   onprem.Action `json:"action" yaml:"action"`
	Result   onprem.Result `json:"result" yaml:"result"`
}

// Summary counts the outcomes of a Run. Skipped tasks were not attempted
// after a failure.
type Summary struct {
	OK      int `json:"ok" yaml:"ok"`
	Changed int `json:"changed" yaml:"changed"`
	Failed  int `json:"failed" yaml:"failed"`
	Skipped int `json:"skipped" yaml:"skipped"`
}

// Run invokes tasks in order. It stops at the first failed task unless
// opts.ContinueOnError is set, and at context cancellation.
func Run(ctx context.Context, invoker Invoker, tasks []Task, opts Options) ([]TaskResult, Summary, error) {
	results := make([]TaskResult, 0, len(tasks))
	var summary Summary

	for i, task := range tasks {
		if err := ctx.Err(); err != nil {
			summary.Skipped = len(tasks) - i
			return results, summary, err
		}

		taskCtx := log.WithHTTPLogContext(ctx, log.HTTPLogContext{Task: task.Label()})
		result := invoker.Invoke(taskCtx, task.kind, task.action, task.Params)
		tr := TaskResult{Name: task.Label(), Resource: task.kind, Action: task.action, Result: result}
		results = append(results, tr)
		if opts.OnResult != nil {
			opts.OnResult(tr)
		}

		switch {
		case result.Failed:
			summary.Failed++
		case result.Changed:
			summary.Changed++
		default:
			summary.OK++
		}

		if result.Failed && !opts.ContinueOnError {
			summary.Skipped = len(tasks) - i - 1
			break
		}
	}
	return results, summary, nil
}
