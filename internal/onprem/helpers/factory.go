package helpers

import (
	"context"
	"log/slog"

	"github.com/kong/kongadmin/internal/config"
	"github.com/kong/kongadmin/internal/onprem"
)

// Invoker runs resource operations against an Admin API. *onprem.Client is
// the real implementation.
type Invoker interface {
	Invoke(ctx context.Context, kind onprem.Kind, action onprem.Action, params onprem.Params) onprem.Result
}

// ClientFactory builds an Invoker from the active profile's configuration.
type ClientFactory func(cfg config.Hook, logger *slog.Logger) (Invoker, error)

type Key struct{}

// ClientFactoryKey stores the ClientFactory in a command context.
var ClientFactoryKey = Key{}

var _ Invoker = (*onprem.Client)(nil)

// DefaultClientFactory, when set, replaces the configured factory. Tests use
// it to point commands at a fake Admin API.
var DefaultClientFactory ClientFactory
