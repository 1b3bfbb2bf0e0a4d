package cmd

import (
	"context"
	"log/slog"

	"github.com/kong/kongadmin/internal/build"
	"github.com/kong/kongadmin/internal/cmd/common"
	"github.com/kong/kongadmin/internal/cmd/root/products"
	"github.com/kong/kongadmin/internal/cmd/root/verbs"
	"github.com/kong/kongadmin/internal/config"
	"github.com/kong/kongadmin/internal/iostreams"
	"github.com/kong/kongadmin/internal/onprem/helpers"
	"github.com/spf13/cobra"
)

// MockHelper implements the command Helper with replaceable functions. Unset
// functions return zero values.
type MockHelper struct {
	GetCmdMock          func() *cobra.Command
	GetArgsMock         func() []string
	GetVerbMock         func() (verbs.VerbValue, error)
	GetProductMock      func() (products.ProductValue, error)
	GetStreamsMock      func() *iostreams.IOStreams
	GetConfigMock       func() (config.Hook, error)
	GetOutputFormatMock func() (common.OutputFormat, error)
	GetLoggerMock       func() (*slog.Logger, error)
	GetBuildInfoMock    func() (*build.Info, error)
	GetContextMock      func() context.Context
	GetOnPremClientMock func(cfg config.Hook, logger *slog.Logger) (helpers.Invoker, error)
}

func (m *MockHelper) GetCmd() *cobra.Command {
	if m.GetCmdMock == nil {
		return nil
	}
	return m.GetCmdMock()
}

func (m *MockHelper) GetArgs() []string {
	if m.GetArgsMock == nil {
		return nil
	}
	return m.GetArgsMock()
}

func (m *MockHelper) GetVerb() (verbs.VerbValue, error) {
	if m.GetVerbMock == nil {
		return "", nil
	}
	return m.GetVerbMock()
}

func (m *MockHelper) GetProduct() (products.ProductValue, error) {
	if m.GetProductMock == nil {
		return "", nil
	}
	return m.GetProductMock()
}

func (m *MockHelper) GetStreams() *iostreams.IOStreams {
	if m.GetStreamsMock == nil {
		return nil
	}
	return m.GetStreamsMock()
}

func (m *MockHelper) GetConfig() (config.Hook, error) {
	if m.GetConfigMock == nil {
		return nil, nil
	}
	return m.GetConfigMock()
}

func (m *MockHelper) GetOutputFormat() (common.OutputFormat, error) {
	if m.GetOutputFormatMock == nil {
		return common.TEXT, nil
	}
	return m.GetOutputFormatMock()
}

func (m *MockHelper) GetLogger() (*slog.Logger, error) {
	if m.GetLoggerMock == nil {
		return slog.New(slog.DiscardHandler), nil
	}
	return m.GetLoggerMock()
}

func (m *MockHelper) GetBuildInfo() (*build.Info, error) {
	if m.GetBuildInfoMock == nil {
		return &build.Info{}, nil
	}
	return m.GetBuildInfoMock()
}

func (m *MockHelper) GetContext() context.Context {
	if m.GetContextMock == nil {
		return context.Background()
	}
	return m.GetContextMock()
}

func (m *MockHelper) GetOnPremClient(cfg config.Hook, logger *slog.Logger) (helpers.Invoker, error) {
	if m.GetOnPremClientMock == nil {
		return nil, nil
	}
	return m.GetOnPremClientMock(cfg, logger)
}
