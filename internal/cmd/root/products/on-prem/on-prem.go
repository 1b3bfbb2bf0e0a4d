package onprem

import (
	"context"
	"fmt"

	cmdpkg "github.com/kong/kongadmin/internal/cmd"
	jqoutput "github.com/kong/kongadmin/internal/cmd/output/jq"
	"github.com/kong/kongadmin/internal/cmd/root/products"
	"github.com/kong/kongadmin/internal/cmd/root/products/on-prem/common"
	"github.com/kong/kongadmin/internal/cmd/root/verbs"
	"github.com/kong/kongadmin/internal/meta"
	admin "github.com/kong/kongadmin/internal/onprem"
	"github.com/kong/kongadmin/internal/onprem/helpers"
	"github.com/kong/kongadmin/internal/util/i18n"
	"github.com/kong/kongadmin/internal/util/normalizers"
	"github.com/spf13/cobra"
)

const (
	// Product represents a self managed Kong Gateway reached through its
	// Admin API.
	Product = products.ProductValue("on-prem")
)

var (
	onPremUse   = Product.String()
	onPremShort = i18n.T("root.products.on-prem.onPremShort", "Manage Kong Gateway entities through the Admin API")
	onPremLong  = normalizers.LongDesc(i18n.T("root.products.on-prem.onPremLong",
		`The on-prem command manages the entities of a self managed Kong Gateway
through its Admin API.

Writes are idempotent: creating an entity that already exists updates it, and
deleting an entity that does not exist succeeds without a change.`))
	onPremExamples = normalizers.Examples(i18n.T("root.products.on-prem.onPremExamples",
		fmt.Sprintf(`
		# Create or update a service
		%[1]s create on-prem service example --host example.com --port 80
		# List the routes of a Kong Gateway on another host
		%[1]s list on-prem routes --admin-url https://kong.example.com:8444
		# Show the node status
		%[1]s get on-prem node status
		`, meta.CLIName)))
)

func bindFlags(c *cobra.Command, args []string) error {
	helper := cmdpkg.BuildHelper(c, args)
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	if err := common.BindFlags(cfg, c.Flags()); err != nil {
		return err
	}
	return jqoutput.BindFlags(cfg, c.Flags())
}

func preRunE(c *cobra.Command, args []string) error {
	ctx := c.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, products.Product, Product)
	ctx = context.WithValue(ctx, helpers.ClientFactoryKey, common.GetClientFactory())
	c.SetContext(ctx)
	return bindFlags(c, args)
}

// NewOnPremCmd builds the on-prem product command of verb, with one sub
// command per resource the verb applies to.
func NewOnPremCmd(verb verbs.VerbValue) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:               onPremUse,
		Short:             onPremShort,
		Long:              onPremLong,
		Example:           onPremExamples,
		Aliases:           []string{"op"},
		PersistentPreRunE: preRunE,
	}
	common.AddFlags(cmd.PersistentFlags())
	jqoutput.AddFlags(cmd.PersistentFlags())

	for _, res := range admin.Resources() {
		if c := newResourceCmd(verb, res); c != nil {
			cmd.AddCommand(c)
		}
	}
	if !cmd.HasSubCommands() {
		return nil, fmt.Errorf("on-prem has no resources for verb %s", verb)
	}
	return cmd, nil
}
