package del

import (
	"context"
	"fmt"

	cmdpkg "github.com/kong/kongadmin/internal/cmd"
	onprem "github.com/kong/kongadmin/internal/cmd/root/products/on-prem"
	"github.com/kong/kongadmin/internal/cmd/root/verbs"
	"github.com/kong/kongadmin/internal/meta"
	"github.com/kong/kongadmin/internal/util/i18n"
	"github.com/kong/kongadmin/internal/util/normalizers"
	"github.com/spf13/cobra"
)

const (
	Verb = verbs.Delete
)

var (
	deleteUse = Verb.String()

	deleteShort = i18n.T("root.verbs.delete.deleteShort", "Delete objects")

	deleteLong = normalizers.LongDesc(i18n.T("root.verbs.delete.deleteLong",
		`Use delete to delete an object.

The deletion has to be confirmed by typing 'yes' unless --approve is given.
Deleting an object that does not exist succeeds and reports no change.`))

	deleteExamples = normalizers.Examples(i18n.T("root.verbs.delete.deleteExamples",
		fmt.Sprintf(`
		# Delete a service
		%[1]s delete on-prem service example-service
		# Delete a target without confirmation
		%[1]s delete on-prem target 10.0.0.1:8000 --upstream backend --approve
		`, meta.CLIName)))
)

func NewDeleteCmd() (*cobra.Command, error) {
	var autoApprove bool

	cmd := &cobra.Command{
		Use:     deleteUse,
		Short:   deleteShort,
		Long:    deleteLong,
		Example: deleteExamples,
		Aliases: []string{"d", "D", "del", "rm", "DEL", "RM"},
		PersistentPreRun: func(c *cobra.Command, _ []string) {
			ctx := c.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			c.SetContext(context.WithValue(ctx, verbs.Verb, Verb))
			cmdpkg.SetDeleteAutoApprove(c, autoApprove)
		},
	}

	cmd.PersistentFlags().BoolVar(&autoApprove, cmdpkg.ApproveFlagName, false,
		"Skip confirmation prompts for delete operations (not configurable)")

	c, e := onprem.NewOnPremCmd(Verb)
	if e != nil {
		return nil, e
	}
	cmd.AddCommand(c)

	return cmd, nil
}
