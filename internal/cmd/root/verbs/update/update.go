package update

import (
	"context"
	"fmt"

	onprem "github.com/kong/kongadmin/internal/cmd/root/products/on-prem"
	"github.com/kong/kongadmin/internal/cmd/root/verbs"
	"github.com/kong/kongadmin/internal/meta"
	"github.com/kong/kongadmin/internal/util/i18n"
	"github.com/kong/kongadmin/internal/util/normalizers"
	"github.com/spf13/cobra"
)

const (
	Verb = verbs.Update
)

var (
	updateUse = Verb.String()

	updateShort = i18n.T("root.verbs.update.updateShort", "Update objects")

	updateLong = normalizers.LongDesc(i18n.T("root.verbs.update.updateLong",
		`Use update to change an object, creating it when it does not exist yet.

The health of upstream targets is set with the healthy and unhealthy
sub-commands of target.`))

	updateExamples = normalizers.Examples(i18n.T("root.verbs.update.updateExamples",
		fmt.Sprintf(`
		# Change the timeouts of a service
		%[1]s update on-prem service example-service --read-timeout 30000
		# Mark a target unhealthy
		%[1]s update on-prem target unhealthy 10.0.0.1:8000 --upstream backend
		`, meta.CLIName)))
)

func NewUpdateCmd() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     updateUse,
		Short:   updateShort,
		Long:    updateLong,
		Example: updateExamples,
		Aliases: []string{"u", "U"},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(context.WithValue(cmd.Context(), verbs.Verb, Verb))
		},
	}

	c, e := onprem.NewOnPremCmd(Verb)
	if e != nil {
		return nil, e
	}
	cmd.AddCommand(c)

	return cmd, nil
}
