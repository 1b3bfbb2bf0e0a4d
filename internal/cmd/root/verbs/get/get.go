package get

import (
	"context"
	"fmt"

	onprem "github.com/kong/kongadmin/internal/cmd/root/products/on-prem"
	profileCmd "github.com/kong/kongadmin/internal/cmd/root/profile"
	"github.com/kong/kongadmin/internal/cmd/root/verbs"
	"github.com/kong/kongadmin/internal/meta"
	"github.com/kong/kongadmin/internal/util/i18n"
	"github.com/kong/kongadmin/internal/util/normalizers"
	"github.com/spf13/cobra"
)

const (
	Verb = verbs.Get
)

var (
	getUse = Verb.String()

	getShort = i18n.T("root.verbs.get.getShort", "Retrieve objects")

	getLong = normalizers.LongDesc(i18n.T("root.verbs.get.getLong",
		`Use get to retrieve a single object, or a related collection of it.

Further sub-commands are required to determine which remote system is contacted.
Output can be formatted in multiple ways to aid in further processing.`))

	getExamples = normalizers.Examples(i18n.T("root.verbs.get.getExamples",
		fmt.Sprintf(`
		# Retrieve a service by name
		%[1]s get on-prem service example-service
		# Retrieve the routes of a service
		%[1]s get on-prem service routes example-service
		# Retrieve the status of the Kong node
		%[1]s get on-prem node status
		# Show the profiles of the configuration file
		%[1]s get profiles
		`, meta.CLIName)))
)

func NewGetCmd() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     getUse,
		Short:   getShort,
		Long:    getLong,
		Example: getExamples,
		Aliases: []string{"g", "G"},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(context.WithValue(cmd.Context(), verbs.Verb, Verb))
		},
	}

	c, e := onprem.NewOnPremCmd(Verb)
	if e != nil {
		return nil, e
	}
	cmd.AddCommand(c)

	cmd.AddCommand(profileCmd.NewProfileCmd(Verb))

	return cmd, nil
}
