package create

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
	Verb = verbs.Create
)

var (
	createUse = Verb.String()

	createShort = i18n.T("root.verbs.create.createShort", "Create objects")

	createLong = normalizers.LongDesc(i18n.T("root.verbs.create.createLong",
		`Use create to create an object.

Entities that already exist are updated to match the given fields, so running
the same create twice reports no change the second time.`))

	createExamples = normalizers.Examples(i18n.T("root.verbs.create.createExamples",
		fmt.Sprintf(`
		# Create a service
		%[1]s create on-prem service example-service --url http://mockbin.org/request
		# Create a route of the service
		%[1]s create on-prem route example-route --service example-service --paths /mock
		# Add a target to an upstream
		%[1]s create on-prem target 10.0.0.1:8000 --upstream backend --weight 100
		# Add a profile to the configuration file
		%[1]s create profile staging
		`, meta.CLIName)))
)

func NewCreateCmd() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     createUse,
		Short:   createShort,
		Long:    createLong,
		Example: createExamples,
		Aliases: []string{"c", "C"},
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
