package apply

import (
	"context"
	"fmt"
	"strings"

	cmdpkg "github.com/kong/kongadmin/internal/cmd"
	jqoutput "github.com/kong/kongadmin/internal/cmd/output/jq"
	"github.com/kong/kongadmin/internal/cmd/output/render"
	"github.com/kong/kongadmin/internal/cmd/root/products"
	onprem "github.com/kong/kongadmin/internal/cmd/root/products/on-prem"
	"github.com/kong/kongadmin/internal/cmd/root/products/on-prem/common"
	"github.com/kong/kongadmin/internal/cmd/root/verbs"
	"github.com/kong/kongadmin/internal/log"
	"github.com/kong/kongadmin/internal/meta"
	"github.com/kong/kongadmin/internal/onprem/helpers"
	"github.com/kong/kongadmin/internal/tasks"
	"github.com/kong/kongadmin/internal/util/i18n"
	"github.com/kong/kongadmin/internal/util/normalizers"
	"github.com/spf13/cobra"
)

const (
	Verb = verbs.Apply

	FilenameFlagName        = "filename"
	FilenameFlagShort       = "f"
	ContinueOnErrorFlagName = "continue-on-error"
	VarFlagName             = "var"
)

var (
	applyUse = Verb.String()

	applyShort = i18n.T("root.verbs.apply.applyShort", "Apply a task file to the Admin API")

	applyLong = normalizers.LongDesc(i18n.T("root.verbs.apply.applyLong",
		`Apply runs the tasks of one or more task files in order against the Admin API.

A task file is a YAML document with a list of tasks, each naming a resource, an
action and its params. The file is rendered as a Go template first: values given
with --var are available as {{ .Vars.<name> }} and sprig functions can be used.

The run stops at the first failed task unless --continue-on-error is given.`))

	applyExamples = normalizers.Examples(i18n.T("root.verbs.apply.applyExamples",
		fmt.Sprintf(`
		# Apply a task file
		%[1]s apply -f tasks.yaml
		# Apply two files, filling in a template variable
		%[1]s apply -f services.yaml -f plugins.yaml --var env=staging
		# Keep going after failed tasks
		%[1]s apply -f tasks.yaml --continue-on-error -o json
		`, meta.CLIName)))
)

// taskRecord is the text rendition of one task outcome.
type taskRecord struct {
	Task     string
	Resource string
	Action   string
	Status   int
	Changed  bool
	Failed   bool
}

type runOutput struct {
	Tasks   []tasks.TaskResult `json:"tasks" yaml:"tasks"`
	Summary tasks.Summary      `json:"summary" yaml:"summary"`
}

func parseVars(pairs []string) (map[string]string, error) {
	vars := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid --%s %q, must be key=value", VarFlagName, pair)
		}
		vars[strings.TrimSpace(k)] = v
	}
	return vars, nil
}

func preRunE(c *cobra.Command, args []string) error {
	ctx := c.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, verbs.Verb, Verb)
	ctx = context.WithValue(ctx, products.Product, onprem.Product)
	ctx = context.WithValue(ctx, helpers.ClientFactoryKey, common.GetClientFactory())
	c.SetContext(ctx)

	cfg, err := cmdpkg.BuildHelper(c, args).GetConfig()
	if err != nil {
		return err
	}
	if err := common.BindFlags(cfg, c.Flags()); err != nil {
		return err
	}
	return jqoutput.BindFlags(cfg, c.Flags())
}

func runE(c *cobra.Command, args []string) error {
	helper := cmdpkg.BuildHelper(c, args)

	files, err := c.Flags().GetStringSlice(FilenameFlagName)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return cmdpkg.PrepareConfigurationError("at least one task file is required (--%s)", FilenameFlagName)
	}
	pairs, err := c.Flags().GetStringArray(VarFlagName)
	if err != nil {
		return err
	}
	vars, err := parseVars(pairs)
	if err != nil {
		return &cmdpkg.ConfigurationError{Err: err}
	}
	continueOnError, err := c.Flags().GetBool(ContinueOnErrorFlagName)
	if err != nil {
		return err
	}

	var all []tasks.Task
	for _, file := range files {
		loaded, err := tasks.Load(file, vars)
		if err != nil {
			return cmdpkg.PrepareExecutionError("Failed to load task file", err, c, "file", file)
		}
		all = append(all, loaded...)
	}

	outType, err := helper.GetOutputFormat()
	if err != nil {
		return err
	}
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	logger, err := helper.GetLogger()
	if err != nil {
		return err
	}
	client, err := helper.GetOnPremClient(cfg, logger)
	if err != nil {
		return err
	}

	if continueOnError {
		log.DisableErrorMirroring()
		defer log.EnableErrorMirroring()
	}

	ctx := log.WithHTTPLogContext(helper.GetContext(), log.HTTPLogContext{
		CommandPath:    c.CommandPath(),
		CommandVerb:    Verb.String(),
		CommandProduct: onprem.Product.String(),
	})
	results, summary, runErr := tasks.Run(ctx, client, all, tasks.Options{
		ContinueOnError: continueOnError,
		OnResult: func(r tasks.TaskResult) {
			if r.Result.Failed {
				logger.ErrorContext(ctx, "task failed",
					"task", r.Name,
					"status", r.Result.Status,
					"error", r.Result.Message,
				)
			}
		},
	})

	records := make([]taskRecord, 0, len(results))
	for _, r := range results {
		records = append(records, taskRecord{
			Task:     r.Name,
			Resource: string(r.Resource),
			Action:   string(r.Action),
			Status:   r.Result.Status,
			Changed:  r.Result.Changed,
			Failed:   r.Result.Failed,
		})
	}
	if err := render.ForFormat(helper, outType, records, runOutput{Tasks: results, Summary: summary}); err != nil {
		return err
	}

	summaryAttrs := []any{"ok", summary.OK, "changed", summary.Changed, "failed", summary.Failed, "skipped", summary.Skipped}
	if runErr != nil {
		return cmdpkg.PrepareExecutionError("Task run interrupted", runErr, c, summaryAttrs...)
	}
	if summary.Failed > 0 {
		return cmdpkg.PrepareExecutionErrorMsg(helper,
			fmt.Sprintf("%d of %d tasks failed", summary.Failed, len(all)), summaryAttrs...)
	}
	logger.InfoContext(ctx, "task run complete", summaryAttrs...)
	return nil
}

func NewApplyCmd() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:               applyUse,
		Short:             applyShort,
		Long:              applyLong,
		Example:           applyExamples,
		Aliases:           []string{"a", "A"},
		Args:              cobra.NoArgs,
		PersistentPreRunE: preRunE,
		RunE:              runE,
	}

	cmd.Flags().StringSliceP(FilenameFlagName, FilenameFlagShort, nil,
		"Task file to apply. Repeat to apply several files in order.")
	cmd.Flags().Bool(ContinueOnErrorFlagName, false,
		"Run the remaining tasks after a task failed.")
	cmd.Flags().StringArray(VarFlagName, nil,
		"Template variable as key=value, available as {{ .Vars.key }} in task files. Repeatable.")
	common.AddFlags(cmd.Flags())
	jqoutput.AddFlags(cmd.Flags())

	return cmd, nil
}
