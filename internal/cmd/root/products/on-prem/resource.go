package onprem

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/kong/kongadmin/internal/cmd"
	cmdCommon "github.com/kong/kongadmin/internal/cmd/common"
	"github.com/kong/kongadmin/internal/cmd/output/render"
	"github.com/kong/kongadmin/internal/cmd/root/verbs"
	"github.com/kong/kongadmin/internal/log"
	"github.com/kong/kongadmin/internal/meta"
	admin "github.com/kong/kongadmin/internal/onprem"
	"github.com/kong/kongadmin/internal/util/i18n"
	"github.com/kong/kongadmin/internal/util/pagination"
	"github.com/kong/kongadmin/internal/util/normalizers"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resourceCmd runs one action of one resource.
type resourceCmd struct {
	*cobra.Command

	verb   verbs.VerbValue
	res    *admin.Resource
	action admin.Action
	fields []admin.Field
	// key is the field filled from the positional argument, if any.
	key string
}

// flagName turns a field name into its flag name: connect_timeout becomes
// connect-timeout.
func flagName(field string) string {
	return strings.ReplaceAll(field, "_", "-")
}

// actionFields lists the fields an action can make use of. Upserts take every
// field the body carries, other actions only what their guard and paging
// need.
func actionFields(res *admin.Resource, op admin.Operation) []admin.Field {
	var fields []admin.Field
	for _, f := range res.Schema {
		if f.Include == admin.InclusionIgnored {
			continue
		}
		switch {
		case op.Type == admin.OpUpsert:
			if !f.Query {
				fields = append(fields, f)
			}
		case f.Query:
			if op.Paged {
				fields = append(fields, f)
			}
		case slices.Contains(op.Guard.All, f.Name) || slices.Contains(op.Guard.Any, f.Name):
			fields = append(fields, f)
		}
	}
	return fields
}

// keyField selects the field a positional argument fills: the entity id, or
// for entities addressed by their own value (targets) that value.
func keyField(fields []admin.Field) string {
	for _, name := range []string{"id", "target"} {
		if slices.ContainsFunc(fields, func(f admin.Field) bool { return f.Name == name }) {
			return name
		}
	}
	return ""
}

func addFieldFlags(flags *pflag.FlagSet, fields []admin.Field) {
	for _, f := range fields {
		usage := f.Description
		if len(f.Choices) > 0 {
			usage = fmt.Sprintf("%s\n- Allowed    : [ %s ]", usage, strings.Join(f.Choices, "|"))
		}
		names := append([]string{f.Name}, f.Aliases...)
		for i, name := range names {
			switch f.Type {
			case admin.TypeInt:
				flags.Int(flagName(name), 0, usage)
			case admin.TypeBool:
				flags.Bool(flagName(name), false, usage)
			case admin.TypeList:
				flags.StringSlice(flagName(name), nil, usage+" (repeat or comma separate)")
			case admin.TypeMap:
				flags.String(flagName(name), "", usage+" (JSON object)")
			case admin.TypeString:
				flags.String(flagName(name), "", usage)
			}
			if i > 0 {
				_ = flags.MarkHidden(flagName(name))
			}
		}
	}
}

// params collects the flags the user set, keyed by field name or alias, and
// the positional key argument.
func (c *resourceCmd) params(flags *pflag.FlagSet, args []string) (admin.Params, error) {
	params := admin.Params{}
	for _, f := range c.fields {
		for _, name := range append([]string{f.Name}, f.Aliases...) {
			flag := flags.Lookup(flagName(name))
			if flag == nil || !flag.Changed {
				continue
			}
			var (
				value any
				err   error
			)
			switch f.Type {
			case admin.TypeInt:
				value, err = flags.GetInt(flag.Name)
			case admin.TypeBool:
				value, err = flags.GetBool(flag.Name)
			case admin.TypeList:
				value, err = flags.GetStringSlice(flag.Name)
			case admin.TypeMap, admin.TypeString:
				value, err = flags.GetString(flag.Name)
			}
			if err != nil {
				return nil, err
			}
			params[name] = value
		}
	}

	if len(args) > 0 {
		if _, set := params[c.key]; set {
			return nil, fmt.Errorf("%s given both as argument and as --%s", c.key, flagName(c.key))
		}
		params[c.key] = args[0]
	}
	return params, nil
}

func (c *resourceCmd) runE(cobraCmd *cobra.Command, args []string) error {
	helper := cmd.BuildHelper(cobraCmd, args)

	params, err := c.params(cobraCmd.Flags(), args)
	if err != nil {
		return cmd.PrepareConfigurationError("%w", err)
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

	if c.action == admin.ActionDelete {
		if err := cmd.ConfirmDelete(helper, describe(c.res.Kind, params)); err != nil {
			return err
		}
	}

	client, err := helper.GetOnPremClient(cfg, logger)
	if err != nil {
		return err
	}

	ctx := log.WithHTTPLogContext(helper.GetContext(), log.HTTPLogContext{
		CommandPath:    cobraCmd.CommandPath(),
		CommandVerb:    c.verb.String(),
		CommandProduct: Product.String(),
	})
	result := client.Invoke(ctx, c.res.Kind, c.action, params)

	op, _ := c.res.Operation(c.action)
	write := op.Type != admin.OpRead
	if !result.Failed || outType != cmdCommon.TEXT {
		if err := render.ForFormat(helper, outType, displayRecord(c.res.Kind, write, result), result); err != nil {
			return err
		}
	}

	if op.Paged && !result.Failed && outType == cmdCommon.TEXT {
		if offset := pagination.NextOffset(result.Response); offset != "" {
			fmt.Fprintf(helper.GetStreams().ErrOut, "More %ss available, continue with --offset %s\n", c.res.Kind, offset)
		}
	}

	if result.Failed {
		return resultError(helper, c.res.Kind, c.action, result)
	}
	return nil
}

// resultError reports a failed Result as an ExecutionError carrying the status
// and, for Admin API errors, the fields of the error body.
func resultError(helper cmd.Helper, kind admin.Kind, action admin.Action, result admin.Result) error {
	msg := fmt.Sprintf("Failed to %s %s", action, kind)
	attrs := []any{"status", result.Status}
	if result.URL != "" {
		attrs = append(attrs, "url", result.URL)
	}
	err := errors.New(result.Message)
	if result.Status > 0 {
		if apiMsg, ok := result.Response["message"].(string); ok && apiMsg != "" {
			err = fmt.Errorf("%s: %s", result.Message, apiMsg)
		}
	}
	return cmd.PrepareExecutionErrorWithHelper(helper, msg, err, attrs...)
}

func describe(kind admin.Kind, params admin.Params) string {
	for _, key := range []string{"id", "target"} {
		if v, ok := params[key]; ok {
			return fmt.Sprintf("%s %v", kind, v)
		}
	}
	return string(kind)
}

func newActionCmd(verb verbs.VerbValue, res *admin.Resource, action admin.Action, use string) *resourceCmd {
	op, _ := res.Operation(action)
	fields := actionFields(res, op)

	c := &resourceCmd{
		verb:   verb,
		res:    res,
		action: action,
		fields: fields,
		key:    keyField(fields),
	}

	args := cobra.NoArgs
	argUse := ""
	if c.key != "" {
		args = cobra.MaximumNArgs(1)
		argUse = fmt.Sprintf(" [%s]", strings.ToUpper(c.key))
	}

	c.Command = &cobra.Command{
		Use:   use + argUse,
		Short: i18n.T(fmt.Sprintf("root.products.on-prem.%s.%s", res.Kind, action), shortFor(verb, res, action)),
		Long: normalizers.LongDesc(i18n.T(fmt.Sprintf("root.products.on-prem.%s.%s.long", res.Kind, action),
			fmt.Sprintf("%s\n\n%s", shortFor(verb, res, action), res.Description))),
		Example: normalizers.Examples(exampleFor(verb, res, action, use)),
		Args:    args,
		RunE:    c.runE,
	}
	addFieldFlags(c.Flags(), fields)
	return c
}

func shortFor(verb verbs.VerbValue, res *admin.Resource, action admin.Action) string {
	switch action {
	case admin.ActionCreate:
		if verb == verbs.Update {
			return fmt.Sprintf("Update a %s, creating it when absent", res.Kind)
		}
		return fmt.Sprintf("Create a %s, updating it when present", res.Kind)
	case admin.ActionDelete:
		return fmt.Sprintf("Delete a %s", res.Kind)
	case admin.ActionFind:
		return fmt.Sprintf("Retrieve a %s", res.Kind)
	case admin.ActionList:
		return fmt.Sprintf("List %ss", res.Kind)
	case admin.ActionHealthy, admin.ActionUnhealthy:
		return fmt.Sprintf("Mark a %s %s", res.Kind, action)
	case admin.ActionEnabled:
		return "List the names of the installed plugins"
	case admin.ActionRoutes, admin.ActionPlugins:
		return fmt.Sprintf("List the %s of a %s", action, res.Kind)
	default:
		return fmt.Sprintf("Retrieve the %s %s", res.Kind, action)
	}
}

func exampleFor(verb verbs.VerbValue, res *admin.Resource, action admin.Action, use string) string {
	path := fmt.Sprintf("%s %s %s %s", meta.CLIName, verb, Product, res.Kind)
	if use != string(res.Kind) {
		path += " " + use
	}
	switch {
	case res.Kind == admin.KindTarget && action != admin.ActionList:
		return fmt.Sprintf("  %s 10.0.0.1:8000 --upstream backend", path)
	case res.Kind == admin.KindTarget:
		return fmt.Sprintf("  %s --upstream backend", path)
	case action == admin.ActionCreate && res.Kind == admin.KindService:
		return fmt.Sprintf("  %s example-service --host example.com --port 80", path)
	case action == admin.ActionList:
		return fmt.Sprintf("  %s --size 100", path)
	case keyField(actionFields(res, mustOperation(res, action))) == "id":
		return fmt.Sprintf("  %s example-%s", path, res.Kind)
	default:
		return "  " + path
	}
}

func mustOperation(res *admin.Resource, action admin.Action) admin.Operation {
	op, _ := res.Operation(action)
	return op
}

// verbActions maps a verb onto the actions of res: the action the resource
// command runs, and the actions offered as its sub commands.
func verbActions(verb verbs.VerbValue, res *admin.Resource) (admin.Action, []admin.Action) {
	var primary admin.Action
	var subs []admin.Action
	for _, action := range res.Actions() {
		op, _ := res.Operation(action)
		switch verb {
		case verbs.Create:
			if action == admin.ActionCreate {
				primary = action
			}
		case verbs.Update:
			switch {
			case action == admin.ActionCreate:
				primary = action
			case op.Type == admin.OpToggle:
				subs = append(subs, action)
			}
		case verbs.Delete:
			if action == admin.ActionDelete {
				primary = action
			}
		case verbs.List:
			if action == admin.ActionList {
				primary = action
			}
		case verbs.Get:
			if op.Type != admin.OpRead || action == admin.ActionList {
				continue
			}
			if action == admin.ActionFind {
				primary = action
			} else {
				subs = append(subs, action)
			}
		}
	}
	if primary == "" && verb == verbs.Get && len(subs) > 0 {
		primary, subs = subs[0], subs[1:]
	}
	return primary, subs
}

// newResourceCmd builds the command of res under verb, or nil when the verb
// has nothing to do for res.
func newResourceCmd(verb verbs.VerbValue, res *admin.Resource) *cobra.Command {
	primary, subs := verbActions(verb, res)
	if primary == "" && len(subs) == 0 {
		return nil
	}

	var c *cobra.Command
	if primary != "" {
		c = newActionCmd(verb, res, primary, string(res.Kind)).Command
	} else {
		c = &cobra.Command{
			Use:   string(res.Kind),
			Short: res.Description,
			Args:  cobra.NoArgs,
		}
	}
	c.Aliases = []string{string(res.Kind) + "s"}

	for _, action := range subs {
		c.AddCommand(newActionCmd(verb, res, action, string(action)).Command)
	}
	return c
}
