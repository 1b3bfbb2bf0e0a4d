package profile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kong/kongadmin/internal/cmd"
	cmdCommon "github.com/kong/kongadmin/internal/cmd/common"
	"github.com/kong/kongadmin/internal/cmd/root/verbs"
	"github.com/kong/kongadmin/internal/profile"
	"github.com/kong/kongadmin/internal/util/i18n"
	"github.com/kong/kongadmin/internal/util/normalizers"
	"github.com/segmentio/cli"
	"github.com/spf13/cobra"
)

const redacted = "[REDACTED]"

var (
	profileUse   = "profile"
	profileShort = i18n.T("root.profile.profileShort", "Manage CLI profiles")
	profileLong  = normalizers.LongDesc(i18n.T("root.profile.profileLong",
		`The profile command lists, shows and creates the profiles of the configuration file.

Every profile carries its own Admin API connection settings. Secrets are redacted
when a profile is shown.`))
)

type profileRecord struct {
	Profile string
	Active  bool
}

type settingRecord struct {
	Setting string
	Value   string
}

// NewProfileCmd builds the profile command of verb.
func NewProfileCmd(verb verbs.VerbValue) *cobra.Command {
	rv := &cobra.Command{
		Use:     profileUse + " [NAME]",
		Short:   profileShort,
		Long:    profileLong,
		Aliases: []string{"profiles"},
		Args:    cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			helper := cmd.BuildHelper(c, args)
			mgr, ok := c.Context().Value(profile.ProfileManagerKey).(profile.Manager)
			if !ok || mgr == nil {
				return cmd.PrepareExecutionErrorMsg(helper, "no profile manager configured")
			}

			switch verb {
			case verbs.Get:
				return runGet(helper, mgr)
			case verbs.Create:
				return runCreate(helper, mgr)
			default:
				return fmt.Errorf("command %s does not support %s", profileUse, verb)
			}
		},
	}
	if verb == verbs.Create {
		rv.Use = profileUse + " NAME"
		rv.Args = cobra.ExactArgs(1)
	}
	return rv
}

func runGet(helper cmd.Helper, mgr profile.Manager) error {
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	outType, err := helper.GetOutputFormat()
	if err != nil {
		return err
	}
	p, err := cli.Format(outType.String(), helper.GetStreams().Out)
	if err != nil {
		return err
	}
	defer p.Flush()

	args := helper.GetArgs()
	if len(args) == 0 {
		names := mgr.GetProfiles()
		if outType != cmdCommon.TEXT {
			p.Print(names)
			return nil
		}
		records := make([]profileRecord, 0, len(names))
		for _, name := range names {
			records = append(records, profileRecord{Profile: name, Active: name == cfg.GetProfile()})
		}
		p.Print(records)
		return nil
	}

	settings, err := mgr.GetProfile(args[0])
	if err != nil {
		return cmd.PrepareExecutionErrorFromErr(helper, err)
	}
	redact(settings)
	if outType != cmdCommon.TEXT {
		p.Print(settings)
		return nil
	}
	p.Print(flatten("", settings))
	return nil
}

func runCreate(helper cmd.Helper, mgr profile.Manager) error {
	name := helper.GetArgs()[0]
	if err := mgr.CreateProfile(name); err != nil {
		return cmd.PrepareExecutionErrorFromErr(helper, err, "profile", name)
	}
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return cmd.PrepareExecutionError("Failed to save configuration", err, helper.GetCmd(), "path", cfg.GetPath())
	}
	_, err = fmt.Fprintf(helper.GetStreams().Out, "Created profile %s in %s\n", name, cfg.GetPath())
	return err
}

func isSecret(key string) bool {
	k := strings.ToLower(key)
	return strings.Contains(k, "password") || strings.Contains(k, "token")
}

func redact(settings map[string]any) {
	for k, v := range settings {
		if nested, ok := v.(map[string]any); ok {
			redact(nested)
			continue
		}
		if isSecret(k) && fmt.Sprint(v) != "" {
			settings[k] = redacted
		}
	}
}

func flatten(prefix string, settings map[string]any) []settingRecord {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var records []settingRecord
	for _, k := range keys {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if nested, ok := settings[k].(map[string]any); ok {
			records = append(records, flatten(path, nested)...)
			continue
		}
		records = append(records, settingRecord{Setting: path, Value: fmt.Sprint(settings[k])})
	}
	return records
}
