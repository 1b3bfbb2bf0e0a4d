package root

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/kong/kongadmin/internal/build"
	"github.com/kong/kongadmin/internal/cmd"
	"github.com/kong/kongadmin/internal/cmd/common"
	"github.com/kong/kongadmin/internal/cmd/root/verbs/apply"
	"github.com/kong/kongadmin/internal/cmd/root/verbs/create"
	"github.com/kong/kongadmin/internal/cmd/root/verbs/del"
	"github.com/kong/kongadmin/internal/cmd/root/verbs/get"
	"github.com/kong/kongadmin/internal/cmd/root/verbs/list"
	"github.com/kong/kongadmin/internal/cmd/root/verbs/update"
	"github.com/kong/kongadmin/internal/cmd/root/version"
	"github.com/kong/kongadmin/internal/config"
	"github.com/kong/kongadmin/internal/iostreams"
	"github.com/kong/kongadmin/internal/log"
	"github.com/kong/kongadmin/internal/meta"
	"github.com/kong/kongadmin/internal/profile"
	"github.com/kong/kongadmin/internal/util/i18n"
	"github.com/kong/kongadmin/internal/util/normalizers"
	"github.com/spf13/cobra"
)

var (
	rootLong = normalizers.LongDesc(i18n.T("root.rootLong", fmt.Sprintf(`
  %s manages the entities of a self managed Kong Gateway through its Admin API.

  Services, routes, consumers, plugins, upstreams and targets are written
  idempotently: entities are addressed by a name or UUID, created when absent,
  updated when different and left alone when already matching.`, meta.CLIName)))

	rootShort = i18n.T("root.rootShort", fmt.Sprintf("%s manages Kong Gateway through the Admin API", meta.CLIName))
)

// state holds the values the root command resolves before any sub command
// runs.
type state struct {
	configFilePath        string
	defaultConfigFilePath string
	profile               string
	outputFormat          *cmd.FlagEnum
	logLevel              *cmd.FlagEnum

	streams   *iostreams.IOStreams
	buildInfo *build.Info

	logger    *slog.Logger
	logCloser io.Closer
}

func newRootCmd(st *state) (*cobra.Command, error) {
	rootCmd := &cobra.Command{
		Use:   meta.CLIName,
		Short: rootShort,
		Long:  rootLong,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			return st.initialize(c)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return st.close()
		},
	}

	// parses all flags not just the target command
	rootCmd.TraverseChildren = true
	rootCmd.SetIn(st.streams.In)
	rootCmd.SetOut(st.streams.Out)
	rootCmd.SetErr(st.streams.ErrOut)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&st.configFilePath, common.ConfigFilePathFlagName, st.defaultConfigFilePath,
		i18n.T("root."+common.ConfigFilePathFlagName, "Path to the configuration file to load."))

	flags.StringVarP(&st.profile, common.ProfileFlagName, common.ProfileFlagShort, profile.DefaultProfile,
		fmt.Sprintf(`Specify the profile to use for this command.
- Environment: [ %s_PROFILE ]`, strings.ToUpper(meta.CLIName)))

	flags.VarP(st.outputFormat, common.OutputFlagName, common.OutputFlagShort,
		fmt.Sprintf(`Configures the output format.
- Config path: [ %s ]
- Allowed    : [ %s ]`,
			common.OutputConfigPath, strings.Join(st.outputFormat.Allowed, "|")))

	flags.Var(st.logLevel, common.LogLevelFlagName,
		fmt.Sprintf(`Configures the logging level. Execution logs are written to the log file.
- Config path: [ %s ]
- Allowed    : [ %s ]`,
			common.LogLevelConfigPath, strings.Join(st.logLevel.Allowed, "|")))

	flags.String(common.LogFileFlagName, "",
		fmt.Sprintf(`Write execution logs to the specified file.
- Config path: [ %s ]`, common.LogFileConfigPath))

	if err := addCommands(rootCmd); err != nil {
		return nil, err
	}
	return rootCmd, nil
}

// addCommands adds the root subcommands to the command.
func addCommands(rootCmd *cobra.Command) error {
	rootCmd.AddCommand(version.NewVersionCmd())

	for _, newCmd := range []func() (*cobra.Command, error){
		get.NewGetCmd,
		list.NewListCmd,
		create.NewCreateCmd,
		update.NewUpdateCmd,
		del.NewDeleteCmd,
		apply.NewApplyCmd,
	} {
		c, err := newCmd()
		if err != nil {
			return err
		}
		rootCmd.AddCommand(c)
	}
	return nil
}

// initialize loads the configuration of the selected profile, builds the
// logger and stores both in the command context.
func (st *state) initialize(c *cobra.Command) error {
	// The profile selects the configuration, so viper cannot resolve it. The
	// environment variable applies unless the flag was given.
	if !c.Flags().Changed(common.ProfileFlagName) {
		if p, ok := os.LookupEnv(strings.ToUpper(meta.CLIName) + "_PROFILE"); ok && p != "" {
			st.profile = p
		}
	}

	cfg, err := config.GetConfig(st.configFilePath, st.profile, st.defaultConfigFilePath)
	if err != nil {
		return &cmd.ConfigurationError{Err: err}
	}

	for path, name := range map[string]string{
		common.OutputConfigPath:   common.OutputFlagName,
		common.LogLevelConfigPath: common.LogLevelFlagName,
		common.LogFileConfigPath:  common.LogFileFlagName,
	} {
		if err := cfg.BindFlag(path, c.Flags().Lookup(name)); err != nil {
			return err
		}
	}

	logger, closer, err := log.New(log.Options{
		Level:  cfg.GetString(common.LogLevelConfigPath),
		File:   cfg.GetString(common.LogFileConfigPath),
		ErrOut: st.streams.ErrOut,
	})
	if err != nil {
		return &cmd.ConfigurationError{Err: err}
	}
	st.logger, st.logCloser = logger, closer

	ctx := context.WithValue(c.Context(), config.ConfigKey, config.Hook(cfg))
	ctx = context.WithValue(ctx, iostreams.StreamsKey, st.streams)
	ctx = context.WithValue(ctx, profile.ProfileManagerKey, profile.NewManager(cfg.Viper))
	ctx = context.WithValue(ctx, build.InfoKey, st.buildInfo)
	ctx = context.WithValue(ctx, log.LoggerKey, logger)
	c.SetContext(ctx)

	logger.DebugContext(ctx, "command started",
		"command", c.CommandPath(),
		"profile", st.profile,
		"config_file", cfg.GetPath(),
	)
	return nil
}

func (st *state) close() error {
	if st.logCloser == nil {
		return nil
	}
	err := st.logCloser.Close()
	st.logCloser = nil
	return err
}

// report writes err for the user. Execution errors go through the logger so
// they land in the log file too; everything else is printed as is.
func (st *state) report(err error) {
	var executionError *cmd.ExecutionError
	if errors.As(err, &executionError) && st.logger != nil {
		attrs := make([]any, 0, len(executionError.Attrs)+2)
		if executionError.Err != nil && executionError.Err.Error() != executionError.Msg {
			attrs = append(attrs, "error", executionError.Err.Error())
		}
		attrs = append(attrs, executionError.Attrs...)
		log.EnableErrorMirroring()
		st.logger.Error(executionError.Msg, attrs...)
		return
	}
	if errors.As(err, &executionError) {
		fmt.Fprintf(st.streams.ErrOut, "Error: %s\n", err)
	}
}

func execute(ctx context.Context, s *iostreams.IOStreams, bi *build.Info, args []string) error {
	cobra.EnableTraverseRunHooks = true

	defaultPath, err := config.GetDefaultConfigFilePath()
	if err != nil {
		return err
	}

	st := &state{
		defaultConfigFilePath: defaultPath,
		configFilePath:        defaultPath,
		profile:               profile.DefaultProfile,
		outputFormat:          cmd.NewEnum(common.OutputFormats(), common.DefaultOutputFormat),
		logLevel:              cmd.NewEnum(common.LogLevels(), common.DefaultLogLevel),
		streams:               s,
		buildInfo:             bi,
	}
	rootCmd, err := newRootCmd(st)
	if err != nil {
		return err
	}
	rootCmd.SetArgs(args)

	err = rootCmd.ExecuteContext(ctx)
	if err != nil {
		st.report(err)
	}
	_ = st.close()
	return err
}

// Execute runs the CLI and exits with status 1 when the command failed.
func Execute(ctx context.Context, s *iostreams.IOStreams, bi *build.Info) {
	if err := execute(ctx, s, bi, os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
