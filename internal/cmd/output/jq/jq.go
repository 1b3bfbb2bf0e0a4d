package jq

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/itchyny/gojq"
	cmdpkg "github.com/kong/kongadmin/internal/cmd"
	cmdcommon "github.com/kong/kongadmin/internal/cmd/common"
	"github.com/kong/kongadmin/internal/config"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	FlagName           = "jq"
	ColorFlagName      = "jq-color"
	RawOutputFlagName  = "jq-raw-output"
	RawOutputFlagShort = "r"

	DefaultExpressionConfigPath = "jq.default-expression"
	ColorEnabledConfigPath      = "jq.color.enabled"
	ColorThemeConfigPath        = "jq.color.theme"
	RawOutputConfigPath         = "jq.raw-output"

	DefaultTheme = "friendly"
)

var compiled sync.Map

// Settings control how a result is filtered and written.
type Settings struct {
	Filter    string
	ColorMode cmdcommon.ColorMode
	Theme     string
	RawOutput bool
}

// HasFilter reports whether a jq expression is to be applied.
func (s Settings) HasFilter() bool {
	return strings.TrimSpace(s.Filter) != ""
}

func AddFlags(flags *pflag.FlagSet) {
	flags.String(FlagName, "",
		"Filter the result with a jq expression. Requires --output json or yaml.")

	flags.Var(cmdpkg.NewEnum(cmdcommon.ColorModes(), cmdcommon.DefaultColorMode), ColorFlagName,
		fmt.Sprintf(`Colorize jq results.
- Config path: [ %s ]
- Allowed    : [ %s ]`, ColorEnabledConfigPath, strings.Join(cmdcommon.ColorModes(), "|")))

	flags.BoolP(RawOutputFlagName, RawOutputFlagShort, false,
		fmt.Sprintf(`Print string jq results without quotes.
- Config path: [ %s ]`, RawOutputConfigPath))
}

func BindFlags(cfg config.Hook, flags *pflag.FlagSet) error {
	if cfg == nil || flags == nil {
		return nil
	}
	for flagName, cfgPath := range map[string]string{
		ColorFlagName:     ColorEnabledConfigPath,
		RawOutputFlagName: RawOutputConfigPath,
	} {
		if f := flags.Lookup(flagName); f != nil {
			if err := cfg.BindFlag(cfgPath, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// ResolveSettings merges the jq flags of command with the profile
// configuration. Commands without a --jq flag never filter.
func ResolveSettings(command *cobra.Command, cfg config.Hook) (Settings, error) {
	settings := Settings{Theme: DefaultTheme, ColorMode: cmdcommon.ColorModeAuto}
	if command == nil || command.Flags().Lookup(FlagName) == nil {
		return settings, nil
	}
	flags := command.Flags()

	filter, err := flags.GetString(FlagName)
	if err != nil {
		return Settings{}, err
	}
	settings.Filter = strings.TrimSpace(filter)
	if flags.Changed(FlagName) && settings.Filter == "" {
		settings.Filter = "."
	}

	if cfg == nil {
		settings.RawOutput, err = flags.GetBool(RawOutputFlagName)
		return settings, err
	}

	if !flags.Changed(FlagName) {
		if def := strings.TrimSpace(cfg.GetString(DefaultExpressionConfigPath)); def != "" {
			settings.Filter = def
		}
	}
	settings.ColorMode, err = cmdcommon.ColorModeStringToIota(strings.TrimSpace(cfg.GetString(ColorEnabledConfigPath)))
	if err != nil {
		return Settings{}, &cmdpkg.ConfigurationError{Err: err}
	}
	if theme := strings.TrimSpace(cfg.GetString(ColorThemeConfigPath)); theme != "" {
		settings.Theme = theme
	}
	settings.RawOutput = cfg.GetBool(RawOutputConfigPath)
	return settings, nil
}

func ValidateOutputFormat(outType cmdcommon.OutputFormat, settings Settings) error {
	switch {
	case settings.RawOutput && !settings.HasFilter():
		return &cmdpkg.ConfigurationError{Err: fmt.Errorf("--%s requires --%s", RawOutputFlagName, FlagName)}
	case settings.RawOutput && outType != cmdcommon.JSON:
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("--%s is only supported with --output json", RawOutputFlagName),
		}
	case settings.HasFilter() && outType == cmdcommon.TEXT:
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("--%s is only supported with --output json or --output yaml", FlagName),
		}
	}
	return nil
}

// ApplyToRaw filters raw with the configured expression. When the output was
// already written to out (raw or colorized), handled is true; otherwise the
// filtered value is returned for the regular printer.
func ApplyToRaw(raw any, outType cmdcommon.OutputFormat, settings Settings, out io.Writer) (any, bool, error) {
	if !settings.HasFilter() {
		return raw, false, nil
	}
	if err := ValidateOutputFormat(outType, settings); err != nil {
		return nil, false, err
	}

	body, err := json.Marshal(raw)
	if err != nil {
		return nil, false, fmt.Errorf("failed to encode output before applying jq filter: %w", err)
	}
	results, err := evaluate(body, settings.Filter)
	if err != nil {
		return nil, false, err
	}

	if settings.RawOutput {
		return nil, true, writeRaw(results, out)
	}

	filtered, err := encode(results)
	if err != nil {
		return nil, false, err
	}

	if outType == cmdcommon.JSON && ShouldUseColor(settings.ColorMode, out) {
		_, err := fmt.Fprintln(out, strings.TrimRight(colorize(filtered, settings.Theme), "\n"))
		return nil, true, err
	}

	var payload any
	if err := json.Unmarshal(filtered, &payload); err != nil {
		return nil, false, err
	}
	return payload, false, nil
}

// ApplyFilter runs filter over a JSON document and returns the JSON encoded
// result. Several results are returned as an array.
func ApplyFilter(body []byte, filter string) ([]byte, error) {
	results, err := evaluate(body, filter)
	if err != nil {
		return nil, err
	}
	return encode(results)
}

func evaluate(body []byte, filter string) ([]any, error) {
	if len(body) == 0 {
		return nil, errors.New("response body is empty, cannot apply jq filter")
	}
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("response is not valid JSON: %w", err)
	}

	code, err := compile(filter)
	if err != nil {
		return nil, err
	}

	var results []any
	iter := code.Run(payload)
	for {
		v, ok := iter.Next()
		if !ok {
			return results, nil
		}
		if err, isErr := v.(error); isErr {
			return nil, fmt.Errorf("jq filter failed: %w", err)
		}
		results = append(results, v)
	}
}

func compile(filter string) (*gojq.Code, error) {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		filter = "."
	}
	if code, ok := compiled.Load(filter); ok {
		return code.(*gojq.Code), nil
	}

	parsed, err := gojq.Parse(filter)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}
	compiled.Store(filter, code)
	return code, nil
}

func encode(results []any) ([]byte, error) {
	var v any
	switch len(results) {
	case 0:
	case 1:
		v = results[0]
	default:
		v = results
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode filtered result: %w", err)
	}
	return b, nil
}

func writeRaw(results []any, out io.Writer) error {
	for _, result := range results {
		line, ok := result.(string)
		if !ok {
			b, err := json.Marshal(result)
			if err != nil {
				return fmt.Errorf("failed to encode filtered result: %w", err)
			}
			line = string(b)
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}

var terminalDetector = func(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ShouldUseColor resolves mode against out. Auto colors terminals unless
// NO_COLOR is set.
func ShouldUseColor(mode cmdcommon.ColorMode, out io.Writer) bool {
	switch mode {
	case cmdcommon.ColorModeAlways:
		return true
	case cmdcommon.ColorModeNever:
		return false
	}
	if _, disabled := os.LookupEnv("NO_COLOR"); disabled {
		return false
	}
	f, ok := out.(interface{ Fd() uintptr })
	return ok && terminalDetector(f.Fd())
}

// colorize pretty prints a JSON document with chroma. Scalars and
// undecodable input are only indented.
func colorize(raw []byte, theme string) string {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return string(raw)
	}
	indented, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return string(raw)
	}
	formatted := string(indented)
	switch payload.(type) {
	case map[string]any, []any:
	default:
		return formatted
	}

	lexer := lexers.Get("json")
	formatter := formatters.Get("terminal256")
	if lexer == nil || formatter == nil {
		return formatted
	}
	iterator, err := lexer.Tokenise(nil, formatted)
	if err != nil {
		return formatted
	}
	style := styles.Get(theme)
	if style == nil {
		style = styles.Fallback
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return formatted
	}
	return buf.String()
}
