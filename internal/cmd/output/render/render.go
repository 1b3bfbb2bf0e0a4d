package render

import (
	"fmt"

	cmdpkg "github.com/kong/kongadmin/internal/cmd"
	cmdCommon "github.com/kong/kongadmin/internal/cmd/common"
	jqoutput "github.com/kong/kongadmin/internal/cmd/output/jq"
	"github.com/segmentio/cli"
)

// ForFormat prints display for text output and raw for json and yaml output,
// after applying the --jq settings of the helper's command.
func ForFormat(helper cmdpkg.Helper, outType cmdCommon.OutputFormat, display any, raw any) error {
	printer, err := cli.Format(outType.String(), helper.GetStreams().Out)
	if err != nil {
		return err
	}
	defer printer.Flush()

	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	settings, err := jqoutput.ResolveSettings(helper.GetCmd(), cfg)
	if err != nil {
		return err
	}
	if err := jqoutput.ValidateOutputFormat(outType, settings); err != nil {
		return err
	}

	if settings.HasFilter() {
		filtered, handled, err := jqoutput.ApplyToRaw(raw, outType, settings, helper.GetStreams().Out)
		if err != nil {
			return cmdpkg.PrepareExecutionErrorWithHelper(helper, "jq filter failed", err)
		}
		if handled {
			return nil
		}
		raw = filtered
	}

	switch outType {
	case cmdCommon.TEXT:
		printer.Print(display)
	case cmdCommon.JSON, cmdCommon.YAML:
		printer.Print(raw)
	default:
		return fmt.Errorf("unsupported output format %s", outType.String())
	}
	return nil
}
