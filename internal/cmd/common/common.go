package common

import (
	"fmt"
	"slices"
	"strings"
)

// OutputFormat is the format results are printed in.
type OutputFormat int

type LogLevel int

type ColorMode int

const (
	JSON OutputFormat = iota
	YAML
	TEXT
)

const (
	TRACE LogLevel = iota
	DEBUG
	INFO
	WARN
	ERROR
)

const (
	ColorModeAuto ColorMode = iota
	ColorModeAlways
	ColorModeNever
)

var (
	outputFormats = []string{"json", "yaml", "text"}
	logLevels     = []string{"trace", "debug", "info", "warn", "error"}
	colorModes    = []string{"auto", "always", "never"}
)

const (
	// --output
	DefaultOutputFormat = "text"
	OutputFlagName      = "output"
	OutputFlagShort     = "o"
	OutputConfigPath    = OutputFlagName

	// --color
	ColorFlagName    = "color"
	ColorConfigPath  = ColorFlagName
	DefaultColorMode = "auto"

	// --profile
	ProfileFlagName  = "profile"
	ProfileFlagShort = "p"
	DefaultProfile   = "default"

	// --config-file
	ConfigFilePathFlagName = "config-file"

	// --log-level
	LogLevelFlagName   = "log-level"
	DefaultLogLevel    = "info"
	LogLevelConfigPath = LogLevelFlagName

	// --log-file
	LogFileFlagName   = "log-file"
	LogFileConfigPath = LogFileFlagName
)

func OutputFormats() []string { return slices.Clone(outputFormats) }

func LogLevels() []string { return slices.Clone(logLevels) }

func ColorModes() []string { return slices.Clone(colorModes) }

func (of OutputFormat) String() string {
	return outputFormats[of]
}

func OutputFormatStringToIota(format string) (OutputFormat, error) {
	i := slices.Index(outputFormats, strings.ToLower(format))
	if i < 0 {
		return TEXT, fmt.Errorf("invalid output format %q, must be one of %v", format, outputFormats)
	}
	return OutputFormat(i), nil
}

func (ll LogLevel) String() string {
	return logLevels[ll]
}

func LogLevelStringToIota(level string) (LogLevel, error) {
	i := slices.Index(logLevels, strings.ToLower(level))
	if i < 0 {
		return ERROR, fmt.Errorf("invalid log level %q, must be one of %v", level, logLevels)
	}
	return LogLevel(i), nil
}

func (cm ColorMode) String() string {
	if cm < ColorModeAuto || cm > ColorModeNever {
		return DefaultColorMode
	}
	return colorModes[cm]
}

func ColorModeStringToIota(mode string) (ColorMode, error) {
	if mode == "" {
		return ColorModeAuto, nil
	}
	i := slices.Index(colorModes, strings.ToLower(mode))
	if i < 0 {
		return ColorModeAuto, fmt.Errorf("invalid color mode %q, must be one of %v", mode, colorModes)
	}
	return ColorMode(i), nil
}
