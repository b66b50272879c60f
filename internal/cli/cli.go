package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/SuramyaVimal/dag-cd/internal/app"
	"github.com/SuramyaVimal/dag-cd/internal/config"
	"github.com/SuramyaVimal/dag-cd/internal/remote"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
//
// Settings come from the config file (-config, or dagcd.hcl in the working
// directory when present); flags given explicitly on the command line
// override them.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("dagcd", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
dagcd - Builds a DAG from three-address code and schedules its instructions.

Usage:
  dagcd [options] [PATH|-]
  dagcd -serve [-listen ADDR]

Arguments:
  PATH
    A source file, or a directory whose .tac files are processed in
    lexical order. "-" reads standard input.

Options:
`)
		flagSet.PrintDefaults()
	}

	defaults := config.Default()
	configFlag := flagSet.String("config", "", "Path to an HCL settings file. Defaults to "+config.DefaultFile+" when it exists.")
	formatFlag := flagSet.String("format", defaults.Output, "Report format. Options: 'text', 'json' or 'dot'.")
	logLevelFlag := flagSet.String("log-level", defaults.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	logFormatFlag := flagSet.String("log-format", defaults.LogFormat, "Log output format. Options: 'text' or 'json'.")
	cacheFlag := flagSet.String("cache", defaults.Cache.Backend, "Analysis cache. Options: 'memory', 'gcs' or 'none'.")
	bucketFlag := flagSet.String("cache-bucket", "", "GCS bucket for -cache gcs.")
	operatorsFlag := flagSet.String("operators", "", "Restrict operators to a comma-separated set, e.g. \"+,-,*,/\". By default any symbolic token is accepted.")
	serveFlag := flagSet.Bool("serve", false, "Run the HTTP and socket.io server instead of analyzing PATH.")
	listenFlag := flagSet.String("listen", defaults.Server.Listen, "Address the server listens on.")
	remoteFlag := flagSet.String("remote", "", "URL of a dagcd server to run the analysis on.")
	timeoutFlag := flagSet.Duration("timeout", remote.DefaultTimeout, "Timeout of a -remote analysis.")
	stdinFlag := flagSet.Bool("stdin", false, "Read the source from standard input.")
	colorFlag := flagSet.Bool("color", false, "Colorize diagnostics.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, usageError("%s", err.Error())
	}
	slog.Debug("Arguments parsed successfully.")

	settings, err := loadSettings(*configFlag)
	if err != nil {
		return nil, false, usageError("%s", err.Error())
	}

	// Only flags present on the command line override the file.
	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "format":
			settings.Output = strings.ToLower(*formatFlag)
		case "log-level":
			settings.LogLevel = strings.ToLower(*logLevelFlag)
		case "log-format":
			settings.LogFormat = strings.ToLower(*logFormatFlag)
		case "cache":
			settings.Cache.Backend = strings.ToLower(*cacheFlag)
		case "cache-bucket":
			settings.Cache.Bucket = *bucketFlag
		case "operators":
			settings.Operators = config.SplitOperators(*operatorsFlag)
		case "listen":
			settings.Server.Listen = *listenFlag
		}
	})

	path := ""
	switch {
	case *stdinFlag:
		path = app.StdinPath
	case flagSet.NArg() > 1:
		return nil, false, usageError("expected at most one PATH, got %d", flagSet.NArg())
	case flagSet.NArg() == 1:
		path = flagSet.Arg(0)
	}
	slog.Debug("Input path determined.", "path", path)

	if path == "" && !*serveFlag {
		slog.Debug("No input path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	if *timeoutFlag <= 0 {
		return nil, false, usageError("invalid timeout %s: must be positive", *timeoutFlag)
	}

	cfg, err := app.NewConfig(app.Config{
		InputPath:     path,
		Serve:         *serveFlag,
		RemoteURL:     *remoteFlag,
		RemoteTimeout: *timeoutFlag,
		Color:         *colorFlag,
		Settings:      settings,
	})
	if err != nil {
		return nil, false, usageError("%s", err.Error())
	}

	slog.Debug("CLI parser finished successfully.", "input", cfg.InputPath, "serve", cfg.Serve)
	return cfg, false, nil
}

// loadSettings reads path, or the default settings file when path is empty.
// A missing default file yields config.Default.
func loadSettings(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	if _, err := os.Stat(config.DefaultFile); errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return config.Load(config.DefaultFile)
}
