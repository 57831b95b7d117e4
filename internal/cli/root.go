package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/luciushq/lucius/internal"
	"github.com/luciushq/lucius/internal/config"
	"github.com/luciushq/lucius/internal/paths"
)

// Represents the root command for the worker.
var RootCmd struct {
	Quiet   bool       `short:"q" help:"Suppress informational output."`
	Debug   bool       `short:"d" help:"Enable debug output."`
	Socket  string     `short:"s" help:"Override the default Unix socket path." placeholder:"PATH"`
	Config  string     `short:"c" help:"Path to the configuration file." placeholder:"PATH"`
	LogFile string     `help:"Override the default log file path." placeholder:"PATH"`
	Start   StartCmd   `cmd:"" help:"Start the worker."`
	Build   BuildCmd   `cmd:"" help:"Run the image build pipeline once and exit."`
	Status  StatusCmd  `cmd:"" help:"Show the status of a running worker."`
	Stop    StopCmd    `cmd:"" help:"Stop a running worker."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// Parses arguments, loads configuration, configures logging, and runs the
// selected subcommand.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("The Lucius MCP worker.\n\nConsumes tasks from Redis queues and builds the worker container image."),
		kong.UsageOnError(),
		kong.Vars{
			"version": internal.VersionString(),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	configureLogger(cfg)

	kongCtx.Bind(cfg)

	return kongCtx.Run()
}

// Loads configuration from the file given on the command line, or defaults
// when no file is given.
func loadConfig() (*config.Config, error) {
	if RootCmd.Config != "" {
		return config.Load(RootCmd.Config)
	}
	return config.Default(), nil
}

// Configures the global logger based on CLI flags and configuration.
//
// Log lines go to stderr and to a rotating log file.
func configureLogger(cfg *config.Config) {
	logFile := RootCmd.LogFile
	if logFile == "" {
		logFile = cfg.Log.File
	}
	if logFile == "" {
		logFile = paths.LogFile()
	}

	os.MkdirAll(filepath.Dir(logFile), paths.DefaultDirMode)

	rotator := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	}

	handler := slog.NewTextHandler(io.MultiWriter(os.Stderr, rotator), &slog.HandlerOptions{
		Level: logLevel(),
	})

	slog.SetDefault(slog.New(handler).With("name", internal.Name))
}

// Returns the log level derived from CLI flags and build-time linker flags.
func logLevel() slog.Level {
	if RootCmd.Debug || internal.IsDebug() {
		return slog.LevelDebug
	}
	if RootCmd.Quiet || internal.IsQuiet() {
		return slog.LevelWarn
	}
	return slog.LevelInfo
}
