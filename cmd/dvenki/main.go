package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/dvenki/dvenki/internal/config"
	"github.com/dvenki/dvenki/internal/locale"
	"github.com/dvenki/dvenki/internal/storage"
	"github.com/spf13/cobra"
)

// annotationDaemon marks long-running commands, which log at info level.
const annotationDaemon = "daemon"

var (
	debugMode bool
	dbPath    string
	langFlag  string

	settings  *config.Settings
	logCloser io.Closer
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "dvenki",
	Short: "Dvenki - journal calendar and feed server",
	Long: `Dvenki keeps a dated journal in a local SQLite database and presents it
as a month calendar.

It can print month grids and statistics, import entries from the hosted data
API, export them as an iCalendar feed, or serve the feed and JSON calendar
views over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_, daemon := cmd.Annotations[annotationDaemon]
		logCloser = setupLogging(debugMode, daemon)

		s, err := config.LoadSettings(config.EnvFileName)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed(config.FlagDB) {
			s.DBPath = dbPath
		}
		if cmd.Flags().Changed(config.FlagLang) {
			s.Language = langFlag
		}
		if err := s.Validate(); err != nil {
			return err
		}
		settings = s

		logStartupInfo()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	// Skips settings and log file setup.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {},
	Run: func(cmd *cobra.Command, args []string) {
		printVersion(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, config.FlagDebug, false, config.FlagDescDebug)
	rootCmd.PersistentFlags().StringVar(&dbPath, config.FlagDB, "", config.FlagDescDB)
	rootCmd.PersistentFlags().StringVar(&langFlag, config.FlagLang, config.DefaultLanguage, config.FlagDescLang)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(monthCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(dayCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
}

// main delegates to runMain so deferred calls run before os.Exit.
func main() {
	os.Exit(runMain(os.Args[1:]))
}

// runMain executes the command line and maps the outcome to an exit code.
func runMain(args []string) int {
	// Root context cancels on SIGINT (Ctrl+C) or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}
	return config.ExitCodeSuccess
}

// openStore opens the configured database. Callers close it.
func openStore() (*storage.SQLiteStore, error) {
	return storage.OpenSQLite(settings.DBPath)
}

// translator returns the configured language.
func translator() (*locale.Translator, error) {
	cat, err := locale.Load()
	if err != nil {
		return nil, err
	}
	return cat.Translator(settings.Language), nil
}

func printVersion(w io.Writer) {
	_, _ = fmt.Fprintf(w, config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Debug(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyCommit, config.Commit),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger. Logs go to stderr, so
// command output on stdout stays clean, and to a file in the cache dir.
// One-shot commands only report warnings unless debugging.
func setupLogging(debugMode, daemon bool) io.Closer {
	writers := []io.Writer{os.Stderr}
	var logFile *os.File

	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart to prevent indefinite growth.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelWarn
	switch {
	case debugMode:
		level = slog.LevelDebug
	case daemon:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts)))

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
