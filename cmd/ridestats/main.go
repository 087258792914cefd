// Package main provides the CLI entrypoint for ridestats.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/ridestats/internal/config"
	"github.com/verte-zerg/ridestats/internal/logging"
	"github.com/verte-zerg/ridestats/internal/model"
	"github.com/verte-zerg/ridestats/internal/server"
	"github.com/verte-zerg/ridestats/internal/stats"
	"github.com/verte-zerg/ridestats/internal/statsui"
	"github.com/verte-zerg/ridestats/internal/store"
	"github.com/verte-zerg/ridestats/internal/strava"
	"github.com/verte-zerg/ridestats/internal/syncer"
)

const (
	defaultBackend  = store.BackendJSON
	defaultAddr     = ":8080"
	defaultCacheTTL = time.Minute
	defaultPerPage  = 100
	defaultLogLevel = "info"
)

var (
	globalYear    int
	globalType    string
	globalCache   string
	globalBackend string
	logLevel      string
	logFile       string
	logJSON       bool

	reportWidth int
	reportColor bool

	syncEvery   time.Duration
	syncPerPage int

	serveAddr     string
	serveCacheTTL time.Duration

	fileCfg config.FileConfig
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "ridestats",
		Short:             "Cycling activity stats from Strava",
		SilenceUsage:      true,
		SilenceErrors:     false,
		PersistentPreRunE: prepareGlobals,
		RunE:              runDashboardCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.IntVar(&globalYear, "year", 0, "calendar year to report (default: current year)")
	flags.StringVar(&globalType, "type", "", "activity type filter, case-insensitive (default: all)")
	flags.StringVar(&globalCache, "cache", "", "activity cache path (default: XDG data dir)")
	flags.StringVar(&globalBackend, "backend", defaultBackend, "cache backend: json or sqlite")
	flags.StringVar(&logLevel, "log-level", defaultLogLevel, "log level")
	flags.StringVar(&logFile, "log-file", "", "rotating log file (default: stderr)")
	flags.BoolVar(&logJSON, "log-json", false, "log in JSON format")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newYearsCmd())
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

func prepareGlobals(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	fileCfg = cfg
	applyIntConfig(cmd, "year", &globalYear, fileCfg.Dashboard.Year)
	applyStringConfig(cmd, "type", &globalType, fileCfg.Dashboard.Type)
	applyStringConfig(cmd, "backend", &globalBackend, fileCfg.Cache.Backend)
	applyStringConfig(cmd, "cache", &globalCache, fileCfg.Cache.Path)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-file", &logFile, fileCfg.Log.File)
	applyBoolConfig(cmd, "log-json", &logJSON, fileCfg.Log.JSON)

	logging.Setup(logging.SetupParams{
		LogFileName:   logFile,
		LogLevel:      logLevel,
		LogFormatJSON: logJSON,
		Quiet:         cmd == cmd.Root(),
	})
	return nil
}

func runDashboardCmd(_ *cobra.Command, _ []string) error {
	opts, err := reportOptions()
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ui := statsui.NewModel(st, opts)
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the stats report as plain text",
		Args:  cobra.NoArgs,
		RunE:  runReportCmd,
	}
	cmd.Flags().IntVar(&reportWidth, "width", 0, "output width (default: terminal width)")
	cmd.Flags().BoolVar(&reportColor, "color", false, "force ANSI color")
	return cmd
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	opts, err := reportOptions()
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	report, err := stats.BuildReport(cmd.Context(), st, opts)
	if err != nil {
		return dataError(err)
	}
	return stats.RenderReport(cmd.OutOrStdout(), report, reportWidth, reportColor)
}

func newYearsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "years",
		Short: "List years that have activities",
		Args:  cobra.NoArgs,
		RunE:  runYearsCmd,
	}
}

func runYearsCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	activities, err := st.Load(cmd.Context())
	if err != nil {
		return dataError(err)
	}
	for _, year := range stats.Years(activities) {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), year); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch activities from Strava into the local cache",
		Long: "Fetch every activity from Strava and replace the local cache.\n" +
			"Credentials are read from STRAVA_CLIENT_ID, STRAVA_CLIENT_SECRET and STRAVA_REFRESH_TOKEN.",
		Args: cobra.NoArgs,
		RunE: runSyncCmd,
	}
	cmd.Flags().DurationVar(&syncEvery, "every", 0, "keep running and sync on this interval")
	cmd.Flags().IntVar(&syncPerPage, "per-page", defaultPerPage, "activities requested per page")
	return cmd
}

func runSyncCmd(cmd *cobra.Command, _ []string) error {
	applyDurationConfig(cmd, "every", &syncEvery, fileCfg.Sync.Every)
	applyIntConfig(cmd, "per-page", &syncPerPage, fileCfg.Sync.PerPage)
	if syncEvery < 0 {
		return fmt.Errorf("--every must be >= 0")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	creds, err := strava.LoadCredentials(ctx)
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	client := strava.NewClient(ctx, creds, strava.WithPerPage(syncPerPage))
	s := syncer.New(client, st)
	if syncEvery > 0 {
		log.Infof("syncing every %s", syncEvery)
		return s.RunEvery(ctx, syncEvery)
	}
	if err := s.Run(ctx); err != nil {
		return err
	}
	logErrf("Synced activities into %s\n", cachePath())
	return nil
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve reports over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", defaultAddr, "listen address")
	cmd.Flags().DurationVar(&serveCacheTTL, "cache-ttl", defaultCacheTTL, "how long loaded activities are cached")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	applyStringConfig(cmd, "addr", &serveAddr, fileCfg.Server.Addr)
	applyDurationConfig(cmd, "cache-ttl", &serveCacheTTL, fileCfg.Server.CacheTTL)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	srv := server.New(st, server.Options{CacheTTL: serveCacheTTL})
	return srv.ListenAndServe(ctx, serveAddr)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func reportOptions() (model.Options, error) {
	if globalYear < 0 || globalYear > 9999 {
		return model.Options{}, fmt.Errorf("--year must be between 1 and 9999")
	}
	return model.Options{
		Year: globalYear,
		Type: strings.TrimSpace(globalType),
	}, nil
}

func cachePath() string {
	if globalCache != "" {
		return globalCache
	}
	return config.DefaultCachePath(globalBackend)
}

func openStore() (store.Store, error) {
	st, err := store.Open(globalBackend, cachePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	return st, nil
}

func closeStore(st store.Store) {
	if err := st.Close(); err != nil {
		logErrf("failed to close cache: %v\n", err)
	}
}

func dataError(err error) error {
	if !errors.Is(err, store.ErrDataUnavailable) {
		return err
	}
	lines := []string{
		err.Error(),
		fmt.Sprintf("expected activities at: %s", cachePath()),
		"Fetch them with: ridestats sync",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *config.Duration) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = value.Duration
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# ridestats configuration
# Uncomment a value to enable it. CLI flags override config values.

[dashboard]
# year = 2024             # Calendar year (default: current year)
# type = "Ride"           # Activity type filter (default: all types)

[cache]
# backend = %q        # json or sqlite
# path = ""               # Cache location (default: XDG data dir)

[sync]
# every = "3m"            # Interval for 'ridestats sync' to keep running
# per-page = %d          # Activities requested per page

[server]
# addr = %q          # Listen address for 'ridestats serve'
# cache-ttl = %q        # How long loaded activities are cached

[log]
# level = %q          # trace, debug, info, warn, error
# file = ""               # Rotating log file (default: stderr)
# json = false            # JSON log format
`,
		defaultBackend,
		defaultPerPage,
		defaultAddr,
		defaultCacheTTL.String(),
		defaultLogLevel,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
