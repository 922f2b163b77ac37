package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/fang"
	charmLog "github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/phaseeng/taskdesk/internal/adapters/storage/sqlite"
	"github.com/phaseeng/taskdesk/internal/app"
	"github.com/phaseeng/taskdesk/internal/config"
	"github.com/phaseeng/taskdesk/internal/domain"
	"github.com/phaseeng/taskdesk/internal/platform"
)

// version is stamped by the release build.
var version = "dev"

// nowFunc resolves the wall clock for date-sensitive rendering and
// quick ranges. Tests override it.
var nowFunc = time.Now

func main() {
	if err := fang.Execute(context.Background(), newRootCmd()); err != nil {
		os.Exit(1)
	}
}

// rootFlags carries the persistent flags shared by every subcommand.
type rootFlags struct {
	configPath string
	dbPath     string
	appName    string
	devMode    bool
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	defaultDevMode := version == "dev"
	if envDev, ok := parseBoolEnv("TASKDESK_DEV_MODE"); ok {
		defaultDevMode = envDev
	}
	defaultApp := "taskdesk"
	if envApp := strings.TrimSpace(os.Getenv("TASKDESK_APP_NAME")); envApp != "" {
		defaultApp = envApp
	}

	root := &cobra.Command{
		Use:           "taskdesk",
		Short:         "Local task assignment and tracking for a small organization",
		Long:          "taskdesk keeps a CEO's task assignments and employee progress updates in a local store, with filtered reports and JSON/CSV export.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to config TOML")
	root.PersistentFlags().StringVar(&flags.dbPath, "db", "", "path to the local database")
	root.PersistentFlags().StringVar(&flags.appName, "app", defaultApp, "application name for config/data path resolution")
	root.PersistentFlags().BoolVar(&flags.devMode, "dev", defaultDevMode, "use dev mode paths (<app>-dev)")

	root.AddCommand(
		newLoginCmd(flags),
		newLogoutCmd(flags),
		newWhoamiCmd(flags),
		newAssignCmd(flags),
		newEditCmd(flags),
		newUpdateCmd(flags),
		newTasksCmd(flags),
		newEmployeeCmd(flags),
		newReportCmd(flags),
		newExportCmd(flags),
		newImportCmd(flags),
		newExportCSVCmd(flags),
		newExportFilteredCmd(flags),
		newResetCmd(flags),
		newPathsCmd(flags),
	)
	return root
}

// runtime bundles the resolved config, logger, open store, and initialized
// service for one command invocation.
type runtime struct {
	cfg    config.Config
	logger *charmLog.Logger
	store  *sqlite.Store
	svc    *app.Service
}

// resolvePaths applies flag and environment overrides on top of the platform
// defaults.
func resolvePaths(flags *rootFlags) (platform.Paths, string, string, error) {
	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: flags.appName,
		DevMode: flags.devMode,
	})
	if err != nil {
		return platform.Paths{}, "", "", err
	}

	configPath := flags.configPath
	if configPath == "" {
		if envPath := strings.TrimSpace(os.Getenv("TASKDESK_CONFIG")); envPath != "" {
			configPath = envPath
		} else {
			configPath = paths.ConfigPath
		}
	}
	dbPath := flags.dbPath
	if dbPath == "" {
		if envPath := strings.TrimSpace(os.Getenv("TASKDESK_DB_PATH")); envPath != "" {
			dbPath = envPath
		} else {
			dbPath = paths.DBPath
		}
	}
	return paths, configPath, dbPath, nil
}

// openRuntime loads config, builds the logger, opens the store, and
// initializes the service (load-or-seed plus snapshot re-sync).
func openRuntime(ctx context.Context, flags *rootFlags) (*runtime, error) {
	_, configPath, dbPath, err := resolvePaths(flags)
	if err != nil {
		return nil, err
	}

	defaults := config.Default(dbPath)
	cfg, err := config.Load(configPath, defaults)
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", configPath, err)
	}
	if strings.TrimSpace(flags.dbPath) != "" {
		cfg.Database.Path = flags.dbPath
	}

	logger, err := newLogger(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	logger.Debug("configuration loaded", "config_path", configPath, "db_path", cfg.Database.Path)

	store, err := sqlite.Open(cfg.Database.Path, sqlite.Options{
		LegacyEmployees: cfg.LegacyRoster(),
		LegacyTaskTypes: cfg.Legacy.TaskTypes,
		LegacyProjects:  cfg.Legacy.Projects,
		Logger:          logger,
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	svc := app.NewService(store, uuid.NewString, nil, app.ServiceConfig{
		CEOAccessCode: cfg.Access.CEOCode,
	})
	if err := svc.Init(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("initialize store: %w", err)
	}
	logger.Debug("service initialized")

	return &runtime{cfg: cfg, logger: logger, store: store, svc: svc}, nil
}

// Close releases the runtime's store.
func (rt *runtime) Close() {
	if err := rt.store.Close(); err != nil {
		rt.logger.Warn("store close failed", "err", err)
	}
}

// requireSession returns the current actor or an error for logged-out use.
func (rt *runtime) requireSession() (domain.Session, error) {
	sess := rt.svc.Session()
	if sess == nil {
		return domain.Session{}, fmt.Errorf("not logged in; run: taskdesk login --code <code>")
	}
	return *sess, nil
}

// requireCEO returns the current session only when it carries CEO rights.
func (rt *runtime) requireCEO() (domain.Session, error) {
	sess, err := rt.requireSession()
	if err != nil {
		return domain.Session{}, err
	}
	if !sess.IsCEO() {
		return domain.Session{}, fmt.Errorf("this command requires the CEO role")
	}
	return sess, nil
}

// withRuntime wraps a command body with runtime setup and teardown.
func withRuntime(flags *rootFlags, body func(ctx context.Context, rt *runtime, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd.Context(), flags)
		if err != nil {
			return err
		}
		defer rt.Close()
		return body(cmd.Context(), rt, cmd, args)
	}
}

// newLogger builds the runtime logger on stderr.
func newLogger(level string) (*charmLog.Logger, error) {
	parsed, err := charmLog.ParseLevel(levelOrDefault(level))
	if err != nil {
		return nil, fmt.Errorf("parse logging level %q: %w", level, err)
	}
	return charmLog.NewWithOptions(os.Stderr, charmLog.Options{
		Level:           parsed,
		Prefix:          "taskdesk",
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.TextFormatter,
	}), nil
}

// levelOrDefault backfills an empty configured level.
func levelOrDefault(level string) string {
	level = strings.TrimSpace(strings.ToLower(level))
	if level == "" {
		return "info"
	}
	return level
}

// parseBoolEnv reads a boolean environment variable, reporting whether it
// was set to a parseable value.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

// newPathsCmd prints the resolved config and data locations.
func newPathsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config and data paths",
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, configPath, dbPath, err := resolvePaths(flags)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "app: %s\n", flags.appName)
			fmt.Fprintf(out, "dev_mode: %t\n", flags.devMode)
			fmt.Fprintf(out, "config: %s\n", configPath)
			fmt.Fprintf(out, "data_dir: %s\n", paths.DataDir)
			fmt.Fprintf(out, "db: %s\n", dbPath)
			return nil
		},
	}
}
