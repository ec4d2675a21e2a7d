package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/sadopc/focusboard/internal/clock"
	"github.com/sadopc/focusboard/internal/config"
	"github.com/sadopc/focusboard/internal/countdown"
	"github.com/sadopc/focusboard/internal/export"
	"github.com/sadopc/focusboard/internal/logger"
	"github.com/sadopc/focusboard/internal/report"
	"github.com/sadopc/focusboard/internal/store"
	"github.com/sadopc/focusboard/internal/task"
	"github.com/sadopc/focusboard/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	root := newRootCmd(isInteractive)
	root.SetArgs(args)
	return root.Execute()
}

func isInteractive() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// options are the flags shared by every command.
type options struct {
	configPath string
	dbPath     string
	logLevel   string
}

func addGlobalFlags(fs *pflag.FlagSet, o *options) {
	fs.StringVar(&o.configPath, "config", "", "config file (default <config dir>/focusboard/config.yaml)")
	fs.StringVar(&o.dbPath, "db", "", "database file, overrides the config file and FOCUSBOARD_DB")
	fs.StringVar(&o.logLevel, "log-level", "", "log level: debug, info, warn or error")
}

// env is everything a command needs once flags and config are resolved.
type env struct {
	cfg   *config.Config
	log   *logger.Logger
	store *store.Store
}

func (o *options) resolveConfigPath() (string, error) {
	if o.configPath != "" {
		return o.configPath, nil
	}
	p, err := config.DefaultPath()
	if err != nil {
		return "", fmt.Errorf("locate config: %w", err)
	}
	return p, nil
}

func (o *options) open() (*env, error) {
	path, err := o.resolveConfigPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if o.dbPath != "" {
		cfg.DBPath = o.dbPath
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if cfg.DBPath == "" {
		if cfg.DBPath, err = store.DefaultDBPath(); err != nil {
			return nil, fmt.Errorf("locate database: %w", err)
		}
	}

	log, err := logger.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	logger.SetDefault(log)

	s, err := store.New(cfg.DBPath)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	log.Debug("opened database", zap.String("path", cfg.DBPath))
	return &env{cfg: cfg, log: log, store: s}, nil
}

func (e *env) close() {
	e.store.Close()
	e.log.Close()
}

func newRootCmd(interactive func() bool) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "focusboard",
		Short:         "Task list, countdown timer and live report in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.open()
			if err != nil {
				return err
			}
			defer e.close()

			if !interactive() {
				snap, err := snapshotFor(e.store, clock.Today(clock.Real{}))
				if err != nil {
					return err
				}
				return export.WriteReportText(cmd.OutOrStdout(), snap)
			}
			return runTUI(e)
		},
	}
	addGlobalFlags(root.PersistentFlags(), opts)
	root.AddCommand(newReportCmd(opts), newExportCmd(opts), newConfigCmd(opts))
	return root
}

func runTUI(e *env) error {
	e.log.Info("starting", zap.String("db", e.cfg.DBPath))
	app := tui.NewApp(tui.Deps{
		Store:   e.store,
		Clock:   clock.Real{},
		Config:  e.cfg,
		Logger:  e.log,
		Alerter: countdown.BellAlerter{W: os.Stdout},
	})
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func snapshotFor(s *store.Store, today time.Time) (report.Snapshot, error) {
	tasks, err := s.Snapshot()
	if err != nil {
		return report.Snapshot{}, fmt.Errorf("read tasks: %w", err)
	}
	return report.Aggregate(task.Clone(tasks), today), nil
}

// parseToday reads --today, defaulting to the current local date.
func parseToday(s string) (time.Time, error) {
	if s == "" {
		return clock.Today(clock.Real{}), nil
	}
	d, err := task.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("--today: %w", err)
	}
	return d, nil
}

func newReportCmd(opts *options) *cobra.Command {
	var asJSON bool
	var today string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the current report and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := parseToday(today)
			if err != nil {
				return err
			}
			e, err := opts.open()
			if err != nil {
				return err
			}
			defer e.close()

			snap, err := snapshotFor(e.store, day)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), snap, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of tables")
	cmd.Flags().StringVar(&today, "today", "", "report as of this date ("+task.DateLayout+")")
	return cmd
}

func writeReport(w io.Writer, snap report.Snapshot, asJSON bool) error {
	if asJSON {
		return export.WriteReportJSON(w, snap)
	}
	return export.WriteReportText(w, snap)
}

func newExportCmd(opts *options) *cobra.Command {
	var format, out, today string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the task list as CSV or the report as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "csv" && format != "json" {
				return fmt.Errorf("--format must be csv or json, got %q", format)
			}
			day, err := parseToday(today)
			if err != nil {
				return err
			}
			e, err := opts.open()
			if err != nil {
				return err
			}
			defer e.close()

			if out == "" {
				kind := "tasks"
				if format == "json" {
					kind = "report"
				}
				out = fmt.Sprintf("focusboard-%s-%s.%s", kind, task.FormatDate(day), format)
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}

			if format == "csv" {
				tasks, err := e.store.ListTasks()
				if err != nil {
					return err
				}
				if err := export.TasksToCSV(tasks, day, out); err != nil {
					return err
				}
			} else {
				snap, err := snapshotFor(e.store, day)
				if err != nil {
					return err
				}
				if err := export.ReportToJSON(snap, out); err != nil {
					return err
				}
			}
			e.log.Info("exported", zap.String("format", format), zap.String("path", out))
			fmt.Fprintln(cmd.OutOrStdout(), "Exported to", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv (tasks) or json (report)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default focusboard-<kind>-<date>.<format>)")
	cmd.Flags().StringVar(&today, "today", "", "compute due labels as of this date ("+task.DateLayout+")")
	return cmd
}

func newConfigCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := opts.resolveConfigPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}

			cfg := config.Default()
			if opts.dbPath != "" {
				cfg.DBPath = opts.dbPath
			}
			if opts.logLevel != "" {
				cfg.Logging.Level = opts.logLevel
			}
			if err := cfg.Save(path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Wrote", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}
