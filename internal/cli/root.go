// Package cli wires configuration, logging and the store into the
// timemanager commands.
package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/timemanager/internal/config"
	"github.com/sadopc/timemanager/internal/logging"
	"github.com/sadopc/timemanager/internal/store"
	"github.com/sadopc/timemanager/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type options struct {
	configDir string
	dataDir   string
	logLevel  string
}

// env is what every command runs against once flags are parsed.
type env struct {
	cfg   *config.Config
	log   *logging.Logger
	store *store.Store
	grid  store.Grid
}

func (e *env) close() {
	_ = e.log.Close()
}

// NewRootCommand builds the command tree. Running it without a subcommand
// starts the terminal UI.
func NewRootCommand(version string) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "timemanager",
		Short: "Plan your week in time slots per project",
		Long: `timemanager plans a working week as a grid of time slots, assigns
projects to slots and totals the planned hours per project and charge code.
Data is kept in a single JSON file whose directory can be moved.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			p := tea.NewProgram(tui.NewApp(e.store, e.grid), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	root.PersistentFlags().StringVar(&opts.configDir, "config-dir", "", "Directory holding settings.json and config.yaml (default: platform config dir)")
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "Default data directory (default: platform data dir)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(
		newLocationCommand(opts),
		newExportCommand(opts),
		newMCPCommand(opts, version),
		newVersionCommand(version),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute(version string) {
	if err := NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// open loads configuration with the command's flags bound on top, then opens
// the logger and the store.
func (o *options) open(cmd *cobra.Command) (*env, error) {
	paths, err := store.DefaultPaths()
	if err != nil {
		return nil, fmt.Errorf("resolve platform directories: %w", err)
	}

	v := viper.New()
	flags := cmd.Flags()
	for key, name := range map[string]string{
		"paths.config_dir": "config-dir",
		"paths.data_dir":   "data-dir",
		"log.level":        "log-level",
	} {
		if f := flags.Lookup(name); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}

	cfg, err := config.Load(v, paths.ConfigDir)
	if err != nil {
		return nil, err
	}
	paths.ConfigDir = cfg.Paths.ConfigDir
	if cfg.Paths.DataDir != "" {
		paths.DefaultDataDir = cfg.Paths.DataDir
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	s, err := store.Open(store.Options{Paths: paths, Logger: log})
	if err != nil {
		_ = log.Close()
		return nil, err
	}

	return &env{
		cfg:   cfg,
		log:   log,
		store: s,
		grid:  gridFromConfig(cfg.Schedule),
	}, nil
}

func gridFromConfig(c config.ScheduleConfig) store.Grid {
	return store.Grid{SlotMinutes: c.SlotMinutes, DayStartHour: c.DayStartHour, SlotsPerDay: c.SlotsPerDay}
}

func newVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "timemanager", version)
		},
	}
}
