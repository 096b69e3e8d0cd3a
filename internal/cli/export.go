package cli

import (
	"fmt"

	"github.com/sadopc/timemanager/internal/export"
	"github.com/sadopc/timemanager/internal/store"
	"github.com/spf13/cobra"
)

type exportFlags struct {
	weeks []string
	out   string
}

func newExportCommand(opts *options) *cobra.Command {
	flags := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export planned weeks to CSV, JSON or SQLite",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}
	cmd.PersistentFlags().StringSliceVar(&flags.weeks, "week", nil, "Week key to export, e.g. 2026-W42 (repeatable; default: every stored week)")
	cmd.PersistentFlags().StringVarP(&flags.out, "out", "o", "", "Output file (default: timemanager-export.<ext> in the current directory)")

	summaryExport := func(use, short, ext string, write func([]store.WeekSummary, string) error) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				e, err := opts.open(cmd)
				if err != nil {
					return err
				}
				defer e.close()

				data, err := e.store.LoadAppData()
				if err != nil {
					return err
				}
				sums, err := export.Summaries(data, e.grid, flags.weeks...)
				if err != nil {
					return err
				}
				path := flags.outPath(ext)
				if err := write(sums, path); err != nil {
					return err
				}
				e.log.Infow("exported", "format", use, "weeks", len(sums), "path", path)
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			},
		}
	}

	sqlite := &cobra.Command{
		Use:   "sqlite",
		Short: "Write all projects, weeks and templates into an SQLite database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			data, err := e.store.LoadAppData()
			if err != nil {
				return err
			}
			path := flags.outPath("db")
			if err := export.ToSQLite(data, e.grid, path); err != nil {
				return err
			}
			e.log.Infow("exported", "format", "sqlite", "path", path)
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.AddCommand(
		summaryExport("csv", "Planned hours per project and week as CSV", "csv", export.ToCSV),
		summaryExport("charges", "Planned hours per charge code and week as CSV", "csv", export.ChargesToCSV),
		summaryExport("json", "Week summaries as JSON", "json", export.ToJSON),
		sqlite,
	)
	return cmd
}

func (f *exportFlags) outPath(ext string) string {
	if f.out != "" {
		return f.out
	}
	return "timemanager-export." + ext
}
