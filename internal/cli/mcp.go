package cli

import (
	"errors"

	"github.com/sadopc/timemanager/internal/mcpserver"
	"github.com/spf13/cobra"
)

func newMCPCommand(opts *options, version string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start an MCP server exposing the data store",
		Long: `Start a Model Context Protocol (MCP) server on standard input/output.
Clients can load and save projects, weeks and templates, summarize a week
and move the data directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			if e.cfg.Log.Output == "stdout" {
				return errors.New("log output stdout would corrupt the MCP stream; use file or stderr")
			}
			dir, _ := e.store.DataLocation()
			e.log.Infow("starting MCP server", "data_dir", dir)
			return mcpserver.ServeStdio(mcpserver.New(e.store, e.grid, version, e.log))
		},
	}
}
