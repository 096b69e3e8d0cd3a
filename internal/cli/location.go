package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLocationCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "location",
		Short: "Show or change where the data file is kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printLocation(cmd, opts)
		},
	}

	get := &cobra.Command{
		Use:   "get",
		Short: "Print the active data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printLocation(cmd, opts)
		},
	}

	var copySet bool
	set := &cobra.Command{
		Use:   "set <dir>",
		Short: "Use an existing, writable directory for the data file",
		Long: `Switch the data file to <dir>. With --copy the current data file is copied
there first unless <dir> already holds one; an existing file is never
overwritten. The data in <dir> becomes the active data.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.store.SetDataLocation(args[0], copySet); err != nil {
				return err
			}
			dir, err := e.store.DataLocation()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
	set.Flags().BoolVar(&copySet, "copy", false, "Copy the current data file to the new directory")

	var copyReset bool
	reset := &cobra.Command{
		Use:   "reset",
		Short: "Go back to the default data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.store.ResetToDefaultLocation(copyReset); err != nil {
				return err
			}
			dir, err := e.store.DataLocation()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
	reset.Flags().BoolVar(&copyReset, "copy", false, "Copy the current data file to the default directory")

	cmd.AddCommand(get, set, reset)
	return cmd
}

func printLocation(cmd *cobra.Command, opts *options) error {
	e, err := opts.open(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	dir, err := e.store.DataLocation()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), dir)
	for _, d := range e.store.Diagnostics() {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", d.String())
	}
	return nil
}
