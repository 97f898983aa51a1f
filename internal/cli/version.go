package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/isoclient/version"
)

func newVersionCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("output") {
				info := version.GetVersionInfo()
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "isoclient %s (%s, %s)\n",
					version.GetShortVersion(), info.GoVersion, info.Platform)
				return err
			}
			f, err := NewFormatter(o.output)
			if err != nil {
				return err
			}
			return f.Format(cmd.OutOrStdout(), version.GetVersionInfo())
		},
	}
}
