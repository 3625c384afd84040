package main

import (
	"errors"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Image   string
	Verbose bool
}

var errNoImage = errors.New("--image is required")

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "paramtool",
		Short: "Inspect and edit parameter snapshot images",
		Long: `paramtool works on an image file holding the primary parameter snapshot
followed by its backup, as stored in the device EEPROM.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Image == "" {
				return errNoImage
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.Image, "image", "i", "", "snapshot image file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "report every changed parameter")

	cmd.AddCommand(newShowCommand(opts))
	cmd.AddCommand(newCheckCommand(opts))
	cmd.AddCommand(newInitCommand(opts))
	cmd.AddCommand(newFormatCommand(opts))
	cmd.AddCommand(newBackupCommand(opts))
	cmd.AddCommand(newSetCommand(opts))
	cmd.AddCommand(newExportCommand(opts))
	cmd.AddCommand(newImportCommand(opts))
	cmd.AddCommand(newProvisionCommand(opts))

	return cmd
}
