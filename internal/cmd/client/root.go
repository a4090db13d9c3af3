package client

import (
	"github.com/spf13/cobra"
)

// NewRoot constructs a root Cobra command for the cmdring client.
// It registers the device commands and the archive command group.
func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:   "cmdring",
		Short: "cmdring client commands",
	}
	root.AddCommand(NewDeviceCommands()...)
	root.AddCommand(NewArchiveCommand())
	return root
}
