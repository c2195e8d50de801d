package version

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Commit is set at build time with -ldflags "-X ...version.Commit=<sha>".
var Commit string

func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information of this tool.",
		Run:   doVersion,
	}
}

func doVersion(cmd *cobra.Command, args []string) {
	if len(Commit) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "unknown")
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), Commit)
}
