package logout

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/foundriesio/impctl/subcommands"
)

func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the Build API key from the impctl config file",
		Run:   doLogout,
	}
}

func doLogout(cmd *cobra.Command, args []string) {
	logrus.Debug("Executing logout command")

	cfg := subcommands.LoadConfigFile()
	if len(cfg.ApiKey) == 0 {
		logrus.Debug("No API key saved, nothing to do")
		return
	}
	cfg.ApiKey = ""
	subcommands.SaveConfigFile(cfg)
}
