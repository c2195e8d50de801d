package login

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/foundriesio/impctl/client"
	"github.com/foundriesio/impctl/subcommands"
)

var skipVerify bool

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save the Build API key used to access the Electric Imp services",
		Long: `Save the Build API key to the impctl config file. The key is read from
--api-key or IMPCTL_API_KEY when set, and prompted for otherwise.`,
		Run: doLogin,
	}
	cmd.Flags().BoolVarP(&skipVerify, "skip-verify", "", false, "Save the key without checking it against the Build API")
	return cmd
}

func doLogin(cmd *cobra.Command, args []string) {
	logrus.Debug("Executing login command")

	cfg := subcommands.LoadConfigFile()
	key := subcommands.Config.ApiKey
	if len(key) == 0 || key == cfg.ApiKey {
		fmt.Print("Please visit:\n\n")
		fmt.Print("  https://impcentral.electricimp.com\n\n")
		fmt.Print("and create a new Build API key to provide below.\n\n")
		subcommands.DieNotNil(cfg.ReadApiKey(os.Stdin, os.Stdout))
	} else {
		cfg.ApiKey = key
	}

	if !skipVerify {
		apiConfig := subcommands.Config
		apiConfig.ApiKey = cfg.ApiKey
		_, err := client.NewApiClient(apiConfig).ModelList("")
		subcommands.DieNotNil(err, "Unable to verify Build API key:")
	}

	subcommands.SaveConfigFile(cfg)
	fmt.Println("Your Build API key has been saved to", subcommands.ConfigFile)
}
