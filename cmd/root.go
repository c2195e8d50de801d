package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/foundriesio/impctl/client"
	"github.com/foundriesio/impctl/subcommands"
	"github.com/foundriesio/impctl/subcommands/bulk"
	"github.com/foundriesio/impctl/subcommands/http"
	"github.com/foundriesio/impctl/subcommands/login"
	"github.com/foundriesio/impctl/subcommands/logout"
	"github.com/foundriesio/impctl/subcommands/version"
)

var (
	cfgFile   string
	verbose   bool
	selection bulk.Selection
)

var rootCmd = &cobra.Command{
	Use:   "impctl",
	Short: "Bulk device and model operations for the Electric Imp Build API",
	Example: `
# List all the unassigned device ids:
impctl -L

# List all the device ids of a model:
impctl -l --model=<model-name>

# Push code to a model and restart it:
impctl -p --model=<model-name> --agent=<agent-file> --device=<device-file>

# Move the devices listed in a file to a model:
impctl -m --model=<model-name> --device_ids-file=<device-ids>

# Move all the unassigned devices to a model:
impctl -M --model=<model-name>

# Do an HTTP request to every agent of a model:
impctl -c --model=<model-name> --query=<query>
`,
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.NoArgs(cmd, args); err != nil {
			return &bulk.UsageError{Message: err.Error()}
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return bulk.Execute(selection, subcommands.Config, cmd.OutOrStdout())
	},
}

func Execute() {
	cmd, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}
	code := bulk.ExitCode(err)
	if code == bulk.ExitUsage || code == bulk.ExitMissingFile {
		fmt.Print(cmd.UsageString())
		fmt.Println(err)
	} else {
		color.Red(fmt.Sprintf("ERROR: %s", err))
	}
	os.Exit(code)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "", "", "config file (default is $HOME/.config/impctl.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print verbose logging")
	rootCmd.PersistentFlags().StringP("api-key", "k", "", "Build API key from https://impcentral.electricimp.com")
	if err := viper.BindPFlag("api_key", rootCmd.PersistentFlags().Lookup("api-key")); err != nil {
		panic(err)
	}

	flags := rootCmd.Flags()
	flags.BoolVarP(&selection.ListUnassigned, "list-unassigned", "L", false, "List all the unassigned device ids")
	flags.BoolVarP(&selection.ListModel, "list", "l", false, "List all the device ids for the model specified")
	flags.BoolVarP(&selection.PushCode, "push", "p", false, "Push the code to the model")
	flags.BoolVarP(&selection.MoveFromFile, "move", "m", false, "Move the specified devices to the model")
	flags.BoolVarP(&selection.MoveUnassigned, "move-unassigned", "M", false, "Move all the unassigned devices to the model")
	flags.BoolVarP(&selection.CallAgents, "call-agents", "c", false, "Do HTTP request to all the agents of the specified model with the query specified")
	flags.StringVar(&selection.Model, "model", "", "Name of the model to operate on")
	flags.StringVar(&selection.AgentFile, "agent", "", "Agent code file to push")
	flags.StringVar(&selection.DeviceFile, "device", "", "Device code file to push")
	flags.StringVar(&selection.DeviceIdsFile, "device_ids-file", "", "File with one device id per line")
	flags.StringVar(&selection.Query, "query", "", "Query string to send to every agent")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &bulk.UsageError{Message: err.Error()}
	})

	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(login.NewCommand())
	rootCmd.AddCommand(logout.NewCommand())
	rootCmd.AddCommand(version.NewCommand())
	rootCmd.AddCommand(http.NewCommand())
	rootCmd.AddCommand(docsMdCmd)
}

func getConfigDir() string {
	config, err := homedir.Expand("~/.config")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if _, err := os.Stat(config); os.IsNotExist(err) {
		if err := os.Mkdir(config, 0755); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	}
	return config
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
		subcommands.ConfigFile = cfgFile
	} else {
		// Search config in home directory with name "impctl" (without extension).
		dir := getConfigDir()
		viper.AddConfigPath(dir)
		viper.SetConfigName("impctl")
		viper.SetConfigType("yaml")
		subcommands.ConfigFile = dir + string(os.PathSeparator) + "impctl.yaml"
	}

	viper.SetDefault("api_url", client.DefaultApiUrl)
	viper.SetDefault("agent_url", client.DefaultAgentUrl)
	viper.SetEnvPrefix("IMPCTL")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logrus.Debug("Config file not found")
		} else if os.IsNotExist(err) {
			logrus.Debugf("Config file %s does not exist", cfgFile)
		} else {
			// Config file was found but another error was produced
			fmt.Println("ERROR: ", err)
			os.Exit(1)
		}
	}
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if err := viper.Unmarshal(&subcommands.Config); err != nil {
		panic(fmt.Sprintf("Unexpected failure parsing configuration: %s", err))
	}
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate completion script",
	Example: `
# Bash:
$ source <(impctl completion bash)

# Zsh:
$ impctl completion zsh > "${fpath[1]}/_impctl"

# Fish:
$ impctl completion fish > ~/.config/fish/completions/impctl.fish
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		var err error
		switch args[0] {
		case "bash":
			err = cmd.Root().GenBashCompletion(os.Stdout)
		case "zsh":
			err = cmd.Root().GenZshCompletion(os.Stdout)
		case "fish":
			err = cmd.Root().GenFishCompletion(os.Stdout, true)
		case "powershell":
			err = cmd.Root().GenPowerShellCompletion(os.Stdout)
		}
		if err != nil {
			logrus.Fatal(err)
		}
	},
}
