package subcommands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/foundriesio/impctl/client"
	"github.com/foundriesio/impctl/internal/config"
)

var (
	Config     client.Config
	ConfigFile string
)

// Login builds an API client for commands that need the Build API key.
func Login(cmd *cobra.Command) *client.Api {
	if len(Config.ApiKey) == 0 {
		fmt.Println("ERROR: Please run: \"impctl login\" first or provide --api-key")
		os.Exit(2)
	}
	return client.NewApiClient(Config)
}

// LoadConfigFile returns the persisted config, or an empty one if there is
// no file yet.
func LoadConfigFile() *config.Config {
	return config.Load(ConfigFile)
}

func SaveConfigFile(c *config.Config) {
	dir := filepath.Dir(ConfigFile)
	if !IsWritable(dir) {
		DieNotNil(fmt.Errorf("config directory %s is not writable", dir))
	}
	DieNotNil(c.Save(ConfigFile))
}

func DieNotNil(err error, message ...string) {
	if err != nil {
		parts := []interface{}{"ERROR:"}
		for _, p := range message {
			parts = append(parts, p)
		}
		parts = append(parts, err)
		fmt.Println(parts...)
		os.Exit(1)
	}
}
