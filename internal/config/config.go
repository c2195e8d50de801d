package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// Config is the persisted form of the impctl configuration file.
type Config struct {
	ApiKey   string `yaml:"api_key,omitempty"`
	ApiUrl   string `yaml:"api_url,omitempty"`
	AgentUrl string `yaml:"agent_url,omitempty"`
}

// Save the config data to file.
func (c *Config) Save(f string) error {
	logrus.Debugf("Saving config file %s", f)

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(f, data, 0600)
}

// ReadApiKey prompts on out and reads the Build API key from in.
func (c *Config) ReadApiKey(in io.Reader, out io.Writer) error {
	logrus.Debug("Reading Build API key from stdin")

	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, "Build API key: ")
	scanner.Scan()
	if err := scanner.Err(); err != nil {
		return err
	}
	key := strings.TrimSpace(scanner.Text())
	if key == "" {
		return errors.New("A Build API key is required.")
	}
	c.ApiKey = key
	return nil
}

// Load the provided YAML config file.
func Load(f string) *Config {
	logrus.Debugf("Loading yaml config file %s", f)
	var c Config

	// Suppress the error: in case it doesn't exist we return an empty struct.
	source, _ := os.ReadFile(f)

	if err := yaml.Unmarshal(source, &c); err != nil {
		fmt.Println(err)
	}

	return &c
}
