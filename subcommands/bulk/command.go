// Package bulk implements the bulk device and model operations selected by
// the impctl command line flags.
package bulk

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/foundriesio/impctl/client"
)

// Selection is the raw command line: which command flags were set and the
// parameters that came with them.
type Selection struct {
	ListUnassigned bool
	ListModel      bool
	PushCode       bool
	MoveFromFile   bool
	MoveUnassigned bool
	CallAgents     bool

	Model         string
	AgentFile     string
	DeviceFile    string
	DeviceIdsFile string
	Query         string
}

// Command is one of ListUnassigned, ListModel, PushCode, MoveFromFile,
// MoveUnassigned or CallAgents.
type Command interface {
	Name() string
	// Validate checks local inputs. It never talks to the service.
	Validate() error
	Run(api *client.Api, out io.Writer) error
}

type ListUnassigned struct{}

type ListModel struct {
	Model string
}

type PushCode struct {
	Model      string
	AgentFile  string
	DeviceFile string
}

type MoveFromFile struct {
	Model         string
	DeviceIdsFile string
}

type MoveUnassigned struct {
	Model string
}

type CallAgents struct {
	Model string
	Query string
}

func (ListUnassigned) Name() string { return "list-unassigned" }
func (ListModel) Name() string      { return "list-by-model" }
func (PushCode) Name() string       { return "push-code" }
func (MoveFromFile) Name() string   { return "move-by-file" }
func (MoveUnassigned) Name() string { return "move-all-unassigned" }
func (CallAgents) Name() string     { return "call-agents" }

// Parse turns the selection into exactly one command.
func Parse(s Selection) (Command, error) {
	var cmds []Command
	if s.ListUnassigned {
		cmds = append(cmds, ListUnassigned{})
	}
	if s.ListModel {
		cmds = append(cmds, ListModel{Model: s.Model})
	}
	if s.PushCode {
		cmds = append(cmds, PushCode{Model: s.Model, AgentFile: s.AgentFile, DeviceFile: s.DeviceFile})
	}
	if s.MoveFromFile {
		cmds = append(cmds, MoveFromFile{Model: s.Model, DeviceIdsFile: s.DeviceIdsFile})
	}
	if s.MoveUnassigned {
		cmds = append(cmds, MoveUnassigned{Model: s.Model})
	}
	if s.CallAgents {
		cmds = append(cmds, CallAgents{Model: s.Model, Query: s.Query})
	}

	switch len(cmds) {
	case 0:
		return nil, usageErrorf("No command options specified")
	case 1:
		return cmds[0], nil
	default:
		names := cmds[0].Name()
		for _, c := range cmds[1:] {
			names += ", " + c.Name()
		}
		return nil, usageErrorf("Only one command option may be specified, got: %s", names)
	}
}

func (ListUnassigned) Validate() error { return nil }

func (c ListModel) Validate() error { return checkModelName(c.Model) }

func (c PushCode) Validate() error {
	if err := checkModelName(c.Model); err != nil {
		return err
	}
	if err := checkFileExists(c.AgentFile, "Please specify a valid agent code file"); err != nil {
		return err
	}
	return checkFileExists(c.DeviceFile, "Please specify a valid device code file")
}

func (c MoveFromFile) Validate() error {
	if err := checkModelName(c.Model); err != nil {
		return err
	}
	return checkFileExists(c.DeviceIdsFile, "Please specify file with device ids")
}

func (c MoveUnassigned) Validate() error { return checkModelName(c.Model) }

func (c CallAgents) Validate() error { return checkModelName(c.Model) }

func checkModelName(model string) error {
	if len(model) == 0 {
		return usageErrorf("Model name is not specified")
	}
	return nil
}

func checkFileExists(path, message string) error {
	if len(path) == 0 {
		return &MissingFileError{Message: message}
	}
	if _, err := os.Stat(path); err != nil {
		return &MissingFileError{Path: path, Message: message}
	}
	return nil
}

// Execute parses, validates and runs the selected command. Nothing is sent to
// the service unless every local check passes.
func Execute(s Selection, config client.Config, out io.Writer) error {
	cmd, err := Parse(s)
	if err != nil {
		return err
	}
	if len(config.ApiKey) == 0 {
		return usageErrorf("Please provide the Build API key (--api-key, IMPCTL_API_KEY or \"impctl login\")")
	}
	if err := cmd.Validate(); err != nil {
		return err
	}
	logrus.Debugf("Running %s", cmd.Name())
	return cmd.Run(client.NewApiClient(config), out)
}
