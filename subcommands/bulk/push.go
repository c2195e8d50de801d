package bulk

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/foundriesio/impctl/client"
	"github.com/foundriesio/impctl/internal/progress"
)

func (c PushCode) Run(api *client.Api, out io.Writer) error {
	agentCode, err := os.ReadFile(c.AgentFile)
	if err != nil {
		return &MissingFileError{Path: c.AgentFile, Message: "Unable to read agent code file"}
	}
	deviceCode, err := os.ReadFile(c.DeviceFile)
	if err != nil {
		return &MissingFileError{Path: c.DeviceFile, Message: "Unable to read device code file"}
	}

	// The model has to exist already, pushing never creates one.
	model, err := api.ModelByName(c.Model)
	if err != nil {
		return err
	}

	logrus.Debugf("Pushing %d bytes of agent code and %d bytes of device code to %s",
		len(agentCode), len(deviceCode), model.Id)
	p := progress.New(out, "Uploading revision to "+strings.ReplaceAll(c.Model, "%", "%%")+" %s")
	rev, err := api.RevisionCreate(model.Id, string(agentCode), string(deviceCode))
	if err != nil {
		p.Fail()
		var httpErr *client.HttpError
		if errors.As(err, &httpErr) {
			return fmt.Errorf("Code push failed: %s", httpErr.Remote())
		}
		return fmt.Errorf("Code push failed: %w", err)
	}
	p.Finish()
	fmt.Fprintf(out, "Created new revision: %d\n", rev.Version)

	logrus.Debugf("Restarting model %s", model.Id)
	if err := api.ModelRestart(model.Id); err != nil {
		return fmt.Errorf("Unable to restart model %s: %w", c.Model, err)
	}
	return nil
}
