package bulk

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/foundriesio/impctl/client"
)

// Run calls the agent of every device in the model, one after the other.
// Agent responses are not validated, only lookup and transport failures are
// collected.
func (c CallAgents) Run(api *client.Api, out io.Writer) error {
	model, err := api.ModelByName(c.Model)
	if err != nil {
		return err
	}
	logrus.Debugf("Calling %d agents of model %s", len(model.Devices), model.Id)

	var errs error
	red := color.New(color.FgRed)
	for _, id := range model.Devices {
		device, err := api.DeviceGet(id)
		if err != nil {
			red.Fprintf(out, "Unable to look up device %s\n", id)
			errs = multierr.Append(errs, fmt.Errorf("device %s: %w", id, err))
			continue
		}
		url := api.AgentUrl(device.AgentId, c.Query)
		fmt.Fprintln(out, "Calling the agent: "+url)
		if err := api.AgentCall(url); err != nil {
			red.Fprintf(out, "Call to agent %s failed\n", device.AgentId)
			errs = multierr.Append(errs, fmt.Errorf("agent %s: %w", device.AgentId, err))
		}
	}
	if errs != nil {
		return fmt.Errorf("%d of %d agents could not be called: %w",
			len(multierr.Errors(errs)), len(model.Devices), errs)
	}
	return nil
}
