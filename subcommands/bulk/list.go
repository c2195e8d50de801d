package bulk

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/foundriesio/impctl/client"
)

func (ListUnassigned) Run(api *client.Api, out io.Writer) error {
	logrus.Debug("Listing unassigned devices")
	ids, err := api.UnassignedDeviceIds()
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Fprintln(out, id)
	}
	return nil
}

func (c ListModel) Run(api *client.Api, out io.Writer) error {
	logrus.Debugf("Listing devices of model %s", c.Model)
	model, err := api.ModelByName(c.Model)
	if err != nil {
		return err
	}
	for _, id := range model.Devices {
		fmt.Fprintln(out, id)
	}
	return nil
}
