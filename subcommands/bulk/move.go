package bulk

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/cheynewallace/tabby"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/foundriesio/impctl/client"
)

// MoveResult records the outcome of a single device reassignment.
type MoveResult struct {
	DeviceId string
	Err      error
}

type MoveReport struct {
	Model   *client.Model
	Results []MoveResult
}

func (r *MoveReport) Failed() int {
	failed := 0
	for _, res := range r.Results {
		if res.Err != nil {
			failed++
		}
	}
	return failed
}

// Err aggregates every failed reassignment, or nil when all succeeded.
func (r *MoveReport) Err() error {
	var err error
	for _, res := range r.Results {
		if res.Err != nil {
			err = multierr.Append(err, fmt.Errorf("device %s: %w", res.DeviceId, res.Err))
		}
	}
	if err != nil {
		return fmt.Errorf("%d of %d devices could not be moved: %w", r.Failed(), len(r.Results), err)
	}
	return nil
}

func (r *MoveReport) Print(out io.Writer) {
	t := tabby.NewCustom(tabwriter.NewWriter(out, 0, 0, 2, ' ', 0))
	t.AddHeader("DEVICE", "RESULT")
	for _, res := range r.Results {
		status := "moved"
		if res.Err != nil {
			status = "FAILED"
		}
		t.AddLine(res.DeviceId, status)
	}
	t.Print()
	fmt.Fprintf(out, "%d of %d devices moved to %s\n", len(r.Results)-r.Failed(), len(r.Results), r.Model.Name)
}

// MoveDevices resolves or creates the named model and reassigns every device
// to it, one request per device. A failed device does not stop the others and
// nothing is rolled back.
func MoveDevices(api *client.Api, out io.Writer, modelName string, deviceIds []string) (*MoveReport, error) {
	model, err := api.ModelResolveOrCreate(modelName)
	if err != nil {
		return nil, fmt.Errorf("Failed to create model %s: %w", modelName, err)
	}
	if len(model.Name) == 0 {
		model.Name = modelName
	}

	report := MoveReport{Model: model}
	red := color.New(color.FgRed)
	for _, id := range deviceIds {
		logrus.Debugf("Moving device %s to model %s", id, model.Id)
		err := api.DeviceAssign(id, model.Id)
		if err != nil {
			red.Fprintf(out, "Failed to move device %s to model %s\n", id, model.Id)
			logrus.Debug(err)
		}
		report.Results = append(report.Results, MoveResult{DeviceId: id, Err: err})
	}
	return &report, nil
}

func (c MoveFromFile) Run(api *client.Api, out io.Writer) error {
	ids, err := readDeviceIds(c.DeviceIdsFile)
	if err != nil {
		return err
	}
	return runMove(api, out, c.Model, ids)
}

func (c MoveUnassigned) Run(api *client.Api, out io.Writer) error {
	ids, err := api.UnassignedDeviceIds()
	if err != nil {
		return err
	}
	return runMove(api, out, c.Model, ids)
}

func runMove(api *client.Api, out io.Writer, model string, ids []string) error {
	report, err := MoveDevices(api, out, model, ids)
	if err != nil {
		return err
	}
	report.Print(out)
	return report.Err()
}

// readDeviceIds reads one device id per line with surrounding whitespace
// trimmed. Blank lines are skipped and never turn into a reassignment call.
func readDeviceIds(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &MissingFileError{Path: path, Message: "Please specify file with device ids"}
	}
	defer f.Close()

	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if len(id) == 0 {
			continue
		}
		ids = append(ids, id)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	logrus.Debugf("Read %d device ids from %s", len(ids), path)
	return ids, nil
}
