package client

import (
	"encoding/json"
	"io"
	"net/http"
	netUrl "net/url"

	"github.com/sirupsen/logrus"
)

type Device struct {
	Id           string `json:"id"`
	Name         string `json:"name"`
	ModelId      string `json:"model_id"`
	AgentId      string `json:"agent_id"`
	MacAddress   string `json:"mac_address,omitempty"`
	PowerState   string `json:"powerstate,omitempty"`
	AgentRunning bool   `json:"agent_running"`
}

type DeviceList struct {
	Devices []Device `json:"devices"`
}

func (d Device) Assigned() bool {
	return len(d.ModelId) > 0
}

func (a *Api) DeviceList() (*DeviceList, error) {
	body, err := a.Get(a.serverUrl + "/devices")
	if err != nil {
		return nil, err
	}

	devices := DeviceList{}
	if err := json.Unmarshal(*body, &devices); err != nil {
		return nil, err
	}
	return &devices, nil
}

func (a *Api) DeviceGet(id string) (*Device, error) {
	body, err := a.Get(a.serverUrl + "/devices/" + netUrl.PathEscape(id))
	if err != nil {
		return nil, err
	}

	type DeviceResp struct {
		Device Device `json:"device"`
	}
	resp := DeviceResp{}
	if err := json.Unmarshal(*body, &resp); err != nil {
		return nil, err
	}
	return &resp.Device, nil
}

func (a *Api) DeviceAssign(id, modelId string) error {
	data, err := json.Marshal(map[string]string{"model_id": modelId})
	if err != nil {
		return err
	}
	_, err = a.Put(a.serverUrl+"/devices/"+netUrl.PathEscape(id), data)
	return err
}

// UnassignedDeviceIds lists the devices that are not linked to any model.
func (a *Api) UnassignedDeviceIds() ([]string, error) {
	devices, err := a.DeviceList()
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, d := range devices.Devices {
		if !d.Assigned() {
			ids = append(ids, d.Id)
		}
	}
	logrus.Debugf("Found %d unassigned devices out of %d", len(ids), len(devices.Devices))
	return ids, nil
}

func (a *Api) AgentUrl(agentId, query string) string {
	return a.agentUrl + "/" + netUrl.PathEscape(agentId) + "?" + query
}

// AgentCall does an unauthenticated GET to an agent. The response is drained
// and its status is not checked.
func (a *Api) AgentCall(url string) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "impctl")
	res, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	logrus.Debugf("Agent %s answered %s", url, res.Status)
	_, err = io.Copy(io.Discard, res.Body)
	return err
}
