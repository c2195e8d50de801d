package client

import (
	"encoding/json"
	"errors"
	"fmt"
	netUrl "net/url"

	"github.com/sirupsen/logrus"
)

var ErrModelNotFound = errors.New("Model not found")

type Model struct {
	Id      string   `json:"id"`
	Name    string   `json:"name"`
	Devices []string `json:"devices"`
}

type ModelList struct {
	Models []Model `json:"models"`
}

type Revision struct {
	Version    int    `json:"version"`
	CreatedAt  string `json:"created_at,omitempty"`
	ReleaseTag string `json:"release_tag,omitempty"`
}

func (a *Api) ModelList(name string) (*ModelList, error) {
	url := a.serverUrl + "/models?name=" + netUrl.QueryEscape(name)
	logrus.Debugf("ModelList with url: %s", url)
	body, err := a.Get(url)
	if err != nil {
		return nil, err
	}

	models := ModelList{}
	if err := json.Unmarshal(*body, &models); err != nil {
		return nil, err
	}
	return &models, nil
}

// ModelByName returns the first model the service matches to name.
func (a *Api) ModelByName(name string) (*Model, error) {
	models, err := a.ModelList(name)
	if err != nil {
		return nil, err
	}
	if len(models.Models) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, name)
	}
	return &models.Models[0], nil
}

func (a *Api) ModelCreate(name string) (*Model, error) {
	data, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return nil, err
	}
	body, err := a.Post(a.serverUrl+"/models/", data)
	if err != nil {
		return nil, err
	}

	type CreateResp struct {
		Model Model `json:"model"`
	}
	resp := CreateResp{}
	if err := json.Unmarshal(*body, &resp); err != nil {
		return nil, err
	}
	return &resp.Model, nil
}

func (a *Api) ModelResolveOrCreate(name string) (*Model, error) {
	model, err := a.ModelByName(name)
	if errors.Is(err, ErrModelNotFound) {
		logrus.Debugf("Creating model %s", name)
		return a.ModelCreate(name)
	}
	return model, err
}

func (a *Api) ModelRestart(modelId string) error {
	_, err := a.Post(a.serverUrl+"/models/"+netUrl.PathEscape(modelId)+"/restart", nil)
	return err
}

func (a *Api) RevisionCreate(modelId, agentCode, deviceCode string) (*Revision, error) {
	data, err := json.Marshal(map[string]string{
		"agent_code":  agentCode,
		"device_code": deviceCode,
	})
	if err != nil {
		return nil, err
	}
	body, err := a.Post(a.serverUrl+"/models/"+netUrl.PathEscape(modelId)+"/revisions", data)
	if err != nil {
		return nil, err
	}

	type RevisionResp struct {
		Revision Revision `json:"revision"`
	}
	resp := RevisionResp{}
	if err := json.Unmarshal(*body, &resp); err != nil {
		return nil, err
	}
	return &resp.Revision, nil
}
