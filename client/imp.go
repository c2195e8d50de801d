package client

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

const (
	DefaultApiUrl   = "https://build.electricimp.com/v4/"
	DefaultAgentUrl = "https://agent.electricimp.com/"
)

// The Build API answers with any of these on success.
var okStatusCodes = []int{http.StatusOK, http.StatusCreated, http.StatusAccepted}

// StatusOk reports whether the Build API considers the status a success.
func StatusOk(code int) bool {
	return slices.Contains(okStatusCodes, code)
}

type Config struct {
	ApiKey   string `mapstructure:"api_key"`
	ApiUrl   string `mapstructure:"api_url"`
	AgentUrl string `mapstructure:"agent_url"`
}

type Api struct {
	serverUrl string
	agentUrl  string
	config    Config
	client    http.Client
}

// HttpError is returned for any response outside of the success allow-list.
type HttpError struct {
	Method     string
	Url        string
	StatusCode int
	Body       []byte
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("Unable to %s '%s': HTTP_%d\n=%s", e.Method, e.Url, e.StatusCode, e.Body)
}

// Remote returns the "error" member of a JSON error body. A string member is
// returned unquoted, anything else verbatim. Bodies without one are returned
// whole.
func (e *HttpError) Remote() string {
	var payload struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(e.Body, &payload); err != nil || len(payload.Error) == 0 {
		return string(e.Body)
	}
	var msg string
	if err := json.Unmarshal(payload.Error, &msg); err == nil {
		return msg
	}
	return string(payload.Error)
}

func NewApiClient(config Config) *Api {
	serverUrl := config.ApiUrl
	if len(serverUrl) == 0 {
		serverUrl = DefaultApiUrl
	}
	agentUrl := config.AgentUrl
	if len(agentUrl) == 0 {
		agentUrl = DefaultAgentUrl
	}
	return &Api{
		serverUrl: strings.TrimRight(serverUrl, "/"),
		agentUrl:  strings.TrimRight(agentUrl, "/"),
		config:    config,
		client:    http.Client{Timeout: time.Second * 10},
	}
}

func (a *Api) ServerUrl() string {
	return a.serverUrl
}

func (a *Api) setReqHeaders(req *http.Request, jsonContent bool) {
	req.Header.Set("User-Agent", "impctl")

	if len(a.config.ApiKey) > 0 {
		logrus.Debug("Using API key for http request")
		key := base64.StdEncoding.EncodeToString([]byte(a.config.ApiKey))
		req.Header.Set("Authorization", "Basic "+key)
	}

	if jsonContent {
		req.Header.Set("Content-Type", "application/json")
	}
}

func (a *Api) RawGet(url string, headers *map[string]string) (*http.Response, error) {
	return a.rawRequest(http.MethodGet, url, nil, headers)
}

func (a *Api) RawPost(url string, data []byte, headers *map[string]string) (*http.Response, error) {
	return a.rawRequest(http.MethodPost, url, data, headers)
}

func (a *Api) rawRequest(method, url string, data []byte, headers *map[string]string) (*http.Response, error) {
	var body io.Reader
	if data != nil {
		body = bytes.NewBuffer(data)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, err
	}

	a.setReqHeaders(req, data != nil)
	if headers != nil {
		for key, val := range *headers {
			req.Header.Set(key, val)
		}
	}

	logrus.Debugf("%s %s", method, url)
	return a.client.Do(req)
}

func (a *Api) do(method, url string, data []byte) (*[]byte, error) {
	res, err := a.rawRequest(method, url, data, nil)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if !StatusOk(res.StatusCode) {
		return nil, &HttpError{Method: method, Url: url, StatusCode: res.StatusCode, Body: body}
	}
	return &body, nil
}

func (a *Api) Get(url string) (*[]byte, error) {
	return a.do(http.MethodGet, url, nil)
}

func (a *Api) Post(url string, data []byte) (*[]byte, error) {
	if data == nil {
		data = []byte{}
	}
	return a.do(http.MethodPost, url, data)
}

func (a *Api) Put(url string, data []byte) (*[]byte, error) {
	return a.do(http.MethodPut, url, data)
}
