package client

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApi(t *testing.T, handler http.HandlerFunc) *Api {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewApiClient(Config{ApiKey: "secret-key", ApiUrl: srv.URL + "/v4/", AgentUrl: srv.URL + "/agent/"})
}

func TestHeaders(t *testing.T) {
	var got http.Header
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{"devices": []}`))
	})

	_, err := api.DeviceList()
	require.Nil(t, err)
	expected := "Basic " + base64.StdEncoding.EncodeToString([]byte("secret-key"))
	assert.Equal(t, expected, got.Get("Authorization"))
	assert.Equal(t, "impctl", got.Get("User-Agent"))
	assert.Empty(t, got.Get("Content-Type"))

	require.Nil(t, api.DeviceAssign("dev1", "model1"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
}

func TestStatusAllowList(t *testing.T) {
	for _, code := range []int{200, 201, 202} {
		api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		})
		assert.Nil(t, api.DeviceAssign("dev1", "model1"), "status %d", code)
	}

	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	err := api.DeviceAssign("dev1", "model1")
	var httpErr *HttpError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNoContent, httpErr.StatusCode)
	assert.Equal(t, http.MethodPut, httpErr.Method)
}

func TestHttpErrorRemote(t *testing.T) {
	err := &HttpError{Body: []byte(`{"success": false, "error": {"code": "CompileFailed", "message_short": "bad"}}`)}
	assert.Equal(t, `{"code": "CompileFailed", "message_short": "bad"}`, err.Remote())

	err = &HttpError{Body: []byte(`{"success": false, "error": "Model is locked"}`)}
	assert.Equal(t, "Model is locked", err.Remote())

	err = &HttpError{Body: []byte("gateway timeout")}
	assert.Equal(t, "gateway timeout", err.Remote())
}

func TestModelByName(t *testing.T) {
	var query string
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/models", r.URL.Path)
		query = r.URL.Query().Get("name")
		if query == "missing" {
			_, _ = w.Write([]byte(`{"models": []}`))
			return
		}
		_, _ = w.Write([]byte(`{"models": [{"id": "m1", "name": "lamp & co", "devices": ["d1", "d2"]}]}`))
	})

	model, err := api.ModelByName("lamp & co")
	require.Nil(t, err)
	assert.Equal(t, "lamp & co", query)
	assert.Equal(t, "m1", model.Id)
	assert.Equal(t, []string{"d1", "d2"}, model.Devices)

	_, err = api.ModelByName("missing")
	assert.True(t, errors.Is(err, ErrModelNotFound))
}

func TestModelResolveOrCreate(t *testing.T) {
	var created map[string]string
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"models": []}`))
		case http.MethodPost:
			assert.Equal(t, "/v4/models/", r.URL.Path)
			body, _ := io.ReadAll(r.Body)
			assert.Nil(t, json.Unmarshal(body, &created))
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"model": {"id": "new-id", "name": "fresh"}}`))
		}
	})

	model, err := api.ModelResolveOrCreate("fresh")
	require.Nil(t, err)
	assert.Equal(t, "new-id", model.Id)
	assert.Equal(t, map[string]string{"name": "fresh"}, created)
}

func TestRevisionCreate(t *testing.T) {
	var sent map[string]string
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/models/m1/revisions", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.Nil(t, json.Unmarshal(body, &sent))
		_, _ = w.Write([]byte(`{"revision": {"version": 12}}`))
	})

	rev, err := api.RevisionCreate("m1", "agent \"quoted\"\n", "device();")
	require.Nil(t, err)
	assert.Equal(t, 12, rev.Version)
	assert.Equal(t, "agent \"quoted\"\n", sent["agent_code"])
	assert.Equal(t, "device();", sent["device_code"])
}

func TestIdsArePathEscaped(t *testing.T) {
	var paths []string
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"device": {}, "revision": {"version": 1}}`))
	})

	require.Nil(t, api.DeviceAssign("victim?x=1", "m/1"))
	_, err := api.DeviceGet("victim#frag")
	require.Nil(t, err)
	require.Nil(t, api.ModelRestart("m/1"))
	_, err = api.RevisionCreate("m 1", "", "")
	require.Nil(t, err)

	assert.Equal(t, []string{
		"PUT /v4/devices/victim%3Fx=1",
		"GET /v4/devices/victim%23frag",
		"POST /v4/models/m%2F1/restart",
		"POST /v4/models/m%201/revisions",
	}, paths)
	assert.True(t, strings.HasSuffix(api.AgentUrl("a?b", "q=1"), "/agent/a%3Fb?q=1"))
}

func TestUnassignedDeviceIds(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"devices": [
			{"id": "a", "model_id": ""},
			{"id": "b", "model_id": "m1"},
			{"id": "c", "model_id": null},
			{"id": "d"}
		]}`))
	})

	ids, err := api.UnassignedDeviceIds()
	require.Nil(t, err)
	assert.Equal(t, []string{"a", "c", "d"}, ids)
}

func TestAgentCall(t *testing.T) {
	var auth, path, query string
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		query = r.URL.RawQuery
		w.WriteHeader(http.StatusInternalServerError)
	})

	url := api.AgentUrl("agent-1", "led=on&level=3")
	assert.Nil(t, api.AgentCall(url))
	assert.Equal(t, "/agent/agent-1", path)
	assert.Equal(t, "led=on&level=3", query)
	assert.Empty(t, auth)
}
