package bulk

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/foundriesio/impctl/client"
)

type request struct {
	Method  string
	Path    string
	RawPath string
	Body    map[string]string
}

// fakeImp is a minimal in-memory Build API plus agent endpoint.
type fakeImp struct {
	mu          sync.Mutex
	models      []client.Model
	devices     []client.Device
	failDevices map[string]bool
	revisionErr string
	requests    []request
	agentCalls  []string
}

func (f *fakeImp) record(r *http.Request) request {
	req := request{Method: r.Method, Path: r.URL.Path, RawPath: r.URL.EscapedPath()}
	if body, _ := io.ReadAll(r.Body); len(body) > 0 {
		_ = json.Unmarshal(body, &req.Body)
	}
	f.requests = append(f.requests, req)
	return req
}

func (f *fakeImp) count(method, pathSuffix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if r.Method == method && strings.HasSuffix(r.Path, pathSuffix) {
			n++
		}
	}
	return n
}

func (f *fakeImp) matching(method, pathPrefix string) []request {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []request
	for _, r := range f.requests {
		if r.Method == method && strings.HasPrefix(r.Path, pathPrefix) {
			res = append(res, r)
		}
	}
	return res
}

func writeJson(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeImp) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if strings.HasPrefix(r.URL.Path, "/agent/") {
		f.agentCalls = append(f.agentCalls, r.URL.Path+"?"+r.URL.RawQuery)
		w.WriteHeader(http.StatusOK)
		return
	}

	req := f.record(r)
	path := strings.TrimPrefix(req.Path, "/v4")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	switch {
	case r.Method == http.MethodGet && path == "/models":
		name := r.URL.Query().Get("name")
		models := []client.Model{}
		for _, m := range f.models {
			if m.Name == name {
				models = append(models, m)
			}
		}
		writeJson(w, http.StatusOK, map[string]interface{}{"models": models})
	case r.Method == http.MethodPost && path == "/models/":
		m := client.Model{Id: "model-" + req.Body["name"], Name: req.Body["name"]}
		f.models = append(f.models, m)
		writeJson(w, http.StatusCreated, map[string]interface{}{"model": m})
	case r.Method == http.MethodPost && len(parts) == 3 && parts[2] == "revisions":
		if len(f.revisionErr) > 0 {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"success": false, "error": ` + f.revisionErr + `}`))
			return
		}
		writeJson(w, http.StatusOK, map[string]interface{}{"revision": map[string]int{"version": 7}})
	case r.Method == http.MethodPost && len(parts) == 3 && parts[2] == "restart":
		writeJson(w, http.StatusAccepted, map[string]bool{"success": true})
	case r.Method == http.MethodGet && path == "/devices":
		writeJson(w, http.StatusOK, map[string]interface{}{"devices": f.devices})
	case len(parts) == 2 && parts[0] == "devices":
		id := parts[1]
		if f.failDevices[id] {
			writeJson(w, http.StatusNotFound, map[string]string{"error": "DeviceNotFound"})
			return
		}
		for _, d := range f.devices {
			if d.Id == id {
				if r.Method == http.MethodPut {
					writeJson(w, http.StatusOK, map[string]bool{"success": true})
				} else {
					writeJson(w, http.StatusOK, map[string]interface{}{"device": d})
				}
				return
			}
		}
		// Unknown ids are still accepted for reassignment.
		if r.Method == http.MethodPut {
			writeJson(w, http.StatusOK, map[string]bool{"success": true})
			return
		}
		writeJson(w, http.StatusNotFound, map[string]string{"error": "DeviceNotFound"})
	default:
		w.WriteHeader(http.StatusNotImplemented)
	}
}

func newFake(t *testing.T) (*fakeImp, *client.Api) {
	fake := &fakeImp{failDevices: map[string]bool{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	api := client.NewApiClient(client.Config{
		ApiKey:   "test-key",
		ApiUrl:   srv.URL + "/v4/",
		AgentUrl: srv.URL + "/agent/",
	})
	return fake, api
}

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.Nil(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
