package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const productsBody = `[
  {"id":1,"title":"Backpack","price":109.95,"description":"Fits 15 inch laptops","category":"men's clothing","image":"https://img/1.png","rating":{"rate":3.9,"count":120}},
  {"id":2,"title":"Slim Tee","price":22.3,"image":"https://img/2.png"}
]`

func catalogServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/products" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(status)
		if status == http.StatusOK {
			_, _ = w.Write([]byte(productsBody))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// runList executes `kiosk list` with an isolated home and config.
func runList(t *testing.T, apiURL string, args ...string) (string, error) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{"KIOSK_API_URL", "KIOSK_LOG_LEVEL", "KIOSK_METRICS_FILE"} {
		t.Setenv(key, "")
	}
	cfg := filepath.Join(home, "config.toml")
	body := fmt.Sprintf("log_file = %q\n", filepath.Join(home, "kiosk.log"))
	require.NoError(t, os.WriteFile(cfg, []byte(body), 0o644))

	root := NewRootCmd("test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"list", "--config", cfg, "--api-url", apiURL}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestList_JSON(t *testing.T) {
	srv := catalogServer(t, http.StatusOK)

	out, err := runList(t, srv.URL, "--format", "json")
	require.NoError(t, err)

	var items []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 2)
	assert.Equal(t, float64(1), items[0]["id"])
	assert.Equal(t, "Backpack", items[0]["title"])
	assert.Equal(t, 109.95, items[0]["price"])
	assert.Equal(t, map[string]any{"rate": 3.9, "count": float64(120)}, items[0]["rating"])
	assert.NotContains(t, items[1], "rating")
	assert.NotContains(t, items[1], "category")
}

func TestList_YAML(t *testing.T) {
	srv := catalogServer(t, http.StatusOK)

	out, err := runList(t, srv.URL, "-f", "yaml")
	require.NoError(t, err)

	var items []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &items))
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[1]["id"])
	assert.Equal(t, "Slim Tee", items[1]["title"])
	assert.Equal(t, "22.3", fmt.Sprint(items[1]["price"]))
}

func TestList_Table(t *testing.T) {
	srv := catalogServer(t, http.StatusOK)

	out, err := runList(t, srv.URL)
	require.NoError(t, err)

	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "Backpack")
	assert.Contains(t, out, "109.95")
	assert.Contains(t, out, "3.9 (120)")
	assert.Contains(t, out, "22.30")
}

func TestList_RemoteFailure(t *testing.T) {
	srv := catalogServer(t, http.StatusServiceUnavailable)

	_, err := runList(t, srv.URL, "--format", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestList_UnknownFormat(t *testing.T) {
	_, err := runList(t, "http://127.0.0.1:1", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported format "xml"`)
}
