package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, apiURL string) string {
	t.Helper()
	body := fmt.Sprintf(
		"api_url = %q\nrequest_timeout = \"2s\"\nlog_file = %q\nlog_level = \"debug\"\nmetrics_file = %q\n",
		apiURL,
		filepath.Join(dir, "state", "kiosk.log"),
		filepath.Join(dir, "metrics", "kiosk.prom"),
	)
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"KIOSK_API_URL", "KIOSK_LOG_LEVEL", "KIOSK_METRICS_FILE"} {
		t.Setenv(key, "")
	}
}

func TestOpen_FetchWritesLogAndMetrics(t *testing.T) {
	clearEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`[{"id":1,"title":"Backpack","price":109.95,"image":"a.png","rating":{"rate":3.9,"count":120}}]`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	session, err := Open(Options{ConfigPath: writeConfig(t, dir, srv.URL), Version: "1.2.3"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := session.Catalog.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if got := len(session.Catalog.Items()); got != 1 {
		t.Fatalf("items = %d, want 1", got)
	}
	if err := session.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	logBody, err := os.ReadFile(filepath.Join(dir, "state", "kiosk.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(logBody), `msg="catalog fetched"`) {
		t.Fatalf("log missing fetch record:\n%s", logBody)
	}

	metrics, err := os.ReadFile(filepath.Join(dir, "metrics", "kiosk.prom"))
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	if !strings.Contains(string(metrics), `kiosk_api_requests_total{method="GET",outcome="ok"} 1`) {
		t.Fatalf("metrics missing request counter:\n%s", metrics)
	}
}

func TestOpen_APIURLOptionOverridesConfig(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	session, err := Open(Options{
		ConfigPath: writeConfig(t, dir, "http://config.invalid"),
		APIURL:     "http://flag.invalid/v1",
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = session.Close() }()

	if got := session.Client.BaseURL(); got != "http://flag.invalid/v1" {
		t.Fatalf("BaseURL = %q, want flag value", got)
	}
}

func TestOpen_InvalidConfig(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("request_timeout = \"soon\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Open(Options{ConfigPath: path}); err == nil {
		t.Fatal("Open succeeded with an invalid timeout")
	}
}
