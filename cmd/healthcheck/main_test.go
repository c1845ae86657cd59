package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAddr(t *testing.T) {
	tests := map[string]string{
		"":               "127.0.0.1:8080",
		"garbage":        "127.0.0.1:8080",
		":9090":          "127.0.0.1:9090",
		"0.0.0.0:8080":   "127.0.0.1:8080",
		"[::]:8080":      "127.0.0.1:8080",
		"10.0.0.5:8081":  "10.0.0.5:8081",
		"localhost:3000": "localhost:3000",
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, normalizeAddr(in))
		})
	}
}

func TestCheck(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/health" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer healthy.Close()

	degraded := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer degraded.Close()

	assert.Equal(t, 0, check(strings.TrimPrefix(healthy.URL, "http://")))
	assert.Equal(t, 1, check(strings.TrimPrefix(degraded.URL, "http://")))
}

func TestListenAddr_FromConfigFile(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer healthy.Close()
	addr := strings.TrimPrefix(healthy.URL, "http://")

	path := filepath.Join(t.TempDir(), "agendahub.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen_addr: \""+addr+"\"\n"), 0o600))
	t.Setenv("AGENDAHUB_CONFIG_FILE", path)
	t.Setenv("AGENDAHUB_LISTEN_ADDR", "")
	require.NoError(t, os.Unsetenv("AGENDAHUB_LISTEN_ADDR"))

	got, err := listenAddr()

	require.NoError(t, err)
	assert.Equal(t, addr, got)
	assert.Equal(t, 0, check(got))
}

func TestListenAddr_EnvOverridesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agendahub.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen_addr: \"0.0.0.0:7070\"\n"), 0o600))
	t.Setenv("AGENDAHUB_CONFIG_FILE", path)
	t.Setenv("AGENDAHUB_LISTEN_ADDR", "0.0.0.0:9090")

	got, err := listenAddr()

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", got)
}

func TestListenAddr_InvalidConfig(t *testing.T) {
	t.Setenv("AGENDAHUB_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := listenAddr()

	assert.Error(t, err)
}
