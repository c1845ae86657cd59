package httphandler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httphandler "github.com/ericfisherdev/agendahub/internal/adapter/driving/http"
	"github.com/ericfisherdev/agendahub/internal/application"
	"github.com/ericfisherdev/agendahub/internal/domain/model"
	"github.com/ericfisherdev/agendahub/internal/domain/port/driven"
)

// --- Mock implementations ---

type mockKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMockKV() *mockKV { return &mockKV{data: make(map[string][]byte)} }

func (m *mockKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mockKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mockKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

var _ driven.KVStore = (*mockKV)(nil)

type mockPinger struct {
	err error
}

func (m *mockPinger) PingContext(_ context.Context) error { return m.err }

// --- Helpers ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupRouter(t *testing.T, pinger *mockPinger, kv *mockKV) http.Handler {
	t.Helper()
	logger := discardLogger()
	agendas := application.NewAgendaService(kv, logger)
	h := httphandler.NewHandler(pinger, agendas, logger)

	r := chi.NewRouter()
	httphandler.ApplyMiddleware(r, logger)
	httphandler.RegisterAPIRoutes(r, h)
	return r
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	err := json.NewDecoder(rec.Body).Decode(v)
	require.NoError(t, err)
}

// --- Tests ---

func TestHealth(t *testing.T) {
	kv := newMockKV()
	agendas := application.NewAgendaService(kv, discardLogger())
	_, err := agendas.Create(context.Background(), model.AgendaInput{
		Title: "Rapat", Date: "2025-03-10", Time: "09:30", Description: "Rapat bulanan",
	})
	require.NoError(t, err)

	router := setupRouter(t, &mockPinger{}, kv)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp httphandler.HealthResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "ok", resp.Storage)
	assert.Equal(t, 1, resp.Agendas)

	_, err = time.Parse(time.RFC3339, resp.Time)
	assert.NoError(t, err, "time should be RFC3339")
}

func TestHealth_StorageUnreachable(t *testing.T) {
	router := setupRouter(t, &mockPinger{err: errors.New("database is locked")}, newMockKV())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp httphandler.HealthResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "unreachable", resp.Storage)
}

func TestRecoveryMiddleware(t *testing.T) {
	r := chi.NewRouter()
	httphandler.ApplyMiddleware(r, discardLogger())
	r.Get("/boom", func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]any
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "internal server error", resp["error"])
}
