package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTextfile(t *testing.T) {
	// Arrange
	RecordImportRow("products", true)
	RecordCalculation("discount", nil)
	path := filepath.Join(t.TempDir(), "partner-service.prom")

	// Act
	err := WriteTextfile(path, prometheus.DefaultGatherer)

	// Assert
	require.NoError(t, err)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `import_rows_total{outcome="imported",stage="products"}`)
	assert.Contains(t, string(content), `calculations_total{calculator="discount",status="ok"}`)
}

func TestWriteTextfile_BadPath(t *testing.T) {
	err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "metrics.prom"), prometheus.DefaultGatherer)

	assert.Error(t, err)
}

func TestPush(t *testing.T) {
	// Arrange
	var method, path, body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "partner_import_runs_total", Help: "test"})
	registry.MustRegister(counter)
	counter.Inc()

	// Act
	err := Push(context.Background(), server.URL, "partner-service", registry)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/metrics/job/partner-service", path)
	assert.Contains(t, body, "partner_import_runs_total")
}

func TestPush_GatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	err := Push(context.Background(), server.URL, "partner-service", prometheus.NewRegistry())

	assert.Error(t, err)
}
