package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"partnerhub/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func TestExportMetrics_WritesCommandMetrics(t *testing.T) {
	// Arrange
	action := metrics.CommandMiddleware("partner-service", func(ctx context.Context, c *cli.Command) error {
		metrics.RecordCalculation("material", nil)
		return nil
	})
	require.NoError(t, action(context.Background(), &cli.Command{Name: "material"}))

	var pushedPath string
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pushedPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer gateway.Close()

	file := filepath.Join(t.TempDir(), "partner-service.prom")

	// Act
	err := exportMetrics(context.Background(), file, gateway.URL, "partner-service", prometheus.DefaultGatherer)

	// Assert
	require.NoError(t, err)
	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(content), `commands_total{command="material",service="partner-service",status="ok"}`)
	assert.Contains(t, string(content), `calculations_total{calculator="material",status="ok"}`)
	assert.Equal(t, "/metrics/job/partner-service", pushedPath)
}

func TestExportMetrics_NothingConfigured(t *testing.T) {
	assert.NoError(t, exportMetrics(context.Background(), "", "", "partner-service", prometheus.DefaultGatherer))
}
