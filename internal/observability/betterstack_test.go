package observability

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/subway-lines/internal/config"
	"github.com/riskibarqy/subway-lines/internal/platform/logging"
	"github.com/stretchr/testify/require"
)

type capturedBatches struct {
	mu      sync.Mutex
	auth    []string
	entries []map[string]any
	batches int
}

func (c *capturedBatches) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var batch []map[string]any
		if err := json.Unmarshal(body, &batch); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		c.mu.Lock()
		c.batches++
		c.auth = append(c.auth, r.Header.Get("Authorization"))
		c.entries = append(c.entries, batch...)
		c.mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	})
}

func betterStackConfig(endpoint string) config.Config {
	return config.Config{
		BetterStackEnabled:  true,
		BetterStackEndpoint: endpoint,
		BetterStackToken:    "secret-token",
		BetterStackTimeout:  2 * time.Second,
		BetterStackMinLevel: logging.LevelError,
		LogLevel:            logging.LevelInfo,
		ServiceName:         "subway-lines-api",
		AppEnv:              config.EnvDev,
	}
}

func TestNewLogger_ShipsEntriesAtMinLevel(t *testing.T) {
	t.Parallel()

	captured := &capturedBatches{}
	server := httptest.NewServer(captured.handler())
	defer server.Close()

	logger, flush, err := NewLogger(betterStackConfig(server.URL))
	require.NoError(t, err)

	logger.InfoContext(context.Background(), "info log should not be shipped")
	logger.ErrorContext(context.Background(), "line repository unavailable", "component", "postgres")
	logger.ErrorContext(context.Background(), "station repository unavailable", "component", "postgres")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, flush(ctx))

	captured.mu.Lock()
	defer captured.mu.Unlock()
	require.Len(t, captured.entries, 2)
	require.Equal(t, "line repository unavailable", captured.entries[0]["msg"])
	require.Equal(t, "subway-lines-api", captured.entries[0]["service"])
	require.Equal(t, "postgres", captured.entries[1]["component"])
	for _, auth := range captured.auth {
		require.Equal(t, "Bearer secret-token", auth)
	}
}

func TestLogShipper_BatchesAndDrainsOnClose(t *testing.T) {
	t.Parallel()

	captured := &capturedBatches{}
	server := httptest.NewServer(captured.handler())
	defer server.Close()

	shipper := newLogShipper(server.URL, "", time.Second)
	for i := 0; i < shipBatchSize+5; i++ {
		_, err := shipper.Write([]byte(`{"msg":"entry"}` + "\n"))
		require.NoError(t, err)
	}
	_, _ = shipper.Write([]byte("  \n"))

	require.NoError(t, shipper.Close(context.Background()))
	require.NoError(t, shipper.Close(context.Background()))

	n, err := shipper.Write([]byte(`{"msg":"after close"}`))
	require.NoError(t, err)
	require.Positive(t, n)

	captured.mu.Lock()
	defer captured.mu.Unlock()
	require.Len(t, captured.entries, shipBatchSize+5)
	require.GreaterOrEqual(t, captured.batches, 2)
	require.Equal(t, []string{"", ""}, captured.auth[:2])
}

func TestNewLogger_Disabled(t *testing.T) {
	logger, flush, err := NewLogger(config.Config{LogLevel: logging.LevelWarn})
	require.NoError(t, err)
	require.NotNil(t, logger)
	require.NoError(t, flush(context.Background()))
}

func TestNormalizeBetterStackEndpoint(t *testing.T) {
	tests := map[string]string{
		"":                          "",
		"in.logs.betterstack.com":   "https://in.logs.betterstack.com",
		"http://localhost:9000":     "http://localhost:9000",
		" https://in.logs.example ": "https://in.logs.example",
	}
	for in, want := range tests {
		require.Equal(t, want, normalizeBetterStackEndpoint(in), "input %q", in)
	}
}
