package observability

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/riskibarqy/subway-lines/internal/config"
	"github.com/riskibarqy/subway-lines/internal/platform/logging"
	"go.uber.org/zap/zapcore"
)

const (
	shipQueueSize     = 1024
	shipBatchSize     = 50
	shipFlushInterval = time.Second
	shipDrainTimeout  = 5 * time.Second
)

// NewLogger builds the process logger: JSON on stdout and, when Better Stack
// is enabled, a second core shipping entries at or above
// BETTERSTACK_MIN_LEVEL. The returned flush drains queued entries.
func NewLogger(cfg config.Config) (*logging.Logger, func(context.Context) error, error) {
	if !cfg.BetterStackEnabled {
		logger := logging.NewJSON(cfg.LogLevel)
		return logger, func(context.Context) error { return syncLogger(logger) }, nil
	}

	endpoint := normalizeBetterStackEndpoint(cfg.BetterStackEndpoint)
	if endpoint == "" {
		return nil, nil, fmt.Errorf("betterstack endpoint cannot be empty")
	}

	shipper := newLogShipper(endpoint, strings.TrimSpace(cfg.BetterStackToken), cfg.BetterStackTimeout)
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(logging.EncoderConfig()),
		shipper,
		cfg.BetterStackMinLevel,
	)
	logger := logging.NewJSONTee(cfg.LogLevel, core).With("service", cfg.ServiceName, "env", cfg.AppEnv)
	logger.Info("betterstack enabled", "endpoint", endpoint, "min_level", cfg.BetterStackMinLevel.String())

	return logger, func(ctx context.Context) error {
		if ctx == nil {
			ctx = context.Background()
		}
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, shipDrainTimeout)
			defer cancel()
		}
		if err := shipper.Close(ctx); err != nil {
			return fmt.Errorf("drain betterstack queue: %w", err)
		}
		return syncLogger(logger)
	}, nil
}

func normalizeBetterStackEndpoint(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" || strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		return value
	}
	return "https://" + value
}

// syncLogger ignores the errors stdout returns for fsync on pipes and ttys.
func syncLogger(logger *logging.Logger) error {
	err := logger.Sync()
	if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.EBADF) || errors.Is(err, syscall.ENOTTY) {
		return nil
	}
	return err
}

// logShipper is a zapcore.WriteSyncer that posts entries to Better Stack as
// JSON arrays of up to shipBatchSize entries. Writes never block; entries are
// dropped when the queue is full.
type logShipper struct {
	endpoint string
	token    string
	client   *http.Client

	mu      sync.RWMutex
	closed  bool
	entries chan []byte
	done    chan struct{}
	dropped atomic.Uint64
}

func newLogShipper(endpoint, token string, timeout time.Duration) *logShipper {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	s := &logShipper{
		endpoint: endpoint,
		token:    token,
		client:   &http.Client{Timeout: timeout},
		entries:  make(chan []byte, shipQueueSize),
		done:     make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *logShipper) Write(p []byte) (int, error) {
	entry := bytes.TrimSpace(p)
	if len(entry) == 0 {
		return len(p), nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return len(p), nil
	}

	// zap reuses p after Write returns.
	select {
	case s.entries <- bytes.Clone(entry):
	default:
		if n := s.dropped.Add(1); n == 1 || n%100 == 0 {
			fmt.Fprintf(os.Stderr, "betterstack queue full; dropped logs=%d\n", n)
		}
	}
	return len(p), nil
}

func (s *logShipper) Sync() error { return nil }

func (s *logShipper) run() {
	defer close(s.done)

	ticker := time.NewTicker(shipFlushInterval)
	defer ticker.Stop()

	batch := make([][]byte, 0, shipBatchSize)
	flush := func() {
		if len(batch) > 0 {
			s.post(batch)
			batch = batch[:0]
		}
	}

	for {
		select {
		case entry, ok := <-s.entries:
			if !ok {
				flush()
				return
			}
			batch = append(batch, entry)
			if len(batch) == shipBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

func (s *logShipper) post(batch [][]byte) {
	body := make([]byte, 0, 2+len(batch)*256)
	body = append(body, '[')
	body = append(body, bytes.Join(batch, []byte{','})...)
	body = append(body, ']')

	req, err := http.NewRequest(http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "betterstack create request failed: %v\n", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "betterstack ship %d logs failed: %v\n", len(batch), err)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusMultipleChoices {
		fmt.Fprintf(os.Stderr, "betterstack ship %d logs got status=%d\n", len(batch), resp.StatusCode)
	}
}

// Close stops accepting entries and waits until the queue is shipped or ctx
// ends. It is safe to call more than once.
func (s *logShipper) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.entries)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
