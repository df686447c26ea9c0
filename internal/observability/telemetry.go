package observability

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/grafana/pyroscope-go"
	"github.com/riskibarqy/subway-lines/internal/config"
	"github.com/riskibarqy/subway-lines/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
)

// Telemetry owns the tracing exporter, continuous profiler and pprof
// listener that were enabled at startup.
type Telemetry struct {
	logger *logging.Logger
	stops  []namedStop
}

type namedStop struct {
	name string
	stop func(context.Context) error
}

// Start enables every telemetry backend switched on in cfg. On error the
// backends already started are stopped before returning.
func Start(cfg config.Config, logger *logging.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = logging.Default()
	}
	t := &Telemetry{logger: logger}

	steps := []struct {
		name    string
		enabled bool
		start   func(config.Config, *logging.Logger) (func(context.Context) error, error)
	}{
		{name: "uptrace", enabled: cfg.UptraceEnabled, start: startTracing},
		{name: "pyroscope", enabled: cfg.PyroscopeEnabled, start: startProfiler},
		{name: "pprof", enabled: cfg.PprofEnabled, start: startPprof},
	}
	for _, step := range steps {
		if !step.enabled {
			logger.Info("telemetry backend disabled", "backend", step.name)
			continue
		}
		stop, err := step.start(cfg, logger)
		if err != nil {
			_ = t.Shutdown(context.Background())
			return nil, fmt.Errorf("start %s: %w", step.name, err)
		}
		t.stops = append(t.stops, namedStop{name: step.name, stop: stop})
	}

	return t, nil
}

// Shutdown stops the started backends in reverse order.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}

	var errs []error
	for i := len(t.stops) - 1; i >= 0; i-- {
		s := t.stops[i]
		if err := s.stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop %s: %w", s.name, err))
			continue
		}
		t.logger.Info("telemetry backend stopped", "backend", s.name)
	}
	t.stops = nil

	return errors.Join(errs...)
}

func startTracing(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithLoggingEnabled(cfg.UptraceLogsEnabled),
	)
	if cfg.UptraceLogsEnabled {
		logging.SetMirror(newLogMirror(cfg.ServiceVersion))
	}

	logger.Info("uptrace enabled",
		"service_name", cfg.ServiceName,
		"environment", cfg.AppEnv,
		"logs_enabled", cfg.UptraceLogsEnabled,
	)

	return func(ctx context.Context) error {
		logging.SetMirror(nil)
		return uptrace.Shutdown(ctx)
	}, nil
}

func startProfiler(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   cfg.PyroscopeAppName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		Tags: map[string]string{
			"env":     cfg.AppEnv,
			"service": cfg.ServiceName,
			"storage": cfg.StorageDriver,
		},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
	})
	if err != nil {
		return nil, err
	}

	logger.Info("pyroscope enabled", "server_address", cfg.PyroscopeServerAddress, "application", cfg.PyroscopeAppName)

	return func(context.Context) error { return profiler.Stop() }, nil
}

// startPprof binds before returning so an occupied address fails startup.
func startPprof(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	ln, err := net.Listen("tcp", cfg.PprofAddr)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Handler:           pprofMux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("pprof server failed", "error", err)
		}
	}()

	logger.Info("pprof server listening", "addr", ln.Addr().String())

	return srv.Shutdown, nil
}

func pprofMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /debug/pprof/", pprof.Index)
	mux.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
	return mux
}
