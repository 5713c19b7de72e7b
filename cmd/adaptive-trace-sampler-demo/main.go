// Command adaptive-trace-sampler-demo runs the adaptive sampler as a
// standalone HTTP process: every inbound request is offered to the
// controller and run through Sampler.ShouldSample, and a small debug
// surface exposes the controller's live top-K and resolved config.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/grafana/dskit/services"

	"github.com/grafana/adaptive-trace-sampler/pkg/sampler"
	"github.com/grafana/adaptive-trace-sampler/pkg/samplerhash"
)

const appName = "adaptive-trace-sampler-demo"

func main() {
	var cfg Config
	fs := flag.NewFlagSet(appName, flag.ExitOnError)
	cfg.RegisterFlagsAndApplyDefaults(fs)
	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "failed parsing flags: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Sampler.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stdout))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
	logger = level.NewFilter(logger, level.AllowInfo())
	sampler.Logger = logger

	instanceID := uuid.New().String()
	level.Info(logger).Log(
		"msg", "starting adaptive trace sampler demo",
		"instance_id", instanceID,
		"tenant", cfg.Sampler.Tenant,
		"cluster_id", cfg.Sampler.ClusterID,
	)

	controller := sampler.NewController(cfg.Sampler, sampler.StaticConfigProvider(cfg.Sampler.RootSpansPerMinute))
	controllerSvc := sampler.NewControllerService(controller, cfg.Sampler)

	ctx := context.Background()
	if err := services.StartAndAwaitRunning(ctx, controllerSvc); err != nil {
		level.Error(logger).Log("msg", "failed to start sampling controller", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := services.StopAndAwaitTerminated(context.Background(), controllerSvc); err != nil {
			level.Error(logger).Log("msg", "failed to stop sampling controller", "err", err)
		}
	}()

	s := sampler.New(cfg.Sampler, controller, samplerhash.Murmur64A)

	router := mux.NewRouter()
	newDebugHandler(controller, cfg, logger).RegisterRoutes(router)
	router.PathPrefix("/").HandlerFunc(sampleAndServe(s))

	addr := fmt.Sprintf("%s:%d", cfg.HTTPListenAddress, cfg.HTTPListenPort)
	srv := &http.Server{Addr: addr, Handler: router}

	go func() {
		level.Info(logger).Log("msg", "listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			level.Error(logger).Log("msg", "http server error", "err", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	level.Info(logger).Log("msg", "shutting down")
	if err := srv.Shutdown(context.Background()); err != nil {
		level.Error(logger).Log("msg", "error during http shutdown", "err", err)
	}
}

// sampleAndServe runs every request through ShouldSample and reports the
// outcome via response headers, standing in for whatever a real host would
// do with the decision (attach it to the span it is about to emit).
func sampleAndServe(s *sampler.Sampler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Trace-Id")
		if traceID == "" {
			traceID = r.RemoteAddr
		}

		var parent *sampler.SpanContext
		if ts := r.Header.Get("tracestate"); ts != "" {
			parent = &sampler.SpanContext{TraceState: ts}
		}

		result := s.ShouldSample(parent, traceID, &sampler.HTTPContext{
			Path:   r.URL.Path,
			Method: r.Method,
		})

		w.Header().Set("X-Sampling-Decision", result.Decision.String())
		w.Header().Set("tracestate", result.TraceState)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "decision=%s\n", result.Decision)
	}
}
