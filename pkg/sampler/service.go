package sampler

import (
	"context"
	"time"

	"github.com/go-kit/log/level"
	"github.com/grafana/dskit/services"
)

// ControllerService wraps a SamplingController in a dskit services.Service,
// the lifecycle convention tempo's own periodic modules use (see
// modules/backendscheduler.BackendScheduler): starting/running/stopping
// hooks, installed once at construction, torn down by cancelling the
// ticker before the service stops. A host that already runs a dskit module
// manager supervises this exactly like any other tempo module; apart from
// this wrapper and TickerScheduler, the core never starts a background
// goroutine.
type ControllerService struct {
	services.Service

	controller *SamplingController
	interval   time.Duration
}

// NewControllerService installs the periodic Update() callback at
// cfg.RefreshInterval (default one minute). The ticker starts when the
// service starts running, not at construction.
func NewControllerService(controller *SamplingController, cfg Config) *ControllerService {
	cfg.ApplyDefaults()
	s := &ControllerService{
		controller: controller,
		interval:   cfg.RefreshInterval,
	}
	s.Service = services.NewBasicService(nil, s.running, nil)
	return s
}

func (s *ControllerService) running(ctx context.Context) error {
	level.Info(Logger).Log("msg", "adaptive sampler controller running", "refresh_interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.controller.Update(ctx)
		}
	}
}
