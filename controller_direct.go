package syscontrol

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultRestartDelay is the pause between stop and start when restarting
// the directly spawned process, giving it time to release its listening
// port before the new instance binds.
const DefaultRestartDelay = 2000 * time.Millisecond

// DirectController drives a single directly spawned process. The process
// exposes one global control surface, so the module parameter is an
// alias: every module name addresses the same process, and the name is
// echoed back in responses and snapshots so callers can see the aliasing.
//
// This is the safe default controller: it needs no backend identifiers
// and works against a bare local gateway.
type DirectController struct {
	transport Transport

	// restartDelay is the pause between stop and start during Restart
	restartDelay time.Duration
}

// DirectOption configures a DirectController
type DirectOption func(*DirectController)

// WithRestartDelay overrides the stop-to-start pause used by Restart
func WithRestartDelay(d time.Duration) DirectOption {
	return func(c *DirectController) {
		c.restartDelay = d
	}
}

// NewDirectController creates a controller for the directly spawned process
func NewDirectController(t Transport, opts ...DirectOption) *DirectController {
	c := &DirectController{
		transport:    t,
		restartDelay: DefaultRestartDelay,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Type identifies the control plane
func (c *DirectController) Type() DeploymentType {
	return DeploymentDirect
}

func (c *DirectController) lifecycle(ctx context.Context, op Operation, module, path, fallback string) ControlResponse {
	var ack ackPayload
	err := callJSON(ctx, c.transport, op, module, http.MethodPost, path, nil, nil, &ack)
	if err != nil {
		return failResponse(err)
	}

	return ack.response(fallback)
}

// Start starts the process
func (c *DirectController) Start(ctx context.Context, module string) ControlResponse {
	return c.lifecycle(ctx, OpStart, module, "/api/system/start", "system start issued (module "+module+" aliases the single process)")
}

// Stop stops the process
func (c *DirectController) Stop(ctx context.Context, module string) ControlResponse {
	return c.lifecycle(ctx, OpStop, module, "/api/system/stop", "system stop issued (module "+module+" aliases the single process)")
}

// Restart stops the process, waits for the restart delay so the old
// instance can release its listening port, then starts it again. There is
// no native restart primitive on this backend, so this is the one
// operation in the package with a built-in ordering guarantee.
func (c *DirectController) Restart(ctx context.Context, module string) ControlResponse {
	stop := c.Stop(ctx, module)
	if !stop.Success {
		return stop
	}

	timer := time.NewTimer(c.restartDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return failResponse(&OpError{Op: OpRestart, Module: module, Err: ctx.Err()})
	}

	return c.Start(ctx, module)
}

// directStatusPayload is the process's global status shape
type directStatusPayload struct {
	IsRunning     bool      `json:"isRunning"`
	Health        string    `json:"health"`
	LastHeartbeat time.Time `json:"lastHeartbeat"`
	Metrics       *Metrics  `json:"metrics"`
}

// Status returns a snapshot of the single process, labeled with the
// requested module name
func (c *DirectController) Status(ctx context.Context, module string) SystemModule {
	var payload directStatusPayload
	err := callJSON(ctx, c.transport, OpStatus, module, http.MethodGet, "/api/system/status", nil, nil, &payload)
	if err != nil {
		return degradedModule(module)
	}

	state := StateStopped
	if payload.IsRunning {
		state = StateRunning
	}

	return SystemModule{
		Name:          module,
		State:         state,
		Health:        healthFromString(payload.Health),
		LastHeartbeat: payload.LastHeartbeat,
		Metrics:       payload.Metrics,
	}
}

// Logs fetches recent log lines from the process's global log endpoint
func (c *DirectController) Logs(ctx context.Context, module string, lines int) []string {
	query := url.Values{"lines": {strconv.Itoa(normalizeLines(lines))}}

	var payload logLines
	err := callJSON(ctx, c.transport, OpLogs, module, http.MethodGet, "/api/system/logs", query, nil, &payload)
	if err != nil {
		return diagnosticLogs(err)
	}

	return payload
}

// UpdateConfig posts the raw config to the process. The process applies
// it in place; no restart is triggered.
func (c *DirectController) UpdateConfig(ctx context.Context, module string, config map[string]any) ControlResponse {
	var ack ackPayload
	err := callJSON(ctx, c.transport, OpUpdateConfig, module, http.MethodPost, "/api/config/update", nil, config, &ack)
	if err != nil {
		return failResponse(err)
	}

	return ack.response("config updated")
}
