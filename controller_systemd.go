package syscontrol

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// SystemdController drives modules deployed as systemd units, through the
// control gateway's systemd surface. Module names map onto unit names as
// "arbitrage-<module>.service".
type SystemdController struct {
	transport Transport
}

// NewSystemdController creates a controller speaking the gateway's
// systemd protocol over the given transport
func NewSystemdController(t Transport) *SystemdController {
	return &SystemdController{transport: t}
}

// Type identifies the control plane
func (c *SystemdController) Type() DeploymentType {
	return DeploymentSystemd
}

// unitBody is the request body for systemd lifecycle calls
type unitBody struct {
	Service string `json:"service"`
}

func (c *SystemdController) lifecycle(ctx context.Context, op Operation, module, path string) ControlResponse {
	unit := unitName(module)

	var ack ackPayload
	err := callJSON(ctx, c.transport, op, module, http.MethodPost, path, nil, unitBody{Service: unit}, &ack)
	if err != nil {
		return failResponse(err)
	}

	return ack.response(fmt.Sprintf("%s issued for %s", op, unit))
}

// Start asks systemd to start the module's unit
func (c *SystemdController) Start(ctx context.Context, module string) ControlResponse {
	return c.lifecycle(ctx, OpStart, module, "/api/control/systemd/start")
}

// Stop asks systemd to stop the module's unit
func (c *SystemdController) Stop(ctx context.Context, module string) ControlResponse {
	return c.lifecycle(ctx, OpStop, module, "/api/control/systemd/stop")
}

// Restart uses systemd's native restart
func (c *SystemdController) Restart(ctx context.Context, module string) ControlResponse {
	return c.lifecycle(ctx, OpRestart, module, "/api/control/systemd/restart")
}

// systemdStatusPayload is the gateway's systemd status shape. The gateway
// already normalizes systemctl output, so this is a pass-through.
type systemdStatusPayload struct {
	Status        string    `json:"status"`
	Health        string    `json:"health"`
	LastHeartbeat time.Time `json:"lastHeartbeat"`
	Metrics       *Metrics  `json:"metrics"`
}

// Status returns a snapshot of the module's unit
func (c *SystemdController) Status(ctx context.Context, module string) SystemModule {
	query := url.Values{"service": {unitName(module)}}

	var payload systemdStatusPayload
	err := callJSON(ctx, c.transport, OpStatus, module, http.MethodGet, "/api/control/systemd/status", query, nil, &payload)
	if err != nil {
		return degradedModule(module)
	}

	return SystemModule{
		Name:          module,
		State:         moduleStateFromString(payload.Status),
		Health:        healthFromString(payload.Health),
		LastHeartbeat: payload.LastHeartbeat,
		Metrics:       payload.Metrics,
	}
}

// Logs fetches recent journal lines for the module's unit
func (c *SystemdController) Logs(ctx context.Context, module string, lines int) []string {
	query := url.Values{
		"service": {unitName(module)},
		"lines":   {strconv.Itoa(normalizeLines(lines))},
	}

	var payload logLines
	err := callJSON(ctx, c.transport, OpLogs, module, http.MethodGet, "/api/control/systemd/logs", query, nil, &payload)
	if err != nil {
		return diagnosticLogs(err)
	}

	return payload
}

// configUpdateBody is the request body for gateway config file writes
type configUpdateBody struct {
	Service string         `json:"service,omitempty"`
	Config  map[string]any `json:"config"`
}

// UpdateConfig writes the module's config file through the gateway, then
// restarts the unit so the new file is picked up
func (c *SystemdController) UpdateConfig(ctx context.Context, module string, config map[string]any) ControlResponse {
	body := configUpdateBody{Service: unitName(module), Config: config}

	var ack ackPayload
	err := callJSON(ctx, c.transport, OpUpdateConfig, module, http.MethodPost, "/api/config/update", nil, body, &ack)
	if err != nil {
		return failResponse(err)
	}

	restart := c.Restart(ctx, module)
	if !restart.Success {
		return ControlResponse{
			Success: false,
			Message: fmt.Sprintf("config written but restart failed: %s", restart.Message),
		}
	}

	return ack.response(fmt.Sprintf("config updated, %s restarted", unitName(module)))
}
