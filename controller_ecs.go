package syscontrol

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ECSController drives modules deployed as AWS ECS services in one named
// cluster. Module names map onto service names as "arbitrage-<module>".
// Start and stop are expressed as desired-count changes, so they are
// fire-and-forget: callers poll Status until the service converges.
type ECSController struct {
	transport Transport
	cluster   string
}

// NewECSController creates a controller for ECS services in cluster
func NewECSController(t Transport, cluster string) *ECSController {
	return &ECSController{transport: t, cluster: cluster}
}

// Type identifies the control plane
func (c *ECSController) Type() DeploymentType {
	return DeploymentECS
}

// ecsScaleBody is the request body for desired-count changes
type ecsScaleBody struct {
	Cluster      string `json:"cluster"`
	Service      string `json:"service"`
	DesiredCount int    `json:"desiredCount"`
}

func (c *ECSController) scale(ctx context.Context, op Operation, module string, count int) ControlResponse {
	service := resourceName(module)
	body := ecsScaleBody{Cluster: c.cluster, Service: service, DesiredCount: count}

	var ack ackPayload
	err := callJSON(ctx, c.transport, op, module, http.MethodPut, "/api/control/ecs/services", nil, body, &ack)
	if err != nil {
		return failResponse(err)
	}

	return ack.response(fmt.Sprintf("desiredCount=%d set for %s in %s", count, service, c.cluster))
}

// Start sets the service's desired count to 1
func (c *ECSController) Start(ctx context.Context, module string) ControlResponse {
	return c.scale(ctx, OpStart, module, 1)
}

// Stop sets the service's desired count to 0
func (c *ECSController) Stop(ctx context.Context, module string) ControlResponse {
	return c.scale(ctx, OpStop, module, 0)
}

// ecsServiceBody is the request body for calls addressing one service
type ecsServiceBody struct {
	Cluster string `json:"cluster"`
	Service string `json:"service"`
}

// Restart uses the gateway's native ECS restart
func (c *ECSController) Restart(ctx context.Context, module string) ControlResponse {
	service := resourceName(module)
	body := ecsServiceBody{Cluster: c.cluster, Service: service}

	var ack ackPayload
	err := callJSON(ctx, c.transport, OpRestart, module, http.MethodPost, "/api/control/ecs/restart", nil, body, &ack)
	if err != nil {
		return failResponse(err)
	}

	return ack.response(fmt.Sprintf("restart issued for %s in %s", service, c.cluster))
}

// ecsStatusPayload is the gateway's ECS service description
type ecsStatusPayload struct {
	RunningCount  int       `json:"runningCount"`
	DesiredCount  int       `json:"desiredCount"`
	HealthStatus  string    `json:"healthStatus"`
	LastHeartbeat time.Time `json:"lastHeartbeat"`
	Metrics       *Metrics  `json:"metrics"`
}

// Status returns a snapshot derived from the service description:
// running iff at least one task is running, health from the service's
// reported health status
func (c *ECSController) Status(ctx context.Context, module string) SystemModule {
	path := fmt.Sprintf("/api/control/ecs/services/%s/%s", c.cluster, resourceName(module))

	var payload ecsStatusPayload
	err := callJSON(ctx, c.transport, OpStatus, module, http.MethodGet, path, nil, nil, &payload)
	if err != nil {
		return degradedModule(module)
	}

	state := StateStopped
	if payload.RunningCount > 0 {
		state = StateRunning
	}

	return SystemModule{
		Name:          module,
		State:         state,
		Health:        healthFromString(strings.ToLower(payload.HealthStatus)),
		LastHeartbeat: payload.LastHeartbeat,
		Metrics:       payload.Metrics,
	}
}

// Logs fetches recent container log lines for the module's service
func (c *ECSController) Logs(ctx context.Context, module string, lines int) []string {
	query := url.Values{
		"cluster": {c.cluster},
		"service": {resourceName(module)},
		"lines":   {strconv.Itoa(normalizeLines(lines))},
	}

	var payload logLines
	err := callJSON(ctx, c.transport, OpLogs, module, http.MethodGet, "/api/control/ecs/logs", query, nil, &payload)
	if err != nil {
		return diagnosticLogs(err)
	}

	return payload
}

// ecsTaskDefBody is the request body for task-definition updates
type ecsTaskDefBody struct {
	Cluster     string         `json:"cluster"`
	Service     string         `json:"service"`
	Environment map[string]any `json:"environment"`
}

// UpdateConfig pushes the config as container environment via a
// task-definition revision. ECS rolls the service onto the new revision
// itself; no explicit restart is needed.
func (c *ECSController) UpdateConfig(ctx context.Context, module string, config map[string]any) ControlResponse {
	service := resourceName(module)
	body := ecsTaskDefBody{Cluster: c.cluster, Service: service, Environment: config}

	var ack ackPayload
	err := callJSON(ctx, c.transport, OpUpdateConfig, module, http.MethodPost, "/api/control/ecs/task-definition", nil, body, &ack)
	if err != nil {
		return failResponse(err)
	}

	return ack.response(fmt.Sprintf("task definition updated for %s in %s", service, c.cluster))
}
