package syscontrol

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// K8sController drives modules deployed as Kubernetes Deployments in one
// namespace. Module names map onto deployment names as
// "arbitrage-<module>". Scaling is fire-and-forget: callers poll Status
// until readyReplicas reflects the requested state.
type K8sController struct {
	transport Transport
	namespace string
}

// NewK8sController creates a controller for deployments in namespace
func NewK8sController(t Transport, namespace string) *K8sController {
	return &K8sController{transport: t, namespace: namespace}
}

// Type identifies the control plane
func (c *K8sController) Type() DeploymentType {
	return DeploymentK8s
}

// k8sScaleBody is the request body for replica changes
type k8sScaleBody struct {
	Namespace  string `json:"namespace"`
	Deployment string `json:"deployment"`
	Replicas   int    `json:"replicas"`
}

func (c *K8sController) scale(ctx context.Context, op Operation, module string, replicas int) ControlResponse {
	deployment := resourceName(module)
	body := k8sScaleBody{Namespace: c.namespace, Deployment: deployment, Replicas: replicas}

	var ack ackPayload
	err := callJSON(ctx, c.transport, op, module, http.MethodPost, "/api/control/k8s/scale", nil, body, &ack)
	if err != nil {
		return failResponse(err)
	}

	return ack.response(fmt.Sprintf("replicas=%d set for %s/%s", replicas, c.namespace, deployment))
}

// Start scales the module's deployment to 1 replica
func (c *K8sController) Start(ctx context.Context, module string) ControlResponse {
	return c.scale(ctx, OpStart, module, 1)
}

// Stop scales the module's deployment to 0 replicas
func (c *K8sController) Stop(ctx context.Context, module string) ControlResponse {
	return c.scale(ctx, OpStop, module, 0)
}

// k8sDeploymentBody is the request body for calls addressing one deployment
type k8sDeploymentBody struct {
	Namespace  string `json:"namespace"`
	Deployment string `json:"deployment"`
}

// Restart issues a rollout restart, cycling pods without changing the
// desired replica count
func (c *K8sController) Restart(ctx context.Context, module string) ControlResponse {
	deployment := resourceName(module)
	body := k8sDeploymentBody{Namespace: c.namespace, Deployment: deployment}

	var ack ackPayload
	err := callJSON(ctx, c.transport, OpRestart, module, http.MethodPost, "/api/control/k8s/rollout-restart", nil, body, &ack)
	if err != nil {
		return failResponse(err)
	}

	return ack.response(fmt.Sprintf("rollout restart issued for %s/%s", c.namespace, deployment))
}

// k8sCondition mirrors a deployment status condition
type k8sCondition struct {
	Type   string `json:"type"`
	Status string `json:"status"`
}

// k8sStatusPayload is the gateway's deployment description
type k8sStatusPayload struct {
	Replicas      int            `json:"replicas"`
	ReadyReplicas int            `json:"readyReplicas"`
	Conditions    []k8sCondition `json:"conditions"`
	LastHeartbeat time.Time      `json:"lastHeartbeat"`
	Metrics       *Metrics       `json:"metrics"`
}

// Status returns a snapshot derived from the deployment description:
// running iff at least one replica is ready, healthy iff a condition of
// type Available reports status True
func (c *K8sController) Status(ctx context.Context, module string) SystemModule {
	path := fmt.Sprintf("/api/control/k8s/deployments/%s/%s", c.namespace, resourceName(module))

	var payload k8sStatusPayload
	err := callJSON(ctx, c.transport, OpStatus, module, http.MethodGet, path, nil, nil, &payload)
	if err != nil {
		return degradedModule(module)
	}

	state := StateStopped
	if payload.ReadyReplicas > 0 {
		state = StateRunning
	}

	health := HealthUnhealthy
	for _, cond := range payload.Conditions {
		if cond.Type == "Available" && cond.Status == "True" {
			health = HealthHealthy
			break
		}
	}

	return SystemModule{
		Name:          module,
		State:         state,
		Health:        health,
		LastHeartbeat: payload.LastHeartbeat,
		Metrics:       payload.Metrics,
	}
}

// Logs fetches recent pod log lines for the module's deployment
func (c *K8sController) Logs(ctx context.Context, module string, lines int) []string {
	query := url.Values{
		"namespace":  {c.namespace},
		"deployment": {resourceName(module)},
		"lines":      {strconv.Itoa(normalizeLines(lines))},
	}

	var payload logLines
	err := callJSON(ctx, c.transport, OpLogs, module, http.MethodGet, "/api/control/k8s/logs", query, nil, &payload)
	if err != nil {
		return diagnosticLogs(err)
	}

	return payload
}

// k8sConfigMapBody is the request body for ConfigMap writes
type k8sConfigMapBody struct {
	Namespace string         `json:"namespace"`
	Name      string         `json:"name"`
	Data      map[string]any `json:"data"`
}

// UpdateConfig writes the module's ConfigMap, then issues a rollout
// restart so pods pick it up. The restart runs only when the ConfigMap
// write succeeded; a failed write is returned as-is with no restart.
func (c *K8sController) UpdateConfig(ctx context.Context, module string, config map[string]any) ControlResponse {
	name := resourceName(module) + "-config"
	body := k8sConfigMapBody{Namespace: c.namespace, Name: name, Data: config}

	var ack ackPayload
	err := callJSON(ctx, c.transport, OpUpdateConfig, module, http.MethodPut, "/api/control/k8s/configmap", nil, body, &ack)
	if err != nil {
		return failResponse(err)
	}

	restart := c.Restart(ctx, module)
	if !restart.Success {
		return ControlResponse{
			Success: false,
			Message: fmt.Sprintf("configmap %s updated but rollout restart failed: %s", name, restart.Message),
		}
	}

	return ack.response(fmt.Sprintf("configmap %s updated, rollout restart issued", name))
}
