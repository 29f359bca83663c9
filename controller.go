package syscontrol

import (
	"context"
)

// DefaultLogLines is the number of log lines fetched when the caller
// does not ask for a specific count.
const DefaultLogLines = 100

// SystemController is the uniform contract all backend controllers
// implement. It maps six generic lifecycle verbs onto one control plane's
// native protocol and normalizes that backend's status shape.
//
// No method reports failure by returning an error or panicking: transport
// failures, non-2xx backend replies, and malformed payloads are all folded
// into the return value. Mutating verbs yield a ControlResponse whose
// Success field callers branch on; Status yields a degraded snapshot with
// State=StateError and Health=HealthUnknown; Logs yields a single-element
// slice describing the failure, so a log viewer always has something to
// render.
//
// No method retries. A failed attempt is reported once and retry or
// backoff policy belongs to the caller, as does polling Status until an
// asynchronous backend (ECS or Kubernetes scale-up is fire-and-forget)
// converges on the requested state.
type SystemController interface {
	// Start brings the named module up
	Start(ctx context.Context, module string) ControlResponse
	// Stop brings the named module down
	Stop(ctx context.Context, module string) ControlResponse
	// Restart cycles the named module using the backend's native restart
	// primitive where one exists
	Restart(ctx context.Context, module string) ControlResponse
	// Status returns a fresh point-in-time snapshot of the named module
	Status(ctx context.Context, module string) SystemModule
	// Logs fetches up to lines recent log lines for the named module;
	// lines <= 0 requests DefaultLogLines
	Logs(ctx context.Context, module string, lines int) []string
	// UpdateConfig pushes new configuration for the named module and,
	// where the backend needs it, triggers a restart to apply it
	UpdateConfig(ctx context.Context, module string, config map[string]any) ControlResponse

	// Type identifies the control plane this controller speaks to
	Type() DeploymentType
}

// normalizeLines applies the default log line count
func normalizeLines(lines int) int {
	if lines <= 0 {
		return DefaultLogLines
	}
	return lines
}
