package syscontrol

import (
	"encoding/json"
	"time"
)

// ModuleState represents the lifecycle state of a controlled module
type ModuleState int

const (
	// StateUnknown indicates the state could not be determined
	StateUnknown ModuleState = iota
	// StateStopped indicates the module has no running instances
	StateStopped
	// StateStarting indicates the module is scaling up but not yet running
	StateStarting
	// StateRunning indicates the module has at least one running instance
	StateRunning
	// StateStopping indicates the module is scaling down
	StateStopping
	// StateError indicates the control plane reported a failure or could
	// not be reached; absorbing until a later snapshot says otherwise
	StateError
)

// ModuleState string constants
const (
	stateUnknownStr  = "unknown"
	stateStoppedStr  = "stopped"
	stateStartingStr = "starting"
	stateRunningStr  = "running"
	stateStoppingStr = "stopping"
	stateErrorStr    = "error"
)

// String returns the string representation of the state
func (s ModuleState) String() string {
	switch s {
	case StateStopped:
		return stateStoppedStr
	case StateStarting:
		return stateStartingStr
	case StateRunning:
		return stateRunningStr
	case StateStopping:
		return stateStoppingStr
	case StateError:
		return stateErrorStr
	default:
		return stateUnknownStr
	}
}

// MarshalJSON encodes the state as its string token
func (s ModuleState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a string token into a ModuleState
func (s *ModuleState) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = moduleStateFromString(raw)
	return nil
}

// moduleStateFromString maps a backend-reported state token onto a
// ModuleState, degrading to StateUnknown for anything unrecognized
func moduleStateFromString(raw string) ModuleState {
	switch raw {
	case stateStoppedStr:
		return StateStopped
	case stateStartingStr:
		return StateStarting
	case stateRunningStr:
		return StateRunning
	case stateStoppingStr:
		return StateStopping
	case stateErrorStr:
		return StateError
	default:
		return StateUnknown
	}
}

// Health represents the normalized health of a controlled module
type Health int

const (
	// HealthUnknown indicates health could not be determined
	HealthUnknown Health = iota
	// HealthHealthy indicates the backend reports the module healthy
	HealthHealthy
	// HealthUnhealthy indicates the backend reports the module degraded
	HealthUnhealthy
)

// String returns the string representation of the health value
func (h Health) String() string {
	switch h {
	case HealthHealthy:
		return "healthy"
	case HealthUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the health value as its string token
func (h Health) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON decodes a string token into a Health value
func (h *Health) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*h = healthFromString(raw)
	return nil
}

// healthFromString maps a backend-reported health token onto a Health value
func healthFromString(raw string) Health {
	switch raw {
	case "healthy":
		return HealthHealthy
	case "unhealthy":
		return HealthUnhealthy
	default:
		return HealthUnknown
	}
}

// Metrics is a point-in-time resource snapshot reported by a backend.
// Not every backend supplies it; a nil Metrics on SystemModule means the
// backend had nothing to say.
type Metrics struct {
	// CPU is the CPU utilization, backend-defined units
	CPU float64 `json:"cpu"`
	// Memory is the memory utilization, backend-defined units
	Memory float64 `json:"memory"`
	// Requests is the request throughput, backend-defined units
	Requests float64 `json:"requests"`
}

// SystemModule is a point-in-time snapshot of one controlled module.
// Snapshots are derived fresh on every Status call and never cached or
// persisted by this layer; two consecutive calls may disagree.
type SystemModule struct {
	// Name is the logical module name as supplied by the caller
	Name string `json:"name"`
	// State is the normalized lifecycle state
	State ModuleState `json:"status"`
	// Health is the normalized health value
	Health Health `json:"health"`
	// LastHeartbeat is the most recent heartbeat reported by the backend,
	// zero if the backend does not track heartbeats
	LastHeartbeat time.Time `json:"lastHeartbeat,omitzero"`
	// Metrics is the optional resource snapshot
	Metrics *Metrics `json:"metrics,omitempty"`
}

// degradedModule builds the snapshot returned when a status payload is
// missing, malformed, or the transport failed outright
func degradedModule(name string) SystemModule {
	return SystemModule{Name: name, State: StateError, Health: HealthUnknown}
}

// ControlResponse is the universal envelope returned by every mutating
// operation. Failures travel inside it; no controller method reports a
// transport or backend error any other way.
type ControlResponse struct {
	// Success indicates whether the backend accepted the operation
	Success bool `json:"success"`
	// Message carries the backend's reply or a local failure description
	Message string `json:"message"`
	// Data is the optional backend-specific payload
	Data any `json:"data,omitempty"`
}

// okResponse builds a success envelope
func okResponse(message string, data any) ControlResponse {
	return ControlResponse{Success: true, Message: message, Data: data}
}

// failResponse builds a failure envelope from an error
func failResponse(err error) ControlResponse {
	return ControlResponse{Success: false, Message: err.Error()}
}
