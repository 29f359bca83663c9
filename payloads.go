package syscontrol

import "encoding/json"

// ackPayload is the loose acknowledgement shape the gateway returns for
// mutating operations. Success defaults to true for a 2xx reply with no
// explicit success field.
type ackPayload struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// response flattens the acknowledgement into a ControlResponse, using
// fallback when the gateway sent no message of its own
func (a ackPayload) response(fallback string) ControlResponse {
	success := true
	if a.Success != nil {
		success = *a.Success
	}

	msg := a.Message
	if msg == "" {
		msg = fallback
	}

	return ControlResponse{Success: success, Message: msg, Data: a.Data}
}

// logLines decodes a gateway log reply. The gateway answers either with a
// bare JSON array or with an object wrapping it under "logs"; both shapes
// appear in the wild depending on gateway version.
type logLines []string

// UnmarshalJSON accepts both log reply shapes
func (l *logLines) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*l = arr
		return nil
	}

	var wrapped struct {
		Logs []string `json:"logs"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	*l = wrapped.Logs
	return nil
}

// diagnosticLogs builds the single-element slice Logs returns on total
// failure, so log-viewing callers always have something to render
func diagnosticLogs(err error) []string {
	return []string{"error fetching logs: " + err.Error()}
}
