package syscontrol

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

func TestSystemdLifecyclePaths(t *testing.T) {
	tests := []struct {
		name string
		call func(context.Context, *SystemdController) ControlResponse
		path string
	}{
		{
			name: "start",
			call: func(ctx context.Context, c *SystemdController) ControlResponse { return c.Start(ctx, "trading") },
			path: "/api/control/systemd/start",
		},
		{
			name: "stop",
			call: func(ctx context.Context, c *SystemdController) ControlResponse { return c.Stop(ctx, "trading") },
			path: "/api/control/systemd/stop",
		},
		{
			name: "restart",
			call: func(ctx context.Context, c *SystemdController) ControlResponse { return c.Restart(ctx, "trading") },
			path: "/api/control/systemd/restart",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &fakeTransport{}
			controller := NewSystemdController(transport)

			resp := tt.call(context.Background(), controller)
			if !resp.Success {
				t.Fatalf("response not successful: %s", resp.Message)
			}

			calls := transport.recorded()
			if len(calls) != 1 {
				t.Fatalf("got %d calls, want 1", len(calls))
			}
			if calls[0].Method != http.MethodPost {
				t.Errorf("method = %s, want POST", calls[0].Method)
			}
			if calls[0].Path != tt.path {
				t.Errorf("path = %s, want %s", calls[0].Path, tt.path)
			}
			if got := bodyField(calls[0].Body, "service"); got != "arbitrage-trading.service" {
				t.Errorf("service = %v, want arbitrage-trading.service", got)
			}
		})
	}
}

func TestSystemdStatusPassThrough(t *testing.T) {
	transport := &fakeTransport{
		handler: func(call recordedCall) (*Reply, error) {
			if call.Query.Get("service") != "arbitrage-trading.service" {
				t.Errorf("service query = %q", call.Query.Get("service"))
			}
			return jsonReply(200, map[string]any{
				"status":  "running",
				"health":  "healthy",
				"metrics": map[string]float64{"cpu": 12.5, "memory": 310, "requests": 42},
			}), nil
		},
	}
	controller := NewSystemdController(transport)

	snapshot := controller.Status(context.Background(), "trading")
	if snapshot.Name != "trading" {
		t.Errorf("Name = %q, want trading", snapshot.Name)
	}
	if snapshot.State != StateRunning {
		t.Errorf("State = %v, want running", snapshot.State)
	}
	if snapshot.Health != HealthHealthy {
		t.Errorf("Health = %v, want healthy", snapshot.Health)
	}
	if snapshot.Metrics == nil || snapshot.Metrics.CPU != 12.5 {
		t.Errorf("Metrics = %+v", snapshot.Metrics)
	}
}

func TestSystemdStatusDegraded(t *testing.T) {
	controller := NewSystemdController(rejectingTransport())

	snapshot := controller.Status(context.Background(), "trading")
	if snapshot.State != StateError {
		t.Errorf("State = %v, want error", snapshot.State)
	}
	if snapshot.Health != HealthUnknown {
		t.Errorf("Health = %v, want unknown", snapshot.Health)
	}
}

func TestSystemdLogs(t *testing.T) {
	transport := &fakeTransport{
		handler: func(call recordedCall) (*Reply, error) {
			if call.Query.Get("lines") != "100" {
				t.Errorf("lines = %q, want default 100", call.Query.Get("lines"))
			}
			return jsonReply(200, map[string][]string{"logs": {"line one", "line two"}}), nil
		},
	}
	controller := NewSystemdController(transport)

	lines := controller.Logs(context.Background(), "trading", 0)
	if len(lines) != 2 || lines[0] != "line one" {
		t.Errorf("Logs = %v", lines)
	}
}

func TestSystemdUpdateConfigRestarts(t *testing.T) {
	transport := &fakeTransport{}
	controller := NewSystemdController(transport)

	resp := controller.UpdateConfig(context.Background(), "trading", map[string]any{"max_positions": 5})
	if !resp.Success {
		t.Fatalf("response not successful: %s", resp.Message)
	}

	calls := transport.recorded()
	if len(calls) != 2 {
		t.Fatalf("got %d calls, want config write then restart", len(calls))
	}
	if calls[0].Path != "/api/config/update" {
		t.Errorf("first call path = %s", calls[0].Path)
	}
	if calls[1].Path != "/api/control/systemd/restart" {
		t.Errorf("second call path = %s", calls[1].Path)
	}
}

func TestSystemdUpdateConfigWriteFails(t *testing.T) {
	transport := rejectingTransport()
	controller := NewSystemdController(transport)

	resp := controller.UpdateConfig(context.Background(), "trading", map[string]any{"k": "v"})
	if resp.Success {
		t.Fatal("expected failure")
	}
	if len(transport.recorded()) != 1 {
		t.Errorf("restart was attempted after failed config write")
	}
}

func TestSystemdUpdateConfigRestartFails(t *testing.T) {
	transport := &fakeTransport{
		handler: func(call recordedCall) (*Reply, error) {
			if strings.HasSuffix(call.Path, "/restart") {
				return jsonReply(500, map[string]string{"error": "unit failed"}), nil
			}
			return jsonReply(200, map[string]any{}), nil
		},
	}
	controller := NewSystemdController(transport)

	resp := controller.UpdateConfig(context.Background(), "trading", map[string]any{"k": "v"})
	if resp.Success {
		t.Fatal("expected failure when restart fails")
	}
	if !strings.Contains(resp.Message, "restart failed") {
		t.Errorf("Message = %q", resp.Message)
	}
}
