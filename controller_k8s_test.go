package syscontrol

import (
	"context"
	"strings"
	"testing"
)

func TestK8sScaleBodies(t *testing.T) {
	tests := []struct {
		name         string
		call         func(context.Context, *K8sController) ControlResponse
		wantReplicas float64
	}{
		{
			name:         "start scales to 1",
			call:         func(ctx context.Context, c *K8sController) ControlResponse { return c.Start(ctx, "trading") },
			wantReplicas: 1,
		},
		{
			name:         "stop scales to 0",
			call:         func(ctx context.Context, c *K8sController) ControlResponse { return c.Stop(ctx, "trading") },
			wantReplicas: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &fakeTransport{}
			controller := NewK8sController(transport, "prod")

			resp := tt.call(context.Background(), controller)
			if !resp.Success {
				t.Fatalf("response not successful: %s", resp.Message)
			}

			calls := transport.recorded()
			if len(calls) != 1 || calls[0].Path != "/api/control/k8s/scale" {
				t.Fatalf("calls = %+v", calls)
			}
			if got := bodyField(calls[0].Body, "namespace"); got != "prod" {
				t.Errorf("namespace = %v", got)
			}
			if got := bodyField(calls[0].Body, "deployment"); got != "arbitrage-trading" {
				t.Errorf("deployment = %v", got)
			}
			if got := bodyField(calls[0].Body, "replicas"); got != tt.wantReplicas {
				t.Errorf("replicas = %v, want %v", got, tt.wantReplicas)
			}
		})
	}
}

func TestK8sStatusNormalization(t *testing.T) {
	tests := []struct {
		name       string
		payload    map[string]any
		wantState  ModuleState
		wantHealth Health
	}{
		{
			name:       "no ready replicas is stopped",
			payload:    map[string]any{"readyReplicas": 0},
			wantState:  StateStopped,
			wantHealth: HealthUnhealthy,
		},
		{
			name: "ready replicas and available condition",
			payload: map[string]any{
				"readyReplicas": 2,
				"conditions":    []map[string]string{{"type": "Available", "status": "True"}},
			},
			wantState:  StateRunning,
			wantHealth: HealthHealthy,
		},
		{
			name: "available condition false",
			payload: map[string]any{
				"readyReplicas": 1,
				"conditions":    []map[string]string{{"type": "Available", "status": "False"}},
			},
			wantState:  StateRunning,
			wantHealth: HealthUnhealthy,
		},
		{
			name: "conditions lack available entry",
			payload: map[string]any{
				"readyReplicas": 1,
				"conditions":    []map[string]string{{"type": "Progressing", "status": "True"}},
			},
			wantState:  StateRunning,
			wantHealth: HealthUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &fakeTransport{
				handler: func(call recordedCall) (*Reply, error) {
					wantPath := "/api/control/k8s/deployments/prod/arbitrage-trading"
					if call.Path != wantPath {
						t.Errorf("path = %s, want %s", call.Path, wantPath)
					}
					return jsonReply(200, tt.payload), nil
				},
			}
			controller := NewK8sController(transport, "prod")

			snapshot := controller.Status(context.Background(), "trading")
			if snapshot.State != tt.wantState {
				t.Errorf("State = %v, want %v", snapshot.State, tt.wantState)
			}
			if snapshot.Health != tt.wantHealth {
				t.Errorf("Health = %v, want %v", snapshot.Health, tt.wantHealth)
			}
		})
	}
}

func TestK8sUpdateConfigOrdering(t *testing.T) {
	t.Run("configmap write failure returns unchanged, no restart", func(t *testing.T) {
		transport := &fakeTransport{
			handler: func(call recordedCall) (*Reply, error) {
				return jsonReply(500, map[string]string{"error": "configmap write denied"}), nil
			},
		}
		controller := NewK8sController(transport, "prod")

		resp := controller.UpdateConfig(context.Background(), "trading", map[string]any{"k": "v"})
		if resp.Success {
			t.Fatal("expected failure")
		}
		if !strings.Contains(resp.Message, "configmap write denied") {
			t.Errorf("Message = %q, want the original PUT failure", resp.Message)
		}

		calls := transport.recorded()
		if len(calls) != 1 {
			t.Fatalf("got %d calls, want 1, rollout restart must not follow a failed write", len(calls))
		}
		if calls[0].Path != "/api/control/k8s/configmap" {
			t.Errorf("path = %s", calls[0].Path)
		}
	})

	t.Run("configmap write success triggers rollout restart", func(t *testing.T) {
		transport := &fakeTransport{}
		controller := NewK8sController(transport, "prod")

		resp := controller.UpdateConfig(context.Background(), "trading", map[string]any{"k": "v"})
		if !resp.Success {
			t.Fatalf("response not successful: %s", resp.Message)
		}

		calls := transport.recorded()
		if len(calls) != 2 {
			t.Fatalf("got %d calls, want configmap write then rollout restart", len(calls))
		}
		if calls[0].Method != "PUT" || calls[0].Path != "/api/control/k8s/configmap" {
			t.Errorf("first call = %s %s", calls[0].Method, calls[0].Path)
		}
		if got := bodyField(calls[0].Body, "name"); got != "arbitrage-trading-config" {
			t.Errorf("configmap name = %v", got)
		}
		if calls[1].Path != "/api/control/k8s/rollout-restart" {
			t.Errorf("second call path = %s", calls[1].Path)
		}
	})
}

func TestK8sLogsQuery(t *testing.T) {
	transport := &fakeTransport{
		handler: func(call recordedCall) (*Reply, error) {
			if call.Path != "/api/control/k8s/logs" {
				t.Errorf("path = %s", call.Path)
			}
			if call.Query.Get("namespace") != "prod" || call.Query.Get("deployment") != "arbitrage-trading" {
				t.Errorf("query = %v", call.Query)
			}
			return jsonReply(200, map[string][]string{"logs": {"pod line"}}), nil
		},
	}
	controller := NewK8sController(transport, "prod")

	lines := controller.Logs(context.Background(), "trading", 100)
	if len(lines) != 1 || lines[0] != "pod line" {
		t.Errorf("Logs = %v", lines)
	}
}
