package syscontrol

import "testing"

func TestResolveDeploymentType(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want DeploymentType
	}{
		{name: "systemd", raw: "systemd", want: DeploymentSystemd},
		{name: "ecs", raw: "ecs", want: DeploymentECS},
		{name: "k8s", raw: "k8s", want: DeploymentK8s},
		{name: "direct", raw: "direct", want: DeploymentDirect},
		{name: "uppercase", raw: "ECS", want: DeploymentECS},
		{name: "padded", raw: "  systemd\n", want: DeploymentSystemd},
		{name: "empty defaults to direct", raw: "", want: DeploymentDirect},
		{name: "unrecognized defaults to direct", raw: "nomad", want: DeploymentDirect},
		{name: "near miss defaults to direct", raw: "kubernetes", want: DeploymentDirect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveDeploymentType(tt.raw); got != tt.want {
				t.Errorf("ResolveDeploymentType(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDeploymentTypeString(t *testing.T) {
	tests := []struct {
		typ  DeploymentType
		want string
	}{
		{DeploymentSystemd, "systemd"},
		{DeploymentECS, "ecs"},
		{DeploymentK8s, "k8s"},
		{DeploymentDirect, "direct"},
		{DeploymentType(99), "direct"},
	}

	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("DeploymentType(%d).String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestResolveRoundTrip(t *testing.T) {
	for _, typ := range []DeploymentType{DeploymentSystemd, DeploymentECS, DeploymentK8s, DeploymentDirect} {
		if got := ResolveDeploymentType(typ.String()); got != typ {
			t.Errorf("ResolveDeploymentType(%q) = %v, want %v", typ.String(), got, typ)
		}
	}
}
