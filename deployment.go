package syscontrol

import "strings"

// DeploymentType represents the kind of control plane the system runs under
type DeploymentType int

const (
	// DeploymentSystemd represents modules running as systemd units
	DeploymentSystemd DeploymentType = iota
	// DeploymentECS represents modules running as AWS ECS services
	DeploymentECS
	// DeploymentK8s represents modules running as Kubernetes deployments
	DeploymentK8s
	// DeploymentDirect represents a single directly spawned process
	DeploymentDirect
)

// DeploymentType string constants
const (
	deploymentSystemdStr = "systemd"
	deploymentECSStr     = "ecs"
	deploymentK8sStr     = "k8s"
	deploymentDirectStr  = "direct"
)

// String returns the string representation of the deployment type
func (d DeploymentType) String() string {
	switch d {
	case DeploymentSystemd:
		return deploymentSystemdStr
	case DeploymentECS:
		return deploymentECSStr
	case DeploymentK8s:
		return deploymentK8sStr
	default:
		return deploymentDirectStr
	}
}

// ResolveDeploymentType maps a raw configuration value onto a DeploymentType.
// Matching is case-insensitive and ignores surrounding whitespace. Anything
// that is not one of the four recognized tokens resolves to DeploymentDirect,
// so a machine with no deployment configuration at all still gets a working
// local-development controller. It never fails.
func ResolveDeploymentType(raw string) DeploymentType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case deploymentSystemdStr:
		return DeploymentSystemd
	case deploymentECSStr:
		return DeploymentECS
	case deploymentK8sStr:
		return DeploymentK8s
	default:
		return DeploymentDirect
	}
}
