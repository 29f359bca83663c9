package syscontrol

// Default backend identifiers used when the configuration leaves them out
const (
	// DefaultECSCluster is the ECS cluster the arbitrage system runs in
	DefaultECSCluster = "arbitrage-cluster"
	// DefaultK8sNamespace is the Kubernetes namespace the system runs in
	DefaultK8sNamespace = "arbitrage"
)

// EndpointConfig carries the gateway address and the backend identifiers
// a controller needs. It is bound once at construction; there is no path
// for re-selecting a backend at runtime.
type EndpointConfig struct {
	// BaseURL is the control gateway base URL
	BaseURL string `yaml:"base_url"`
	// AuthToken is the optional bearer token for the gateway
	AuthToken string `yaml:"auth_token,omitempty"`
	// ECSCluster is the ECS cluster name, for DeploymentECS
	ECSCluster string `yaml:"ecs_cluster,omitempty"`
	// K8sNamespace is the Kubernetes namespace, for DeploymentK8s
	K8sNamespace string `yaml:"k8s_namespace,omitempty"`
}

// withDefaults fills in the default backend identifiers
func (c EndpointConfig) withDefaults() EndpointConfig {
	if c.ECSCluster == "" {
		c.ECSCluster = DefaultECSCluster
	}
	if c.K8sNamespace == "" {
		c.K8sNamespace = DefaultK8sNamespace
	}
	return c
}

// NewController constructs the controller for the given deployment type,
// speaking through the supplied transport. Every branch yields a working,
// contract-satisfying controller; anything unrecognized gets the direct
// controller, matching the resolver's safe default.
func NewController(typ DeploymentType, transport Transport, cfg EndpointConfig) SystemController {
	cfg = cfg.withDefaults()

	switch typ {
	case DeploymentSystemd:
		return NewSystemdController(transport)
	case DeploymentECS:
		return NewECSController(transport, cfg.ECSCluster)
	case DeploymentK8s:
		return NewK8sController(transport, cfg.K8sNamespace)
	default:
		return NewDirectController(transport)
	}
}

// NewControllerFromConfig resolves the deployment type, builds the default
// gateway transport from cfg, and constructs the matching controller.
// This is the production entry point; tests use NewController with a fake
// transport.
func NewControllerFromConfig(rawType string, cfg EndpointConfig) SystemController {
	var opts []TransportOption
	if cfg.AuthToken != "" {
		opts = append(opts, WithAuthToken(cfg.AuthToken))
	}
	transport := NewGatewayTransport(cfg.BaseURL, opts...)

	return NewController(ResolveDeploymentType(rawType), transport, cfg)
}
