package syscontrol

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultGatewayURL is used when neither file nor environment names a
// gateway, matching a locally spawned gateway in development.
const DefaultGatewayURL = "http://localhost:3000"

// Environment variable names read by LoadConfigFromEnv
const (
	EnvDeploymentMode = "ARBITRAGE_DEPLOYMENT_MODE"
	EnvGatewayURL     = "ARBITRAGE_GATEWAY_URL"
	EnvGatewayToken   = "ARBITRAGE_GATEWAY_TOKEN"
	EnvECSCluster     = "ARBITRAGE_ECS_CLUSTER"
	EnvK8sNamespace   = "ARBITRAGE_K8S_NAMESPACE"
)

// Config is the top-level configuration file structure. The deployment
// value is kept raw here; it is resolved exactly once, when a controller
// is constructed.
type Config struct {
	// Deployment is the raw deployment type token (systemd, ecs, k8s,
	// direct); anything else resolves to direct
	Deployment string `yaml:"deployment"`
	// Gateway carries the gateway address and backend identifiers
	Gateway EndpointConfig `yaml:"gateway"`
}

// setDefaults fills in the values a minimal config file leaves out
func (c *Config) setDefaults() {
	if c.Gateway.BaseURL == "" {
		c.Gateway.BaseURL = DefaultGatewayURL
	}
}

// LoadConfigFromFile loads configuration from a YAML file
func LoadConfigFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading configuration file %s: %w", filename, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing configuration file %s: %w", filename, err)
	}

	config.setDefaults()
	return &config, nil
}

// LoadConfigFromEnv builds configuration from process environment
// variables. Unset variables fall back to defaults, so a machine with no
// deployment configuration at all yields a direct controller against the
// local gateway.
func LoadConfigFromEnv() *Config {
	config := &Config{
		Deployment: os.Getenv(EnvDeploymentMode),
		Gateway: EndpointConfig{
			BaseURL:      os.Getenv(EnvGatewayURL),
			AuthToken:    os.Getenv(EnvGatewayToken),
			ECSCluster:   os.Getenv(EnvECSCluster),
			K8sNamespace: os.Getenv(EnvK8sNamespace),
		},
	}

	config.setDefaults()
	return config
}
