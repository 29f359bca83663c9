package syscontrol

// resourcePrefix is the fixed prefix every backend resource name carries.
// The mapping from module name to resource name is deterministic and 1:1;
// nothing else in the system is allowed to know about it.
const resourcePrefix = "arbitrage-"

// resourceName returns the ECS service / Kubernetes deployment name for a
// logical module ("trading" -> "arbitrage-trading")
func resourceName(module string) string {
	return resourcePrefix + module
}

// unitName returns the systemd unit name for a logical module
// ("trading" -> "arbitrage-trading.service")
func unitName(module string) string {
	return resourceName(module) + ".service"
}
