package syscontrol

// Version is the current version of the arbitrage-control library
const Version = "1.0.0"

// VersionInfo contains detailed version information
type VersionInfo struct {
	// Version is the semantic version
	Version string
	// Backends lists the control planes this build can speak to
	Backends []string
}

// GetVersion returns the current version information
func GetVersion() VersionInfo {
	return VersionInfo{
		Version: Version,
		Backends: []string{
			deploymentSystemdStr,
			deploymentECSStr,
			deploymentK8sStr,
			deploymentDirectStr,
		},
	}
}
