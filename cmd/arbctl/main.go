// Command arbctl issues lifecycle commands against the running arbitrage
// system through the deployment-agnostic control layer. The backend
// (systemd, ECS, Kubernetes, or a direct process) is selected once from
// configuration; every subcommand works identically against all four.
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	syscontrol "github.com/ming198921/arbitrage-control"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "arbctl:", err)
		os.Exit(1)
	}
}

// newFacade builds the facade from the --config file when given,
// otherwise from the environment
func newFacade(configPath string, verbose bool) (*syscontrol.Facade, error) {
	var config *syscontrol.Config
	var err error

	if configPath != "" {
		config, err = syscontrol.LoadConfigFromFile(configPath)
		if err != nil {
			return nil, err
		}
	} else {
		config = syscontrol.LoadConfigFromEnv()
	}

	logger, err := newLogger(verbose)
	if err != nil {
		return nil, err
	}

	controller := syscontrol.NewControllerFromConfig(config.Deployment, config.Gateway)
	return syscontrol.NewFacade(controller, syscontrol.WithLogger(logger)), nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}
