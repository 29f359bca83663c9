// Package syscontrol provides a deployment-agnostic client for issuing
// lifecycle commands against the running arbitrage system, whether it is
// deployed as systemd units, an AWS ECS cluster, Kubernetes deployments,
// or a single directly spawned process.
//
// The core of the package is the SystemController contract: six uniform
// verbs (start, stop, restart, status, logs, update config) that each
// backend controller translates into its control plane's native HTTP
// protocol, normalizing heterogeneous status shapes into one SystemModule
// snapshot form:
//
//	cfg := syscontrol.EndpointConfig{BaseURL: "http://gateway:3000"}
//	controller := syscontrol.NewControllerFromConfig("ecs", cfg)
//
//	resp := controller.Start(ctx, "trading")
//	if !resp.Success {
//	    log.Println("start failed:", resp.Message)
//	}
//
// Failures are data, not control flow: no controller method returns an
// error or panics across the contract. Mutating verbs answer with a
// ControlResponse, Status degrades to an error-state snapshot, and Logs
// returns a single diagnostic line, so callers branch uniformly
// regardless of backend.
//
// # Facade for Applications
//
// The Facade type is the object applications hold. It binds exactly one
// controller at construction (selection happens once, from configuration,
// never per call), adds sequential batch operations over lists of module
// names, serializes mutating verbs per module name, and logs the active
// deployment type alongside every operation:
//
//	facade := syscontrol.NewFacade(controller, syscontrol.WithLogger(logger))
//
//	results := facade.StartAll(ctx, []string{"trading", "strategy", "risk"})
//	for module, resp := range results {
//	    fmt.Printf("%s: %v %s\n", module, resp.Success, resp.Message)
//	}
//
// # Watching for Convergence
//
// ECS and Kubernetes scale operations are fire-and-forget: a successful
// Start means the control plane accepted the request, not that the module
// is running. Watch and Wait poll Status and surface changes, so callers
// do not reimplement the same polling loop:
//
//	snapshot, err := facade.Wait(ctx, "trading", syscontrol.StateRunning)
//
// # Design Philosophy
//
// This package prioritizes:
//
//   - One contract, four protocols: backend differences stay inside the
//     controller implementations
//   - Typed failure values over exceptions at the contract boundary
//   - No client-side state: every status is an independent snapshot
//   - No built-in retries; retry and backoff policy belongs to callers
//   - Context-aware operations throughout
package syscontrol
