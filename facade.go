package syscontrol

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Facade is the single object external code talks to. It holds exactly
// one controller for the life of the process, exposes the six uniform
// verbs plus batch variants over a list of named modules, and logs the
// active deployment type alongside every logical operation so operators
// can tell heterogeneous environments apart.
//
// Mutating verbs are serialized per module name: two callers issuing stop
// and start for the same module are strictly ordered here instead of
// racing at the remote control plane. Distinct modules never block each
// other, and read-only verbs (Status, Logs) are not serialized at all;
// each is an independent snapshot.
type Facade struct {
	controller SystemController
	logger     *zap.Logger

	// watchInterval is the poll interval used by Watch and Wait
	watchInterval time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// FacadeOption configures a Facade
type FacadeOption func(*Facade)

// WithLogger sets the logger used for operation logging
func WithLogger(logger *zap.Logger) FacadeOption {
	return func(f *Facade) {
		f.logger = logger
	}
}

// NewFacade creates a Facade over the given controller. The controller is
// never swapped afterwards; re-selecting a backend means building a new
// Facade in a new process.
func NewFacade(controller SystemController, opts ...FacadeOption) *Facade {
	f := &Facade{
		controller:    controller,
		logger:        zap.NewNop(),
		watchInterval: DefaultWatchInterval,
		locks:         make(map[string]*sync.Mutex),
	}

	for _, opt := range opts {
		opt(f)
	}

	f.logger.Info("system control facade initialized",
		zap.String("deployment", controller.Type().String()))

	return f
}

// DeploymentType reports the control plane the facade was built for
func (f *Facade) DeploymentType() DeploymentType {
	return f.controller.Type()
}

// moduleLock returns the mutex serializing mutating operations for one
// module name, creating it on first use
func (f *Facade) moduleLock(module string) *sync.Mutex {
	f.mu.Lock()
	defer f.mu.Unlock()

	lock, ok := f.locks[module]
	if !ok {
		lock = &sync.Mutex{}
		f.locks[module] = lock
	}
	return lock
}

func (f *Facade) mutate(ctx context.Context, op Operation, module string, call func(context.Context, string) ControlResponse) ControlResponse {
	lock := f.moduleLock(module)
	lock.Lock()
	defer lock.Unlock()

	resp := call(ctx, module)

	f.logger.Info("control operation",
		zap.String("deployment", f.controller.Type().String()),
		zap.String("operation", op.String()),
		zap.String("module", module),
		zap.Bool("success", resp.Success),
		zap.String("message", resp.Message))

	return resp
}

// Start brings the named module up
func (f *Facade) Start(ctx context.Context, module string) ControlResponse {
	return f.mutate(ctx, OpStart, module, f.controller.Start)
}

// Stop brings the named module down
func (f *Facade) Stop(ctx context.Context, module string) ControlResponse {
	return f.mutate(ctx, OpStop, module, f.controller.Stop)
}

// Restart cycles the named module
func (f *Facade) Restart(ctx context.Context, module string) ControlResponse {
	return f.mutate(ctx, OpRestart, module, f.controller.Restart)
}

// UpdateConfig pushes new configuration for the named module
func (f *Facade) UpdateConfig(ctx context.Context, module string, config map[string]any) ControlResponse {
	return f.mutate(ctx, OpUpdateConfig, module, func(ctx context.Context, m string) ControlResponse {
		return f.controller.UpdateConfig(ctx, m, config)
	})
}

// Status returns a fresh snapshot of the named module
func (f *Facade) Status(ctx context.Context, module string) SystemModule {
	snapshot := f.controller.Status(ctx, module)

	f.logger.Debug("status snapshot",
		zap.String("deployment", f.controller.Type().String()),
		zap.String("module", module),
		zap.String("state", snapshot.State.String()),
		zap.String("health", snapshot.Health.String()))

	return snapshot
}

// Logs fetches recent log lines for the named module
func (f *Facade) Logs(ctx context.Context, module string, lines int) []string {
	out := f.controller.Logs(ctx, module, lines)

	f.logger.Debug("logs fetched",
		zap.String("deployment", f.controller.Type().String()),
		zap.String("module", module),
		zap.Int("lines", len(out)))

	return out
}

// StartAll starts every named module, strictly sequentially and in input
// order. Nothing short-circuits: every module is attempted even when an
// earlier one fails, and each outcome lands in the result keyed by module
// name.
func (f *Facade) StartAll(ctx context.Context, modules []string) map[string]ControlResponse {
	return f.batch(ctx, modules, f.Start)
}

// StopAll stops every named module with the same semantics as StartAll
func (f *Facade) StopAll(ctx context.Context, modules []string) map[string]ControlResponse {
	return f.batch(ctx, modules, f.Stop)
}

func (f *Facade) batch(ctx context.Context, modules []string, call func(context.Context, string) ControlResponse) map[string]ControlResponse {
	results := make(map[string]ControlResponse, len(modules))
	for _, module := range modules {
		results[module] = call(ctx, module)
	}
	return results
}

// AllStatuses returns one snapshot per named module, sequentially and in
// input order
func (f *Facade) AllStatuses(ctx context.Context, modules []string) []SystemModule {
	snapshots := make([]SystemModule, 0, len(modules))
	for _, module := range modules {
		snapshots = append(snapshots, f.Status(ctx, module))
	}
	return snapshots
}
