// Package appliers acts on the daemon once a commit or snapshot restore
// has been saved, so that the new values take effect.
package appliers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nzbgetcom/webconf/pkg/appconfig"
	"github.com/nzbgetcom/webconf/pkg/audit"
	"github.com/nzbgetcom/webconf/pkg/bus"
	"github.com/nzbgetcom/webconf/pkg/config"
	"github.com/nzbgetcom/webconf/pkg/logger"
	"github.com/nzbgetcom/webconf/pkg/rpc"
)

// Username is recorded in the audit log for applies run from the event bus
const Username = "webconf"

// Applier is the interface for applying saved configuration
type Applier interface {
	Name() string
	Apply(ctx context.Context, result *config.CommitResult) error
	Validate(ctx context.Context) error
}

// Registry manages registered appliers. Appliers run in registration order.
type Registry struct {
	mu       sync.RWMutex
	appliers map[string]Applier
	order    []string
}

// NewRegistry creates a new applier registry
func NewRegistry() *Registry {
	return &Registry{
		appliers: make(map[string]Applier),
	}
}

// Register registers an applier, replacing one with the same name
func (r *Registry) Register(applier Applier) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := applier.Name()
	if _, ok := r.appliers[name]; !ok {
		r.order = append(r.order, name)
	}
	r.appliers[name] = applier
}

// Get retrieves an applier by name
func (r *Registry) Get(name string) (Applier, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	applier, ok := r.appliers[name]
	return applier, ok
}

// List returns all registered applier names
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Len returns the number of registered appliers
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func (r *Registry) snapshot() []Applier {
	r.mu.RLock()
	defer r.mu.RUnlock()

	appliers := make([]Applier, 0, len(r.order))
	for _, name := range r.order {
		appliers = append(appliers, r.appliers[name])
	}
	return appliers
}

// ApplyAll runs every applier for result. A failing applier does not stop
// the ones after it; all failures are returned together.
func (r *Registry) ApplyAll(ctx context.Context, result *config.CommitResult) error {
	var errs []error

	for _, applier := range r.snapshot() {
		log := logger.With("applier", applier.Name(), "commit_id", result.ID)
		log.Debug("Applying configuration", "changes", len(result.Changes))

		start := time.Now()
		err := applier.Apply(ctx, result)
		audit.Record(ctx, audit.ActionConfigApply, applier.Name(), result.Message,
			map[string]interface{}{"duration_ms": time.Since(start).Milliseconds()}, err)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", applier.Name(), err))
			continue
		}
		log.Info("Configuration applied", "duration", time.Since(start))
	}

	return errors.Join(errs...)
}

// Validate checks that every applier can reach what it acts on
func (r *Registry) Validate(ctx context.Context) error {
	var errs []error
	for _, applier := range r.snapshot() {
		if err := applier.Validate(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", applier.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Subscribe runs the appliers for every commit and snapshot restore
// published on b. Each run is bounded by timeout.
func (r *Registry) Subscribe(b *bus.Bus, timeout time.Duration) {
	handler := func(event bus.Event) {
		result, ok := event.Data.(*config.CommitResult)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		ctx = audit.WithCommit(audit.WithUser(ctx, Username), result.ID)

		if err := r.ApplyAll(ctx, result); err != nil {
			logger.Error("Failed to apply configuration", "commit_id", result.ID, "error", err)
		}
	}

	b.Subscribe(bus.EventConfigCommitted, handler)
	b.Subscribe(bus.EventSnapshotRestored, handler)
}

// DefaultRegistry creates a registry with the appliers cfg enables
func DefaultRegistry(cfg *appconfig.Config) *Registry {
	registry := NewRegistry()
	if cfg.Daemon.Source == "rpc" && cfg.Daemon.AutoReload {
		client := rpc.NewClient(cfg.Daemon.URL, cfg.Daemon.Username, cfg.Daemon.Password, cfg.Daemon.Timeout)
		registry.Register(NewReloadApplier(client, cfg.Daemon.ReloadTimeout))
	}
	return registry
}
