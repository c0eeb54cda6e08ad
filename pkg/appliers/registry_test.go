package appliers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nzbgetcom/webconf/pkg/appconfig"
	"github.com/nzbgetcom/webconf/pkg/bus"
	"github.com/nzbgetcom/webconf/pkg/config"
)

type recordingApplier struct {
	name string
	err  error

	mu      sync.Mutex
	applied []string
}

func (a *recordingApplier) Name() string { return a.name }

func (a *recordingApplier) Apply(ctx context.Context, result *config.CommitResult) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.applied = append(a.applied, result.ID)
	return a.err
}

func (a *recordingApplier) Validate(ctx context.Context) error { return a.err }

func (a *recordingApplier) calls() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.applied...)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	first := &recordingApplier{name: "first", err: errors.New("boom")}
	second := &recordingApplier{name: "second"}
	r.Register(first)
	r.Register(second)
	r.Register(first)

	if diff := cmp.Diff([]string{"first", "second"}, r.List()); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}
	if _, ok := r.Get("second"); !ok {
		t.Error("Expected second to be registered")
	}

	err := r.ApplyAll(context.Background(), &config.CommitResult{ID: "c1"})
	if err == nil || !errors.Is(err, first.err) {
		t.Fatalf("Expected the first applier's error, got %v", err)
	}
	// a failure does not stop later appliers
	if diff := cmp.Diff([]string{"c1"}, second.calls()); diff != "" {
		t.Errorf("Second applier calls mismatch (-want +got):\n%s", diff)
	}

	if err := r.Validate(context.Background()); !errors.Is(err, first.err) {
		t.Errorf("Expected Validate to report the first applier, got %v", err)
	}
}

func TestSubscribe(t *testing.T) {
	b := bus.NewBus()
	r := NewRegistry()
	a := &recordingApplier{name: "recorder"}
	r.Register(a)
	r.Subscribe(b, time.Second)

	b.Publish(bus.Event{Type: bus.EventConfigCommitted, Name: "c1", Data: &config.CommitResult{ID: "c1"}})
	b.Publish(bus.Event{Type: bus.EventConfigChanged, Name: "MainDir", Data: "/x"})
	b.Publish(bus.Event{Type: bus.EventSnapshotRestored, Name: "s1", Data: &config.CommitResult{ID: "c2"}})
	b.Stop()

	if diff := cmp.Diff([]string{"c1", "c2"}, a.calls()); diff != "" {
		t.Errorf("Applied commits mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultRegistry(t *testing.T) {
	cfg := appconfig.DefaultConfig()
	if n := DefaultRegistry(cfg).Len(); n != 0 {
		t.Errorf("Expected no appliers for the file source, got %d", n)
	}

	cfg.Daemon.Source = "rpc"
	if n := DefaultRegistry(cfg).Len(); n != 0 {
		t.Errorf("Expected no appliers without AutoReload, got %d", n)
	}

	cfg.Daemon.AutoReload = true
	if diff := cmp.Diff([]string{"daemon"}, DefaultRegistry(cfg).List()); diff != "" {
		t.Errorf("Appliers mismatch (-want +got):\n%s", diff)
	}
}
