package appliers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/nzbgetcom/webconf/pkg/config"
	"github.com/nzbgetcom/webconf/pkg/rpc"
)

// restartingDaemon answers status and reload. After a reload it is down for
// downPolls status calls and then reports a fresh uptime.
type restartingDaemon struct {
	mu        sync.Mutex
	upTime    int
	downPolls int
	restarts  bool
	reloads   int
	down      int
}

func (d *restartingDaemon) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     string `json:"id"`
		Method string `json:"method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	var result any
	switch req.Method {
	case "reload":
		d.reloads++
		d.down = d.downPolls
		result = true
	case "status":
		if d.down > 0 {
			d.down--
			http.Error(w, "restarting", http.StatusServiceUnavailable)
			return
		}
		if d.reloads > 0 && d.restarts {
			d.upTime = 1
		}
		result = map[string]any{"UpTimeSec": d.upTime}
	default:
		http.NotFound(w, r)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"version": "1.1", "id": req.ID, "result": result})
}

func newTestApplier(t *testing.T, daemon *restartingDaemon, timeout time.Duration) *ReloadApplier {
	t.Helper()

	server := httptest.NewServer(daemon)
	t.Cleanup(server.Close)

	a := NewReloadApplier(rpc.NewClient(server.URL, "", "", time.Second), timeout)
	a.interval = 5 * time.Millisecond
	return a
}

var committed = &config.CommitResult{
	ID:      "c1",
	Changes: []config.Change{{Name: "MainDir", Type: config.ChangeModified, OldValue: "/a", NewValue: "/b"}},
}

func TestReloadApplier(t *testing.T) {
	daemon := &restartingDaemon{upTime: 3600, downPolls: 2, restarts: true}
	a := newTestApplier(t, daemon, 5*time.Second)

	if err := a.Validate(context.Background()); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if err := a.Apply(context.Background(), committed); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	daemon.mu.Lock()
	defer daemon.mu.Unlock()
	if daemon.reloads != 1 {
		t.Errorf("Expected one reload, got %d", daemon.reloads)
	}
	if daemon.down != 0 {
		t.Errorf("Expected the applier to wait through the restart, %d polls left", daemon.down)
	}
}

func TestReloadApplierWithoutChanges(t *testing.T) {
	daemon := &restartingDaemon{upTime: 3600, restarts: true}
	a := newTestApplier(t, daemon, time.Second)

	if err := a.Apply(context.Background(), &config.CommitResult{ID: "c2"}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if daemon.reloads != 0 {
		t.Errorf("Expected no reload for an empty result, got %d", daemon.reloads)
	}
}

func TestReloadApplierTimeout(t *testing.T) {
	daemon := &restartingDaemon{upTime: 3600}
	a := newTestApplier(t, daemon, 50*time.Millisecond)

	err := a.Apply(context.Background(), committed)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected a deadline error, got %v", err)
	}
}

func TestReloadApplierUnreachable(t *testing.T) {
	a := NewReloadApplier(rpc.NewClient("http://127.0.0.1:1", "", "", 100*time.Millisecond), time.Second)

	if err := a.Validate(context.Background()); err == nil {
		t.Error("Expected Validate to fail for an unreachable daemon")
	}
	if err := a.Apply(context.Background(), committed); err == nil {
		t.Error("Expected Apply to fail for an unreachable daemon")
	}
}
