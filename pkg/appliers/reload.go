package appliers

import (
	"context"
	"fmt"
	"time"

	"github.com/nzbgetcom/webconf/pkg/config"
	"github.com/nzbgetcom/webconf/pkg/logger"
	"github.com/nzbgetcom/webconf/pkg/rpc"
)

// DefaultPollInterval is how often the daemon status is read while it restarts
const DefaultPollInterval = 500 * time.Millisecond

// ReloadApplier restarts the daemon so it rereads its configuration file
type ReloadApplier struct {
	client   *rpc.Client
	timeout  time.Duration
	interval time.Duration
}

// NewReloadApplier creates a reload applier waiting up to timeout for the
// daemon to come back
func NewReloadApplier(client *rpc.Client, timeout time.Duration) *ReloadApplier {
	return &ReloadApplier{
		client:   client,
		timeout:  timeout,
		interval: DefaultPollInterval,
	}
}

// Name returns the applier name
func (a *ReloadApplier) Name() string {
	return "daemon"
}

// Validate checks that the daemon answers
func (a *ReloadApplier) Validate(ctx context.Context) error {
	if _, err := a.client.Status(ctx); err != nil {
		return fmt.Errorf("daemon is not reachable: %w", err)
	}
	return nil
}

// Apply asks the daemon to reload and waits until a restarted instance
// answers. A result without changes leaves the daemon running.
func (a *ReloadApplier) Apply(ctx context.Context, result *config.CommitResult) error {
	if len(result.Changes) == 0 {
		return nil
	}

	before, err := a.client.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to read daemon status: %w", err)
	}

	logger.Info("Reloading daemon", "commit_id", result.ID, "uptime_sec", before.UpTimeSec)
	if err := a.client.Reload(ctx); err != nil {
		return fmt.Errorf("failed to reload daemon: %w", err)
	}

	return a.waitRestart(ctx, before.UpTimeSec)
}

// waitRestart polls the status until the uptime drops below upTime, which
// only a new instance can report
func (a *ReloadApplier) waitRestart(ctx context.Context, upTime int) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("daemon did not restart within %s: %w", a.timeout, ctx.Err())
		case <-ticker.C:
		}

		status, err := a.client.Status(ctx)
		if err != nil {
			// connection errors are expected while the old instance shuts down
			logger.Debug("Daemon not answering yet", "error", err)
			continue
		}
		if status.UpTimeSec < upTime {
			logger.Info("Daemon restarted", "duration", time.Since(start))
			return nil
		}
	}
}
