package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nzbgetcom/webconf/pkg/db"
	"github.com/nzbgetcom/webconf/pkg/logger"
)

// Action represents an audit action
type Action string

const (
	// Option actions
	ActionOptionSet Action = "option.set"

	// Instance actions
	ActionInstanceAdd    Action = "instance.add"
	ActionInstanceDelete Action = "instance.delete"
	ActionInstanceMove   Action = "instance.move"

	// Config actions
	ActionConfigCommit Action = "config.commit"
	ActionConfigRevert Action = "config.revert"
	ActionConfigApply  Action = "config.apply"

	// Snapshot actions
	ActionSnapshotCreate  Action = "snapshot.create"
	ActionSnapshotDelete  Action = "snapshot.delete"
	ActionSnapshotRestore Action = "snapshot.restore"

	// Audit housekeeping
	ActionAuditCleanup Action = "audit.cleanup"
)

// Status represents the status of an action
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

type contextKey string

// Context keys for audit logging
const (
	ContextKeyUsername contextKey = "audit_username"
	ContextKeyIP       contextKey = "audit_ip"
	ContextKeyCommitID contextKey = "audit_commit_id"
)

// DefaultUsername is recorded for actions run from the local CLI
const DefaultUsername = "cli"

// Enabled reports whether entries are persisted. Without a database the
// entries only go to the structured logger.
func Enabled() bool {
	return db.DB != nil
}

// Log creates an audit log entry
func Log(action Action, status Status, username, resource, message string, details interface{}) error {
	return LogWithContext(context.Background(), action, status, username, resource, message, details, nil)
}

// LogWithContext creates an audit log entry with context
func LogWithContext(ctx context.Context, action Action, status Status, username, resource, message string, details interface{}, err error) error {
	if uname, ok := ctx.Value(ContextKeyUsername).(string); ok && uname != "" {
		username = uname
	}
	if username == "" {
		username = DefaultUsername
	}

	ipAddress, _ := ctx.Value(ContextKeyIP).(string)
	commitID, _ := ctx.Value(ContextKeyCommitID).(string)

	// Marshal details to JSON if provided
	var detailsJSON string
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			logger.Warn("Failed to marshal audit details", "error", err)
		} else {
			detailsJSON = string(data)
		}
	}

	var errorMsg string
	if err != nil {
		errorMsg = err.Error()
	}

	// Also log to structured logger for immediate visibility
	logFields := []interface{}{
		"action", action,
		"status", status,
		"username", username,
		"resource", resource,
	}
	if message != "" {
		logFields = append(logFields, "message", message)
	}
	if ipAddress != "" {
		logFields = append(logFields, "ip", ipAddress)
	}
	if commitID != "" {
		logFields = append(logFields, "commit_id", commitID)
	}

	if status == StatusSuccess {
		logger.Info("Audit", logFields...)
	} else {
		if err != nil {
			logFields = append(logFields, "error", err)
		}
		logger.Warn("Audit", logFields...)
	}

	if !Enabled() {
		return nil
	}

	entry := &db.AuditLog{
		Username:  username,
		Action:    string(action),
		Resource:  resource,
		Status:    string(status),
		Message:   message,
		Details:   detailsJSON,
		IPAddress: ipAddress,
		Error:     errorMsg,
		CommitID:  commitID,
	}

	if err := db.CreateAuditLog(entry); err != nil {
		logger.Error("Failed to create audit log", "error", err)
		return fmt.Errorf("failed to create audit log: %w", err)
	}

	return nil
}

// LogSuccess logs a successful action
func LogSuccess(ctx context.Context, action Action, resource, message string, details interface{}) error {
	return LogWithContext(ctx, action, StatusSuccess, "", resource, message, details, nil)
}

// LogFailure logs a failed action
func LogFailure(ctx context.Context, action Action, resource, message string, err error) error {
	return LogWithContext(ctx, action, StatusFailure, "", resource, message, nil, err)
}

// Record logs action as a success or a failure depending on err
func Record(ctx context.Context, action Action, resource, message string, details interface{}, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusFailure
	}
	_ = LogWithContext(ctx, action, status, "", resource, message, details, err)
}

// WithUser creates a context with user information for audit logging
func WithUser(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, ContextKeyUsername, username)
}

// Username returns the user stored in ctx, or DefaultUsername
func Username(ctx context.Context) string {
	if username, ok := ctx.Value(ContextKeyUsername).(string); ok && username != "" {
		return username
	}
	return DefaultUsername
}

// WithIP creates a context with IP address for audit logging
func WithIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ContextKeyIP, ip)
}

// WithCommit creates a context with the commit ID for audit logging
func WithCommit(ctx context.Context, commitID string) context.Context {
	return context.WithValue(ctx, ContextKeyCommitID, commitID)
}

// CleanupOldLogs removes audit logs older than the specified duration
func CleanupOldLogs(olderThan time.Duration) (int64, error) {
	if !Enabled() {
		return 0, fmt.Errorf("audit database not initialized")
	}

	cutoff := time.Now().Add(-olderThan)

	result := db.DB.Where("created_at < ?", cutoff).Delete(&db.AuditLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to cleanup old logs: %w", result.Error)
	}

	logger.Info("Cleaned up old audit logs",
		"count", result.RowsAffected,
		"older_than", olderThan)

	return result.RowsAffected, nil
}

// StartCleanupScheduler periodically removes old audit logs until ctx is done
func StartCleanupScheduler(ctx context.Context, retentionDays int, checkInterval time.Duration) {
	go func() {
		ticker := time.NewTicker(checkInterval)
		defer ticker.Stop()

		logger.Info("Started audit log cleanup scheduler",
			"retention_days", retentionDays,
			"check_interval", checkInterval)

		retention := time.Duration(retentionDays) * 24 * time.Hour
		cleanup := func() {
			count, err := CleanupOldLogs(retention)
			if err != nil {
				logger.Error("Failed to cleanup old audit logs", "error", err)
				return
			}
			if count > 0 {
				_ = Log(ActionAuditCleanup, StatusSuccess, "", "", fmt.Sprintf("removed %d entries", count), nil)
			}
		}

		// Run cleanup immediately on start
		cleanup()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cleanup()
			}
		}
	}()
}
