package db

import (
	"time"
)

// CommitStatus is the outcome of a save to the daemon
type CommitStatus string

const (
	CommitPending   CommitStatus = "pending"
	CommitSucceeded CommitStatus = "committed"
	CommitFailed    CommitStatus = "failed"
	CommitRestored  CommitStatus = "restored"
)

// AuditLog represents an audit log entry
type AuditLog struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Username  string `gorm:"index;not null" json:"username"`         // "cli" for local commands
	Action    string `gorm:"index;not null" json:"action"`           // e.g., "option.set", "config.commit"
	Resource  string `gorm:"index" json:"resource,omitempty"`        // option name, section id or snapshot id
	Status    string `gorm:"index;not null" json:"status"`           // "success", "failure"
	Message   string `json:"message,omitempty"`                      // Human-readable message
	Details   string `gorm:"type:text" json:"details,omitempty"`     // JSON details
	IPAddress string `gorm:"index" json:"ip_address,omitempty"`      // Source IP
	Error     string `gorm:"type:text" json:"error,omitempty"`       // Error message if failed
	Duration  int64  `json:"duration_ms,omitempty"`                  // Duration in milliseconds
	CommitID  string `gorm:"index" json:"commit_id,omitempty"`       // Commit the entry belongs to
}

// TableName overrides the table name
func (AuditLog) TableName() string {
	return "audit_logs"
}

// Change is one value written by a commit
type Change struct {
	Name     string `json:"name"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

// Commit records one save of staged changes to the daemon
type Commit struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CommitID    string       `gorm:"uniqueIndex;not null" json:"commit_id"`
	Username    string       `gorm:"index;not null" json:"username"`
	Message     string       `json:"message"`
	Source      string       `json:"source"` // "file" or "rpc"
	Status      CommitStatus `gorm:"index;not null" json:"status"`
	SnapshotID  string       `gorm:"index" json:"snapshot_id,omitempty"`
	Changes     []Change     `gorm:"serializer:json" json:"changes"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	Error       string       `gorm:"type:text" json:"error,omitempty"`
}

// TableName overrides the table name
func (Commit) TableName() string {
	return "commits"
}
