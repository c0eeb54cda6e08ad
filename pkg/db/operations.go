package db

import (
	"fmt"
)

// Audit Log Operations

// CreateAuditLog creates a new audit log entry
func CreateAuditLog(log *AuditLog) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}
	return DB.Create(log).Error
}

// ListAuditLogs lists audit logs with optional filters
func ListAuditLogs(filters map[string]interface{}, limit, offset int) ([]AuditLog, int64, error) {
	if DB == nil {
		return nil, 0, fmt.Errorf("database not initialized")
	}

	var logs []AuditLog
	var count int64

	query := DB.Model(&AuditLog{})

	// Apply filters
	if username, ok := filters["username"]; ok {
		query = query.Where("username = ?", username)
	}
	if action, ok := filters["action"]; ok {
		query = query.Where("action = ?", action)
	}
	if status, ok := filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if resource, ok := filters["resource"]; ok {
		query = query.Where("resource = ?", resource)
	}
	if from, ok := filters["from"]; ok {
		query = query.Where("created_at >= ?", from)
	}
	if to, ok := filters["to"]; ok {
		query = query.Where("created_at <= ?", to)
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, count, nil
}

// GetAuditLogsByCommit retrieves audit logs for a specific commit
func GetAuditLogsByCommit(commitID string) ([]AuditLog, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	var logs []AuditLog
	if err := DB.Where("commit_id = ?", commitID).Order("created_at ASC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// Commit Operations

// CreateCommit creates a new commit record
func CreateCommit(c *Commit) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}
	return DB.Create(c).Error
}

// GetCommitByID retrieves a commit by CommitID
func GetCommitByID(commitID string) (*Commit, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	var c Commit
	if err := DB.Where("commit_id = ?", commitID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateCommit updates a commit
func UpdateCommit(c *Commit) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}
	return DB.Save(c).Error
}

// ListCommits lists commits with optional filters
func ListCommits(filters map[string]interface{}, limit, offset int) ([]Commit, int64, error) {
	if DB == nil {
		return nil, 0, fmt.Errorf("database not initialized")
	}

	var commits []Commit
	var count int64

	query := DB.Model(&Commit{})

	if username, ok := filters["username"]; ok {
		query = query.Where("username = ?", username)
	}
	if status, ok := filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&commits).Error; err != nil {
		return nil, 0, err
	}

	return commits, count, nil
}
