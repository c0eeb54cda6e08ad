package audit

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nzbgetcom/webconf/pkg/db"
)

func openTestDB(t *testing.T) {
	t.Helper()

	err := db.Initialize(&db.Config{Path: filepath.Join(t.TempDir(), "audit.db")})
	if err != nil {
		if strings.Contains(err.Error(), "cgo") || strings.Contains(err.Error(), "CGO_ENABLED") {
			t.Skipf("sqlite unavailable: %v", err)
		}
		t.Fatalf("Initialize failed: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
}

func TestLogWithoutDatabase(t *testing.T) {
	if Enabled() {
		t.Fatal("Expected audit to be disabled without a database")
	}
	if err := Log(ActionOptionSet, StatusSuccess, "", "MainDir", "set", nil); err != nil {
		t.Errorf("Log without database should be a no-op, got %v", err)
	}
	if _, err := CleanupOldLogs(time.Hour); err == nil {
		t.Error("Expected cleanup to fail without a database")
	}
}

func TestLogWithContext(t *testing.T) {
	openTestDB(t)

	ctx := WithCommit(WithIP(WithUser(context.Background(), "admin"), "10.0.0.1"), "c42")
	if err := LogSuccess(ctx, ActionOptionSet, "MainDir", "set MainDir", map[string]string{"value": "/data"}); err != nil {
		t.Fatalf("LogSuccess failed: %v", err)
	}
	Record(context.Background(), ActionConfigCommit, "", "commit", nil, errors.New("daemon refused"))

	logs, total, err := db.ListAuditLogs(map[string]interface{}{}, 10, 0)
	if err != nil {
		t.Fatalf("ListAuditLogs failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("Expected 2 entries, got %d", total)
	}

	byAction := map[string]db.AuditLog{}
	for _, l := range logs {
		byAction[l.Action] = l
	}

	set := byAction[string(ActionOptionSet)]
	if set.Username != "admin" || set.IPAddress != "10.0.0.1" || set.CommitID != "c42" {
		t.Errorf("Context values not recorded: %+v", set)
	}
	if set.Details != `{"value":"/data"}` {
		t.Errorf("Unexpected details %q", set.Details)
	}

	commit := byAction[string(ActionConfigCommit)]
	if commit.Status != string(StatusFailure) || commit.Error != "daemon refused" {
		t.Errorf("Failure not recorded: %+v", commit)
	}
	if commit.Username != DefaultUsername {
		t.Errorf("Expected default username %q, got %q", DefaultUsername, commit.Username)
	}
}

func TestCleanupOldLogs(t *testing.T) {
	openTestDB(t)

	if err := Log(ActionSnapshotCreate, StatusSuccess, "", "s1", "", nil); err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	old := &db.AuditLog{Username: "cli", Action: string(ActionSnapshotDelete), Status: "success", CreatedAt: time.Now().Add(-48 * time.Hour)}
	if err := db.CreateAuditLog(old); err != nil {
		t.Fatalf("CreateAuditLog failed: %v", err)
	}

	count, err := CleanupOldLogs(24 * time.Hour)
	if err != nil {
		t.Fatalf("CleanupOldLogs failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 entry removed, got %d", count)
	}
}
