package snapshot

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/nzbgetcom/webconf/pkg/logger"
	"github.com/nzbgetcom/webconf/pkg/schema"
	"github.com/nzbgetcom/webconf/pkg/util"
	"github.com/nzbgetcom/webconf/pkg/values"
	"github.com/nzbgetcom/webconf/pkg/version"
)

const (
	DefaultSnapshotDir = "/var/lib/webconf/snapshots"
	DefaultKeep        = 100
	MetadataFile       = "metadata.json"
	ValuesFile         = "values.conf"
)

// ErrNotFound is returned for a snapshot id that does not exist
var ErrNotFound = errors.New("snapshot not found")

// Metadata contains information about a snapshot
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	ID        string    `json:"id"`       // Snapshot ID (timestamp-based)
	Version   string    `json:"version"`  // webconf version that created this snapshot
	Options   int       `json:"options"`  // Number of values captured
	Checksum  string    `json:"checksum"` // SHA256 of the values file
}

// Snapshot represents a saved set of configuration values
type Snapshot struct {
	ID       string   `json:"id"`
	Metadata Metadata `json:"metadata"`
	Path     string   `json:"-"`
}

// Manager manages configuration snapshots
type Manager struct {
	snapshotDir string
	keep        int
}

// NewManager creates a new snapshot manager keeping at most keep snapshots
func NewManager(snapshotDir string, keep int) *Manager {
	if snapshotDir == "" {
		snapshotDir = DefaultSnapshotDir
	}
	if keep <= 0 {
		keep = DefaultKeep
	}
	return &Manager{
		snapshotDir: snapshotDir,
		keep:        keep,
	}
}

// Create saves vals as a new snapshot
func (m *Manager) Create(message string, vals []schema.Value) (*Snapshot, error) {
	// Ensure snapshot directory exists before checking disk space
	if err := os.MkdirAll(m.snapshotDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	if err := util.CheckDiskSpace(m.snapshotDir, 10); err != nil {
		return nil, fmt.Errorf("insufficient disk space: %w", err)
	}

	id := util.GenerateUniqueID()
	snapshotPath := filepath.Join(m.snapshotDir, id)

	// Create specific snapshot directory with restricted permissions (owner only)
	if err := os.MkdirAll(snapshotPath, 0700); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	// Cleanup on error - remove partial snapshot
	success := false
	defer func() {
		if !success {
			os.RemoveAll(snapshotPath)
		}
	}()

	var buf bytes.Buffer
	if err := values.Write(&buf, values.FromValues(vals)); err != nil {
		return nil, fmt.Errorf("failed to encode values: %w", err)
	}
	if err := util.WriteFileAtomic(filepath.Join(snapshotPath, ValuesFile), buf.Bytes(), 0600); err != nil {
		return nil, fmt.Errorf("failed to write values: %w", err)
	}

	metadata := Metadata{
		Timestamp: time.Now(),
		Message:   message,
		ID:        id,
		Version:   version.GetVersion(),
		Options:   len(vals),
		Checksum:  checksum(buf.Bytes()),
	}

	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}
	if err := util.WriteFileAtomic(filepath.Join(snapshotPath, MetadataFile), data, 0600); err != nil {
		return nil, fmt.Errorf("failed to write metadata: %w", err)
	}

	success = true

	logger.Info("Snapshot created",
		"id", id,
		"options", len(vals),
		"version", metadata.Version)

	return &Snapshot{
		ID:       id,
		Metadata: metadata,
		Path:     snapshotPath,
	}, nil
}

// AutoPrune drops the oldest snapshots beyond the configured limit
func (m *Manager) AutoPrune() {
	deleted, err := m.Prune(m.keep)
	if err != nil {
		logger.Warn("Failed to prune old snapshots", "error", err)
		return
	}
	if len(deleted) > 0 {
		logger.Info("Auto-pruned old snapshots", "count", len(deleted))
	}
}

// List returns all snapshots, sorted by timestamp (newest first)
func (m *Manager) List() ([]*Snapshot, error) {
	if err := os.MkdirAll(m.snapshotDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	entries, err := os.ReadDir(m.snapshotDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot directory: %w", err)
	}

	snapshots := []*Snapshot{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		snapshot, err := m.Load(entry.Name())
		if err != nil {
			// Skip invalid snapshots
			continue
		}

		snapshots = append(snapshots, snapshot)
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Metadata.Timestamp.After(snapshots[j].Metadata.Timestamp)
	})

	return snapshots, nil
}

// Load loads a snapshot by ID
func (m *Manager) Load(id string) (*Snapshot, error) {
	if err := util.ValidateSnapshotID(id); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	snapshotPath := filepath.Join(m.snapshotDir, id)
	data, err := os.ReadFile(filepath.Join(snapshotPath, MetadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	var metadata Metadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}

	return &Snapshot{
		ID:       id,
		Metadata: metadata,
		Path:     snapshotPath,
	}, nil
}

// Restore validates a snapshot and returns the values it holds
func (m *Manager) Restore(id string) ([]schema.Value, error) {
	snapshot, err := m.Load(id)
	if err != nil {
		return nil, err
	}

	file, err := m.ValidateSnapshot(snapshot)
	if err != nil {
		return nil, fmt.Errorf("snapshot validation failed: %w", err)
	}

	return file.Values(), nil
}

// ValidateSnapshot checks the checksum and syntax of a snapshot's values file
func (m *Manager) ValidateSnapshot(snapshot *Snapshot) (*values.File, error) {
	path := filepath.Join(snapshot.Path, ValuesFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("snapshot corrupted: %s missing", ValuesFile)
		}
		return nil, fmt.Errorf("failed to read %s: %w", ValuesFile, err)
	}

	if snapshot.Metadata.Checksum != "" {
		if actual := checksum(data); actual != snapshot.Metadata.Checksum {
			return nil, fmt.Errorf("checksum mismatch for %s: expected %s, got %s",
				ValuesFile, snapshot.Metadata.Checksum, actual)
		}
	}

	file, err := values.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("snapshot corrupted: invalid values in %s: %w", ValuesFile, err)
	}

	return file, nil
}

// Delete deletes a snapshot
func (m *Manager) Delete(id string) error {
	if err := util.ValidateSnapshotID(id); err != nil {
		return err
	}

	if err := os.RemoveAll(filepath.Join(m.snapshotDir, id)); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	return nil
}

// Prune removes old snapshots, keeping only the specified number
func (m *Manager) Prune(keep int) ([]string, error) {
	snapshots, err := m.List()
	if err != nil {
		return nil, err
	}

	if len(snapshots) <= keep {
		return []string{}, nil
	}

	deleted := []string{}
	for i := keep; i < len(snapshots); i++ {
		if err := m.Delete(snapshots[i].ID); err != nil {
			return deleted, fmt.Errorf("failed to delete snapshot %s: %w", snapshots[i].ID, err)
		}
		deleted = append(deleted, snapshots[i].ID)
	}

	return deleted, nil
}

// GetLatest returns the most recent snapshot
func (m *Manager) GetLatest() (*Snapshot, error) {
	snapshots, err := m.List()
	if err != nil {
		return nil, err
	}

	if len(snapshots) == 0 {
		return nil, fmt.Errorf("no snapshots available")
	}

	return snapshots[0], nil
}

func checksum(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}
