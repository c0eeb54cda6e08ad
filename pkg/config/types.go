package config

// Op names a staged operation
type Op string

const (
	OpSet    Op = "set"
	OpAdd    Op = "add"
	OpDelete Op = "delete"
	OpMove   Op = "move"
)

// Edit is one staged operation. Edits are replayed in order on top of a
// freshly loaded model, which keeps them valid across CLI runs.
type Edit struct {
	Op       Op     `json:"op" yaml:"op"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Value    string `json:"value,omitempty" yaml:"value,omitempty"`
	Section  string `json:"section,omitempty" yaml:"section,omitempty"`
	Instance int    `json:"instance,omitempty" yaml:"instance,omitempty"`
	Up       bool   `json:"up,omitempty" yaml:"up,omitempty"`
}

// ChangeType classifies a Change
type ChangeType string

const (
	ChangeAdded    ChangeType = "added"
	ChangeModified ChangeType = "modified"
	ChangeRemoved  ChangeType = "removed"
)

// Change is one value that a commit writes differently from what was loaded
type Change struct {
	Name     string     `json:"name" yaml:"name"`
	Type     ChangeType `json:"type" yaml:"type"`
	OldValue string     `json:"old_value,omitempty" yaml:"old_value,omitempty"`
	NewValue string     `json:"new_value,omitempty" yaml:"new_value,omitempty"`
}

// CommitResult describes a completed commit or restore
type CommitResult struct {
	ID         string   `json:"id" yaml:"id"`
	Message    string   `json:"message" yaml:"message"`
	SnapshotID string   `json:"snapshot_id,omitempty" yaml:"snapshot_id,omitempty"`
	Changes    []Change `json:"changes" yaml:"changes"`
}
