// Package config loads the daemon's configuration into the option model,
// stages edits and commits them back through a Source.
package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nzbgetcom/webconf/pkg/audit"
	"github.com/nzbgetcom/webconf/pkg/bus"
	"github.com/nzbgetcom/webconf/pkg/db"
	"github.com/nzbgetcom/webconf/pkg/logger"
	"github.com/nzbgetcom/webconf/pkg/schema"
	"github.com/nzbgetcom/webconf/pkg/snapshot"
	"github.com/nzbgetcom/webconf/pkg/util"
)

// CoreSetID identifies the config set parsed from the daemon's own template
const CoreSetID = "nzbget"

var (
	// ErrNoChanges is returned when there is nothing to commit or revert
	ErrNoChanges = errors.New("no staged changes")
	// ErrUnknownSection is returned for a section id no config set declares
	ErrUnknownSection = errors.New("unknown section")
	// ErrNotLoaded is returned before the first successful Load
	ErrNotLoaded = errors.New("configuration not loaded")
)

// Options configures a Manager
type Options struct {
	// Snapshots receives the live values before every commit; nil disables snapshots
	Snapshots *snapshot.Manager
	// Events receives config events; nil uses the global bus
	Events *bus.Bus
	// StagingPath keeps staged edits between runs; empty keeps them in memory only
	StagingPath string
}

// Manager holds the loaded option model and the edits staged on top of it
type Manager struct {
	source      Source
	snapshots   *snapshot.Manager
	events      *bus.Bus
	stagingPath string

	mu         sync.RWMutex
	sets       []*schema.ConfigSet
	postParams *schema.Section
	loaded     []schema.Value // values as read from the source
	baseline   []schema.Value // save request of the unedited model
	obsolete   []string       // loaded names no option declares
	edits      map[*schema.Option]string
	journal    []Edit
	loadedAt   time.Time
}

// NewManager creates a new config manager
func NewManager(source Source, opts Options) *Manager {
	events := opts.Events
	if events == nil {
		events = bus.GlobalBus
	}

	return &Manager{
		source:      source,
		snapshots:   opts.Snapshots,
		events:      events,
		stagingPath: opts.StagingPath,
		edits:       make(map[*schema.Option]string),
	}
}

// Load reads template, values and extensions from the source and builds
// a fresh model, then replays edits left in the staging file
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.load(ctx); err != nil {
		return err
	}

	journal, err := m.readStaging()
	if err != nil {
		logger.Warn("Ignoring unreadable staging file", "path", m.stagingPath, "error", err)
	}
	m.replay(journal)

	m.publish(bus.EventConfigLoaded, m.source.Kind(), len(m.sets))
	return nil
}

// load rebuilds the model from the source, dropping all edits
func (m *Manager) load(ctx context.Context) error {
	text, err := m.source.Template(ctx)
	if err != nil {
		return fmt.Errorf("failed to load template: %w", err)
	}

	vals, err := m.source.Values(ctx)
	if err != nil {
		return fmt.Errorf("failed to load values: %w", err)
	}

	exts, err := m.source.Extensions(ctx)
	if err != nil {
		return fmt.Errorf("failed to load extensions: %w", err)
	}

	core := schema.ParseTemplate(text, schema.HiddenSections, "")
	core.ID = CoreSetID
	core.Name = CoreSetID
	core.DisplayName = "NZBGet"

	sets := []*schema.ConfigSet{core}
	for _, ext := range exts {
		sets = append(sets, schema.FromExtension(ext))
	}
	for _, set := range sets {
		schema.MergeValues(set.Sections, vals)
	}

	postParams := schema.PostParamSection(exts)
	schema.MergeValues([]*schema.Section{postParams}, vals)

	m.sets = sets
	m.postParams = postParams
	m.loaded = vals
	m.obsolete = schema.Obsolete(sets, vals)
	m.edits = make(map[*schema.Option]string)
	m.journal = nil
	m.baseline, _ = schema.PrepareSave(sets, nil, false)
	m.loadedAt = time.Now()

	logger.Info("Configuration loaded",
		"source", m.source.Kind(),
		"sets", len(sets),
		"values", len(vals),
		"obsolete", len(m.obsolete))

	return nil
}

// Sets returns a copy of the loaded config sets, the daemon's own first
func (m *Manager) Sets() []*schema.ConfigSet {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return schema.CloneSets(m.sets)
}

// ConfigSet finds a config set by id
func (m *Manager) ConfigSet(id string) (*schema.ConfigSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, set := range m.sets {
		if set.ID == id {
			return set.Clone(), nil
		}
	}
	return nil, fmt.Errorf("config set %s: %w", id, ErrUnknownSection)
}

// Section returns a copy of the section with the given id
func (m *Manager) Section(id string) (*schema.Section, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	section, err := m.section(id)
	if err != nil {
		return nil, err
	}
	return section.Clone(), nil
}

func (m *Manager) section(id string) (*schema.Section, error) {
	if m.sets == nil {
		return nil, ErrNotLoaded
	}
	for _, set := range m.sets {
		if s := set.FindSection(id); s != nil {
			return s, nil
		}
	}
	return nil, fmt.Errorf("section %s: %w", id, ErrUnknownSection)
}

// PostParams returns the per-download extension switches
func (m *Manager) PostParams() *schema.Section {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.postParams.Clone()
}

// Obsolete lists loaded values that no option declares. Commits keep them.
func (m *Manager) Obsolete() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.obsolete...)
}

// LoadedAt returns when the model was last read from the source
func (m *Manager) LoadedAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loadedAt
}

// Get returns an option by case-insensitive name
func (m *Manager) Get(name string) (*schema.Option, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	option, _, err := m.find(name)
	if err != nil {
		return nil, err
	}
	return option.Clone(), nil
}

// Value returns the value an option will be saved with, staged edits included
func (m *Manager) Value(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	option, _, err := m.find(name)
	if err != nil {
		return "", err
	}
	if v, ok := m.edits[option]; ok {
		return v, nil
	}
	return option.Effective(), nil
}

func (m *Manager) find(name string) (*schema.Option, *schema.Section, error) {
	if m.sets == nil {
		return nil, nil, ErrNotLoaded
	}
	for _, set := range m.sets {
		if option, section := set.FindOption(name); option != nil {
			return option, section, nil
		}
	}
	return nil, nil, fmt.Errorf("option %s: %w", name, schema.ErrUnknownOption)
}

// Set validates value against the option and stages it
func (m *Manager) Set(ctx context.Context, name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	details := map[string]string{"value": value}
	if option, _, ferr := m.find(name); ferr == nil && option.Kind() == schema.KindPassword {
		details["value"] = "***"
	}

	err := m.set(name, value)
	audit.Record(ctx, audit.ActionOptionSet, name, "", details, err)
	if err != nil {
		return err
	}

	m.journal = append(m.journal, Edit{Op: OpSet, Name: name, Value: value})
	m.persist()
	m.publish(bus.EventConfigChanged, name, value)
	return nil
}

func (m *Manager) set(name, value string) error {
	if err := util.ValidateOptionName(name); err != nil {
		return fmt.Errorf("%v: %w", err, schema.ErrInvalidValue)
	}
	option, section, err := m.find(name)
	if err != nil {
		return err
	}
	if section.Hidden {
		return fmt.Errorf("%s belongs to hidden section %s: %w", option.Name, section.Name, schema.ErrInvalidValue)
	}
	if err := util.ValidateOptionValue(value); err != nil {
		return fmt.Errorf("%s: %v: %w", option.Name, err, schema.ErrInvalidValue)
	}
	if err := option.Validate(value); err != nil {
		return err
	}

	value = option.Canonical(value)
	if option.Value != nil && *option.Value == value {
		delete(m.edits, option)
	} else {
		m.edits[option] = value
	}
	return nil
}

// AddInstance appends a new instance to a repeatable section
func (m *Manager) AddInstance(ctx context.Context, sectionID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var id int
	section, err := m.section(sectionID)
	if err == nil {
		id, err = section.AddInstance()
	}
	audit.Record(ctx, audit.ActionInstanceAdd, sectionID, fmt.Sprintf("instance %d", id), nil, err)
	if err != nil {
		return 0, err
	}

	m.journal = append(m.journal, Edit{Op: OpAdd, Section: sectionID})
	m.persist()
	m.publish(bus.EventInstancesChanged, sectionID, section.Instances())
	return id, nil
}

// DeleteInstance removes an instance; later instances move up one number
func (m *Manager) DeleteInstance(ctx context.Context, sectionID string, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	section, err := m.section(sectionID)
	if err == nil {
		err = section.DeleteInstance(id)
	}
	audit.Record(ctx, audit.ActionInstanceDelete, sectionID, fmt.Sprintf("instance %d", id), nil, err)
	if err != nil {
		return err
	}

	m.pruneEdits()
	m.journal = append(m.journal, Edit{Op: OpDelete, Section: sectionID, Instance: id})
	m.persist()
	m.publish(bus.EventInstancesChanged, sectionID, section.Instances())
	return nil
}

// MoveInstance swaps an instance with the one before (up) or after it
func (m *Manager) MoveInstance(ctx context.Context, sectionID string, id int, up bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	section, err := m.section(sectionID)
	if err == nil {
		err = section.MoveInstance(id, up)
	}
	audit.Record(ctx, audit.ActionInstanceMove, sectionID, moveMessage(id, up), nil, err)
	if err != nil {
		return err
	}

	m.journal = append(m.journal, Edit{Op: OpMove, Section: sectionID, Instance: id, Up: up})
	m.persist()
	m.publish(bus.EventInstancesChanged, sectionID, section.Instances())
	return nil
}

func moveMessage(id int, up bool) string {
	if up {
		return fmt.Sprintf("instance %d up", id)
	}
	return fmt.Sprintf("instance %d down", id)
}

// pruneEdits forgets edits of options that no longer exist
func (m *Manager) pruneEdits() {
	live := make(map[*schema.Option]bool)
	for _, set := range m.sets {
		for _, section := range set.Sections {
			for _, option := range section.Options {
				live[option] = true
			}
		}
	}
	for option := range m.edits {
		if !live[option] {
			delete(m.edits, option)
		}
	}
}

// Search returns options matching every word of query
func (m *Manager) Search(query string) []*schema.Option {
	m.mu.RLock()
	defer m.mu.RUnlock()
	found := schema.Search(m.sets, query)
	for i, o := range found {
		found[i] = o.Clone()
	}
	return found
}

// Export returns the complete value list a commit would save
func (m *Manager) Export() []schema.Value {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.request()
}

// request builds the full save request and keeps undeclared values
func (m *Manager) request() []schema.Value {
	request, _ := schema.PrepareSave(m.sets, m.editNames(), false)
	for _, name := range m.obsolete {
		if v, ok := schema.FindValue(m.loaded, name); ok {
			request = append(request, v)
		}
	}
	return request
}

func (m *Manager) editNames() map[string]string {
	names := make(map[string]string, len(m.edits))
	for option, value := range m.edits {
		names[option.Name] = value
	}
	return names
}

// Changes lists how the values a commit would save differ from the loaded ones
func (m *Manager) Changes() []Change {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.changes()
}

// HasChanges reports whether a commit would change anything
func (m *Manager) HasChanges() bool {
	return len(m.Changes()) > 0
}

func (m *Manager) changes() []Change {
	if m.sets == nil {
		return nil
	}
	current, _ := schema.PrepareSave(m.sets, m.editNames(), false)
	return diff(m.baseline, current)
}

// Commit saves the staged edits through the source. The values loaded
// before the commit are snapshotted first; the model is reloaded after.
func (m *Manager) Commit(ctx context.Context, message string) (*CommitResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	changes := m.changes()
	if len(changes) == 0 {
		return nil, ErrNoChanges
	}

	result := &CommitResult{
		ID:      uuid.New().String(),
		Message: message,
		Changes: changes,
	}
	ctx = audit.WithCommit(ctx, result.ID)

	record := &db.Commit{
		CommitID: result.ID,
		Username: audit.Username(ctx),
		Message:  message,
		Source:   m.source.Kind(),
		Status:   db.CommitPending,
		Changes:  dbChanges(changes),
	}
	m.record(record, false)

	err := m.commit(ctx, result)
	record.SnapshotID = result.SnapshotID
	m.finish(record, err)

	audit.Record(ctx, audit.ActionConfigCommit, result.ID, message,
		map[string]interface{}{"changes": len(changes), "snapshot": result.SnapshotID}, err)
	if err != nil {
		return nil, err
	}

	m.publish(bus.EventConfigCommitted, result.ID, result)
	return result, nil
}

func (m *Manager) commit(ctx context.Context, result *CommitResult) error {
	if m.snapshots != nil {
		snap, err := m.snapshots.Create(snapshotMessage(result.Message), m.loaded)
		if err != nil {
			return fmt.Errorf("failed to snapshot current values: %w", err)
		}
		result.SnapshotID = snap.ID
		m.snapshots.AutoPrune()
		audit.Record(ctx, audit.ActionSnapshotCreate, snap.ID, snap.Metadata.Message, nil, nil)
		m.publish(bus.EventSnapshotCreated, snap.ID, snap.Metadata)
	}

	if err := m.source.Save(ctx, m.request()); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	m.clearStaging()
	if err := m.load(ctx); err != nil {
		return fmt.Errorf("configuration saved but reload failed: %w", err)
	}
	return nil
}

func snapshotMessage(message string) string {
	if message == "" {
		return "before commit"
	}
	return "before commit: " + message
}

// Revert drops every staged edit and reloads from the source
func (m *Manager) Revert(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.journal) == 0 {
		return ErrNoChanges
	}

	count := len(m.journal)
	m.clearStaging()
	err := m.load(ctx)
	audit.Record(ctx, audit.ActionConfigRevert, "", fmt.Sprintf("dropped %d edits", count), nil, err)
	if err != nil {
		return err
	}

	m.publish(bus.EventConfigReverted, "", count)
	return nil
}

// Restore saves the values held by a snapshot through the source. The
// current values are snapshotted first so a restore can be undone.
func (m *Manager) Restore(ctx context.Context, snapshotID string) (*CommitResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.snapshots == nil {
		return nil, fmt.Errorf("snapshots are disabled")
	}

	result := &CommitResult{
		ID:      uuid.New().String(),
		Message: "restore " + snapshotID,
	}
	ctx = audit.WithCommit(ctx, result.ID)

	err := m.restore(ctx, snapshotID, result)
	audit.Record(ctx, audit.ActionSnapshotRestore, snapshotID, result.Message, nil, err)

	record := &db.Commit{
		CommitID:   result.ID,
		Username:   audit.Username(ctx),
		Message:    result.Message,
		Source:     m.source.Kind(),
		Status:     db.CommitRestored,
		SnapshotID: result.SnapshotID,
		Changes:    dbChanges(result.Changes),
	}
	if err != nil {
		record.Status = db.CommitFailed
		record.Error = err.Error()
	}
	now := time.Now()
	record.CompletedAt = &now
	m.record(record, false)

	if err != nil {
		return nil, err
	}

	m.publish(bus.EventSnapshotRestored, snapshotID, result)
	return result, nil
}

func (m *Manager) restore(ctx context.Context, snapshotID string, result *CommitResult) error {
	vals, err := m.snapshots.Restore(snapshotID)
	if err != nil {
		return err
	}

	backup, err := m.snapshots.Create("before restore of "+snapshotID, m.loaded)
	if err != nil {
		return fmt.Errorf("failed to snapshot current values: %w", err)
	}
	result.SnapshotID = backup.ID
	m.snapshots.AutoPrune()

	result.Changes = diff(m.loaded, vals)

	if err := m.source.Save(ctx, vals); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	m.clearStaging()
	if err := m.load(ctx); err != nil {
		return fmt.Errorf("configuration restored but reload failed: %w", err)
	}
	return nil
}

// record stores a commit row when the audit database is available
func (m *Manager) record(c *db.Commit, update bool) {
	if !audit.Enabled() {
		return
	}

	var err error
	if update {
		err = db.UpdateCommit(c)
	} else {
		err = db.CreateCommit(c)
	}
	if err != nil {
		logger.Warn("Failed to record commit", "commit_id", c.CommitID, "error", err)
	}
}

func (m *Manager) finish(c *db.Commit, err error) {
	now := time.Now()
	c.CompletedAt = &now
	c.Status = db.CommitSucceeded
	if err != nil {
		c.Status = db.CommitFailed
		c.Error = err.Error()
	}
	m.record(c, true)
}

func (m *Manager) publish(eventType bus.EventType, name string, data interface{}) {
	m.events.Publish(bus.Event{Type: eventType, Name: name, Data: data})
}

// Edits returns the staged operations in the order they were made
func (m *Manager) Edits() []Edit {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Edit(nil), m.journal...)
}

// replay applies staged operations to a freshly loaded model. Operations
// that no longer fit the model are dropped.
func (m *Manager) replay(journal []Edit) {
	for _, e := range journal {
		if err := m.apply(e); err != nil {
			logger.Warn("Dropping staged edit", "op", e.Op, "name", e.Name, "section", e.Section, "error", err)
			continue
		}
		m.journal = append(m.journal, e)
	}
	if len(journal) != len(m.journal) {
		m.persist()
	}
}

func (m *Manager) apply(e Edit) error {
	switch e.Op {
	case OpSet:
		return m.set(e.Name, e.Value)
	case OpAdd, OpDelete, OpMove:
		section, err := m.section(e.Section)
		if err != nil {
			return err
		}
		switch e.Op {
		case OpAdd:
			_, err = section.AddInstance()
		case OpDelete:
			err = section.DeleteInstance(e.Instance)
			m.pruneEdits()
		default:
			err = section.MoveInstance(e.Instance, e.Up)
		}
		return err
	default:
		return fmt.Errorf("unknown staged operation %q", e.Op)
	}
}

func (m *Manager) readStaging() ([]Edit, error) {
	if m.stagingPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(m.stagingPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var journal []Edit
	if err := json.Unmarshal(data, &journal); err != nil {
		return nil, fmt.Errorf("failed to decode staged edits: %w", err)
	}
	return journal, nil
}

// persist writes the journal to the staging file
func (m *Manager) persist() {
	if m.stagingPath == "" {
		return
	}
	if len(m.journal) == 0 {
		m.clearStaging()
		return
	}

	data, err := json.MarshalIndent(m.journal, "", "  ")
	if err == nil {
		err = util.WriteFileAtomic(m.stagingPath, data, 0600)
	}
	if err != nil {
		logger.Error("Failed to persist staged edits", "path", m.stagingPath, "error", err)
	}
}

func (m *Manager) clearStaging() {
	m.journal = nil
	if m.stagingPath == "" {
		return
	}
	if err := os.Remove(m.stagingPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("Failed to remove staging file", "path", m.stagingPath, "error", err)
	}
}

// diff compares two value lists by case-insensitive name. Entries of
// before missing from after are reported as removed; order follows after,
// then before.
func diff(before, after []schema.Value) []Change {
	changes := []Change{}

	seen := make(map[string]bool, len(after))
	for _, v := range after {
		seen[strings.ToLower(v.Name)] = true
		old, ok := schema.FindValue(before, v.Name)
		switch {
		case !ok:
			changes = append(changes, Change{Name: v.Name, Type: ChangeAdded, NewValue: v.Value})
		case old.Value != v.Value:
			changes = append(changes, Change{Name: v.Name, Type: ChangeModified, OldValue: old.Value, NewValue: v.Value})
		}
	}

	var removed []Change
	for _, v := range before {
		if !seen[strings.ToLower(v.Name)] && !schema.IsRuntimeOption(v.Name) {
			removed = append(removed, Change{Name: v.Name, Type: ChangeRemoved, OldValue: v.Value})
		}
	}
	sort.SliceStable(removed, func(i, j int) bool { return removed[i].Name < removed[j].Name })

	return append(changes, removed...)
}

func dbChanges(changes []Change) []db.Change {
	out := make([]db.Change, 0, len(changes))
	for _, c := range changes {
		out = append(out, db.Change{Name: c.Name, OldValue: c.OldValue, NewValue: c.NewValue})
	}
	return out
}
