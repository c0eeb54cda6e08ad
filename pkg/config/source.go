package config

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/nzbgetcom/webconf/pkg/rpc"
	"github.com/nzbgetcom/webconf/pkg/schema"
	"github.com/nzbgetcom/webconf/pkg/util"
	"github.com/nzbgetcom/webconf/pkg/values"
)

// Source supplies the daemon's template, live values and extension
// manifests, and stores saved values
type Source interface {
	// Kind names the source for logs and commit records
	Kind() string
	Template(ctx context.Context) (string, error)
	Values(ctx context.Context) ([]schema.Value, error)
	Extensions(ctx context.Context) ([]schema.Extension, error)
	Save(ctx context.Context, vals []schema.Value) error
}

// FileSource reads the template and values straight from disk
type FileSource struct {
	TemplatePath   string
	ValuesPath     string
	ExtensionsPath string // optional JSON array of extension manifests
}

// NewFileSource creates a file-backed source
func NewFileSource(templatePath, valuesPath, extensionsPath string) *FileSource {
	return &FileSource{
		TemplatePath:   templatePath,
		ValuesPath:     valuesPath,
		ExtensionsPath: extensionsPath,
	}
}

func (s *FileSource) Kind() string { return "file" }

func (s *FileSource) Template(ctx context.Context) (string, error) {
	data, err := os.ReadFile(s.TemplatePath)
	if err != nil {
		return "", fmt.Errorf("failed to read template %s: %w", s.TemplatePath, err)
	}
	return string(data), nil
}

// Values returns the values file's entries; a missing file holds no values
func (s *FileSource) Values(ctx context.Context) ([]schema.Value, error) {
	file, err := s.load()
	if err != nil {
		return nil, err
	}
	return file.Values(), nil
}

func (s *FileSource) Extensions(ctx context.Context) ([]schema.Extension, error) {
	if s.ExtensionsPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(s.ExtensionsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read extensions %s: %w", s.ExtensionsPath, err)
	}

	var exts []schema.Extension
	if err := json.Unmarshal(data, &exts); err != nil {
		return nil, fmt.Errorf("failed to decode extensions %s: %w", s.ExtensionsPath, err)
	}
	return exts, nil
}

// Save replaces the file's entries with vals, keeping its comments
func (s *FileSource) Save(ctx context.Context, vals []schema.Value) error {
	file, err := s.load()
	if err != nil {
		return err
	}
	file.Apply(vals)

	var buf bytes.Buffer
	if err := values.Write(&buf, file); err != nil {
		return fmt.Errorf("failed to encode values: %w", err)
	}
	if err := util.WriteFileAtomic(s.ValuesPath, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.ValuesPath, err)
	}
	return nil
}

func (s *FileSource) load() (*values.File, error) {
	f, err := os.Open(s.ValuesPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return values.NewFile(), nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", s.ValuesPath, err)
	}
	defer f.Close()

	file, err := values.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.ValuesPath, err)
	}
	return file, nil
}

// RPCSource talks to a running daemon
type RPCSource struct {
	Client *rpc.Client
}

// NewRPCSource creates a daemon-backed source
func NewRPCSource(client *rpc.Client) *RPCSource {
	return &RPCSource{Client: client}
}

func (s *RPCSource) Kind() string { return "rpc" }

// Template returns the daemon's own template, the entry without a name.
// Templates are read from disk so they match the values of loadconfig.
func (s *RPCSource) Template(ctx context.Context) (string, error) {
	templates, err := s.Client.ConfigTemplates(ctx, true)
	if err != nil {
		return "", err
	}
	for _, t := range templates {
		if t.Name == "" {
			return t.Template, nil
		}
	}
	return "", fmt.Errorf("daemon returned no configuration template")
}

// Values returns the values stored in the daemon's configuration file,
// which may differ from the ones it is currently running with
func (s *RPCSource) Values(ctx context.Context) ([]schema.Value, error) {
	return s.Client.LoadConfig(ctx)
}

// Extensions returns the extension manifests as currently found on disk
func (s *RPCSource) Extensions(ctx context.Context) ([]schema.Extension, error) {
	return s.Client.LoadExtensions(ctx, true)
}

func (s *RPCSource) Save(ctx context.Context, vals []schema.Value) error {
	ok, err := s.Client.SaveConfig(ctx, vals)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("daemon refused to save the configuration")
	}
	return nil
}
