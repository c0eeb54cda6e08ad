// Package appconfig loads webconf's own settings. The settings file uses
// the daemon's Name=Value format, so it is read with the values parser and
// its schema is produced by the same template parser as the daemon's.
package appconfig

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nzbgetcom/webconf/pkg/logger"
	"github.com/nzbgetcom/webconf/pkg/schema"
	"github.com/nzbgetcom/webconf/pkg/util"
	"github.com/nzbgetcom/webconf/pkg/values"
)

const (
	// DefaultConfigPath is the default path for webconf's own config
	DefaultConfigPath = "/etc/webconf/webconf.conf"

	// SectionName is the template section holding webconf's settings
	SectionName = "WEBCONF"

	// Default values
	DefaultSource          = "file"
	DefaultDaemonURL       = "http://127.0.0.1:6789"
	DefaultDaemonUsername  = "nzbget"
	DefaultDaemonTimeout   = 30 * time.Second
	DefaultReloadTimeout   = 60 * time.Second
	DefaultTemplateFile    = "/usr/share/nzbget/nzbget.conf"
	DefaultConfigFile      = "/etc/nzbget.conf"
	DefaultStagingFile     = "/var/lib/webconf/staged.json"
	DefaultAPIPort         = 6790
	DefaultEnableCORS      = false
	DefaultEnableSwagger   = false
	DefaultSnapshotDir     = "/var/lib/webconf/snapshots"
	DefaultSnapshotKeep    = 100
	DefaultRetentionDays   = 90
	DefaultDatabasePath    = "/var/lib/webconf/webconf.db"
	DefaultGlobalRateLimit = 100
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
)

// Config represents webconf's configuration
type Config struct {
	Daemon    DaemonConfig
	Files     FilesConfig
	API       APIConfig
	Snapshot  SnapshotConfig
	Audit     AuditConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// DaemonConfig selects where templates and values come from
type DaemonConfig struct {
	Source   string // "file" or "rpc"
	URL      string
	Username string
	Password string
	Timeout  time.Duration
	// AutoReload restarts the daemon after each commit (rpc source only)
	AutoReload    bool
	ReloadTimeout time.Duration
}

// FilesConfig names the files used by the file source
type FilesConfig struct {
	TemplateFile   string
	ConfigFile     string
	ExtensionsFile string
	StagingFile    string
}

// APIConfig contains API server configuration
type APIConfig struct {
	Port           int
	Username       string
	Password       string
	EnableCORS     bool
	AllowedOrigins []string
	EnableSwagger  bool
}

// SnapshotConfig contains snapshot settings
type SnapshotConfig struct {
	Dir  string
	Keep int
}

// AuditConfig contains audit log settings
type AuditConfig struct {
	Enabled       bool
	RetentionDays int
	DatabasePath  string
}

// RateLimitConfig contains rate limiting settings
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string
	Format string
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Daemon: DaemonConfig{
			Source:        DefaultSource,
			URL:           DefaultDaemonURL,
			Username:      DefaultDaemonUsername,
			Timeout:       DefaultDaemonTimeout,
			ReloadTimeout: DefaultReloadTimeout,
		},
		Files: FilesConfig{
			TemplateFile: DefaultTemplateFile,
			ConfigFile:   DefaultConfigFile,
			StagingFile:  DefaultStagingFile,
		},
		API: APIConfig{
			Port:          DefaultAPIPort,
			EnableCORS:    DefaultEnableCORS,
			EnableSwagger: DefaultEnableSwagger,
		},
		Snapshot: SnapshotConfig{
			Dir:  DefaultSnapshotDir,
			Keep: DefaultSnapshotKeep,
		},
		Audit: AuditConfig{
			Enabled:       true,
			RetentionDays: DefaultRetentionDays,
			DatabasePath:  DefaultDatabasePath,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: DefaultGlobalRateLimit,
			Burst:             DefaultGlobalRateLimit,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Load loads webconf configuration. A missing or unreadable file yields
// the defaults with a warning.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	file, err := os.Open(path)
	if err != nil {
		logger.Warn("Failed to load webconf config, using defaults", "path", path, "error", err)
		return DefaultConfig(), nil
	}
	defer file.Close()

	parsed, err := values.Parse(file)
	if err != nil {
		logger.Warn("Failed to parse webconf config, using defaults", "path", path, "error", err)
		return DefaultConfig(), nil
	}

	return FromValues(parsed.Values())
}

// FromValues builds a configuration from Name=Value pairs on top of the
// defaults. Names are matched case-insensitively.
func FromValues(vals []schema.Value) (*Config, error) {
	cfg := DefaultConfig()
	r := reader{values: vals}

	r.str("Source", &cfg.Daemon.Source)
	r.str("DaemonURL", &cfg.Daemon.URL)
	r.str("DaemonUsername", &cfg.Daemon.Username)
	r.str("DaemonPassword", &cfg.Daemon.Password)
	r.seconds("DaemonTimeout", &cfg.Daemon.Timeout)
	r.boolean("AutoReload", &cfg.Daemon.AutoReload)
	r.seconds("ReloadTimeout", &cfg.Daemon.ReloadTimeout)

	r.str("TemplateFile", &cfg.Files.TemplateFile)
	r.str("ConfigFile", &cfg.Files.ConfigFile)
	r.str("ExtensionsFile", &cfg.Files.ExtensionsFile)
	r.str("StagingFile", &cfg.Files.StagingFile)

	r.integer("APIPort", &cfg.API.Port)
	r.str("APIUsername", &cfg.API.Username)
	r.str("APIPassword", &cfg.API.Password)
	r.boolean("EnableCORS", &cfg.API.EnableCORS)
	r.list("AllowedOrigins", &cfg.API.AllowedOrigins)
	r.boolean("EnableSwagger", &cfg.API.EnableSwagger)

	r.str("SnapshotDir", &cfg.Snapshot.Dir)
	r.integer("SnapshotKeep", &cfg.Snapshot.Keep)

	r.boolean("AuditEnabled", &cfg.Audit.Enabled)
	r.integer("AuditRetentionDays", &cfg.Audit.RetentionDays)
	r.str("DatabasePath", &cfg.Audit.DatabasePath)

	if r.integer("RateLimit", &cfg.RateLimit.RequestsPerMinute) {
		cfg.RateLimit.Burst = cfg.RateLimit.RequestsPerMinute // Default burst = requests per minute
	}
	r.integer("RateLimitBurst", &cfg.RateLimit.Burst)

	r.str("LogLevel", &cfg.Log.Level)
	r.str("LogFormat", &cfg.Log.Format)

	if len(r.errs) > 0 {
		return nil, fmt.Errorf("invalid webconf config: %s", strings.Join(r.errs, "; "))
	}
	return cfg, nil
}

type reader struct {
	values []schema.Value
	errs   []string
}

func (r *reader) lookup(name string) (string, bool) {
	v, ok := schema.FindValue(r.values, name)
	return v.Value, ok
}

func (r *reader) str(name string, dst *string) {
	if v, ok := r.lookup(name); ok {
		*dst = v
	}
}

func (r *reader) integer(name string, dst *int) bool {
	v, ok := r.lookup(name)
	if !ok || v == "" {
		return false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Sprintf("%s: %q is not a number", name, v))
		return false
	}
	*dst = n
	return true
}

func (r *reader) seconds(name string, dst *time.Duration) {
	var n int
	if r.integer(name, &n) {
		*dst = time.Duration(n) * time.Second
	}
}

func (r *reader) boolean(name string, dst *bool) {
	v, ok := r.lookup(name)
	if !ok {
		return
	}
	switch strings.ToLower(v) {
	case "yes", "true", "1", "on":
		*dst = true
	case "no", "false", "0", "off", "":
		*dst = false
	default:
		r.errs = append(r.errs, fmt.Sprintf("%s: %q is not yes or no", name, v))
	}
}

func (r *reader) list(name string, dst *[]string) {
	v, ok := r.lookup(name)
	if !ok {
		return
	}
	var items []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	*dst = items
}

// Entries describes every setting with its current value, in file order
func (c *Config) Entries() []schema.TemplateEntry {
	return []schema.TemplateEntry{
		{Name: "Source", Value: c.Daemon.Source, Description: "Where templates and values are read from (file, rpc)."},
		{Name: "DaemonURL", Value: c.Daemon.URL, Description: "Address of the daemon's control port, used by the rpc source."},
		{Name: "DaemonUsername", Value: c.Daemon.Username, Description: "User name for the daemon's control port."},
		{Name: "DaemonPassword", Value: c.Daemon.Password, Description: "Password for the daemon's control port."},
		{Name: "DaemonTimeout", Value: int(c.Daemon.Timeout / time.Second), Description: "Timeout for daemon requests (seconds)."},
		{Name: "AutoReload", Value: c.Daemon.AutoReload, Description: "Restart the daemon after each commit so the new values take effect (yes, no).\n\nOnly used by the rpc source."},
		{Name: "ReloadTimeout", Value: int(c.Daemon.ReloadTimeout / time.Second), Description: "How long to wait for the daemon to come back after a restart (seconds)."},
		{Name: "TemplateFile", Value: c.Files.TemplateFile, Description: "Configuration template shipped with the daemon, used by the file source."},
		{Name: "ConfigFile", Value: c.Files.ConfigFile, Description: "The daemon's configuration file, used by the file source."},
		{Name: "ExtensionsFile", Value: c.Files.ExtensionsFile, Description: "Optional JSON list of extension manifests, used by the file source."},
		{Name: "StagingFile", Value: c.Files.StagingFile, Description: "Where edits waiting for a commit are kept between CLI runs."},
		{Name: "APIPort", Value: c.API.Port, Description: "Port of the HTTP API (1-65535)."},
		{Name: "APIUsername", Value: c.API.Username, Description: "User name required by the HTTP API.\n\nLeave empty to disable authentication."},
		{Name: "APIPassword", Value: c.API.Password, Description: "Password required by the HTTP API.\n\nEither plain text or a bcrypt hash printed by webconf hash-password."},
		{Name: "EnableCORS", Value: c.API.EnableCORS, Description: "Allow cross-origin requests (yes, no)."},
		{Name: "AllowedOrigins", Value: strings.Join(c.API.AllowedOrigins, ","), Description: "Comma separated origins allowed when CORS is enabled."},
		{Name: "EnableSwagger", Value: c.API.EnableSwagger, Description: "Serve the API documentation under /api/docs (yes, no)."},
		{Name: "SnapshotDir", Value: c.Snapshot.Dir, Description: "Directory holding the snapshots taken before each commit."},
		{Name: "SnapshotKeep", Value: c.Snapshot.Keep, Description: "Number of snapshots to keep (snapshots)."},
		{Name: "AuditEnabled", Value: c.Audit.Enabled, Description: "Record edits and commits in the audit log (yes, no)."},
		{Name: "AuditRetentionDays", Value: c.Audit.RetentionDays, Description: "How long audit entries are kept (days)."},
		{Name: "DatabasePath", Value: c.Audit.DatabasePath, Description: "Location of the audit database."},
		{Name: "RateLimit", Value: c.RateLimit.RequestsPerMinute, Description: "API requests allowed per client and minute (requests)."},
		{Name: "RateLimitBurst", Value: c.RateLimit.Burst, Description: "Requests a client may send at once (requests)."},
		{Name: "LogLevel", Value: c.Log.Level, Description: "Log level (debug, info, warn, error)."},
		{Name: "LogFormat", Value: c.Log.Format, Description: "Log format (json, text)."},
	}
}

// Template renders the settings as template text together with their
// current values
func (c *Config) Template() (string, []schema.Value) {
	return schema.BuildTemplate(SectionName, c.Entries())
}

// Schema returns the settings as a config set with the current values merged
func (c *Config) Schema() *schema.ConfigSet {
	text, vals := c.Template()
	set := schema.ParseTemplate(text, nil, "")
	set.Name = "webconf"
	set.DisplayName = "webconf"
	schema.MergeValues(set.Sections, vals)
	return set
}

// CreateDefaultConfig creates a default webconf config file
func CreateDefaultConfig(path string) error {
	if path == "" {
		path = DefaultConfigPath
	}

	text, _ := DefaultConfig().Template()

	var buf bytes.Buffer
	buf.WriteString("# webconf configuration\n#\n")
	buf.WriteString(text)

	return util.WriteFileAtomic(path, buf.Bytes(), 0600)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Daemon.Source {
	case "file":
		if c.Files.TemplateFile == "" || c.Files.ConfigFile == "" {
			return fmt.Errorf("file source needs TemplateFile and ConfigFile")
		}
	case "rpc":
		if c.Daemon.URL == "" {
			return fmt.Errorf("rpc source needs DaemonURL")
		}
	default:
		return fmt.Errorf("invalid source %q (expected file or rpc)", c.Daemon.Source)
	}

	if c.Daemon.Timeout <= 0 {
		return fmt.Errorf("daemon timeout must be positive")
	}

	if c.Daemon.AutoReload && c.Daemon.ReloadTimeout <= 0 {
		return fmt.Errorf("reload timeout must be positive")
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		return fmt.Errorf("invalid API port: %d", c.API.Port)
	}

	if (c.API.Username == "") != (c.API.Password == "") {
		return fmt.Errorf("APIUsername and APIPassword must be set together")
	}

	if c.Snapshot.Keep < 1 {
		return fmt.Errorf("snapshot keep must be at least 1")
	}

	if c.Audit.RetentionDays < 1 {
		return fmt.Errorf("audit retention must be at least 1 day")
	}

	if c.RateLimit.RequestsPerMinute < 1 {
		return fmt.Errorf("rate limit must be at least 1 request per minute")
	}

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return err
	}

	return nil
}
