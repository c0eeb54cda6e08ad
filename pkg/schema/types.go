// Package schema turns NZBGet configuration templates into an option model
// and overlays the daemon's live values onto it.
package schema

import (
	"strings"
)

// DefaultSectionName is used when an option appears before any section header
const DefaultSectionName = "OPTIONS"

// HiddenSections are parsed and merged but never displayed
var HiddenSections = []string{
	"DISPLAY (TERMINAL)",
	"POSTPROCESSING-PARAMETERS",
	"POST-PROCESSING-PARAMETERS",
	"POST-PROCESSING PARAMETERS",
}

// PostParamSections are the historical spellings of the post-processing parameters section
var PostParamSections = []string{
	"POSTPROCESSING-PARAMETERS",
	"POST-PROCESSING-PARAMETERS",
	"POST-PROCESSING PARAMETERS",
}

// Value is a live name/value pair as reported by the daemon
type Value struct {
	Name  string `json:"Name" yaml:"name"`
	Value string `json:"Value" yaml:"value"`
}

// Option represents one configurable setting
type Option struct {
	Caption      string   `json:"caption" yaml:"caption"`
	Name         string   `json:"name" yaml:"name"`
	DefaultValue string   `json:"default_value" yaml:"default_value"`
	Value        *string  `json:"value" yaml:"value"` // nil until merged, or when never set
	SectionID    string   `json:"section_id" yaml:"section_id"`
	Choices      []string `json:"choices" yaml:"choices"`
	Description  string   `json:"description" yaml:"description"`
	Template     bool     `json:"template" yaml:"template"`
	MultiID      int      `json:"multi_id" yaml:"multi_id"`
	Disabled     bool     `json:"disabled" yaml:"disabled"`
	CommandOpts  string   `json:"command_opts,omitempty" yaml:"command_opts,omitempty"`
	About        string   `json:"about,omitempty" yaml:"about,omitempty"`
	Info         bool     `json:"info,omitempty" yaml:"info,omitempty"`

	// origin is the template a materialized instance option was cloned from
	origin *Option
}

// Section is a named, ordered group of options
type Section struct {
	Name             string    `json:"name" yaml:"name"`
	ID               string    `json:"id" yaml:"id"`
	Description      string    `json:"description,omitempty" yaml:"description,omitempty"`
	Options          []*Option `json:"options" yaml:"options"`
	Repeatable       bool      `json:"repeatable" yaml:"repeatable"`
	RepeatablePrefix string    `json:"repeatable_prefix,omitempty" yaml:"repeatable_prefix,omitempty"`
	Hidden           bool      `json:"hidden" yaml:"hidden"`
	PostParam        bool      `json:"post_param" yaml:"post_param"`
	Modified         bool      `json:"modified" yaml:"modified"`
}

// ConfigSet is one parsed template: the core program options or one extension script
type ConfigSet struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	DisplayName string     `json:"display_name" yaml:"display_name"`
	NamePrefix  string     `json:"name_prefix" yaml:"name_prefix"`
	Sections    []*Section `json:"sections" yaml:"sections"`

	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
	About        string `json:"about,omitempty" yaml:"about,omitempty"`
	Author       string `json:"author,omitempty" yaml:"author,omitempty"`
	License      string `json:"license,omitempty" yaml:"license,omitempty"`
	Version      string `json:"version,omitempty" yaml:"version,omitempty"`
	Post         bool   `json:"post,omitempty" yaml:"post,omitempty"`
	Scan         bool   `json:"scan,omitempty" yaml:"scan,omitempty"`
	Queue        bool   `json:"queue,omitempty" yaml:"queue,omitempty"`
	Scheduler    bool   `json:"scheduler,omitempty" yaml:"scheduler,omitempty"`
	DefScheduler bool   `json:"def_scheduler,omitempty" yaml:"def_scheduler,omitempty"`
	Feed         bool   `json:"feed,omitempty" yaml:"feed,omitempty"`
}

// IsCommand reports whether the option triggers an action instead of storing a value
func (o *Option) IsCommand() bool {
	return o.CommandOpts != ""
}

// Effective returns the live value, falling back to the default
func (o *Option) Effective() string {
	if o.Value == nil {
		return o.DefaultValue
	}
	return *o.Value
}

// Materialized reports whether the option belongs to an expanded instance of a repeatable group
func (o *Option) Materialized() bool {
	return o.origin != nil
}

// FindOption finds a concrete option by case-insensitive name; templates are skipped
func (c *ConfigSet) FindOption(name string) (*Option, *Section) {
	for _, s := range c.Sections {
		for _, o := range s.Options {
			if !o.Template && strings.EqualFold(o.Name, name) {
				return o, s
			}
		}
	}
	return nil, nil
}

// FindSection finds a section by id
func (c *ConfigSet) FindSection(id string) *Section {
	for _, s := range c.Sections {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// FindValue looks up a live value by case-insensitive name
func FindValue(values []Value, name string) (Value, bool) {
	for _, v := range values {
		if strings.EqualFold(v.Name, name) {
			return v, true
		}
	}
	return Value{}, false
}

// MakeID derives an identifier safe for use in element ids and URLs
func MakeID(text string) string {
	return idReplacer.Replace(text)
}

var idReplacer = strings.NewReplacer(
	" ", "_",
	"/", "_",
	"\\", "_",
	".", "_",
	"|", "_",
	"$", "_",
	":", "_",
	"*", "_",
)

func contains(list []string, name string) bool {
	for _, item := range list {
		if item == name {
			return true
		}
	}
	return false
}

func stringPtr(s string) *string {
	return &s
}
