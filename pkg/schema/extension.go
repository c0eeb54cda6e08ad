package schema

import (
	"strconv"
	"strings"
)

// PostParamSectionID identifies the synthesized post-processing parameters section
const PostParamSectionID = "PP-Parameters"

// Extension is one entry of the daemon's extension manifest list
type Extension struct {
	Name            string             `json:"Name" yaml:"name"`
	DisplayName     string             `json:"DisplayName" yaml:"display_name"`
	About           string             `json:"About" yaml:"about"`
	Author          string             `json:"Author" yaml:"author"`
	License         string             `json:"License" yaml:"license"`
	Version         string             `json:"Version" yaml:"version"`
	Homepage        string             `json:"Homepage,omitempty" yaml:"homepage,omitempty"`
	Description     []string           `json:"Description" yaml:"description"`
	Requirements    []string           `json:"Requirements" yaml:"requirements"`
	PostScript      bool               `json:"PostScript" yaml:"post_script"`
	ScanScript      bool               `json:"ScanScript" yaml:"scan_script"`
	QueueScript     bool               `json:"QueueScript" yaml:"queue_script"`
	SchedulerScript bool               `json:"SchedulerScript" yaml:"scheduler_script"`
	FeedScript      bool               `json:"FeedScript" yaml:"feed_script"`
	TaskTime        string             `json:"TaskTime" yaml:"task_time"`
	Options         []ExtensionOption  `json:"Options" yaml:"options"`
	Commands        []ExtensionCommand `json:"Commands" yaml:"commands"`
}

// ExtensionOption is a stored setting declared by an extension manifest.
// Value is a string for text options, a number for numeric ones and
// anything else for informational entries.
type ExtensionOption struct {
	Name        string   `json:"Name" yaml:"name"`
	DisplayName string   `json:"DisplayName" yaml:"display_name"`
	Description []string `json:"Description" yaml:"description"`
	Value       any      `json:"Value" yaml:"value"`
	Select      []any    `json:"Select" yaml:"select"`
	Section     string   `json:"Section" yaml:"section"`
	Prefix      string   `json:"Prefix" yaml:"prefix"`
	Multi       bool     `json:"Multi" yaml:"multi"`
}

// ExtensionCommand is an action button declared by an extension manifest
type ExtensionCommand struct {
	Name        string   `json:"Name" yaml:"name"`
	DisplayName string   `json:"DisplayName" yaml:"display_name"`
	Description []string `json:"Description" yaml:"description"`
	Action      string   `json:"Action" yaml:"action"`
	Section     string   `json:"Section" yaml:"section"`
	Prefix      string   `json:"Prefix" yaml:"prefix"`
	Multi       bool     `json:"Multi" yaml:"multi"`
}

// FromExtension builds a config set from an extension manifest. Sections
// follow the order in which commands, then options, first name them. The
// caller merges live values afterwards, as for parsed templates.
func FromExtension(ext Extension) *ConfigSet {
	set := &ConfigSet{
		ID:           MakeID(ext.Name),
		Name:         ext.Name,
		DisplayName:  ext.DisplayName,
		NamePrefix:   ext.Name + ":",
		Description:  extensionDescription(ext),
		About:        ext.About,
		Author:       ext.Author,
		License:      ext.License,
		Version:      ext.Version,
		Post:         ext.PostScript,
		Scan:         ext.ScanScript,
		Queue:        ext.QueueScript,
		Scheduler:    ext.SchedulerScript,
		DefScheduler: ext.TaskTime != "",
		Feed:         ext.FeedScript,
	}

	sections := make(map[string]*Section)
	add := func(sectionName string, multi bool, option *Option) {
		name := strings.ToUpper(sectionName)
		section, ok := sections[name]
		if !ok {
			section = &Section{
				Name:       name,
				ID:         ext.Name + "_" + name,
				Repeatable: multi,
			}
			sections[name] = section
			set.Sections = append(set.Sections, section)
		}
		if section.Repeatable && section.RepeatablePrefix == "" {
			if i := strings.Index(option.Name, "1."); i > -1 {
				section.RepeatablePrefix = option.Name[:i]
			}
		}
		option.SectionID = section.ID
		section.Options = append(section.Options, option)
	}

	for _, cmd := range ext.Commands {
		add(cmd.Section, cmd.Multi, &Option{
			Caption:      cmd.DisplayName,
			Name:         extensionOptionName(ext.Name, cmd.Prefix, cmd.Multi, cmd.Name),
			DefaultValue: cmd.Action,
			Choices:      []string{},
			Description:  joinLines(cmd.Description),
			Template:     cmd.Multi,
			MultiID:      1,
			CommandOpts:  DefaultCommandOpts,
		})
	}

	for _, opt := range ext.Options {
		value, info := formatValue(opt.Value)
		add(opt.Section, opt.Multi, &Option{
			Caption:      opt.DisplayName,
			Name:         extensionOptionName(ext.Name, opt.Prefix, opt.Multi, opt.Name),
			DefaultValue: value,
			Value:        stringPtr(value),
			Choices:      extensionChoices(opt),
			Description:  joinLines(opt.Description),
			Template:     opt.Multi,
			MultiID:      1,
			Info:         info,
		})
	}

	return set
}

// PostParamSection lists one yes/no switch per post-processing or queue
// extension, used to pick the extensions run for a single download.
func PostParamSection(exts []Extension) *Section {
	section := &Section{
		Name:      PostParamSectionID,
		ID:        PostParamSectionID,
		Options:   []*Option{},
		PostParam: true,
	}

	for _, ext := range exts {
		if !ext.PostScript && !ext.QueueScript {
			continue
		}
		about := ext.About
		if about == "" {
			about = "Extension script " + ext.Name + "."
		}
		section.Options = append(section.Options, &Option{
			Caption:      ext.DisplayName,
			Name:         ext.Name + ":",
			DefaultValue: "no",
			SectionID:    MakeID(ext.Name + ":"),
			Choices:      []string{"yes", "no"},
			About:        about,
			MultiID:      1,
		})
	}

	return section
}

func extensionOptionName(ext, prefix string, multi bool, name string) string {
	full := ext + ":" + prefix
	if multi {
		full += "1."
	}
	return full + name
}

func extensionDescription(ext Extension) string {
	description := joinLines(ext.Description) + "\n"
	for _, req := range ext.Requirements {
		if req != "" {
			description += "NOTE: " + req + "\n"
		} else {
			description += "\n"
		}
	}
	return description
}

// extensionChoices turns a numeric [min, max] selection into a single range unit
func extensionChoices(opt ExtensionOption) []string {
	choices := []string{}
	if isNumber(opt.Value) && len(opt.Select) > 1 {
		from, _ := formatValue(opt.Select[0])
		to, _ := formatValue(opt.Select[1])
		return append(choices, from+"-"+to)
	}
	for _, s := range opt.Select {
		v, _ := formatValue(s)
		choices = append(choices, v)
	}
	return choices
}

// formatValue renders a manifest value as option text; info is true for
// values that are neither text nor number.
func formatValue(v any) (string, bool) {
	switch value := v.(type) {
	case string:
		return value, false
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), false
	case int:
		return strconv.Itoa(value), false
	case nil:
		return "", true
	case bool:
		if value {
			return "yes", true
		}
		return "no", true
	default:
		return "", true
	}
}

func isNumber(v any) bool {
	switch v.(type) {
	case float64, int:
		return true
	}
	return false
}

func joinLines(lines []string) string {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
