package schema

import (
	"strconv"
	"strings"
)

// MergeValues overlays live values onto parsed sections. Plain options take
// the matching value or nil. Repeatable sections are expanded into one
// instance per index k = 1, 2, ... for as long as any templated field has a
// live value; expansion stops at the first index without data.
//
// Instances materialized by an earlier merge are discarded first, so merging
// the same values twice yields the same schema.
func MergeValues(sections []*Section, values []Value) {
	for _, section := range sections {
		if section.Repeatable {
			mergeRepeatable(section, values)
		} else {
			mergePlain(section, values)
		}
	}
}

func mergePlain(section *Section, values []Value) {
	for _, option := range section.Options {
		option.Value = nil
		if option.IsCommand() {
			continue
		}
		if v, ok := FindValue(values, option.Name); ok {
			option.Value = stringPtr(v.Value)
		}
	}
}

func mergeRepeatable(section *Section, values []Value) {
	section.dropInstances()
	templates := section.templates()

	// plain options parsed before the first templated field
	for _, option := range section.Options {
		if option.Template || option.IsCommand() {
			continue
		}
		option.Value = nil
		if v, ok := FindValue(values, option.Name); ok {
			option.Value = stringPtr(v.Value)
		}
	}

	for k := 1; instanceExists(section, templates, values, k); k++ {
		for _, option := range section.materialize(templates, k) {
			if v, ok := FindValue(values, option.Name); ok {
				option.Value = stringPtr(v.Value)
			}
		}
	}
}

func instanceExists(section *Section, templates []*Option, values []Value, k int) bool {
	for _, t := range templates {
		if _, ok := FindValue(values, instanceName(t.Name, section.RepeatablePrefix, k)); ok {
			return true
		}
	}
	return false
}

// materialize appends a fresh instance k cloned from templates
func (s *Section) materialize(templates []*Option, k int) []*Option {
	added := make([]*Option, 0, len(templates))
	for _, t := range templates {
		option := *t
		option.Name = instanceName(t.Name, s.RepeatablePrefix, k)
		option.Caption = instanceCaption(t.Caption, k)
		option.Choices = append([]string(nil), t.Choices...)
		option.Template = false
		option.MultiID = k
		option.Value = nil
		option.origin = t
		s.Options = append(s.Options, &option)
		added = append(added, &option)
	}
	return added
}

func (s *Section) templates() []*Option {
	var templates []*Option
	for _, o := range s.Options {
		if o.Template {
			templates = append(templates, o)
		}
	}
	return templates
}

func (s *Section) dropInstances() {
	kept := s.Options[:0]
	for _, o := range s.Options {
		if !o.Materialized() {
			kept = append(kept, o)
		}
	}
	for i := len(kept); i < len(s.Options); i++ {
		s.Options[i] = nil
	}
	s.Options = kept
}

// instanceName replaces the placeholder index of a templated name with k.
// The placeholder is the "1" right after the repeatable prefix, or failing
// that the first "1." in the name.
func instanceName(name, prefix string, k int) string {
	pos := -1
	if prefix != "" && strings.HasPrefix(name, prefix) && strings.HasPrefix(name[len(prefix):], "1.") {
		pos = len(prefix)
	} else {
		pos = strings.Index(name, "1.")
	}
	if pos < 0 {
		return name
	}
	return name[:pos] + strconv.Itoa(k) + name[pos+1:]
}

// instanceCaption carries no name prefix, so its first "1" is the placeholder
func instanceCaption(caption string, k int) string {
	pos := strings.Index(caption, "1")
	if pos < 0 {
		return caption
	}
	return caption[:pos] + strconv.Itoa(k) + caption[pos+1:]
}
