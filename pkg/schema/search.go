package schema

import (
	"strings"
)

// Search returns the visible options matching every word of query. Words
// are compared case-insensitively against caption, name, description and
// live value. An empty query matches nothing.
func Search(sets []*ConfigSet, query string) []*Option {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return nil
	}

	var found []*Option
	for _, set := range sets {
		for _, section := range set.Sections {
			if section.Hidden {
				continue
			}
			for _, option := range section.Options {
				if !option.Template && matchesAll(option, words) {
					found = append(found, option)
				}
			}
		}
	}
	return found
}

func matchesAll(option *Option, words []string) bool {
	value := ""
	if option.Value != nil {
		value = *option.Value
	}
	text := strings.ToLower(strings.Join([]string{option.Caption, option.Name, option.Description, value}, "\n"))
	for _, word := range words {
		if !strings.Contains(text, word) {
			return false
		}
	}
	return true
}
