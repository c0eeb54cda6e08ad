package schema

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TemplateEntry describes one setting rendered by BuildTemplate
type TemplateEntry struct {
	Name        string
	Description string
	Value       any
}

// BuildTemplate renders entries as template text under a single section
// header so that settings kept outside the daemon go through the same
// parser and merger as everything else. It also returns the entries'
// current values. Booleans are written as yes/no.
func BuildTemplate(section string, entries []TemplateEntry) (string, []Value) {
	var b strings.Builder
	values := make([]Value, 0, len(entries))

	fmt.Fprintf(&b, "### %s ###\n\n", section)

	for _, entry := range entries {
		name := upperFirst(entry.Name)
		value := templateValue(entry.Value)

		description := strings.ReplaceAll(entry.Description, "\n", "\n# ")
		description = strings.ReplaceAll(description, "\n# \n", "\n#\n")

		fmt.Fprintf(&b, "# %s\n%s=%s\n\n", description, name, value)
		values = append(values, Value{Name: name, Value: value})
	}

	return b.String(), values
}

func templateValue(v any) string {
	switch value := v.(type) {
	case bool:
		if value {
			return "yes"
		}
		return "no"
	case string:
		return value
	default:
		return fmt.Sprint(value)
	}
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
