package schema

// runtimeOptions are reported by the daemon but never declared in a template
var runtimeOptions = []string{"ConfigFile", "AppBin", "AppDir", "Version"}

// PrepareSave builds the value list to send back to the daemon. edits maps
// option names to pending values; options without an edit keep their
// effective value. Hidden sections always keep the value they were loaded
// with. With onlyChanged only modified options are listed.
//
// The second result reports whether anything changed, including instances
// added, removed or moved in a repeatable section.
func PrepareSave(sets []*ConfigSet, edits map[string]string, onlyChanged bool) ([]Value, bool) {
	request := []Value{}
	modified := false

	for _, set := range sets {
		for _, section := range set.Sections {
			if section.PostParam {
				continue
			}
			for _, option := range section.Options {
				if option.Template || option.Info || option.IsCommand() {
					continue
				}

				var newValue *string
				if section.Hidden {
					newValue = option.Value
				} else if v, ok := edits[option.Name]; ok {
					newValue = stringPtr(v)
				} else {
					newValue = stringPtr(option.Effective())
				}
				if newValue == nil {
					continue
				}

				changed := option.Value == nil || *option.Value != *newValue
				modified = modified || changed
				if changed || !onlyChanged {
					request = append(request, Value{Name: option.Name, Value: *newValue})
				}
			}
			modified = modified || section.Modified
		}
	}

	return request, modified
}

// Obsolete lists live values that no loaded option declares. Saving a full
// request drops them from the daemon's configuration file.
func Obsolete(sets []*ConfigSet, values []Value) []string {
	var names []string
	for _, v := range values {
		if IsRuntimeOption(v.Name) {
			continue
		}
		found := false
		for _, set := range sets {
			if o, _ := set.FindOption(v.Name); o != nil {
				found = true
				break
			}
		}
		if !found {
			names = append(names, v.Name)
		}
	}
	return names
}

// IsRuntimeOption reports whether name is set by the daemon at startup
// rather than read from its configuration file
func IsRuntimeOption(name string) bool {
	return contains(runtimeOptions, name)
}
