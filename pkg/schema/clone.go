package schema

// Clone returns a copy of the option that shares no memory with it
func (o *Option) Clone() *Option {
	if o == nil {
		return nil
	}
	c := *o
	if o.Value != nil {
		c.Value = stringPtr(*o.Value)
	}
	c.Choices = append([]string(nil), o.Choices...)
	return &c
}

// Clone returns a deep copy of the section. Instance options of the copy
// point at the copied templates.
func (s *Section) Clone() *Section {
	if s == nil {
		return nil
	}
	c := *s
	c.Options = make([]*Option, len(s.Options))
	copied := make(map[*Option]*Option, len(s.Options))
	for i, o := range s.Options {
		c.Options[i] = o.Clone()
		copied[o] = c.Options[i]
	}
	for _, o := range c.Options {
		if t, ok := copied[o.origin]; ok {
			o.origin = t
		}
	}
	return &c
}

// Clone returns a deep copy of the config set
func (c *ConfigSet) Clone() *ConfigSet {
	if c == nil {
		return nil
	}
	set := *c
	set.Sections = make([]*Section, len(c.Sections))
	for i, s := range c.Sections {
		set.Sections[i] = s.Clone()
	}
	return &set
}

// CloneSets deep-copies a list of config sets
func CloneSets(sets []*ConfigSet) []*ConfigSet {
	if sets == nil {
		return nil
	}
	out := make([]*ConfigSet, len(sets))
	for i, set := range sets {
		out[i] = set.Clone()
	}
	return out
}
