package schema

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrNotRepeatable is returned when instance editing targets a plain section
	ErrNotRepeatable = errors.New("section is not repeatable")
	// ErrNoInstance is returned for an instance id the section does not hold
	ErrNoInstance = errors.New("no such instance")
)

// Instances returns the ascending ids of the materialized instances
func (s *Section) Instances() []int {
	seen := make(map[int]bool)
	var ids []int
	for _, o := range s.Options {
		if !o.Materialized() || seen[o.MultiID] {
			continue
		}
		seen[o.MultiID] = true
		ids = append(ids, o.MultiID)
	}
	sort.Ints(ids)
	return ids
}

// InstanceOptions returns the options of instance id in template field order
func (s *Section) InstanceOptions(id int) []*Option {
	var options []*Option
	for _, o := range s.Options {
		if o.Materialized() && o.MultiID == id {
			options = append(options, o)
		}
	}
	return options
}

// AddInstance appends a new instance numbered after the highest existing one.
// Its options carry no value until edited.
func (s *Section) AddInstance() (int, error) {
	if !s.Repeatable {
		return 0, fmt.Errorf("add instance to %s: %w", s.ID, ErrNotRepeatable)
	}

	k := 1
	if ids := s.Instances(); len(ids) > 0 {
		k = ids[len(ids)-1] + 1
	}

	s.materialize(s.templates(), k)
	s.Modified = true
	return k, nil
}

// DeleteInstance removes instance id and closes the gap so the remaining
// instances stay numbered 1..n.
func (s *Section) DeleteInstance(id int) error {
	if !s.Repeatable {
		return fmt.Errorf("delete instance %d of %s: %w", id, s.ID, ErrNotRepeatable)
	}
	if !s.hasInstance(id) {
		return fmt.Errorf("delete instance %d of %s: %w", id, s.ID, ErrNoInstance)
	}

	kept := s.Options[:0]
	for _, o := range s.Options {
		if !o.Materialized() || o.MultiID != id {
			kept = append(kept, o)
		}
	}
	s.Options = kept

	s.renumber()
	s.Modified = true
	return nil
}

// MoveInstance swaps instance id with its upper or lower neighbour. Values
// travel with the instance.
func (s *Section) MoveInstance(id int, up bool) error {
	if !s.Repeatable {
		return fmt.Errorf("move instance %d of %s: %w", id, s.ID, ErrNotRepeatable)
	}

	other := id + 1
	if up {
		other = id - 1
	}
	if !s.hasInstance(id) || !s.hasInstance(other) {
		return fmt.Errorf("move instance %d of %s: %w", id, s.ID, ErrNoInstance)
	}

	first := s.InstanceOptions(id)
	second := s.InstanceOptions(other)
	for _, o := range first {
		s.rename(o, other)
	}
	for _, o := range second {
		s.rename(o, id)
	}

	s.sortInstances()
	s.Modified = true
	return nil
}

func (s *Section) hasInstance(id int) bool {
	for _, k := range s.Instances() {
		if k == id {
			return true
		}
	}
	return false
}

func (s *Section) renumber() {
	next := make(map[int]int)
	for i, k := range s.Instances() {
		next[k] = i + 1
	}
	for _, o := range s.Options {
		if o.Materialized() && next[o.MultiID] != o.MultiID {
			s.rename(o, next[o.MultiID])
		}
	}
}

// rename rebuilds name and caption of an instance option from its template
func (s *Section) rename(o *Option, k int) {
	o.Name = instanceName(o.origin.Name, s.RepeatablePrefix, k)
	o.Caption = instanceCaption(o.origin.Caption, k)
	o.MultiID = k
}

// sortInstances keeps parsed options first and instances in ascending order
func (s *Section) sortInstances() {
	sort.SliceStable(s.Options, func(i, j int) bool {
		a, b := s.Options[i], s.Options[j]
		if a.Materialized() != b.Materialized() {
			return !a.Materialized()
		}
		if !a.Materialized() {
			return false
		}
		return a.MultiID < b.MultiID
	})
}
