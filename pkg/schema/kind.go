package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidValue is returned when a value does not fit its option
	ErrInvalidValue = errors.New("invalid value")
	// ErrUnknownOption is returned when no option carries the given name
	ErrUnknownOption = errors.New("unknown option")
)

// Kind tells a renderer which control an option needs
type Kind string

const (
	KindText     Kind = "text"
	KindNumeric  Kind = "numeric"
	KindSwitch   Kind = "switch"
	KindPassword Kind = "password"
	KindCommand  Kind = "command"
	KindInfo     Kind = "info"
)

// Kind classifies the option from its parsed shape
func (o *Option) Kind() Kind {
	switch {
	case o.Info:
		return KindInfo
	case o.IsCommand():
		return KindCommand
	case len(o.Choices) > 1:
		return KindSwitch
	case len(o.Choices) == 1:
		return KindNumeric
	case strings.Contains(strings.ToLower(o.Caption), "password") &&
		!strings.EqualFold(o.Name, "*Unpack:Password"):
		return KindPassword
	default:
		return KindText
	}
}

// Unit is the suffix shown next to a numeric option, empty for other kinds
func (o *Option) Unit() string {
	if o.Kind() != KindNumeric {
		return ""
	}
	return o.Choices[0]
}

// Validate checks v against the option's kind. Numeric options accept a
// number, bounded when the unit is a range "a-b". Switches accept one of
// their choices or the value they already hold. An empty numeric value is
// allowed and means "use the default".
func (o *Option) Validate(v string) error {
	switch o.Kind() {
	case KindCommand, KindInfo:
		return fmt.Errorf("%s is not editable: %w", o.Name, ErrInvalidValue)

	case KindNumeric:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%s expects a number, got %q: %w", o.Name, v, ErrInvalidValue)
		}
		if lo, hi, ok := parseRange(o.Choices[0]); ok && (n < lo || n > hi) {
			return fmt.Errorf("%s must be within %s, got %q: %w", o.Name, o.Choices[0], v, ErrInvalidValue)
		}

	case KindSwitch:
		for _, choice := range o.Choices {
			if strings.EqualFold(choice, v) {
				return nil
			}
		}
		if o.Value != nil && *o.Value == v {
			return nil
		}
		return fmt.Errorf("%s expects one of %s, got %q: %w",
			o.Name, strings.Join(o.Choices, ", "), v, ErrInvalidValue)
	}

	return nil
}

// Canonical returns the spelling of v as listed in a switch's choices
func (o *Option) Canonical(v string) string {
	if o.Kind() == KindSwitch {
		for _, choice := range o.Choices {
			if strings.EqualFold(choice, v) {
				return choice
			}
		}
	}
	return v
}

func parseRange(unit string) (float64, float64, bool) {
	from, to, found := strings.Cut(unit, "-")
	if !found {
		return 0, 0, false
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(from), 64)
	if err != nil {
		return 0, 0, false
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(to), 64)
	if err != nil {
		return 0, 0, false
	}
	return lo, hi, true
}
