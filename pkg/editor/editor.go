// Package editor walks a section's options through interactive prompts
// and stages the answers.
package editor

import (
	"context"
	"fmt"
	"strings"

	"github.com/nzbgetcom/webconf/pkg/schema"
)

// Target stages edited values. *config.Manager implements it; sections it
// returns are copies, so the editor fetches them again after adding instances.
type Target interface {
	Value(name string) (string, error)
	Set(ctx context.Context, name, value string) error
	AddInstance(ctx context.Context, sectionID string) (int, error)
	Section(id string) (*schema.Section, error)
}

// Editor prompts for the options of a section
type Editor struct {
	driver PromptDriver
	target Target
}

// New creates an editor; a nil driver prompts on the terminal
func New(target Target, driver PromptDriver) *Editor {
	if driver == nil {
		driver = NewSurveyDriver()
	}
	return &Editor{driver: driver, target: target}
}

// EditSection prompts for every editable option of section and stages the
// values that changed. Repeatable sections offer to add instances at the
// end. It returns the number of staged edits.
func (e *Editor) EditSection(ctx context.Context, section *schema.Section) (int, error) {
	if section.Hidden {
		return 0, fmt.Errorf("section %s is hidden", section.Name)
	}

	if section.Description != "" {
		if err := e.driver.Info(ctx, strings.TrimSpace(section.Description)); err != nil {
			return 0, err
		}
	}

	edited := 0
	for _, option := range section.Options {
		if option.Template {
			continue
		}
		changed, err := e.EditOption(ctx, option)
		if err != nil {
			return edited, err
		}
		if changed {
			edited++
		}
	}

	if !section.Repeatable {
		return edited, nil
	}

	for {
		more, err := e.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Add another %s?", instanceLabel(section)),
		})
		if err != nil {
			return edited, err
		}
		if !more {
			return edited, nil
		}

		id, err := e.target.AddInstance(ctx, section.ID)
		if err != nil {
			return edited, err
		}
		edited++

		section, err = e.target.Section(section.ID)
		if err != nil {
			return edited, err
		}
		for _, option := range section.InstanceOptions(id) {
			changed, err := e.EditOption(ctx, option)
			if err != nil {
				return edited, err
			}
			if changed {
				edited++
			}
		}
	}
}

// EditOption prompts for a single option and stages the answer when it
// differs from the current value
func (e *Editor) EditOption(ctx context.Context, option *schema.Option) (bool, error) {
	current, err := e.target.Value(option.Name)
	if err != nil {
		return false, err
	}

	var answer string
	switch option.Kind() {
	case schema.KindCommand, schema.KindInfo:
		return false, e.driver.Info(ctx, fmt.Sprintf("%s: %s", option.Caption, firstLine(option.Description)))

	case schema.KindSwitch:
		idx, err := e.driver.Select(ctx, SelectConfig{
			Message:      option.Caption,
			Options:      option.Choices,
			DefaultIndex: indexOf(option.Choices, option.Canonical(current)),
			Help:         option.Description,
		})
		if err != nil {
			return false, err
		}
		if idx < 0 || idx >= len(option.Choices) {
			return false, nil
		}
		answer = option.Choices[idx]

	case schema.KindPassword:
		answer, err = e.driver.Password(ctx, InputConfig{
			Message:   option.Caption + " (empty keeps the current one)",
			Help:      option.Description,
			Validator: option.Validate,
		})
		if err != nil {
			return false, err
		}
		if answer == "" {
			return false, nil
		}

	default:
		message := option.Caption
		if unit := option.Unit(); unit != "" {
			message += " (" + unit + ")"
		}
		answer, err = e.driver.Input(ctx, InputConfig{
			Message:   message,
			Default:   current,
			Help:      option.Description,
			Validator: option.Validate,
		})
		if err != nil {
			return false, err
		}
	}

	if answer == current {
		return false, nil
	}
	if err := e.target.Set(ctx, option.Name, answer); err != nil {
		return false, err
	}
	return true, nil
}

func instanceLabel(section *schema.Section) string {
	label := section.RepeatablePrefix
	if i := strings.LastIndex(label, ":"); i > -1 {
		label = label[i+1:]
	}
	if label == "" {
		return "entry"
	}
	return label
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	return line
}
