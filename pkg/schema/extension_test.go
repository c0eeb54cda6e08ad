package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func videoSort() Extension {
	return Extension{
		Name:         "VideoSort",
		DisplayName:  "Video Sorter",
		Description:  []string{"Sorts videos.", "More."},
		Requirements: []string{"Python 3", ""},
		PostScript:   true,
		Commands: []ExtensionCommand{
			{Name: "Test", DisplayName: "Test connection", Action: "Run", Section: "options"},
		},
		Options: []ExtensionOption{
			{Name: "Verbose", DisplayName: "Verbose", Value: "no", Select: []any{"yes", "no"}, Section: "Options"},
			{Name: "Port", DisplayName: "Port", Value: float64(8080), Select: []any{float64(1), float64(65535)}, Section: "Connection"},
			{Name: "Url", DisplayName: "Url", Prefix: "Feed", Multi: true, Value: "", Select: []any{}, Section: "Feeds"},
			{Name: "Header", DisplayName: "Header", Value: nil, Section: "Options"},
		},
	}
}

func TestFromExtension(t *testing.T) {
	set := FromExtension(videoSort())

	if set.NamePrefix != "VideoSort:" || set.DisplayName != "Video Sorter" {
		t.Errorf("Unexpected prefix/display name %q/%q", set.NamePrefix, set.DisplayName)
	}
	if want := "Sorts videos.\nMore.\n\nNOTE: Python 3\n\n"; set.Description != want {
		t.Errorf("Expected description %q, got %q", want, set.Description)
	}
	if !set.Post || set.Scan || set.DefScheduler {
		t.Errorf("Unexpected kind flags: post=%v scan=%v defscheduler=%v", set.Post, set.Scan, set.DefScheduler)
	}

	var ids []string
	for _, s := range set.Sections {
		ids = append(ids, s.ID)
	}
	if diff := cmp.Diff([]string{"VideoSort_OPTIONS", "VideoSort_CONNECTION", "VideoSort_FEEDS"}, ids); diff != "" {
		t.Errorf("Sections mismatch (-want +got):\n%s", diff)
	}

	var names []string
	for _, o := range set.Sections[0].Options {
		names = append(names, o.Name)
	}
	if diff := cmp.Diff([]string{"VideoSort:Test", "VideoSort:Verbose", "VideoSort:Header"}, names); diff != "" {
		t.Errorf("Options mismatch (-want +got):\n%s", diff)
	}

	test := set.Sections[0].Options[0]
	if test.Kind() != KindCommand || test.DefaultValue != "Run" {
		t.Errorf("Expected command with action Run, got %s/%q", test.Kind(), test.DefaultValue)
	}
	if header := set.Sections[0].Options[2]; header.Kind() != KindInfo {
		t.Errorf("Expected info kind for a valueless option, got %s", header.Kind())
	}

	port := set.Sections[1].Options[0]
	if diff := cmp.Diff([]string{"1-65535"}, port.Choices); diff != "" {
		t.Errorf("Port choices mismatch (-want +got):\n%s", diff)
	}
	if port.DefaultValue != "8080" || port.Kind() != KindNumeric {
		t.Errorf("Unexpected port %q/%s", port.DefaultValue, port.Kind())
	}

	feeds := set.Sections[2]
	if !feeds.Repeatable || feeds.RepeatablePrefix != "VideoSort:Feed" {
		t.Errorf("Expected repeatable feeds with prefix VideoSort:Feed, got %v/%q", feeds.Repeatable, feeds.RepeatablePrefix)
	}
	if feeds.Options[0].Name != "VideoSort:Feed1.Url" || !feeds.Options[0].Template {
		t.Errorf("Unexpected feed template %q", feeds.Options[0].Name)
	}
}

func TestFromExtensionMerge(t *testing.T) {
	set := FromExtension(videoSort())

	MergeValues(set.Sections, []Value{
		{Name: "VideoSort:Verbose", Value: "yes"},
		{Name: "VideoSort:Feed1.Url", Value: "http://a"},
		{Name: "VideoSort:Feed2.Url", Value: "http://b"},
	})

	if o, _ := set.FindOption("videosort:verbose"); o == nil || o.Effective() != "yes" {
		t.Errorf("Verbose not merged: %+v", o)
	}
	if o, _ := set.FindOption("VideoSort:Port"); o == nil || o.Value != nil || o.Effective() != "8080" {
		t.Errorf("Port must fall back to its default: %+v", o)
	}
	if diff := cmp.Diff([]int{1, 2}, set.Sections[2].Instances()); diff != "" {
		t.Errorf("Feed instances mismatch (-want +got):\n%s", diff)
	}
}

func TestPostParamSection(t *testing.T) {
	exts := []Extension{
		videoSort(),
		{Name: "Scanner", ScanScript: true},
		{Name: "Queuer", DisplayName: "Queue", QueueScript: true, About: "Queue it."},
	}

	section := PostParamSection(exts)

	if section.ID != PostParamSectionID || !section.PostParam {
		t.Errorf("Unexpected section %q postparam=%v", section.ID, section.PostParam)
	}
	if len(section.Options) != 2 {
		t.Fatalf("Expected 2 options, got %d", len(section.Options))
	}

	first := section.Options[0]
	if first.Name != "VideoSort:" || first.DefaultValue != "no" || first.Kind() != KindSwitch {
		t.Errorf("Unexpected option %q=%q (%s)", first.Name, first.DefaultValue, first.Kind())
	}
	if first.About != "Extension script VideoSort." {
		t.Errorf("Unexpected fallback about %q", first.About)
	}
	if section.Options[1].About != "Queue it." {
		t.Errorf("Unexpected about %q", section.Options[1].About)
	}
}
