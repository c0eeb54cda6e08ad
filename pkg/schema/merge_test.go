package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const serversTemplate = `### NEWS-SERVERS ###

# Host name of the server.
Server1.Host=
# Port.
Server1.Port=119

### GENERAL ###

MainDir=~/downloads
Reload@Reload
`

type optionView struct {
	Name    string
	Caption string
	MultiID int
	Value   string
	Set     bool
}

func instanceViews(section *Section) []optionView {
	var views []optionView
	for _, o := range section.Options {
		if o.Template {
			continue
		}
		view := optionView{Name: o.Name, Caption: o.Caption, MultiID: o.MultiID}
		if o.Value != nil {
			view.Value, view.Set = *o.Value, true
		}
		views = append(views, view)
	}
	return views
}

func TestMergeValuesRepeatable(t *testing.T) {
	set := ParseTemplate(serversTemplate, HiddenSections, "")
	values := []Value{
		{Name: "Server1.Host", Value: "news.example.com"},
		{Name: "Server2.Host", Value: "backup.example.com"},
		{Name: "Server2.Port", Value: "563"},
		{Name: "server3.host", Value: "third.example.com"},
		{Name: "Server5.Host", Value: "orphan.example.com"},
	}

	MergeValues(set.Sections, values)

	want := []optionView{
		{Name: "Server1.Host", Caption: "Server1.Host", MultiID: 1, Value: "news.example.com", Set: true},
		{Name: "Server1.Port", Caption: "Server1.Port", MultiID: 1},
		{Name: "Server2.Host", Caption: "Server2.Host", MultiID: 2, Value: "backup.example.com", Set: true},
		{Name: "Server2.Port", Caption: "Server2.Port", MultiID: 2, Value: "563", Set: true},
		{Name: "Server3.Host", Caption: "Server3.Host", MultiID: 3, Value: "third.example.com", Set: true},
		{Name: "Server3.Port", Caption: "Server3.Port", MultiID: 3},
	}

	if diff := cmp.Diff(want, instanceViews(set.Sections[0])); diff != "" {
		t.Errorf("Instances mismatch (-want +got):\n%s", diff)
	}

	port, _ := set.FindOption("Server3.Port")
	if port == nil || port.DefaultValue != "119" || port.Description != "Port.\n" {
		t.Errorf("Template fields not cloned into instance 3: %+v", port)
	}
	if got := set.Sections[0].Instances(); !cmp.Equal(got, []int{1, 2, 3}) {
		t.Errorf("Expected instances [1 2 3], got %v", got)
	}
}

func TestMergeValuesNoInstances(t *testing.T) {
	set := ParseTemplate(serversTemplate, HiddenSections, "")

	MergeValues(set.Sections, []Value{{Name: "MainDir", Value: "/data"}})

	section := set.Sections[0]
	if len(section.Options) != 2 {
		t.Errorf("Expected only the templates, got %d options", len(section.Options))
	}
	if len(section.Instances()) != 0 {
		t.Errorf("Expected no instances, got %v", section.Instances())
	}
}

func TestMergeValuesPlain(t *testing.T) {
	set := ParseTemplate(serversTemplate, HiddenSections, "")

	MergeValues(set.Sections, []Value{
		{Name: "maindir", Value: "/data"},
		{Name: "Reload", Value: "ignored"},
	})

	general := set.Sections[1]
	if v := general.Options[0].Value; v == nil || *v != "/data" {
		t.Errorf("Expected MainDir=/data, got %v", v)
	}
	if general.Options[1].Value != nil {
		t.Errorf("Commands never carry a value, got %q", *general.Options[1].Value)
	}

	MergeValues(set.Sections, nil)

	if general.Options[0].Value != nil {
		t.Error("A value missing from the live set must reset to nil")
	}
}

func TestMergeValuesIdempotent(t *testing.T) {
	set := ParseTemplate(serversTemplate, HiddenSections, "")
	values := []Value{
		{Name: "Server1.Host", Value: "a"},
		{Name: "Server2.Host", Value: "b"},
		{Name: "Server3.Host", Value: "c"},
	}

	MergeValues(set.Sections, values)
	first := instanceViews(set.Sections[0])

	MergeValues(set.Sections, values)
	second := instanceViews(set.Sections[0])

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Second merge changed the schema (-first +second):\n%s", diff)
	}
	if len(set.Sections[0].Options) != 2+6 {
		t.Errorf("Expected 8 options after two merges, got %d", len(set.Sections[0].Options))
	}

	fresh := ParseTemplate(serversTemplate, HiddenSections, "")
	MergeValues(fresh.Sections, values)
	if diff := cmp.Diff(first, instanceViews(fresh.Sections[0])); diff != "" {
		t.Errorf("Re-parse and merge differs (-first +fresh):\n%s", diff)
	}
}

func TestMergeValuesPrefixedPlaceholder(t *testing.T) {
	set := ParseTemplate("### TASKS ###\nTask1.Time=\n", nil, "Sched1:")

	MergeValues(set.Sections, []Value{
		{Name: "Sched1:Task1.Time", Value: "10:00"},
		{Name: "Sched1:Task2.Time", Value: "11:00"},
	})

	want := []optionView{
		{Name: "Sched1:Task1.Time", Caption: "Task1.Time", MultiID: 1, Value: "10:00", Set: true},
		{Name: "Sched1:Task2.Time", Caption: "Task2.Time", MultiID: 2, Value: "11:00", Set: true},
	}
	if diff := cmp.Diff(want, instanceViews(set.Sections[0])); diff != "" {
		t.Errorf("Instances mismatch (-want +got):\n%s", diff)
	}
}

func TestInstanceName(t *testing.T) {
	tests := []struct {
		name, prefix string
		k            int
		want         string
	}{
		{"Server1.Host", "Server", 12, "Server12.Host"},
		{"X1:Feed1.Url", "X1:Feed", 3, "X1:Feed3.Url"},
		{"Feed1.Url", "", 2, "Feed2.Url"},
		{"NoPlaceholder", "", 2, "NoPlaceholder"},
	}

	for _, tt := range tests {
		if got := instanceName(tt.name, tt.prefix, tt.k); got != tt.want {
			t.Errorf("instanceName(%q, %q, %d) = %q, want %q", tt.name, tt.prefix, tt.k, got, tt.want)
		}
	}
}
