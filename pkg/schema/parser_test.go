package schema

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseTemplateSimpleOption(t *testing.T) {
	input := "### GENERAL ###\n\nFoo=bar\n"

	set := ParseTemplate(input, HiddenSections, "")

	if len(set.Sections) != 1 {
		t.Fatalf("Expected 1 section, got %d", len(set.Sections))
	}

	section := set.Sections[0]
	if section.Name != "GENERAL" || section.ID != "GENERAL" {
		t.Errorf("Unexpected section name/id: %q/%q", section.Name, section.ID)
	}
	if len(section.Options) != 1 {
		t.Fatalf("Expected 1 option, got %d", len(section.Options))
	}

	option := section.Options[0]
	if option.Name != "Foo" || option.Caption != "Foo" {
		t.Errorf("Unexpected option name/caption: %q/%q", option.Name, option.Caption)
	}
	if option.DefaultValue != "bar" {
		t.Errorf("Expected default 'bar', got %q", option.DefaultValue)
	}
	if option.Value != nil {
		t.Errorf("Expected nil value before merge, got %q", *option.Value)
	}
	if option.SectionID != "GENERAL" {
		t.Errorf("Expected section id GENERAL, got %q", option.SectionID)
	}

	MergeValues(set.Sections, []Value{{Name: "Foo", Value: "baz"}})

	if option.Value == nil || *option.Value != "baz" {
		t.Errorf("Expected value 'baz' after merge, got %v", option.Value)
	}
	if option.DefaultValue != "bar" {
		t.Errorf("Merge must not touch the default, got %q", option.DefaultValue)
	}
}

func TestParseTemplateChoices(t *testing.T) {
	input := `### MODE ###

# Selects the mode (fast, slow, auto).
#
# Longer text here.
Mode=fast
`

	set := ParseTemplate(input, nil, "")
	option, _ := set.FindOption("Mode")
	if option == nil {
		t.Fatal("Mode option not found")
	}

	if diff := cmp.Diff([]string{"fast", "slow", "auto"}, option.Choices); diff != "" {
		t.Errorf("Choices mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(option.Description, "Selects the mode.") {
		t.Errorf("Expected description to start with the stripped caption line, got %q", option.Description)
	}
	if want := "Selects the mode.\n \n Longer text here.\n"; option.Description != want {
		t.Errorf("Expected description %q, got %q", want, option.Description)
	}
	if option.Kind() != KindSwitch {
		t.Errorf("Expected switch kind, got %s", option.Kind())
	}
}

func TestParseTemplateChoicesNotAtEnd(t *testing.T) {
	input := "# Mode (fast, slow) of operation.\nMode=fast\n"

	set := ParseTemplate(input, nil, "")
	option := set.Sections[0].Options[0]

	if len(option.Choices) != 0 {
		t.Errorf("Expected no choices, got %v", option.Choices)
	}
	if option.Description != "Mode (fast, slow) of operation." {
		t.Errorf("Unexpected description %q", option.Description)
	}
}

func TestParseTemplateCaptionEndsAtFirstPeriod(t *testing.T) {
	// a line ending in an abbreviation still ends the caption line
	input := "### PATHS ###\n# Destination folder, e.g.\n# /downloads/dst.\nDestDir=\n"

	set := ParseTemplate(input, nil, "")
	option := set.Sections[0].Options[0]

	want := "Destination folder, e.g.\n /downloads/dst.\n"
	if option.Description != want {
		t.Errorf("Description = %q, want %q", option.Description, want)
	}
}

func TestParseTemplateNumericUnit(t *testing.T) {
	input := "# Article cache size (MB).\nArticleCache=100\n"

	set := ParseTemplate(input, nil, "")
	option := set.Sections[0].Options[0]

	if diff := cmp.Diff([]string{"MB"}, option.Choices); diff != "" {
		t.Errorf("Choices mismatch (-want +got):\n%s", diff)
	}
	if option.Kind() != KindNumeric || option.Unit() != "MB" {
		t.Errorf("Expected numeric option with unit MB, got %s/%q", option.Kind(), option.Unit())
	}
}

func TestParseTemplateDefaultSection(t *testing.T) {
	set := ParseTemplate("Foo=bar\n", nil, "")

	if len(set.Sections) != 1 {
		t.Fatalf("Expected 1 section, got %d", len(set.Sections))
	}
	if set.Sections[0].Name != DefaultSectionName {
		t.Errorf("Expected default section %q, got %q", DefaultSectionName, set.Sections[0].Name)
	}
	if set.Sections[0].Options[0].SectionID != DefaultSectionName {
		t.Errorf("Option not linked to default section: %q", set.Sections[0].Options[0].SectionID)
	}
}

func TestParseTemplateDefaultSectionKeepsCaptionLine(t *testing.T) {
	set := ParseTemplate("# Mode (a, b).\n# More text.\nX=1\n", nil, "")

	if set.Sections[0].Name != DefaultSectionName {
		t.Fatalf("Expected default section, got %q", set.Sections[0].Name)
	}
	option := set.Sections[0].Options[0]
	if diff := cmp.Diff([]string{"a", "b"}, option.Choices); diff != "" {
		t.Errorf("Choices mismatch (-want +got):\n%s", diff)
	}
	if option.Description != "Mode." {
		t.Errorf("Expected description %q, got %q", "Mode.", option.Description)
	}

	set = ParseTemplate("# (a, b).\nX=1\n", nil, "")
	option = set.Sections[0].Options[0]
	if diff := cmp.Diff([]string{"a", "b"}, option.Choices); diff != "" {
		t.Errorf("Choices mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTemplateHiddenSection(t *testing.T) {
	input := `### DISPLAY (TERMINAL) ###

OutputMode=color

### LOGGING ###

WriteLog=append
`

	set := ParseTemplate(input, HiddenSections, "")
	if len(set.Sections) != 2 {
		t.Fatalf("Expected 2 sections, got %d", len(set.Sections))
	}

	display := set.Sections[0]
	if !display.Hidden {
		t.Error("Expected DISPLAY (TERMINAL) to be hidden")
	}
	if display.ID != "DISPLAY_(TERMINAL)" {
		t.Errorf("Unexpected id %q", display.ID)
	}
	if set.Sections[1].Hidden {
		t.Error("LOGGING must stay visible")
	}
	if len(display.Options) != 1 {
		t.Fatalf("Hidden section lost its options: %d", len(display.Options))
	}

	MergeValues(set.Sections, []Value{{Name: "outputmode", Value: "curses"}})

	if v := display.Options[0].Value; v == nil || *v != "curses" {
		t.Errorf("Hidden option was not merged: %v", v)
	}
}

func TestParseTemplateVisibleSections(t *testing.T) {
	input := "### PATHS ###\nMainDir=~/downloads\n### LOGGING ###\nWriteLog=append\n"

	set := ParseTemplateVisible(input, []string{"PATHS"}, nil, "")

	if set.Sections[0].Hidden {
		t.Error("PATHS is listed as visible")
	}
	if !set.Sections[1].Hidden {
		t.Error("LOGGING is not listed as visible")
	}
}

func TestParseTemplatePostParamSection(t *testing.T) {
	set := ParseTemplate("### POST-PROCESSING-PARAMETERS ###\n*Unpack:=yes\n", HiddenSections, "")

	section := set.Sections[0]
	if !section.PostParam || !section.Hidden {
		t.Errorf("Expected hidden post-param section, got hidden=%v postparam=%v", section.Hidden, section.PostParam)
	}
}

func TestParseTemplateCommandPrecedence(t *testing.T) {
	input := `### COMMANDS ###
Foo=a@b
Bar@baz=qux
Reload[Danger]@Reload now
Check@Run check
`

	set := ParseTemplate(input, nil, "")
	options := set.Sections[0].Options
	if len(options) != 4 {
		t.Fatalf("Expected 4 options, got %d", len(options))
	}

	if options[0].Name != "Foo" || options[0].DefaultValue != "a@b" || options[0].IsCommand() {
		t.Errorf("Foo must be a plain option split on '=', got %+v", options[0])
	}
	if options[1].Name != "Bar@baz" || options[1].DefaultValue != "qux" || options[1].IsCommand() {
		t.Errorf("Bar@baz must be a plain option split on '=', got %+v", options[1])
	}

	reload := options[2]
	if !reload.IsCommand() || reload.CommandOpts != "danger" {
		t.Errorf("Expected command with tag 'danger', got %q", reload.CommandOpts)
	}
	if reload.Caption != "Reload" || reload.DefaultValue != "Reload now" {
		t.Errorf("Unexpected command caption/default: %q/%q", reload.Caption, reload.DefaultValue)
	}
	if reload.Kind() != KindCommand {
		t.Errorf("Expected command kind, got %s", reload.Kind())
	}

	if options[3].CommandOpts != DefaultCommandOpts {
		t.Errorf("Expected default command tag, got %q", options[3].CommandOpts)
	}
}

func TestParseTemplateDisabledOption(t *testing.T) {
	set := ParseTemplate("### GENERAL ###\n#Foo=bar\nBaz=qux\n", nil, "")
	options := set.Sections[0].Options

	if len(options) != 2 {
		t.Fatalf("Expected 2 options, got %d", len(options))
	}
	if options[0].Name != "Foo" || options[0].DefaultValue != "bar" {
		t.Errorf("Unexpected disabled option %q=%q", options[0].Name, options[0].DefaultValue)
	}
	if !options[0].Disabled {
		t.Error("Expected Foo to be disabled")
	}
	if options[1].Disabled {
		t.Error("Baz must stay enabled")
	}
}

func TestParseTemplateSectionDescription(t *testing.T) {
	input := `### ABOUT ###
# This is about text.
# More.

### GENERAL ###

Foo=bar
`

	set := ParseTemplate(input, nil, "")

	if want := "This is about text.\n More.\n"; set.Sections[0].Description != want {
		t.Errorf("Expected description %q, got %q", want, set.Sections[0].Description)
	}
	if set.Sections[1].Description != "" {
		t.Errorf("Expected no description for GENERAL, got %q", set.Sections[1].Description)
	}
}

func TestParseTemplateDescriptionAtEOF(t *testing.T) {
	set := ParseTemplate("### ABOUT ###\n# Only text.", nil, "")

	if want := "Only text.\n"; set.Sections[0].Description != want {
		t.Errorf("Expected description %q, got %q", want, set.Sections[0].Description)
	}
}

func TestParseTemplateRepeatable(t *testing.T) {
	input := `### NEWS-SERVERS ###

# Host name of the server.
Server1.Host=
# Port.
Server1.Port=119
Server2.Host=
`

	set := ParseTemplate(input, nil, "")
	section := set.Sections[0]

	if !section.Repeatable {
		t.Fatal("Expected repeatable section")
	}
	if section.RepeatablePrefix != "Server" {
		t.Errorf("Expected prefix 'Server', got %q", section.RepeatablePrefix)
	}

	var names []string
	for _, o := range section.Options {
		names = append(names, o.Name)
		if !o.Template || o.MultiID != 1 {
			t.Errorf("%s: expected template with multi id 1", o.Name)
		}
	}
	if diff := cmp.Diff([]string{"Server1.Host", "Server1.Port"}, names); diff != "" {
		t.Errorf("Options mismatch (-want +got):\n%s", diff)
	}
	if section.Options[0].Description != "Host name of the server.\n" {
		t.Errorf("Unexpected description %q", section.Options[0].Description)
	}
}

func TestParseTemplatePrefix(t *testing.T) {
	input := "### FEEDS ###\nFeed1.Url=\nVerbose=no\n"

	set := ParseTemplate(input, nil, "MyScript:")

	section := set.Sections[0]
	if section.ID != "MyScript_FEEDS" {
		t.Errorf("Unexpected section id %q", section.ID)
	}
	if section.RepeatablePrefix != "MyScript:Feed" {
		t.Errorf("Unexpected repeatable prefix %q", section.RepeatablePrefix)
	}
	if section.Options[0].Name != "MyScript:Feed1.Url" || section.Options[0].Caption != "Feed1.Url" {
		t.Errorf("Unexpected name/caption %q/%q", section.Options[0].Name, section.Options[0].Caption)
	}
	if len(section.Options) != 1 {
		t.Errorf("Plain options after a templated field are not kept in a repeatable section, got %d", len(section.Options))
	}
}

func TestParseTemplateCRLF(t *testing.T) {
	set := ParseTemplate("### GENERAL ###\r\n# Caption.\r\nFoo=bar\r\n", nil, "")

	if set.Sections[0].Name != "GENERAL" {
		t.Errorf("Unexpected section name %q", set.Sections[0].Name)
	}
	option := set.Sections[0].Options[0]
	if option.DefaultValue != "bar" || option.Description != "Caption.\n" {
		t.Errorf("CR leaked into option: %q / %q", option.DefaultValue, option.Description)
	}
}

func TestParseTemplateUniqueSectionIDs(t *testing.T) {
	set := ParseTemplate("### A.B ###\nX=1\n### A B ###\nY=2\n", nil, "")

	if set.Sections[0].ID != "A_B" || set.Sections[1].ID != "A_B_2" {
		t.Errorf("Expected distinct ids, got %q and %q", set.Sections[0].ID, set.Sections[1].ID)
	}
	if set.Sections[1].Options[0].SectionID != "A_B_2" {
		t.Errorf("Option linked to wrong section %q", set.Sections[1].Options[0].SectionID)
	}
}

func TestParseTemplateMalformed(t *testing.T) {
	inputs := []string{
		"",
		"=",
		"@",
		"#",
		"### ###",
		"# (a, b).\n#=x\n",
		"random text without delimiters",
	}

	for _, input := range inputs {
		set := ParseTemplate(input, HiddenSections, "")
		if set == nil {
			t.Errorf("%q: expected a config set", input)
		}
	}
}

func TestMakeID(t *testing.T) {
	tests := map[string]string{
		"NEWS-SERVERS":       "NEWS-SERVERS",
		"DISPLAY (TERMINAL)": "DISPLAY_(TERMINAL)",
		`a/b\c.d|e$f:g*h`:    "a_b_c_d_e_f_g_h",
	}

	for input, want := range tests {
		if got := MakeID(input); got != want {
			t.Errorf("MakeID(%q) = %q, want %q", input, got, want)
		}
	}
}
