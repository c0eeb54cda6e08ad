package values

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nzbgetcom/webconf/pkg/schema"
)

func TestParse(t *testing.T) {
	input := `# nzbget.conf
MainDir=~/downloads

# Servers
Server1.Host=news.example.com
Server1.Port=563
ControlPassword=a=b
`

	file, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	want := []schema.Value{
		{Name: "MainDir", Value: "~/downloads"},
		{Name: "Server1.Host", Value: "news.example.com"},
		{Name: "Server1.Port", Value: "563"},
		{Name: "ControlPassword", Value: "a=b"},
	}
	if diff := cmp.Diff(want, file.Values()); diff != "" {
		t.Errorf("Values mismatch (-want +got):\n%s", diff)
	}

	if v, ok := file.Get("server1.port"); !ok || v != "563" {
		t.Errorf("Expected Server1.Port='563', got '%s'", v)
	}
	if len(file.Lines) != 7 {
		t.Errorf("Expected 7 lines, got %d", len(file.Lines))
	}
}

func TestParseInvalid(t *testing.T) {
	for _, input := range []string{"NoSeparator\n", "=value\n"} {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("%q: expected an error", input)
		}
	}
}

func TestApply(t *testing.T) {
	input := "# header\nMainDir=/a\nServer1.Host=x\nServer2.Host=y\n"

	file, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	file.Apply([]schema.Value{
		{Name: "maindir", Value: "/b"},
		{Name: "Server1.Host", Value: "y"},
		{Name: "WriteLog", Value: "append"},
	})

	var buf bytes.Buffer
	if err := Write(&buf, file); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	want := "# header\nMainDir=/b\nServer1.Host=y\nWriteLog=append\n"
	if buf.String() != want {
		t.Errorf("Expected:\n%s\ngot:\n%s", want, buf.String())
	}
}

func TestSetDeleteMerge(t *testing.T) {
	file := FromValues([]schema.Value{{Name: "A", Value: "1"}})

	file.Set("a", "2")
	file.Merge([]schema.Value{{Name: "B", Value: "3"}})

	if diff := cmp.Diff([]schema.Value{{Name: "A", Value: "2"}, {Name: "B", Value: "3"}}, file.Values()); diff != "" {
		t.Errorf("Values mismatch (-want +got):\n%s", diff)
	}

	if !file.Delete("A") {
		t.Error("Expected A to be deleted")
	}
	if file.Delete("A") {
		t.Error("A was already deleted")
	}
}

func TestRoundTrip(t *testing.T) {
	input := "# comment\n\nMainDir=~/downloads\nServer1.Host=news\n"

	file, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, file); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	if buf.String() != input {
		t.Errorf("Round trip changed the file:\nwant %q\ngot  %q", input, buf.String())
	}
}
