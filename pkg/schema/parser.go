package schema

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DefaultCommandOpts is assigned to command options without a [tag]
const DefaultCommandOpts = "settings"

// ParseTemplate parses template text into a ConfigSet. Sections named in
// hidden are flagged Hidden; prefix is prepended to every option name.
// Parsing never fails: malformed lines degrade to a best-effort structure.
func ParseTemplate(text string, hidden []string, prefix string) *ConfigSet {
	set, _ := Parse(strings.NewReader(text), nil, hidden, prefix)
	return set
}

// ParseTemplateVisible is ParseTemplate with an explicit list of visible
// sections; any section missing from a non-nil visible list is hidden.
func ParseTemplateVisible(text string, visible, hidden []string, prefix string) *ConfigSet {
	set, _ := Parse(strings.NewReader(text), visible, hidden, prefix)
	return set
}

// Parse reads a configuration template from r. The only error it returns
// comes from reading r; the returned set is usable either way.
func Parse(r io.Reader, visible, hidden []string, prefix string) (*ConfigSet, error) {
	p := &parser{
		set:     &ConfigSet{NamePrefix: prefix},
		visible: visible,
		hidden:  hidden,
		prefix:  prefix,
		ids:     make(map[string]int),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		p.parseLine(strings.TrimRight(scanner.Text(), "\r"))
	}

	// end of input behaves like a trailing blank line
	p.parseOther()

	if err := scanner.Err(); err != nil {
		return p.set, fmt.Errorf("scanner error: %w", err)
	}

	return p.set, nil
}

type parser struct {
	set     *ConfigSet
	visible []string
	hidden  []string
	prefix  string
	ids     map[string]int

	section     *Section
	description string
	firstLine   string
}

func (p *parser) parseLine(line string) {
	switch {
	case strings.HasPrefix(line, "### "):
		p.parseSection(line)
	case strings.HasPrefix(line, "# ") || line == "#":
		p.parseComment(line)
	case strings.Contains(line, "=") || strings.Contains(line, "@"):
		p.parseOption(line)
	default:
		p.parseOther()
	}
}

func (p *parser) parseSection(line string) {
	name := strings.TrimSuffix(strings.TrimSpace(line[4:]), "###")
	p.openSection(strings.TrimSpace(name))
}

func (p *parser) openSection(name string) {
	section := &Section{
		Name:      name,
		ID:        p.uniqueID(MakeID(p.prefix + name)),
		Options:   []*Option{},
		Hidden:    contains(p.hidden, name) || (p.visible != nil && !contains(p.visible, name)),
		PostParam: contains(PostParamSections, name),
	}
	p.set.Sections = append(p.set.Sections, section)
	p.section = section
	p.description = ""
	p.firstLine = ""
}

// uniqueID keeps section ids distinct when different names collapse to the same id
func (p *parser) uniqueID(id string) string {
	p.ids[id]++
	if n := p.ids[id]; n > 1 {
		return id + "_" + strconv.Itoa(n)
	}
	return id
}

func (p *parser) parseComment(line string) {
	if p.description != "" {
		p.description += " "
	}

	// an indented comment starts a new paragraph
	if len(line) > 2 && line[2] == ' ' && (len(line) == 3 || line[3] != ' ') &&
		!strings.HasSuffix(p.description, "\n \n ") {
		p.description += "\n"
	}

	p.description += strings.TrimSpace(line[1:])

	var last byte
	if p.description != "" {
		last = p.description[len(p.description)-1]
	}

	if last == '.' && p.firstLine == "" {
		p.firstLine = p.description
		p.description = ""
	}

	if last == 0 || last == '.' || last == ';' || last == ':' || line == "#" {
		p.description += "\n"
	}
}

func (p *parser) parseOption(line string) {
	if p.section == nil {
		// only the description is dropped; the caption line still applies
		firstLine := p.firstLine
		p.openSection(DefaultSectionName)
		p.firstLine = firstLine
	}

	enabled := !strings.HasPrefix(line, "#")
	command := !strings.Contains(line, "=")
	sep := "="
	if command {
		sep = "@"
	}

	start := 0
	if !enabled {
		start = 1
	}
	pos := strings.Index(line, sep)

	option := &Option{
		SectionID:    p.section.ID,
		Choices:      []string{},
		Disabled:     !enabled,
		DefaultValue: strings.TrimSpace(line[pos+1:]),
		MultiID:      1,
	}

	caption := ""
	if pos > start {
		caption = strings.TrimSpace(line[start:pos])
	}

	if command {
		option.CommandOpts = DefaultCommandOpts
		if open := strings.Index(caption, "["); open > -1 {
			tag := caption[open+1:]
			if end := strings.Index(tag, "]"); end > -1 {
				tag = tag[:end]
			}
			option.CommandOpts = strings.ToLower(tag)
			caption = strings.TrimSpace(caption[:open])
		}
	}

	option.Caption = caption
	option.Name = p.prefix + caption

	option.Choices, p.firstLine = extractChoices(p.firstLine)

	if strings.Contains(option.Name[len(p.prefix):], "1.") {
		p.section.Repeatable = true
		p.section.RepeatablePrefix = option.Name[:strings.Index(option.Name, "1.")]
	}

	if !p.section.Repeatable || strings.Contains(option.Name, "1.") {
		p.section.Options = append(p.section.Options, option)
	}

	if p.section.Repeatable {
		option.Template = true
	}

	option.Description = p.firstLine + p.description
	p.description = ""
	p.firstLine = ""
}

// extractChoices pulls a trailing "(a, b, c)." list out of the caption line
func extractChoices(firstLine string) ([]string, string) {
	choices := []string{}

	open := strings.LastIndex(firstLine, "(")
	end := strings.LastIndex(firstLine, ")")
	if open < 0 || end < 0 || end != len(firstLine)-2 || open > end {
		return choices, firstLine
	}

	for _, choice := range strings.Split(firstLine[open+1:end], ",") {
		choices = append(choices, strings.TrimSpace(choice))
	}

	return choices, strings.TrimSpace(firstLine[:open]) + "."
}

func (p *parser) parseOther() {
	if p.section != nil && len(p.section.Options) == 0 {
		if text := p.firstLine + p.description; text != "" {
			p.section.Description = text
		}
	}
	p.description = ""
	p.firstLine = ""
}
