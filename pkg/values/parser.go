package values

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Parse parses a values file from a reader
func Parse(r io.Reader) (*File, error) {
	file := NewFile()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			file.Lines = append(file.Lines, &Line{Kind: LineBlank})

		case strings.HasPrefix(trimmed, "#"):
			file.Lines = append(file.Lines, &Line{Kind: LineComment, Text: line})

		default:
			// Parse: Name=Value, the value may itself contain '='
			name, value, found := strings.Cut(trimmed, "=")
			name = strings.TrimSpace(name)
			if !found || name == "" {
				return nil, fmt.Errorf("line %d: invalid entry: %s", lineNum, trimmed)
			}
			file.Lines = append(file.Lines, &Line{
				Kind:  LineEntry,
				Name:  name,
				Value: strings.TrimSpace(value),
			})
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %w", err)
	}

	return file, nil
}

// Write writes a values file to a writer
func Write(w io.Writer, file *File) error {
	for _, l := range file.Lines {
		var err error
		switch l.Kind {
		case LineBlank:
			_, err = fmt.Fprintln(w)
		case LineComment:
			_, err = fmt.Fprintln(w, l.Text)
		default:
			_, err = fmt.Fprintf(w, "%s=%s\n", l.Name, l.Value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
